// Package migrations holds the goose migrations for the sqlite schema.
// Importing the package registers them; Up applies anything pending.
package migrations

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/pressly/goose/v3"
)

// Up brings the schema to the latest version. dir is where the migration
// sources live, relative to the working directory.
func Up(ctx context.Context, db *sql.DB, dir string) error {
	if err := goose.SetDialect("sqlite3"); err != nil {
		return fmt.Errorf("migrations.Up: %w", err)
	}
	if err := goose.UpContext(ctx, db, dir); err != nil {
		return fmt.Errorf("migrations.Up: %w", err)
	}
	return nil
}
