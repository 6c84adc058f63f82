package migrations

import (
	"context"
	"database/sql"

	"github.com/pressly/goose/v3"
)

func init() {
	goose.AddMigrationContext(upAddSegmentColumn, downAddSegmentColumn)
}

// The segment field arrived after events tables already existed in the
// wild, so it has to be added in place without touching existing rows.
func upAddSegmentColumn(ctx context.Context, tx *sql.Tx) error {
	rows, err := tx.QueryContext(ctx, `PRAGMA table_info(events);`)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			cid        int
			name       string
			colType    string
			notNull    int
			defaultVal sql.NullString
			pk         int
		)
		if err := rows.Scan(&cid, &name, &colType, &notNull, &defaultVal, &pk); err != nil {
			return err
		}
		if name == "segment" {
			return nil
		}
	}
	if err := rows.Err(); err != nil {
		return err
	}

	if _, err := tx.ExecContext(ctx, `
		ALTER TABLE events ADD COLUMN segment TEXT;
	`); err != nil {
		return err
	}
	return nil
}

func downAddSegmentColumn(ctx context.Context, tx *sql.Tx) error {
	_, err := tx.ExecContext(ctx, `
		ALTER TABLE events DROP COLUMN segment;
	`)
	if err != nil {
		return err
	}
	return nil
}
