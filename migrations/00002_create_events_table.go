package migrations

import (
	"context"
	"database/sql"

	"github.com/pressly/goose/v3"
)

func init() {
	goose.AddMigrationContext(upCreateEventsTable, downCreateEventsTable)
}

func upCreateEventsTable(ctx context.Context, tx *sql.Tx) error {
	_, err := tx.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS events (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			user_id INTEGER NOT NULL,
			name TEXT NOT NULL,
			venue TEXT,
			city TEXT,
			state TEXT,
			start_date DATE,
			end_date DATE,
			attendance INTEGER,
			description TEXT,
			category TEXT,
			FOREIGN KEY (user_id) REFERENCES users (id)
		);
	`)
	if err != nil {
		return err
	}
	return nil
}

func downCreateEventsTable(ctx context.Context, tx *sql.Tx) error {
	_, err := tx.ExecContext(ctx, `
		DROP TABLE events;
	`)
	if err != nil {
		return err
	}
	return nil
}
