package model

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/uptrace/bun"
)

type SessionState string

const (
	// logged in, looking at the event listing
	SESSION_STATE_LISTING = SessionState("listing")
	// logged in, editing one event
	SESSION_STATE_EDITING = SessionState("editing")
)

type Session struct {
	bun.BaseModel `bun:"table:sessions"`

	Secret           string        `bun:"secret,pk"`          // required
	UserID           int64         `bun:"user_id,notnull"`    // required
	Username         string        `bun:"username,notnull"`   // required
	EditingEventID   sql.NullInt64 `bun:"editing_event_id"`   // NULL while listing
	CreatedAtUnixUTC int64         `bun:"created_at,notnull"` // required
}

func (s *Session) State() SessionState {
	if s.EditingEventID.Valid {
		return SESSION_STATE_EDITING
	}
	return SESSION_STATE_LISTING
}

// SetEditing moves the session into the editing state for one event.
func (s *Session) SetEditing(ctx context.Context, db bun.IDB, eventID int64) error {
	s.EditingEventID = sql.NullInt64{Int64: eventID, Valid: true}
	if _, err := db.NewUpdate().
		Model(s).
		Column("editing_event_id").
		Where("secret = ?", s.Secret).
		Exec(ctx); err != nil {
		return fmt.Errorf("Session.SetEditing: %w", err)
	}
	return nil
}

// ClearEditing puts the session back into the listing state. Used after a
// save, a cancel, and when the edited event turns out to be gone.
func (s *Session) ClearEditing(ctx context.Context, db bun.IDB) error {
	s.EditingEventID = sql.NullInt64{}
	if _, err := db.NewUpdate().
		Model(s).
		Column("editing_event_id").
		Where("secret = ?", s.Secret).
		Exec(ctx); err != nil {
		return fmt.Errorf("Session.ClearEditing: %w", err)
	}
	return nil
}
