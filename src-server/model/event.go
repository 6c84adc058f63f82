package model

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/uptrace/bun"
)

var (
	ErrEventNotFound = errors.New("event not found")
	ErrEventNotOwned = errors.New("event belongs to another account")
)

// DateLayout is how event dates are stored in the DATE columns.
const DateLayout = "2006-01-02"

type EventCategory string

const (
	CATEGORY_SHOW      = EventCategory("Show")
	CATEGORY_CONGRESSO = EventCategory("Congresso")
	CATEGORY_FEIRA     = EventCategory("Feira")
	CATEGORY_WORKSHOP  = EventCategory("Workshop")
	CATEGORY_OUTRO     = EventCategory("Outro")
)

func Categories() []EventCategory {
	return []EventCategory{
		CATEGORY_SHOW,
		CATEGORY_CONGRESSO,
		CATEGORY_FEIRA,
		CATEGORY_WORKSHOP,
		CATEGORY_OUTRO,
	}
}

func (c EventCategory) Valid() bool {
	for _, category := range Categories() {
		if c == category {
			return true
		}
	}
	return false
}

// FieldErrors aggregates validation failures per form field so the client
// can report all of them at once.
type FieldErrors map[string]string

func (fe FieldErrors) Error() string {
	fields := make([]string, 0, len(fe))
	for field := range fe {
		fields = append(fields, field)
	}
	sort.Strings(fields)
	parts := make([]string, 0, len(fields))
	for _, field := range fields {
		parts = append(parts, field+": "+fe[field])
	}
	return "invalid fields: " + strings.Join(parts, "; ")
}

type Event struct {
	bun.BaseModel `bun:"table:events"`

	ID     int64 `bun:"id,pk,autoincrement"`
	UserID int64 `bun:"user_id,notnull"`

	Name  string `bun:"name,notnull"`
	Venue string `bun:"venue"`
	City  string `bun:"city"`
	State string `bun:"state"`

	StartDate string `bun:"start_date"`
	EndDate   string `bun:"end_date"`

	Attendance  int    `bun:"attendance"`
	Description string `bun:"description"`
	Category    string `bun:"category"`
	Segment     string `bun:"segment"`
}

func (e *Event) validate() error {
	fieldErrs := FieldErrors{}
	if strings.TrimSpace(e.Name) == "" {
		fieldErrs["name"] = "preencha o nome do evento"
	}
	if strings.TrimSpace(e.Venue) == "" {
		fieldErrs["venue"] = "preencha o local"
	}
	if strings.TrimSpace(e.City) == "" {
		fieldErrs["city"] = "selecione a cidade"
	}
	if !EventCategory(e.Category).Valid() {
		fieldErrs["category"] = "selecione uma categoria"
	}
	if strings.TrimSpace(e.Segment) == "" {
		fieldErrs["segment"] = "preencha o segmento"
	}
	if strings.TrimSpace(e.Description) == "" {
		fieldErrs["description"] = "preencha a descrição"
	}
	if e.Attendance < 1 {
		fieldErrs["attendance"] = "quantidade esperada deve ser pelo menos 1"
	}

	startDate, err := time.Parse(DateLayout, e.StartDate)
	if err != nil {
		fieldErrs["startDate"] = "selecione a data de início"
	}
	endDate, err := time.Parse(DateLayout, e.EndDate)
	if err != nil {
		fieldErrs["endDate"] = "selecione a data de fim"
	}
	if _, ok := fieldErrs["startDate"]; !ok {
		if _, ok := fieldErrs["endDate"]; !ok && startDate.After(endDate) {
			fieldErrs["endDate"] = "data de fim antes da data de início"
		}
	}

	if len(fieldErrs) > 0 {
		return fieldErrs
	}
	return nil
}

// Insert validates the event and writes a new row. The assigned id is set
// on the model afterwards.
func (e *Event) Insert(ctx context.Context, db bun.IDB) error {
	if e.UserID == 0 {
		return fmt.Errorf("Event.Insert: owner id is required")
	}
	if err := e.validate(); err != nil {
		return err
	}

	ownerExists, err := db.NewSelect().
		Model((*User)(nil)).
		Where("id = ?", e.UserID).
		Exists(ctx)
	switch {
	case err != nil:
		return fmt.Errorf("Event.Insert: can't check if owner exists: %w", err)
	case !ownerExists:
		return fmt.Errorf("Event.Insert: owner id not found")
	}

	if _, err := db.NewInsert().
		Model(e).
		Exec(ctx); err != nil {
		return fmt.Errorf("Event.Insert: %w", err)
	}
	return nil
}

// Update overwrites every mutable field of the stored row. The row must
// exist and must belong to e.UserID; there is no partial update.
func (e *Event) Update(ctx context.Context, db bun.IDB) error {
	if e.ID == 0 {
		return fmt.Errorf("Event.Update: event id is required")
	}
	if err := e.validate(); err != nil {
		return err
	}

	storedModel := new(Event)
	if err := db.NewSelect().
		Model(storedModel).
		Where("id = ?", e.ID).
		Scan(ctx); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrEventNotFound
		}
		return fmt.Errorf("Event.Update: %w", err)
	}
	if storedModel.UserID != e.UserID {
		return ErrEventNotOwned
	}

	if _, err := db.NewUpdate().
		Model(e).
		Column("name", "venue", "city", "state", "start_date", "end_date",
			"attendance", "description", "category", "segment").
		Where("id = ?", e.ID).
		Exec(ctx); err != nil {
		return fmt.Errorf("Event.Update: %w", err)
	}
	return nil
}

// ListEventsByOwner returns every event the account submitted, in insertion
// order.
func ListEventsByOwner(ctx context.Context, db bun.IDB, ownerID int64) ([]Event, error) {
	eventModels := make([]Event, 0)
	if err := db.NewSelect().
		Model(&eventModels).
		Where("user_id = ?", ownerID).
		Order("id ASC").
		Scan(ctx); err != nil {
		return nil, fmt.Errorf("ListEventsByOwner: %w", err)
	}
	return eventModels, nil
}

func FindEventByID(ctx context.Context, db bun.IDB, id int64) (*Event, error) {
	eventModel := new(Event)
	if err := db.NewSelect().
		Model(eventModel).
		Where("id = ?", id).
		Scan(ctx); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrEventNotFound
		}
		return nil, fmt.Errorf("FindEventByID: %w", err)
	}
	return eventModel, nil
}
