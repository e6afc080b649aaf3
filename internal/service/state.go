package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"aquasphere/internal/database"
)

// stateFields maps request keys to user columns. Order is fixed so the
// generated UPDATE is deterministic.
var stateFields = []struct {
	key    string
	column string
}{
	{"cart", "saved_cart"},
	{"delivery_address", "delivery_address"},
	{"selected_cart_items", "selected_cart_items"},
	{"checkout_items", "checkout_items"},
	{"pending_order_id", "pending_order_id"},
	{"pending_checkout_items", "pending_checkout_items"},
	{"payment_redirect_time", "payment_redirect_time"},
	{"paymongo_checkout_url", "paymongo_checkout_url"},
	{"payment_page_url", "payment_page_url"},
	{"pending_cancellation_orders", "pending_cancellation_orders"},
}

// stateDefaults is the response shape when a field has never been saved.
var stateDefaults = map[string]any{
	"cart":                        []any{},
	"delivery_address":            nil,
	"selected_cart_items":         []any{},
	"checkout_items":              []any{},
	"pending_order_id":            nil,
	"pending_checkout_items":      nil,
	"payment_redirect_time":       nil,
	"paymongo_checkout_url":       nil,
	"payment_page_url":            nil,
	"pending_cancellation_orders": []any{},
}

// StateService persists the per-user saved-state blob (the browser
// localStorage equivalent). Saves are partial: only the provided fields are
// written, and an explicit null clears a field.
type StateService struct {
	db *database.DB
}

func NewStateService(db *database.DB) *StateService {
	return &StateService{db: db}
}

func (s *StateService) Save(ctx context.Context, userID int64, fields map[string]json.RawMessage) error {
	var (
		sets []string
		args []any
	)
	for _, f := range stateFields {
		raw, ok := fields[f.key]
		if !ok {
			continue
		}
		sets = append(sets, f.column+" = ?")
		if string(raw) == "null" {
			args = append(args, nil)
		} else {
			args = append(args, string(raw))
		}
	}
	if len(sets) == 0 {
		return nil
	}

	query := "UPDATE users SET "
	for i, set := range sets {
		if i > 0 {
			query += ", "
		}
		query += set
	}
	query += ", updated_at = ? WHERE id = ?"
	args = append(args, time.Now(), userID)

	res, err := s.db.ExecContext(ctx, s.db.Rebind(query), args...)
	if err != nil {
		return fmt.Errorf("save user state: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return ErrUserNotFound
	}
	return nil
}

func (s *StateService) Get(ctx context.Context, userID int64) (map[string]any, error) {
	query := `SELECT `
	for i, f := range stateFields {
		if i > 0 {
			query += ", "
		}
		query += f.column
	}
	query += ` FROM users WHERE id = ?`

	cols := make([]sql.NullString, len(stateFields))
	dest := make([]any, len(stateFields))
	for i := range cols {
		dest[i] = &cols[i]
	}

	err := s.db.QueryRowxContext(ctx, s.db.Rebind(query), userID).Scan(dest...)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get user state: %w", err)
	}

	state := make(map[string]any, len(stateFields))
	for i, f := range stateFields {
		if !cols[i].Valid || cols[i].String == "" {
			state[f.key] = stateDefaults[f.key]
			continue
		}
		if json.Valid([]byte(cols[i].String)) {
			state[f.key] = json.RawMessage(cols[i].String)
		} else {
			state[f.key] = cols[i].String
		}
	}

	return state, nil
}
