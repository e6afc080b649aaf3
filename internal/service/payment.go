package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"aquasphere/internal/database"
	"aquasphere/internal/model"
)

var (
	ErrInvalidAmount      = errors.New("invalid amount")
	ErrMissingRedirectURL = errors.New("redirect URL is required")
)

// EventSourceChargeable is the only webhook event type acted upon.
const EventSourceChargeable = "source.chargeable"

type PaymentService struct {
	db       *database.DB
	paymongo *PayMongoClient
}

func NewPaymentService(db *database.DB, paymongo *PayMongoClient) *PaymentService {
	return &PaymentService{db: db, paymongo: paymongo}
}

// CreateSource asks the gateway for a redirectable checkout source and, when
// an order id is supplied, stores the issued source id on that order. The
// order is not touched on gateway failure. Re-invocation for the same order
// creates a new unrelated source and overwrites the stored id; there is no
// idempotency key.
func (s *PaymentService) CreateSource(ctx context.Context, amount decimal.Decimal, orderID int64, redirectURL string) (*Source, error) {
	if amount.LessThanOrEqual(decimal.Zero) {
		return nil, ErrInvalidAmount
	}
	if redirectURL == "" {
		return nil, ErrMissingRedirectURL
	}

	src, err := s.paymongo.CreateSource(ctx, amount, redirectURL)
	if err != nil {
		return nil, err
	}

	if orderID > 0 {
		_, err := s.db.ExecContext(ctx, s.db.Rebind(
			`UPDATE orders SET paymongo_source_id = ? WHERE id = ?`), src.ID, orderID)
		if err != nil {
			return nil, fmt.Errorf("store payment source: %w", err)
		}
	}

	return src, nil
}

// ProcessWebhook handles an asynchronous gateway notification. Only
// source.chargeable events act; everything else is acknowledged with no side
// effect. Errors are returned for logging only; the caller must still
// acknowledge the gateway.
func (s *PaymentService) ProcessWebhook(ctx context.Context, eventType, sourceID string) error {
	if eventType != EventSourceChargeable {
		return nil
	}

	var (
		orderID int64
		total   decimal.Decimal
	)
	err := s.db.QueryRowxContext(ctx, s.db.Rebind(
		`SELECT id, total_amount FROM orders WHERE paymongo_source_id = ?`), sourceID).
		Scan(&orderID, &total)
	if errors.Is(err, sql.ErrNoRows) {
		slog.Info("webhook source matches no order", "source_id", sourceID)
		return nil
	}
	if err != nil {
		return fmt.Errorf("find order by source: %w", err)
	}

	payment, err := s.paymongo.CreatePayment(ctx, total, sourceID, fmt.Sprintf("Order #%d", orderID))
	if err != nil {
		return fmt.Errorf("create payment for order %d: %w", orderID, err)
	}

	var status model.OrderStatus
	switch payment.Status {
	case "paid":
		status = model.StatusPaid
	case "failed":
		status = model.StatusPaymentFailed
	default:
		slog.Info("payment status leaves order unchanged", "order_id", orderID, "payment_status", payment.Status)
		return nil
	}

	_, err = s.db.ExecContext(ctx, s.db.Rebind(
		`UPDATE orders SET status = ?, updated_at = ? WHERE id = ?`), status, time.Now(), orderID)
	if err != nil {
		return fmt.Errorf("update order status: %w", err)
	}

	slog.Info("order status updated from webhook", "order_id", orderID, "status", status)
	return nil
}
