package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"aquasphere/internal/database"
	"aquasphere/internal/model"
)

var (
	ErrInvalidUserID  = errors.New("valid user_id is required")
	ErrEmptyItems     = errors.New("order items are required")
	ErrMissingAddress = errors.New("delivery address is required")
)

// DeliveryFee is added to every order on top of the item subtotals.
var DeliveryFee = decimal.NewFromInt(50)

type OrderService struct {
	db *database.DB
}

func NewOrderService(db *database.DB) *OrderService {
	return &OrderService{db: db}
}

// OrderItemInput is one cart line. The product name may arrive under either
// key; price and quantity are captured as a snapshot, not a live reference.
type OrderItemInput struct {
	Name        string          `json:"name"`
	ProductName string          `json:"product_name"`
	Price       decimal.Decimal `json:"price"`
	Quantity    int             `json:"quantity"`
}

func (i OrderItemInput) name() string {
	if i.Name != "" {
		return i.Name
	}
	if i.ProductName != "" {
		return i.ProductName
	}
	return "Unknown Product"
}

type CreateOrderInput struct {
	UserID          int64
	Items           []OrderItemInput
	DeliveryAddress json.RawMessage
	PaymentMethod   string
	DeliveryDate    string
	DeliveryTime    string
}

// Create validates the cart payload, computes the total and persists the
// order, its line items and the initial status-history record.
//
// The three writes are not wrapped in a transaction and a failed item insert
// is logged but does not roll back the order; both behaviors are carried over
// from the original workflow.
func (s *OrderService) Create(ctx context.Context, in CreateOrderInput) (*model.Order, error) {
	if in.UserID <= 0 {
		return nil, ErrInvalidUserID
	}
	if len(in.Items) == 0 {
		return nil, ErrEmptyItems
	}
	if len(in.DeliveryAddress) == 0 || string(in.DeliveryAddress) == "null" {
		return nil, ErrMissingAddress
	}
	if in.PaymentMethod == "" {
		in.PaymentMethod = "COD"
	}

	subtotal := decimal.Zero
	for _, item := range in.Items {
		subtotal = subtotal.Add(item.Price.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}
	total := subtotal.Add(DeliveryFee)

	now := time.Now()
	orderID, err := s.db.InsertReturningID(ctx, `
		INSERT INTO orders (user_id, delivery_date, delivery_time, delivery_address, total_amount, payment_method, status, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		in.UserID, in.DeliveryDate, in.DeliveryTime, string(in.DeliveryAddress),
		total, in.PaymentMethod, model.StatusPending, now, now,
	)
	if err != nil {
		return nil, fmt.Errorf("insert order: %w", err)
	}

	for _, item := range in.Items {
		itemSubtotal := item.Price.Mul(decimal.NewFromInt(int64(item.Quantity)))
		_, err := s.db.ExecContext(ctx, s.db.Rebind(`
			INSERT INTO order_items (order_id, product_name, product_price, quantity, subtotal)
			VALUES (?, ?, ?, ?, ?)`),
			orderID, item.name(), item.Price, item.Quantity, itemSubtotal,
		)
		if err != nil {
			slog.Error("failed to insert order item", "order_id", orderID, "product", item.name(), "error", err)
		}
	}

	_, err = s.db.ExecContext(ctx, s.db.Rebind(`
		INSERT INTO order_status_history (order_id, user_id, status, payment_method, created_at)
		VALUES (?, ?, ?, ?, ?)`),
		orderID, in.UserID, model.StatusPending, in.PaymentMethod, now,
	)
	if err != nil {
		slog.Error("failed to insert order status history", "order_id", orderID, "error", err)
	}

	return &model.Order{
		ID:              orderID,
		UserID:          in.UserID,
		DeliveryDate:    in.DeliveryDate,
		DeliveryTime:    in.DeliveryTime,
		DeliveryAddress: in.DeliveryAddress,
		TotalAmount:     total,
		PaymentMethod:   in.PaymentMethod,
		Status:          model.StatusPending,
		CreatedAt:       now,
		UpdatedAt:       now,
	}, nil
}

func (s *OrderService) ListByUser(ctx context.Context, userID int64) ([]model.Order, error) {
	rows, err := s.db.QueryxContext(ctx, s.db.Rebind(`
		SELECT id, user_id, delivery_date, delivery_time, delivery_address, total_amount, payment_method, status, created_at, updated_at
		FROM orders
		WHERE user_id = ?
		ORDER BY created_at DESC`), userID)
	if err != nil {
		return nil, fmt.Errorf("query orders: %w", err)
	}
	defer rows.Close()

	var orders []model.Order
	for rows.Next() {
		var o model.Order
		var address string
		if err := rows.Scan(&o.ID, &o.UserID, &o.DeliveryDate, &o.DeliveryTime, &address,
			&o.TotalAmount, &o.PaymentMethod, &o.Status, &o.CreatedAt, &o.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan order: %w", err)
		}
		o.DeliveryAddress = json.RawMessage(address)
		orders = append(orders, o)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration failed: %w", err)
	}

	for i := range orders {
		items, err := s.listItems(ctx, orders[i].ID)
		if err != nil {
			return nil, err
		}
		orders[i].Items = items
	}

	return orders, nil
}

func (s *OrderService) listItems(ctx context.Context, orderID int64) ([]model.OrderItem, error) {
	rows, err := s.db.QueryxContext(ctx, s.db.Rebind(`
		SELECT id, order_id, product_name, product_price, quantity, subtotal
		FROM order_items
		WHERE order_id = ?
		ORDER BY id`), orderID)
	if err != nil {
		return nil, fmt.Errorf("query order items: %w", err)
	}
	defer rows.Close()

	var items []model.OrderItem
	for rows.Next() {
		var it model.OrderItem
		if err := rows.Scan(&it.ID, &it.OrderID, &it.ProductName, &it.ProductPrice, &it.Quantity, &it.Subtotal); err != nil {
			return nil, fmt.Errorf("scan order item: %w", err)
		}
		items = append(items, it)
	}
	return items, rows.Err()
}
