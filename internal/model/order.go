package model

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

type OrderStatus string

const (
	StatusPending        OrderStatus = "pending"
	StatusPaid           OrderStatus = "paid"
	StatusPaymentFailed  OrderStatus = "payment_failed"
	StatusPreparing      OrderStatus = "preparing"
	StatusShipped        OrderStatus = "shipped"
	StatusOutForDelivery OrderStatus = "out_for_delivery"
	StatusDelivered      OrderStatus = "delivered"
	StatusCancelled      OrderStatus = "cancelled"
)

type Order struct {
	ID               int64           `json:"id"`
	UserID           int64           `json:"user_id"`
	DeliveryDate     string          `json:"delivery_date,omitempty"`
	DeliveryTime     string          `json:"delivery_time,omitempty"`
	DeliveryAddress  json.RawMessage `json:"delivery_address"`
	TotalAmount      decimal.Decimal `json:"total_amount"`
	PaymentMethod    string          `json:"payment_method"`
	Status           OrderStatus     `json:"status"`
	PayMongoSourceID string          `json:"paymongo_source_id,omitempty"`
	CreatedAt        time.Time       `json:"created_at"`
	UpdatedAt        time.Time       `json:"updated_at"`
	Items            []OrderItem     `json:"items,omitempty"`
}

// OrderItem is a snapshot of the product at order time, not a live reference.
type OrderItem struct {
	ID           int64           `json:"id"`
	OrderID      int64           `json:"order_id"`
	ProductName  string          `json:"product_name"`
	ProductPrice decimal.Decimal `json:"product_price"`
	Quantity     int             `json:"quantity"`
	Subtotal     decimal.Decimal `json:"subtotal"`
}

type OrderStatusHistory struct {
	ID            int64       `json:"id"`
	OrderID       int64       `json:"order_id"`
	UserID        int64       `json:"user_id"`
	Status        OrderStatus `json:"status"`
	PaymentMethod string      `json:"payment_method"`
	CreatedAt     time.Time   `json:"created_at"`
}
