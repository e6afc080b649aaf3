package service_test

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"aquasphere/internal/model"
	"aquasphere/internal/service"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func validOrderInput() service.CreateOrderInput {
	return service.CreateOrderInput{
		UserID: 1,
		Items: []service.OrderItemInput{
			{Name: "Jug", Price: dec("150"), Quantity: 2},
		},
		DeliveryAddress: json.RawMessage(`{"line1":"A"}`),
	}
}

func TestCreateOrder_TotalIncludesDeliveryFee(t *testing.T) {
	db := newTestDB(t)
	svc := service.NewOrderService(db)

	order, err := svc.Create(context.Background(), validOrderInput())
	require.NoError(t, err)

	// 150*2 + 50 delivery fee
	assert.True(t, order.TotalAmount.Equal(dec("350")), "got total %s", order.TotalAmount)
	assert.Equal(t, model.StatusPending, order.Status)
	assert.Equal(t, "COD", order.PaymentMethod)
	assert.NotZero(t, order.ID)
}

func TestCreateOrder_MultipleItems(t *testing.T) {
	db := newTestDB(t)
	svc := service.NewOrderService(db)

	in := validOrderInput()
	in.Items = []service.OrderItemInput{
		{Name: "Round Jug", Price: dec("150.50"), Quantity: 2},
		{ProductName: "Slim Jug", Price: dec("99.25"), Quantity: 3},
	}

	order, err := svc.Create(context.Background(), in)
	require.NoError(t, err)

	// 301.00 + 297.75 + 50
	assert.True(t, order.TotalAmount.Equal(dec("648.75")), "got total %s", order.TotalAmount)

	orders, err := svc.ListByUser(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, orders, 1)
	require.Len(t, orders[0].Items, 2)
	assert.Equal(t, "Round Jug", orders[0].Items[0].ProductName)
	assert.Equal(t, "Slim Jug", orders[0].Items[1].ProductName)
	assert.True(t, orders[0].Items[1].Subtotal.Equal(dec("297.75")))
}

func TestCreateOrder_ItemNameFallback(t *testing.T) {
	db := newTestDB(t)
	svc := service.NewOrderService(db)

	in := validOrderInput()
	in.Items = []service.OrderItemInput{{Price: dec("10"), Quantity: 1}}

	_, err := svc.Create(context.Background(), in)
	require.NoError(t, err)

	orders, err := svc.ListByUser(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, orders, 1)
	require.Len(t, orders[0].Items, 1)
	assert.Equal(t, "Unknown Product", orders[0].Items[0].ProductName)
}

func TestCreateOrder_ValidationFailuresWriteNothing(t *testing.T) {
	db := newTestDB(t)
	svc := service.NewOrderService(db)

	cases := []struct {
		name    string
		mutate  func(*service.CreateOrderInput)
		wantErr error
	}{
		{"zero user id", func(in *service.CreateOrderInput) { in.UserID = 0 }, service.ErrInvalidUserID},
		{"negative user id", func(in *service.CreateOrderInput) { in.UserID = -5 }, service.ErrInvalidUserID},
		{"empty items", func(in *service.CreateOrderInput) { in.Items = nil }, service.ErrEmptyItems},
		{"no address", func(in *service.CreateOrderInput) { in.DeliveryAddress = nil }, service.ErrMissingAddress},
		{"null address", func(in *service.CreateOrderInput) { in.DeliveryAddress = json.RawMessage("null") }, service.ErrMissingAddress},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			in := validOrderInput()
			tc.mutate(&in)

			_, err := svc.Create(context.Background(), in)
			assert.ErrorIs(t, err, tc.wantErr)
		})
	}

	var orders, items, history int
	require.NoError(t, db.QueryRowxContext(context.Background(), `SELECT COUNT(*) FROM orders`).Scan(&orders))
	require.NoError(t, db.QueryRowxContext(context.Background(), `SELECT COUNT(*) FROM order_items`).Scan(&items))
	require.NoError(t, db.QueryRowxContext(context.Background(), `SELECT COUNT(*) FROM order_status_history`).Scan(&history))
	assert.Zero(t, orders)
	assert.Zero(t, items)
	assert.Zero(t, history)
}

func TestCreateOrder_WritesInitialStatusHistory(t *testing.T) {
	db := newTestDB(t)
	svc := service.NewOrderService(db)

	in := validOrderInput()
	in.PaymentMethod = "gcash"
	order, err := svc.Create(context.Background(), in)
	require.NoError(t, err)

	var status, method string
	err = db.QueryRowxContext(context.Background(), db.Rebind(
		`SELECT status, payment_method FROM order_status_history WHERE order_id = ?`), order.ID).
		Scan(&status, &method)
	require.NoError(t, err)
	assert.Equal(t, "pending", status)
	assert.Equal(t, "gcash", method)
}
