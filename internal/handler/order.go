package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"aquasphere/internal/mw"
	"aquasphere/internal/service"
)

type createOrderRequest struct {
	UserID          int64                    `json:"user_id"`
	Items           []service.OrderItemInput `json:"items"`
	DeliveryAddress json.RawMessage          `json:"delivery_address"`
	PaymentMethod   string                   `json:"payment_method"`
	DeliveryDate    string                   `json:"delivery_date"`
	DeliveryTime    string                   `json:"delivery_time"`
}

func CreateOrderHandler(orderSvc *service.OrderService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req createOrderRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			fail(w, http.StatusBadRequest, "Invalid JSON")
			return
		}

		order, err := orderSvc.Create(r.Context(), service.CreateOrderInput{
			UserID:          req.UserID,
			Items:           req.Items,
			DeliveryAddress: req.DeliveryAddress,
			PaymentMethod:   req.PaymentMethod,
			DeliveryDate:    req.DeliveryDate,
			DeliveryTime:    req.DeliveryTime,
		})
		if err != nil {
			switch {
			case errors.Is(err, service.ErrInvalidUserID),
				errors.Is(err, service.ErrEmptyItems),
				errors.Is(err, service.ErrMissingAddress):
				fail(w, http.StatusBadRequest, capitalizeMsg(err))
			default:
				slog.Error("order create failed", "error", err)
				fail(w, http.StatusInternalServerError, "Failed to create order")
			}
			return
		}

		writeJSON(w, http.StatusOK, map[string]any{
			"success":      true,
			"order_id":     order.ID,
			"total_amount": order.TotalAmount,
			"message":      "Order created successfully",
		})
	}
}

func capitalizeMsg(err error) string {
	msg := err.Error()
	if msg == "" {
		return msg
	}
	if msg[0] >= 'a' && msg[0] <= 'z' {
		return string(msg[0]-'a'+'A') + msg[1:]
	}
	return msg
}

func ListOrdersHandler(orderSvc *service.OrderService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := mw.UserID(r)
		if !ok {
			fail(w, http.StatusUnauthorized, "Not logged in")
			return
		}

		orders, err := orderSvc.ListByUser(r.Context(), userID)
		if err != nil {
			slog.Error("list orders failed", "error", err)
			fail(w, http.StatusInternalServerError, "Internal error")
			return
		}

		writeJSON(w, http.StatusOK, map[string]any{"success": true, "orders": orders})
	}
}
