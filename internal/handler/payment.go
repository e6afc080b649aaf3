package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/shopspring/decimal"

	"aquasphere/internal/service"
)

type createSourceRequest struct {
	Amount      decimal.Decimal `json:"amount"`
	OrderID     int64           `json:"order_id"`
	RedirectURL string          `json:"redirect_url"`
}

func CreatePaymentSourceHandler(paymentSvc *service.PaymentService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req createSourceRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			fail(w, http.StatusBadRequest, "Invalid JSON")
			return
		}

		src, err := paymentSvc.CreateSource(r.Context(), req.Amount, req.OrderID, req.RedirectURL)
		if err != nil {
			switch {
			case errors.Is(err, service.ErrInvalidAmount):
				fail(w, http.StatusBadRequest, "Invalid amount")
			case errors.Is(err, service.ErrMissingRedirectURL):
				fail(w, http.StatusBadRequest, "Redirect URL is required")
			default:
				slog.Error("payment source creation failed", "error", err)
				fail(w, http.StatusBadGateway, err.Error())
			}
			return
		}

		writeJSON(w, http.StatusOK, map[string]any{
			"success":      true,
			"checkout_url": src.CheckoutURL,
			"source_id":    src.ID,
		})
	}
}

type webhookRequest struct {
	Data struct {
		ID   string `json:"id"`
		Type string `json:"type"`
	} `json:"data"`
}

// WebhookHandler receives asynchronous payment notifications. It always
// acknowledges with 200 so the gateway never retries; internal failures are
// only logged.
func WebhookHandler(paymentSvc *service.PaymentService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req webhookRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			slog.Error("webhook body decode failed", "error", err)
			writeJSON(w, http.StatusOK, map[string]any{"received": true})
			return
		}

		slog.Info("payment webhook received", "type", req.Data.Type, "source_id", req.Data.ID)

		if err := paymentSvc.ProcessWebhook(r.Context(), req.Data.Type, req.Data.ID); err != nil {
			slog.Error("webhook processing failed", "error", err)
		}

		writeJSON(w, http.StatusOK, map[string]any{"received": true})
	}
}
