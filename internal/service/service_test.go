package service_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"

	"aquasphere/internal/database"
)

func newTestDB(t *testing.T) *database.DB {
	t.Helper()

	db, err := database.New(database.DriverSQLite, ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	require.NoError(t, database.Migrate(db))
	return db
}

// paymongoStub fakes the two gateway endpoints used by the workflows.
type paymongoStub struct {
	srv *httptest.Server

	sourceCalls  atomic.Int64
	paymentCalls atomic.Int64

	sourceID      string
	checkoutURL   string
	sourceStatus  int
	paymentStatus string

	lastSourceBody  map[string]any
	lastPaymentBody map[string]any
}

func newPaymongoStub(t *testing.T) *paymongoStub {
	t.Helper()

	stub := &paymongoStub{
		sourceID:      "src_test_123",
		checkoutURL:   "https://gateway.test/checkout/src_test_123",
		sourceStatus:  http.StatusCreated,
		paymentStatus: "paid",
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/sources", func(w http.ResponseWriter, r *http.Request) {
		stub.sourceCalls.Add(1)
		_ = json.NewDecoder(r.Body).Decode(&stub.lastSourceBody)

		w.Header().Set("Content-Type", "application/json")
		if stub.sourceStatus != http.StatusCreated {
			w.WriteHeader(stub.sourceStatus)
			_ = json.NewEncoder(w).Encode(map[string]any{
				"errors": []map[string]any{{"detail": "source declined"}},
			})
			return
		}
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"data": map[string]any{
				"id": stub.sourceID,
				"attributes": map[string]any{
					"redirect": map[string]any{"checkout_url": stub.checkoutURL},
				},
			},
		})
	})
	mux.HandleFunc("/payments", func(w http.ResponseWriter, r *http.Request) {
		stub.paymentCalls.Add(1)
		_ = json.NewDecoder(r.Body).Decode(&stub.lastPaymentBody)

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"data": map[string]any{
				"id": "pay_test_123",
				"attributes": map[string]any{
					"status": stub.paymentStatus,
				},
			},
		})
	})

	stub.srv = httptest.NewServer(mux)
	t.Cleanup(stub.srv.Close)
	return stub
}

func (s *paymongoStub) baseURL() string { return s.srv.URL }
