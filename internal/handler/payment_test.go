package handler_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"aquasphere/internal/database"
	"aquasphere/internal/handler"
	"aquasphere/internal/service"
)

func newTestDB(t *testing.T) *database.DB {
	t.Helper()

	db, err := database.New(database.DriverSQLite, ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	require.NoError(t, database.Migrate(db))
	return db
}

// unreachableGateway fails the test if anything talks to it.
func unreachableGateway(t *testing.T) *service.PayMongoClient {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Errorf("unexpected gateway call: %s %s", r.Method, r.URL.Path)
	}))
	t.Cleanup(srv.Close)
	return service.NewPayMongoClient(srv.URL, "sk_test_stub")
}

func postJSON(t *testing.T, h http.HandlerFunc, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestWebhookHandler_AlwaysAcknowledges(t *testing.T) {
	db := newTestDB(t)
	svc := service.NewPaymentService(db, unreachableGateway(t))
	h := handler.WebhookHandler(svc)

	bodies := []string{
		`{"data":{"type":"payment.paid","id":"evt_1"}}`,
		`{"data":{"type":"source.chargeable","id":"src_nobody_has"}}`,
		`{"data":{}}`,
		`not json at all`,
		``,
	}

	for _, body := range bodies {
		rec := postJSON(t, h, body)
		assert.Equal(t, http.StatusOK, rec.Code, "body: %q", body)

		var resp map[string]any
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp), "body: %q", body)
		assert.Equal(t, true, resp["received"])
	}
}

func TestCreatePaymentSourceHandler_Validation(t *testing.T) {
	db := newTestDB(t)
	svc := service.NewPaymentService(db, unreachableGateway(t))
	h := handler.CreatePaymentSourceHandler(svc)

	rec := postJSON(t, h, `{"amount":0,"redirect_url":"https://x/y"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = postJSON(t, h, `{"amount":350}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var resp map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, false, resp["success"])
	assert.NotEmpty(t, resp["message"])
}
