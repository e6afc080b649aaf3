package service_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"aquasphere/internal/service"
)

func TestAdminStats(t *testing.T) {
	db := newTestDB(t)
	authSvc := service.NewAuthService(db)
	orderSvc := service.NewOrderService(db)
	svc := service.NewAdminService(db)

	_, err := authSvc.Register(context.Background(), registerInput())
	require.NoError(t, err)
	_, err = orderSvc.Create(context.Background(), validOrderInput())
	require.NoError(t, err)
	_, err = orderSvc.Create(context.Background(), validOrderInput())
	require.NoError(t, err)

	stats, err := svc.Stats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, stats.TotalUsers)
	assert.Equal(t, 2, stats.TotalOrders)
	assert.Equal(t, 2, stats.PendingDeliveries)
	assert.Equal(t, 2, stats.TodayOrders)
	assert.False(t, stats.EmailConfigured)
}

func TestAdminSettings_DefaultsAndMasking(t *testing.T) {
	db := newTestDB(t)
	svc := service.NewAdminService(db)

	settings, err := svc.MaskedSettings(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "AquaSphere", settings["site_name"])
	assert.Equal(t, "0", settings["enable_email_notifications"])
	assert.Equal(t, "", settings["brevo_api_key"])

	_, err = db.ExecContext(context.Background(), db.Rebind(
		`INSERT INTO system_settings (key, value) VALUES (?, ?)`), "brevo_api_key", "xkeysib-abc")
	require.NoError(t, err)

	settings, err = svc.MaskedSettings(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "***SAVED***", settings["brevo_api_key"])
}
