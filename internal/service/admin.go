package service

import (
	"context"
	"fmt"
	"time"

	"aquasphere/internal/database"
	"aquasphere/internal/model"
)

type AdminService struct {
	db *database.DB
}

func NewAdminService(db *database.DB) *AdminService {
	return &AdminService{db: db}
}

type Stats struct {
	TotalUsers        int  `json:"total_users"`
	TotalOrders       int  `json:"total_orders"`
	PendingDeliveries int  `json:"pending_deliveries"`
	TodayOrders       int  `json:"today_orders"`
	EmailConfigured   bool `json:"email_configured"`
}

func (s *AdminService) Stats(ctx context.Context) (*Stats, error) {
	var st Stats

	if err := s.count(ctx, `SELECT COUNT(*) FROM users`, &st.TotalUsers); err != nil {
		return nil, err
	}
	if err := s.count(ctx, `SELECT COUNT(*) FROM orders`, &st.TotalOrders); err != nil {
		return nil, err
	}

	pending := s.db.Rebind(`SELECT COUNT(*) FROM orders WHERE status IN (?, ?, ?, ?)`)
	if err := s.db.QueryRowxContext(ctx, pending,
		model.StatusPending, model.StatusPreparing, model.StatusShipped, model.StatusOutForDelivery).
		Scan(&st.PendingDeliveries); err != nil {
		return nil, fmt.Errorf("count pending deliveries: %w", err)
	}

	now := time.Now()
	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	if err := s.db.QueryRowxContext(ctx, s.db.Rebind(
		`SELECT COUNT(*) FROM orders WHERE created_at >= ?`), midnight).Scan(&st.TodayOrders); err != nil {
		return nil, fmt.Errorf("count today orders: %w", err)
	}

	settings, err := s.Settings(ctx)
	if err != nil {
		return nil, err
	}
	st.EmailConfigured = settings["brevo_api_key"] != "" &&
		settings["brevo_sender_email"] != "" &&
		settings["enable_email_notifications"] == "1"

	return &st, nil
}

func (s *AdminService) count(ctx context.Context, query string, dest *int) error {
	if err := s.db.QueryRowxContext(ctx, query).Scan(dest); err != nil {
		return fmt.Errorf("count query: %w", err)
	}
	return nil
}

var settingsDefaults = map[string]string{
	"brevo_api_key":              "",
	"brevo_sender_email":         "",
	"brevo_sender_name":          "AquaSphere",
	"enable_email_notifications": "0",
	"site_name":                  "AquaSphere",
	"site_description":           "Clean water delivery service",
	"max_users":                  "1000",
	"session_timeout":            "30",
	"password_min_length":        "8",
	"max_login_attempts":         "5",
	"enable_two_factor":          "0",
}

func (s *AdminService) Settings(ctx context.Context) (map[string]string, error) {
	rows, err := s.db.QueryxContext(ctx, `SELECT key, value FROM system_settings`)
	if err != nil {
		return nil, fmt.Errorf("query settings: %w", err)
	}
	defer rows.Close()

	settings := make(map[string]string, len(settingsDefaults))
	for k, v := range settingsDefaults {
		settings[k] = v
	}
	for rows.Next() {
		var k, v string
		if err := rows.Scan(&k, &v); err != nil {
			return nil, fmt.Errorf("scan setting: %w", err)
		}
		settings[k] = v
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration failed: %w", err)
	}

	return settings, nil
}

// MaskedSettings hides the API key value; the placeholder only signals that a
// key is saved.
func (s *AdminService) MaskedSettings(ctx context.Context) (map[string]string, error) {
	settings, err := s.Settings(ctx)
	if err != nil {
		return nil, err
	}
	if settings["brevo_api_key"] != "" {
		settings["brevo_api_key"] = "***SAVED***"
	}
	return settings, nil
}

type Activity struct {
	Username string `json:"username"`
	Action   string `json:"action"`
	Time     string `json:"time"`
}

// RecentActivity returns a placeholder entry; there is no activity log table.
func (s *AdminService) RecentActivity(_ context.Context) []Activity {
	return []Activity{
		{Username: "System", Action: "System initialized", Time: time.Now().Format("2006-01-02 15:04:05")},
	}
}
