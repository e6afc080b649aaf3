package handler

import (
	"net/http"
	"time"

	"aquasphere/internal/database"
)

const serviceVersion = "1.0.0"

func HealthHandler(db *database.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		health := map[string]any{
			"status":    "ok",
			"timestamp": time.Now().Format("2006-01-02 15:04:05"),
			"service":   "AquaSphere API",
			"version":   serviceVersion,
		}

		if err := db.PingContext(r.Context()); err != nil {
			health["database"] = "not_available"
			health["database_error"] = err.Error()
		} else {
			health["database"] = "connected"
			health["db_type"] = db.Driver()
		}

		writeJSON(w, http.StatusOK, health)
	}
}
