package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"aquasphere/internal/mw"
	"aquasphere/internal/service"
)

func SaveStateHandler(stateSvc *service.StateService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := mw.UserID(r)
		if !ok {
			fail(w, http.StatusUnauthorized, "Not logged in")
			return
		}

		var fields map[string]json.RawMessage
		if err := json.NewDecoder(r.Body).Decode(&fields); err != nil {
			fail(w, http.StatusBadRequest, "Invalid JSON")
			return
		}

		if err := stateSvc.Save(r.Context(), userID, fields); err != nil {
			if errors.Is(err, service.ErrUserNotFound) {
				fail(w, http.StatusNotFound, "User not found")
				return
			}
			slog.Error("save user state failed", "error", err)
			fail(w, http.StatusInternalServerError, "Failed to save state")
			return
		}

		writeJSON(w, http.StatusOK, map[string]any{"success": true})
	}
}

func GetStateHandler(stateSvc *service.StateService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := mw.UserID(r)
		if !ok {
			fail(w, http.StatusUnauthorized, "Not logged in")
			return
		}

		state, err := stateSvc.Get(r.Context(), userID)
		if err != nil {
			if errors.Is(err, service.ErrUserNotFound) {
				fail(w, http.StatusNotFound, "User not found")
				return
			}
			slog.Error("get user state failed", "error", err)
			fail(w, http.StatusInternalServerError, "Failed to load state")
			return
		}

		resp := map[string]any{"success": true}
		for k, v := range state {
			resp[k] = v
		}
		writeJSON(w, http.StatusOK, resp)
	}
}
