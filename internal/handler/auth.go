package handler

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"aquasphere/internal/mw"
	"aquasphere/internal/service"
)

type loginRequest struct {
	Login    string `json:"login"`
	Username string `json:"username"`
	Password string `json:"password"`
}

func LoginHandler(authSvc *service.AuthService, secret string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req loginRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			fail(w, http.StatusBadRequest, "Invalid JSON")
			return
		}

		login := req.Login
		if login == "" {
			login = req.Username
		}
		if login == "" || req.Password == "" {
			fail(w, http.StatusBadRequest, "Login and password are required")
			return
		}

		user, err := authSvc.Authenticate(r.Context(), login, req.Password)
		if err != nil {
			switch {
			case errors.Is(err, service.ErrInvalidCredentials):
				fail(w, http.StatusUnauthorized, "Invalid login or password")
			default:
				slog.Error("login failed", "error", err)
				fail(w, http.StatusInternalServerError, "Internal error")
			}
			return
		}

		tokenString, err := issueToken(user, secret)
		if err != nil {
			fail(w, http.StatusInternalServerError, "Token generation failed")
			return
		}

		w.Header().Set("Authorization", "Bearer "+tokenString)
		writeJSON(w, http.StatusOK, map[string]any{
			"success": true,
			"token":   tokenString,
			"user":    user,
		})
	}
}

func CurrentUserHandler(authSvc *service.AuthService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := mw.UserID(r)
		if !ok {
			fail(w, http.StatusUnauthorized, "Not logged in")
			return
		}

		user, err := authSvc.GetByID(r.Context(), userID)
		if err != nil {
			if errors.Is(err, service.ErrUserNotFound) {
				fail(w, http.StatusNotFound, "User not found")
				return
			}
			slog.Error("get current user failed", "error", err)
			fail(w, http.StatusInternalServerError, "Internal error")
			return
		}

		writeJSON(w, http.StatusOK, map[string]any{"success": true, "user": user})
	}
}

// CheckEmailHandler and CheckUsernameHandler report registration
// availability. An empty query value reads as not taken.
func CheckEmailHandler(authSvc *service.AuthService) http.HandlerFunc {
	return availabilityHandler("email", authSvc.EmailExists)
}

func CheckUsernameHandler(authSvc *service.AuthService) http.HandlerFunc {
	return availabilityHandler("username", authSvc.UsernameExists)
}

func availabilityHandler(param string, check func(ctx context.Context, value string) (bool, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		value := strings.TrimSpace(r.URL.Query().Get(param))
		if value == "" {
			writeJSON(w, http.StatusOK, map[string]any{"success": true, "exists": false})
			return
		}

		exists, err := check(r.Context(), value)
		if err != nil {
			slog.Error("availability check failed", "param", param, "error", err)
			fail(w, http.StatusInternalServerError, "Internal error")
			return
		}

		writeJSON(w, http.StatusOK, map[string]any{"success": true, "exists": exists})
	}
}
