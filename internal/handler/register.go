package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"aquasphere/internal/model"
	"aquasphere/internal/sanitize"
	"aquasphere/internal/service"
)

type registerRequest struct {
	Username    string `json:"username"`
	Email       string `json:"email"`
	Password    string `json:"password"`
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	Gender      string `json:"gender"`
	DateOfBirth string `json:"date_of_birth"`
}

func issueToken(user *model.User, secret string) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id":  user.ID,
		"is_admin": user.IsAdmin,
		"exp":      jwt.NewNumericDate(time.Now().Add(24 * time.Hour)),
	})
	return token.SignedString([]byte(secret))
}

func RegisterHandler(authSvc *service.AuthService, secret string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req registerRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			fail(w, http.StatusBadRequest, "Invalid JSON")
			return
		}

		if req.Username == "" || req.Email == "" || req.Password == "" {
			fail(w, http.StatusBadRequest, "Username, email and password are required")
			return
		}

		user, err := authSvc.Register(r.Context(), service.RegisterInput{
			Username:    sanitize.String(req.Username, 100),
			Email:       sanitize.String(req.Email, 255),
			Password:    req.Password,
			FirstName:   sanitize.String(req.FirstName, 100),
			LastName:    sanitize.String(req.LastName, 100),
			Gender:      sanitize.String(req.Gender, 20),
			DateOfBirth: sanitize.String(req.DateOfBirth, 20),
		})
		if err != nil {
			switch {
			case errors.Is(err, service.ErrUsernameTaken), errors.Is(err, service.ErrEmailTaken):
				fail(w, http.StatusConflict, err.Error())
			default:
				slog.Error("register failed", "error", err)
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
