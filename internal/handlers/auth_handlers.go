package handlers

import (
	api_models "bonsaichat-backend/internal/models"
	"bonsaichat-backend/internal/services"
	"bonsaichat-backend/pkg/httputil"
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

// AdminAuthService defines the interface expected from the admin auth service.
// This promotes loose coupling and testability.
type AdminAuthService interface {
	Login(ctx context.Context, username, password string) (string, time.Time, error)
}

type AuthHandler struct {
	authService AdminAuthService
}

func NewAuthHandler(authSvc AdminAuthService) *AuthHandler {
	return &AuthHandler{
		authService: authSvc,
	}
}

// HandleLogin handles the POST /v1/admin/login request.
func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req api_models.AdminLoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	defer r.Body.Close()

	if req.Username == "" || req.Password == "" {
		httputil.RespondError(w, http.StatusBadRequest, "Username and password are required")
		return
	}

	token, expiresAt, err := h.authService.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		// Error Mapping
		switch {
		case errors.Is(err, services.ErrInvalidCredentials):
			httputil.RespondError(w, http.StatusUnauthorized, err.Error()) // 401
		case errors.Is(err, services.ErrAdminDisabled):
			httputil.RespondError(w, http.StatusServiceUnavailable, err.Error()) // 503
		default:
			log.Error().Err(err).Msg("admin login failed")
			httputil.RespondError(w, http.StatusInternalServerError, "Login failed due to an internal error") // 500
		}
		return
	}

	httputil.RespondJSON(w, http.StatusOK, api_models.AuthResponse{
		AccessToken: token,
		ExpiresAt:   expiresAt,
	})
}
