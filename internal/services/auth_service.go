package services

import (
	"bonsaichat-backend/internal/auth"
	"bonsaichat-backend/internal/config"
	"context"
	"crypto/subtle"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

// Custom errors for the admin auth service
var (
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrAdminDisabled      = errors.New("admin access is not configured")
	ErrCreatingToken      = errors.New("failed to create access token")
)

type AdminAuthService struct {
	cfg *config.Config
}

func NewAdminAuthService(cfg *config.Config) *AdminAuthService {
	return &AdminAuthService{cfg: cfg}
}

// Login checks the admin credentials and returns a signed access token.
func (s *AdminAuthService) Login(ctx context.Context, username, password string) (string, time.Time, error) {
	if !s.cfg.AdminEnabled() {
		return "", time.Time{}, ErrAdminDisabled
	}

	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return "", time.Time{}, ErrInvalidCredentials
	}

	// Both checks always run so a wrong username costs the same as a wrong password.
	userOK := subtle.ConstantTimeCompare([]byte(username), []byte(s.cfg.AdminUsername)) == 1
	passOK := auth.CheckPasswordHash(password, s.cfg.AdminPasswordHash)
	if !userOK || !passOK {
		log.Info().Str("component", "admin_auth").Str("username", username).Msg("rejected admin login")
		return "", time.Time{}, ErrInvalidCredentials
	}

	token, expiresAt, err := auth.NewAccessToken(username, s.cfg.JWTSecret, s.cfg.TokenExpiration)
	if err != nil {
		log.Error().Err(err).Str("component", "admin_auth").Msg("generating admin token")
		return "", time.Time{}, ErrCreatingToken
	}

	log.Info().Str("component", "admin_auth").Str("username", username).Msg("admin logged in")
	return token, expiresAt, nil
}
