package services

import (
	"bonsaichat-backend/internal/config"
	"bonsaichat-backend/internal/crypto"
	"bonsaichat-backend/internal/models"
	"bonsaichat-backend/internal/store"
	"context"
	"crypto/cipher"
	"net/url"
	"strings"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

var (
	ErrValidation       = errors.New("input validation failed")
	ErrSettingsUnsealed = errors.New("stored API password could not be decrypted")
	ErrSettingsReadOnly = errors.New("settings cannot be changed without an encryption key")
)

const defaultWidgetWelcome = "Hello! How can I help you today?"

// ConfigProvider supplies the widget configuration for each request.
type ConfigProvider interface {
	Settings(ctx context.Context) (*models.WidgetSettings, error)
}

// SettingsService is the ConfigProvider backed by a SettingsStore.
// Until something is saved it serves the defaults from the environment.
type SettingsService struct {
	store    store.SettingsStore
	aead     cipher.AEAD
	defaults models.WidgetSettings
}

// NewSettingsService builds the service. A nil aead makes the store
// read-only for passwords: updates that carry one are rejected.
func NewSettingsService(s store.SettingsStore, aead cipher.AEAD, cfg *config.Config) *SettingsService {
	return &SettingsService{
		store:    s,
		aead:     aead,
		defaults: NewStaticConfigProvider(cfg).settings,
	}
}

// Settings returns the effective widget settings.
func (s *SettingsService) Settings(ctx context.Context) (*models.WidgetSettings, error) {
	stored, err := s.store.GetSettings(ctx)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			defaults := s.defaults
			return &defaults, nil
		}
		return nil, errors.Wrap(err, "loading widget settings")
	}

	password, err := s.openPassword(stored.EncryptedAPIPassword)
	if err != nil {
		log.Error().Err(err).Str("component", "settings").Msg("failed to decrypt stored API password")
		return nil, errors.Wrap(ErrSettingsUnsealed, err.Error())
	}

	return &models.WidgetSettings{
		APIURL:         stored.APIURL,
		APIUsername:    stored.APIUsername,
		APIPassword:    password,
		UseRAG:         stored.UseRAG,
		WelcomeMessage: stored.WelcomeMessage,
		UpdatedAt:      stored.UpdatedAt,
	}, nil
}

// Update applies req on top of the current settings and persists the result.
func (s *SettingsService) Update(ctx context.Context, req models.UpdateSettingsRequest) (*models.WidgetSettings, error) {
	current, err := s.Settings(ctx)
	if err != nil {
		return nil, err
	}
	next := *current

	if req.APIURL != nil {
		apiURL, err := ValidateAPIURL(*req.APIURL)
		if err != nil {
			return nil, err
		}
		next.APIURL = apiURL
	}
	if req.APIUsername != nil {
		next.APIUsername = strings.TrimSpace(*req.APIUsername)
	}
	if req.APIPassword != nil {
		next.APIPassword = *req.APIPassword
	}
	if req.UseRAG != nil {
		next.UseRAG = *req.UseRAG
	}
	if req.WelcomeMessage != nil {
		next.WelcomeMessage = strings.TrimSpace(*req.WelcomeMessage)
	}

	sealed, err := s.sealPassword(next.APIPassword)
	if err != nil {
		return nil, err
	}

	saved, err := s.store.UpsertSettings(ctx, store.UpsertSettingsParams{
		APIURL:               next.APIURL,
		APIUsername:          next.APIUsername,
		EncryptedAPIPassword: sealed,
		UseRAG:               next.UseRAG,
		WelcomeMessage:       next.WelcomeMessage,
	})
	if err != nil {
		return nil, errors.Wrap(err, "saving widget settings")
	}

	next.UpdatedAt = saved.UpdatedAt
	log.Info().Str("component", "settings").Str("api_url", next.APIURL).Bool("use_rag", next.UseRAG).Msg("widget settings updated")
	return &next, nil
}

// WelcomeMessage returns the greeting the widget should show, never empty.
func WelcomeMessage(settings *models.WidgetSettings) string {
	if settings == nil || strings.TrimSpace(settings.WelcomeMessage) == "" {
		return defaultWidgetWelcome
	}
	return settings.WelcomeMessage
}

// ValidateAPIURL accepts absolute http and https URLs only.
func ValidateAPIURL(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", errors.Wrap(ErrValidation, "api_url cannot be empty")
	}
	u, err := url.Parse(raw)
	if err != nil {
		return "", errors.Wrap(ErrValidation, "api_url is not a valid URL")
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return "", errors.Wrap(ErrValidation, "api_url must be an absolute http or https URL")
	}
	return raw, nil
}

func (s *SettingsService) sealPassword(password string) ([]byte, error) {
	if password == "" {
		return nil, nil
	}
	if s.aead == nil {
		return nil, ErrSettingsReadOnly
	}
	sealed, err := crypto.SealSecret(s.aead, password)
	if err != nil {
		return nil, errors.Wrap(err, "encrypting API password")
	}
	return sealed, nil
}

func (s *SettingsService) openPassword(sealed []byte) (string, error) {
	if len(sealed) == 0 {
		return "", nil
	}
	if s.aead == nil {
		return "", ErrSettingsReadOnly
	}
	return crypto.OpenSecret(s.aead, sealed)
}
