package store

import (
	"bonsaichat-backend/internal/models"
	"context"

	"github.com/pkg/errors"
)

// ErrNotFound is returned when no settings record has been stored yet.
var ErrNotFound = errors.New("record not found")

// UpsertSettingsParams contains the fields written on every settings save.
// EncryptedAPIPassword holds raw AES-GCM bytes, nil for "no password".
type UpsertSettingsParams struct {
	APIURL               string
	APIUsername          string
	EncryptedAPIPassword []byte
	UseRAG               bool
	WelcomeMessage       string
}

// SettingsStore defines the persistence operations behind the ConfigProvider.
// This allows for mocking in tests and switching between backends.
type SettingsStore interface {
	GetSettings(ctx context.Context) (*models.StoredSettings, error)
	UpsertSettings(ctx context.Context, arg UpsertSettingsParams) (*models.StoredSettings, error)
}
