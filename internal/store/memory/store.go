package memory

import (
	"bonsaichat-backend/internal/models"
	"bonsaichat-backend/internal/store"
	"context"
	"sync"
	"time"
)

var _ store.SettingsStore = (*Store)(nil)

// Store keeps the settings record in process memory.
type Store struct {
	mu       sync.RWMutex
	settings *models.StoredSettings
	now      func() time.Time
}

func NewStore() *Store {
	return &Store{now: time.Now}
}

func (s *Store) GetSettings(ctx context.Context) (*models.StoredSettings, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.settings == nil {
		return nil, store.ErrNotFound
	}
	return cloneSettings(s.settings), nil
}

func (s *Store) UpsertSettings(ctx context.Context, arg store.UpsertSettingsParams) (*models.StoredSettings, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.settings = &models.StoredSettings{
		APIURL:               arg.APIURL,
		APIUsername:          arg.APIUsername,
		EncryptedAPIPassword: append([]byte(nil), arg.EncryptedAPIPassword...),
		UseRAG:               arg.UseRAG,
		WelcomeMessage:       arg.WelcomeMessage,
		UpdatedAt:            s.now().UTC(),
	}
	return cloneSettings(s.settings), nil
}

func cloneSettings(in *models.StoredSettings) *models.StoredSettings {
	out := *in
	out.EncryptedAPIPassword = append([]byte(nil), in.EncryptedAPIPassword...)
	return &out
}
