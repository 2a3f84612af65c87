package models

import (
	"time"
)

// WidgetSettings is the configuration record behind the ConfigProvider.
// APIPassword is plaintext in memory; stores keep it encrypted.
type WidgetSettings struct {
	APIURL         string    `db:"api_url"`
	APIUsername    string    `db:"api_username"`
	APIPassword    string    `db:"-"`
	UseRAG         bool      `db:"use_rag"`
	WelcomeMessage string    `db:"welcome_message"`
	UpdatedAt      time.Time `db:"updated_at"`
}

// RelayConfig projects the settings onto what the relay needs per request.
func (s *WidgetSettings) RelayConfig(systemPrompt string) RelayConfig {
	return RelayConfig{
		APIBaseURL:   s.APIURL,
		Username:     s.APIUsername,
		Password:     s.APIPassword,
		UseRAG:       s.UseRAG,
		SystemPrompt: systemPrompt,
	}
}

// StoredSettings is the persisted form of WidgetSettings.
type StoredSettings struct {
	APIURL               string    `db:"api_url" json:"api_url"`
	APIUsername          string    `db:"api_username" json:"api_username"`
	EncryptedAPIPassword []byte    `db:"encrypted_api_password" json:"encrypted_api_password,omitempty"`
	UseRAG               bool      `db:"use_rag" json:"use_rag"`
	WelcomeMessage       string    `db:"welcome_message" json:"welcome_message"`
	UpdatedAt            time.Time `db:"updated_at" json:"updated_at"`
}
