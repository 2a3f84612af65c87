package models

import (
	"encoding/json"
	"time"
)

// --- Request Structs ---

// SendMessageRequest defines the body accepted by the chat relay endpoint.
// The nonce may also arrive in the X-Chat-Nonce header.
type SendMessageRequest struct {
	Message string `json:"message"`
	Nonce   string `json:"nonce"`
}

// AdminLoginRequest defines the expected body for the admin login endpoint.
type AdminLoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// UpdateSettingsRequest defines the payload for updating the widget settings.
// Pointer fields are optional; a nil APIPassword keeps the stored secret and
// an empty one clears it.
type UpdateSettingsRequest struct {
	APIURL         *string `json:"api_url"`
	APIUsername    *string `json:"api_username"`
	APIPassword    *string `json:"api_password"`
	UseRAG         *bool   `json:"use_rag"`
	WelcomeMessage *string `json:"welcome_message"`
}

// --- Response Structs ---

// Envelope is the wire shape every chat relay response uses.
// Data holds SuccessData when Success is true and FailureData otherwise.
type Envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
}

// SuccessData is the payload of a successful relay envelope.
type SuccessData struct {
	Response string   `json:"response"`
	Sources  []string `json:"sources"`
	Model    string   `json:"model"`
}

// FailureData is the payload of a failed relay envelope.
type FailureData struct {
	Message string `json:"message"`
}

// BootstrapResponse carries what the widget needs before its first message.
type BootstrapResponse struct {
	ChatURL        string `json:"chat_url"`
	Nonce          string `json:"nonce"`
	WelcomeMessage string `json:"welcome_message"`
}

// AuthResponse defines the response body for a successful admin login.
type AuthResponse struct {
	AccessToken string    `json:"access_token"`
	ExpiresAt   time.Time `json:"expires_at"`
}

// SettingsResponse is the admin view of the widget settings.
// The upstream password itself is never returned.
type SettingsResponse struct {
	APIURL         string    `json:"api_url"`
	APIUsername    string    `json:"api_username"`
	HasAPIPassword bool      `json:"has_api_password"`
	UseRAG         bool      `json:"use_rag"`
	WelcomeMessage string    `json:"welcome_message"`
	UpdatedAt      time.Time `json:"updated_at,omitempty"`
}

// TestConnectionResponse reports the outcome of probing the upstream API.
type TestConnectionResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Model   string `json:"model,omitempty"`
}

// ErrorResponse defines the standard structure for non-envelope API errors.
type ErrorResponse struct {
	Error string `json:"error"`
}
