package services

import (
	"bonsaichat-backend/internal/config"
	"bonsaichat-backend/internal/models"
	"context"
)

var (
	_ ConfigProvider = (*StaticConfigProvider)(nil)
	_ ConfigProvider = (*SettingsService)(nil)
)

// StaticConfigProvider serves the settings fixed by the environment.
type StaticConfigProvider struct {
	settings models.WidgetSettings
}

func NewStaticConfigProvider(cfg *config.Config) *StaticConfigProvider {
	return &StaticConfigProvider{settings: models.WidgetSettings{
		APIURL:         cfg.ChatbotAPIURL,
		APIUsername:    cfg.ChatbotAPIUsername,
		APIPassword:    cfg.ChatbotAPIPassword,
		UseRAG:         cfg.ChatbotUseRAG,
		WelcomeMessage: cfg.ChatbotWelcomeMessage,
	}}
}

func (p *StaticConfigProvider) Settings(ctx context.Context) (*models.WidgetSettings, error) {
	settings := p.settings
	return &settings, nil
}
