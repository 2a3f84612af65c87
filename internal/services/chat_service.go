package services

import (
	"bonsaichat-backend/internal/auth"
	"bonsaichat-backend/internal/models"
	"context"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

// connectionProbeMessage is what TestConnection sends upstream.
const connectionProbeMessage = "Hello"

// ChatService ties the anti-forgery nonce, the ConfigProvider and the relay
// together for the public chat endpoint.
type ChatService struct {
	relay        Relayer
	provider     ConfigProvider
	nonces       *auth.NonceIssuer
	systemPrompt string
}

// NewChatService creates a new ChatService.
func NewChatService(relay Relayer, provider ConfigProvider, nonces *auth.NonceIssuer, systemPrompt string) *ChatService {
	return &ChatService{
		relay:        relay,
		provider:     provider,
		nonces:       nonces,
		systemPrompt: systemPrompt,
	}
}

// Bootstrap issues a fresh nonce and returns the greeting for a new widget.
func (s *ChatService) Bootstrap(ctx context.Context) (nonce, welcome string, err error) {
	nonce, err = s.nonces.Issue(auth.SendMessageAction)
	if err != nil {
		return "", "", errors.Wrap(err, "issuing chat nonce")
	}

	settings, err := s.provider.Settings(ctx)
	if err != nil {
		// The widget can still open; sending will report the problem.
		log.Warn().Err(err).Str("component", "chat").Msg("settings unavailable during bootstrap")
	}
	return nonce, WelcomeMessage(settings), nil
}

// SendMessage relays one message. The returned error is non-nil only when the
// nonce is rejected; every other outcome is carried by the RelayResponse.
func (s *ChatService) SendMessage(ctx context.Context, nonce, rawMessage string) (models.RelayResponse, error) {
	if err := s.nonces.Verify(nonce, auth.SendMessageAction); err != nil {
		log.Info().Err(err).Str("component", "chat").Msg("rejected chat message with invalid nonce")
		return models.NewRelayFailure(ErrAuthRejected.Error(), ErrAuthRejected), errors.Wrap(ErrAuthRejected, err.Error())
	}

	settings, err := s.provider.Settings(ctx)
	if err != nil {
		log.Error().Err(err).Str("component", "chat").Msg("failed to load relay settings")
		return models.NewRelayFailure(ErrNotConfigured.Error(), errors.Wrap(ErrNotConfigured, err.Error())), nil
	}

	return s.relay.Handle(ctx, rawMessage, settings.RelayConfig(s.systemPrompt)), nil
}

// TestConnection sends a probe message with the current settings.
func (s *ChatService) TestConnection(ctx context.Context) models.TestConnectionResponse {
	settings, err := s.provider.Settings(ctx)
	if err != nil {
		return models.TestConnectionResponse{Success: false, Message: ErrNotConfigured.Error()}
	}

	res := s.relay.Handle(ctx, connectionProbeMessage, settings.RelayConfig(s.systemPrompt))
	if !res.OK() {
		return models.TestConnectionResponse{Success: false, Message: res.Failure.Reason}
	}
	return models.TestConnectionResponse{Success: true, Message: "connection successful", Model: res.Success.Model}
}
