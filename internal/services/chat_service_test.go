package services

import (
	"bonsaichat-backend/internal/auth"
	"bonsaichat-backend/internal/models"
	"context"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
)

type stubRelay struct {
	calls   int
	lastMsg string
	lastCfg models.RelayConfig
	result  models.RelayResponse
}

func (s *stubRelay) Handle(ctx context.Context, rawMessage string, cfg models.RelayConfig) models.RelayResponse {
	s.calls++
	s.lastMsg = rawMessage
	s.lastCfg = cfg
	return s.result
}

type stubProvider struct {
	settings *models.WidgetSettings
	err      error
}

func (p stubProvider) Settings(ctx context.Context) (*models.WidgetSettings, error) {
	return p.settings, p.err
}

func newTestChatService(relay Relayer, provider ConfigProvider) (*ChatService, *auth.NonceIssuer) {
	nonces := auth.NewNonceIssuer("test-secret", time.Hour)
	return NewChatService(relay, provider, nonces, "prompt"), nonces
}

func TestChatService_Bootstrap(t *testing.T) {
	svc, nonces := newTestChatService(&stubRelay{}, stubProvider{settings: &models.WidgetSettings{WelcomeMessage: "Hi!"}})

	nonce, welcome, err := svc.Bootstrap(context.Background())
	require.NoError(t, err)
	require.Equal(t, "Hi!", welcome)
	require.NoError(t, nonces.Verify(nonce, auth.SendMessageAction))
}

func TestChatService_BootstrapWithoutSettings(t *testing.T) {
	svc, _ := newTestChatService(&stubRelay{}, stubProvider{err: errors.New("db down")})

	_, welcome, err := svc.Bootstrap(context.Background())
	require.NoError(t, err)
	require.Equal(t, "Hello! How can I help you today?", welcome)
}

func TestChatService_SendMessage(t *testing.T) {
	relay := &stubRelay{result: models.NewRelaySuccess("ok", nil, "m")}
	svc, nonces := newTestChatService(relay, stubProvider{settings: &models.WidgetSettings{
		APIURL:      "https://x.test",
		APIUsername: "u",
		APIPassword: "p",
		UseRAG:      true,
	}})
	nonce, err := nonces.Issue(auth.SendMessageAction)
	require.NoError(t, err)

	res, err := svc.SendMessage(context.Background(), nonce, "hello")
	require.NoError(t, err)
	require.True(t, res.OK())
	require.Equal(t, 1, relay.calls)
	require.Equal(t, "hello", relay.lastMsg)
	require.Equal(t, models.RelayConfig{
		APIBaseURL:   "https://x.test",
		Username:     "u",
		Password:     "p",
		UseRAG:       true,
		SystemPrompt: "prompt",
	}, relay.lastCfg)
}

func TestChatService_SendMessageRejectsNonce(t *testing.T) {
	relay := &stubRelay{}
	svc, _ := newTestChatService(relay, stubProvider{settings: &models.WidgetSettings{}})

	res, err := svc.SendMessage(context.Background(), "forged", "hello")
	require.True(t, errors.Is(err, ErrAuthRejected))
	require.False(t, res.OK())
	require.Equal(t, "invalid security token", res.Failure.Reason)
	require.Zero(t, relay.calls)
}

func TestChatService_SendMessageWithoutConfig(t *testing.T) {
	relay := &stubRelay{}
	svc, nonces := newTestChatService(relay, stubProvider{err: errors.New("decrypt failed")})
	nonce, err := nonces.Issue(auth.SendMessageAction)
	require.NoError(t, err)

	res, err := svc.SendMessage(context.Background(), nonce, "hello")
	require.NoError(t, err)
	require.False(t, res.OK())
	require.Equal(t, "chat is not configured", res.Failure.Reason)
	require.Zero(t, relay.calls)
}

func TestChatService_TestConnection(t *testing.T) {
	relay := &stubRelay{result: models.NewRelaySuccess("pong", nil, "m2")}
	svc, _ := newTestChatService(relay, stubProvider{settings: &models.WidgetSettings{APIURL: "https://x.test"}})

	res := svc.TestConnection(context.Background())
	require.True(t, res.Success)
	require.Equal(t, "m2", res.Model)
	require.Equal(t, "Hello", relay.lastMsg)

	relay.result = models.NewRelayFailure("upstream error: 500", ErrUpstreamHTTP)
	res = svc.TestConnection(context.Background())
	require.False(t, res.Success)
	require.Equal(t, "upstream error: 500", res.Message)
}
