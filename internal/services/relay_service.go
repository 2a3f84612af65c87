package services

import (
	"bonsaichat-backend/internal/models"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

const (
	// UpstreamTimeout bounds every call to the upstream chat API.
	UpstreamTimeout = 30 * time.Second
	// UpstreamTopK is the retrieval depth requested from the upstream.
	UpstreamTopK = 5

	defaultResponseText = "No response"
	// maxUpstreamBody caps how much of a 200 body is read.
	maxUpstreamBody = 4 << 20
)

// Relay errors. Every one of them ends up as a Failure envelope.
var (
	ErrEmptyInput          = errors.New("message cannot be empty")
	ErrAuthRejected        = errors.New("invalid security token")
	ErrUpstreamUnreachable = errors.New("upstream unreachable")
	ErrUpstreamHTTP        = errors.New("upstream returned a non-200 status")
	ErrUpstreamMalformed   = errors.New("invalid response from upstream")
	ErrNotConfigured       = errors.New("chat is not configured")
)

// Relayer is what the HTTP layer needs from the relay.
type Relayer interface {
	Handle(ctx context.Context, rawMessage string, cfg models.RelayConfig) models.RelayResponse
}

// ChatRelay turns one user message into one upstream call and one envelope.
// It keeps no per-request state and is safe for concurrent use.
type ChatRelay struct {
	client *http.Client
}

// NewChatRelay creates a relay. A nil client gets a default one with the
// upstream timeout.
func NewChatRelay(client *http.Client) *ChatRelay {
	if client == nil {
		client = &http.Client{Timeout: UpstreamTimeout}
	}
	return &ChatRelay{client: client}
}

// Handle validates rawMessage, forwards it upstream and normalizes the result.
// It never returns an error; failures are folded into the Failure variant.
func (r *ChatRelay) Handle(ctx context.Context, rawMessage string, cfg models.RelayConfig) models.RelayResponse {
	if strings.TrimSpace(rawMessage) == "" {
		return models.NewRelayFailure(ErrEmptyInput.Error(), ErrEmptyInput)
	}

	req, err := r.buildRequest(ctx, rawMessage, cfg)
	if err != nil {
		// A base URL that cannot form a request is as good as unreachable.
		return failConnect(err)
	}

	ctx, cancel := context.WithTimeout(ctx, UpstreamTimeout)
	defer cancel()

	start := time.Now()
	res, err := r.client.Do(req.WithContext(ctx))
	if err != nil {
		log.Warn().Err(err).Str("component", "relay").Str("endpoint", req.URL.String()).Msg("upstream request failed")
		return failConnect(err)
	}
	defer res.Body.Close()

	logger := log.With().
		Str("component", "relay").
		Int("status", res.StatusCode).
		Dur("latency", time.Since(start)).
		Logger()

	if res.StatusCode != http.StatusOK {
		logger.Warn().Msg("upstream returned an error status")
		return models.NewRelayFailure(
			fmt.Sprintf("upstream error: %d", res.StatusCode),
			errors.Wrapf(ErrUpstreamHTTP, "status %d", res.StatusCode),
		)
	}

	body, err := io.ReadAll(io.LimitReader(res.Body, maxUpstreamBody))
	if err != nil {
		logger.Warn().Err(err).Msg("reading upstream body failed")
		return failConnect(err)
	}

	var out models.UpstreamChatResponse
	if err := json.Unmarshal(body, &out); err != nil {
		logger.Warn().Err(err).Msg("upstream body is not valid JSON")
		return models.NewRelayFailure(ErrUpstreamMalformed.Error(), errors.Wrap(ErrUpstreamMalformed, err.Error()))
	}

	response := defaultResponseText
	if out.Response != nil {
		response = *out.Response
	}
	var model string
	if out.Model != nil {
		model = *out.Model
	}

	logger.Debug().Str("model", model).Int("sources", len(out.Sources)).Msg("upstream reply relayed")
	return models.NewRelaySuccess(response, out.Sources, model)
}

func (r *ChatRelay) buildRequest(ctx context.Context, rawMessage string, cfg models.RelayConfig) (*http.Request, error) {
	payload, err := json.Marshal(models.UpstreamChatRequest{
		Message:      rawMessage,
		UseRAG:       cfg.UseRAG,
		TopK:         UpstreamTopK,
		SystemPrompt: cfg.SystemPrompt,
	})
	if err != nil {
		return nil, errors.Wrap(err, "encoding upstream payload")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, ChatEndpoint(cfg.APIBaseURL), bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	if cfg.HasBasicAuth() {
		req.SetBasicAuth(cfg.Username, cfg.Password)
	}
	return req, nil
}

// ChatEndpoint normalizes base to exactly one trailing slash and appends "chat".
func ChatEndpoint(base string) string {
	return strings.TrimRight(strings.TrimSpace(base), "/\\") + "/chat"
}

func failConnect(cause error) models.RelayResponse {
	return models.NewRelayFailure(
		"failed to connect: "+cause.Error(),
		errors.Wrap(ErrUpstreamUnreachable, cause.Error()),
	)
}
