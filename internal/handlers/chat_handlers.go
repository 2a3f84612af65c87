package handlers

import (
	"bonsaichat-backend/internal/models"
	"bonsaichat-backend/internal/services"
	"bonsaichat-backend/pkg/httputil"
	"context"
	"encoding/json"
	"mime"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

const (
	// NonceHeader may carry the anti-forgery nonce instead of the body.
	NonceHeader = "X-Chat-Nonce"

	maxMessageBody = 64 << 10
)

// ChatService defines the interface expected from the chat service.
type ChatService interface {
	Bootstrap(ctx context.Context) (nonce, welcome string, err error)
	SendMessage(ctx context.Context, nonce, rawMessage string) (models.RelayResponse, error)
}

type ChatHandler struct {
	chatService ChatService
	chatPath    string
}

// NewChatHandler creates the public chat handler. chatPath is the route the
// widget should post messages to, as advertised by the bootstrap endpoint.
func NewChatHandler(chatSvc ChatService, chatPath string) *ChatHandler {
	return &ChatHandler{
		chatService: chatSvc,
		chatPath:    chatPath,
	}
}

// HandleBootstrap handles GET /v1/widget/bootstrap.
func (h *ChatHandler) HandleBootstrap(w http.ResponseWriter, r *http.Request) {
	nonce, welcome, err := h.chatService.Bootstrap(r.Context())
	if err != nil {
		log.Error().Err(err).Str("request_id", middleware.GetReqID(r.Context())).Msg("bootstrap failed")
		httputil.RespondError(w, http.StatusInternalServerError, "Failed to initialize chat")
		return
	}

	w.Header().Set("Cache-Control", "no-store")
	httputil.RespondJSON(w, http.StatusOK, models.BootstrapResponse{
		ChatURL:        requestOrigin(r) + h.chatPath,
		Nonce:          nonce,
		WelcomeMessage: welcome,
	})
}

// HandleSendMessage handles POST /v1/chat/messages.
// The body is either form-encoded or JSON with {message, nonce}.
func (h *ChatHandler) HandleSendMessage(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxMessageBody)
	req := decodeSendMessage(r)
	if headerNonce := r.Header.Get(NonceHeader); headerNonce != "" {
		req.Nonce = headerNonce
	}

	res, err := h.chatService.SendMessage(r.Context(), req.Nonce, req.Message)
	if err != nil {
		if errors.Is(err, services.ErrAuthRejected) {
			httputil.RespondRelay(w, http.StatusForbidden, res)
			return
		}
		log.Error().Err(err).Str("request_id", middleware.GetReqID(r.Context())).Msg("send message failed")
		httputil.RespondRelay(w, http.StatusOK, res)
		return
	}

	if !res.OK() {
		log.Info().
			Err(res.Failure.Cause).
			Str("request_id", middleware.GetReqID(r.Context())).
			Str("reason", res.Failure.Reason).
			Msg("chat relay returned a failure")
	}
	httputil.RespondRelay(w, http.StatusOK, res)
}

// decodeSendMessage reads the request in whichever encoding the client used.
// Unreadable bodies yield an empty request, which the service rejects.
func decodeSendMessage(r *http.Request) models.SendMessageRequest {
	var req models.SendMessageRequest
	defer r.Body.Close()

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType == "application/json" {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			log.Debug().Err(err).Msg("invalid JSON chat request")
			return models.SendMessageRequest{}
		}
		return req
	}

	req.Message = r.PostFormValue("message")
	req.Nonce = r.PostFormValue("nonce")
	return req
}

func requestOrigin(r *http.Request) string {
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	if proto := r.Header.Get("X-Forwarded-Proto"); proto == "https" || proto == "http" {
		scheme = proto
	}
	return scheme + "://" + r.Host
}
