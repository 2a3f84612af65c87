package api

import (
	"bonsaichat-backend/internal/config"
	"bonsaichat-backend/internal/handlers"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog/log"
)

// ChatMessagesPath is where the widget posts user messages.
const ChatMessagesPath = "/v1/chat/messages"

// RouterDependencies holds all the dependencies required by the router setup,
// primarily handlers and configuration.
type RouterDependencies struct {
	ChatHandler     *handlers.ChatHandler
	AuthHandler     *handlers.AuthHandler
	SettingsHandler *handlers.SettingsHandler
	Config          *config.Config
}

// NewRouter creates and configures the main Chi router for the application.
func NewRouter(deps RouterDependencies) *chi.Mux {
	r := chi.NewRouter()

	// --- Base Middleware Stack ---
	r.Use(middleware.RequestID)                 // Inject request ID into context
	r.Use(middleware.RealIP)                    // Use X-Forwarded-For or X-Real-IP
	r.Use(AccessLog)                            // Structured request log
	r.Use(middleware.Recoverer)                 // Recover from panics, return 500
	r.Use(middleware.Timeout(60 * time.Second)) // Set a request timeout

	// --- CORS Configuration ---
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   deps.Config.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", handlers.NonceHeader, "X-Requested-With"},
		ExposedHeaders:   []string{"X-Request-Id"},
		AllowCredentials: false,
		MaxAge:           300, // Maximum value not ignored by any of major browsers
	}))

	// --- Public Routes (No JWT Required) ---
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	if deps.ChatHandler == nil {
		panic("ChatHandler dependency is nil in router setup")
	}
	r.Get("/v1/widget/bootstrap", deps.ChatHandler.HandleBootstrap)
	r.Post(ChatMessagesPath, deps.ChatHandler.HandleSendMessage)

	// --- Admin Routes ---
	if deps.AuthHandler == nil || deps.SettingsHandler == nil {
		log.Warn().Msg("admin handlers are nil, skipping /v1/admin routes")
		return r
	}

	r.Route("/v1/admin", func(r chi.Router) {
		r.Post("/login", deps.AuthHandler.HandleLogin)

		// Apply JWT Authentication Middleware
		r.Group(func(r chi.Router) {
			r.Use(JwtAuthMiddleware(deps.Config.JWTSecret))

			r.Get("/settings", deps.SettingsHandler.HandleGetSettings)
			r.Put("/settings", deps.SettingsHandler.HandleUpdateSettings)
			r.Post("/settings/test", deps.SettingsHandler.HandleTestConnection)
		})
	})

	return r
}
