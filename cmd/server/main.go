package main

import (
	"bonsaichat-backend/internal/api"
	"bonsaichat-backend/internal/auth"
	"bonsaichat-backend/internal/config"
	"bonsaichat-backend/internal/crypto"
	"bonsaichat-backend/internal/handlers"
	"bonsaichat-backend/internal/logging"
	"bonsaichat-backend/internal/services"
	"bonsaichat-backend/internal/store"
	"bonsaichat-backend/internal/store/memory"
	"bonsaichat-backend/internal/store/postgres"
	"bonsaichat-backend/internal/store/rediscache"
	"context"
	"crypto/cipher"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

func main() {
	if err := run(); err != nil {
		log.Fatal().Err(err).Msg("server exited")
	}
}

func run() error {
	// 1. Load Configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		return errors.Wrap(err, "failed to load configuration")
	}
	logging.Init(cfg.LogLevel, cfg.LogJSON)
	log.Info().Str("env", cfg.Env).Msg("Starting Bonsai Chat Backend...")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// 2. Initialize Storage
	settingsStore, cleanup, err := openSettingsStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer cleanup()

	var aead cipher.AEAD
	if cfg.EncryptionKey != nil {
		aead, err = crypto.NewAESGCM(cfg.EncryptionKey)
		if err != nil {
			return errors.Wrap(err, "failed to create AES-GCM cipher")
		}
		log.Info().Msg("AES-GCM cipher initialized")
	}

	// 3. Initialize Services
	relay := services.NewChatRelay(&http.Client{Timeout: services.UpstreamTimeout})
	nonces := auth.NewNonceIssuer(cfg.JWTSecret, cfg.NonceLifetime)

	var (
		provider    services.ConfigProvider
		settingsSvc *services.SettingsService
	)
	if cfg.AdminEnabled() || cfg.DatabaseURL != "" {
		settingsSvc = services.NewSettingsService(settingsStore, aead, cfg)
		provider = settingsSvc
	} else {
		provider = services.NewStaticConfigProvider(cfg)
		log.Info().Msg("no admin or database configured, serving settings from the environment")
	}
	chatService := services.NewChatService(relay, provider, nonces, cfg.ChatbotSystemPrompt)

	// 4. Initialize Handlers & Router
	routerDeps := api.RouterDependencies{
		ChatHandler: handlers.NewChatHandler(chatService, api.ChatMessagesPath),
		Config:      cfg,
	}
	if cfg.AdminEnabled() {
		routerDeps.AuthHandler = handlers.NewAuthHandler(services.NewAdminAuthService(cfg))
		routerDeps.SettingsHandler = handlers.NewSettingsHandler(settingsSvc, chatService)
	}
	router := api.NewRouter(routerDeps)

	// 5. Configure and Start HTTP Server
	server := &http.Server{
		Addr:    ":" + cfg.HTTPPort,
		Handler: router,
		// Upstream calls take up to 30s, so writes get more room than reads.
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 65 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	eg, egCtx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		log.Info().Str("port", cfg.HTTPPort).Msg("server listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return errors.Wrapf(err, "could not listen on %s", cfg.HTTPPort)
		}
		return nil
	})
	eg.Go(func() error {
		<-egCtx.Done()
		log.Info().Msg("shutdown signal received, initiating graceful shutdown")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			return errors.Wrap(err, "server graceful shutdown failed")
		}
		return nil
	})

	if err := eg.Wait(); err != nil {
		return err
	}
	log.Info().Msg("server shutdown complete")
	return nil
}

// openSettingsStore picks the settings backend from the configuration.
// The returned cleanup releases whatever connections were opened.
func openSettingsStore(ctx context.Context, cfg *config.Config) (store.SettingsStore, func(), error) {
	if cfg.DatabaseURL == "" {
		if cfg.RedisURL != "" {
			log.Warn().Msg("REDIS_URL ignored without DATABASE_URL")
		}
		log.Info().Msg("using in-memory settings store")
		return memory.NewStore(), func() {}, nil
	}

	dbCtx, dbCancel := context.WithTimeout(ctx, 10*time.Second)
	defer dbCancel()

	dbpool, err := pgxpool.New(dbCtx, cfg.DatabaseURL)
	if err != nil {
		return nil, nil, errors.Wrap(err, "unable to create database connection pool")
	}
	if err := dbpool.Ping(dbCtx); err != nil {
		dbpool.Close()
		return nil, nil, errors.Wrap(err, "unable to ping database")
	}
	log.Info().Msg("database connection pool established")

	pgStore := postgres.NewPostgresStore(dbpool)
	if err := pgStore.EnsureSchema(dbCtx); err != nil {
		dbpool.Close()
		return nil, nil, err
	}

	if cfg.RedisURL == "" {
		return pgStore, dbpool.Close, nil
	}

	client, err := rediscache.NewClient(dbCtx, cfg.RedisURL)
	if err != nil {
		// The cache is optional; postgres alone is enough to serve.
		log.Warn().Err(err).Msg("redis unavailable, settings cache disabled")
		return pgStore, dbpool.Close, nil
	}
	log.Info().Dur("ttl", cfg.SettingsCacheTTL).Msg("redis settings cache enabled")

	cleanup := func() {
		if err := client.Close(); err != nil {
			log.Warn().Err(err).Msg("closing redis client")
		}
		dbpool.Close()
	}
	return rediscache.NewCachedStore(pgStore, client, cfg.SettingsCacheTTL), cleanup, nil
}
