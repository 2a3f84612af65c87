package config

import (
	"encoding/hex"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

const (
	DefaultAPIURL         = "http://localhost:8000"
	DefaultWelcomeMessage = "Hello! How can I help you with our bonsai products today?"
	DefaultSystemPrompt   = "You are a helpful assistant for a bonsai shop. Help customers with product questions, care instructions, shipping information, and orders. Be friendly and knowledgeable about bonsai trees."

	developmentJWTSecret = "development-only-secret"
)

// Config holds application configuration values loaded from environment variables.
type Config struct {
	HTTPPort        string
	Env             string
	LogLevel        string
	LogJSON         bool
	JWTSecret       string
	TokenExpiration time.Duration
	NonceLifetime   time.Duration
	AllowedOrigins  []string

	DatabaseURL      string
	RedisURL         string
	SettingsCacheTTL time.Duration
	EncryptionKey    []byte // Raw key bytes (32 for AES-256), nil when unset

	AdminUsername     string
	AdminPasswordHash string

	// Defaults for the ConfigProvider when nothing has been stored yet.
	ChatbotAPIURL         string
	ChatbotAPIUsername    string
	ChatbotAPIPassword    string
	ChatbotUseRAG         bool
	ChatbotWelcomeMessage string
	ChatbotSystemPrompt   string
}

// IsDevelopment reports whether the process runs with development defaults.
func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

// AdminEnabled reports whether the admin routes can authenticate anyone.
func (c *Config) AdminEnabled() bool {
	return c.AdminPasswordHash != ""
}

// LoadConfig loads configuration from environment variables.
// It looks for a .env file first, then checks actual environment variables.
func LoadConfig() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		// Don't fail if .env is not present, might be in production
		log.Debug().Err(err).Msg("no .env file loaded, using environment variables only")
	}

	cfg := &Config{
		HTTPPort:              getEnv("HTTP_PORT", "8080"),
		Env:                   getEnv("APP_ENV", "development"),
		LogLevel:              getEnv("LOG_LEVEL", "info"),
		LogJSON:               getEnvBool("LOG_JSON", false),
		JWTSecret:             getEnv("JWT_SECRET", ""),
		TokenExpiration:       time.Hour * time.Duration(getEnvInt("JWT_EXPIRATION_HOURS", 24)),
		NonceLifetime:         time.Hour * time.Duration(getEnvInt("NONCE_LIFETIME_HOURS", 12)),
		AllowedOrigins:        splitList(getEnv("ALLOWED_ORIGINS", "http://localhost:3000,http://localhost:5173")),
		DatabaseURL:           getEnv("DATABASE_URL", ""),
		RedisURL:              getEnv("REDIS_URL", ""),
		SettingsCacheTTL:      getEnvDuration("SETTINGS_CACHE_TTL", 5*time.Minute),
		AdminUsername:         getEnv("ADMIN_USERNAME", "admin"),
		AdminPasswordHash:     getEnv("ADMIN_PASSWORD_HASH", ""),
		ChatbotAPIURL:         getEnv("CHATBOT_API_URL", DefaultAPIURL),
		ChatbotAPIUsername:    getEnv("CHATBOT_API_USERNAME", ""),
		ChatbotAPIPassword:    getEnv("CHATBOT_API_PASSWORD", ""),
		ChatbotUseRAG:         getEnvBool("CHATBOT_USE_RAG", true),
		ChatbotWelcomeMessage: getEnv("CHATBOT_WELCOME_MESSAGE", DefaultWelcomeMessage),
		ChatbotSystemPrompt:   getEnv("CHATBOT_SYSTEM_PROMPT", DefaultSystemPrompt),
	}

	if cfg.JWTSecret == "" {
		if !cfg.IsDevelopment() {
			return nil, errors.New("JWT_SECRET environment variable is not set")
		}
		log.Warn().Msg("JWT_SECRET not set, using the development secret")
		cfg.JWTSecret = developmentJWTSecret
	}

	// Load and decode the Encryption Key (MUST be 64 hex characters for 32 bytes)
	if keyHex := getEnv("ENCRYPTION_KEY", ""); keyHex != "" {
		key, err := decodeEncryptionKey(keyHex)
		if err != nil {
			return nil, err
		}
		cfg.EncryptionKey = key
	}
	if cfg.DatabaseURL != "" && cfg.EncryptionKey == nil {
		return nil, errors.New("ENCRYPTION_KEY must be set when DATABASE_URL is configured")
	}
	// Admin updates re-seal the upstream password, even in the memory store.
	if cfg.AdminEnabled() && cfg.EncryptionKey == nil {
		return nil, errors.New("ENCRYPTION_KEY must be set when ADMIN_PASSWORD_HASH is configured")
	}

	log.Info().
		Str("port", cfg.HTTPPort).
		Str("env", cfg.Env).
		Bool("database", cfg.DatabaseURL != "").
		Bool("redis", cfg.RedisURL != "").
		Bool("admin", cfg.AdminEnabled()).
		Str("chatbot_api_url", cfg.ChatbotAPIURL).
		Msg("configuration loaded")

	return cfg, nil
}

func decodeEncryptionKey(keyHex string) ([]byte, error) {
	key, err := hex.DecodeString(keyHex)
	if err != nil {
		return nil, errors.Wrap(err, "failed to decode ENCRYPTION_KEY from hex")
	}
	if len(key) != 32 {
		return nil, errors.Errorf("ENCRYPTION_KEY must be 32 bytes (64 hex characters) long, got %d bytes", len(key))
	}
	return key, nil
}

// getEnv retrieves an environment variable or returns a default value.
func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	raw, exists := os.LookupEnv(key)
	if !exists || raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		log.Warn().Str("key", key).Str("value", raw).Int("default", fallback).Msg("invalid integer, using default")
		return fallback
	}
	return n
}

func getEnvBool(key string, fallback bool) bool {
	raw, exists := os.LookupEnv(key)
	if !exists || raw == "" {
		return fallback
	}
	b, err := strconv.ParseBool(raw)
	if err != nil {
		log.Warn().Str("key", key).Str("value", raw).Bool("default", fallback).Msg("invalid boolean, using default")
		return fallback
	}
	return b
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	raw, exists := os.LookupEnv(key)
	if !exists || raw == "" {
		return fallback
	}
	d, err := time.ParseDuration(raw)
	if err != nil || d < 0 {
		log.Warn().Str("key", key).Str("value", raw).Dur("default", fallback).Msg("invalid duration, using default")
		return fallback
	}
	return d
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
