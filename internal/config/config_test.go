package config

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestGetEnv(t *testing.T) {
	tests := []struct {
		name     string
		key      string
		envValue *string
		fallback string
		expected string
	}{
		{"uses env value", "CHATRELAY_TEST_VAR_1", strPtr("hello"), "default", "hello"},
		{"uses default when unset", "CHATRELAY_TEST_VAR_2", nil, "default", "default"},
		{"keeps explicit empty value", "CHATRELAY_TEST_VAR_3", strPtr(""), "default", ""},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if tc.envValue != nil {
				t.Setenv(tc.key, *tc.envValue)
			}
			require.Equal(t, tc.expected, getEnv(tc.key, tc.fallback))
		})
	}
}

func TestGetEnvInt(t *testing.T) {
	tests := []struct {
		name     string
		envValue string
		expected int
	}{
		{"parses integer", "42", 42},
		{"uses default for empty", "", 10},
		{"uses default for non-numeric", "abc", 10},
		{"uses default for negative", "-3", 10},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Setenv("CHATRELAY_TEST_INT", tc.envValue)
			require.Equal(t, tc.expected, getEnvInt("CHATRELAY_TEST_INT", 10))
		})
	}
}

func TestGetEnvBoolAndDuration(t *testing.T) {
	t.Setenv("CHATRELAY_TEST_BOOL", "false")
	require.False(t, getEnvBool("CHATRELAY_TEST_BOOL", true))

	t.Setenv("CHATRELAY_TEST_BOOL", "maybe")
	require.True(t, getEnvBool("CHATRELAY_TEST_BOOL", true))

	t.Setenv("CHATRELAY_TEST_DUR", "90s")
	require.Equal(t, 90*time.Second, getEnvDuration("CHATRELAY_TEST_DUR", time.Minute))

	t.Setenv("CHATRELAY_TEST_DUR", "soon")
	require.Equal(t, time.Minute, getEnvDuration("CHATRELAY_TEST_DUR", time.Minute))
}

func TestSplitList(t *testing.T) {
	require.Equal(t, []string{"a", "b"}, splitList(" a, ,b ,"))
	require.Nil(t, splitList(""))
}

func TestLoadConfig_Defaults(t *testing.T) {
	t.Setenv("APP_ENV", "development")
	t.Setenv("JWT_SECRET", "")
	t.Setenv("DATABASE_URL", "")
	t.Setenv("ENCRYPTION_KEY", "")
	t.Setenv("ADMIN_PASSWORD_HASH", "")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	require.Equal(t, developmentJWTSecret, cfg.JWTSecret)
	require.True(t, cfg.ChatbotUseRAG)
	require.Equal(t, DefaultWelcomeMessage, cfg.ChatbotWelcomeMessage)
	require.NotEmpty(t, cfg.ChatbotSystemPrompt)
	require.Equal(t, 12*time.Hour, cfg.NonceLifetime)
	require.False(t, cfg.AdminEnabled())
}

func TestLoadConfig_RequiresSecretOutsideDevelopment(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	t.Setenv("JWT_SECRET", "")

	_, err := LoadConfig()
	require.Error(t, err)
	require.Contains(t, err.Error(), "JWT_SECRET")
}

func TestLoadConfig_DatabaseNeedsEncryptionKey(t *testing.T) {
	t.Setenv("APP_ENV", "development")
	t.Setenv("DATABASE_URL", "postgres://localhost/chat")
	t.Setenv("ENCRYPTION_KEY", "")

	_, err := LoadConfig()
	require.Error(t, err)
	require.Contains(t, err.Error(), "ENCRYPTION_KEY")
}

func TestLoadConfig_AdminNeedsEncryptionKey(t *testing.T) {
	t.Setenv("APP_ENV", "development")
	t.Setenv("DATABASE_URL", "")
	t.Setenv("ADMIN_PASSWORD_HASH", "$2a$10$abcdefghijklmnopqrstuv")
	t.Setenv("CHATBOT_API_PASSWORD", "envpw")
	t.Setenv("ENCRYPTION_KEY", "")

	_, err := LoadConfig()
	require.Error(t, err)
	require.Contains(t, err.Error(), "ENCRYPTION_KEY")

	t.Setenv("ENCRYPTION_KEY", strings.Repeat("ab", 32))
	cfg, err := LoadConfig()
	require.NoError(t, err)
	require.True(t, cfg.AdminEnabled())
}

func TestLoadConfig_EncryptionKeyLength(t *testing.T) {
	t.Setenv("APP_ENV", "development")
	t.Setenv("DATABASE_URL", "")
	t.Setenv("ADMIN_PASSWORD_HASH", "")
	t.Setenv("ENCRYPTION_KEY", "abcd")

	_, err := LoadConfig()
	require.Error(t, err)

	t.Setenv("ENCRYPTION_KEY", strings.Repeat("ab", 32))
	cfg, err := LoadConfig()
	require.NoError(t, err)
	require.Len(t, cfg.EncryptionKey, 32)
}

func strPtr(s string) *string { return &s }
