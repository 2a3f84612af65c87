package postgres

import (
	"bonsaichat-backend/internal/models"
	"bonsaichat-backend/internal/store"
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

// Compile-time check to ensure PostgresStore implements store.SettingsStore
var _ store.SettingsStore = (*PostgresStore)(nil)

// settingsRowID pins the single settings row.
const settingsRowID = 1

const schemaSQL = `
	CREATE TABLE IF NOT EXISTS widget_settings (
		id                     SMALLINT PRIMARY KEY CHECK (id = 1),
		api_url                TEXT NOT NULL,
		api_username           TEXT NOT NULL DEFAULT '',
		encrypted_api_password BYTEA,
		use_rag                BOOLEAN NOT NULL DEFAULT TRUE,
		welcome_message        TEXT NOT NULL DEFAULT '',
		updated_at             TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`

type PostgresStore struct {
	db *pgxpool.Pool
}

func NewPostgresStore(db *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{db: db}
}

// EnsureSchema creates the settings table when it does not exist yet.
func (s *PostgresStore) EnsureSchema(ctx context.Context) error {
	if _, err := s.db.Exec(ctx, schemaSQL); err != nil {
		return errors.Wrap(err, "creating widget_settings table")
	}
	return nil
}

// GetSettings retrieves the stored settings row.
// Returns store.ErrNotFound if nothing has been saved yet.
func (s *PostgresStore) GetSettings(ctx context.Context) (*models.StoredSettings, error) {
	query := `
		SELECT api_url, api_username, encrypted_api_password, use_rag, welcome_message, updated_at
		FROM widget_settings
		WHERE id = $1`

	settings := &models.StoredSettings{}
	err := s.db.QueryRow(ctx, query, settingsRowID).Scan(
		&settings.APIURL,
		&settings.APIUsername,
		&settings.EncryptedAPIPassword,
		&settings.UseRAG,
		&settings.WelcomeMessage,
		&settings.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, store.ErrNotFound
		}
		log.Error().Err(err).Str("component", "postgres").Msg("GetSettings query failed")
		return nil, errors.Wrap(err, "database error fetching widget settings")
	}

	return settings, nil
}

// UpsertSettings writes the settings row, creating it on first save.
func (s *PostgresStore) UpsertSettings(ctx context.Context, arg store.UpsertSettingsParams) (*models.StoredSettings, error) {
	query := `
		INSERT INTO widget_settings (id, api_url, api_username, encrypted_api_password, use_rag, welcome_message, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW())
		ON CONFLICT (id) DO UPDATE SET
			api_url = EXCLUDED.api_url,
			api_username = EXCLUDED.api_username,
			encrypted_api_password = EXCLUDED.encrypted_api_password,
			use_rag = EXCLUDED.use_rag,
			welcome_message = EXCLUDED.welcome_message,
			updated_at = NOW()
		RETURNING api_url, api_username, encrypted_api_password, use_rag, welcome_message, updated_at`

	settings := &models.StoredSettings{}
	err := s.db.QueryRow(ctx, query,
		settingsRowID,
		arg.APIURL,
		arg.APIUsername,
		arg.EncryptedAPIPassword,
		arg.UseRAG,
		arg.WelcomeMessage,
	).Scan(
		&settings.APIURL,
		&settings.APIUsername,
		&settings.EncryptedAPIPassword,
		&settings.UseRAG,
		&settings.WelcomeMessage,
		&settings.UpdatedAt,
	)
	if err != nil {
		log.Error().Err(err).Str("component", "postgres").Msg("UpsertSettings failed")
		return nil, errors.Wrap(err, "database error saving widget settings")
	}

	log.Info().Str("component", "postgres").Str("api_url", settings.APIURL).Msg("widget settings saved")
	return settings, nil
}
