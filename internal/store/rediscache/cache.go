package rediscache

import (
	"bonsaichat-backend/internal/models"
	"bonsaichat-backend/internal/store"
	"context"
	"encoding/json"
	"time"

	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// DefaultKey is where the settings snapshot is cached.
const DefaultKey = "bonsaichat:widget_settings"

var _ store.SettingsStore = (*CachedStore)(nil)

// CachedStore is a read-through redis cache in front of another store.
// Redis errors never fail a call; they fall through to the wrapped store.
type CachedStore struct {
	next   store.SettingsStore
	client redis.UniversalClient
	key    string
	ttl    time.Duration
}

func NewCachedStore(next store.SettingsStore, client redis.UniversalClient, ttl time.Duration) *CachedStore {
	return &CachedStore{next: next, client: client, key: DefaultKey, ttl: ttl}
}

// NewClient parses redisURL and verifies the server answers a ping.
func NewClient(ctx context.Context, redisURL string) (*redis.Client, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, errors.Wrap(err, "failed to parse Redis URL")
	}
	client := redis.NewClient(opt)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, errors.Wrap(err, "failed to ping Redis")
	}
	return client, nil
}

func (c *CachedStore) GetSettings(ctx context.Context) (*models.StoredSettings, error) {
	raw, err := c.client.Get(ctx, c.key).Bytes()
	switch {
	case err == nil:
		var cached models.StoredSettings
		if jsonErr := json.Unmarshal(raw, &cached); jsonErr == nil {
			return &cached, nil
		}
		log.Warn().Str("component", "rediscache").Msg("discarding undecodable cached settings")
	case errors.Is(err, redis.Nil):
	default:
		log.Warn().Err(err).Str("component", "rediscache").Msg("redis get failed, reading through")
	}

	settings, err := c.next.GetSettings(ctx)
	if err != nil {
		return nil, err
	}
	c.fill(ctx, settings)
	return settings, nil
}

func (c *CachedStore) UpsertSettings(ctx context.Context, arg store.UpsertSettingsParams) (*models.StoredSettings, error) {
	settings, err := c.next.UpsertSettings(ctx, arg)
	if err != nil {
		return nil, err
	}
	if err := c.client.Del(ctx, c.key).Err(); err != nil {
		log.Warn().Err(err).Str("component", "rediscache").Msg("redis invalidate failed")
	}
	return settings, nil
}

func (c *CachedStore) fill(ctx context.Context, settings *models.StoredSettings) {
	payload, err := json.Marshal(settings)
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, c.key, payload, c.ttl).Err(); err != nil {
		log.Warn().Err(err).Str("component", "rediscache").Msg("redis set failed")
	}
}
