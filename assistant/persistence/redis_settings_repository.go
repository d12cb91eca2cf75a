package persistence

import (
	"context"
	"errors"
	"fmt"

	"github.com/dfryer1193/wpgen/assistant/domain"
	"github.com/redis/go-redis/v9"
)

var _ domain.SettingsRepository = (*RedisSettingsRepository)(nil)

// RedisSettingsRepository keeps the credentials blob under a single Redis key.
type RedisSettingsRepository struct {
	client *redis.Client
	key    string
}

func NewRedisSettingsRepository(client *redis.Client) *RedisSettingsRepository {
	return &RedisSettingsRepository{
		client: client,
		key:    domain.SettingsKey,
	}
}

func (r *RedisSettingsRepository) Save(ctx context.Context, creds *domain.Credentials) error {
	blob, err := encodeCredentials(creds)
	if err != nil {
		return err
	}
	// no expiry: the record lives until overwritten
	if err := r.client.Set(ctx, r.key, blob, 0).Err(); err != nil {
		return fmt.Errorf("failed to store settings in redis: %w", err)
	}
	return nil
}

func (r *RedisSettingsRepository) Load(ctx context.Context) (*domain.Credentials, error) {
	blob, err := r.client.Get(ctx, r.key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read settings from redis: %w", err)
	}
	return decodeCredentials(blob)
}
