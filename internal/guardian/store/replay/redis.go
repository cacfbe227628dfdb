package replay

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"

	"caguard/internal/guardian/models"
)

const (
	signatureKeyPrefix = "caguard:sig:"
	nonceKeyPrefix     = "caguard:nonce:"
)

// RedisStore implements both guards on Redis. Keys never expire.
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore constructs a Redis-backed replay store.
func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

func signatureKey(key models.Hash) string {
	return signatureKeyPrefix + key.String()
}

func nonceRedisKey(holder models.HolderID, nonce string) string {
	return nonceKeyPrefix + holder.String() + ":" + nonce
}

func (s *RedisStore) Seen(ctx context.Context, key models.Hash) (bool, error) {
	n, err := s.client.Exists(ctx, signatureKey(key)).Result()
	if err != nil {
		return false, fmt.Errorf("check signature key: %w", err)
	}
	return n > 0, nil
}

func (s *RedisStore) Mark(ctx context.Context, key models.Hash) (bool, error) {
	fresh, err := s.client.SetNX(ctx, signatureKey(key), "1", 0).Result()
	if err != nil {
		return false, fmt.Errorf("mark signature key: %w", err)
	}
	return fresh, nil
}

// Consume relies on SETNX for the atomic test-and-insert.
func (s *RedisStore) Consume(ctx context.Context, holder models.HolderID, nonce string) (bool, error) {
	fresh, err := s.client.SetNX(ctx, nonceRedisKey(holder, nonce), "1", 0).Result()
	if err != nil {
		return false, fmt.Errorf("consume nonce: %w", err)
	}
	return fresh, nil
}
