package registry

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisStore persists per-trade registries in Redis.
type RedisStore struct {
	client *redis.Client
	prefix string
}

// NewRedisStore connects to Redis using a URL of the form
// redis://host:port/db.
func NewRedisStore(redisURL string) (*RedisStore, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("connect to redis: %w", err)
	}

	return NewRedisStoreWithClient(client), nil
}

// NewRedisStoreWithClient wraps an existing Redis client.
func NewRedisStoreWithClient(client *redis.Client) *RedisStore {
	return &RedisStore{
		client: client,
		prefix: "registry:",
	}
}

func (s *RedisStore) key(tradeID string) string {
	return s.prefix + tradeID
}

// Load returns the registry of a trade. A trade with no stored registry
// yields an empty one.
func (s *RedisStore) Load(ctx context.Context, tradeID string) (*Registry, error) {
	jsonData, err := s.client.Get(ctx, s.key(tradeID)).Result()
	if err == redis.Nil {
		return New(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("load registry: %w", err)
	}

	var values map[string]string
	if err := json.Unmarshal([]byte(jsonData), &values); err != nil {
		return nil, fmt.Errorf("unmarshal registry: %w", err)
	}
	return FromValues(values), nil
}

// Save stores the registry of a trade. Registries live as long as the trade;
// they are removed explicitly with Delete.
func (s *RedisStore) Save(ctx context.Context, tradeID string, reg *Registry) error {
	jsonData, err := json.Marshal(reg.Snapshot())
	if err != nil {
		return fmt.Errorf("marshal registry: %w", err)
	}
	if err := s.client.Set(ctx, s.key(tradeID), jsonData, 0).Err(); err != nil {
		return fmt.Errorf("save registry: %w", err)
	}
	return nil
}

// Delete removes the registry of a trade.
func (s *RedisStore) Delete(ctx context.Context, tradeID string) error {
	if err := s.client.Del(ctx, s.key(tradeID)).Err(); err != nil {
		return fmt.Errorf("delete registry: %w", err)
	}
	return nil
}

// Close closes the Redis connection.
func (s *RedisStore) Close() error {
	return s.client.Close()
}

// Ping checks if Redis is reachable.
func (s *RedisStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}
