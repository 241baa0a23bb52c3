package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const redisPrefix = "store-cli:cache:"

// RedisBackend shares cache entries between machines through Redis. Expiry
// is delegated to the server via SET EX.
type RedisBackend struct {
	Client *redis.Client
}

var _ Backend = (*RedisBackend)(nil)

// NewRedisBackend connects using a redis:// or rediss:// URL.
func NewRedisBackend(rawURL string) (*RedisBackend, error) {
	opts, err := redis.ParseURL(rawURL)
	if err != nil {
		return nil, fmt.Errorf("invalid redis url: %w", err)
	}
	return &RedisBackend{Client: redis.NewClient(opts)}, nil
}

func (b *RedisBackend) Get(ctx context.Context, key string) ([]byte, bool) {
	data, err := b.Client.Get(ctx, redisPrefix+key).Bytes()
	if err != nil {
		return nil, false
	}
	return data, true
}

func (b *RedisBackend) Set(ctx context.Context, key string, data []byte, ttl time.Duration) {
	_ = b.Client.Set(ctx, redisPrefix+key, data, ttl).Err()
}

func (b *RedisBackend) Delete(ctx context.Context, key string) {
	_ = b.Client.Del(ctx, redisPrefix+key).Err()
}

// ClearAll deletes every key under the cache prefix.
func (b *RedisBackend) ClearAll(ctx context.Context) {
	iter := b.Client.Scan(ctx, 0, redisPrefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		_ = b.Client.Del(ctx, iter.Val()).Err()
	}
}

// Close releases the connection pool.
func (b *RedisBackend) Close() error {
	return b.Client.Close()
}
