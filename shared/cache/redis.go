package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// Cache is a thin JSON cache over Redis. When Redis is unreachable at startup
// the cache degrades to a pass-through: every Get misses and every Set is a
// no-op, so callers never need to care whether Redis is running.
type Cache struct {
	client *redis.Client
	logger *zerolog.Logger
}

// NewRedisCache connects to Redis at addr. A failed ping disables the cache
// instead of failing the caller.
func NewRedisCache(logger *zerolog.Logger, addr, password string) *Cache {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       0,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		logger.Warn().Err(err).Msg("redis unavailable, caching disabled")
		_ = client.Close()
		return &Cache{logger: logger}
	}

	return &Cache{client: client, logger: logger}
}

// GetJSON reads the value stored under key into out. The boolean reports
// whether the key was present.
func (c *Cache) GetJSON(ctx context.Context, key string, out any) (bool, error) {
	if c == nil || c.client == nil {
		return false, nil
	}

	data, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return false, nil
		}
		return false, err
	}

	if err := json.Unmarshal(data, out); err != nil {
		return false, err
	}

	return true, nil
}

// SetJSON stores value under key for ttl.
func (c *Cache) SetJSON(ctx context.Context, key string, value any, ttl time.Duration) error {
	if c == nil || c.client == nil {
		return nil
	}

	data, err := json.Marshal(value)
	if err != nil {
		return err
	}

	return c.client.Set(ctx, key, data, ttl).Err()
}

// Close releases the underlying connection pool.
func (c *Cache) Close() error {
	if c == nil || c.client == nil {
		return nil
	}

	return c.client.Close()
}
