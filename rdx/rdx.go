package rdx

import (
	"context"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
)

// Cache is a thin wrapper over the redis client for response caching and the
// autocomplete index. A nil *Cache is a no-op so callers can run without redis.
type Cache struct {
	Conn *redis.Client
}

// New dials redis at addr. Returns nil (cache disabled) when the server is
// unreachable; the service degrades to uncached reads.
func New(addr string) *Cache {
	conn := redis.NewClient(&redis.Options{Addr: addr})

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := conn.Ping(ctx).Err(); err != nil {
		log.Printf("redis unavailable at %s, caching disabled: %v", addr, err)
		return nil
	}
	return &Cache{Conn: conn}
}

func (c *Cache) Get(ctx context.Context, key string) (string, error) {
	if c == nil {
		return "", redis.Nil
	}
	return c.Conn.Get(ctx, key).Result()
}

func (c *Cache) Set(ctx context.Context, key, value string, ttl time.Duration) {
	if c == nil {
		return
	}
	if err := c.Conn.Set(ctx, key, value, ttl).Err(); err != nil {
		log.Printf("redis SET %s: %v", key, err)
	}
}

// Del removes cached entries, used for write invalidation.
func (c *Cache) Del(ctx context.Context, keys ...string) {
	if c == nil {
		return
	}
	if err := c.Conn.Del(ctx, keys...).Err(); err != nil {
		log.Printf("redis DEL %v: %v", keys, err)
	}
}
