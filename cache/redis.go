package cache

import (
    "context"
    "fmt"
    "time"

    "github.com/go-redis/redis/v8"
)

// RedisStore backs the client's cache-aside reads with Redis. Keys are
// written with a TTL and never mutated in place, so no locking is
// needed on top of Redis itself.
type RedisStore struct {
    client *redis.Client
}

func NewRedisStore(redisURL string) (*RedisStore, error) {
    opt, err := redis.ParseURL(redisURL)
    if err != nil {
        return nil, fmt.Errorf("invalid Redis URL: %v", err)
    }

    client := redis.NewClient(opt)
    ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
    defer cancel()

    if err := client.Ping(ctx).Err(); err != nil {
        return nil, fmt.Errorf("failed to connect to Redis: %v", err)
    }

    return &RedisStore{client: client}, nil
}

func (s *RedisStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
    val, err := s.client.Get(ctx, key).Bytes()
    if err == redis.Nil {
        return nil, false, nil
    }
    if err != nil {
        return nil, false, fmt.Errorf("failed to read cache key %s: %v", key, err)
    }
    return val, true, nil
}

func (s *RedisStore) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
    if err := s.client.Set(ctx, key, value, ttl).Err(); err != nil {
        return fmt.Errorf("failed to write cache key %s: %v", key, err)
    }
    return nil
}

// DeletePrefix removes every key under prefix using SCAN so large
// keyspaces are not blocked by a KEYS call.
func (s *RedisStore) DeletePrefix(ctx context.Context, prefix string) (int, error) {
    var deleted int
    var cursor uint64

    for {
        keys, next, err := s.client.Scan(ctx, cursor, prefix+"*", 100).Result()
        if err != nil {
            return deleted, fmt.Errorf("failed to scan cache keys: %v", err)
        }
        if len(keys) > 0 {
            n, err := s.client.Del(ctx, keys...).Result()
            if err != nil {
                return deleted, fmt.Errorf("failed to delete cache keys: %v", err)
            }
            deleted += int(n)
        }
        cursor = next
        if cursor == 0 {
            return deleted, nil
        }
    }
}

func (s *RedisStore) Client() *redis.Client {
    return s.client
}

func (s *RedisStore) Close() error {
    return s.client.Close()
}
