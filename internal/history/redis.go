package history

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/abhisek/puzzlegen/internal/puzzle"
)

const keyPrefix = "puzzlegen:answers:"

// RedisStore keeps answer history in one Redis list per puzzle type, so
// several generator processes share it.
type RedisStore struct {
	client *redis.Client
	size   int
}

// NewRedisStore wraps an existing client.
func NewRedisStore(client *redis.Client, size int) *RedisStore {
	if size <= 0 {
		size = DefaultSize
	}
	return &RedisStore{client: client, size: size}
}

// OpenRedis connects to the server at url (redis://...) and pings it.
func OpenRedis(ctx context.Context, url string, size int) (*RedisStore, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	opts.DialTimeout = 5 * time.Second
	opts.ReadTimeout = 3 * time.Second
	opts.WriteTimeout = 3 * time.Second

	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}
	return NewRedisStore(client, size), nil
}

func key(t puzzle.Type) string {
	return keyPrefix + t.Slug()
}

// Record moves answer to the head of the list and trims it to the size
// limit in one transaction.
func (s *RedisStore) Record(ctx context.Context, t puzzle.Type, answer string) error {
	answer = strings.TrimSpace(answer)
	if answer == "" {
		return nil
	}
	k := key(t)
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.LRem(ctx, k, 0, answer)
		pipe.LPush(ctx, k, answer)
		pipe.LTrim(ctx, k, 0, int64(s.size-1))
		return nil
	})
	if err != nil {
		return fmt.Errorf("record answer: %w", err)
	}
	return nil
}

// Recent returns up to n answers, or all of them when n <= 0.
func (s *RedisStore) Recent(ctx context.Context, t puzzle.Type, n int) ([]string, error) {
	stop := int64(-1)
	if n > 0 {
		stop = int64(n - 1)
	}
	answers, err := s.client.LRange(ctx, key(t), 0, stop).Result()
	if err != nil {
		return nil, fmt.Errorf("list recent answers: %w", err)
	}
	return answers, nil
}

// Close closes the Redis connection.
func (s *RedisStore) Close() error {
	return s.client.Close()
}
