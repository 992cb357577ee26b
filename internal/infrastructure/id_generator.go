package infrastructure

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

type UUIDGenerator struct{}

func (UUIDGenerator) NextTransactionID(context.Context) (string, error) {
	id, err := uuid.NewRandom()
	if err != nil {
		return "", fmt.Errorf("failed to generate uuid: %w", err)
	}
	return id.String(), nil
}

// StaticGenerator hands out the same id every time. Useful against sandboxes
// that expect a fixed reference.
type StaticGenerator struct {
	ID string
}

func (g StaticGenerator) NextTransactionID(context.Context) (string, error) {
	return g.ID, nil
}

// RedisSequenceGenerator numbers transactions with INCR on a shared key, so
// ids stay unique across every instance talking to the same Redis.
type RedisSequenceGenerator struct {
	client *redis.Client
	key    string
	prefix string
}

func NewRedisSequenceGenerator(addr, key, prefix string) *RedisSequenceGenerator {
	client := redis.NewClient(&redis.Options{
		Addr:         addr,
		DB:           0,
		PoolSize:     32,
		MinIdleConns: 4,
		DialTimeout:  500 * time.Millisecond,
		ReadTimeout:  300 * time.Millisecond,
		WriteTimeout: 300 * time.Millisecond,
		MaxRetries:   2,
	})

	return &RedisSequenceGenerator{
		client: client,
		key:    key,
		prefix: prefix,
	}
}

func (g *RedisSequenceGenerator) Ping(ctx context.Context) error {
	if err := g.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis ping failed: %w", err)
	}
	return nil
}

func (g *RedisSequenceGenerator) NextTransactionID(ctx context.Context) (string, error) {
	n, err := g.client.Incr(ctx, g.key).Result()
	if err != nil {
		return "", fmt.Errorf("failed to increment %s: %w", g.key, err)
	}
	return FormatSequenceID(g.prefix, n), nil
}

func (g *RedisSequenceGenerator) Close() error {
	return g.client.Close()
}

func FormatSequenceID(prefix string, n int64) string {
	return fmt.Sprintf("%s%012d", prefix, n)
}
