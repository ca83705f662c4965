package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

// SettlementCache implements ports.SettlementCache using Redis.
// Values are the JSON of an active payment keyed by submission id.
type SettlementCache struct {
	client *goredis.Client
	prefix string
}

// NewSettlementCache creates a new Redis-backed settlement cache.
func NewSettlementCache(client *goredis.Client) *SettlementCache {
	return &SettlementCache{
		client: client,
		prefix: "settlement:",
	}
}

// Get returns the cached payment JSON, or nil, nil on a miss.
func (c *SettlementCache) Get(ctx context.Context, submissionID string) ([]byte, error) {
	val, err := c.client.Get(ctx, c.prefix+submissionID).Bytes()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("redis settlement get: %w", err)
	}
	return val, nil
}

// Set stores the payment JSON with a TTL.
func (c *SettlementCache) Set(ctx context.Context, submissionID string, value []byte, ttl time.Duration) error {
	if err := c.client.Set(ctx, c.prefix+submissionID, value, ttl).Err(); err != nil {
		return fmt.Errorf("redis settlement set: %w", err)
	}
	return nil
}
