package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

// TrustScoreCache implements ports.TrustScoreCache using Redis.
type TrustScoreCache struct {
	client *goredis.Client
	prefix string
}

// NewTrustScoreCache creates a new Redis-backed trust score cache.
func NewTrustScoreCache(client *goredis.Client) *TrustScoreCache {
	return &TrustScoreCache{
		client: client,
		prefix: "trust_score:",
	}
}

// Get reports the cached score and whether one was present.
func (c *TrustScoreCache) Get(ctx context.Context, creatorID string) (int, bool, error) {
	score, err := c.client.Get(ctx, c.prefix+creatorID).Int()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return 0, false, nil
		}
		return 0, false, fmt.Errorf("redis trust score get: %w", err)
	}
	return score, true, nil
}

// Set stores a score with a TTL.
func (c *TrustScoreCache) Set(ctx context.Context, creatorID string, score int, ttl time.Duration) error {
	if err := c.client.Set(ctx, c.prefix+creatorID, score, ttl).Err(); err != nil {
		return fmt.Errorf("redis trust score set: %w", err)
	}
	return nil
}
