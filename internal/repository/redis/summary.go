package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/utafrali/review-service/internal/domain"
)

const keyPrefix = "rating:summary:"

// SummaryCache implements repository.SummaryCache using Redis. Cached values
// are derived from the counters table and can always be recomputed, so cache
// errors are soft: a miss and a short TTL cover the failure modes.
type SummaryCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewSummaryCache creates a new Redis-backed rating summary cache.
func NewSummaryCache(client *redis.Client, ttl time.Duration) *SummaryCache {
	return &SummaryCache{
		client: client,
		ttl:    ttl,
	}
}

func summaryKey(itemID int64) string {
	return fmt.Sprintf("%s%d", keyPrefix, itemID)
}

// Get retrieves a cached summary. A miss returns (nil, nil).
func (c *SummaryCache) Get(ctx context.Context, itemID int64) (*domain.RatingSummary, error) {
	data, err := c.client.Get(ctx, summaryKey(itemID)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, fmt.Errorf("redis get rating summary: %w", err)
	}

	var summary domain.RatingSummary
	if err := json.Unmarshal(data, &summary); err != nil {
		return nil, fmt.Errorf("unmarshal rating summary: %w", err)
	}

	return &summary, nil
}

// Set stores a summary with the configured TTL.
func (c *SummaryCache) Set(ctx context.Context, summary domain.RatingSummary) error {
	data, err := json.Marshal(summary)
	if err != nil {
		return fmt.Errorf("marshal rating summary: %w", err)
	}

	if err := c.client.Set(ctx, summaryKey(summary.ItemID), data, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set rating summary: %w", err)
	}

	return nil
}

// Invalidate drops the cached summary for an item.
func (c *SummaryCache) Invalidate(ctx context.Context, itemID int64) error {
	if err := c.client.Del(ctx, summaryKey(itemID)).Err(); err != nil {
		return fmt.Errorf("redis del rating summary: %w", err)
	}

	return nil
}
