package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
)

const poolSummaryKey = "participation:pool-summary"

// PoolSummary is the cached read model of the pool dashboard endpoint.
type PoolSummary struct {
	TotalUnits      int64   `json:"total_units"`
	RemainingUnits  int64   `json:"remaining_units"`
	TotalValueSold  float64 `json:"total_value_sold"`
	GlobalPoolValue float64 `json:"global_pool_value"`
	UnitPrice       float64 `json:"unit_price"`
}

// PoolCache caches the pool summary in Redis. Both write operations
// invalidate it after commit, so a warm entry is at most TTL stale and
// never reflects an uncommitted transaction.
type PoolCache struct {
	Rdb *redis.Client
	TTL time.Duration
}

func (c *PoolCache) ttl() time.Duration {
	if c.TTL > 0 {
		return c.TTL
	}
	return 30 * time.Second
}

// Get returns the cached summary, or nil on miss or any Redis error
// (cache failures degrade to a DB read, never to a request failure).
func (c *PoolCache) Get(ctx context.Context) *PoolSummary {
	if c == nil || c.Rdb == nil {
		return nil
	}
	b, err := c.Rdb.Get(ctx, poolSummaryKey).Bytes()
	if err != nil {
		return nil
	}
	var s PoolSummary
	if err := json.Unmarshal(b, &s); err != nil {
		return nil
	}
	return &s
}

// Set stores the summary. Errors are ignored for the same reason as Get.
func (c *PoolCache) Set(ctx context.Context, s *PoolSummary) {
	if c == nil || c.Rdb == nil || s == nil {
		return
	}
	b, err := json.Marshal(s)
	if err != nil {
		return
	}
	c.Rdb.Set(ctx, poolSummaryKey, b, c.ttl())
}

// Invalidate drops the cached summary. Called after every committed
// purchase or distribution.
func (c *PoolCache) Invalidate(ctx context.Context) {
	if c == nil || c.Rdb == nil {
		return
	}
	c.Rdb.Del(ctx, poolSummaryKey)
}
