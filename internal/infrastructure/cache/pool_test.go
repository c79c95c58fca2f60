package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupCacheTest(t *testing.T) (*PoolCache, *miniredis.Miniredis) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	return &PoolCache{Rdb: rdb, TTL: time.Minute}, mr
}

func TestPoolCache_RoundTrip(t *testing.T) {
	c, _ := setupCacheTest(t)
	ctx := context.Background()

	assert.Nil(t, c.Get(ctx))

	s := &PoolSummary{
		TotalUnits:      1000,
		RemainingUnits:  400,
		TotalValueSold:  6000,
		GlobalPoolValue: 150.50,
		UnitPrice:       0.1505,
	}
	c.Set(ctx, s)

	got := c.Get(ctx)
	require.NotNil(t, got)
	assert.Equal(t, *s, *got)
}

func TestPoolCache_Invalidate(t *testing.T) {
	c, _ := setupCacheTest(t)
	ctx := context.Background()

	c.Set(ctx, &PoolSummary{TotalUnits: 1000})
	require.NotNil(t, c.Get(ctx))

	c.Invalidate(ctx)
	assert.Nil(t, c.Get(ctx))
}

func TestPoolCache_Expiry(t *testing.T) {
	c, mr := setupCacheTest(t)
	ctx := context.Background()

	c.Set(ctx, &PoolSummary{TotalUnits: 1000})
	mr.FastForward(2 * time.Minute)
	assert.Nil(t, c.Get(ctx))
}

func TestPoolCache_NilReceiverSafe(t *testing.T) {
	var c *PoolCache
	ctx := context.Background()
	assert.Nil(t, c.Get(ctx))
	c.Set(ctx, &PoolSummary{})
	c.Invalidate(ctx)
}
