package cache

import (
	"context"
	"testing"
	"time"

	"github.com/quietstorm/adserver/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMemoryOnlyCache(t *testing.T) *HybridCache {
	t.Helper()
	hc, err := NewHybridCache(CacheConfig{
		DefaultTTL:      time.Minute,
		MemoryCacheSize: 100,
		EnableMemory:    true,
		EnableRedis:     false,
	})
	require.NoError(t, err)
	return hc
}

func TestHybridCache_CampaignSnapshotRoundTrip(t *testing.T) {
	hc := newMemoryOnlyCache(t)
	ctx := context.Background()

	campaigns := []models.Campaign{
		{ID: "camp-1", Priority: 1, ImpressionBudget: 100},
		{ID: "camp-2", Priority: 2, ImpressionBudget: 50},
	}

	// Cold cache misses
	_, err := hc.GetEligibleCampaigns(ctx)
	assert.ErrorIs(t, err, ErrCacheMiss)

	require.NoError(t, hc.SetEligibleCampaigns(ctx, campaigns, time.Minute))

	got, err := hc.GetEligibleCampaigns(ctx)
	require.NoError(t, err)
	assert.Equal(t, campaigns, got)
}

func TestHybridCache_CreativesRoundTrip(t *testing.T) {
	hc := newMemoryOnlyCache(t)
	ctx := context.Background()

	creatives := []models.Creative{
		{ID: "cr-1", CampaignID: "camp-1"},
		{ID: "cr-2", CampaignID: "camp-1"},
	}

	_, err := hc.GetActiveCreatives(ctx, "camp-1")
	assert.ErrorIs(t, err, ErrCacheMiss)

	require.NoError(t, hc.SetActiveCreatives(ctx, "camp-1", creatives, time.Minute))

	got, err := hc.GetActiveCreatives(ctx, "camp-1")
	require.NoError(t, err)
	assert.Equal(t, creatives, got)

	// Keys are per campaign
	_, err = hc.GetActiveCreatives(ctx, "camp-2")
	assert.ErrorIs(t, err, ErrCacheMiss)
}

func TestHybridCache_Expiry(t *testing.T) {
	hc := newMemoryOnlyCache(t)
	ctx := context.Background()

	campaigns := []models.Campaign{{ID: "camp-1"}}
	require.NoError(t, hc.SetEligibleCampaigns(ctx, campaigns, 10*time.Millisecond))

	time.Sleep(20 * time.Millisecond)

	_, err := hc.GetEligibleCampaigns(ctx)
	assert.ErrorIs(t, err, ErrCacheMiss)
}

func TestHybridCache_InvalidateAll(t *testing.T) {
	hc := newMemoryOnlyCache(t)
	ctx := context.Background()

	require.NoError(t, hc.SetEligibleCampaigns(ctx, []models.Campaign{{ID: "camp-1"}}, time.Minute))
	require.NoError(t, hc.SetActiveCreatives(ctx, "camp-1", []models.Creative{{ID: "cr-1"}}, time.Minute))

	require.NoError(t, hc.InvalidateAll(ctx))

	_, err := hc.GetEligibleCampaigns(ctx)
	assert.ErrorIs(t, err, ErrCacheMiss)
	_, err = hc.GetActiveCreatives(ctx, "camp-1")
	assert.ErrorIs(t, err, ErrCacheMiss)
}

func TestHybridCache_HealthCheckWithoutRedis(t *testing.T) {
	hc := newMemoryOnlyCache(t)

	assert.NoError(t, hc.HealthCheck(context.Background()))
}

func TestHybridCache_CloseWithoutRedis(t *testing.T) {
	hc := newMemoryOnlyCache(t)

	require.NoError(t, hc.SetEligibleCampaigns(context.Background(), []models.Campaign{{ID: "camp-1"}}, time.Minute))
	assert.NoError(t, hc.Close())
}

func TestHybridCache_Stats(t *testing.T) {
	hc := newMemoryOnlyCache(t)
	ctx := context.Background()

	hc.GetEligibleCampaigns(ctx) // miss
	hc.SetEligibleCampaigns(ctx, []models.Campaign{{ID: "camp-1"}}, time.Minute)
	hc.GetEligibleCampaigns(ctx) // hit

	stats := hc.GetStats()
	assert.Equal(t, int64(1), stats.Hits)
	assert.Equal(t, int64(1), stats.Misses)
	assert.Equal(t, int64(2), stats.TotalOps)
	assert.InDelta(t, 0.5, stats.HitRatio, 1e-9)
}

func TestMemoryCache_MaxSizeEviction(t *testing.T) {
	mc := newMemoryCache(2)
	defer mc.close()

	mc.setCreatives("creatives:a", []models.Creative{{ID: "a"}}, time.Minute)
	mc.setCreatives("creatives:b", []models.Creative{{ID: "b"}}, time.Minute)
	mc.setCreatives("creatives:c", []models.Creative{{ID: "c"}}, time.Minute)

	assert.LessOrEqual(t, mc.size(), 2)
}
