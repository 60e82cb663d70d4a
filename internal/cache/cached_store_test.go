package cache_test

import (
	"context"
	"testing"
	"time"

	"github.com/go-kit/log"
	"github.com/quietstorm/adserver/internal/cache"
	"github.com/quietstorm/adserver/internal/models"
	"github.com/quietstorm/adserver/internal/repository"
	"github.com/quietstorm/adserver/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// The cached store must remain a drop-in service.Store decorator.
var _ service.Store = (*cache.CachedStore)(nil)

func testNow() time.Time {
	return time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
}

func eligibleCampaign(id string) models.Campaign {
	now := testNow()
	return models.Campaign{
		ID:               id,
		Status:           models.CampaignStatusActive,
		StartDate:        now.AddDate(0, 0, -1),
		EndDate:          now.AddDate(0, 0, 1),
		ImpressionBudget: 100,
	}
}

func newTestCachedStore(t *testing.T, store service.Store) (*cache.CachedStore, *cache.HybridCache) {
	t.Helper()
	hc, err := cache.NewHybridCache(cache.CacheConfig{
		DefaultTTL:      time.Minute,
		MemoryCacheSize: 100,
		EnableMemory:    true,
		EnableRedis:     false,
	})
	require.NoError(t, err)
	return cache.NewCachedStore(store, hc, time.Minute, log.NewNopLogger()), hc
}

func TestCachedStore_MissFallsThroughToStore(t *testing.T) {
	mockStore := &repository.MockStore{}
	cs, _ := newTestCachedStore(t, mockStore)

	campaigns := []models.Campaign{eligibleCampaign("camp-1")}
	mockStore.On("ListEligibleCampaigns", mock.Anything, testNow()).Return(campaigns, nil)

	got, err := cs.ListEligibleCampaigns(context.Background(), testNow())

	require.NoError(t, err)
	assert.Equal(t, campaigns, got)
	mockStore.AssertExpectations(t)
}

func TestCachedStore_HitSkipsStore(t *testing.T) {
	mockStore := &repository.MockStore{}
	cs, hc := newTestCachedStore(t, mockStore)

	campaigns := []models.Campaign{eligibleCampaign("camp-1")}
	require.NoError(t, hc.SetEligibleCampaigns(context.Background(), campaigns, time.Minute))

	got, err := cs.ListEligibleCampaigns(context.Background(), testNow())

	require.NoError(t, err)
	assert.Equal(t, campaigns, got)
	mockStore.AssertNotCalled(t, "ListEligibleCampaigns", mock.Anything, mock.Anything)
}

func TestCachedStore_StaleSnapshotIsRefiltered(t *testing.T) {
	mockStore := &repository.MockStore{}
	cs, hc := newTestCachedStore(t, mockStore)

	fresh := eligibleCampaign("camp-fresh")
	ended := eligibleCampaign("camp-ended")
	ended.EndDate = testNow().Add(-time.Hour)
	exhausted := eligibleCampaign("camp-exhausted")
	exhausted.ImpressionsServed = exhausted.ImpressionBudget

	require.NoError(t, hc.SetEligibleCampaigns(context.Background(),
		[]models.Campaign{fresh, ended, exhausted}, time.Minute))

	got, err := cs.ListEligibleCampaigns(context.Background(), testNow())

	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "camp-fresh", got[0].ID)
}

func TestCachedStore_CreativesMissFallsThrough(t *testing.T) {
	mockStore := &repository.MockStore{}
	cs, _ := newTestCachedStore(t, mockStore)

	creatives := []models.Creative{{ID: "cr-1", CampaignID: "camp-1"}}
	mockStore.On("ListActiveCreatives", mock.Anything, "camp-1").Return(creatives, nil)

	got, err := cs.ListActiveCreatives(context.Background(), "camp-1")

	require.NoError(t, err)
	assert.Equal(t, creatives, got)
}

func TestCachedStore_ReserveImpressionAlwaysHitsStore(t *testing.T) {
	mockStore := &repository.MockStore{}
	cs, _ := newTestCachedStore(t, mockStore)

	mockStore.On("ReserveImpression", mock.Anything, "camp-1").Return(service.ErrBudgetExhausted)

	err := cs.ReserveImpression(context.Background(), "camp-1")

	assert.ErrorIs(t, err, service.ErrBudgetExhausted)
	mockStore.AssertExpectations(t)
}

func TestCachedStore_ReleaseImpressionAlwaysHitsStore(t *testing.T) {
	mockStore := &repository.MockStore{}
	cs, _ := newTestCachedStore(t, mockStore)

	mockStore.On("ReleaseImpression", mock.Anything, "camp-1").Return(nil)

	require.NoError(t, cs.ReleaseImpression(context.Background(), "camp-1"))
	mockStore.AssertExpectations(t)
}
