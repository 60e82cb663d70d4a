package cache

import (
	"context"
	"time"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/quietstorm/adserver/internal/models"
	"github.com/quietstorm/adserver/internal/service"
)

// CachedStore decorates a service.Store with cached reads. Only the
// eligible-campaign snapshot and creative lists are cached; impression
// reservations and tracking writes always go straight through so budget
// accounting stays exact.
type CachedStore struct {
	service.Store
	cache  Cache
	ttl    time.Duration
	logger log.Logger
}

// NewCachedStore wraps the given store with a caching layer
func NewCachedStore(store service.Store, c Cache, ttl time.Duration, logger log.Logger) *CachedStore {
	return &CachedStore{
		Store:  store,
		cache:  c,
		ttl:    ttl,
		logger: logger,
	}
}

// ListEligibleCampaigns serves the campaign snapshot from cache when
// possible. Cached snapshots are re-filtered against the current time so a
// campaign whose flight window closed since the fill is never returned.
func (cs *CachedStore) ListEligibleCampaigns(ctx context.Context, now time.Time) ([]models.Campaign, error) {
	campaigns, err := cs.cache.GetEligibleCampaigns(ctx)
	if err == nil {
		return filterEligible(campaigns, now), nil
	}

	campaigns, err = cs.Store.ListEligibleCampaigns(ctx, now)
	if err != nil {
		return nil, err
	}

	go func() {
		cctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := cs.cache.SetEligibleCampaigns(cctx, campaigns, cs.ttl); err != nil {
			level.Warn(cs.logger).Log("msg", "failed to cache campaign snapshot", "err", err)
		}
	}()

	return campaigns, nil
}

// ListActiveCreatives serves a campaign's creative list from cache when
// possible
func (cs *CachedStore) ListActiveCreatives(ctx context.Context, campaignID string) ([]models.Creative, error) {
	creatives, err := cs.cache.GetActiveCreatives(ctx, campaignID)
	if err == nil {
		return creatives, nil
	}

	creatives, err = cs.Store.ListActiveCreatives(ctx, campaignID)
	if err != nil {
		return nil, err
	}

	go func() {
		cctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := cs.cache.SetActiveCreatives(cctx, campaignID, creatives, cs.ttl); err != nil {
			level.Warn(cs.logger).Log("msg", "failed to cache creatives", "campaign_id", campaignID, "err", err)
		}
	}()

	return creatives, nil
}

func filterEligible(campaigns []models.Campaign, now time.Time) []models.Campaign {
	eligible := make([]models.Campaign, 0, len(campaigns))
	for _, c := range campaigns {
		if c.EligibleAt(now) {
			eligible = append(eligible, c)
		}
	}
	return eligible
}
