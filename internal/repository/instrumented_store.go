package repository

import (
	"context"
	"errors"
	"time"

	"github.com/quietstorm/adserver/internal/metrics"
	"github.com/quietstorm/adserver/internal/models"
	"github.com/quietstorm/adserver/internal/service"
)

// InstrumentedStore wraps a store with database metrics collection
type InstrumentedStore struct {
	next    service.Store
	metrics *metrics.Metrics
}

// NewInstrumentedStore creates a new instrumented store
func NewInstrumentedStore(next service.Store, metrics *metrics.Metrics) *InstrumentedStore {
	return &InstrumentedStore{
		next:    next,
		metrics: metrics,
	}
}

// ListEligibleCampaigns implements service.CampaignStore with metrics
func (s *InstrumentedStore) ListEligibleCampaigns(ctx context.Context, now time.Time) (campaigns []models.Campaign, err error) {
	defer func() {
		s.metrics.RecordDatabaseQuery("select", "campaigns")
		if err != nil {
			s.metrics.RecordDatabaseError("select", "query_error")
		}
	}()

	campaigns, err = s.next.ListEligibleCampaigns(ctx, now)
	return
}

// ListActiveCreatives implements service.CampaignStore with metrics
func (s *InstrumentedStore) ListActiveCreatives(ctx context.Context, campaignID string) (creatives []models.Creative, err error) {
	defer func() {
		s.metrics.RecordDatabaseQuery("select", "ad_creatives")
		if err != nil {
			s.metrics.RecordDatabaseError("select", "query_error")
		}
	}()

	creatives, err = s.next.ListActiveCreatives(ctx, campaignID)
	return
}

// ReserveImpression implements service.CampaignStore with metrics. A
// budget-exhausted outcome is counted separately from real errors since the
// serve loop treats it as a routine skip.
func (s *InstrumentedStore) ReserveImpression(ctx context.Context, campaignID string) (err error) {
	defer func() {
		s.metrics.RecordDatabaseQuery("update", "campaigns")
		if errors.Is(err, service.ErrBudgetExhausted) {
			s.metrics.RecordBudgetExhaustedSkip()
		} else if err != nil {
			s.metrics.RecordDatabaseError("update", "query_error")
		}
	}()

	err = s.next.ReserveImpression(ctx, campaignID)
	return
}

// ReleaseImpression implements service.CampaignStore with metrics
func (s *InstrumentedStore) ReleaseImpression(ctx context.Context, campaignID string) (err error) {
	defer func() {
		s.metrics.RecordDatabaseQuery("update", "campaigns")
		if err != nil {
			s.metrics.RecordDatabaseError("update", "query_error")
		}
	}()

	err = s.next.ReleaseImpression(ctx, campaignID)
	return
}

// CreateImpression implements service.TrackingStore with metrics
func (s *InstrumentedStore) CreateImpression(ctx context.Context, imp *models.Impression) (err error) {
	defer func() {
		s.metrics.RecordDatabaseQuery("insert", "impressions")
		if err != nil {
			s.metrics.RecordDatabaseError("insert", "query_error")
		}
	}()

	err = s.next.CreateImpression(ctx, imp)
	return
}

// ConfirmImpression implements service.TrackingStore with metrics
func (s *InstrumentedStore) ConfirmImpression(ctx context.Context, token string, ttl time.Duration) (imp *models.Impression, err error) {
	defer func() {
		s.metrics.RecordDatabaseQuery("update", "impressions")
		if err != nil && !isTrackingOutcome(err) {
			s.metrics.RecordDatabaseError("update", "query_error")
		}
	}()

	imp, err = s.next.ConfirmImpression(ctx, token, ttl)
	return
}

// RecordClick implements service.TrackingStore with metrics
func (s *InstrumentedStore) RecordClick(ctx context.Context, clickToken string) (click *models.Click, clickURL string, err error) {
	defer func() {
		s.metrics.RecordDatabaseQuery("insert", "clicks")
		if err != nil && !isTrackingOutcome(err) {
			s.metrics.RecordDatabaseError("insert", "query_error")
		}
	}()

	click, clickURL, err = s.next.RecordClick(ctx, clickToken)
	return
}

// LookupClickURL implements service.TrackingStore with metrics
func (s *InstrumentedStore) LookupClickURL(ctx context.Context, clickToken string) (clickURL string, err error) {
	defer func() {
		s.metrics.RecordDatabaseQuery("select", "impressions")
		if err != nil && !isTrackingOutcome(err) {
			s.metrics.RecordDatabaseError("select", "query_error")
		}
	}()

	clickURL, err = s.next.LookupClickURL(ctx, clickToken)
	return
}

// isTrackingOutcome filters the expected token state machine outcomes out of
// the database error counter.
func isTrackingOutcome(err error) bool {
	return errors.Is(err, service.ErrInvalidToken) ||
		errors.Is(err, service.ErrAlreadyConfirmed) ||
		errors.Is(err, service.ErrAlreadyClicked) ||
		errors.Is(err, service.ErrImpressionNotConfirmed)
}
