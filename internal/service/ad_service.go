package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/quietstorm/adserver/internal/models"
)

// DefaultTokenTTL bounds how long a pending impression record stays
// confirmable. Expired tokens are treated as invalid.
const DefaultTokenTTL = 24 * time.Hour

// CampaignStore provides read access to campaigns/creatives and the atomic
// impression reservation. Reads may serve from a snapshot; ReserveImpression
// must re-validate the budget atomically with the increment.
type CampaignStore interface {
	ListEligibleCampaigns(ctx context.Context, now time.Time) ([]models.Campaign, error)
	ListActiveCreatives(ctx context.Context, campaignID string) ([]models.Creative, error)
	ReserveImpression(ctx context.Context, campaignID string) error
	ReleaseImpression(ctx context.Context, campaignID string) error
}

// TrackingStore persists impression/click records and enforces the
// single-use token state machine.
type TrackingStore interface {
	CreateImpression(ctx context.Context, imp *models.Impression) error
	ConfirmImpression(ctx context.Context, token string, ttl time.Duration) (*models.Impression, error)
	RecordClick(ctx context.Context, clickToken string) (*models.Click, string, error)
	LookupClickURL(ctx context.Context, clickToken string) (string, error)
}

// Store is the full persistence surface of the serving core. Decorators
// (instrumentation, caching) wrap this interface so they stay transparent
// to the service.
type Store interface {
	CampaignStore
	TrackingStore
}

// AdService is the serving core: targeting, ranking, budget accounting, and
// tracking-token bookkeeping behind the HTTP boundary.
type AdService interface {
	RequestAd(ctx context.Context, req models.AdRequest) (*models.AdResponse, error)
	ConfirmImpression(ctx context.Context, req models.ImpressionTrackingRequest) (*models.ImpressionTrackingResponse, error)
	RecordClick(ctx context.Context, req models.ClickTrackingRequest) (*models.ClickTrackingResponse, error)
	ClickRedirect(ctx context.Context, token string) (string, error)
}

// Config holds serving parameters
type Config struct {
	// TokenTTL bounds the pending-record lifetime. Zero means DefaultTokenTTL.
	TokenTTL time.Duration
	// Now is the clock used for eligibility checks; nil means time.Now.
	// Injected by tests.
	Now func() time.Time
}

type adService struct {
	campaigns CampaignStore
	tracking  TrackingStore
	rotation  *creativeRotation
	tokenTTL  time.Duration
	now       func() time.Time
}

// NewAdService creates the serving core over the given stores
func NewAdService(campaigns CampaignStore, tracking TrackingStore, cfg Config) AdService {
	ttl := cfg.TokenTTL
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}
	now := cfg.Now
	if now == nil {
		now = func() time.Time { return time.Now().UTC() }
	}
	return &adService{
		campaigns: campaigns,
		tracking:  tracking,
		rotation:  newCreativeRotation(),
		tokenTTL:  ttl,
		now:       now,
	}
}

// RequestAd selects exactly one creative for the request, reserves an
// impression slot, and mints the pending impression record with both
// tracking tokens. Candidates are walked in rank order; a candidate whose
// budget raced to exhaustion between snapshot and reservation is skipped,
// so the loop is bounded by the candidate list length. ErrNoFill is
// returned when nothing can serve.
func (s *adService) RequestAd(ctx context.Context, req models.AdRequest) (*models.AdResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidRequest, err)
	}
	req.Normalize()

	now := s.now()
	campaigns, err := s.campaigns.ListEligibleCampaigns(ctx, now)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}

	var matched []models.Campaign
	for _, c := range campaigns {
		if c.MatchesLocation(req.Location) {
			matched = append(matched, c)
		}
	}
	if len(matched) == 0 {
		return nil, ErrNoFill
	}

	for _, candidate := range RankCampaigns(matched) {
		creatives, err := s.campaigns.ListActiveCreatives(ctx, candidate.ID)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
		}
		creative := s.rotation.next(candidate.ID, creatives)
		if creative == nil {
			continue
		}

		err = s.campaigns.ReserveImpression(ctx, candidate.ID)
		if errors.Is(err, ErrBudgetExhausted) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
		}

		imp := &models.Impression{
			ID:              uuid.NewString(),
			AdCreativeID:    creative.ID,
			CampaignID:      candidate.ID,
			UserID:          req.UserID,
			ImpressionToken: uuid.NewString(),
			ClickToken:      uuid.NewString(),
			Status:          models.ImpressionPending,
			CreatedAt:       now,
		}
		if req.Location != nil {
			imp.Country = req.Location.Country
			imp.State = req.Location.State
			imp.City = req.Location.City
		}
		if err := s.tracking.CreateImpression(ctx, imp); err != nil {
			// Give the reserved slot back so the campaign does not
			// under-deliver; best effort, the budget check is a cap not a floor.
			_ = s.campaigns.ReleaseImpression(ctx, candidate.ID)
			return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
		}

		return models.NewAdResponse(&candidate, creative, imp), nil
	}

	return nil, ErrNoFill
}

// ConfirmImpression transitions a pending impression to confirmed exactly
// once. A second call with the same token yields ErrAlreadyConfirmed so
// callers can distinguish "already applied" from "invalid".
func (s *adService) ConfirmImpression(ctx context.Context, req models.ImpressionTrackingRequest) (*models.ImpressionTrackingResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidRequest, err)
	}

	imp, err := s.tracking.ConfirmImpression(ctx, req.TrackingToken, s.tokenTTL)
	if err != nil {
		return nil, err
	}

	return &models.ImpressionTrackingResponse{
		ImpressionID: imp.ID,
		Status:       "confirmed",
	}, nil
}

// RecordClick records at most one click against a confirmed impression
func (s *adService) RecordClick(ctx context.Context, req models.ClickTrackingRequest) (*models.ClickTrackingResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidRequest, err)
	}

	click, clickURL, err := s.tracking.RecordClick(ctx, req.TrackingToken)
	if err != nil {
		return nil, err
	}

	return &models.ClickTrackingResponse{
		ClickID:  click.ID,
		ClickURL: clickURL,
	}, nil
}

// ClickRedirect records the click by its token and returns the advertiser
// URL for the 307 redirect. A duplicate click still redirects: losing the
// destination is worse for the user than the lost count is for us.
func (s *adService) ClickRedirect(ctx context.Context, token string) (string, error) {
	_, clickURL, err := s.tracking.RecordClick(ctx, token)
	if err == nil {
		return clickURL, nil
	}
	if errors.Is(err, ErrAlreadyClicked) {
		if url, lookupErr := s.tracking.LookupClickURL(ctx, token); lookupErr == nil {
			return url, nil
		}
	}
	return "", err
}
