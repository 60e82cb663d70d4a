package repository

import (
	"context"
	"time"

	"github.com/quietstorm/adserver/internal/models"
	"github.com/stretchr/testify/mock"
)

// MockStore is a testify mock of the full service.Store surface, shared by
// tests in the packages that decorate it.
type MockStore struct {
	mock.Mock
}

// ListEligibleCampaigns mocks service.CampaignStore
func (m *MockStore) ListEligibleCampaigns(ctx context.Context, now time.Time) ([]models.Campaign, error) {
	args := m.Called(ctx, now)
	return args.Get(0).([]models.Campaign), args.Error(1)
}

// ListActiveCreatives mocks service.CampaignStore
func (m *MockStore) ListActiveCreatives(ctx context.Context, campaignID string) ([]models.Creative, error) {
	args := m.Called(ctx, campaignID)
	return args.Get(0).([]models.Creative), args.Error(1)
}

// ReserveImpression mocks service.CampaignStore
func (m *MockStore) ReserveImpression(ctx context.Context, campaignID string) error {
	args := m.Called(ctx, campaignID)
	return args.Error(0)
}

// ReleaseImpression mocks service.CampaignStore
func (m *MockStore) ReleaseImpression(ctx context.Context, campaignID string) error {
	args := m.Called(ctx, campaignID)
	return args.Error(0)
}

// CreateImpression mocks service.TrackingStore
func (m *MockStore) CreateImpression(ctx context.Context, imp *models.Impression) error {
	args := m.Called(ctx, imp)
	return args.Error(0)
}

// ConfirmImpression mocks service.TrackingStore
func (m *MockStore) ConfirmImpression(ctx context.Context, token string, ttl time.Duration) (*models.Impression, error) {
	args := m.Called(ctx, token, ttl)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Impression), args.Error(1)
}

// RecordClick mocks service.TrackingStore
func (m *MockStore) RecordClick(ctx context.Context, clickToken string) (*models.Click, string, error) {
	args := m.Called(ctx, clickToken)
	if args.Get(0) == nil {
		return nil, args.String(1), args.Error(2)
	}
	return args.Get(0).(*models.Click), args.String(1), args.Error(2)
}

// LookupClickURL mocks service.TrackingStore
func (m *MockStore) LookupClickURL(ctx context.Context, clickToken string) (string, error) {
	args := m.Called(ctx, clickToken)
	return args.String(0), args.Error(1)
}
