package middleware

import (
	"context"
	"errors"

	"github.com/quietstorm/adserver/internal/metrics"
	"github.com/quietstorm/adserver/internal/models"
	"github.com/quietstorm/adserver/internal/service"
)

// serviceMetricsMiddleware implements business metrics collection for AdService
type serviceMetricsMiddleware struct {
	metrics *metrics.Metrics
	next    service.AdService
}

// NewServiceMetricsMiddleware creates a new service metrics middleware
func NewServiceMetricsMiddleware(metrics *metrics.Metrics) func(service.AdService) service.AdService {
	return func(next service.AdService) service.AdService {
		return &serviceMetricsMiddleware{
			metrics: metrics,
			next:    next,
		}
	}
}

// RequestAd implements service.AdService with fill/no-fill metrics
func (mw *serviceMetricsMiddleware) RequestAd(ctx context.Context, req models.AdRequest) (*models.AdResponse, error) {
	resp, err := mw.next.RequestAd(ctx, req)

	switch {
	case err == nil:
		country := ""
		if req.Location != nil {
			country = req.Location.Country
		}
		mw.metrics.RecordAdServed(req.Placement, country)
	case errors.Is(err, service.ErrNoFill):
		mw.metrics.RecordNoFill(req.Placement)
	}

	return resp, err
}

// ConfirmImpression implements service.AdService with tracking metrics
func (mw *serviceMetricsMiddleware) ConfirmImpression(ctx context.Context, req models.ImpressionTrackingRequest) (*models.ImpressionTrackingResponse, error) {
	resp, err := mw.next.ConfirmImpression(ctx, req)
	mw.metrics.RecordTrackingEvent("impression", trackingOutcome(err))
	return resp, err
}

// RecordClick implements service.AdService with tracking metrics
func (mw *serviceMetricsMiddleware) RecordClick(ctx context.Context, req models.ClickTrackingRequest) (*models.ClickTrackingResponse, error) {
	resp, err := mw.next.RecordClick(ctx, req)
	mw.metrics.RecordTrackingEvent("click", trackingOutcome(err))
	return resp, err
}

// ClickRedirect implements service.AdService with tracking metrics
func (mw *serviceMetricsMiddleware) ClickRedirect(ctx context.Context, token string) (string, error) {
	url, err := mw.next.ClickRedirect(ctx, token)
	mw.metrics.RecordTrackingEvent("click_redirect", trackingOutcome(err))
	return url, err
}

func trackingOutcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, service.ErrAlreadyConfirmed):
		return "duplicate"
	case errors.Is(err, service.ErrAlreadyClicked):
		return "duplicate"
	case errors.Is(err, service.ErrImpressionNotConfirmed):
		return "not_confirmed"
	case errors.Is(err, service.ErrInvalidToken), errors.Is(err, service.ErrInvalidRequest):
		return "invalid"
	default:
		return "error"
	}
}
