package middleware

import (
	"context"
	"time"

	"github.com/go-kit/log"
	reqcontext "github.com/quietstorm/adserver/internal/context"
	"github.com/quietstorm/adserver/internal/models"
	"github.com/quietstorm/adserver/internal/service"
)

// loggingMiddleware implements logging middleware for AdService
type loggingMiddleware struct {
	logger log.Logger
	next   service.AdService
}

// NewLoggingMiddleware creates a new logging middleware
func NewLoggingMiddleware(logger log.Logger) func(service.AdService) service.AdService {
	return func(next service.AdService) service.AdService {
		return &loggingMiddleware{
			logger: logger,
			next:   next,
		}
	}
}

// RequestAd implements service.AdService with request logging
func (mw *loggingMiddleware) RequestAd(ctx context.Context, req models.AdRequest) (resp *models.AdResponse, err error) {
	defer func(begin time.Time) {
		logFields := []interface{}{
			"method", "RequestAd",
			"request_id", reqcontext.GetRequestID(ctx),
			"user_id", req.UserID,
			"placement", req.Placement,
			"took", time.Since(begin),
		}
		if req.Location != nil {
			logFields = append(logFields, "country", req.Location.Country)
		}
		if resp != nil {
			logFields = append(logFields, "campaign_id", resp.CampaignID, "ad_id", resp.AdID)
		}
		logFields = appendOutcome(logFields, err)
		mw.logger.Log(logFields...)
	}(time.Now())

	return mw.next.RequestAd(ctx, req)
}

// ConfirmImpression implements service.AdService with request logging
func (mw *loggingMiddleware) ConfirmImpression(ctx context.Context, req models.ImpressionTrackingRequest) (resp *models.ImpressionTrackingResponse, err error) {
	defer func(begin time.Time) {
		logFields := []interface{}{
			"method", "ConfirmImpression",
			"request_id", reqcontext.GetRequestID(ctx),
			"took", time.Since(begin),
		}
		if resp != nil {
			logFields = append(logFields, "impression_id", resp.ImpressionID)
		}
		logFields = appendOutcome(logFields, err)
		mw.logger.Log(logFields...)
	}(time.Now())

	return mw.next.ConfirmImpression(ctx, req)
}

// RecordClick implements service.AdService with request logging
func (mw *loggingMiddleware) RecordClick(ctx context.Context, req models.ClickTrackingRequest) (resp *models.ClickTrackingResponse, err error) {
	defer func(begin time.Time) {
		logFields := []interface{}{
			"method", "RecordClick",
			"request_id", reqcontext.GetRequestID(ctx),
			"took", time.Since(begin),
		}
		if resp != nil {
			logFields = append(logFields, "click_id", resp.ClickID)
		}
		logFields = appendOutcome(logFields, err)
		mw.logger.Log(logFields...)
	}(time.Now())

	return mw.next.RecordClick(ctx, req)
}

// ClickRedirect implements service.AdService with request logging
func (mw *loggingMiddleware) ClickRedirect(ctx context.Context, token string) (url string, err error) {
	defer func(begin time.Time) {
		logFields := []interface{}{
			"method", "ClickRedirect",
			"request_id", reqcontext.GetRequestID(ctx),
			"took", time.Since(begin),
		}
		logFields = appendOutcome(logFields, err)
		mw.logger.Log(logFields...)
	}(time.Now())

	return mw.next.ClickRedirect(ctx, token)
}

func appendOutcome(fields []interface{}, err error) []interface{} {
	if err != nil {
		return append(fields, "error", err.Error(), "success", false)
	}
	return append(fields, "error", nil, "success", true)
}
