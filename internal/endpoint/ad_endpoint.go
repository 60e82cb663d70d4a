package endpoint

import (
	"context"

	"github.com/go-kit/kit/endpoint"
	"github.com/quietstorm/adserver/internal/models"
	"github.com/quietstorm/adserver/internal/service"
)

// AdEndpoints holds all endpoints for the ad serving service
type AdEndpoints struct {
	RequestAdEndpoint       endpoint.Endpoint
	TrackImpressionEndpoint endpoint.Endpoint
	TrackClickEndpoint      endpoint.Endpoint
	ClickRedirectEndpoint   endpoint.Endpoint
}

// MakeAdEndpoints creates endpoints for the ad serving service
func MakeAdEndpoints(s service.AdService) AdEndpoints {
	return AdEndpoints{
		RequestAdEndpoint:       makeRequestAdEndpoint(s),
		TrackImpressionEndpoint: makeTrackImpressionEndpoint(s),
		TrackClickEndpoint:      makeTrackClickEndpoint(s),
		ClickRedirectEndpoint:   makeClickRedirectEndpoint(s),
	}
}

// RequestAdRequest represents the request for ad selection
type RequestAdRequest struct {
	AdRequest models.AdRequest
}

// RequestAdResponse represents the response for ad selection
type RequestAdResponse struct {
	Ad  *models.AdResponse `json:"ad,omitempty"`
	Err error              `json:"error,omitempty"`
}

// Failed implements the endpoint.Failer interface
func (r RequestAdResponse) Failed() error {
	return r.Err
}

func makeRequestAdEndpoint(s service.AdService) endpoint.Endpoint {
	return func(ctx context.Context, request any) (any, error) {
		req := request.(RequestAdRequest)
		ad, err := s.RequestAd(ctx, req.AdRequest)
		return RequestAdResponse{
			Ad:  ad,
			Err: err,
		}, nil
	}
}

// TrackImpressionRequest represents an impression confirmation submission
type TrackImpressionRequest struct {
	TrackingRequest models.ImpressionTrackingRequest
}

// TrackImpressionResponse represents the impression confirmation result
type TrackImpressionResponse struct {
	Result *models.ImpressionTrackingResponse `json:"result,omitempty"`
	Err    error                              `json:"error,omitempty"`
}

// Failed implements the endpoint.Failer interface
func (r TrackImpressionResponse) Failed() error {
	return r.Err
}

func makeTrackImpressionEndpoint(s service.AdService) endpoint.Endpoint {
	return func(ctx context.Context, request any) (any, error) {
		req := request.(TrackImpressionRequest)
		result, err := s.ConfirmImpression(ctx, req.TrackingRequest)
		return TrackImpressionResponse{
			Result: result,
			Err:    err,
		}, nil
	}
}

// TrackClickRequest represents a click submission
type TrackClickRequest struct {
	TrackingRequest models.ClickTrackingRequest
}

// TrackClickResponse represents the click recording result
type TrackClickResponse struct {
	Result *models.ClickTrackingResponse `json:"result,omitempty"`
	Err    error                         `json:"error,omitempty"`
}

// Failed implements the endpoint.Failer interface
func (r TrackClickResponse) Failed() error {
	return r.Err
}

func makeTrackClickEndpoint(s service.AdService) endpoint.Endpoint {
	return func(ctx context.Context, request any) (any, error) {
		req := request.(TrackClickRequest)
		result, err := s.RecordClick(ctx, req.TrackingRequest)
		return TrackClickResponse{
			Result: result,
			Err:    err,
		}, nil
	}
}

// ClickRedirectRequest carries the click token from the redirect path
type ClickRedirectRequest struct {
	Token string
}

// ClickRedirectResponse carries the advertiser URL to redirect to
type ClickRedirectResponse struct {
	URL string `json:"url,omitempty"`
	Err error  `json:"error,omitempty"`
}

// Failed implements the endpoint.Failer interface
func (r ClickRedirectResponse) Failed() error {
	return r.Err
}

func makeClickRedirectEndpoint(s service.AdService) endpoint.Endpoint {
	return func(ctx context.Context, request any) (any, error) {
		req := request.(ClickRedirectRequest)
		url, err := s.ClickRedirect(ctx, req.Token)
		return ClickRedirectResponse{
			URL: url,
			Err: err,
		}, nil
	}
}

// RequestAd is a helper method to call the endpoint
func (e AdEndpoints) RequestAd(ctx context.Context, req models.AdRequest) (*models.AdResponse, error) {
	response, err := e.RequestAdEndpoint(ctx, RequestAdRequest{AdRequest: req})
	if err != nil {
		return nil, err
	}
	resp := response.(RequestAdResponse)
	return resp.Ad, resp.Err
}

// TrackImpression is a helper method to call the endpoint
func (e AdEndpoints) TrackImpression(ctx context.Context, req models.ImpressionTrackingRequest) (*models.ImpressionTrackingResponse, error) {
	response, err := e.TrackImpressionEndpoint(ctx, TrackImpressionRequest{TrackingRequest: req})
	if err != nil {
		return nil, err
	}
	resp := response.(TrackImpressionResponse)
	return resp.Result, resp.Err
}

// TrackClick is a helper method to call the endpoint
func (e AdEndpoints) TrackClick(ctx context.Context, req models.ClickTrackingRequest) (*models.ClickTrackingResponse, error) {
	response, err := e.TrackClickEndpoint(ctx, TrackClickRequest{TrackingRequest: req})
	if err != nil {
		return nil, err
	}
	resp := response.(TrackClickResponse)
	return resp.Result, resp.Err
}

// ClickRedirect is a helper method to call the endpoint
func (e AdEndpoints) ClickRedirect(ctx context.Context, token string) (string, error) {
	response, err := e.ClickRedirectEndpoint(ctx, ClickRedirectRequest{Token: token})
	if err != nil {
		return "", err
	}
	resp := response.(ClickRedirectResponse)
	return resp.URL, resp.Err
}
