package transport

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	httptransport "github.com/go-kit/kit/transport/http"
	"github.com/go-kit/log"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/quietstorm/adserver/internal/endpoint"
	"github.com/quietstorm/adserver/internal/models"
	"github.com/quietstorm/adserver/internal/service"
)

// NewHTTPHandler creates HTTP handlers for the ad serving service
func NewHTTPHandler(endpoints endpoint.AdEndpoints, healthFn func() error, logger log.Logger) http.Handler {
	options := []httptransport.ServerOption{
		httptransport.ServerErrorEncoder(encodeError),
	}

	requestAdHandler := httptransport.NewServer(
		endpoints.RequestAdEndpoint,
		decodeRequestAdRequest,
		encodeRequestAdResponse,
		options...,
	)

	trackImpressionHandler := httptransport.NewServer(
		endpoints.TrackImpressionEndpoint,
		decodeTrackImpressionRequest,
		encodeTrackImpressionResponse,
		options...,
	)

	trackClickHandler := httptransport.NewServer(
		endpoints.TrackClickEndpoint,
		decodeTrackClickRequest,
		encodeTrackClickResponse,
		options...,
	)

	clickRedirectHandler := httptransport.NewServer(
		endpoints.ClickRedirectEndpoint,
		decodeClickRedirectRequest,
		encodeClickRedirectResponse,
		options...,
	)

	r := mux.NewRouter()

	// Serving and tracking endpoints
	r.Handle("/ads/request", requestAdHandler).Methods("POST")
	r.Handle("/ads/tracking/impression", trackImpressionHandler).Methods("POST")
	r.Handle("/ads/tracking/click", trackClickHandler).Methods("POST")
	r.Handle("/ads/tracking/click/{token}", clickRedirectHandler).Methods("GET")

	// Operational endpoints
	r.HandleFunc("/health", makeHealthHandler(healthFn)).Methods("GET")
	r.Handle("/metrics", promhttp.Handler()).Methods("GET")

	return r
}

// decodeRequestAdRequest decodes the JSON body into a RequestAdRequest
func decodeRequestAdRequest(_ context.Context, r *http.Request) (interface{}, error) {
	var adReq models.AdRequest
	if err := json.NewDecoder(r.Body).Decode(&adReq); err != nil {
		return nil, service.ErrInvalidRequest
	}
	return endpoint.RequestAdRequest{AdRequest: adReq}, nil
}

// encodeRequestAdResponse encodes the selection result. A no-fill is a 404
// with the designated fallback payload so clients can switch to house ads.
func encodeRequestAdResponse(ctx context.Context, w http.ResponseWriter, response interface{}) error {
	resp := response.(endpoint.RequestAdResponse)

	if resp.Err != nil {
		encodeError(ctx, resp.Err, w)
		return nil
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	return json.NewEncoder(w).Encode(resp.Ad)
}

// decodeTrackImpressionRequest decodes the JSON body into a TrackImpressionRequest
func decodeTrackImpressionRequest(_ context.Context, r *http.Request) (interface{}, error) {
	var trackReq models.ImpressionTrackingRequest
	if err := json.NewDecoder(r.Body).Decode(&trackReq); err != nil {
		return nil, service.ErrInvalidRequest
	}
	return endpoint.TrackImpressionRequest{TrackingRequest: trackReq}, nil
}

// encodeTrackImpressionResponse encodes the impression confirmation result
func encodeTrackImpressionResponse(ctx context.Context, w http.ResponseWriter, response interface{}) error {
	resp := response.(endpoint.TrackImpressionResponse)

	if resp.Err != nil {
		encodeError(ctx, resp.Err, w)
		return nil
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	return json.NewEncoder(w).Encode(resp.Result)
}

// decodeTrackClickRequest decodes the JSON body into a TrackClickRequest
func decodeTrackClickRequest(_ context.Context, r *http.Request) (interface{}, error) {
	var trackReq models.ClickTrackingRequest
	if err := json.NewDecoder(r.Body).Decode(&trackReq); err != nil {
		return nil, service.ErrInvalidRequest
	}
	return endpoint.TrackClickRequest{TrackingRequest: trackReq}, nil
}

// encodeTrackClickResponse encodes the click recording result
func encodeTrackClickResponse(ctx context.Context, w http.ResponseWriter, response interface{}) error {
	resp := response.(endpoint.TrackClickResponse)

	if resp.Err != nil {
		encodeError(ctx, resp.Err, w)
		return nil
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	return json.NewEncoder(w).Encode(resp.Result)
}

// decodeClickRedirectRequest extracts the click token from the URL path
func decodeClickRedirectRequest(_ context.Context, r *http.Request) (interface{}, error) {
	vars := mux.Vars(r)
	token, ok := vars["token"]
	if !ok || token == "" {
		return nil, service.ErrInvalidToken
	}
	return endpoint.ClickRedirectRequest{Token: token}, nil
}

// encodeClickRedirectResponse issues the temporary redirect to the
// advertiser URL
func encodeClickRedirectResponse(ctx context.Context, w http.ResponseWriter, response interface{}) error {
	resp := response.(endpoint.ClickRedirectResponse)

	if resp.Err != nil {
		encodeError(ctx, resp.Err, w)
		return nil
	}

	w.Header().Set("Location", resp.URL)
	w.WriteHeader(http.StatusTemporaryRedirect)
	return nil
}

// encodeError maps service errors to HTTP status codes
func encodeError(_ context.Context, err error, w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")

	switch {
	case errors.Is(err, service.ErrNoFill):
		w.WriteHeader(http.StatusNotFound)
		json.NewEncoder(w).Encode(models.NoFillResponse{Fallback: true})
		return
	case errors.Is(err, service.ErrInvalidRequest), errors.Is(err, service.ErrInvalidToken):
		w.WriteHeader(http.StatusBadRequest)
	case errors.Is(err, service.ErrAlreadyConfirmed), errors.Is(err, service.ErrAlreadyClicked):
		w.WriteHeader(http.StatusConflict)
	case errors.Is(err, service.ErrImpressionNotConfirmed):
		w.WriteHeader(http.StatusPreconditionFailed)
	case errors.Is(err, service.ErrStoreUnavailable):
		w.WriteHeader(http.StatusServiceUnavailable)
	default:
		w.WriteHeader(http.StatusInternalServerError)
	}

	json.NewEncoder(w).Encode(models.NewErrorResponse(err.Error()))
}

// makeHealthHandler builds the health check handler over the given probe
func makeHealthHandler(healthFn func() error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")

		if healthFn != nil {
			if err := healthFn(); err != nil {
				w.WriteHeader(http.StatusServiceUnavailable)
				json.NewEncoder(w).Encode(map[string]any{
					"status": "unhealthy",
					"error":  err.Error(),
				})
				return
			}
		}

		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(map[string]any{
			"status":  "healthy",
			"service": "adserver",
			"version": "1.0.0",
		})
	}
}
