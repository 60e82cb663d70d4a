package middleware

import (
	"net/http"

	reqcontext "github.com/quietstorm/adserver/internal/context"
)

// RequestIDMiddleware adds request IDs to incoming requests
type RequestIDMiddleware struct{}

// NewRequestIDMiddleware creates a new request ID middleware
func NewRequestIDMiddleware() *RequestIDMiddleware {
	return &RequestIDMiddleware{}
}

// Middleware returns the HTTP middleware function for request IDs
func (m *RequestIDMiddleware) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Honor an upstream X-Request-ID when present
		existingRequestID := r.Header.Get("X-Request-ID")

		var ctx = r.Context()
		if existingRequestID != "" {
			ctx = reqcontext.WithRequestID(ctx, existingRequestID)
		} else {
			ctx = reqcontext.NewRequestContext(ctx, r.UserAgent(), r.RemoteAddr)
		}

		// Echo the request ID back for client correlation
		w.Header().Set("X-Request-ID", reqcontext.GetRequestID(ctx))

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
