package middleware

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeEndpoint(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"/ads/request", "/ads/request"},
		{"/ads/request/", "/ads/request"},
		{"/ads/tracking/impression", "/ads/tracking/impression"},
		{"/ads/tracking/click", "/ads/tracking/click"},
		{"/ads/tracking/click/550e8400-e29b-41d4-a716-446655440000", "/ads/tracking/click/{token}"},
		{"/health", "/health"},
		{"/metrics", "/metrics"},
		{"/unknown", "/unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.want, normalizeEndpoint(tt.path))
		})
	}
}
