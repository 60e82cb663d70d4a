package models

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAdRequestValidate(t *testing.T) {
	tests := []struct {
		name    string
		req     AdRequest
		wantErr string
	}{
		{
			name: "valid request",
			req:  AdRequest{UserID: "user-123", Placement: "sidebar"},
		},
		{
			name: "valid with underscores",
			req:  AdRequest{UserID: "user_abc_99", Placement: "top_banner"},
		},
		{
			name:    "missing user_id",
			req:     AdRequest{Placement: "sidebar"},
			wantErr: "missing user_id param",
		},
		{
			name:    "user_id too long",
			req:     AdRequest{UserID: strings.Repeat("a", 101), Placement: "sidebar"},
			wantErr: "user_id too long",
		},
		{
			name:    "user_id with invalid characters",
			req:     AdRequest{UserID: "user@123", Placement: "sidebar"},
			wantErr: "invalid user_id format",
		},
		{
			name:    "missing placement",
			req:     AdRequest{UserID: "user-123"},
			wantErr: "missing placement param",
		},
		{
			name:    "placement too long",
			req:     AdRequest{UserID: "user-123", Placement: strings.Repeat("p", 51)},
			wantErr: "placement too long",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.req.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
			} else {
				assert.EqualError(t, err, tt.wantErr)
			}
		})
	}
}

func TestAdRequestNormalize(t *testing.T) {
	req := AdRequest{
		UserID:    " user-123 ",
		Placement: " SideBar ",
		Location:  &Location{Country: "us"},
	}
	req.Normalize()

	assert.Equal(t, "user-123", req.UserID)
	assert.Equal(t, "sidebar", req.Placement)
	assert.Equal(t, "US", req.Location.Country)
}

func TestImpressionTrackingRequestValidate(t *testing.T) {
	valid := ImpressionTrackingRequest{UserID: "user-1", TrackingToken: "tok-abc"}
	assert.NoError(t, valid.Validate())

	missingToken := ImpressionTrackingRequest{UserID: "user-1"}
	assert.EqualError(t, missingToken.Validate(), "missing tracking_token param")

	missingUser := ImpressionTrackingRequest{TrackingToken: "tok-abc"}
	assert.EqualError(t, missingUser.Validate(), "missing user_id param")
}

func TestClickTrackingRequestValidate(t *testing.T) {
	valid := ClickTrackingRequest{UserID: "user-1", TrackingToken: "tok-abc"}
	assert.NoError(t, valid.Validate())

	missingToken := ClickTrackingRequest{UserID: "user-1"}
	assert.EqualError(t, missingToken.Validate(), "missing tracking_token param")
}
