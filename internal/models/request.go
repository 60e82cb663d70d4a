package models

import (
	"errors"
	"strings"
	"time"
)

const (
	maxUserIDLength    = 100
	maxPlacementLength = 50
)

// AdRequest represents an incoming placement request
type AdRequest struct {
	UserID    string    `json:"user_id"`
	Placement string    `json:"placement"`
	Location  *Location `json:"location,omitempty"`
}

// Validate checks the request has a well-formed user id and placement.
// user_id is an opaque identifier, never a credential.
func (r *AdRequest) Validate() error {
	if err := validateUserID(r.UserID); err != nil {
		return err
	}
	if strings.TrimSpace(r.Placement) == "" {
		return errors.New("missing placement param")
	}
	if len(r.Placement) > maxPlacementLength {
		return errors.New("placement too long")
	}
	return nil
}

// Normalize lowercases the placement and normalizes the location fields
func (r *AdRequest) Normalize() {
	r.UserID = strings.TrimSpace(r.UserID)
	r.Placement = strings.ToLower(strings.TrimSpace(r.Placement))
	if r.Location != nil {
		r.Location.Normalize()
	}
}

// ImpressionTrackingRequest reports that a served ad was actually displayed
type ImpressionTrackingRequest struct {
	AdID          string    `json:"ad_id"`
	CampaignID    string    `json:"campaign_id"`
	UserID        string    `json:"user_id"`
	TrackingToken string    `json:"tracking_token"`
	Timestamp     time.Time `json:"timestamp"`
	Location      *Location `json:"location,omitempty"`
}

// Validate checks required impression tracking fields
func (r *ImpressionTrackingRequest) Validate() error {
	if err := validateUserID(r.UserID); err != nil {
		return err
	}
	if strings.TrimSpace(r.TrackingToken) == "" {
		return errors.New("missing tracking_token param")
	}
	return nil
}

// ClickTrackingRequest reports a click on a previously confirmed impression
type ClickTrackingRequest struct {
	AdID          string `json:"ad_id"`
	CampaignID    string `json:"campaign_id"`
	UserID        string `json:"user_id"`
	TrackingToken string `json:"tracking_token"`
}

// Validate checks required click tracking fields
func (r *ClickTrackingRequest) Validate() error {
	if err := validateUserID(r.UserID); err != nil {
		return err
	}
	if strings.TrimSpace(r.TrackingToken) == "" {
		return errors.New("missing tracking_token param")
	}
	return nil
}

// validateUserID enforces the opaque identifier format: 1-100 characters,
// alphanumeric plus dashes and underscores.
func validateUserID(userID string) error {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return errors.New("missing user_id param")
	}
	if len(userID) > maxUserIDLength {
		return errors.New("user_id too long")
	}
	for _, r := range userID {
		switch {
		case r >= 'a' && r <= 'z':
		case r >= 'A' && r <= 'Z':
		case r >= '0' && r <= '9':
		case r == '-' || r == '_':
		default:
			return errors.New("invalid user_id format")
		}
	}
	return nil
}
