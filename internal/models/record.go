package models

import "time"

// ImpressionStatus tracks the accounting state of an impression record.
// Valid transitions: pending -> confirmed -> clicked. There is no way back.
type ImpressionStatus string

// enum values for ImpressionStatus
const (
	ImpressionPending   ImpressionStatus = "pending"
	ImpressionConfirmed ImpressionStatus = "confirmed"
	ImpressionClicked   ImpressionStatus = "clicked"
)

// Impression is created in pending state when an ad is served and carries
// both single-use tracking tokens. The impression token confirms the
// impression; the click token authorizes at most one click against it.
type Impression struct {
	ID              string           `json:"id" db:"id"`
	AdCreativeID    string           `json:"ad_creative_id" db:"ad_creative_id"`
	CampaignID      string           `json:"campaign_id" db:"campaign_id"`
	UserID          string           `json:"user_id" db:"user_id"`
	ImpressionToken string           `json:"-" db:"impression_token"`
	ClickToken      string           `json:"-" db:"click_token"`
	Status          ImpressionStatus `json:"status" db:"status"`
	Country         string           `json:"country,omitempty" db:"country"`
	State           string           `json:"state,omitempty" db:"state"`
	City            string           `json:"city,omitempty" db:"city"`
	ConfirmedAt     *time.Time       `json:"confirmed_at,omitempty" db:"confirmed_at"`
	CreatedAt       time.Time        `json:"created_at" db:"created_at"`
}

// Click references the impression that authorized it. One per impression.
type Click struct {
	ID           string    `json:"id" db:"id"`
	ImpressionID string    `json:"impression_id" db:"impression_id"`
	AdCreativeID string    `json:"ad_creative_id" db:"ad_creative_id"`
	CampaignID   string    `json:"campaign_id" db:"campaign_id"`
	UserID       string    `json:"user_id" db:"user_id"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
}
