package models

import (
	"time"
)

// Campaign is a bookable flight of ad inventory owned by an Advertiser.
// The serving core only ever reads campaigns and mutates impressions_served;
// all other fields are managed by the admin panel.
type Campaign struct {
	ID                string         `json:"id" db:"id"`
	AdvertiserID      string         `json:"advertiser_id" db:"advertiser_id"`
	Name              string         `json:"name" db:"name"`
	Status            CampaignStatus `json:"status" db:"status"`
	StartDate         time.Time      `json:"start_date" db:"start_date"`
	EndDate           time.Time      `json:"end_date" db:"end_date"`
	Priority          int            `json:"priority" db:"priority"`
	ImpressionBudget  int            `json:"impression_budget" db:"impression_budget"`
	ImpressionsServed int            `json:"impressions_served" db:"impressions_served"`
	TargetCountries   []string       `json:"target_countries,omitempty" db:"target_countries"`
	TargetStates      []string       `json:"target_states,omitempty" db:"target_states"`
	TargetCities      []string       `json:"target_cities,omitempty" db:"target_cities"`
	LastServedAt      *time.Time     `json:"last_served_at,omitempty" db:"last_served_at"`
	CreatedAt         time.Time      `json:"created_at" db:"created_at"`
	UpdatedAt         time.Time      `json:"updated_at" db:"updated_at"`
}

// CampaignStatus represents the lifecycle status of a campaign
type CampaignStatus string

// enum values for CampaignStatus
const (
	CampaignStatusDraft     CampaignStatus = "draft"
	CampaignStatusActive    CampaignStatus = "active"
	CampaignStatusPaused    CampaignStatus = "paused"
	CampaignStatusCompleted CampaignStatus = "completed"
)

// Priority bounds. 1 is the highest priority, 5 the lowest.
const (
	PriorityHighest = 1
	PriorityLowest  = 5
)

// IsActive returns true if the campaign is in the active status
func (c *Campaign) IsActive() bool {
	return c.Status == CampaignStatusActive
}

// EligibleAt reports whether the campaign may serve at the given instant:
// active status, now within [start_date, end_date] inclusive, and remaining
// impression budget. This mirrors the SQL predicate used by the store; the
// in-process check lets cached snapshots be re-validated without a query.
func (c *Campaign) EligibleAt(now time.Time) bool {
	if !c.IsActive() {
		return false
	}
	if now.Before(c.StartDate) || now.After(c.EndDate) {
		return false
	}
	return c.ImpressionsServed < c.ImpressionBudget
}

// RemainingBudget returns the number of impressions the campaign may still serve
func (c *Campaign) RemainingBudget() int {
	remaining := c.ImpressionBudget - c.ImpressionsServed
	if remaining < 0 {
		return 0
	}
	return remaining
}

// RemainingFraction returns the unserved share of the impression budget in [0,1].
// Used as the pacing tie-break when ranking candidates.
func (c *Campaign) RemainingFraction() float64 {
	if c.ImpressionBudget <= 0 {
		return 0
	}
	return float64(c.RemainingBudget()) / float64(c.ImpressionBudget)
}
