package models

import "time"

// Creative is an individual ad image/banner belonging to a campaign.
// Only active creatives are servable.
type Creative struct {
	ID          string         `json:"id" db:"id"`
	CampaignID  string         `json:"campaign_id" db:"campaign_id"`
	Name        string         `json:"name" db:"name"`
	ImageURL    string         `json:"image_url" db:"image_url"`
	ImageWidth  int            `json:"image_width" db:"image_width"`
	ImageHeight int            `json:"image_height" db:"image_height"`
	ClickURL    string         `json:"click_url" db:"click_url"`
	AltText     string         `json:"alt_text,omitempty" db:"alt_text"`
	Status      CreativeStatus `json:"status" db:"status"`
	CreatedAt   time.Time      `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at" db:"updated_at"`
}

// CreativeStatus represents the status of a creative
type CreativeStatus string

// enum values for CreativeStatus
const (
	CreativeStatusActive   CreativeStatus = "active"
	CreativeStatusInactive CreativeStatus = "inactive"
)

// IsActive returns true if the creative is servable
func (c *Creative) IsActive() bool {
	return c.Status == CreativeStatusActive
}
