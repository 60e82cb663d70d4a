package models

import "time"

// Advertiser represents a company or individual who purchases ad space.
// Advertisers own campaigns; the serving core never writes to them.
type Advertiser struct {
	ID          string           `json:"id" db:"id"`
	Name        string           `json:"name" db:"name"`
	Email       string           `json:"email" db:"email"`
	Phone       string           `json:"phone,omitempty" db:"phone"`
	CompanyName string           `json:"company_name,omitempty" db:"company_name"`
	Status      AdvertiserStatus `json:"status" db:"status"`
	CreatedAt   time.Time        `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time        `json:"updated_at" db:"updated_at"`
}

// AdvertiserStatus represents the status of an advertiser
type AdvertiserStatus string

// enum values for AdvertiserStatus
const (
	AdvertiserStatusActive   AdvertiserStatus = "active"
	AdvertiserStatusInactive AdvertiserStatus = "inactive"
)
