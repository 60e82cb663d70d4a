package models

// AdResponse is the payload returned when a creative was selected
type AdResponse struct {
	AdID                    string `json:"ad_id"`
	CampaignID              string `json:"campaign_id"`
	ImageURL                string `json:"image_url"`
	ImageWidth              int    `json:"image_width"`
	ImageHeight             int    `json:"image_height"`
	ClickURL                string `json:"click_url"`
	AltText                 string `json:"alt_text"`
	ImpressionTrackingToken string `json:"impression_tracking_token"`
	ClickTrackingToken      string `json:"click_tracking_token"`
}

// NoFillResponse is the designated "nothing to serve" payload. Clients fall
// back to their house/AdSense inventory when they receive it.
type NoFillResponse struct {
	Fallback bool `json:"fallback"`
}

// ImpressionTrackingResponse acknowledges a confirmed impression
type ImpressionTrackingResponse struct {
	ImpressionID string `json:"impression_id"`
	Status       string `json:"status"`
}

// ClickTrackingResponse acknowledges a recorded click and carries the
// redirect destination
type ClickTrackingResponse struct {
	ClickID  string `json:"click_id"`
	ClickURL string `json:"click_url"`
}

// ErrorResponse represents error response format
type ErrorResponse struct {
	Error string `json:"error"`
}

// NewErrorResponse creates a new error response
func NewErrorResponse(message string) ErrorResponse {
	return ErrorResponse{Error: message}
}

// NewAdResponse builds the serving payload from the chosen creative, its
// campaign, and the freshly minted impression record. Alt text falls back to
// the campaign name when the creative has none, matching what the admin
// panel renders.
func NewAdResponse(campaign *Campaign, creative *Creative, imp *Impression) *AdResponse {
	altText := creative.AltText
	if altText == "" {
		altText = campaign.Name
	}
	return &AdResponse{
		AdID:                    creative.ID,
		CampaignID:              campaign.ID,
		ImageURL:                creative.ImageURL,
		ImageWidth:              creative.ImageWidth,
		ImageHeight:             creative.ImageHeight,
		ClickURL:                creative.ClickURL,
		AltText:                 altText,
		ImpressionTrackingToken: imp.ImpressionToken,
		ClickTrackingToken:      imp.ClickToken,
	}
}
