package models

import "strings"

// Location carries the optional geographic fields of a placement request.
// Country codes are ISO 3166-1 alpha-2.
type Location struct {
	Country string `json:"country,omitempty"`
	State   string `json:"state,omitempty"`
	City    string `json:"city,omitempty"`
}

// Normalize trims whitespace and uppercases the country code so that
// comparisons against target sets are consistent.
func (l *Location) Normalize() {
	l.Country = strings.ToUpper(strings.TrimSpace(l.Country))
	l.State = strings.TrimSpace(l.State)
	l.City = strings.TrimSpace(l.City)
}

// IsZero returns true when no location field is set
func (l *Location) IsZero() bool {
	return l.Country == "" && l.State == "" && l.City == ""
}

// MatchesLocation decides whether the campaign's targeting accepts a request
// with the given location. Per-dimension policy: a non-empty target set
// requires the corresponding request field to be present and a
// case-insensitive member of the set; an empty target set imposes no
// constraint. A campaign with all three sets empty matches every request.
func (c *Campaign) MatchesLocation(loc *Location) bool {
	var country, state, city string
	if loc != nil {
		country = loc.Country
		state = loc.State
		city = loc.City
	}

	if !matchesTargetSet(c.TargetCountries, country) {
		return false
	}
	if !matchesTargetSet(c.TargetStates, state) {
		return false
	}
	return matchesTargetSet(c.TargetCities, city)
}

// matchesTargetSet implements the single-dimension rule: empty set matches
// anything, non-empty set requires a present case-insensitive member.
func matchesTargetSet(targets []string, value string) bool {
	if len(targets) == 0 {
		return true
	}
	if value == "" {
		return false
	}
	for _, t := range targets {
		if strings.EqualFold(strings.TrimSpace(t), value) {
			return true
		}
	}
	return false
}
