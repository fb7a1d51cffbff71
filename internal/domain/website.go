package domain

import "time"

// WebsiteStatus enumerates project engagement states.
type WebsiteStatus string

const (
	WebsiteStatusInProgress WebsiteStatus = "in_progress"
	WebsiteStatusActive     WebsiteStatus = "active"
	WebsiteStatusCompleted  WebsiteStatus = "completed"
	WebsiteStatusOnHold     WebsiteStatus = "on_hold"
)

// Website is one client website engagement.
type Website struct {
	ID                 string
	UserID             string
	Name               string
	URL                string
	Status             WebsiteStatus
	ProgressPercentage int
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// ClampProgress bounds a progress value to the 0..100 range.
func ClampProgress(pct int) int {
	if pct < 0 {
		return 0
	}
	if pct > 100 {
		return 100
	}
	return pct
}
