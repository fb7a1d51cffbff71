package domain

import "time"

// ProjectUpdateType classifies a narrative project event.
type ProjectUpdateType string

const (
	UpdateTypeMilestone ProjectUpdateType = "milestone"
	UpdateTypeProgress  ProjectUpdateType = "progress"
	UpdateTypeIssue     ProjectUpdateType = "issue"
	UpdateTypeCompleted ProjectUpdateType = "completed"
	UpdateTypeGeneral   ProjectUpdateType = "general"
)

// ProjectUpdate is a timestamped narrative event on a website project.
// Rows are append-only and never mutated after creation.
type ProjectUpdate struct {
	ID          string
	WebsiteID   string
	UserID      string
	CreatedBy   string
	UpdateType  ProjectUpdateType
	Title       string
	Description string
	Progress    *int
	CreatedAt   time.Time
}
