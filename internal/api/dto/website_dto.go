package dto

import (
	"time"

	"github.com/spec-kit/client-portal/internal/domain"
)

// CreateWebsiteRequest payload.
type CreateWebsiteRequest struct {
	UserID   string               `json:"user_id" validate:"required,uuid4"`
	Name     string               `json:"name" validate:"required,max=200"`
	URL      string               `json:"url" validate:"omitempty,url"`
	Status   domain.WebsiteStatus `json:"status" validate:"omitempty,oneof=in_progress active completed on_hold"`
	Progress int                  `json:"progress" validate:"min=0,max=100"`
}

// UpdateWebsiteRequest payload; nil fields are left untouched.
type UpdateWebsiteRequest struct {
	Name     *string               `json:"name" validate:"omitempty,max=200"`
	URL      *string               `json:"url" validate:"omitempty,url"`
	Status   *domain.WebsiteStatus `json:"status" validate:"omitempty,oneof=in_progress active completed on_hold"`
	Progress *int                  `json:"progress" validate:"omitempty,min=0,max=100"`
}

// PostProjectUpdateRequest payload.
type PostProjectUpdateRequest struct {
	UpdateType  domain.ProjectUpdateType `json:"update_type" validate:"omitempty,oneof=milestone progress issue completed general"`
	Title       string                   `json:"title" validate:"required,max=200"`
	Description string                   `json:"description" validate:"max=5000"`
	Progress    *int                     `json:"progress" validate:"omitempty,min=0,max=100"`
}

// WebsiteResponse is the engagement view.
type WebsiteResponse struct {
	ID                 string               `json:"id"`
	UserID             string               `json:"user_id"`
	Name               string               `json:"name"`
	URL                string               `json:"url,omitempty"`
	Status             domain.WebsiteStatus `json:"status"`
	ProgressPercentage int                  `json:"progress_percentage"`
	CreatedAt          time.Time            `json:"created_at"`
	UpdatedAt          time.Time            `json:"updated_at"`
}

// ProjectUpdateResponse is one feed entry.
type ProjectUpdateResponse struct {
	ID          string                   `json:"id"`
	WebsiteID   string                   `json:"website_id"`
	UpdateType  domain.ProjectUpdateType `json:"update_type"`
	Title       string                   `json:"title"`
	Description string                   `json:"description,omitempty"`
	Progress    *int                     `json:"progress,omitempty"`
	CreatedAt   time.Time                `json:"created_at"`
}

// NewWebsiteResponse maps a domain website.
func NewWebsiteResponse(site *domain.Website) WebsiteResponse {
	return WebsiteResponse{
		ID:                 site.ID,
		UserID:             site.UserID,
		Name:               site.Name,
		URL:                site.URL,
		Status:             site.Status,
		ProgressPercentage: site.ProgressPercentage,
		CreatedAt:          site.CreatedAt,
		UpdatedAt:          site.UpdatedAt,
	}
}

// NewProjectUpdateResponse maps a feed entry.
func NewProjectUpdateResponse(update *domain.ProjectUpdate) ProjectUpdateResponse {
	return ProjectUpdateResponse{
		ID:          update.ID,
		WebsiteID:   update.WebsiteID,
		UpdateType:  update.UpdateType,
		Title:       update.Title,
		Description: update.Description,
		Progress:    update.Progress,
		CreatedAt:   update.CreatedAt,
	}
}
