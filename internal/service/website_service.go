package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/spec-kit/client-portal/internal/domain"
	"github.com/spec-kit/client-portal/internal/events"
	"github.com/spec-kit/client-portal/internal/repository"
	apperrors "github.com/spec-kit/client-portal/pkg/util"
)

// WebsiteService coordinates website projects and their update feed.
type WebsiteService struct {
	websites   repository.WebsiteRepository
	updates    repository.ProjectUpdateRepository
	users      repository.UserRepository
	dispatcher events.Dispatcher
}

// WebsiteDependencies bundles requirements for the website service.
type WebsiteDependencies struct {
	WebsiteRepo repository.WebsiteRepository
	UpdateRepo  repository.ProjectUpdateRepository
	UserRepo    repository.UserRepository
	Dispatcher  events.Dispatcher
}

// NewWebsiteService constructs the service.
func NewWebsiteService(deps WebsiteDependencies) *WebsiteService {
	return &WebsiteService{
		websites:   deps.WebsiteRepo,
		updates:    deps.UpdateRepo,
		users:      deps.UserRepo,
		dispatcher: deps.Dispatcher,
	}
}

// WebsiteCreateInput describes a new engagement.
type WebsiteCreateInput struct {
	UserID   string
	Name     string
	URL      string
	Status   domain.WebsiteStatus
	Progress int
}

// WebsiteUpdateInput describes an admin edit.
type WebsiteUpdateInput struct {
	Name     *string
	URL      *string
	Status   *domain.WebsiteStatus
	Progress *int
}

// ProjectUpdateInput describes a narrative event to append.
type ProjectUpdateInput struct {
	UpdateType  domain.ProjectUpdateType
	Title       string
	Description string
	Progress    *int
}

// CreateWebsite registers a client engagement.
func (s *WebsiteService) CreateWebsite(ctx context.Context, input WebsiteCreateInput) (*domain.Website, error) {
	if strings.TrimSpace(input.Name) == "" {
		return nil, apperrors.NewValidationError("name required", nil)
	}
	if _, err := s.users.GetByID(ctx, input.UserID); err != nil {
		return nil, apperrors.MapError(err)
	}

	site := &domain.Website{
		UserID:             input.UserID,
		Name:               strings.TrimSpace(input.Name),
		URL:                strings.TrimSpace(input.URL),
		Status:             input.Status,
		ProgressPercentage: domain.ClampProgress(input.Progress),
	}
	if site.Status == "" {
		site.Status = domain.WebsiteStatusInProgress
	}
	if err := s.websites.Create(ctx, site); err != nil {
		return nil, apperrors.MapError(err)
	}
	return site, nil
}

// UpdateWebsite applies an admin edit to an engagement.
func (s *WebsiteService) UpdateWebsite(ctx context.Context, websiteID string, input WebsiteUpdateInput) (*domain.Website, error) {
	site, err := s.websites.GetByID(ctx, websiteID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	if input.Name != nil {
		site.Name = strings.TrimSpace(*input.Name)
	}
	if input.URL != nil {
		site.URL = strings.TrimSpace(*input.URL)
	}
	if input.Status != nil {
		site.Status = *input.Status
		if *input.Status == domain.WebsiteStatusCompleted {
			site.ProgressPercentage = 100
		}
	}
	if input.Progress != nil {
		site.ProgressPercentage = domain.ClampProgress(*input.Progress)
	}
	if err := s.websites.Update(ctx, site); err != nil {
		return nil, apperrors.MapError(err)
	}
	return site, nil
}

// PostUpdate appends a project update and moves progress when the
// update carries one. A completed update forces 100%.
func (s *WebsiteService) PostUpdate(ctx context.Context, websiteID, createdBy string, input ProjectUpdateInput) (*domain.ProjectUpdate, error) {
	if strings.TrimSpace(input.Title) == "" {
		return nil, apperrors.NewValidationError("title required", nil)
	}
	site, err := s.websites.GetByID(ctx, websiteID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}

	update := &domain.ProjectUpdate{
		WebsiteID:   site.ID,
		UserID:      site.UserID,
		CreatedBy:   createdBy,
		UpdateType:  input.UpdateType,
		Title:       strings.TrimSpace(input.Title),
		Description: strings.TrimSpace(input.Description),
		Progress:    input.Progress,
	}
	if update.UpdateType == "" {
		update.UpdateType = domain.UpdateTypeGeneral
	}
	if err := s.updates.Create(ctx, update); err != nil {
		return nil, apperrors.MapError(err)
	}

	changed := false
	if update.UpdateType == domain.UpdateTypeCompleted {
		site.Status = domain.WebsiteStatusCompleted
		site.ProgressPercentage = 100
		changed = true
	} else if update.Progress != nil {
		site.ProgressPercentage = domain.ClampProgress(*update.Progress)
		changed = true
	}
	if changed {
		if err := s.websites.Update(ctx, site); err != nil {
			return nil, apperrors.MapError(err)
		}
	}

	s.publishEvent(ctx, events.Event{
		Type:   events.EventProjectUpdatePosted,
		UserID: site.UserID,
		Payload: events.ProjectUpdatePostedPayload{
			WebsiteID:  site.ID,
			UpdateType: update.UpdateType,
			Title:      update.Title,
		},
	})
	return update, nil
}

// ListForUser returns engagements owned by the user.
func (s *WebsiteService) ListForUser(ctx context.Context, userID string) ([]domain.Website, error) {
	sites, err := s.websites.ListByUser(ctx, userID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return sites, nil
}

// ListAll returns engagements across users for the back office.
func (s *WebsiteService) ListAll(ctx context.Context, limit, offset int) ([]domain.Website, error) {
	sites, err := s.websites.ListAll(ctx, limit, offset)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return sites, nil
}

// ListUpdatesForOwner returns a website's update feed, ensuring the
// caller owns the site.
func (s *WebsiteService) ListUpdatesForOwner(ctx context.Context, userID, websiteID string, limit, offset int) ([]domain.ProjectUpdate, error) {
	site, err := s.websites.GetByID(ctx, websiteID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	if site.UserID != userID {
		return nil, apperrors.NewForbidden("access denied")
	}
	updates, err := s.updates.ListByWebsite(ctx, websiteID, limit, offset)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return updates, nil
}

func (s *WebsiteService) publishEvent(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	_ = s.dispatcher.Publish(ctx, event)
}
