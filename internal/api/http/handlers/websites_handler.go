package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/client-portal/internal/api/dto"
	"github.com/spec-kit/client-portal/internal/auth"
	"github.com/spec-kit/client-portal/internal/domain"
	"github.com/spec-kit/client-portal/internal/service"
	apperrors "github.com/spec-kit/client-portal/pkg/util"
)

// WebsitesHandler serves the client-facing project endpoints.
type WebsitesHandler struct {
	service *service.WebsiteService
}

// NewWebsitesHandler constructs handler.
func NewWebsitesHandler(websiteService *service.WebsiteService) *WebsitesHandler {
	return &WebsitesHandler{service: websiteService}
}

// ListWebsites GET /websites.
func (h *WebsitesHandler) ListWebsites(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("user required")
	}
	sites, err := h.service.ListForUser(c.Context(), principal.User.ID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": websiteResponses(sites)})
}

// ListUpdates GET /websites/:id/updates.
func (h *WebsitesHandler) ListUpdates(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("user required")
	}
	limit, offset := parsePagination(c)
	updates, err := h.service.ListUpdatesForOwner(c.Context(), principal.User.ID, c.Params("id"), limit, offset)
	if err != nil {
		return err
	}
	items := make([]dto.ProjectUpdateResponse, 0, len(updates))
	for i := range updates {
		items = append(items, dto.NewProjectUpdateResponse(&updates[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

// AdminWebsitesHandler serves the back-office project endpoints.
type AdminWebsitesHandler struct {
	service *service.WebsiteService
}

// NewAdminWebsitesHandler constructs handler.
func NewAdminWebsitesHandler(websiteService *service.WebsiteService) *AdminWebsitesHandler {
	return &AdminWebsitesHandler{service: websiteService}
}

// Create POST /admin/websites.
func (h *AdminWebsitesHandler) Create(c *fiber.Ctx) error {
	var req dto.CreateWebsiteRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := dto.Validate(req); err != nil {
		return err
	}

	site, err := h.service.CreateWebsite(c.Context(), service.WebsiteCreateInput{
		UserID:   req.UserID,
		Name:     req.Name,
		URL:      req.URL,
		Status:   req.Status,
		Progress: req.Progress,
	})
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": dto.NewWebsiteResponse(site)})
}

// Update PATCH /admin/websites/:id.
func (h *AdminWebsitesHandler) Update(c *fiber.Ctx) error {
	var req dto.UpdateWebsiteRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := dto.Validate(req); err != nil {
		return err
	}

	site, err := h.service.UpdateWebsite(c.Context(), c.Params("id"), service.WebsiteUpdateInput{
		Name:     req.Name,
		URL:      req.URL,
		Status:   req.Status,
		Progress: req.Progress,
	})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewWebsiteResponse(site)})
}

// PostUpdate POST /admin/websites/:id/updates.
func (h *AdminWebsitesHandler) PostUpdate(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("user required")
	}
	var req dto.PostProjectUpdateRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := dto.Validate(req); err != nil {
		return err
	}

	update, err := h.service.PostUpdate(c.Context(), c.Params("id"), principal.User.ID, service.ProjectUpdateInput{
		UpdateType:  req.UpdateType,
		Title:       req.Title,
		Description: req.Description,
		Progress:    req.Progress,
	})
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": dto.NewProjectUpdateResponse(update)})
}

// List GET /admin/websites.
func (h *AdminWebsitesHandler) List(c *fiber.Ctx) error {
	limit, offset := parsePagination(c)
	sites, err := h.service.ListAll(c.Context(), limit, offset)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": websiteResponses(sites)})
}

func websiteResponses(sites []domain.Website) []dto.WebsiteResponse {
	items := make([]dto.WebsiteResponse, 0, len(sites))
	for i := range sites {
		items = append(items, dto.NewWebsiteResponse(&sites[i]))
	}
	return items
}
