package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"

	"github.com/spec-kit/client-portal/internal/api/dto"
	"github.com/spec-kit/client-portal/internal/auth"
	"github.com/spec-kit/client-portal/internal/domain"
	"github.com/spec-kit/client-portal/internal/service"
	apperrors "github.com/spec-kit/client-portal/pkg/util"
)

// ReferralsHandler serves the client-facing referral endpoints.
type ReferralsHandler struct {
	service *service.ReferralService
}

// NewReferralsHandler constructs handler.
func NewReferralsHandler(referralService *service.ReferralService) *ReferralsHandler {
	return &ReferralsHandler{service: referralService}
}

// Create POST /referrals.
func (h *ReferralsHandler) Create(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("user required")
	}
	var req dto.CreateReferralRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := dto.Validate(req); err != nil {
		return err
	}

	referral, err := h.service.CreateReferral(c.Context(), service.ReferralCreateInput{
		ReferrerID:    principal.User.ID,
		ReferredName:  req.ReferredName,
		ReferredEmail: req.ReferredEmail,
	})
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": dto.NewReferralResponse(referral)})
}

// List GET /referrals.
func (h *ReferralsHandler) List(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("user required")
	}
	limit, offset := parsePagination(c)
	referrals, err := h.service.ListForReferrer(c.Context(), principal.User.ID, limit, offset)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": referralResponses(referrals)})
}

// AdminReferralsHandler serves the back-office referral endpoints.
type AdminReferralsHandler struct {
	service *service.ReferralService
}

// NewAdminReferralsHandler constructs handler.
func NewAdminReferralsHandler(referralService *service.ReferralService) *AdminReferralsHandler {
	return &AdminReferralsHandler{service: referralService}
}

// List GET /admin/referrals.
func (h *AdminReferralsHandler) List(c *fiber.Ctx) error {
	limit, offset := parsePagination(c)
	referrals, err := h.service.ListAll(c.Context(), limit, offset)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": referralResponses(referrals)})
}

// UpdateStatus PATCH /admin/referrals/:id.
func (h *AdminReferralsHandler) UpdateStatus(c *fiber.Ctx) error {
	var req dto.UpdateReferralStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := dto.Validate(req); err != nil {
		return err
	}

	var reward *decimal.Decimal
	if req.RewardAmount != nil {
		parsed, err := dto.ParseAmount(*req.RewardAmount)
		if err != nil {
			return err
		}
		reward = &parsed
	}
	referral, err := h.service.UpdateStatus(c.Context(), c.Params("id"), service.ReferralStatusInput{
		Status:       req.Status,
		RewardAmount: reward,
	})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewReferralResponse(referral)})
}

func referralResponses(referrals []domain.Referral) []dto.ReferralResponse {
	items := make([]dto.ReferralResponse, 0, len(referrals))
	for i := range referrals {
		items = append(items, dto.NewReferralResponse(&referrals[i]))
	}
	return items
}
