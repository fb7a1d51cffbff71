package handlers

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/client-portal/internal/api/dto"
	"github.com/spec-kit/client-portal/internal/auth"
	"github.com/spec-kit/client-portal/internal/domain"
	"github.com/spec-kit/client-portal/internal/service"
	apperrors "github.com/spec-kit/client-portal/pkg/util"
)

// BillingHandler serves the client-facing billing endpoints.
type BillingHandler struct {
	service *service.BillingService
}

// NewBillingHandler constructs handler.
func NewBillingHandler(billingService *service.BillingService) *BillingHandler {
	return &BillingHandler{service: billingService}
}

// ListBilling GET /billing.
func (h *BillingHandler) ListBilling(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("user required")
	}
	limit, offset := parsePagination(c)
	records, err := h.service.ListForUser(c.Context(), principal.User.ID, limit, offset)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": billingResponses(records)})
}

// Summary GET /billing/summary.
func (h *BillingHandler) Summary(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("user required")
	}
	summary, err := h.service.SummaryForUser(c.Context(), principal.User.ID, time.Now())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": billingSummaryResponse(summary)})
}

// AdminBillingHandler serves the back-office billing endpoints.
type AdminBillingHandler struct {
	service *service.BillingService
}

// NewAdminBillingHandler constructs handler.
func NewAdminBillingHandler(billingService *service.BillingService) *AdminBillingHandler {
	return &AdminBillingHandler{service: billingService}
}

// Create POST /admin/billing.
func (h *AdminBillingHandler) Create(c *fiber.Ctx) error {
	var req dto.CreateBillingRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := dto.Validate(req); err != nil {
		return err
	}
	amount, err := dto.ParseAmount(req.Amount)
	if err != nil {
		return err
	}

	record, err := h.service.CreateBillingRecord(c.Context(), service.BillingCreateInput{
		UserID:      req.UserID,
		Amount:      amount,
		Currency:    req.Currency,
		PeriodStart: req.PeriodStart,
		PeriodEnd:   req.PeriodEnd,
	})
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": dto.NewBillingResponse(record)})
}

// UpdateStatus PATCH /admin/billing/:id.
func (h *AdminBillingHandler) UpdateStatus(c *fiber.Ctx) error {
	var req dto.UpdateBillingStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := dto.Validate(req); err != nil {
		return err
	}

	input := service.BillingUpdateInput{
		Status:  req.Status,
		Version: req.Version,
	}
	if req.Amount != "" {
		amount, err := dto.ParseAmount(req.Amount)
		if err != nil {
			return err
		}
		input.Amount = amount
	}
	if req.PeriodStart != nil {
		input.PeriodStart = *req.PeriodStart
	}
	if req.PeriodEnd != nil {
		input.PeriodEnd = *req.PeriodEnd
	}

	record, err := h.service.UpdateStatus(c.Context(), c.Params("id"), input)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewBillingResponse(record)})
}

// List GET /admin/billing.
func (h *AdminBillingHandler) List(c *fiber.Ctx) error {
	limit, offset := parsePagination(c)
	records, err := h.service.ListAll(c.Context(), limit, offset)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": billingResponses(records)})
}

func billingResponses(records []domain.BillingRecord) []dto.BillingResponse {
	items := make([]dto.BillingResponse, 0, len(records))
	for i := range records {
		items = append(items, dto.NewBillingResponse(&records[i]))
	}
	return items
}

func billingSummaryResponse(summary *service.BillingSummary) dto.BillingSummaryResponse {
	rollup := make([]dto.MonthlyTotalResponse, 0, len(summary.MonthlyRollup))
	for _, month := range summary.MonthlyRollup {
		rollup = append(rollup, dto.MonthlyTotalResponse{Label: month.Label, Total: month.Total})
	}
	resp := dto.BillingSummaryResponse{
		TotalPaid:     summary.TotalPaid,
		Outstanding:   summary.Outstanding,
		OverdueCount:  summary.OverdueCount,
		MonthlyRollup: rollup,
	}
	if summary.CurrentPeriod != nil {
		current := dto.NewBillingResponse(summary.CurrentPeriod)
		resp.CurrentPeriod = &current
	}
	return resp
}

func parsePagination(c *fiber.Ctx) (limit, offset int) {
	page := parsePositiveInt(c.Query("page"), 1)
	pageSize := parsePositiveInt(c.Query("page_size"), 20)
	return pageSize, (page - 1) * pageSize
}

func parsePositiveInt(val string, def int) int {
	if val == "" {
		return def
	}
	parsed, err := strconv.Atoi(val)
	if err != nil || parsed <= 0 {
		return def
	}
	return parsed
}
