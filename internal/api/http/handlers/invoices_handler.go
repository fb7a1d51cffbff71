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

// InvoicesHandler serves the client-facing invoice endpoints.
type InvoicesHandler struct {
	service *service.InvoiceService
}

// NewInvoicesHandler constructs handler.
func NewInvoicesHandler(invoiceService *service.InvoiceService) *InvoicesHandler {
	return &InvoicesHandler{service: invoiceService}
}

// ListInvoices GET /invoices.
func (h *InvoicesHandler) ListInvoices(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("user required")
	}
	limit, offset := parsePagination(c)
	invoices, err := h.service.ListForUser(c.Context(), principal.User.ID, limit, offset)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": invoiceResponses(invoices)})
}

// Summary GET /invoices/summary.
func (h *InvoicesHandler) Summary(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("user required")
	}
	summary, err := h.service.SummaryForUser(c.Context(), principal.User.ID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.InvoiceSummaryResponse{
		TotalPaid:    summary.TotalPaid,
		Outstanding:  summary.Outstanding,
		OverdueCount: summary.OverdueCount,
	}})
}

// AdminInvoicesHandler serves the back-office invoice endpoints.
type AdminInvoicesHandler struct {
	service *service.InvoiceService
}

// NewAdminInvoicesHandler constructs handler.
func NewAdminInvoicesHandler(invoiceService *service.InvoiceService) *AdminInvoicesHandler {
	return &AdminInvoicesHandler{service: invoiceService}
}

// Create POST /admin/invoices.
func (h *AdminInvoicesHandler) Create(c *fiber.Ctx) error {
	var req dto.CreateInvoiceRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := dto.Validate(req); err != nil {
		return err
	}

	amount := decimal.Zero
	if req.Amount != "" {
		parsed, err := dto.ParseAmount(req.Amount)
		if err != nil {
			return err
		}
		amount = parsed
	}

	invoice, err := h.service.CreateInvoice(c.Context(), service.InvoiceCreateInput{
		UserID:    req.UserID,
		Amount:    amount,
		Currency:  req.Currency,
		IssueDate: req.IssueDate,
		DueDate:   req.DueDate,
		BillingID: req.BillingID,
		Issue:     req.Issue,
	})
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": dto.NewInvoiceResponse(invoice)})
}

// UpdateStatus PATCH /admin/invoices/:id.
func (h *AdminInvoicesHandler) UpdateStatus(c *fiber.Ctx) error {
	var req dto.UpdateInvoiceStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := dto.Validate(req); err != nil {
		return err
	}

	input := service.InvoiceUpdateInput{
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
	if req.DueDate != nil {
		input.DueDate = *req.DueDate
	}

	invoice, err := h.service.UpdateStatus(c.Context(), c.Params("id"), input)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewInvoiceResponse(invoice)})
}

// List GET /admin/invoices.
func (h *AdminInvoicesHandler) List(c *fiber.Ctx) error {
	limit, offset := parsePagination(c)
	invoices, err := h.service.ListAll(c.Context(), limit, offset)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": invoiceResponses(invoices)})
}

func invoiceResponses(invoices []domain.Invoice) []dto.InvoiceResponse {
	items := make([]dto.InvoiceResponse, 0, len(invoices))
	for i := range invoices {
		items = append(items, dto.NewInvoiceResponse(&invoices[i]))
	}
	return items
}
