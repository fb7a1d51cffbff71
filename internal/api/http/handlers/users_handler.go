package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/client-portal/internal/api/dto"
	"github.com/spec-kit/client-portal/internal/auth"
	"github.com/spec-kit/client-portal/internal/domain"
	"github.com/spec-kit/client-portal/internal/service"
	apperrors "github.com/spec-kit/client-portal/pkg/util"
)

// AccountHandler serves the client's own account endpoints.
type AccountHandler struct {
	service *service.AccountService
}

// NewAccountHandler constructs handler.
func NewAccountHandler(accountService *service.AccountService) *AccountHandler {
	return &AccountHandler{service: accountService}
}

// Me GET /account.
func (h *AccountHandler) Me(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("user required")
	}
	return c.JSON(fiber.Map{"data": dto.NewUserResponse(principal.User)})
}

// RequestDeletion POST /account/delete.
func (h *AccountHandler) RequestDeletion(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("user required")
	}
	user, err := h.service.RequestDeletion(c.Context(), principal.User.ID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewUserResponse(user)})
}

// Recover POST /account/recover. Unauthenticated: the caller's only
// credential is the token from the confirmation email.
func (h *AccountHandler) Recover(c *fiber.Ctx) error {
	var req dto.RecoverAccountRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := dto.Validate(req); err != nil {
		return err
	}
	user, err := h.service.RecoverAccount(c.Context(), req.Token)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewUserResponse(user)})
}

// AdminUsersHandler serves the back-office user endpoints.
type AdminUsersHandler struct {
	service *service.AccountService
}

// NewAdminUsersHandler constructs handler.
func NewAdminUsersHandler(accountService *service.AccountService) *AdminUsersHandler {
	return &AdminUsersHandler{service: accountService}
}

// Provision POST /admin/users.
func (h *AdminUsersHandler) Provision(c *fiber.Ctx) error {
	var req dto.ProvisionUserRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := dto.Validate(req); err != nil {
		return err
	}

	result, err := h.service.ProvisionUser(c.Context(), service.ProvisionInput{
		Email:              req.Email,
		Password:           req.Password,
		FullName:           req.FullName,
		Role:               req.Role,
		Status:             req.Status,
		MustChangePassword: req.MustChangePassword,
	})
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": dto.ProvisionUserResponse{
		User:     dto.NewUserResponse(result.User),
		Password: result.Password,
	}})
}

// List GET /admin/users.
func (h *AdminUsersHandler) List(c *fiber.Ctx) error {
	limit, offset := parsePagination(c)
	users, err := h.service.ListUsers(c.Context(), limit, offset)
	if err != nil {
		return err
	}
	items := make([]dto.UserResponse, 0, len(users))
	for i := range users {
		items = append(items, dto.NewUserResponse(&users[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

// UpdateStatus PATCH /admin/users/:id/status.
func (h *AdminUsersHandler) UpdateStatus(c *fiber.Ctx) error {
	var req dto.UpdateUserStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := dto.Validate(req); err != nil {
		return err
	}
	user, err := h.service.SetStatus(c.Context(), c.Params("id"), domain.UserStatus(req.Status))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewUserResponse(user)})
}
