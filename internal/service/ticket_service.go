package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/spec-kit/client-portal/internal/domain"
	"github.com/spec-kit/client-portal/internal/repository"
	apperrors "github.com/spec-kit/client-portal/pkg/util"
)

// TicketService handles client support requests.
type TicketService struct {
	tickets repository.SupportTicketRepository
	users   repository.UserRepository
}

// NewTicketService constructs the service.
func NewTicketService(tickets repository.SupportTicketRepository, users repository.UserRepository) *TicketService {
	return &TicketService{tickets: tickets, users: users}
}

// TicketCreateInput describes a new support request.
type TicketCreateInput struct {
	UserID   string
	Subject  string
	Message  string
	Priority domain.TicketPriority
}

// CreateTicket opens a support ticket for the user.
func (s *TicketService) CreateTicket(ctx context.Context, input TicketCreateInput) (*domain.SupportTicket, error) {
	if strings.TrimSpace(input.Subject) == "" {
		return nil, apperrors.NewValidationError("subject required", nil)
	}
	if strings.TrimSpace(input.Message) == "" {
		return nil, apperrors.NewValidationError("message required", nil)
	}
	if _, err := s.users.GetByID(ctx, input.UserID); err != nil {
		return nil, apperrors.MapError(err)
	}

	ticket := &domain.SupportTicket{
		UserID:   input.UserID,
		Subject:  strings.TrimSpace(input.Subject),
		Message:  strings.TrimSpace(input.Message),
		Status:   domain.TicketStatusOpen,
		Priority: input.Priority,
	}
	if ticket.Priority == "" {
		ticket.Priority = domain.TicketPriorityMedium
	}
	if err := s.tickets.Create(ctx, ticket); err != nil {
		return nil, apperrors.MapError(err)
	}
	return ticket, nil
}

// UpdateStatus moves a ticket along its lifecycle. Closed tickets
// stay closed; resolved tickets may be reopened.
func (s *TicketService) UpdateStatus(ctx context.Context, ticketID string, status domain.TicketStatus) (*domain.SupportTicket, error) {
	ticket, err := s.tickets.GetByID(ctx, ticketID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	if !ticket.Status.CanTransitionTo(status) {
		return nil, apperrors.NewValidationError(
			fmt.Sprintf("cannot transition ticket from %s to %s", ticket.Status, status), nil)
	}
	if ticket.Status == status {
		return ticket, nil
	}
	ticket.Status = status
	if err := s.tickets.Update(ctx, ticket); err != nil {
		return nil, apperrors.MapError(err)
	}
	return ticket, nil
}

// ListForUser returns the user's own tickets.
func (s *TicketService) ListForUser(ctx context.Context, userID string, limit, offset int) ([]domain.SupportTicket, error) {
	tickets, err := s.tickets.ListByUser(ctx, userID, limit, offset)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return tickets, nil
}

// ListAll returns tickets across users, optionally filtered by status.
func (s *TicketService) ListAll(ctx context.Context, statuses []domain.TicketStatus, limit, offset int) ([]domain.SupportTicket, error) {
	tickets, err := s.tickets.ListAll(ctx, statuses, limit, offset)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return tickets, nil
}
