package dto

import (
	"time"

	"github.com/spec-kit/client-portal/internal/domain"
)

// CreateTicketRequest payload.
type CreateTicketRequest struct {
	Subject  string                `json:"subject" validate:"required,max=200"`
	Message  string                `json:"message" validate:"required,max=5000"`
	Priority domain.TicketPriority `json:"priority" validate:"omitempty,oneof=low medium high"`
}

// UpdateTicketStatusRequest payload.
type UpdateTicketStatusRequest struct {
	Status domain.TicketStatus `json:"status" validate:"required,oneof=open in_progress resolved closed"`
}

// TicketResponse is the support ticket view.
type TicketResponse struct {
	ID        string                `json:"id"`
	UserID    string                `json:"user_id"`
	Subject   string                `json:"subject"`
	Message   string                `json:"message"`
	Status    domain.TicketStatus   `json:"status"`
	Priority  domain.TicketPriority `json:"priority"`
	CreatedAt time.Time             `json:"created_at"`
	UpdatedAt time.Time             `json:"updated_at"`
}

// NewTicketResponse maps a domain ticket.
func NewTicketResponse(ticket *domain.SupportTicket) TicketResponse {
	return TicketResponse{
		ID:        ticket.ID,
		UserID:    ticket.UserID,
		Subject:   ticket.Subject,
		Message:   ticket.Message,
		Status:    ticket.Status,
		Priority:  ticket.Priority,
		CreatedAt: ticket.CreatedAt,
		UpdatedAt: ticket.UpdatedAt,
	}
}
