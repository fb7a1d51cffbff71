package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/client-portal/internal/domain"
)

// SupportTicketRepository encapsulates ticket persistence.
type SupportTicketRepository interface {
	Create(ctx context.Context, ticket *domain.SupportTicket) error
	Update(ctx context.Context, ticket *domain.SupportTicket) error
	GetByID(ctx context.Context, id string) (*domain.SupportTicket, error)
	ListByUser(ctx context.Context, userID string, limit, offset int) ([]domain.SupportTicket, error)
	ListAll(ctx context.Context, statuses []domain.TicketStatus, limit, offset int) ([]domain.SupportTicket, error)
}

type supportTicketRepository struct {
	pool *pgxpool.Pool
}

// NewSupportTicketRepository instantiates repository.
func NewSupportTicketRepository(pool *pgxpool.Pool) SupportTicketRepository {
	return &supportTicketRepository{pool: pool}
}

const ticketColumns = `id, user_id, subject, message, status, priority, created_at, updated_at`

func (r *supportTicketRepository) Create(ctx context.Context, ticket *domain.SupportTicket) error {
	const query = `
        INSERT INTO support_tickets (user_id, subject, message, status, priority)
        VALUES ($1,$2,$3,$4,$5)
        RETURNING id, created_at, updated_at`
	return r.pool.QueryRow(ctx, query,
		ticket.UserID,
		ticket.Subject,
		ticket.Message,
		ticket.Status,
		ticket.Priority,
	).Scan(&ticket.ID, &ticket.CreatedAt, &ticket.UpdatedAt)
}

func (r *supportTicketRepository) Update(ctx context.Context, ticket *domain.SupportTicket) error {
	const query = `
        UPDATE support_tickets SET subject=$1, message=$2, status=$3, priority=$4, updated_at=NOW()
        WHERE id=$5`
	cmd, err := r.pool.Exec(ctx, query,
		ticket.Subject,
		ticket.Message,
		ticket.Status,
		ticket.Priority,
		ticket.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *supportTicketRepository) GetByID(ctx context.Context, id string) (*domain.SupportTicket, error) {
	var ticket domain.SupportTicket
	if err := r.pool.QueryRow(ctx,
		`SELECT `+ticketColumns+` FROM support_tickets WHERE id=$1`, id).Scan(
		&ticket.ID,
		&ticket.UserID,
		&ticket.Subject,
		&ticket.Message,
		&ticket.Status,
		&ticket.Priority,
		&ticket.CreatedAt,
		&ticket.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &ticket, nil
}

func (r *supportTicketRepository) ListByUser(ctx context.Context, userID string, limit, offset int) ([]domain.SupportTicket, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+ticketColumns+` FROM support_tickets
         WHERE user_id=$1 ORDER BY updated_at DESC LIMIT $2 OFFSET $3`,
		userID, normalizeLimit(limit), normalizeOffset(offset))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanSupportTickets(rows)
}

func (r *supportTicketRepository) ListAll(ctx context.Context, statuses []domain.TicketStatus, limit, offset int) ([]domain.SupportTicket, error) {
	query := `SELECT ` + ticketColumns + ` FROM support_tickets`
	args := []any{}
	if len(statuses) > 0 {
		wanted := make([]string, len(statuses))
		for i, status := range statuses {
			wanted[i] = string(status)
		}
		args = append(args, wanted)
		query += fmt.Sprintf(` WHERE status = ANY($%d)`, len(args))
	}
	args = append(args, normalizeLimit(limit), normalizeOffset(offset))
	query += fmt.Sprintf(` ORDER BY updated_at DESC LIMIT $%d OFFSET $%d`, len(args)-1, len(args))

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanSupportTickets(rows)
}

func scanSupportTickets(rows pgx.Rows) ([]domain.SupportTicket, error) {
	var result []domain.SupportTicket
	for rows.Next() {
		var ticket domain.SupportTicket
		if err := rows.Scan(
			&ticket.ID,
			&ticket.UserID,
			&ticket.Subject,
			&ticket.Message,
			&ticket.Status,
			&ticket.Priority,
			&ticket.CreatedAt,
			&ticket.UpdatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, ticket)
	}
	return result, rows.Err()
}
