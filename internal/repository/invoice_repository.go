package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/client-portal/internal/domain"
)

// InvoiceRepository encapsulates invoice persistence.
type InvoiceRepository interface {
	Create(ctx context.Context, invoice *domain.Invoice) error
	GetByID(ctx context.Context, id string) (*domain.Invoice, error)
	GetByNumber(ctx context.Context, number string) (*domain.Invoice, error)
	ListByUser(ctx context.Context, userID string, limit, offset int) ([]domain.Invoice, error)
	ListAll(ctx context.Context, limit, offset int) ([]domain.Invoice, error)
	// UpdateVersioned writes the invoice only when the stored version
	// matches invoice.Version, bumping it on success. InvoiceNumber is
	// deliberately excluded from the update: it is immutable once
	// assigned.
	UpdateVersioned(ctx context.Context, invoice *domain.Invoice) error
	MarkOverdue(ctx context.Context, asOf time.Time) (int64, error)
}

type invoiceRepository struct {
	pool *pgxpool.Pool
}

// NewInvoiceRepository instantiates repository.
func NewInvoiceRepository(pool *pgxpool.Pool) InvoiceRepository {
	return &invoiceRepository{pool: pool}
}

const invoiceColumns = `id, user_id, invoice_number, amount, currency, status, issue_date,
               due_date, paid_date, billing_id, pdf_url, version, created_at, updated_at`

func (r *invoiceRepository) Create(ctx context.Context, invoice *domain.Invoice) error {
	const query = `
        INSERT INTO invoices (user_id, invoice_number, amount, currency, status, issue_date, due_date, paid_date, billing_id, pdf_url)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
        RETURNING id, version, created_at, updated_at`
	return r.pool.QueryRow(ctx, query,
		invoice.UserID,
		invoice.InvoiceNumber,
		invoice.Amount,
		invoice.Currency,
		invoice.Status,
		invoice.IssueDate,
		invoice.DueDate,
		invoice.PaidDate,
		invoice.BillingID,
		invoice.PDFURL,
	).Scan(&invoice.ID, &invoice.Version, &invoice.CreatedAt, &invoice.UpdatedAt)
}

func (r *invoiceRepository) GetByID(ctx context.Context, id string) (*domain.Invoice, error) {
	return r.fetchSingle(ctx, `SELECT `+invoiceColumns+` FROM invoices WHERE id=$1`, id)
}

func (r *invoiceRepository) GetByNumber(ctx context.Context, number string) (*domain.Invoice, error) {
	return r.fetchSingle(ctx, `SELECT `+invoiceColumns+` FROM invoices WHERE invoice_number=$1`, number)
}

func (r *invoiceRepository) fetchSingle(ctx context.Context, query string, arg any) (*domain.Invoice, error) {
	var invoice domain.Invoice
	if err := r.pool.QueryRow(ctx, query, arg).Scan(
		&invoice.ID,
		&invoice.UserID,
		&invoice.InvoiceNumber,
		&invoice.Amount,
		&invoice.Currency,
		&invoice.Status,
		&invoice.IssueDate,
		&invoice.DueDate,
		&invoice.PaidDate,
		&invoice.BillingID,
		&invoice.PDFURL,
		&invoice.Version,
		&invoice.CreatedAt,
		&invoice.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &invoice, nil
}

func (r *invoiceRepository) ListByUser(ctx context.Context, userID string, limit, offset int) ([]domain.Invoice, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+invoiceColumns+` FROM invoices
         WHERE user_id=$1 ORDER BY issue_date DESC LIMIT $2 OFFSET $3`,
		userID, normalizeLimit(limit), normalizeOffset(offset))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanInvoices(rows)
}

func (r *invoiceRepository) ListAll(ctx context.Context, limit, offset int) ([]domain.Invoice, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+invoiceColumns+` FROM invoices
         ORDER BY issue_date DESC LIMIT $1 OFFSET $2`,
		normalizeLimit(limit), normalizeOffset(offset))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanInvoices(rows)
}

func (r *invoiceRepository) UpdateVersioned(ctx context.Context, invoice *domain.Invoice) error {
	const query = `
        UPDATE invoices SET amount=$1, currency=$2, status=$3, issue_date=$4, due_date=$5,
            paid_date=$6, billing_id=$7, pdf_url=$8, version=version+1, updated_at=NOW()
        WHERE id=$9 AND version=$10`
	cmd, err := r.pool.Exec(ctx, query,
		invoice.Amount,
		invoice.Currency,
		invoice.Status,
		invoice.IssueDate,
		invoice.DueDate,
		invoice.PaidDate,
		invoice.BillingID,
		invoice.PDFURL,
		invoice.ID,
		invoice.Version,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		if _, getErr := r.GetByID(ctx, invoice.ID); getErr != nil {
			return getErr
		}
		return ErrVersionConflict
	}
	invoice.Version++
	return nil
}

func (r *invoiceRepository) MarkOverdue(ctx context.Context, asOf time.Time) (int64, error) {
	cmd, err := r.pool.Exec(ctx,
		`UPDATE invoices SET status=$1, version=version+1, updated_at=NOW()
         WHERE status=$2 AND due_date < $3`,
		domain.InvoiceStatusOverdue, domain.InvoiceStatusSent, asOf)
	if err != nil {
		return 0, err
	}
	return cmd.RowsAffected(), nil
}

func scanInvoices(rows pgx.Rows) ([]domain.Invoice, error) {
	var result []domain.Invoice
	for rows.Next() {
		var invoice domain.Invoice
		if err := rows.Scan(
			&invoice.ID,
			&invoice.UserID,
			&invoice.InvoiceNumber,
			&invoice.Amount,
			&invoice.Currency,
			&invoice.Status,
			&invoice.IssueDate,
			&invoice.DueDate,
			&invoice.PaidDate,
			&invoice.BillingID,
			&invoice.PDFURL,
			&invoice.Version,
			&invoice.CreatedAt,
			&invoice.UpdatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, invoice)
	}
	return result, rows.Err()
}
