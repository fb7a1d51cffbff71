package repository

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/client-portal/internal/domain"
)

// ErrVersionConflict signals an optimistic-concurrency miss: the row
// changed between read and write.
var ErrVersionConflict = errors.New("version conflict")

// BillingRepository encapsulates billing record persistence.
type BillingRepository interface {
	Create(ctx context.Context, record *domain.BillingRecord) error
	GetByID(ctx context.Context, id string) (*domain.BillingRecord, error)
	ListByUser(ctx context.Context, userID string, limit, offset int) ([]domain.BillingRecord, error)
	ListAll(ctx context.Context, limit, offset int) ([]domain.BillingRecord, error)
	// UpdateVersioned writes the record only when the stored version
	// matches record.Version, bumping it on success. A miss returns
	// ErrVersionConflict.
	UpdateVersioned(ctx context.Context, record *domain.BillingRecord) error
	MarkOverdue(ctx context.Context, asOf time.Time) (int64, error)
}

type billingRepository struct {
	pool *pgxpool.Pool
}

// NewBillingRepository instantiates repository.
func NewBillingRepository(pool *pgxpool.Pool) BillingRepository {
	return &billingRepository{pool: pool}
}

const billingColumns = `id, user_id, amount, currency, status, billing_period_start,
               billing_period_end, paid_at, version, created_at, updated_at`

func (r *billingRepository) Create(ctx context.Context, record *domain.BillingRecord) error {
	const query = `
        INSERT INTO billing_records (user_id, amount, currency, status, billing_period_start, billing_period_end, paid_at)
        VALUES ($1,$2,$3,$4,$5,$6,$7)
        RETURNING id, version, created_at, updated_at`
	return r.pool.QueryRow(ctx, query,
		record.UserID,
		record.Amount,
		record.Currency,
		record.Status,
		record.PeriodStart,
		record.PeriodEnd,
		record.PaidAt,
	).Scan(&record.ID, &record.Version, &record.CreatedAt, &record.UpdatedAt)
}

func (r *billingRepository) GetByID(ctx context.Context, id string) (*domain.BillingRecord, error) {
	var record domain.BillingRecord
	if err := r.pool.QueryRow(ctx,
		`SELECT `+billingColumns+` FROM billing_records WHERE id=$1`, id).Scan(
		&record.ID,
		&record.UserID,
		&record.Amount,
		&record.Currency,
		&record.Status,
		&record.PeriodStart,
		&record.PeriodEnd,
		&record.PaidAt,
		&record.Version,
		&record.CreatedAt,
		&record.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &record, nil
}

func (r *billingRepository) ListByUser(ctx context.Context, userID string, limit, offset int) ([]domain.BillingRecord, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+billingColumns+` FROM billing_records
         WHERE user_id=$1 ORDER BY billing_period_start DESC LIMIT $2 OFFSET $3`,
		userID, normalizeLimit(limit), normalizeOffset(offset))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanBillingRecords(rows)
}

func (r *billingRepository) ListAll(ctx context.Context, limit, offset int) ([]domain.BillingRecord, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+billingColumns+` FROM billing_records
         ORDER BY billing_period_start DESC LIMIT $1 OFFSET $2`,
		normalizeLimit(limit), normalizeOffset(offset))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanBillingRecords(rows)
}

func (r *billingRepository) UpdateVersioned(ctx context.Context, record *domain.BillingRecord) error {
	const query = `
        UPDATE billing_records SET amount=$1, currency=$2, status=$3, billing_period_start=$4,
            billing_period_end=$5, paid_at=$6, version=version+1, updated_at=NOW()
        WHERE id=$7 AND version=$8`
	cmd, err := r.pool.Exec(ctx, query,
		record.Amount,
		record.Currency,
		record.Status,
		record.PeriodStart,
		record.PeriodEnd,
		record.PaidAt,
		record.ID,
		record.Version,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		// distinguish a missing row from a stale version
		if _, getErr := r.GetByID(ctx, record.ID); getErr != nil {
			return getErr
		}
		return ErrVersionConflict
	}
	record.Version++
	return nil
}

func (r *billingRepository) MarkOverdue(ctx context.Context, asOf time.Time) (int64, error) {
	cmd, err := r.pool.Exec(ctx,
		`UPDATE billing_records SET status=$1, version=version+1, updated_at=NOW()
         WHERE status=$2 AND billing_period_end < $3`,
		domain.BillingStatusOverdue, domain.BillingStatusPending, asOf)
	if err != nil {
		return 0, err
	}
	return cmd.RowsAffected(), nil
}

func scanBillingRecords(rows pgx.Rows) ([]domain.BillingRecord, error) {
	var result []domain.BillingRecord
	for rows.Next() {
		var record domain.BillingRecord
		if err := rows.Scan(
			&record.ID,
			&record.UserID,
			&record.Amount,
			&record.Currency,
			&record.Status,
			&record.PeriodStart,
			&record.PeriodEnd,
			&record.PaidAt,
			&record.Version,
			&record.CreatedAt,
			&record.UpdatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, record)
	}
	return result, rows.Err()
}

func normalizeLimit(limit int) int {
	if limit <= 0 {
		return 50
	}
	return limit
}

func normalizeOffset(offset int) int {
	if offset < 0 {
		return 0
	}
	return offset
}
