package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/client-portal/internal/domain"
)

// ReferralRepository encapsulates referral persistence.
type ReferralRepository interface {
	Create(ctx context.Context, referral *domain.Referral) error
	Update(ctx context.Context, referral *domain.Referral) error
	GetByID(ctx context.Context, id string) (*domain.Referral, error)
	ListByReferrer(ctx context.Context, referrerID string, limit, offset int) ([]domain.Referral, error)
	ListAll(ctx context.Context, limit, offset int) ([]domain.Referral, error)
}

type referralRepository struct {
	pool *pgxpool.Pool
}

// NewReferralRepository instantiates repository.
func NewReferralRepository(pool *pgxpool.Pool) ReferralRepository {
	return &referralRepository{pool: pool}
}

const referralColumns = `id, referrer_id, referred_name, referred_email, status, reward_amount, created_at, updated_at`

func (r *referralRepository) Create(ctx context.Context, referral *domain.Referral) error {
	const query = `
        INSERT INTO referrals (referrer_id, referred_name, referred_email, status, reward_amount)
        VALUES ($1,$2,$3,$4,$5)
        RETURNING id, created_at, updated_at`
	return r.pool.QueryRow(ctx, query,
		referral.ReferrerID,
		referral.ReferredName,
		referral.ReferredEmail,
		referral.Status,
		referral.RewardAmount,
	).Scan(&referral.ID, &referral.CreatedAt, &referral.UpdatedAt)
}

func (r *referralRepository) Update(ctx context.Context, referral *domain.Referral) error {
	const query = `
        UPDATE referrals SET referred_name=$1, referred_email=$2, status=$3, reward_amount=$4, updated_at=NOW()
        WHERE id=$5`
	cmd, err := r.pool.Exec(ctx, query,
		referral.ReferredName,
		referral.ReferredEmail,
		referral.Status,
		referral.RewardAmount,
		referral.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *referralRepository) GetByID(ctx context.Context, id string) (*domain.Referral, error) {
	var referral domain.Referral
	if err := r.pool.QueryRow(ctx,
		`SELECT `+referralColumns+` FROM referrals WHERE id=$1`, id).Scan(
		&referral.ID,
		&referral.ReferrerID,
		&referral.ReferredName,
		&referral.ReferredEmail,
		&referral.Status,
		&referral.RewardAmount,
		&referral.CreatedAt,
		&referral.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &referral, nil
}

func (r *referralRepository) ListByReferrer(ctx context.Context, referrerID string, limit, offset int) ([]domain.Referral, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+referralColumns+` FROM referrals
         WHERE referrer_id=$1 ORDER BY created_at DESC LIMIT $2 OFFSET $3`,
		referrerID, normalizeLimit(limit), normalizeOffset(offset))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanReferrals(rows)
}

func (r *referralRepository) ListAll(ctx context.Context, limit, offset int) ([]domain.Referral, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+referralColumns+` FROM referrals ORDER BY created_at DESC LIMIT $1 OFFSET $2`,
		normalizeLimit(limit), normalizeOffset(offset))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanReferrals(rows)
}

func scanReferrals(rows pgx.Rows) ([]domain.Referral, error) {
	var result []domain.Referral
	for rows.Next() {
		var referral domain.Referral
		if err := rows.Scan(
			&referral.ID,
			&referral.ReferrerID,
			&referral.ReferredName,
			&referral.ReferredEmail,
			&referral.Status,
			&referral.RewardAmount,
			&referral.CreatedAt,
			&referral.UpdatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, referral)
	}
	return result, rows.Err()
}
