package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/client-portal/internal/domain"
)

// WebsiteRepository encapsulates website project persistence.
type WebsiteRepository interface {
	Create(ctx context.Context, site *domain.Website) error
	Update(ctx context.Context, site *domain.Website) error
	GetByID(ctx context.Context, id string) (*domain.Website, error)
	ListByUser(ctx context.Context, userID string) ([]domain.Website, error)
	ListAll(ctx context.Context, limit, offset int) ([]domain.Website, error)
}

type websiteRepository struct {
	pool *pgxpool.Pool
}

// NewWebsiteRepository instantiates repository.
func NewWebsiteRepository(pool *pgxpool.Pool) WebsiteRepository {
	return &websiteRepository{pool: pool}
}

const websiteColumns = `id, user_id, name, url, status, progress_percentage, created_at, updated_at`

func (r *websiteRepository) Create(ctx context.Context, site *domain.Website) error {
	const query = `
        INSERT INTO websites (user_id, name, url, status, progress_percentage)
        VALUES ($1,$2,$3,$4,$5)
        RETURNING id, created_at, updated_at`
	return r.pool.QueryRow(ctx, query,
		site.UserID,
		site.Name,
		site.URL,
		site.Status,
		site.ProgressPercentage,
	).Scan(&site.ID, &site.CreatedAt, &site.UpdatedAt)
}

func (r *websiteRepository) Update(ctx context.Context, site *domain.Website) error {
	const query = `
        UPDATE websites SET name=$1, url=$2, status=$3, progress_percentage=$4, updated_at=NOW()
        WHERE id=$5`
	cmd, err := r.pool.Exec(ctx, query,
		site.Name,
		site.URL,
		site.Status,
		site.ProgressPercentage,
		site.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *websiteRepository) GetByID(ctx context.Context, id string) (*domain.Website, error) {
	var site domain.Website
	if err := r.pool.QueryRow(ctx,
		`SELECT `+websiteColumns+` FROM websites WHERE id=$1`, id).Scan(
		&site.ID,
		&site.UserID,
		&site.Name,
		&site.URL,
		&site.Status,
		&site.ProgressPercentage,
		&site.CreatedAt,
		&site.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &site, nil
}

func (r *websiteRepository) ListByUser(ctx context.Context, userID string) ([]domain.Website, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+websiteColumns+` FROM websites WHERE user_id=$1 ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanWebsites(rows)
}

func (r *websiteRepository) ListAll(ctx context.Context, limit, offset int) ([]domain.Website, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+websiteColumns+` FROM websites ORDER BY created_at DESC LIMIT $1 OFFSET $2`,
		normalizeLimit(limit), normalizeOffset(offset))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanWebsites(rows)
}

func scanWebsites(rows pgx.Rows) ([]domain.Website, error) {
	var result []domain.Website
	for rows.Next() {
		var site domain.Website
		if err := rows.Scan(
			&site.ID,
			&site.UserID,
			&site.Name,
			&site.URL,
			&site.Status,
			&site.ProgressPercentage,
			&site.CreatedAt,
			&site.UpdatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, site)
	}
	return result, rows.Err()
}
