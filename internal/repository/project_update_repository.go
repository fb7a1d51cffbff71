package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/client-portal/internal/domain"
)

// ProjectUpdateRepository persists append-only project events. There is
// no Update method: rows are never mutated after creation.
type ProjectUpdateRepository interface {
	Create(ctx context.Context, update *domain.ProjectUpdate) error
	ListByWebsite(ctx context.Context, websiteID string, limit, offset int) ([]domain.ProjectUpdate, error)
	ListByUser(ctx context.Context, userID string, limit, offset int) ([]domain.ProjectUpdate, error)
}

type projectUpdateRepository struct {
	pool *pgxpool.Pool
}

// NewProjectUpdateRepository instantiates repository.
func NewProjectUpdateRepository(pool *pgxpool.Pool) ProjectUpdateRepository {
	return &projectUpdateRepository{pool: pool}
}

const projectUpdateColumns = `id, website_id, user_id, created_by, update_type, title, description, progress, created_at`

func (r *projectUpdateRepository) Create(ctx context.Context, update *domain.ProjectUpdate) error {
	const query = `
        INSERT INTO project_updates (website_id, user_id, created_by, update_type, title, description, progress)
        VALUES ($1,$2,$3,$4,$5,$6,$7)
        RETURNING id, created_at`
	return r.pool.QueryRow(ctx, query,
		update.WebsiteID,
		update.UserID,
		update.CreatedBy,
		update.UpdateType,
		update.Title,
		update.Description,
		update.Progress,
	).Scan(&update.ID, &update.CreatedAt)
}

func (r *projectUpdateRepository) ListByWebsite(ctx context.Context, websiteID string, limit, offset int) ([]domain.ProjectUpdate, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+projectUpdateColumns+` FROM project_updates
         WHERE website_id=$1 ORDER BY created_at DESC LIMIT $2 OFFSET $3`,
		websiteID, normalizeLimit(limit), normalizeOffset(offset))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanProjectUpdates(rows)
}

func (r *projectUpdateRepository) ListByUser(ctx context.Context, userID string, limit, offset int) ([]domain.ProjectUpdate, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+projectUpdateColumns+` FROM project_updates
         WHERE user_id=$1 ORDER BY created_at DESC LIMIT $2 OFFSET $3`,
		userID, normalizeLimit(limit), normalizeOffset(offset))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanProjectUpdates(rows)
}

func scanProjectUpdates(rows pgx.Rows) ([]domain.ProjectUpdate, error) {
	var result []domain.ProjectUpdate
	for rows.Next() {
		var update domain.ProjectUpdate
		if err := rows.Scan(
			&update.ID,
			&update.WebsiteID,
			&update.UserID,
			&update.CreatedBy,
			&update.UpdateType,
			&update.Title,
			&update.Description,
			&update.Progress,
			&update.CreatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, update)
	}
	return result, rows.Err()
}
