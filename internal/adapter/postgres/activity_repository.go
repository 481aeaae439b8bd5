package postgres

import (
	"context"
	"time"

	"github.com/fmsilvestri/condobase/internal/domain"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// activityColumns must match the Scan order in scanActivity.
const activityColumns = `id, condominium_id, team_id, title, description, schedule, items, active,
	last_run_at, next_run_at, created_at, updated_at`

type ActivityRepo struct {
	pool *pgxpool.Pool
}

func NewActivityRepo(pool *pgxpool.Pool) *ActivityRepo {
	return &ActivityRepo{pool: pool}
}

func scanActivity(row rowScanner) (*domain.ActivityList, error) {
	var a domain.ActivityList
	err := row.Scan(&a.ID, &a.CondominiumID, &a.TeamID, &a.Title, &a.Description, &a.Schedule, &a.Items, &a.Active,
		&a.LastRunAt, &a.NextRunAt, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func collectActivities(rows pgx.Rows, op string) ([]*domain.ActivityList, error) {
	out, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (*domain.ActivityList, error) {
		return scanActivity(row)
	})
	if err != nil {
		return nil, mapError(err, op)
	}
	return out, nil
}

func (r *ActivityRepo) Create(ctx context.Context, a *domain.ActivityList) error {
	if a.Items == nil {
		a.Items = []string{}
	}
	err := r.pool.QueryRow(ctx, `
		INSERT INTO activity_lists (condominium_id, team_id, title, description, schedule, items, active, next_run_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at, updated_at`,
		a.CondominiumID, a.TeamID, a.Title, a.Description, a.Schedule, a.Items, a.Active, a.NextRunAt,
	).Scan(&a.ID, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return mapError(err, "create activity list")
	}
	return nil
}

func (r *ActivityRepo) GetByID(ctx context.Context, condominiumID, id uuid.UUID) (*domain.ActivityList, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+activityColumns+` FROM activity_lists
		WHERE condominium_id = $1 AND id = $2 AND deleted_at IS NULL`, condominiumID, id)
	a, err := scanActivity(row)
	if err != nil {
		return nil, mapError(err, "get activity list")
	}
	return a, nil
}

func (r *ActivityRepo) List(ctx context.Context, condominiumID uuid.UUID, page domain.Page) ([]*domain.ActivityList, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+activityColumns+` FROM activity_lists
		WHERE condominium_id = $1 AND deleted_at IS NULL
		ORDER BY title
		LIMIT $2 OFFSET $3`, condominiumID, page.Limit, page.Offset)
	if err != nil {
		return nil, mapError(err, "list activity lists")
	}
	return collectActivities(rows, "list activity lists")
}

func (r *ActivityRepo) Update(ctx context.Context, a *domain.ActivityList) error {
	if a.Items == nil {
		a.Items = []string{}
	}
	err := r.pool.QueryRow(ctx, `
		UPDATE activity_lists
		SET team_id = $3, title = $4, description = $5, schedule = $6, items = $7, active = $8,
			next_run_at = $9, updated_at = now()
		WHERE condominium_id = $1 AND id = $2 AND deleted_at IS NULL
		RETURNING updated_at`,
		a.CondominiumID, a.ID, a.TeamID, a.Title, a.Description, a.Schedule, a.Items, a.Active, a.NextRunAt,
	).Scan(&a.UpdatedAt)
	if err != nil {
		return mapError(err, "update activity list")
	}
	return nil
}

func (r *ActivityRepo) Delete(ctx context.Context, condominiumID, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE activity_lists SET deleted_at = now(), active = false
		WHERE condominium_id = $1 AND id = $2 AND deleted_at IS NULL`, condominiumID, id)
	if err != nil {
		return mapError(err, "delete activity list")
	}
	return expectOne(tag)
}

// ListDue spans every condominium; it is only used by the scheduler.
func (r *ActivityRepo) ListDue(ctx context.Context, now time.Time, limit int) ([]*domain.ActivityList, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+activityColumns+` FROM activity_lists
		WHERE active AND deleted_at IS NULL AND next_run_at IS NOT NULL AND next_run_at <= $1
		ORDER BY next_run_at
		LIMIT $2`, now, limit)
	if err != nil {
		return nil, mapError(err, "list due activity lists")
	}
	return collectActivities(rows, "list due activity lists")
}

func (r *ActivityRepo) MarkRun(ctx context.Context, id uuid.UUID, ranAt time.Time, next *time.Time) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE activity_lists SET last_run_at = $2, next_run_at = $3
		WHERE id = $1 AND deleted_at IS NULL`, id, ranAt, next)
	if err != nil {
		return mapError(err, "mark activity list run")
	}
	return expectOne(tag)
}
