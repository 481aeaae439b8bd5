package postgres

import (
	"context"
	"time"

	"github.com/fmsilvestri/condobase/internal/domain"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// announcementColumns must match the Scan order in scanAnnouncement.
const announcementColumns = `id, condominium_id, author_id, title, body, pinned, expires_at, created_at, updated_at`

type AnnouncementRepo struct {
	pool *pgxpool.Pool
}

func NewAnnouncementRepo(pool *pgxpool.Pool) *AnnouncementRepo {
	return &AnnouncementRepo{pool: pool}
}

func scanAnnouncement(row rowScanner) (*domain.Announcement, error) {
	var a domain.Announcement
	err := row.Scan(&a.ID, &a.CondominiumID, &a.AuthorID, &a.Title, &a.Body, &a.Pinned, &a.ExpiresAt, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *AnnouncementRepo) Create(ctx context.Context, a *domain.Announcement) error {
	err := r.pool.QueryRow(ctx, `
		INSERT INTO announcements (condominium_id, author_id, title, body, pinned, expires_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at, updated_at`,
		a.CondominiumID, a.AuthorID, a.Title, a.Body, a.Pinned, a.ExpiresAt,
	).Scan(&a.ID, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return mapError(err, "create announcement")
	}
	return nil
}

func (r *AnnouncementRepo) GetByID(ctx context.Context, condominiumID, id uuid.UUID) (*domain.Announcement, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+announcementColumns+` FROM announcements
		WHERE condominium_id = $1 AND id = $2 AND deleted_at IS NULL`, condominiumID, id)
	a, err := scanAnnouncement(row)
	if err != nil {
		return nil, mapError(err, "get announcement")
	}
	return a, nil
}

func (r *AnnouncementRepo) List(ctx context.Context, condominiumID uuid.UUID, now time.Time, includeExpired bool, page domain.Page) ([]*domain.Announcement, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+announcementColumns+` FROM announcements
		WHERE condominium_id = $1 AND deleted_at IS NULL
		  AND ($3 OR expires_at IS NULL OR expires_at > $2)
		ORDER BY pinned DESC, created_at DESC
		LIMIT $4 OFFSET $5`, condominiumID, now, includeExpired, page.Limit, page.Offset)
	if err != nil {
		return nil, mapError(err, "list announcements")
	}
	out, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (*domain.Announcement, error) {
		return scanAnnouncement(row)
	})
	if err != nil {
		return nil, mapError(err, "list announcements")
	}
	return out, nil
}

func (r *AnnouncementRepo) Update(ctx context.Context, a *domain.Announcement) error {
	err := r.pool.QueryRow(ctx, `
		UPDATE announcements
		SET title = $3, body = $4, pinned = $5, expires_at = $6, updated_at = now()
		WHERE condominium_id = $1 AND id = $2 AND deleted_at IS NULL
		RETURNING updated_at`,
		a.CondominiumID, a.ID, a.Title, a.Body, a.Pinned, a.ExpiresAt,
	).Scan(&a.UpdatedAt)
	if err != nil {
		return mapError(err, "update announcement")
	}
	return nil
}

func (r *AnnouncementRepo) Delete(ctx context.Context, condominiumID, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE announcements SET deleted_at = now()
		WHERE condominium_id = $1 AND id = $2 AND deleted_at IS NULL`, condominiumID, id)
	if err != nil {
		return mapError(err, "delete announcement")
	}
	return expectOne(tag)
}
