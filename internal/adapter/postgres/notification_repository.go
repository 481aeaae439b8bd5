package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/fmsilvestri/condobase/internal/domain"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// notificationColumns must match the Scan order in scanNotification.
const notificationColumns = `id, condominium_id, user_id, kind, title, body, reference_id, read_at, created_at`

type NotificationRepo struct {
	pool *pgxpool.Pool
}

func NewNotificationRepo(pool *pgxpool.Pool) *NotificationRepo {
	return &NotificationRepo{pool: pool}
}

func scanNotification(row rowScanner) (*domain.Notification, error) {
	var n domain.Notification
	err := row.Scan(&n.ID, &n.CondominiumID, &n.UserID, &n.Kind, &n.Title, &n.Body, &n.ReferenceID, &n.ReadAt, &n.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &n, nil
}

// CreateMany inserts one row per recipient in a single batch. IDs and
// CreatedAt are filled in on success.
func (r *NotificationRepo) CreateMany(ctx context.Context, ns []*domain.Notification) error {
	if len(ns) == 0 {
		return nil
	}

	batch := &pgx.Batch{}
	for _, n := range ns {
		batch.Queue(`
			INSERT INTO notifications (condominium_id, user_id, kind, title, body, reference_id)
			VALUES ($1, $2, $3, $4, $5, $6)
			RETURNING id, created_at`,
			n.CondominiumID, n.UserID, n.Kind, n.Title, n.Body, n.ReferenceID,
		).QueryRow(func(row pgx.Row) error {
			return row.Scan(&n.ID, &n.CreatedAt)
		})
	}

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return mapError(err, "create notifications")
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

func (r *NotificationRepo) List(ctx context.Context, condominiumID, userID uuid.UUID, unreadOnly bool, page domain.Page) ([]*domain.Notification, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+notificationColumns+` FROM notifications
		WHERE condominium_id = $1 AND user_id = $2 AND (NOT $3 OR read_at IS NULL)
		ORDER BY created_at DESC
		LIMIT $4 OFFSET $5`, condominiumID, userID, unreadOnly, page.Limit, page.Offset)
	if err != nil {
		return nil, mapError(err, "list notifications")
	}
	out, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (*domain.Notification, error) {
		return scanNotification(row)
	})
	if err != nil {
		return nil, mapError(err, "list notifications")
	}
	return out, nil
}

// MarkRead is idempotent: an already-read notification keeps its first ReadAt.
func (r *NotificationRepo) MarkRead(ctx context.Context, condominiumID, userID, id uuid.UUID, at time.Time) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE notifications SET read_at = COALESCE(read_at, $4)
		WHERE condominium_id = $1 AND user_id = $2 AND id = $3`, condominiumID, userID, id, at)
	if err != nil {
		return mapError(err, "mark notification read")
	}
	return expectOne(tag)
}
