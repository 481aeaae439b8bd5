package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/fmsilvestri/condobase/internal/domain"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// readingColumns must match the Scan order in scanReading.
const readingColumns = `id, condominium_id, kind, meter, value, read_at, recorded_by, created_at`

type ReadingRepo struct {
	pool *pgxpool.Pool
}

func NewReadingRepo(pool *pgxpool.Pool) *ReadingRepo {
	return &ReadingRepo{pool: pool}
}

func scanReading(row rowScanner) (*domain.Reading, error) {
	var r domain.Reading
	err := row.Scan(&r.ID, &r.CondominiumID, &r.Kind, &r.Meter, &r.Value, &r.ReadAt, &r.RecordedBy, &r.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &r, nil
}

func (r *ReadingRepo) Create(ctx context.Context, rd *domain.Reading) error {
	err := r.pool.QueryRow(ctx, `
		INSERT INTO readings (condominium_id, kind, meter, value, read_at, recorded_by)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at`,
		rd.CondominiumID, rd.Kind, rd.Meter, rd.Value, rd.ReadAt, rd.RecordedBy,
	).Scan(&rd.ID, &rd.CreatedAt)
	if err != nil {
		return mapError(err, "create reading")
	}
	return nil
}

// List returns readings in ReadAt order, oldest first.
func (r *ReadingRepo) List(ctx context.Context, condominiumID uuid.UUID, filter domain.ReadingFilter, page domain.Page) ([]*domain.Reading, error) {
	where := []string{"condominium_id = $1"}
	args := []any{condominiumID}

	if filter.Kind != "" {
		args = append(args, filter.Kind)
		where = append(where, fmt.Sprintf("kind = $%d", len(args)))
	}
	if filter.Meter != "" {
		args = append(args, filter.Meter)
		where = append(where, fmt.Sprintf("meter = $%d", len(args)))
	}
	if filter.From != nil {
		args = append(args, *filter.From)
		where = append(where, fmt.Sprintf("read_at >= $%d", len(args)))
	}
	if filter.To != nil {
		args = append(args, *filter.To)
		where = append(where, fmt.Sprintf("read_at <= $%d", len(args)))
	}
	args = append(args, page.Limit, page.Offset)

	query := fmt.Sprintf(`SELECT %s FROM readings WHERE %s ORDER BY read_at, meter LIMIT $%d OFFSET $%d`,
		readingColumns, strings.Join(where, " AND "), len(args)-1, len(args))

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, mapError(err, "list readings")
	}
	out, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (*domain.Reading, error) {
		return scanReading(row)
	})
	if err != nil {
		return nil, mapError(err, "list readings")
	}
	return out, nil
}

func (r *ReadingRepo) Delete(ctx context.Context, condominiumID, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM readings WHERE condominium_id = $1 AND id = $2`, condominiumID, id)
	if err != nil {
		return mapError(err, "delete reading")
	}
	return expectOne(tag)
}
