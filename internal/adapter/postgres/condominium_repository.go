package postgres

import (
	"context"

	"github.com/fmsilvestri/condobase/internal/domain"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// rowScanner is satisfied by pgx.Row and pgx.CollectableRow.
type rowScanner interface {
	Scan(dest ...any) error
}

// condominiumColumns must match the Scan order in scanCondominium.
const condominiumColumns = `id, name, document, address, city, state, units, created_at, updated_at`

type CondominiumRepo struct {
	pool *pgxpool.Pool
}

func NewCondominiumRepo(pool *pgxpool.Pool) *CondominiumRepo {
	return &CondominiumRepo{pool: pool}
}

func scanCondominium(row rowScanner) (*domain.Condominium, error) {
	var c domain.Condominium
	err := row.Scan(&c.ID, &c.Name, &c.Document, &c.Address, &c.City, &c.State, &c.Units, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *CondominiumRepo) Create(ctx context.Context, c *domain.Condominium) error {
	err := r.pool.QueryRow(ctx, `
		INSERT INTO condominiums (name, document, address, city, state, units)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at, updated_at`,
		c.Name, c.Document, c.Address, c.City, c.State, c.Units,
	).Scan(&c.ID, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return mapError(err, "create condominium")
	}
	return nil
}

func (r *CondominiumRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Condominium, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+condominiumColumns+` FROM condominiums WHERE id = $1`, id)
	c, err := scanCondominium(row)
	if err != nil {
		return nil, mapError(err, "get condominium")
	}
	return c, nil
}

// GetByName returns the oldest condominium with exactly this name. Names are
// not unique; callers that need one use it to stay idempotent.
func (r *CondominiumRepo) GetByName(ctx context.Context, name string) (*domain.Condominium, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+condominiumColumns+` FROM condominiums
		WHERE name = $1
		ORDER BY created_at, id
		LIMIT 1`, name)
	c, err := scanCondominium(row)
	if err != nil {
		return nil, mapError(err, "get condominium by name")
	}
	return c, nil
}

func (r *CondominiumRepo) List(ctx context.Context, page domain.Page) ([]*domain.Condominium, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+condominiumColumns+` FROM condominiums
		ORDER BY name
		LIMIT $1 OFFSET $2`, page.Limit, page.Offset)
	if err != nil {
		return nil, mapError(err, "list condominiums")
	}
	out, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (*domain.Condominium, error) {
		return scanCondominium(row)
	})
	if err != nil {
		return nil, mapError(err, "list condominiums")
	}
	return out, nil
}

func (r *CondominiumRepo) Update(ctx context.Context, c *domain.Condominium) error {
	err := r.pool.QueryRow(ctx, `
		UPDATE condominiums
		SET name = $2, document = $3, address = $4, city = $5, state = $6, units = $7, updated_at = now()
		WHERE id = $1
		RETURNING updated_at`,
		c.ID, c.Name, c.Document, c.Address, c.City, c.State, c.Units,
	).Scan(&c.UpdatedAt)
	if err != nil {
		return mapError(err, "update condominium")
	}
	return nil
}
