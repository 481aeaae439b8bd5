package postgres

import (
	"context"

	"github.com/fmsilvestri/condobase/internal/domain"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// equipmentColumns must match the Scan order in scanEquipment.
const equipmentColumns = `id, condominium_id, name, category, location, status, installed_at,
	last_service_at, service_interval_days, notes, created_at, updated_at`

type EquipmentRepo struct {
	pool *pgxpool.Pool
}

func NewEquipmentRepo(pool *pgxpool.Pool) *EquipmentRepo {
	return &EquipmentRepo{pool: pool}
}

func scanEquipment(row rowScanner) (*domain.Equipment, error) {
	var e domain.Equipment
	err := row.Scan(&e.ID, &e.CondominiumID, &e.Name, &e.Category, &e.Location, &e.Status, &e.InstalledAt,
		&e.LastServiceAt, &e.ServiceIntervalDays, &e.Notes, &e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &e, nil
}

func (r *EquipmentRepo) Create(ctx context.Context, e *domain.Equipment) error {
	err := r.pool.QueryRow(ctx, `
		INSERT INTO equipment (condominium_id, name, category, location, status, installed_at,
			last_service_at, service_interval_days, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, created_at, updated_at`,
		e.CondominiumID, e.Name, e.Category, e.Location, e.Status, e.InstalledAt,
		e.LastServiceAt, e.ServiceIntervalDays, e.Notes,
	).Scan(&e.ID, &e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		return mapError(err, "create equipment")
	}
	return nil
}

func (r *EquipmentRepo) GetByID(ctx context.Context, condominiumID, id uuid.UUID) (*domain.Equipment, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+equipmentColumns+` FROM equipment
		WHERE condominium_id = $1 AND id = $2 AND deleted_at IS NULL`, condominiumID, id)
	e, err := scanEquipment(row)
	if err != nil {
		return nil, mapError(err, "get equipment")
	}
	return e, nil
}

func (r *EquipmentRepo) List(ctx context.Context, condominiumID uuid.UUID, page domain.Page) ([]*domain.Equipment, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+equipmentColumns+` FROM equipment
		WHERE condominium_id = $1 AND deleted_at IS NULL
		ORDER BY name
		LIMIT $2 OFFSET $3`, condominiumID, page.Limit, page.Offset)
	if err != nil {
		return nil, mapError(err, "list equipment")
	}
	out, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (*domain.Equipment, error) {
		return scanEquipment(row)
	})
	if err != nil {
		return nil, mapError(err, "list equipment")
	}
	return out, nil
}

func (r *EquipmentRepo) Update(ctx context.Context, e *domain.Equipment) error {
	err := r.pool.QueryRow(ctx, `
		UPDATE equipment
		SET name = $3, category = $4, location = $5, status = $6, installed_at = $7,
			last_service_at = $8, service_interval_days = $9, notes = $10, updated_at = now()
		WHERE condominium_id = $1 AND id = $2 AND deleted_at IS NULL
		RETURNING updated_at`,
		e.CondominiumID, e.ID, e.Name, e.Category, e.Location, e.Status, e.InstalledAt,
		e.LastServiceAt, e.ServiceIntervalDays, e.Notes,
	).Scan(&e.UpdatedAt)
	if err != nil {
		return mapError(err, "update equipment")
	}
	return nil
}

func (r *EquipmentRepo) Delete(ctx context.Context, condominiumID, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE equipment SET deleted_at = now()
		WHERE condominium_id = $1 AND id = $2 AND deleted_at IS NULL`, condominiumID, id)
	if err != nil {
		return mapError(err, "delete equipment")
	}
	return expectOne(tag)
}
