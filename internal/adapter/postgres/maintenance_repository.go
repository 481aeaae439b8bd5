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

// maintenanceColumns must match the Scan order in scanMaintenance.
const maintenanceColumns = `id, condominium_id, equipment_id, title, description, priority, status,
	requested_by, assigned_to, cost, resolved_at, created_at, updated_at`

type MaintenanceRepo struct {
	pool *pgxpool.Pool
}

func NewMaintenanceRepo(pool *pgxpool.Pool) *MaintenanceRepo {
	return &MaintenanceRepo{pool: pool}
}

func scanMaintenance(row rowScanner) (*domain.MaintenanceRequest, error) {
	var m domain.MaintenanceRequest
	err := row.Scan(&m.ID, &m.CondominiumID, &m.EquipmentID, &m.Title, &m.Description, &m.Priority, &m.Status,
		&m.RequestedBy, &m.AssignedTo, &m.Cost, &m.ResolvedAt, &m.CreatedAt, &m.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *MaintenanceRepo) Create(ctx context.Context, m *domain.MaintenanceRequest) error {
	err := r.pool.QueryRow(ctx, `
		INSERT INTO maintenance_requests (condominium_id, equipment_id, title, description, priority, status,
			requested_by, assigned_to, cost, resolved_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id, created_at, updated_at`,
		m.CondominiumID, m.EquipmentID, m.Title, m.Description, m.Priority, m.Status,
		m.RequestedBy, m.AssignedTo, m.Cost, m.ResolvedAt,
	).Scan(&m.ID, &m.CreatedAt, &m.UpdatedAt)
	if err != nil {
		return mapError(err, "create maintenance request")
	}
	return nil
}

func (r *MaintenanceRepo) GetByID(ctx context.Context, condominiumID, id uuid.UUID) (*domain.MaintenanceRequest, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+maintenanceColumns+` FROM maintenance_requests
		WHERE condominium_id = $1 AND id = $2`, condominiumID, id)
	m, err := scanMaintenance(row)
	if err != nil {
		return nil, mapError(err, "get maintenance request")
	}
	return m, nil
}

// List orders open work by priority before age so urgent requests surface first.
func (r *MaintenanceRepo) List(ctx context.Context, condominiumID uuid.UUID, filter domain.MaintenanceFilter, page domain.Page) ([]*domain.MaintenanceRequest, error) {
	where := []string{"condominium_id = $1"}
	args := []any{condominiumID}

	if filter.Status != "" {
		args = append(args, filter.Status)
		where = append(where, fmt.Sprintf("status = $%d", len(args)))
	}
	if filter.EquipmentID != nil {
		args = append(args, *filter.EquipmentID)
		where = append(where, fmt.Sprintf("equipment_id = $%d", len(args)))
	}
	if filter.RequestedBy != nil {
		args = append(args, *filter.RequestedBy)
		where = append(where, fmt.Sprintf("requested_by = $%d", len(args)))
	}
	args = append(args, page.Limit, page.Offset)

	query := fmt.Sprintf(`SELECT %s FROM maintenance_requests
		WHERE %s
		ORDER BY
			CASE priority WHEN 'urgent' THEN 0 WHEN 'high' THEN 1 WHEN 'medium' THEN 2 ELSE 3 END,
			created_at DESC
		LIMIT $%d OFFSET $%d`,
		maintenanceColumns, strings.Join(where, " AND "), len(args)-1, len(args))

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, mapError(err, "list maintenance requests")
	}
	out, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (*domain.MaintenanceRequest, error) {
		return scanMaintenance(row)
	})
	if err != nil {
		return nil, mapError(err, "list maintenance requests")
	}
	return out, nil
}

func (r *MaintenanceRepo) Update(ctx context.Context, m *domain.MaintenanceRequest) error {
	err := r.pool.QueryRow(ctx, `
		UPDATE maintenance_requests
		SET equipment_id = $3, title = $4, description = $5, priority = $6, status = $7,
			assigned_to = $8, cost = $9, resolved_at = $10, updated_at = now()
		WHERE condominium_id = $1 AND id = $2
		RETURNING updated_at`,
		m.CondominiumID, m.ID, m.EquipmentID, m.Title, m.Description, m.Priority, m.Status,
		m.AssignedTo, m.Cost, m.ResolvedAt,
	).Scan(&m.UpdatedAt)
	if err != nil {
		return mapError(err, "update maintenance request")
	}
	return nil
}
