package postgres

import (
	"context"
	"fmt"

	"github.com/fmsilvestri/condobase/internal/domain"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PermissionRepo struct {
	pool *pgxpool.Pool
}

func NewPermissionRepo(pool *pgxpool.Pool) *PermissionRepo {
	return &PermissionRepo{pool: pool}
}

// Get returns the stored flags. Modules never configured are absent from the map.
func (r *PermissionRepo) Get(ctx context.Context, condominiumID uuid.UUID) (domain.ModulePermissions, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT module, enabled FROM module_permissions WHERE condominium_id = $1`, condominiumID)
	if err != nil {
		return nil, mapError(err, "get permissions")
	}
	defer rows.Close()

	perms := make(domain.ModulePermissions)
	for rows.Next() {
		var module string
		var enabled bool
		if err := rows.Scan(&module, &enabled); err != nil {
			return nil, fmt.Errorf("failed to scan permission: %w", err)
		}
		perms[domain.Module(module)] = enabled
	}
	if err := rows.Err(); err != nil {
		return nil, mapError(err, "get permissions")
	}
	return perms, nil
}

// Set upserts every flag in perms in one transaction.
func (r *PermissionRepo) Set(ctx context.Context, condominiumID uuid.UUID, perms domain.ModulePermissions) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	for module, enabled := range perms {
		_, err := tx.Exec(ctx, `
			INSERT INTO module_permissions (condominium_id, module, enabled)
			VALUES ($1, $2, $3)
			ON CONFLICT (condominium_id, module)
			DO UPDATE SET enabled = EXCLUDED.enabled, updated_at = now()`,
			condominiumID, string(module), enabled)
		if err != nil {
			return mapError(err, "set permission")
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}
