package postgres

import (
	"context"

	"github.com/fmsilvestri/condobase/internal/domain"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// userColumns must match the Scan order in scanUser.
const userColumns = `id, condominium_id, name, email, password_hash, role, active, created_at, updated_at`

type UserRepo struct {
	pool *pgxpool.Pool
}

func NewUserRepo(pool *pgxpool.Pool) *UserRepo {
	return &UserRepo{pool: pool}
}

func scanUser(row rowScanner) (*domain.User, error) {
	var u domain.User
	err := row.Scan(&u.ID, &u.CondominiumID, &u.Name, &u.Email, &u.PasswordHash, &u.Role, &u.Active, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *UserRepo) Create(ctx context.Context, u *domain.User) error {
	err := r.pool.QueryRow(ctx, `
		INSERT INTO users (condominium_id, name, email, password_hash, role, active)
		VALUES ($1, $2, lower($3), $4, $5, $6)
		RETURNING id, email, created_at, updated_at`,
		u.CondominiumID, u.Name, u.Email, u.PasswordHash, u.Role, u.Active,
	).Scan(&u.ID, &u.Email, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return mapError(err, "create user")
	}
	return nil
}

func (r *UserRepo) GetByID(ctx context.Context, condominiumID, id uuid.UUID) (*domain.User, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+userColumns+` FROM users
		WHERE condominium_id = $1 AND id = $2 AND deleted_at IS NULL`, condominiumID, id)
	u, err := scanUser(row)
	if err != nil {
		return nil, mapError(err, "get user")
	}
	return u, nil
}

func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+userColumns+` FROM users
		WHERE lower(email) = lower($1) AND deleted_at IS NULL`, email)
	u, err := scanUser(row)
	if err != nil {
		return nil, mapError(err, "get user by email")
	}
	return u, nil
}

func (r *UserRepo) List(ctx context.Context, condominiumID uuid.UUID, page domain.Page) ([]*domain.User, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+userColumns+` FROM users
		WHERE condominium_id = $1 AND deleted_at IS NULL
		ORDER BY name
		LIMIT $2 OFFSET $3`, condominiumID, page.Limit, page.Offset)
	if err != nil {
		return nil, mapError(err, "list users")
	}
	out, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (*domain.User, error) {
		return scanUser(row)
	})
	if err != nil {
		return nil, mapError(err, "list users")
	}
	return out, nil
}

// ListIDs returns the ids of active users, optionally restricted to roles.
func (r *UserRepo) ListIDs(ctx context.Context, condominiumID uuid.UUID, roles ...domain.Role) ([]uuid.UUID, error) {
	roleNames := make([]string, len(roles))
	for i, role := range roles {
		roleNames[i] = string(role)
	}

	rows, err := r.pool.Query(ctx, `
		SELECT id FROM users
		WHERE condominium_id = $1 AND active AND deleted_at IS NULL
		  AND (cardinality($2::text[]) = 0 OR role = ANY($2))`, condominiumID, roleNames)
	if err != nil {
		return nil, mapError(err, "list user ids")
	}
	ids, err := pgx.CollectRows(rows, pgx.RowTo[uuid.UUID])
	if err != nil {
		return nil, mapError(err, "list user ids")
	}
	return ids, nil
}

func (r *UserRepo) Update(ctx context.Context, u *domain.User) error {
	err := r.pool.QueryRow(ctx, `
		UPDATE users
		SET name = $3, email = lower($4), password_hash = $5, role = $6, active = $7, updated_at = now()
		WHERE condominium_id = $1 AND id = $2 AND deleted_at IS NULL
		RETURNING email, updated_at`,
		u.CondominiumID, u.ID, u.Name, u.Email, u.PasswordHash, u.Role, u.Active,
	).Scan(&u.Email, &u.UpdatedAt)
	if err != nil {
		return mapError(err, "update user")
	}
	return nil
}

func (r *UserRepo) Delete(ctx context.Context, condominiumID, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE users SET deleted_at = now(), active = false
		WHERE condominium_id = $1 AND id = $2 AND deleted_at IS NULL`, condominiumID, id)
	if err != nil {
		return mapError(err, "delete user")
	}
	return expectOne(tag)
}
