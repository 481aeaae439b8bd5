package postgres

import (
	"context"

	"github.com/fmsilvestri/condobase/internal/domain"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// employeeColumns must match the Scan order in scanEmployee.
const employeeColumns = `id, condominium_id, user_id, name, cpf, position, salary, dependents,
	hired_at, terminated_at, created_at, updated_at`

type EmployeeRepo struct {
	pool *pgxpool.Pool
}

func NewEmployeeRepo(pool *pgxpool.Pool) *EmployeeRepo {
	return &EmployeeRepo{pool: pool}
}

func scanEmployee(row rowScanner) (*domain.Employee, error) {
	var e domain.Employee
	err := row.Scan(&e.ID, &e.CondominiumID, &e.UserID, &e.Name, &e.CPF, &e.Position, &e.Salary, &e.Dependents,
		&e.HiredAt, &e.TerminatedAt, &e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &e, nil
}

func (r *EmployeeRepo) Create(ctx context.Context, e *domain.Employee) error {
	err := r.pool.QueryRow(ctx, `
		INSERT INTO employees (condominium_id, user_id, name, cpf, position, salary, dependents, hired_at, terminated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, created_at, updated_at`,
		e.CondominiumID, e.UserID, e.Name, e.CPF, e.Position, e.Salary, e.Dependents, e.HiredAt, e.TerminatedAt,
	).Scan(&e.ID, &e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		return mapError(err, "create employee")
	}
	return nil
}

func (r *EmployeeRepo) GetByID(ctx context.Context, condominiumID, id uuid.UUID) (*domain.Employee, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+employeeColumns+` FROM employees
		WHERE condominium_id = $1 AND id = $2 AND deleted_at IS NULL`, condominiumID, id)
	e, err := scanEmployee(row)
	if err != nil {
		return nil, mapError(err, "get employee")
	}
	return e, nil
}

func (r *EmployeeRepo) List(ctx context.Context, condominiumID uuid.UUID, page domain.Page) ([]*domain.Employee, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+employeeColumns+` FROM employees
		WHERE condominium_id = $1 AND deleted_at IS NULL
		ORDER BY terminated_at IS NOT NULL, name
		LIMIT $2 OFFSET $3`, condominiumID, page.Limit, page.Offset)
	if err != nil {
		return nil, mapError(err, "list employees")
	}
	out, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (*domain.Employee, error) {
		return scanEmployee(row)
	})
	if err != nil {
		return nil, mapError(err, "list employees")
	}
	return out, nil
}

func (r *EmployeeRepo) Update(ctx context.Context, e *domain.Employee) error {
	err := r.pool.QueryRow(ctx, `
		UPDATE employees
		SET user_id = $3, name = $4, cpf = $5, position = $6, salary = $7, dependents = $8,
			hired_at = $9, terminated_at = $10, updated_at = now()
		WHERE condominium_id = $1 AND id = $2 AND deleted_at IS NULL
		RETURNING updated_at`,
		e.CondominiumID, e.ID, e.UserID, e.Name, e.CPF, e.Position, e.Salary, e.Dependents,
		e.HiredAt, e.TerminatedAt,
	).Scan(&e.UpdatedAt)
	if err != nil {
		return mapError(err, "update employee")
	}
	return nil
}

func (r *EmployeeRepo) Delete(ctx context.Context, condominiumID, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE employees SET deleted_at = now()
		WHERE condominium_id = $1 AND id = $2 AND deleted_at IS NULL`, condominiumID, id)
	if err != nil {
		return mapError(err, "delete employee")
	}
	return expectOne(tag)
}
