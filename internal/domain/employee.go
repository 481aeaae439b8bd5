package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type Employee struct {
	ID            uuid.UUID  `json:"id"`
	CondominiumID uuid.UUID  `json:"condominium_id"`
	UserID        *uuid.UUID `json:"user_id,omitempty"`
	Name          string     `json:"name"`
	CPF           string     `json:"cpf"`
	Position      string     `json:"position"`
	Salary        float64    `json:"salary"`
	Dependents    int        `json:"dependents"`
	HiredAt       time.Time  `json:"hired_at"`
	TerminatedAt  *time.Time `json:"terminated_at,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

func (e *Employee) Active() bool {
	return e.TerminatedAt == nil
}

type EmployeeRepository interface {
	Create(ctx context.Context, e *Employee) error
	GetByID(ctx context.Context, condominiumID, id uuid.UUID) (*Employee, error)
	List(ctx context.Context, condominiumID uuid.UUID, page Page) ([]*Employee, error)
	Update(ctx context.Context, e *Employee) error
	Delete(ctx context.Context, condominiumID, id uuid.UUID) error
}
