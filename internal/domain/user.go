package domain

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

type Role string

const (
	RoleAdmin    Role = "admin"
	RoleSindico  Role = "sindico"
	RoleStaff    Role = "staff"
	RoleResident Role = "resident"
)

func ParseRole(s string) (Role, error) {
	switch r := Role(s); r {
	case RoleAdmin, RoleSindico, RoleStaff, RoleResident:
		return r, nil
	default:
		return "", fmt.Errorf("unknown role %q", s)
	}
}

// CanManage reports whether the role has elevated write permissions.
func (r Role) CanManage() bool {
	return r == RoleAdmin || r == RoleSindico
}

func (r Role) IsStaff() bool {
	return r == RoleStaff
}

type User struct {
	ID            uuid.UUID `json:"id"`
	CondominiumID uuid.UUID `json:"condominium_id"`
	Name          string    `json:"name"`
	Email         string    `json:"email"`
	PasswordHash  string    `json:"-"`
	Role          Role      `json:"role"`
	Active        bool      `json:"active"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

type UserRepository interface {
	Create(ctx context.Context, u *User) error
	GetByID(ctx context.Context, condominiumID, id uuid.UUID) (*User, error)
	// GetByEmail is not tenant scoped: login happens before the tenant is known.
	GetByEmail(ctx context.Context, email string) (*User, error)
	List(ctx context.Context, condominiumID uuid.UUID, page Page) ([]*User, error)
	ListIDs(ctx context.Context, condominiumID uuid.UUID, roles ...Role) ([]uuid.UUID, error)
	Update(ctx context.Context, u *User) error
	Delete(ctx context.Context, condominiumID, id uuid.UUID) error
}
