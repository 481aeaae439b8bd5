package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Condominium is the tenant. Every other row is scoped by its ID.
type Condominium struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Document  string    `json:"document"`
	Address   string    `json:"address"`
	City      string    `json:"city"`
	State     string    `json:"state"`
	Units     int       `json:"units"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type CondominiumRepository interface {
	Create(ctx context.Context, c *Condominium) error
	GetByID(ctx context.Context, id uuid.UUID) (*Condominium, error)
	List(ctx context.Context, page Page) ([]*Condominium, error)
	Update(ctx context.Context, c *Condominium) error
}
