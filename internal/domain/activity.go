package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// ActivityList is a recurring checklist (cleaning rounds, pool checks, ...)
// whose Schedule is a standard five-field cron expression.
type ActivityList struct {
	ID            uuid.UUID  `json:"id"`
	CondominiumID uuid.UUID  `json:"condominium_id"`
	TeamID        *uuid.UUID `json:"team_id,omitempty"`
	Title         string     `json:"title"`
	Description   string     `json:"description"`
	Schedule      string     `json:"schedule"`
	Items         []string   `json:"items"`
	Active        bool       `json:"active"`
	LastRunAt     *time.Time `json:"last_run_at,omitempty"`
	NextRunAt     *time.Time `json:"next_run_at,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

type ActivityRepository interface {
	Create(ctx context.Context, a *ActivityList) error
	GetByID(ctx context.Context, condominiumID, id uuid.UUID) (*ActivityList, error)
	List(ctx context.Context, condominiumID uuid.UUID, page Page) ([]*ActivityList, error)
	Update(ctx context.Context, a *ActivityList) error
	Delete(ctx context.Context, condominiumID, id uuid.UUID) error

	// ListDue returns active lists of every tenant with NextRunAt <= now.
	ListDue(ctx context.Context, now time.Time, limit int) ([]*ActivityList, error)
	MarkRun(ctx context.Context, id uuid.UUID, ranAt time.Time, next *time.Time) error
}
