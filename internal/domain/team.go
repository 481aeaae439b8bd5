package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type Team struct {
	ID            uuid.UUID   `json:"id"`
	CondominiumID uuid.UUID   `json:"condominium_id"`
	Name          string      `json:"name"`
	Description   string      `json:"description"`
	MemberIDs     []uuid.UUID `json:"member_ids"`
	CreatedAt     time.Time   `json:"created_at"`
	UpdatedAt     time.Time   `json:"updated_at"`
}

type ProcessStatus string

const (
	ProcessDraft    ProcessStatus = "draft"
	ProcessActive   ProcessStatus = "active"
	ProcessArchived ProcessStatus = "archived"
)

func (s ProcessStatus) Valid() bool {
	switch s {
	case ProcessDraft, ProcessActive, ProcessArchived:
		return true
	}
	return false
}

// Process is a documented operating procedure, optionally owned by a team.
type Process struct {
	ID            uuid.UUID     `json:"id"`
	CondominiumID uuid.UUID     `json:"condominium_id"`
	TeamID        *uuid.UUID    `json:"team_id,omitempty"`
	Name          string        `json:"name"`
	Description   string        `json:"description"`
	Steps         []string      `json:"steps"`
	Status        ProcessStatus `json:"status"`
	CreatedAt     time.Time     `json:"created_at"`
	UpdatedAt     time.Time     `json:"updated_at"`
}

type TeamRepository interface {
	Create(ctx context.Context, t *Team) error
	GetByID(ctx context.Context, condominiumID, id uuid.UUID) (*Team, error)
	List(ctx context.Context, condominiumID uuid.UUID, page Page) ([]*Team, error)
	Update(ctx context.Context, t *Team) error
	Delete(ctx context.Context, condominiumID, id uuid.UUID) error
}

type ProcessRepository interface {
	Create(ctx context.Context, p *Process) error
	GetByID(ctx context.Context, condominiumID, id uuid.UUID) (*Process, error)
	List(ctx context.Context, condominiumID uuid.UUID, teamID *uuid.UUID, page Page) ([]*Process, error)
	Update(ctx context.Context, p *Process) error
	Delete(ctx context.Context, condominiumID, id uuid.UUID) error
}
