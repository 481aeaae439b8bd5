package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type EquipmentStatus string

const (
	EquipmentOperational EquipmentStatus = "operational"
	EquipmentMaintenance EquipmentStatus = "maintenance"
	EquipmentInactive    EquipmentStatus = "inactive"
)

func (s EquipmentStatus) Valid() bool {
	switch s {
	case EquipmentOperational, EquipmentMaintenance, EquipmentInactive:
		return true
	}
	return false
}

type Equipment struct {
	ID                  uuid.UUID       `json:"id"`
	CondominiumID       uuid.UUID       `json:"condominium_id"`
	Name                string          `json:"name"`
	Category            string          `json:"category"`
	Location            string          `json:"location"`
	Status              EquipmentStatus `json:"status"`
	InstalledAt         *time.Time      `json:"installed_at,omitempty"`
	LastServiceAt       *time.Time      `json:"last_service_at,omitempty"`
	ServiceIntervalDays int             `json:"service_interval_days"`
	Notes               string          `json:"notes"`
	CreatedAt           time.Time       `json:"created_at"`
	UpdatedAt           time.Time       `json:"updated_at"`
}

// NextServiceDue is the last service (or installation) plus the interval.
// It returns nil when no interval is configured or there is no reference date.
func (e *Equipment) NextServiceDue() *time.Time {
	if e.ServiceIntervalDays <= 0 {
		return nil
	}
	ref := e.LastServiceAt
	if ref == nil {
		ref = e.InstalledAt
	}
	if ref == nil {
		return nil
	}
	due := ref.AddDate(0, 0, e.ServiceIntervalDays)
	return &due
}

func (e *Equipment) ServiceOverdue(now time.Time) bool {
	due := e.NextServiceDue()
	return due != nil && now.After(*due) && e.Status != EquipmentInactive
}

type EquipmentRepository interface {
	Create(ctx context.Context, e *Equipment) error
	GetByID(ctx context.Context, condominiumID, id uuid.UUID) (*Equipment, error)
	List(ctx context.Context, condominiumID uuid.UUID, page Page) ([]*Equipment, error)
	Update(ctx context.Context, e *Equipment) error
	Delete(ctx context.Context, condominiumID, id uuid.UUID) error
}
