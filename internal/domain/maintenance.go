package domain

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
	PriorityUrgent Priority = "urgent"
)

func (p Priority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityUrgent:
		return true
	}
	return false
}

type MaintenanceStatus string

const (
	MaintenanceOpen       MaintenanceStatus = "open"
	MaintenanceInProgress MaintenanceStatus = "in_progress"
	MaintenanceResolved   MaintenanceStatus = "resolved"
	MaintenanceCancelled  MaintenanceStatus = "cancelled"
)

var maintenanceTransitions = map[MaintenanceStatus][]MaintenanceStatus{
	MaintenanceOpen:       {MaintenanceInProgress, MaintenanceCancelled},
	MaintenanceInProgress: {MaintenanceOpen, MaintenanceResolved, MaintenanceCancelled},
}

func (s MaintenanceStatus) Valid() bool {
	switch s {
	case MaintenanceOpen, MaintenanceInProgress, MaintenanceResolved, MaintenanceCancelled:
		return true
	}
	return false
}

func (s MaintenanceStatus) Terminal() bool {
	return s == MaintenanceResolved || s == MaintenanceCancelled
}

func (s MaintenanceStatus) CanTransitionTo(next MaintenanceStatus) bool {
	for _, allowed := range maintenanceTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

type MaintenanceRequest struct {
	ID            uuid.UUID         `json:"id"`
	CondominiumID uuid.UUID         `json:"condominium_id"`
	EquipmentID   *uuid.UUID        `json:"equipment_id,omitempty"`
	Title         string            `json:"title"`
	Description   string            `json:"description"`
	Priority      Priority          `json:"priority"`
	Status        MaintenanceStatus `json:"status"`
	RequestedBy   uuid.UUID         `json:"requested_by"`
	AssignedTo    *uuid.UUID        `json:"assigned_to,omitempty"`
	Cost          float64           `json:"cost"`
	ResolvedAt    *time.Time        `json:"resolved_at,omitempty"`
	CreatedAt     time.Time         `json:"created_at"`
	UpdatedAt     time.Time         `json:"updated_at"`
}

// Transition moves the request to next, stamping ResolvedAt when it resolves.
func (m *MaintenanceRequest) Transition(next MaintenanceStatus, now time.Time) error {
	if !m.Status.CanTransitionTo(next) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, m.Status, next)
	}
	m.Status = next
	if next == MaintenanceResolved {
		resolved := now
		m.ResolvedAt = &resolved
	}
	return nil
}

type MaintenanceFilter struct {
	Status      MaintenanceStatus
	EquipmentID *uuid.UUID
	RequestedBy *uuid.UUID
}

type MaintenanceRepository interface {
	Create(ctx context.Context, m *MaintenanceRequest) error
	GetByID(ctx context.Context, condominiumID, id uuid.UUID) (*MaintenanceRequest, error)
	List(ctx context.Context, condominiumID uuid.UUID, filter MaintenanceFilter, page Page) ([]*MaintenanceRequest, error)
	Update(ctx context.Context, m *MaintenanceRequest) error
}
