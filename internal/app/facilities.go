package app

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"time"

	"github.com/fmsilvestri/condobase/internal/domain"
	"github.com/google/uuid"
)

// consumptionWindow bounds the readings loaded for a consumption summary.
const consumptionWindow = 5000

// --- Equipment ---

type EquipmentInput struct {
	Name                string
	Category            string
	Location            string
	Status              domain.EquipmentStatus
	InstalledAt         *time.Time
	LastServiceAt       *time.Time
	ServiceIntervalDays int
	Notes               string
}

func (in EquipmentInput) apply(e *domain.Equipment) error {
	if in.Status == "" {
		in.Status = domain.EquipmentOperational
	}
	if !in.Status.Valid() {
		return invalid("unknown equipment status %q", in.Status)
	}
	if in.ServiceIntervalDays < 0 {
		return invalid("service interval cannot be negative")
	}
	e.Name = strings.TrimSpace(in.Name)
	e.Category = in.Category
	e.Location = in.Location
	e.Status = in.Status
	e.InstalledAt = in.InstalledAt
	e.LastServiceAt = in.LastServiceAt
	e.ServiceIntervalDays = in.ServiceIntervalDays
	e.Notes = in.Notes
	return nil
}

// EquipmentView adds the computed service schedule to an equipment row.
type EquipmentView struct {
	*domain.Equipment
	NextServiceDue *time.Time `json:"next_service_due,omitempty"`
	ServiceOverdue bool       `json:"service_overdue"`
}

func (s *Service) equipmentView(e *domain.Equipment) EquipmentView {
	return EquipmentView{
		Equipment:      e,
		NextServiceDue: e.NextServiceDue(),
		ServiceOverdue: e.ServiceOverdue(s.now()),
	}
}

func (s *Service) ListEquipment(ctx context.Context, actor Actor, page domain.Page) ([]EquipmentView, error) {
	items, err := s.repos.Equipment.List(ctx, actor.CondominiumID, page)
	if err != nil {
		return nil, err
	}
	out := make([]EquipmentView, 0, len(items))
	for _, e := range items {
		out = append(out, s.equipmentView(e))
	}
	return out, nil
}

func (s *Service) GetEquipment(ctx context.Context, actor Actor, id uuid.UUID) (EquipmentView, error) {
	e, err := s.repos.Equipment.GetByID(ctx, actor.CondominiumID, id)
	if err != nil {
		return EquipmentView{}, err
	}
	return s.equipmentView(e), nil
}

func (s *Service) CreateEquipment(ctx context.Context, actor Actor, in EquipmentInput) (EquipmentView, error) {
	e := &domain.Equipment{CondominiumID: actor.CondominiumID}
	if err := in.apply(e); err != nil {
		return EquipmentView{}, err
	}
	if err := s.repos.Equipment.Create(ctx, e); err != nil {
		return EquipmentView{}, err
	}
	return s.equipmentView(e), nil
}

func (s *Service) UpdateEquipment(ctx context.Context, actor Actor, id uuid.UUID, in EquipmentInput) (EquipmentView, error) {
	e, err := s.repos.Equipment.GetByID(ctx, actor.CondominiumID, id)
	if err != nil {
		return EquipmentView{}, err
	}
	if err := in.apply(e); err != nil {
		return EquipmentView{}, err
	}
	if err := s.repos.Equipment.Update(ctx, e); err != nil {
		return EquipmentView{}, err
	}
	return s.equipmentView(e), nil
}

func (s *Service) DeleteEquipment(ctx context.Context, actor Actor, id uuid.UUID) error {
	return s.repos.Equipment.Delete(ctx, actor.CondominiumID, id)
}

// --- Maintenance ---

type MaintenanceInput struct {
	EquipmentID *uuid.UUID
	Title       string
	Description string
	Priority    domain.Priority
}

// MaintenanceUpdate is a partial update by a manager; nil fields are left unchanged.
type MaintenanceUpdate struct {
	Title       *string
	Description *string
	Priority    *domain.Priority
	AssignedTo  *uuid.UUID
	Cost        *float64
}

// CreateMaintenance opens a request on behalf of the actor and notifies the
// building managers.
func (s *Service) CreateMaintenance(ctx context.Context, actor Actor, in MaintenanceInput) (*domain.MaintenanceRequest, error) {
	if in.Priority == "" {
		in.Priority = domain.PriorityMedium
	}
	if !in.Priority.Valid() {
		return nil, invalid("unknown priority %q", in.Priority)
	}
	if in.EquipmentID != nil {
		if _, err := s.repos.Equipment.GetByID(ctx, actor.CondominiumID, *in.EquipmentID); err != nil {
			return nil, fmt.Errorf("equipment: %w", err)
		}
	}

	m := &domain.MaintenanceRequest{
		CondominiumID: actor.CondominiumID,
		EquipmentID:   in.EquipmentID,
		Title:         strings.TrimSpace(in.Title),
		Description:   in.Description,
		Priority:      in.Priority,
		Status:        domain.MaintenanceOpen,
		RequestedBy:   actor.UserID,
	}
	if err := s.repos.Maintenance.Create(ctx, m); err != nil {
		return nil, err
	}

	managers, err := s.repos.Users.ListIDs(ctx, actor.CondominiumID, domain.RoleSindico)
	if err != nil {
		slog.WarnContext(ctx, "Failed to list managers for maintenance notification", "maintenance_id", m.ID, "error", err)
		return m, nil
	}
	s.notifyBestEffort(ctx, actor.CondominiumID, without(managers, actor.UserID), domain.NotificationMaintenance,
		"Novo chamado de manutenção", fmt.Sprintf("%s (prioridade %s)", m.Title, m.Priority), &m.ID)
	return m, nil
}

// ListMaintenance lists requests; residents only see their own.
func (s *Service) ListMaintenance(ctx context.Context, actor Actor, filter domain.MaintenanceFilter, page domain.Page) ([]*domain.MaintenanceRequest, error) {
	if filter.Status != "" && !filter.Status.Valid() {
		return nil, invalid("unknown status %q", filter.Status)
	}
	if actor.Role == domain.RoleResident {
		filter.RequestedBy = &actor.UserID
	}
	return s.repos.Maintenance.List(ctx, actor.CondominiumID, filter, page)
}

func (s *Service) GetMaintenance(ctx context.Context, actor Actor, id uuid.UUID) (*domain.MaintenanceRequest, error) {
	m, err := s.repos.Maintenance.GetByID(ctx, actor.CondominiumID, id)
	if err != nil {
		return nil, err
	}
	if actor.Role == domain.RoleResident && m.RequestedBy != actor.UserID {
		return nil, domain.ErrNotFound
	}
	return m, nil
}

func (s *Service) UpdateMaintenance(ctx context.Context, actor Actor, id uuid.UUID, in MaintenanceUpdate) (*domain.MaintenanceRequest, error) {
	m, err := s.repos.Maintenance.GetByID(ctx, actor.CondominiumID, id)
	if err != nil {
		return nil, err
	}
	if m.Status.Terminal() {
		return nil, fmt.Errorf("%w: request is %s", domain.ErrInvalidTransition, m.Status)
	}

	if in.Title != nil {
		m.Title = strings.TrimSpace(*in.Title)
	}
	if in.Description != nil {
		m.Description = *in.Description
	}
	if in.Priority != nil {
		if !in.Priority.Valid() {
			return nil, invalid("unknown priority %q", *in.Priority)
		}
		m.Priority = *in.Priority
	}
	if in.AssignedTo != nil {
		if _, err := s.repos.Users.GetByID(ctx, actor.CondominiumID, *in.AssignedTo); err != nil {
			return nil, fmt.Errorf("assignee: %w", err)
		}
		m.AssignedTo = in.AssignedTo
	}
	if in.Cost != nil {
		if *in.Cost < 0 {
			return nil, invalid("cost cannot be negative")
		}
		m.Cost = *in.Cost
	}

	if err := s.repos.Maintenance.Update(ctx, m); err != nil {
		return nil, err
	}
	return m, nil
}

// TransitionMaintenance moves a request through its lifecycle and tells the
// requester about it.
func (s *Service) TransitionMaintenance(ctx context.Context, actor Actor, id uuid.UUID, next domain.MaintenanceStatus) (*domain.MaintenanceRequest, error) {
	if !next.Valid() {
		return nil, invalid("unknown status %q", next)
	}
	m, err := s.repos.Maintenance.GetByID(ctx, actor.CondominiumID, id)
	if err != nil {
		return nil, err
	}
	if err := m.Transition(next, s.now()); err != nil {
		return nil, err
	}
	if err := s.repos.Maintenance.Update(ctx, m); err != nil {
		return nil, err
	}

	slog.InfoContext(ctx, "Maintenance request transitioned", "maintenance_id", m.ID, "status", m.Status)
	if m.RequestedBy != actor.UserID {
		s.notifyBestEffort(ctx, actor.CondominiumID, []uuid.UUID{m.RequestedBy}, domain.NotificationMaintenance,
			"Chamado atualizado", fmt.Sprintf("%s: %s", m.Title, statusLabel(m.Status)), &m.ID)
	}
	return m, nil
}

func statusLabel(s domain.MaintenanceStatus) string {
	switch s {
	case domain.MaintenanceOpen:
		return "reaberto"
	case domain.MaintenanceInProgress:
		return "em andamento"
	case domain.MaintenanceResolved:
		return "resolvido"
	case domain.MaintenanceCancelled:
		return "cancelado"
	}
	return string(s)
}

// --- Readings ---

type ReadingInput struct {
	Kind   domain.ReadingKind
	Meter  string
	Value  float64
	ReadAt *time.Time
}

// ConsumptionSummary is the usage per consecutive pair of readings and its total.
type ConsumptionSummary struct {
	Kind   domain.ReadingKind        `json:"kind"`
	Unit   string                    `json:"unit"`
	Points []domain.ConsumptionPoint `json:"points"`
	Total  float64                   `json:"total"`
}

func (s *Service) CreateReading(ctx context.Context, actor Actor, in ReadingInput) (*domain.Reading, error) {
	if !in.Kind.Valid() {
		return nil, invalid("unknown reading kind %q", in.Kind)
	}
	if in.Value < 0 {
		return nil, invalid("reading value cannot be negative")
	}
	readAt := s.now()
	if in.ReadAt != nil {
		if in.ReadAt.After(readAt) {
			return nil, invalid("reading date is in the future")
		}
		readAt = in.ReadAt.UTC()
	}

	r := &domain.Reading{
		CondominiumID: actor.CondominiumID,
		Kind:          in.Kind,
		Meter:         strings.TrimSpace(in.Meter),
		Value:         in.Value,
		ReadAt:        readAt,
		RecordedBy:    actor.UserID,
	}
	if err := s.repos.Readings.Create(ctx, r); err != nil {
		return nil, err
	}
	return r, nil
}

func (s *Service) ListReadings(ctx context.Context, actor Actor, filter domain.ReadingFilter, page domain.Page) ([]*domain.Reading, error) {
	if filter.Kind != "" && !filter.Kind.Valid() {
		return nil, invalid("unknown reading kind %q", filter.Kind)
	}
	return s.repos.Readings.List(ctx, actor.CondominiumID, filter, page)
}

func (s *Service) DeleteReading(ctx context.Context, actor Actor, id uuid.UUID) error {
	return s.repos.Readings.Delete(ctx, actor.CondominiumID, id)
}

// Consumption summarises usage of one kind over the filter window.
func (s *Service) Consumption(ctx context.Context, actor Actor, filter domain.ReadingFilter) (*ConsumptionSummary, error) {
	if !filter.Kind.Valid() {
		return nil, invalid("unknown reading kind %q", filter.Kind)
	}
	readings, err := s.repos.Readings.List(ctx, actor.CondominiumID, filter, domain.Page{Limit: consumptionWindow})
	if err != nil {
		return nil, err
	}
	points := domain.Consumption(readings)
	if points == nil {
		points = []domain.ConsumptionPoint{}
	}
	return &ConsumptionSummary{
		Kind:   filter.Kind,
		Unit:   filter.Kind.Unit(),
		Points: points,
		Total:  domain.TotalConsumption(points),
	}, nil
}

func without(ids []uuid.UUID, exclude uuid.UUID) []uuid.UUID {
	return slices.DeleteFunc(slices.Clone(ids), func(id uuid.UUID) bool { return id == exclude })
}
