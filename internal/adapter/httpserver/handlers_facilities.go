package httpserver

import (
	"net/http"
	"time"

	"github.com/fmsilvestri/condobase/internal/app"
	"github.com/fmsilvestri/condobase/internal/domain"
	apperrors "github.com/fmsilvestri/condobase/internal/platform/errors"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// --- Equipment ---

type equipmentRequest struct {
	Name                string                 `json:"name" validate:"required,max=200"`
	Category            string                 `json:"category" validate:"max=100"`
	Location            string                 `json:"location" validate:"max=200"`
	Status              domain.EquipmentStatus `json:"status" validate:"omitempty,oneof=operational maintenance inactive"`
	InstalledAt         *time.Time             `json:"installed_at"`
	LastServiceAt       *time.Time             `json:"last_service_at"`
	ServiceIntervalDays int                    `json:"service_interval_days" validate:"gte=0,lte=3650"`
	Notes               string                 `json:"notes" validate:"max=2000"`
}

func (r equipmentRequest) input() app.EquipmentInput {
	return app.EquipmentInput{
		Name:                r.Name,
		Category:            r.Category,
		Location:            r.Location,
		Status:              r.Status,
		InstalledAt:         r.InstalledAt,
		LastServiceAt:       r.LastServiceAt,
		ServiceIntervalDays: r.ServiceIntervalDays,
		Notes:               r.Notes,
	}
}

func (s *Server) handleListEquipment(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	page, err := pageFrom(c)
	if err != nil {
		return err
	}
	items, err := s.app.ListEquipment(c.Request().Context(), actor, page)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, list(items, page))
}

func (s *Server) handleGetEquipment(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	id, err := pathID(c)
	if err != nil {
		return err
	}
	item, err := s.app.GetEquipment(c.Request().Context(), actor, id)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, item)
}

func (s *Server) handleCreateEquipment(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	var req equipmentRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	item, err := s.app.CreateEquipment(c.Request().Context(), actor, req.input())
	if err != nil {
		return err
	}
	return respond(c, http.StatusCreated, item)
}

func (s *Server) handleUpdateEquipment(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	id, err := pathID(c)
	if err != nil {
		return err
	}
	var req equipmentRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	item, err := s.app.UpdateEquipment(c.Request().Context(), actor, id, req.input())
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, item)
}

func (s *Server) handleDeleteEquipment(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	id, err := pathID(c)
	if err != nil {
		return err
	}
	if err := s.app.DeleteEquipment(c.Request().Context(), actor, id); err != nil {
		return err
	}
	return noContent(c)
}

// --- Maintenance ---

type createMaintenanceRequest struct {
	EquipmentID *uuid.UUID      `json:"equipment_id"`
	Title       string          `json:"title" validate:"required,max=200"`
	Description string          `json:"description" validate:"max=5000"`
	Priority    domain.Priority `json:"priority" validate:"omitempty,oneof=low medium high urgent"`
}

type updateMaintenanceRequest struct {
	Title       *string          `json:"title" validate:"omitempty,min=1,max=200"`
	Description *string          `json:"description" validate:"omitempty,max=5000"`
	Priority    *domain.Priority `json:"priority" validate:"omitempty,oneof=low medium high urgent"`
	AssignedTo  *uuid.UUID       `json:"assigned_to"`
	Cost        *float64         `json:"cost" validate:"omitempty,gte=0"`
}

type transitionRequest struct {
	Status domain.MaintenanceStatus `json:"status" validate:"required"`
}

func maintenanceFilterFrom(c echo.Context) (domain.MaintenanceFilter, error) {
	equipmentID, err := queryUUID(c, "equipment_id")
	if err != nil {
		return domain.MaintenanceFilter{}, err
	}
	requestedBy, err := queryUUID(c, "requested_by")
	if err != nil {
		return domain.MaintenanceFilter{}, err
	}
	status := domain.MaintenanceStatus(c.QueryParam("status"))
	if status != "" && !status.Valid() {
		return domain.MaintenanceFilter{}, apperrors.ValidationError("unknown status").WithField("status", status)
	}
	return domain.MaintenanceFilter{Status: status, EquipmentID: equipmentID, RequestedBy: requestedBy}, nil
}

func (s *Server) handleListMaintenance(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	page, err := pageFrom(c)
	if err != nil {
		return err
	}
	filter, err := maintenanceFilterFrom(c)
	if err != nil {
		return err
	}
	items, err := s.app.ListMaintenance(c.Request().Context(), actor, filter, page)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, list(items, page))
}

func (s *Server) handleGetMaintenance(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	id, err := pathID(c)
	if err != nil {
		return err
	}
	req, err := s.app.GetMaintenance(c.Request().Context(), actor, id)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, req)
}

func (s *Server) handleCreateMaintenance(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	var req createMaintenanceRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	created, err := s.app.CreateMaintenance(c.Request().Context(), actor, app.MaintenanceInput{
		EquipmentID: req.EquipmentID,
		Title:       req.Title,
		Description: req.Description,
		Priority:    req.Priority,
	})
	if err != nil {
		return err
	}
	return respond(c, http.StatusCreated, created)
}

func (s *Server) handleUpdateMaintenance(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	id, err := pathID(c)
	if err != nil {
		return err
	}
	var req updateMaintenanceRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	updated, err := s.app.UpdateMaintenance(c.Request().Context(), actor, id, app.MaintenanceUpdate{
		Title:       req.Title,
		Description: req.Description,
		Priority:    req.Priority,
		AssignedTo:  req.AssignedTo,
		Cost:        req.Cost,
	})
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, updated)
}

func (s *Server) handleTransitionMaintenance(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	id, err := pathID(c)
	if err != nil {
		return err
	}
	var req transitionRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	updated, err := s.app.TransitionMaintenance(c.Request().Context(), actor, id, req.Status)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, updated)
}

// --- Readings ---

type readingRequest struct {
	Kind   domain.ReadingKind `json:"kind" validate:"required,oneof=energy water gas"`
	Meter  string             `json:"meter" validate:"required,max=100"`
	Value  float64            `json:"value" validate:"gte=0"`
	ReadAt *time.Time         `json:"read_at"`
}

func readingFilterFrom(c echo.Context) (domain.ReadingFilter, error) {
	kind := domain.ReadingKind(c.QueryParam("kind"))
	if kind != "" && !kind.Valid() {
		return domain.ReadingFilter{}, apperrors.ValidationError("unknown reading kind").WithField("kind", kind)
	}
	from, err := queryTime(c, "from")
	if err != nil {
		return domain.ReadingFilter{}, err
	}
	to, err := queryTime(c, "to")
	if err != nil {
		return domain.ReadingFilter{}, err
	}
	if from != nil && to != nil && to.Before(*from) {
		return domain.ReadingFilter{}, apperrors.ValidationError("to must not be before from")
	}
	return domain.ReadingFilter{Kind: kind, Meter: c.QueryParam("meter"), From: from, To: to}, nil
}

func (s *Server) handleListReadings(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	page, err := pageFrom(c)
	if err != nil {
		return err
	}
	filter, err := readingFilterFrom(c)
	if err != nil {
		return err
	}
	items, err := s.app.ListReadings(c.Request().Context(), actor, filter, page)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, list(items, page))
}

func (s *Server) handleConsumption(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	filter, err := readingFilterFrom(c)
	if err != nil {
		return err
	}
	if filter.Kind == "" {
		return apperrors.ValidationError("kind is required")
	}
	summary, err := s.app.Consumption(c.Request().Context(), actor, filter)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, summary)
}

func (s *Server) handleCreateReading(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	var req readingRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	reading, err := s.app.CreateReading(c.Request().Context(), actor, app.ReadingInput{
		Kind:   req.Kind,
		Meter:  req.Meter,
		Value:  req.Value,
		ReadAt: req.ReadAt,
	})
	if err != nil {
		return err
	}
	return respond(c, http.StatusCreated, reading)
}

func (s *Server) handleDeleteReading(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	id, err := pathID(c)
	if err != nil {
		return err
	}
	if err := s.app.DeleteReading(c.Request().Context(), actor, id); err != nil {
		return err
	}
	return noContent(c)
}
