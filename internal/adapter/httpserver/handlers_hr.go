package httpserver

import (
	"net/http"
	"time"

	"github.com/fmsilvestri/condobase/internal/app"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

type employeeRequest struct {
	UserID       *uuid.UUID `json:"user_id"`
	Name         string     `json:"name" validate:"required,max=200"`
	CPF          string     `json:"cpf" validate:"omitempty,max=14"`
	Position     string     `json:"position" validate:"required,max=100"`
	Salary       float64    `json:"salary" validate:"gt=0"`
	Dependents   int        `json:"dependents" validate:"gte=0,lte=20"`
	HiredAt      time.Time  `json:"hired_at" validate:"required"`
	TerminatedAt *time.Time `json:"terminated_at"`
}

func (r employeeRequest) input() app.EmployeeInput {
	return app.EmployeeInput{
		UserID:       r.UserID,
		Name:         r.Name,
		CPF:          r.CPF,
		Position:     r.Position,
		Salary:       r.Salary,
		Dependents:   r.Dependents,
		HiredAt:      r.HiredAt,
		TerminatedAt: r.TerminatedAt,
	}
}

type severanceRequest struct {
	TerminatedAt           *time.Time `json:"terminated_at"`
	FGTSBalance            *float64   `json:"fgts_balance" validate:"omitempty,gte=0"`
	PendingVacationPeriods int        `json:"pending_vacation_periods" validate:"gte=0,lte=2"`
}

type payrollRequest struct {
	Gross      float64 `json:"gross" validate:"gt=0"`
	Dependents int     `json:"dependents" validate:"gte=0,lte=20"`
}

func (s *Server) handleListEmployees(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	page, err := pageFrom(c)
	if err != nil {
		return err
	}
	items, err := s.app.ListEmployees(c.Request().Context(), actor, page)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, list(items, page))
}

func (s *Server) handleGetEmployee(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	id, err := pathID(c)
	if err != nil {
		return err
	}
	e, err := s.app.GetEmployee(c.Request().Context(), actor, id)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, e)
}

func (s *Server) handleCreateEmployee(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	var req employeeRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	e, err := s.app.CreateEmployee(c.Request().Context(), actor, req.input())
	if err != nil {
		return err
	}
	return respond(c, http.StatusCreated, e)
}

func (s *Server) handleUpdateEmployee(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	id, err := pathID(c)
	if err != nil {
		return err
	}
	var req employeeRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	e, err := s.app.UpdateEmployee(c.Request().Context(), actor, id, req.input())
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, e)
}

func (s *Server) handleDeleteEmployee(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	id, err := pathID(c)
	if err != nil {
		return err
	}
	if err := s.app.DeleteEmployee(c.Request().Context(), actor, id); err != nil {
		return err
	}
	return noContent(c)
}

func (s *Server) handlePayslip(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	id, err := pathID(c)
	if err != nil {
		return err
	}
	slip, err := s.app.Payslip(c.Request().Context(), actor, id)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, slip)
}

func (s *Server) handleLiabilities(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	id, err := pathID(c)
	if err != nil {
		return err
	}
	l, err := s.app.Liabilities(c.Request().Context(), actor, id)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, l)
}

func (s *Server) handleSeverance(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	id, err := pathID(c)
	if err != nil {
		return err
	}
	var req severanceRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	sev, err := s.app.Severance(c.Request().Context(), actor, id, app.SeveranceRequest{
		TerminatedAt:           req.TerminatedAt,
		FGTSBalance:            req.FGTSBalance,
		PendingVacationPeriods: req.PendingVacationPeriods,
	})
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, sev)
}

// handleCalculatePayroll is a simulator: it computes a payslip for an
// arbitrary salary without touching stored employees.
func (s *Server) handleCalculatePayroll(c echo.Context) error {
	var req payrollRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	slip, err := s.app.CalculatePayroll(req.Gross, req.Dependents)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, slip)
}
