package app

import (
	"context"
	"strings"
	"time"

	"github.com/fmsilvestri/condobase/internal/domain"
	"github.com/fmsilvestri/condobase/internal/payroll"
	"github.com/google/uuid"
)

type EmployeeInput struct {
	UserID       *uuid.UUID
	Name         string
	CPF          string
	Position     string
	Salary       float64
	Dependents   int
	HiredAt      time.Time
	TerminatedAt *time.Time
}

func (in EmployeeInput) apply(e *domain.Employee) error {
	if in.Salary <= 0 {
		return invalid("salary must be positive")
	}
	if in.Dependents < 0 {
		return invalid("dependents cannot be negative")
	}
	if in.HiredAt.IsZero() {
		return invalid("hire date is required")
	}
	if in.TerminatedAt != nil && in.TerminatedAt.Before(in.HiredAt) {
		return invalid("termination date precedes hire date")
	}
	e.UserID = in.UserID
	e.Name = strings.TrimSpace(in.Name)
	e.CPF = onlyDigits(in.CPF)
	e.Position = in.Position
	e.Salary = in.Salary
	e.Dependents = in.Dependents
	e.HiredAt = in.HiredAt
	e.TerminatedAt = in.TerminatedAt
	return nil
}

// SeveranceRequest overrides the defaults of a severance projection:
// termination today and an FGTS balance estimated from the salary.
type SeveranceRequest struct {
	TerminatedAt           *time.Time
	FGTSBalance            *float64
	PendingVacationPeriods int
}

func (s *Service) ListEmployees(ctx context.Context, actor Actor, page domain.Page) ([]*domain.Employee, error) {
	return s.repos.Employees.List(ctx, actor.CondominiumID, page)
}

func (s *Service) GetEmployee(ctx context.Context, actor Actor, id uuid.UUID) (*domain.Employee, error) {
	return s.repos.Employees.GetByID(ctx, actor.CondominiumID, id)
}

func (s *Service) CreateEmployee(ctx context.Context, actor Actor, in EmployeeInput) (*domain.Employee, error) {
	e := &domain.Employee{CondominiumID: actor.CondominiumID}
	if err := in.apply(e); err != nil {
		return nil, err
	}
	if err := s.checkEmployeeUser(ctx, actor, e.UserID); err != nil {
		return nil, err
	}
	if err := s.repos.Employees.Create(ctx, e); err != nil {
		return nil, err
	}
	return e, nil
}

func (s *Service) UpdateEmployee(ctx context.Context, actor Actor, id uuid.UUID, in EmployeeInput) (*domain.Employee, error) {
	e, err := s.repos.Employees.GetByID(ctx, actor.CondominiumID, id)
	if err != nil {
		return nil, err
	}
	if err := in.apply(e); err != nil {
		return nil, err
	}
	if err := s.checkEmployeeUser(ctx, actor, e.UserID); err != nil {
		return nil, err
	}
	if err := s.repos.Employees.Update(ctx, e); err != nil {
		return nil, err
	}
	return e, nil
}

func (s *Service) DeleteEmployee(ctx context.Context, actor Actor, id uuid.UUID) error {
	return s.repos.Employees.Delete(ctx, actor.CondominiumID, id)
}

func (s *Service) checkEmployeeUser(ctx context.Context, actor Actor, userID *uuid.UUID) error {
	if userID == nil {
		return nil
	}
	if _, err := s.repos.Users.GetByID(ctx, actor.CondominiumID, *userID); err != nil {
		return invalid("linked user: %v", err)
	}
	return nil
}

// Payslip computes the monthly payslip of an employee.
func (s *Service) Payslip(ctx context.Context, actor Actor, id uuid.UUID) (payroll.Payslip, error) {
	e, err := s.repos.Employees.GetByID(ctx, actor.CondominiumID, id)
	if err != nil {
		return payroll.Payslip{}, err
	}
	slip, err := payroll.Compute(e.Salary, e.Dependents)
	if err != nil {
		return payroll.Payslip{}, invalid("%v", err)
	}
	return slip, nil
}

// Liabilities returns the monthly provisions the employer accrues for an employee.
func (s *Service) Liabilities(ctx context.Context, actor Actor, id uuid.UUID) (payroll.Liabilities, error) {
	e, err := s.repos.Employees.GetByID(ctx, actor.CondominiumID, id)
	if err != nil {
		return payroll.Liabilities{}, err
	}
	l, err := payroll.MonthlyLiabilities(e.Salary)
	if err != nil {
		return payroll.Liabilities{}, invalid("%v", err)
	}
	return l, nil
}

// Severance projects the dismissal-without-cause amounts for an employee.
func (s *Service) Severance(ctx context.Context, actor Actor, id uuid.UUID, req SeveranceRequest) (payroll.Severance, error) {
	e, err := s.repos.Employees.GetByID(ctx, actor.CondominiumID, id)
	if err != nil {
		return payroll.Severance{}, err
	}

	terminatedAt := s.now()
	switch {
	case req.TerminatedAt != nil:
		terminatedAt = *req.TerminatedAt
	case e.TerminatedAt != nil:
		terminatedAt = *e.TerminatedAt
	}

	in := payroll.SeveranceInput{
		Salary:                 e.Salary,
		HiredAt:                e.HiredAt,
		TerminatedAt:           terminatedAt,
		PendingVacationPeriods: req.PendingVacationPeriods,
	}
	if req.FGTSBalance != nil {
		in.FGTSBalance = *req.FGTSBalance
	}

	sev, err := payroll.ProjectSeverance(in)
	if err != nil {
		return payroll.Severance{}, invalid("%v", err)
	}
	return sev, nil
}

// CalculatePayroll computes a payslip for an arbitrary salary, without an employee record.
func (s *Service) CalculatePayroll(gross float64, dependents int) (payroll.Payslip, error) {
	slip, err := payroll.Compute(gross, dependents)
	if err != nil {
		return payroll.Payslip{}, invalid("%v", err)
	}
	return slip, nil
}

func onlyDigits(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
