package httpserver

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/fmsilvestri/condobase/internal/adapter/metrics"
	"github.com/fmsilvestri/condobase/internal/app"
	"github.com/fmsilvestri/condobase/internal/auth"
	"github.com/fmsilvestri/condobase/internal/domain"
	"github.com/fmsilvestri/condobase/internal/payroll"
	"github.com/fmsilvestri/condobase/internal/platform/config"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

type appService interface {
	Login(ctx context.Context, email, password string) (*app.LoginResult, error)
	Authenticate(ctx context.Context, p *auth.Principal) (*domain.User, error)
	Me(ctx context.Context, condominiumID, userID uuid.UUID) (*domain.User, error)

	ListCondominiums(ctx context.Context, page domain.Page) ([]*domain.Condominium, error)
	GetCondominium(ctx context.Context, id uuid.UUID) (*domain.Condominium, error)
	CreateCondominium(ctx context.Context, in app.CondominiumInput) (*domain.Condominium, error)
	UpdateCondominium(ctx context.Context, id uuid.UUID, in app.CondominiumInput) (*domain.Condominium, error)

	ListUsers(ctx context.Context, actor app.Actor, page domain.Page) ([]*domain.User, error)
	GetUser(ctx context.Context, actor app.Actor, id uuid.UUID) (*domain.User, error)
	CreateUser(ctx context.Context, actor app.Actor, in app.UserInput) (*domain.User, error)
	UpdateUser(ctx context.Context, actor app.Actor, id uuid.UUID, in app.UserUpdate) (*domain.User, error)
	DeleteUser(ctx context.Context, actor app.Actor, id uuid.UUID) error

	Permissions(ctx context.Context, condominiumID uuid.UUID) (domain.ModulePermissions, error)
	ModuleEnabled(ctx context.Context, condominiumID uuid.UUID, module domain.Module) (bool, error)
	SetPermissions(ctx context.Context, condominiumID uuid.UUID, perms domain.ModulePermissions) (domain.ModulePermissions, error)

	ListEquipment(ctx context.Context, actor app.Actor, page domain.Page) ([]app.EquipmentView, error)
	GetEquipment(ctx context.Context, actor app.Actor, id uuid.UUID) (app.EquipmentView, error)
	CreateEquipment(ctx context.Context, actor app.Actor, in app.EquipmentInput) (app.EquipmentView, error)
	UpdateEquipment(ctx context.Context, actor app.Actor, id uuid.UUID, in app.EquipmentInput) (app.EquipmentView, error)
	DeleteEquipment(ctx context.Context, actor app.Actor, id uuid.UUID) error

	CreateMaintenance(ctx context.Context, actor app.Actor, in app.MaintenanceInput) (*domain.MaintenanceRequest, error)
	ListMaintenance(ctx context.Context, actor app.Actor, filter domain.MaintenanceFilter, page domain.Page) ([]*domain.MaintenanceRequest, error)
	GetMaintenance(ctx context.Context, actor app.Actor, id uuid.UUID) (*domain.MaintenanceRequest, error)
	UpdateMaintenance(ctx context.Context, actor app.Actor, id uuid.UUID, in app.MaintenanceUpdate) (*domain.MaintenanceRequest, error)
	TransitionMaintenance(ctx context.Context, actor app.Actor, id uuid.UUID, next domain.MaintenanceStatus) (*domain.MaintenanceRequest, error)

	CreateReading(ctx context.Context, actor app.Actor, in app.ReadingInput) (*domain.Reading, error)
	ListReadings(ctx context.Context, actor app.Actor, filter domain.ReadingFilter, page domain.Page) ([]*domain.Reading, error)
	DeleteReading(ctx context.Context, actor app.Actor, id uuid.UUID) error
	Consumption(ctx context.Context, actor app.Actor, filter domain.ReadingFilter) (*app.ConsumptionSummary, error)

	ListEmployees(ctx context.Context, actor app.Actor, page domain.Page) ([]*domain.Employee, error)
	GetEmployee(ctx context.Context, actor app.Actor, id uuid.UUID) (*domain.Employee, error)
	CreateEmployee(ctx context.Context, actor app.Actor, in app.EmployeeInput) (*domain.Employee, error)
	UpdateEmployee(ctx context.Context, actor app.Actor, id uuid.UUID, in app.EmployeeInput) (*domain.Employee, error)
	DeleteEmployee(ctx context.Context, actor app.Actor, id uuid.UUID) error
	Payslip(ctx context.Context, actor app.Actor, id uuid.UUID) (payroll.Payslip, error)
	Liabilities(ctx context.Context, actor app.Actor, id uuid.UUID) (payroll.Liabilities, error)
	Severance(ctx context.Context, actor app.Actor, id uuid.UUID, req app.SeveranceRequest) (payroll.Severance, error)
	CalculatePayroll(gross float64, dependents int) (payroll.Payslip, error)

	ListProducts(ctx context.Context, actor app.Actor, page domain.Page) ([]*domain.Product, error)
	GetProduct(ctx context.Context, actor app.Actor, id uuid.UUID) (*domain.Product, error)
	CreateProduct(ctx context.Context, actor app.Actor, in app.ProductInput) (*domain.Product, error)
	UpdateProduct(ctx context.Context, actor app.Actor, id uuid.UUID, in app.ProductInput) (*domain.Product, error)
	DeleteProduct(ctx context.Context, actor app.Actor, id uuid.UUID) error
	CreateSale(ctx context.Context, actor app.Actor, in app.SaleInput) (*domain.Sale, error)
	ListSales(ctx context.Context, actor app.Actor, page domain.Page) ([]*domain.Sale, error)

	ListTeams(ctx context.Context, actor app.Actor, page domain.Page) ([]*domain.Team, error)
	GetTeam(ctx context.Context, actor app.Actor, id uuid.UUID) (*domain.Team, error)
	CreateTeam(ctx context.Context, actor app.Actor, in app.TeamInput) (*domain.Team, error)
	UpdateTeam(ctx context.Context, actor app.Actor, id uuid.UUID, in app.TeamInput) (*domain.Team, error)
	DeleteTeam(ctx context.Context, actor app.Actor, id uuid.UUID) error

	ListProcesses(ctx context.Context, actor app.Actor, teamID *uuid.UUID, page domain.Page) ([]*domain.Process, error)
	GetProcess(ctx context.Context, actor app.Actor, id uuid.UUID) (*domain.Process, error)
	CreateProcess(ctx context.Context, actor app.Actor, in app.ProcessInput) (*domain.Process, error)
	UpdateProcess(ctx context.Context, actor app.Actor, id uuid.UUID, in app.ProcessInput) (*domain.Process, error)
	DeleteProcess(ctx context.Context, actor app.Actor, id uuid.UUID) error

	ListActivities(ctx context.Context, actor app.Actor, page domain.Page) ([]*domain.ActivityList, error)
	GetActivity(ctx context.Context, actor app.Actor, id uuid.UUID) (*domain.ActivityList, error)
	CreateActivity(ctx context.Context, actor app.Actor, in app.ActivityInput) (*domain.ActivityList, error)
	UpdateActivity(ctx context.Context, actor app.Actor, id uuid.UUID, in app.ActivityInput) (*domain.ActivityList, error)
	DeleteActivity(ctx context.Context, actor app.Actor, id uuid.UUID) error

	ListAnnouncements(ctx context.Context, actor app.Actor, includeExpired bool, page domain.Page) ([]*domain.Announcement, error)
	GetAnnouncement(ctx context.Context, actor app.Actor, id uuid.UUID) (*domain.Announcement, error)
	CreateAnnouncement(ctx context.Context, actor app.Actor, in app.AnnouncementInput) (*domain.Announcement, error)
	UpdateAnnouncement(ctx context.Context, actor app.Actor, id uuid.UUID, in app.AnnouncementInput) (*domain.Announcement, error)
	DeleteAnnouncement(ctx context.Context, actor app.Actor, id uuid.UUID) error

	ListNotifications(ctx context.Context, actor app.Actor, unreadOnly bool, page domain.Page) ([]*domain.Notification, error)
	MarkNotificationRead(ctx context.Context, actor app.Actor, id uuid.UUID) error

	MaintenanceReport(ctx context.Context, actor app.Actor, filter domain.MaintenanceFilter) ([]byte, error)
	ReadingsReport(ctx context.Context, actor app.Actor, filter domain.ReadingFilter) ([]byte, error)
}

type tokenVerifier interface {
	Verify(token string) (*auth.Principal, error)
}

// Handlers holds the non-API endpoints mounted next to the API.
type Handlers struct {
	WebSocket http.Handler
	Metrics   http.Handler
}

type Server struct {
	echo   *echo.Echo
	config *config.Config

	app      appService
	verifier tokenVerifier
	handlers Handlers
	metrics  *metrics.HTTPMetrics

	healthChecks []HealthCheck
	startTime    time.Time
}

func NewServer(cfg *config.Config, app appService, verifier tokenVerifier, handlers Handlers, m *metrics.HTTPMetrics, healthChecks []HealthCheck) (*Server, error) {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = newRequestValidator()

	srv := &Server{
		echo:         e,
		config:       cfg,
		app:          app,
		verifier:     verifier,
		handlers:     handlers,
		metrics:      m,
		healthChecks: healthChecks,
		startTime:    time.Now(),
	}

	if err := srv.registerRoutes(); err != nil {
		return nil, err
	}
	return srv, nil
}

func (s *Server) Start() error {
	slog.Info("Starting server", "port", s.config.Port)
	if err := s.echo.Start(":" + s.config.Port); err != nil {
		return fmt.Errorf("failed to start server: %w", err)
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	if err := s.echo.Shutdown(ctx); err != nil {
		return fmt.Errorf("failed to shutdown server: %w", err)
	}
	return nil
}

// ServeHTTP lets tests drive the full middleware stack without a listener.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.echo.ServeHTTP(w, r)
}
