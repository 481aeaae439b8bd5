package app

import (
	"context"
	"fmt"
	"time"

	"github.com/fmsilvestri/condobase/internal/adapter/metrics"
	"github.com/fmsilvestri/condobase/internal/domain"
	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
)

// Actor is the authenticated caller on whose behalf a use case runs.
// CondominiumID is the tenant being acted on; for admins it may differ from
// the tenant of their own account.
type Actor struct {
	UserID        uuid.UUID
	CondominiumID uuid.UUID
	Role          domain.Role
}

// TokenIssuer signs access tokens for authenticated users.
type TokenIssuer interface {
	Issue(u *domain.User) (string, time.Time, error)
}

// Repositories groups the persistence ports the service depends on.
type Repositories struct {
	Condominiums  domain.CondominiumRepository
	Users         domain.UserRepository
	Permissions   domain.PermissionRepository
	Equipment     domain.EquipmentRepository
	Maintenance   domain.MaintenanceRepository
	Readings      domain.ReadingRepository
	Employees     domain.EmployeeRepository
	Market        domain.MarketRepository
	Teams         domain.TeamRepository
	Processes     domain.ProcessRepository
	Activities    domain.ActivityRepository
	Announcements domain.AnnouncementRepository
	Notifications domain.NotificationRepository
}

// Service is the application layer. It is the only component that
// references multiple domain components and orchestrates all use cases.
type Service struct {
	repos     Repositories
	perms     domain.PermissionSource
	publisher domain.NotificationPublisher
	tokens    TokenIssuer
	clock     clockwork.Clock
	metrics   *metrics.NotificationMetrics
}

// NewService creates the application layer service. m may be nil.
func NewService(repos Repositories, perms domain.PermissionSource, publisher domain.NotificationPublisher, tokens TokenIssuer, clock clockwork.Clock, m *metrics.NotificationMetrics) *Service {
	return &Service{
		repos:     repos,
		perms:     perms,
		publisher: publisher,
		tokens:    tokens,
		clock:     clock,
		metrics:   m,
	}
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", domain.ErrInvalidInput, fmt.Sprintf(format, args...))
}

func (s *Service) now() time.Time {
	return s.clock.Now().UTC()
}

// requireTeam checks that an optional team reference belongs to the tenant.
func (s *Service) requireTeam(ctx context.Context, condominiumID uuid.UUID, teamID *uuid.UUID) error {
	if teamID == nil {
		return nil
	}
	if _, err := s.repos.Teams.GetByID(ctx, condominiumID, *teamID); err != nil {
		return fmt.Errorf("team: %w", err)
	}
	return nil
}
