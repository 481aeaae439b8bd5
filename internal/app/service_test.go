package app

import (
	"context"
	"sync"
	"time"

	"github.com/fmsilvestri/condobase/internal/domain"
	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
)

var testNow = time.Date(2024, 6, 3, 10, 0, 0, 0, time.UTC)

type mockTokenIssuer struct {
	issueFn func(u *domain.User) (string, time.Time, error)
}

func (m *mockTokenIssuer) Issue(u *domain.User) (string, time.Time, error) {
	if m.issueFn != nil {
		return m.issueFn(u)
	}
	return "token-" + u.ID.String(), testNow.Add(time.Hour), nil
}

// recordingPublisher captures every push for assertions.
type recordingPublisher struct {
	mu       sync.Mutex
	calls    [][]uuid.UUID
	payloads [][]byte
	err      error
}

func (p *recordingPublisher) Publish(_ context.Context, userIDs []uuid.UUID, payload []byte) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.calls = append(p.calls, userIDs)
	p.payloads = append(p.payloads, payload)
	return p.err
}

type testDeps struct {
	condos        *mockCondominiumRepo
	users         *mockUserRepo
	permRepo      *mockPermissionRepo
	perms         *mockPermissionSource
	equipment     *mockEquipmentRepo
	maintenance   *mockMaintenanceRepo
	readings      *mockReadingRepo
	employees     *mockEmployeeRepo
	market        *mockMarketRepo
	teams         *mockTeamRepo
	processes     *mockProcessRepo
	activities    *mockActivityRepo
	announcements *mockAnnouncementRepo
	notifications *mockNotificationRepo
	publisher     *recordingPublisher
	tokens        *mockTokenIssuer
	clock         *clockwork.FakeClock

	stored []*domain.Notification
}

func newTestService() (*Service, *testDeps) {
	d := &testDeps{
		condos:        &mockCondominiumRepo{},
		users:         &mockUserRepo{},
		permRepo:      &mockPermissionRepo{},
		perms:         &mockPermissionSource{},
		equipment:     &mockEquipmentRepo{},
		maintenance:   &mockMaintenanceRepo{},
		readings:      &mockReadingRepo{},
		employees:     &mockEmployeeRepo{},
		market:        &mockMarketRepo{},
		teams:         &mockTeamRepo{},
		processes:     &mockProcessRepo{},
		activities:    &mockActivityRepo{},
		announcements: &mockAnnouncementRepo{},
		notifications: &mockNotificationRepo{},
		publisher:     &recordingPublisher{},
		tokens:        &mockTokenIssuer{},
		clock:         clockwork.NewFakeClockAt(testNow),
	}
	d.notifications.createManyFn = func(_ context.Context, ns []*domain.Notification) error {
		for _, n := range ns {
			n.ID = uuid.New()
			n.CreatedAt = testNow
		}
		d.stored = append(d.stored, ns...)
		return nil
	}

	repos := Repositories{
		Condominiums:  d.condos,
		Users:         d.users,
		Permissions:   d.permRepo,
		Equipment:     d.equipment,
		Maintenance:   d.maintenance,
		Readings:      d.readings,
		Employees:     d.employees,
		Market:        d.market,
		Teams:         d.teams,
		Processes:     d.processes,
		Activities:    d.activities,
		Announcements: d.announcements,
		Notifications: d.notifications,
	}
	return NewService(repos, d.perms, d.publisher, d.tokens, d.clock, nil), d
}

func (d *testDeps) recipients() []uuid.UUID {
	out := make([]uuid.UUID, 0, len(d.stored))
	for _, n := range d.stored {
		out = append(out, n.UserID)
	}
	return out
}

func sindicoActor() Actor {
	return Actor{UserID: uuid.New(), CondominiumID: uuid.New(), Role: domain.RoleSindico}
}

func residentActor(condominiumID uuid.UUID) Actor {
	return Actor{UserID: uuid.New(), CondominiumID: condominiumID, Role: domain.RoleResident}
}

func ptr[T any](v T) *T {
	return &v
}
