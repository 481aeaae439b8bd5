package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/fmsilvestri/condobase/internal/domain"
	"github.com/google/uuid"
	"github.com/robfig/cron/v3"
)

// --- Teams ---

type TeamInput struct {
	Name        string
	Description string
	MemberIDs   []uuid.UUID
}

func (s *Service) ListTeams(ctx context.Context, actor Actor, page domain.Page) ([]*domain.Team, error) {
	return s.repos.Teams.List(ctx, actor.CondominiumID, page)
}

func (s *Service) GetTeam(ctx context.Context, actor Actor, id uuid.UUID) (*domain.Team, error) {
	return s.repos.Teams.GetByID(ctx, actor.CondominiumID, id)
}

// CreateTeam stores a team. Members must be users of the same condominium.
func (s *Service) CreateTeam(ctx context.Context, actor Actor, in TeamInput) (*domain.Team, error) {
	t := &domain.Team{
		CondominiumID: actor.CondominiumID,
		Name:          strings.TrimSpace(in.Name),
		Description:   in.Description,
		MemberIDs:     uniqueIDs(in.MemberIDs),
	}
	if err := s.repos.Teams.Create(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}

func (s *Service) UpdateTeam(ctx context.Context, actor Actor, id uuid.UUID, in TeamInput) (*domain.Team, error) {
	t, err := s.repos.Teams.GetByID(ctx, actor.CondominiumID, id)
	if err != nil {
		return nil, err
	}
	t.Name = strings.TrimSpace(in.Name)
	t.Description = in.Description
	t.MemberIDs = uniqueIDs(in.MemberIDs)
	if err := s.repos.Teams.Update(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}

func (s *Service) DeleteTeam(ctx context.Context, actor Actor, id uuid.UUID) error {
	return s.repos.Teams.Delete(ctx, actor.CondominiumID, id)
}

func uniqueIDs(ids []uuid.UUID) []uuid.UUID {
	seen := make(map[uuid.UUID]struct{}, len(ids))
	out := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

// --- Processes ---

type ProcessInput struct {
	TeamID      *uuid.UUID
	Name        string
	Description string
	Steps       []string
	Status      domain.ProcessStatus
}

func (in ProcessInput) apply(p *domain.Process) error {
	if in.Status == "" {
		in.Status = domain.ProcessDraft
	}
	if !in.Status.Valid() {
		return invalid("unknown process status %q", in.Status)
	}
	p.TeamID = in.TeamID
	p.Name = strings.TrimSpace(in.Name)
	p.Description = in.Description
	p.Steps = nonEmpty(in.Steps)
	p.Status = in.Status
	return nil
}

func (s *Service) ListProcesses(ctx context.Context, actor Actor, teamID *uuid.UUID, page domain.Page) ([]*domain.Process, error) {
	return s.repos.Processes.List(ctx, actor.CondominiumID, teamID, page)
}

func (s *Service) GetProcess(ctx context.Context, actor Actor, id uuid.UUID) (*domain.Process, error) {
	return s.repos.Processes.GetByID(ctx, actor.CondominiumID, id)
}

func (s *Service) CreateProcess(ctx context.Context, actor Actor, in ProcessInput) (*domain.Process, error) {
	p := &domain.Process{CondominiumID: actor.CondominiumID}
	if err := in.apply(p); err != nil {
		return nil, err
	}
	if err := s.requireTeam(ctx, actor.CondominiumID, p.TeamID); err != nil {
		return nil, err
	}
	if err := s.repos.Processes.Create(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *Service) UpdateProcess(ctx context.Context, actor Actor, id uuid.UUID, in ProcessInput) (*domain.Process, error) {
	p, err := s.repos.Processes.GetByID(ctx, actor.CondominiumID, id)
	if err != nil {
		return nil, err
	}
	if err := in.apply(p); err != nil {
		return nil, err
	}
	if err := s.requireTeam(ctx, actor.CondominiumID, p.TeamID); err != nil {
		return nil, err
	}
	if err := s.repos.Processes.Update(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *Service) DeleteProcess(ctx context.Context, actor Actor, id uuid.UUID) error {
	return s.repos.Processes.Delete(ctx, actor.CondominiumID, id)
}

func nonEmpty(items []string) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

// --- Activity lists ---

type ActivityInput struct {
	TeamID      *uuid.UUID
	Title       string
	Description string
	Schedule    string
	Items       []string
	Active      *bool
}

// ParseSchedule validates a standard five-field cron expression
// (descriptors such as @daily are accepted too).
func ParseSchedule(expr string) (cron.Schedule, error) {
	sched, err := cron.ParseStandard(strings.TrimSpace(expr))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidSchedule, err)
	}
	return sched, nil
}

// nextRun returns the next occurrence after now, or nil for inactive lists.
func nextRun(a *domain.ActivityList, now time.Time) (*time.Time, error) {
	if !a.Active {
		return nil, nil
	}
	sched, err := ParseSchedule(a.Schedule)
	if err != nil {
		return nil, err
	}
	next := sched.Next(now)
	if next.IsZero() {
		return nil, nil
	}
	return &next, nil
}

func (in ActivityInput) apply(a *domain.ActivityList, now time.Time) error {
	a.TeamID = in.TeamID
	a.Title = strings.TrimSpace(in.Title)
	a.Description = in.Description
	a.Schedule = strings.TrimSpace(in.Schedule)
	a.Items = nonEmpty(in.Items)
	if in.Active != nil {
		a.Active = *in.Active
	}

	if _, err := ParseSchedule(a.Schedule); err != nil {
		return err
	}
	next, err := nextRun(a, now)
	if err != nil {
		return err
	}
	a.NextRunAt = next
	return nil
}

func (s *Service) ListActivities(ctx context.Context, actor Actor, page domain.Page) ([]*domain.ActivityList, error) {
	return s.repos.Activities.List(ctx, actor.CondominiumID, page)
}

func (s *Service) GetActivity(ctx context.Context, actor Actor, id uuid.UUID) (*domain.ActivityList, error) {
	return s.repos.Activities.GetByID(ctx, actor.CondominiumID, id)
}

func (s *Service) CreateActivity(ctx context.Context, actor Actor, in ActivityInput) (*domain.ActivityList, error) {
	a := &domain.ActivityList{CondominiumID: actor.CondominiumID, Active: true}
	if err := in.apply(a, s.now()); err != nil {
		return nil, err
	}
	if err := s.requireTeam(ctx, actor.CondominiumID, a.TeamID); err != nil {
		return nil, err
	}
	if err := s.repos.Activities.Create(ctx, a); err != nil {
		return nil, err
	}
	return a, nil
}

func (s *Service) UpdateActivity(ctx context.Context, actor Actor, id uuid.UUID, in ActivityInput) (*domain.ActivityList, error) {
	a, err := s.repos.Activities.GetByID(ctx, actor.CondominiumID, id)
	if err != nil {
		return nil, err
	}
	if err := in.apply(a, s.now()); err != nil {
		return nil, err
	}
	if err := s.requireTeam(ctx, actor.CondominiumID, a.TeamID); err != nil {
		return nil, err
	}
	if err := s.repos.Activities.Update(ctx, a); err != nil {
		return nil, err
	}
	return a, nil
}

func (s *Service) DeleteActivity(ctx context.Context, actor Actor, id uuid.UUID) error {
	return s.repos.Activities.Delete(ctx, actor.CondominiumID, id)
}

// RunDueActivities notifies the staff (and the owning team) of every list
// whose next run has passed, then schedules the following run. It returns
// the number of lists processed.
func (s *Service) RunDueActivities(ctx context.Context, limit int) (int, error) {
	now := s.now()
	due, err := s.repos.Activities.ListDue(ctx, now, limit)
	if err != nil {
		return 0, err
	}

	processed := 0
	for _, a := range due {
		// next_run_at advances even when nobody could be notified, otherwise a
		// stuck list stays at the head of ListDue on every tick.
		recipients, err := s.activityRecipients(ctx, a)
		if err != nil {
			slog.WarnContext(ctx, "Failed to resolve activity recipients", "activity_id", a.ID, "error", err)
		} else {
			body := a.Title
			if len(a.Items) > 0 {
				body = fmt.Sprintf("%s: %s", a.Title, strings.Join(a.Items, ", "))
			}
			s.notifyBestEffort(ctx, a.CondominiumID, recipients, domain.NotificationActivity, "Atividade programada", body, &a.ID)
		}

		next, err := nextRun(a, now)
		if err != nil {
			// A stored schedule that no longer parses is parked instead of firing every tick.
			slog.ErrorContext(ctx, "Activity list has an invalid schedule", "activity_id", a.ID, "schedule", a.Schedule, "error", err)
			next = nil
		}
		if err := s.repos.Activities.MarkRun(ctx, a.ID, now, next); err != nil {
			slog.WarnContext(ctx, "Failed to mark activity run", "activity_id", a.ID, "error", err)
			continue
		}
		processed++
	}
	return processed, nil
}

func (s *Service) activityRecipients(ctx context.Context, a *domain.ActivityList) ([]uuid.UUID, error) {
	staff, err := s.repos.Users.ListIDs(ctx, a.CondominiumID, domain.RoleStaff)
	if err != nil {
		return nil, err
	}
	if a.TeamID == nil {
		return staff, nil
	}
	team, err := s.repos.Teams.GetByID(ctx, a.CondominiumID, *a.TeamID)
	if errors.Is(err, domain.ErrNotFound) {
		// The team was deleted after the list was assigned; staff still get it.
		return staff, nil
	}
	if err != nil {
		return nil, err
	}
	return uniqueIDs(append(staff, team.MemberIDs...)), nil
}

// --- Announcements ---

type AnnouncementInput struct {
	Title     string
	Body      string
	Pinned    bool
	ExpiresAt *time.Time
}

func (in AnnouncementInput) apply(a *domain.Announcement, now time.Time) error {
	if in.ExpiresAt != nil && !in.ExpiresAt.After(now) {
		return invalid("expiry must be in the future")
	}
	a.Title = strings.TrimSpace(in.Title)
	a.Body = in.Body
	a.Pinned = in.Pinned
	a.ExpiresAt = in.ExpiresAt
	return nil
}

// ListAnnouncements lists pinned first, then newest. Expired ones are only
// included for managers asking for them.
func (s *Service) ListAnnouncements(ctx context.Context, actor Actor, includeExpired bool, page domain.Page) ([]*domain.Announcement, error) {
	includeExpired = includeExpired && actor.Role.CanManage()
	return s.repos.Announcements.List(ctx, actor.CondominiumID, s.now(), includeExpired, page)
}

func (s *Service) GetAnnouncement(ctx context.Context, actor Actor, id uuid.UUID) (*domain.Announcement, error) {
	a, err := s.repos.Announcements.GetByID(ctx, actor.CondominiumID, id)
	if err != nil {
		return nil, err
	}
	if a.Expired(s.now()) && !actor.Role.CanManage() {
		return nil, domain.ErrNotFound
	}
	return a, nil
}

// CreateAnnouncement publishes an announcement and notifies every user of
// the condominium except its author.
func (s *Service) CreateAnnouncement(ctx context.Context, actor Actor, in AnnouncementInput) (*domain.Announcement, error) {
	a := &domain.Announcement{CondominiumID: actor.CondominiumID, AuthorID: actor.UserID}
	if err := in.apply(a, s.now()); err != nil {
		return nil, err
	}
	if err := s.repos.Announcements.Create(ctx, a); err != nil {
		return nil, err
	}

	users, err := s.repos.Users.ListIDs(ctx, actor.CondominiumID)
	if err != nil {
		slog.WarnContext(ctx, "Failed to list users for announcement", "announcement_id", a.ID, "error", err)
		return a, nil
	}
	s.notifyBestEffort(ctx, actor.CondominiumID, without(users, actor.UserID), domain.NotificationAnnouncement, a.Title, a.Body, &a.ID)
	return a, nil
}

func (s *Service) UpdateAnnouncement(ctx context.Context, actor Actor, id uuid.UUID, in AnnouncementInput) (*domain.Announcement, error) {
	a, err := s.repos.Announcements.GetByID(ctx, actor.CondominiumID, id)
	if err != nil {
		return nil, err
	}
	if err := in.apply(a, s.now()); err != nil {
		return nil, err
	}
	if err := s.repos.Announcements.Update(ctx, a); err != nil {
		return nil, err
	}
	return a, nil
}

func (s *Service) DeleteAnnouncement(ctx context.Context, actor Actor, id uuid.UUID) error {
	return s.repos.Announcements.Delete(ctx, actor.CondominiumID, id)
}
