package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/fmsilvestri/condobase/internal/auth"
	"github.com/fmsilvestri/condobase/internal/domain"
	"github.com/google/uuid"
)

// dummyHash is compared against when the email is unknown so that a miss
// costs the same bcrypt round as a wrong password.
var dummyHash = sync.OnceValue(func() string {
	hash, err := auth.HashPassword("condobase-unknown-user")
	if err != nil {
		panic(err)
	}
	return hash
})

type LoginResult struct {
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expires_at"`
	User      *domain.User `json:"user"`
}

// Login exchanges credentials for an access token. Unknown emails, inactive
// accounts and wrong passwords are indistinguishable to the caller.
func (s *Service) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	user, err := s.repos.Users.GetByEmail(ctx, normalizeEmail(email))
	if errors.Is(err, domain.ErrNotFound) {
		_ = auth.CheckPassword(dummyHash(), password)
		return nil, domain.ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}

	if err := auth.CheckPassword(user.PasswordHash, password); err != nil || !user.Active {
		slog.InfoContext(ctx, "Login rejected", "user_id", user.ID, "active", user.Active)
		return nil, domain.ErrInvalidCredentials
	}

	token, expiresAt, err := s.tokens.Issue(user)
	if err != nil {
		return nil, fmt.Errorf("failed to issue token: %w", err)
	}
	return &LoginResult{Token: token, ExpiresAt: expiresAt, User: user}, nil
}

// Me returns the caller's own account from its home condominium.
func (s *Service) Me(ctx context.Context, condominiumID, userID uuid.UUID) (*domain.User, error) {
	return s.repos.Users.GetByID(ctx, condominiumID, userID)
}

// Authenticate resolves a verified token to the account as it is stored now.
// Deleted and deactivated accounts are rejected before their token expires,
// and the returned user carries the current role rather than the claimed one.
func (s *Service) Authenticate(ctx context.Context, p *auth.Principal) (*domain.User, error) {
	user, err := s.repos.Users.GetByID(ctx, p.CondominiumID, p.UserID)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, domain.ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}
	if !user.Active {
		slog.InfoContext(ctx, "Token rejected for inactive account", "user_id", user.ID)
		return nil, domain.ErrInvalidCredentials
	}
	return user, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// --- Users ---

type UserInput struct {
	Name     string
	Email    string
	Password string
	Role     domain.Role
}

// UserUpdate is a partial update; nil fields are left unchanged.
type UserUpdate struct {
	Name     *string
	Email    *string
	Password *string
	Role     *domain.Role
	Active   *bool
}

func (s *Service) ListUsers(ctx context.Context, actor Actor, page domain.Page) ([]*domain.User, error) {
	return s.repos.Users.List(ctx, actor.CondominiumID, page)
}

func (s *Service) GetUser(ctx context.Context, actor Actor, id uuid.UUID) (*domain.User, error) {
	return s.repos.Users.GetByID(ctx, actor.CondominiumID, id)
}

// CreateUser adds an account to the actor's condominium. Only admins may
// create other admins.
func (s *Service) CreateUser(ctx context.Context, actor Actor, in UserInput) (*domain.User, error) {
	if in.Role == domain.RoleAdmin && actor.Role != domain.RoleAdmin {
		return nil, fmt.Errorf("%w: only admins can create admins", domain.ErrForbidden)
	}

	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return nil, invalid("%v", err)
	}

	u := &domain.User{
		CondominiumID: actor.CondominiumID,
		Name:          strings.TrimSpace(in.Name),
		Email:         normalizeEmail(in.Email),
		PasswordHash:  hash,
		Role:          in.Role,
		Active:        true,
	}
	if err := s.repos.Users.Create(ctx, u); err != nil {
		return nil, err
	}
	slog.InfoContext(ctx, "User created", "user_id", u.ID, "condominium_id", u.CondominiumID, "role", u.Role)
	return u, nil
}

func (s *Service) UpdateUser(ctx context.Context, actor Actor, id uuid.UUID, in UserUpdate) (*domain.User, error) {
	u, err := s.repos.Users.GetByID(ctx, actor.CondominiumID, id)
	if err != nil {
		return nil, err
	}

	if actor.Role != domain.RoleAdmin {
		if u.Role == domain.RoleAdmin || (in.Role != nil && *in.Role == domain.RoleAdmin) {
			return nil, fmt.Errorf("%w: only admins can manage admins", domain.ErrForbidden)
		}
	}
	if id == actor.UserID && ((in.Active != nil && !*in.Active) || (in.Role != nil && *in.Role != u.Role)) {
		return nil, invalid("cannot deactivate or change the role of your own account")
	}

	if in.Name != nil {
		u.Name = strings.TrimSpace(*in.Name)
	}
	if in.Email != nil {
		u.Email = normalizeEmail(*in.Email)
	}
	if in.Role != nil {
		u.Role = *in.Role
	}
	if in.Active != nil {
		u.Active = *in.Active
	}
	if in.Password != nil {
		hash, err := auth.HashPassword(*in.Password)
		if err != nil {
			return nil, invalid("%v", err)
		}
		u.PasswordHash = hash
	}

	if err := s.repos.Users.Update(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

func (s *Service) DeleteUser(ctx context.Context, actor Actor, id uuid.UUID) error {
	if id == actor.UserID {
		return invalid("cannot delete your own account")
	}
	u, err := s.repos.Users.GetByID(ctx, actor.CondominiumID, id)
	if err != nil {
		return err
	}
	if u.Role == domain.RoleAdmin && actor.Role != domain.RoleAdmin {
		return fmt.Errorf("%w: only admins can manage admins", domain.ErrForbidden)
	}
	return s.repos.Users.Delete(ctx, actor.CondominiumID, id)
}

// --- Condominiums ---

type CondominiumInput struct {
	Name     string
	Document string
	Address  string
	City     string
	State    string
	Units    int
}

func (in CondominiumInput) apply(c *domain.Condominium) {
	c.Name = strings.TrimSpace(in.Name)
	c.Document = in.Document
	c.Address = in.Address
	c.City = in.City
	c.State = strings.ToUpper(in.State)
	c.Units = in.Units
}

func (s *Service) ListCondominiums(ctx context.Context, page domain.Page) ([]*domain.Condominium, error) {
	return s.repos.Condominiums.List(ctx, page)
}

func (s *Service) GetCondominium(ctx context.Context, id uuid.UUID) (*domain.Condominium, error) {
	return s.repos.Condominiums.GetByID(ctx, id)
}

func (s *Service) CreateCondominium(ctx context.Context, in CondominiumInput) (*domain.Condominium, error) {
	c := &domain.Condominium{}
	in.apply(c)
	if err := s.repos.Condominiums.Create(ctx, c); err != nil {
		return nil, err
	}
	slog.InfoContext(ctx, "Condominium created", "condominium_id", c.ID, "name", c.Name)
	return c, nil
}

func (s *Service) UpdateCondominium(ctx context.Context, id uuid.UUID, in CondominiumInput) (*domain.Condominium, error) {
	c, err := s.repos.Condominiums.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	in.apply(c)
	if err := s.repos.Condominiums.Update(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

// --- Module permissions ---

// Permissions returns the flags for every known module.
func (s *Service) Permissions(ctx context.Context, condominiumID uuid.UUID) (domain.ModulePermissions, error) {
	perms, err := s.perms.Permissions(ctx, condominiumID)
	if err != nil {
		return nil, err
	}
	return perms.Complete(), nil
}

func (s *Service) ModuleEnabled(ctx context.Context, condominiumID uuid.UUID, m domain.Module) (bool, error) {
	perms, err := s.perms.Permissions(ctx, condominiumID)
	if err != nil {
		return false, err
	}
	return perms.Enabled(m), nil
}

// SetPermissions stores the given flags and drops every cached copy. Modules
// not mentioned keep their current value.
func (s *Service) SetPermissions(ctx context.Context, condominiumID uuid.UUID, perms domain.ModulePermissions) (domain.ModulePermissions, error) {
	if _, err := s.repos.Condominiums.GetByID(ctx, condominiumID); err != nil {
		return nil, err
	}
	if err := s.repos.Permissions.Set(ctx, condominiumID, perms); err != nil {
		return nil, err
	}
	if err := s.perms.Invalidate(ctx, condominiumID); err != nil {
		// Stale entries expire with the cache TTL; the write itself succeeded.
		slog.WarnContext(ctx, "Permission cache invalidation failed", "condominium_id", condominiumID, "error", err)
	}

	current, err := s.repos.Permissions.Get(ctx, condominiumID)
	if err != nil {
		return nil, err
	}
	slog.InfoContext(ctx, "Module permissions updated", "condominium_id", condominiumID)
	return current.Complete(), nil
}
