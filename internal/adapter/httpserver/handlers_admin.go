package httpserver

import (
	"net/http"

	"github.com/fmsilvestri/condobase/internal/app"
	"github.com/fmsilvestri/condobase/internal/domain"
	apperrors "github.com/fmsilvestri/condobase/internal/platform/errors"
	"github.com/labstack/echo/v4"
)

// --- Condominiums ---

type condominiumRequest struct {
	Name     string `json:"name" validate:"required,max=200"`
	Document string `json:"document" validate:"omitempty,max=20"`
	Address  string `json:"address" validate:"max=300"`
	City     string `json:"city" validate:"max=100"`
	State    string `json:"state" validate:"omitempty,len=2"`
	Units    int    `json:"units" validate:"gte=0"`
}

func (r condominiumRequest) input() app.CondominiumInput {
	return app.CondominiumInput{
		Name:     r.Name,
		Document: r.Document,
		Address:  r.Address,
		City:     r.City,
		State:    r.State,
		Units:    r.Units,
	}
}

func (s *Server) handleListCondominiums(c echo.Context) error {
	page, err := pageFrom(c)
	if err != nil {
		return err
	}
	condos, err := s.app.ListCondominiums(c.Request().Context(), page)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, list(condos, page))
}

func (s *Server) handleGetCondominium(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	condo, err := s.app.GetCondominium(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, condo)
}

func (s *Server) handleCreateCondominium(c echo.Context) error {
	var req condominiumRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	condo, err := s.app.CreateCondominium(c.Request().Context(), req.input())
	if err != nil {
		return err
	}
	return respond(c, http.StatusCreated, condo)
}

func (s *Server) handleUpdateCondominium(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	var req condominiumRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	condo, err := s.app.UpdateCondominium(c.Request().Context(), id, req.input())
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, condo)
}

// --- Users ---

type createUserRequest struct {
	Name     string      `json:"name" validate:"required,max=200"`
	Email    string      `json:"email" validate:"required,email"`
	Password string      `json:"password" validate:"required,min=8,max=72"`
	Role     domain.Role `json:"role" validate:"required,oneof=admin sindico staff resident"`
}

type updateUserRequest struct {
	Name     *string      `json:"name" validate:"omitempty,min=1,max=200"`
	Email    *string      `json:"email" validate:"omitempty,email"`
	Password *string      `json:"password" validate:"omitempty,min=8,max=72"`
	Role     *domain.Role `json:"role" validate:"omitempty,oneof=admin sindico staff resident"`
	Active   *bool        `json:"active"`
}

func (s *Server) handleListUsers(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	page, err := pageFrom(c)
	if err != nil {
		return err
	}
	users, err := s.app.ListUsers(c.Request().Context(), actor, page)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, list(users, page))
}

func (s *Server) handleGetUser(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	id, err := pathID(c)
	if err != nil {
		return err
	}
	user, err := s.app.GetUser(c.Request().Context(), actor, id)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, user)
}

func (s *Server) handleCreateUser(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	var req createUserRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	user, err := s.app.CreateUser(c.Request().Context(), actor, app.UserInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Role:     req.Role,
	})
	if err != nil {
		return err
	}
	return respond(c, http.StatusCreated, user)
}

func (s *Server) handleUpdateUser(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	id, err := pathID(c)
	if err != nil {
		return err
	}
	var req updateUserRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	user, err := s.app.UpdateUser(c.Request().Context(), actor, id, app.UserUpdate{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Role:     req.Role,
		Active:   req.Active,
	})
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, user)
}

func (s *Server) handleDeleteUser(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	id, err := pathID(c)
	if err != nil {
		return err
	}
	if err := s.app.DeleteUser(c.Request().Context(), actor, id); err != nil {
		return err
	}
	return noContent(c)
}

// --- Module permissions ---

func (s *Server) handleGetPermissions(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	perms, err := s.app.Permissions(c.Request().Context(), actor.CondominiumID)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, perms)
}

// handleSetPermissions accepts a partial {"module": bool} map; modules not
// named keep their current setting.
func (s *Server) handleSetPermissions(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	var req map[string]bool
	if err := (&echo.DefaultBinder{}).BindBody(c, &req); err != nil {
		return apperrors.ValidationError("malformed request body")
	}
	if len(req) == 0 {
		return apperrors.ValidationError("no modules given")
	}

	perms := make(domain.ModulePermissions, len(req))
	for name, enabled := range req {
		m, err := domain.ParseModule(name)
		if err != nil {
			return apperrors.ValidationError(err.Error()).WithField("module", name)
		}
		perms[m] = enabled
	}

	updated, err := s.app.SetPermissions(c.Request().Context(), actor.CondominiumID, perms)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, updated)
}
