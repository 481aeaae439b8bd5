package httpserver

import (
	"net/http"

	"github.com/fmsilvestri/condobase/internal/auth"
	"github.com/fmsilvestri/condobase/internal/domain"
	apperrors "github.com/fmsilvestri/condobase/internal/platform/errors"
	"github.com/labstack/echo/v4"
)

func (s *Server) registerAuthRoutes(g *echo.Group) {
	limiter := newRateLimiter(s.config.LoginRatePerSecond, s.config.LoginBurst)
	g.POST("/auth/login", s.handleLogin, limiter)
	g.GET("/me", s.handleMe, s.requireAuth)
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

func (s *Server) handleLogin(c echo.Context) error {
	var req loginRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	result, err := s.app.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, result)
}

type meResponse struct {
	User        *domain.User             `json:"user"`
	Permissions domain.ModulePermissions `json:"permissions"`
}

// handleMe returns the caller and the module switches of the condominium
// they act on, which is what a client needs to build its navigation.
func (s *Server) handleMe(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	ctx := c.Request().Context()

	// An admin acting on another condominium still lives in their own.
	principal, ok := c.Get(principalKey).(*auth.Principal)
	if !ok {
		return apperrors.InternalError("missing principal in context", nil)
	}
	user, err := s.app.Me(ctx, principal.CondominiumID, principal.UserID)
	if err != nil {
		return err
	}
	perms, err := s.app.Permissions(ctx, actor.CondominiumID)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, meResponse{User: user, Permissions: perms})
}
