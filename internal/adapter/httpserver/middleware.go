package httpserver

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"slices"
	"strings"

	"github.com/fmsilvestri/condobase/internal/app"
	"github.com/fmsilvestri/condobase/internal/domain"
	"github.com/fmsilvestri/condobase/internal/platform/correlation"
	apperrors "github.com/fmsilvestri/condobase/internal/platform/errors"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// condominiumHeader lets an admin act on a condominium other than the one in
// their token.
const condominiumHeader = "X-Condominium-ID"

const (
	actorKey     = "actor"
	principalKey = "principal"
)

func correlationMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		id := correlation.FromHeader(c.Request().Header.Get(correlation.Header))
		ctx := correlation.WithID(c.Request().Context(), id)
		c.SetRequest(c.Request().WithContext(ctx))
		c.Response().Header().Set(correlation.Header, id)
		return next(c)
	}
}

// requireAuth verifies the bearer token, checks the account is still active
// and stores the acting identity with the account's current role.
func (s *Server) requireAuth(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		token, ok := bearerToken(c.Request())
		if !ok {
			return apperrors.UnauthorizedError("missing bearer token")
		}
		principal, err := s.verifier.Verify(token)
		if err != nil {
			return apperrors.UnauthorizedError("invalid or expired token")
		}
		user, err := s.app.Authenticate(c.Request().Context(), principal)
		if errors.Is(err, domain.ErrInvalidCredentials) {
			return apperrors.UnauthorizedError("account is inactive or no longer exists")
		}
		if err != nil {
			return err
		}

		actor := app.Actor{
			UserID:        user.ID,
			CondominiumID: user.CondominiumID,
			Role:          user.Role,
		}
		if raw := c.Request().Header.Get(condominiumHeader); raw != "" && actor.Role == domain.RoleAdmin {
			id, err := uuid.Parse(raw)
			if err != nil {
				return apperrors.ValidationError("invalid " + condominiumHeader).WithField("value", raw)
			}
			actor.CondominiumID = id
		}

		c.Set(principalKey, principal)
		c.Set(actorKey, actor)
		return next(c)
	}
}

func bearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get(echo.HeaderAuthorization)
	token, ok := strings.CutPrefix(header, "Bearer ")
	if !ok || token == "" {
		return "", false
	}
	return token, true
}

func actorFrom(c echo.Context) (app.Actor, error) {
	actor, ok := c.Get(actorKey).(app.Actor)
	if !ok {
		return app.Actor{}, apperrors.InternalError("missing actor in context", nil)
	}
	return actor, nil
}

func requireRole(roles ...domain.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			actor, err := actorFrom(c)
			if err != nil {
				return err
			}
			if !slices.Contains(roles, actor.Role) {
				return apperrors.ForbiddenError("insufficient role").WithField("role", actor.Role)
			}
			return next(c)
		}
	}
}

var (
	requireManager = requireRole(domain.RoleAdmin, domain.RoleSindico)
	requireStaff   = requireRole(domain.RoleAdmin, domain.RoleSindico, domain.RoleStaff)
)

// requireModule rejects requests for modules the condominium switched off.
func (s *Server) requireModule(m domain.Module) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			actor, err := actorFrom(c)
			if err != nil {
				return err
			}
			enabled, err := s.app.ModuleEnabled(c.Request().Context(), actor.CondominiumID, m)
			if err != nil {
				return apperrors.InternalError("failed to load module permissions", err)
			}
			if !enabled {
				return apperrors.ForbiddenError(domain.ErrModuleDisabled.Error()).WithField("module", m)
			}
			return next(c)
		}
	}
}

func ErrorHandlingMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			err := next(c)
			if err == nil {
				return nil
			}

			var httpErr *echo.HTTPError
			if errors.As(err, &httpErr) {
				err = WrapHTTPError(httpErr)
			}

			structuredErr := translateError(err)
			logError(c, structuredErr)

			if err := c.JSON(structuredErr.HTTPStatus(), structuredErr.ToResponse()); err != nil {
				return fmt.Errorf("failed to write error response: %w", err)
			}
			return nil
		}
	}
}

// translateError maps sentinel domain errors to structured errors. Anything
// unrecognised becomes an internal error.
func translateError(err error) *apperrors.Error {
	var structuredErr *apperrors.Error
	if errors.As(err, &structuredErr) {
		return structuredErr
	}

	switch {
	case errors.Is(err, domain.ErrNotFound):
		return apperrors.NotFoundError(err.Error())
	case errors.Is(err, domain.ErrInvalidInput),
		errors.Is(err, domain.ErrInvalidTransition),
		errors.Is(err, domain.ErrInvalidSchedule):
		return apperrors.ValidationError(err.Error())
	case errors.Is(err, domain.ErrConflict), errors.Is(err, domain.ErrInsufficientStock):
		return apperrors.ConflictError(err.Error())
	case errors.Is(err, domain.ErrInvalidCredentials):
		return apperrors.UnauthorizedError(err.Error())
	case errors.Is(err, domain.ErrForbidden), errors.Is(err, domain.ErrModuleDisabled):
		return apperrors.ForbiddenError(err.Error())
	default:
		return apperrors.AsStructuredError(err)
	}
}

func logError(c echo.Context, err *apperrors.Error) {
	ctx := c.Request().Context()
	attrs := []any{
		"error_type", err.Type,
		"message", err.Message,
		"path", c.Request().URL.Path,
		"method", c.Request().Method,
		"status", err.HTTPStatus(),
	}

	for k, v := range err.Context {
		attrs = append(attrs, k, v)
	}

	if actor, ok := c.Get(actorKey).(app.Actor); ok {
		attrs = append(attrs, "user_id", actor.UserID, "condominium_id", actor.CondominiumID)
	}

	switch err.Type {
	case apperrors.TypeValidation:
		slog.InfoContext(ctx, "Validation error", attrs...)
	case apperrors.TypeUnauthorized, apperrors.TypeForbidden:
		slog.InfoContext(ctx, "Access denied", attrs...)
	case apperrors.TypeNotFound:
		slog.InfoContext(ctx, "Not found", attrs...)
	case apperrors.TypeConflict:
		slog.WarnContext(ctx, "Conflict", attrs...)
	case apperrors.TypeInternal:
		if err.Cause != nil {
			attrs = append(attrs, "cause", err.Cause)
		}
		slog.ErrorContext(ctx, "Internal error", attrs...)
	case apperrors.TypeExternal:
		if err.Cause != nil {
			attrs = append(attrs, "cause", err.Cause)
		}
		slog.ErrorContext(ctx, "External service error", attrs...)
	default:
		slog.ErrorContext(ctx, "Unknown error type", attrs...)
	}
}

func WrapHTTPError(httpErr *echo.HTTPError) *apperrors.Error {
	message := http.StatusText(httpErr.Code)
	if msg, ok := httpErr.Message.(string); ok && msg != "" {
		message = msg
	}
	if message == "" {
		message = "internal server error"
	}

	var errType apperrors.ErrorType
	switch httpErr.Code {
	case http.StatusBadRequest, http.StatusRequestEntityTooLarge, http.StatusUnsupportedMediaType:
		errType = apperrors.TypeValidation
	case http.StatusUnauthorized:
		errType = apperrors.TypeUnauthorized
	case http.StatusForbidden:
		errType = apperrors.TypeForbidden
	case http.StatusNotFound, http.StatusMethodNotAllowed:
		errType = apperrors.TypeNotFound
	case http.StatusConflict:
		errType = apperrors.TypeConflict
	case http.StatusBadGateway, http.StatusServiceUnavailable:
		errType = apperrors.TypeExternal
	default:
		errType = apperrors.TypeInternal
	}

	err := &apperrors.Error{
		Type:    errType,
		Message: message,
		Context: make(map[string]any),
	}

	if httpErr.Internal != nil {
		err.Cause = httpErr.Internal
	}

	return err
}
