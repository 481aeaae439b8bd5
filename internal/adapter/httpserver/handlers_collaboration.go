package httpserver

import (
	"net/http"
	"time"

	"github.com/fmsilvestri/condobase/internal/app"
	"github.com/fmsilvestri/condobase/internal/domain"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// --- Teams ---

type teamRequest struct {
	Name        string      `json:"name" validate:"required,max=200"`
	Description string      `json:"description" validate:"max=2000"`
	MemberIDs   []uuid.UUID `json:"member_ids" validate:"max=200"`
}

func (r teamRequest) input() app.TeamInput {
	return app.TeamInput{Name: r.Name, Description: r.Description, MemberIDs: r.MemberIDs}
}

func (s *Server) handleListTeams(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	page, err := pageFrom(c)
	if err != nil {
		return err
	}
	items, err := s.app.ListTeams(c.Request().Context(), actor, page)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, list(items, page))
}

func (s *Server) handleGetTeam(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	id, err := pathID(c)
	if err != nil {
		return err
	}
	t, err := s.app.GetTeam(c.Request().Context(), actor, id)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, t)
}

func (s *Server) handleCreateTeam(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	var req teamRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	t, err := s.app.CreateTeam(c.Request().Context(), actor, req.input())
	if err != nil {
		return err
	}
	return respond(c, http.StatusCreated, t)
}

func (s *Server) handleUpdateTeam(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	id, err := pathID(c)
	if err != nil {
		return err
	}
	var req teamRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	t, err := s.app.UpdateTeam(c.Request().Context(), actor, id, req.input())
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, t)
}

func (s *Server) handleDeleteTeam(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	id, err := pathID(c)
	if err != nil {
		return err
	}
	if err := s.app.DeleteTeam(c.Request().Context(), actor, id); err != nil {
		return err
	}
	return noContent(c)
}

// --- Processes ---

type processRequest struct {
	TeamID      *uuid.UUID           `json:"team_id"`
	Name        string               `json:"name" validate:"required,max=200"`
	Description string               `json:"description" validate:"max=5000"`
	Steps       []string             `json:"steps" validate:"max=100,dive,max=500"`
	Status      domain.ProcessStatus `json:"status" validate:"omitempty,oneof=draft active archived"`
}

func (r processRequest) input() app.ProcessInput {
	return app.ProcessInput{
		TeamID:      r.TeamID,
		Name:        r.Name,
		Description: r.Description,
		Steps:       r.Steps,
		Status:      r.Status,
	}
}

func (s *Server) handleListProcesses(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	page, err := pageFrom(c)
	if err != nil {
		return err
	}
	teamID, err := queryUUID(c, "team_id")
	if err != nil {
		return err
	}
	items, err := s.app.ListProcesses(c.Request().Context(), actor, teamID, page)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, list(items, page))
}

func (s *Server) handleGetProcess(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	id, err := pathID(c)
	if err != nil {
		return err
	}
	p, err := s.app.GetProcess(c.Request().Context(), actor, id)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, p)
}

func (s *Server) handleCreateProcess(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	var req processRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	p, err := s.app.CreateProcess(c.Request().Context(), actor, req.input())
	if err != nil {
		return err
	}
	return respond(c, http.StatusCreated, p)
}

func (s *Server) handleUpdateProcess(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	id, err := pathID(c)
	if err != nil {
		return err
	}
	var req processRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	p, err := s.app.UpdateProcess(c.Request().Context(), actor, id, req.input())
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, p)
}

func (s *Server) handleDeleteProcess(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	id, err := pathID(c)
	if err != nil {
		return err
	}
	if err := s.app.DeleteProcess(c.Request().Context(), actor, id); err != nil {
		return err
	}
	return noContent(c)
}

// --- Activity lists ---

type activityRequest struct {
	TeamID      *uuid.UUID `json:"team_id"`
	Title       string     `json:"title" validate:"required,max=200"`
	Description string     `json:"description" validate:"max=5000"`
	Schedule    string     `json:"schedule" validate:"required,max=100"`
	Items       []string   `json:"items" validate:"max=100,dive,max=500"`
	Active      *bool      `json:"active"`
}

func (r activityRequest) input() app.ActivityInput {
	return app.ActivityInput{
		TeamID:      r.TeamID,
		Title:       r.Title,
		Description: r.Description,
		Schedule:    r.Schedule,
		Items:       r.Items,
		Active:      r.Active,
	}
}

func (s *Server) handleListActivities(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	page, err := pageFrom(c)
	if err != nil {
		return err
	}
	items, err := s.app.ListActivities(c.Request().Context(), actor, page)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, list(items, page))
}

func (s *Server) handleGetActivity(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	id, err := pathID(c)
	if err != nil {
		return err
	}
	a, err := s.app.GetActivity(c.Request().Context(), actor, id)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, a)
}

func (s *Server) handleCreateActivity(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	var req activityRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	a, err := s.app.CreateActivity(c.Request().Context(), actor, req.input())
	if err != nil {
		return err
	}
	return respond(c, http.StatusCreated, a)
}

func (s *Server) handleUpdateActivity(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	id, err := pathID(c)
	if err != nil {
		return err
	}
	var req activityRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	a, err := s.app.UpdateActivity(c.Request().Context(), actor, id, req.input())
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, a)
}

func (s *Server) handleDeleteActivity(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	id, err := pathID(c)
	if err != nil {
		return err
	}
	if err := s.app.DeleteActivity(c.Request().Context(), actor, id); err != nil {
		return err
	}
	return noContent(c)
}

// --- Announcements ---

type announcementRequest struct {
	Title     string     `json:"title" validate:"required,max=200"`
	Body      string     `json:"body" validate:"required,max=10000"`
	Pinned    bool       `json:"pinned"`
	ExpiresAt *time.Time `json:"expires_at"`
}

func (r announcementRequest) input() app.AnnouncementInput {
	return app.AnnouncementInput{Title: r.Title, Body: r.Body, Pinned: r.Pinned, ExpiresAt: r.ExpiresAt}
}

func (s *Server) handleListAnnouncements(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	page, err := pageFrom(c)
	if err != nil {
		return err
	}
	includeExpired, err := queryBool(c, "include_expired")
	if err != nil {
		return err
	}
	items, err := s.app.ListAnnouncements(c.Request().Context(), actor, includeExpired, page)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, list(items, page))
}

func (s *Server) handleGetAnnouncement(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	id, err := pathID(c)
	if err != nil {
		return err
	}
	a, err := s.app.GetAnnouncement(c.Request().Context(), actor, id)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, a)
}

func (s *Server) handleCreateAnnouncement(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	var req announcementRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	a, err := s.app.CreateAnnouncement(c.Request().Context(), actor, req.input())
	if err != nil {
		return err
	}
	return respond(c, http.StatusCreated, a)
}

func (s *Server) handleUpdateAnnouncement(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	id, err := pathID(c)
	if err != nil {
		return err
	}
	var req announcementRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	a, err := s.app.UpdateAnnouncement(c.Request().Context(), actor, id, req.input())
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, a)
}

func (s *Server) handleDeleteAnnouncement(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	id, err := pathID(c)
	if err != nil {
		return err
	}
	if err := s.app.DeleteAnnouncement(c.Request().Context(), actor, id); err != nil {
		return err
	}
	return noContent(c)
}
