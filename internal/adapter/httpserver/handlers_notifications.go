package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

func (s *Server) handleListNotifications(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	page, err := pageFrom(c)
	if err != nil {
		return err
	}
	unreadOnly, err := queryBool(c, "unread")
	if err != nil {
		return err
	}
	items, err := s.app.ListNotifications(c.Request().Context(), actor, unreadOnly, page)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, list(items, page))
}

func (s *Server) handleMarkNotificationRead(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	id, err := pathID(c)
	if err != nil {
		return err
	}
	if err := s.app.MarkNotificationRead(c.Request().Context(), actor, id); err != nil {
		return err
	}
	return noContent(c)
}
