package httpserver

import (
	"fmt"
	"net/http"

	apperrors "github.com/fmsilvestri/condobase/internal/platform/errors"
	"github.com/labstack/echo/v4"
)

const mimePDF = "application/pdf"

func (s *Server) handleMaintenanceReport(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	filter, err := maintenanceFilterFrom(c)
	if err != nil {
		return err
	}
	pdf, err := s.app.MaintenanceReport(c.Request().Context(), actor, filter)
	if err != nil {
		return err
	}
	return sendPDF(c, "manutencoes.pdf", pdf)
}

func (s *Server) handleReadingsReport(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	filter, err := readingFilterFrom(c)
	if err != nil {
		return err
	}
	if filter.Kind == "" {
		return apperrors.ValidationError("kind is required")
	}
	pdf, err := s.app.ReadingsReport(c.Request().Context(), actor, filter)
	if err != nil {
		return err
	}
	return sendPDF(c, fmt.Sprintf("leituras-%s.pdf", filter.Kind), pdf)
}

func sendPDF(c echo.Context, filename string, body []byte) error {
	c.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", filename))
	c.Response().Header().Set("Cache-Control", "no-store")
	if err := c.Blob(http.StatusOK, mimePDF, body); err != nil {
		return fmt.Errorf("failed to send PDF response: %w", err)
	}
	return nil
}
