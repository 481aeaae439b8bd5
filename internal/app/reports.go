package app

import (
	"context"
	"fmt"

	"github.com/fmsilvestri/condobase/internal/domain"
	"github.com/fmsilvestri/condobase/internal/report"
)

// reportRowLimit bounds the rows rendered into a single PDF.
const reportRowLimit = 2000

func (s *Service) MaintenanceReport(ctx context.Context, actor Actor, filter domain.MaintenanceFilter) ([]byte, error) {
	condo, err := s.repos.Condominiums.GetByID(ctx, actor.CondominiumID)
	if err != nil {
		return nil, err
	}
	requests, err := s.repos.Maintenance.List(ctx, actor.CondominiumID, filter, domain.Page{Limit: reportRowLimit})
	if err != nil {
		return nil, err
	}
	pdf, err := report.MaintenanceReport(condo, requests, s.now())
	if err != nil {
		return nil, fmt.Errorf("maintenance report: %w", err)
	}
	return pdf, nil
}

func (s *Service) ReadingsReport(ctx context.Context, actor Actor, filter domain.ReadingFilter) ([]byte, error) {
	condo, err := s.repos.Condominiums.GetByID(ctx, actor.CondominiumID)
	if err != nil {
		return nil, err
	}
	summary, err := s.Consumption(ctx, actor, filter)
	if err != nil {
		return nil, err
	}
	pdf, err := report.ReadingsReport(condo, filter.Kind, summary.Points, s.now())
	if err != nil {
		return nil, fmt.Errorf("readings report: %w", err)
	}
	return pdf, nil
}
