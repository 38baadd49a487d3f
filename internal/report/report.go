// Package report builds read-side summaries over the imported hierarchy:
// company overview, per-area KPIs and single-initiative status. Summaries
// carry a Spanish one-line "resumen" alongside the raw figures, matching
// what the conversational frontend reads back to users.
package report

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/stratixlabs/okrimport/internal/ingest"
	"github.com/stratixlabs/okrimport/internal/store"
)

// Store is the read surface the reporting queries run against.
type Store interface {
	ListAreas(ctx context.Context, tenantID uuid.UUID) ([]ingest.Area, error)
	GetCompanyStats(ctx context.Context, tenantID uuid.UUID) (*store.CompanyStats, error)
	GetAreaStats(ctx context.Context, areaID uuid.UUID) (*store.AreaStats, error)
	FindInitiativeByTitle(ctx context.Context, tenantID uuid.UUID, title string) (*store.InitiativeDetail, error)
}

var _ Store = (*store.Store)(nil)

// Service answers reporting queries against the store.
type Service struct {
	store Store
	log   *slog.Logger
}

// NewService wires a reporting service to the store.
func NewService(st Store, log *slog.Logger) *Service {
	if log == nil {
		log = slog.Default()
	}
	return &Service{store: st, log: log}
}

// ErrAreaNotFound is returned when an area name resolves to nothing.
var ErrAreaNotFound = errors.New("area not found")

// CompanyOverview is the tenant-wide rollup.
type CompanyOverview struct {
	Areas       int     `json:"areas"`
	Initiatives int     `json:"initiatives"`
	AvgProgress float64 `json:"avg_progress"`
	Completed   int     `json:"completed"`
	Resumen     string  `json:"resumen"`
}

// AreaKPIs summarizes one area.
type AreaKPIs struct {
	Area        string  `json:"area"`
	Initiatives int     `json:"initiatives"`
	AvgProgress float64 `json:"avg_progress"`
	Completed   int     `json:"completed"`
	Resumen     string  `json:"resumen"`
}

// InitiativeStatus is the status of a single initiative, looked up by name.
type InitiativeStatus struct {
	Initiative string `json:"initiative"`
	Area       string `json:"area"`
	Progress   int    `json:"progress"`
	Status     string `json:"status"`
	Owner      string `json:"owner,omitempty"`
	DueDate    string `json:"due_date,omitempty"`
	Resumen    string `json:"resumen"`
}

// Overview rolls up every initiative of the tenant.
func (s *Service) Overview(ctx context.Context, tenantID uuid.UUID) (*CompanyOverview, error) {
	stats, err := s.store.GetCompanyStats(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	return &CompanyOverview{
		Areas:       stats.Areas,
		Initiatives: stats.Initiatives,
		AvgProgress: stats.AvgProgress,
		Completed:   stats.Completed,
		Resumen: fmt.Sprintf(
			"Tu empresa tiene %d iniciativas activas distribuidas en %d áreas. Progreso promedio: %.1f%%. %d iniciativas completadas.",
			stats.Initiatives, stats.Areas, stats.AvgProgress, stats.Completed),
	}, nil
}

// AreaKPIs resolves an area by name (through the same matcher the import
// pipeline uses, so "mkt" or "Ventas " find their canonical area) and
// aggregates its initiatives.
func (s *Service) AreaKPIs(ctx context.Context, tenantID uuid.UUID, areaName string) (*AreaKPIs, error) {
	areas, err := s.store.ListAreas(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	match := ingest.MatchArea(areaName, areas)
	if !match.Matched {
		return nil, fmt.Errorf("%w: %q", ErrAreaNotFound, areaName)
	}

	stats, err := s.store.GetAreaStats(ctx, match.Area.ID)
	if err != nil {
		return nil, err
	}

	return &AreaKPIs{
		Area:        match.Area.Name,
		Initiatives: stats.Initiatives,
		AvgProgress: stats.AvgProgress,
		Completed:   stats.Completed,
		Resumen: fmt.Sprintf(
			"El área '%s' tiene %d iniciativas con un progreso promedio del %.1f%%. %d iniciativas completadas.",
			match.Area.Name, stats.Initiatives, stats.AvgProgress, stats.Completed),
	}, nil
}

// InitiativeStatus looks one initiative up by (partial) title.
func (s *Service) InitiativeStatus(ctx context.Context, tenantID uuid.UUID, name string) (*InitiativeStatus, error) {
	d, err := s.store.FindInitiativeByTitle(ctx, tenantID, name)
	if err != nil {
		return nil, err
	}

	return &InitiativeStatus{
		Initiative: d.Title,
		Area:       d.AreaName,
		Progress:   d.Progress,
		Status:     d.Status,
		Owner:      d.Owner,
		DueDate:    d.DueDate,
		Resumen: fmt.Sprintf(
			"La iniciativa '%s' en el área %s tiene un progreso del %d%%. Estado: %s.",
			d.Title, d.AreaName, d.Progress, d.Status),
	}, nil
}
