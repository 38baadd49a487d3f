package store

// reads.go holds the aggregate queries behind the reporting endpoints:
// company-wide rollups, per-area KPI stats and single-initiative lookups.

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
)

// ErrInitiativeNotFound is returned when no initiative matches a lookup.
var ErrInitiativeNotFound = errors.New("initiative not found")

// AreaStats aggregates the initiatives of one area.
type AreaStats struct {
	Initiatives int     `json:"initiatives"`
	AvgProgress float64 `json:"avg_progress"`
	Completed   int     `json:"completed"`
}

// CompanyStats aggregates the whole tenant.
type CompanyStats struct {
	Areas       int     `json:"areas"`
	Initiatives int     `json:"initiatives"`
	AvgProgress float64 `json:"avg_progress"`
	Completed   int     `json:"completed"`
}

// InitiativeDetail is the read model of a single initiative.
type InitiativeDetail struct {
	ID       uuid.UUID `json:"id"`
	Title    string    `json:"title"`
	AreaName string    `json:"area_name"`
	Progress int       `json:"progress"`
	Status   string    `json:"status"`
	Owner    string    `json:"owner,omitempty"`
	DueDate  string    `json:"due_date,omitempty"`
}

// GetAreaStats aggregates initiative progress for one area.
func (s *Store) GetAreaStats(ctx context.Context, areaID uuid.UUID) (*AreaStats, error) {
	var stats AreaStats
	err := s.db.QueryRow(ctx,
		`SELECT count(*),
		        coalesce(avg(progress), 0),
		        count(*) FILTER (WHERE progress >= 100 OR status = 'on_track')
		 FROM initiatives WHERE area_id = $1`,
		pgUUID(areaID)).
		Scan(&stats.Initiatives, &stats.AvgProgress, &stats.Completed)
	if err != nil {
		return nil, fmt.Errorf("area stats: %w", err)
	}
	return &stats, nil
}

// GetCompanyStats aggregates initiative progress across the tenant.
func (s *Store) GetCompanyStats(ctx context.Context, tenantID uuid.UUID) (*CompanyStats, error) {
	var stats CompanyStats
	err := s.db.QueryRow(ctx,
		`SELECT (SELECT count(*) FROM areas WHERE tenant_id = $1),
		        count(i.id),
		        coalesce(avg(i.progress), 0),
		        count(i.id) FILTER (WHERE i.progress >= 100 OR i.status = 'on_track')
		 FROM initiatives i WHERE i.tenant_id = $1`,
		pgUUID(tenantID)).
		Scan(&stats.Areas, &stats.Initiatives, &stats.AvgProgress, &stats.Completed)
	if err != nil {
		return nil, fmt.Errorf("company stats: %w", err)
	}
	return &stats, nil
}

// FindInitiativeByTitle resolves one initiative by case-insensitive title
// match, preferring exact matches over partial ones.
func (s *Store) FindInitiativeByTitle(ctx context.Context, tenantID uuid.UUID, title string) (*InitiativeDetail, error) {
	var (
		d       InitiativeDetail
		id      pgtype.UUID
		owner   pgtype.Text
		dueDate pgtype.Text
	)

	err := s.db.QueryRow(ctx,
		`SELECT i.id, i.title, a.name, i.progress, i.status, i.owner, i.due_date
		 FROM initiatives i
		 JOIN areas a ON a.id = i.area_id
		 WHERE i.tenant_id = $1 AND i.title ILIKE '%' || $2 || '%'
		 ORDER BY (lower(i.title) = lower($2)) DESC, length(i.title)
		 LIMIT 1`,
		pgUUID(tenantID), title).
		Scan(&id, &d.Title, &d.AreaName, &d.Progress, &d.Status, &owner, &dueDate)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrInitiativeNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find initiative: %w", err)
	}

	d.ID = uuid.UUID(id.Bytes)
	if owner.Valid {
		d.Owner = owner.String
	}
	if dueDate.Valid {
		d.DueDate = dueDate.String
	}
	return &d, nil
}
