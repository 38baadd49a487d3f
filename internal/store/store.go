// Package store is the PostgreSQL persistence layer.
//
// Every write the ingestion pipeline issues is a single-row insert
// returning the generated id. There is intentionally no transaction
// spanning an import batch: best-effort semantics are part of the
// pipeline's contract, and the DBTX interface lets callers pass either the
// pool or a transaction where a narrower scope is wanted.
package store

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/stratixlabs/okrimport/internal/ingest"
)

// DBTX is the interface for database operations.
// Satisfied by both *pgxpool.Pool and pgx.Tx.
type DBTX interface {
	Exec(context.Context, string, ...interface{}) (pgconn.CommandTag, error)
	Query(context.Context, string, ...interface{}) (pgx.Rows, error)
	QueryRow(context.Context, string, ...interface{}) pgx.Row
}

// Store implements the persistence surface of the import pipeline and the
// read models of the reporting endpoints.
type Store struct {
	db DBTX
}

var _ ingest.Store = (*Store)(nil)

// New creates a Store on top of a pool or transaction.
func New(db DBTX) *Store {
	return &Store{db: db}
}

// ListAreas returns the tenant's canonical area list, ordered by name.
func (s *Store) ListAreas(ctx context.Context, tenantID uuid.UUID) ([]ingest.Area, error) {
	rows, err := s.db.Query(ctx,
		`SELECT id, name FROM areas WHERE tenant_id = $1 ORDER BY name`,
		pgUUID(tenantID))
	if err != nil {
		return nil, fmt.Errorf("list areas: %w", err)
	}
	defer rows.Close()

	var areas []ingest.Area
	for rows.Next() {
		var id pgtype.UUID
		var name string
		if err := rows.Scan(&id, &name); err != nil {
			return nil, fmt.Errorf("scan area: %w", err)
		}
		areas = append(areas, ingest.Area{ID: uuid.UUID(id.Bytes), Name: name})
	}
	return areas, rows.Err()
}

// CreateArea inserts a tenant-owned area and returns its generated id.
func (s *Store) CreateArea(ctx context.Context, tenantID uuid.UUID, name string) (uuid.UUID, error) {
	return s.insertReturningID(ctx,
		`INSERT INTO areas (tenant_id, name) VALUES ($1, $2) RETURNING id`,
		pgUUID(tenantID), name)
}

// CreateObjective inserts an objective under an area.
func (s *Store) CreateObjective(ctx context.Context, tenantID, areaID uuid.UUID, title string, progress int, status ingest.Status) (uuid.UUID, error) {
	return s.insertReturningID(ctx,
		`INSERT INTO objectives (tenant_id, area_id, title, progress, status)
		 VALUES ($1, $2, $3, $4, $5) RETURNING id`,
		pgUUID(tenantID), pgUUID(areaID), title, progress, string(status))
}

// CreateInitiative inserts an initiative under an area.
func (s *Store) CreateInitiative(ctx context.Context, tenantID, areaID uuid.UUID, rec ingest.InitiativeRecord) (uuid.UUID, error) {
	return s.insertReturningID(ctx,
		`INSERT INTO initiatives (tenant_id, area_id, title, progress, status, priority, owner, due_date)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8) RETURNING id`,
		pgUUID(tenantID), pgUUID(areaID), rec.Title, rec.Progress, string(rec.Status),
		nullText(string(rec.Priority)), nullText(rec.Owner), nullText(rec.DueDate))
}

// LinkInitiativeToObjective creates the explicit join record. The join is
// idempotent at the database level as well: replays hit the primary key
// and do nothing.
func (s *Store) LinkInitiativeToObjective(ctx context.Context, initiativeID, objectiveID uuid.UUID) error {
	_, err := s.db.Exec(ctx,
		`INSERT INTO initiative_objectives (initiative_id, objective_id)
		 VALUES ($1, $2) ON CONFLICT DO NOTHING`,
		pgUUID(initiativeID), pgUUID(objectiveID))
	if err != nil {
		return fmt.Errorf("link initiative to objective: %w", err)
	}
	return nil
}

// CreateActivity inserts a leaf activity under an initiative.
func (s *Store) CreateActivity(ctx context.Context, initiativeID uuid.UUID, title string, completed bool) (uuid.UUID, error) {
	return s.insertReturningID(ctx,
		`INSERT INTO activities (initiative_id, title, completed)
		 VALUES ($1, $2, $3) RETURNING id`,
		pgUUID(initiativeID), title, completed)
}

func (s *Store) insertReturningID(ctx context.Context, sql string, args ...interface{}) (uuid.UUID, error) {
	var id pgtype.UUID
	if err := s.db.QueryRow(ctx, sql, args...).Scan(&id); err != nil {
		return uuid.UUID{}, err
	}
	return uuid.UUID(id.Bytes), nil
}

func pgUUID(id uuid.UUID) pgtype.UUID {
	return pgtype.UUID{Bytes: id, Valid: true}
}

func nullText(s string) pgtype.Text {
	if s == "" {
		return pgtype.Text{}
	}
	return pgtype.Text{String: s, Valid: true}
}
