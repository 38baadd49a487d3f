// Package ingest reconstructs the area/objective/initiative/activity
// hierarchy from loosely structured OKR workbooks.
//
// The pipeline is strictly sequential per upload: sheets in workbook order,
// rows in document order. Entities created while persisting row N are reused
// by row N+1 through the batch-local dedup maps, so ordering is a contract,
// not an accident.
package ingest

import (
	"context"

	"github.com/google/uuid"
)

// Field is a canonical domain attribute that sheet columns are mapped onto.
type Field string

const (
	FieldArea      Field = "area"
	FieldObjective Field = "objective"
	FieldAction    Field = "action"
	FieldProgress  Field = "progress"
	FieldStatus    Field = "status"
	FieldPriority  Field = "priority"
	FieldOwner     Field = "owner"
	FieldDueDate   Field = "due_date"
	FieldResult    Field = "result"
	FieldObstacle  Field = "obstacle"
	FieldEnhancer  Field = "enhancer"
)

// HeaderMap binds canonical fields to column indexes within one sheet.
// A column index is assigned to at most one field (first match wins).
type HeaderMap map[Field]int

// Status is the qualitative traffic-light category of a row.
type Status string

const (
	StatusOnTrack    Status = "on_track"
	StatusInProgress Status = "in_progress"
	StatusBlocked    Status = "blocked"
)

// Priority is the coarse priority bucket of an initiative.
type Priority string

const (
	PriorityUnset  Priority = ""
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// Area is one entry of the tenant's canonical area list.
type Area struct {
	ID   uuid.UUID
	Name string
}

// ParsedRow is the typed record extracted from one data row, plus its
// provenance. Rows are transient: they exist only between the Row Processor
// and the Entity Persister.
type ParsedRow struct {
	SheetName string
	RowNumber int // 1-based row in the source sheet

	Area       AreaMatch
	AreaName   string // raw candidate when no canonical area matched
	Objective  string
	Initiative string
	Progress   int
	Status     Status
	Priority   Priority
	Owner      string
	DueDate    string
	Result     string
	Obstacle   string
	Enhancer   string

	Diagnostics []string
}

// InitiativeRecord carries the initiative attributes handed to the store.
type InitiativeRecord struct {
	Title    string
	Progress int
	Status   Status
	Priority Priority
	Owner    string
	DueDate  string
}

// Store is the write surface of the external relational store. Each call is
// a single-row insert returning the generated id; there is no transaction
// spanning calls and no rollback of earlier writes on failure.
type Store interface {
	ListAreas(ctx context.Context, tenantID uuid.UUID) ([]Area, error)
	CreateArea(ctx context.Context, tenantID uuid.UUID, name string) (uuid.UUID, error)
	CreateObjective(ctx context.Context, tenantID, areaID uuid.UUID, title string, progress int, status Status) (uuid.UUID, error)
	CreateInitiative(ctx context.Context, tenantID, areaID uuid.UUID, rec InitiativeRecord) (uuid.UUID, error)
	LinkInitiativeToObjective(ctx context.Context, initiativeID, objectiveID uuid.UUID) error
	CreateActivity(ctx context.Context, initiativeID uuid.UUID, title string, completed bool) (uuid.UUID, error)
}
