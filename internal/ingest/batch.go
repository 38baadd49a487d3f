package ingest

// batch.go holds the state of one workbook import.
//
// The dedup maps are an explicit parameter threaded through the pipeline,
// never package state: two concurrent uploads each get their own Batch and
// never observe each other's entities. Dedup is batch-scoped only; the same
// workbook imported twice creates the hierarchy twice. That is the current
// contract.

import (
	"fmt"

	"github.com/google/uuid"
)

// Counts tallies entities created during one batch.
type Counts struct {
	Areas       int `json:"areas"`
	Objectives  int `json:"objectives"`
	Initiatives int `json:"initiatives"`
	Activities  int `json:"activities"`
	Links       int `json:"links"`
	Rows        int `json:"rows"`
}

// Batch is the transient, in-memory state of a single workbook upload.
type Batch struct {
	TenantID uuid.UUID

	areas       map[string]uuid.UUID // folded name -> id, seeded with canonical areas
	objectives  map[string]uuid.UUID // folded title -> id
	initiatives map[string]uuid.UUID
	links       map[string]struct{} // initiative id + objective id

	Counts Counts
	Errors []string
}

// NewBatch creates the batch state for one upload, seeding the area map
// with the tenant's canonical areas.
func NewBatch(tenantID uuid.UUID, areas []Area) *Batch {
	b := &Batch{
		TenantID:    tenantID,
		areas:       make(map[string]uuid.UUID, len(areas)),
		objectives:  make(map[string]uuid.UUID),
		initiatives: make(map[string]uuid.UUID),
		links:       make(map[string]struct{}),
	}
	for _, a := range areas {
		b.areas[foldForMatch(a.Name)] = a.ID
	}
	return b
}

// Errorf appends a human-readable error to the batch, in arrival order.
func (b *Batch) Errorf(format string, args ...any) {
	b.Errors = append(b.Errors, fmt.Sprintf(format, args...))
}

func (b *Batch) areaID(name string) (uuid.UUID, bool) {
	id, ok := b.areas[foldForMatch(name)]
	return id, ok
}

func (b *Batch) rememberArea(name string, id uuid.UUID) {
	b.areas[foldForMatch(name)] = id
}

func (b *Batch) objectiveID(title string) (uuid.UUID, bool) {
	id, ok := b.objectives[foldForMatch(title)]
	return id, ok
}

func (b *Batch) rememberObjective(title string, id uuid.UUID) {
	b.objectives[foldForMatch(title)] = id
}

func (b *Batch) initiativeID(title string) (uuid.UUID, bool) {
	id, ok := b.initiatives[foldForMatch(title)]
	return id, ok
}

func (b *Batch) rememberInitiative(title string, id uuid.UUID) {
	b.initiatives[foldForMatch(title)] = id
}

func (b *Batch) linkSeen(initiativeID, objectiveID uuid.UUID) bool {
	key := initiativeID.String() + "|" + objectiveID.String()
	if _, ok := b.links[key]; ok {
		return true
	}
	b.links[key] = struct{}{}
	return false
}
