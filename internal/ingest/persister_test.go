package ingest

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/uuid"
)

// fakeStore records every write in memory. Individual calls can be made to
// fail by name to exercise the best-effort error paths.
type fakeStore struct {
	areas []Area

	createdAreas       []string
	createdObjectives  []string
	objectiveStatuses  []Status
	createdInitiatives []InitiativeRecord
	createdActivities  []fakeActivity
	links              []fakeLink

	failOn map[string]error
}

type fakeActivity struct {
	InitiativeID uuid.UUID
	Title        string
	Completed    bool
}

type fakeLink struct {
	InitiativeID uuid.UUID
	ObjectiveID  uuid.UUID
}

func newFakeStore(areas ...Area) *fakeStore {
	return &fakeStore{areas: areas, failOn: map[string]error{}}
}

func (f *fakeStore) ListAreas(_ context.Context, _ uuid.UUID) ([]Area, error) {
	if err := f.failOn["ListAreas"]; err != nil {
		return nil, err
	}
	return f.areas, nil
}

func (f *fakeStore) CreateArea(_ context.Context, _ uuid.UUID, name string) (uuid.UUID, error) {
	if err := f.failOn["CreateArea"]; err != nil {
		return uuid.UUID{}, err
	}
	f.createdAreas = append(f.createdAreas, name)
	return uuid.New(), nil
}

func (f *fakeStore) CreateObjective(_ context.Context, _, _ uuid.UUID, title string, _ int, status Status) (uuid.UUID, error) {
	if err := f.failOn["CreateObjective"]; err != nil {
		return uuid.UUID{}, err
	}
	f.createdObjectives = append(f.createdObjectives, title)
	f.objectiveStatuses = append(f.objectiveStatuses, status)
	return uuid.New(), nil
}

func (f *fakeStore) CreateInitiative(_ context.Context, _, _ uuid.UUID, rec InitiativeRecord) (uuid.UUID, error) {
	if err := f.failOn["CreateInitiative"]; err != nil {
		return uuid.UUID{}, err
	}
	f.createdInitiatives = append(f.createdInitiatives, rec)
	return uuid.New(), nil
}

func (f *fakeStore) LinkInitiativeToObjective(_ context.Context, initiativeID, objectiveID uuid.UUID) error {
	if err := f.failOn["LinkInitiativeToObjective"]; err != nil {
		return err
	}
	f.links = append(f.links, fakeLink{initiativeID, objectiveID})
	return nil
}

func (f *fakeStore) CreateActivity(_ context.Context, initiativeID uuid.UUID, title string, completed bool) (uuid.UUID, error) {
	if err := f.failOn["CreateActivity"]; err != nil {
		return uuid.UUID{}, err
	}
	f.createdActivities = append(f.createdActivities, fakeActivity{initiativeID, title, completed})
	return uuid.New(), nil
}

var _ Store = (*fakeStore)(nil)

func matchedRow(area Area, objective, initiative string) ParsedRow {
	return ParsedRow{
		SheetName:  area.Name,
		RowNumber:  2,
		Area:       AreaMatch{Matched: true, Area: area, Confidence: 1.0, Type: MatchExact},
		AreaName:   area.Name,
		Objective:  objective,
		Initiative: initiative,
		Progress:   50,
		Status:     StatusInProgress,
	}
}

func TestPersistRow_ObjectiveDedup(t *testing.T) {
	area := Area{ID: uuid.New(), Name: "Ventas"}
	store := newFakeStore(area)
	p := NewPersister(store, nil)
	b := NewBatch(uuid.New(), []Area{area})

	ctx := context.Background()
	p.PersistRow(ctx, b, matchedRow(area, "Reducir costos", "Renegociar contratos"))
	p.PersistRow(ctx, b, matchedRow(area, "Reducir costos", "Auditar proveedores"))
	// Folded variants of the same title collapse too.
	p.PersistRow(ctx, b, matchedRow(area, "REDUCIR COSTOS", "Centralizar compras"))

	if len(store.createdObjectives) != 1 {
		t.Errorf("created %d objectives, want 1: %v", len(store.createdObjectives), store.createdObjectives)
	}
	if len(store.createdInitiatives) != 3 {
		t.Errorf("created %d initiatives, want 3", len(store.createdInitiatives))
	}
	if b.Counts.Objectives != 1 || b.Counts.Initiatives != 3 || b.Counts.Links != 3 {
		t.Errorf("Counts = %+v", b.Counts)
	}
	if b.Counts.Rows != 3 {
		t.Errorf("Rows = %d, want 3", b.Counts.Rows)
	}

	// Dedup is batch-scoped: a fresh batch re-creates the same objective.
	b2 := NewBatch(uuid.New(), []Area{area})
	p.PersistRow(ctx, b2, matchedRow(area, "Reducir costos", "Renegociar contratos"))
	if len(store.createdObjectives) != 2 {
		t.Errorf("created %d objectives after second batch, want 2", len(store.createdObjectives))
	}
}

func TestPersistRow_LinkIdempotence(t *testing.T) {
	area := Area{ID: uuid.New(), Name: "Ventas"}
	store := newFakeStore(area)
	p := NewPersister(store, nil)
	b := NewBatch(uuid.New(), []Area{area})

	ctx := context.Background()
	row := matchedRow(area, "Crecer", "Abrir sucursales")
	p.PersistRow(ctx, b, row)
	p.PersistRow(ctx, b, row)

	if len(store.links) != 1 {
		t.Errorf("wrote %d links, want 1", len(store.links))
	}
	if b.Counts.Links != 1 {
		t.Errorf("Counts.Links = %d, want 1", b.Counts.Links)
	}
}

func TestPersistRow_AreaAutoCreate(t *testing.T) {
	store := newFakeStore()
	p := NewPersister(store, nil)
	b := NewBatch(uuid.New(), nil)

	ctx := context.Background()
	row := ParsedRow{
		SheetName: "Resumen",
		RowNumber: 3,
		Area:      AreaMatch{Type: MatchNone},
		AreaName:  "Innovación",
		Objective: "Lanzar el lab",
		Progress:  10,
		Status:    StatusBlocked,
	}
	p.PersistRow(ctx, b, row)
	// A second unmatched row with the same raw name reuses the created id.
	row.RowNumber = 4
	row.Objective = "Patentar el proceso"
	p.PersistRow(ctx, b, row)

	if len(store.createdAreas) != 1 || store.createdAreas[0] != "Innovación" {
		t.Errorf("createdAreas = %v, want [Innovación]", store.createdAreas)
	}
	if b.Counts.Areas != 1 {
		t.Errorf("Counts.Areas = %d, want 1", b.Counts.Areas)
	}
}

func TestPersistRow_Activities(t *testing.T) {
	area := Area{ID: uuid.New(), Name: "Ventas"}
	store := newFakeStore(area)
	p := NewPersister(store, nil)
	b := NewBatch(uuid.New(), []Area{area})

	row := matchedRow(area, "Crecer", "Abrir sucursales")
	row.Status = StatusOnTrack
	row.Result = "3 sucursales operando"
	row.Obstacle = "Permisos municipales"
	p.PersistRow(context.Background(), b, row)

	if len(store.createdActivities) != 2 {
		t.Fatalf("created %d activities, want 2", len(store.createdActivities))
	}
	first := store.createdActivities[0]
	if first.Title != "Resultado esperado: 3 sucursales operando" {
		t.Errorf("activity title = %q", first.Title)
	}
	if !first.Completed {
		t.Error("on-track row should mark activities completed")
	}
	if store.createdActivities[1].Title != "Obstáculo: Permisos municipales" {
		t.Errorf("activity title = %q", store.createdActivities[1].Title)
	}
	if b.Counts.Activities != 2 {
		t.Errorf("Counts.Activities = %d, want 2", b.Counts.Activities)
	}
}

func TestPersistRow_ActivitiesNotCompletedWhenBehind(t *testing.T) {
	area := Area{ID: uuid.New(), Name: "Ventas"}
	store := newFakeStore(area)
	p := NewPersister(store, nil)
	b := NewBatch(uuid.New(), []Area{area})

	row := matchedRow(area, "Crecer", "Abrir sucursales")
	row.Status = StatusBlocked
	row.Enhancer = "Apoyo de gerencia"
	p.PersistRow(context.Background(), b, row)

	if len(store.createdActivities) != 1 {
		t.Fatalf("created %d activities, want 1", len(store.createdActivities))
	}
	if store.createdActivities[0].Completed {
		t.Error("blocked row must not mark activities completed")
	}
}

func TestPersistRow_BestEffortOnWriteError(t *testing.T) {
	area := Area{ID: uuid.New(), Name: "Ventas"}
	store := newFakeStore(area)
	store.failOn["CreateObjective"] = errors.New("boom")
	p := NewPersister(store, nil)
	b := NewBatch(uuid.New(), []Area{area})

	p.PersistRow(context.Background(), b, matchedRow(area, "Crecer", "Abrir sucursales"))

	// The objective failed; the initiative is still written, just unlinked.
	if len(store.createdInitiatives) != 1 {
		t.Errorf("created %d initiatives, want 1", len(store.createdInitiatives))
	}
	if len(store.links) != 0 {
		t.Errorf("wrote %d links, want 0", len(store.links))
	}
	if len(b.Errors) != 1 || !strings.Contains(b.Errors[0], "Crecer") {
		t.Errorf("Errors = %v, want one entry naming the objective", b.Errors)
	}
}

func TestPersistRow_ObjectiveOnlyRow(t *testing.T) {
	area := Area{ID: uuid.New(), Name: "Ventas"}
	store := newFakeStore(area)
	p := NewPersister(store, nil)
	b := NewBatch(uuid.New(), []Area{area})

	row := matchedRow(area, "Crecer 20%", "")
	p.PersistRow(context.Background(), b, row)

	if len(store.createdObjectives) != 1 {
		t.Errorf("created %d objectives, want 1", len(store.createdObjectives))
	}
	if len(store.createdInitiatives) != 0 || len(store.links) != 0 {
		t.Error("objective-only row must not create initiatives or links")
	}
}
