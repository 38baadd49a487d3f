package ingest

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/stratixlabs/okrimport/internal/workbook"
)

func TestOrchestratorRun_CleanWorkbook(t *testing.T) {
	ventas := Area{ID: uuid.New(), Name: "Ventas"}
	store := newFakeStore(ventas)
	o := NewOrchestrator(store, nil)

	sheets := []workbook.Sheet{
		{
			Name: "Resumen",
			Rows: [][]string{
				{"Plan Anual"},
				{"Área", "Objetivo", "Avance"},
				{"Ventas", "Crecer 20%", "45%"},
				{"Ventas", "Reducir costos", "0.8"},
			},
		},
		{
			// Two-row header: a banner over the action column, then the
			// sub-header with the remaining labels. The merge keeps the
			// banner for column 0 and it still maps as the action column.
			Name: "Ventas",
			Rows: [][]string{
				{"Plan de Acción - Ventas"},
				{"Key Action", "% Complete", "Responsable"},
				{"Abrir 3 sucursales", "30", "Ana"},
				{"---", "---", "---"},
				{"Contratar vendedores", "60", "Luis"},
			},
		},
	}

	summary, err := o.Run(context.Background(), uuid.New(), sheets)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if summary.Status != JobCompleted {
		t.Errorf("Status = %q, want %q (errors: %v)", summary.Status, JobCompleted, summary.Errors)
	}
	if len(summary.Sheets) != 2 {
		t.Fatalf("got %d sheet reports, want 2", len(summary.Sheets))
	}
	if r := summary.Sheets[0]; r.Kind != SheetSummary || r.Rows != 2 || r.Rejected {
		t.Errorf("summary sheet report = %+v", r)
	}
	if r := summary.Sheets[1]; r.Kind != SheetAction || r.Rows != 2 || r.Skipped != 1 || r.Rejected {
		t.Errorf("action sheet report = %+v", r)
	}

	if summary.Counts.Rows != 4 {
		t.Errorf("Counts.Rows = %d, want 4", summary.Counts.Rows)
	}
	// Only the summary titles become objectives; the action sheet has no
	// objective column.
	if summary.Counts.Objectives != 2 {
		t.Errorf("Counts.Objectives = %d, want 2: %v", summary.Counts.Objectives, store.createdObjectives)
	}
	if summary.Counts.Initiatives != 2 {
		t.Errorf("Counts.Initiatives = %d, want 2: %v", summary.Counts.Initiatives, store.createdInitiatives)
	}
	if summary.Counts.Areas != 0 {
		t.Errorf("Counts.Areas = %d, want 0 (Ventas pre-exists)", summary.Counts.Areas)
	}
}

func TestOrchestratorRun_SheetRejections(t *testing.T) {
	ventas := Area{ID: uuid.New(), Name: "Ventas"}
	store := newFakeStore(ventas)
	o := NewOrchestrator(store, nil)

	sheets := []workbook.Sheet{
		{
			// No header keywords anywhere within the window.
			Name: "Notas",
			Rows: [][]string{{"apuntes"}, {"más apuntes"}},
		},
		{
			// Header found but the required progress column is missing.
			Name: "Resumen",
			Rows: [][]string{
				{"Área", "Objetivo"},
				{"Ventas", "Crecer"},
			},
		},
		{
			// Action sheet named after no canonical area.
			Name: "Plan Legal",
			Rows: [][]string{
				{"Plan de Acción Legal"},
				{"Key Action", "% Complete"},
				{"Revisar contratos", "20"},
			},
		},
		{
			// One good sheet keeps the job from failing outright.
			Name: "Resumen Q1",
			Rows: [][]string{
				{"Objetivo", "Avance"},
				{"Crecer", "50"},
			},
		},
	}

	summary, err := o.Run(context.Background(), uuid.New(), sheets)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if summary.Status != JobCompletedWithErrors {
		t.Errorf("Status = %q, want %q", summary.Status, JobCompletedWithErrors)
	}
	for i, wantRejected := range []bool{true, true, true, false} {
		if summary.Sheets[i].Rejected != wantRejected {
			t.Errorf("sheet %d Rejected = %v, want %v", i, summary.Sheets[i].Rejected, wantRejected)
		}
	}

	if len(summary.Errors) != 3 {
		t.Fatalf("Errors = %v, want 3 entries", summary.Errors)
	}
	if !strings.Contains(summary.Errors[0], "no header row") {
		t.Errorf("error 0 = %q", summary.Errors[0])
	}
	if !strings.Contains(summary.Errors[1], "progress") {
		t.Errorf("error 1 = %q", summary.Errors[1])
	}
	if !strings.Contains(summary.Errors[2], "no matching area") || !strings.Contains(summary.Errors[2], "Ventas") {
		t.Errorf("error 2 = %q, want the available areas listed", summary.Errors[2])
	}

	// The good sheet still persisted.
	if summary.Counts.Rows != 1 {
		t.Errorf("Counts.Rows = %d, want 1", summary.Counts.Rows)
	}
}

func TestOrchestratorRun_RowDiagnosticsSurface(t *testing.T) {
	store := newFakeStore(Area{ID: uuid.New(), Name: "Ventas"})
	o := NewOrchestrator(store, nil)

	sheets := []workbook.Sheet{{
		Name: "Resumen",
		Rows: [][]string{
			{"Área", "Objetivo", "Avance"},
			{"Ventas", "Desbordado", "150%"},
		},
	}}

	summary, err := o.Run(context.Background(), uuid.New(), sheets)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if summary.Status != JobCompletedWithErrors {
		t.Errorf("Status = %q, want %q", summary.Status, JobCompletedWithErrors)
	}
	if len(summary.Errors) != 1 || !strings.Contains(summary.Errors[0], "clamped to 100") {
		t.Errorf("Errors = %v, want the clamp diagnostic", summary.Errors)
	}
	// The row is persisted with the clamped value.
	if summary.Counts.Objectives != 1 {
		t.Errorf("Counts.Objectives = %d, want 1", summary.Counts.Objectives)
	}
}

func TestOrchestratorRun_ListAreasFailure(t *testing.T) {
	store := newFakeStore()
	store.failOn["ListAreas"] = errors.New("connection refused")
	o := NewOrchestrator(store, nil)

	if _, err := o.Run(context.Background(), uuid.New(), nil); err == nil {
		t.Fatal("Run succeeded despite area list failure")
	}
}

func TestOrchestratorRun_MissingSubHeaderRejectsActionSheet(t *testing.T) {
	ventas := Area{ID: uuid.New(), Name: "Ventas"}
	store := newFakeStore(ventas)
	o := NewOrchestrator(store, nil)

	sheets := []workbook.Sheet{{
		Name: "Ventas",
		Rows: [][]string{
			{"Objetivo: Crecer"},
			{"dato", "dato"},
		},
	}}

	summary, err := o.Run(context.Background(), uuid.New(), sheets)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if !summary.Sheets[0].Rejected {
		t.Error("action sheet without sub-header was not rejected")
	}
	if len(summary.Errors) != 1 || !strings.Contains(summary.Errors[0], "sub-header") {
		t.Errorf("Errors = %v", summary.Errors)
	}
}

func TestOrchestratorRun_WithThresholds(t *testing.T) {
	store := newFakeStore(Area{ID: uuid.New(), Name: "Ventas"})
	o := NewOrchestrator(store, nil, WithThresholds(StrictThresholds))

	sheets := []workbook.Sheet{{
		Name: "Resumen",
		Rows: [][]string{
			{"Área", "Objetivo", "Avance"},
			{"Ventas", "Crecer", "80"}, // on track at 75/40, in progress at 90/25
		},
	}}

	if _, err := o.Run(context.Background(), uuid.New(), sheets); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(store.createdObjectives) != 1 {
		t.Fatal("objective not created")
	}
	if got := store.objectiveStatuses[0]; got != StatusInProgress {
		t.Errorf("objective status = %q, want %q under strict thresholds", got, StatusInProgress)
	}
}
