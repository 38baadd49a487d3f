package ingest

// orchestrator.go drives one workbook import end to end.
//
// Sheet classification, header location, column mapping, row processing and
// persistence run in sequence per sheet. A sheet that cannot produce a
// header map (or fails a hard area policy) is skipped with one diagnostic
// and the import moves to the next sheet. Once at least one sheet was
// readable the terminal status is never "failed": it is "completed" with
// zero errors or "completed_with_errors" otherwise. Decode failures happen
// before this type is reached and abort the whole job.

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/stratixlabs/okrimport/internal/workbook"
)

// JobStatus is the terminal state of an import job.
type JobStatus string

const (
	JobCompleted           JobStatus = "completed"
	JobCompletedWithErrors JobStatus = "completed_with_errors"
	JobFailed              JobStatus = "failed"
)

// SheetReport summarizes the processing of one worksheet.
type SheetReport struct {
	Name     string    `json:"name"`
	Kind     SheetKind `json:"kind"`
	Rows     int       `json:"rows"`
	Skipped  int       `json:"skipped"`
	Rejected bool      `json:"rejected"`
}

// Summary is the job result returned to the caller.
type Summary struct {
	Status JobStatus     `json:"status"`
	Sheets []SheetReport `json:"sheets"`
	Counts Counts        `json:"counts"`
	Errors []string      `json:"errors"`
}

// Orchestrator runs imports against a store.
type Orchestrator struct {
	store      Store
	persister  *Persister
	thresholds Thresholds
	log        *slog.Logger
}

// Option tweaks orchestrator behavior.
type Option func(*Orchestrator)

// WithThresholds overrides the canonical status thresholds, e.g. with
// StrictThresholds.
func WithThresholds(th Thresholds) Option {
	return func(o *Orchestrator) { o.thresholds = th }
}

// NewOrchestrator builds the import driver.
func NewOrchestrator(store Store, log *slog.Logger, opts ...Option) *Orchestrator {
	if log == nil {
		log = slog.Default()
	}
	o := &Orchestrator{
		store:      store,
		persister:  NewPersister(store, log),
		thresholds: DefaultThresholds,
		log:        log,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Run imports a decoded workbook for one tenant and returns the job
// summary. The only error return is a failure to load the tenant's area
// list; everything downstream degrades into sheet- or row-level
// diagnostics instead.
func (o *Orchestrator) Run(ctx context.Context, tenantID uuid.UUID, sheets []workbook.Sheet) (*Summary, error) {
	areas, err := o.store.ListAreas(ctx, tenantID)
	if err != nil {
		return nil, fmt.Errorf("list areas for tenant %s: %w", tenantID, err)
	}

	batch := NewBatch(tenantID, areas)
	summary := &Summary{}

	for _, sheet := range sheets {
		report := o.processSheet(ctx, batch, sheet, areas)
		summary.Sheets = append(summary.Sheets, report)
	}

	summary.Counts = batch.Counts
	summary.Errors = batch.Errors
	if len(batch.Errors) == 0 {
		summary.Status = JobCompleted
	} else {
		summary.Status = JobCompletedWithErrors
	}

	o.log.Info("import finished",
		"tenant", tenantID,
		"status", summary.Status,
		"sheets", len(summary.Sheets),
		"rows", summary.Counts.Rows,
		"errors", len(summary.Errors),
	)

	return summary, nil
}

func (o *Orchestrator) processSheet(ctx context.Context, batch *Batch, sheet workbook.Sheet, areas []Area) SheetReport {
	strategy := Classify(sheet.Name, areas, o.thresholds)
	report := SheetReport{Name: sheet.Name, Kind: strategy.Kind}

	headerIdx, ok := LocateHeader(sheet.Rows, strategy.HeaderWindow)
	if !ok {
		batch.Errorf("sheet %q: no header row found in first %d rows", sheet.Name, strategy.HeaderWindow)
		report.Rejected = true
		return report
	}

	header := sheet.Rows[headerIdx]
	dataStart := headerIdx + 1

	if strategy.NeedsSubHeader {
		subIdx, ok := LocateSubHeader(sheet.Rows, headerIdx, strategy.HeaderWindow)
		if !ok {
			batch.Errorf("sheet %q: no sub-header row found below row %d", sheet.Name, headerIdx+1)
			report.Rejected = true
			return report
		}
		header = MergeHeaderRows(sheet.Rows[headerIdx], sheet.Rows[subIdx])
		dataStart = subIdx + 1
	}

	headers := MapColumns(header)
	if missing := headers.Missing(strategy.Required); len(missing) > 0 {
		batch.Errorf("sheet %q: required column(s) not found: %s", sheet.Name, fieldList(missing))
		report.Rejected = true
		return report
	}

	proc := &RowProcessor{
		SheetName: sheet.Name,
		Headers:   headers,
		Strategy:  strategy,
		Areas:     areas,
	}

	// Action sheets resolve their area once, from the sheet name, and the
	// policy decides what a miss does.
	if strategy.Kind == SheetAction {
		match := MatchArea(sheet.Name, areas)
		if !match.Matched && strategy.AreaPolicy == RejectUnmatchedArea {
			batch.Errorf("sheet %q: no matching area for sheet name (available: %s)",
				sheet.Name, AreaNames(areas))
			report.Rejected = true
			return report
		}
		proc.SheetArea = &match
	}

	rows, skipped := proc.Process(sheet.Rows, dataStart)
	report.Rows = len(rows)
	report.Skipped = skipped

	for _, row := range rows {
		batch.Errors = append(batch.Errors, row.Diagnostics...)
		o.persister.PersistRow(ctx, batch, row)
	}

	o.log.Debug("sheet processed",
		"sheet", sheet.Name,
		"kind", strategy.Kind,
		"rows", report.Rows,
		"skipped", report.Skipped,
	)

	return report
}
