package ingest

// persister.go materializes ParsedRows in the external store.
//
// Writes are best-effort and strictly sequential: each failed insert is
// recorded on the batch with the offending title and the batch moves on.
// Nothing already written is rolled back; partial success is the expected
// steady state for messy input.

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
)

// Persister creates and links the domain hierarchy for one batch.
type Persister struct {
	store Store
	log   *slog.Logger
}

// NewPersister wires a persister to the store.
func NewPersister(store Store, log *slog.Logger) *Persister {
	if log == nil {
		log = slog.Default()
	}
	return &Persister{store: store, log: log}
}

// PersistRow writes one parsed row: area, objective, initiative, the
// initiative-objective join, and any leaf activities. Dedup runs through
// the batch maps, so a title seen on an earlier row reuses its id.
func (p *Persister) PersistRow(ctx context.Context, b *Batch, row ParsedRow) {
	b.Counts.Rows++

	areaID, ok := p.resolveArea(ctx, b, row)
	if !ok {
		return
	}

	var objectiveID uuid.UUID
	haveObjective := false
	if row.Objective != "" {
		id, err := p.resolveObjective(ctx, b, areaID, row)
		if err != nil {
			b.Errorf("sheet %q row %d: create objective %q: %v", row.SheetName, row.RowNumber, row.Objective, err)
		} else {
			objectiveID, haveObjective = id, true
		}
	}

	if row.Initiative == "" {
		return
	}

	initiativeID, err := p.resolveInitiative(ctx, b, areaID, row)
	if err != nil {
		b.Errorf("sheet %q row %d: create initiative %q: %v", row.SheetName, row.RowNumber, row.Initiative, err)
		return
	}

	if haveObjective && !b.linkSeen(initiativeID, objectiveID) {
		if err := p.store.LinkInitiativeToObjective(ctx, initiativeID, objectiveID); err != nil {
			b.Errorf("sheet %q row %d: link initiative %q to objective %q: %v",
				row.SheetName, row.RowNumber, row.Initiative, row.Objective, err)
		} else {
			b.Counts.Links++
		}
	}

	p.createActivities(ctx, b, initiativeID, row)
}

func (p *Persister) resolveArea(ctx context.Context, b *Batch, row ParsedRow) (uuid.UUID, bool) {
	if row.Area.Matched {
		return row.Area.Area.ID, true
	}

	if id, ok := b.areaID(row.AreaName); ok {
		return id, true
	}

	id, err := p.store.CreateArea(ctx, b.TenantID, row.AreaName)
	if err != nil {
		b.Errorf("sheet %q row %d: create area %q: %v", row.SheetName, row.RowNumber, row.AreaName, err)
		return uuid.UUID{}, false
	}
	b.rememberArea(row.AreaName, id)
	b.Counts.Areas++
	p.log.Debug("area auto-created", "name", row.AreaName, "sheet", row.SheetName)
	return id, true
}

func (p *Persister) resolveObjective(ctx context.Context, b *Batch, areaID uuid.UUID, row ParsedRow) (uuid.UUID, error) {
	if id, ok := b.objectiveID(row.Objective); ok {
		return id, nil
	}

	id, err := p.store.CreateObjective(ctx, b.TenantID, areaID, row.Objective, row.Progress, row.Status)
	if err != nil {
		return uuid.UUID{}, err
	}
	b.rememberObjective(row.Objective, id)
	b.Counts.Objectives++
	return id, nil
}

func (p *Persister) resolveInitiative(ctx context.Context, b *Batch, areaID uuid.UUID, row ParsedRow) (uuid.UUID, error) {
	if id, ok := b.initiativeID(row.Initiative); ok {
		return id, nil
	}

	id, err := p.store.CreateInitiative(ctx, b.TenantID, areaID, InitiativeRecord{
		Title:    row.Initiative,
		Progress: row.Progress,
		Status:   row.Status,
		Priority: row.Priority,
		Owner:    row.Owner,
		DueDate:  row.DueDate,
	})
	if err != nil {
		return uuid.UUID{}, err
	}
	b.rememberInitiative(row.Initiative, id)
	b.Counts.Initiatives++
	return id, nil
}

func (p *Persister) createActivities(ctx context.Context, b *Batch, initiativeID uuid.UUID, row ParsedRow) {
	completed := row.Status == StatusOnTrack

	for _, act := range []struct {
		label string
		text  string
	}{
		{"Resultado esperado", row.Result},
		{"Obstáculo", row.Obstacle},
		{"Potenciador", row.Enhancer},
	} {
		if act.text == "" {
			continue
		}
		title := fmt.Sprintf("%s: %s", act.label, act.text)
		if _, err := p.store.CreateActivity(ctx, initiativeID, title, completed); err != nil {
			b.Errorf("sheet %q row %d: create activity %q: %v", row.SheetName, row.RowNumber, title, err)
			continue
		}
		b.Counts.Activities++
	}
}
