package ingest

// strategy.go classifies each sheet and fixes the processing rules for it.
//
// One workbook typically carries a summary sheet (one row per objective,
// with an explicit area column) followed by per-area action sheets (named
// after the area, two-row header, one row per key action). Anything that is
// neither gets the generic rules. The unmatched-area policy is part of the
// strategy, resolved once per sheet: summary and generic sheets auto-create
// unknown areas, action sheets hard-reject when the sheet name resolves to
// no canonical area.

// SheetKind is the coarse classification of a worksheet.
type SheetKind string

const (
	SheetSummary SheetKind = "summary"
	SheetAction  SheetKind = "action"
	SheetGeneric SheetKind = "generic"
)

// AreaPolicy decides what an unmatched area does to the sheet.
type AreaPolicy int

const (
	// RejectUnmatchedArea aborts the sheet with a diagnostic listing the
	// canonical areas.
	RejectUnmatchedArea AreaPolicy = iota
	// AutoCreateArea treats the raw candidate string as a new area.
	AutoCreateArea
)

// Strategy bundles the per-sheet processing configuration.
type Strategy struct {
	Kind           SheetKind
	HeaderWindow   int
	NeedsSubHeader bool
	Primary        Field // row is silently skipped when this field is empty
	Required       []Field
	AreaPolicy     AreaPolicy
	Thresholds     Thresholds
}

var summaryNameHints = []string{"resumen", "summary", "overview", "dashboard", "consolidado", "general"}

var actionNameHints = []string{"accion", "action", "plan"}

// Classify selects the strategy for a sheet. The canonical area list feeds
// the action-sheet heuristic: a sheet named after an area is an action sheet
// even without an "acciones" hint in its name.
func Classify(sheetName string, areas []Area, th Thresholds) Strategy {
	folded := foldForMatch(sheetName)

	if containsAny(folded, summaryNameHints) {
		return Strategy{
			Kind:         SheetSummary,
			HeaderWindow: 5,
			Primary:      FieldObjective,
			Required:     []Field{FieldObjective, FieldProgress},
			AreaPolicy:   AutoCreateArea,
			Thresholds:   th,
		}
	}

	if containsAny(folded, actionNameHints) || MatchArea(sheetName, areas).Matched {
		return Strategy{
			Kind:           SheetAction,
			HeaderWindow:   10,
			NeedsSubHeader: true,
			Primary:        FieldAction,
			Required:       []Field{FieldAction, FieldProgress},
			AreaPolicy:     RejectUnmatchedArea,
			Thresholds:     th,
		}
	}

	return Strategy{
		Kind:         SheetGeneric,
		HeaderWindow: 8,
		Primary:      FieldObjective,
		Required:     []Field{FieldObjective, FieldProgress},
		AreaPolicy:   AutoCreateArea,
		Thresholds:   th,
	}
}
