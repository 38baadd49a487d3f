package ingest

// row.go walks the data rows below the header and emits ParsedRows.
//
// Rows are processed strictly in document order. Blank rows and decorative
// separator rows vanish silently; a row whose primary title cell is empty
// carries no actionable content and is skipped silently too. Every other
// defect (missing progress, out-of-range values) becomes a row diagnostic
// and processing continues.

import "fmt"

// RowProcessor applies the bound header map, the inferencer and the area
// matcher to the data rows of one sheet.
type RowProcessor struct {
	SheetName string
	Headers   HeaderMap
	Strategy  Strategy
	Areas     []Area

	// SheetArea is the area resolved once per sheet (action sheets). When
	// set, per-row area cells are ignored.
	SheetArea *AreaMatch

	// lastObjective carries the objective title forward across rows, the
	// way merged cells leave it blank on continuation rows.
	lastObjective string
}

// Process converts rows[start:] into ParsedRows, in document order, with
// 1-based source row numbers preserved. skipped counts silently dropped
// rows (blank, decorative, or empty primary title).
func (p *RowProcessor) Process(rows [][]string, start int) (out []ParsedRow, skipped int) {
	for i := start; i < len(rows); i++ {
		row, ok := p.processRow(rows[i], i+1)
		if !ok {
			skipped++
			continue
		}
		out = append(out, row)
	}
	return out, skipped
}

func (p *RowProcessor) processRow(raw []string, rowNum int) (ParsedRow, bool) {
	if isEmptyRow(raw) || isDecorativeRow(raw) {
		return ParsedRow{}, false
	}

	row := ParsedRow{
		SheetName: p.SheetName,
		RowNumber: rowNum,
	}

	objective := p.Headers.Cell(raw, FieldObjective)
	if objective == "" {
		objective = p.lastObjective
	} else {
		p.lastObjective = objective
	}

	action := p.Headers.Cell(raw, FieldAction)

	// The primary field carries the row's identity. An empty primary means
	// a spacer or annotation row, not an error.
	var primary string
	switch p.Strategy.Primary {
	case FieldAction:
		primary = action
	default:
		primary = p.Headers.Cell(raw, p.Strategy.Primary)
	}
	if primary == "" {
		return ParsedRow{}, false
	}

	row.Objective = objective
	row.Initiative = action

	// Progress.
	progressMissing := false
	if rawProgress := p.Headers.Cell(raw, FieldProgress); rawProgress == "" {
		progressMissing = true
		row.Diagnostics = append(row.Diagnostics,
			p.diag(rowNum, "missing required field progress"))
	} else if pct, err := NormalizeProgress(rawProgress); err != nil {
		row.Progress = pct
		row.Diagnostics = append(row.Diagnostics, p.diag(rowNum, "%v", err))
	} else {
		row.Progress = pct
	}

	// Status, from the status cell when present, thresholds otherwise. A row
	// with neither a recognized status nor a progress value defaults to the
	// neutral category: an absent progress is not a zero.
	statusCell := p.Headers.Cell(raw, FieldStatus)
	if progressMissing {
		if status, ok := statusFromKeywords(statusCell); ok {
			row.Status = status
		} else {
			row.Status = StatusInProgress
		}
	} else {
		row.Status = InferStatus(statusCell, row.Progress, p.Strategy.Thresholds)
	}

	row.Priority = ParsePriority(p.Headers.Cell(raw, FieldPriority))
	row.Owner = p.Headers.Cell(raw, FieldOwner)
	row.DueDate = p.Headers.Cell(raw, FieldDueDate)
	row.Result = p.Headers.Cell(raw, FieldResult)
	row.Obstacle = p.Headers.Cell(raw, FieldObstacle)
	row.Enhancer = p.Headers.Cell(raw, FieldEnhancer)

	// Area resolution: sheet-scoped for action sheets, per row otherwise.
	if p.SheetArea != nil {
		row.Area = *p.SheetArea
		if p.SheetArea.Matched {
			row.AreaName = p.SheetArea.Area.Name
		} else {
			row.AreaName = p.SheetName
		}
	} else {
		candidate := p.Headers.Cell(raw, FieldArea)
		if candidate == "" {
			candidate = p.SheetName
		}
		row.Area = MatchArea(candidate, p.Areas)
		if row.Area.Matched {
			row.AreaName = row.Area.Area.Name
		} else {
			row.AreaName = candidate
		}
	}

	return row, true
}

func (p *RowProcessor) diag(rowNum int, format string, args ...any) string {
	return fmt.Sprintf("sheet %q row %d: %s", p.SheetName, rowNum, fmt.Sprintf(format, args...))
}

// isEmptyRow reports whether every cell is blank.
func isEmptyRow(row []string) bool {
	for _, cell := range row {
		if !isBlank(cell) {
			return false
		}
	}
	return true
}

// isDecorativeRow reports whether the row contains only separator runs
// ("---", "===", "___" and the like).
func isDecorativeRow(row []string) bool {
	sawSeparator := false
	for _, cell := range row {
		cleaned := CleanCell(cell)
		if cleaned == "" {
			continue
		}
		for _, r := range cleaned {
			switch r {
			case '-', '_', '=', '.', '*', '·', '—', '–':
			default:
				return false
			}
		}
		sawSeparator = true
	}
	return sawSeparator
}
