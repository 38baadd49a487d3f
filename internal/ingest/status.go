package ingest

// status.go derives the normalized progress percentage and the qualitative
// status category of a row.
//
// Progress rule (one canonical interpretation, applied everywhere): after
// stripping a trailing percent sign, a numeric value v with 0 <= v <= 1 is a
// fractional ratio and becomes round(v*100); 1 < v <= 100 is already a
// percentage and becomes round(v). Anything else clamps into [0,100] and the
// row carries a diagnostic. A bare 1 therefore means 100%, not 1%.

import (
	"fmt"
	"math"
)

// Thresholds derive a status from progress when no usable status cell
// exists: >= High is on track, < Low is blocked, otherwise in progress.
type Thresholds struct {
	High int
	Low  int
}

// DefaultThresholds is the canonical threshold pair. The historical 90/25
// variant survives as StrictThresholds for callers that want it; nothing in
// this repository selects it by default.
var (
	DefaultThresholds = Thresholds{High: 75, Low: 40}
	StrictThresholds  = Thresholds{High: 90, Low: 25}
)

// NormalizeProgress converts a raw progress cell into an integer percentage
// in [0,100]. The returned error, when non-nil, is a row diagnostic; the
// value is still usable (clamped).
func NormalizeProgress(raw string) (int, error) {
	v, ok := ParseNumber(raw)
	if !ok {
		return 0, fmt.Errorf("progress %q is not numeric", CleanCell(raw))
	}

	switch {
	case v >= 0 && v <= 1:
		return int(math.Round(v * 100)), nil
	case v > 1 && v <= 100:
		return int(math.Round(v)), nil
	case v > 100:
		return 100, fmt.Errorf("progress %q out of range, clamped to 100", CleanCell(raw))
	default:
		return 0, fmt.Errorf("progress %q out of range, clamped to 0", CleanCell(raw))
	}
}

// statusKeywords map free-text checkpoint cells onto categories. Matching is
// case- and accent-insensitive containment, groups checked in this order.
var statusKeywords = []struct {
	status Status
	terms  []string
}{
	{StatusOnTrack, []string{
		"finalizado", "completado", "completo", "terminado", "logrado", "cumplido",
		"done", "completed", "on track", "en tiempo", "verde", "green", "ok", "✓", "✔",
	}},
	{StatusBlocked, []string{
		"atrasado", "bloqueado", "critico", "detenido", "riesgo",
		"blocked", "delayed", "critical", "at risk", "off track", "rojo", "red", "✗", "✘",
	}},
	{StatusInProgress, []string{
		"en curso", "en progreso", "en proceso", "pendiente", "atencion",
		"in progress", "ongoing", "needs attention", "amarillo", "yellow",
	}},
}

// InferStatus resolves the row status from the raw status cell, falling back
// to threshold derivation from progress when the cell is absent or matches
// no keyword group.
func InferStatus(statusCell string, progress int, th Thresholds) Status {
	if status, ok := statusFromKeywords(statusCell); ok {
		return status
	}
	return th.FromProgress(progress)
}

// statusFromKeywords resolves the raw status cell against the keyword
// groups. The second return is false for an empty cell or one that matches
// no group.
func statusFromKeywords(statusCell string) (Status, bool) {
	folded := foldForMatch(statusCell)
	if folded == "" {
		return "", false
	}
	for _, group := range statusKeywords {
		if containsAny(folded, group.terms) {
			return group.status, true
		}
	}
	return "", false
}

// FromProgress derives a status purely from the progress percentage.
func (th Thresholds) FromProgress(progress int) Status {
	switch {
	case progress >= th.High:
		return StatusOnTrack
	case progress < th.Low:
		return StatusBlocked
	default:
		return StatusInProgress
	}
}

// ParsePriority maps free-text priority cells onto the coarse buckets.
// Unrecognized text is left unset rather than diagnosed: priority is
// decorative in most source files.
func ParsePriority(raw string) Priority {
	folded := foldForMatch(raw)
	switch {
	case folded == "":
		return PriorityUnset
	case containsAny(folded, []string{"alta", "high", "urgente", "critica"}):
		return PriorityHigh
	case containsAny(folded, []string{"media", "medium", "normal"}):
		return PriorityMedium
	case containsAny(folded, []string{"baja", "low"}):
		return PriorityLow
	}
	return PriorityUnset
}
