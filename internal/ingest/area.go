package ingest

// area.go resolves a sheet name or area cell against the tenant's canonical
// area list.
//
// Tiers run in order and the first hit wins, so an exact or case-insensitive
// match can never lose to a fuzzy one. Confidence decreases per tier; a miss
// is Matched=false with confidence 0. Whether a miss rejects the sheet or
// auto-creates the area is the strategy's call, not this file's.

import "strings"

// MatchType classifies which tier produced an area match.
type MatchType string

const (
	MatchExact           MatchType = "exact"
	MatchCaseInsensitive MatchType = "case_insensitive"
	MatchAlias           MatchType = "alias_normalized"
	MatchFuzzy           MatchType = "fuzzy"
	MatchNone            MatchType = "none"
)

// AreaMatch is the outcome of resolving one candidate string.
type AreaMatch struct {
	Matched    bool
	Area       Area
	Confidence float64
	Type       MatchType
}

// areaAliases normalizes common abbreviations and recurring misspellings to
// the canonical spelling before the exact tiers re-run. Keys and values are
// in folded (lower-case, accent-stripped) form.
var areaAliases = map[string]string{
	"rrhh":                         "recursos humanos",
	"rr hh":                        "recursos humanos",
	"hr":                           "recursos humanos",
	"capital humano":               "recursos humanos",
	"ti":                           "tecnologia",
	"it":                           "tecnologia",
	"sistemas":                     "tecnologia",
	"tecnologia de la informacion": "tecnologia",
	"mkt":                          "marketing",
	"mktg":                         "marketing",
	"mercadeo":                     "marketing",
	"comercial":                    "ventas",
	"sales":                        "ventas",
	"ops":                          "operaciones",
	"operations":                   "operaciones",
	"finanzas y admin":             "finanzas",
	"admin y finanzas":             "finanzas",
	"finance":                      "finanzas",
	"adm":                          "administracion",
}

// MatchArea resolves candidate against the canonical list.
func MatchArea(candidate string, areas []Area) AreaMatch {
	candidate = CleanCell(candidate)
	if candidate == "" || len(areas) == 0 {
		return AreaMatch{Type: MatchNone}
	}

	// Tier 1: exact, case-sensitive.
	for _, a := range areas {
		if a.Name == candidate {
			return AreaMatch{Matched: true, Area: a, Confidence: 1.0, Type: MatchExact}
		}
	}

	// Tier 2: case-insensitive exact.
	lower := strings.ToLower(candidate)
	for _, a := range areas {
		if strings.ToLower(a.Name) == lower {
			return AreaMatch{Matched: true, Area: a, Confidence: 0.9, Type: MatchCaseInsensitive}
		}
	}

	// Tier 3: alias normalization, then accent-insensitive exact.
	folded := foldForMatch(candidate)
	normalized := folded
	if alias, ok := areaAliases[folded]; ok {
		normalized = alias
	}
	for _, a := range areas {
		if foldForMatch(a.Name) == normalized {
			return AreaMatch{Matched: true, Area: a, Confidence: 0.75, Type: MatchAlias}
		}
	}

	// Tier 4: fuzzy containment either way. Short candidates are excluded:
	// two-letter fragments match far too much.
	if len(folded) >= 4 {
		for _, a := range areas {
			name := foldForMatch(a.Name)
			if strings.Contains(name, folded) || strings.Contains(folded, name) {
				return AreaMatch{Matched: true, Area: a, Confidence: 0.5, Type: MatchFuzzy}
			}
		}
	}

	return AreaMatch{Type: MatchNone}
}

// AreaNames lists canonical names for rejection diagnostics.
func AreaNames(areas []Area) string {
	names := make([]string, len(areas))
	for i, a := range areas {
		names[i] = a.Name
	}
	return strings.Join(names, ", ")
}
