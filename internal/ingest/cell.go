package ingest

// cell.go normalizes raw cell values before any interpretation happens.
//
// Workbooks arrive with the usual artifacts of hand-edited spreadsheets:
// non-breaking spaces, BOMs, Excel formula-literal prefixes (="value"),
// decimal commas, stray percent signs. Everything downstream assumes cells
// have been through CleanCell first.

import (
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// foldAccents strips combining marks so "Acción" and "Accion" compare equal.
var foldAccents = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// decimalComma matches numbers that use a comma as the decimal separator.
var decimalComma = regexp.MustCompile(`^[+-]?\d+,\d{1,2}$`)

// CleanCell trims a raw cell value to its meaningful text.
func CleanCell(s string) string {
	s = strings.TrimPrefix(s, "\ufeff")

	// Excel formula-literal prefix: ="value"
	if strings.HasPrefix(s, `="`) && strings.HasSuffix(s, `"`) && len(s) >= 3 {
		s = s[2 : len(s)-1]
	}

	s = strings.Map(func(r rune) rune {
		if r == ' ' || r == ' ' || r == ' ' {
			return ' '
		}
		return r
	}, s)

	return strings.TrimSpace(s)
}

// foldForMatch lower-cases and de-accents a string for keyword comparison.
func foldForMatch(s string) string {
	folded, _, err := transform.String(foldAccents, strings.ToLower(CleanCell(s)))
	if err != nil {
		return strings.ToLower(CleanCell(s))
	}
	return folded
}

// ParseNumber parses a cleaned cell as a float, tolerating a trailing
// percent sign and Spanish decimal commas ("75,5%").
func ParseNumber(s string) (float64, bool) {
	s = CleanCell(s)
	s = strings.TrimSuffix(s, "%")
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}

	// Decimal comma only when it cannot be a thousands separator:
	// "75,5" is a decimal, "1,250" is not.
	if decimalComma.MatchString(s) {
		s = strings.Replace(s, ",", ".", 1)
	} else {
		s = strings.ReplaceAll(s, ",", "")
	}

	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// ParseBool recognizes the usual yes/no spellings in both languages.
func ParseBool(s string) (bool, bool) {
	switch foldForMatch(s) {
	case "true", "yes", "y", "si", "s", "1", "x", "verdadero":
		return true, true
	case "false", "no", "n", "0", "falso":
		return false, true
	}
	return false, false
}

// isBlank reports whether a cell carries no content after cleaning.
func isBlank(s string) bool {
	return CleanCell(s) == ""
}
