package ingest

// header.go locates the header row(s) of a sheet.
//
// Headers are found heuristically: real workbooks put titles, logos and
// merged banner cells above the actual column row, so the locator scans a
// small window from the top looking for domain keywords. Action sheets have
// a two-row header (a banner row naming the objective block, then the column
// row), which is merged column-by-column before mapping.

import "strings"

// headerKeywords qualify a row as a candidate header row. Matching is
// case- and accent-insensitive substring containment.
var headerKeywords = []string{
	"objetivo",
	"objective",
	"accion",
	"action",
	"iniciativa",
	"initiative",
	"area",
	"okr",
	"progreso",
	"progress",
	"avance",
}

// subHeaderKeywords qualify the second header row of an action sheet.
var subHeaderKeywords = []string{
	"key action",
	"accion",
	"action",
	"% complete",
	"avance",
	"progreso",
	"cumplimiento",
	"responsable",
	"owner",
	"fecha",
	"due date",
	"checkpoint",
	"resultado",
	"result",
}

// LocateHeader returns the index of the first row within the search window
// whose cells contain at least one header keyword.
func LocateHeader(rows [][]string, window int) (int, bool) {
	return locate(rows, 0, window, headerKeywords)
}

// LocateSubHeader scans the rows immediately below the first header row for
// a sub-header row. Action sheets require one; its absence rejects the sheet.
func LocateSubHeader(rows [][]string, after, window int) (int, bool) {
	return locate(rows, after+1, window, subHeaderKeywords)
}

func locate(rows [][]string, start, window int, keywords []string) (int, bool) {
	end := start + window
	if end > len(rows) {
		end = len(rows)
	}

	for i := start; i < end; i++ {
		for _, cell := range rows[i] {
			folded := foldForMatch(cell)
			if folded == "" {
				continue
			}
			for _, kw := range keywords {
				if strings.Contains(folded, kw) {
					return i, true
				}
			}
		}
	}
	return 0, false
}

// MergeHeaderRows combines a two-row header column-by-column: each column
// keeps the first non-empty label moving top to bottom.
func MergeHeaderRows(top, bottom []string) []string {
	n := len(top)
	if len(bottom) > n {
		n = len(bottom)
	}

	merged := make([]string, n)
	for i := 0; i < n; i++ {
		if i < len(top) && !isBlank(top[i]) {
			merged[i] = top[i]
			continue
		}
		if i < len(bottom) {
			merged[i] = bottom[i]
		}
	}
	return merged
}
