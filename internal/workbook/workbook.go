// Package workbook decodes uploaded xlsx files into plain in-memory sheets.
//
// The rest of the pipeline never touches excelize directly: it only sees
// ordered (sheet name, rows) pairs, where every cell is the formatted string
// value of the cell. Decode failures are terminal for the whole import.
package workbook

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
)

// Sheet is one worksheet as an ordered, row-major grid of cell strings.
// Rows may be ragged: excelize trims trailing empty cells per row.
type Sheet struct {
	Name string
	Rows [][]string
}

// Decode reads an xlsx workbook and returns its sheets in workbook order.
// Chart sheets and other sheets without cell data come back with empty Rows.
func Decode(r io.Reader) ([]Sheet, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	names := f.GetSheetList()
	sheets := make([]Sheet, 0, len(names))

	for _, name := range names {
		rows, err := f.GetRows(name)
		if err != nil {
			return nil, fmt.Errorf("read sheet %q: %w", name, err)
		}
		sheets = append(sheets, Sheet{Name: name, Rows: rows})
	}

	return sheets, nil
}
