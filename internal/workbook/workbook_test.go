package workbook

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

// buildXLSX assembles an in-memory workbook from (name, rows) pairs.
func buildXLSX(t *testing.T, sheets []Sheet) *bytes.Reader {
	t.Helper()

	f := excelize.NewFile()
	for i, s := range sheets {
		if i == 0 {
			require.NoError(t, f.SetSheetName("Sheet1", s.Name))
		} else {
			_, err := f.NewSheet(s.Name)
			require.NoError(t, err)
		}
		for r, row := range s.Rows {
			cell, err := excelize.CoordinatesToCellName(1, r+1)
			require.NoError(t, err)
			require.NoError(t, f.SetSheetRow(s.Name, cell, &row))
		}
	}

	var buf bytes.Buffer
	require.NoError(t, f.Write(&buf))
	require.NoError(t, f.Close())
	return bytes.NewReader(buf.Bytes())
}

func TestDecode_PreservesSheetOrderAndCells(t *testing.T) {
	in := []Sheet{
		{Name: "Resumen", Rows: [][]string{
			{"Área", "Objetivo", "Progreso"},
			{"Ventas", "Subir ventas 10%", "75%"},
		}},
		{Name: "Ventas", Rows: [][]string{
			{"Acciones Clave"},
			{"Acción", "% Complete", "Responsable"},
		}},
	}

	sheets, err := Decode(buildXLSX(t, in))
	require.NoError(t, err)
	require.Len(t, sheets, 2)

	assert.Equal(t, "Resumen", sheets[0].Name)
	assert.Equal(t, "Ventas", sheets[1].Name)
	assert.Equal(t, "Objetivo", sheets[0].Rows[0][1])
	assert.Equal(t, "75%", sheets[0].Rows[1][2])
	assert.Equal(t, "Acciones Clave", sheets[1].Rows[0][0])
}

func TestDecode_EmptySheet(t *testing.T) {
	sheets, err := Decode(buildXLSX(t, []Sheet{{Name: "Vacía"}}))
	require.NoError(t, err)
	require.Len(t, sheets, 1)
	assert.Empty(t, sheets[0].Rows)
}

func TestDecode_CorruptInput(t *testing.T) {
	_, err := Decode(strings.NewReader("this is not a zip archive"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "open workbook")
}
