package ingest

// columns.go maps header cells onto canonical fields.
//
// The dictionary is ordered: fields earlier in the list claim their column
// before later fields are considered, and a claimed column is never
// reconsidered. This makes mapping deterministic for headers that repeat a
// label or use ambiguous wording.

import "strings"

type fieldSynonyms struct {
	field Field
	terms []string
}

// synonymOrder is the binding priority. Terms are matched by case- and
// accent-insensitive substring containment against each header cell.
var synonymOrder = []fieldSynonyms{
	{FieldObjective, []string{"objetivo", "objective", "okr"}},
	{FieldAction, []string{"accion clave", "key action", "accion", "action", "iniciativa", "initiative", "proyecto"}},
	{FieldArea, []string{"area", "division", "departamento", "department", "gerencia"}},
	{FieldProgress, []string{"% complete", "progreso", "avance", "progress", "cumplimiento", "% logro"}},
	{FieldStatus, []string{"estado", "status", "checkpoint", "semaforo"}},
	{FieldPriority, []string{"prioridad", "priority"}},
	{FieldOwner, []string{"responsable", "owner", "dueno", "encargado", "lider"}},
	{FieldDueDate, []string{"fecha limite", "due date", "fecha", "plazo", "deadline", "vencimiento"}},
	{FieldResult, []string{"resultado esperado", "expected result", "resultado", "result", "entregable"}},
	{FieldObstacle, []string{"obstaculo", "obstacle", "freno", "riesgo", "blocker"}},
	{FieldEnhancer, []string{"potenciador", "enhancer", "palanca", "habilitador"}},
}

// MapColumns binds each canonical field to the first matching header cell.
// Fields with no matching cell are left out of the map.
func MapColumns(header []string) HeaderMap {
	bound := make(map[int]bool, len(header))
	out := make(HeaderMap, len(synonymOrder))

	for _, fs := range synonymOrder {
		for col, cell := range header {
			if bound[col] {
				continue
			}
			folded := foldForMatch(cell)
			if folded == "" {
				continue
			}
			if containsAny(folded, fs.terms) {
				out[fs.field] = col
				bound[col] = true
				break
			}
		}
	}
	return out
}

func containsAny(s string, terms []string) bool {
	for _, t := range terms {
		if strings.Contains(s, t) {
			return true
		}
	}
	return false
}

// Missing returns the required fields absent from the map, in the order
// given. A non-empty result rejects the sheet.
func (h HeaderMap) Missing(required []Field) []Field {
	var missing []Field
	for _, f := range required {
		if _, ok := h[f]; !ok {
			missing = append(missing, f)
		}
	}
	return missing
}

// Cell returns the cleaned value bound to a field in the given row, or ""
// when the field is unbound or the row is short.
func (h HeaderMap) Cell(row []string, f Field) string {
	col, ok := h[f]
	if !ok || col >= len(row) {
		return ""
	}
	return CleanCell(row[col])
}

// fieldList renders field names for sheet-level diagnostics.
func fieldList(fields []Field) string {
	names := make([]string, len(fields))
	for i, f := range fields {
		names[i] = string(f)
	}
	return strings.Join(names, ", ")
}
