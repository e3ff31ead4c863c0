package pipeline

import (
	"fmt"
	"strings"
)

type Field string

const (
	FieldGUID       Field = "guid"
	FieldName       Field = "name"
	FieldTag        Field = "tag"
	FieldTypeName   Field = "type_name"
	FieldTypeGUID   Field = "type_guid"
	FieldOperation  Field = "operation"
	FieldDiscipline Field = "discipline"
	FieldModelClass Field = "model_class"
	FieldCategory   Field = "category"
)

type columnSpec struct {
	field    Field
	aliases  []string
	required bool
}

// Alias order matters: the first alias present in the header row wins.
var columnSchema = []columnSpec{
	{FieldGUID, []string{"IfcGUID", "ifc_guid", "ifcguid", "GlobalId", "GUID"}, true},
	{FieldName, []string{"Name", "name", "Nombre", "nombre"}, true},
	{FieldTag, []string{"Marca", "marca", "Mark", "mark"}, true},
	{FieldTypeName, []string{"Nombre de tipo", "nombre_tipo", "Type Name", "NombreTipo"}, false},
	{FieldTypeGUID, []string{"Tipo IfcGUID", "tipo_ifc_guid", "Type IfcGUID"}, false},
	{FieldOperation, []string{"Operacion", "operacion", "Operación", "Operation"}, false},
	{FieldDiscipline, []string{"Discipline", "discipline", "Disciplina", "disciplina"}, true},
	{FieldModelClass, []string{"IFC Class", "ifc_class", "IfcClass", "Clase IFC"}, false},
	{FieldCategory, []string{"Category", "category", "Categoría", "categoria"}, false},
}

// Columns maps logical fields to column positions in a header row.
type Columns map[Field]int

// Get returns the cell of field in row, or "" when the column is absent or
// the row is short.
func (c Columns) Get(row []string, field Field) string {
	idx, ok := c[field]
	if !ok || idx >= len(row) {
		return ""
	}
	return cellValue(row[idx])
}

type MissingColumn struct {
	Field   Field
	Aliases []string
}

type MissingColumnsError struct {
	Missing []MissingColumn
	Headers []string
}

func (e *MissingColumnsError) Error() string {
	parts := make([]string, 0, len(e.Missing))
	for _, m := range e.Missing {
		parts = append(parts, fmt.Sprintf("%s (accepted: %s)", m.Field, strings.Join(m.Aliases, ", ")))
	}
	return fmt.Sprintf("missing required columns: %s; columns found: %s",
		strings.Join(parts, "; "), strings.Join(e.Headers, ", "))
}

func ResolveColumns(headers []string) (Columns, error) {
	positions := map[string]int{}
	trimmed := make([]string, 0, len(headers))
	for i, h := range headers {
		h = strings.TrimSpace(h)
		trimmed = append(trimmed, h)
		if _, seen := positions[h]; !seen {
			positions[h] = i
		}
	}

	cols := Columns{}
	var missing []MissingColumn
	for _, def := range columnSchema {
		found := false
		for _, alias := range def.aliases {
			if idx, ok := positions[alias]; ok {
				cols[def.field] = idx
				found = true
				break
			}
		}
		if !found && def.required {
			missing = append(missing, MissingColumn{Field: def.field, Aliases: def.aliases})
		}
	}
	if len(missing) > 0 {
		return nil, &MissingColumnsError{Missing: missing, Headers: trimmed}
	}
	return cols, nil
}
