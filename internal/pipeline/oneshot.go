package pipeline

import (
	"bimqr/internal"
)

// ExtractElements reads any supported input. For IFC input discipline is
// applied as an override; tables keep their own discipline column.
func ExtractElements(path, discipline string) ([]internal.Element, internal.ExtractReport, error) {
	kind, err := DetectInput(path)
	if err != nil {
		return nil, internal.ExtractReport{}, err
	}
	if kind == internal.InputIFC {
		return ParseModel(path, discipline)
	}
	return ParseTable(path)
}
