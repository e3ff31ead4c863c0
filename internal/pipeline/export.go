package pipeline

import (
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"

	"bimqr/internal"
)

// ExportElementsToXLSX writes the element inventory with each label URL.
// The headers are accepted aliases, so the file parses back as input.
func ExportElementsToXLSX(elements []internal.Element, baseURL, outputPath string) error {
	f := excelize.NewFile()
	defer f.Close()
	sheet := f.GetSheetName(0)

	headers := []string{
		"Marca", "IfcGUID", "Name", "Disciplina", "Category",
		"Nombre de tipo", "Tipo IfcGUID", "Operacion", "IFC Class", "URL",
	}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheet, cell, h)
	}

	for i, el := range elements {
		r := i + 2
		set := func(col int, value string) {
			cell, _ := excelize.CoordinatesToCellName(col, r)
			_ = f.SetCellStr(sheet, cell, value)
		}

		set(1, el.Tag)
		set(2, el.GUID)
		set(3, el.Name)
		set(4, el.Discipline)
		set(5, el.Category)
		set(6, el.TypeName)
		set(7, el.TypeGUID)
		set(8, el.Operation)
		set(9, el.ModelClass)
		set(10, internal.ElementURL(baseURL, el.Tag))
	}
	_ = f.SetPanes(sheet, &excelize.Panes{Freeze: true, YSplit: 1, TopLeftCell: "A2", ActivePane: "bottomLeft"})

	if err := os.MkdirAll(filepath.Dir(outputPath), 0o755); err != nil {
		return err
	}
	return f.SaveAs(outputPath)
}
