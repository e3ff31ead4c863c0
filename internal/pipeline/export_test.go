package pipeline

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"bimqr/internal"
)

func TestExportElementsParsesBack(t *testing.T) {
	in, _, err := ParseModel(filepath.Join("testdata", "model.ifc"), "")
	require.NoError(t, err)

	out := filepath.Join(t.TempDir(), "informes", "inventario.xlsx")
	require.NoError(t, ExportElementsToXLSX(in, "https://bim.example.org", out))

	back, report, err := ParseTable(out)
	require.NoError(t, err)
	assert.Equal(t, internal.InputXLSX, report.Source)
	require.Len(t, back, len(in))
	for i := range in {
		want := in[i]
		want.CustomProperties = nil
		assert.Equal(t, want, back[i])
	}

	f, err := excelize.OpenFile(out)
	require.NoError(t, err)
	defer f.Close()
	url, err := f.GetCellValue(f.GetSheetName(0), "J2")
	require.NoError(t, err)
	assert.Equal(t, "https://bim.example.org/e/PA001/", url)
}
