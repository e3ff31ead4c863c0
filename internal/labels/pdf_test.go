package labels

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	pdf "github.com/ledongthuc/pdf"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bimqr/internal"
)

var fixedNow = time.Date(2025, 3, 4, 9, 30, 15, 0, time.UTC)

func newTestGenerator(t *testing.T) *Generator {
	t.Helper()
	return &Generator{
		OutputDir: filepath.Join(t.TempDir(), "pdf"),
		BaseURL:   "https://bim.example.org",
		BrandName: "porqueViven.org",
		Now:       func() time.Time { return fixedNow },
	}
}

func threeElements() []internal.Element {
	return []internal.Element{
		{GUID: "g1", Tag: "PA001", Name: "Puerta acceso principal con nombre muy largo", Discipline: "Arquitectura", Category: "Puertas", TypeName: "P1 90x210", Operation: "Abatible"},
		{GUID: "g2", Tag: "VE001", Name: "Ventana", Discipline: "Arquitectura", Category: "Ventanas"},
		{GUID: "g3", Tag: "PI001", Name: "Pilar", Discipline: "Estructura", Category: "Pilares"},
	}
}

func TestFileName(t *testing.T) {
	assert.Equal(t, "QR_Todas_20250304_093015.pdf", FileName("", fixedNow))
	assert.Equal(t, "QR_Arquitectura_20250304_093015.pdf", FileName("Arquitectura", fixedNow))
	assert.Equal(t, "QR_PCI-Gases_Medicinales_20250304_093015.pdf", FileName("PCI-Gases Medicinales", fixedNow))
}

func TestGeneratePDF(t *testing.T) {
	g := newTestGenerator(t)
	path, err := g.Generate(threeElements(), "CAPPI Edificio", "")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(g.OutputDir, "QR_Todas_20250304_093015.pdf"), path)

	blob, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(blob, []byte("%PDF")))

	f, r, err := pdf.Open(path)
	require.NoError(t, err)
	defer f.Close()
	// cover, Arquitectura labels, Estructura labels, index
	assert.Equal(t, 4, r.NumPage())

	text := pageText(t, r, 2)
	assert.Contains(t, text, "PA001")
	assert.Contains(t, text, "VE001")
	assert.NotContains(t, text, "PI001")
}

func TestGeneratePDFDisciplineInName(t *testing.T) {
	g := newTestGenerator(t)
	path, err := g.Generate(threeElements()[:2], "CAPPI", "Arquitectura")
	require.NoError(t, err)
	assert.Contains(t, filepath.Base(path), "Arquitectura")
}

func TestGeneratePDFManyLabels(t *testing.T) {
	var in []internal.Element
	in = append(in, gen("Arquitectura", "Puertas", 40)...)
	in = append(in, gen("Estructura", "Vigas", 1)...)

	path, err := newTestGenerator(t).Generate(in, "CAPPI", "")
	require.NoError(t, err)

	f, r, err := pdf.Open(path)
	require.NoError(t, err)
	defer f.Close()
	// cover + 3 Arquitectura pages + 1 Estructura page + index
	assert.Equal(t, 6, r.NumPage())
}

func TestGeneratePDFUnwritableDir(t *testing.T) {
	blocker := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o644))

	g := newTestGenerator(t)
	g.OutputDir = filepath.Join(blocker, "pdf")
	_, err := g.Generate(threeElements(), "CAPPI", "")
	require.Error(t, err)
	assert.True(t, strings.HasPrefix(err.Error(), "generate PDF:"))
}

func pageText(t *testing.T, r *pdf.Reader, n int) string {
	t.Helper()
	p := r.Page(n)
	require.False(t, p.V.IsNull())
	text, err := p.GetPlainText(nil)
	require.NoError(t, err)
	return text
}
