package pipeline

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bimqr/internal"
)

func TestParseModel(t *testing.T) {
	elements, report, err := ParseModel(filepath.Join("testdata", "model.ifc"), "")
	require.NoError(t, err)

	assert.Equal(t, internal.ExtractReport{
		Source:        internal.InputIFC,
		Rows:          6,
		Extracted:     4,
		SkippedNoTag:  1,
		SkippedBadTag: 1,
	}, report)

	require.Len(t, elements, 4)
	assert.Equal(t, []string{"PA001", "MU-01", "PI001", "MB001"},
		[]string{elements[0].Tag, elements[1].Tag, elements[2].Tag, elements[3].Tag})

	door := elements[0]
	assert.Equal(t, internal.Element{
		GUID:       "2O2Fr$t4X7Zf8NOew3F020",
		Name:       "Puerta 1 hoja",
		Tag:        "PA001",
		Discipline: "Arquitectura",
		TypeName:   "210x120",
		TypeGUID:   "2O2Fr$t4X7Zf8NOew3F042",
		Operation:  "Abatible",
		ModelClass: "IfcDoor",
		Category:   "Puertas",
		CustomProperties: map[string]string{
			"Fabricante":  "Puertas García",
			"Acabado":     "Lacado blanco",
			"FireRating":  "EI2 60-C5",
			"Resistencia": "3.0",
		},
	}, door)

	wall := elements[1]
	assert.Equal(t, "IfcWallStandardCase", wall.ModelClass)
	assert.Equal(t, "Muros", wall.Category)
	assert.Equal(t, map[string]string{"Comments": "It's load-bearing"}, wall.CustomProperties)
	assert.Empty(t, wall.TypeName)

	column := elements[2]
	assert.Equal(t, "Estructura", column.Discipline)
	assert.Equal(t, "Pilares", column.Category)
	assert.Equal(t, "3.5", column.CustomProperties["Length"])

	furniture := elements[3]
	assert.Equal(t, internal.Unclassified, furniture.Discipline)
	assert.Equal(t, "IfcFurnishingElement", furniture.ModelClass)
	assert.Equal(t, "FurnishingElement", furniture.Category)
	assert.Equal(t, map[string]string{"Color": "Roble"}, furniture.CustomProperties)
}

func TestParseModelDisciplineOverride(t *testing.T) {
	elements, _, err := ParseModel(filepath.Join("testdata", "model.ifc"), " Estructura ")
	require.NoError(t, err)
	require.NotEmpty(t, elements)
	for _, e := range elements {
		assert.Equal(t, "Estructura", e.Discipline, e.Tag)
	}
}

func TestParseModelErrors(t *testing.T) {
	_, _, err := ParseModel(filepath.Join(t.TempDir(), "missing.ifc"), "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "open IFC file")

	path := writeFile(t, "roto.ifc", []byte("ISO-10303-21;\nDATA;\n#1=IFCWALL('x'\n"))
	_, _, err = ParseModel(path, "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "open IFC file")
}

func TestParseModelToleratesBrokenPropertySets(t *testing.T) {
	src := `ISO-10303-21;
DATA;
#1=IFCVALVE('0000000000000000000001',$,'Valvula',$,$,$,$,$);
#2=IFCPROPERTYSET('0000000000000000000002',$,'Pset',$,(#99));
#3=IFCRELDEFINESBYPROPERTIES('0000000000000000000003',$,$,$,(#1),#2);
ENDSEC;
END-ISO-10303-21;
`
	elements, report, err := ParseModel(writeFile(t, "valvula.ifc", []byte(src)), "")
	require.NoError(t, err)
	assert.Empty(t, elements)
	assert.Equal(t, 1, report.SkippedNoTag)
}
