package pipeline

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bimqr/internal"
)

func threeElements() []internal.Element {
	return []internal.Element{
		mkElement("PA001", "Puerta", "Arquitectura"),
		mkElement("VE001", "Ventana", "Arquitectura"),
		mkElement("PI001", "Pilar", "Estructura"),
	}
}

func TestFilterByDiscipline(t *testing.T) {
	out, err := FilterByDiscipline(threeElements(), "Arquitectura")
	require.NoError(t, err)
	assert.Len(t, out, 2)
	for _, e := range out {
		assert.Equal(t, "Arquitectura", e.Discipline)
	}
}

func TestFilterByDisciplineNoMatch(t *testing.T) {
	_, err := FilterByDiscipline(threeElements(), "Electricidad")
	require.Error(t, err)

	var nm *NoDisciplineMatchError
	require.True(t, errors.As(err, &nm))
	assert.Equal(t, []string{"Arquitectura", "Estructura"}, nm.Present)
	assert.Empty(t, nm.Suggestion)
	assert.Contains(t, err.Error(), "Arquitectura, Estructura")
}

func TestFilterByDisciplineSuggestsCloseName(t *testing.T) {
	_, err := FilterByDiscipline(threeElements(), "arquitectura")
	require.Error(t, err)

	var nm *NoDisciplineMatchError
	require.True(t, errors.As(err, &nm))
	assert.Equal(t, "Arquitectura", nm.Suggestion)
	assert.Contains(t, err.Error(), `did you mean "Arquitectura"?`)
}

func TestDisciplineCounts(t *testing.T) {
	in := append(threeElements(), mkElement("X1", "", internal.Unclassified))
	got := DisciplineCounts(in)
	assert.Equal(t, []internal.DisciplineCount{
		{Discipline: "Arquitectura", Count: 2},
		{Discipline: "Estructura", Count: 1},
		{Discipline: internal.Unclassified, Count: 1},
	}, got)
}
