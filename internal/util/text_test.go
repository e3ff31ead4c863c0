package util

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
)

func TestTruncate(t *testing.T) {
	cases := []struct {
		name  string
		input string
		n     int
		want  string
	}{
		{name: "empty", input: "", n: 10, want: ""},
		{name: "short", input: "Puerta", n: 10, want: "Puerta"},
		{name: "exact", input: "0123456789", n: 10, want: "0123456789"},
		{name: "long", input: "Puerta de una hoja abatible", n: 10, want: "Puerta d.."},
		{name: "accents count as one", input: "Tubería de cobre", n: 8, want: "Tuberí.."},
		{name: "min target", input: "abc", n: 2, want: ".."},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Truncate(tc.input, tc.n))
		})
	}
}

func TestTruncateNeverExceedsTarget(t *testing.T) {
	inputs := []string{"a", "ab", "Ventana fija 120x150", strings.Repeat("ñ", 90), "Pilar HEB200 planta baja eje 4"}
	for n := 2; n <= 60; n++ {
		for _, in := range inputs {
			got := Truncate(in, n)
			assert.LessOrEqual(t, utf8.RuneCountInString(got), n, "input=%q n=%d", in, n)
			if utf8.RuneCountInString(in) <= n {
				assert.Equal(t, in, got)
			}
		}
	}
}

func TestSafeFileName(t *testing.T) {
	assert.Equal(t, "PCI-Gases_Medicinales", SafeFileName("PCI-Gases Medicinales"))
	assert.Equal(t, "a_b_c", SafeFileName("a/b\\c"))
	assert.Equal(t, "_", SafeFileName("  "))
}

func TestClosestMatch(t *testing.T) {
	candidates := []string{"Arquitectura", "Estructura", "Electricidad"}

	got, ok := ClosestMatch("arquitectura ", candidates, 0.5)
	assert.True(t, ok)
	assert.Equal(t, "Arquitectura", got)

	got, ok = ClosestMatch("Estructuras", candidates, 0.5)
	assert.True(t, ok)
	assert.Equal(t, "Estructura", got)

	_, ok = ClosestMatch("Jardineria", candidates, 0.8)
	assert.False(t, ok)
}

func TestDiceCoefficient(t *testing.T) {
	assert.Equal(t, 1.0, DiceCoefficient("abc", "abc"))
	assert.Equal(t, 0.0, DiceCoefficient("", "abc"))
	assert.InDelta(t, 0.5, DiceCoefficient("ab", "abc"), 0.2)
}
