package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateBaseURL(t *testing.T) {
	cases := []struct {
		name  string
		input string
		want  string
		ok    bool
	}{
		{name: "https", input: "https://bim.porqueviven.org", want: "https://bim.porqueviven.org", ok: true},
		{name: "http with port", input: "http://localhost:8090", want: "http://localhost:8090", ok: true},
		{name: "trailing slash", input: "https://bim.porqueviven.org/", want: "https://bim.porqueviven.org", ok: true},
		{name: "surrounding spaces", input: "  https://example.org//  ", want: "https://example.org", ok: true},
		{name: "ftp", input: "ftp://example.com", ok: false},
		{name: "no scheme", input: "bim.porqueviven.org", ok: false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ValidateBaseURL(tc.input)
			if !tc.ok {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv("BASE_URL", "https://qr.example.org/")
	t.Setenv("OUTPUT_DIR", "out")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "https://qr.example.org", cfg.BaseURL)
	assert.Equal(t, "out", cfg.OutputDir)
	assert.Equal(t, "https://qr.example.org/e/PA001/", cfg.ElementURL("PA001"))
}

func TestLoadRejectsBadBaseURL(t *testing.T) {
	t.Setenv("BASE_URL", "bim.porqueviven.org")

	_, err := Load()
	assert.Error(t, err)
}
