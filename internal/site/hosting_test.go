package site

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteHostingConfig(t *testing.T) {
	root := t.TempDir()
	path := filepath.Join(root, "firebase.json")
	require.NoError(t, WriteHostingConfig(path, filepath.Join(root, "output", "site")))

	blob, err := os.ReadFile(path)
	require.NoError(t, err)

	var got hostingFile
	require.NoError(t, json.Unmarshal(blob, &got))
	assert.Equal(t, "output/site", got.Hosting.Public)
	assert.Equal(t, []string{"firebase.json", "**/.*"}, got.Hosting.Ignore)
	assert.True(t, got.Hosting.CleanURLs)
	require.Len(t, got.Hosting.Headers, 1)
	assert.Equal(t, "**/*.html", got.Hosting.Headers[0].Source)
	assert.Equal(t, header{Key: "Cache-Control", Value: "max-age=3600"}, got.Hosting.Headers[0].Headers[0])
}

func TestWriteHostingConfigNested(t *testing.T) {
	root := t.TempDir()
	path := filepath.Join(root, "deploy", "firebase.json")
	require.NoError(t, WriteHostingConfig(path, filepath.Join(root, "public")))

	blob, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(blob), `"public": "../public"`)
}
