package site

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

type hostingFile struct {
	Hosting hostingConfig `json:"hosting"`
}

type hostingConfig struct {
	Public    string          `json:"public"`
	Ignore    []string        `json:"ignore"`
	CleanURLs bool            `json:"cleanUrls"`
	Headers   []headerSection `json:"headers"`
}

type headerSection struct {
	Source  string   `json:"source"`
	Headers []header `json:"headers"`
}

type header struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

const htmlCacheControl = "max-age=3600"

// WriteHostingConfig writes a firebase.json serving siteDir. The public
// directory is stored relative to the config file.
func WriteHostingConfig(path, siteDir string) error {
	public, err := publicDir(path, siteDir)
	if err != nil {
		return err
	}
	cfg := hostingFile{Hosting: hostingConfig{
		Public:    public,
		Ignore:    []string{"firebase.json", "**/.*"},
		CleanURLs: true,
		Headers: []headerSection{{
			Source:  "**/*.html",
			Headers: []header{{Key: "Cache-Control", Value: htmlCacheControl}},
		}},
	}}

	blob, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return err
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	return os.WriteFile(path, append(blob, '\n'), 0o644)
}

func publicDir(configPath, siteDir string) (string, error) {
	base, err := filepath.Abs(filepath.Dir(configPath))
	if err != nil {
		return "", err
	}
	target, err := filepath.Abs(siteDir)
	if err != nil {
		return "", err
	}
	rel, err := filepath.Rel(base, target)
	if err != nil {
		return "", fmt.Errorf("site directory %s is not reachable from %s: %w", siteDir, configPath, err)
	}
	return filepath.ToSlash(rel), nil
}
