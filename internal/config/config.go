package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	"bimqr/internal"
)

const DefaultBaseURL = "https://bim.porqueviven.org"

type Config struct {
	BaseURL   string
	BrandName string

	OutputDir         string
	SiteDir           string
	PDFDir            string
	TemplateDir       string
	HostingConfigPath string

	LogLevel string

	PreviewAddr string
}

func Load() (Config, error) {
	_ = godotenv.Load()

	outputDir := getEnv("OUTPUT_DIR", "output")
	cfg := Config{
		BrandName: getEnv("BRAND_NAME", "porqueViven.org"),

		OutputDir:         outputDir,
		SiteDir:           getEnv("SITE_DIR", filepath.Join(outputDir, "site")),
		PDFDir:            getEnv("PDF_DIR", filepath.Join(outputDir, "pdf")),
		TemplateDir:       getEnv("TEMPLATE_DIR", "templates"),
		HostingConfigPath: getEnv("HOSTING_CONFIG", "firebase.json"),

		LogLevel: strings.ToLower(getEnv("LOG_LEVEL", "info")),

		PreviewAddr: getEnv("PREVIEW_ADDR", ":"+strconv.Itoa(getEnvInt("PREVIEW_PORT", 8090))),
	}

	baseURL, err := ValidateBaseURL(getEnv("BASE_URL", DefaultBaseURL))
	if err != nil {
		return Config{}, fmt.Errorf("BASE_URL: %w", err)
	}
	cfg.BaseURL = baseURL

	return cfg, nil
}

// ValidateBaseURL trims the value, strips trailing slashes and requires an
// http:// or https:// scheme.
func ValidateBaseURL(raw string) (string, error) {
	url := strings.TrimRight(strings.TrimSpace(raw), "/")
	if !strings.HasPrefix(url, "http://") && !strings.HasPrefix(url, "https://") {
		return "", fmt.Errorf("base URL must start with http:// or https://: %q", url)
	}
	return url, nil
}

func (c Config) ElementURL(tag string) string {
	return internal.ElementURL(c.BaseURL, tag)
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	value := getEnv(key, "")
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}
