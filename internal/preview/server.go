package preview

import (
	"errors"
	"io/fs"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"
)

const htmlCacheControl = "max-age=3600"

// NewServer serves a generated site the way the hosting config declares it:
// clean URLs, cached HTML and the site's own 404 page.
func NewServer(siteDir string, logger *zap.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{
		StackSize: 1024 * 4,
	}))
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogURI:     true,
		LogStatus:  true,
		LogLatency: true,
		LogMethod:  true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			logger.Debug("request",
				zap.String("method", v.Method),
				zap.String("uri", v.URI),
				zap.Int("status", v.Status),
				zap.Duration("latency", v.Latency),
			)
			return nil
		},
	}))

	s := &site{root: siteDir}
	e.GET("/*", s.serve)
	e.HEAD("/*", s.serve)
	return e
}

type site struct {
	root string
}

func (s *site) serve(c echo.Context) error {
	reqPath := c.Request().URL.Path
	for _, seg := range strings.Split(reqPath, "/") {
		if seg == ".." {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid path")
		}
	}

	file, ok := s.resolve(path.Clean("/" + reqPath))
	if !ok {
		return s.notFound(c)
	}
	if strings.HasSuffix(file, ".html") {
		c.Response().Header().Set("Cache-Control", htmlCacheControl)
	}
	return c.File(file)
}

// resolve maps a clean URL path to a file under root: the file itself, the
// index.html of a directory, or name.html for an extensionless path.
func (s *site) resolve(clean string) (string, bool) {
	rel := filepath.FromSlash(strings.TrimPrefix(clean, "/"))
	candidate := filepath.Join(s.root, rel)

	info, err := os.Stat(candidate)
	switch {
	case err == nil && info.IsDir():
		index := filepath.Join(candidate, "index.html")
		if isFile(index) {
			return index, true
		}
		return "", false
	case err == nil:
		return candidate, true
	case path.Ext(clean) == "" && isFile(candidate+".html"):
		return candidate + ".html", true
	default:
		return "", false
	}
}

func (s *site) notFound(c echo.Context) error {
	blob, err := os.ReadFile(filepath.Join(s.root, "404.html"))
	if errors.Is(err, fs.ErrNotExist) {
		return echo.ErrNotFound
	}
	if err != nil {
		return err
	}
	c.Response().Header().Set("Cache-Control", htmlCacheControl)
	return c.HTMLBlob(http.StatusNotFound, blob)
}

func isFile(p string) bool {
	info, err := os.Stat(p)
	return err == nil && !info.IsDir()
}
