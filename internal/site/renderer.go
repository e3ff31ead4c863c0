package site

import (
	"bytes"
	"errors"
	"fmt"
	"html/template"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"time"

	"bimqr/internal"
	"bimqr/internal/config"
)

const (
	elementTemplate  = "element.html"
	indexTemplate    = "index.html"
	notFoundTemplate = "404.html"
)

type Renderer struct {
	TemplateDir string
	SiteDir     string
	BaseURL     string
	BrandName   string
	Now         func() time.Time
}

func NewRenderer(cfg config.Config) *Renderer {
	return &Renderer{
		TemplateDir: cfg.TemplateDir,
		SiteDir:     cfg.SiteDir,
		BaseURL:     cfg.BaseURL,
		BrandName:   cfg.BrandName,
		Now:         time.Now,
	}
}

type Result struct {
	Dir      string
	Pages    int
	NotFound bool
}

type Property struct {
	Name  string
	Value string
}

type ElementPage struct {
	Project     string
	Brand       string
	BaseURL     string
	URL         string
	GeneratedAt string
	Element     internal.Element
	Properties  []Property
}

type IndexPage struct {
	Project     string
	Brand       string
	BaseURL     string
	GeneratedAt string
	Total       int
	Elements    []IndexEntry
	Disciplines []internal.DisciplineCount
}

type IndexEntry struct {
	internal.Element
	URL  string
	Path string
}

type NotFoundPage struct {
	Project string
	Brand   string
	BaseURL string
}

type templates struct {
	element  *template.Template
	index    *template.Template
	notFound *template.Template
}

func (r *Renderer) load() (templates, error) {
	info, err := os.Stat(r.TemplateDir)
	if err != nil || !info.IsDir() {
		return templates{}, fmt.Errorf("template directory not found: %s (run from the project directory or set TEMPLATE_DIR)", r.TemplateDir)
	}

	var t templates
	if t.element, err = r.parse(elementTemplate); err != nil {
		return templates{}, err
	}
	if t.index, err = r.parse(indexTemplate); err != nil {
		return templates{}, err
	}
	t.notFound, err = r.parse(notFoundTemplate)
	if errors.Is(err, fs.ErrNotExist) {
		t.notFound, err = nil, nil
	}
	if err != nil {
		return templates{}, err
	}
	return t, nil
}

func (r *Renderer) parse(name string) (*template.Template, error) {
	path := filepath.Join(r.TemplateDir, name)
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("template not found: %s: %w", path, fs.ErrNotExist)
	}
	tpl, err := template.New(name).Funcs(funcs).ParseFiles(path)
	if err != nil {
		return nil, fmt.Errorf("parse template %s: %w", name, err)
	}
	return tpl, nil
}

// Generate writes one page per element, the index page and, when its
// template exists, the 404 page.
func (r *Renderer) Generate(elements []internal.Element, project string) (Result, error) {
	tpls, err := r.load()
	if err != nil {
		return Result{}, err
	}
	generatedAt := r.Now().Format("02/01/2006 15:04")
	res := Result{Dir: r.SiteDir}

	for _, el := range elements {
		page := ElementPage{
			Project:     project,
			Brand:       r.BrandName,
			BaseURL:     r.BaseURL,
			URL:         internal.ElementURL(r.BaseURL, el.Tag),
			GeneratedAt: generatedAt,
			Element:     el,
			Properties:  sortedProperties(el.CustomProperties),
		}
		if err := render(tpls.element, filepath.Join(r.SiteDir, "e", el.Tag, "index.html"), page); err != nil {
			return res, fmt.Errorf("element %s: %w", el.Tag, err)
		}
		res.Pages++
	}

	if tpls.notFound != nil {
		page := NotFoundPage{Project: project, Brand: r.BrandName, BaseURL: r.BaseURL}
		if err := render(tpls.notFound, filepath.Join(r.SiteDir, "404.html"), page); err != nil {
			return res, fmt.Errorf("404 page: %w", err)
		}
		res.NotFound = true
	}

	if err := render(tpls.index, filepath.Join(r.SiteDir, "index.html"), r.indexPage(elements, project, generatedAt)); err != nil {
		return res, fmt.Errorf("index page: %w", err)
	}
	return res, nil
}

func (r *Renderer) indexPage(elements []internal.Element, project, generatedAt string) IndexPage {
	sorted := append([]internal.Element(nil), elements...)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Discipline != sorted[j].Discipline {
			return sorted[i].Discipline < sorted[j].Discipline
		}
		return sorted[i].Tag < sorted[j].Tag
	})

	counts := map[string]int{}
	entries := make([]IndexEntry, 0, len(sorted))
	for _, el := range sorted {
		counts[el.Discipline]++
		entries = append(entries, IndexEntry{
			Element: el,
			URL:     internal.ElementURL(r.BaseURL, el.Tag),
			Path:    "e/" + el.Tag + "/",
		})
	}
	disciplines := make([]internal.DisciplineCount, 0, len(counts))
	for d, n := range counts {
		disciplines = append(disciplines, internal.DisciplineCount{Discipline: d, Count: n})
	}
	sort.Slice(disciplines, func(i, j int) bool { return disciplines[i].Discipline < disciplines[j].Discipline })

	return IndexPage{
		Project:     project,
		Brand:       r.BrandName,
		BaseURL:     r.BaseURL,
		GeneratedAt: generatedAt,
		Total:       len(sorted),
		Elements:    entries,
		Disciplines: disciplines,
	}
}

func sortedProperties(props map[string]string) []Property {
	out := make([]Property, 0, len(props))
	for k, v := range props {
		out = append(out, Property{Name: k, Value: v})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

func render(tpl *template.Template, path string, data any) error {
	var buf bytes.Buffer
	if err := tpl.Execute(&buf, data); err != nil {
		return fmt.Errorf("render %s: %w", tpl.Name(), err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, buf.Bytes(), 0o644)
}
