package catalog

import (
	_ "embed"
	"fmt"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed vocabulary.yaml
var vocabularyYAML []byte

type Discipline struct {
	Name    string   `yaml:"name"`
	Classes []string `yaml:"classes"`
}

type Vocabulary struct {
	Disciplines []Discipline      `yaml:"disciplines"`
	Categories  map[string]string `yaml:"categories"`
	Containers  []string          `yaml:"containers"`
	Classes     []string          `yaml:"classes"`
}

// Index is the read-only lookup built from a Vocabulary. It is never
// mutated after BuildIndex returns.
type Index struct {
	disciplines       []Discipline
	disciplineByClass map[string]string
	categoryByClass   map[string]string
	containers        map[string]struct{}
	classByUpper      map[string]string
}

var (
	defaultOnce  sync.Once
	defaultIndex *Index
)

// Default returns the index built from the embedded vocabulary.
func Default() *Index {
	defaultOnce.Do(func() {
		v, err := ParseVocabulary(vocabularyYAML)
		if err != nil {
			panic(fmt.Errorf("embedded vocabulary: %w", err))
		}
		idx, err := BuildIndex(v)
		if err != nil {
			panic(fmt.Errorf("embedded vocabulary: %w", err))
		}
		defaultIndex = idx
	})
	return defaultIndex
}

func ParseVocabulary(data []byte) (Vocabulary, error) {
	var v Vocabulary
	if err := yaml.Unmarshal(data, &v); err != nil {
		return Vocabulary{}, fmt.Errorf("parse vocabulary: %w", err)
	}
	return v, nil
}

func BuildIndex(v Vocabulary) (*Index, error) {
	idx := &Index{
		disciplines:       make([]Discipline, 0, len(v.Disciplines)),
		disciplineByClass: map[string]string{},
		categoryByClass:   map[string]string{},
		containers:        map[string]struct{}{},
		classByUpper:      map[string]string{},
	}

	addClass := func(class string) {
		idx.classByUpper[strings.ToUpper(class)] = class
	}

	for _, d := range v.Disciplines {
		name := strings.TrimSpace(d.Name)
		if name == "" {
			return nil, fmt.Errorf("discipline without name")
		}
		classes := append([]string(nil), d.Classes...)
		for _, class := range classes {
			if prev, ok := idx.disciplineByClass[class]; ok && prev != name {
				return nil, fmt.Errorf("class %s listed under %s and %s", class, prev, name)
			}
			idx.disciplineByClass[class] = name
			addClass(class)
		}
		idx.disciplines = append(idx.disciplines, Discipline{Name: name, Classes: classes})
	}
	for class, category := range v.Categories {
		idx.categoryByClass[class] = category
		addClass(class)
	}
	for _, class := range v.Containers {
		idx.containers[class] = struct{}{}
		addClass(class)
	}
	for _, class := range v.Classes {
		addClass(class)
	}

	return idx, nil
}

// Disciplines returns a copy of the disciplines in declaration order.
func (idx *Index) Disciplines() []Discipline {
	out := make([]Discipline, 0, len(idx.disciplines))
	for _, d := range idx.disciplines {
		out = append(out, Discipline{Name: d.Name, Classes: append([]string(nil), d.Classes...)})
	}
	return out
}

func (idx *Index) DisciplineFor(class string) (string, bool) {
	d, ok := idx.disciplineByClass[class]
	return d, ok
}

// CategoryFor returns the category label for class, falling back to the
// class name without its "Ifc" prefix.
func (idx *Index) CategoryFor(class string) string {
	if c, ok := idx.categoryByClass[class]; ok {
		return c
	}
	return strings.ReplaceAll(class, "Ifc", "")
}

func (idx *Index) IsContainer(class string) bool {
	_, ok := idx.containers[class]
	return ok
}

// CanonicalClass maps an entity name as written in a STEP file (upper case)
// to its schema spelling. Unknown names keep an "Ifc" prefix and a
// capitalised remainder.
func (idx *Index) CanonicalClass(entity string) string {
	upper := strings.ToUpper(strings.TrimSpace(entity))
	if class, ok := idx.classByUpper[upper]; ok {
		return class
	}
	rest := strings.TrimPrefix(upper, "IFC")
	if rest == "" {
		return "Ifc"
	}
	return "Ifc" + rest[:1] + strings.ToLower(rest[1:])
}

func DisciplineFor(class string) (string, bool) { return Default().DisciplineFor(class) }

func CategoryFor(class string) string { return Default().CategoryFor(class) }

func Disciplines() []Discipline { return Default().Disciplines() }
