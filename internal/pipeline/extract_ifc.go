package pipeline

import (
	"fmt"
	"strings"

	"bimqr/internal"
	"bimqr/internal/catalog"
	"bimqr/internal/ifc"
)

var (
	tagKeys       = []string{"Marca", "Mark", "marca"}
	operationKeys = []string{"Operacion", "Operación", "Operation Type"}
)

// ParseModel extracts tagged elements from an IFC STEP file. A non-empty
// disciplineOverride replaces the class-derived discipline of every element.
func ParseModel(path, disciplineOverride string) ([]internal.Element, internal.ExtractReport, error) {
	report := internal.ExtractReport{Source: internal.InputIFC}
	model, err := ifc.Open(path)
	if err != nil {
		return nil, report, fmt.Errorf("open IFC file: %w", err)
	}
	elements := extractModelElements(model, strings.TrimSpace(disciplineOverride), &report)
	return elements, report, nil
}

func extractModelElements(model *ifc.Model, override string, report *internal.ExtractReport) []internal.Element {
	vocab := catalog.Default()
	skip := map[string]struct{}{}
	for _, k := range append(append([]string{"id"}, tagKeys...), operationKeys...) {
		skip[k] = struct{}{}
	}

	out := []internal.Element{}
	for _, product := range model.Products() {
		class := vocab.CanonicalClass(product.Type)
		if vocab.IsContainer(class) {
			continue
		}
		report.Rows++

		psets, err := model.PropertySets(product)
		if err != nil {
			psets = nil
		}

		rawTag := firstProperty(psets, tagKeys)
		if rawTag == "" {
			report.SkippedNoTag++
			continue
		}
		tag, ok := SanitizeTag(rawTag)
		if !ok {
			report.SkippedBadTag++
			continue
		}

		discipline := override
		if discipline == "" {
			if d, ok := vocab.DisciplineFor(class); ok {
				discipline = d
			} else {
				discipline = internal.Unclassified
			}
		}

		el := internal.Element{
			GUID:             product.Str(0),
			Name:             strings.TrimSpace(product.Str(2)),
			Tag:              tag,
			Discipline:       discipline,
			Operation:        firstProperty(psets, operationKeys),
			ModelClass:       class,
			Category:         vocab.CategoryFor(class),
			CustomProperties: map[string]string{},
		}
		if typ, ok := model.TypeOf(product); ok {
			el.TypeName = strings.TrimSpace(typ.Str(2))
			el.TypeGUID = typ.Str(0)
		}
		for _, ps := range psets {
			for _, p := range ps.Properties {
				if _, known := skip[p.Name]; known || !ifc.Truthy(p.Value) {
					continue
				}
				if v := strings.TrimSpace(ifc.FormatValue(p.Value)); v != "" {
					el.CustomProperties[p.Name] = v
				}
			}
		}
		out = append(out, el)
	}
	report.Extracted = len(out)
	return out
}

// firstProperty returns the first non-empty value found for any of keys,
// searching property sets in order and keys in order within each set.
func firstProperty(psets []ifc.PropertySet, keys []string) string {
	for _, ps := range psets {
		for _, key := range keys {
			v, ok := ps.Get(key)
			if !ok || !ifc.Truthy(v) {
				continue
			}
			if s := strings.TrimSpace(ifc.FormatValue(v)); s != "" {
				return s
			}
		}
	}
	return ""
}
