package labels

import (
	"sort"

	"bimqr/internal"
)

const (
	Columns = 3
	Rows    = 6
	PerPage = Columns * Rows
)

// Page is one grid of labels. Heading marks the first page of a discipline.
type Page struct {
	Discipline string
	Heading    bool
	Elements   []internal.Element
}

// SortForLabels orders elements by discipline, category and tag.
func SortForLabels(elements []internal.Element) []internal.Element {
	out := append([]internal.Element(nil), elements...)
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.Discipline != b.Discipline {
			return a.Discipline < b.Discipline
		}
		if a.Category != b.Category {
			return a.Category < b.Category
		}
		return a.Tag < b.Tag
	})
	return out
}

// Paginate splits elements into label pages. A change of discipline always
// starts a new page, so no page mixes disciplines.
func Paginate(elements []internal.Element) []Page {
	var (
		pages   []Page
		buf     []internal.Element
		current string
		started bool
		heading bool
	)
	flush := func() {
		if len(buf) == 0 {
			return
		}
		pages = append(pages, Page{Discipline: current, Heading: heading, Elements: buf})
		buf = nil
		heading = false
	}

	for _, el := range SortForLabels(elements) {
		if !started || el.Discipline != current {
			flush()
			current = el.Discipline
			started = true
			heading = true
		}
		buf = append(buf, el)
		if len(buf) == PerPage {
			flush()
		}
	}
	flush()
	return pages
}

type CategoryCount struct {
	Category string
	Count    int
}

type DisciplineContents struct {
	Discipline string
	Categories []CategoryCount
}

// Contents groups elements by discipline then category, both sorted. An
// empty category is reported as internal.OtherCategory.
func Contents(elements []internal.Element) []DisciplineContents {
	grouped := map[string]map[string]int{}
	for _, el := range elements {
		cats, ok := grouped[el.Discipline]
		if !ok {
			cats = map[string]int{}
			grouped[el.Discipline] = cats
		}
		cat := el.Category
		if cat == "" {
			cat = internal.OtherCategory
		}
		cats[cat]++
	}

	out := make([]DisciplineContents, 0, len(grouped))
	for d, cats := range grouped {
		dc := DisciplineContents{Discipline: d}
		for c, n := range cats {
			dc.Categories = append(dc.Categories, CategoryCount{Category: c, Count: n})
		}
		sort.Slice(dc.Categories, func(i, j int) bool { return dc.Categories[i].Category < dc.Categories[j].Category })
		out = append(out, dc)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Discipline < out[j].Discipline })
	return out
}
