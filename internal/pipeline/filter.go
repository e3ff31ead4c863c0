package pipeline

import (
	"fmt"
	"sort"
	"strings"

	"bimqr/internal"
	"bimqr/internal/util"
)

const suggestionThreshold = 0.5

type NoDisciplineMatchError struct {
	Discipline string
	Present    []string
	Suggestion string
}

func (e *NoDisciplineMatchError) Error() string {
	msg := fmt.Sprintf("no element matches discipline %q; disciplines in the input: %s",
		e.Discipline, strings.Join(e.Present, ", "))
	if e.Suggestion != "" {
		msg += fmt.Sprintf(" (did you mean %q?)", e.Suggestion)
	}
	return msg
}

// FilterByDiscipline keeps the elements whose discipline equals discipline
// exactly. An empty result is an error naming the disciplines present.
func FilterByDiscipline(elements []internal.Element, discipline string) ([]internal.Element, error) {
	out := make([]internal.Element, 0, len(elements))
	for _, el := range elements {
		if el.Discipline == discipline {
			out = append(out, el)
		}
	}
	if len(out) > 0 {
		return out, nil
	}

	present := make([]string, 0)
	for _, c := range DisciplineCounts(elements) {
		present = append(present, c.Discipline)
	}
	suggestion, _ := util.ClosestMatch(discipline, present, suggestionThreshold)
	return nil, &NoDisciplineMatchError{Discipline: discipline, Present: present, Suggestion: suggestion}
}

// DisciplineCounts tallies elements per discipline, sorted by name.
func DisciplineCounts(elements []internal.Element) []internal.DisciplineCount {
	counts := map[string]int{}
	for _, el := range elements {
		counts[el.Discipline]++
	}
	out := make([]internal.DisciplineCount, 0, len(counts))
	for d, n := range counts {
		out = append(out, internal.DisciplineCount{Discipline: d, Count: n})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Discipline < out[j].Discipline })
	return out
}
