package pipeline

import (
	"fmt"
	"sort"
	"strings"

	"go.uber.org/zap"

	"bimqr/internal"
)

const duplicateSample = 10

// DeduplicateElements keeps the first element seen for each tag, in input
// order, and returns the tag of every element it dropped.
func DeduplicateElements(elements []internal.Element) ([]internal.Element, []string) {
	seen := make(map[string]struct{}, len(elements))
	out := make([]internal.Element, 0, len(elements))
	dups := []string{}
	for _, el := range elements {
		if _, exists := seen[el.Tag]; exists {
			dups = append(dups, el.Tag)
			continue
		}
		seen[el.Tag] = struct{}{}
		out = append(out, el)
	}
	return out, dups
}

func ReportDuplicates(logger *zap.Logger, dups []string) {
	if len(dups) == 0 {
		return
	}
	logger.Warn("duplicate tags dropped, first occurrence kept",
		zap.Int("count", len(dups)),
		zap.String("tags", DuplicateSummary(dups)),
	)
}

// DuplicateSummary lists up to ten distinct duplicate tags in sorted order.
func DuplicateSummary(dups []string) string {
	distinct := map[string]struct{}{}
	for _, d := range dups {
		distinct[d] = struct{}{}
	}
	tags := make([]string, 0, len(distinct))
	for d := range distinct {
		tags = append(tags, d)
	}
	sort.Strings(tags)

	if len(tags) <= duplicateSample {
		return strings.Join(tags, ", ")
	}
	return fmt.Sprintf("%s ... and %d more", strings.Join(tags[:duplicateSample], ", "), len(tags)-duplicateSample)
}
