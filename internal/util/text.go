package util

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

var reSpaces = regexp.MustCompile(`\s+`)

// Truncate cuts s to at most n runes, replacing the tail with "..".
func Truncate(s string, n int) string {
	if s == "" {
		return ""
	}
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	if n < 2 {
		n = 2
	}
	r := []rune(s)
	return string(r[:n-2]) + ".."
}

func NormalizeSpaces(input string) string {
	return strings.TrimSpace(reSpaces.ReplaceAllString(input, " "))
}

func NormalizeKey(input string) string {
	return strings.ToLower(NormalizeSpaces(input))
}

func SafeFileName(input string) string {
	repl := strings.NewReplacer("<", "_", ">", "_", ":", "_", "/", "_", "\\", "_", "|", "_", "?", "_", "*", "_", "\"", "_", " ", "_")
	out := repl.Replace(strings.TrimSpace(input))
	if utf8.RuneCountInString(out) > 80 {
		out = string([]rune(out)[:80])
	}
	if out == "" {
		return "_"
	}
	return out
}

func DiceCoefficient(a, b string) float64 {
	if a == "" || b == "" {
		return 0
	}
	if a == b {
		return 1
	}

	pairs := func(s string) []string {
		r := []rune(s)
		if len(r) < 2 {
			return nil
		}
		out := make([]string, 0, len(r)-1)
		for i := 0; i < len(r)-1; i++ {
			out = append(out, string(r[i:i+2]))
		}
		return out
	}

	aPairs := pairs(a)
	bPairs := pairs(b)
	if len(aPairs) == 0 || len(bPairs) == 0 {
		return 0
	}

	bCount := map[string]int{}
	for _, p := range bPairs {
		bCount[p]++
	}
	inter := 0
	for _, p := range aPairs {
		if bCount[p] > 0 {
			inter++
			bCount[p]--
		}
	}

	return float64(2*inter) / float64(len(aPairs)+len(bPairs))
}

// ClosestMatch returns the candidate most similar to query, ignoring case
// and spacing, when its score reaches minScore.
func ClosestMatch(query string, candidates []string, minScore float64) (string, bool) {
	q := NormalizeKey(query)
	best, bestScore := "", 0.0
	for _, c := range candidates {
		score := DiceCoefficient(q, NormalizeKey(c))
		if score > bestScore {
			best, bestScore = c, score
		}
	}
	if best == "" || bestScore < minScore {
		return "", false
	}
	return best, true
}
