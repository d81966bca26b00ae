package template

import (
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/aretw0/elo/pkg/core"
)

// Levenshtein returns the edit distance between a and b, counted in runes.
func Levenshtein(a, b string) int {
	ra, rb := []rune(a), []rune(b)
	if len(ra) == 0 {
		return len(rb)
	}
	if len(rb) == 0 {
		return len(ra)
	}
	prev := make([]int, len(rb)+1)
	cur := make([]int, len(rb)+1)
	for j := range prev {
		prev[j] = j
	}
	for i := 1; i <= len(ra); i++ {
		cur[0] = i
		for j := 1; j <= len(rb); j++ {
			cost := 1
			if ra[i-1] == rb[j-1] {
				cost = 0
			}
			cur[j] = min(prev[j]+1, cur[j-1]+1, prev[j-1]+cost)
		}
		prev, cur = cur, prev
	}
	return prev[len(rb)]
}

// Similarity is 1 minus the normalized, case-insensitive edit distance.
func Similarity(a, b string) float64 {
	a, b = strings.ToLower(a), strings.ToLower(b)
	longest := max(utf8.RuneCountInString(a), utf8.RuneCountInString(b))
	if longest == 0 {
		return 1
	}
	return 1 - float64(Levenshtein(a, b))/float64(longest)
}

// Rank scores each match against query and returns them best first.
// Ties keep name order. The input slice is not modified.
func Rank(matches []core.TemplateMatch, query string) []core.TemplateMatch {
	out := make([]core.TemplateMatch, len(matches))
	copy(out, matches)
	for i := range out {
		out[i].Score = Similarity(out[i].Template.Name, query)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Score != out[j].Score {
			return out[i].Score > out[j].Score
		}
		return out[i].Template.Name < out[j].Template.Name
	})
	return out
}
