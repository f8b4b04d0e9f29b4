// Completion: 100% - Suggestion helpers complete
package engine

import (
	"cmp"
	"slices"
)

// maxSuggestionDistance is the largest edit distance still worth suggesting
const maxSuggestionDistance = 3

// levenshteinDistance counts the byte insertions, deletions and
// substitutions needed to turn a into b
func levenshteinDistance(a, b string) int {
	prev := make([]int, len(b)+1)
	cur := make([]int, len(b)+1)
	for j := range prev {
		prev[j] = j
	}

	for i := 1; i <= len(a); i++ {
		cur[0] = i
		for j := 1; j <= len(b); j++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}
			cur[j] = min(prev[j]+1, cur[j-1]+1, prev[j-1]+cost)
		}
		prev, cur = cur, prev
	}
	return prev[len(b)]
}

// SimilarWords returns up to maxSuggestions candidates that are close to word,
// closest first. Exact matches are not returned.
func SimilarWords(word string, candidates []string, maxSuggestions int) []string {
	type suggestion struct {
		name     string
		distance int
	}

	var suggestions []suggestion
	for _, candidate := range candidates {
		if dist := levenshteinDistance(word, candidate); dist > 0 && dist <= maxSuggestionDistance {
			suggestions = append(suggestions, suggestion{candidate, dist})
		}
	}

	slices.SortFunc(suggestions, func(x, y suggestion) int {
		return cmp.Or(cmp.Compare(x.distance, y.distance), cmp.Compare(x.name, y.name))
	})

	n := min(len(suggestions), max(0, maxSuggestions))
	result := make([]string, 0, n)
	for _, s := range suggestions[:n] {
		result = append(result, s.name)
	}
	return result
}
