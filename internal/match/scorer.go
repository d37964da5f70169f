package match

import (
	"strings"

	"github.com/agnivade/levenshtein"
)

const containmentBonus = 0.1

// Similarity computes the composite match score between two product names:
// 0.6 x normalized edit-distance similarity plus 0.4 x token-set Jaccard
// similarity, with a containment bonus when one normalized name is a
// substring of the other. The result is always within [0, 1].
func Similarity(a, b string) float64 {
	na, nb := Normalize(a), Normalize(b)
	if na == "" || nb == "" {
		return 0
	}
	if na == nb {
		return 1
	}

	score := 0.6*editSimilarity(na, nb) + 0.4*jaccard(Tokenize(na), Tokenize(nb))
	if strings.Contains(na, nb) || strings.Contains(nb, na) {
		score += containmentBonus
	}
	if score > 1 {
		score = 1
	}
	return score
}

// editSimilarity converts Levenshtein distance into a [0,1] similarity.
func editSimilarity(a, b string) float64 {
	longest := len([]rune(a))
	if l := len([]rune(b)); l > longest {
		longest = l
	}
	if longest == 0 {
		return 1
	}
	dist := levenshtein.ComputeDistance(a, b)
	return 1 - float64(dist)/float64(longest)
}

// jaccard computes token-set intersection over union.
func jaccard(a, b []string) float64 {
	if len(a) == 0 && len(b) == 0 {
		return 1
	}
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	set := make(map[string]bool, len(a))
	for _, t := range a {
		set[t] = true
	}
	union := make(map[string]bool, len(a)+len(b))
	for _, t := range a {
		union[t] = true
	}
	intersection := 0
	seen := make(map[string]bool, len(b))
	for _, t := range b {
		union[t] = true
		if set[t] && !seen[t] {
			intersection++
			seen[t] = true
		}
	}
	return float64(intersection) / float64(len(union))
}
