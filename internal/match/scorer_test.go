package match_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"salesfeed/internal/match"
)

func TestSimilarity_Identity(t *testing.T) {
	assert.Equal(t, 1.0, match.Similarity("Cappuccino", "Cappuccino"))
	assert.Equal(t, 1.0, match.Similarity("Gin & Tonic", "gin and tonic"))
}

func TestSimilarity_Bounds(t *testing.T) {
	pairs := [][2]string{
		{"Cappuccino", "Flat White"},
		{"Espresso Martini", "Espresso"},
		{"Sunday Roast Beef", "Roast"},
		{"Cola 330ml", "Cola"},
	}
	for _, p := range pairs {
		s := match.Similarity(p[0], p[1])
		assert.GreaterOrEqual(t, s, 0.0, "Similarity(%q, %q)", p[0], p[1])
		assert.LessOrEqual(t, s, 1.0, "Similarity(%q, %q)", p[0], p[1])
	}
}

func TestSimilarity_EmptyIsZero(t *testing.T) {
	assert.Zero(t, match.Similarity("", "Cappuccino"))
	assert.Zero(t, match.Similarity("Cappuccino", ""))
}

func TestSimilarity_ContainmentRanksHigher(t *testing.T) {
	contained := match.Similarity("Espresso", "Espresso Martini")
	unrelated := match.Similarity("Espresso", "Chicken Wings")
	assert.Greater(t, contained, unrelated)
}

func TestSimilarity_UnitSuffixStripped(t *testing.T) {
	// Volume units are display noise; the normalized names are identical.
	assert.Equal(t, 1.0, match.Similarity("Cola 330ml", "Cola"))
}

func TestNormalize(t *testing.T) {
	assert.Equal(t, "gin and tonic", match.Normalize("Gin & Tonic"))
	assert.Equal(t, "flat white", match.Normalize("  Flat-White  "))
	assert.Equal(t, "cola", match.Normalize("Cola 330ml"))
}

func TestTokenize_DropsStopWords(t *testing.T) {
	tokens := match.Tokenize("large cup of coffee")
	assert.Equal(t, []string{"coffee"}, tokens)
}
