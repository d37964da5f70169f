package match_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"salesfeed/internal/domain"
	"salesfeed/internal/match"
)

func extra(name string) domain.Product {
	p := product(name, "")
	p.IsExtra = true
	return p
}

func TestSuggest_RanksByScore(t *testing.T) {
	flatWhite := product("Flat White", "")
	espresso := product("Espresso", "")
	engine := match.NewEngine(match.NewCatalog([]domain.Product{espresso, flatWhite}))

	suggestions := engine.Suggest("Flat White Lge")
	require.NotEmpty(t, suggestions)
	assert.Equal(t, flatWhite.ID, suggestions[0].Product.ID)
	for i := 1; i < len(suggestions); i++ {
		assert.LessOrEqual(t, suggestions[i].Score, suggestions[i-1].Score)
	}
}

func TestSuggest_StaticAlias(t *testing.T) {
	cappuccino := product("Cappuccino", "")
	engine := match.NewEngine(match.NewCatalog([]domain.Product{cappuccino}))

	suggestions := engine.Suggest("Capp")
	require.Len(t, suggestions, 1)
	assert.Equal(t, cappuccino.ID, suggestions[0].Product.ID)
	assert.Equal(t, 1.0, suggestions[0].Score)
	assert.Equal(t, domain.MatchReasonAlias, suggestions[0].Reason)
}

func TestSuggest_GroupingRoutesToParent(t *testing.T) {
	beefRoast := product("Beef Roast", "")
	engine := match.NewEngine(match.NewCatalog([]domain.Product{beefRoast, product("Cappuccino", "")}))

	suggestions := engine.Suggest("Sunday Roast Beef & Trimmings")
	require.Len(t, suggestions, 1)
	assert.Equal(t, beefRoast.ID, suggestions[0].Product.ID)
	assert.Equal(t, domain.MatchReasonGrouping, suggestions[0].Reason)
	assert.InDelta(t, 0.95, suggestions[0].Score, 1e-9)
}

func TestSuggest_AddonSearchesExtrasFamily(t *testing.T) {
	cheese := extra("Cheese")
	engine := match.NewEngine(match.NewCatalog([]domain.Product{cheese, product("Cheese Burger", "")}))

	suggestions := engine.Suggest("Extra Cheese")
	require.Len(t, suggestions, 1)
	assert.Equal(t, cheese.ID, suggestions[0].Product.ID)
	assert.Equal(t, domain.MatchReasonAddon, suggestions[0].Reason)
}

func TestSuggest_AddonPrefixIsTerminal(t *testing.T) {
	// A recognized add-on prefix never falls through to generic scoring, even
	// when the catalog has a plausible non-extra candidate.
	gravyBoat := product("Gravy", "")
	engine := match.NewEngine(match.NewCatalog([]domain.Product{gravyBoat}))

	assert.Empty(t, engine.Suggest("Extra Gravy"))
}

func TestAutoMatch_ThresholdGate(t *testing.T) {
	cappuccino := product("Cappuccino", "")
	engine := match.NewEngine(match.NewCatalog([]domain.Product{cappuccino}))

	s, ok := engine.AutoMatch("Capp", match.UnattendedThreshold)
	require.True(t, ok)
	assert.Equal(t, cappuccino.ID, s.Product.ID)

	_, ok = engine.AutoMatch("Mystery Item ZZZ", match.UnattendedThreshold)
	assert.False(t, ok)
}

func TestAutoMatch_NoCandidates(t *testing.T) {
	engine := match.NewEngine(match.NewCatalog(nil))
	_, ok := engine.AutoMatch("Cappuccino", match.DefaultThreshold)
	assert.False(t, ok)
}
