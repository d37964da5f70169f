package match_test

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"salesfeed/internal/domain"
	"salesfeed/internal/match"
)

func product(name, posCode string) domain.Product {
	return domain.Product{
		ID:         uuid.New(),
		Name:       name,
		CategoryID: uuid.New(),
		POSCode:    posCode,
	}
}

func TestResolve_AllyBeatsCatalogName(t *testing.T) {
	cappuccino := product("Cappuccino", "")
	other := product("House Blend", "")
	allyTarget := other.ID

	catalog := match.NewCatalog([]domain.Product{cappuccino, other})
	resolver := match.NewResolver(
		[]domain.Ally{{ID: uuid.New(), NormalizedName: "cappuccino", ProductID: allyTarget}},
		nil,
		catalog,
	)

	id, reason, ok := resolver.Resolve("Cappuccino")
	require.True(t, ok)
	assert.Equal(t, allyTarget, id)
	assert.Equal(t, domain.MatchReasonAlly, reason)
}

func TestResolve_ManualMappingBeatsCatalog(t *testing.T) {
	cappuccino := product("Cappuccino", "")
	mapped := product("Flat White", "")

	catalog := match.NewCatalog([]domain.Product{cappuccino, mapped})
	resolver := match.NewResolver(nil,
		domain.NameMapping{"Cappuccino": mapped.ID}, catalog)

	id, reason, ok := resolver.Resolve("Cappuccino")
	require.True(t, ok)
	assert.Equal(t, mapped.ID, id)
	assert.Equal(t, domain.MatchReasonMapping, reason)
}

func TestResolve_CatalogNameAndPOSCode(t *testing.T) {
	latte := product("Latte", "")
	coded := product("Daily Special", "SKU42")
	catalog := match.NewCatalog([]domain.Product{latte, coded})
	resolver := match.NewResolver(nil, nil, catalog)

	id, reason, ok := resolver.Resolve("  LATTE  ")
	require.True(t, ok)
	assert.Equal(t, latte.ID, id)
	assert.Equal(t, domain.MatchReasonCatalog, reason)

	id, reason, ok = resolver.Resolve("SKU42")
	require.True(t, ok)
	assert.Equal(t, coded.ID, id)
	assert.Equal(t, domain.MatchReasonPOSCode, reason)
}

func TestResolve_ContainmentPrefersLongestName(t *testing.T) {
	short := product("Roast", "")
	long := product("Sunday Roast Beef", "")
	catalog := match.NewCatalog([]domain.Product{short, long})
	resolver := match.NewResolver(nil, nil, catalog)

	id, reason, ok := resolver.Resolve("Sunday Roast Beef with Trimmings")
	require.True(t, ok)
	assert.Equal(t, long.ID, id)
	assert.Equal(t, domain.MatchReasonContains, reason)
}

func TestResolve_Unmatched(t *testing.T) {
	catalog := match.NewCatalog([]domain.Product{product("Cappuccino", "")})
	resolver := match.NewResolver(nil, nil, catalog)

	_, _, ok := resolver.Resolve("Unknown Drink X")
	assert.False(t, ok)

	_, _, ok = resolver.Resolve("   ")
	assert.False(t, ok)
}

func TestCatalog_DuplicateNamesEarliestWins(t *testing.T) {
	first := product("Cappuccino", "")
	second := product("Cappuccino", "")
	catalog := match.NewCatalog([]domain.Product{first, second})

	p, ok := catalog.ByName("cappuccino")
	require.True(t, ok)
	assert.Equal(t, first.ID, p.ID)
}
