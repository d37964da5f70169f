package match

import (
	"strings"

	"github.com/google/uuid"

	"salesfeed/internal/domain"
)

// Resolver performs priority-ordered exact resolution of a raw sales name to
// a canonical product. Strategies are tried in order and the first hit wins;
// there is no fallback into similarity scoring at this stage.
//
// Order: global ally table, report-scoped manual mapping, catalog name,
// catalog POS code, substring containment, UNMATCHED.
type Resolver struct {
	allies  map[string]uuid.UUID
	manual  map[string]uuid.UUID
	catalog *Catalog
}

// NewResolver builds a resolver over freshly loaded lookup inputs. Ally and
// manual-mapping keys are normalized on construction so raw names from any
// source compare consistently.
func NewResolver(allies []domain.Ally, manual domain.NameMapping, catalog *Catalog) *Resolver {
	r := &Resolver{
		allies:  make(map[string]uuid.UUID, len(allies)),
		manual:  make(map[string]uuid.UUID, len(manual)),
		catalog: catalog,
	}
	for _, a := range allies {
		key := Normalize(a.NormalizedName)
		if key != "" {
			r.allies[key] = a.ProductID
		}
	}
	for rawName, productID := range manual {
		key := Normalize(rawName)
		if key != "" {
			r.manual[key] = productID
		}
	}
	return r
}

// Resolve maps a raw name to a product id. The boolean result is false when
// every strategy missed and the name is UNMATCHED.
func (r *Resolver) Resolve(rawName string) (uuid.UUID, domain.MatchReason, bool) {
	normalized := Normalize(rawName)
	if normalized == "" {
		return uuid.Nil, "", false
	}

	if id, ok := r.allies[normalized]; ok {
		return id, domain.MatchReasonAlly, true
	}
	if id, ok := r.manual[normalized]; ok {
		return id, domain.MatchReasonMapping, true
	}
	if p, ok := r.catalog.ByName(normalized); ok {
		return p.ID, domain.MatchReasonCatalog, true
	}
	if p, ok := r.catalog.ByCode(strings.TrimSpace(rawName)); ok {
		return p.ID, domain.MatchReasonPOSCode, true
	}
	if p, ok := r.catalog.Containing(normalized); ok {
		return p.ID, domain.MatchReasonContains, true
	}
	return uuid.Nil, "", false
}
