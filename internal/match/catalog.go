package match

import (
	"sort"
	"strings"

	"salesfeed/internal/domain"
)

// Catalog is a per-run dual index over canonical products: by normalized name
// and by POS code. Indices are rebuilt fresh on every pipeline invocation and
// never cached across runs.
type Catalog struct {
	products []domain.Product
	byName   map[string]int
	byCode   map[string]int
}

// NewCatalog indexes a product list. On duplicate normalized names or codes
// the earliest catalog entry wins, matching the source ordering.
func NewCatalog(products []domain.Product) *Catalog {
	c := &Catalog{
		products: products,
		byName:   make(map[string]int, len(products)),
		byCode:   make(map[string]int, len(products)),
	}
	for i := range products {
		name := Normalize(products[i].Name)
		if name != "" {
			if _, ok := c.byName[name]; !ok {
				c.byName[name] = i
			}
		}
		if code := products[i].POSCode; code != "" {
			if _, ok := c.byCode[code]; !ok {
				c.byCode[code] = i
			}
		}
	}
	return c
}

// Products returns the indexed products in catalog order.
func (c *Catalog) Products() []domain.Product {
	return c.products
}

// ByName looks up a product by its normalized name.
func (c *Catalog) ByName(normalized string) (*domain.Product, bool) {
	i, ok := c.byName[normalized]
	if !ok {
		return nil, false
	}
	return &c.products[i], true
}

// ByCode looks up a product by its POS code.
func (c *Catalog) ByCode(code string) (*domain.Product, bool) {
	i, ok := c.byCode[code]
	if !ok {
		return nil, false
	}
	return &c.products[i], true
}

// Containing returns the product whose normalized name contains, or is
// contained by, the given normalized name. Ties break on longest catalog
// name, then catalog order, so the result is stable across index rebuilds.
func (c *Catalog) Containing(normalized string) (*domain.Product, bool) {
	if normalized == "" {
		return nil, false
	}
	type hit struct {
		index int
		size  int
	}
	var hits []hit
	for name, i := range c.byName {
		if containsEither(normalized, name) {
			hits = append(hits, hit{index: i, size: len(name)})
		}
	}
	if len(hits) == 0 {
		return nil, false
	}
	sort.Slice(hits, func(a, b int) bool {
		if hits[a].size != hits[b].size {
			return hits[a].size > hits[b].size
		}
		return hits[a].index < hits[b].index
	})
	return &c.products[hits[0].index], true
}

// Extras returns the add-on family of the catalog.
func (c *Catalog) Extras() []domain.Product {
	var extras []domain.Product
	for _, p := range c.products {
		if p.IsExtra {
			extras = append(extras, p)
		}
	}
	return extras
}

func containsEither(a, b string) bool {
	if a == "" || b == "" {
		return false
	}
	return strings.Contains(a, b) || strings.Contains(b, a)
}
