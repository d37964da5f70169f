package match

import (
	"strings"

	"salesfeed/internal/domain"
)

// groupingScore is reported for deterministic keyword-bucket routes. It sits
// above the unattended auto-accept threshold because the route is curated,
// not inferred.
const groupingScore = 0.95

// keywordBucket routes a compound item to a parent catalog entry when any of
// its keywords appears in the raw name.
type keywordBucket struct {
	keywords []string
	parent   string
}

// groupingRule captures a compound-category family: items share a lexical
// prefix and collapse onto a small set of parent entries.
type groupingRule struct {
	prefix  string
	buckets []keywordBucket
}

var groupingRules = []groupingRule{
	{
		prefix: "brunch",
		buckets: []keywordBucket{
			{keywords: []string{"vegan", "veggie", "vegetarian"}, parent: "vegetarian brunch"},
			{keywords: []string{"full", "classic", "big", "house"}, parent: "full brunch"},
			{keywords: []string{"light", "small"}, parent: "light brunch"},
		},
	},
	{
		prefix: "roast",
		buckets: []keywordBucket{
			{keywords: []string{"beef"}, parent: "beef roast"},
			{keywords: []string{"chicken"}, parent: "chicken roast"},
			{keywords: []string{"pork"}, parent: "pork roast"},
			{keywords: []string{"vegan", "veggie", "vegetarian", "nut"}, parent: "vegetarian roast"},
		},
	},
	{
		prefix: "sunday",
		buckets: []keywordBucket{
			{keywords: []string{"beef"}, parent: "beef roast"},
			{keywords: []string{"chicken"}, parent: "chicken roast"},
			{keywords: []string{"pork"}, parent: "pork roast"},
			{keywords: []string{"vegan", "veggie", "vegetarian", "nut"}, parent: "vegetarian roast"},
		},
	},
}

// resolveGrouping routes compound-category names onto their parent entries
// via secondary keyword buckets. Missing parents simply skip the bucket so a
// thinner catalog degrades to generic scoring.
func resolveGrouping(normalized string, catalog *Catalog) ([]Suggestion, bool) {
	for _, rule := range groupingRules {
		if !strings.HasPrefix(normalized, rule.prefix) {
			continue
		}
		for _, b := range rule.buckets {
			for _, kw := range b.keywords {
				if !strings.Contains(normalized, kw) {
					continue
				}
				if p, ok := catalog.ByName(b.parent); ok {
					return []Suggestion{{Product: *p, Score: groupingScore, Reason: domain.MatchReasonGrouping}}, true
				}
			}
		}
	}
	return nil, false
}
