package match

import (
	"sort"
	"strings"

	"salesfeed/internal/domain"
)

// Auto-accept thresholds. Interactive suggestion flows default to 0.8; the
// unattended bulk pass uses the stricter 0.9.
const (
	DefaultThreshold    = 0.8
	UnattendedThreshold = 0.9
)

// posCodeScore ranks POS-code substring hits ahead of equal or lower
// text-similarity scores.
const posCodeScore = 0.9

// Suggestion is one ranked auto-match candidate.
type Suggestion struct {
	Product domain.Product     `json:"product"`
	Score   float64            `json:"score"`
	Reason  domain.MatchReason `json:"reason"`
}

// Engine produces ranked similarity-based candidates for raw names the exact
// resolver could not place. It is only ever invoked explicitly, for review
// assistance or a threshold-gated bulk pass, never as an implicit fallback
// inside the pipeline.
type Engine struct {
	catalog *Catalog
}

// NewEngine builds a suggestion engine over a per-run catalog index.
func NewEngine(catalog *Catalog) *Engine {
	return &Engine{catalog: catalog}
}

// Suggest returns candidates ranked by descending score. Resolution layers,
// in order: structural add-on handlers (terminal for recognized prefixes),
// the grouping resolver, the static alias table, then generic scoring over
// candidates filtered by the name's category signal.
func (e *Engine) Suggest(rawName string) []Suggestion {
	normalized := Normalize(rawName)
	if normalized == "" {
		return nil
	}

	if out, handled := resolveAddon(normalized, e.catalog); handled {
		return out
	}
	if out, handled := resolveGrouping(normalized, e.catalog); handled {
		return out
	}
	if canonical, ok := staticAliases[normalized]; ok {
		if p, found := e.catalog.ByName(canonical); found {
			return []Suggestion{{Product: *p, Score: 1, Reason: domain.MatchReasonAlias}}
		}
	}

	return e.scoreCandidates(normalized)
}

// AutoMatch returns the top suggestion when its score clears the threshold.
// Ties are already broken by candidate index order during ranking.
func (e *Engine) AutoMatch(rawName string, threshold float64) (*Suggestion, bool) {
	if threshold <= 0 {
		threshold = DefaultThreshold
	}
	suggestions := e.Suggest(rawName)
	if len(suggestions) == 0 || suggestions[0].Score < threshold {
		return nil, false
	}
	return &suggestions[0], true
}

func (e *Engine) scoreCandidates(normalized string) []Suggestion {
	signal, restricted := signalFor(normalized)

	var out []Suggestion
	for _, p := range e.catalog.Products() {
		if restricted && !signal.candidates.MatchString(Normalize(p.Name)) {
			continue
		}

		score := Similarity(normalized, p.Name)
		reason := domain.MatchReasonSimilarity
		if p.POSCode != "" && strings.Contains(normalized, strings.ToLower(p.POSCode)) && posCodeScore > score {
			score = posCodeScore
			reason = domain.MatchReasonPOSCode
		}
		if score <= 0 {
			continue
		}
		out = append(out, Suggestion{Product: p, Score: score, Reason: reason})
	}
	sortSuggestions(out)
	return out
}

// sortSuggestions orders by descending score; the stable sort preserves
// candidate index order on ties.
func sortSuggestions(s []Suggestion) {
	sort.SliceStable(s, func(i, j int) bool {
		return s[i].Score > s[j].Score
	})
}
