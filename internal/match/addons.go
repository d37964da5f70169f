package match

import (
	"regexp"
	"strings"

	"salesfeed/internal/domain"
)

// addonAcceptThreshold is the minimum score an add-on handler accepts. Names
// with a recognized structural prefix never fall through to generic scoring:
// below the threshold they are UNMATCHED.
const addonAcceptThreshold = 0.7

var (
	extraPrefixRe = regexp.MustCompile(`^(extra|add)\s+(.+)$`)
	milkSyrupRe   = regexp.MustCompile(`^([a-z]+)\s+(milk|syrup)$`)
	shotSuffixRe  = regexp.MustCompile(`^(.+?)\s+shot$`)
)

// addonHandler recognizes one structural add-on naming pattern and rewrites
// the raw name into the term searched within the catalog's extras family.
type addonHandler struct {
	name    string
	rewrite func(normalized string) (string, bool)
}

var addonHandlers = []addonHandler{
	{
		// "extra cheese", "add bacon"
		name: "extra-prefix",
		rewrite: func(s string) (string, bool) {
			m := extraPrefixRe.FindStringSubmatch(s)
			if m == nil {
				return "", false
			}
			return m[2], true
		},
	},
	{
		// "oat milk", "vanilla syrup"
		name: "milk-syrup",
		rewrite: func(s string) (string, bool) {
			m := milkSyrupRe.FindStringSubmatch(s)
			if m == nil {
				return "", false
			}
			return m[1] + " " + m[2], true
		},
	},
	{
		// "espresso shot"
		name: "shot-suffix",
		rewrite: func(s string) (string, bool) {
			m := shotSuffixRe.FindStringSubmatch(s)
			if m == nil {
				return "", false
			}
			return strings.TrimSpace(m[0]), true
		},
	},
}

// resolveAddon routes structural add-on names to the extras family. The
// second result reports whether any handler recognized the name; when true,
// an empty suggestion list means UNMATCHED and generic scoring must not run.
func resolveAddon(normalized string, catalog *Catalog) ([]Suggestion, bool) {
	for _, h := range addonHandlers {
		term, ok := h.rewrite(normalized)
		if !ok {
			continue
		}
		var out []Suggestion
		for _, p := range catalog.Extras() {
			score := Similarity(term, p.Name)
			if score >= addonAcceptThreshold {
				out = append(out, Suggestion{Product: p, Score: score, Reason: domain.MatchReasonAddon})
			}
		}
		sortSuggestions(out)
		return out, true
	}
	return nil, false
}
