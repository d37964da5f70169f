// Package match resolves free-text POS product names to canonical catalog
// entries. Resolution is split into two stages: a priority-ordered exact
// resolver used by the processing pipeline, and a similarity-based suggestion
// engine invoked explicitly for review assistance and bulk auto-mapping.
package match

import (
	"regexp"
	"strings"
)

// stopWords are serving-size and generic qualifier tokens that carry no
// signal for matching menu names.
var stopWords = map[string]bool{
	"a": true, "an": true, "the": true, "of": true, "with": true,
	"small": true, "medium": true, "large": true, "regular": true,
	"single": true, "double": true, "half": true, "full": true,
	"cup": true, "pot": true, "glass": true, "bottle": true, "pint": true,
	"portion": true, "size": true, "each": true,
}

var (
	punctRe      = regexp.MustCompile(`[-_/\\.,:;!?'"()\[\]+*]+`)
	unitSuffixRe = regexp.MustCompile(`\b\d+(\.\d+)?\s*(ml|cl|ltr|l|oz|g|kg)\b`)
	multiSpaceRe = regexp.MustCompile(`\s+`)
)

// Normalize lowers, trims and canonicalizes a product name for matching:
// ampersands expand to "and", punctuation and hyphens collapse to spaces,
// volume unit suffixes are stripped, and whitespace is collapsed.
func Normalize(name string) string {
	s := strings.ToLower(strings.TrimSpace(name))
	s = strings.ReplaceAll(s, "&", " and ")
	s = punctRe.ReplaceAllString(s, " ")
	s = unitSuffixRe.ReplaceAllString(s, " ")
	s = multiSpaceRe.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}

// Tokenize splits a normalized name on whitespace and drops stop words.
func Tokenize(normalized string) []string {
	fields := strings.Fields(normalized)
	tokens := make([]string, 0, len(fields))
	for _, f := range fields {
		if stopWords[f] {
			continue
		}
		tokens = append(tokens, f)
	}
	return tokens
}
