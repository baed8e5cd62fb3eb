package impact

import (
	"sort"
	"strings"
	"unicode"
)

// Extractor is the pluggable entity extraction capability. Implementations
// must be interchangeable: callers never depend on which one is active, and
// a failing extractor degrades to an empty list rather than erroring
type Extractor interface {
	// Extract returns a deduplicated, sorted list of entity surface forms
	Extract(text string) []string
}

// HeuristicExtractor is the default extractor: capitalized tokens of the
// cleaned text. No external capability required
type HeuristicExtractor struct{}

// Extract implements Extractor
func (HeuristicExtractor) Extract(text string) []string {
	seen := make(map[string]struct{})
	for _, tok := range strings.Fields(text) {
		if isTitleToken(tok) {
			seen[tok] = struct{}{}
		}
	}
	out := make([]string, 0, len(seen))
	for e := range seen {
		out = append(out, e)
	}
	sort.Strings(out)
	return out
}

// isTitleToken reports whether tok is title-cased: the first cased rune is
// upper and every following cased rune is lower ("Fed" yes, "CPI" no)
func isTitleToken(tok string) bool {
	sawCased := false
	for _, r := range tok {
		if !unicode.IsLetter(r) {
			continue
		}
		if !sawCased {
			if !unicode.IsUpper(r) {
				return false
			}
			sawCased = true
			continue
		}
		if unicode.IsUpper(r) {
			return false
		}
	}
	return sawCased
}
