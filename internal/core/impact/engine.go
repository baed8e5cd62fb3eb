package impact

import (
	"strings"

	"fxradar/internal/core/canonical"
	"fxradar/internal/core/langhint"
)

// Analyzer runs the ordered rule evaluation. Safe for concurrent use once
// constructed; rule tables are never mutated after New
type Analyzer struct {
	symbols    []KeywordRule
	topics     []KeywordRule
	heuristics []Heuristic
	extract    Extractor
	fallback   string
}

// Option mutates the Analyzer during construction
type Option func(*Analyzer)

// WithExtractor selects the entity extraction capability
func WithExtractor(e Extractor) Option {
	return func(a *Analyzer) {
		if e != nil {
			a.extract = e
		}
	}
}

// WithSymbolRules replaces the instrument keyword table
func WithSymbolRules(rules []KeywordRule) Option {
	return func(a *Analyzer) { a.symbols = rules }
}

// WithTopicRules replaces the topic keyword table
func WithTopicRules(rules []KeywordRule) Option {
	return func(a *Analyzer) { a.topics = rules }
}

// WithHeuristics replaces the ordered directional rules
func WithHeuristics(hs []Heuristic) Option {
	return func(a *Analyzer) { a.heuristics = hs }
}

// New constructs an Analyzer with the default tables and heuristic extractor
func New(opts ...Option) *Analyzer {
	a := &Analyzer{
		symbols:    DefaultSymbolRules(),
		topics:     DefaultTopicRules(),
		heuristics: DefaultHeuristics(),
		extract:    HeuristicExtractor{},
		fallback:   DefaultFallbackSymbol,
	}
	for _, o := range opts {
		o(a)
	}
	return a
}

// Analyze scores one item. It never returns an error: language detection and
// entity extraction degrade to placeholders, rule matching is pure string work
func (a *Analyzer) Analyze(title, summary, content string) Result {
	cleaned := canonical.CleanText(title + " " + summary + " " + content)
	folded := canonical.Fold(cleaned)

	lang := langhint.Unknown
	if cleaned != "" {
		lang = langhint.Detect(cleaned)
	}

	entities := a.safeExtract(cleaned)
	topics := matchRules(folded, a.topics)
	impacted := matchRules(folded, a.symbols)

	res := Result{
		Direction:  DirectionUncertain,
		Confidence: BaselineConfidence,
		Rationale:  []string{},
		Entities:   entities,
		Topics:     topics,
		Scoring:    Scoring{Language: lang, Rules: []string{}},
	}

	hit := make(map[string]bool, len(impacted))
	for _, s := range impacted {
		hit[s] = true
	}

	for _, h := range a.heuristics {
		if !hit[h.Symbol] {
			continue
		}
		if !containsAny(folded, h.AnyOf) {
			continue
		}
		if h.Direction != "" {
			res.Direction = h.Direction
		} else if h.DirectionIfKeyword != "" && strings.Contains(folded, h.DirectionIfKeyword) {
			res.Direction = h.DirectionIf
		}
		res.Confidence += h.Delta
		res.Rationale = append(res.Rationale, h.Rationale)
		res.Scoring.Rules = append(res.Scoring.Rules, h.ID)
	}

	if len(impacted) == 0 {
		impacted = []string{a.fallback}
		res.Rationale = append(res.Rationale, FallbackRationale)
	}
	res.ImpactedSymbols = impacted

	switch {
	case res.Confidence >= 80:
		res.Horizon = HorizonImmediate
	case res.Confidence < 50:
		res.Horizon = HorizonMultiDay
	default:
		res.Horizon = HorizonIntraday
	}

	if res.Confidence > 100 {
		res.Confidence = 100
	}
	if res.Confidence < 0 {
		res.Confidence = 0
	}

	// tags mirror the matched topics, not the instruments
	res.Tags = topics

	return res
}

// safeExtract isolates extractor faults: a panicking or failing capability
// degrades to no entities, never into the pipeline
func (a *Analyzer) safeExtract(text string) (out []string) {
	defer func() {
		if recover() != nil {
			out = []string{}
		}
	}()
	out = a.extract.Extract(text)
	if out == nil {
		out = []string{}
	}
	return out
}

// matchRules walks the table in order, collecting labels whose keywords occur
// in the folded text
func matchRules(folded string, rules []KeywordRule) []string {
	matched := []string{}
	for _, r := range rules {
		if containsAny(folded, r.Keywords) {
			matched = append(matched, r.Label)
		}
	}
	return matched
}

func containsAny(s string, subs []string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
