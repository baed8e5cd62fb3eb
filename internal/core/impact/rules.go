package impact

// Rule tables are declarative and ordered: matching walks slices in declared
// order so instrument/topic output order and heuristic precedence are explicit
// and testable, not a side effect of map iteration

// KeywordRule maps a label (instrument symbol or topic tag) to its lower-case
// trigger keywords; the label matches when any keyword is a substring of the
// folded working text
type KeywordRule struct {
	Label    string
	Keywords []string
}

// Heuristic is one directional scoring rule. Heuristics are applied in
// declared order; a later heuristic may override the direction set earlier.
// A heuristic fires when the gating Symbol is impacted and any trigger
// keyword appears in the working text. Firing adds Delta to confidence,
// appends Rationale, and records ID in the scoring trace
type Heuristic struct {
	ID     string
	Symbol string   // gate: must be in the impacted set
	AnyOf  []string // trigger keywords over folded text

	// Direction, when non-empty, replaces the current call on fire.
	// DirectionIfKeyword/DirectionIf express a conditional call: the
	// direction only changes when the extra keyword is also present
	Direction          Direction
	DirectionIfKeyword string
	DirectionIf        Direction

	Delta     int
	Rationale string
}

// DefaultFallbackSymbol is assigned when no instrument rule matched
const DefaultFallbackSymbol = "DXY"

// FallbackRationale explains a defaulted instrument list
const FallbackRationale = "Defaulted to USD index due to macro relevance."

// BaselineConfidence is the starting confidence before heuristics
const BaselineConfidence = 40

// DefaultSymbolRules maps instrument symbols to trigger keywords
func DefaultSymbolRules() []KeywordRule {
	return []KeywordRule{
		{Label: "XAU/USD", Keywords: []string{"gold", "xau", "bullion", "real yields", "inflation", "geopolitics"}},
		{Label: "DXY", Keywords: []string{"dollar index", "dxy", "usd strength"}},
		{Label: "EUR/USD", Keywords: []string{"eurusd", "euro", "ecb"}},
		{Label: "USD/JPY", Keywords: []string{"usdjpy", "yen", "boj"}},
		{Label: "GBP/USD", Keywords: []string{"gbpusd", "pound", "boe"}},
		{Label: "WTI", Keywords: []string{"wti", "crude", "oil"}},
		{Label: "BTC", Keywords: []string{"bitcoin", "btc", "crypto"}},
	}
}

// DefaultTopicRules maps topic tags to trigger keywords
func DefaultTopicRules() []KeywordRule {
	return []KeywordRule{
		{Label: "Fed", Keywords: []string{"federal reserve", "powell", "rate hike", "rate cut"}},
		{Label: "CPI", Keywords: []string{"cpi", "inflation", "price index"}},
		{Label: "Geopolitics", Keywords: []string{"war", "conflict", "sanctions"}},
		{Label: "Risk-off", Keywords: []string{"risk-off", "safe haven", "flight to safety"}},
		{Label: "Real yields", Keywords: []string{"real yields", "treasury", "yields"}},
	}
}

// DefaultHeuristics returns the ordered directional rules. Order is load
// bearing: dovish/hawkish USD calls come after the gold rules so a policy
// headline touching both resolves to the policy direction
func DefaultHeuristics() []Heuristic {
	return []Heuristic{
		{
			ID:        "risk_off_gold",
			Symbol:    "XAU/USD",
			AnyOf:     []string{"risk-off", "flight to safety"},
			Direction: DirectionBullish,
			Delta:     20,
			Rationale: "Risk-off language suggests safe-haven bid for gold.",
		},
		{
			ID:                 "real_yields_gold",
			Symbol:             "XAU/USD",
			AnyOf:              []string{"real yields", "yields"},
			DirectionIfKeyword: "higher",
			DirectionIf:        DirectionBearish,
			Delta:              15,
			Rationale:          "Real yield commentary influences gold pricing.",
		},
		{
			ID:        "dovish_usd",
			Symbol:    "DXY",
			AnyOf:     []string{"rate cut", "dovish"},
			Direction: DirectionBearish,
			Delta:     15,
			Rationale: "Dovish policy tone weighs on USD.",
		},
		{
			ID:        "hawkish_usd",
			Symbol:    "DXY",
			AnyOf:     []string{"rate hike", "hawkish"},
			Direction: DirectionBullish,
			Delta:     15,
			Rationale: "Hawkish policy tone supports USD.",
		},
		{
			ID:        "geo_risk_gold",
			Symbol:    "XAU/USD",
			AnyOf:     []string{"geopolitics", "conflict"},
			Direction: DirectionBullish,
			Delta:     10,
			Rationale: "Geopolitical risk supports safe-haven demand.",
		},
	}
}
