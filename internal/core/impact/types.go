// Package impact maps cleaned news text to impacted instruments, topics,
// entities, a directional call, a confidence score, and a horizon, via
// ordered rule evaluation. Deterministic given identical inputs and tables
package impact

// Direction is the directional call for the impacted instruments
type Direction string

// Direction values
const (
	DirectionBullish   Direction = "bullish"
	DirectionBearish   Direction = "bearish"
	DirectionUncertain Direction = "uncertain"
)

// Valid reports whether d is one of the known directions
func (d Direction) Valid() bool {
	switch d {
	case DirectionBullish, DirectionBearish, DirectionUncertain:
		return true
	}
	return false
}

// Horizon is the expected impact window of an analysis
type Horizon string

// Horizon values
const (
	HorizonImmediate Horizon = "immediate"
	HorizonIntraday  Horizon = "intraday"
	HorizonMultiDay  Horizon = "multi-day"
)

// Scoring is the raw trace carried with every analysis: the detected language
// and the ordered ids of the heuristics that fired
type Scoring struct {
	Language string   `json:"language"`
	Rules    []string `json:"rules"`
}

// Result is the outcome of analyzing one news item. Immutable once created;
// instruments are never empty (a fallback is applied)
type Result struct {
	ImpactedSymbols []string  `json:"impacted_symbols"`
	Direction       Direction `json:"direction"`
	Confidence      int       `json:"confidence"`
	Horizon         Horizon   `json:"horizon"`
	Rationale       []string  `json:"rationale"`
	Tags            []string  `json:"tags"`
	Entities        []string  `json:"entities"`
	Topics          []string  `json:"topics"`
	Scoring         Scoring   `json:"scoring"`
}
