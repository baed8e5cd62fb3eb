package domain

import (
	"testing"
	"time"

	"fxradar/internal/core/impact"
)

func strp(s string) *string                     { return &s }
func intp(n int) *int                           { return &n }
func dirp(d impact.Direction) *impact.Direction { return &d }

func rule(id int64, c Condition) Rule {
	return Rule{ID: id, Name: "r", Condition: c, Enabled: true}
}

func analysis(symbols []string, dir impact.Direction, conf int) impact.Result {
	return impact.Result{ImpactedSymbols: symbols, Direction: dir, Confidence: conf}
}

func TestConditionMatches(t *testing.T) {
	cases := []struct {
		name string
		cond Condition
		res  impact.Result
		want bool
	}{
		{"empty condition matches anything", Condition{}, analysis([]string{"DXY"}, impact.DirectionUncertain, 1), true},
		{"symbol present", Condition{Symbol: strp("XAUUSD")}, analysis([]string{"XAUUSD", "DXY"}, impact.DirectionBullish, 50), true},
		{"symbol absent", Condition{Symbol: strp("XAUUSD")}, analysis([]string{"DXY"}, impact.DirectionBullish, 50), false},
		{"confidence at floor fires", Condition{MinConfidence: intp(80)}, analysis([]string{"DXY"}, impact.DirectionBullish, 80), true},
		{"confidence one below floor never fires", Condition{MinConfidence: intp(80)}, analysis([]string{"DXY"}, impact.DirectionBullish, 79), false},
		{"direction equal", Condition{Direction: dirp(impact.DirectionBearish)}, analysis([]string{"DXY"}, impact.DirectionBearish, 50), true},
		{"direction differs", Condition{Direction: dirp(impact.DirectionBearish)}, analysis([]string{"DXY"}, impact.DirectionBullish, 50), false},
		{
			"all conditions must hold",
			Condition{Symbol: strp("DXY"), MinConfidence: intp(60), Direction: dirp(impact.DirectionBullish)},
			analysis([]string{"DXY"}, impact.DirectionBullish, 55),
			false,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.cond.Matches(tc.res); got != tc.want {
				t.Fatalf("Matches() = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestDecideDebounce(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	res := analysis([]string{"XAUUSD"}, impact.DirectionBullish, 70)
	r := rule(1, Condition{Symbol: strp("XAUUSD")})

	// no prior event: fires
	if fired := Decide([]Rule{r}, nil, res, now, DefaultDebounce); len(fired) != 1 {
		t.Fatalf("expected 1 firing, got %d", len(fired))
	}

	// fired 599s ago: suppressed
	last := map[int64]time.Time{1: now.Add(-599 * time.Second)}
	if fired := Decide([]Rule{r}, last, res, now, DefaultDebounce); len(fired) != 0 {
		t.Fatalf("expected suppression inside window, got %d firings", len(fired))
	}

	// fired exactly 600s ago: window elapsed, fires again
	last[1] = now.Add(-600 * time.Second)
	if fired := Decide([]Rule{r}, last, res, now, DefaultDebounce); len(fired) != 1 {
		t.Fatalf("expected firing at window boundary, got %d", len(fired))
	}
}

func TestDecideRulesIndependent(t *testing.T) {
	now := time.Now()
	res := analysis([]string{"XAUUSD"}, impact.DirectionBullish, 70)
	suppressed := rule(1, Condition{Symbol: strp("XAUUSD")})
	fresh := rule(2, Condition{Symbol: strp("XAUUSD")})

	last := map[int64]time.Time{1: now.Add(-time.Minute)}
	fired := Decide([]Rule{suppressed, fresh}, last, res, now, DefaultDebounce)
	if len(fired) != 1 || fired[0].ID != 2 {
		t.Fatalf("expected only rule 2 to fire, got %+v", fired)
	}
}

func TestDecideDisabledRule(t *testing.T) {
	r := rule(1, Condition{})
	r.Enabled = false
	res := analysis([]string{"DXY"}, impact.DirectionUncertain, 90)
	if fired := Decide([]Rule{r}, nil, res, time.Now(), DefaultDebounce); len(fired) != 0 {
		t.Fatalf("disabled rule fired")
	}
}
