package dedup

import "testing"

func seeded() *History {
	return NewHistory(
		[]string{"https://example.com/gold-jumps"},
		[]string{"abc123"},
		[]string{"Gold jumps on risk-off sentiment"},
	)
}

func TestIsDuplicate_SeenURL(t *testing.T) {
	e := New(0)
	h := seeded()
	r := e.Evaluate("Totally new title", "fresh content", "https://example.com/gold-jumps?utm_source=feed", h)
	if !e.IsDuplicate(r, h) {
		t.Fatalf("canonical url already seen, expected duplicate")
	}
}

func TestIsDuplicate_SeenHash(t *testing.T) {
	e := New(0)
	h := NewHistory(nil, nil, nil)
	first := e.Evaluate("Gold jumps", "risk-off tone boosts gold demand", "https://a.example/1", h)
	h.Add(first.CanonicalURL, first.Hash, "Gold jumps")

	// same title+content from a different url hashes identically
	again := e.Evaluate("Gold jumps", "risk-off  tone boosts gold demand", "https://b.example/2", h)
	if !e.IsDuplicate(again, h) {
		t.Fatalf("identical content hash, expected duplicate")
	}
}

func TestIsDuplicate_TitleSimilarity(t *testing.T) {
	e := New(0)
	h := seeded()

	near := e.Evaluate("Gold jumps on risk-off sentiments", "entirely different body", "https://c.example/3", h)
	if near.TitleSimilarity < e.Threshold() {
		t.Fatalf("similarity = %d, want >= %d", near.TitleSimilarity, e.Threshold())
	}
	if !e.IsDuplicate(near, h) {
		t.Fatalf("near-identical title, expected duplicate")
	}

	far := e.Evaluate("ECB holds rates steady", "entirely different body", "https://c.example/4", h)
	if e.IsDuplicate(far, h) {
		t.Fatalf("distinct item flagged duplicate (similarity %d)", far.TitleSimilarity)
	}
}

func TestIsDuplicate_AllDistinct(t *testing.T) {
	e := New(0)
	h := seeded()
	r := e.Evaluate("Yen slides as BOJ stands pat", "boj keeps policy unchanged", "https://d.example/5", h)
	if e.IsDuplicate(r, h) {
		t.Fatalf("expected not duplicate, similarity %d", r.TitleSimilarity)
	}
}

func TestSimilarity(t *testing.T) {
	cases := []struct {
		a, b string
		want int
	}{
		{"", "", 100},
		{"same", "same", 100},
		{"abcd", "abce", 75},
		{"abcd", "wxyz", 0},
	}
	for _, tc := range cases {
		if got := Similarity(tc.a, tc.b); got != tc.want {
			t.Fatalf("Similarity(%q,%q) = %d, want %d", tc.a, tc.b, got, tc.want)
		}
	}
}

func TestHistory_InCycleExtension(t *testing.T) {
	e := New(0)
	h := NewHistory(nil, nil, nil)

	first := e.Evaluate("Fed signals rate cut", "dovish tone", "https://e.example/a", h)
	if e.IsDuplicate(first, h) {
		t.Fatalf("empty history should accept the first item")
	}
	h.Add(first.CanonicalURL, first.Hash, "Fed signals rate cut")

	second := e.Evaluate("Fed signals rate cut", "dovish tone", "https://e.example/a", h)
	if !e.IsDuplicate(second, h) {
		t.Fatalf("same-cycle repeat must be caught by the extended history")
	}
}

func TestNew_ThresholdFallback(t *testing.T) {
	if New(-5).Threshold() != DefaultSimilarityThreshold {
		t.Fatalf("invalid threshold should fall back to default")
	}
	if New(80).Threshold() != 80 {
		t.Fatalf("valid threshold should stick")
	}
}
