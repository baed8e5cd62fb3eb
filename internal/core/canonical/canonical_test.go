package canonical

import (
	"strings"
	"testing"
)

func TestURL_StripsUTMAndFragment(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "utm params removed, order preserved",
			in:   "https://example.com/a?utm_source=x&b=2&utm_medium=y&a=1#frag",
			want: "https://example.com/a?b=2&a=1",
		},
		{
			name: "mixed-case utm removed",
			in:   "https://example.com/?UTM_Campaign=z&q=gold",
			want: "https://example.com/?q=gold",
		},
		{
			name: "scheme and host lowercased",
			in:   "HTTPS://Example.COM/Path?Q=1",
			want: "https://example.com/Path?Q=1",
		},
		{
			name: "all params utm yields empty query",
			in:   "https://example.com/a?utm_source=x&utm_term=y",
			want: "https://example.com/a",
		},
		{
			name: "blank values kept",
			in:   "https://example.com/a?b=&utm_x=1",
			want: "https://example.com/a?b=",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := URL(tc.in)
			if got != tc.want {
				t.Fatalf("URL(%q) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}

func TestURL_Idempotent(t *testing.T) {
	ins := []string{
		"https://example.com/a?utm_source=x&b=2#frag",
		"HTTP://News.Example.com/article?id=44&utm_medium=rss",
		"https://example.com/plain",
		"not a url at all",
	}
	for _, in := range ins {
		once := URL(in)
		twice := URL(once)
		if once != twice {
			t.Fatalf("not idempotent for %q: %q != %q", in, once, twice)
		}
	}
}

func TestCleanText(t *testing.T) {
	cases := []struct{ in, want string }{
		{"", ""},
		{"   ", ""},
		{"a  b\t\nc", "a b c"},
		{"  gold\r\njumps  ", "gold jumps"},
		{"already clean", "already clean"},
	}
	for _, tc := range cases {
		if got := CleanText(tc.in); got != tc.want {
			t.Fatalf("CleanText(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestFingerprint_StableAcrossWhitespace(t *testing.T) {
	a := Fingerprint("Gold jumps", "Risk-off tone boosts   gold demand")
	b := Fingerprint("Gold jumps", "Risk-off tone boosts gold demand")
	if a != b {
		t.Fatalf("fingerprint should ignore whitespace runs")
	}
	if len(a) != 64 {
		t.Fatalf("expected sha256 hex length 64, got %d", len(a))
	}
	c := Fingerprint("Gold dips", "Risk-off tone boosts gold demand")
	if a == c {
		t.Fatalf("different titles must fingerprint differently")
	}
}

func TestFold(t *testing.T) {
	got := Fold("  Risk-OFF  Tone ")
	if got != "risk-off tone" {
		t.Fatalf("Fold = %q", got)
	}
	// fullwidth and case folding
	if Fold("ＤＯＶＩＳＨ") != "dovish" {
		t.Fatalf("width fold failed: %q", Fold("ＤＯＶＩＳＨ"))
	}
	if !strings.Contains(Fold("Fed SIGNALS rate cut"), "rate cut") {
		t.Fatalf("folded text should keep keyword phrases intact")
	}
}
