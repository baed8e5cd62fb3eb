// Package canonical normalizes URLs and text for stable comparison and hashing
package canonical

import (
	"crypto/sha256"
	"encoding/hex"
	"net/url"
	"strings"
)

// URL returns the canonical form of raw: scheme and host lowercased, fragment
// stripped, and every query parameter whose key starts with "utm_"
// (case-insensitive) removed. Remaining parameters keep their relative order.
// Idempotent: URL(URL(u)) == URL(u). Unparseable input is returned trimmed
func URL(raw string) string {
	raw = strings.TrimSpace(raw)
	u, err := url.Parse(raw)
	if err != nil {
		return raw
	}
	u.Scheme = strings.ToLower(u.Scheme)
	u.Host = strings.ToLower(u.Host)
	u.Fragment = ""
	u.RawFragment = ""
	u.RawQuery = filterQuery(u.RawQuery)
	return u.String()
}

// filterQuery drops utm_* pairs while preserving the order and encoding of the rest
func filterQuery(q string) string {
	if q == "" {
		return ""
	}
	parts := strings.Split(q, "&")
	kept := parts[:0]
	for _, p := range parts {
		if p == "" {
			continue
		}
		key := p
		if i := strings.IndexByte(p, '='); i >= 0 {
			key = p[:i]
		}
		if dec, err := url.QueryUnescape(key); err == nil {
			key = dec
		}
		if strings.HasPrefix(strings.ToLower(key), "utm_") {
			continue
		}
		kept = append(kept, p)
	}
	return strings.Join(kept, "&")
}

// CleanText collapses any whitespace run (spaces, tabs, newlines) to a single
// space and trims the result. Empty input yields the empty string
func CleanText(s string) string {
	if s == "" {
		return ""
	}
	return strings.Join(strings.Fields(s), " ")
}

// Hash returns the sha256 hex digest over the UTF-8 bytes of s
func Hash(s string) string {
	sum := sha256.Sum256([]byte(s))
	return hex.EncodeToString(sum[:])
}

// Fingerprint is the content hash used for exact-duplicate detection:
// sha256 over the cleaned "title content" concatenation
func Fingerprint(title, content string) string {
	return Hash(CleanText(title + " " + content))
}
