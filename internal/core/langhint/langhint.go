// Package langhint provides best-effort language detection for news text.
// It is script-based: cheap, deterministic, and never fails; ambiguous or
// short input yields Unknown rather than a guess
package langhint

import (
	"unicode"
)

// Unknown is returned when no confident call can be made
const Unknown = "unknown"

// Detect returns a best-effort BCP-47 language code for s, or Unknown.
// Scripts with a strong one-to-one language mapping (Hiragana/Katakana -> ja,
// Hangul -> ko, ...) are decisive; ambiguous scripts (Han, Cyrillic,
// Devanagari) and short inputs stay Unknown. Latin-dominant text is reported
// as "en" only when Latin letters overwhelm the sample, which holds for the
// English-language wires this system ingests
func Detect(s string) string {
	const minLetters = 20

	var (
		latin, cyrillic, greek, han, hira, kata, hangul int
		arabic, hebrew, thai                            int
		totalLetters                                    int
	)

	for _, r := range s {
		if !unicode.IsLetter(r) {
			continue
		}
		totalLetters++

		switch {
		case unicode.In(r, unicode.Hangul):
			hangul++
		case unicode.In(r, unicode.Hiragana):
			hira++
		case unicode.In(r, unicode.Katakana):
			kata++
		case unicode.In(r, unicode.Han):
			han++
		case unicode.In(r, unicode.Arabic):
			arabic++
		case unicode.In(r, unicode.Hebrew):
			hebrew++
		case unicode.In(r, unicode.Thai):
			thai++
		case unicode.In(r, unicode.Greek):
			greek++
		case unicode.In(r, unicode.Cyrillic):
			cyrillic++
		default:
			if unicode.In(r, unicode.Latin) {
				latin++
			}
		}
	}

	if totalLetters < minLetters {
		return Unknown
	}

	switch {
	// Japanese: presence of Hiragana or Katakana is decisive
	case hira > 0 || kata > 0:
		return "ja"
	// Korean: Hangul is decisive
	case hangul > 0:
		return "ko"
	// Arabic/Hebrew/Thai/Greek are typically unambiguous in practice
	case arabic > 0:
		return "ar"
	case hebrew > 0:
		return "he"
	case thai > 0:
		return "th"
	case greek > 0:
		return "el"
	// Han without kana (zh/ja mixed) and Cyrillic (ru/uk/bg/...) stay unknown
	case han > 0 || cyrillic > 0:
		return Unknown
	case latin*10 >= totalLetters*9:
		return "en"
	}
	return Unknown
}
