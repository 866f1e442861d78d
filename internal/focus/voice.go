package focus

import (
	"strings"
	"unicode"
)

// DefaultPhrase is the spoken confirmation required to lift a blocking
// window.
const DefaultPhrase = "I have prayed"

// MatchPhrase reports whether the delivered transcript contains the target
// phrase. Comparison is case-insensitive and punctuation-insensitive:
// both strings are lowercased, stripped to letters/digits/spaces and
// whitespace-collapsed, then the normalized target must appear as a
// substring of the normalized transcript. Deterministic and side-effect
// free so it can be exercised directly from recorded transcripts.
func MatchPhrase(transcript, phrase string) bool {
	target := normalize(phrase)
	if target == "" {
		return false
	}
	return strings.Contains(normalize(transcript), target)
}

func normalize(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	lastSpace := true
	for _, r := range strings.ToLower(s) {
		if unicode.IsLetter(r) || unicode.IsNumber(r) {
			b.WriteRune(r)
			lastSpace = false
			continue
		}
		if !lastSpace {
			b.WriteByte(' ')
			lastSpace = true
		}
	}
	return strings.TrimSpace(b.String())
}
