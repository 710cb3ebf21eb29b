// Package textnorm turns raw extracted document text into the canonical
// form the fact extractor matches against: lower-cased, control characters
// stripped, whitespace collapsed. Line boundaries are preserved because
// date-range detection depends on line-segmented text.
package textnorm

import (
	"strings"
	"unicode"
)

// Normalize canonicalizes raw document text. It is idempotent and never
// fails; garbage input yields an empty string.
func Normalize(raw string) string {
	if raw == "" {
		return ""
	}

	raw = strings.ToLower(raw)
	raw = strings.ReplaceAll(raw, "\r\n", "\n")
	raw = strings.ReplaceAll(raw, "\r", "\n")

	lines := strings.Split(raw, "\n")
	out := make([]string, 0, len(lines))
	var b strings.Builder
	for _, line := range lines {
		b.Reset()
		pendingSpace := false
		for _, r := range line {
			switch {
			case unicode.IsSpace(r):
				pendingSpace = b.Len() > 0
			case unicode.IsControl(r):
				// dropped
			default:
				if pendingSpace {
					b.WriteByte(' ')
					pendingSpace = false
				}
				b.WriteRune(r)
			}
		}
		if b.Len() > 0 {
			out = append(out, b.String())
		}
	}
	return strings.Join(out, "\n")
}
