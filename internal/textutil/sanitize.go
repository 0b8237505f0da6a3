package textutil

import (
	"fmt"
	"strings"
	"unicode"
)

// Labels for the invisible runes most often met in file names and source.
// Other format runes are shown by code point.
var formatLabels = map[rune]string{
	0x00AD: "SHY",
	0x061C: "ALM",
	0x180E: "MVS",
	0x200B: "ZWSP",
	0x200C: "ZWNJ",
	0x200D: "ZWJ",
	0x200E: "LRM",
	0x200F: "RLM",
	0x2028: "LSEP",
	0x2029: "PSEP",
	0x202A: "LRE",
	0x202B: "RLE",
	0x202C: "PDF",
	0x202D: "LRO",
	0x202E: "RLO",
	0x2060: "WJ",
	0x2066: "LRI",
	0x2067: "RLI",
	0x2068: "FSI",
	0x2069: "PDI",
	0xFEFF: "BOM",
}

// SanitizeTerminalText makes text safe to draw on a single terminal row.
// Tabs and line breaks become spaces, other C0 and C1 controls become '?',
// and format runes such as bidi overrides are shown as ⟪labels⟫ so they
// cannot reorder or hide what is drawn around them.
func SanitizeTerminalText(text string) string {
	i := strings.IndexFunc(text, unsafeRune)
	if i < 0 {
		return text
	}

	var b strings.Builder
	b.Grow(len(text) + 8)
	b.WriteString(text[:i])
	for _, r := range text[i:] {
		switch {
		case r == '\t' || r == '\n' || r == '\r':
			b.WriteByte(' ')
		case isControl(r):
			b.WriteByte('?')
		case isFormat(r):
			b.WriteString(formatLabel(r))
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

func unsafeRune(r rune) bool {
	return isControl(r) || isFormat(r)
}

func isControl(r rune) bool {
	return r < 0x20 || (r >= 0x7F && r < 0xA0)
}

func isFormat(r rune) bool {
	return unicode.In(r, unicode.Cf, unicode.Zl, unicode.Zp)
}

func formatLabel(r rune) string {
	if name, ok := formatLabels[r]; ok {
		return "⟪" + name + "⟫"
	}
	return fmt.Sprintf("⟪U+%04X⟫", r)
}
