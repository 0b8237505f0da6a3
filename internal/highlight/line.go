package highlight

import "strings"

// Span is a run of text sharing one style. Color is "#rrggbb" or empty for
// the terminal default.
type Span struct {
	Text      string
	Color     string
	Bold      bool
	Italic    bool
	Underline bool
}

// Line is one rendered row of preview output.
type Line []Span

// Plain wraps unstyled text.
func Plain(text string) Line {
	return Line{{Text: text}}
}

// PlainLines wraps every string as an unstyled line.
func PlainLines(texts []string) []Line {
	lines := make([]Line, len(texts))
	for i, text := range texts {
		lines[i] = Plain(text)
	}
	return lines
}

// String returns the text of the line without styling.
func (l Line) String() string {
	var b strings.Builder
	for _, span := range l {
		b.WriteString(span.Text)
	}
	return b.String()
}
