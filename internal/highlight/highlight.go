// Package highlight turns source text into styled lines with chroma and
// owns the process-wide flag used to stop highlighting early.
package highlight

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
)

// checkEvery is how many tokens are consumed between abort checks.
const checkEvery = 64

// ErrAborted is returned when highlighting was stopped by Abort or ctx.
var ErrAborted = errors.New("highlight aborted")

// Highlighter styles source code with a chroma style.
type Highlighter struct {
	style *chroma.Style
}

// New returns a highlighter for the named chroma style. Unknown names fall
// back to chroma's default style.
func New(styleName string) *Highlighter {
	return &Highlighter{style: styles.Get(styleName)}
}

// Highlight tokenises text, picking a lexer by filename first and by content
// second, and returns one Line per input line. It clears a pending Abort
// when it starts and returns ErrAborted if a new one arrives before it ends.
func (h *Highlighter) Highlight(ctx context.Context, filename, text string) ([]Line, error) {
	clearAbort()

	lexer := lexers.Match(filename)
	if lexer == nil {
		lexer = lexers.Analyse(text)
	}
	if lexer == nil {
		lexer = lexers.Fallback
	}
	lexer = chroma.Coalesce(lexer)

	it, err := lexer.Tokenise(nil, text)
	if err != nil {
		return nil, fmt.Errorf("cannot tokenise %s: %w", filename, err)
	}

	lines := []Line{{}}
	count := 0
	for token := it(); token != chroma.EOF; token = it() {
		count++
		if count%checkEvery == 0 && (Aborted() || ctx.Err() != nil) {
			return nil, ErrAborted
		}

		span := h.spanFor(token.Type)
		parts := strings.Split(token.Value, "\n")
		for i, part := range parts {
			if i > 0 {
				lines = append(lines, Line{})
			}
			if part == "" {
				continue
			}
			span.Text = part
			lines[len(lines)-1] = append(lines[len(lines)-1], span)
		}
	}

	if Aborted() || ctx.Err() != nil {
		return nil, ErrAborted
	}
	if n := len(lines); n > 1 && len(lines[n-1]) == 0 {
		lines = lines[:n-1]
	}
	return lines, nil
}

func (h *Highlighter) spanFor(tt chroma.TokenType) Span {
	entry := h.style.Get(tt)
	span := Span{
		Bold:      entry.Bold == chroma.Yes,
		Italic:    entry.Italic == chroma.Yes,
		Underline: entry.Underline == chroma.Yes,
	}
	if entry.Colour.IsSet() {
		span.Color = entry.Colour.String()
	}
	return span
}
