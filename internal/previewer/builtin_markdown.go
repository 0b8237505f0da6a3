package previewer

import (
	"context"
	"fmt"
	"regexp"

	"github.com/charmbracelet/glamour"

	"github.com/kk-code-lab/rview/internal/highlight"
)

// ansiSequence matches CSI and OSC escapes that styled glamour themes emit.
var ansiSequence = regexp.MustCompile(`\x1b\[[0-9;?]*[ -/]*[@-~]|\x1b\][^\x07\x1b]*(\x07|\x1b\\)`)

func markdownPreview(ctx context.Context, r *Runner, job Job) (*Lock, error) {
	text, ok, err := readText(r, job.Entry.FullPath)
	if err != nil {
		return nil, err
	}

	lock := newLock(job, KindText)
	if !ok {
		window(lock, highlight.PlainLines([]string{binaryNotice}), job.Area.H)
		return lock, nil
	}

	width := job.Area.W
	if width <= 0 {
		width = 80
	}
	renderer, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(r.opts.MarkdownStyle),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return nil, fmt.Errorf("cannot create markdown renderer: %w", err)
	}
	out, err := renderer.Render(text)
	if err != nil {
		return nil, fmt.Errorf("cannot render %s: %w", job.Entry.FullPath, err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	out = ansiSequence.ReplaceAllString(out, "")
	window(lock, highlight.PlainLines(splitLines(out, r.opts.TabWidth)), job.Area.H)
	return lock, nil
}
