package previewer

import (
	"context"
	"strings"

	fsutil "github.com/kk-code-lab/rview/internal/fs"
	"github.com/kk-code-lab/rview/internal/highlight"
	"github.com/kk-code-lab/rview/internal/textutil"
)

const binaryNotice = "binary file, no text preview"

// readText loads the head of a file as UTF-8. ok is false for binary
// content.
func readText(r *Runner, path string) (string, bool, error) {
	return fsutil.ReadText(path, r.opts.MaxBytes)
}

func codePreview(ctx context.Context, r *Runner, job Job) (*Lock, error) {
	text, ok, err := readText(r, job.Entry.FullPath)
	if err != nil {
		return nil, err
	}

	lock := newLock(job, KindText)
	if !ok {
		window(lock, highlight.PlainLines([]string{binaryNotice}), job.Area.H)
		return lock, nil
	}

	text = textutil.ExpandTabs(strings.ReplaceAll(text, "\r\n", "\n"), r.opts.TabWidth)
	lines, err := r.highlighter.Highlight(ctx, job.Entry.Name, text)
	if err != nil {
		return nil, err
	}
	for i, line := range lines {
		for j := range line {
			line[j].Text = textutil.SanitizeTerminalText(line[j].Text)
		}
		lines[i] = line
	}

	window(lock, lines, job.Area.H)
	return lock, nil
}
