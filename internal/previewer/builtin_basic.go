package previewer

import (
	"context"
	"fmt"
	"strings"

	fsutil "github.com/kk-code-lab/rview/internal/fs"
	"github.com/kk-code-lab/rview/internal/highlight"
	"github.com/kk-code-lab/rview/internal/textutil"
)

// folderPreview only claims the pane. The listing itself arrives through
// folder ops and is drawn from the folder store.
func folderPreview(_ context.Context, _ *Runner, job Job) (*Lock, error) {
	return newLock(job, KindFolder), nil
}

func emptyPreview(_ context.Context, _ *Runner, job Job) (*Lock, error) {
	lock := newLock(job, KindEmpty)
	lock.Skip = 0
	return lock, nil
}

func filePreview(ctx context.Context, _ *Runner, job Job) (*Lock, error) {
	entry := job.Entry
	mime := fsutil.DetectMime(entry)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	kind := "file"
	switch {
	case entry.IsDir:
		kind = "directory"
	case entry.IsSymlink:
		kind = "symlink"
	}

	lines := []string{
		textutil.SanitizeTerminalText(entry.Name),
		"",
		fmt.Sprintf("Type:     %s", kind),
		fmt.Sprintf("MIME:     %s", mime),
		fmt.Sprintf("Size:     %s (%d bytes)", textutil.FormatSize(entry.Size), entry.Size),
		fmt.Sprintf("Mode:     %s", entry.Mode),
		fmt.Sprintf("Modified: %s", entry.Modified.Format("2006-01-02 15:04:05")),
	}
	if entry.IsHidden() {
		lines = append(lines, "Hidden:   yes")
	}

	lock := newLock(job, KindText)
	window(lock, highlight.PlainLines(lines), job.Area.H)
	return lock, nil
}

// splitLines breaks rendered text into sanitised lines, dropping a final
// empty line left by a trailing newline.
func splitLines(text string, tabWidth int) []string {
	text = strings.TrimSuffix(text, "\n")
	if text == "" {
		return nil
	}
	raw := strings.Split(text, "\n")
	lines := make([]string, len(raw))
	for i, line := range raw {
		line = strings.TrimSuffix(line, "\r")
		lines[i] = textutil.SanitizeTerminalText(textutil.ExpandTabs(line, tabWidth))
	}
	return lines
}
