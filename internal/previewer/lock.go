// Package previewer maps entries to previewers and runs them. Results never
// touch application state; they are posted as Peeked events.
package previewer

import (
	"image"

	fsutil "github.com/kk-code-lab/rview/internal/fs"
	"github.com/kk-code-lab/rview/internal/highlight"
)

// Kind tells the renderer how to draw a Lock.
type Kind uint8

const (
	KindText Kind = iota
	KindFolder
	KindImage
	KindEmpty
)

// Lock records the content that is displayed for a file: where it came from,
// which window of it (Skip) and the fingerprint it was produced from.
type Lock struct {
	URL         string
	Skip        int
	Fingerprint fsutil.Fingerprint

	Kind  Kind
	Lines []highlight.Line
	Image image.Image
	Total int
}

// Peeked is posted when a previewer produced a new Lock.
type Peeked struct {
	Lock *Lock
}

func newLock(job Job, kind Kind) *Lock {
	return &Lock{
		URL:         job.Entry.FullPath,
		Skip:        job.Skip,
		Fingerprint: job.Entry.Fingerprint(),
		Kind:        kind,
	}
}

// window trims lines to the visible page starting at job.Skip. A skip past
// the end is pulled back so the last page stays visible; the lock records
// the skip that was actually used.
func window(lock *Lock, lines []highlight.Line, height int) {
	lock.Total = len(lines)
	if height <= 0 {
		height = len(lines)
	}

	maxSkip := len(lines) - height
	if maxSkip < 0 {
		maxSkip = 0
	}
	if lock.Skip > maxSkip {
		lock.Skip = maxSkip
	}
	if lock.Skip < 0 {
		lock.Skip = 0
	}

	end := lock.Skip + height
	if end > len(lines) {
		end = len(lines)
	}
	lock.Lines = lines[lock.Skip:end]
}
