package files

import (
	"sort"
	"strings"

	fsutil "github.com/kk-code-lab/rview/internal/fs"
)

// Folder is the consumer side of a directory load: it accumulates Part
// batches for the newest ticket and discards anything older.
type Folder struct {
	Dir         string
	Entries     []fsutil.Entry
	Fingerprint fsutil.Fingerprint
	Loaded      bool
	Err         error

	ticket  Ticket
	pending []fsutil.Entry
}

// NewFolder returns an empty, not yet loaded folder for dir.
func NewFolder(dir string) *Folder {
	return &Folder{Dir: dir}
}

// Ticket returns the generation whose entries the folder currently holds.
func (f *Folder) Ticket() Ticket {
	return f.ticket
}

// Apply folds op into the folder and reports whether anything visible changed.
// Events for another directory, or from a generation older than the newest
// one seen or issued, are dropped.
func (f *Folder) Apply(op Op) bool {
	if op.Dir != f.Dir {
		return false
	}

	if op.Kind == OpError {
		f.Err = op.Err
		f.Loaded = true
		return true
	}

	if f.superseded(op.Ticket) {
		return false
	}
	if op.Ticket > f.ticket {
		f.ticket = op.Ticket
		f.pending = f.pending[:0]
	}

	switch op.Kind {
	case OpPart:
		if len(op.Entries) == 0 {
			return false
		}
		f.pending = append(f.pending, op.Entries...)
		f.Entries = sortedCopy(f.pending)
		f.Err = nil
		return true
	case OpDone:
		f.Entries = sortedCopy(f.pending)
		f.pending = nil
		f.Fingerprint = op.Fingerprint
		f.Loaded = true
		f.Err = nil
		return true
	}
	return false
}

func (f *Folder) superseded(t Ticket) bool {
	return t < f.ticket || t < Issued(f.Dir)
}

// Upsert replaces the entry with the same full path, or appends it. Used when
// a single child changes without a full reload.
func (f *Folder) Upsert(entry fsutil.Entry) {
	for i := range f.Entries {
		if f.Entries[i].FullPath == entry.FullPath {
			f.Entries[i] = entry
			return
		}
	}
	f.Entries = sortedCopy(append(f.Entries, entry))
}

// Visible returns the entries to display, optionally without hidden ones.
func (f *Folder) Visible(hideHidden bool) []fsutil.Entry {
	if !hideHidden {
		return f.Entries
	}
	visible := make([]fsutil.Entry, 0, len(f.Entries))
	for _, e := range f.Entries {
		if !e.IsHidden() {
			visible = append(visible, e)
		}
	}
	return visible
}

// sortedCopy orders directories first, then names case-insensitively.
func sortedCopy(entries []fsutil.Entry) []fsutil.Entry {
	out := make([]fsutil.Entry, len(entries))
	copy(out, entries)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].IsDir != out[j].IsDir {
			return out[i].IsDir
		}
		a, b := strings.ToLower(out[i].Name), strings.ToLower(out[j].Name)
		if a != b {
			return a < b
		}
		return out[i].Name < out[j].Name
	})
	return out
}
