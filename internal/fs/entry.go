package fs

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"golang.org/x/text/unicode/norm"
)

// Entry represents a single file or directory on disk.
type Entry struct {
	Name      string
	FullPath  string
	IsDir     bool
	IsSymlink bool
	Size      int64
	Modified  time.Time
	Mode      os.FileMode
}

// IsHidden reports whether the entry should be treated as hidden.
func (e Entry) IsHidden() bool {
	return IsHidden(e.FullPath, e.Name)
}

// Fingerprint returns the metadata snapshot used to detect content changes.
func (e Entry) Fingerprint() Fingerprint {
	kind := KindFile
	switch {
	case e.IsDir:
		kind = KindDir
	case !e.Mode.IsRegular() && e.Mode&os.ModeSymlink == 0:
		kind = KindOther
	}
	return Fingerprint{Size: e.Size, Modified: e.Modified, Kind: kind}
}

// StatEntry builds an Entry for path. Symlinks are followed for the kind and
// metadata so a link to a directory behaves like the directory itself.
func StatEntry(path string) (Entry, error) {
	path = filepath.Clean(path)
	info, err := os.Lstat(path)
	if err != nil {
		return Entry{}, fmt.Errorf("cannot stat %s: %w", path, err)
	}
	return entryFromInfo(path, filepath.Base(path), info), nil
}

func entryFromInfo(fullPath, rawName string, info os.FileInfo) Entry {
	entry := Entry{
		Name:     norm.NFC.String(rawName),
		FullPath: fullPath,
		IsDir:    info.IsDir(),
		Size:     info.Size(),
		Modified: info.ModTime(),
		Mode:     info.Mode(),
	}

	if info.Mode()&os.ModeSymlink != 0 {
		entry.IsSymlink = true
		if target, err := os.Stat(fullPath); err == nil {
			entry.IsDir = target.IsDir()
			entry.Size = target.Size()
			entry.Modified = target.ModTime()
			entry.Mode = target.Mode()
		}
	}
	return entry
}
