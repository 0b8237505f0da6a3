package fs

import (
	"fmt"
	"os"
	"time"
)

// Kind is the coarse file type recorded in a Fingerprint.
type Kind uint8

const (
	// KindDummy marks a fingerprint that was never taken from disk.
	KindDummy Kind = iota
	KindFile
	KindDir
	KindOther
)

// Fingerprint is a comparable snapshot of the metadata that matters for
// previews: size, modification time and kind.
type Fingerprint struct {
	Size     int64
	Modified time.Time
	Kind     Kind
}

// DummyFingerprint returns the sentinel used when nothing is known yet. It
// never hits another fingerprint, itself included.
func DummyFingerprint() Fingerprint {
	return Fingerprint{}
}

// IsDummy reports whether f is the unknown sentinel.
func (f Fingerprint) IsDummy() bool {
	return f.Kind == KindDummy
}

// IsDir reports whether the fingerprint was taken from a directory.
func (f Fingerprint) IsDir() bool {
	return f.Kind == KindDir
}

// Hits reports whether two fingerprints describe the same content. Mode bits,
// ownership and access times are not part of the comparison.
func (f Fingerprint) Hits(other Fingerprint) bool {
	if f.IsDummy() || other.IsDummy() {
		return false
	}
	return f.Kind == other.Kind &&
		f.Size == other.Size &&
		f.Modified.Equal(other.Modified)
}

// FingerprintOf snapshots info.
func FingerprintOf(info os.FileInfo) Fingerprint {
	kind := KindOther
	switch {
	case info.IsDir():
		kind = KindDir
	case info.Mode().IsRegular():
		kind = KindFile
	}
	return Fingerprint{Size: info.Size(), Modified: info.ModTime(), Kind: kind}
}

// Stat fingerprints path, following symlinks.
func Stat(path string) (Fingerprint, error) {
	info, err := os.Stat(path)
	if err != nil {
		return Fingerprint{}, fmt.Errorf("cannot stat %s: %w", path, err)
	}
	return FingerprintOf(info), nil
}
