package fs

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// readDirChunk is how many directory entries are read per syscall batch.
const readDirChunk = 512

// ErrNotDir is returned when a directory operation targets something else.
var ErrNotDir = errors.New("not a directory")

// ListDir streams the entries of dir in the order the filesystem returns them.
// The channel is closed when the directory is exhausted, a read fails, or ctx
// is cancelled. Only opening the directory can fail synchronously.
func ListDir(ctx context.Context, dir string) (<-chan Entry, error) {
	f, err := os.Open(dir)
	if err != nil {
		return nil, fmt.Errorf("cannot read directory %s: %w", dir, err)
	}

	out := make(chan Entry, readDirChunk)
	go func() {
		defer close(out)
		defer func() {
			_ = f.Close()
		}()

		for {
			dirents, readErr := f.ReadDir(readDirChunk)
			for _, de := range dirents {
				info, err := de.Info()
				if err != nil {
					continue
				}
				rawName := de.Name()
				fullPath := filepath.Join(dir, rawName)
				if skipInListing(fullPath, rawName) {
					continue
				}

				select {
				case out <- entryFromInfo(fullPath, rawName, info):
				case <-ctx.Done():
					return
				}
			}
			if readErr != nil {
				return
			}
		}
	}()
	return out, nil
}

// ReadDir collects the whole listing of dir.
func ReadDir(dir string) ([]Entry, error) {
	ch, err := ListDir(context.Background(), dir)
	if err != nil {
		return nil, err
	}
	var entries []Entry
	for entry := range ch {
		entries = append(entries, entry)
	}
	return entries, nil
}

// AssertStale compares the live fingerprint of dir with expected. It returns
// the live fingerprint and true when the directory changed since expected was
// taken; a dummy expected value is always stale.
func AssertStale(dir string, expected Fingerprint) (Fingerprint, bool, error) {
	live, err := Stat(dir)
	if err != nil {
		return Fingerprint{}, false, err
	}
	if !live.IsDir() {
		return Fingerprint{}, false, fmt.Errorf("cannot list %s: %w", dir, ErrNotDir)
	}
	if live.Hits(expected) {
		return live, false, nil
	}
	return live, true, nil
}
