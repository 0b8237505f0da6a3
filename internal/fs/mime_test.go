package fs

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDetectMime(t *testing.T) {
	tmpDir := t.TempDir()
	write := func(name string, content []byte) Entry {
		path := filepath.Join(tmpDir, name)
		if err := os.WriteFile(path, content, 0644); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
		entry, err := StatEntry(path)
		if err != nil {
			t.Fatalf("stat %s: %v", name, err)
		}
		return entry
	}

	dir, err := StatEntry(tmpDir)
	if err != nil {
		t.Fatalf("stat dir: %v", err)
	}

	png := []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x06\x00\x00\x00")

	tests := []struct {
		name  string
		entry Entry
		want  string
	}{
		{"directory", dir, MimeDir},
		{"empty", write("empty.txt", nil), MimeEmpty},
		{"go source", write("main.go", []byte("package main\n")), "text/x-go"},
		{"markdown", write("README.md", []byte("# title\n")), "text/markdown"},
		{"sniffed png", write("picture", png), "image/png"},
		{"plain text", write("notes", []byte("hello there\n")), "text/plain"},
		{"utf-16 text", write("wide", []byte("\xff\xfeh\x00i\x00\n\x00")), "text/plain"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DetectMime(tt.entry); got != tt.want {
				t.Fatalf("DetectMime() = %q, want %q", got, tt.want)
			}
		})
	}
}
