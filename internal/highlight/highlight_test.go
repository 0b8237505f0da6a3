package highlight

import (
	"context"
	"errors"
	"strings"
	"testing"
)

const goSource = "package main\n\nimport \"fmt\"\n\nfunc main() {\n\tfmt.Println(\"hi\")\n}\n"

func TestHighlightKeepsTextAndLines(t *testing.T) {
	h := New("monokai")
	lines, err := h.Highlight(context.Background(), "main.go", goSource)
	if err != nil {
		t.Fatalf("Highlight: %v", err)
	}

	want := strings.Split(strings.TrimSuffix(goSource, "\n"), "\n")
	if len(lines) != len(want) {
		t.Fatalf("expected %d lines, got %d", len(want), len(lines))
	}
	for i, line := range lines {
		if line.String() != want[i] {
			t.Fatalf("line %d = %q, want %q", i, line.String(), want[i])
		}
	}

	styled := false
	for _, span := range lines[0] {
		if span.Color != "" || span.Bold {
			styled = true
		}
	}
	if !styled {
		t.Fatal("expected the package keyword to carry a style")
	}
}

func TestHighlightClearsStaleAbort(t *testing.T) {
	Abort()
	if !Aborted() {
		t.Fatal("Abort should set the flag")
	}
	if _, err := New("monokai").Highlight(context.Background(), "notes.txt", "hello\n"); err != nil {
		t.Fatalf("a new highlight must not inherit an old abort: %v", err)
	}
	if Aborted() {
		t.Fatal("flag should be cleared by a new highlight")
	}
}

func TestHighlightStopsOnCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := New("monokai").Highlight(ctx, "main.go", goSource)
	if !errors.Is(err, ErrAborted) {
		t.Fatalf("expected ErrAborted, got %v", err)
	}
}

func TestUnknownStyleFallsBack(t *testing.T) {
	if New("no-such-style").style == nil {
		t.Fatal("expected fallback style")
	}
}
