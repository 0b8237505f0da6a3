package render

import (
	"slices"
	"strings"
	"testing"
)

func TestBuildFooterHelpSegments(t *testing.T) {
	got := buildFooterHelpSegments(View{EditorAvailable: true})
	want := []string{
		"↑↓/jk: move",
		"←→/hl: navigate",
		"JK: scroll preview",
		".: show hidden",
		"e: edit",
		"q: quit",
	}
	if !slices.Equal(got, want) {
		t.Fatalf("help mismatch\nwant: %#v\n got: %#v", want, got)
	}
}

func TestBuildFooterHelpSegmentsWithoutEditor(t *testing.T) {
	got := buildFooterHelpSegments(View{ShowHidden: true})
	if slices.Contains(got, "e: edit") {
		t.Fatalf("edit hint shown without editor: %#v", got)
	}
	if !slices.Contains(got, ".: hide hidden") {
		t.Fatalf("expected hide hint, got %#v", got)
	}
}

func TestBuildFooterHelpTextPads(t *testing.T) {
	text := buildFooterHelpText(View{})
	if !strings.HasPrefix(text, " ") || !strings.HasSuffix(text, " ") {
		t.Fatalf("expected padded help text, got %q", text)
	}
}
