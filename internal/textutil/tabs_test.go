package textutil

import "testing"

func TestExpandTabsRestartsColumnsPerLine(t *testing.T) {
	got := ExpandTabs("ab\tc\n\td", 4)
	want := "ab  c\n    d"
	if got != want {
		t.Fatalf("ExpandTabs()=%q want %q", got, want)
	}
}

func TestExpandTabsWithoutTabs(t *testing.T) {
	if got := ExpandTabs("plain", 4); got != "plain" {
		t.Fatalf("expected input untouched, got %q", got)
	}
}

func TestFormatSize(t *testing.T) {
	tests := []struct {
		size int64
		want string
	}{
		{0, "0 B"},
		{1023, "1023 B"},
		{1024, "1.0 KiB"},
		{1536, "1.5 KiB"},
		{5 * 1024 * 1024, "5.0 MiB"},
	}
	for _, tt := range tests {
		if got := FormatSize(tt.size); got != tt.want {
			t.Fatalf("FormatSize(%d)=%q want %q", tt.size, got, tt.want)
		}
	}
}
