package render

import "strings"

// buildFooterHelpText returns the key hint string with leading/trailing padding.
func buildFooterHelpText(v View) string {
	parts := buildFooterHelpSegments(v)
	if len(parts) == 0 {
		return ""
	}
	return " " + strings.Join(parts, "  ") + " "
}

func buildFooterHelpSegments(v View) []string {
	hiddenStatus := "show"
	if v.ShowHidden {
		hiddenStatus = "hide"
	}
	segments := []string{
		"↑↓/jk: move",
		"←→/hl: navigate",
		"JK: scroll preview",
		".: " + hiddenStatus + " hidden",
	}
	if v.EditorAvailable {
		segments = append(segments, "e: edit")
	}
	return append(segments, "q: quit")
}
