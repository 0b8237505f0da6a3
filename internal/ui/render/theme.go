package render

import (
	"github.com/gdamore/tcell/v2"

	"github.com/kk-code-lab/rview/internal/highlight"
)

// ColorTheme defines application colors.
type ColorTheme struct {
	HeaderBg    tcell.Color
	HeaderFg    tcell.Color
	HiddenFg    tcell.Color
	SelectionBg tcell.Color
	SelectionFg tcell.Color
	DirectoryFg tcell.Color
	SymlinkFg   tcell.Color
	FileFg      tcell.Color
	FooterBg    tcell.Color
	FooterFg    tcell.Color
	PreviewFg   tcell.Color
	NoticeFg    tcell.Color
	ErrorFg     tcell.Color
}

// GetColorTheme returns the default color scheme.
func GetColorTheme() ColorTheme {
	return ColorTheme{
		HeaderBg:    tcell.ColorDefault,
		HeaderFg:    tcell.ColorDefault,
		HiddenFg:    tcell.ColorLightSlateGray,
		SelectionBg: tcell.Color33,
		SelectionFg: tcell.ColorWhite,
		DirectoryFg: tcell.Color33,
		SymlinkFg:   tcell.Color51,
		FileFg:      tcell.ColorDefault,
		FooterBg:    tcell.ColorDefault,
		FooterFg:    tcell.ColorDefault,
		PreviewFg:   tcell.ColorDefault,
		NoticeFg:    tcell.ColorLightSlateGray,
		ErrorFg:     tcell.ColorIndianRed,
	}
}

// spanStyle applies a highlighted span on top of base.
func spanStyle(base tcell.Style, span highlight.Span) tcell.Style {
	style := base
	if span.Color != "" {
		if c := tcell.GetColor(span.Color); c != tcell.ColorDefault {
			style = style.Foreground(c)
		}
	}
	if span.Bold {
		style = style.Bold(true)
	}
	if span.Italic {
		style = style.Italic(true)
	}
	if span.Underline {
		style = style.Underline(true)
	}
	return style
}
