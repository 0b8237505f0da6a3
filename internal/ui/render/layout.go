package render

import "github.com/kk-code-lab/rview/internal/adapter"

// Layout splits the screen into a header row, the directory list, the
// preview pane and a status line.
type Layout struct {
	ListX, ListWidth       int
	PreviewX, PreviewWidth int
	Top, Bottom            int
}

const (
	minListPanelWidth    = 24
	minPreviewPanelWidth = 20
	listWidthRatio       = 0.4
	maxListPanelWidth    = 60
	previewInnerPadding  = 1
)

// ComputeLayout returns the layout for a w by h screen. The preview pane is
// dropped when the screen is too narrow for both panes.
func ComputeLayout(w, h int) Layout {
	if w < 0 {
		w = 0
	}
	l := Layout{Top: 1, Bottom: h - 1, ListWidth: w}
	if l.Bottom < l.Top {
		l.Bottom = l.Top
	}

	if w < minListPanelWidth+1+minPreviewPanelWidth {
		l.PreviewX = w
		return l
	}

	list := int(float64(w)*listWidthRatio + 0.5)
	if list < minListPanelWidth {
		list = minListPanelWidth
	}
	if list > maxListPanelWidth {
		list = maxListPanelWidth
	}
	if list > w-1-minPreviewPanelWidth {
		list = w - 1 - minPreviewPanelWidth
	}

	l.ListWidth = list
	l.PreviewX = list + 1
	l.PreviewWidth = w - l.PreviewX
	return l
}

// Rows is the number of list rows.
func (l Layout) Rows() int {
	return l.Bottom - l.Top
}

// PreviewArea is the cell rectangle previewers render into.
func (l Layout) PreviewArea() adapter.Rect {
	if l.PreviewWidth <= 2*previewInnerPadding {
		return adapter.Rect{}
	}
	return adapter.Rect{
		X: l.PreviewX + previewInnerPadding,
		Y: l.Top,
		W: l.PreviewWidth - 2*previewInnerPadding,
		H: l.Rows(),
	}
}
