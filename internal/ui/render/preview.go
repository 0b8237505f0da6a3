package render

import (
	"github.com/gdamore/tcell/v2"

	"github.com/kk-code-lab/rview/internal/previewer"
)

// drawPreview renders the preview pane from the lock. A folder lock shows
// the folder listing, which may still be loading.
func (r *Renderer) drawPreview(v View, layout Layout) {
	area := layout.PreviewArea()
	if area.Empty() {
		return
	}
	base := tcell.StyleDefault.Foreground(r.theme.PreviewFg)
	notice := tcell.StyleDefault.Foreground(r.theme.NoticeFg)

	lock := v.Lock
	if lock == nil || v.Hovered == nil || lock.URL != v.Hovered.FullPath {
		return
	}

	switch lock.Kind {
	case previewer.KindText:
		for i, line := range lock.Lines {
			if i >= area.H {
				break
			}
			r.drawSpans(area.X, area.Y+i, area.W, line, base)
		}

	case previewer.KindFolder:
		switch {
		case v.FolderErr != nil:
			r.drawNotice(area.X, area.Y, area.W, v.FolderErr.Error(), tcell.StyleDefault.Foreground(r.theme.ErrorFg))
		case len(v.Folder) == 0 && v.FolderLoading:
			r.drawNotice(area.X, area.Y, area.W, "loading…", notice)
		case len(v.Folder) == 0:
			r.drawNotice(area.X, area.Y, area.W, "empty", notice)
		default:
			start := lock.Skip
			if start > len(v.Folder) {
				start = len(v.Folder)
			}
			for i, e := range v.Folder[start:] {
				if i >= area.H {
					break
				}
				r.drawEntry(area.X, area.Y+i, area.W, e, false, base)
			}
		}

	case previewer.KindEmpty:
		r.drawNotice(area.X, area.Y, area.W, "empty file", notice)

	case previewer.KindImage:
		if r.images != nil {
			r.images.Draw()
		}
	}
}
