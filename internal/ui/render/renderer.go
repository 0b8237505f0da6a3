package render

import (
	"fmt"
	"path/filepath"
	"strings"
	"sync"

	"github.com/gdamore/tcell/v2"

	fsutil "github.com/kk-code-lab/rview/internal/fs"
	"github.com/kk-code-lab/rview/internal/previewer"
	"github.com/kk-code-lab/rview/internal/textutil"
)

// ImageDrawer repaints the image currently shown in the preview pane.
type ImageDrawer interface {
	Draw()
}

// View is everything the renderer needs for one frame.
type View struct {
	Cwd        string
	Entries    []fsutil.Entry
	Selected   int
	Scroll     int
	Loading    bool
	Err        error
	ShowHidden bool

	EditorAvailable bool
	Notice          string

	Hovered       *fsutil.Entry
	Mime          string
	Lock          *previewer.Lock
	Folder        []fsutil.Entry
	FolderLoading bool
	FolderErr     error
}

// Renderer handles all UI rendering
type Renderer struct {
	screen           tcell.Screen
	images           ImageDrawer
	theme            ColorTheme
	runeWidthCache   [128]int // ASCII cache (0-127)
	runeWidthCacheMu sync.RWMutex
	runeWidthWide    sync.Map // For non-ASCII runes
}

// NewRenderer creates a new renderer
func NewRenderer(screen tcell.Screen, images ImageDrawer) *Renderer {
	return &Renderer{
		screen: screen,
		images: images,
		theme:  GetColorTheme(),
	}
}

// Render draws the entire UI for v.
func (r *Renderer) Render(v View) {
	r.screen.Clear()

	w, h := r.screen.Size()
	layout := ComputeLayout(w, h)

	r.drawHeader(v.Cwd, w)
	r.drawList(v, layout)
	if layout.PreviewWidth > 0 {
		for y := layout.Top; y < layout.Bottom; y++ {
			r.screen.SetContent(layout.ListWidth, y, '│', nil, tcell.StyleDefault.Foreground(r.theme.NoticeFg))
		}
		r.drawPreview(v, layout)
	}
	r.drawStatusLine(v, w, h)

	r.screen.Show()
}

// drawHeader renders the top bar with title and breadcrumb
func (r *Renderer) drawHeader(cwd string, w int) {
	headerText := "rview"
	headerStyle := tcell.StyleDefault.Background(r.theme.HeaderBg).Foreground(r.theme.HeaderFg)

	endX := r.drawTextLine(0, 0, w, headerText, headerStyle)
	if cwd == "" {
		cwd = "/"
	}

	if endX < w {
		r.screen.SetContent(endX, 0, ' ', nil, headerStyle)
		endX++
	}

	if endX < w {
		available := w - endX
		segments := FormatBreadcrumbSegments(cwd)
		lastIdx := len(segments) - 1
		if lastIdx > 0 {
			prefix := strings.Join(segments[:lastIdx], " › ")
			prefix = textutil.SanitizeTerminalText(r.fitBreadcrumb(prefix, available))
			endX = r.drawTextLine(endX, 0, available, prefix, headerStyle)
			if endX < w {
				endX = r.drawTextLine(endX, 0, w-endX, r.fitBreadcrumb(" › ", w-endX), headerStyle)
			}
		}
		if endX < w {
			last := textutil.SanitizeTerminalText(r.fitBreadcrumb(segments[lastIdx], w-endX))
			endX = r.drawTextLine(endX, 0, w-endX, last, headerStyle.Bold(true))
		}
	}

	r.fill(endX, w, 0, headerStyle)
}

// fitBreadcrumb trims the breadcrumb path to fit within the available width,
// keeping its end.
func (r *Renderer) fitBreadcrumb(path string, width int) string {
	if width <= 0 {
		return ""
	}
	if r.measureTextWidth(path) <= width {
		return path
	}

	const ellipsis = "…"
	ellipsisWidth := r.cachedRuneWidth('…')
	if ellipsisWidth <= 0 {
		ellipsisWidth = 1
	}
	if width <= ellipsisWidth {
		return ellipsis
	}

	available := width - ellipsisWidth
	runes := []rune(path)
	start := len(runes)
	currentWidth := 0
	for i := len(runes) - 1; i >= 0; i-- {
		ruWidth := r.cachedRuneWidth(runes[i])
		if ruWidth < 0 {
			ruWidth = 0
		}
		if currentWidth+ruWidth > available {
			break
		}
		start = i
		currentWidth += ruWidth
	}
	return ellipsis + string(runes[start:])
}

// FormatBreadcrumbSegments splits path into its root and components.
func FormatBreadcrumbSegments(path string) []string {
	if path == "" {
		return []string{"/"}
	}

	cleanPath := filepath.Clean(path)
	if cleanPath == "." {
		cleanPath = "/"
	}

	slashed := filepath.ToSlash(cleanPath)
	if slashed == "/" {
		return []string{"/"}
	}

	var segments []string
	if strings.HasPrefix(slashed, "/") {
		segments = append(segments, "/")
		slashed = strings.TrimPrefix(slashed, "/")
	}
	for _, part := range strings.Split(slashed, "/") {
		if part != "" {
			segments = append(segments, part)
		}
	}

	if len(segments) == 0 {
		return []string{cleanPath}
	}
	return segments
}

// drawStatusLine renders the hovered path and key hints on the last row.
func (r *Renderer) drawStatusLine(v View, w, h int) {
	if h < 2 {
		return
	}
	style := tcell.StyleDefault.Background(r.theme.FooterBg).Foreground(r.theme.FooterFg)
	y := h - 1

	left := ""
	if v.Hovered != nil {
		left = textutil.SanitizeTerminalText(v.Hovered.FullPath)
		if v.Mime != "" {
			left += "  " + v.Mime
		}
		if l := v.Lock; l != nil && l.URL == v.Hovered.FullPath && l.Kind == previewer.KindText && l.Total > 0 {
			left += fmt.Sprintf("  %d/%d", l.Skip+1, l.Total)
		}
	}
	left = " " + left

	leftStyle := style
	if v.Notice != "" {
		left = " " + textutil.SanitizeTerminalText(v.Notice)
		leftStyle = style.Foreground(r.theme.ErrorFg)
	}

	help := buildFooterHelpText(v)
	helpWidth := r.measureTextWidth(help)
	leftWidth := w - helpWidth - 1
	if leftWidth < r.measureTextWidth(left) {
		leftWidth = w
		help = ""
	}

	x := r.drawTextLine(0, y, leftWidth, r.truncateTextToWidth(left, leftWidth), leftStyle)
	r.fill(x, w, y, style)
	if help != "" {
		r.drawTextLine(w-helpWidth, y, helpWidth, help, style)
	}
}

// drawList renders the entries of the current directory.
func (r *Renderer) drawList(v View, layout Layout) {
	base := tcell.StyleDefault
	rows := layout.Rows()

	switch {
	case v.Err != nil:
		r.drawNotice(layout.ListX, layout.Top, layout.ListWidth, v.Err.Error(), base.Foreground(r.theme.ErrorFg))
		return
	case len(v.Entries) == 0 && v.Loading:
		r.drawNotice(layout.ListX, layout.Top, layout.ListWidth, "loading…", base.Foreground(r.theme.NoticeFg))
		return
	case len(v.Entries) == 0:
		r.drawNotice(layout.ListX, layout.Top, layout.ListWidth, "empty", base.Foreground(r.theme.NoticeFg))
		return
	}

	end := v.Scroll + rows
	if end > len(v.Entries) {
		end = len(v.Entries)
	}
	y := layout.Top
	for idx := v.Scroll; idx < end; idx++ {
		r.drawEntry(layout.ListX, y, layout.ListWidth, v.Entries[idx], idx == v.Selected, base)
		y++
	}
}

// drawEntry draws one row of a listing.
func (r *Renderer) drawEntry(startX, y, width int, e fsutil.Entry, selected bool, base tcell.Style) {
	var rowStyle tcell.Style
	switch {
	case selected:
		rowStyle = tcell.StyleDefault.Background(r.theme.SelectionBg).Foreground(r.theme.SelectionFg)
	case e.IsSymlink:
		rowStyle = base.Foreground(r.theme.SymlinkFg)
	case e.IsDir:
		rowStyle = base.Foreground(r.theme.DirectoryFg)
	default:
		rowStyle = base.Foreground(r.theme.FileFg)
	}
	if e.IsHidden() && !selected {
		rowStyle = rowStyle.Foreground(r.theme.HiddenFg)
	}

	// Icon: @ for symlinks, / for directories, space for files
	icon := " "
	if e.IsSymlink {
		icon = "@"
	} else if e.IsDir {
		icon = "/"
	}

	prefix := fmt.Sprintf(" %s ", icon)
	nameWidth := width - r.measureTextWidth(prefix)
	name := ""
	if nameWidth > 0 {
		name = r.truncateTextToWidth(textutil.SanitizeTerminalText(e.Name), nameWidth)
	}

	endX := r.drawTextLine(startX, y, width, prefix+name, rowStyle)
	r.fill(endX, startX+width, y, rowStyle)
}

func (r *Renderer) drawNotice(startX, y, width int, text string, style tcell.Style) {
	text = r.truncateTextToWidth(" "+textutil.SanitizeTerminalText(text), width)
	r.drawTextLine(startX, y, width, text, style)
}
