package app

import (
	"os"
	"os/signal"

	"github.com/gdamore/tcell/v2"

	"github.com/kk-code-lab/rview/internal/adapter"
	"github.com/kk-code-lab/rview/internal/events"
	"github.com/kk-code-lab/rview/internal/files"
	"github.com/kk-code-lab/rview/internal/previewer"
	"github.com/kk-code-lab/rview/internal/ui/input"
	renderui "github.com/kk-code-lab/rview/internal/ui/render"
	"github.com/kk-code-lab/rview/internal/watcher"
)

// Run drives the event loop until the user quits.
func (app *Application) Run() {
	app.render()
	renderPending := false

	eventChan := make(chan tcell.Event)
	go func() {
		for {
			ev := app.screen.PollEvent()
			if ev == nil {
				return
			}
			eventChan <- ev
		}
	}()

	var sigContCh chan os.Signal
	if sigs := contSignals(); len(sigs) > 0 {
		sigContCh = make(chan os.Signal, 1)
		signal.Notify(sigContCh, sigs...)
		defer signal.Stop(sigContCh)
	}

	for !app.shouldQuit {
		if renderPending {
			app.render()
			renderPending = false
		}

		select {
		case ev := <-eventChan:
			if app.handleEvent(ev) {
				renderPending = true
			}
		case action := <-app.queue.C():
			if app.handleAction(action) {
				renderPending = true
			}
		case <-sigContCh:
			if app.resumeAfterStop() {
				renderPending = true
			}
		}

		if app.processActions() {
			renderPending = true
		}
	}
}

func (app *Application) handleEvent(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		return app.handleKey(ev)
	case *tcell.EventResize:
		app.screen.Sync()
		app.resize()
		app.peek(true)
		return true
	case *tcell.EventFocus:
		if ev.Focused {
			app.peek(true)
		} else {
			app.preview.ResetImage()
		}
		return true
	case *tcell.EventInterrupt:
		return true
	default:
		return false
	}
}

func (app *Application) handleKey(ev *tcell.EventKey) bool {
	switch input.Translate(ev) {
	case input.Quit:
		app.shouldQuit = true
		return false
	case input.Suspend:
		app.suspendToShell()
		app.resumeAfterStop()
	case input.Up:
		app.move(-1)
	case input.Down:
		app.move(1)
	case input.PageUp:
		app.move(-app.listRows())
	case input.PageDown:
		app.move(app.listRows())
	case input.Top:
		app.move(-app.selected)
	case input.Bottom:
		app.move(len(app.visible()))
	case input.Enter:
		app.enter()
	case input.Parent:
		app.parent()
	case input.SeekDown:
		app.seek(app.seekStep())
	case input.SeekUp:
		app.seek(-app.seekStep())
	case input.ToggleHidden:
		app.toggleHidden()
	case input.Edit:
		return app.handleEditorOpen()
	default:
		return false
	}
	return true
}

func (app *Application) processActions() bool {
	changed := false
	for {
		select {
		case action := <-app.queue.C():
			if app.handleAction(action) {
				changed = true
			}
		default:
			return changed
		}
	}
}

// handleAction applies an event posted by background work.
func (app *Application) handleAction(action events.Event) bool {
	switch ev := action.(type) {
	case files.Op:
		return app.applyFolderOp(ev)
	case previewer.Peeked:
		return app.applyPeeked(ev.Lock)
	case watcher.Changed:
		return app.handleChanged(ev)
	default:
		return false
	}
}

func (app *Application) layout() renderui.Layout {
	w, h := app.screen.Size()
	return renderui.ComputeLayout(w, h)
}

func (app *Application) listRows() int {
	return app.layout().Rows()
}

func (app *Application) previewArea() adapter.Rect {
	return app.layout().PreviewArea()
}

// seekStep scrolls half a preview page.
func (app *Application) seekStep() int {
	step := app.previewArea().H / 2
	if step < 1 {
		step = 1
	}
	return step
}

func (app *Application) resize() {
	area := app.previewArea()
	app.runner.SetArea(previewer.Area{W: area.W, H: area.H})
	app.ensureVisible()
}

func (app *Application) render() {
	v := renderui.View{
		Cwd:             app.cwd,
		Entries:         app.visible(),
		Selected:        app.selected,
		Scroll:          app.scroll,
		ShowHidden:      app.showHidden,
		EditorAvailable: len(app.editorCmd) > 0,
		Lock:            app.preview.Lock,
	}

	cwd := app.folder(app.cwd)
	v.Loading = !cwd.Loaded
	v.Err = cwd.Err
	if app.lastErr != nil {
		v.Notice = app.lastErr.Error()
	}

	if h := app.hovered(); h != nil {
		v.Hovered = h
		if h.IsDir {
			f := app.folder(h.FullPath)
			v.Folder = f.Visible(!app.showHidden)
			v.FolderLoading = !f.Loaded
			v.FolderErr = f.Err
		} else {
			v.Mime = app.mimeOf(*h)
		}
	}

	app.renderer.Render(v)
}
