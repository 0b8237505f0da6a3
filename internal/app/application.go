package app

import (
	"fmt"
	"path/filepath"

	"github.com/gdamore/tcell/v2"

	"github.com/kk-code-lab/rview/internal/adapter"
	"github.com/kk-code-lab/rview/internal/config"
	"github.com/kk-code-lab/rview/internal/events"
	"github.com/kk-code-lab/rview/internal/files"
	fsutil "github.com/kk-code-lab/rview/internal/fs"
	"github.com/kk-code-lab/rview/internal/logging"
	"github.com/kk-code-lab/rview/internal/preview"
	"github.com/kk-code-lab/rview/internal/previewer"
	renderui "github.com/kk-code-lab/rview/internal/ui/render"
	"github.com/kk-code-lab/rview/internal/watcher"
)

const eventQueueSize = 256

// Application represents the running app. All fields are owned by the loop
// goroutine.
type Application struct {
	screen   tcell.Screen
	queue    *events.Queue
	renderer *renderui.Renderer
	images   *adapter.Cells
	runner   *previewer.Runner
	preview  *preview.Preview
	watcher  *watcher.Watcher
	cfg      config.Config

	cwd         string
	folders     map[string]*files.Folder
	cwdTask     *preview.Task
	selected    int
	scroll      int
	showHidden  bool
	pendingName string
	mimes       map[string]mimeEntry

	editorCmd  []string
	lastErr    error
	shouldQuit bool
}

// NewApplication opens the terminal and starts browsing dir.
func NewApplication(cfg config.Config, dir string) (*Application, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, err
	}
	if err := screen.Init(); err != nil {
		return nil, err
	}
	screen.EnableFocus()

	app, err := New(screen, cfg, dir)
	if err != nil {
		screen.Fini()
		return nil, err
	}
	return app, nil
}

// New builds the application on an initialised screen.
func New(screen tcell.Screen, cfg config.Config, dir string) (*Application, error) {
	dir, err := filepath.Abs(dir)
	if err != nil {
		return nil, err
	}
	entry, err := fsutil.StatEntry(dir)
	if err != nil {
		return nil, fmt.Errorf("cannot open %s: %w", dir, err)
	}
	if !entry.IsDir {
		return nil, fmt.Errorf("cannot browse %s: %w", dir, fsutil.ErrNotDir)
	}

	queue := events.NewQueue(eventQueueSize)
	images := adapter.NewCells(screen)
	runner := previewer.NewRunner(queue, cfg.PreviewerOptions())
	registry := previewer.NewRegistry(cfg.Previewers, runner.Known)

	app := &Application{
		screen:     screen,
		queue:      queue,
		renderer:   renderui.NewRenderer(screen, images),
		images:     images,
		runner:     runner,
		cfg:        cfg,
		folders:    make(map[string]*files.Folder),
		showHidden: cfg.Preview.ShowHidden,
		mimes:      make(map[string]mimeEntry),
	}
	app.preview = preview.New(preview.Deps{
		Registry: registry,
		Runner:   runner,
		Image:    images,
		Emitter:  queue,
	}, cfg.LoaderOptions())

	if w, err := watcher.New(queue, cfg.Preview.WatchDebounce); err != nil {
		logging.Warn("filesystem watcher disabled", logging.Err(err))
	} else {
		app.watcher = w
	}

	if editor, ok := detectEditorCommand(); ok {
		app.editorCmd = editor
	}

	app.resize()
	app.chdir(dir, "")
	return app, nil
}

// Close stops background work and restores the terminal.
func (app *Application) Close() error {
	app.preview.Close()
	app.cwdTask.Abort()
	if app.watcher != nil {
		if err := app.watcher.Close(); err != nil {
			logging.Debug("watcher close failed", logging.Err(err))
		}
	}
	app.queue.Close()
	app.screen.Fini()
	return nil
}

// Cwd returns the directory being browsed.
func (app *Application) Cwd() string {
	return app.cwd
}
