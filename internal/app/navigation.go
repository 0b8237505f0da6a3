package app

import (
	"path/filepath"

	"github.com/kk-code-lab/rview/internal/files"
	fsutil "github.com/kk-code-lab/rview/internal/fs"
	"github.com/kk-code-lab/rview/internal/logging"
	"github.com/kk-code-lab/rview/internal/preview"
	"github.com/kk-code-lab/rview/internal/previewer"
	"github.com/kk-code-lab/rview/internal/watcher"
)

type mimeEntry struct {
	fp   fsutil.Fingerprint
	mime string
}

// folder returns the store for dir, creating an unloaded one.
func (app *Application) folder(dir string) *files.Folder {
	f, ok := app.folders[dir]
	if !ok {
		f = files.NewFolder(dir)
		app.folders[dir] = f
	}
	return f
}

func (app *Application) visible() []fsutil.Entry {
	return app.folder(app.cwd).Visible(!app.showHidden)
}

func (app *Application) hovered() *fsutil.Entry {
	entries := app.visible()
	if app.selected < 0 || app.selected >= len(entries) {
		return nil
	}
	e := entries[app.selected]
	return &e
}

// mimeOf detects the MIME type of entry, reusing the last answer while the
// entry's fingerprint still hits.
func (app *Application) mimeOf(entry fsutil.Entry) string {
	fp := entry.Fingerprint()
	if cached, ok := app.mimes[entry.FullPath]; ok && cached.fp.Hits(fp) {
		return cached.mime
	}
	mime := fsutil.DetectMime(entry)
	app.mimes[entry.FullPath] = mimeEntry{fp: fp, mime: mime}
	return mime
}

// peek previews the hovered entry.
func (app *Application) peek(force bool) {
	h := app.hovered()
	if h == nil {
		app.preview.Reset()
		app.watch()
		return
	}

	if h.IsDir {
		app.preview.GoFolder(*h, app.folder(h.FullPath).Fingerprint, force)
	} else {
		app.preview.Go(*h, app.mimeOf(*h), force)
	}
	app.watch()
}

func (app *Application) watch() {
	if app.watcher == nil {
		return
	}
	dirs := []string{app.cwd}
	if h := app.hovered(); h != nil && h.IsDir {
		dirs = append(dirs, h.FullPath)
	}
	app.watcher.Watch(dirs...)
}

// chdir switches to dir and selects the entry named selectName once it
// shows up.
func (app *Application) chdir(dir, selectName string) {
	app.cwd = dir
	app.selected = 0
	app.scroll = 0
	app.pendingName = selectName
	app.preview.Skip = 0
	app.lastErr = nil

	folder := app.folder(dir)
	app.selectPending()
	app.cwdTask.Abort()
	app.cwdTask = preview.StartFolder(preview.Disk{}, app.queue, dir, folder.Fingerprint, app.cfg.LoaderOptions())
	app.peek(false)
}

// reloadCwd re-lists the current directory if it changed on disk.
func (app *Application) reloadCwd() {
	app.cwdTask.Abort()
	app.cwdTask = preview.StartFolder(preview.Disk{}, app.queue, app.cwd, app.folder(app.cwd).Fingerprint, app.cfg.LoaderOptions())
}

func (app *Application) selectPending() {
	if app.pendingName == "" {
		return
	}
	for i, e := range app.visible() {
		if e.Name == app.pendingName {
			app.selected = i
			app.pendingName = ""
			app.ensureVisible()
			return
		}
	}
}

func (app *Application) move(delta int) {
	entries := app.visible()
	if len(entries) == 0 {
		return
	}
	next := app.selected + delta
	if next < 0 {
		next = 0
	}
	if next >= len(entries) {
		next = len(entries) - 1
	}
	if next == app.selected {
		return
	}
	app.selected = next
	app.pendingName = ""
	app.ensureVisible()
	app.preview.Skip = 0
	app.peek(false)
}

func (app *Application) ensureVisible() {
	rows := app.listRows()
	if app.selected < app.scroll {
		app.scroll = app.selected
	}
	if rows > 0 && app.selected >= app.scroll+rows {
		app.scroll = app.selected - rows + 1
	}
	if app.scroll < 0 {
		app.scroll = 0
	}
}

func (app *Application) enter() {
	h := app.hovered()
	if h == nil || !h.IsDir {
		return
	}
	app.chdir(h.FullPath, "")
}

func (app *Application) parent() {
	parent := filepath.Dir(app.cwd)
	if parent == app.cwd {
		return
	}
	app.chdir(parent, filepath.Base(app.cwd))
}

// seek scrolls the preview of the hovered entry by delta lines.
func (app *Application) seek(delta int) {
	h := app.hovered()
	if h == nil || !app.preview.SameURL(h.FullPath) {
		return
	}
	skip := app.preview.Skip + delta
	if skip < 0 {
		skip = 0
	}
	if app.preview.Lock.Kind == previewer.KindFolder {
		if n := len(app.folder(h.FullPath).Visible(!app.showHidden)); skip >= n {
			skip = n - 1
		}
		if skip < 0 {
			skip = 0
		}
	}
	if skip == app.preview.Skip {
		return
	}
	app.preview.Skip = skip
	app.peek(true)
}

func (app *Application) toggleHidden() {
	name := ""
	if h := app.hovered(); h != nil {
		name = h.Name
	}
	app.showHidden = !app.showHidden
	app.selected = 0
	app.scroll = 0
	app.pendingName = name
	app.selectPending()
	app.pendingName = ""
	app.peek(false)
}

// applyFolderOp folds a listing event into its folder. Changes to the
// current directory may move the hovered entry, which is previewed again.
func (app *Application) applyFolderOp(op files.Op) bool {
	folder, ok := app.folders[op.Dir]
	if !ok {
		return false
	}

	before := app.hovered()
	if !folder.Apply(op) {
		return false
	}
	if op.Kind == files.OpError {
		logging.Debug("folder load failed", logging.String("dir", op.Dir), logging.Err(op.Err))
	}
	if op.Dir != app.cwd {
		return true
	}

	app.selectPending()
	if op.Kind == files.OpDone {
		app.pendingName = ""
	}
	if n := len(app.visible()); app.selected >= n {
		app.selected = n - 1
		if app.selected < 0 {
			app.selected = 0
		}
	}
	app.ensureVisible()

	after := app.hovered()
	switch {
	case !sameEntry(before, after):
		app.preview.Skip = 0
		app.peek(false)
	case after != nil && !after.Fingerprint().Hits(before.Fingerprint()):
		app.peek(false)
	}
	return true
}

func sameEntry(a, b *fsutil.Entry) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.FullPath == b.FullPath
}

// applyPeeked installs a previewer result if it still belongs to the
// hovered entry.
func (app *Application) applyPeeked(lock *previewer.Lock) bool {
	h := app.hovered()
	if lock == nil || h == nil || h.FullPath != lock.URL {
		return false
	}

	app.preview.Lock = lock
	if lock.Skip != app.preview.Skip {
		app.preview.Skip = lock.Skip
	}

	if lock.Kind == previewer.KindImage && lock.Image != nil {
		if err := app.images.ImageShow(lock.Image, app.previewArea()); err != nil {
			logging.Debug("image show failed", logging.Err(err))
		}
	} else if err := app.images.ImageHide(); err != nil {
		logging.Debug("image hide failed", logging.Err(err))
	}
	return true
}

// handleChanged reacts to a directory changing on disk. Children named by
// the watcher are re-read in place: editing a file leaves its directory's
// fingerprint alone, so a reload would not notice it.
func (app *Application) handleChanged(ev watcher.Changed) bool {
	before := app.hovered()
	changed := app.refreshChildren(ev.Dir, ev.Paths)
	if ev.Dir == app.cwd {
		app.reloadCwd()
	}

	after := app.hovered()
	if after == nil {
		return changed
	}
	switch {
	case ev.Dir == app.cwd && !sameEntry(before, after):
		app.preview.Skip = 0
		app.peek(false)
	case ev.Dir == app.cwd && !after.Fingerprint().Hits(before.Fingerprint()):
		app.peek(false)
	case after.IsDir && after.FullPath == ev.Dir:
		entry, err := fsutil.StatEntry(ev.Dir)
		if err != nil {
			logging.Debug("stat changed directory failed", logging.String("dir", ev.Dir), logging.Err(err))
			return changed
		}
		app.preview.GoFolder(entry, app.folder(ev.Dir).Fingerprint, false)
	}
	return changed
}

// refreshChildren stats paths and folds them into the loaded folder of dir.
// Paths that no longer exist are left for the directory reload.
func (app *Application) refreshChildren(dir string, paths []string) bool {
	folder, ok := app.folders[dir]
	if !ok || !folder.Loaded || len(paths) == 0 {
		return false
	}
	var hovered string
	if h := app.hovered(); h != nil {
		hovered = h.FullPath
	}

	changed := false
	for _, path := range paths {
		if filepath.Dir(path) != dir {
			continue
		}
		entry, err := fsutil.StatEntry(path)
		if err != nil {
			logging.Debug("stat changed entry failed", logging.String("path", path), logging.Err(err))
			continue
		}
		folder.Upsert(entry)
		changed = true
	}
	if changed && dir == app.cwd {
		app.keepHovered(hovered)
	}
	return changed
}

// keepHovered moves the selection back onto path after entries were
// inserted around it.
func (app *Application) keepHovered(path string) {
	if path == "" {
		return
	}
	for i, e := range app.visible() {
		if e.FullPath == path {
			app.selected = i
			app.ensureVisible()
			return
		}
	}
}
