// Package preview decides what the preview pane shows for the hovered entry.
// It reuses the displayed content when nothing changed, runs the matching
// previewer otherwise, and keeps directory listings fresh in the
// background. It is owned by the event loop and never locked.
package preview

import (
	"context"

	fsutil "github.com/kk-code-lab/rview/internal/fs"
	"github.com/kk-code-lab/rview/internal/highlight"
	"github.com/kk-code-lab/rview/internal/logging"
	"github.com/kk-code-lab/rview/internal/metrics"
	"github.com/kk-code-lab/rview/internal/previewer"
)

// Registry resolves the previewer for a location and MIME type.
type Registry interface {
	PreviewerFor(url, mime string) (previewer.Previewer, bool)
}

// Runner executes previewers. Results come back as previewer.Peeked events.
type Runner interface {
	RunSync(p previewer.Previewer, entry fsutil.Entry, skip int)
	RunAsync(p previewer.Previewer, entry fsutil.Entry, skip int) context.CancelFunc
}

// ImageHider removes a displayed image from the terminal.
type ImageHider interface {
	ImageHide() error
}

// Deps are the collaborators of a Preview. AbortHighlight defaults to
// highlight.Abort and Source to Disk.
type Deps struct {
	Registry       Registry
	Runner         Runner
	Image          ImageHider
	Source         FolderSource
	Emitter        Emitter
	AbortHighlight func()
}

// Preview is the preview state of the application.
type Preview struct {
	Lock *previewer.Lock
	Skip int

	registry       Registry
	runner         Runner
	image          ImageHider
	source         FolderSource
	emitter        Emitter
	abortHighlight func()
	opts           LoaderOptions

	previewerCancel context.CancelFunc
	folderLoader    *Task
}

// New creates an empty preview state.
func New(deps Deps, opts LoaderOptions) *Preview {
	if deps.AbortHighlight == nil {
		deps.AbortHighlight = highlight.Abort
	}
	if deps.Source == nil {
		deps.Source = Disk{}
	}
	return &Preview{
		registry:       deps.Registry,
		runner:         deps.Runner,
		image:          deps.Image,
		source:         deps.Source,
		emitter:        deps.Emitter,
		abortHighlight: deps.AbortHighlight,
		opts:           opts.withDefaults(),
	}
}

// Go previews entry. Unless force is set, nothing happens when the lock
// already shows this entry at the current skip and its fingerprint hits.
func (p *Preview) Go(entry fsutil.Entry, mime string, force bool) {
	if !force && p.contentUnchanged(entry.FullPath, entry.Fingerprint()) {
		metrics.RecordSkipped()
		return
	}

	pv, ok := p.registry.PreviewerFor(entry.FullPath, mime)
	if !ok {
		p.Reset()
		return
	}

	p.Abort()
	metrics.RecordDispatch(pv.Run, pv.Sync)
	if pv.Sync {
		p.runner.RunSync(pv, entry, p.Skip)
	} else {
		p.previewerCancel = p.runner.RunAsync(pv, entry, p.Skip)
	}
}

// GoFolder previews the directory entry and reloads its listing when the
// directory no longer hits expected. Pass fsutil.DummyFingerprint() when
// no listing is known.
func (p *Preview) GoFolder(entry fsutil.Entry, expected fsutil.Fingerprint, force bool) {
	fp, url := entry.Fingerprint(), entry.FullPath
	p.Go(entry, fsutil.MimeDir, force)
	if p.contentUnchanged(url, fp) {
		return
	}

	p.folderLoader.Abort()
	p.folderLoader = StartFolder(p.source, p.emitter, url, expected, p.opts)
}

// Abort cancels the running previewer, if any, and asks highlighting to stop.
func (p *Preview) Abort() {
	if p.previewerCancel != nil {
		p.previewerCancel()
		p.previewerCancel = nil
		metrics.RecordCancel()
	}
	p.abortHighlight()
}

// Reset aborts, hides any image and drops the lock. It reports whether
// there was a lock to drop.
func (p *Preview) Reset() bool {
	p.Abort()
	p.hideImage()

	if p.Lock == nil {
		return false
	}
	p.Lock = nil
	metrics.RecordReset()
	return true
}

// ResetImage aborts and hides any image but keeps the lock.
func (p *Preview) ResetImage() {
	p.Abort()
	p.hideImage()
}

// SameURL reports whether the lock shows url.
func (p *Preview) SameURL(url string) bool {
	return p.Lock != nil && p.Lock.URL == url
}

// Close resets the preview and stops the folder loader.
func (p *Preview) Close() {
	p.Reset()
	p.folderLoader.Abort()
	p.folderLoader = nil
}

func (p *Preview) contentUnchanged(url string, fp fsutil.Fingerprint) bool {
	if p.Lock == nil {
		return false
	}
	return url == p.Lock.URL && p.Skip == p.Lock.Skip && fp.Hits(p.Lock.Fingerprint)
}

func (p *Preview) hideImage() {
	if p.image == nil {
		return
	}
	if err := p.image.ImageHide(); err != nil {
		logging.Debug("image hide failed", logging.Err(err))
	}
}
