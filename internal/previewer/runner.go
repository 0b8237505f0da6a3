package previewer

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/kk-code-lab/rview/internal/events"
	fsutil "github.com/kk-code-lab/rview/internal/fs"
	"github.com/kk-code-lab/rview/internal/highlight"
	"github.com/kk-code-lab/rview/internal/logging"
	"github.com/kk-code-lab/rview/internal/metrics"
)

// Options tune the builtin previewers.
type Options struct {
	MaxBytes      int64
	TabWidth      int
	SyntaxStyle   string
	MarkdownStyle string
}

// DefaultOptions mirrors the configuration defaults.
func DefaultOptions() Options {
	return Options{
		MaxBytes:      256 * 1024,
		TabWidth:      4,
		SyntaxStyle:   "monokai",
		MarkdownStyle: "notty",
	}
}

// Area is the preview pane size in cells.
type Area struct {
	W, H int
}

// Job is one previewer invocation.
type Job struct {
	Entry fsutil.Entry
	Skip  int
	Area  Area
}

// Func is a builtin previewer. It returns the Lock to display or an error.
type Func func(ctx context.Context, r *Runner, job Job) (*Lock, error)

// Sink receives Peeked events.
type Sink interface {
	Emit(ctx context.Context, ev events.Event) bool
	Post(ev events.Event)
}

// Runner executes builtin previewers and posts their results to a sink.
type Runner struct {
	sink        Sink
	opts        Options
	area        Area
	highlighter *highlight.Highlighter
	builtins    map[string]Func
}

// NewRunner creates a runner with every builtin registered.
func NewRunner(sink Sink, opts Options) *Runner {
	defaults := DefaultOptions()
	if opts.MaxBytes <= 0 {
		opts.MaxBytes = defaults.MaxBytes
	}
	if opts.TabWidth <= 0 {
		opts.TabWidth = defaults.TabWidth
	}
	if opts.SyntaxStyle == "" {
		opts.SyntaxStyle = defaults.SyntaxStyle
	}
	if opts.MarkdownStyle == "" {
		opts.MarkdownStyle = defaults.MarkdownStyle
	}

	return &Runner{
		sink:        sink,
		opts:        opts,
		highlighter: highlight.New(opts.SyntaxStyle),
		builtins: map[string]Func{
			"folder":   folderPreview,
			"empty":    emptyPreview,
			"code":     codePreview,
			"markdown": markdownPreview,
			"image":    imagePreview,
			"file":     filePreview,
		},
	}
}

// Known reports whether name is a registered builtin.
func (r *Runner) Known(name string) bool {
	_, ok := r.builtins[name]
	return ok
}

// Names lists the registered builtins.
func (r *Runner) Names() []string {
	names := make([]string, 0, len(r.builtins))
	for name := range r.builtins {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// SetArea updates the pane size used by later jobs.
func (r *Runner) SetArea(area Area) {
	r.area = area
}

// Area returns the current pane size.
func (r *Runner) Area() Area {
	return r.area
}

// Options returns the options in effect.
func (r *Runner) Options() Options {
	return r.opts
}

// Run executes p for entry and returns its Lock without posting it.
func (r *Runner) Run(ctx context.Context, p Previewer, entry fsutil.Entry, skip int) (*Lock, error) {
	return r.run(ctx, p, r.job(entry, skip))
}

// RunSync executes p inline and posts the result.
func (r *Runner) RunSync(p Previewer, entry fsutil.Entry, skip int) {
	lock, ok := r.finish(context.Background(), p, r.job(entry, skip))
	if ok {
		r.sink.Post(Peeked{Lock: lock})
	}
}

// RunAsync executes p in a goroutine. The returned func cancels it; a
// cancelled run posts nothing.
func (r *Runner) RunAsync(p Previewer, entry fsutil.Entry, skip int) context.CancelFunc {
	ctx, cancel := context.WithCancel(context.Background())
	job := r.job(entry, skip)
	go func() {
		lock, ok := r.finish(ctx, p, job)
		if ok {
			r.sink.Emit(ctx, Peeked{Lock: lock})
		}
	}()
	return cancel
}

func (r *Runner) job(entry fsutil.Entry, skip int) Job {
	if skip < 0 {
		skip = 0
	}
	return Job{Entry: entry, Skip: skip, Area: r.area}
}

func (r *Runner) run(ctx context.Context, p Previewer, job Job) (*Lock, error) {
	fn, ok := r.builtins[p.Run]
	if !ok {
		return nil, fmt.Errorf("unknown previewer %q", p.Run)
	}
	return fn(ctx, r, job)
}

// finish runs the job and turns failures into an error Lock. It reports
// false when the result must be dropped.
func (r *Runner) finish(ctx context.Context, p Previewer, job Job) (*Lock, bool) {
	lock, err := r.run(ctx, p, job)
	if ctx.Err() != nil || errors.Is(err, highlight.ErrAborted) {
		return nil, false
	}
	if err != nil {
		logging.Debug("previewer failed",
			logging.String("previewer", p.Run),
			logging.String("url", job.Entry.FullPath),
			logging.Err(err),
		)
		metrics.RecordPreviewError(p.Run)
		lock = newLock(job, KindText)
		window(lock, highlight.PlainLines([]string{err.Error()}), job.Area.H)
	}
	return lock, true
}
