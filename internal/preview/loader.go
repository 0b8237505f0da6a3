package preview

import (
	"context"
	"time"

	"github.com/kk-code-lab/rview/internal/events"
	"github.com/kk-code-lab/rview/internal/files"
	fsutil "github.com/kk-code-lab/rview/internal/fs"
	"github.com/kk-code-lab/rview/internal/logging"
	"github.com/kk-code-lab/rview/internal/metrics"
)

// Default batching of folder loads.
const (
	DefaultBatchSize     = 50_000
	DefaultBatchInterval = 500 * time.Millisecond
)

// FolderSource inspects and lists directories.
type FolderSource interface {
	// AssertStale returns the live fingerprint of dir and whether it no
	// longer hits expected. It fails when dir cannot be stat'ed or is not a
	// directory.
	AssertStale(dir string, expected fsutil.Fingerprint) (fsutil.Fingerprint, bool, error)
	ListDir(ctx context.Context, dir string) (<-chan fsutil.Entry, error)
}

// Emitter delivers events to the loop. Emit blocks until the event is
// queued or ctx ends.
type Emitter interface {
	Emit(ctx context.Context, ev events.Event) bool
}

// Disk is the FolderSource backed by the local filesystem.
type Disk struct{}

func (Disk) AssertStale(dir string, expected fsutil.Fingerprint) (fsutil.Fingerprint, bool, error) {
	return fsutil.AssertStale(dir, expected)
}

func (Disk) ListDir(ctx context.Context, dir string) (<-chan fsutil.Entry, error) {
	return fsutil.ListDir(ctx, dir)
}

// LoaderOptions bound the size and latency of Part batches.
type LoaderOptions struct {
	BatchSize     int
	BatchInterval time.Duration
}

func (o LoaderOptions) withDefaults() LoaderOptions {
	if o.BatchSize <= 0 {
		o.BatchSize = DefaultBatchSize
	}
	if o.BatchInterval <= 0 {
		o.BatchInterval = DefaultBatchInterval
	}
	return o
}

// Task is a running folder load.
type Task struct {
	cancel context.CancelFunc
	done   chan struct{}
}

// Abort stops the load. Nothing is emitted after Abort returns, apart from
// an event that was already being handed over.
func (t *Task) Abort() {
	if t == nil {
		return
	}
	select {
	case <-t.done:
	default:
		metrics.RecordFolderLoad(metrics.FolderAborted)
	}
	t.cancel()
}

// Done is closed when the load goroutine has exited.
func (t *Task) Done() <-chan struct{} {
	return t.done
}

// StartFolder re-lists dir in the background unless its live fingerprint
// still hits expected. Entries are emitted as files.Part batches followed by
// one files.Done, all carrying the same ticket.
func StartFolder(source FolderSource, emit Emitter, dir string, expected fsutil.Fingerprint, opts LoaderOptions) *Task {
	ctx, cancel := context.WithCancel(context.Background())
	task := &Task{cancel: cancel, done: make(chan struct{})}
	go func() {
		defer close(task.done)
		LoadFolder(ctx, source, emit, dir, expected, opts)
	}()
	return task
}

// LoadFolder is the body of StartFolder. It returns when the listing is
// exhausted, when it fails, or when ctx is cancelled.
func LoadFolder(ctx context.Context, source FolderSource, emit Emitter, dir string, expected fsutil.Fingerprint, opts LoaderOptions) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	opts = opts.withDefaults()

	live, stale, err := source.AssertStale(dir, expected)
	if err != nil {
		metrics.RecordFolderLoad(metrics.FolderFailed)
		emit.Emit(ctx, files.Error(dir, err))
		return
	}
	if !stale {
		metrics.RecordFolderLoad(metrics.FolderFresh)
		return
	}

	entries, err := source.ListDir(ctx, dir)
	if err != nil {
		metrics.RecordFolderLoad(metrics.FolderFailed)
		logging.Debug("folder listing failed", logging.String("dir", dir), logging.Err(err))
		return
	}
	metrics.RecordFolderLoad(metrics.FolderStarted)

	ticket := files.Prepare(dir)
	ok := chunksTimeout(ctx, entries, opts.BatchSize, opts.BatchInterval, func(batch []fsutil.Entry) bool {
		if !emit.Emit(ctx, files.Part(dir, batch, ticket)) {
			return false
		}
		metrics.RecordBatch(len(batch))
		return true
	})
	if !ok || ctx.Err() != nil {
		return
	}

	if emit.Emit(ctx, files.Done(dir, live, ticket)) {
		metrics.RecordFolderLoad(metrics.FolderDone)
	}
}

