package preview

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kk-code-lab/rview/internal/events"
	"github.com/kk-code-lab/rview/internal/files"
	fsutil "github.com/kk-code-lab/rview/internal/fs"
)

func makeDir(t *testing.T, n int) string {
	t.Helper()
	dir := t.TempDir()
	for i := 0; i < n; i++ {
		name := filepath.Join(dir, fmt.Sprintf("file-%02d.txt", i))
		require.NoError(t, os.WriteFile(name, []byte("x"), 0o644))
	}
	return dir
}

// drain returns every op queued so far. Callers must make sure the loader
// has finished first.
func drain(q *events.Queue) []files.Op {
	var ops []files.Op
	for {
		select {
		case ev := <-q.C():
			if op, ok := ev.(files.Op); ok {
				ops = append(ops, op)
			}
		default:
			return ops
		}
	}
}

func TestLoadFolderEmitsPartsThenDone(t *testing.T) {
	dir := makeDir(t, 5)
	q := events.NewQueue(64)

	LoadFolder(context.Background(), Disk{}, q, dir, fsutil.DummyFingerprint(), LoaderOptions{BatchSize: 2, BatchInterval: time.Hour})

	ops := drain(q)
	require.Len(t, ops, 4)
	names := map[string]bool{}
	for i, op := range ops[:3] {
		assert.Equal(t, files.OpPart, op.Kind, "op %d", i)
		assert.Equal(t, dir, op.Dir)
		for _, e := range op.Entries {
			names[e.Name] = true
		}
	}
	assert.Len(t, ops[0].Entries, 2)
	assert.Len(t, ops[1].Entries, 2)
	assert.Len(t, ops[2].Entries, 1)
	assert.Len(t, names, 5)

	done := ops[3]
	assert.Equal(t, files.OpDone, done.Kind)
	live, err := fsutil.Stat(dir)
	require.NoError(t, err)
	assert.True(t, done.Fingerprint.Hits(live))
	for _, op := range ops {
		assert.Equal(t, ops[0].Ticket, op.Ticket)
	}
	assert.Equal(t, files.Issued(dir), done.Ticket)
}

func TestLoadFolderEmptyDirEmitsOnlyDone(t *testing.T) {
	dir := t.TempDir()
	q := events.NewQueue(8)

	LoadFolder(context.Background(), Disk{}, q, dir, fsutil.DummyFingerprint(), LoaderOptions{})

	ops := drain(q)
	require.Len(t, ops, 1)
	assert.Equal(t, files.OpDone, ops[0].Kind)
}

func TestLoadFolderSkipsFreshDirectory(t *testing.T) {
	dir := makeDir(t, 2)
	live, err := fsutil.Stat(dir)
	require.NoError(t, err)
	q := events.NewQueue(8)

	LoadFolder(context.Background(), Disk{}, q, dir, live, LoaderOptions{})

	assert.Empty(t, drain(q))
}

func TestLoadFolderReportsNonDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "plain.txt")
	require.NoError(t, os.WriteFile(path, []byte("x"), 0o644))
	q := events.NewQueue(8)

	LoadFolder(context.Background(), Disk{}, q, path, fsutil.DummyFingerprint(), LoaderOptions{})

	ops := drain(q)
	require.Len(t, ops, 1)
	assert.Equal(t, files.OpError, ops[0].Kind)
	assert.ErrorIs(t, ops[0].Err, fsutil.ErrNotDir)
}

type failingList struct{ Disk }

func (failingList) ListDir(context.Context, string) (<-chan fsutil.Entry, error) {
	return nil, errors.New("permission denied")
}

func TestLoadFolderListingFailureIsSilent(t *testing.T) {
	q := events.NewQueue(8)

	LoadFolder(context.Background(), failingList{}, q, t.TempDir(), fsutil.DummyFingerprint(), LoaderOptions{})

	assert.Empty(t, drain(q))
}

// manualSource streams whatever the test pushes into entries.
type manualSource struct {
	entries chan fsutil.Entry
}

func (s manualSource) AssertStale(string, fsutil.Fingerprint) (fsutil.Fingerprint, bool, error) {
	return fsutil.Fingerprint{Kind: fsutil.KindDir}, true, nil
}

func (s manualSource) ListDir(ctx context.Context, _ string) (<-chan fsutil.Entry, error) {
	return s.entries, nil
}

func TestAbortedLoadEmitsNothingMore(t *testing.T) {
	src := manualSource{entries: make(chan fsutil.Entry)}
	q := events.NewQueue(8)

	task := StartFolder(src, q, "/virtual", fsutil.DummyFingerprint(), LoaderOptions{BatchSize: 100, BatchInterval: time.Hour})
	src.entries <- fsutil.Entry{Name: "a"}
	task.Abort()

	select {
	case <-task.Done():
	case <-time.After(5 * time.Second):
		t.Fatal("aborted loader did not exit")
	}
	assert.Empty(t, drain(q))
}

// endlessSource lists entries until its context ends, then closes exited.
type endlessSource struct {
	exited chan struct{}
}

func (s endlessSource) AssertStale(string, fsutil.Fingerprint) (fsutil.Fingerprint, bool, error) {
	return fsutil.Fingerprint{Kind: fsutil.KindDir}, true, nil
}

func (s endlessSource) ListDir(ctx context.Context, _ string) (<-chan fsutil.Entry, error) {
	out := make(chan fsutil.Entry)
	go func() {
		defer close(s.exited)
		defer close(out)
		for i := 0; ; i++ {
			select {
			case out <- fsutil.Entry{Name: fmt.Sprintf("e%d", i)}:
			case <-ctx.Done():
				return
			}
		}
	}()
	return out, nil
}

type refusingEmitter struct{ calls int }

func (e *refusingEmitter) Emit(context.Context, events.Event) bool {
	e.calls++
	return false
}

func TestRefusedEmitStopsListing(t *testing.T) {
	src := endlessSource{exited: make(chan struct{})}
	emit := &refusingEmitter{}

	LoadFolder(context.Background(), src, emit, "/virtual-endless", fsutil.DummyFingerprint(), LoaderOptions{BatchSize: 4, BatchInterval: time.Hour})

	assert.Equal(t, 1, emit.calls)
	select {
	case <-src.exited:
	case <-time.After(5 * time.Second):
		t.Fatal("listing goroutine still running after the load returned")
	}
}

func TestSlowStreamYieldsPartPerInterval(t *testing.T) {
	src := manualSource{entries: make(chan fsutil.Entry)}
	q := events.NewQueue(8)

	task := StartFolder(src, q, "/virtual-slow", fsutil.DummyFingerprint(), LoaderOptions{BatchSize: 100, BatchInterval: 20 * time.Millisecond})
	defer task.Abort()

	for i := 0; i < 2; i++ {
		src.entries <- fsutil.Entry{Name: fmt.Sprintf("e%d", i)}
		select {
		case ev := <-q.C():
			op := ev.(files.Op)
			assert.Equal(t, files.OpPart, op.Kind)
			require.Len(t, op.Entries, 1)
		case <-time.After(5 * time.Second):
			t.Fatal("no part within the interval")
		}
	}
}

func TestSuccessiveLoadsAreIsolatedByTicket(t *testing.T) {
	dir := makeDir(t, 3)
	q := events.NewQueue(64)
	opts := LoaderOptions{BatchSize: 10, BatchInterval: time.Hour}

	LoadFolder(context.Background(), Disk{}, q, dir, fsutil.DummyFingerprint(), opts)
	first := drain(q)
	LoadFolder(context.Background(), Disk{}, q, dir, fsutil.DummyFingerprint(), opts)
	second := drain(q)

	require.NotEmpty(t, first)
	require.NotEmpty(t, second)
	t1, t2 := first[0].Ticket, second[0].Ticket
	require.Less(t, t1, t2)

	folder := files.NewFolder(dir)
	for _, op := range second {
		folder.Apply(op)
	}
	for _, op := range first {
		assert.False(t, folder.Apply(op), "stale %s op applied", op.Kind)
	}
	assert.Equal(t, t2, folder.Ticket())
	assert.Len(t, folder.Entries, 3)
}
