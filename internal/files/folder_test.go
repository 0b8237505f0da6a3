package files

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	fsutil "github.com/kk-code-lab/rview/internal/fs"
)

func entry(dir, name string, isDir bool) fsutil.Entry {
	return fsutil.Entry{Name: name, FullPath: dir + "/" + name, IsDir: isDir}
}

func names(entries []fsutil.Entry) []string {
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.Name
	}
	return out
}

func TestPrepareIsMonotonic(t *testing.T) {
	t1 := Prepare("/prepare")
	t2 := Prepare("/prepare")
	t3 := Prepare("/elsewhere")

	assert.Less(t, t1, t2)
	assert.Less(t, t2, t3)
	assert.Equal(t, t2, Issued("/prepare"))
	assert.Equal(t, Ticket(0), Issued("/never-prepared"))
}

func TestFolderAccumulatesPartsThenDone(t *testing.T) {
	dir := "/accumulate"
	f := NewFolder(dir)
	ticket := Prepare(dir)
	fp := fsutil.Fingerprint{Size: 4, Kind: fsutil.KindDir}

	require.True(t, f.Apply(Part(dir, []fsutil.Entry{entry(dir, "b.txt", false), entry(dir, "Zeta", true)}, ticket)))
	assert.False(t, f.Loaded)
	assert.Equal(t, []string{"Zeta", "b.txt"}, names(f.Entries))

	require.True(t, f.Apply(Part(dir, []fsutil.Entry{entry(dir, "a.txt", false)}, ticket)))
	require.True(t, f.Apply(Done(dir, fp, ticket)))

	assert.True(t, f.Loaded)
	assert.Equal(t, fp, f.Fingerprint)
	assert.Equal(t, []string{"Zeta", "a.txt", "b.txt"}, names(f.Entries))
	assert.Equal(t, ticket, f.Ticket())
}

func TestFolderDiscardsSupersededTicket(t *testing.T) {
	dir := "/isolation"
	f := NewFolder(dir)

	t1 := Prepare(dir)
	t2 := Prepare(dir)
	require.Less(t, t1, t2)

	require.True(t, f.Apply(Part(dir, []fsutil.Entry{entry(dir, "new", false)}, t2)))
	assert.False(t, f.Apply(Part(dir, []fsutil.Entry{entry(dir, "old", false)}, t1)))
	assert.False(t, f.Apply(Done(dir, fsutil.Fingerprint{Kind: fsutil.KindDir}, t1)))

	assert.Equal(t, []string{"new"}, names(f.Entries))
	assert.False(t, f.Loaded)
}

func TestFolderDropsEventsOfAbandonedLoad(t *testing.T) {
	dir := "/abandoned"
	f := NewFolder(dir)

	t1 := Prepare(dir)
	Prepare(dir)

	assert.False(t, f.Apply(Part(dir, []fsutil.Entry{entry(dir, "stale", false)}, t1)))
	assert.Empty(t, f.Entries)
}

func TestFolderNewGenerationReplacesEntries(t *testing.T) {
	dir := "/reload"
	f := NewFolder(dir)

	t1 := Prepare(dir)
	f.Apply(Part(dir, []fsutil.Entry{entry(dir, "gone", false)}, t1))
	f.Apply(Done(dir, fsutil.Fingerprint{Size: 1, Kind: fsutil.KindDir}, t1))

	t2 := Prepare(dir)
	require.True(t, f.Apply(Done(dir, fsutil.Fingerprint{Size: 2, Kind: fsutil.KindDir}, t2)))
	assert.Empty(t, f.Entries, "an empty reload must clear the previous generation")
	assert.Equal(t, int64(2), f.Fingerprint.Size)
}

func TestFolderIgnoresOtherDirectories(t *testing.T) {
	f := NewFolder("/mine")
	ticket := Prepare("/theirs")
	assert.False(t, f.Apply(Part("/theirs", []fsutil.Entry{entry("/theirs", "x", false)}, ticket)))
}

func TestFolderRecordsErrors(t *testing.T) {
	dir := "/broken"
	f := NewFolder(dir)
	boom := errors.New("boom")

	require.True(t, f.Apply(Error(dir, boom)))
	assert.True(t, f.Loaded)
	assert.ErrorIs(t, f.Err, boom)
}

func TestFolderVisibleFiltersHidden(t *testing.T) {
	dir := "/hidden"
	f := NewFolder(dir)
	ticket := Prepare(dir)
	f.Apply(Part(dir, []fsutil.Entry{entry(dir, ".dot", false), entry(dir, "plain", false)}, ticket))

	assert.Equal(t, []string{".dot", "plain"}, names(f.Visible(false)))
	assert.Equal(t, []string{"plain"}, names(f.Visible(true)))
}

func TestFolderUpsert(t *testing.T) {
	dir := "/upsert"
	f := NewFolder(dir)
	ticket := Prepare(dir)
	f.Apply(Part(dir, []fsutil.Entry{entry(dir, "a", false)}, ticket))

	changed := entry(dir, "a", false)
	changed.Size = 42
	f.Upsert(changed)
	f.Upsert(entry(dir, "b", true))

	assert.Equal(t, []string{"b", "a"}, names(f.Entries))
	assert.Equal(t, int64(42), f.Entries[1].Size)
}
