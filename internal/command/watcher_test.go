package command

import (
	"fmt"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// countingReloader counts Reload calls for debounce assertions.
type countingReloader struct {
	count atomic.Int64
}

func (c *countingReloader) Reload() error {
	c.count.Add(1)
	return nil
}

func newTestWatcher(t *testing.T, dir string, target Reloader) *Watcher {
	t.Helper()
	w, err := NewWatcher(dir, target, WatcherOptions{
		Debounce: 50 * time.Millisecond,
		Tick:     10 * time.Millisecond,
	})
	require.NoError(t, err)
	t.Cleanup(func() { w.Close() })
	return w
}

func waitForReloads(t *testing.T, target *countingReloader, want int64) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if target.count.Load() >= want {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("expected at least %d reload(s), got %d", want, target.count.Load())
}

func TestWatcherReloadsOnWrite(t *testing.T) {
	dir := t.TempDir()
	target := &countingReloader{}

	w := newTestWatcher(t, dir, target)
	w.Start()

	require.NoError(t, os.WriteFile(filepath.Join(dir, "new.md"), []byte(sampleCommand), 0644))

	waitForReloads(t, target, 1)
}

func TestWatcherCoalescesBurst(t *testing.T) {
	dir := t.TempDir()
	target := &countingReloader{}

	w := newTestWatcher(t, dir, target)
	w.Start()

	// A burst of writes within the debounce window triggers one reload.
	for i := 0; i < 5; i++ {
		require.NoError(t, os.WriteFile(filepath.Join(dir, "burst.md"), []byte(sampleCommand), 0644))
		time.Sleep(2 * time.Millisecond)
	}

	waitForReloads(t, target, 1)

	// Let any straggling sweeps settle, then verify nothing piled up.
	time.Sleep(200 * time.Millisecond)
	assert.LessOrEqual(t, target.count.Load(), int64(2))
}

func TestWatcherDistinctPathsCoalesce(t *testing.T) {
	dir := t.TempDir()

	registry, err := NewRegistry(dir)
	require.NoError(t, err)

	// Chain the registry behind the counter so we can both count the
	// coalesced reloads and observe the resulting command set.
	target := &countingReloader{}
	chained := reloaderFunc(func() error {
		target.Reload()
		return registry.Reload()
	})

	w := newTestWatcher(t, dir, chained)
	w.Start()

	for i := 0; i < 5; i++ {
		writeCommand(t, dir, fmt.Sprintf("cmd%d", i), "misc")
		time.Sleep(2 * time.Millisecond)
	}

	waitForReloads(t, target, 1)
	time.Sleep(200 * time.Millisecond)

	assert.LessOrEqual(t, target.count.Load(), int64(2))
	assert.Equal(t, []string{"cmd0", "cmd1", "cmd2", "cmd3", "cmd4"}, registry.Names())
}

type reloaderFunc func() error

func (f reloaderFunc) Reload() error { return f() }

func TestWatcherIgnoresIrrelevantFiles(t *testing.T) {
	dir := t.TempDir()
	target := &countingReloader{}

	w := newTestWatcher(t, dir, target)
	w.Start()

	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("not a command"), 0644))

	time.Sleep(200 * time.Millisecond)
	assert.Equal(t, int64(0), target.count.Load())
}

func TestWatcherRemovalTriggersReload(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "doomed.md")
	require.NoError(t, os.WriteFile(path, []byte(sampleCommand), 0644))

	target := &countingReloader{}
	w := newTestWatcher(t, dir, target)
	w.Start()

	require.NoError(t, os.Remove(path))

	waitForReloads(t, target, 1)
}

func TestWatcherWatchesNewSubdirectories(t *testing.T) {
	dir := t.TempDir()
	target := &countingReloader{}

	w := newTestWatcher(t, dir, target)
	w.Start()

	sub := filepath.Join(dir, "nested")
	require.NoError(t, os.Mkdir(sub, 0755))

	// Give the watcher a moment to add the new directory watch.
	time.Sleep(100 * time.Millisecond)

	require.NoError(t, os.WriteFile(filepath.Join(sub, "nested.md"), []byte(sampleCommand), 0644))

	waitForReloads(t, target, 1)
}

func TestWatcherCloseIsIdempotent(t *testing.T) {
	dir := t.TempDir()
	target := &countingReloader{}

	w, err := NewWatcher(dir, target, WatcherOptions{})
	require.NoError(t, err)
	w.Start()

	require.NoError(t, w.Close())
	assert.NotPanics(t, func() { w.Close() })
}

func TestWatcherCloseWithoutStart(t *testing.T) {
	dir := t.TempDir()

	w, err := NewWatcher(dir, &countingReloader{}, WatcherOptions{})
	require.NoError(t, err)
	require.NoError(t, w.Close())
}

func TestWatcherMissingDirectory(t *testing.T) {
	_, err := NewWatcher(filepath.Join(t.TempDir(), "missing"), &countingReloader{}, WatcherOptions{})
	assert.Error(t, err)
}
