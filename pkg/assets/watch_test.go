package assets

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestWatcherPoll(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "manifest.json")
	require.NoError(t, os.WriteFile(path, []byte("{}"), 0644))

	now := time.Now()
	w := NewWatcher(time.Second, path)

	// Nothing changed.
	require.False(t, w.Poll(now))

	// The file changes, but the interval has not elapsed yet.
	require.NoError(t, os.Chtimes(path, now.Add(time.Hour), now.Add(time.Hour)))
	require.False(t, w.Poll(now.Add(100*time.Millisecond)))

	// Once it has, the change is noticed.
	require.True(t, w.Poll(now.Add(2*time.Second)))

	// Dirty sticks until cleared, then the same mtime stays quiet.
	require.True(t, w.Poll(now.Add(3*time.Second)))
	w.clear()
	require.False(t, w.Poll(now.Add(5*time.Second)))
}

func TestWatcherMark(t *testing.T) {
	w := NewWatcher(time.Hour)
	require.False(t, w.Poll(time.Now()))

	w.Mark()
	require.True(t, w.Poll(time.Now()))

	w.clear()
	require.False(t, w.Poll(time.Now()))
}

func TestControllerTick(t *testing.T) {
	store, dir := newTestStore(t)
	controller := NewController(store, time.Second)

	now := time.Now()

	// Quiet frame: no reload.
	applied, err := controller.Tick(now)
	require.NoError(t, err)
	require.False(t, applied)
	require.Equal(t, uint64(0), store.Generation())

	// Manual trigger applies a reload at the next frame boundary.
	controller.Force()
	applied, err = controller.Tick(now)
	require.NoError(t, err)
	require.True(t, applied)
	require.Equal(t, uint64(1), store.Generation())

	// A manifest edit is picked up once the poll interval elapses.
	writeManifest(t, filepath.Join(dir, "manifest.json"), storeManifest)
	future := now.Add(time.Hour)
	require.NoError(t, os.Chtimes(filepath.Join(dir, "manifest.json"), future, future))

	applied, err = controller.Tick(now.Add(2 * time.Second))
	require.NoError(t, err)
	require.True(t, applied)
	require.Equal(t, uint64(2), store.Generation())
}

func TestControllerRefusesBadReload(t *testing.T) {
	store, dir := newTestStore(t)
	controller := NewController(store, time.Second)

	before := store.Resolve("interactable_plant")

	// A broken edit refuses the reload but keeps the trigger from firing
	// again every frame.
	writeManifest(t, filepath.Join(dir, "manifest.json"), `{"images": {"x": {}}}`)
	controller.Force()

	applied, err := controller.Tick(time.Now())
	require.Error(t, err)
	require.False(t, applied)
	require.Same(t, before, store.Resolve("interactable_plant"))
	require.Equal(t, uint64(0), store.Generation())

	applied, err = controller.Tick(time.Now())
	require.NoError(t, err)
	require.False(t, applied)
}

func TestControllerWatchesExtraPaths(t *testing.T) {
	store, dir := newTestStore(t)

	floors := filepath.Join(dir, "floors.json")
	require.NoError(t, os.WriteFile(floors, []byte("{}"), 0644))

	controller := NewController(store, time.Second, floors)

	now := time.Now()
	future := now.Add(time.Hour)
	require.NoError(t, os.Chtimes(floors, future, future))

	applied, err := controller.Tick(now.Add(2 * time.Second))
	require.NoError(t, err)
	require.True(t, applied)
}
