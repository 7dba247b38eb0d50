package assets

import (
	"os"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

// A Watcher notices data-file changes by polling mtimes. It deliberately
// does nothing but set a dirty flag: the game loop asks at the frame
// boundary, which keeps reloads out of the middle of a draw pass. Mark is
// safe to call from an input callback, hence the mutex.
type Watcher struct {
	mu       sync.Mutex
	interval time.Duration
	paths    []string
	mtimes   map[string]time.Time
	last     time.Time
	dirty    bool
}

func NewWatcher(interval time.Duration, paths ...string) *Watcher {
	w := &Watcher{
		interval: interval,
		paths:    paths,
		mtimes:   make(map[string]time.Time),
	}
	for _, path := range paths {
		if info, err := os.Stat(path); err == nil {
			w.mtimes[path] = info.ModTime()
		}
	}
	return w
}

// Mark flags the watcher dirty, regardless of mtimes. This is the manual
// "reload assets" trigger.
func (w *Watcher) Mark() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.dirty = true
}

// Poll reports whether a reload is due, checking file mtimes at most once
// per interval.
func (w *Watcher) Poll(now time.Time) bool {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.dirty {
		return true
	}
	if now.Sub(w.last) < w.interval {
		return false
	}
	w.last = now

	for _, path := range w.paths {
		info, err := os.Stat(path)
		if err != nil {
			continue
		}
		if previous, ok := w.mtimes[path]; !ok || info.ModTime().After(previous) {
			w.mtimes[path] = info.ModTime()
			w.dirty = true
		}
	}

	return w.dirty
}

// clear consumes the trigger, absorbing any pending mtime changes so the
// same edit only fires once even when the reload it caused was refused.
func (w *Watcher) clear() {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.dirty = false
	for _, path := range w.paths {
		if info, err := os.Stat(path); err == nil {
			w.mtimes[path] = info.ModTime()
		}
	}
}

// A Controller owns the hot-reload decision for one store. The loop calls
// Tick between frames; input calls Force when the reload key fires.
type Controller struct {
	store   *Store
	watcher *Watcher
}

// NewController watches the store's manifest plus any extra data files
// (floors, tasks) whose change should also trigger a reload.
func NewController(store *Store, interval time.Duration, extraPaths ...string) *Controller {
	paths := append([]string{store.manifestPath}, extraPaths...)
	return &Controller{
		store:   store,
		watcher: NewWatcher(interval, paths...),
	}
}

func (c *Controller) Force() {
	c.watcher.Mark()
}

// Tick runs at the frame boundary. When a reload is due it applies it
// synchronously, so the next draw sees either the old cache or the new one
// in full. A schema error refuses the reload, keeps the old cache, and
// clears the trigger so the loop is not re-punished every frame until the
// data changes again.
func (c *Controller) Tick(now time.Time) (bool, error) {
	if !c.watcher.Poll(now) {
		return false, nil
	}
	c.watcher.clear()

	if err := c.store.Reload(); err != nil {
		log.Error().Err(err).Msg("reload refused; keeping current assets")
		return false, err
	}
	return true, nil
}
