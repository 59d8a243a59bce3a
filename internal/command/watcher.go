package command

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"

	"github.com/tern-ai/tern/internal/logging"
)

// Default watcher timing. The tick is much finer than the debounce
// window so the sweep observes entry ages promptly.
const (
	DefaultDebounce = 300 * time.Millisecond
	DefaultTick     = 50 * time.Millisecond
)

// Reloader is the watcher's reload target.
type Reloader interface {
	Reload() error
}

// WatcherOptions tune the debounce behavior.
type WatcherOptions struct {
	Debounce time.Duration
	Tick     time.Duration
}

// Watcher watches a commands directory recursively and triggers
// debounced reloads on the target. Any number of file events within
// the debounce window coalesce into a single reload per sweep.
type Watcher struct {
	fsw      *fsnotify.Watcher
	target   Reloader
	dir      string
	debounce time.Duration
	tick     time.Duration
	log      zerolog.Logger

	stopOnce sync.Once
	stopCh   chan struct{}
	doneCh   chan struct{}
	started  bool
	mu       sync.Mutex
}

// NewWatcher creates a watcher over dir that reloads target.
// A watch that cannot be established is a fatal error.
func NewWatcher(dir string, target Reloader, opts WatcherOptions) (*Watcher, error) {
	if opts.Debounce <= 0 {
		opts.Debounce = DefaultDebounce
	}
	if opts.Tick <= 0 {
		opts.Tick = DefaultTick
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	// Watch the directory tree; new subdirectories are added as they
	// appear in the event stream.
	err = filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return fsw.Add(path)
		}
		return nil
	})
	if err != nil {
		fsw.Close()
		return nil, err
	}

	log := logging.Component("watcher")
	log.Debug().Str("dir", dir).Dur("debounce", opts.Debounce).Msg("command watcher initialized")

	return &Watcher{
		fsw:      fsw,
		target:   target,
		dir:      dir,
		debounce: opts.Debounce,
		tick:     opts.Tick,
		log:      log,
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}, nil
}

// Start begins watching in a background goroutine.
func (w *Watcher) Start() {
	w.mu.Lock()
	if w.started {
		w.mu.Unlock()
		return
	}
	w.started = true
	w.mu.Unlock()
	go w.run()
}

func (w *Watcher) run() {
	defer close(w.doneCh)

	ticker := time.NewTicker(w.tick)
	defer ticker.Stop()

	// Pending reload timestamps, private to this goroutine.
	pending := make(map[string]time.Time)

	for {
		select {
		case <-w.stopCh:
			return
		case ev, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if ev.Op&fsnotify.Create != 0 {
				if fi, err := os.Stat(ev.Name); err == nil && fi.IsDir() {
					if err := w.fsw.Add(ev.Name); err != nil {
						w.log.Warn().Err(err).Str("path", ev.Name).Msg("failed to watch new directory")
					}
					continue
				}
			}
			if !relevant(ev) {
				continue
			}
			pending[ev.Name] = time.Now()
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			w.log.Error().Err(err).Msg("command watcher error")
		case now := <-ticker.C:
			reload := false
			for path, stamp := range pending {
				if now.Sub(stamp) >= w.debounce {
					delete(pending, path)
					reload = true
				}
			}
			if reload {
				if err := w.target.Reload(); err != nil {
					w.log.Error().Err(err).Msg("command reload failed")
				}
			}
		}
	}
}

// relevant filters for create/write/remove/rename events on command
// files; everything else is dropped before the debounce logic.
func relevant(ev fsnotify.Event) bool {
	if ev.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) == 0 {
		return false
	}
	return strings.HasSuffix(ev.Name, FileExtension)
}

// Close stops the background loop, waits for it to exit, and releases
// the OS watch. In-flight debounce state is discarded.
func (w *Watcher) Close() error {
	w.mu.Lock()
	started := w.started
	w.mu.Unlock()

	w.stopOnce.Do(func() {
		close(w.stopCh)
	})

	if started {
		<-w.doneCh
	}

	return w.fsw.Close()
}
