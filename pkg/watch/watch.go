// Package watch rebuilds the site whenever its sources change.
package watch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"runtime/debug"
	"strings"
	"sync"
	"time"

	"github.com/aretw0/lifecycle"
	"github.com/fsnotify/fsnotify"

	"github.com/aretw0/folio/pkg/adapters/fs"
	"github.com/aretw0/folio/pkg/git"
	"github.com/aretw0/folio/pkg/site"
)

// DefaultDebounce is how long the watcher waits for a burst of changes to
// settle before rebuilding.
const DefaultDebounce = 100 * time.Millisecond

// ErrAlreadyStarted is returned when Start is called twice.
var ErrAlreadyStarted = errors.New("watcher already started")

// Rebuilder regenerates the site.
type Rebuilder interface {
	Rebuild(ctx context.Context) (site.Result, error)
}

// Config holds the configuration for a Watcher.
type Config struct {
	Root         string
	Dirs         []string // relative to Root; watched recursively
	Builder      Rebuilder
	LockPath     string        // optional
	Debounce     time.Duration // zero means DefaultDebounce
	// IgnorePath reports root-relative, slash-separated paths whose changes
	// must not trigger a rebuild, such as the builder's own outputs.
	IgnorePath   func(rel string) bool
	BuildOnStart bool
	Logger       *slog.Logger
}

// Event reports the outcome of one triggered rebuild.
type Event struct {
	Trigger string
	Result  site.Result
	Err     error
	At      time.Time
}

func (e Event) String() string {
	if e.Err != nil {
		return fmt.Sprintf("rebuild after %s failed: %v", e.Trigger, e.Err)
	}
	return fmt.Sprintf("rebuild after %s wrote %d pages (%s)", e.Trigger, e.Result.PagesWritten, e.Result.BuildID)
}

// Watcher runs a full rebuild after changes under the watched directories.
// Rebuilds happen one at a time on the watcher's goroutine.
type Watcher struct {
	config Config
	logger *slog.Logger
	out    chan lifecycle.Event

	mu       sync.Mutex
	started  bool
	running  bool
	watched  []string
	rebuilds int
	failures int
	lastErr  string
}

// New creates a Watcher. Nothing is watched until Start.
func New(cfg Config) *Watcher {
	if cfg.Debounce <= 0 {
		cfg.Debounce = DefaultDebounce
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Watcher{
		config: cfg,
		logger: logger,
		out:    make(chan lifecycle.Event, 16),
	}
}

// Events delivers one Event per rebuild. It is closed when the watcher stops.
// Events are dropped while the buffer is full.
func (w *Watcher) Events() <-chan lifecycle.Event {
	return w.out
}

// Start begins watching and returns once the directories are registered.
// The loop runs until ctx is cancelled.
func (w *Watcher) Start(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	w.mu.Lock()
	if w.started {
		w.mu.Unlock()
		return ErrAlreadyStarted
	}
	w.started = true
	w.mu.Unlock()

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	if err := w.addDirs(watcher); err != nil {
		_ = watcher.Close()
		return err
	}
	w.setRunning(true)

	lifecycle.Go(ctx, func(ctx context.Context) error {
		return w.run(ctx, watcher)
	}, lifecycle.WithErrorHandler(func(err error) {
		w.logger.Error("watcher stopped", "error", err)
	}))
	return nil
}

// Run starts the watcher and blocks until ctx is cancelled.
func (w *Watcher) Run(ctx context.Context) error {
	if err := w.Start(ctx); err != nil {
		return err
	}
	for range w.out {
	}
	return nil
}

func (w *Watcher) addDirs(watcher *fsnotify.Watcher) error {
	for _, dir := range w.config.Dirs {
		abs := filepath.Join(w.config.Root, filepath.FromSlash(dir))
		if _, err := os.Stat(abs); os.IsNotExist(err) {
			w.logger.Warn("watch directory missing", "dir", abs)
			continue
		}
		if err := w.addTree(watcher, abs); err != nil {
			return err
		}
	}
	if len(watcher.WatchList()) == 0 {
		return fmt.Errorf("nothing to watch under %s", w.config.Root)
	}
	return nil
}

func (w *Watcher) addTree(watcher *fsnotify.Watcher, dir string) error {
	return filepath.WalkDir(dir, func(p string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if p != dir && strings.HasPrefix(d.Name(), ".") {
			return filepath.SkipDir
		}
		if err := watcher.Add(p); err != nil {
			return fmt.Errorf("failed to watch %s: %w", p, err)
		}
		w.mu.Lock()
		w.watched = append(w.watched, p)
		w.mu.Unlock()
		return nil
	})
}

func (w *Watcher) run(ctx context.Context, watcher *fsnotify.Watcher) (err error) {
	defer close(w.out)
	defer w.setRunning(false)
	defer watcher.Close()
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("watcher panic: %v", r)
			if w.logger.Enabled(ctx, slog.LevelDebug) {
				w.logger.Error("watcher panic", "error", err, "stack", string(debug.Stack()))
			} else {
				w.logger.Error("watcher panic", "error", err)
			}
		}
	}()

	if w.config.BuildOnStart {
		w.rebuild(ctx, "start")
	}

	var (
		timer   *time.Timer
		fire    <-chan time.Time
		trigger string
	)
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				if ctx.Err() != nil {
					return nil
				}
				return errors.New("watcher events channel closed")
			}
			if w.ignore(event) {
				continue
			}
			w.logger.Debug("change detected", "name", event.Name, "op", event.Op.String())

			if event.Has(fsnotify.Create) {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					if err := w.addTree(watcher, event.Name); err != nil {
						w.logger.Warn("failed to watch new directory", "dir", event.Name, "error", err)
					}
				}
			}

			trigger = filepath.Base(event.Name)
			if timer == nil {
				timer = time.NewTimer(w.config.Debounce)
			} else {
				timer.Reset(w.config.Debounce)
			}
			fire = timer.C

		case <-fire:
			fire = nil
			w.rebuild(ctx, trigger)

		case wErr, ok := <-watcher.Errors:
			if !ok {
				if ctx.Err() != nil {
					return nil
				}
				return errors.New("watcher errors channel closed")
			}
			w.logger.Error("fsnotify error", "error", wErr)
		}
	}
}

// ignore filters out dotfiles, temp files from atomic writes, pure chmod
// events and paths rejected by IgnorePath.
func (w *Watcher) ignore(event fsnotify.Event) bool {
	if event.Op == fsnotify.Chmod {
		return true
	}
	base := filepath.Base(event.Name)
	if strings.HasPrefix(base, ".") || strings.HasPrefix(base, fs.TempFilePrefix) {
		return true
	}
	if w.config.IgnorePath == nil {
		return false
	}
	rel, err := filepath.Rel(w.config.Root, event.Name)
	if err != nil {
		return false
	}
	return w.config.IgnorePath(filepath.ToSlash(rel))
}

func (w *Watcher) rebuild(ctx context.Context, trigger string) {
	ev := Event{Trigger: trigger, At: time.Now()}

	if w.config.LockPath != "" {
		unlock, err := git.Lock(w.config.LockPath, w.logger)
		if err != nil {
			ev.Err = err
			w.emit(ev)
			return
		}
		defer unlock()
	}

	ev.Result, ev.Err = w.config.Builder.Rebuild(ctx)
	if ev.Err != nil {
		w.logger.Error("rebuild failed", "trigger", trigger, "error", ev.Err)
	} else {
		w.logger.Info("site rebuilt", "trigger", trigger, "pages", ev.Result.PagesWritten, "build_id", ev.Result.BuildID)
	}
	w.emit(ev)
}

func (w *Watcher) emit(ev Event) {
	w.mu.Lock()
	w.rebuilds++
	if ev.Err != nil {
		w.failures++
		w.lastErr = ev.Err.Error()
	} else {
		w.lastErr = ""
	}
	w.mu.Unlock()

	select {
	case w.out <- ev:
	default:
		w.logger.Debug("event dropped", "event", ev.String())
	}
}

var _ lifecycle.Source = (*Watcher)(nil)

func (w *Watcher) setRunning(v bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.running = v
}
