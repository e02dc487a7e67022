package watch

import "github.com/aretw0/introspection"

// WatcherState represents the internal state of the watcher.
type WatcherState struct {
	Running   bool     `json:"running"`
	Dirs      []string `json:"dirs"`
	Rebuilds  int      `json:"rebuilds"`
	Failures  int      `json:"failures"`
	LastError string   `json:"last_error,omitempty"`
}

// State implements introspection.Introspectable.
func (w *Watcher) State() any {
	w.mu.Lock()
	defer w.mu.Unlock()

	dirs := make([]string, len(w.watched))
	copy(dirs, w.watched)
	return WatcherState{
		Running:   w.running,
		Dirs:      dirs,
		Rebuilds:  w.rebuilds,
		Failures:  w.failures,
		LastError: w.lastErr,
	}
}

// ComponentType implements introspection.Component.
func (w *Watcher) ComponentType() string {
	return "watcher"
}

var (
	_ introspection.Introspectable = (*Watcher)(nil)
	_ introspection.Component      = (*Watcher)(nil)
)
