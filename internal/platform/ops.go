package platform

import (
	"context"
	"errors"
	"fmt"
	"path"
	"time"

	"github.com/aretw0/folio/pkg/git"
	"github.com/aretw0/folio/pkg/site"
	"github.com/aretw0/folio/pkg/watch"
)

// ErrPublishingDisabled is returned by Publish when publish.enabled is false.
var ErrPublishingDisabled = errors.New("publishing is disabled")

// Build regenerates the whole site under the site lock.
func (s *Site) Build(ctx context.Context) (site.Result, error) {
	unlock, err := git.Lock(s.lockPath, s.logger)
	if err != nil {
		return site.Result{}, err
	}
	defer unlock()

	return s.Builder.Rebuild(ctx)
}

// Publish rebuilds the site and then publishes it with message, both under
// the site lock. A failed rebuild is returned as an error and nothing is
// published; a failed publish step is reported in the git.Result.
func (s *Site) Publish(ctx context.Context, message string) (site.Result, git.Result, error) {
	if s.Publisher == nil {
		return site.Result{}, git.Result{}, ErrPublishingDisabled
	}

	unlock, err := git.Lock(s.lockPath, s.logger)
	if err != nil {
		return site.Result{}, git.Result{}, err
	}
	defer unlock()

	res, err := s.Builder.Rebuild(ctx)
	if err != nil {
		return site.Result{}, git.Result{}, fmt.Errorf("rebuild failed: %w", err)
	}
	return res, s.Publisher.Publish(message), nil
}

// NewWatcher returns a watcher over the content and template directories
// that rebuilds under the site lock. It does not publish.
func (s *Site) NewWatcher(debounce time.Duration) *watch.Watcher {
	dirs := []string{s.Config.Layout().ContentDir}
	for _, tpl := range []string{s.Config.Templates.Page, s.Config.Templates.Index} {
		dir := path.Dir(tpl)
		if !contains(dirs, dir) {
			dirs = append(dirs, dir)
		}
	}

	return watch.New(watch.Config{
		Root:       s.Root,
		Dirs:       dirs,
		Builder:    s.Builder,
		LockPath:   s.lockPath,
		Debounce:   debounce,
		IgnorePath: s.isOutput,
		Logger:     s.logger.With("component", "watcher"),
	})
}

// isOutput reports whether rel is a page or index the builder writes.
// Templates are never outputs, even when they share the output directory
// and extension.
func (s *Site) isOutput(rel string) bool {
	if rel == path.Clean(s.Config.Templates.Page) || rel == path.Clean(s.Config.Templates.Index) {
		return false
	}
	l := s.Config.Layout()
	return path.Dir(rel) == l.OutputDir && path.Ext(rel) == l.PageExt
}

func contains(list []string, v string) bool {
	for _, x := range list {
		if x == v {
			return true
		}
	}
	return false
}
