package platform

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/aretw0/folio/internal/config"
	"github.com/aretw0/folio/internal/metrics"
	"github.com/aretw0/folio/pkg/adapters/fs"
	"github.com/aretw0/folio/pkg/editor"
	"github.com/aretw0/folio/pkg/git"
	"github.com/aretw0/folio/pkg/markup"
	"github.com/aretw0/folio/pkg/site"
)

// Site bundles the components of one site root.
type Site struct {
	Root   string
	Config config.Config

	Store     *fs.Repository
	Builder   *site.Builder
	Publisher *git.Publisher // nil when publishing is disabled
	Editor    *editor.Service

	lockPath string
	logger   *slog.Logger
	recorder metrics.Recorder
}

// Open loads the configuration of the site at root and wires its store,
// builder, publisher and editor.
//
//	s, err := platform.Open("./blog", platform.WithPublishing(false))
func Open(root string, opts ...Option) (*Site, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}
	logger := o.logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve site root: %w", err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return nil, fmt.Errorf("site root %s: %w", abs, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("site root %s is not a directory", abs)
	}

	cfg, err := config.Load(abs, o.configFile)
	if err != nil {
		return nil, err
	}
	if o.publish != nil {
		cfg.Publish.Enabled = *o.publish
	}
	layout := cfg.Layout()

	store := fs.NewRepository(fs.Config{
		Root:          abs,
		Layout:        layout,
		Pattern:       cfg.Pattern,
		EscapeHeaders: cfg.EscapeHeaders,
		Logger:        logger.With("component", "store"),
	})

	renderer := o.renderer
	if renderer == nil {
		renderer = markup.New(markup.DefaultOptions())
	}
	builder := site.New(store, renderer, site.Config{
		Root:          abs,
		Layout:        layout,
		PageTemplate:  cfg.Templates.Page,
		IndexTemplate: cfg.Templates.Index,
		Logger:        logger.With("component", "builder"),
		Recorder:      o.recorder,
	})

	s := &Site{
		Root:     abs,
		Config:   cfg,
		Store:    store,
		Builder:  builder,
		lockPath: git.LockPath(abs),
		logger:   logger,
		recorder: o.recorder,
	}

	// A nil *git.Publisher must not reach the editor as a non-nil interface.
	var pub editor.Publisher
	if cfg.Publish.Enabled {
		runner := o.runner
		if runner == nil {
			runner = git.NewExecRunner(abs, logger.With("component", "git"))
		}
		s.Publisher = git.NewPublisher(runner, git.Config{
			Dir:      abs,
			Remote:   cfg.Publish.Remote,
			Branch:   cfg.Publish.Branch,
			Logger:   logger.With("component", "publisher"),
			Recorder: o.recorder,
		})
		pub = s.Publisher
	}

	s.Editor = editor.New(editor.Config{
		Store:     store,
		Builder:   builder,
		Publisher: pub,
		Logger:    logger.With("component", "editor"),
		Now:       o.now,
		LockPath:  s.lockPath,
	})

	logger.Debug("site opened", "root", abs, "content_dir", layout.ContentDir, "output_dir", layout.OutputDir, "publish", cfg.Publish.Enabled)
	return s, nil
}

// LockPath is the lock file serializing rebuild and publish for this site.
func (s *Site) LockPath() string {
	return s.lockPath
}
