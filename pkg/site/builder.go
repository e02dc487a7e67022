// Package site rebuilds the whole static site from the document store.
package site

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/aretw0/folio/internal/metrics"
	"github.com/aretw0/folio/pkg/adapters/fs"
	"github.com/aretw0/folio/pkg/core"
	"github.com/aretw0/folio/pkg/tmpl"
)

// Placeholder names understood by the layouts.
const (
	KeyTitle       = "title"
	KeyDate        = "date"
	KeyContent     = "content"
	KeyArticleList = "article_list"
)

// Config holds the locations a Builder reads from and writes to.
type Config struct {
	Root          string      // site root
	Layout        core.Layout // output locations
	PageTemplate  string      // root-relative, e.g. templates/post_layout.html
	IndexTemplate string      // root-relative, e.g. templates/blog_layout.html
	Logger        *slog.Logger
	Recorder      metrics.Recorder
}

// DefaultConfig returns the conventional template locations under root.
func DefaultConfig(root string) Config {
	return Config{
		Root:          root,
		Layout:        core.DefaultLayout(),
		PageTemplate:  "templates/post_layout.html",
		IndexTemplate: "templates/blog_layout.html",
	}
}

// Result summarizes a successful rebuild.
type Result struct {
	BuildID      string
	PagesWritten int
	IndexPath    string
	Pages        []string
	Entries      []core.IndexEntry
	Duration     time.Duration
}

// Builder renders every document into a page and regenerates the index.
type Builder struct {
	store    core.Store
	renderer core.Renderer
	config   Config
	logger   *slog.Logger
	recorder metrics.Recorder

	mu    sync.RWMutex
	state BuilderState
}

// New creates a Builder.
func New(store core.Store, renderer core.Renderer, config Config) *Builder {
	logger := config.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	recorder := config.Recorder
	if recorder == nil {
		recorder = metrics.NoopRecorder{}
	}
	if config.Layout == (core.Layout{}) {
		config.Layout = core.DefaultLayout()
	}
	return &Builder{
		store:    store,
		renderer: renderer,
		config:   config,
		logger:   logger,
		recorder: recorder,
	}
}

// Rebuild regenerates every page and the index.
//
// Workflow:
//  1. Read both templates. A missing template aborts before any output.
//  2. List all documents and render each page in memory.
//  3. Write the pages, then the index sorted newest first.
//
// Nothing is written unless every document rendered, and the index is
// written only after every page, so the index never links to a page that
// failed. Running Rebuild twice over the same documents yields identical files.
func (b *Builder) Rebuild(ctx context.Context) (res Result, err error) {
	start := time.Now()
	buildID := uuid.NewString()
	log := b.logger.With("build_id", buildID)

	defer func() {
		d := time.Since(start)
		b.recorder.ObserveBuild(d, res.PagesWritten, err)
		b.record(buildID, res, err)
		if err != nil {
			log.Error("rebuild failed", "error", err, "duration_ms", d.Milliseconds())
		}
	}()

	pageTpl, err := b.readTemplate(b.config.PageTemplate)
	if err != nil {
		return Result{}, err
	}
	indexTpl, err := b.readTemplate(b.config.IndexTemplate)
	if err != nil {
		return Result{}, err
	}

	docs, err := b.store.List(ctx)
	if err != nil {
		return Result{}, &BuildError{Stage: StageParse, Err: err}
	}
	log.Debug("documents discovered", "count", len(docs))

	pages, entries, err := b.renderPages(ctx, pageTpl, docs)
	if err != nil {
		return Result{}, err
	}

	written := make([]string, 0, len(pages))
	for _, p := range pages {
		if err := b.write(p.OutputPath, p.HTML); err != nil {
			return Result{}, &BuildError{Stage: StageWrite, Path: p.OutputPath, Err: err}
		}
		written = append(written, p.OutputPath)
	}

	SortEntries(entries)
	index := tmpl.Fill(indexTpl, map[string]string{KeyArticleList: RenderList(entries)})
	indexPath := b.config.Layout.IndexPath()
	if err := b.write(indexPath, index); err != nil {
		return Result{}, &BuildError{Stage: StageIndex, Path: indexPath, Err: err}
	}

	res = Result{
		BuildID:      buildID,
		PagesWritten: len(written),
		IndexPath:    indexPath,
		Pages:        written,
		Entries:      entries,
		Duration:     time.Since(start),
	}
	log.Info("rebuild complete", "pages", res.PagesWritten, "index", indexPath, "duration_ms", res.Duration.Milliseconds())
	return res, nil
}

func (b *Builder) renderPages(ctx context.Context, pageTpl string, docs []core.Document) ([]core.RenderedPage, []core.IndexEntry, error) {
	pages := make([]core.RenderedPage, 0, len(docs))
	entries := make([]core.IndexEntry, 0, len(docs))
	owners := make(map[string]string, len(docs))

	for _, doc := range docs {
		if err := ctx.Err(); err != nil {
			return nil, nil, &BuildError{Stage: StageRender, Path: doc.Path, Err: err}
		}

		out := b.config.Layout.OutputPath(doc.Path)
		if prev, dup := owners[out]; dup {
			return nil, nil, &BuildError{
				Stage: StageRender,
				Path:  doc.Path,
				Err:   fmt.Errorf("output %s already produced by %s", out, prev),
			}
		}
		owners[out] = doc.Path

		content, err := b.render(doc.Body)
		if err != nil {
			return nil, nil, &BuildError{Stage: StageRender, Path: doc.Path, Err: err}
		}

		pages = append(pages, core.RenderedPage{
			OutputPath: out,
			HTML: tmpl.Fill(pageTpl, map[string]string{
				KeyTitle:   doc.Title,
				KeyDate:    doc.Date,
				KeyContent: content,
			}),
		})
		entries = append(entries, core.IndexEntry{
			Title: doc.Title,
			Date:  doc.Date,
			Link:  b.config.Layout.Link(doc.Path),
		})
	}
	return pages, entries, nil
}

// render shields the build from a renderer panic on pathological input.
func (b *Builder) render(body string) (html string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("renderer panic: %v", r)
		}
	}()
	return b.renderer.Render(body), nil
}

func (b *Builder) readTemplate(rel string) (string, error) {
	data, err := os.ReadFile(b.abs(rel))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			err = fmt.Errorf("%w: %s", core.ErrTemplateMissing, rel)
		}
		return "", &BuildError{Stage: StageTemplate, Path: rel, Err: err}
	}
	return string(data), nil
}

func (b *Builder) write(rel, content string) error {
	full := b.abs(rel)
	if err := os.MkdirAll(filepath.Dir(full), 0755); err != nil {
		return fmt.Errorf("failed to create directories: %w", err)
	}
	return fs.WriteFileAtomic(full, []byte(content), 0644)
}

func (b *Builder) abs(rel string) string {
	return filepath.Join(b.config.Root, filepath.FromSlash(rel))
}
