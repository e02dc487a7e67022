package fs

import (
	"context"
	"errors"
	"fmt"
	"html"
	"io"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"strings"
	"sync"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/aretw0/folio/pkg/core"
)

// DefaultPattern matches source files directly inside the content directory.
const DefaultPattern = "*.md"

var sanitizer = strings.NewReplacer(" ", "_", "/", "-", `\`, "-")

// Sanitize turns a title into a filename fragment: spaces become
// underscores and path separators become hyphens.
func Sanitize(title string) string {
	return sanitizer.Replace(title)
}

// Config holds the configuration for the filesystem repository.
type Config struct {
	Root          string      // site root; document paths are relative to it
	Layout        core.Layout // content and output locations
	Pattern       string      // doublestar pattern, relative to Layout.ContentDir
	EscapeHeaders bool        // HTML-escape title and date when writing
	Logger        *slog.Logger
}

// Repository implements core.Store on the local filesystem.
type Repository struct {
	Root   string
	config Config
	logger *slog.Logger

	mu         sync.RWMutex
	lastListed int
}

// NewRepository creates a new filesystem-backed document store.
func NewRepository(config Config) *Repository {
	if config.Pattern == "" {
		config.Pattern = DefaultPattern
	}
	if config.Layout == (core.Layout{}) {
		config.Layout = core.DefaultLayout()
	}
	logger := config.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Repository{
		Root:   config.Root,
		config: config,
		logger: logger,
	}
}

// Layout returns the layout the repository was configured with.
func (r *Repository) Layout() core.Layout {
	return r.config.Layout
}

// NewPath derives the storage path of a new document. It is called once,
// when the document is created; edits keep the original path.
func (r *Repository) NewPath(date, title string) string {
	l := r.config.Layout
	return path.Join(l.ContentDir, date+"_"+Sanitize(title)+l.SourceExt)
}

// List scans the content directory for every document matching the pattern.
// Files are visited in lexical order so the result is deterministic.
// A file with a malformed header fails the whole listing.
func (r *Repository) List(ctx context.Context) ([]core.Document, error) {
	contentDir := r.abs(r.config.Layout.ContentDir)

	if _, err := os.Stat(contentDir); os.IsNotExist(err) {
		r.logger.Debug("content directory missing", "dir", contentDir)
		r.setLastListed(0)
		return nil, nil
	}

	var docs []core.Document
	err := filepath.WalkDir(contentDir, func(p string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if d.IsDir() {
			if p != contentDir && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if strings.HasPrefix(d.Name(), TempFilePrefix) {
			return nil
		}

		rel, err := filepath.Rel(contentDir, p)
		if err != nil {
			return err
		}
		match, err := doublestar.Match(r.config.Pattern, filepath.ToSlash(rel))
		if err != nil {
			return fmt.Errorf("invalid content pattern %q: %w", r.config.Pattern, err)
		}
		if !match {
			return nil
		}

		doc, err := r.read(path.Join(r.config.Layout.ContentDir, filepath.ToSlash(rel)))
		if err != nil {
			return err
		}
		docs = append(docs, doc)
		return nil
	})
	if err != nil {
		return nil, err
	}

	r.logger.Debug("listed documents", "count", len(docs), "dir", contentDir)
	r.setLastListed(len(docs))
	return docs, nil
}

// Get loads one document by path.
func (r *Repository) Get(ctx context.Context, docPath string) (core.Document, error) {
	clean, err := r.clean(docPath)
	if err != nil {
		return core.Document{}, err
	}
	return r.read(clean)
}

// Save writes the document header and body to doc.Path, replacing any
// existing file.
func (r *Repository) Save(ctx context.Context, doc core.Document) error {
	clean, err := r.clean(doc.Path)
	if err != nil {
		return err
	}
	doc.Path = clean
	doc.Title = strings.TrimSpace(doc.Title)
	doc.Date = strings.TrimSpace(doc.Date)

	if err := validateHeader(doc); err != nil {
		return fmt.Errorf("failed to save %s: %w", doc.Path, err)
	}
	if r.config.EscapeHeaders {
		doc.Title = escapeOnce(doc.Title)
		doc.Date = escapeOnce(doc.Date)
	}

	fullPath := r.abs(doc.Path)
	if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
		return fmt.Errorf("failed to create directories: %w", err)
	}
	if err := WriteFileAtomic(fullPath, Serialize(doc), 0644); err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}

	r.logger.Debug("saved document", "path", doc.Path, "title", doc.Title)
	return nil
}

// Delete removes the source file and the page rendered from it.
// A missing page is not an error; a missing source is core.ErrNotFound.
func (r *Repository) Delete(ctx context.Context, docPath string) error {
	clean, err := r.clean(docPath)
	if err != nil {
		return err
	}

	if err := os.Remove(r.abs(clean)); err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("document %s: %w", clean, core.ErrNotFound)
		}
		return fmt.Errorf("failed to delete document: %w", err)
	}

	out := r.config.Layout.OutputPath(clean)
	if err := os.Remove(r.abs(out)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete page %s: %w", out, err)
	}

	r.logger.Debug("deleted document", "path", clean, "page", out)
	return nil
}

func (r *Repository) read(docPath string) (core.Document, error) {
	data, err := os.ReadFile(r.abs(docPath))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return core.Document{}, fmt.Errorf("document %s: %w", docPath, core.ErrNotFound)
		}
		return core.Document{}, fmt.Errorf("failed to read document %s: %w", docPath, err)
	}
	return Parse(docPath, data)
}

// escapeOnce HTML-escapes v. Values read back from an escaping store are
// already escaped, so they are unescaped first and an edit that resaves
// them keeps a single layer.
func escapeOnce(v string) string {
	return html.EscapeString(html.UnescapeString(v))
}

// clean normalizes a document path. Only source files inside the content
// directory are documents; anything else is rejected.
func (r *Repository) clean(docPath string) (string, error) {
	p := path.Clean(filepath.ToSlash(docPath))
	if docPath == "" || p == "." || path.IsAbs(p) || p == ".." || strings.HasPrefix(p, "../") {
		return "", fmt.Errorf("%w: path %q is outside the site root", core.ErrInvalidDocument, docPath)
	}

	l := r.config.Layout
	dir := path.Clean(l.ContentDir)
	if dir != "." && !strings.HasPrefix(p, dir+"/") {
		return "", fmt.Errorf("%w: path %q is outside the content directory %s", core.ErrInvalidDocument, docPath, dir)
	}
	if path.Ext(p) != l.SourceExt {
		return "", fmt.Errorf("%w: path %q does not have the %s extension", core.ErrInvalidDocument, docPath, l.SourceExt)
	}
	return p, nil
}

func (r *Repository) abs(rel string) string {
	return filepath.Join(r.Root, filepath.FromSlash(rel))
}

func (r *Repository) setLastListed(n int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lastListed = n
}

var _ core.Store = (*Repository)(nil)
