// Package core holds the site data model and the contracts between the
// store, the renderer and the builder.
package core

import (
	"path"
	"strings"
)

// Document is one authored entry in the content directory.
// Path is slash-separated and relative to the site root; it is the identity
// of the document and never changes after creation.
type Document struct {
	Title string
	Date  string
	Body  string
	Path  string
}

// RenderedPage is the HTML produced for a single Document.
type RenderedPage struct {
	OutputPath string
	HTML       string
}

// IndexEntry is the summary row the index page lists for a Document.
type IndexEntry struct {
	Title string
	Date  string
	Link  string
}

// Layout maps source documents to their output files.
type Layout struct {
	ContentDir string // e.g. "posts"
	OutputDir  string // e.g. "." (site root)
	SourceExt  string // e.g. ".md"
	PageExt    string // e.g. ".html"
	IndexName  string // e.g. "blog.html"
}

// DefaultLayout mirrors the conventional blog layout: posts/*.md rendered
// next to blog.html at the site root.
func DefaultLayout() Layout {
	return Layout{
		ContentDir: "posts",
		OutputDir:  ".",
		SourceExt:  ".md",
		PageExt:    ".html",
		IndexName:  "blog.html",
	}
}

// OutputName returns the page filename for a document path.
func (l Layout) OutputName(docPath string) string {
	base := path.Base(docPath)
	if l.SourceExt != "" && strings.HasSuffix(base, l.SourceExt) {
		base = strings.TrimSuffix(base, l.SourceExt)
	} else {
		base = strings.TrimSuffix(base, path.Ext(base))
	}
	return base + l.PageExt
}

// OutputPath returns the slash-separated, root-relative path of the page for docPath.
func (l Layout) OutputPath(docPath string) string {
	return path.Join(l.OutputDir, l.OutputName(docPath))
}

// IndexPath returns the root-relative path of the index page.
func (l Layout) IndexPath() string {
	return path.Join(l.OutputDir, l.IndexName)
}

// Link returns the href used by the index page to reach the page of docPath.
// Pages and the index share OutputDir, so the link is the bare filename.
func (l Layout) Link(docPath string) string {
	return l.OutputName(docPath)
}
