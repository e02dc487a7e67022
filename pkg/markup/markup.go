// Package markup renders document bodies to HTML.
//
// Authors type bodies in a plain text box, so every Enter key press must show
// up as a line break. The renderer therefore enables hard wraps on top of
// regular Markdown.
package markup

import (
	"bytes"
	"html"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer"
	gmhtml "github.com/yuin/goldmark/renderer/html"

	"github.com/aretw0/folio/pkg/core"
)

// Options tunes the goldmark engine.
type Options struct {
	// GFM enables tables, strikethrough, autolinks and task lists.
	GFM bool
	// Unsafe lets raw HTML in bodies pass through untouched.
	Unsafe bool
}

// DefaultOptions matches what the site expects from trusted, single-author content.
func DefaultOptions() Options {
	return Options{GFM: true, Unsafe: true}
}

// Renderer converts Markdown bodies to HTML with hard line breaks.
// It is stateless after construction and safe to reuse.
type Renderer struct {
	md goldmark.Markdown
}

// New builds a Renderer.
func New(opts Options) *Renderer {
	var exts []goldmark.Extender
	if opts.GFM {
		exts = append(exts, extension.GFM)
	}

	rendererOptions := []renderer.Option{
		gmhtml.WithHardWraps(),
	}
	if opts.Unsafe {
		rendererOptions = append(rendererOptions, gmhtml.WithUnsafe())
	}

	return &Renderer{
		md: goldmark.New(
			goldmark.WithExtensions(exts...),
			goldmark.WithParserOptions(parser.WithAutoHeadingID()),
			goldmark.WithRendererOptions(rendererOptions...),
		),
	}
}

// Render converts body to HTML. It never fails: goldmark treats unknown
// syntax as text, and the only conversion errors come from the writer.
func (r *Renderer) Render(body string) string {
	var buf bytes.Buffer
	if err := r.md.Convert([]byte(body), &buf); err != nil {
		return fallback(body)
	}
	return buf.String()
}

// fallback keeps the line-break policy without Markdown.
func fallback(body string) string {
	lines := strings.Split(html.EscapeString(body), "\n")
	return "<p>" + strings.Join(lines, "<br>\n") + "</p>\n"
}

var _ core.Renderer = (*Renderer)(nil)
