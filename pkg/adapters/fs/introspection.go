package fs

import (
	"github.com/aretw0/introspection"
)

// RepositoryState exposes internal state for observability.
type RepositoryState struct {
	Root          string `json:"root"`
	ContentDir    string `json:"content_dir"`
	OutputDir     string `json:"output_dir"`
	Pattern       string `json:"pattern"`
	EscapeHeaders bool   `json:"escape_headers"`
	LastListed    int    `json:"last_listed"`
}

// State implements introspection.Introspectable.
func (r *Repository) State() any {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return RepositoryState{
		Root:          r.Root,
		ContentDir:    r.config.Layout.ContentDir,
		OutputDir:     r.config.Layout.OutputDir,
		Pattern:       r.config.Pattern,
		EscapeHeaders: r.config.EscapeHeaders,
		LastListed:    r.lastListed,
	}
}

// ComponentType implements introspection.Component.
func (r *Repository) ComponentType() string {
	return "document-store"
}

var _ introspection.Introspectable = (*Repository)(nil)
var _ introspection.Component = (*Repository)(nil)
