package site

import (
	"time"

	"github.com/aretw0/introspection"
)

// BuilderState exposes the outcome of recent rebuilds.
type BuilderState struct {
	Builds      int        `json:"builds"`
	Failures    int        `json:"failures"`
	LastBuildID string     `json:"last_build_id,omitempty"`
	LastPages   int        `json:"last_pages"`
	LastError   string     `json:"last_error,omitempty"`
	LastBuildAt *time.Time `json:"last_build_at,omitempty"`
}

// State implements introspection.Introspectable.
func (b *Builder) State() any {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.state
}

// ComponentType implements introspection.Component.
func (b *Builder) ComponentType() string {
	return "site-builder"
}

func (b *Builder) record(buildID string, res Result, err error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	now := time.Now()
	b.state.Builds++
	b.state.LastBuildID = buildID
	b.state.LastBuildAt = &now
	if err != nil {
		b.state.Failures++
		b.state.LastError = err.Error()
		return
	}
	b.state.LastPages = res.PagesWritten
	b.state.LastError = ""
}

var _ introspection.Introspectable = (*Builder)(nil)
var _ introspection.Component = (*Builder)(nil)
