package folio

import (
	"log/slog"
	"time"

	"github.com/aretw0/folio/internal/metrics"
	"github.com/aretw0/folio/internal/platform"
	"github.com/aretw0/folio/pkg/core"
	"github.com/aretw0/folio/pkg/git"
)

// Version exposes the version of the library.
// See version.go for the implementation using go:embed.

// --- Types ---

// Site is an opened site root with its store, builder, publisher and editor.
type Site = platform.Site

// Recorder observes builds and publish steps.
type Recorder = metrics.Recorder

// ErrPublishingDisabled is returned by Site.Publish when publishing is off.
var ErrPublishingDisabled = platform.ErrPublishingDisabled

// --- Configuration ---

// Option defines a functional option for configuring a Site.
type Option = platform.Option

// WithLogger sets the logger shared by every component.
func WithLogger(logger *slog.Logger) Option {
	return platform.WithLogger(logger)
}

// WithConfigFile loads the configuration from path instead of folio.yaml.
func WithConfigFile(path string) Option {
	return platform.WithConfigFile(path)
}

// WithRenderer replaces the Markdown renderer.
func WithRenderer(r core.Renderer) Option {
	return platform.WithRenderer(r)
}

// WithRunner replaces the command runner used to publish.
func WithRunner(r git.Runner) Option {
	return platform.WithRunner(r)
}

// WithRecorder sets the metrics recorder.
func WithRecorder(r Recorder) Option {
	return platform.WithRecorder(r)
}

// WithClock sets the clock used to date new documents.
func WithClock(now func() time.Time) Option {
	return platform.WithClock(now)
}

// WithPublishing overrides publish.enabled from the configuration.
func WithPublishing(enabled bool) Option {
	return platform.WithPublishing(enabled)
}

// --- Factory ---

// Open loads the site at root and wires its components.
func Open(root string, opts ...Option) (*Site, error) {
	return platform.Open(root, opts...)
}

// FindSiteRoot looks upwards from startDir for folio.yaml or .git.
func FindSiteRoot(startDir string) (string, error) {
	return platform.FindRoot(startDir)
}
