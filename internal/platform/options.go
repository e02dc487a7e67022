package platform

import (
	"log/slog"
	"time"

	"github.com/aretw0/folio/internal/metrics"
	"github.com/aretw0/folio/pkg/core"
	"github.com/aretw0/folio/pkg/git"
)

// options holds the internal configuration for a Site.
type options struct {
	logger     *slog.Logger
	configFile string
	renderer   core.Renderer
	runner     git.Runner
	recorder   metrics.Recorder
	now        func() time.Time
	publish    *bool
}

// Option defines a functional option for configuring a Site.
type Option func(*options)

func defaultOptions() *options {
	return &options{
		recorder: metrics.NoopRecorder{},
		now:      time.Now,
	}
}

// WithLogger sets the logger shared by every component.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithConfigFile loads the site configuration from path instead of
// folio.yaml in the site root.
func WithConfigFile(path string) Option {
	return func(o *options) {
		o.configFile = path
	}
}

// WithRenderer replaces the goldmark renderer.
func WithRenderer(r core.Renderer) Option {
	return func(o *options) {
		o.renderer = r
	}
}

// WithRunner replaces the host command runner used to publish.
// Defaults to git.ExecRunner in the site root.
func WithRunner(r git.Runner) Option {
	return func(o *options) {
		o.runner = r
	}
}

// WithRecorder sets the metrics recorder for builds and publish steps.
func WithRecorder(r metrics.Recorder) Option {
	return func(o *options) {
		if r != nil {
			o.recorder = r
		}
	}
}

// WithClock sets the clock used to date new documents.
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		if now != nil {
			o.now = now
		}
	}
}

// WithPublishing overrides publish.enabled from the configuration.
func WithPublishing(enabled bool) Option {
	return func(o *options) {
		o.publish = &enabled
	}
}
