package git

import (
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/aretw0/folio/internal/metrics"
	"github.com/aretw0/folio/pkg/core"
)

// Publish steps, in execution order.
const (
	StepAdd    = "add"
	StepCommit = "commit"
	StepPush   = "push"
)

// StepError reports the publish step that failed.
// It matches both core.ErrPublishStepFailed and the underlying cause.
type StepError struct {
	Step   string
	Output string
	Err    error
}

func (e *StepError) Error() string {
	msg := fmt.Sprintf("%s step failed: %v", e.Step, e.Err)
	if e.Output != "" {
		msg += "\nOutput: " + e.Output
	}
	return msg
}

func (e *StepError) Unwrap() []error { return []error{core.ErrPublishStepFailed, e.Err} }

// Result is the outcome of a publish. OK is true only when add, commit
// and push all succeeded; otherwise Message explains which step failed.
type Result struct {
	OK      bool
	Message string
	Step    string
	Commit  string
	err     error
}

// Err returns the *StepError behind a failed publish, or nil.
func (r Result) Err() error { return r.err }

// Config configures a Publisher.
type Config struct {
	Dir    string // working tree, used to resolve the published commit
	Remote string // optional; empty pushes to the upstream of the current branch
	Branch string // optional; only used together with Remote
	Logger *slog.Logger

	Recorder metrics.Recorder
	// HeadReader resolves the commit published; defaults to HeadCommit.
	HeadReader func(dir string) (string, error)
}

// Publisher stages, commits and pushes the working tree.
type Publisher struct {
	runner   Runner
	config   Config
	logger   *slog.Logger
	recorder metrics.Recorder
}

// NewPublisher creates a Publisher that runs its steps through runner.
func NewPublisher(runner Runner, config Config) *Publisher {
	logger := config.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	recorder := config.Recorder
	if recorder == nil {
		recorder = metrics.NoopRecorder{}
	}
	if config.HeadReader == nil {
		config.HeadReader = HeadCommit
	}
	return &Publisher{runner: runner, config: config, logger: logger, recorder: recorder}
}

// Publish runs git add, git commit and git push in order. The first failing
// step aborts the rest. Failures are never retried and never returned as
// errors; they come back as Result{OK: false} with a diagnostic.
func (p *Publisher) Publish(message string) Result {
	if strings.TrimSpace(message) == "" {
		return p.fail(&StepError{Step: StepCommit, Err: fmt.Errorf("commit message is empty")})
	}

	steps := []struct {
		name string
		argv []string
	}{
		{StepAdd, []string{"git", "add", "."}},
		{StepCommit, []string{"git", "commit", "-m", message}},
		{StepPush, p.pushArgs()},
	}

	for _, s := range steps {
		start := time.Now()
		out, err := p.runner.Run(s.argv)
		p.recorder.ObservePublishStep(s.name, time.Since(start), err)
		if err != nil {
			return p.fail(&StepError{Step: s.name, Output: out, Err: err})
		}
		p.logger.Debug("publish step done", "step", s.name)
	}

	res := Result{OK: true, Message: "published: " + firstLine(message)}
	if p.config.Dir != "" {
		if commit, err := p.config.HeadReader(p.config.Dir); err == nil {
			res.Commit = commit
			res.Message += " (" + shortHash(commit) + ")"
		} else {
			p.logger.Debug("could not resolve published commit", "error", err)
		}
	}
	p.logger.Info("publish complete", "commit", res.Commit)
	return res
}

func (p *Publisher) pushArgs() []string {
	argv := []string{"git", "push"}
	if p.config.Remote != "" {
		argv = append(argv, p.config.Remote)
		if p.config.Branch != "" {
			argv = append(argv, p.config.Branch)
		}
	}
	return argv
}

func (p *Publisher) fail(err *StepError) Result {
	p.logger.Error("publish failed", "step", err.Step, "error", err.Err, "output", err.Output)

	msg := fmt.Sprintf("publish failed at %s: %v", err.Step, err.Err)
	if err.Output != "" {
		msg += "\n" + err.Output
	}
	if err.Step == StepPush {
		msg += "\nTip: check that a remote is configured and that you are online."
	}
	return Result{OK: false, Message: msg, Step: err.Step, err: err}
}

func firstLine(s string) string {
	line, _, _ := strings.Cut(s, "\n")
	return line
}

func shortHash(h string) string {
	if len(h) > 8 {
		return h[:8]
	}
	return h
}
