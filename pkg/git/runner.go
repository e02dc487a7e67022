// Package git publishes the generated site through a version-control sink.
package git

import (
	"fmt"
	"log/slog"
	"os/exec"
	"strings"
)

// Runner executes one external command and reports its combined output.
// A non-nil error means the command could not run or exited non-zero.
type Runner interface {
	Run(argv []string) (string, error)
}

// ExecRunner runs commands with os/exec inside a working directory.
type ExecRunner struct {
	Dir    string
	Logger *slog.Logger
}

// NewExecRunner creates a runner bound to dir.
func NewExecRunner(dir string, logger *slog.Logger) *ExecRunner {
	return &ExecRunner{Dir: dir, Logger: logger}
}

// Run executes argv[0] with the remaining arguments. It blocks until the
// command exits; there is no timeout.
func (r *ExecRunner) Run(argv []string) (string, error) {
	if len(argv) == 0 {
		return "", fmt.Errorf("empty command")
	}
	if r.Logger != nil {
		r.Logger.Debug("executing", "argv", argv, "dir", r.Dir)
	}

	cmd := exec.Command(argv[0], argv[1:]...)
	cmd.Dir = r.Dir

	out, err := cmd.CombinedOutput()
	output := strings.TrimSpace(string(out))
	if err != nil {
		return output, fmt.Errorf("%s failed: %w", commandName(argv), err)
	}
	return output, nil
}

// IsInstalled reports whether the git binary is on PATH.
func IsInstalled() bool {
	_, err := exec.LookPath("git")
	return err == nil
}

// commandName is the program plus its subcommand, e.g. "git push".
func commandName(argv []string) string {
	if len(argv) > 1 {
		return argv[0] + " " + argv[1]
	}
	return argv[0]
}
