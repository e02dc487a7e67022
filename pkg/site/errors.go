package site

import "fmt"

// Build stages, in the order a rebuild runs them.
const (
	StageTemplate = "template"
	StageParse    = "parse"
	StageRender   = "render"
	StageWrite    = "write"
	StageIndex    = "index"
)

// BuildError reports which stage of a rebuild failed and for which file.
type BuildError struct {
	Stage string
	Path  string
	Err   error
}

func (e *BuildError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("%s failed: %v", e.Stage, e.Err)
	}
	return fmt.Sprintf("%s failed for %s: %v", e.Stage, e.Path, e.Err)
}

func (e *BuildError) Unwrap() error { return e.Err }
