// Package metrics records build and publish outcomes.
package metrics

import "time"

// Result labels.
const (
	ResultSuccess = "success"
	ResultFailure = "failure"
)

// Recorder receives build and publish observations.
type Recorder interface {
	ObserveBuild(d time.Duration, pages int, err error)
	ObservePublishStep(step string, d time.Duration, err error)
}

// NoopRecorder discards everything.
type NoopRecorder struct{}

func (NoopRecorder) ObserveBuild(time.Duration, int, error) {}
func (NoopRecorder) ObservePublishStep(string, time.Duration, error) {}

func result(err error) string {
	if err != nil {
		return ResultFailure
	}
	return ResultSuccess
}
