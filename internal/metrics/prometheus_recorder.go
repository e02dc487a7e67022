package metrics

import (
	"net/http"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// PrometheusRecorder implements Recorder using Prometheus metrics.
type PrometheusRecorder struct {
	reg             *prom.Registry
	buildDuration   prom.Histogram
	buildOutcome    *prom.CounterVec
	pagesWritten    prom.Gauge
	publishDuration *prom.HistogramVec
	publishResults  *prom.CounterVec
}

// NewPrometheusRecorder constructs and registers the folio metrics on reg.
// A nil reg gets a fresh registry.
func NewPrometheusRecorder(reg *prom.Registry) *PrometheusRecorder {
	if reg == nil {
		reg = prom.NewRegistry()
	}
	pr := &PrometheusRecorder{
		reg: reg,
		buildDuration: prom.NewHistogram(prom.HistogramOpts{
			Namespace: "folio",
			Name:      "build_duration_seconds",
			Help:      "Duration of full site rebuilds",
			Buckets:   prom.DefBuckets,
		}),
		buildOutcome: prom.NewCounterVec(prom.CounterOpts{
			Namespace: "folio",
			Name:      "build_outcomes_total",
			Help:      "Rebuilds by outcome",
		}, []string{"result"}),
		pagesWritten: prom.NewGauge(prom.GaugeOpts{
			Namespace: "folio",
			Name:      "pages_written",
			Help:      "Pages written by the last successful rebuild",
		}),
		publishDuration: prom.NewHistogramVec(prom.HistogramOpts{
			Namespace: "folio",
			Name:      "publish_step_duration_seconds",
			Help:      "Duration of individual publish steps",
			Buckets:   prom.DefBuckets,
		}, []string{"step"}),
		publishResults: prom.NewCounterVec(prom.CounterOpts{
			Namespace: "folio",
			Name:      "publish_step_results_total",
			Help:      "Publish step results by outcome",
		}, []string{"step", "result"}),
	}
	reg.MustRegister(pr.buildDuration, pr.buildOutcome, pr.pagesWritten, pr.publishDuration, pr.publishResults)
	return pr
}

// ObserveBuild records one rebuild.
func (p *PrometheusRecorder) ObserveBuild(d time.Duration, pages int, err error) {
	p.buildDuration.Observe(d.Seconds())
	p.buildOutcome.WithLabelValues(result(err)).Inc()
	if err == nil {
		p.pagesWritten.Set(float64(pages))
	}
}

// ObservePublishStep records one add, commit or push invocation.
func (p *PrometheusRecorder) ObservePublishStep(step string, d time.Duration, err error) {
	p.publishDuration.WithLabelValues(step).Observe(d.Seconds())
	p.publishResults.WithLabelValues(step, result(err)).Inc()
}

// Handler serves the registry in the Prometheus exposition format.
func (p *PrometheusRecorder) Handler() http.Handler {
	return promhttp.HandlerFor(p.reg, promhttp.HandlerOpts{})
}

var _ Recorder = (*PrometheusRecorder)(nil)
