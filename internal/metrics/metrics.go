// Package metrics exposes prediction counters for Prometheus.
package metrics

import (
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"chemgps/domain/core"
	"chemgps/domain/result"
)

const namespace = "chemgps"

// Model outcomes.
const (
	OutcomePredicted = "predicted"
	OutcomeSkipped   = "skipped"
	OutcomeFailed    = "failed"
)

// Recorder holds the collectors. A nil Recorder records nothing.
type Recorder struct {
	registry *prometheus.Registry

	sessions        *prometheus.CounterVec
	models          *prometheus.CounterVec
	results         *prometheus.CounterVec
	sessionDuration prometheus.Histogram
}

// NewRecorder registers the collectors on a fresh registry.
func NewRecorder() *Recorder {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Recorder{
		registry: reg,

		// sessions counts loaded sessions by status (ok, error).
		sessions: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "session",
			Name:      "loads_total",
			Help:      "Total project loads by status",
		}, []string{"status"}),

		// models counts model predictions by outcome.
		models: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "predict",
			Name:      "models_total",
			Help:      "Total model predictions by outcome",
		}, []string{"outcome"}),

		// results counts result kinds by status (emitted, invalid, failed).
		results: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "dispatch",
			Name:      "results_total",
			Help:      "Total prediction results by kind and status",
		}, []string{"kind", "status"}),

		sessionDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "session",
			Name:      "duration_seconds",
			Help:      "Time from project load to close",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		}),
	}
}

// SessionLoaded records a load attempt.
func (r *Recorder) SessionLoaded(err error) {
	if r == nil {
		return
	}
	status := "ok"
	if err != nil {
		status = "error"
	}
	r.sessions.WithLabelValues(status).Inc()
}

// SessionClosed records the lifetime of a session.
func (r *Recorder) SessionClosed(d time.Duration) {
	if r == nil {
		return
	}
	r.sessionDuration.Observe(d.Seconds())
}

// ModelDone records the outcome of one model.
func (r *Recorder) ModelDone(err error) {
	if r == nil {
		return
	}
	switch {
	case err == nil:
		r.models.WithLabelValues(OutcomePredicted).Inc()
	case core.IsModelSkippable(err):
		r.models.WithLabelValues(OutcomeSkipped).Inc()
	default:
		r.models.WithLabelValues(OutcomeFailed).Inc()
	}
}

// Results records emitted and skipped kinds. Kinds skipped because they do
// not apply to the model are counted as "invalid".
func (r *Recorder) Results(emitted []result.Kind, skipped map[result.Kind]error) {
	if r == nil {
		return
	}
	for _, k := range emitted {
		r.results.WithLabelValues(k.String(), "emitted").Inc()
	}
	for k, err := range skipped {
		status := "failed"
		if errors.Is(err, core.ErrResultInvalid) {
			status = "invalid"
		}
		r.results.WithLabelValues(k.String(), status).Inc()
	}
}

// Registry returns the registry the collectors live in.
func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

// Handler serves the collectors in the Prometheus text format.
func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}
