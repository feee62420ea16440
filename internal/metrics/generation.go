package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Recorder reports answer generation attempts to Prometheus. It is constructed
// once in main and handed to the pipeline services; there is no module-level
// generation state. Recording is fire-and-forget: a nil *Recorder is a no-op,
// and no method can fail the calling request.
type Recorder struct {
	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

// NewRecorder creates a Recorder and registers its metrics with reg.
func NewRecorder(reg prometheus.Registerer) *Recorder {
	r := &Recorder{
		requests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "ragdex",
				Name:      "llm_requests_total",
				Help:      "Total number of LLM generation attempts",
			},
			[]string{"model", "mode", "status"},
		),
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "ragdex",
				Name:      "llm_request_duration_seconds",
				Help:      "LLM generation attempt duration in seconds",
				Buckets:   []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60, 120},
			},
			[]string{"model", "mode"},
		),
	}
	reg.MustRegister(r.requests, r.duration)
	return r
}

// RecordGeneration reports a non-streaming generation attempt.
func (r *Recorder) RecordGeneration(model string, elapsed time.Duration, success bool) {
	r.record(model, "generate", elapsed, success)
}

// RecordStream reports a streaming generation attempt.
func (r *Recorder) RecordStream(model string, elapsed time.Duration, success bool) {
	r.record(model, "stream", elapsed, success)
}

func (r *Recorder) record(model, mode string, elapsed time.Duration, success bool) {
	if r == nil {
		return
	}
	status := "success"
	if !success {
		status = "error"
	}
	r.requests.WithLabelValues(model, mode, status).Inc()
	r.duration.WithLabelValues(model, mode).Observe(elapsed.Seconds())
}
