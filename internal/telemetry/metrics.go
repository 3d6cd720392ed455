// Package telemetry exposes Prometheus metrics for the generation job
// lifecycle.
package telemetry

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	once sync.Once

	// JobsSubmitted counts accepted generation requests by kind and provider.
	JobsSubmitted = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "generation_jobs_submitted_total", Help: "Generation jobs accepted"},
		[]string{"kind", "provider"},
	)
	// JobsCompleted counts jobs that reached the completed state.
	JobsCompleted = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "generation_jobs_completed_total", Help: "Generation jobs completed successfully"},
		[]string{"kind", "provider"},
	)
	// JobsFailed counts jobs that reached the failed state, labeled by reason
	// ("provider", "timeout", "content", "internal").
	JobsFailed = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "generation_jobs_failed_total", Help: "Generation jobs that failed"},
		[]string{"kind", "provider", "reason"},
	)
	// PollAttempts counts provider status polls by provider.
	PollAttempts = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "generation_poll_attempts_total", Help: "Provider status polls issued"},
		[]string{"provider"},
	)
	// JobsInFlight tracks jobs currently being polled.
	JobsInFlight = prometheus.NewGauge(
		prometheus.GaugeOpts{Name: "generation_jobs_inflight", Help: "Jobs currently awaiting a terminal provider state"},
	)
)

// Handler exposes the /metrics HTTP handler with a singleton registry.
func Handler() http.Handler {
	once.Do(func() {
		prometheus.MustRegister(
			JobsSubmitted,
			JobsCompleted,
			JobsFailed,
			PollAttempts,
			JobsInFlight,
		)
	})
	return promhttp.Handler()
}
