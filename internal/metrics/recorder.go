// Package metrics exposes load-cycle counters through Prometheus.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/vk/addonkit/internal/autoload"
)

const namespace = "addonkit"

// Recorder implements autoload.Observer on a private Prometheus registry.
type Recorder struct {
	registry *prometheus.Registry

	importFailures prometheus.Counter
	registrations  *prometheus.CounterVec
	registered     prometheus.Gauge
	loadCycles     prometheus.Counter
}

// Compile-time interface compliance check.
var _ autoload.Observer = (*Recorder)(nil)

// NewRecorder creates a Recorder with its own registry.
func NewRecorder() *Recorder {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Recorder{
		registry: reg,
		importFailures: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "import_failures_total",
			Help:      "Plugin modules that failed to import",
		}),
		registrations: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "registrations_total",
			Help:      "Register and unregister calls by outcome",
		}, []string{"direction", "outcome"}),
		registered: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "registered_entities",
			Help:      "Entities registered after the last load cycle",
		}),
		loadCycles: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "load_cycles_total",
			Help:      "Completed load cycles",
		}),
	}
}

func (r *Recorder) ImportFailed(module string, err error) {
	r.importFailures.Inc()
}

func (r *Recorder) Registered(dir autoload.Direction, ok bool) {
	outcome := "ok"
	if !ok {
		outcome = "error"
	}
	r.registrations.WithLabelValues(dir.String(), outcome).Inc()

	// An unregister leaves the ledger whatever its outcome.
	switch {
	case dir == autoload.Forward && ok:
		r.registered.Inc()
	case dir == autoload.Reverse:
		r.registered.Dec()
	}
}

func (r *Recorder) CycleCompleted(registered int) {
	r.loadCycles.Inc()
	r.registered.Set(float64(registered))
}

// Handler serves the registry in the Prometheus exposition format.
func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}

// Registry returns the underlying registry.
func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}
