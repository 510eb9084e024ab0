package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the fetcher's Prometheus collectors.
type Metrics struct {
	RunsTotal        prometheus.Counter
	RunErrorsTotal   prometheus.Counter
	PagesFetched     prometheus.Counter
	EntriesTotal     prometheus.Counter
	NewListingsTotal prometheus.Counter
	Registry         *prometheus.Registry
}

// NewMetrics creates the collectors and registers them.
func NewMetrics() *Metrics {
	m := &Metrics{
		RunsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "oikotie_runs_total",
			Help: "Total number of fetch runs started",
		}),
		RunErrorsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "oikotie_run_errors_total",
			Help: "Fetch runs that ended in an error",
		}),
		PagesFetched: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "oikotie_pages_fetched_total",
			Help: "Listing pages requested from the provider",
		}),
		EntriesTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "oikotie_entries_total",
			Help: "Raw entries normalized into records",
		}),
		NewListingsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "oikotie_new_listings_total",
			Help: "Records appended to the sink as new",
		}),
		Registry: prometheus.NewRegistry(),
	}

	m.Registry.MustRegister(
		m.RunsTotal,
		m.RunErrorsTotal,
		m.PagesFetched,
		m.EntriesTotal,
		m.NewListingsTotal,
	)
	return m
}

// Handler returns the /metrics HTTP handler for this registry.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{})
}
