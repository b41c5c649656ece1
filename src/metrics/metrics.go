// Package metrics exposes the universe state as Prometheus metrics.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"soulverse/src/universe"
)

// Collector mirrors the latest universe snapshot into gauges.
type Collector struct {
	souls        prometheus.Gauge
	totalSouls   prometheus.Gauge
	starred      prometheus.Gauge
	connections  prometheus.Gauge
	interactions prometheus.Gauge
	modes        *prometheus.GaugeVec
}

// NewCollector creates the collector and registers its metrics on reg.
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		souls: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "soulverse_souls",
			Help: "Souls currently living in the universe",
		}),
		totalSouls: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "soulverse_souls_created",
			Help: "Souls ever created, persisted across restarts",
		}),
		starred: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "soulverse_starred_souls",
			Help: "Souls with an active star",
		}),
		connections: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "soulverse_connections",
			Help: "Connections not expired yet",
		}),
		interactions: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "soulverse_interactions",
			Help: "Interactions since the process start",
		}),
		modes: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "soulverse_mode",
			Help: "Current visualization mode (1 for the active one)",
		}, []string{"mode"}),
	}

	reg.MustRegister(
		c.souls,
		c.totalSouls,
		c.starred,
		c.connections,
		c.interactions,
		c.modes,
	)
	return c
}

// Observe updates the gauges from the snapshot; suitable as a universe subscriber.
func (c *Collector) Observe(st universe.State) {
	stats := st.Stats()
	c.souls.Set(float64(stats.Souls))
	c.totalSouls.Set(float64(stats.TotalSouls))
	c.starred.Set(float64(stats.Starred))
	c.connections.Set(float64(stats.Connections))
	c.interactions.Set(float64(stats.TotalInteractions))
	for _, m := range universe.Modes {
		v := 0.0
		if m == st.Mode {
			v = 1
		}
		c.modes.WithLabelValues(string(m)).Set(v)
	}
}

// Handler returns the Prometheus scrape handler.
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}

// SetupMetricsRoute returns the mux serving /metrics.
func SetupMetricsRoute(gatherer prometheus.Gatherer) http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/metrics", Handler(gatherer))
	return mux
}
