// Package metrics exposes Prometheus instrumentation for the refresh
// pipeline on a private registry.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Collector struct {
	reg *prometheus.Registry

	FetchCycles    prometheus.Counter
	FetchErrors    *prometheus.CounterVec // kind label: timeout|transport|parse|upstream
	RecordsDropped prometheus.Counter
	ShapeFailures  prometheus.Counter

	CycleDuration prometheus.Histogram

	VehiclesTracked prometheus.Gauge
	LastSuccess     prometheus.Gauge // unix seconds of the last published snapshot
	RefreshInterval prometheus.Gauge // seconds
}

func NewCollector(refreshInterval time.Duration) *Collector {
	reg := prometheus.NewRegistry()

	c := &Collector{
		reg: reg,
		FetchCycles: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "tracker_fetch_cycles_total",
			Help: "Total refresh cycles attempted.",
		}),
		FetchErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "tracker_fetch_errors_total",
			Help: "Total failed fetch cycles by error kind.",
		}, []string{"kind"}),
		RecordsDropped: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "tracker_records_dropped_total",
			Help: "Total raw vehicle records dropped for missing required fields.",
		}),
		ShapeFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "tracker_shape_decode_failures_total",
			Help: "Total encoded route shapes that failed to decode.",
		}),
		CycleDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "tracker_cycle_duration_seconds",
			Help:    "Duration of fetch-normalize-publish cycles.",
			Buckets: prometheus.ExponentialBuckets(0.05, 2, 10),
		}),
		VehiclesTracked: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "tracker_vehicles",
			Help: "Vehicles in the current published snapshot.",
		}),
		LastSuccess: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "tracker_last_success_timestamp_seconds",
			Help: "Unix time of the last successfully published snapshot.",
		}),
		RefreshInterval: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "tracker_refresh_interval_seconds",
			Help: "Configured refresh interval in seconds.",
		}),
	}

	reg.MustRegister(
		c.FetchCycles, c.FetchErrors, c.RecordsDropped, c.ShapeFailures,
		c.CycleDuration,
		c.VehiclesTracked, c.LastSuccess, c.RefreshInterval,
	)

	c.RefreshInterval.Set(refreshInterval.Seconds())

	return c
}

func (c *Collector) Handler() http.Handler { return promhttp.HandlerFor(c.reg, promhttp.HandlerOpts{}) }
