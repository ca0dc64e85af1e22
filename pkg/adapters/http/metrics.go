package http

import (
	"github.com/prometheus/client_golang/prometheus"
)

type metrics struct {
	optimizations *prometheus.CounterVec
	bytes         *prometheus.CounterVec
	duration      prometheus.Histogram
}

func newMetrics(reg prometheus.Registerer) *metrics {
	m := &metrics{
		optimizations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "svgo_optimizations_total",
				Help: "Total number of optimization requests by outcome",
			},
			[]string{"status"},
		),
		bytes: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "svgo_bytes_total",
				Help: "Bytes received and produced by the optimizer",
			},
			[]string{"direction"},
		),
		duration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "svgo_optimize_duration_seconds",
				Help:    "Duration of optimization requests",
				Buckets: prometheus.DefBuckets,
			},
		),
	}
	reg.MustRegister(m.optimizations, m.bytes, m.duration)
	return m
}
