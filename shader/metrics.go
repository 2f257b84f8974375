package shader

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// metrics holds the compiler's Prometheus collectors. Collectors are only
// registered when the compiler is given a registerer.
type metrics struct {
	compiles     *prometheus.CounterVec
	cacheLookups *prometheus.CounterVec
	duration     *prometheus.HistogramVec
	sourceBytes  prometheus.Histogram
}

func newMetrics(reg prometheus.Registerer) *metrics {
	f := promauto.With(reg)
	return &metrics{
		compiles: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: "texgraph",
			Subsystem: "shader",
			Name:      "compiles_total",
			Help:      "Shader programs generated, by dialect and result.",
		}, []string{"dialect", "result"}),
		cacheLookups: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: "texgraph",
			Subsystem: "shader",
			Name:      "cache_lookups_total",
			Help:      "Program cache lookups, by result (hit or miss).",
		}, []string{"result"}),
		duration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "texgraph",
			Subsystem: "shader",
			Name:      "compile_duration_seconds",
			Help:      "Time to produce a program, cache hits included.",
			Buckets:   prometheus.ExponentialBuckets(0.00001, 4, 10),
		}, []string{"dialect"}),
		sourceBytes: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: "texgraph",
			Subsystem: "shader",
			Name:      "source_bytes",
			Help:      "Size of generated shader source.",
			Buckets:   prometheus.ExponentialBuckets(256, 2, 10),
		}),
	}
}
