package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	OpenMeteoCallsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "galewatch_openmeteo_api_calls_total",
			Help: "Total Open-Meteo API calls",
		},
		[]string{"endpoint", "status"},
	)

	OpenMeteoLatency = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "galewatch_openmeteo_api_latency_seconds",
			Help:    "Open-Meteo API call latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"endpoint"},
	)

	SamplesIngested = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "galewatch_samples_ingested_total",
			Help: "Total weather samples successfully ingested",
		},
		[]string{"farm", "kind"},
	)

	AnalysesRun = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "galewatch_impact_analyses_total",
			Help: "Total per-site impact analyses run",
		},
		[]string{"farm", "priority_color"},
	)

	SynopticScans = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "galewatch_synoptic_scans_total",
			Help: "Total regional synoptic grid scans",
		},
	)

	SynopticFeatures = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "galewatch_synoptic_features",
			Help: "Features found in the latest synoptic scan",
		},
		[]string{"kind"},
	)
)
