package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Gauges
var (
	FrequencyHz = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "dactone_generator_frequency_hz",
		Help: "Actual output frequency of the shared cosine generator",
	})
	OutputEnabled = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "dactone_channel_output_enabled",
		Help: "1 when the channel's DAC output path is enabled",
	}, []string{"channel"})
	Clipping = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "dactone_channel_clipping",
		Help: "1 when the channel's volume and offset drive the waveform past the rails",
	}, []string{"channel"})
)

// Counters
var (
	ToneRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "dactone_tone_requests_total",
		Help: "Total tone requests by outcome",
	}, []string{"outcome"})
	RegisterWritesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "dactone_register_writes_total",
		Help: "Total register interface calls by operation",
	}, []string{"op"})
	CommandsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "dactone_commands_total",
		Help: "Total sequenced commands by type and outcome",
	}, []string{"type", "outcome"})
)

// Histograms
var (
	SolveDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "dactone_solve_duration_us",
		Help:    "Frequency search duration in microseconds",
		Buckets: []float64{5, 10, 25, 50, 100, 250, 500, 1000, 5000},
	})
	FrequencyErrorHz = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "dactone_frequency_error_hz",
		Help:    "Absolute difference between requested and achieved frequency",
		Buckets: []float64{0.1, 0.5, 1, 2, 4, 6, 8, 16},
	})
)
