package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	// OutcomeSuccess labels phases analysed to completion.
	OutcomeSuccess = "success"
	// OutcomeDegenerate labels phases where a cohort was empty.
	OutcomeDegenerate = "degenerate"
	// OutcomeError labels runs aborted by cancellation or input failures.
	OutcomeError = "error"
)

var (
	phasesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "mirador_pathmine",
			Name:      "phases_total",
			Help:      "Total number of phase analyses, partitioned by outcome.",
		},
		[]string{"outcome"},
	)

	phaseDurationSeconds = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "mirador_pathmine",
			Name:      "phase_seconds",
			Help:      "Phase analysis latency in seconds.",
			Buckets:   []float64{0.005, 0.01, 0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10},
		},
	)

	patternsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "mirador_pathmine",
			Name:      "patterns_total",
			Help:      "Total number of patterns emitted, partitioned by kind.",
		},
		[]string{"kind"},
	)

	lastAccuracy = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: "mirador_pathmine",
			Name:      "phase_accuracy",
			Help:      "Accuracy of the most recent do-set per phase.",
		},
		[]string{"phase"},
	)
)

// Register attaches mirador-pathmine collectors to the supplied Prometheus registerer.
func Register(reg prometheus.Registerer) error {
	collectors := []prometheus.Collector{
		phasesTotal,
		phaseDurationSeconds,
		patternsTotal,
		lastAccuracy,
	}

	for _, collector := range collectors {
		if err := reg.Register(collector); err != nil {
			if _, ok := err.(prometheus.AlreadyRegisteredError); ok {
				continue
			}
			return err
		}
	}
	return nil
}

// ObservePhase records a phase duration and outcome label.
func ObservePhase(duration time.Duration, outcome string) {
	label := outcome
	if label != OutcomeError && label != OutcomeDegenerate {
		label = OutcomeSuccess
	}
	phasesTotal.WithLabelValues(label).Inc()
	if duration < 0 {
		duration = 0
	}
	phaseDurationSeconds.Observe(duration.Seconds())
}

// AddPatterns counts n emitted patterns of the given kind (frequent, extension, do, avoid, harmful, path).
func AddPatterns(kind string, n int) {
	if n <= 0 {
		return
	}
	patternsTotal.WithLabelValues(kind).Add(float64(n))
}

// SetAccuracy publishes the latest accuracy for phase.
func SetAccuracy(phase string, score float64) {
	lastAccuracy.WithLabelValues(phase).Set(score)
}

// WriteTextfile dumps the gathered metrics in the node-exporter textfile format.
func WriteTextfile(path string, g prometheus.Gatherer) error {
	if g == nil {
		g = prometheus.DefaultGatherer
	}
	return prometheus.WriteToTextfile(path, g)
}
