// Package metrics exposes Prometheus counters for detection runs. Batch jobs
// write them to a node_exporter textfile when they finish.
package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "thermocline"

// Outcome labels
const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
)

// Recorder records detector activity. A nil *Recorder is valid and records nothing.
type Recorder struct {
	strategyRuns     *prometheus.CounterVec
	profiles         *prometheus.CounterVec
	detectionSeconds prometheus.Histogram
}

// New creates a Recorder and registers its collectors with reg.
func New(reg prometheus.Registerer) (*Recorder, error) {
	r := &Recorder{
		strategyRuns: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "strategy_runs_total",
				Help:      "Detection strategy runs by strategy and outcome",
			},
			[]string{"strategy", "outcome"},
		),
		profiles: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "profiles_total",
				Help:      "Profiles processed, by whether the segmentation strategy found a thermocline",
			},
			[]string{"thermocline"},
		),
		detectionSeconds: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "detection_duration_seconds",
				Help:      "Time spent running all strategies on one profile",
				Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5},
			},
		),
	}

	for _, c := range []prometheus.Collector{r.strategyRuns, r.profiles, r.detectionSeconds} {
		if err := reg.Register(c); err != nil {
			return nil, fmt.Errorf("register metrics: %w", err)
		}
	}
	return r, nil
}

// ObserveStrategy counts one strategy run.
func (r *Recorder) ObserveStrategy(strategy string, err error) {
	if r == nil {
		return
	}
	outcome := OutcomeSuccess
	if err != nil {
		outcome = OutcomeFailure
	}
	r.strategyRuns.WithLabelValues(strategy, outcome).Inc()
}

// ObserveProfile counts one processed profile and its detection time.
func (r *Recorder) ObserveProfile(found bool, elapsed time.Duration) {
	if r == nil {
		return
	}
	label := "absent"
	if found {
		label = "present"
	}
	r.profiles.WithLabelValues(label).Inc()
	r.detectionSeconds.Observe(elapsed.Seconds())
}

// WriteTextfile writes everything gathered by g to path in the Prometheus text format.
func WriteTextfile(path string, g prometheus.Gatherer) error {
	if err := prometheus.WriteToTextfile(path, g); err != nil {
		return fmt.Errorf("write metrics textfile: %w", err)
	}
	return nil
}
