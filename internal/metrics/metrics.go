// Package metrics exposes prometheus collectors for view derivation.
package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "gtdash"

// Anomaly labels for data-quality counters.
const (
	AnomalyMissingSuccess = "missing_success"
	AnomalyInvalidYear    = "invalid_year"
	AnomalyInvalidMonth   = "invalid_month"
)

// Recorder groups the collectors updated on every selection change.
// A nil *Recorder is valid and records nothing.
type Recorder struct {
	views       *prometheus.CounterVec
	anomalies   *prometheus.CounterVec
	derivations prometheus.Histogram
}

// New builds a Recorder with unregistered collectors.
func New() *Recorder {
	return &Recorder{
		views: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "views_total",
				Help:      "View-models produced, partitioned by view and shape.",
			},
			[]string{"view", "kind"},
		),
		anomalies: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "data_anomalies_total",
				Help:      "Records excluded or flagged during aggregation, partitioned by anomaly.",
			},
			[]string{"view", "anomaly"},
		),
		derivations: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "derivation_seconds",
				Help:      "Time to re-derive every view after a selection change.",
				Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
			},
		),
	}
}

// Register attaches the collectors to the supplied registerer.
func (r *Recorder) Register(reg prometheus.Registerer) error {
	if r == nil {
		return nil
	}
	collectors := []prometheus.Collector{r.views, r.anomalies, r.derivations}
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

// ObserveView counts one produced view-model.
func (r *Recorder) ObserveView(view, kind string) {
	if r == nil {
		return
	}
	r.views.WithLabelValues(view, kind).Inc()
}

// ObserveAnomalies adds n records flagged with the given anomaly.
func (r *Recorder) ObserveAnomalies(view, anomaly string, n int) {
	if r == nil || n <= 0 {
		return
	}
	r.anomalies.WithLabelValues(view, anomaly).Add(float64(n))
}

// ObserveDerivation records how long a full re-derivation took.
func (r *Recorder) ObserveDerivation(d time.Duration) {
	if r == nil {
		return
	}
	if d < 0 {
		d = 0
	}
	r.derivations.Observe(d.Seconds())
}

// WriteTextfile dumps the registry in the node-exporter textfile format.
func WriteTextfile(path string, g prometheus.Gatherer) error {
	if err := prometheus.WriteToTextfile(path, g); err != nil {
		return fmt.Errorf("failed to write metrics textfile: %w", err)
	}
	return nil
}
