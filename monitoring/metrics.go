// Package monitoring exposes Prometheus collectors and the dataset watcher.
package monitoring

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"hpcpredict/ml"
)

// Prediction outcomes used as the "outcome" label.
const (
	OutcomeOK           = "ok"
	OutcomeInvalidInput = "invalid_input"
	OutcomeModelError   = "model_error"
)

// Metrics groups every collector the server records into.
type Metrics struct {
	gatherer prometheus.Gatherer

	Predictions     *prometheus.CounterVec
	PredictLatency  prometheus.Histogram
	Requests        *prometheus.CounterVec
	DatasetChanges  prometheus.Counter
	HoldoutR2       prometheus.Gauge
	HoldoutMAE      prometheus.Gauge
	TrainingSeconds prometheus.Gauge
}

// NewMetrics registers all collectors on a fresh registry.
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		gatherer: reg,
		Predictions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "hpcpredict_predictions_total",
				Help: "Form submissions by outcome.",
			},
			[]string{"outcome"},
		),
		PredictLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "hpcpredict_predict_duration_seconds",
			Help:    "Time spent inside the model for one prediction.",
			Buckets: prometheus.ExponentialBuckets(0.00001, 4, 10),
		}),
		Requests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "hpcpredict_http_requests_total",
				Help: "HTTP requests by method and status code.",
			},
			[]string{"method", "code"},
		),
		DatasetChanges: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "hpcpredict_dataset_changes_total",
			Help: "Dataset file changes seen since startup. The model is not retrained.",
		}),
		HoldoutR2: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "hpcpredict_model_holdout_r2",
			Help: "Coefficient of determination on the holdout partition.",
		}),
		HoldoutMAE: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "hpcpredict_model_holdout_mae_seconds",
			Help: "Mean absolute error on the holdout partition.",
		}),
		TrainingSeconds: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "hpcpredict_model_training_seconds",
			Help: "Wall time of the startup training run.",
		}),
	}
	reg.MustRegister(
		m.Predictions,
		m.PredictLatency,
		m.Requests,
		m.DatasetChanges,
		m.HoldoutR2,
		m.HoldoutMAE,
		m.TrainingSeconds,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// ObserveModel records the one-off training summary.
func (m *Metrics) ObserveModel(info ml.ModelInfo) {
	m.TrainingSeconds.Set(info.Duration.Seconds())
	if info.Holdout != nil {
		m.HoldoutR2.Set(info.Holdout.R2)
		m.HoldoutMAE.Set(info.Holdout.MAE)
	}
}

// ObservePrediction records one form submission.
func (m *Metrics) ObservePrediction(outcome string, elapsed time.Duration) {
	m.Predictions.WithLabelValues(outcome).Inc()
	if outcome == OutcomeOK {
		m.PredictLatency.Observe(elapsed.Seconds())
	}
}

// ObserveRequest records one HTTP response.
func (m *Metrics) ObserveRequest(method string, code int) {
	m.Requests.WithLabelValues(method, strconv.Itoa(code)).Inc()
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}
