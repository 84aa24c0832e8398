package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "fire_dashboard"

// Metrics holds the Prometheus counters, histograms, and gauges for the dashboard.
type Metrics struct {
	// Prediction metrics.
	Predictions        *prometheus.CounterVec // labels: label
	PredictionFailures prometheus.Counter
	PredictionDuration prometheus.Histogram
	ModelLoads         prometheus.Counter
	ModelReleases      prometheus.Counter
	PredictionEvents   *prometheus.CounterVec // labels: outcome={published,error}

	// Artifact metrics.
	ArtifactFetches       *prometheus.CounterVec   // labels: artifact, outcome={present,fetched,error}
	ArtifactFetchDuration *prometheus.HistogramVec // labels: artifact

	// Dataset metrics.
	DatasetLoads prometheus.Counter
	DatasetRows  prometheus.Gauge
	FilterCache  *prometheus.CounterVec // labels: result={hit,miss}

	// Visualization metrics.
	Charts             *prometheus.CounterVec // labels: chart, outcome={built,skipped,error}
	PageRenderDuration prometheus.Histogram
}

func newMetrics() *Metrics {
	return &Metrics{
		Predictions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "predictions_total",
			Help:      "Successful predictions by resulting label.",
		}, []string{"label"}),
		PredictionFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "prediction_failures_total",
			Help:      "Predictions that failed inside the pipeline.",
		}),
		PredictionDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "prediction_duration_seconds",
			Help:      "Duration of a prediction including model acquisition.",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5},
		}),
		ModelLoads: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "model_loads_total",
			Help:      "Times the classifier and scaler were loaded from disk.",
		}),
		ModelReleases: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "model_releases_total",
			Help:      "Times the loaded model handles were released.",
		}),
		PredictionEvents: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "prediction_events_total",
			Help:      "Prediction events handed to the publisher by outcome.",
		}, []string{"outcome"}),
		ArtifactFetches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "artifact_fetches_total",
			Help:      "Artifact presence checks and downloads by artifact and outcome.",
		}, []string{"artifact", "outcome"}),
		ArtifactFetchDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "artifact_fetch_duration_seconds",
			Help:      "Artifact download duration in seconds.",
			Buckets:   []float64{0.1, 0.5, 1, 5, 15, 30, 60, 300},
		}, []string{"artifact"}),
		DatasetLoads: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "dataset_loads_total",
			Help:      "Times the yearly CSV files were read from disk.",
		}),
		DatasetRows: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "dataset_rows",
			Help:      "Rows in the most recently loaded unified dataset.",
		}),
		FilterCache: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "filter_cache_total",
			Help:      "Filtered view cache lookups by result.",
		}, []string{"result"}),
		Charts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "charts_total",
			Help:      "Chart builder outcomes by chart.",
		}, []string{"chart", "outcome"}),
		PageRenderDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "page_render_duration_seconds",
			Help:      "Duration of a full Data Visualization page render.",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.5, 1, 2.5, 5, 10},
		}),
	}
}

// NewMetrics creates and registers all dashboard metrics with the default Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics()

	prometheus.MustRegister(
		m.Predictions,
		m.PredictionFailures,
		m.PredictionDuration,
		m.ModelLoads,
		m.ModelReleases,
		m.PredictionEvents,
		m.ArtifactFetches,
		m.ArtifactFetchDuration,
		m.DatasetLoads,
		m.DatasetRows,
		m.FilterCache,
		m.Charts,
		m.PageRenderDuration,
	)

	return m
}

// NewMetricsForTesting creates unregistered Metrics to avoid
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return newMetrics()
}
