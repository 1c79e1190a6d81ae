package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "land_temp_etl"

// Metrics holds the Prometheus counters, histograms, and gauges for a pipeline run.
type Metrics struct {
	RowsLoaded      prometheus.Counter
	PipelineRunning prometheus.Gauge
	LastSuccess     prometheus.Gauge

	// Cleaning metrics.
	ValuesImputed    *prometheus.CounterVec // labels: column={temperature,uncertainty}
	ValuesUnresolved *prometheus.CounterVec // labels: column={temperature,uncertainty}

	// Aggregation metrics.
	GroupsProduced *prometheus.CounterVec   // labels: dimension
	StageDuration  *prometheus.HistogramVec // labels: stage

	// Sink metrics.
	SinkPublishes *prometheus.CounterVec // labels: sink, outcome={success,error}
}

// NewMetrics creates and registers all pipeline metrics with the default Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics()
	prometheus.MustRegister(
		m.RowsLoaded,
		m.PipelineRunning,
		m.LastSuccess,
		m.ValuesImputed,
		m.ValuesUnresolved,
		m.GroupsProduced,
		m.StageDuration,
		m.SinkPublishes,
	)
	return m
}

// NewMetricsForTesting creates unregistered Metrics to avoid
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return newMetrics()
}

func newMetrics() *Metrics {
	return &Metrics{
		RowsLoaded: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rows_loaded_total",
			Help:      "Total observation rows read from the source dataset.",
		}),
		PipelineRunning: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "pipeline_running",
			Help:      "1 while a pipeline run is in progress, 0 otherwise.",
		}),
		LastSuccess: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "last_success_timestamp_seconds",
			Help:      "Unix time of the last successful pipeline run.",
		}),
		ValuesImputed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "values_imputed_total",
			Help:      "Missing measurements filled from the previous month of the same city.",
		}, []string{"column"}),
		ValuesUnresolved: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "values_unresolved_total",
			Help:      "Missing measurements with no earlier value to carry forward.",
		}, []string{"column"}),
		GroupsProduced: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "groups_produced_total",
			Help:      "Aggregated (entity, year) groups produced per dimension.",
		}, []string{"dimension"}),
		StageDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "stage_duration_seconds",
			Help:      "Duration of each pipeline stage.",
			Buckets:   []float64{0.001, 0.01, 0.05, 0.1, 0.5, 1, 2.5, 5, 10, 30},
		}, []string{"stage"}),
		SinkPublishes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sink_publish_total",
			Help:      "Report publications by sink and outcome.",
		}, []string{"sink", "outcome"}),
	}
}

// WriteTextfile dumps the default registry to path in the node_exporter
// textfile collector format.
func WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, prometheus.DefaultGatherer)
}
