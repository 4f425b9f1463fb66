package metrics

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the counters of one kocsv run. They are written once, at
// the end of the run, in the Prometheus text format so node_exporter's
// textfile collector can pick them up.
type Metrics struct {
	registry *prometheus.Registry

	FilesProcessed         prometheus.Counter
	BlocksParsed           prometheus.Counter
	LinesIgnored           prometheus.Counter
	ExperimentsOverwritten prometheus.Counter
	ReportRows             prometheus.Gauge
}

// New creates a Metrics instance backed by its own registry.
func New(namespace string) *Metrics {
	if namespace == "" {
		namespace = "kocsv"
	}
	registry := prometheus.NewRegistry()
	factory := promauto.With(registry)

	return &Metrics{
		registry: registry,
		FilesProcessed: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "files_processed_total",
			Help:      "Total number of benchmark logs processed",
		}),
		BlocksParsed: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "blocks_parsed_total",
			Help:      "Total number of experiment blocks parsed",
		}),
		LinesIgnored: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "lines_ignored_total",
			Help:      "Total number of unrecognized lines skipped inside blocks",
		}),
		ExperimentsOverwritten: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "experiments_overwritten_total",
			Help:      "Total number of experiments replaced by a later block with the same parameters",
		}),
		ReportRows: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "report_rows",
			Help:      "Number of data rows in the generated report",
		}),
	}
}

// Registry exposes the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// WriteToTextfile writes all metrics to path, replacing it atomically.
func (m *Metrics) WriteToTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, m.registry); err != nil {
		return fmt.Errorf("failed to write metrics to %s: %w", path, err)
	}
	return nil
}
