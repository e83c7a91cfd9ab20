// Package prom implements the metrics delegates on top of Prometheus
// collectors registered in a dedicated registry.
package prom

import (
	"io"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/common/expfmt"

	"github.com/heyvito/mpp/metrics"
)

const namespace = "mpp"

// Collector owns every Prometheus metric fed by the reader.
type Collector struct {
	registry *prometheus.Registry

	readsTotal         prometheus.Counter
	readFailuresTotal  prometheus.Counter
	passwordRejections prometheus.Counter
	readDuration       prometheus.Histogram

	stageDuration *prometheus.HistogramVec

	storeItemsTotal *prometheus.CounterVec
}

// New creates a Collector and registers its metrics on a fresh registry.
func New() *Collector {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)
	return &Collector{
		registry: reg,

		readsTotal: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "reads_total",
			Help:      "Total number of schedule reads",
		}),
		readFailuresTotal: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "read_failures_total",
			Help:      "Total number of schedule reads that failed",
		}),
		passwordRejections: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "password_rejections_total",
			Help:      "Total number of reads refused due to password protection",
		}),
		readDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "read_duration_seconds",
			Help:      "Schedule read duration in seconds",
			Buckets:   prometheus.DefBuckets,
		}),

		stageDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "stage_duration_seconds",
			Help:      "Duration of each read stage in seconds",
			Buckets:   prometheus.ExponentialBuckets(0.00001, 4, 10),
		}, []string{"stage"}),

		storeItemsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "store_items_total",
			Help:      "Total number of items handled by the record stores",
		}, []string{"kind"}),
	}
}

// Registry returns the registry holding the collector's metrics.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// Delegates returns the delegates to be provided to metrics.InstallDelegate.
func (c *Collector) Delegates() *metrics.Delegates {
	return &metrics.Delegates{
		Reader: readerDelegate{c},
		Stages: stageDelegate{c},
		Stores: storeDelegate{c},
	}
}

// WriteText writes every gathered metric family to w using the Prometheus
// text exposition format.
func (c *Collector) WriteText(w io.Writer) error {
	families, err := c.registry.Gather()
	if err != nil {
		return err
	}
	for _, mf := range families {
		if _, err = expfmt.MetricFamilyToText(w, mf); err != nil {
			return err
		}
	}
	return nil
}

func seconds(micros float64) float64 {
	return micros / 1e6
}

type readerDelegate struct{ c *Collector }

func (r readerDelegate) ReadCalls(float64)          { r.c.readsTotal.Inc() }
func (r readerDelegate) ReadFailures(float64)       { r.c.readFailuresTotal.Inc() }
func (r readerDelegate) PasswordRejections(float64) { r.c.passwordRejections.Inc() }
func (r readerDelegate) ReadLatency(v float64)      { r.c.readDuration.Observe(seconds(v)) }

type stageDelegate struct{ c *Collector }

func (s stageDelegate) observe(stage string, v float64) {
	s.c.stageDuration.WithLabelValues(stage).Observe(seconds(v))
}

func (s stageDelegate) PropertiesLatency(v float64)   { s.observe("properties", v) }
func (s stageDelegate) SubProjectsLatency(v float64)  { s.observe("subprojects", v) }
func (s stageDelegate) CalendarsLatency(v float64)    { s.observe("calendars", v) }
func (s stageDelegate) ResourcesLatency(v float64)    { s.observe("resources", v) }
func (s stageDelegate) TasksLatency(v float64)        { s.observe("tasks", v) }
func (s stageDelegate) RelationsLatency(v float64)    { s.observe("relations", v) }
func (s stageDelegate) AssignmentsLatency(v float64)  { s.observe("assignments", v) }
func (s stageDelegate) PresentationLatency(v float64) { s.observe("presentation", v) }

type storeDelegate struct{ c *Collector }

func (s storeDelegate) add(kind string, v float64) {
	s.c.storeItemsTotal.WithLabelValues(kind).Add(v)
}

func (s storeDelegate) FixedRecords(v float64)     { s.add("fixed_records", v) }
func (s storeDelegate) VarEntries(v float64)       { s.add("var_entries", v) }
func (s storeDelegate) DecryptedBytes(v float64)   { s.add("decrypted_bytes", v) }
func (s storeDelegate) AbsorbedEntities(v float64) { s.add("absorbed_entities", v) }
