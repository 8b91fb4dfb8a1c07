package observability

import (
	"fmt"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// PolarCollector exposes Prometheus metrics for polar editing and telemetry.
type PolarCollector struct {
	gatherer prometheus.Gatherer

	ParseFailures       *prometheus.CounterVec
	Mutations           *prometheus.CounterVec
	RefetchesTotal      prometheus.Counter
	RefetchesPending    prometheus.Gauge
	TelemetryClassified *prometheus.CounterVec
}

// NewPolarCollector registers the polar metrics against reg, or the default
// registerer when reg is nil.
func NewPolarCollector(reg prometheus.Registerer) (*PolarCollector, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	gatherer := prometheus.DefaultGatherer
	if g, ok := reg.(prometheus.Gatherer); ok {
		gatherer = g
	}

	parseFailures, err := registerCounterVec(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "polar_parse_failures_total",
		Help: "Polar files rejected by the parser, by error kind.",
	}, []string{"kind"}), "polar_parse_failures_total")
	if err != nil {
		return nil, err
	}

	mutations, err := registerCounterVec(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "polar_mutations_total",
		Help: "Polar mutation operations applied, by operation and whether they changed the model.",
	}, []string{"op", "changed"}), "polar_mutations_total")
	if err != nil {
		return nil, err
	}

	refetches, err := registerCounter(reg, prometheus.NewCounter(prometheus.CounterOpts{
		Name: "polar_telemetry_refetches_total",
		Help: "Band telemetry refetches executed by the scheduler.",
	}), "polar_telemetry_refetches_total")
	if err != nil {
		return nil, err
	}

	pending, err := registerGauge(reg, prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "polar_telemetry_refetches_pending",
		Help: "Refetch tasks waiting for their debounce interval.",
	}), "polar_telemetry_refetches_pending")
	if err != nil {
		return nil, err
	}

	classified, err := registerCounterVec(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "polar_telemetry_points_classified_total",
		Help: "Telemetry points run through band classification, by outcome.",
	}, []string{"outcome"}), "polar_telemetry_points_classified_total")
	if err != nil {
		return nil, err
	}

	return &PolarCollector{
		gatherer:            gatherer,
		ParseFailures:       parseFailures,
		Mutations:           mutations,
		RefetchesTotal:      refetches,
		RefetchesPending:    pending,
		TelemetryClassified: classified,
	}, nil
}

// Handler serves the collector's registry in the Prometheus text format.
func (c *PolarCollector) Handler() http.Handler {
	if c == nil || c.gatherer == nil {
		return promhttp.Handler()
	}
	return promhttp.HandlerFor(c.gatherer, promhttp.HandlerOpts{})
}

// IncParseFailure counts a rejected polar file.
func (c *PolarCollector) IncParseFailure(kind string) {
	if c == nil {
		return
	}
	c.ParseFailures.WithLabelValues(kind).Inc()
}

// ObserveMutation counts a mutation operation.
func (c *PolarCollector) ObserveMutation(op string, changed bool) {
	if c == nil {
		return
	}
	c.Mutations.WithLabelValues(op, fmt.Sprint(changed)).Inc()
}

// IncRefetch counts an executed refetch.
func (c *PolarCollector) IncRefetch() {
	if c == nil {
		return
	}
	c.RefetchesTotal.Inc()
}

// SetPendingRefetches updates the pending refetch gauge.
func (c *PolarCollector) SetPendingRefetches(n int) {
	if c == nil {
		return
	}
	c.RefetchesPending.Set(float64(n))
}

// AddClassified counts telemetry points kept and dropped by a band filter.
func (c *PolarCollector) AddClassified(kept, dropped int) {
	if c == nil {
		return
	}
	c.TelemetryClassified.WithLabelValues("kept").Add(float64(kept))
	c.TelemetryClassified.WithLabelValues("dropped").Add(float64(dropped))
}

func registerCounter(reg prometheus.Registerer, counter prometheus.Counter, name string) (prometheus.Counter, error) {
	if err := reg.Register(counter); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(prometheus.Counter); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return counter, nil
}

func registerCounterVec(reg prometheus.Registerer, vec *prometheus.CounterVec, name string) (*prometheus.CounterVec, error) {
	if err := reg.Register(vec); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(*prometheus.CounterVec); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return vec, nil
}

func registerGauge(reg prometheus.Registerer, gauge prometheus.Gauge, name string) (prometheus.Gauge, error) {
	if err := reg.Register(gauge); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(prometheus.Gauge); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return gauge, nil
}
