package metrics

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"

	"liquid-ca/internal/sims/liquid"
)

const namespace = "liquid"

// Collector exports per-tick flow counters to Prometheus. It implements
// liquid.Diagnostics.
type Collector struct {
	activeCurrent prometheus.Gauge
	activeNext    prometheus.Gauge
	ticks         prometheus.Counter
	promotions    prometheus.Counter
	evaluated     prometheus.Counter
	injected      prometheus.Counter
	transitions   *prometheus.CounterVec
}

// NewCollector creates the flow metrics and registers them with reg. A nil
// registry leaves them unregistered.
func NewCollector(reg prometheus.Registerer) (*Collector, error) {
	c := &Collector{
		activeCurrent: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "active_current",
			Help:      "Cells left in the current active set when the tick began.",
		}),
		activeNext: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "active_next",
			Help:      "Cells waiting in the next active set when the tick began.",
		}),
		ticks: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "ticks_total",
			Help:      "Flow ticks processed.",
		}),
		promotions: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "promotions_total",
			Help:      "Ticks spent promoting the next active set.",
		}),
		evaluated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "evaluated_cells_total",
			Help:      "Cells drained from the active set and resolved.",
		}),
		injected: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "injected_units_total",
			Help:      "Liquid units added through the event gateway.",
		}),
		transitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "transitions_total",
			Help:      "Committed transitions by outcome.",
		}, []string{"outcome"}),
	}

	if reg != nil {
		for _, col := range []prometheus.Collector{
			c.activeCurrent, c.activeNext, c.ticks, c.promotions,
			c.evaluated, c.injected, c.transitions,
		} {
			if err := reg.Register(col); err != nil {
				return nil, fmt.Errorf("register flow metrics: %w", err)
			}
		}
	}
	return c, nil
}

// ObserveTick records one tick.
func (c *Collector) ObserveTick(s liquid.TickStats) {
	c.activeCurrent.Set(float64(s.Current))
	c.activeNext.Set(float64(s.Next))
	c.ticks.Inc()
	if s.Promoted {
		c.promotions.Inc()
	}
	c.evaluated.Add(float64(s.Evaluated))
	c.injected.Add(float64(s.Injected))
	c.transitions.WithLabelValues(liquid.OutcomeTransferred.String()).Add(float64(s.Transferred))
	c.transitions.WithLabelValues(liquid.OutcomeEvaporated.String()).Add(float64(s.Evaporated))
	c.transitions.WithLabelValues(liquid.OutcomeStale.String()).Add(float64(s.Stale))
}
