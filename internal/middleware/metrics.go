package middleware

import (
	"context"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/menezmethod/handlerchain/internal/chain"
)

// Collector holds the chain metrics registered on one registry.
type Collector struct {
	unitInvocations *prometheus.CounterVec
	unitDuration    *prometheus.HistogramVec
	chainResults    *prometheus.CounterVec
}

// NewCollector registers the chain metrics on reg.
func NewCollector(reg prometheus.Registerer) *Collector {
	f := promauto.With(reg)
	return &Collector{
		unitInvocations: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: "handlerchain",
			Subsystem: "unit",
			Name:      "invocations_total",
			Help:      "Total unit invocations by chain, unit, and whether the unit delegated.",
		}, []string{"chain", "unit", "delegated"}),

		unitDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "handlerchain",
			Subsystem: "unit",
			Name:      "duration_seconds",
			Help:      "Unit latency in seconds, including the rest of the chain it delegated to.",
			Buckets:   []float64{0.000001, 0.00001, 0.0001, 0.001, 0.01, 0.1, 1},
		}, []string{"chain", "unit"}),

		chainResults: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: "handlerchain",
			Subsystem: "chain",
			Name:      "results_total",
			Help:      "Total chain results by chain and outcome.",
		}, []string{"chain", "outcome"}),
	}
}

// ObserveResult records the final outcome of one chain run.
func (c *Collector) ObserveResult(chainName, outcome string) {
	c.chainResults.WithLabelValues(chainName, outcome).Inc()
}

// Metrics returns a decorator that records Prometheus metrics for every unit.
func Metrics[In, Out any](c *Collector, chainName string) chain.Decorator[In, Out] {
	return func(unit string) chain.Middleware[In, Out] {
		return func(link chain.Link[In, Out]) chain.Link[In, Out] {
			return func(next chain.Handler[In, Out]) chain.Handler[In, Out] {
				return func(ctx context.Context, in In) Out {
					timer := prometheus.NewTimer(c.unitDuration.WithLabelValues(chainName, unit))
					out, delegated := invoke(ctx, link, next, in)
					timer.ObserveDuration()

					c.unitInvocations.WithLabelValues(chainName, unit, strconv.FormatBool(delegated)).Inc()
					return out
				}
			}
		}
	}
}
