// Package metrics exposes the service's Prometheus instrumentation.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "ledger"

// Collector implements the orchestrator's metrics surface on Prometheus.
type Collector struct {
	transfers      *prometheus.CounterVec
	durations      *prometheus.HistogramVec
	remoteOutcomes *prometheus.CounterVec
	replays        prometheus.Counter
	compensations  *prometheus.CounterVec
	reconciliation prometheus.Counter
	registry       *prometheus.Registry
}

// NewCollector builds a Collector on its own registry so tests can hold
// several instances without duplicate-registration panics.
func NewCollector() *Collector {
	reg := prometheus.NewRegistry()
	c := &Collector{
		registry: reg,
		transfers: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "transfers_total",
			Help:      "Transfer attempts reaching a terminal status.",
		}, []string{"type", "status"}),
		durations: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "operation_duration_seconds",
			Help:      "End-to-end duration of ledger operations.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"operation"}),
		remoteOutcomes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "remote_call_outcomes_total",
			Help:      "Wallet service mutation outcomes by operation.",
		}, []string{"operation", "outcome"}),
		replays: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "idempotent_replays_total",
			Help:      "Submissions answered from the ledger by idempotency key.",
		}),
		compensations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "compensations_total",
			Help:      "Compensation runs after a failed credit leg.",
		}, []string{"result"}),
		reconciliation: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "reconciliation_required_total",
			Help:      "Records flagged for manual reconciliation. Alert on any increase.",
		}),
	}
	reg.MustRegister(
		c.transfers,
		c.durations,
		c.remoteOutcomes,
		c.replays,
		c.compensations,
		c.reconciliation,
		collectors.NewGoCollector(),
	)
	return c
}

func (c *Collector) RecordTransfer(txType, status string) {
	c.transfers.WithLabelValues(txType, status).Inc()
}

func (c *Collector) RecordOperationDuration(operation string, d time.Duration) {
	c.durations.WithLabelValues(operation).Observe(d.Seconds())
}

func (c *Collector) RecordRemoteOutcome(operation, outcome string) {
	c.remoteOutcomes.WithLabelValues(operation, outcome).Inc()
}

func (c *Collector) RecordIdempotentReplay() {
	c.replays.Inc()
}

func (c *Collector) RecordCompensation(result string) {
	c.compensations.WithLabelValues(result).Inc()
}

func (c *Collector) RecordReconciliationRequired() {
	c.reconciliation.Inc()
}

// Handler serves the collector's registry in Prometheus exposition format.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}
