// Package metrics holds the Prometheus collectors for wallet and reconciliation outcomes.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics is the set of collectors exported by the ledger. A nil *Metrics is valid and
// records nothing.
type Metrics struct {
	// Wallet operations by operation name and outcome code.
	OperationsTotal *prometheus.CounterVec
	// Version conflicts that caused a retry.
	VersionConflictsTotal *prometheus.CounterVec
	// Reconciliation runs by outcome: consistent, corrected, held or failed.
	ReconciliationsTotal *prometheus.CounterVec
	// Absolute coins absorbed by compensating adjustments.
	DriftCoinsTotal prometheus.Counter
	// Pending transactions failed by the stale-pending sweep.
	SweptTotal prometheus.Counter

	registry *prometheus.Registry
}

// New creates the collectors and registers them on a dedicated registry.
func New(namespace string) *Metrics {
	m := &Metrics{
		OperationsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "wallet",
			Name:      "operations_total",
			Help:      "Wallet operations by operation and outcome",
		}, []string{"operation", "outcome"}),
		VersionConflictsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "wallet",
			Name:      "version_conflicts_total",
			Help:      "Optimistic concurrency conflicts that were retried",
		}, []string{"operation"}),
		ReconciliationsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "projector",
			Name:      "reconciliations_total",
			Help:      "Balance reconciliations by outcome",
		}, []string{"outcome"}),
		DriftCoinsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "projector",
			Name:      "drift_coins_total",
			Help:      "Absolute coins recorded by compensating adjustments",
		}),
		SweptTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "projector",
			Name:      "swept_transactions_total",
			Help:      "Stale pending transactions marked failed",
		}),
		registry: prometheus.NewRegistry(),
	}
	m.registry.MustRegister(
		m.OperationsTotal,
		m.VersionConflictsTotal,
		m.ReconciliationsTotal,
		m.DriftCoinsTotal,
		m.SweptTotal,
	)
	return m
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Registry exposes the underlying registry, mainly for tests.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// ObserveOperation counts a finished wallet operation.
func (m *Metrics) ObserveOperation(operation, outcome string) {
	if m == nil {
		return
	}
	m.OperationsTotal.WithLabelValues(operation, outcome).Inc()
}

// ObserveConflict counts a retried version conflict.
func (m *Metrics) ObserveConflict(operation string) {
	if m == nil {
		return
	}
	m.VersionConflictsTotal.WithLabelValues(operation).Inc()
}

// ObserveReconciliation counts a reconciliation and the drift it absorbed.
func (m *Metrics) ObserveReconciliation(outcome string, drift int64) {
	if m == nil {
		return
	}
	m.ReconciliationsTotal.WithLabelValues(outcome).Inc()
	if drift < 0 {
		drift = -drift
	}
	m.DriftCoinsTotal.Add(float64(drift))
}

// ObserveSwept counts transactions failed by the sweep.
func (m *Metrics) ObserveSwept(n int) {
	if m == nil {
		return
	}
	m.SweptTotal.Add(float64(n))
}
