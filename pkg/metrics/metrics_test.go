package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestObserve(t *testing.T) {
	m := New("coin")

	m.ObserveOperation("debit", "ok")
	m.ObserveOperation("debit", "insufficient_balance")
	m.ObserveOperation("debit", "ok")
	m.ObserveConflict("debit")
	m.ObserveReconciliation("corrected", -40)
	m.ObserveSwept(3)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.OperationsTotal.WithLabelValues("debit", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.VersionConflictsTotal.WithLabelValues("debit")))
	assert.Equal(t, 40.0, testutil.ToFloat64(m.DriftCoinsTotal))
	assert.Equal(t, 3.0, testutil.ToFloat64(m.SweptTotal))
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.ObserveOperation("credit", "ok")
		m.ObserveConflict("credit")
		m.ObserveReconciliation("consistent", 0)
		m.ObserveSwept(1)
	})
}

func TestHandler(t *testing.T) {
	m := New("coin")
	m.ObserveOperation("credit", "ok")

	rr := httptest.NewRecorder()
	m.Handler().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `coin_wallet_operations_total{operation="credit",outcome="ok"} 1`)
}
