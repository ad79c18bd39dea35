package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "lpg_http_requests_total",
		Help: "Total HTTP requests by method, path and status",
	}, []string{"method", "path", "status"})

	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "lpg_http_request_duration_seconds",
		Help:    "HTTP request latency",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path"})

	// Domain gauges, refreshed by the background jobs.
	ReconciliationDiscrepancies = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "lpg_reconciliation_discrepancies",
		Help: "Customers whose cached balance drifted from their ledger sum, per tenant",
	}, []string{"tenant"})

	PendingHandovers = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "lpg_pending_handovers",
		Help: "Handover requests awaiting admin approval, per tenant",
	}, []string{"tenant"})

	PendingCompensations = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "lpg_pending_compensations",
		Help: "Durable compensation rows not yet drained",
	})

	ProcedureCallsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "lpg_procedure_calls_total",
		Help: "Stored procedure invocations by name and outcome",
	}, []string{"procedure", "outcome"})
)
