// Package observability holds hearth's Prometheus metrics.
//
// Counters are labelled by outcome code (the domain error kind's wire code,
// or "OK"), so dashboards can separate client mistakes from duplicates and
// from misconfiguration without parsing logs.
package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// OutcomeOK labels a successful operation.
const OutcomeOK = "OK"

// ─── Ledger Metrics ─────────────────────────────────────────────────────────

// MovementsTotal counts movement inserts by kind and outcome.
var MovementsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "hearth",
	Subsystem: "ledger",
	Name:      "movements_total",
	Help:      "Movement insert attempts by kind (transfer, payment) and outcome.",
}, []string{"kind", "outcome"})

// MovementDeletes counts movement deletions by kind and outcome.
var MovementDeletes = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "hearth",
	Subsystem: "ledger",
	Name:      "movement_deletes_total",
	Help:      "Movement delete attempts by kind and outcome.",
}, []string{"kind", "outcome"})

// DuplicateFastPath counts duplicates caught by the Bloom filter lookup
// before reaching the unique index.
var DuplicateFastPath = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "hearth",
	Subsystem: "ledger",
	Name:      "duplicate_fast_path_total",
	Help:      "Duplicate GUID pairs rejected by the pre-insert lookup, by kind.",
}, []string{"kind"})

// BloomFalsePositives counts filter hits that turned out not to exist.
var BloomFalsePositives = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "hearth",
	Subsystem: "ledger",
	Name:      "bloom_false_positives_total",
	Help:      "Bloom filter hits whose GUID pair was not persisted, by kind.",
}, []string{"kind"})

// ─── Reconciliation Metrics ─────────────────────────────────────────────────

// ValidationSubmissions counts reconciliation submissions.
var ValidationSubmissions = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "hearth",
	Subsystem: "reconcile",
	Name:      "submissions_total",
	Help:      "Validation amount submissions by transaction state and outcome.",
}, []string{"state", "outcome"})

// ─── Registry Metrics ───────────────────────────────────────────────────────

// AccountOperations counts registry mutations.
var AccountOperations = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "hearth",
	Subsystem: "registry",
	Name:      "operations_total",
	Help:      "Account registry mutations by operation and outcome.",
}, []string{"op", "outcome"})

// ─── HTTP Metrics ───────────────────────────────────────────────────────────

// HTTPRequests counts REST requests by method, route and status.
var HTTPRequests = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "hearth",
	Subsystem: "http",
	Name:      "requests_total",
	Help:      "REST requests by method, route pattern and status code.",
}, []string{"method", "route", "status"})

// HTTPLatency tracks REST latency by method and route.
var HTTPLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
	Namespace: "hearth",
	Subsystem: "http",
	Name:      "request_duration_seconds",
	Help:      "REST request latency by method and route pattern.",
	Buckets:   []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
}, []string{"method", "route"})

// Outcome returns the label for err: OutcomeOK for nil, otherwise the
// caller-supplied classifier's code.
func Outcome(err error, code func(error) string) string {
	if err == nil {
		return OutcomeOK
	}
	return code(err)
}
