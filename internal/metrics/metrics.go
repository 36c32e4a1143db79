// Package metrics provides Prometheus metrics for vired.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Outcome labels
const (
	OutcomeSucceeded = "succeeded"
	OutcomeFailed    = "failed"
	OutcomeSkipped   = "skipped"
)

var (
	operationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "vired_operations_total",
			Help: "Filesystem operations applied from listing edits",
		},
		[]string{"kind", "outcome"},
	)

	undoTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "vired_undo_total",
			Help: "Undo and redo attempts",
		},
		[]string{"direction", "outcome"},
	)

	batchDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "vired_batch_duration_seconds",
			Help:    "Time to apply one batch of operations",
			Buckets: prometheus.DefBuckets,
		},
	)

	trashedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "vired_trash_moves_total",
			Help: "Nodes moved into the trash",
		},
	)

	activeSessions = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "vired_active_edit_sessions",
			Help: "Directories currently in edit mode",
		},
	)
)

// Handler returns the Prometheus metrics HTTP handler.
func Handler() http.Handler {
	return promhttp.Handler()
}

// RecordOperation counts one executed operation.
func RecordOperation(kind, outcome string) {
	operationsTotal.WithLabelValues(kind, outcome).Inc()
}

// RecordBatch records how long a batch took.
func RecordBatch(duration time.Duration) {
	batchDuration.Observe(duration.Seconds())
}

// RecordUndo counts an undo or redo attempt.
func RecordUndo(direction string, success bool) {
	outcome := OutcomeSucceeded
	if !success {
		outcome = OutcomeFailed
	}
	undoTotal.WithLabelValues(direction, outcome).Inc()
}

// RecordTrash counts a move into the trash.
func RecordTrash() {
	trashedTotal.Inc()
}

// SetActiveSessions sets the number of directories in edit mode.
func SetActiveSessions(n int) {
	activeSessions.Set(float64(n))
}
