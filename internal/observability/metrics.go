package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	sessionsSaved = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "logbook",
		Name:      "sessions_saved_total",
		Help:      "Sessions written, including imported ones.",
	})
	setsSaved = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "logbook",
		Name:      "sets_saved_total",
		Help:      "Sets written, including imported ones.",
	})
	importsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "logbook",
		Name:      "backup_imports_total",
		Help:      "Completed imports by mode (merge, replace, alpha).",
	}, []string{"mode"})
	failures = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "logbook",
		Name:      "operation_failures_total",
		Help:      "Failed store operations by operation name.",
	}, []string{"op"})
	lastSessionGauge = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "logbook",
		Name:      "last_session_saved_timestamp_seconds",
		Help:      "Unix timestamp of the most recent session saved.",
	})
)

func init() {
	prometheus.MustRegister(sessionsSaved, setsSaved, importsTotal, failures, lastSessionGauge)
}

// RecordSessionSaved counts one saved session with its sets and moves the
// last-saved watermark.
func RecordSessionSaved(sets int, ts time.Time) {
	sessionsSaved.Inc()
	setsSaved.Add(float64(sets))
	if !ts.IsZero() {
		lastSessionGauge.Set(float64(ts.Unix()))
	}
}

// RecordImport counts a completed import and the records it wrote.
func RecordImport(mode string, sessions, sets int) {
	importsTotal.WithLabelValues(mode).Inc()
	sessionsSaved.Add(float64(sessions))
	setsSaved.Add(float64(sets))
}

// RecordFailure counts a failed operation.
func RecordFailure(op string) {
	failures.WithLabelValues(op).Inc()
}
