package metrics

import "github.com/prometheus/client_golang/prometheus"

// AuditMetrics counts outcomes of the best-effort activity sink. Write
// failures never surface to callers, so the counter is the only place they
// become visible.
type AuditMetrics struct {
	written *prometheus.CounterVec
	failed  *prometheus.CounterVec
	dropped prometheus.Counter
}

// NewAuditMetrics registers the audit counters on the provided registerer.
func NewAuditMetrics(reg prometheus.Registerer) *AuditMetrics {
	if reg == nil {
		return &AuditMetrics{}
	}
	written := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "activity_log_written_total",
		Help: "Activity log rows written, by collection.",
	}, []string{"collection"})
	failed := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "activity_log_failed_total",
		Help: "Activity log writes that failed, by collection.",
	}, []string{"collection"})
	dropped := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "activity_log_dropped_total",
		Help: "Activity log entries dropped because the queue was full.",
	})
	reg.MustRegister(written, failed, dropped)
	return &AuditMetrics{
		written: written,
		failed:  failed,
		dropped: dropped,
	}
}

// IncWritten increments the written counter for the named collection.
func (a *AuditMetrics) IncWritten(collection string) {
	if a == nil || a.written == nil {
		return
	}
	a.written.WithLabelValues(normalizeLabel(collection)).Inc()
}

// IncFailed increments the failure counter for the named collection.
func (a *AuditMetrics) IncFailed(collection string) {
	if a == nil || a.failed == nil {
		return
	}
	a.failed.WithLabelValues(normalizeLabel(collection)).Inc()
}

// IncDropped increments the queue-overflow counter.
func (a *AuditMetrics) IncDropped() {
	if a == nil || a.dropped == nil {
		return
	}
	a.dropped.Inc()
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}
