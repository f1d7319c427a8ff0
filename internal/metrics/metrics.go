package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Metrics struct {
	registry          *prometheus.Registry
	apiRequests       *prometheus.CounterVec // cloudflare api requests
	reconcileRuns     *prometheus.CounterVec // dns reconciliation runs
	reconcileDuration prometheus.Histogram   // time to reconcile
	reconcileIssues   prometheus.Gauge       // issues found by last reconcile
	fixOperations     *prometheus.CounterVec // corrective writes
	componentStatus   *prometheus.GaugeVec   // per component health (0 healthy, 1 degraded, 2 unhealthy)
}

// Public interface for metrics operations
func (m *Metrics) IncAPIRequest(resource, operation string, success bool) {
	if !isValidResource(resource) || !isValidOperation(operation) {
		return
	}
	status := boolToResult(success)
	m.apiRequests.WithLabelValues(resource, operation, status).Inc()
}

func (m *Metrics) IncReconcileRun(success bool) {
	status := boolToResult(success)
	m.reconcileRuns.WithLabelValues(status).Inc()
}

func (m *Metrics) SetReconcileDuration(duration time.Duration) {
	m.reconcileDuration.Observe(duration.Seconds())
}

func (m *Metrics) SetReconcileIssues(count int) {
	m.reconcileIssues.Set(float64(count))
}

func (m *Metrics) IncFixOperation(operation string, success bool) {
	if !isValidOperation(operation) {
		return
	}
	status := boolToResult(success)
	m.fixOperations.WithLabelValues(operation, status).Inc()
}

func (m *Metrics) SetComponentStatus(component string, severity int) {
	m.componentStatus.WithLabelValues(component).Set(float64(severity))
}

// Validation helpers
func boolToResult(b bool) string {
	if b {
		return "success"
	}
	return "failure"
}

func isValidOperation(op string) bool {
	switch op {
	case "list", "create", "update", "delete":
		return true
	}
	return false
}

func isValidResource(r string) bool {
	switch r {
	case "dns", "zones", "pages", "workers", "certificates":
		return true
	}
	return false
}

func New() *Metrics {
	registry := prometheus.NewRegistry()
	namespace := "spavevision_infra"

	m := &Metrics{
		registry: registry,

		apiRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "api_requests_total",
			Help:      "Total Cloudflare API requests",
		}, []string{"resource", "operation", "status"}),

		reconcileRuns: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "reconcile_runs_total",
			Help:      "Total DNS reconciliation runs",
		}, []string{"status"}),

		reconcileDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "reconcile_duration_seconds",
			Help:      "Duration of DNS reconciliation runs in seconds",
			Buckets:   prometheus.DefBuckets,
		}),

		reconcileIssues: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "reconcile_issues_current",
			Help:      "Issues found by the most recent reconciliation",
		}),

		fixOperations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "fix_operations_total",
			Help:      "Total corrective DNS writes",
		}, []string{"operation", "status"}),

		componentStatus: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "component_status",
			Help:      "Component health severity (0 healthy, 1 degraded, 2 unhealthy)",
		}, []string{"component"}),
	}

	registry.MustRegister(
		m.apiRequests,
		m.reconcileRuns,
		m.reconcileDuration,
		m.reconcileIssues,
		m.fixOperations,
		m.componentStatus,
	)
	return m
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
