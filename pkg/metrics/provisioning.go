package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// ProvisioningMetrics records outcomes of tenant create/teardown workflows.
type ProvisioningMetrics struct {
	duration      *prometheus.HistogramVec
	outcomes      *prometheus.CounterVec
	compensations *prometheus.CounterVec
	dangling      prometheus.Counter
}

// NewProvisioningMetrics registers the provisioning metrics on the provided registerer.
func NewProvisioningMetrics(reg prometheus.Registerer) *ProvisioningMetrics {
	if reg == nil {
		return &ProvisioningMetrics{}
	}
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "storefront_provisioning_duration_seconds",
		Help:    "Duration of tenant provisioning workflows in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation"})
	outcomes := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "storefront_provisioning_total",
		Help: "Provisioning workflow executions by outcome.",
	}, []string{"operation", "outcome"})
	compensations := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "storefront_provisioning_compensations_total",
		Help: "Compensating actions executed after a failed step.",
	}, []string{"step"})
	dangling := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "storefront_dangling_credentials_total",
		Help: "Credentials left behind after a tenant teardown.",
	})
	reg.MustRegister(duration, outcomes, compensations, dangling)
	return &ProvisioningMetrics{
		duration:      duration,
		outcomes:      outcomes,
		compensations: compensations,
		dangling:      dangling,
	}
}

// Observe records the duration and outcome of one workflow run.
func (m *ProvisioningMetrics) Observe(operation, outcome string, elapsed time.Duration) {
	if m == nil || m.duration == nil {
		return
	}
	op := normalizeLabel(operation)
	m.duration.WithLabelValues(op).Observe(elapsed.Seconds())
	m.outcomes.WithLabelValues(op, normalizeLabel(outcome)).Inc()
}

// IncCompensation counts one compensating action for the named step.
func (m *ProvisioningMetrics) IncCompensation(step string) {
	if m == nil || m.compensations == nil {
		return
	}
	m.compensations.WithLabelValues(normalizeLabel(step)).Inc()
}

// IncDangling counts a credential that could not be removed.
func (m *ProvisioningMetrics) IncDangling() {
	if m == nil || m.dangling == nil {
		return
	}
	m.dangling.Inc()
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}
