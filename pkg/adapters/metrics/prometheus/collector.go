package prometheus

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Collector implements MetricsCollector using Prometheus
type Collector struct {
	auditsTotal      *prometheus.CounterVec
	auditDuration    *prometheus.HistogramVec
	providerCalls    *prometheus.CounterVec
	providerLatency  *prometheus.HistogramVec
	consensusAverage prometheus.Histogram
	consensusSpread  prometheus.Histogram
	agreementTiers   *prometheus.CounterVec
	activeAudits     prometheus.Gauge
}

// NewCollector creates a new Prometheus metrics collector
func NewCollector() *Collector {
	return &Collector{
		auditsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "audittrail_audits_total",
				Help: "Total number of audit requests by outcome",
			},
			[]string{"status"},
		),
		auditDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "audittrail_audit_duration_seconds",
				Help:    "Audit request duration in seconds",
				Buckets: []float64{0.5, 1, 2, 5, 10, 30, 60, 120},
			},
			[]string{"status"},
		),
		providerCalls: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "audittrail_provider_calls_total",
				Help: "Total number of provider evaluations by provider and outcome",
			},
			[]string{"provider", "status"},
		),
		providerLatency: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "audittrail_provider_latency_seconds",
				Help:    "Provider answer+audit latency in seconds",
				Buckets: []float64{0.5, 1, 2, 5, 10, 20, 60},
			},
			[]string{"provider"},
		),
		consensusAverage: promauto.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "audittrail_consensus_average_confidence",
				Help:    "Average consensus confidence per audit",
				Buckets: prometheus.LinearBuckets(0, 10, 11),
			},
		),
		consensusSpread: promauto.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "audittrail_consensus_spread",
				Help:    "Confidence spread (max - min) per audit",
				Buckets: prometheus.LinearBuckets(0, 10, 11),
			},
		),
		agreementTiers: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "audittrail_agreement_tiers_total",
				Help: "Total audits by agreement tier",
			},
			[]string{"tier"},
		),
		activeAudits: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "audittrail_active_audits",
				Help: "Number of audits currently in flight",
			},
		),
	}
}

// RecordAudit records the outcome and duration of one audit request
func (c *Collector) RecordAudit(status string, duration time.Duration) {
	c.auditsTotal.WithLabelValues(status).Inc()
	c.auditDuration.WithLabelValues(status).Observe(duration.Seconds())
}

// RecordProviderCall records one provider evaluation
func (c *Collector) RecordProviderCall(provider, status string, duration time.Duration) {
	c.providerCalls.WithLabelValues(provider, status).Inc()
	c.providerLatency.WithLabelValues(provider).Observe(duration.Seconds())
}

// RecordConsensus records the consensus statistics of one audit
func (c *Collector) RecordConsensus(average, spread float64, tier string) {
	c.consensusAverage.Observe(average)
	c.consensusSpread.Observe(spread)
	c.agreementTiers.WithLabelValues(tier).Inc()
}

// SetActiveAudits sets the number of audits currently in flight
func (c *Collector) SetActiveAudits(count int) {
	c.activeAudits.Set(float64(count))
}
