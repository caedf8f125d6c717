// Package metrics exposes prometheus instrumentation for the billing
// pipeline.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/fx"
)

type Metrics struct {
	Registry *prometheus.Registry

	RecordsRejected *prometheus.CounterVec
	UserMonthsBill  prometheus.Counter
	BillingFaults   prometheus.Counter
	BatchDuration   prometheus.Histogram
}

func New() *Metrics {
	registry := prometheus.NewRegistry()

	m := &Metrics{
		Registry: registry,
		RecordsRejected: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "megaline_usage_records_rejected_total",
			Help: "Raw usage records rejected during validation.",
		}, []string{"channel"}),
		UserMonthsBill: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "megaline_user_months_billed_total",
			Help: "User-months successfully priced and persisted.",
		}),
		BillingFaults: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "megaline_billing_faults_total",
			Help: "User-months skipped due to referential faults.",
		}),
		BatchDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "megaline_billing_batch_duration_seconds",
			Help:    "Wall time of a full billing batch run.",
			Buckets: prometheus.DefBuckets,
		}),
	}

	registry.MustRegister(
		m.RecordsRejected,
		m.UserMonthsBill,
		m.BillingFaults,
		m.BatchDuration,
	)
	return m
}

// Module provides pipeline metrics.
var Module = fx.Module("observability.metrics",
	fx.Provide(New),
)
