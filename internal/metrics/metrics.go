package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics
type Metrics struct {
	RunCount        prometheus.Counter
	MessagesSent    prometheus.Counter
	MessageFailures prometheus.Counter
	RunDuration     prometheus.Histogram
	InvoicesFetched prometheus.Gauge
}

// NewMetrics creates new Prometheus metrics
func NewMetrics() *Metrics {
	return &Metrics{
		RunCount: promauto.NewCounter(prometheus.CounterOpts{
			Name: "billing_reminder_run_count",
			Help: "Total number of notification pipeline runs",
		}),
		MessagesSent: promauto.NewCounter(prometheus.CounterOpts{
			Name: "billing_reminder_messages_sent",
			Help: "Total number of successfully delivered reminder messages",
		}),
		MessageFailures: promauto.NewCounter(prometheus.CounterOpts{
			Name: "billing_reminder_message_failures",
			Help: "Total number of reminder messages the gateway rejected",
		}),
		RunDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "billing_reminder_run_duration_seconds",
			Help:    "Time spent on one pipeline run",
			Buckets: prometheus.DefBuckets,
		}),
		InvoicesFetched: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "billing_reminder_invoices_fetched",
			Help: "Number of invoices fetched from the billing provider in the last run",
		}),
	}
}
