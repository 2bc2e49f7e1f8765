package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all application metrics
type Metrics struct {
	// Appointment lifecycle
	AppointmentTransitions *prometheus.CounterVec
	AppointmentRejected    *prometheus.CounterVec

	// Event broker
	EventsPublished *prometheus.CounterVec
	EventsFailed    *prometheus.CounterVec

	// Notification worker
	NotificationsSent   *prometheus.CounterVec
	NotificationsFailed *prometheus.CounterVec
	NotificationLatency prometheus.Histogram

	// Demo-mode reads, tracked separately from scoped ones
	DemoRequests *prometheus.CounterVec
}

// NewMetrics creates all application metrics and registers them on reg.
// A nil reg falls back to the default registerer.
func NewMetrics(namespace string, reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)

	return &Metrics{
		AppointmentTransitions: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "appointment_transitions_total",
			Help:      "Appointment status transitions applied",
		}, []string{"from", "to"}),
		AppointmentRejected: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "appointment_transitions_rejected_total",
			Help:      "Appointment status transitions rejected by the transition table",
		}, []string{"from", "to"}),

		EventsPublished: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "events_published_total",
			Help:      "Appointment events published to the broker",
		}, []string{"event_type"}),
		EventsFailed: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "events_failed_total",
			Help:      "Appointment events that failed to publish",
		}, []string{"event_type"}),

		NotificationsSent: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "notifications_sent_total",
			Help:      "Notification emails sent",
		}, []string{"event_type"}),
		NotificationsFailed: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "notifications_failed_total",
			Help:      "Notification emails that failed to send",
		}, []string{"event_type"}),
		NotificationLatency: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "notification_duration_seconds",
			Help:      "Time spent sending a notification",
			Buckets:   []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
		}),

		DemoRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "demo_requests_total",
			Help:      "Requests served from the demo data path",
		}, []string{"resource"}),
	}
}

// New creates unregistered metrics, for tests and tools.
func New(namespace string) *Metrics {
	return NewMetrics(namespace, prometheus.NewRegistry())
}
