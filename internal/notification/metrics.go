package notification

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	notificationsRouted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "notifications_routed_total",
			Help: "Notifications delivered, by type and channel",
		},
		[]string{"type", "channel"},
	)

	notificationsDeduped = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "notifications_deduped_total",
			Help: "Notifications suppressed by the dedup window",
		},
		[]string{"type"},
	)

	emailFailures = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "notifications_email_failures_total",
			Help: "Best-effort email sends that failed or timed out",
		},
	)
)

func recordRouted(typ Type, channel string) {
	notificationsRouted.WithLabelValues(string(typ), channel).Inc()
}

func recordDeduped(typ Type) {
	notificationsDeduped.WithLabelValues(string(typ)).Inc()
}

func recordEmailFailure() {
	emailFailures.Inc()
}
