package presence

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	presenceUpdates = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "presence_updates_total",
			Help: "Presence transitions, by resulting state",
		},
		[]string{"state"},
	)

	sweptUsers = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "presence_swept_users_total",
			Help: "Users demoted to offline by the stale sweeper",
		},
	)
)

func recordPresenceUpdate(online bool) {
	state := "offline"
	if online {
		state = "online"
	}
	presenceUpdates.WithLabelValues(state).Inc()
}

func recordSwept(n int64) {
	sweptUsers.Add(float64(n))
}
