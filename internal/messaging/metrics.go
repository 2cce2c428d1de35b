package messaging

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	messagesSent = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "messaging_messages_sent_total",
			Help: "Messages stored",
		},
	)

	messagesDelivered = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "messaging_messages_delivered_total",
			Help: "Messages stamped delivered on list",
		},
	)

	messagesRead = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "messaging_messages_read_total",
			Help: "Messages stamped read",
		},
	)
)

func recordMessageSent() {
	messagesSent.Inc()
}

func recordDelivered(n int64) {
	messagesDelivered.Add(float64(n))
}

func recordRead(n int64) {
	messagesRead.Add(float64(n))
}
