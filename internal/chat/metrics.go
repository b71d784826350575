package chat

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var messagesSentTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Name: "chat_messages_sent_total",
		Help: "Total number of chat messages persisted",
	},
)

func recordMessageSent() {
	messagesSentTotal.Inc()
}
