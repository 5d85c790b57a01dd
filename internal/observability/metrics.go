package observability

import (
	"strconv"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	registerOnce sync.Once

	connectAttempts = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "enbagent",
			Subsystem: "session",
			Name:      "connect_attempts_total",
			Help:      "Connection attempts to the controller.",
		},
		[]string{"success"},
	)
	sessionConnected = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "enbagent",
			Subsystem: "session",
			Name:      "connected",
			Help:      "1 while the controller session is established.",
		},
	)
	messagesSent = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "enbagent",
			Subsystem: "protocol",
			Name:      "messages_sent_total",
			Help:      "Outbound messages by entity class.",
		},
		[]string{"entity"},
	)
	messagesReceived = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "enbagent",
			Subsystem: "protocol",
			Name:      "messages_received_total",
			Help:      "Inbound messages by entity class.",
		},
		[]string{"entity"},
	)
	messagesDropped = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "enbagent",
			Subsystem: "protocol",
			Name:      "messages_dropped_total",
			Help:      "Inbound messages dropped because they failed to decode.",
		},
	)
	unexpectedEntity = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "enbagent",
			Subsystem: "protocol",
			Name:      "unexpected_entity_total",
			Help:      "Inbound messages with an entity class the agent does not serve.",
		},
	)
)

func RegisterMetrics() {
	registerOnce.Do(func() {
		prometheus.MustRegister(
			connectAttempts, sessionConnected,
			messagesSent, messagesReceived,
			messagesDropped, unexpectedEntity,
		)
	})
}

func RecordConnectAttempt(success bool) {
	RegisterMetrics()
	connectAttempts.WithLabelValues(strconv.FormatBool(success)).Inc()
	if success {
		sessionConnected.Set(1)
	}
}

func RecordDisconnected() {
	RegisterMetrics()
	sessionConnected.Set(0)
}

func RecordMessageSent(entity string) {
	RegisterMetrics()
	messagesSent.WithLabelValues(entity).Inc()
}

func RecordMessageReceived(entity string) {
	RegisterMetrics()
	messagesReceived.WithLabelValues(entity).Inc()
}

func RecordMessageDropped() {
	RegisterMetrics()
	messagesDropped.Inc()
}

func RecordUnexpectedEntity() {
	RegisterMetrics()
	unexpectedEntity.Inc()
}
