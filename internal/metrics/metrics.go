package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "inkwell"

var (
	InteractionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "interaction",
		Name:      "applied_total",
		Help:      "Interactions applied, by action and outcome (added, removed, unchanged)",
	}, []string{"action", "outcome"})

	NotificationsCreatedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "notification",
		Name:      "created_total",
		Help:      "Notifications persisted, by type",
	}, []string{"type"})

	NotificationsSkippedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "notification",
		Name:      "skipped_total",
		Help:      "Notifications not created, by reason",
	}, []string{"reason"})

	NotificationPushTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "notification",
		Name:      "push_total",
		Help:      "Real-time push attempts, by result (delivered, offline)",
	}, []string{"result"})

	RealtimeSessionsActive = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: "realtime",
		Name:      "sessions_active",
		Help:      "Registered websocket sessions",
	})

	RealtimeDroppedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "realtime",
		Name:      "dropped_total",
		Help:      "Sessions dropped because their send buffer was full",
	})
)
