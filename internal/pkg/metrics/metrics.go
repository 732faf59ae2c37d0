/*
Package metrics declares the prometheus collectors exported on /metrics.
*/
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Realtime connection metrics
var (
	// ActiveConnections tracks the number of registered WebSocket connections.
	ActiveConnections = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "ws_active_connections",
			Help: "Number of users with a live WebSocket connection",
		},
	)

	// ConnectionAttempts counts upgrade attempts by outcome
	// (accepted, origin_rejected, unauthorized, upgrade_failed).
	ConnectionAttempts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ws_connection_attempts_total",
			Help: "WebSocket connection attempts by result",
		},
		[]string{"result"},
	)

	// ConnectionsReplaced counts connections evicted by a newer connection of the same user.
	ConnectionsReplaced = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "ws_connections_replaced_total",
			Help: "Connections closed because the same user connected again",
		},
	)

	// InboundMessages counts frames received from clients by message type.
	InboundMessages = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ws_inbound_messages_total",
			Help: "Inbound WebSocket messages by type",
		},
		[]string{"type"},
	)
)

// Notification metrics
var (
	// MessagesSent counts outbound messages successfully queued, by message type.
	MessagesSent = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "notify_messages_sent_total",
			Help: "Outbound messages queued for delivery by type",
		},
		[]string{"type"},
	)

	// DeliveryFailures counts outbound messages that could not be queued.
	DeliveryFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "notify_delivery_failures_total",
			Help: "Outbound messages that failed to be delivered by type",
		},
		[]string{"type"},
	)

	// BroadcastRecipients observes how many users each broadcast reached.
	BroadcastRecipients = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "notify_broadcast_recipients",
			Help:    "Number of users reached per broadcast",
			Buckets: []float64{0, 1, 2, 5, 10, 25, 50, 100, 250},
		},
	)
)

// Background dispatch metrics
var (
	// DispatchQueueDepth tracks the number of jobs waiting in the worker pool.
	DispatchQueueDepth = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "dispatch_queue_depth",
			Help: "Jobs waiting in the background dispatch queue",
		},
		[]string{"pool"},
	)

	// DispatchRejected counts jobs rejected by the worker pool, by reason (full, stopped).
	DispatchRejected = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dispatch_rejected_total",
			Help: "Jobs rejected by the background dispatch queue",
		},
		[]string{"pool", "reason"},
	)
)

// HTTP metrics
var (
	// RateLimitedRequests counts requests rejected by an IP rate limiter.
	RateLimitedRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_rate_limited_requests_total",
			Help: "Requests rejected by rate limiting",
		},
		[]string{"limiter"},
	)

	// UpstreamRequests counts calls to external services by service and outcome.
	UpstreamRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "upstream_requests_total",
			Help: "Calls to external services by service and status",
		},
		[]string{"service", "status"},
	)
)
