package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dashboard_http_requests_total",
			Help: "Total number of HTTP requests by route and status",
		},
		[]string{"route", "method", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "dashboard_http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"route", "method"},
	)

	HTTPRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "dashboard_http_requests_in_flight",
			Help: "Number of HTTP requests currently being served",
		},
	)

	RecipientsResolved = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "dashboard_recipients_resolved",
			Help:    "Number of recipients resolved per targeting request",
			Buckets: prometheus.ExponentialBuckets(1, 4, 8),
		},
		[]string{"kind"},
	)

	NotificationsInserted = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "dashboard_notifications_inserted_total",
			Help: "Total number of notification rows committed",
		},
	)

	NotificationDispatchFailures = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "dashboard_notification_dispatch_failures_total",
			Help: "Total number of failed bulk notification writes",
		},
	)

	BroadcastEmails = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dashboard_broadcast_emails_total",
			Help: "Total number of broadcast email attempts by provider and result",
		},
		[]string{"provider", "result"},
	)

	BroadcastRecipientsDropped = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "dashboard_broadcast_recipients_dropped_total",
			Help: "Recipients discarded by the broadcast batch cap",
		},
	)

	VerificationTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dashboard_verification_transitions_total",
			Help: "Verification status transitions",
		},
		[]string{"from", "to"},
	)

	GateDecisions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dashboard_gate_decisions_total",
			Help: "Route and request gate outcomes",
		},
		[]string{"gate", "outcome"},
	)

	SessionEvents = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dashboard_session_events_total",
			Help: "Session lifecycle events",
		},
		[]string{"event"},
	)

	PriceEvents = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dashboard_price_events_total",
			Help: "Realtime price change events consumed",
		},
		[]string{"result"},
	)

	PriceStreamClients = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "dashboard_price_stream_clients",
			Help: "Connected live price stream clients",
		},
	)
)
