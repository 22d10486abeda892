package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "velo_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "velo_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	CartEventsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "velo_cart_events_total",
			Help: "Total number of cart mutations by event type",
		},
		[]string{"event"},
	)

	SelectionResolutionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "velo_selection_resolutions_total",
			Help: "Attempts to turn a slot selection into a cart line",
		},
		[]string{"result"},
	)

	CheckoutsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "velo_checkouts_total",
			Help: "Checkout hand-offs by status",
		},
		[]string{"status"},
	)

	CheckoutQueueLength = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "velo_checkout_queue_length",
			Help: "Current length of the checkout queue",
		},
	)

	ActiveSessions = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "velo_active_sessions",
			Help: "Number of live browsing sessions",
		},
	)
)

func RecordHTTPRequest(method, path, status string, duration float64) {
	HTTPRequestsTotal.WithLabelValues(method, path, status).Inc()
	HTTPRequestDuration.WithLabelValues(method, path).Observe(duration)
}

func RecordCartEvent(event string) {
	CartEventsTotal.WithLabelValues(event).Inc()
}

func RecordSelectionResolution(result string) {
	SelectionResolutionsTotal.WithLabelValues(result).Inc()
}

func RecordCheckout(status string) {
	CheckoutsTotal.WithLabelValues(status).Inc()
}

func SetActiveSessions(n int) {
	ActiveSessions.Set(float64(n))
}

func SetCheckoutQueueLength(n int64) {
	CheckoutQueueLength.Set(float64(n))
}
