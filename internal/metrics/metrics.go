package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	once sync.Once

	searches = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "urbanlink",
			Name:      "searches_total",
			Help:      "Catalog searches submitted.",
		},
	)

	bookings = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "urbanlink",
			Name:      "bookings_total",
			Help:      "Booking transitions by resulting status.",
		},
		[]string{"status"},
	)

	toasts = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "urbanlink",
			Name:      "toasts_total",
			Help:      "Toast notifications by severity.",
		},
		[]string{"severity"},
	)

	assistCalls = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "urbanlink",
			Name:      "assist_requests_total",
			Help:      "Generative API calls by kind and outcome.",
		},
		[]string{"kind", "outcome"},
	)
)

// Register registers Prometheus metrics. Safe to call multiple times.
func Register() {
	once.Do(func() {
		prometheus.MustRegister(searches, bookings, toasts, assistCalls)
	})
}

// IncSearch counts one submitted search.
func IncSearch() {
	searches.Inc()
}

// IncBooking counts a booking transition into the given status.
func IncBooking(status string) {
	bookings.WithLabelValues(status).Inc()
}

// IncToast counts an enqueued toast.
func IncToast(severity string) {
	toasts.WithLabelValues(severity).Inc()
}

// IncAssist counts a generative API call outcome.
func IncAssist(kind, outcome string) {
	assistCalls.WithLabelValues(kind, outcome).Inc()
}
