package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	rentalsCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "fleetrental_rentals_created_total",
		Help: "Total number of rental transactions created",
	})

	rentalsReturned = promauto.NewCounter(prometheus.CounterOpts{
		Name: "fleetrental_rentals_returned_total",
		Help: "Total number of rental transactions closed by a return",
	})

	validationRejections = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "fleetrental_validation_rejections_total",
		Help: "Count of operations rejected by validation, by operation",
	}, []string{"operation"})

	storeSaveDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "fleetrental_store_save_duration_seconds",
		Help:    "Duration of whole-artifact rewrites",
		Buckets: prometheus.DefBuckets,
	}, []string{"artifact", "result"})

	activeRentals = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "fleetrental_active_rentals",
		Help: "Number of rentals currently out (not yet returned)",
	})

	overdueRentals = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "fleetrental_overdue_rentals",
		Help: "Number of active rentals past their agreed end date",
	})
)

// ObserveRentalCreated increments the created-rentals counter.
func ObserveRentalCreated() {
	rentalsCreated.Inc()
}

// ObserveRentalReturned increments the returned-rentals counter.
func ObserveRentalReturned() {
	rentalsReturned.Inc()
}

// ObserveValidationRejected counts a validation failure for an operation.
func ObserveValidationRejected(operation string) {
	validationRejections.WithLabelValues(operation).Inc()
}

// ObserveStoreSave records the duration of one artifact rewrite.
func ObserveStoreSave(artifact, result string, duration time.Duration) {
	storeSaveDuration.WithLabelValues(artifact, result).Observe(duration.Seconds())
}

// SetActiveRentals sets the active-rentals gauge.
func SetActiveRentals(count int) {
	if count < 0 {
		count = 0
	}
	activeRentals.Set(float64(count))
}

// SetOverdueRentals sets the overdue-rentals gauge.
func SetOverdueRentals(count int) {
	if count < 0 {
		count = 0
	}
	overdueRentals.Set(float64(count))
}
