package worker

import (
	"context"
	"log/slog"
	"time"

	"github.com/yourorg/fleetrental/internal/domain"
	"github.com/yourorg/fleetrental/internal/observability/metrics"
)

// RentalSource is the slice of the domain service the worker reads from.
type RentalSource interface {
	ActiveRentals() []domain.Rental
	FindVehicleByID(id int) (domain.Vehicle, bool)
}

// OverdueWorker periodically flags active rentals whose agreed end date has
// passed. It only observes: returns are operator-driven, so the worker
// never mutates a rental or a vehicle.
type OverdueWorker struct {
	rentals  RentalSource
	logger   *slog.Logger
	interval time.Duration

	now func() time.Time
}

// NewOverdueWorker creates an overdue watcher.
func NewOverdueWorker(rentals RentalSource, logger *slog.Logger, interval time.Duration) *OverdueWorker {
	if logger == nil {
		logger = slog.Default()
	}
	return &OverdueWorker{
		rentals:  rentals,
		logger:   logger,
		interval: interval,
		now:      time.Now,
	}
}

// Start begins the watch loop and blocks until the context is canceled.
func (w *OverdueWorker) Start(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	w.logger.Info("overdue worker started", slog.Duration("interval", w.interval))

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("overdue worker stopped")
			return
		case <-ticker.C:
			w.CheckOnce()
		}
	}
}

// CheckOnce runs a single overdue scan and returns how many active rentals
// are past their end date.
func (w *OverdueWorker) CheckOnce() int {
	y, m, d := w.now().Date()
	today := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)

	overdue := 0
	for _, r := range w.rentals.ActiveRentals() {
		if !r.EndDate.Before(today) {
			continue
		}
		overdue++
		plate := ""
		if v, ok := w.rentals.FindVehicleByID(r.VehicleID); ok {
			plate = v.Plate
		}
		w.logger.Warn("rental overdue",
			slog.Int64("rental_id", r.ID),
			slog.Int("vehicle_id", r.VehicleID),
			slog.String("plate", plate),
			slog.String("customer", r.CustomerTaxID),
			slog.String("due", r.EndDate.Format(domain.DateFormat)),
		)
	}
	metrics.SetOverdueRentals(overdue)
	return overdue
}
