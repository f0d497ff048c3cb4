package worker

import (
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/yourorg/fleetrental/internal/domain"
)

type fakeRentalSource struct {
	active   []domain.Rental
	vehicles map[int]domain.Vehicle
}

func (f *fakeRentalSource) ActiveRentals() []domain.Rental {
	return f.active
}

func (f *fakeRentalSource) FindVehicleByID(id int) (domain.Vehicle, bool) {
	v, ok := f.vehicles[id]
	return v, ok
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestCheckOnceCountsOverdue(t *testing.T) {
	src := &fakeRentalSource{
		active: []domain.Rental{
			{ID: 1, VehicleID: 1, EndDate: day(2024, 1, 5)},  // past due
			{ID: 2, VehicleID: 2, EndDate: day(2024, 1, 10)}, // due today
			{ID: 3, VehicleID: 3, EndDate: day(2024, 1, 20)}, // still running
		},
		vehicles: map[int]domain.Vehicle{
			1: {ID: 1, Plate: "AAA111"},
		},
	}

	w := NewOverdueWorker(src, slog.New(slog.NewTextHandler(io.Discard, nil)), time.Minute)
	w.now = func() time.Time { return day(2024, 1, 10) }

	if got := w.CheckOnce(); got != 1 {
		t.Fatalf("expected 1 overdue rental, got %d", got)
	}
}

func TestCheckOnceNoActiveRentals(t *testing.T) {
	w := NewOverdueWorker(&fakeRentalSource{}, slog.New(slog.NewTextHandler(io.Discard, nil)), time.Minute)
	w.now = func() time.Time { return day(2024, 1, 10) }

	if got := w.CheckOnce(); got != 0 {
		t.Fatalf("expected no overdue rentals, got %d", got)
	}
}
