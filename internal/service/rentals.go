package service

import (
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/yourorg/fleetrental/internal/domain"
	"github.com/yourorg/fleetrental/internal/observability/metrics"
	"github.com/yourorg/fleetrental/internal/state"
)

// RentVehicle opens a new rental for an available vehicle, attributed to the
// signed-in staff account. The rental identifier comes from the durable
// sequence, so it is unique even across restarts. On success both the
// rentals and the vehicles artifacts are persisted before returning.
func (s *RentalService) RentVehicle(vehicleID int, customerTaxID string, start, end time.Time) (domain.Rental, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	actor, err := s.requireSession()
	if err != nil {
		return domain.Rental{}, s.rejected("rent", err)
	}
	if start.IsZero() || end.IsZero() {
		return domain.Rental{}, s.rejected("rent", domain.Validationf("start and end dates are required"))
	}
	if end.Before(start) {
		return domain.Rental{}, s.rejected("rent", domain.Validationf("end date precedes start date"))
	}
	vi := s.vehicleIndex(vehicleID)
	if vi < 0 {
		return domain.Rental{}, s.rejected("rent", domain.Validationf("vehicle not found"))
	}
	machine := state.NewMachine(s.vehicles[vi].Status)
	if !machine.Can(state.EventRent) {
		return domain.Rental{}, s.rejected("rent", domain.Validationf("vehicle is not available"))
	}
	if s.customerIndex(customerTaxID) < 0 {
		return domain.Rental{}, s.rejected("rent", domain.Validationf("customer not found"))
	}

	id, err := s.seq.Next()
	if err != nil {
		return domain.Rental{}, err
	}

	rental := domain.Rental{
		ID:            id,
		VehicleID:     vehicleID,
		CustomerTaxID: customerTaxID,
		StaffUsername: actor.Username,
		StartDate:     start,
		EndDate:       end,
	}
	s.rentals = append(s.rentals, rental)
	status, _ := machine.Trigger(state.EventRent)
	s.vehicles[vi].Status = status
	s.invalidateSearches()

	if err := s.store.SaveRentals(s.rentals); err != nil {
		return domain.Rental{}, err
	}
	if err := s.store.SaveVehicles(s.vehicles); err != nil {
		return domain.Rental{}, err
	}

	metrics.ObserveRentalCreated()
	metrics.SetActiveRentals(s.countActive())
	s.auditor.LogRental(actor.Username, strconv.FormatInt(id, 10),
		fmt.Sprintf("vehicle %d to customer %s", vehicleID, customerTaxID))
	s.logger.Info("rental created",
		slog.Int64("rental_id", id),
		slog.Int("vehicle_id", vehicleID),
		slog.String("customer", customerTaxID),
	)
	return rental, nil
}

// ReturnRental closes an active rental, stamps the actual return date with
// the current date, and flips the vehicle back to available. A rental that
// references a vehicle no longer in the fleet is a data-consistency fault,
// reported as a storage error rather than a validation error.
func (s *RentalService) ReturnRental(rentalID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	actor, err := s.requireSession()
	if err != nil {
		return s.rejected("return", err)
	}
	ri := s.rentalIndex(rentalID)
	if ri < 0 {
		return s.rejected("return", domain.Validationf("rental not found"))
	}
	if s.rentals[ri].Returned {
		return s.rejected("return", domain.Validationf("rental already returned"))
	}
	vi := s.vehicleIndex(s.rentals[ri].VehicleID)
	if vi < 0 {
		return domain.Storagef("return rental",
			fmt.Errorf("vehicle %d referenced by rental %d does not exist", s.rentals[ri].VehicleID, rentalID))
	}

	s.rentals[ri].MarkReturned(s.now())
	machine := state.NewMachine(s.vehicles[vi].Status)
	if machine.Can(state.EventReturn) {
		status, _ := machine.Trigger(state.EventReturn)
		s.vehicles[vi].Status = status
	} else {
		// The vehicle already reads available: stale on-disk state that a
		// missed reload left behind. The return still wins.
		s.vehicles[vi].Status = domain.StatusAvailable
	}
	s.invalidateSearches()

	if err := s.store.SaveRentals(s.rentals); err != nil {
		return err
	}
	if err := s.store.SaveVehicles(s.vehicles); err != nil {
		return err
	}

	metrics.ObserveRentalReturned()
	metrics.SetActiveRentals(s.countActive())
	s.auditor.LogReturn(actor.Username, strconv.FormatInt(rentalID, 10),
		fmt.Sprintf("vehicle %d", s.rentals[ri].VehicleID))
	s.logger.Info("rental returned", slog.Int64("rental_id", rentalID))
	return nil
}

// FindRentalByID looks a rental up by its identifier.
func (s *RentalService) FindRentalByID(rentalID int64) (domain.Rental, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i := s.rentalIndex(rentalID); i >= 0 {
		return s.rentals[i], true
	}
	return domain.Rental{}, false
}

// RentalsForCustomer returns every rental for the given customer.
func (s *RentalService) RentalsForCustomer(taxID string) []domain.Rental {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []domain.Rental
	for _, r := range s.rentals {
		if r.CustomerTaxID == taxID {
			out = append(out, r)
		}
	}
	return out
}

// RentalsForVehicle returns every rental for the given vehicle.
func (s *RentalService) RentalsForVehicle(vehicleID int) []domain.Rental {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []domain.Rental
	for _, r := range s.rentals {
		if r.VehicleID == vehicleID {
			out = append(out, r)
		}
	}
	return out
}

// ActiveRentals returns every rental not yet returned.
func (s *RentalService) ActiveRentals() []domain.Rental {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []domain.Rental
	for _, r := range s.rentals {
		if r.Active() {
			out = append(out, r)
		}
	}
	return out
}

// rentalIndex returns the position of the rental with the given id, or -1.
// Callers hold the lock.
func (s *RentalService) rentalIndex(rentalID int64) int {
	for i := range s.rentals {
		if s.rentals[i].ID == rentalID {
			return i
		}
	}
	return -1
}

func (s *RentalService) countActive() int {
	n := 0
	for _, r := range s.rentals {
		if r.Active() {
			n++
		}
	}
	return n
}
