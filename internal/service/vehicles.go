package service

import (
	"log/slog"
	"slices"
	"strconv"
	"strings"

	"github.com/yourorg/fleetrental/internal/domain"
)

// AddVehicle validates and inserts a new vehicle, persisting the collection
// before returning.
func (s *RentalService) AddVehicle(v domain.Vehicle) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	actor, err := s.requireSession()
	if err != nil {
		return s.rejected("add vehicle", err)
	}
	if err := s.validateVehicle(v, true); err != nil {
		return s.rejected("add vehicle", err)
	}

	s.vehicles = append(s.vehicles, v)
	if err := s.store.SaveVehicles(s.vehicles); err != nil {
		return err
	}
	s.invalidateSearches()
	s.auditor.LogAction(actor.Username, "add", "vehicle", strconv.Itoa(v.ID), "ok", v.Plate)
	s.logger.Info("vehicle added", slog.Int("id", v.ID), slog.String("plate", v.Plate))
	return nil
}

// UpdateVehicle replaces every field of an existing vehicle except its
// identifier.
func (s *RentalService) UpdateVehicle(v domain.Vehicle) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	actor, err := s.requireSession()
	if err != nil {
		return s.rejected("update vehicle", err)
	}
	if err := s.validateVehicle(v, false); err != nil {
		return s.rejected("update vehicle", err)
	}
	i := s.vehicleIndex(v.ID)
	if i < 0 {
		return s.rejected("update vehicle", domain.Validationf("vehicle not found"))
	}

	s.vehicles[i] = v
	if err := s.store.SaveVehicles(s.vehicles); err != nil {
		return err
	}
	s.invalidateSearches()
	s.auditor.LogAction(actor.Username, "update", "vehicle", strconv.Itoa(v.ID), "ok", v.Plate)
	return nil
}

// validateVehicle applies the vehicle rules in order; the first violation
// wins. Plate uniqueness is case-insensitive; on update the vehicle's own
// plate is not a collision.
func (s *RentalService) validateVehicle(v domain.Vehicle, isNew bool) error {
	if v.ID <= 0 {
		return domain.Validationf("vehicle id must be positive")
	}
	if isBlank(v.Plate) {
		return domain.Validationf("plate is required")
	}
	if isBlank(v.Brand) {
		return domain.Validationf("brand is required")
	}
	if isBlank(v.Model) {
		return domain.Validationf("model is required")
	}
	if isBlank(v.Type) {
		return domain.Validationf("body type is required")
	}
	if v.Year <= 0 {
		return domain.Validationf("model year must be positive")
	}

	for _, existing := range s.vehicles {
		if isNew {
			if existing.ID == v.ID {
				return domain.Validationf("a vehicle with this id already exists")
			}
			if strings.EqualFold(existing.Plate, v.Plate) {
				return domain.Validationf("plate already in use")
			}
		} else if existing.ID != v.ID && strings.EqualFold(existing.Plate, v.Plate) {
			return domain.Validationf("plate already in use by another vehicle")
		}
	}
	return nil
}

// SearchVehicles filters the fleet by the given criteria. Blank criteria
// impose no filter; non-blank ones are ANDed case-insensitive substring
// matches, except status which matches exactly. Results preserve collection
// order and are safe for the caller to keep.
func (s *RentalService) SearchVehicles(q domain.VehicleSearch) []domain.Vehicle {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := vehicleSearchKey(q)
	if hit, ok := s.vehicleSearches.Get(key); ok {
		return slices.Clone(hit)
	}

	var out []domain.Vehicle
	for _, v := range s.vehicles {
		if !isBlank(q.Brand) && !containsFold(v.Brand, q.Brand) {
			continue
		}
		if !isBlank(q.Plate) && !containsFold(v.Plate, q.Plate) {
			continue
		}
		if !isBlank(q.Model) && !containsFold(v.Model, q.Model) {
			continue
		}
		if !isBlank(q.Color) && !containsFold(v.Color, q.Color) {
			continue
		}
		if !isBlank(q.Type) && !containsFold(v.Type, q.Type) {
			continue
		}
		if q.Status != nil && v.Status != *q.Status {
			continue
		}
		out = append(out, v)
	}

	s.vehicleSearches.Set(key, slices.Clone(out), s.searchTTL)
	return out
}

func vehicleSearchKey(q domain.VehicleSearch) string {
	status := ""
	if q.Status != nil {
		status = string(*q.Status)
	}
	parts := []string{q.Brand, q.Plate, q.Model, q.Color, q.Type, status}
	for i, p := range parts {
		parts[i] = strings.ToLower(strings.TrimSpace(p))
	}
	return strings.Join(parts, "\x1f")
}

// FindVehicleByID looks a vehicle up by its identifier.
func (s *RentalService) FindVehicleByID(id int) (domain.Vehicle, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i := s.vehicleIndex(id); i >= 0 {
		return s.vehicles[i], true
	}
	return domain.Vehicle{}, false
}

// FindVehicleByPlate looks a vehicle up by plate, case-insensitively.
func (s *RentalService) FindVehicleByPlate(plate string) (domain.Vehicle, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	target := strings.TrimSpace(plate)
	for _, v := range s.vehicles {
		if strings.EqualFold(v.Plate, target) {
			return v, true
		}
	}
	return domain.Vehicle{}, false
}

// vehicleIndex returns the position of the vehicle with the given id, or -1.
// Callers hold the lock.
func (s *RentalService) vehicleIndex(id int) int {
	for i := range s.vehicles {
		if s.vehicles[i].ID == id {
			return i
		}
	}
	return -1
}
