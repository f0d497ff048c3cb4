package domain

import "strings"

// VehicleStatus is the two-valued availability state of a vehicle.
type VehicleStatus string

const (
	StatusAvailable VehicleStatus = "AVAILABLE"
	StatusRented    VehicleStatus = "RENTED"
)

// The persisted files carry localized status tokens, kept separate from the
// enum values so the wire encoding can change without touching the type.
const (
	tokenAvailable = "Διαθέσιμο"
	tokenRented    = "Ενοικιασμένο"
)

// Token returns the persisted textual token for the status.
func (s VehicleStatus) Token() string {
	if s == StatusRented {
		return tokenRented
	}
	return tokenAvailable
}

// StatusFromToken decodes a persisted status token. Unrecognized input falls
// back to an exact enum-name match, and finally to StatusAvailable.
func StatusFromToken(token string) VehicleStatus {
	t := strings.TrimSpace(token)
	switch {
	case strings.EqualFold(t, tokenAvailable):
		return StatusAvailable
	case strings.EqualFold(t, tokenRented):
		return StatusRented
	case strings.EqualFold(t, string(StatusRented)):
		return StatusRented
	default:
		return StatusAvailable
	}
}

// Vehicle is one car of the fleet. ID is the immutable key; Plate is unique
// case-insensitively across the fleet.
type Vehicle struct {
	ID     int
	Plate  string
	Brand  string
	Type   string
	Model  string
	Year   int
	Color  string
	Status VehicleStatus
}

// VehicleSearch holds optional search criteria. Blank fields impose no
// filter; non-blank fields are case-insensitive substring matches, except
// Status which is an exact match when non-nil.
type VehicleSearch struct {
	Brand  string
	Plate  string
	Model  string
	Color  string
	Type   string
	Status *VehicleStatus
}
