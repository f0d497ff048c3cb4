package domain

import "time"

// DateFormat is the calendar-date layout used in the persisted artifacts.
const DateFormat = "2006-01-02"

// Rental is one rental transaction. ID comes from the durable sequence and
// is never reused. A rental is created active and flips to returned exactly
// once; ActualReturnDate stays nil until then.
type Rental struct {
	ID               int64
	VehicleID        int
	CustomerTaxID    string
	StaffUsername    string
	StartDate        time.Time
	EndDate          time.Time
	Returned         bool
	ActualReturnDate *time.Time
}

// Active reports whether the vehicle is still out on this rental.
func (r Rental) Active() bool {
	return !r.Returned
}

// MarkReturned closes the rental at the given date.
func (r *Rental) MarkReturned(when time.Time) {
	r.Returned = true
	t := when
	r.ActualReturnDate = &t
}
