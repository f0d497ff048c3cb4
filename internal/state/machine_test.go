package state

import (
	"testing"

	"github.com/yourorg/fleetrental/internal/domain"
)

func TestRentFromAvailable(t *testing.T) {
	m := NewMachine(domain.StatusAvailable)
	if !m.Can(EventRent) {
		t.Fatalf("expected rent to be legal from available")
	}
	status, err := m.Trigger(EventRent)
	if err != nil {
		t.Fatalf("trigger rent: %v", err)
	}
	if status != domain.StatusRented {
		t.Fatalf("expected rented, got %s", status)
	}
}

func TestRentWhileRented(t *testing.T) {
	m := NewMachine(domain.StatusRented)
	if m.Can(EventRent) {
		t.Fatalf("expected rent to be illegal while rented")
	}
	if _, err := m.Trigger(EventRent); err == nil {
		t.Fatalf("expected an error triggering rent while rented")
	}
}

func TestReturnFlipsBack(t *testing.T) {
	m := NewMachine(domain.StatusRented)
	status, err := m.Trigger(EventReturn)
	if err != nil {
		t.Fatalf("trigger return: %v", err)
	}
	if status != domain.StatusAvailable {
		t.Fatalf("expected available, got %s", status)
	}
	if m.Can(EventReturn) {
		t.Fatalf("expected return to be illegal once available")
	}
}
