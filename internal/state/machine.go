package state

import (
	"context"

	"github.com/looplab/fsm"

	"github.com/yourorg/fleetrental/internal/domain"
)

// Availability states and the events that move between them.
const (
	StateAvailable = "available"
	StateRented    = "rented"

	EventRent   = "rent"
	EventReturn = "return"
)

// Machine guards a single vehicle's availability transitions. It is built
// fresh from the vehicle's current status at the point of a transition and
// discarded afterwards; the record itself stays the source of truth.
type Machine struct {
	fsm *fsm.FSM
}

// NewMachine creates a machine positioned at the given status.
func NewMachine(status domain.VehicleStatus) *Machine {
	initial := StateAvailable
	if status == domain.StatusRented {
		initial = StateRented
	}

	return &Machine{
		fsm: fsm.NewFSM(
			initial,
			fsm.Events{
				{Name: EventRent, Src: []string{StateAvailable}, Dst: StateRented},
				{Name: EventReturn, Src: []string{StateRented}, Dst: StateAvailable},
			},
			fsm.Callbacks{},
		),
	}
}

// Can reports whether the event is legal from the current state.
func (m *Machine) Can(event string) bool {
	return m.fsm.Can(event)
}

// Trigger applies the event and returns the resulting status.
func (m *Machine) Trigger(event string) (domain.VehicleStatus, error) {
	if err := m.fsm.Event(context.Background(), event); err != nil {
		return m.Status(), err
	}
	return m.Status(), nil
}

// Status maps the machine's current state back onto the domain enum.
func (m *Machine) Status() domain.VehicleStatus {
	if m.fsm.Current() == StateRented {
		return domain.StatusRented
	}
	return domain.StatusAvailable
}
