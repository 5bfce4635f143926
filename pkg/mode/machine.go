package mode

import (
	"slices"

	"github.com/epit3d/spycer/pkg/errors"
)

// Transition records one mode change.
type Transition struct {
	From, To Mode
	Event    string
}

// Machine holds the current mode. The zero value is not usable; use New.
type Machine struct {
	current Mode
	// resume is the mode MovingModel returns to.
	resume Mode
	log    []Transition
}

// New returns a machine in Nothing.
func New() *Machine {
	return &Machine{current: Nothing}
}

// Current returns the active mode.
func (m *Machine) Current() Mode { return m.current }

// IsPermitted reports whether op is in the active capability mask.
func (m *Machine) IsPermitted(op Operation) bool {
	return Capabilities(m.current).Has(op)
}

// Check returns an ILLEGAL_OPERATION error if op is not permitted.
func (m *Machine) Check(op Operation) error {
	if m.IsPermitted(op) {
		return nil
	}
	return errors.New(errors.ErrCodeIllegalOperation, "operation %s not permitted in mode %s", op, m.current)
}

// ModelLoaded moves to the mode that shows a freshly loaded model.
func (m *Machine) ModelLoaded() error {
	switch m.current {
	case Nothing, ShowingModel:
		m.set(ShowingModel, "model loaded")
	case ShowingGcode, ShowingBoth:
		m.set(ShowingBoth, "model loaded")
	default:
		return m.Check(Load)
	}
	return nil
}

// GcodeLoaded moves to the mode that shows freshly loaded layers.
func (m *Machine) GcodeLoaded() error {
	switch m.current {
	case Nothing, ShowingGcode:
		m.set(ShowingGcode, "gcode loaded")
	case ShowingModel, ShowingBoth:
		m.set(ShowingBoth, "gcode loaded")
	default:
		return m.Check(Load)
	}
	return nil
}

// EnterMoving starts model manipulation.
func (m *Machine) EnterMoving() error {
	if m.current == MovingModel {
		return errors.New(errors.ErrCodeIllegalOperation, "already in mode %s", MovingModel)
	}
	if err := m.Check(MoveModel); err != nil {
		return err
	}
	m.resume = m.current
	m.set(MovingModel, "move started")
	return nil
}

// LeaveMoving ends model manipulation and returns to the mode it started in.
func (m *Machine) LeaveMoving() error {
	if m.current != MovingModel {
		return errors.New(errors.ErrCodeIllegalOperation, "not in mode %s", MovingModel)
	}
	m.set(m.resume, "move finished")
	return nil
}

// Moving reports whether the model is being manipulated.
func (m *Machine) Moving() bool { return m.current == MovingModel }

// Transitions returns the transitions taken so far.
func (m *Machine) Transitions() []Transition { return slices.Clone(m.log) }

func (m *Machine) set(to Mode, event string) {
	if to == m.current {
		return
	}
	m.log = append(m.log, Transition{From: m.current, To: to, Event: event})
	m.current = to
}
