// Package mode is the viewer's operating-mode state machine. Each mode has a
// fixed capability mask; the scene controller asks the machine before every
// operation and rejects anything outside the mask.
package mode

import (
	"fmt"
	"strings"

	"github.com/epit3d/spycer/pkg/errors"
)

// Mode is an operating mode.
type Mode int

const (
	Nothing Mode = iota
	ShowingGcode
	ShowingModel
	ShowingBoth
	MovingModel
)

// Modes lists every mode in declaration order.
var Modes = []Mode{Nothing, ShowingGcode, ShowingModel, ShowingBoth, MovingModel}

var modeNames = [...]string{"Nothing", "ShowingGcode", "ShowingModel", "ShowingBoth", "MovingModel"}

func (m Mode) String() string {
	if m < 0 || int(m) >= len(modeNames) {
		return fmt.Sprintf("Mode(%d)", int(m))
	}
	return modeNames[m]
}

// MarshalText implements encoding.TextMarshaler.
func (m Mode) MarshalText() ([]byte, error) { return []byte(m.String()), nil }

// UnmarshalText implements encoding.TextUnmarshaler.
func (m *Mode) UnmarshalText(b []byte) error {
	for i, n := range modeNames {
		if n == string(b) {
			*m = Mode(i)
			return nil
		}
	}
	return errors.New(errors.ErrCodeInvalidInput, "unknown mode %q", b)
}

// Operation is a gated scene operation.
type Operation int

const (
	Load Operation = iota
	Scrub
	EditFigures
	MoveModel
	Export
	Recolor
	SwitchView
	Slice
)

// Operations lists every operation in declaration order.
var Operations = []Operation{Load, Scrub, EditFigures, MoveModel, Export, Recolor, SwitchView, Slice}

var operationNames = [...]string{"load", "scrub", "edit_figures", "move_model", "export", "recolor", "switch_view", "slice"}

func (op Operation) String() string {
	if op < 0 || int(op) >= len(operationNames) {
		return fmt.Sprintf("Operation(%d)", int(op))
	}
	return operationNames[op]
}

// MarshalText implements encoding.TextMarshaler.
func (op Operation) MarshalText() ([]byte, error) { return []byte(op.String()), nil }

// UnmarshalText implements encoding.TextUnmarshaler.
func (op *Operation) UnmarshalText(b []byte) error {
	v, err := ParseOperation(string(b))
	if err != nil {
		return err
	}
	*op = v
	return nil
}

// ParseOperation parses an operation name as printed by String. Dashes are
// accepted in place of underscores.
func ParseOperation(s string) (Operation, error) {
	name := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), "-", "_")
	for i, n := range operationNames {
		if n == name {
			return Operation(i), nil
		}
	}
	return 0, errors.New(errors.ErrCodeInvalidInput, "unknown operation %q", s)
}

// Mask is a set of permitted operations.
type Mask uint16

func maskOf(ops ...Operation) Mask {
	var m Mask
	for _, op := range ops {
		m |= 1 << op
	}
	return m
}

// Has reports whether op is in the mask.
func (m Mask) Has(op Operation) bool { return m&(1<<op) != 0 }

// Operations returns the permitted operations in declaration order.
func (m Mask) Operations() []Operation {
	var out []Operation
	for _, op := range Operations {
		if m.Has(op) {
			out = append(out, op)
		}
	}
	return out
}

var masks = map[Mode]Mask{
	Nothing:      maskOf(Load),
	ShowingGcode: maskOf(Load, Scrub, Export),
	ShowingModel: maskOf(Load, EditFigures, MoveModel, Recolor, Slice),
	ShowingBoth:  maskOf(Load, Scrub, EditFigures, MoveModel, Export, Recolor, SwitchView, Slice),
	MovingModel:  maskOf(MoveModel),
}

// Capabilities returns the capability mask of m.
func Capabilities(m Mode) Mask { return masks[m] }
