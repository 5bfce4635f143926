package mode

import (
	"context"
	"strings"
	"testing"

	"github.com/epit3d/spycer/pkg/errors"
)

func TestScrubPermitted(t *testing.T) {
	tests := []struct {
		mode Mode
		want bool
	}{
		{Nothing, false},
		{ShowingModel, false},
		{MovingModel, false},
		{ShowingGcode, true},
		{ShowingBoth, true},
	}
	for _, tt := range tests {
		t.Run(tt.mode.String(), func(t *testing.T) {
			if got := Capabilities(tt.mode).Has(Scrub); got != tt.want {
				t.Errorf("Has(Scrub) in %s = %v, want %v", tt.mode, got, tt.want)
			}
		})
	}
}

func TestEditFiguresPermitted(t *testing.T) {
	tests := []struct {
		mode Mode
		want bool
	}{
		{Nothing, false},
		{ShowingGcode, false},
		{MovingModel, false},
		{ShowingModel, true},
		{ShowingBoth, true},
	}
	for _, tt := range tests {
		if got := Capabilities(tt.mode).Has(EditFigures); got != tt.want {
			t.Errorf("Has(EditFigures) in %s = %v, want %v", tt.mode, got, tt.want)
		}
	}
}

func TestMovingDisablesEditing(t *testing.T) {
	mask := Capabilities(MovingModel)
	for _, op := range []Operation{Scrub, EditFigures, Load, Export, Slice} {
		if mask.Has(op) {
			t.Errorf("%s permitted while moving", op)
		}
	}
	if !mask.Has(MoveModel) {
		t.Error("move_model not permitted while moving")
	}
}

func TestTransitions(t *testing.T) {
	tests := []struct {
		name  string
		steps []func(*Machine) error
		want  Mode
	}{
		{"model", []func(*Machine) error{(*Machine).ModelLoaded}, ShowingModel},
		{"gcode", []func(*Machine) error{(*Machine).GcodeLoaded}, ShowingGcode},
		{"model then gcode", []func(*Machine) error{(*Machine).ModelLoaded, (*Machine).GcodeLoaded}, ShowingBoth},
		{"gcode then model", []func(*Machine) error{(*Machine).GcodeLoaded, (*Machine).ModelLoaded}, ShowingBoth},
		{"reload model", []func(*Machine) error{(*Machine).ModelLoaded, (*Machine).ModelLoaded}, ShowingModel},
		{"both then model", []func(*Machine) error{(*Machine).ModelLoaded, (*Machine).GcodeLoaded, (*Machine).ModelLoaded}, ShowingBoth},
		{"move and back", []func(*Machine) error{(*Machine).ModelLoaded, (*Machine).EnterMoving}, MovingModel},
		{"move round trip", []func(*Machine) error{(*Machine).ModelLoaded, (*Machine).EnterMoving, (*Machine).LeaveMoving}, ShowingModel},
		{"move from both", []func(*Machine) error{(*Machine).GcodeLoaded, (*Machine).ModelLoaded, (*Machine).EnterMoving, (*Machine).LeaveMoving}, ShowingBoth},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := New()
			for i, step := range tt.steps {
				if err := step(m); err != nil {
					t.Fatalf("step %d: %v", i, err)
				}
			}
			if m.Current() != tt.want {
				t.Errorf("Current() = %s, want %s", m.Current(), tt.want)
			}
		})
	}
}

func TestIllegalTransitions(t *testing.T) {
	tests := []struct {
		name string
		prep []func(*Machine) error
		step func(*Machine) error
	}{
		{"move with nothing", nil, (*Machine).EnterMoving},
		{"move with gcode only", []func(*Machine) error{(*Machine).GcodeLoaded}, (*Machine).EnterMoving},
		{"leave when not moving", []func(*Machine) error{(*Machine).ModelLoaded}, (*Machine).LeaveMoving},
		{"enter twice", []func(*Machine) error{(*Machine).ModelLoaded, (*Machine).EnterMoving}, (*Machine).EnterMoving},
		{"load while moving", []func(*Machine) error{(*Machine).ModelLoaded, (*Machine).EnterMoving}, (*Machine).GcodeLoaded},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := New()
			for _, step := range tt.prep {
				if err := step(m); err != nil {
					t.Fatal(err)
				}
			}
			before := m.Current()
			if err := tt.step(m); !errors.Is(err, errors.ErrCodeIllegalOperation) {
				t.Errorf("error = %v, want ILLEGAL_OPERATION", err)
			}
			if m.Current() != before {
				t.Errorf("mode changed to %s after rejected transition", m.Current())
			}
		})
	}
}

func TestNothingNotReachable(t *testing.T) {
	m := New()
	m.ModelLoaded()
	m.GcodeLoaded()
	m.EnterMoving()
	m.LeaveMoving()
	for _, tr := range m.Transitions() {
		if tr.To == Nothing {
			t.Errorf("transition %v returns to Nothing", tr)
		}
	}
	for _, e := range Edges() {
		if e.To == Nothing {
			t.Errorf("edge %v returns to Nothing", e)
		}
	}
	if got := len(m.Transitions()); got != 4 {
		t.Errorf("len(Transitions()) = %d, want 4", got)
	}
}

func TestCheck(t *testing.T) {
	m := New()
	if err := m.Check(Load); err != nil {
		t.Errorf("Check(Load) = %v", err)
	}
	err := m.Check(Scrub)
	if !errors.Is(err, errors.ErrCodeIllegalOperation) {
		t.Fatalf("Check(Scrub) = %v, want ILLEGAL_OPERATION", err)
	}
	if !strings.Contains(err.Error(), "scrub") || !strings.Contains(err.Error(), "Nothing") {
		t.Errorf("error message %q lacks operation or mode", err)
	}

	if err := m.ModelLoaded(); err != nil {
		t.Fatal(err)
	}
	if err := m.Check(EditFigures); err != nil {
		t.Errorf("Check(EditFigures) in ShowingModel = %v", err)
	}
	m = New()
	if err := m.GcodeLoaded(); err != nil {
		t.Fatal(err)
	}
	if err := m.Check(EditFigures); !errors.Is(err, errors.ErrCodeIllegalOperation) {
		t.Errorf("Check(EditFigures) in ShowingGcode = %v, want ILLEGAL_OPERATION", err)
	}
}

func TestParseOperation(t *testing.T) {
	for _, op := range Operations {
		got, err := ParseOperation(op.String())
		if err != nil || got != op {
			t.Errorf("ParseOperation(%q) = %v, %v", op.String(), got, err)
		}
	}
	if op, err := ParseOperation("Edit-Figures"); err != nil || op != EditFigures {
		t.Errorf("ParseOperation(Edit-Figures) = %v, %v", op, err)
	}
	if _, err := ParseOperation("fly"); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("ParseOperation(fly) = %v, want INVALID_INPUT", err)
	}
}

func TestDOT(t *testing.T) {
	dot := DOT()
	for _, want := range []string{"digraph modes", `"Nothing" -> "ShowingModel"`, `"MovingModel" -> "ShowingBoth"`, `load, edit_figures, move_model, recolor, slice`} {
		if !strings.Contains(dot, want) {
			t.Errorf("DOT() missing %q", want)
		}
	}
}

func TestTextRoundTrip(t *testing.T) {
	for _, m := range Modes {
		b, _ := m.MarshalText()
		var got Mode
		if err := got.UnmarshalText(b); err != nil || got != m {
			t.Errorf("Mode round trip %v = %v, %v", m, got, err)
		}
	}
	for _, op := range Operations {
		b, _ := op.MarshalText()
		var got Operation
		if err := got.UnmarshalText(b); err != nil || got != op {
			t.Errorf("Operation round trip %v = %v, %v", op, got, err)
		}
	}
	var m Mode
	if err := m.UnmarshalText([]byte("Flying")); err == nil {
		t.Error("UnmarshalText(Flying) should fail")
	}
}

func TestSVG(t *testing.T) {
	svg, err := SVG(context.Background())
	if err != nil {
		t.Fatalf("SVG: %v", err)
	}
	if !strings.Contains(string(svg), "<svg") {
		t.Error("output is not SVG")
	}
	if !strings.Contains(string(svg), "MovingModel") {
		t.Error("diagram should name every mode")
	}
}
