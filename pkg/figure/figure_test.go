package figure

import (
	"math"
	"testing"

	"github.com/epit3d/spycer/pkg/errors"
	"github.com/epit3d/spycer/pkg/render"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		fig     Figure
		wantErr bool
	}{
		{"flat plane", Plane{}, false},
		{"inclined plane", Plane{Incline: -90, Rot: 370}, false},
		{"over-inclined plane", Plane{Incline: 91}, true},
		{"nan plane", Plane{X: math.NaN()}, true},
		{"cone", Cone{ConeAngle: 45, Height: 10}, false},
		{"flat cone", Cone{ConeAngle: 90, Height: 10}, true},
		{"zero-angle cone", Cone{ConeAngle: 0, Height: 10}, true},
		{"zero-height cone", Cone{ConeAngle: 30}, true},
		{"inf cone", Cone{ConeAngle: 30, Height: math.Inf(1)}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.fig.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, errors.ErrCodeInvalidFigure) {
				t.Errorf("Validate() code = %s, want INVALID_FIGURE", errors.GetCode(err))
			}
		})
	}
}

func TestPlaneDescriptor(t *testing.T) {
	style := render.DefaultStyle()
	d := Descriptor(Plane{X: 1, Y: 2, Z: 3}, style)

	if d.Kind != render.KindPlane {
		t.Errorf("Kind = %v, want plane", d.Kind)
	}
	if len(d.Paths) != 1 || len(d.Paths[0]) != 5 {
		t.Fatalf("Paths = %v, want one closed rectangle", d.Paths)
	}
	first := d.Paths[0][0]
	if math.Abs(first.X()-(1-style.PlaneSizeX/2)) > 1e-9 || math.Abs(first.Z()-3) > 1e-9 {
		t.Errorf("corner = %v", first)
	}
}

func TestConeDescriptor(t *testing.T) {
	d := Descriptor(Cone{ConeAngle: 45, Height: 10}, render.DefaultStyle())

	if d.Kind != render.KindCone {
		t.Errorf("Kind = %v, want cone", d.Kind)
	}
	rim := d.Paths[0][0]
	if math.Abs(rim.X()-10) > 1e-9 || math.Abs(rim.Z()-10) > 1e-9 {
		t.Errorf("rim start = %v, want (10, 0, 10)", rim)
	}
	if len(d.Paths) != 5 {
		t.Errorf("len(Paths) = %d, want rim plus four generators", len(d.Paths))
	}
}

func TestString(t *testing.T) {
	if got := (Plane{X: 1.239, Incline: 45}).String(); got != "plane X=1.23 Y=0 Z=0 incline=45 rot=0" {
		t.Errorf("String() = %q", got)
	}
}
