// Package figure manages the slicing figures an operator places in the scene:
// planes and cones that split the model into regions sliced along different
// axes.
//
// A [Registry] keeps the ordered figure sequence in lockstep with one render
// handle per figure. Position i in the sequence is the figure's identity;
// handle i always draws figure i.
package figure

import (
	"fmt"
	"math"

	"github.com/epit3d/spycer/pkg/errors"
	"github.com/epit3d/spycer/pkg/render"
	"github.com/epit3d/spycer/pkg/transform"
)

// Kind is the variant tag of a Figure.
type Kind string

const (
	KindPlane Kind = "plane"
	KindCone  Kind = "cone"
)

// Figure is either a Plane or a Cone.
type Figure interface {
	Kind() Kind
	Origin() transform.Vec3
	Validate() error
	fmt.Stringer

	isFigure()
}

// Plane is a slicing plane through (X, Y, Z), tilted by Incline degrees about
// the X axis and turned by Rot degrees about the Z axis.
type Plane struct {
	X, Y, Z float64
	Incline float64
	Rot     float64
}

// Cone is a slicing cone with its apex at (X, Y, Z), opening upward with the
// half-angle ConeAngle (degrees) over Height.
type Cone struct {
	X, Y, Z   float64
	ConeAngle float64
	Height    float64
}

func (Plane) isFigure() {}
func (Cone) isFigure()  {}

func (Plane) Kind() Kind { return KindPlane }
func (Cone) Kind() Kind  { return KindCone }

func (p Plane) Origin() transform.Vec3 { return transform.Vec3{p.X, p.Y, p.Z} }
func (c Cone) Origin() transform.Vec3  { return transform.Vec3{c.X, c.Y, c.Z} }

// Validate checks the plane's parameters.
func (p Plane) Validate() error {
	if !finite(p.X, p.Y, p.Z, p.Incline, p.Rot) {
		return errors.New(errors.ErrCodeInvalidFigure, "plane parameters must be finite")
	}
	if p.Incline < -90 || p.Incline > 90 {
		return errors.New(errors.ErrCodeInvalidFigure, "plane incline %g outside [-90, 90]", p.Incline)
	}
	return nil
}

// Validate checks the cone's parameters.
func (c Cone) Validate() error {
	if !finite(c.X, c.Y, c.Z, c.ConeAngle, c.Height) {
		return errors.New(errors.ErrCodeInvalidFigure, "cone parameters must be finite")
	}
	if c.ConeAngle <= 0 || c.ConeAngle >= 90 {
		return errors.New(errors.ErrCodeInvalidFigure, "cone angle %g outside (0, 90)", c.ConeAngle)
	}
	if c.Height <= 0 {
		return errors.New(errors.ErrCodeInvalidFigure, "cone height %g must be positive", c.Height)
	}
	return nil
}

func (p Plane) String() string {
	return fmt.Sprintf("plane X=%s Y=%s Z=%s incline=%s rot=%s",
		transform.FormatFloat(p.X), transform.FormatFloat(p.Y), transform.FormatFloat(p.Z),
		transform.FormatFloat(p.Incline), transform.FormatFloat(p.Rot))
}

func (c Cone) String() string {
	return fmt.Sprintf("cone X=%s Y=%s Z=%s angle=%s height=%s",
		transform.FormatFloat(c.X), transform.FormatFloat(c.Y), transform.FormatFloat(c.Z),
		transform.FormatFloat(c.ConeAngle), transform.FormatFloat(c.Height))
}

func finite(vs ...float64) bool {
	for _, v := range vs {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

// outlineSegments is the number of segments used for circular outlines.
const outlineSegments = 48

// Descriptor builds the render descriptor for f. Paths are in world space.
func Descriptor(f Figure, style render.Style) render.Descriptor {
	switch f := f.(type) {
	case Plane:
		return planeDescriptor(f, style)
	case Cone:
		return coneDescriptor(f)
	default:
		errors.Invariant("unknown figure type %T", f)
		return render.Descriptor{}
	}
}

func planeDescriptor(p Plane, style render.Style) render.Descriptor {
	hx, hy := style.PlaneSizeX/2, style.PlaneSizeY/2
	place := transform.Rotation(transform.Vec3{-p.Incline, 0, -p.Rot}).
		Then(transform.Translation(p.X, p.Y, p.Z))

	rect := []transform.Vec3{{-hx, -hy, 0}, {hx, -hy, 0}, {hx, hy, 0}, {-hx, hy, 0}, {-hx, -hy, 0}}
	for i, v := range rect {
		rect[i] = place.Apply(v)
	}
	return render.Descriptor{
		Kind:   render.KindPlane,
		Origin: p.Origin(),
		Paths:  [][]transform.Vec3{rect},
		Params: map[string]float64{"incline": p.Incline, "rot": p.Rot},
	}
}

func coneDescriptor(c Cone) render.Descriptor {
	apex := c.Origin()
	radius := c.Height * math.Tan(c.ConeAngle*math.Pi/180)
	top := c.Z + c.Height

	base := make([]transform.Vec3, 0, outlineSegments+1)
	for i := 0; i <= outlineSegments; i++ {
		a := 2 * math.Pi * float64(i) / outlineSegments
		base = append(base, transform.Vec3{c.X + radius*math.Cos(a), c.Y + radius*math.Sin(a), top})
	}

	paths := [][]transform.Vec3{base}
	for i := 0; i < 4; i++ {
		paths = append(paths, []transform.Vec3{apex, base[i*outlineSegments/4]})
	}
	return render.Descriptor{
		Kind:   render.KindCone,
		Origin: apex,
		Paths:  paths,
		Params: map[string]float64{"cone_angle": c.ConeAngle, "height": c.Height},
	}
}
