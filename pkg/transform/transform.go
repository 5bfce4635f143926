// Package transform composes and decomposes the rigid and scaling transforms
// used by the viewer: model placement, per-layer rotation frames and the
// reference slicing plane.
//
// A [Transform] is a homogeneous 4x4 matrix (column-major, acting on column
// vectors). Orientation angles follow the viewer convention: degrees, applied
// about Z first, then X, then Y.
//
// # Composition order
//
// t.Then(u) applies t first and u second, which is the post-multiply sense
// used when appending a correction to an existing placement:
//
//	snapped := placed.PostTranslate(0, 0, -zmin)
//
// RevertThenApply expresses geometry recorded under one orientation in the
// frame of another:
//
//	tf := transform.RevertThenApply(groups[own], groups[current])
package transform

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/go-gl/mathgl/mgl64"
)

// Vec3 is a point or direction in model space.
type Vec3 = mgl64.Vec3

// gimbalEpsilon is the cos(pitch) below which yaw and roll are not separable.
const gimbalEpsilon = 1e-9

// Transform is an affine transform in homogeneous coordinates.
// The zero value is not usable; start from [Identity].
type Transform struct {
	m mgl64.Mat4
}

// Identity returns the identity transform.
func Identity() Transform {
	return Transform{m: mgl64.Ident4()}
}

// FromMat4 wraps an existing matrix.
func FromMat4(m mgl64.Mat4) Transform {
	return Transform{m: m}
}

// Translation returns a pure translation.
func Translation(x, y, z float64) Transform {
	return Transform{m: mgl64.Translate3D(x, y, z)}
}

// Scaling returns a pure axis-aligned scale.
func Scaling(x, y, z float64) Transform {
	return Transform{m: mgl64.Scale3D(x, y, z)}
}

// Rotation returns the rotation for orientation angles in degrees
// (Z applied first, then X, then Y).
func Rotation(orientation Vec3) Transform {
	rx := mgl64.HomogRotate3DX(mgl64.DegToRad(orientation.X()))
	ry := mgl64.HomogRotate3DY(mgl64.DegToRad(orientation.Y()))
	rz := mgl64.HomogRotate3DZ(mgl64.DegToRad(orientation.Z()))
	return Transform{m: ry.Mul4(rx).Mul4(rz)}
}

// RotationAbout returns Rotation(orientation) applied about origin rather than
// about the coordinate origin.
func RotationAbout(origin, orientation Vec3) Transform {
	return Translation(-origin.X(), -origin.Y(), -origin.Z()).
		Then(Rotation(orientation)).
		Then(Translation(origin.X(), origin.Y(), origin.Z()))
}

// Compose builds scale, then rotation, then translation.
func Compose(position, scale, orientation Vec3) Transform {
	return Scaling(scale.X(), scale.Y(), scale.Z()).
		Then(Rotation(orientation)).
		Then(Translation(position.X(), position.Y(), position.Z()))
}

// RevertThenApply returns the transform that first undoes prior and then
// applies next.
func RevertThenApply(prior, next Transform) Transform {
	return prior.Inverse().Then(next)
}

// Mat4 returns the underlying matrix.
func (t Transform) Mat4() mgl64.Mat4 {
	return t.m
}

// Then returns the transform that applies t and then u.
func (t Transform) Then(u Transform) Transform {
	return Transform{m: u.m.Mul4(t.m)}
}

// PostTranslate appends a translation after t.
func (t Transform) PostTranslate(dx, dy, dz float64) Transform {
	return t.Then(Translation(dx, dy, dz))
}

// Inverse returns the inverse transform.
func (t Transform) Inverse() Transform {
	return Transform{m: t.m.Inv()}
}

// Apply transforms a point.
func (t Transform) Apply(p Vec3) Vec3 {
	return mgl64.TransformCoordinate(p, t.m)
}

// ApproxEqual reports whether every matrix element differs by at most eps.
func (t Transform) ApproxEqual(u Transform, eps float64) bool {
	for i := range t.m {
		if math.Abs(t.m[i]-u.m[i]) > eps {
			return false
		}
	}
	return true
}

// IsZero reports whether t is the unusable zero value.
func (t Transform) IsZero() bool {
	return t.m == mgl64.Mat4{}
}

// Position returns the translation component.
func (t Transform) Position() Vec3 {
	return Vec3{t.m[12], t.m[13], t.m[14]}
}

// Scale returns the (positive) scale factor along each local axis.
func (t Transform) Scale() Vec3 {
	return Vec3{
		t.m.Col(0).Vec3().Len(),
		t.m.Col(1).Vec3().Len(),
		t.m.Col(2).Vec3().Len(),
	}
}

// Orientation returns the orientation angles in degrees such that
// Compose(t.Position(), t.Scale(), t.Orientation()) reproduces t.
func (t Transform) Orientation() Vec3 {
	s := t.Scale()
	r := func(row, col int) float64 {
		if s[col] == 0 {
			return 0
		}
		return t.m.At(row, col) / s[col]
	}

	x := math.Asin(clamp(-r(1, 2), -1, 1))
	var y, z float64
	if math.Cos(x) > gimbalEpsilon {
		y = math.Atan2(r(0, 2), r(2, 2))
		z = math.Atan2(r(1, 0), r(1, 1))
	} else {
		y = math.Atan2(-r(2, 0), r(0, 0))
	}
	return Vec3{mgl64.RadToDeg(x), mgl64.RadToDeg(y), mgl64.RadToDeg(z)}
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

// MarshalJSON encodes the matrix as 16 column-major numbers.
func (t Transform) MarshalJSON() ([]byte, error) {
	return json.Marshal([16]float64(t.m))
}

// UnmarshalJSON decodes 16 column-major numbers.
func (t *Transform) UnmarshalJSON(data []byte) error {
	var m [16]float64
	if err := json.Unmarshal(data, &m); err != nil {
		return fmt.Errorf("decode transform: %w", err)
	}
	t.m = mgl64.Mat4(m)
	return nil
}

// String formats the transform as its pose.
func (t Transform) String() string {
	return t.Pose().String()
}

// Pose is a decomposed transform, used for status readouts.
type Pose struct {
	Position    Vec3 `json:"position"`
	Scale       Vec3 `json:"scale"`
	Orientation Vec3 `json:"orientation"`
}

// Pose decomposes t.
func (t Transform) Pose() Pose {
	return Pose{
		Position:    t.Position(),
		Scale:       t.Scale(),
		Orientation: t.Orientation(),
	}
}

// String renders the three readout lines shown next to the model.
func (p Pose) String() string {
	return strings.Join([]string{
		"Position: " + formatVec(p.Position),
		"Scale: " + formatVec(p.Scale),
		"Orientation: " + formatVec(p.Orientation),
	}, "\n")
}

func formatVec(v Vec3) string {
	return FormatFloat(v.X()) + " " + FormatFloat(v.Y()) + " " + FormatFloat(v.Z())
}

// FormatFloat truncates (does not round) v to two decimals.
func FormatFloat(v float64) string {
	if v == 0 {
		v = 0 // drop the sign of -0
	}
	s := strconv.FormatFloat(v, 'f', -1, 64)
	if i := strings.IndexByte(s, '.'); i != -1 && len(s) > i+3 {
		s = s[:i+3]
	}
	return s
}
