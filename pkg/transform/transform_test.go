package transform

import (
	"encoding/json"
	"math"
	"testing"
)

const eps = 1e-9

func vecClose(a, b Vec3, tol float64) bool {
	for i := range a {
		if math.Abs(a[i]-b[i]) > tol {
			return false
		}
	}
	return true
}

func TestComposeRoundTrip(t *testing.T) {
	tests := []struct {
		name        string
		position    Vec3
		scale       Vec3
		orientation Vec3
	}{
		{"identity", Vec3{0, 0, 0}, Vec3{1, 1, 1}, Vec3{0, 0, 0}},
		{"translate only", Vec3{10, -5, 3}, Vec3{1, 1, 1}, Vec3{0, 0, 0}},
		{"uniform scale", Vec3{0, 0, 0}, Vec3{2, 2, 2}, Vec3{0, 0, 0}},
		{"all axes", Vec3{1, 2, 3}, Vec3{1.5, 0.5, 2}, Vec3{30, -45, 60}},
		{"negative angles", Vec3{-7, 0, 12}, Vec3{1, 1, 1}, Vec3{-10, 170, -90}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tf := Compose(tt.position, tt.scale, tt.orientation)
			if got := tf.Position(); !vecClose(got, tt.position, eps) {
				t.Errorf("Position() = %v, want %v", got, tt.position)
			}
			if got := tf.Scale(); !vecClose(got, tt.scale, eps) {
				t.Errorf("Scale() = %v, want %v", got, tt.scale)
			}
			again := Compose(tf.Position(), tf.Scale(), tf.Orientation())
			if !again.ApproxEqual(tf, 1e-9) {
				t.Errorf("Compose(decompose(t)) = %v, want %v", again.Mat4(), tf.Mat4())
			}
		})
	}
}

func TestOrientationGimbal(t *testing.T) {
	tf := Rotation(Vec3{90, 20, 0})
	again := Rotation(tf.Orientation())
	if !again.ApproxEqual(tf, 1e-9) {
		t.Errorf("gimbal orientation does not reproduce rotation: %v", tf.Orientation())
	}
}

func TestRotationOrder(t *testing.T) {
	// Z first: +X -> +Y, then X by 90: +Y -> +Z.
	tf := Rotation(Vec3{90, 0, 90})
	got := tf.Apply(Vec3{1, 0, 0})
	if !vecClose(got, Vec3{0, 0, 1}, eps) {
		t.Errorf("Apply = %v, want [0 0 1]", got)
	}
}

func TestThenOrder(t *testing.T) {
	move := Translation(10, 0, 0)
	spin := Rotation(Vec3{0, 0, 90})

	got := move.Then(spin).Apply(Vec3{0, 0, 0})
	if !vecClose(got, Vec3{0, 10, 0}, eps) {
		t.Errorf("move.Then(spin) origin = %v, want [0 10 0]", got)
	}

	got = spin.Then(move).Apply(Vec3{0, 0, 0})
	if !vecClose(got, Vec3{10, 0, 0}, eps) {
		t.Errorf("spin.Then(move) origin = %v, want [10 0 0]", got)
	}
}

func TestPostTranslate(t *testing.T) {
	placed := Compose(Vec3{5, 5, -12}, Vec3{1, 1, 1}, Vec3{0, 45, 0})
	snapped := placed.PostTranslate(0, 0, 12)

	if got := snapped.Position(); !vecClose(got, Vec3{5, 5, 0}, eps) {
		t.Errorf("Position() = %v, want [5 5 0]", got)
	}
	if got := snapped.Orientation(); !vecClose(got, placed.Orientation(), 1e-9) {
		t.Errorf("Orientation() changed: %v, want %v", got, placed.Orientation())
	}
}

func TestRevertThenApply(t *testing.T) {
	a := RotationAbout(Vec3{0, 0, 10}, Vec3{30, 0, 0})
	b := RotationAbout(Vec3{0, 0, 10}, Vec3{0, 0, 60})

	tf := RevertThenApply(a, b)

	// A point expressed under a, reverted and re-applied, lands where b puts it.
	p := Vec3{3, -4, 7}
	if got, want := tf.Apply(a.Apply(p)), b.Apply(p); !vecClose(got, want, 1e-9) {
		t.Errorf("RevertThenApply = %v, want %v", got, want)
	}

	if !RevertThenApply(a, a).ApproxEqual(Identity(), 1e-12) {
		t.Error("RevertThenApply(a, a) should be identity")
	}
}

func TestRotationAboutFixesOrigin(t *testing.T) {
	origin := Vec3{1, 2, 3}
	tf := RotationAbout(origin, Vec3{45, 10, -30})
	if got := tf.Apply(origin); !vecClose(got, origin, eps) {
		t.Errorf("origin moved to %v", got)
	}
}

func TestInverse(t *testing.T) {
	tf := Compose(Vec3{1, 2, 3}, Vec3{2, 2, 2}, Vec3{10, 20, 30})
	if !tf.Then(tf.Inverse()).ApproxEqual(Identity(), 1e-12) {
		t.Error("t.Then(t.Inverse()) should be identity")
	}
}

func TestJSON(t *testing.T) {
	tf := Compose(Vec3{1, 2, 3}, Vec3{1, 1, 1}, Vec3{0, 0, 45})
	data, err := json.Marshal(tf)
	if err != nil {
		t.Fatalf("Marshal error: %v", err)
	}
	var got Transform
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("Unmarshal error: %v", err)
	}
	if got.Mat4() != tf.Mat4() {
		t.Errorf("decoded %v, want %v", got.Mat4(), tf.Mat4())
	}
}

func TestFormatFloat(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{12, "12"},
		{1.5, "1.5"},
		{3.14159, "3.14"},
		{-0.129, "-0.12"},
	}
	for _, tt := range tests {
		if got := FormatFloat(tt.in); got != tt.want {
			t.Errorf("FormatFloat(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestPoseString(t *testing.T) {
	p := Translation(1, 2.555, 3).Pose()
	want := "Position: 1 2.55 3\nScale: 1 1 1\nOrientation: 0 0 0"
	if got := p.String(); got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}

func TestIsZero(t *testing.T) {
	var zero Transform
	if !zero.IsZero() {
		t.Error("zero value should report IsZero")
	}
	if Identity().IsZero() {
		t.Error("Identity should not report IsZero")
	}
}
