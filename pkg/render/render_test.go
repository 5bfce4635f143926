package render

import (
	"testing"

	"github.com/epit3d/spycer/pkg/errors"
	"github.com/epit3d/spycer/pkg/transform"
)

func TestParseColor(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{"Red", "#ff0000", false},
		{"SlateGray", "#708090", false},
		{"cyan", "#00ffff", false},
		{"#708090", "#708090", false},
		{"  White ", "#ffffff", false},
		{"NotAColor", "", true},
		{"#12", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseColor(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseColor(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if err == nil && got.Hex() != tt.want {
				t.Errorf("ParseColor(%q) = %s, want %s", tt.in, got.Hex(), tt.want)
			}
		})
	}
}

func TestKindString(t *testing.T) {
	if KindLayer.String() != "layer" {
		t.Errorf("KindLayer = %q", KindLayer.String())
	}
	if Kind(99).String() != "unknown" {
		t.Errorf("Kind(99) = %q", Kind(99).String())
	}
}

func TestRecorderLifecycle(t *testing.T) {
	r := NewRecorder()

	a := r.CreateHandle(Descriptor{Kind: KindLayer, Label: "a"})
	b := r.CreateHandle(Descriptor{Kind: KindPlane, Label: "b"})
	if a == b || a == 0 || b == 0 {
		t.Fatalf("handles not distinct and non-zero: %d, %d", a, b)
	}
	if r.Live() != 2 {
		t.Fatalf("Live() = %d, want 2", r.Live())
	}

	r.SetVisible(a, false)
	r.SetColor(a, MustColor("Red"))
	r.SetLineWidth(a, 4)
	r.SetTransform(a, transform.Translation(0, 0, 1))
	r.RequestRedraw()

	got, ok := r.Actor(a)
	if !ok {
		t.Fatal("Actor(a) not found")
	}
	if got.Visible || got.LineWidth != 4 || got.Color.Hex() != "#ff0000" || got.TransformUpdates != 1 {
		t.Errorf("Actor(a) = %+v", got)
	}

	r.DestroyHandle(a)
	if _, ok := r.Actor(a); ok {
		t.Error("Actor(a) still live after DestroyHandle")
	}

	snap := r.Snapshot()
	if len(snap.Actors) != 1 || snap.Actors[0].Handle != b {
		t.Errorf("Snapshot actors = %+v, want only b", snap.Actors)
	}
	want := Calls{Create: 2, Destroy: 1, SetVisible: 1, SetTransform: 1, SetColor: 1, SetLineWidth: 1, Redraw: 1}
	if snap.Calls != want {
		t.Errorf("Calls = %+v, want %+v", snap.Calls, want)
	}

	r.ResetCalls()
	if r.Calls() != (Calls{}) {
		t.Errorf("Calls after reset = %+v", r.Calls())
	}
}

func TestRecorderDanglingHandlePanics(t *testing.T) {
	r := NewRecorder()
	h := r.CreateHandle(Descriptor{Kind: KindLayer})
	r.DestroyHandle(h)

	defer func() {
		if _, ok := recover().(*errors.InvariantViolation); !ok {
			t.Error("SetVisible on a destroyed handle should panic with InvariantViolation")
		}
	}()
	r.SetVisible(h, true)
}

func TestSnapshotVisible(t *testing.T) {
	r := NewRecorder()
	l1 := r.CreateHandle(Descriptor{Kind: KindLayer})
	r.CreateHandle(Descriptor{Kind: KindLayer})
	r.CreateHandle(Descriptor{Kind: KindCone})
	r.SetVisible(l1, false)

	if got := len(r.Snapshot().Visible(KindLayer)); got != 1 {
		t.Errorf("Visible(KindLayer) = %d, want 1", got)
	}
}
