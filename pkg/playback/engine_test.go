package playback

import (
	"testing"

	"github.com/epit3d/spycer/pkg/errors"
	"github.com/epit3d/spycer/pkg/render"
	"github.com/epit3d/spycer/pkg/transform"
)

const eps = 1e-9

var (
	groupA = transform.Identity()
	groupB = transform.RotationAbout(transform.Vec3{0, 0, 10}, transform.Vec3{30, 0, 0})
	groupC = transform.RotationAbout(transform.Vec3{0, 0, 20}, transform.Vec3{0, 0, 45})
)

type fixture struct {
	rec    *render.Recorder
	eng    *Engine
	style  render.Style
	layers []render.Handle
	plane  render.Handle
	rot    []int
	groups []transform.Transform
}

func newFixture(t *testing.T, rot []int, groups ...transform.Transform) *fixture {
	t.Helper()
	rec := render.NewRecorder()
	f := &fixture{rec: rec, style: render.DefaultStyle(), rot: rot, groups: groups}
	for range rot {
		f.layers = append(f.layers, rec.CreateHandle(render.Descriptor{Kind: render.KindLayer}))
	}
	f.plane = rec.CreateHandle(render.Descriptor{Kind: render.KindReferencePlane})
	f.eng = New(rec, f.style, Input{Layers: f.layers, Rotations: rot, Groups: groups, Plane: f.plane})
	return f
}

func sameGroup(n, g int) []int {
	rot := make([]int, n)
	for i := range rot {
		rot[i] = g
	}
	return rot
}

func (f *fixture) actor(t *testing.T, b int) render.Actor {
	t.Helper()
	a, ok := f.rec.Actor(f.layers[b])
	if !ok {
		t.Fatalf("layer %d not live", b)
	}
	return a
}

// state returns the visible layers and the highlighted layer (-1 for none).
func (f *fixture) state(t *testing.T) ([]bool, int) {
	t.Helper()
	visible := make([]bool, len(f.layers))
	highlight := -1
	for b := range f.layers {
		a := f.actor(t, b)
		visible[b] = a.Visible
		if a.Color == f.style.LastLayer {
			if highlight != -1 {
				t.Fatalf("layers %d and %d both highlighted", highlight, b)
			}
			highlight = b
		}
	}
	return visible, highlight
}

// wantFrame checks that every visible layer is drawn in group g's frame.
func (f *fixture) wantFrame(t *testing.T, g int) {
	t.Helper()
	for b := range f.layers {
		a := f.actor(t, b)
		if !a.Visible {
			continue
		}
		want := transform.RevertThenApply(f.groups[f.rot[b]], f.groups[g])
		if !a.Transform.ApproxEqual(want, eps) {
			t.Errorf("layer %d not in frame of group %d", b, g)
		}
	}
}

func TestNewPanicsOnMismatch(t *testing.T) {
	tests := []struct {
		name string
		in   Input
	}{
		{"length mismatch", Input{Layers: make([]render.Handle, 3), Rotations: []int{0, 0}, Groups: []transform.Transform{groupA}}},
		{"unknown group", Input{Layers: make([]render.Handle, 2), Rotations: []int{0, 1}, Groups: []transform.Transform{groupA}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			defer func() {
				if _, ok := recover().(*errors.InvariantViolation); !ok {
					t.Error("New did not panic with InvariantViolation")
				}
			}()
			New(render.NewRecorder(), render.DefaultStyle(), tt.in)
		})
	}
}

func TestInitialize(t *testing.T) {
	f := newFixture(t, []int{1, 1, 0, 0}, groupA, groupB)
	f.eng.Initialize()

	visible, highlight := f.state(t)
	for b, v := range visible {
		if !v {
			t.Errorf("layer %d hidden after Initialize", b)
		}
	}
	if highlight != -1 {
		t.Errorf("highlight = %d after Initialize, want none", highlight)
	}
	f.wantFrame(t, 1)
	if p, _ := f.rec.Actor(f.plane); !p.Transform.ApproxEqual(groupB, eps) {
		t.Error("plane not oriented to group of layer 0")
	}
}

func TestScrubWithinGroup(t *testing.T) {
	f := newFixture(t, sameGroup(10, 0), groupA)
	f.eng.Initialize()
	f.eng.Scrub(10, 3)
	f.rec.ResetCalls()

	if got := f.eng.Scrub(3, 7); got != 7 {
		t.Errorf("Scrub returned %d, want 7", got)
	}

	visible, highlight := f.state(t)
	for b := 0; b < 10; b++ {
		if want := b <= 7; visible[b] != want {
			t.Errorf("layer %d visible = %v, want %v", b, visible[b], want)
		}
	}
	if highlight != 7 {
		t.Errorf("highlight = %d, want 7", highlight)
	}
	if a := f.actor(t, 3); a.Color != f.style.Layer || a.LineWidth != f.style.LayerWidth {
		t.Errorf("layer 3 not reverted: %+v", a)
	}
	if a := f.actor(t, 7); a.LineWidth != f.style.LastLayerWidth {
		t.Errorf("layer 7 width = %v, want %v", a.LineWidth, f.style.LastLayerWidth)
	}

	calls := f.rec.Calls()
	if calls.SetTransform != 0 {
		t.Errorf("SetTransform calls = %d, want 0", calls.SetTransform)
	}
	if calls.SetVisible != 5 {
		t.Errorf("SetVisible calls = %d, want 5 (layers [3, 8))", calls.SetVisible)
	}
}

func TestScrubAcrossGroupBoundary(t *testing.T) {
	rot := []int{0, 0, 0, 0, 0, 1, 1, 1, 1, 1}
	f := newFixture(t, rot, groupA, groupB)
	f.eng.Initialize()
	f.eng.Scrub(10, 3)
	f.rec.ResetCalls()

	before8, before9 := f.actor(t, 8).Transform, f.actor(t, 9).Transform
	f.eng.Scrub(3, 7)

	for b := 0; b < 8; b++ {
		a := f.actor(t, b)
		if a.TransformUpdates != 1 {
			t.Errorf("layer %d transform updates = %d, want 1", b, a.TransformUpdates)
		}
		want := transform.RevertThenApply(f.groups[rot[b]], groupB)
		if !a.Transform.ApproxEqual(want, eps) {
			t.Errorf("layer %d transform = %v, want %v", b, a.Transform, want)
		}
	}
	for b, before := range map[int]transform.Transform{8: before8, 9: before9} {
		a := f.actor(t, b)
		if a.TransformUpdates != 0 || !a.Transform.ApproxEqual(before, 0) {
			t.Errorf("layer %d transform changed", b)
		}
	}
	if p, _ := f.rec.Actor(f.plane); !p.Transform.ApproxEqual(groupB, eps) {
		t.Error("plane not re-oriented to group B")
	}
}

func TestRoundTrip(t *testing.T) {
	rot := []int{0, 0, 1, 1, 2, 2, 0, 1}
	n := len(rot)

	for start := 0; start <= n; start++ {
		for target := start; target <= n; target++ {
			f := newFixture(t, rot, groupA, groupB, groupC)
			f.eng.Initialize()
			f.eng.Scrub(n, start)

			wantVis, wantHL := f.state(t)
			f.eng.Scrub(start, target)
			f.eng.Scrub(target, start)
			gotVis, gotHL := f.state(t)

			if gotHL != wantHL {
				t.Errorf("%d->%d->%d: highlight = %d, want %d", start, target, start, gotHL, wantHL)
			}
			for b := range gotVis {
				if gotVis[b] != wantVis[b] {
					t.Errorf("%d->%d->%d: layer %d visible = %v, want %v", start, target, start, b, gotVis[b], wantVis[b])
				}
			}
			f.wantFrame(t, f.eng.Group(start))
		}
	}
}

func TestJumpPastUnvisitedBoundaries(t *testing.T) {
	// Three groups, never visited before the jump.
	rot := []int{0, 0, 0, 1, 1, 1, 2, 2, 2, 0}
	f := newFixture(t, rot, groupA, groupB, groupC)
	f.eng.Initialize()
	f.eng.Scrub(10, 0)

	f.eng.Scrub(0, 7)
	f.wantFrame(t, 2)
	if p, _ := f.rec.Actor(f.plane); !p.Transform.ApproxEqual(groupC, eps) {
		t.Error("plane not re-oriented to group C")
	}

	// Back into group B's range, then forward within group B: the layer
	// revealed was last drawn in group C's frame and must follow.
	f.eng.Scrub(7, 3)
	f.wantFrame(t, 1)
	f.eng.Scrub(3, 5)
	f.wantFrame(t, 1)
	for b := 0; b <= 5; b++ {
		if got := f.eng.AppliedGroup(b); got != 1 {
			t.Errorf("layer %d applied group = %d, want 1", b, got)
		}
	}

	// Jump to all layers: frame of layer 0's group.
	f.eng.Scrub(5, 10)
	f.wantFrame(t, 0)
	visible, highlight := f.state(t)
	if highlight != -1 {
		t.Errorf("highlight = %d at N, want none", highlight)
	}
	for b, v := range visible {
		if !v {
			t.Errorf("layer %d hidden at N", b)
		}
	}
}

func TestPlanIsPure(t *testing.T) {
	f := newFixture(t, []int{0, 1, 1}, groupA, groupB)
	f.eng.Initialize()
	f.rec.ResetCalls()

	p := f.eng.Plan(3, 1)
	if f.rec.Calls() != (render.Calls{}) {
		t.Errorf("Plan called the adapter: %+v", f.rec.Calls())
	}
	if p.Highlight != 1 || p.Revert != -1 {
		t.Errorf("Plan highlight/revert = %d/%d, want 1/-1", p.Highlight, p.Revert)
	}
	if p.Hide != (Range{From: 2, To: 3}) || p.Show.Len() != 0 {
		t.Errorf("Plan ranges = show %v hide %v", p.Show, p.Hide)
	}
	if p.Group != 1 || !p.MovePlane || len(p.Reframe) != 2 {
		t.Errorf("Plan frame = group %d, plane %v, reframe %v", p.Group, p.MovePlane, p.Reframe)
	}
}

func TestPlanSamePositionKeepsHighlight(t *testing.T) {
	f := newFixture(t, []int{0, 1, 1}, groupA, groupB)
	f.eng.Initialize()

	tests := []struct {
		prev, next, revert int
	}{
		{1, 1, -1},
		{2, 1, 2},
		{3, 1, -1},
	}
	for _, tt := range tests {
		p := f.eng.Plan(tt.prev, tt.next)
		if p.Revert != tt.revert || p.Highlight != tt.next {
			t.Errorf("Plan(%d, %d) revert/highlight = %d/%d, want %d/%d", tt.prev, tt.next, p.Revert, p.Highlight, tt.revert, tt.next)
		}
	}
}

func TestEmptyStack(t *testing.T) {
	rec := render.NewRecorder()
	eng := New(rec, render.DefaultStyle(), Input{})
	eng.Initialize()
	if got := eng.Scrub(0, 0); got != 0 {
		t.Errorf("Scrub(0, 0) = %d, want 0", got)
	}
	if rec.Calls() != (render.Calls{}) {
		t.Errorf("empty stack issued adapter calls: %+v", rec.Calls())
	}
}

func TestUpper(t *testing.T) {
	tests := []struct{ pos, n, want int }{
		{0, 10, 1},
		{9, 10, 10},
		{10, 10, 10},
		{0, 0, 0},
	}
	for _, tt := range tests {
		if got := Upper(tt.pos, tt.n); got != tt.want {
			t.Errorf("Upper(%d, %d) = %d, want %d", tt.pos, tt.n, got, tt.want)
		}
	}
}
