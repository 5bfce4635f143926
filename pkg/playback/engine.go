package playback

import (
	"github.com/epit3d/spycer/pkg/errors"
	"github.com/epit3d/spycer/pkg/render"
	"github.com/epit3d/spycer/pkg/transform"
)

// Input is the loaded layer stack.
type Input struct {
	// Layers are the layer handles in print order.
	Layers []render.Handle

	// Rotations maps each layer index to its rotation group.
	Rotations []int

	// Groups holds each rotation group's orientation.
	Groups []transform.Transform

	// Plane is the reference slicing-plane handle. Zero means none.
	Plane render.Handle
}

// Engine applies scrub moves to a loaded layer stack.
type Engine struct {
	adapter render.Adapter
	style   render.Style
	in      Input

	// applied[b] is the group whose frame layer b is currently drawn in.
	applied []int
}

// New creates an engine for in. It panics with an invariant violation if the
// rotation map does not match the layers or names an unknown group.
func New(adapter render.Adapter, style render.Style, in Input) *Engine {
	if len(in.Layers) != len(in.Rotations) {
		errors.Invariant("%d layers but %d rotation entries", len(in.Layers), len(in.Rotations))
	}
	applied := make([]int, len(in.Rotations))
	for i, g := range in.Rotations {
		if g < 0 || g >= len(in.Groups) {
			errors.Invariant("layer %d references rotation group %d of %d", i, g, len(in.Groups))
		}
		applied[i] = g
	}
	return &Engine{adapter: adapter, style: style, in: in, applied: applied}
}

// Len returns the layer count N.
func (e *Engine) Len() int { return len(e.in.Layers) }

// Group returns the rotation group in effect at scrub position pos.
func (e *Engine) Group(pos int) int {
	if len(e.in.Rotations) == 0 {
		return 0
	}
	if pos >= len(e.in.Rotations) {
		return e.in.Rotations[0]
	}
	return e.in.Rotations[pos]
}

// AppliedGroup returns the group whose frame layer b is drawn in.
func (e *Engine) AppliedGroup(b int) int { return e.applied[b] }

// Upper returns the exclusive end of the visible prefix at pos for n layers.
func Upper(pos, n int) int {
	if pos >= n {
		return pos
	}
	return pos + 1
}

// Initialize shows every layer in the frame of layer 0's group, with no
// highlight. This is scrub position N.
func (e *Engine) Initialize() {
	n := e.Len()
	if n == 0 {
		return
	}
	g := e.Group(n)
	for b, h := range e.in.Layers {
		e.adapter.SetVisible(h, true)
		e.adapter.SetColor(h, e.style.Layer)
		e.adapter.SetLineWidth(h, e.style.LayerWidth)
		if e.applied[b] != g {
			e.reframe(b, g)
		}
	}
	if e.in.Plane != 0 {
		e.adapter.SetTransform(e.in.Plane, e.in.Groups[g])
	}
	e.adapter.RequestRedraw()
}

// Scrub moves the view from prev to next and returns next. Both must lie in
// [0, N]; the engine does not clamp.
func (e *Engine) Scrub(prev, next int) int {
	e.Apply(e.Plan(prev, next))
	return next
}

func (e *Engine) reframe(b, g int) {
	own := e.in.Groups[e.in.Rotations[b]]
	e.adapter.SetTransform(e.in.Layers[b], transform.RevertThenApply(own, e.in.Groups[g]))
	e.applied[b] = g
}
