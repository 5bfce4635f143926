package render

import (
	"slices"
	"sync"

	"github.com/epit3d/spycer/pkg/errors"
	"github.com/epit3d/spycer/pkg/transform"
)

// Actor is the recorded on-screen state of one handle.
type Actor struct {
	Handle     Handle              `json:"handle"`
	Descriptor Descriptor          `json:"descriptor"`
	Visible    bool                `json:"visible"`
	Transform  transform.Transform `json:"transform"`
	Color      RGB                 `json:"color"`
	LineWidth  float64             `json:"line_width"`

	// TransformUpdates counts SetTransform calls on this actor.
	TransformUpdates int `json:"-"`
}

// Calls counts Adapter method invocations.
type Calls struct {
	Create       int `json:"create"`
	Destroy      int `json:"destroy"`
	SetVisible   int `json:"set_visible"`
	SetTransform int `json:"set_transform"`
	SetColor     int `json:"set_color"`
	SetLineWidth int `json:"set_line_width"`
	Redraw       int `json:"redraw"`
}

// Snapshot is a point-in-time copy of all live actors in creation order.
type Snapshot struct {
	Background RGB     `json:"background"`
	Actors     []Actor `json:"actors"`
	Calls      Calls   `json:"calls"`
}

// Visible returns the visible actors of kind k.
func (s Snapshot) Visible(k Kind) []Actor {
	var out []Actor
	for _, a := range s.Actors {
		if a.Visible && a.Descriptor.Kind == k {
			out = append(out, a)
		}
	}
	return out
}

// Recorder is an Adapter that keeps actor state in memory.
// It is safe for concurrent use. Operations on handles it did not create
// (or already destroyed) are invariant violations.
type Recorder struct {
	mu         sync.Mutex
	next       Handle
	actors     map[Handle]*Actor
	order      []Handle
	calls      Calls
	background RGB
}

// NewRecorder creates an empty recorder.
func NewRecorder() *Recorder {
	return &Recorder{actors: make(map[Handle]*Actor)}
}

// SetBackground records the scene background color.
func (r *Recorder) SetBackground(c RGB) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.background = c
}

// CreateHandle implements Adapter. New actors are visible, untransformed,
// white, with line width 1.
func (r *Recorder) CreateHandle(d Descriptor) Handle {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls.Create++
	r.next++
	h := r.next
	r.actors[h] = &Actor{
		Handle:     h,
		Descriptor: d,
		Visible:    true,
		Transform:  transform.Identity(),
		Color:      RGB{R: 1, G: 1, B: 1},
		LineWidth:  1,
	}
	r.order = append(r.order, h)
	return h
}

// DestroyHandle implements Adapter.
func (r *Recorder) DestroyHandle(h Handle) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls.Destroy++
	r.mustGet(h)
	delete(r.actors, h)
	r.order = slices.DeleteFunc(r.order, func(x Handle) bool { return x == h })
}

// SetVisible implements Adapter.
func (r *Recorder) SetVisible(h Handle, visible bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls.SetVisible++
	r.mustGet(h).Visible = visible
}

// SetTransform implements Adapter.
func (r *Recorder) SetTransform(h Handle, t transform.Transform) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls.SetTransform++
	a := r.mustGet(h)
	a.Transform = t
	a.TransformUpdates++
}

// SetColor implements Adapter.
func (r *Recorder) SetColor(h Handle, c RGB) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls.SetColor++
	r.mustGet(h).Color = c
}

// SetLineWidth implements Adapter.
func (r *Recorder) SetLineWidth(h Handle, w float64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls.SetLineWidth++
	r.mustGet(h).LineWidth = w
}

// RequestRedraw implements Adapter.
func (r *Recorder) RequestRedraw() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls.Redraw++
}

func (r *Recorder) mustGet(h Handle) *Actor {
	a, ok := r.actors[h]
	if !ok {
		errors.Invariant("render handle %d is not live", h)
	}
	return a
}

// Actor returns a copy of the actor for h.
func (r *Recorder) Actor(h Handle) (Actor, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.actors[h]
	if !ok {
		return Actor{}, false
	}
	return *a, true
}

// Live returns the number of live actors.
func (r *Recorder) Live() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.actors)
}

// Calls returns the call counters.
func (r *Recorder) Calls() Calls {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.calls
}

// ResetCalls zeroes the call counters and per-actor transform counts.
func (r *Recorder) ResetCalls() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = Calls{}
	for _, a := range r.actors {
		a.TransformUpdates = 0
	}
}

// Snapshot copies the current state.
func (r *Recorder) Snapshot() Snapshot {
	r.mu.Lock()
	defer r.mu.Unlock()
	s := Snapshot{
		Background: r.background,
		Actors:     make([]Actor, 0, len(r.order)),
		Calls:      r.calls,
	}
	for _, h := range r.order {
		s.Actors = append(s.Actors, *r.actors[h])
	}
	return s
}

var _ Adapter = (*Recorder)(nil)
