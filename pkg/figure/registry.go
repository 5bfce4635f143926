package figure

import (
	"fmt"
	"slices"

	"github.com/epit3d/spycer/pkg/errors"
	"github.com/epit3d/spycer/pkg/render"
)

// Registry is the ordered, selectable figure collection and its render
// handles. It is not safe for concurrent use; the scene controller owns it.
type Registry struct {
	adapter  render.Adapter
	style    render.Style
	figures  []Figure
	handles  []render.Handle
	selected int
	hidden   bool
}

// NewRegistry creates an empty registry drawing through adapter.
func NewRegistry(adapter render.Adapter, style render.Style) *Registry {
	return &Registry{adapter: adapter, style: style, selected: -1}
}

// Add appends f, creates its handle and selects it. It returns the new index.
func (r *Registry) Add(f Figure) (int, error) {
	if err := f.Validate(); err != nil {
		return -1, err
	}
	r.figures = append(r.figures, f)
	r.handles = append(r.handles, r.create(f))
	i := len(r.figures) - 1
	r.selectIndex(i)
	r.adapter.RequestRedraw()
	return i, nil
}

// Update replaces the figure at i and rebuilds its handle.
// A selected figure keeps its highlight.
func (r *Registry) Update(i int, f Figure) error {
	if err := errors.ValidateIndex("figure", i, len(r.figures)); err != nil {
		return err
	}
	if err := f.Validate(); err != nil {
		return err
	}
	r.adapter.DestroyHandle(r.handles[i])
	r.figures[i] = f
	r.handles[i] = r.create(f)
	if i == r.selected {
		r.adapter.SetColor(r.handles[i], r.style.SelectedFigure)
	}
	r.adapter.RequestRedraw()
	return nil
}

// Remove deletes the figure at i; higher indices shift down by one.
// A selection at or above i is cleared and its highlight dropped, then the
// last remaining figure (if any) becomes selected.
func (r *Registry) Remove(i int) error {
	if err := errors.ValidateIndex("figure", i, len(r.figures)); err != nil {
		return err
	}
	r.adapter.DestroyHandle(r.handles[i])
	r.figures = slices.Delete(r.figures, i, i+1)
	r.handles = slices.Delete(r.handles, i, i+1)
	switch {
	case r.selected > i:
		// the selected handle shifted down with the rest
		r.adapter.SetColor(r.handles[r.selected-1], r.style.Figure)
		r.selected = -1
	case r.selected == i:
		r.selected = -1
	}
	if n := len(r.figures); n > 0 {
		r.selectIndex(n - 1)
	}
	r.adapter.RequestRedraw()
	return nil
}

// Select moves the highlight to figure i.
func (r *Registry) Select(i int) error {
	if err := errors.ValidateIndex("figure", i, len(r.figures)); err != nil {
		return err
	}
	r.selectIndex(i)
	r.adapter.RequestRedraw()
	return nil
}

// SetHidden shows or hides every figure handle. The sequence and the
// selection are unchanged.
func (r *Registry) SetHidden(hidden bool) {
	r.hidden = hidden
	for _, h := range r.handles {
		r.adapter.SetVisible(h, !hidden)
	}
	r.adapter.RequestRedraw()
}

// Reset replaces the whole sequence with figs and selects the last one.
// Nothing changes if any figure is invalid.
func (r *Registry) Reset(figs []Figure) error {
	for i, f := range figs {
		if err := f.Validate(); err != nil {
			return errors.Wrap(errors.GetCode(err), err, "figure %d", i+1)
		}
	}
	r.destroyAll()
	for _, f := range figs {
		r.figures = append(r.figures, f)
		r.handles = append(r.handles, r.create(f))
	}
	if n := len(r.figures); n > 0 {
		r.selectIndex(n - 1)
	}
	r.adapter.RequestRedraw()
	return nil
}

// Clear removes every figure and its handle.
func (r *Registry) Clear() {
	r.destroyAll()
	r.adapter.RequestRedraw()
}

func (r *Registry) destroyAll() {
	for _, h := range r.handles {
		r.adapter.DestroyHandle(h)
	}
	r.figures = nil
	r.handles = nil
	r.selected = -1
}

func (r *Registry) create(f Figure) render.Handle {
	h := r.adapter.CreateHandle(Descriptor(f, r.style))
	r.adapter.SetColor(h, r.style.Figure)
	if r.hidden {
		r.adapter.SetVisible(h, false)
	}
	return h
}

func (r *Registry) selectIndex(i int) {
	if r.selected >= 0 && r.selected != i {
		r.adapter.SetColor(r.handles[r.selected], r.style.Figure)
	}
	r.selected = i
	r.adapter.SetColor(r.handles[i], r.style.SelectedFigure)
}

// Len returns the number of figures.
func (r *Registry) Len() int { return len(r.figures) }

// Figures returns a copy of the figure sequence.
func (r *Registry) Figures() []Figure { return slices.Clone(r.figures) }

// Handles returns a copy of the handle sequence, index-aligned with Figures.
func (r *Registry) Handles() []render.Handle { return slices.Clone(r.handles) }

// Selected returns the selected index, if any.
func (r *Registry) Selected() (int, bool) {
	return r.selected, r.selected >= 0
}

// Hidden reports whether figures are hidden.
func (r *Registry) Hidden() bool { return r.hidden }

// Label is the operator-facing name of figure i.
func Label(i int) string { return fmt.Sprintf("Figure %d", i+1) }
