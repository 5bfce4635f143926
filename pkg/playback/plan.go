package playback

// Range is a half-open layer index range.
type Range struct {
	From, To int
}

// Len returns the number of indices in r.
func (r Range) Len() int { return max(0, r.To-r.From) }

// Plan is the set of changes a scrub move makes.
type Plan struct {
	Prev, Next int

	// Revert is the layer losing its highlight, or -1. It is -1 when
	// Prev == Next.
	Revert int
	// Highlight is the layer gaining the highlight, or -1.
	Highlight int

	// Show and Hide are the layers changing visibility. At most one is
	// non-empty.
	Show, Hide Range

	// Group is the rotation group in effect after the move.
	Group int
	// Reframe lists the layers redrawn in Group's frame.
	Reframe []int
	// MovePlane is set when the reference plane changes orientation.
	MovePlane bool
}

// Plan computes the changes for a move from prev to next without touching
// the adapter. A move to the current position keeps its highlight: Revert is
// only set when prev is a layer other than next.
func (e *Engine) Plan(prev, next int) Plan {
	n := e.Len()
	isLast, wasLast := next >= n, prev >= n
	upperPrev, upperNew := Upper(prev, n), Upper(next, n)

	p := Plan{Prev: prev, Next: next, Revert: -1, Highlight: -1}
	if n == 0 {
		return p
	}

	if !isLast {
		p.Highlight = next
	}
	if !wasLast && prev != next {
		p.Revert = prev
	}

	if next < prev {
		p.Hide = Range{From: next + 1, To: upperPrev}
	} else {
		p.Show = Range{From: prev, To: upperNew}
	}

	prevGroup := e.Group(prev)
	p.Group = e.Group(next)
	if p.Group != prevGroup {
		for b := 0; b < upperNew; b++ {
			p.Reframe = append(p.Reframe, b)
		}
		p.MovePlane = true
		return p
	}

	// No boundary crossed: revealed layers still need the current frame if
	// they were last drawn in another one.
	for b := p.Show.From; b < p.Show.To; b++ {
		if e.applied[b] != p.Group {
			p.Reframe = append(p.Reframe, b)
		}
	}
	return p
}

// Apply issues the adapter calls for p.
func (e *Engine) Apply(p Plan) {
	if e.Len() == 0 {
		return
	}
	layers := e.in.Layers

	if p.Highlight >= 0 {
		e.adapter.SetColor(layers[p.Highlight], e.style.LastLayer)
		e.adapter.SetLineWidth(layers[p.Highlight], e.style.LastLayerWidth)
	}
	if p.Revert >= 0 {
		e.adapter.SetColor(layers[p.Revert], e.style.Layer)
		e.adapter.SetLineWidth(layers[p.Revert], e.style.LayerWidth)
	}

	for b := p.Hide.From; b < p.Hide.To; b++ {
		e.adapter.SetVisible(layers[b], false)
	}
	for b := p.Show.From; b < p.Show.To; b++ {
		e.adapter.SetVisible(layers[b], true)
	}

	for _, b := range p.Reframe {
		e.reframe(b, p.Group)
	}
	if p.MovePlane && e.in.Plane != 0 {
		e.adapter.SetTransform(e.in.Plane, e.in.Groups[p.Group])
	}

	e.adapter.RequestRedraw()
}
