package sink

import (
	"bytes"
	"fmt"
	"math"
	"strings"

	"github.com/epit3d/spycer/pkg/render"
	"github.com/epit3d/spycer/pkg/transform"
)

// View selects the projection plane.
type View int

const (
	// ViewSide looks along +Y: horizontal is X, vertical is Z.
	ViewSide View = iota
	// ViewTop looks down -Z: horizontal is X, vertical is Y.
	ViewTop
)

type SVGOption func(*svgRenderer)

type svgRenderer struct {
	view    View
	width   float64
	margin  float64
	kinds   map[render.Kind]bool
	caption string
}

func WithView(v View) SVGOption      { return func(r *svgRenderer) { r.view = v } }
func WithWidth(w float64) SVGOption  { return func(r *svgRenderer) { r.width = w } }
func WithCaption(s string) SVGOption { return func(r *svgRenderer) { r.caption = s } }
func WithMargin(m float64) SVGOption { return func(r *svgRenderer) { r.margin = m } }

// WithKinds restricts output to the given actor kinds.
func WithKinds(kinds ...render.Kind) SVGOption {
	return func(r *svgRenderer) {
		r.kinds = make(map[render.Kind]bool, len(kinds))
		for _, k := range kinds {
			r.kinds[k] = true
		}
	}
}

type polyline struct {
	id     string
	kind   render.Kind
	points [][2]float64
	color  string
	width  float64
}

// RenderSVG draws the visible actors of s.
func RenderSVG(s render.Snapshot, opts ...SVGOption) []byte {
	r := svgRenderer{width: 800, margin: 10}
	for _, opt := range opts {
		opt(&r)
	}

	lines := r.project(s)
	minX, minY, maxX, maxY := bounds(lines)
	spanX, spanY := maxX-minX, maxY-minY
	if spanX <= 0 {
		spanX = 1
	}
	if spanY <= 0 {
		spanY = 1
	}
	scale := (r.width - 2*r.margin) / spanX
	height := spanY*scale + 2*r.margin

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.1f %.1f" width="%.0f" height="%.0f">`+"\n",
		r.width, height, r.width, height)
	fmt.Fprintf(&buf, `  <rect width="100%%" height="100%%" fill="%s"/>`+"\n", s.Background.Hex())

	for _, l := range lines {
		pts := make([]string, len(l.points))
		for i, p := range l.points {
			x := r.margin + (p[0]-minX)*scale
			y := r.margin + (maxY-p[1])*scale
			pts[i] = fmt.Sprintf("%.2f,%.2f", x, y)
		}
		fmt.Fprintf(&buf, `  <polyline id="%s" class="%s" points="%s" fill="none" stroke="%s" stroke-width="%.1f"/>`+"\n",
			l.id, l.kind, strings.Join(pts, " "), l.color, l.width)
	}

	if r.caption != "" {
		fmt.Fprintf(&buf, `  <text x="%.1f" y="%.1f" font-family="monospace" font-size="12" fill="#ffffff">%s</text>`+"\n",
			r.margin, height-r.margin/2, escape(r.caption))
	}

	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

func (r svgRenderer) project(s render.Snapshot) []polyline {
	var out []polyline
	for _, a := range s.Actors {
		if !a.Visible || (r.kinds != nil && !r.kinds[a.Descriptor.Kind]) {
			continue
		}
		for i, path := range a.Descriptor.Paths {
			if len(path) < 2 {
				continue
			}
			l := polyline{
				id:    fmt.Sprintf("%s-%d-%d", a.Descriptor.Kind, a.Handle, i),
				kind:  a.Descriptor.Kind,
				color: a.Color.Hex(),
				width: a.LineWidth,
			}
			for _, p := range path {
				l.points = append(l.points, r.flatten(a.Transform, p))
			}
			out = append(out, l)
		}
	}
	return out
}

func (r svgRenderer) flatten(t transform.Transform, p transform.Vec3) [2]float64 {
	w := t.Apply(p)
	if r.view == ViewTop {
		return [2]float64{w.X(), w.Y()}
	}
	return [2]float64{w.X(), w.Z()}
}

func bounds(lines []polyline) (minX, minY, maxX, maxY float64) {
	minX, minY = math.Inf(1), math.Inf(1)
	maxX, maxY = math.Inf(-1), math.Inf(-1)
	for _, l := range lines {
		for _, p := range l.points {
			minX, maxX = math.Min(minX, p[0]), math.Max(maxX, p[0])
			minY, maxY = math.Min(minY, p[1]), math.Max(maxY, p[1])
		}
	}
	if math.IsInf(minX, 1) {
		return 0, 0, 1, 1
	}
	return minX, minY, maxX, maxY
}

var escaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;", `"`, "&quot;")

func escape(s string) string { return escaper.Replace(s) }
