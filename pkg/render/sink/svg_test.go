package sink

import (
	"strings"
	"testing"

	"github.com/epit3d/spycer/pkg/render"
	"github.com/epit3d/spycer/pkg/transform"
)

func sampleRecorder() (*render.Recorder, render.Handle, render.Handle) {
	rec := render.NewRecorder()
	rec.SetBackground(render.MustColor("SlateGray"))
	a := rec.CreateHandle(render.Descriptor{
		Kind:  render.KindLayer,
		Paths: [][]transform.Vec3{{{0, 0, 0}, {10, 0, 0}}},
	})
	b := rec.CreateHandle(render.Descriptor{
		Kind:  render.KindLayer,
		Paths: [][]transform.Vec3{{{0, 0, 1}, {10, 0, 1}}},
	})
	return rec, a, b
}

func TestRenderSVGSkipsHidden(t *testing.T) {
	rec, a, b := sampleRecorder()
	rec.SetVisible(b, false)
	rec.SetColor(a, render.MustColor("Red"))

	svg := string(RenderSVG(rec.Snapshot()))
	if got := strings.Count(svg, "<polyline"); got != 1 {
		t.Errorf("polylines = %d, want 1", got)
	}
	if !strings.Contains(svg, `stroke="#ff0000"`) {
		t.Error("highlight color missing from output")
	}
	if !strings.Contains(svg, `fill="#708090"`) {
		t.Error("background missing from output")
	}
}

func TestRenderSVGKinds(t *testing.T) {
	rec, _, _ := sampleRecorder()
	rec.CreateHandle(render.Descriptor{
		Kind:  render.KindPlane,
		Paths: [][]transform.Vec3{{{-1, 0, 0}, {1, 0, 0}}},
	})

	svg := string(RenderSVG(rec.Snapshot(), WithKinds(render.KindPlane)))
	if got := strings.Count(svg, "<polyline"); got != 1 {
		t.Errorf("polylines = %d, want 1", got)
	}
	if !strings.Contains(svg, `class="plane"`) {
		t.Error("plane polyline missing")
	}
}

func TestRenderSVGEmpty(t *testing.T) {
	svg := string(RenderSVG(render.NewRecorder().Snapshot(), WithCaption("a<b")))
	if !strings.HasPrefix(svg, "<svg") || !strings.HasSuffix(svg, "</svg>\n") {
		t.Errorf("malformed svg: %q", svg)
	}
	if !strings.Contains(svg, "a&lt;b") {
		t.Error("caption not escaped")
	}
}
