// Package sink turns a [render.Snapshot] into files an operator can look at
// outside the viewer.
//
// [RenderSVG] projects every visible actor onto a plane (side view X/Z by
// default, or top view X/Y) and draws its polylines with the actor's color
// and line width. Layers keep their playback highlight, so an exported frame
// shows the same current layer the viewer does.
//
//	svg := sink.RenderSVG(rec.Snapshot(), sink.WithView(sink.ViewTop))
//
// [RenderPNG] and [RenderPDF] convert that SVG with rsvg-convert, which must be
// installed (brew install librsvg, apt install librsvg2-bin).
//
// [render.Snapshot]: github.com/epit3d/spycer/pkg/render.Snapshot
package sink
