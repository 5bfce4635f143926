// Package render defines the contract between the viewer core and the
// rendering collaborator.
//
// # Overview
//
// The core never draws anything itself. It asks an [Adapter] to create an
// actor for a [Descriptor] and gets back an opaque [Handle]; from then on it
// only toggles visibility, sets transforms, colors and line widths, and asks
// for a redraw. The core owns the mapping from layers and figures to handles
// and always destroys a handle before dropping it.
//
//	h := adapter.CreateHandle(render.Descriptor{Kind: render.KindLayer, Paths: paths})
//	adapter.SetColor(h, style.LastLayer)
//	adapter.SetLineWidth(h, style.LastLayerWidth)
//	adapter.RequestRedraw()
//
// # Recorder
//
// [Recorder] is an in-memory Adapter that keeps the state each actor would
// have on screen. The terminal viewer and the HTTP surface draw from its
// [Snapshot]; tests use it to observe side effects.
//
// # Sinks
//
// The [sink] subpackage turns a Snapshot into an SVG side view (and PNG via
// rsvg-convert).
//
// [sink]: github.com/epit3d/spycer/pkg/render/sink
package render
