// Package pkg holds the libraries behind the spycer viewer.
//
// # Layout
//
//   - [mode]: operating modes and their capability masks
//   - [scene]: the controller that owns the model, layers and figures
//   - [playback]: incremental layer reveal across rotation groups
//   - [gcode] and [model]: G-code and STL loading
//   - [figure]: slicing planes and cones
//   - [transform]: placement and rotation frames
//   - [render]: the drawing adapter contract, a recorder and sinks
//   - [slicer]: the external slicing engine runner
//   - [cache], [settings], [project]: result caching, configuration and
//     saved sessions
//
// # Data flow
//
//	STL ──▶ model ──▶ scene ◀── figure
//	                    │
//	          slicer ◀──┘──▶ gcode ──▶ playback ──▶ render adapter
//
// A typical embedding creates a controller on top of its own renderer:
//
//	ctrl := scene.New(adapter)
//	res, _ := gcode.ParseFile("part.gcode")
//	_ = ctrl.LoadGcode(res)
//	_, _ = ctrl.Scrub(10)
package pkg
