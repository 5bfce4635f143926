// Package playback drives the on-screen layer stack as the operator scrubs
// through sliced layers.
//
// A scrub position p in [0, N] shows layers [0, p] with layer p highlighted;
// p == N shows every layer with nothing highlighted. Moving from one position
// to another touches only the layers in between: the engine never walks the
// whole stack on a scrub.
//
// # Rotation frames
//
// Every layer was sliced under one rotation group's orientation and is drawn
// in that frame. When the scrub boundary moves into a layer of another group,
// all currently visible layers are re-expressed in the new group's frame:
//
//	tf := transform.RevertThenApply(groups[rotation[b]], groups[current])
//
// The reference plane follows the current group directly. Viewing all layers
// (p == N) uses the group of layer 0.
//
// The engine remembers which frame each layer was last drawn in, so layers
// revealed by a forward scrub are brought into the current frame even when no
// group boundary was crossed on that step.
//
// # Usage
//
//	eng := playback.New(adapter, style, playback.Input{
//	    Layers:    handles,
//	    Rotations: gcode.Rotations,
//	    Groups:    gcode.Groups,
//	    Plane:     planeHandle,
//	})
//	eng.Initialize()           // all layers, scrub == N
//	pos := eng.Scrub(eng.Len(), 3)
package playback
