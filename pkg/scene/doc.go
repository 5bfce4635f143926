// Package scene is the viewer's top-level controller.
//
// A [Controller] owns everything on screen: the loaded model, the layer
// stack, the slicing figures and the operating mode. Every operation follows
// the same sequence:
//
//  1. ask the mode machine whether the operation is legal now,
//  2. delegate to the figure registry or the playback engine,
//  3. issue render adapter calls,
//  4. move the mode machine when the operation changes modes.
//
// Rejected operations return an ILLEGAL_OPERATION or INDEX_OUT_OF_RANGE
// error and leave the scene untouched. Failed loads return LOAD_FAILURE and
// keep the previous content on screen.
//
// Loads expect fully parsed data: parsing, file I/O and slicing happen on
// other goroutines, which hand the result to LoadModel or LoadGcode. The
// controller serializes all calls with a mutex, so completions may arrive
// from any goroutine.
package scene
