// Package slicer runs the external slicing engine and loads its output.
//
// The engine is an opaque command line program. Its invocation is a template
// from the settings document, for example:
//
//	./goosli --stl={stl} --gcode={gcode} --figures={figures} --thickness={thickness}
//
// {stl}, {gcode} and {figures} are replaced with per-job file paths; every
// other placeholder names a slicing.* setting. The template is split into
// arguments with shell quoting rules, so values containing spaces stay one
// argument.
//
// Results are cached by the hash of the placed model, the parameters, the
// figures and the template. A cache hit returns the stored gcode without
// running the engine.
//
// [Runner.Slice] blocks; [Runner.Async] runs it on a goroutine and delivers a
// single [Completion], which is how interactive front ends keep their event
// loop responsive.
package slicer
