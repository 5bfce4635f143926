// Package cli implements the spycer command-line interface.
//
// The CLI is built with cobra and logs through charmbracelet/log. Every
// command reads the settings document first (--settings, default
// ./settings.yaml).
//
// # Commands
//
//   - inspect: summarize a G-code program's layers and rotation groups
//   - slice: run the external slicing engine on a model, with caching
//   - view: interactive terminal viewer over the scene controller
//   - serve: HTTP control API over the scene controller
//   - modes: print the mode capability table or state diagram
//   - figures: list, add and move figure sets between files
//   - settings: print or initialize the settings document
//   - cache: manage the slicing result cache
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging. Loggers are
// passed through context.Context.
package cli
