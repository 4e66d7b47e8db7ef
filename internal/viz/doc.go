// Package viz renders value-iteration runs in the terminal.
//
// The package provides a one-shot summary and an interactive view built on
// the Bubble Tea framework:
//
//   - [RenderSummary]: styled report of a finished run
//   - [RenderShell]: policy glyphs of one radial shell
//   - [Model]: live view that performs one sweep per tick
//
// # Key Bindings
//
//	Space - Pause/Resume sweeping
//	S     - Single sweep while paused
//	R     - Reset to the initial value and policy
//	[ ]   - Previous/next radial shell
//	T     - Cycle color themes
//	Q     - Quit
package viz
