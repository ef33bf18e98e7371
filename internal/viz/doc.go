// Package viz provides terminal-based visualization for live runs.
//
// The package implements an interactive TUI using the Bubble Tea framework:
//
//   - [Model]: live view stepping a simulator and charting decoded probes
//   - [Raster]: scrolling spike raster on a Braille canvas
//   - [Canvas]: Braille-based pixel canvas
//
// # Key Bindings
//
//	Space - Pause/Resume simulation
//	R     - Reset to initial state
//	+/-   - Speed up / slow down
//	S     - Toggle spike rasters
//	?     - Show key bindings
package viz
