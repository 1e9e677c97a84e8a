// Package viz renders recorded runs in the terminal.
//
//   - [Canvas]: braille sub-pixel canvas
//   - [Camera]: fitted perspective projection of world coordinates
//   - [Scene]: bodies, trails and bounding box for one frame
//   - [Player]: Bubble Tea model for interactive playback
//   - [DistancePlot]: asciigraph chart of a pairwise separation
//
// # Key Bindings
//
//	Space - Play/Pause
//	←/→   - Step one frame
//	[ ]   - Playback speed
//	WASD  - Rotate
//	+/-   - Zoom
//	C     - Cycle color themes
//	?     - Show key help
package viz
