// Package terminal provides the output side of the renderer: colors, the cell type,
// and the surfaces a frame is presented to.
//
// Surfaces:
//   - StreamSurface: direct ANSI cursor-position and SGR sequences to any io.Writer,
//     one full-frame write per Present (truecolor or xterm-256)
//   - ScreenSurface: a tcell.Screen, which also owns raw mode and input decoding
//
// WatchResize reports SIGWINCH size changes when no tcell screen is in charge.
package terminal
