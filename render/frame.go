package render

import (
	"github.com/mattn/go-runewidth"

	"github.com/lixenwraith/layerterm/terminal"
)

// Frame is the row-major cell grid painted each dirty cycle and handed to the surface
type Frame struct {
	cells  []terminal.Cell
	width  int
	height int

	// Optional write limit anchored at the top-left corner
	clipW   int
	clipH   int
	clipped bool
}

// NewFrame creates a frame with the specified dimensions
func NewFrame(width, height int) *Frame {
	f := &Frame{}
	f.Resize(width, height)
	return f
}

// Resize adjusts dimensions, reallocating only if capacity is insufficient
func (f *Frame) Resize(width, height int) {
	width, height = max(width, 0), max(height, 0)
	size := width * height
	if cap(f.cells) < size {
		f.cells = make([]terminal.Cell, size)
	} else {
		f.cells = f.cells[:size]
	}
	f.width = width
	f.height = height
}

// Size returns the frame dimensions
func (f *Frame) Size() (int, int) {
	return f.width, f.height
}

// Cells exposes the backing grid; valid until the next Resize
func (f *Frame) Cells() []terminal.Cell {
	return f.cells
}

// Cell returns the cell at 0-indexed (x, y)
func (f *Frame) Cell(x, y int) (terminal.Cell, bool) {
	if !f.inBounds(x, y) {
		return terminal.Cell{}, false
	}
	return f.cells[y*f.width+x], true
}

// Clear fills every cell with blank using exponential copy
func (f *Frame) Clear(blank terminal.Cell) {
	if len(f.cells) == 0 {
		return
	}
	f.cells[0] = blank
	for filled := 1; filled < len(f.cells); filled *= 2 {
		copy(f.cells[filled:], f.cells[:filled])
	}
}

func (f *Frame) inBounds(x, y int) bool {
	return x >= 0 && x < f.width && y >= 0 && y < f.height
}

// Clip restricts subsequent writes to the top-left width x height cells
func (f *Frame) Clip(width, height int) {
	f.clipW, f.clipH = max(width, 0), max(height, 0)
	f.clipped = true
}

// Unclip lifts the write limit
func (f *Frame) Unclip() {
	f.clipped = false
}

// limits returns the exclusive write bounds
func (f *Frame) limits() (int, int) {
	if !f.clipped {
		return f.width, f.height
	}
	return min(f.width, f.clipW), min(f.height, f.clipH)
}

func (f *Frame) writable(x, y int) bool {
	w, h := f.limits()
	return x >= 0 && x < w && y >= 0 && y < h
}

// Set writes a single-width rune
func (f *Frame) Set(x, y int, r rune, fg, bg terminal.Color, attrs terminal.Attr) {
	if !f.writable(x, y) {
		return
	}
	f.unsplit(x, y)
	f.cells[y*f.width+x] = terminal.Cell{Rune: r, Fg: fg, Bg: bg, Attrs: attrs}
}

// SetString writes s starting at (x, y), clipping at the frame edges or the clip rectangle
// Double-width runes take two cells, the second marked Cont; zero-width runes are dropped
// A double-width rune that would straddle the right edge is written as a space
func (f *Frame) SetString(x, y int, s string, fg, bg terminal.Color, attrs terminal.Attr) {
	right, bottom := f.limits()
	if y < 0 || y >= bottom {
		return
	}
	for _, r := range s {
		w := runewidth.RuneWidth(r)
		if w == 0 {
			continue
		}
		if x >= right {
			return
		}
		if x < 0 {
			x += w
			continue
		}

		if w == 2 && x+1 >= right {
			f.Set(x, y, ' ', fg, bg, attrs)
			return
		}
		f.Set(x, y, r, fg, bg, attrs)
		if w == 2 {
			f.orphanNext(x+1, y)
			f.cells[y*f.width+x+1] = terminal.Cell{Fg: fg, Bg: bg, Attrs: attrs, Cont: true}
		}
		x += w
	}
}

// unsplit blanks the other half of a wide rune about to be partially overwritten at x
func (f *Frame) unsplit(x, y int) {
	if f.cells[y*f.width+x].Cont && x > 0 {
		f.cells[y*f.width+x-1].Rune = ' '
	}
	f.orphanNext(x, y)
}

// orphanNext turns a continuation at x+1 into a plain blank
func (f *Frame) orphanNext(x, y int) {
	if x+1 >= f.width {
		return
	}
	next := &f.cells[y*f.width+x+1]
	if next.Cont {
		next.Cont = false
		next.Rune = ' '
	}
}
