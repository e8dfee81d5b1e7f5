package terminal

import (
	"sync"

	"github.com/gdamore/tcell/v2"
)

// ScreenSurface presents frames into a tcell.Screen
// tcell owns raw mode, input decoding and its own output diffing; the frame is
// still written cell-for-cell on every Present
type ScreenSurface struct {
	mu     sync.Mutex
	screen tcell.Screen
	closed bool
}

// NewScreenSurface wraps an initialized screen
func NewScreenSurface(screen tcell.Screen) *ScreenSurface {
	return &ScreenSurface{screen: screen}
}

// Screen exposes the wrapped screen for the input pump
func (s *ScreenSurface) Screen() tcell.Screen {
	return s.screen
}

// Size returns the screen dimensions
func (s *ScreenSurface) Size() (int, int) {
	return s.screen.Size()
}

// Present copies the frame into the screen back buffer and shows it
func (s *ScreenSurface) Present(cells []Cell, width, height int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrSurfaceClosed
	}

	s.screen.Clear()
	for y := 0; y < height; y++ {
		rowStart := y * width
		for x := 0; x < width && rowStart+x < len(cells); x++ {
			c := cells[rowStart+x]
			if c.Cont {
				continue
			}
			r := c.Rune
			if r == 0 {
				r = ' '
			}
			s.screen.SetContent(x, y, r, nil, toStyle(c))
		}
	}
	s.screen.Show()
	return nil
}

// Close finalizes the screen, restoring the terminal
func (s *ScreenSurface) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	s.screen.Fini()
	return nil
}

// toStyle converts a cell's colors and attributes to a tcell style
func toStyle(c Cell) tcell.Style {
	st := tcell.StyleDefault
	if rgb, ok := c.Fg.RGB(); ok {
		st = st.Foreground(tcell.NewRGBColor(int32(rgb.R), int32(rgb.G), int32(rgb.B)))
	}
	if rgb, ok := c.Bg.RGB(); ok {
		st = st.Background(tcell.NewRGBColor(int32(rgb.R), int32(rgb.G), int32(rgb.B)))
	}
	if c.Attrs&AttrBold != 0 {
		st = st.Bold(true)
	}
	if c.Attrs&AttrDim != 0 {
		st = st.Dim(true)
	}
	if c.Attrs&AttrItalic != 0 {
		st = st.Italic(true)
	}
	if c.Attrs&AttrUnderline != 0 {
		st = st.Underline(true)
	}
	if c.Attrs&AttrBlink != 0 {
		st = st.Blink(true)
	}
	if c.Attrs&AttrReverse != 0 {
		st = st.Reverse(true)
	}
	return st
}
