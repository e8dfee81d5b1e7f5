package terminal

import (
	"bufio"
	"errors"
	"io"
	"os"
	"sync"

	"github.com/mattn/go-runewidth"
)

// ErrSurfaceClosed is returned when presenting to a closed surface
var ErrSurfaceClosed = errors.New("terminal surface closed")

// StreamSurface writes each frame to an io.Writer as cursor-position and SGR sequences
// Every Present repaints the whole grid; there is no front buffer to diff against
type StreamSurface struct {
	mu        sync.Mutex
	writer    *bufio.Writer
	colorMode ColorMode
	width     int
	height    int
	closed    bool

	// Style state for coalescing within one frame
	lastFg    Color
	lastBg    Color
	lastAttr  Attr
	lastValid bool
}

// NewStreamSurface creates a surface of the given size writing to w
func NewStreamSurface(w io.Writer, mode ColorMode, width, height int) *StreamSurface {
	return &StreamSurface{
		writer:    bufio.NewWriterSize(w, 131072), // 128KB buffer
		colorMode: mode,
		width:     width,
		height:    height,
	}
}

// Size returns the surface dimensions
func (s *StreamSurface) Size() (int, int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.width, s.height
}

// Resize updates dimensions and clears the screen so stale cells outside the new grid vanish
func (s *StreamSurface) Resize(width, height int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrSurfaceClosed
	}
	s.width = width
	s.height = height
	s.writer.Write(csiSGR0)
	s.writer.Write(csiClear)
	return s.writer.Flush()
}

// Present writes the full frame in one buffered flush
// Cells are row-major: cells[y*width + x]
func (s *StreamSurface) Present(cells []Cell, width, height int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrSurfaceClosed
	}
	if len(cells) < width*height {
		return io.ErrShortBuffer
	}

	w := s.writer
	s.lastValid = false
	w.Write(csiCursorHide)

	for y := 0; y < height; y++ {
		writeCursorPos(w, 0, y)
		rowStart := y * width
		for x := 0; x < width; x++ {
			c := cells[rowStart+x]
			if c.Cont {
				continue
			}
			s.writeStyle(w, c.Fg, c.Bg, c.Attrs)

			r := c.Rune
			if r == 0 {
				r = ' '
			}
			// A wide rune in the last column would wrap; blank it instead
			if x == width-1 && runewidth.RuneWidth(r) > 1 {
				r = ' '
			}
			if r < 0x80 {
				w.WriteByte(byte(r))
			} else {
				w.WriteRune(r)
			}
		}
	}

	w.Write(csiSGR0)
	return w.Flush()
}

// writeStyle emits a single combined SGR sequence when style changes
func (s *StreamSurface) writeStyle(w *bufio.Writer, fg, bg Color, attr Attr) {
	if s.lastValid && fg == s.lastFg && bg == s.lastBg && attr == s.lastAttr {
		return
	}

	w.Write(csi)
	w.WriteByte('0')
	for _, a := range [...]struct {
		bit  Attr
		code byte
	}{
		{AttrBold, '1'},
		{AttrDim, '2'},
		{AttrItalic, '3'},
		{AttrUnderline, '4'},
		{AttrBlink, '5'},
		{AttrReverse, '7'},
	} {
		if attr&a.bit != 0 {
			w.WriteByte(';')
			w.WriteByte(a.code)
		}
	}

	w.WriteByte(';')
	s.writeColor(w, fg, true)
	w.WriteByte(';')
	s.writeColor(w, bg, false)
	w.WriteByte('m')

	s.lastFg = fg
	s.lastBg = bg
	s.lastAttr = attr
	s.lastValid = true
}

// writeColor writes color parameters (no CSI prefix, no 'm' suffix)
func (s *StreamSurface) writeColor(w *bufio.Writer, c Color, fg bool) {
	rgb, ok := c.RGB()
	if !ok {
		if fg {
			w.Write(csiDefaultFg)
		} else {
			w.Write(csiDefaultBg)
		}
		return
	}

	if fg {
		w.WriteString("38;")
	} else {
		w.WriteString("48;")
	}

	if s.colorMode == ColorModeTrueColor {
		// True color: 38;2;R;G;B
		w.WriteString("2;")
		writeInt(w, int(rgb.R))
		w.WriteByte(';')
		writeInt(w, int(rgb.G))
		w.WriteByte(';')
		writeInt(w, int(rgb.B))
		return
	}
	// 256: 38;5;N
	w.WriteString("5;")
	writeInt(w, int(RGBTo256(rgb)))
}

// Close restores the cursor and attributes; the underlying writer is left open
func (s *StreamSurface) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	s.writer.Write(csiSGR0)
	s.writer.Write(csiCursorShow)
	return s.writer.Flush()
}

// EmergencyReset attempts to restore the terminal to a sane state
// Call this from panic recovery if the normal shutdown path cannot run
func EmergencyReset(w io.Writer) {
	w.Write(csiCursorShow)
	w.Write(csiAltScreenExit)
	w.Write(csiSGR0)
	w.Write(csiAutoWrapOn)
	w.Write(csiRIS)

	if f, ok := w.(*os.File); ok {
		f.Sync()
	}
}
