package scene

import (
	"strings"
	"time"

	"github.com/mattn/go-runewidth"

	"github.com/lixenwraith/layerterm/terminal"
	"github.com/lixenwraith/layerterm/vmath"
)

// Kind distinguishes fixed text from frame-cycling text
type Kind uint8

const (
	KindStatic Kind = iota
	KindDynamic
)

func (k Kind) String() string {
	if k == KindDynamic {
		return "dynamic"
	}
	return "static"
}

// Drawable is a renderable payload: world position, target layer, colors and a text body
// Ownership passes to the render worker with the Insert or Update command carrying it;
// the producer must not mutate it afterwards
type Drawable struct {
	Pos   vmath.Point3
	Layer Layer
	Fg    terminal.Color // ColorDefault uses the worker's default foreground
	Bg    terminal.Color // ColorDefault uses the worker's default background
	Attrs terminal.Attr

	kind Kind
	text string

	// Dynamic state
	frames      []string
	interval    time.Duration
	created     time.Time
	lastTick    time.Time
	cursor      int
	initialized bool
}

// NewStatic creates a drawable showing fixed text; text may span lines
func NewStatic(layer Layer, pos vmath.Point3, text string) *Drawable {
	return &Drawable{
		Pos:   pos,
		Layer: layer,
		kind:  KindStatic,
		text:  text,
	}
}

// NewDynamic creates a drawable cycling through frames, one step per interval
// A non-positive interval advances on every tick
func NewDynamic(layer Layer, pos vmath.Point3, frames []string, interval time.Duration) *Drawable {
	return newDynamicAt(layer, pos, frames, interval, time.Now())
}

func newDynamicAt(layer Layer, pos vmath.Point3, frames []string, interval time.Duration, created time.Time) *Drawable {
	f := make([]string, len(frames))
	copy(f, frames)
	return &Drawable{
		Pos:      pos,
		Layer:    layer,
		kind:     KindDynamic,
		frames:   f,
		interval: interval,
		created:  created,
	}
}

// WithColors sets foreground and background and returns d for chaining
func (d *Drawable) WithColors(fg, bg terminal.Color) *Drawable {
	d.Fg = fg
	d.Bg = bg
	return d
}

// WithAttrs sets text attributes and returns d for chaining
func (d *Drawable) WithAttrs(a terminal.Attr) *Drawable {
	d.Attrs = a
	return d
}

func (d *Drawable) Kind() Kind {
	return d.kind
}

func (d *Drawable) IsDynamic() bool {
	return d.kind == KindDynamic
}

// Frame returns the current animation cursor; always 0 for static drawables
func (d *Drawable) Frame() int {
	return d.cursor
}

// Update advances the animation if a full interval has elapsed since the last step
// The first call only arms the clock at construction time and reports false
// Advances at most one frame per call; returns true when the visible text changed
func (d *Drawable) Update(now time.Time) bool {
	if d.kind != KindDynamic || len(d.frames) == 0 {
		return false
	}
	if !d.initialized {
		d.lastTick = d.created
		d.initialized = true
		return false
	}
	if now.Sub(d.lastTick) < d.interval {
		return false
	}
	d.cursor = (d.cursor + 1) % len(d.frames)
	d.lastTick = now
	return true
}

// Glyph returns the text currently displayed
func (d *Drawable) Glyph() string {
	if d.kind == KindDynamic {
		if len(d.frames) == 0 {
			return ""
		}
		return d.frames[d.cursor]
	}
	return d.text
}

// Lines splits the current glyph into display rows
func (d *Drawable) Lines() []string {
	g := d.Glyph()
	if g == "" {
		return nil
	}
	return strings.Split(g, "\n")
}

// Size measures the current glyph in terminal cells
// Width is the widest line as rendered, so double-width runes count twice
func (d *Drawable) Size() (width, height int) {
	lines := d.Lines()
	for _, line := range lines {
		width = max(width, runewidth.StringWidth(line))
	}
	return width, len(lines)
}

// Footprint returns the world-space rectangle the current glyph covers
func (d *Drawable) Footprint() vmath.Area {
	w, h := d.Size()
	return vmath.Area{X: d.Pos.X, Y: d.Pos.Y, Width: w, Height: h}
}
