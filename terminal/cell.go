package terminal

// Attr represents text attributes (bitmask)
type Attr uint8

const (
	AttrNone      Attr = 0
	AttrBold      Attr = 1 << 0
	AttrDim       Attr = 1 << 1
	AttrItalic    Attr = 1 << 2
	AttrUnderline Attr = 1 << 3
	AttrBlink     Attr = 1 << 4
	AttrReverse   Attr = 1 << 5
)

// Cell represents a single terminal cell
// Rune 0 renders as blank; a wide rune's trailing cell holds Rune 0 with Cont set
type Cell struct {
	Rune  rune
	Fg    Color
	Bg    Color
	Attrs Attr
	Cont  bool // continuation of a wide rune to the left
}
