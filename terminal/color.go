package terminal

import (
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/gdamore/tcell/v2"
	"github.com/lucasb-eyer/go-colorful"
)

// ColorMode indicates terminal color capability
type ColorMode uint8

const (
	ColorMode256       ColorMode = iota // xterm-256 palette
	ColorModeTrueColor                  // 24-bit RGB
)

func (m ColorMode) String() string {
	if m == ColorModeTrueColor {
		return "truecolor"
	}
	return "256"
}

// RGB represents a 24-bit color
type RGB struct {
	R, G, B uint8
}

// RGBBlack is the zero value black color
var RGBBlack = RGB{0, 0, 0}

// Color is an optional RGB value; the zero value means "terminal default"
type Color uint32

const (
	ColorDefault Color = 0
	colorValid   Color = 1 << 24
)

// NewColor wraps an RGB value as a set color
func NewColor(c RGB) Color {
	return colorValid | Color(c.R)<<16 | Color(c.G)<<8 | Color(c.B)
}

// RGB returns the color components; ok is false for ColorDefault
func (c Color) RGB() (RGB, bool) {
	if c&colorValid == 0 {
		return RGB{}, false
	}
	return RGB{R: uint8(c >> 16), G: uint8(c >> 8), B: uint8(c)}, true
}

// IsDefault reports whether the color defers to the terminal default
func (c Color) IsDefault() bool {
	return c&colorValid == 0
}

func (c Color) String() string {
	rgb, ok := c.RGB()
	if !ok {
		return "default"
	}
	return fmt.Sprintf("#%02x%02x%02x", rgb.R, rgb.G, rgb.B)
}

// ParseColor resolves a W3C color name or a hex value ("#rrggbb", "#rgb")
// "default" and "" yield ColorDefault
func ParseColor(name string) (Color, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" || name == "default" {
		return ColorDefault, nil
	}

	if tc := tcell.GetColor(name); tc != tcell.ColorDefault {
		r, g, b := tc.RGB()
		if r >= 0 {
			return NewColor(RGB{uint8(r), uint8(g), uint8(b)}), nil
		}
	}

	if strings.HasPrefix(name, "#") {
		c, err := colorful.Hex(name)
		if err == nil {
			r, g, b := c.RGB255()
			return NewColor(RGB{r, g, b}), nil
		}
	}

	return ColorDefault, fmt.Errorf("unknown color %q", name)
}

// palette caches the xterm-256 palette in Lab-comparable form, built on first use
var (
	paletteOnce sync.Once
	palette     [256]colorful.Color

	nearestMu sync.Mutex
	nearest   = make(map[RGB]uint8)
)

func buildPalette() {
	for i := range palette {
		r, g, b := tcell.PaletteColor(i).RGB()
		palette[i] = colorful.Color{R: float64(r) / 255, G: float64(g) / 255, B: float64(b) / 255}
	}
}

// RGBTo256 returns the perceptually nearest xterm-256 palette index
// Skips the 16 user-configurable system colors; results are memoized
func RGBTo256(c RGB) uint8 {
	nearestMu.Lock()
	if idx, ok := nearest[c]; ok {
		nearestMu.Unlock()
		return idx
	}
	nearestMu.Unlock()

	paletteOnce.Do(buildPalette)

	target := colorful.Color{R: float64(c.R) / 255, G: float64(c.G) / 255, B: float64(c.B) / 255}
	best := 16
	bestDist := target.DistanceLab(palette[16])
	for i := 17; i < len(palette); i++ {
		if d := target.DistanceLab(palette[i]); d < bestDist {
			bestDist = d
			best = i
		}
	}

	nearestMu.Lock()
	nearest[c] = uint8(best)
	nearestMu.Unlock()
	return uint8(best)
}

// DetectColorMode determines terminal color capability from environment
func DetectColorMode() ColorMode {
	// COLORTERM is set by most modern terminals
	colorterm := os.Getenv("COLORTERM")
	if colorterm == "truecolor" || colorterm == "24bit" {
		return ColorModeTrueColor
	}

	for _, env := range []string{
		"KITTY_WINDOW_ID",
		"KONSOLE_VERSION",
		"ITERM_SESSION_ID",
		"ALACRITTY_WINDOW_ID",
		"WEZTERM_PANE",
	} {
		if os.Getenv(env) != "" {
			return ColorModeTrueColor
		}
	}

	term := strings.ToLower(os.Getenv("TERM"))
	if strings.Contains(term, "truecolor") ||
		strings.Contains(term, "24bit") ||
		strings.Contains(term, "direct") {
		return ColorModeTrueColor
	}

	return ColorMode256
}

// ParseColorMode maps a flag/config value to a mode; "auto" and unknown values detect
func ParseColorMode(s string) ColorMode {
	switch strings.ToLower(s) {
	case "256":
		return ColorMode256
	case "truecolor", "true", "24bit":
		return ColorModeTrueColor
	default:
		return DetectColorMode()
	}
}
