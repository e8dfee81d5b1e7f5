package scene

import "github.com/lixenwraith/layerterm/vmath"

// Camera is a viewport into world space
// Only drawables on the origin's Z plane are visible; Depth is carried for callers
// that manage planes themselves
type Camera struct {
	Origin vmath.Point3
	Width  int
	Height int
	Depth  int
}

// NewCamera creates a camera at the world origin
func NewCamera(width, height, depth int) *Camera {
	return &Camera{
		Width:  max(width, 0),
		Height: max(height, 0),
		Depth:  max(depth, 0),
	}
}

// Viewport returns the visible world rectangle
func (c *Camera) Viewport() vmath.Area {
	return vmath.Area{X: c.Origin.X, Y: c.Origin.Y, Width: c.Width, Height: c.Height}
}

// InView reports whether any cell of the drawable's footprint falls inside the viewport
// on the camera's Z plane
func (c *Camera) InView(d *Drawable) bool {
	if d == nil || d.Pos.Z != c.Origin.Z {
		return false
	}
	return vmath.AreaOverlaps(d.Footprint(), c.Viewport())
}

// ScreenPos converts a world position to a 1-indexed terminal cell
func (c *Camera) ScreenPos(p vmath.Point3) vmath.Point3 {
	s := vmath.P3Sub(p, c.Origin)
	return vmath.Point3{X: s.X + 1, Y: s.Y + 1, Z: s.Z + 1}
}

// Shift moves the origin by delta
func (c *Camera) Shift(delta vmath.Point3) {
	c.Origin = vmath.P3Add(c.Origin, delta)
}

// SetPos places the origin
func (c *Camera) SetPos(p vmath.Point3) {
	c.Origin = p
}

// Resize sets the viewport size; negative values clamp to zero
func (c *Camera) Resize(width, height, depth int) {
	c.Width = max(width, 0)
	c.Height = max(height, 0)
	c.Depth = max(depth, 0)
}

// Grow enlarges the viewport; negative deltas are ignored
func (c *Camera) Grow(dw, dh, dd int) {
	c.Width += max(dw, 0)
	c.Height += max(dh, 0)
	c.Depth += max(dd, 0)
}

// Shrink reduces the viewport, saturating at zero
func (c *Camera) Shrink(dw, dh, dd int) {
	c.Width = max(c.Width-max(dw, 0), 0)
	c.Height = max(c.Height-max(dh, 0), 0)
	c.Depth = max(c.Depth-max(dd, 0), 0)
}
