package vmath

// Area is an axis-aligned cell rectangle
type Area struct {
	X, Y          int // Top-left corner
	Width, Height int
}

// AreaEmpty reports whether the area covers no cells
func AreaEmpty(a Area) bool {
	return a.Width <= 0 || a.Height <= 0
}

// AreaContains checks if point is within area
func AreaContains(a Area, x, y int) bool {
	return x >= a.X && x < a.X+a.Width && y >= a.Y && y < a.Y+a.Height
}

// AreaOverlaps reports whether two areas share at least one cell
// Empty areas never overlap anything
func AreaOverlaps(a, b Area) bool {
	if AreaEmpty(a) || AreaEmpty(b) {
		return false
	}
	return a.X < b.X+b.Width && b.X < a.X+a.Width &&
		a.Y < b.Y+b.Height && b.Y < a.Y+a.Height
}
