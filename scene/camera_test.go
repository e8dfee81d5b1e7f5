package scene

import (
	"testing"

	"github.com/lixenwraith/layerterm/vmath"
)

func TestCameraInView(t *testing.T) {
	cam := NewCamera(10, 10, 1)

	tests := []struct {
		name string
		pos  vmath.Point3
		text string
		want bool
	}{
		{"inside", vmath.Point3{X: 1, Y: 1}, "@", true},
		{"origin", vmath.Point3{}, "@", true},
		{"right edge", vmath.Point3{X: 9, Y: 9}, "@", true},
		{"past right", vmath.Point3{X: 10, Y: 0}, "@", false},
		{"partially left", vmath.Point3{X: -3, Y: 2}, "abcd", true},
		{"fully left", vmath.Point3{X: -4, Y: 2}, "abcd", false},
		{"other plane", vmath.Point3{X: 1, Y: 1, Z: 1}, "@", false},
		{"empty glyph", vmath.Point3{X: 1, Y: 1}, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := NewStatic(Foreground, tt.pos, tt.text)
			if got := cam.InView(d); got != tt.want {
				t.Errorf("Expected %v, got %v", tt.want, got)
			}
		})
	}
}

func TestCameraScreenPos(t *testing.T) {
	cam := NewCamera(10, 10, 1)
	if p := cam.ScreenPos(vmath.Point3{X: 1, Y: 1}); p.X != 2 || p.Y != 2 {
		t.Errorf("Expected (2,2), got (%d,%d)", p.X, p.Y)
	}

	cam.SetPos(vmath.Point3{X: 5, Y: 3})
	if p := cam.ScreenPos(vmath.Point3{X: 5, Y: 3}); p.X != 1 || p.Y != 1 {
		t.Errorf("Expected origin at (1,1), got (%d,%d)", p.X, p.Y)
	}

	cam.Shift(vmath.Point3{X: -5, Y: -3})
	if cam.Origin != (vmath.Point3{}) {
		t.Errorf("Expected origin back at zero, got %+v", cam.Origin)
	}
}

func TestCameraResizeSaturates(t *testing.T) {
	cam := NewCamera(4, 4, 2)
	cam.Shrink(10, 1, 5)
	if cam.Width != 0 || cam.Height != 3 || cam.Depth != 0 {
		t.Errorf("Expected 0x3x0, got %dx%dx%d", cam.Width, cam.Height, cam.Depth)
	}
	cam.Grow(2, -1, 1)
	if cam.Width != 2 || cam.Height != 3 || cam.Depth != 1 {
		t.Errorf("Expected 2x3x1, got %dx%dx%d", cam.Width, cam.Height, cam.Depth)
	}
	cam.Resize(-1, 8, 1)
	if cam.Width != 0 || cam.Height != 8 {
		t.Errorf("Expected 0x8, got %dx%d", cam.Width, cam.Height)
	}
	if cam.InView(NewStatic(UI, vmath.Point3{}, "x")) {
		t.Error("Expected zero-width viewport to show nothing")
	}
}
