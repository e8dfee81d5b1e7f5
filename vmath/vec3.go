// Package vmath holds integer cell-space geometry shared by the scene and camera
package vmath

// Point3 is a world-space cell coordinate; Z selects the plane
type Point3 struct {
	X, Y, Z int
}

func P3Add(a, b Point3) Point3 {
	return Point3{a.X + b.X, a.Y + b.Y, a.Z + b.Z}
}

func P3Sub(a, b Point3) Point3 {
	return Point3{a.X - b.X, a.Y - b.Y, a.Z - b.Z}
}

// P3XY extracts X,Y components for 2D projection
func P3XY(p Point3) (x, y int) {
	return p.X, p.Y
}
