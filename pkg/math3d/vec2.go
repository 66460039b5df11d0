package math3d

// Vec2 holds texture coordinates and screen-space offsets.
type Vec2 struct {
	X, Y float64
}

// V2 returns the vector (x, y).
func V2(x, y float64) Vec2 {
	return Vec2{x, y}
}

// Cross returns the z component of the 3D cross product of a and b, which is
// twice the signed area of the triangle they span.
func (a Vec2) Cross(b Vec2) float64 {
	return a.X*b.Y - a.Y*b.X
}
