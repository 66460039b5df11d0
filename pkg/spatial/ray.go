package spatial

import (
	"fmt"

	"github.com/taigrr/gallery/pkg/math3d"
)

// Axis names one of the three world axes.
type Axis int

const (
	AxisX Axis = iota
	AxisY
	AxisZ
)

func (a Axis) String() string {
	switch a {
	case AxisX:
		return "x"
	case AxisY:
		return "y"
	case AxisZ:
		return "z"
	}
	return fmt.Sprintf("Axis(%d)", int(a))
}

// others returns the two axes that are not a, in x, y, z order.
func (a Axis) others() (Axis, Axis) {
	switch a {
	case AxisX:
		return AxisY, AxisZ
	case AxisY:
		return AxisX, AxisZ
	default:
		return AxisX, AxisY
	}
}

// Ray is a half-line starting at Origin. Direction does not need to be
// normalized; intersection parameters are expressed in its units.
type Ray struct {
	Origin    math3d.Vec3
	Direction math3d.Vec3
}

// At returns Origin + t*Direction.
func (r Ray) At(t float64) math3d.Vec3 {
	return r.Origin.Add(r.Direction.Scale(t))
}

// AxisAlignedPlane is the plane where the coordinate on Axis equals Value,
// for example x = 3.
type AxisAlignedPlane struct {
	Axis  Axis
	Value float64
}

// Intersect returns the point where ray crosses the plane. ok is false when
// the plane is behind the ray origin (t < 0) or the ray runs parallel to it;
// a ray lying inside the plane is also treated as a miss.
func (p AxisAlignedPlane) Intersect(ray Ray) (hit math3d.Vec3, ok bool) {
	i := int(p.Axis)
	dir := ray.Direction.Component(i)
	if dir == 0 {
		return math3d.Vec3{}, false
	}

	t := (p.Value - ray.Origin.Component(i)) / dir
	if t < 0 {
		return math3d.Vec3{}, false
	}

	hit = ray.At(t)
	// Pin the fixed coordinate so rounding cannot push the hit off the face.
	switch p.Axis {
	case AxisX:
		hit.X = p.Value
	case AxisY:
		hit.Y = p.Value
	case AxisZ:
		hit.Z = p.Value
	}
	return hit, true
}
