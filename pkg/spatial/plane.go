// Package spatial holds the visibility math of the engine: half-space
// planes, axis-aligned bounding boxes, ray picking and the six-plane view
// frustum used to cull instanced geometry every frame.
//
// Everything here is a pure value computation. Functions never retain the
// slices they are given.
package spatial

import (
	"github.com/taigrr/gallery/pkg/math3d"
)

// Plane is the set of points p with Normal·p == D. Normal is always unit
// length when the plane is built with NewPlane.
type Plane struct {
	Normal math3d.Vec3
	D      float64
}

// NewPlane returns the plane through point with the given normal. The
// normal does not need to be normalized.
func NewPlane(normal, point math3d.Vec3) Plane {
	n := normal.Normalize()
	return Plane{Normal: n, D: n.Dot(point)}
}

// SignedDistance returns the distance from the plane to point. Positive
// values lie on the side the normal points to.
func (p Plane) SignedDistance(point math3d.Vec3) float64 {
	return p.Normal.Dot(point) - p.D
}

// IsInFront reports whether point lies strictly on the normal side. Points
// on the plane are not in front.
func (p Plane) IsInFront(point math3d.Vec3) bool {
	return p.SignedDistance(point) > 0
}

// IsInFrontBox reports whether any part of box may lie on the normal side.
// The box is projected onto the normal to get an effective radius, so the
// test errs towards "in front" for boxes straddling the plane.
func (p Plane) IsInFrontBox(box BoundingBox) bool {
	radius := box.HalfExtent.Dot(p.Normal.Abs())
	return p.SignedDistance(box.Center) > -radius
}
