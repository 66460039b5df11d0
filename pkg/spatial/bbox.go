package spatial

import (
	"math"

	"github.com/taigrr/gallery/pkg/math3d"
)

// NoCollision is returned by FirstCollision when nothing overlaps.
const NoCollision = -1

// BoundingBox is an axis-aligned box. Center and HalfExtent are derived from
// Min and Max and kept in sync by every constructor.
//
// Boxes are values. Transform returns a new box, so a local-space box can be
// placed any number of times without accumulating transforms.
type BoundingBox struct {
	Min        math3d.Vec3
	Max        math3d.Vec3
	Center     math3d.Vec3
	HalfExtent math3d.Vec3
}

// NewBoundingBox returns the smallest box holding every point. Min and Max
// are assembled per axis, so they need not be points of the set.
//
// With no points the result is the empty box (see IsEmpty). It never
// collides, is never hit by a ray and is culled by every frustum; callers
// should not build drawable instances from an empty point set.
func NewBoundingBox(points ...math3d.Vec3) BoundingBox {
	if len(points) == 0 {
		return emptyBox()
	}

	lo, hi := points[0], points[0]
	for _, p := range points[1:] {
		lo = lo.Min(p)
		hi = hi.Max(p)
	}
	return boxFromMinMax(lo, hi)
}

// BoundingBoxFromCenter builds a box from its center and half extents.
func BoundingBoxFromCenter(center, halfExtent math3d.Vec3) BoundingBox {
	h := halfExtent.Abs()
	return BoundingBox{
		Min:        center.Sub(h),
		Max:        center.Add(h),
		Center:     center,
		HalfExtent: h,
	}
}

func emptyBox() BoundingBox {
	inf := math.Inf(1)
	return BoundingBox{
		Min:    math3d.V3(inf, inf, inf),
		Max:    math3d.V3(-inf, -inf, -inf),
		Center: math3d.V3(math.NaN(), math.NaN(), math.NaN()),
	}
}

func boxFromMinMax(lo, hi math3d.Vec3) BoundingBox {
	center := lo.Add(hi).Scale(0.5)
	return BoundingBox{
		Min:        lo,
		Max:        hi,
		Center:     center,
		HalfExtent: hi.Sub(center),
	}
}

// IsEmpty reports whether the box was built from no points.
func (b BoundingBox) IsEmpty() bool {
	return b.Min.X > b.Max.X || b.Min.Y > b.Max.Y || b.Min.Z > b.Max.Z
}

// Size returns Max - Min.
func (b BoundingBox) Size() math3d.Vec3 {
	return b.Max.Sub(b.Min)
}

// Transform returns the box bounding b after m is applied. b itself is left
// untouched; always call it on the local-space box.
//
// All eight corners are transformed so rotations other than quarter turns
// still produce a box that encloses the moved geometry. For identity,
// translation, scale and quarter turns the result is the box spanned by the
// transformed Min and Max.
func (b BoundingBox) Transform(m math3d.Mat4) BoundingBox {
	if b.IsEmpty() {
		return b
	}

	lo := m.MulVec3(b.Min)
	hi := lo
	for i := 1; i < 8; i++ {
		corner := b.Min
		if i&1 != 0 {
			corner.X = b.Max.X
		}
		if i&2 != 0 {
			corner.Y = b.Max.Y
		}
		if i&4 != 0 {
			corner.Z = b.Max.Z
		}
		p := m.MulVec3(corner)
		lo = lo.Min(p)
		hi = hi.Max(p)
	}
	return boxFromMinMax(lo, hi)
}

// Union returns the smallest box holding both boxes.
func (b BoundingBox) Union(o BoundingBox) BoundingBox {
	switch {
	case b.IsEmpty():
		return o
	case o.IsEmpty():
		return b
	}
	return boxFromMinMax(b.Min.Min(o.Min), b.Max.Max(o.Max))
}

// Contains reports whether p lies inside or on the box.
func (b BoundingBox) Contains(p math3d.Vec3) bool {
	return p.X >= b.Min.X && p.X <= b.Max.X &&
		p.Y >= b.Min.Y && p.Y <= b.Max.Y &&
		p.Z >= b.Min.Z && p.Z <= b.Max.Z
}

// CheckCollision reports whether the two boxes overlap. Boxes that only
// touch count as colliding.
func (b BoundingBox) CheckCollision(o BoundingBox) bool {
	if b.Max.X < o.Min.X || b.Min.X > o.Max.X {
		return false
	}
	if b.Max.Y < o.Min.Y || b.Min.Y > o.Max.Y {
		return false
	}
	if b.Max.Z < o.Min.Z || b.Min.Z > o.Max.Z {
		return false
	}
	return !b.IsEmpty() && !o.IsEmpty()
}

// FirstCollision scans boxes in order and returns the index of the first one
// overlapping b, or NoCollision. It is not a closest-match search.
func (b BoundingBox) FirstCollision(boxes []BoundingBox) int {
	for i := range boxes {
		if b.CheckCollision(boxes[i]) {
			return i
		}
	}
	return NoCollision
}

// faces lists the six face planes in the order they are tested.
func (b BoundingBox) faces() [6]AxisAlignedPlane {
	return [6]AxisAlignedPlane{
		{AxisX, b.Min.X}, {AxisX, b.Max.X},
		{AxisY, b.Min.Y}, {AxisY, b.Max.Y},
		{AxisZ, b.Min.Z}, {AxisZ, b.Max.Z},
	}
}

// Intersects reports whether the ray from origin along direction hits the
// box. Each face plane is intersected in turn; hits behind the origin are
// skipped and a hit counts only when it lies within the face rectangle. The
// first qualifying face ends the search, no nearest-hit ordering is done.
func (b BoundingBox) Intersects(origin, direction math3d.Vec3) bool {
	if b.IsEmpty() {
		return false
	}

	ray := Ray{Origin: origin, Direction: direction}
	for _, face := range b.faces() {
		hit, ok := face.Intersect(ray)
		if !ok {
			continue
		}
		u, v := face.Axis.others()
		if b.within(hit, u) && b.within(hit, v) {
			return true
		}
	}
	return false
}

// IntersectsRay is Intersects for a Ray value.
func (b BoundingBox) IntersectsRay(r Ray) bool {
	return b.Intersects(r.Origin, r.Direction)
}

func (b BoundingBox) within(p math3d.Vec3, axis Axis) bool {
	i := int(axis)
	c := p.Component(i)
	return c >= b.Min.Component(i) && c <= b.Max.Component(i)
}
