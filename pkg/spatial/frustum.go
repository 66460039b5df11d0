package spatial

import (
	"math"

	"github.com/taigrr/gallery/pkg/math3d"
)

// Viewer is the camera state a frustum is built from.
type Viewer interface {
	// Eye is the camera position in world space.
	Eye() math3d.Vec3
	// Forward is the viewing direction.
	Forward() math3d.Vec3
	// Up is the camera up vector. It need not be orthogonal to Forward.
	Up() math3d.Vec3
	// FieldOfView is the vertical field of view in degrees.
	FieldOfView() float64
}

// Frustum plane indices.
const (
	FrustumLeft = iota
	FrustumRight
	FrustumBottom
	FrustumTop
	FrustumNear
	FrustumFar
)

// Frustum is the truncated pyramid seen by a perspective camera. All plane
// normals point into the volume.
//
// Near, Far and AspectRatio are fixed at construction; Planes are recomputed
// by CalculatePlanes whenever the camera moves and are read-only while
// culling.
type Frustum struct {
	Near        float64
	Far         float64
	AspectRatio float64
	Planes      [6]Plane
}

// NewFrustum returns a frustum with the given clip distances and aspect
// ratio (width over height). Call CalculatePlanes before testing anything
// against it.
func NewFrustum(near, far, aspect float64) *Frustum {
	return &Frustum{Near: near, Far: far, AspectRatio: aspect}
}

// CalculatePlanes rebuilds the six planes from the viewer's current pose.
//
// The near and far planes face each other along the forward axis. The four
// side planes pass through the eye and contain one edge direction of the far
// rectangle; each normal is the cross product of that edge vector with the
// camera's right or up axis, ordered so it points inward.
func (f *Frustum) CalculatePlanes(v Viewer) {
	eye := v.Eye()
	forward := v.Forward().Normalize()
	right := forward.Cross(v.Up()).Normalize()
	up := right.Cross(forward)

	halfHeight := f.Far * math.Tan(math3d.Radians(v.FieldOfView())/2)
	halfWidth := f.AspectRatio * halfHeight
	farCenter := forward.Scale(f.Far)

	farTop := farCenter.Add(up.Scale(halfHeight))
	farBottom := farCenter.Sub(up.Scale(halfHeight))
	farRight := farCenter.Add(right.Scale(halfWidth))
	farLeft := farCenter.Sub(right.Scale(halfWidth))

	f.Planes[FrustumNear] = NewPlane(forward, eye.Add(forward.Scale(f.Near)))
	f.Planes[FrustumFar] = NewPlane(forward.Negate(), eye.Add(farCenter))
	f.Planes[FrustumRight] = NewPlane(up.Cross(farRight), eye)
	f.Planes[FrustumLeft] = NewPlane(farLeft.Cross(up), eye)
	f.Planes[FrustumTop] = NewPlane(farTop.Cross(right), eye)
	f.Planes[FrustumBottom] = NewPlane(right.Cross(farBottom), eye)
}

// SetAspectRatio changes the aspect ratio used by the next CalculatePlanes.
func (f *Frustum) SetAspectRatio(aspect float64) {
	f.AspectRatio = aspect
}

// ContainsPoint reports whether p is strictly in front of all six planes.
func (f *Frustum) ContainsPoint(p math3d.Vec3) bool {
	for i := range f.Planes {
		if !f.Planes[i].IsInFront(p) {
			return false
		}
	}
	return true
}

// ContainsBox reports whether any part of box may be visible. It uses the
// permissive radius test of Plane.IsInFrontBox, so a box is rejected only
// when it lies entirely behind at least one plane.
func (f *Frustum) ContainsBox(box BoundingBox) bool {
	for i := range f.Planes {
		if !f.Planes[i].IsInFrontBox(box) {
			return false
		}
	}
	return true
}

// Key is a culling key: a world-space point or a world-space box.
type Key interface {
	math3d.Vec3 | BoundingBox
}

// IsInside tests a point or a box against every plane of f.
func IsInside[K Key](f *Frustum, key K) bool {
	switch k := any(key).(type) {
	case math3d.Vec3:
		return f.ContainsPoint(k)
	case BoundingBox:
		return f.ContainsBox(k)
	}
	return false
}
