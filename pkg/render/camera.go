package render

import (
	"math"

	"github.com/taigrr/gallery/pkg/math3d"
	"github.com/taigrr/gallery/pkg/spatial"
)

// Camera is a first-person perspective camera. It satisfies
// spatial.Viewer, so a frustum can be built straight from it.
type Camera struct {
	Position math3d.Vec3

	// Euler angles in radians.
	Pitch float64 // around X, look up/down
	Yaw   float64 // around Y, look left/right

	FOV         float64 // vertical field of view in radians
	AspectRatio float64 // width / height
	Near        float64
	Far         float64

	viewMatrix     math3d.Mat4
	projMatrix     math3d.Mat4
	viewProjMatrix math3d.Mat4
	viewDirty      bool
	projDirty      bool
	vpDirty        bool
}

var _ spatial.Viewer = (*Camera)(nil)

// maxPitch keeps the camera off the poles where yaw is undefined.
const maxPitch = math.Pi/2 - 0.01

// NewCamera returns a camera at the origin looking down -Z with a 60 degree
// field of view.
func NewCamera() *Camera {
	return &Camera{
		FOV:         math.Pi / 3,
		AspectRatio: 16.0 / 9.0,
		Near:        0.1,
		Far:         100,
		viewDirty:   true,
		projDirty:   true,
	}
}

// SetPosition moves the camera.
func (c *Camera) SetPosition(pos math3d.Vec3) {
	c.Position = pos
	c.viewDirty = true
}

// SetRotation sets pitch and yaw in radians. Pitch is clamped short of
// straight up or down.
func (c *Camera) SetRotation(pitch, yaw float64) {
	c.Pitch = max(-maxPitch, min(maxPitch, pitch))
	c.Yaw = yaw
	c.viewDirty = true
}

// Rotate adds to pitch and yaw.
func (c *Camera) Rotate(deltaPitch, deltaYaw float64) {
	c.SetRotation(c.Pitch+deltaPitch, c.Yaw+deltaYaw)
}

// SetFOV sets the vertical field of view in radians.
func (c *Camera) SetFOV(fov float64) {
	c.FOV = fov
	c.projDirty = true
}

// SetAspectRatio sets width over height.
func (c *Camera) SetAspectRatio(aspect float64) {
	c.AspectRatio = aspect
	c.projDirty = true
}

// SetClipPlanes sets the near and far clip distances.
func (c *Camera) SetClipPlanes(near, far float64) {
	c.Near = near
	c.Far = far
	c.projDirty = true
}

// Eye returns the camera position.
func (c *Camera) Eye() math3d.Vec3 { return c.Position }

// FieldOfView returns the vertical field of view in degrees.
func (c *Camera) FieldOfView() float64 { return math3d.Degrees(c.FOV) }

// Forward returns the unit viewing direction.
func (c *Camera) Forward() math3d.Vec3 {
	sy, cy := math.Sincos(c.Yaw)
	sp, cp := math.Sincos(c.Pitch)
	return math3d.V3(-sy*cp, sp, -cy*cp)
}

// Right returns the unit right vector. It stays horizontal.
func (c *Camera) Right() math3d.Vec3 {
	sy, cy := math.Sincos(c.Yaw)
	return math3d.V3(cy, 0, -sy)
}

// Up returns the camera up vector, orthogonal to Forward and Right.
func (c *Camera) Up() math3d.Vec3 {
	return c.Right().Cross(c.Forward())
}

// Heading returns the forward direction flattened onto the XZ plane.
func (c *Camera) Heading() math3d.Vec3 {
	sy, cy := math.Sincos(c.Yaw)
	return math3d.V3(-sy, 0, -cy)
}

// ViewMatrix returns the world-to-camera matrix.
func (c *Camera) ViewMatrix() math3d.Mat4 {
	if c.viewDirty {
		rot := math3d.RotateX(-c.Pitch).Mul(math3d.RotateY(-c.Yaw))
		c.viewMatrix = rot.Mul(math3d.Translate(c.Position.Negate()))
		c.viewDirty = false
		c.vpDirty = true
	}
	return c.viewMatrix
}

// ProjectionMatrix returns the perspective projection.
func (c *Camera) ProjectionMatrix() math3d.Mat4 {
	if c.projDirty {
		c.projMatrix = math3d.Perspective(c.FOV, c.AspectRatio, c.Near, c.Far)
		c.projDirty = false
		c.vpDirty = true
	}
	return c.projMatrix
}

// ViewProjectionMatrix returns projection * view.
func (c *Camera) ViewProjectionMatrix() math3d.Mat4 {
	view, proj := c.ViewMatrix(), c.ProjectionMatrix()
	if c.vpDirty {
		c.viewProjMatrix = proj.Mul(view)
		c.vpDirty = false
	}
	return c.viewProjMatrix
}

// WorldToScreen projects a world point onto a width x height screen.
// visible is false for points behind the camera or outside the clip volume.
func (c *Camera) WorldToScreen(p math3d.Vec3, width, height int) (x, y, depth float64, visible bool) {
	clip := c.ViewProjectionMatrix().MulVec4(math3d.V4FromV3(p, 1))
	if clip.W <= 0 {
		return 0, 0, 0, false
	}

	ndc := clip.PerspectiveDivide()
	if ndc.X < -1 || ndc.X > 1 || ndc.Y < -1 || ndc.Y > 1 || ndc.Z < -1 || ndc.Z > 1 {
		return 0, 0, 0, false
	}

	x = (ndc.X + 1) * 0.5 * float64(width)
	y = (1 - ndc.Y) * 0.5 * float64(height) // screen Y grows downward
	return x, y, ndc.Z, true
}

// ScreenRay returns the world-space ray through screen point (x, y) of a
// width x height screen. The ray starts at the camera position.
func (c *Camera) ScreenRay(x, y float64, width, height int) spatial.Ray {
	inv, ok := c.ViewProjectionMatrix().Inverse()
	if !ok {
		return spatial.Ray{Origin: c.Position, Direction: c.Forward()}
	}

	ndcX := 2*x/float64(width) - 1
	ndcY := 1 - 2*y/float64(height)
	near := inv.MulVec3(math3d.V3(ndcX, ndcY, -1))
	far := inv.MulVec3(math3d.V3(ndcX, ndcY, 1))

	return spatial.Ray{Origin: c.Position, Direction: far.Sub(near).Normalize()}
}
