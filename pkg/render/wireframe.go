package render

import (
	"math"

	"github.com/taigrr/gallery/pkg/math3d"
	"github.com/taigrr/gallery/pkg/spatial"
)

// Wireframe draws debug lines over a rendered frame. Lines ignore the
// depth buffer.
type Wireframe struct {
	camera *Camera
	fb     *Framebuffer
}

// NewWireframe creates a wireframe overlay drawing through camera into fb.
func NewWireframe(camera *Camera, fb *Framebuffer) *Wireframe {
	return &Wireframe{camera: camera, fb: fb}
}

// DrawLine3D draws the part of the segment p1-p2 inside the view volume.
func (w *Wireframe) DrawLine3D(p1, p2 math3d.Vec3, color Color) {
	vp := w.camera.ViewProjectionMatrix()
	a := vp.MulVec4(math3d.V4FromV3(p1, 1))
	b := vp.MulVec4(math3d.V4FromV3(p2, 1))

	t0, t1, ok := clipSegment(a, b)
	if !ok {
		return
	}
	x0, y0 := w.toScreen(lerp4(a, b, t0))
	x1, y1 := w.toScreen(lerp4(a, b, t1))
	w.fb.DrawLine(x0, y0, x1, y1, color)
}

func (w *Wireframe) toScreen(c math3d.Vec4) (int, int) {
	ndc := c.PerspectiveDivide()
	x := (ndc.X + 1) * 0.5 * float64(w.fb.Width)
	y := (1 - ndc.Y) * 0.5 * float64(w.fb.Height)
	return int(math.Floor(x)), int(math.Floor(y))
}

func lerp4(a, b math3d.Vec4, t float64) math3d.Vec4 {
	return math3d.V4(a.X+(b.X-a.X)*t, a.Y+(b.Y-a.Y)*t, a.Z+(b.Z-a.Z)*t, a.W+(b.W-a.W)*t)
}

// clipSegment clips the clip-space segment a-b against the six planes
// -w <= x, y, z <= w and returns the surviving parameter range.
func clipSegment(a, b math3d.Vec4) (t0, t1 float64, ok bool) {
	da := [6]float64{a.W + a.X, a.W - a.X, a.W + a.Y, a.W - a.Y, a.W + a.Z, a.W - a.Z}
	db := [6]float64{b.W + b.X, b.W - b.X, b.W + b.Y, b.W - b.Y, b.W + b.Z, b.W - b.Z}

	t0, t1 = 0, 1
	for i := range da {
		switch {
		case da[i] < 0 && db[i] < 0:
			return 0, 0, false
		case da[i] < 0:
			t0 = max(t0, da[i]/(da[i]-db[i]))
		case db[i] < 0:
			t1 = min(t1, da[i]/(da[i]-db[i]))
		}
	}
	return t0, t1, t0 <= t1
}

// boxEdges indexes the corners produced by boxCorners.
var boxEdges = [12][2]int{
	{0, 1}, {1, 2}, {2, 3}, {3, 0}, // bottom
	{4, 5}, {5, 6}, {6, 7}, {7, 4}, // top
	{0, 4}, {1, 5}, {2, 6}, {3, 7},
}

func boxCorners(b spatial.BoundingBox) [8]math3d.Vec3 {
	lo, hi := b.Min, b.Max
	return [8]math3d.Vec3{
		{X: lo.X, Y: lo.Y, Z: lo.Z},
		{X: hi.X, Y: lo.Y, Z: lo.Z},
		{X: hi.X, Y: lo.Y, Z: hi.Z},
		{X: lo.X, Y: lo.Y, Z: hi.Z},
		{X: lo.X, Y: hi.Y, Z: lo.Z},
		{X: hi.X, Y: hi.Y, Z: lo.Z},
		{X: hi.X, Y: hi.Y, Z: hi.Z},
		{X: lo.X, Y: hi.Y, Z: hi.Z},
	}
}

// DrawBox outlines a bounding box. Empty boxes draw nothing.
func (w *Wireframe) DrawBox(box spatial.BoundingBox, color Color) {
	if box.IsEmpty() {
		return
	}
	corners := boxCorners(box)
	for _, e := range boxEdges {
		w.DrawLine3D(corners[e[0]], corners[e[1]], color)
	}
}

// DrawBoxes outlines every box.
func (w *Wireframe) DrawBoxes(boxes []spatial.BoundingBox, color Color) {
	for _, b := range boxes {
		w.DrawBox(b, color)
	}
}

// DrawGrid draws grid lines on the plane y at every step across the XZ
// extent of area.
func (w *Wireframe) DrawGrid(area spatial.BoundingBox, y, step float64, color Color) {
	if area.IsEmpty() || step <= 0 {
		return
	}
	for x := area.Min.X; x <= area.Max.X+1e-9; x += step {
		w.DrawLine3D(math3d.V3(x, y, area.Min.Z), math3d.V3(x, y, area.Max.Z), color)
	}
	for z := area.Min.Z; z <= area.Max.Z+1e-9; z += step {
		w.DrawLine3D(math3d.V3(area.Min.X, y, z), math3d.V3(area.Max.X, y, z), color)
	}
}
