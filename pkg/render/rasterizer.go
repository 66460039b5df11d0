package render

import (
	"fmt"
	"math"

	"github.com/taigrr/gallery/pkg/math3d"
)

// Lighting is a fixed ambient term plus a diffuse term from one
// directional light.
const (
	ambient = 0.3
	diffuse = 0.7
)

// Vertex is a world-space vertex ready for rasterization.
type Vertex struct {
	Position math3d.Vec3
	Normal   math3d.Vec3
	UV       math3d.Vec2
	Color    Color
}

// Triangle is three vertices in front-facing (clockwise) order.
type Triangle struct {
	V [3]Vertex
}

// MeshRenderer is the mesh shape the rasterizer draws. models.Mesh
// satisfies it.
type MeshRenderer interface {
	VertexCount() int
	TriangleCount() int
	GetVertex(i int) (pos, normal math3d.Vec3, uv math3d.Vec2)
	GetFace(i int) [3]int
}

// DrawStats counts work done since the last ResetStats.
type DrawStats struct {
	Meshes    int
	Triangles int
	Clipped   int // dropped entirely by the near plane
	BackFaces int
}

// Rasterizer draws Gouraud-shaded, optionally textured triangles into a
// framebuffer with a depth buffer.
type Rasterizer struct {
	camera  *Camera
	fb      *Framebuffer
	zbuffer []float64

	// LightDir points toward the light.
	LightDir               math3d.Vec3
	DisableBackfaceCulling bool
	Stats                  DrawStats
}

// NewRasterizer creates a rasterizer drawing through camera into fb.
func NewRasterizer(camera *Camera, fb *Framebuffer) *Rasterizer {
	r := &Rasterizer{
		camera:   camera,
		fb:       fb,
		LightDir: math3d.V3(0.4, 1, 0.3).Normalize(),
	}
	r.Resize()
	return r
}

// Resize reallocates the depth buffer to match the framebuffer.
func (r *Rasterizer) Resize() {
	r.zbuffer = make([]float64, r.fb.Width*r.fb.Height)
}

// Width returns the framebuffer width.
func (r *Rasterizer) Width() int { return r.fb.Width }

// Height returns the framebuffer height.
func (r *Rasterizer) Height() int { return r.fb.Height }

// ClearDepth resets the depth buffer. Call it once per frame.
func (r *Rasterizer) ClearDepth() {
	n := len(r.zbuffer)
	if n == 0 {
		return
	}
	r.zbuffer[0] = math.MaxFloat64
	for i := 1; i < n; i *= 2 {
		copy(r.zbuffer[i:], r.zbuffer[:i])
	}
}

// ResetStats zeroes the draw counters.
func (r *Rasterizer) ResetStats() {
	r.Stats = DrawStats{}
}

// clipVertex carries the interpolated attributes of a vertex in clip
// space.
type clipVertex struct {
	pos   math3d.Vec4
	uv    math3d.Vec2
	light float64
	rgb   [3]float64
}

func lerpClip(a, b clipVertex, t float64) clipVertex {
	l := func(x, y float64) float64 { return x + (y-x)*t }
	return clipVertex{
		pos:   math3d.V4(l(a.pos.X, b.pos.X), l(a.pos.Y, b.pos.Y), l(a.pos.Z, b.pos.Z), l(a.pos.W, b.pos.W)),
		uv:    math3d.V2(l(a.uv.X, b.uv.X), l(a.uv.Y, b.uv.Y)),
		light: l(a.light, b.light),
		rgb:   [3]float64{l(a.rgb[0], b.rgb[0]), l(a.rgb[1], b.rgb[1]), l(a.rgb[2], b.rgb[2])},
	}
}

// clipNear clips a convex polygon against the near plane z >= -w and
// appends the result to out.
func clipNear(in, out []clipVertex) []clipVertex {
	for i := range in {
		a, b := in[i], in[(i+1)%len(in)]
		da, db := a.pos.Z+a.pos.W, b.pos.Z+b.pos.W
		if da >= 0 {
			out = append(out, a)
		}
		if (da >= 0) != (db >= 0) {
			out = append(out, lerpClip(a, b, da/(da-db)))
		}
	}
	return out
}

// DrawTriangle shades tri per vertex and rasterizes it. With a nil tex the
// vertex colors are used; otherwise the texture is modulated by them.
func (r *Rasterizer) DrawTriangle(tri Triangle, tex *Texture) {
	r.Stats.Triangles++

	vp := r.camera.ViewProjectionMatrix()
	light := r.LightDir.Normalize()

	var poly [3]clipVertex
	for i, v := range tri.V {
		poly[i] = clipVertex{
			pos:   vp.MulVec4(math3d.V4FromV3(v.Position, 1)),
			uv:    v.UV,
			light: ambient + diffuse*max(0, v.Normal.Dot(light)),
			rgb:   [3]float64{float64(v.Color.R), float64(v.Color.G), float64(v.Color.B)},
		}
	}

	var buf [4]clipVertex
	verts := clipNear(poly[:], buf[:0])
	if len(verts) < 3 {
		r.Stats.Clipped++
		return
	}
	for i := 1; i+1 < len(verts); i++ {
		r.rasterize(verts[0], verts[i], verts[i+1], tex)
	}
}

type screenVertex struct {
	x, y, z float64
	invW    float64
	cv      clipVertex
}

func (r *Rasterizer) project(cv clipVertex) screenVertex {
	invW := 1 / cv.pos.W
	return screenVertex{
		x:    (cv.pos.X*invW + 1) * 0.5 * float64(r.fb.Width),
		y:    (1 - cv.pos.Y*invW) * 0.5 * float64(r.fb.Height), // screen Y grows downward
		z:    cv.pos.Z * invW,
		invW: invW,
		cv:   cv,
	}
}

// edge is twice the signed area of (a, b, p). It is positive when p lies
// to the right of a->b on a Y-down screen.
func edge(ax, ay, bx, by, px, py float64) float64 {
	return (bx-ax)*(py-ay) - (by-ay)*(px-ax)
}

func (r *Rasterizer) rasterize(a, b, c clipVertex, tex *Texture) {
	s0, s1, s2 := r.project(a), r.project(b), r.project(c)

	area := edge(s0.x, s0.y, s1.x, s1.y, s2.x, s2.y)
	if area == 0 {
		return
	}
	if area < 0 && !r.DisableBackfaceCulling {
		r.Stats.BackFaces++
		return
	}

	w, h := r.fb.Width, r.fb.Height
	minX := max(0, int(math.Floor(min(s0.x, s1.x, s2.x))))
	maxX := min(w-1, int(math.Ceil(max(s0.x, s1.x, s2.x))))
	minY := max(0, int(math.Floor(min(s0.y, s1.y, s2.y))))
	maxY := min(h-1, int(math.Ceil(max(s0.y, s1.y, s2.y))))

	invArea := 1 / area
	for y := minY; y <= maxY; y++ {
		py := float64(y) + 0.5
		for x := minX; x <= maxX; x++ {
			px := float64(x) + 0.5

			b0 := edge(s1.x, s1.y, s2.x, s2.y, px, py) * invArea
			b1 := edge(s2.x, s2.y, s0.x, s0.y, px, py) * invArea
			b2 := edge(s0.x, s0.y, s1.x, s1.y, px, py) * invArea
			if b0 < 0 || b1 < 0 || b2 < 0 {
				continue
			}

			z := b0*s0.z + b1*s1.z + b2*s2.z
			idx := y*w + x
			if z > 1 || z >= r.zbuffer[idx] {
				continue
			}

			// Perspective-correct weights.
			p0, p1, p2 := b0*s0.invW, b1*s1.invW, b2*s2.invW
			norm := 1 / (p0 + p1 + p2)
			p0, p1, p2 = p0*norm, p1*norm, p2*norm

			light := p0*s0.cv.light + p1*s1.cv.light + p2*s2.cv.light
			base := Color{
				R: uint8(p0*s0.cv.rgb[0] + p1*s1.cv.rgb[0] + p2*s2.cv.rgb[0]),
				G: uint8(p0*s0.cv.rgb[1] + p1*s1.cv.rgb[1] + p2*s2.cv.rgb[1]),
				B: uint8(p0*s0.cv.rgb[2] + p1*s1.cv.rgb[2] + p2*s2.cv.rgb[2]),
				A: 255,
			}
			if tex != nil {
				u := p0*s0.cv.uv.X + p1*s1.cv.uv.X + p2*s2.cv.uv.X
				v := p0*s0.cv.uv.Y + p1*s1.cv.uv.Y + p2*s2.cv.uv.Y
				base = ModulateColor(tex.Sample(u, v), base)
			}

			r.zbuffer[idx] = z
			r.fb.Pixels[idx] = MultiplyColor(base, light)
		}
	}
}

// DrawMesh draws every face of mesh placed by transform. tint is the
// vertex color; pass ColorWhite to show a texture unchanged.
func (r *Rasterizer) DrawMesh(mesh MeshRenderer, transform math3d.Mat4, tint Color, tex *Texture) {
	r.Stats.Meshes++
	for i := range mesh.TriangleCount() {
		face := mesh.GetFace(i)
		var tri Triangle
		for k, vi := range face {
			pos, n, uv := mesh.GetVertex(vi)
			tri.V[k] = Vertex{
				Position: transform.MulVec3(pos),
				Normal:   transform.MulVec3Dir(n).Normalize(),
				UV:       uv,
				Color:    tint,
			}
		}
		r.DrawTriangle(tri, tex)
	}
}

// DrawInstances draws one copy of mesh per transform, textured by the
// material at the same index. transforms and materials must be the same
// length.
func (r *Rasterizer) DrawInstances(mesh MeshRenderer, transforms []math3d.Mat4, materials []string, reg *Registry) {
	if len(transforms) != len(materials) {
		panic(fmt.Sprintf("render: %d transforms but %d materials", len(transforms), len(materials)))
	}
	for i, m := range transforms {
		r.DrawMesh(mesh, m, ColorWhite, reg.Lookup(materials[i]))
	}
}
