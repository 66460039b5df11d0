package render

import (
	"testing"

	"github.com/taigrr/gallery/pkg/math3d"
	"github.com/taigrr/gallery/pkg/models"
)

// mockMesh implements MeshRenderer for testing.
type mockMesh struct {
	positions []math3d.Vec3
	faces     [][3]int
}

func (m *mockMesh) VertexCount() int     { return len(m.positions) }
func (m *mockMesh) TriangleCount() int   { return len(m.faces) }
func (m *mockMesh) GetFace(i int) [3]int { return m.faces[i] }
func (m *mockMesh) GetVertex(i int) (pos, normal math3d.Vec3, uv math3d.Vec2) {
	return m.positions[i], math3d.V3(0, 0, 1), math3d.V2(0.5, 0.5)
}

// createTestRasterizer looks from (0, 0, 3) down -Z with the light
// straight behind the camera.
func createTestRasterizer(width, height int) (*Rasterizer, *Framebuffer) {
	fb := NewFramebuffer(width, height)
	camera := NewCamera()
	camera.SetPosition(math3d.V3(0, 0, 3))
	camera.SetAspectRatio(float64(width) / float64(height))
	r := NewRasterizer(camera, fb)
	r.LightDir = math3d.V3(0, 0, 1)
	r.ClearDepth()
	return r, fb
}

// facingTriangle is clockwise when seen from +Z.
func facingTriangle(z float64, c Color) Triangle {
	n := math3d.V3(0, 0, 1)
	return Triangle{V: [3]Vertex{
		{Position: math3d.V3(-2, -2, z), Normal: n, Color: c},
		{Position: math3d.V3(0, 2, z), Normal: n, Color: c},
		{Position: math3d.V3(2, -2, z), Normal: n, Color: c},
	}}
}

func reversed(tri Triangle) Triangle {
	tri.V[1], tri.V[2] = tri.V[2], tri.V[1]
	return tri
}

func center(fb *Framebuffer) Color {
	return fb.GetPixel(fb.Width/2, fb.Height/2)
}

func TestEdgeSign(t *testing.T) {
	// (0,0) -> (1,0) -> (0,1) runs clockwise on a Y-down screen.
	if got := edge(0, 0, 1, 0, 0, 1); got <= 0 {
		t.Errorf("edge of clockwise triangle = %v, want > 0", got)
	}
	if got := edge(0, 0, 0, 1, 1, 0); got >= 0 {
		t.Errorf("edge of counter-clockwise triangle = %v, want < 0", got)
	}
}

func TestClipNear(t *testing.T) {
	front := clipVertex{pos: math3d.V4(0, 0, 0, 1)}
	behind := clipVertex{pos: math3d.V4(0, 0, -3, 1)}

	tests := []struct {
		name string
		in   []clipVertex
		want int
	}{
		{"all in front", []clipVertex{front, front, front}, 3},
		{"one behind", []clipVertex{front, front, behind}, 4},
		{"two behind", []clipVertex{front, behind, behind}, 3},
		{"all behind", []clipVertex{behind, behind, behind}, 0},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			out := clipNear(tc.in, nil)
			if len(out) != tc.want {
				t.Fatalf("got %d vertices, want %d", len(out), tc.want)
			}
			for _, v := range out {
				if v.pos.Z+v.pos.W < -1e-9 {
					t.Errorf("vertex %v lies behind the near plane", v.pos)
				}
			}
		})
	}
}

func TestDrawTriangleFrontFace(t *testing.T) {
	r, fb := createTestRasterizer(64, 64)
	fb.Clear(ColorBlack)

	r.DrawTriangle(facingTriangle(0, ColorWhite), nil)

	c := center(fb)
	if c.R < 200 || c.G < 200 || c.B < 200 {
		t.Errorf("center = %v, want a lit white pixel", c)
	}
	if r.Stats.Triangles != 1 || r.Stats.BackFaces != 0 {
		t.Errorf("stats = %+v", r.Stats)
	}
}

func TestDrawTriangleBackfaceCulling(t *testing.T) {
	r, fb := createTestRasterizer(64, 64)
	fb.Clear(ColorBlack)

	r.DrawTriangle(reversed(facingTriangle(0, ColorWhite)), nil)
	if c := center(fb); c != ColorBlack {
		t.Errorf("back face drew %v", c)
	}
	if r.Stats.BackFaces != 1 {
		t.Errorf("BackFaces = %d, want 1", r.Stats.BackFaces)
	}

	r.DisableBackfaceCulling = true
	r.DrawTriangle(reversed(facingTriangle(0, ColorWhite)), nil)
	if c := center(fb); c == ColorBlack {
		t.Error("back face not drawn with culling disabled")
	}
}

func TestDrawTriangleDepth(t *testing.T) {
	for _, nearFirst := range []bool{false, true} {
		r, fb := createTestRasterizer(64, 64)
		fb.Clear(ColorBlack)

		near := facingTriangle(0, ColorGreen)
		far := facingTriangle(-1, ColorRed)
		if nearFirst {
			r.DrawTriangle(near, nil)
			r.DrawTriangle(far, nil)
		} else {
			r.DrawTriangle(far, nil)
			r.DrawTriangle(near, nil)
		}

		if c := center(fb); c.G == 0 || c.R != 0 {
			t.Errorf("nearFirst=%v: center = %v, want the near green triangle", nearFirst, c)
		}
	}
}

func TestDrawTriangleNearClipping(t *testing.T) {
	r, fb := createTestRasterizer(64, 64)
	fb.Clear(ColorBlack)

	// Third vertex sits behind the camera.
	tri := facingTriangle(0, ColorWhite)
	tri.V[2].Position = math3d.V3(2, -2, 10)
	r.DrawTriangle(tri, nil)
	if r.Stats.Clipped != 0 {
		t.Errorf("Clipped = %d, want 0", r.Stats.Clipped)
	}

	behind := facingTriangle(5, ColorWhite)
	r.DrawTriangle(behind, nil)
	if r.Stats.Clipped != 1 {
		t.Errorf("Clipped = %d, want 1", r.Stats.Clipped)
	}
}

func TestDrawTriangleTextured(t *testing.T) {
	r, fb := createTestRasterizer(64, 64)
	fb.Clear(ColorBlack)

	tri := facingTriangle(0, ColorWhite)
	for i := range tri.V {
		tri.V[i].UV = math3d.V2(0.5, 0.5)
	}
	r.DrawTriangle(tri, NewSolidTexture(ColorRed))

	c := center(fb)
	if c.R < 200 || c.G != 0 || c.B != 0 {
		t.Errorf("center = %v, want red", c)
	}
}

func TestDrawMesh(t *testing.T) {
	r, fb := createTestRasterizer(64, 64)
	fb.Clear(ColorBlack)

	quad := &mockMesh{
		positions: []math3d.Vec3{
			math3d.V3(-1, -1, 0), math3d.V3(-1, 1, 0), math3d.V3(1, 1, 0), math3d.V3(1, -1, 0),
		},
		faces: [][3]int{{0, 1, 2}, {0, 2, 3}},
	}
	r.DrawMesh(quad, math3d.Translate(math3d.V3(0, 0, -1)), ColorYellow, nil)

	if r.Stats.Meshes != 1 || r.Stats.Triangles != 2 {
		t.Errorf("stats = %+v", r.Stats)
	}
	if c := center(fb); c.R == 0 || c.G == 0 || c.B != 0 {
		t.Errorf("center = %v, want yellow", c)
	}
}

func TestDrawInstances(t *testing.T) {
	r, fb := createTestRasterizer(64, 64)
	fb.Clear(ColorBlack)

	reg := NewRegistry()
	reg.Register("red", NewSolidTexture(ColorRed))

	cube := models.Generate(models.Cube)
	transforms := []math3d.Mat4{math3d.Identity(), math3d.Translate(math3d.V3(50, 0, 0))}
	r.DrawInstances(cube, transforms, []string{"red", "missing"}, reg)

	if r.Stats.Meshes != 2 {
		t.Errorf("Meshes = %d, want 2", r.Stats.Meshes)
	}
	if c := center(fb); c.R == 0 || c.G != 0 {
		t.Errorf("center = %v, want red", c)
	}
}

func TestDrawInstancesMismatchPanics(t *testing.T) {
	r, _ := createTestRasterizer(8, 8)
	defer func() {
		if recover() == nil {
			t.Error("expected panic")
		}
	}()
	r.DrawInstances(models.Generate(models.Cube), []math3d.Mat4{math3d.Identity()}, nil, NewRegistry())
}

func TestRasterizerClearDepthAndResize(t *testing.T) {
	r, fb := createTestRasterizer(16, 8)
	r.DrawTriangle(facingTriangle(0, ColorWhite), nil)
	r.ClearDepth()
	for i, z := range r.zbuffer {
		if z < 1e300 {
			t.Fatalf("zbuffer[%d] = %v after ClearDepth", i, z)
		}
	}

	*fb = *NewFramebuffer(32, 16)
	r.Resize()
	if len(r.zbuffer) != 32*16 || r.Width() != 32 || r.Height() != 16 {
		t.Errorf("after resize: zbuffer %d, size %dx%d", len(r.zbuffer), r.Width(), r.Height())
	}
}

func BenchmarkDrawMesh(b *testing.B) {
	r, fb := createTestRasterizer(160, 90)
	cube := models.Generate(models.Cube)
	m := math3d.RotateY(0.6).Mul(math3d.RotateX(0.3))
	for b.Loop() {
		fb.Clear(ColorBlack)
		r.ClearDepth()
		r.DrawMesh(cube, m, ColorWhite, nil)
	}
}
