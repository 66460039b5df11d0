// Package models holds triangle meshes for the gallery: the procedural
// primitives every level is built from and optional glTF imports.
package models

import (
	"image"

	"github.com/taigrr/gallery/pkg/math3d"
	"github.com/taigrr/gallery/pkg/spatial"
)

// Mesh is an indexed triangle mesh in local space.
//
// Faces are wound clockwise when seen from outside, which is what the
// rasterizer treats as front-facing after its screen-space Y flip.
type Mesh struct {
	Name      string
	Vertices  []MeshVertex
	Faces     []Face
	Materials []Material

	// Bounds is the local-space box, kept current by CalculateBounds.
	Bounds spatial.BoundingBox
}

// MeshVertex holds all vertex attributes.
type MeshVertex struct {
	Position math3d.Vec3
	Normal   math3d.Vec3
	UV       math3d.Vec2
}

// Face is one triangle.
type Face struct {
	V        [3]int // indices into Mesh.Vertices
	Material int    // index into Mesh.Materials, -1 for none
}

// Material is the subset of a glTF PBR material the renderer uses.
type Material struct {
	Name      string
	BaseColor [4]float64 // RGBA in 0-1 range
	Metallic  float64
	Roughness float64
	BaseMap   image.Image
}

// HasTexture reports whether the material carries a base color image.
func (m *Material) HasTexture() bool { return m.BaseMap != nil }

// NewMesh creates an empty mesh.
func NewMesh(name string) *Mesh {
	return &Mesh{Name: name, Bounds: spatial.NewBoundingBox()}
}

// CalculateBounds recomputes Bounds from the vertex positions.
func (m *Mesh) CalculateBounds() {
	points := make([]math3d.Vec3, len(m.Vertices))
	for i, v := range m.Vertices {
		points[i] = v.Position
	}
	m.Bounds = spatial.NewBoundingBox(points...)
}

// TriangleCount returns the number of triangles.
func (m *Mesh) TriangleCount() int {
	return len(m.Faces)
}

// VertexCount returns the number of vertices.
func (m *Mesh) VertexCount() int {
	return len(m.Vertices)
}

// faceNormal returns the outward normal of face f.
func (m *Mesh) faceNormal(f Face) math3d.Vec3 {
	v0 := m.Vertices[f.V[0]].Position
	v1 := m.Vertices[f.V[1]].Position
	v2 := m.Vertices[f.V[2]].Position
	// Clockwise winding: the right-hand cross product points inward.
	return v2.Sub(v0).Cross(v1.Sub(v0))
}

// CalculateNormals assigns each face's normal to its three vertices.
// Shared vertices end up with the normal of the last face that uses them.
func (m *Mesh) CalculateNormals() {
	for _, f := range m.Faces {
		n := m.faceNormal(f).Normalize()
		for _, vi := range f.V {
			m.Vertices[vi].Normal = n
		}
	}
}

// CalculateSmoothNormals averages area-weighted face normals per vertex.
func (m *Mesh) CalculateSmoothNormals() {
	for i := range m.Vertices {
		m.Vertices[i].Normal = math3d.Zero3()
	}
	for _, f := range m.Faces {
		n := m.faceNormal(f)
		for _, vi := range f.V {
			m.Vertices[vi].Normal = m.Vertices[vi].Normal.Add(n)
		}
	}
	for i := range m.Vertices {
		m.Vertices[i].Normal = m.Vertices[i].Normal.Normalize()
	}
}

// Transform applies mat to every vertex in place and refreshes the bounds.
func (m *Mesh) Transform(mat math3d.Mat4) {
	for i := range m.Vertices {
		m.Vertices[i].Position = mat.MulVec3(m.Vertices[i].Position)
		m.Vertices[i].Normal = mat.MulVec3Dir(m.Vertices[i].Normal).Normalize()
	}
	m.CalculateBounds()
}

// FitUnitCube scales and moves the mesh so its bounds fit a unit cube
// centred on the origin, keeping proportions. Imported models use it so
// they can stand in for the built-in primitives.
func (m *Mesh) FitUnitCube() {
	if m.Bounds.IsEmpty() {
		return
	}
	size := m.Bounds.Size()
	longest := max(size.X, size.Y, size.Z)
	if longest == 0 {
		return
	}
	s := 1 / longest
	m.Transform(math3d.ScaleUniform(s).Mul(math3d.Translate(m.Bounds.Center.Negate())))
}

// Clone returns a deep copy of the mesh.
func (m *Mesh) Clone() *Mesh {
	c := *m
	c.Vertices = append([]MeshVertex(nil), m.Vertices...)
	c.Faces = append([]Face(nil), m.Faces...)
	c.Materials = append([]Material(nil), m.Materials...)
	return &c
}

// GetVertex returns the attributes of vertex i.
func (m *Mesh) GetVertex(i int) (pos, normal math3d.Vec3, uv math3d.Vec2) {
	v := m.Vertices[i]
	return v.Position, v.Normal, v.UV
}

// GetFace returns the vertex indices of face i.
func (m *Mesh) GetFace(i int) [3]int {
	return m.Faces[i].V
}

// GetFaceMaterial returns the material index of face i, -1 for none.
func (m *Mesh) GetFaceMaterial(i int) int {
	return m.Faces[i].Material
}

// GetMaterial returns material i, or nil when i is out of range.
func (m *Mesh) GetMaterial(i int) *Material {
	if i < 0 || i >= len(m.Materials) {
		return nil
	}
	return &m.Materials[i]
}

// LocalBounds returns the mesh's local-space box.
func (m *Mesh) LocalBounds() spatial.BoundingBox {
	return m.Bounds
}
