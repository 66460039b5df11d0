package models

import (
	"fmt"

	"github.com/taigrr/gallery/pkg/math3d"
)

// Primitive names a built-in mesh. Every primitive fits the unit cube
// centred on the origin.
type Primitive int

const (
	Cube    Primitive = iota
	Quad              // flat square in the XZ plane facing +Y
	Pyramid           // square base at y=-0.5, apex at y=0.5
	numPrimitives
)

var primitiveNames = [numPrimitives]string{"cube", "quad", "pyramid"}

var generators = [numPrimitives]func(m *Mesh){
	Cube:    genCube,
	Quad:    genQuad,
	Pyramid: genPyramid,
}

func (p Primitive) String() string {
	if p < 0 || p >= numPrimitives {
		return fmt.Sprintf("Primitive(%d)", int(p))
	}
	return primitiveNames[p]
}

// ParsePrimitive returns the primitive called name.
func ParsePrimitive(name string) (Primitive, error) {
	for i, n := range primitiveNames {
		if n == name {
			return Primitive(i), nil
		}
	}
	return 0, fmt.Errorf("unknown primitive %q", name)
}

// Generate builds a fresh mesh for p. It panics for an unknown primitive.
func Generate(p Primitive) *Mesh {
	if p < 0 || p >= numPrimitives {
		panic(fmt.Sprintf("models: generate %v", p))
	}
	m := NewMesh(p.String())
	generators[p](m)
	m.CalculateBounds()
	return m
}

var (
	uvBL = math3d.V2(0, 0)
	uvBR = math3d.V2(1, 0)
	uvTR = math3d.V2(1, 1)
	uvTL = math3d.V2(0, 1)
)

// addQuad appends the two triangles (a,b,c) and (a,c,d), all flat-shaded
// with n. Corners must already be in front-facing order.
func (m *Mesh) addQuad(a, b, c, d, n math3d.Vec3) {
	base := len(m.Vertices)
	m.Vertices = append(m.Vertices,
		MeshVertex{Position: a, Normal: n, UV: uvBL},
		MeshVertex{Position: b, Normal: n, UV: uvBR},
		MeshVertex{Position: c, Normal: n, UV: uvTR},
		MeshVertex{Position: d, Normal: n, UV: uvTL},
	)
	m.Faces = append(m.Faces,
		Face{V: [3]int{base, base + 1, base + 2}, Material: -1},
		Face{V: [3]int{base, base + 2, base + 3}, Material: -1},
	)
}

func (m *Mesh) addTriangle(a, b, c, n math3d.Vec3) {
	base := len(m.Vertices)
	m.Vertices = append(m.Vertices,
		MeshVertex{Position: a, Normal: n, UV: uvBL},
		MeshVertex{Position: b, Normal: n, UV: math3d.V2(0.5, 1)},
		MeshVertex{Position: c, Normal: n, UV: uvBR},
	)
	m.Faces = append(m.Faces, Face{V: [3]int{base, base + 1, base + 2}, Material: -1})
}

func genCube(m *Mesh) {
	const h = 0.5
	v := [8]math3d.Vec3{
		{X: -h, Y: -h, Z: -h}, {X: h, Y: -h, Z: -h}, {X: h, Y: h, Z: -h}, {X: -h, Y: h, Z: -h},
		{X: -h, Y: -h, Z: h}, {X: h, Y: -h, Z: h}, {X: h, Y: h, Z: h}, {X: -h, Y: h, Z: h},
	}
	faces := [6]struct {
		idx    [4]int
		normal math3d.Vec3
	}{
		{[4]int{0, 1, 2, 3}, math3d.V3(0, 0, -1)},
		{[4]int{5, 4, 7, 6}, math3d.V3(0, 0, 1)},
		{[4]int{4, 0, 3, 7}, math3d.V3(-1, 0, 0)},
		{[4]int{1, 5, 6, 2}, math3d.V3(1, 0, 0)},
		{[4]int{3, 2, 6, 7}, math3d.V3(0, 1, 0)},
		{[4]int{4, 5, 1, 0}, math3d.V3(0, -1, 0)},
	}
	for _, f := range faces {
		m.addQuad(v[f.idx[0]], v[f.idx[1]], v[f.idx[2]], v[f.idx[3]], f.normal)
	}
}

func genQuad(m *Mesh) {
	const h = 0.5
	m.addQuad(
		math3d.V3(-h, 0, -h), math3d.V3(h, 0, -h), math3d.V3(h, 0, h), math3d.V3(-h, 0, h),
		math3d.Up(),
	)
}

func genPyramid(m *Mesh) {
	const h = 0.5
	apex := math3d.V3(0, h, 0)
	base := [4]math3d.Vec3{
		{X: -h, Y: -h, Z: h}, {X: h, Y: -h, Z: h}, {X: h, Y: -h, Z: -h}, {X: -h, Y: -h, Z: -h},
	}
	for i := range base {
		a, b := base[i], base[(i+1)%4]
		n := b.Sub(a).Cross(apex.Sub(a)).Normalize()
		m.addTriangle(a, apex, b, n)
	}
	m.addQuad(base[3], base[0], base[1], base[2], math3d.V3(0, -1, 0))
}
