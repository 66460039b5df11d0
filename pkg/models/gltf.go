package models

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"math"
	"path/filepath"

	"github.com/qmuntal/gltf"

	"github.com/taigrr/gallery/pkg/math3d"
)

var errAccessorRange = errors.New("accessor reads past its buffer")

// Loader turns glTF/GLB documents into meshes.
type Loader struct {
	// CalculateNormals fills in normals when the document has none.
	CalculateNormals bool
	SmoothNormals    bool
	// FitUnitCube rescales the result into the unit cube around the origin.
	FitUnitCube bool
}

// NewLoader returns a loader with smooth generated normals and unit fitting
// enabled.
func NewLoader() *Loader {
	return &Loader{
		CalculateNormals: true,
		SmoothNormals:    true,
		FitUnitCube:      true,
	}
}

// LoadGLB loads a .glb or .gltf file with the default loader.
func LoadGLB(path string) (*Mesh, error) {
	return NewLoader().Load(path)
}

// Load reads the file at path and merges every triangle primitive into
// one mesh.
func (l *Loader) Load(path string) (*Mesh, error) {
	doc, err := gltf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open gltf: %w", err)
	}
	return l.FromDocument(doc, filepath.Base(path))
}

// FromDocument builds a mesh from an already decoded document.
func (l *Loader) FromDocument(doc *gltf.Document, name string) (*Mesh, error) {
	mesh := NewMesh(name)
	mesh.Materials = readMaterials(doc)

	for _, m := range doc.Meshes {
		if err := l.appendMesh(doc, m, mesh); err != nil {
			return nil, fmt.Errorf("mesh %q: %w", m.Name, err)
		}
	}

	if l.CalculateNormals && !hasNormals(mesh) {
		if l.SmoothNormals {
			mesh.CalculateSmoothNormals()
		} else {
			mesh.CalculateNormals()
		}
	}

	mesh.CalculateBounds()
	if l.FitUnitCube {
		mesh.FitUnitCube()
	}
	return mesh, nil
}

func hasNormals(m *Mesh) bool {
	for _, v := range m.Vertices {
		if v.Normal.LenSq() > 1e-6 {
			return true
		}
	}
	return false
}

func readMaterials(doc *gltf.Document) []Material {
	out := make([]Material, len(doc.Materials))
	for i, gm := range doc.Materials {
		mat := Material{Name: gm.Name, BaseColor: [4]float64{1, 1, 1, 1}, Roughness: 1}
		if pbr := gm.PBRMetallicRoughness; pbr != nil {
			mat.BaseColor = pbr.BaseColorFactorOrDefault()
			mat.Metallic = pbr.MetallicFactorOrDefault()
			mat.Roughness = pbr.RoughnessFactorOrDefault()
		}
		out[i] = mat
	}
	return out
}

func (l *Loader) appendMesh(doc *gltf.Document, m *gltf.Mesh, mesh *Mesh) error {
	for _, prim := range m.Primitives {
		if prim.Mode != gltf.PrimitiveTriangles {
			continue
		}
		posIdx, ok := prim.Attributes[gltf.POSITION]
		if !ok {
			continue
		}

		positions, err := readVec3(doc, posIdx)
		if err != nil {
			return fmt.Errorf("read positions: %w", err)
		}

		var normals []math3d.Vec3
		if idx, ok := prim.Attributes[gltf.NORMAL]; ok {
			if normals, err = readVec3(doc, idx); err != nil {
				return fmt.Errorf("read normals: %w", err)
			}
		}

		var uvs []math3d.Vec2
		if idx, ok := prim.Attributes[gltf.TEXCOORD_0]; ok {
			if uvs, err = readVec2(doc, idx); err != nil {
				return fmt.Errorf("read uvs: %w", err)
			}
		}

		material := -1
		if prim.Material != nil && *prim.Material < len(mesh.Materials) {
			material = *prim.Material
		}

		base := len(mesh.Vertices)
		for i, p := range positions {
			v := MeshVertex{Position: p}
			if i < len(normals) {
				v.Normal = normals[i]
			}
			if i < len(uvs) {
				// glTF puts V=0 at the top of the image.
				v.UV = math3d.V2(uvs[i].X, 1-uvs[i].Y)
			}
			mesh.Vertices = append(mesh.Vertices, v)
		}

		var indices []int
		if prim.Indices != nil {
			if indices, err = readIndices(doc, *prim.Indices); err != nil {
				return fmt.Errorf("read indices: %w", err)
			}
		} else {
			indices = make([]int, len(positions))
			for i := range indices {
				indices[i] = i
			}
		}

		// glTF is counter-clockwise; swap two corners for our clockwise faces.
		for i := 0; i+2 < len(indices); i += 3 {
			a, b, c := indices[i], indices[i+1], indices[i+2]
			if max(a, b, c) >= len(positions) {
				return fmt.Errorf("index %d out of range", max(a, b, c))
			}
			mesh.Faces = append(mesh.Faces, Face{
				V:        [3]int{base + a, base + c, base + b},
				Material: material,
			})
		}
	}
	return nil
}

// accessorData returns the bytes behind an accessor and the distance
// between consecutive elements.
func accessorData(doc *gltf.Document, acc *gltf.Accessor, elemSize int) ([]byte, int, error) {
	if acc.BufferView == nil {
		return nil, 0, errors.New("accessor has no buffer view")
	}
	view := doc.BufferViews[*acc.BufferView]
	buf := doc.Buffers[view.Buffer]
	if buf.Data == nil {
		return nil, 0, errors.New("buffer has no data")
	}

	stride := view.ByteStride
	if stride == 0 {
		stride = elemSize
	}
	start := view.ByteOffset + acc.ByteOffset
	if acc.Count > 0 {
		end := start + (acc.Count-1)*stride + elemSize
		if end > len(buf.Data) {
			return nil, 0, errAccessorRange
		}
	}
	return buf.Data[start:], stride, nil
}

func float32At(b []byte) float64 {
	return float64(math.Float32frombits(binary.LittleEndian.Uint32(b)))
}

func readVec3(doc *gltf.Document, idx int) ([]math3d.Vec3, error) {
	acc := doc.Accessors[idx]
	if acc.Type != gltf.AccessorVec3 || acc.ComponentType != gltf.ComponentFloat {
		return nil, fmt.Errorf("want float VEC3, got %v %v", acc.ComponentType, acc.Type)
	}
	data, stride, err := accessorData(doc, acc, 12)
	if err != nil {
		return nil, err
	}
	out := make([]math3d.Vec3, acc.Count)
	for i := range out {
		b := data[i*stride:]
		out[i] = math3d.V3(float32At(b), float32At(b[4:]), float32At(b[8:]))
	}
	return out, nil
}

func readVec2(doc *gltf.Document, idx int) ([]math3d.Vec2, error) {
	acc := doc.Accessors[idx]
	if acc.Type != gltf.AccessorVec2 || acc.ComponentType != gltf.ComponentFloat {
		return nil, fmt.Errorf("want float VEC2, got %v %v", acc.ComponentType, acc.Type)
	}
	data, stride, err := accessorData(doc, acc, 8)
	if err != nil {
		return nil, err
	}
	out := make([]math3d.Vec2, acc.Count)
	for i := range out {
		b := data[i*stride:]
		out[i] = math3d.V2(float32At(b), float32At(b[4:]))
	}
	return out, nil
}

func readIndices(doc *gltf.Document, idx int) ([]int, error) {
	acc := doc.Accessors[idx]
	if acc.Type != gltf.AccessorScalar {
		return nil, fmt.Errorf("want SCALAR indices, got %v", acc.Type)
	}

	var size int
	switch acc.ComponentType {
	case gltf.ComponentUbyte:
		size = 1
	case gltf.ComponentUshort:
		size = 2
	case gltf.ComponentUint:
		size = 4
	default:
		return nil, fmt.Errorf("unsupported index type %v", acc.ComponentType)
	}

	data, stride, err := accessorData(doc, acc, size)
	if err != nil {
		return nil, err
	}
	out := make([]int, acc.Count)
	for i := range out {
		b := data[i*stride:]
		switch size {
		case 1:
			out[i] = int(b[0])
		case 2:
			out[i] = int(binary.LittleEndian.Uint16(b))
		case 4:
			out[i] = int(binary.LittleEndian.Uint32(b))
		}
	}
	return out, nil
}

// LoadModel loads a model and decodes the first image embedded in it.
// The image is nil when the file carries none.
func LoadModel(path string) (*Mesh, image.Image, error) {
	doc, err := gltf.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("open gltf: %w", err)
	}
	mesh, err := NewLoader().FromDocument(doc, filepath.Base(path))
	if err != nil {
		return nil, nil, err
	}
	return mesh, firstImage(doc), nil
}

func firstImage(doc *gltf.Document) image.Image {
	for _, img := range doc.Images {
		if img.BufferView == nil {
			continue
		}
		view := doc.BufferViews[*img.BufferView]
		data := doc.Buffers[view.Buffer].Data
		if view.ByteOffset+view.ByteLength > len(data) {
			continue
		}
		decoded, _, err := image.Decode(bytes.NewReader(data[view.ByteOffset : view.ByteOffset+view.ByteLength]))
		if err == nil {
			return decoded
		}
	}
	return nil
}
