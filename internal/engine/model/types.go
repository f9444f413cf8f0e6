// Package model loads triangle meshes and reports their bounding boxes.
package model

import (
	"github.com/Faultbox/sceneview/internal/scene"
	"github.com/Faultbox/sceneview/pkg/math"
)

// Vertex represents a mesh vertex with position, normal and texture
// coordinate.
type Vertex struct {
	Position [3]float32
	Normal   [3]float32
	UV       [2]float32
}

// VertexStride is the number of float32 values per interleaved vertex.
const VertexStride = 8

// Mesh holds the complete mesh data ready for GPU upload.
type Mesh struct {
	Name     string
	Vertices []Vertex
	Indices  []uint32
	Bounds   Bounds

	// Groups split Indices into runs drawn with one material each.
	Groups []Group

	// MaterialLibs lists the mtllib files named by the OBJ, as written.
	MaterialLibs []string

	// Materials is filled by Load from MaterialLibs, keyed by name.
	Materials map[string]*Material
}

// Group is a contiguous range of Indices sharing one material.
type Group struct {
	Material string // usemtl name, empty when none was set
	Start    int
	Count    int
}

// Material is a Wavefront MTL surface. Map paths are resolved against the
// directory of the .mtl file by Load.
type Material struct {
	Name        string
	Diffuse     [3]float32 // Kd
	Specular    [3]float32 // Ks
	Shininess   float32    // Ns, zero when unset
	DiffuseMap  string     // map_Kd
	SpecularMap string     // map_Ks
}

// GroupMaterial returns the material of g, or nil when the group has none
// or names one no library defined.
func (m *Mesh) GroupMaterial(g Group) *Material {
	if g.Material == "" {
		return nil
	}
	return m.Materials[g.Material]
}

// Bounds holds the axis-aligned bounding box of the mesh.
type Bounds struct {
	Min [3]float32
	Max [3]float32
}

// emptyBounds is inverted so the first extend sets both corners.
func emptyBounds() Bounds {
	return Bounds{
		Min: [3]float32{1e30, 1e30, 1e30},
		Max: [3]float32{-1e30, -1e30, -1e30},
	}
}

func (b *Bounds) extend(p [3]float32) {
	for i := 0; i < 3; i++ {
		b.Min[i] = min(b.Min[i], p[i])
		b.Max[i] = max(b.Max[i], p[i])
	}
}

// Box converts the bounds to the per-axis center and size form used by the
// scene layout.
func (b Bounds) Box() scene.BoundingBox {
	return scene.BoundsFromMinMax(
		math.V3(b.Min[0], b.Min[1], b.Min[2]),
		math.V3(b.Max[0], b.Max[1], b.Max[2]),
	)
}

// Interleaved returns the vertices as x y z nx ny nz u v for a single VBO.
func (m *Mesh) Interleaved() []float32 {
	out := make([]float32, 0, len(m.Vertices)*VertexStride)
	for _, v := range m.Vertices {
		out = append(out, v.Position[0], v.Position[1], v.Position[2])
		out = append(out, v.Normal[0], v.Normal[1], v.Normal[2])
		out = append(out, v.UV[0], v.UV[1])
	}
	return out
}
