package model

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const quadOBJ = `# unit quad in the XY plane, offset
o quad
v 1 1 0
v 3 1 0
v 3 2 0
v 1 2 0
vn 0 0 1
f 1//1 2//1 3//1 4//1
`

func TestDecodeOBJQuad(t *testing.T) {
	mesh, err := DecodeOBJ(strings.NewReader(quadOBJ))
	require.NoError(t, err)

	// Fan triangulation, corners shared through the v//vn key.
	assert.Len(t, mesh.Vertices, 4)
	assert.Equal(t, []uint32{0, 1, 2, 0, 2, 3}, mesh.Indices)
	for _, v := range mesh.Vertices {
		assert.Equal(t, [3]float32{0, 0, 1}, v.Normal)
	}

	assert.Equal(t, [3]float32{1, 1, 0}, mesh.Bounds.Min)
	assert.Equal(t, [3]float32{3, 2, 0}, mesh.Bounds.Max)

	box := mesh.Bounds.Box()
	assert.Equal(t, float32(2), box.X.Center)
	assert.Equal(t, float32(2), box.X.Size)
	assert.Equal(t, float32(1.5), box.Y.Center)
	assert.Equal(t, float32(0), box.Z.Size)
}

func TestDecodeOBJFlatNormals(t *testing.T) {
	src := `v 0 0 0
v 1 0 0
v 0 1 0
v 0 0 1
vt 0 0
vt 1 0
vt 0.5 1
f 1 2 3
f 1/1 4/2 2/3
`
	mesh, err := DecodeOBJ(strings.NewReader(src))
	require.NoError(t, err)

	// Faces without normals get their own vertices.
	assert.Len(t, mesh.Vertices, 6)
	assert.Len(t, mesh.Indices, 6)
	assert.InDeltaSlice(t, []float32{0, 0, 1}, mesh.Vertices[0].Normal[:], 1e-6)
	assert.InDeltaSlice(t, []float32{0, 1, 0}, mesh.Vertices[3].Normal[:], 1e-6)
	// Flat-shaded corners keep their texture coordinates.
	assert.Equal(t, [2]float32{0.5, 1}, mesh.Vertices[5].UV)
}

func TestDecodeOBJTexCoords(t *testing.T) {
	src := `v 0 0 0
v 1 0 0
v 1 1 0
vt 0 0
vt 1 0 0
vt 1 1
vt 0.25
vn 0 0 1
f 1/1/1 2/2/1 3/3/1
f 1/4/1 2/2/1 3/-2/1
`
	mesh, err := DecodeOBJ(strings.NewReader(src))
	require.NoError(t, err)

	// Corner 1 appears with two texture coordinates, so it is not shared.
	assert.Len(t, mesh.Vertices, 4)
	assert.Equal(t, []uint32{0, 1, 2, 3, 1, 2}, mesh.Indices)
	assert.Equal(t, [2]float32{1, 1}, mesh.Vertices[2].UV)
	assert.Equal(t, [2]float32{0.25, 0}, mesh.Vertices[3].UV)
	assert.Equal(t, mesh.Vertices[0].Position, mesh.Vertices[3].Position)
}

func TestDecodeOBJGroups(t *testing.T) {
	src := `mtllib crate.mtl extra.mtl
v 0 0 0
v 1 0 0
v 1 1 0
v 0 1 0
v 2 0 0
f 1 2 3
usemtl wood
f 1 3 4
f 2 5 3
usemtl metal
usemtl wood
f 1 2 4
usemtl metal
f 1 2 2
`
	mesh, err := DecodeOBJ(strings.NewReader(src))
	require.NoError(t, err)

	assert.Equal(t, []string{"crate.mtl", "extra.mtl"}, mesh.MaterialLibs)
	// usemtl without faces opens nothing; the degenerate metal face leaves
	// its group empty and it is dropped.
	assert.Equal(t, []Group{
		{Material: "", Start: 0, Count: 3},
		{Material: "wood", Start: 3, Count: 9},
	}, mesh.Groups)

	total := 0
	for _, g := range mesh.Groups {
		total += g.Count
	}
	assert.Equal(t, len(mesh.Indices), total)
}

func TestDecodeOBJNegativeIndices(t *testing.T) {
	src := `v 0 0 0
v 1 0 0
v 0 1 0
vn 0 0 1
f -3//-1 -2//-1 -1//-1
`
	mesh, err := DecodeOBJ(strings.NewReader(src))
	require.NoError(t, err)
	assert.Equal(t, [3]float32{1, 0, 0}, mesh.Vertices[1].Position)
}

func TestDecodeOBJSkipsDegenerate(t *testing.T) {
	src := `v 0 0 0
v 1 0 0
v 2 0 0
v 0 1 0
f 1 2 3
f 1 2 4
`
	mesh, err := DecodeOBJ(strings.NewReader(src))
	require.NoError(t, err)
	assert.Len(t, mesh.Indices, 3)
}

func TestDecodeOBJErrors(t *testing.T) {
	tests := []struct {
		name    string
		src     string
		wantErr error
	}{
		{"no faces", "v 0 0 0\nv 1 0 0\n", ErrNoFaces},
		{"only degenerate faces", "v 0 0 0\nv 1 0 0\nv 2 0 0\nf 1 2 3\n", ErrNoFaces},
		{"short vertex", "v 0 0\n", ErrSyntax},
		{"bad float", "v 0 x 0\n", ErrSyntax},
		{"two vertex face", "v 0 0 0\nv 1 0 0\nf 1 2\n", ErrSyntax},
		{"index past end", "v 0 0 0\nv 1 0 0\nv 0 1 0\nf 1 2 4\n", ErrBadIndex},
		{"zero index", "v 0 0 0\nv 1 0 0\nv 0 1 0\nf 0 1 2\n", ErrBadIndex},
		{"bad normal index", "v 0 0 0\nv 1 0 0\nv 0 1 0\nf 1//1 2//1 3//1\n", ErrBadIndex},
		{"bad index text", "v 0 0 0\nv 1 0 0\nv 0 1 0\nf a b c\n", ErrSyntax},
		{"texcoord index past end", "v 0 0 0\nv 1 0 0\nv 0 1 0\nvt 0 0\nf 1/1 2/2 3/1\n", ErrBadIndex},
		{"empty texcoord", "vt\n", ErrSyntax},
		{"mtllib without file", "mtllib\n", ErrSyntax},
		{"usemtl without name", "usemtl\n", ErrSyntax},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mesh, err := DecodeOBJ(strings.NewReader(tt.src))
			assert.Nil(t, mesh)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestDecodeOBJReportsLine(t *testing.T) {
	_, err := DecodeOBJ(strings.NewReader("v 0 0 0\n\n# c\nv 1 y 0\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "line 4")
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "quad.obj")
	require.NoError(t, os.WriteFile(path, []byte(quadOBJ), 0644))

	mesh, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "quad.obj", mesh.Name)
	assert.Len(t, mesh.Interleaved(), 4*VertexStride)

	_, err = Load(filepath.Join(dir, "missing.obj"))
	assert.Error(t, err)

	_, err = Load(filepath.Join(dir, "model.fbx"))
	assert.ErrorIs(t, err, ErrUnsupported)
}

func TestInterleaved(t *testing.T) {
	m := &Mesh{Vertices: []Vertex{
		{Position: [3]float32{1, 2, 3}, Normal: [3]float32{0, 1, 0}, UV: [2]float32{0.5, 0.25}},
	}}
	assert.Equal(t, []float32{1, 2, 3, 0, 1, 0, 0.5, 0.25}, m.Interleaved())
}
