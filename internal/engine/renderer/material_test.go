package renderer

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Faultbox/sceneview/internal/engine/model"
	"github.com/Faultbox/sceneview/internal/engine/shader"
	"github.com/Faultbox/sceneview/pkg/math"
)

func fakeTextures(t *testing.T) func(string) uint32 {
	t.Helper()
	names := map[string]uint32{"wood.png": 7, "wood_spec.tga": 8}
	return func(path string) uint32 { return names[path] }
}

func TestSurfaceFallback(t *testing.T) {
	got := surface(nil, paletteColor(1), 32, fakeTextures(t))
	assert.Equal(t, shader.Material{
		DiffuseColor:  palette[1],
		SpecularColor: palette[1],
		Shininess:     32,
	}, got)
}

func TestSurfaceFromMaterial(t *testing.T) {
	m := &model.Material{
		Diffuse:     [3]float32{0.6, 0.4, 0.2},
		Specular:    [3]float32{0.5, 0.5, 0.5},
		Shininess:   64,
		DiffuseMap:  "wood.png",
		SpecularMap: "wood_spec.tga",
	}
	got := surface(m, paletteColor(0), 32, fakeTextures(t))
	assert.Equal(t, shader.Material{
		DiffuseColor:  math.V3(0.6, 0.4, 0.2),
		SpecularColor: math.V3(0.5, 0.5, 0.5),
		DiffuseMap:    7,
		SpecularMap:   8,
		Shininess:     64,
	}, got)
}

func TestSurfaceMissingMapsKeepColors(t *testing.T) {
	// A map that failed to load resolves to 0 and the MTL colors remain.
	m := &model.Material{Diffuse: [3]float32{1, 0, 0}, DiffuseMap: "missing.png"}
	got := surface(m, paletteColor(0), 16, fakeTextures(t))
	assert.Equal(t, uint32(0), got.DiffuseMap)
	assert.Equal(t, uint32(0), got.SpecularMap)
	assert.Equal(t, math.V3(1, 0, 0), got.DiffuseColor)
	assert.Equal(t, float32(16), got.Shininess)
}

func TestPaletteWraps(t *testing.T) {
	assert.Equal(t, paletteColor(0), paletteColor(len(palette)))
}

func TestMeshGroups(t *testing.T) {
	plain := &model.Mesh{Indices: make([]uint32, 9)}
	assert.Equal(t, []model.Group{{Start: 0, Count: 9}}, meshGroups(plain))

	grouped := &model.Mesh{
		Indices: make([]uint32, 9),
		Groups:  []model.Group{{Material: "a", Start: 0, Count: 3}, {Material: "b", Start: 3, Count: 6}},
	}
	assert.Equal(t, grouped.Groups, meshGroups(grouped))
}
