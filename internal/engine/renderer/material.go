package renderer

import (
	"github.com/Faultbox/sceneview/internal/engine/model"
	"github.com/Faultbox/sceneview/internal/engine/shader"
	"github.com/Faultbox/sceneview/pkg/math"
)

// palette tints successive models that have no material so neighbours are
// easy to tell apart.
var palette = []math.Vec3{
	{X: 1.0, Y: 0.5, Z: 0.31},
	{X: 0.4, Y: 0.7, Z: 1.0},
	{X: 0.6, Y: 0.9, Z: 0.4},
	{X: 0.9, Y: 0.8, Z: 0.3},
	{X: 0.8, Y: 0.5, Z: 0.9},
}

func paletteColor(i int) math.Vec3 {
	return palette[i%len(palette)]
}

// surface builds the shader material for one mesh group. Without an MTL
// material the group is drawn in the fallback color; texture resolves map
// paths to GL names, 0 when a map is absent or failed to load.
func surface(m *model.Material, fallback math.Vec3, shininess float32, texture func(path string) uint32) shader.Material {
	if m == nil {
		return shader.Material{
			DiffuseColor:  fallback,
			SpecularColor: fallback,
			Shininess:     shininess,
		}
	}

	out := shader.Material{
		DiffuseColor:  math.V3(m.Diffuse[0], m.Diffuse[1], m.Diffuse[2]),
		SpecularColor: math.V3(m.Specular[0], m.Specular[1], m.Specular[2]),
		DiffuseMap:    texture(m.DiffuseMap),
		SpecularMap:   texture(m.SpecularMap),
		Shininess:     shininess,
	}
	if m.Shininess > 0 {
		out.Shininess = m.Shininess
	}
	return out
}
