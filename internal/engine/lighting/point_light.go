// Package lighting stores the scene's point lights and exposes them in the
// two layouts the draw paths consume.
package lighting

import (
	"errors"
	"fmt"

	"github.com/Faultbox/sceneview/pkg/math"
)

// MaxLights is the maximum number of point lights supported in shaders.
// The GLSL sources declare their uniform arrays with the same size.
const MaxLights = 32

// ErrCapacity is returned when adding a light to a full registry.
var ErrCapacity = errors.New("lighting: point light capacity reached")

// PointLight is the full light record used by the shading equations.
type PointLight struct {
	Position math.Vec3
	Ambient  math.Vec3
	Diffuse  math.Vec3
	Specular math.Vec3

	// Attenuation: 1 / (constant + linear*d + quadratic*d^2)
	Constant  float32
	Linear    float32
	Quadratic float32
}

// MarkerVertex is the compact projection of a PointLight used to draw the
// light itself as a point sprite.
type MarkerVertex struct {
	Position math.Vec3
	Color    math.Vec3
}

// MarkerStride is the number of floats per MarkerVertex in MarkerBuffer.
const MarkerStride = 6

// Registry holds up to MaxLights point lights. The marker view is derived
// from the canonical array, never written independently.
type Registry struct {
	lights [MaxLights]PointLight
	count  int

	markers      []MarkerVertex // cache, nil when stale
	markerBuffer []float32      // cache, nil when stale
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{}
}

// Add stores a light whose diffuse and specular colors equal its ambient
// color. It returns ErrCapacity, leaving the registry unchanged, when
// MaxLights lights are already stored.
func (r *Registry) Add(position, ambient math.Vec3, constant, linear, quadratic float32) error {
	if r.count >= MaxLights {
		return fmt.Errorf("adding light %d: %w", r.count+1, ErrCapacity)
	}

	r.lights[r.count] = PointLight{
		Position:  position,
		Ambient:   ambient,
		Diffuse:   ambient,
		Specular:  ambient,
		Constant:  constant,
		Linear:    linear,
		Quadratic: quadratic,
	}
	r.count++
	r.invalidate()
	return nil
}

// Len returns the number of stored lights.
func (r *Registry) Len() int {
	return r.count
}

// Reset removes all lights.
func (r *Registry) Reset() {
	r.lights = [MaxLights]PointLight{}
	r.count = 0
	r.invalidate()
}

// Lights returns a copy of the stored lights.
func (r *Registry) Lights() []PointLight {
	out := make([]PointLight, r.count)
	copy(out, r.lights[:r.count])
	return out
}

// Light returns the light at index i.
func (r *Registry) Light(i int) (PointLight, bool) {
	if i < 0 || i >= r.count {
		return PointLight{}, false
	}
	return r.lights[i], true
}

// Markers returns the compact {position, color} view, index-aligned with
// Lights. The returned slice must not be modified.
func (r *Registry) Markers() []MarkerVertex {
	if r.markers == nil {
		r.markers = make([]MarkerVertex, r.count)
		for i, l := range r.lights[:r.count] {
			r.markers[i] = MarkerVertex{Position: l.Position, Color: l.Ambient}
		}
	}
	return r.markers
}

// MarkerBuffer returns Markers interleaved for a vertex buffer.
// Format: [x0, y0, z0, r0, g0, b0, x1, ...]
func (r *Registry) MarkerBuffer() []float32 {
	if r.markerBuffer == nil {
		markers := r.Markers()
		r.markerBuffer = make([]float32, 0, len(markers)*MarkerStride)
		for _, m := range markers {
			r.markerBuffer = append(r.markerBuffer,
				m.Position.X, m.Position.Y, m.Position.Z,
				m.Color.X, m.Color.Y, m.Color.Z,
			)
		}
	}
	return r.markerBuffer
}

func (r *Registry) invalidate() {
	r.markers = nil
	r.markerBuffer = nil
}
