package renderer

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"

	"github.com/Faultbox/sceneview/internal/scene"
)

func project(m mgl32.Mat4, p mgl32.Vec3) mgl32.Vec3 {
	v := m.Mul4x1(p.Vec4(1))
	return v.Vec3().Mul(1 / v.W())
}

func TestProjectionMatrixPerspective(t *testing.T) {
	p := scene.Projection{Mode: scene.Perspective, FovY: 90, Aspect: 2, Near: 1, Far: 10}
	m := ProjectionMatrix(p)

	// Near plane maps to -1, far plane to +1 in NDC.
	assert.InDelta(t, -1, project(m, mgl32.Vec3{0, 0, -1}).Z(), 1e-5)
	assert.InDelta(t, 1, project(m, mgl32.Vec3{0, 0, -10}).Z(), 1e-4)

	// With a 90° fov the top edge at distance 1 is y=1; x spans twice that.
	top := project(m, mgl32.Vec3{0, 1, -1})
	assert.InDelta(t, 1, top.Y(), 1e-5)
	right := project(m, mgl32.Vec3{2, 0, -1})
	assert.InDelta(t, 1, right.X(), 1e-5)
}

func TestProjectionMatrixOrthographic(t *testing.T) {
	p := scene.Projection{Mode: scene.Orthographic, HalfHeight: 3, Aspect: 2, Near: 0.1, Far: 100}
	m := ProjectionMatrix(p)

	// No perspective divide: distance does not change x or y.
	near := project(m, mgl32.Vec3{6, 3, -1})
	far := project(m, mgl32.Vec3{6, 3, -50})
	assert.InDelta(t, 1, near.X(), 1e-5)
	assert.InDelta(t, 1, near.Y(), 1e-5)
	assert.InDelta(t, near.X(), far.X(), 1e-5)
}

func TestProjectionMatrixZeroAspect(t *testing.T) {
	p := scene.DefaultOptions().Projection
	p.Aspect = 0
	m := ProjectionMatrix(p)
	assert.False(t, m.ApproxEqual(mgl32.Mat4{}))
	assert.InDelta(t, m.At(0, 0), m.At(1, 1), 1e-6)
}
