package scene

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Faultbox/sceneview/pkg/math"
)

func assertVec(t *testing.T, want, got math.Vec3) {
	t.Helper()
	assert.InDelta(t, want.X, got.X, 1e-5)
	assert.InDelta(t, want.Y, got.Y, 1e-5)
	assert.InDelta(t, want.Z, got.Z, 1e-5)
}

func TestModelMatrixMapsCenterToSlot(t *testing.T) {
	p := Placement{
		Scale:  0.5,
		Offset: math.V3(-1, 0, 0),
		Delta:  3,
	}
	got := ModelMatrix(p).TransformVec3(math.V3(1, 0, 0))
	assertVec(t, math.V3(3, 0, 0), got)
}

func TestModelMatrixCentersBeforeScaling(t *testing.T) {
	b := box(math.V3(10, 20, 30), math.V3(4, 2, 2))
	placements, err := Layout([]BoundingBox{b})
	if err != nil {
		t.Fatal(err)
	}
	m := ModelMatrix(placements[0])

	assertVec(t, math.Vec3{}, m.TransformVec3(b.Center()))
	// The far corner lands on the canonical half-size along X.
	corner := b.Corners()[7]
	assertVec(t, math.V3(1, 0.5, 0.5), m.TransformVec3(corner))
}

func TestModelMatrixRotatesAboutCenter(t *testing.T) {
	p := Placement{
		Scale:    1,
		Offset:   math.V3(-5, -5, -5),
		Delta:    2,
		Rotation: math.V3(0, 90, 0),
	}
	m := ModelMatrix(p)

	// The center is a fixed point of the rotation.
	assertVec(t, math.V3(2, 0, 0), m.TransformVec3(math.V3(5, 5, 5)))
	// One unit along +X from the center rotates to -Z.
	assertVec(t, math.V3(2, 0, -1), m.TransformVec3(math.V3(6, 5, 5)))
}

func TestModelMatrixRotationOrder(t *testing.T) {
	// X is applied last (outermost), Z first.
	p := Placement{Scale: 1, Rotation: math.V3(90, 0, 90)}
	got := ModelMatrix(p).TransformVec3(math.V3(1, 0, 0))
	// Rz(90): (1,0,0) -> (0,1,0); Rx(90): (0,1,0) -> (0,0,1)
	assertVec(t, math.V3(0, 0, 1), got)
}

func TestModelMatrixIsNotTransposed(t *testing.T) {
	m := ModelMatrix(Placement{Scale: 1, Delta: 7})
	// Row-major: translation in the last column.
	assert.Equal(t, float32(7), m.At(0, 3))
	assert.Equal(t, float32(0), m.At(3, 0))
	// GL storage puts it at index 12.
	assert.Equal(t, float32(7), m.GL()[12])
}
