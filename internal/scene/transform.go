package scene

import "github.com/Faultbox/sceneview/pkg/math"

// ModelMatrix composes the model-to-world transform, row-major:
//
//	T(Delta, 0, 0) · Rx · Ry · Rz · S(Scale) · T(Offset)
//
// Read right to left: the box center goes to the origin, the model is
// normalized and rotated about its own center, then moved into its slot.
// The result is not transposed; that happens once at handoff (Mat4.GL).
func ModelMatrix(p Placement) math.Mat4 {
	return math.Translate(p.Delta, 0, 0).
		Mul(math.RotateX(math.Radians(p.Rotation.X))).
		Mul(math.RotateY(math.Radians(p.Rotation.Y))).
		Mul(math.RotateZ(math.Radians(p.Rotation.Z))).
		Mul(math.UniformScale(p.Scale)).
		Mul(math.TranslateVec3(p.Offset))
}
