package renderer

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/sceneview/internal/scene"
)

// ProjectionMatrix builds the column-major projection for the current
// parameters. Orthographic mode keeps the aspect ratio of the viewport.
func ProjectionMatrix(p scene.Projection) mgl32.Mat4 {
	aspect := p.Aspect
	if aspect <= 0 {
		aspect = 1
	}

	if p.Mode == scene.Orthographic {
		h := p.HalfHeight
		w := h * aspect
		return mgl32.Ortho(-w, w, -h, h, p.Near, p.Far)
	}
	return mgl32.Perspective(mgl32.DegToRad(p.FovY), aspect, p.Near, p.Far)
}
