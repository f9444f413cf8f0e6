// Package debug provides debug overlays and frame capture.
package debug

import "github.com/Faultbox/sceneview/internal/scene"

// BoxLineVertexCount is the number of vertices in a box wireframe (12 edges × 2).
const BoxLineVertexCount = 24

// BoxLines returns the wireframe of a bounding box in the model's own space
// as GL_LINES vertices, [x, y, z] per vertex. padding grows the box on every
// side so the lines do not z-fight with the mesh.
func BoxLines(b scene.BoundingBox, padding float32) []float32 {
	c, s := b.Center(), b.Size()
	hx, hy, hz := s.X/2+padding, s.Y/2+padding, s.Z/2+padding
	return wireframe(c.X-hx, c.Y-hy, c.Z-hz, c.X+hx, c.Y+hy, c.Z+hz)
}

func wireframe(minX, minY, minZ, maxX, maxY, maxZ float32) []float32 {
	return []float32{
		// Bottom face
		minX, minY, minZ, maxX, minY, minZ,
		maxX, minY, minZ, maxX, minY, maxZ,
		maxX, minY, maxZ, minX, minY, maxZ,
		minX, minY, maxZ, minX, minY, minZ,
		// Top face
		minX, maxY, minZ, maxX, maxY, minZ,
		maxX, maxY, minZ, maxX, maxY, maxZ,
		maxX, maxY, maxZ, minX, maxY, maxZ,
		minX, maxY, maxZ, minX, maxY, minZ,
		// Vertical edges
		minX, minY, minZ, minX, maxY, minZ,
		maxX, minY, minZ, maxX, maxY, minZ,
		maxX, minY, maxZ, maxX, maxY, maxZ,
		minX, minY, maxZ, minX, maxY, maxZ,
	}
}
