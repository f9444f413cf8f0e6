// Package scene lays models out side by side, composes their model
// matrices, and owns the per-session camera and lights.
package scene

import "github.com/Faultbox/sceneview/pkg/math"

// Axis is the extent of a bounding box along one axis.
type Axis struct {
	Center float32
	Size   float32
}

// BoundingBox is an axis-aligned box given as per-axis center and size, as
// reported by the model loader.
type BoundingBox struct {
	X, Y, Z Axis
}

// BoundsFromMinMax converts min/max corners to a BoundingBox.
func BoundsFromMinMax(min, max math.Vec3) BoundingBox {
	axis := func(lo, hi float32) Axis {
		return Axis{Center: (lo + hi) / 2, Size: hi - lo}
	}
	return BoundingBox{
		X: axis(min.X, max.X),
		Y: axis(min.Y, max.Y),
		Z: axis(min.Z, max.Z),
	}
}

// BiggestDimension returns the largest of the three sizes.
func (b BoundingBox) BiggestDimension() float32 {
	return max(b.X.Size, b.Y.Size, b.Z.Size)
}

// Center returns the box center.
func (b BoundingBox) Center() math.Vec3 {
	return math.V3(b.X.Center, b.Y.Center, b.Z.Center)
}

// Size returns the per-axis sizes.
func (b BoundingBox) Size() math.Vec3 {
	return math.V3(b.X.Size, b.Y.Size, b.Z.Size)
}

// valid reports whether the box can be normalized: finite, no negative size,
// and a positive biggest dimension.
func (b BoundingBox) valid() bool {
	size := b.Size()
	if !size.IsFinite() || !b.Center().IsFinite() {
		return false
	}
	if size.X < 0 || size.Y < 0 || size.Z < 0 {
		return false
	}
	return b.BiggestDimension() > 0
}

// Corners returns the eight corners of the box.
func (b BoundingBox) Corners() [8]math.Vec3 {
	c, h := b.Center(), b.Size().Scale(0.5)
	var out [8]math.Vec3
	for i := range out {
		sx, sy, sz := float32(-1), float32(-1), float32(-1)
		if i&1 != 0 {
			sx = 1
		}
		if i&2 != 0 {
			sy = 1
		}
		if i&4 != 0 {
			sz = 1
		}
		out[i] = math.V3(c.X+sx*h.X, c.Y+sy*h.Y, c.Z+sz*h.Z)
	}
	return out
}
