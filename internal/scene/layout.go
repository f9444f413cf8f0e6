package scene

import (
	"errors"
	"fmt"

	"github.com/Faultbox/sceneview/pkg/math"
)

const (
	// CanonicalSize is the edge length every model's biggest dimension is
	// scaled to.
	CanonicalSize = 2.0

	// Margin is the gap left between neighbouring models along X, in
	// canonical units.
	Margin = 0.25
)

// ErrDegenerateBounds is returned for a box whose biggest dimension is not a
// positive finite number.
var ErrDegenerateBounds = errors.New("degenerate bounding box")

// PlacementError reports the model that could not be laid out.
type PlacementError struct {
	Index int
	Box   BoundingBox
	Err   error
}

func (e *PlacementError) Error() string {
	return fmt.Sprintf("placing model %d (size %v): %v", e.Index, e.Box.Size(), e.Err)
}

func (e *PlacementError) Unwrap() error { return e.Err }

// Placement is everything needed to put one model in the world.
type Placement struct {
	Scale    float32   // Maps the biggest dimension to CanonicalSize
	Offset   math.Vec3 // Moves the box center to the origin, applied before Scale
	Delta    float32   // World-space X position of the model center
	Rotation math.Vec3 // Euler angles in degrees, caller controlled
}

// Layout normalizes each model to the canonical size and assigns it an X
// offset so neighbours sit exactly Margin apart:
//
//	Delta(0) = 0
//	Delta(i) = Delta(i-1) + halfWidth(i-1) + halfWidth(i) + Margin
//
// where halfWidth(k) = Scale(k) * sizeX(k) / 2.
func Layout(boxes []BoundingBox) ([]Placement, error) {
	placements := make([]Placement, len(boxes))

	var prevHalf float32
	for i, box := range boxes {
		if !box.valid() {
			return nil, &PlacementError{Index: i, Box: box, Err: ErrDegenerateBounds}
		}

		p := Placement{
			Scale:  CanonicalSize / box.BiggestDimension(),
			Offset: box.Center().Negate(),
		}
		half := p.Scale * box.X.Size / 2
		if i > 0 {
			p.Delta = placements[i-1].Delta + prevHalf + half + Margin
		}

		placements[i] = p
		prevHalf = half
	}
	return placements, nil
}

// HalfWidth returns half of the model's scaled X extent.
func (p Placement) HalfWidth(box BoundingBox) float32 {
	return p.Scale * box.X.Size / 2
}

// Extent returns the world-space X interval the unrotated model occupies.
func (p Placement) Extent(box BoundingBox) (left, right float32) {
	h := p.HalfWidth(box)
	return p.Delta - h, p.Delta + h
}
