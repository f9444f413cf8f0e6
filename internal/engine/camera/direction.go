package camera

import (
	"fmt"
	"strings"
)

// Direction is a symbolic movement input, independent of the windowing
// system's key codes.
type Direction int

const (
	Forward Direction = iota
	Backward
	Left
	Right
	Up
	Down
)

type axis int

const (
	axisFront axis = iota
	axisRight
	axisUp
)

type movement struct {
	axis axis
	sign float32
}

// movements maps each direction to the basis vector it travels along.
var movements = map[Direction]movement{
	Forward:  {axisFront, 1},
	Backward: {axisFront, -1},
	Left:     {axisRight, -1},
	Right:    {axisRight, 1},
	Up:       {axisUp, 1},
	Down:     {axisUp, -1},
}

var directionNames = [...]string{
	Forward:  "forward",
	Backward: "backward",
	Left:     "left",
	Right:    "right",
	Up:       "up",
	Down:     "down",
}

// String returns the lowercase name of the direction.
func (d Direction) String() string {
	if d < 0 || int(d) >= len(directionNames) {
		return fmt.Sprintf("Direction(%d)", int(d))
	}
	return directionNames[d]
}

// ParseDirection converts a name produced by String back to a Direction.
func ParseDirection(s string) (Direction, error) {
	for i, name := range directionNames {
		if strings.EqualFold(s, name) {
			return Direction(i), nil
		}
	}
	return 0, fmt.Errorf("camera: unknown direction %q", s)
}
