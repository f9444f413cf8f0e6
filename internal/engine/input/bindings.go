package input

import (
	"github.com/veandco/go-sdl2/sdl"

	"github.com/Faultbox/sceneview/internal/engine/camera"
	"github.com/Faultbox/sceneview/internal/scene"
)

// KeyState reports which keys are currently held.
type KeyState interface {
	Down(sdl.Scancode) bool
	Shift() bool
}

type sdlKeys struct {
	state []uint8
}

func (k sdlKeys) Down(sc sdl.Scancode) bool {
	return int(sc) < len(k.state) && k.state[sc] != 0
}

func (k sdlKeys) Shift() bool {
	return sdl.GetModState()&sdl.KMOD_SHIFT != 0
}

// binding maps a held key to a camera direction. Shifted bindings are tried
// first so Shift+W flies up instead of forward.
type binding struct {
	key   sdl.Scancode
	shift bool
	dir   camera.Direction
	mask  uint32 // one bit per distinct key, set by init
}

var bindings = []binding{
	{key: sdl.SCANCODE_W, shift: true, dir: camera.Up},
	{key: sdl.SCANCODE_S, shift: true, dir: camera.Down},
	{key: sdl.SCANCODE_W, dir: camera.Forward},
	{key: sdl.SCANCODE_S, dir: camera.Backward},
	{key: sdl.SCANCODE_A, dir: camera.Left},
	{key: sdl.SCANCODE_D, dir: camera.Right},
}

func init() {
	bits := make(map[sdl.Scancode]uint32)
	for i := range bindings {
		k := bindings[i].key
		if _, ok := bits[k]; !ok {
			bits[k] = 1 << len(bits)
		}
		bindings[i].mask = bits[k]
	}
}

// Toggle keys, edge triggered.
const (
	KeyShading    = sdl.SCANCODE_L
	KeyProjection = sdl.SCANCODE_P
	KeyBounds     = sdl.SCANCODE_B
	KeyScreenshot = sdl.SCANCODE_F12
)

// Directions appends the camera directions for the held keys to dst. Each
// key yields at most one direction. It does not allocate when dst has room.
func Directions(keys KeyState, dst []camera.Direction) []camera.Direction {
	shift := keys.Shift()
	var matched uint32
	for _, b := range bindings {
		if matched&b.mask != 0 || !keys.Down(b.key) {
			continue
		}
		if b.shift && !shift {
			continue
		}
		matched |= b.mask
		dst = append(dst, b.dir)
	}
	return dst
}

// Frame collects one frame of camera input from the held keys and the
// events of the last Update. Screen y grows downward, so the vertical
// cursor offset is reversed.
func (i *Input) Frame(deltaTime float32) scene.Input {
	return collect(i.keys, i.events, deltaTime)
}

func collect(keys KeyState, events []Event, deltaTime float32) scene.Input {
	in := scene.Input{DeltaTime: deltaTime}
	if keys != nil {
		in.Moves = Directions(keys, nil)
	}

	for _, e := range events {
		switch e.Type {
		case EventMouseMove:
			in.MouseDX += float32(e.XRel)
			in.MouseDY -= float32(e.YRel)
		case EventMouseWheel:
			in.Scroll += e.Wheel
		case EventKeyDown:
			switch e.Key {
			case KeyShading:
				in.ToggleShading = !in.ToggleShading
			case KeyProjection:
				in.ToggleProjection = !in.ToggleProjection
			}
		}
	}
	return in
}
