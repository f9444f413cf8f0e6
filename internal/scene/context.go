package scene

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/Faultbox/sceneview/internal/engine/camera"
	"github.com/Faultbox/sceneview/internal/engine/lighting"
	"github.com/Faultbox/sceneview/internal/logger"
	"github.com/Faultbox/sceneview/internal/sceneio"
	"github.com/Faultbox/sceneview/pkg/math"
)

// Shading selects which lighting program draws the models.
type Shading int

const (
	Phong   Shading = iota // per-fragment
	Gouraud                // per-vertex
)

func (s Shading) String() string {
	if s == Gouraud {
		return "gouraud"
	}
	return "phong"
}

// ProjectionMode selects the projection the renderer builds.
type ProjectionMode int

const (
	Perspective ProjectionMode = iota
	Orthographic
)

func (m ProjectionMode) String() string {
	if m == Orthographic {
		return "orthographic"
	}
	return "perspective"
}

// Projection holds the parameters the renderer's projection builder needs.
type Projection struct {
	Mode       ProjectionMode
	FovY       float32 // degrees, perspective only
	Aspect     float32 // width / height
	Near       float32
	Far        float32
	HalfHeight float32 // orthographic only
}

// Options configures Build.
type Options struct {
	MovementSpeed    float32
	MouseSensitivity float32
	ConstrainPitch   bool
	Projection       Projection
	Shading          Shading
}

// DefaultOptions returns the viewer defaults.
func DefaultOptions() Options {
	return Options{
		MovementSpeed:    camera.DefaultSpeed,
		MouseSensitivity: camera.DefaultSensitivity,
		ConstrainPitch:   true,
		Projection: Projection{
			Mode:       Perspective,
			FovY:       camera.DefaultZoom,
			Aspect:     16.0 / 9.0,
			Near:       0.1,
			Far:        100,
			HalfHeight: 3,
		},
		Shading: Phong,
	}
}

// Input is everything the user did during one frame.
type Input struct {
	DeltaTime        float32
	Moves            []camera.Direction
	MouseDX, MouseDY float32 // MouseDY positive is up
	Scroll           float32
	ToggleShading    bool
	ToggleProjection bool
}

// FrameData is the per-frame handoff to the renderer. Matrices are already
// in OpenGL storage order.
type FrameData struct {
	View       math.GLMat4
	Models     []math.GLMat4
	ViewPos    math.Vec3
	Projection Projection
	Shading    Shading
	Lights     []lighting.PointLight
	Markers    []lighting.MarkerVertex

	// MarkerBuffer is Markers interleaved as x y z r g b.
	MarkerBuffer []float32
}

// Context owns the mutable state of one viewer session.
type Context struct {
	camera     *camera.Camera
	lights     *lighting.Registry
	boxes      []BoundingBox
	placements []Placement

	projection     Projection
	shading        Shading
	constrainPitch bool
}

// Build creates a Context from a parsed scene description and the bounding
// boxes of the models, in draw order. Any missing record, light overflow,
// degenerate camera or degenerate box aborts construction.
func Build(desc *sceneio.Description, boxes []BoundingBox, opts Options) (*Context, error) {
	if desc == nil || desc.Camera == nil {
		return nil, &sceneio.ConfigError{Err: sceneio.ErrMissingCamera}
	}
	if len(desc.Lights) == 0 {
		return nil, &sceneio.ConfigError{Err: sceneio.ErrMissingLights}
	}

	rec := desc.Camera
	cam, err := camera.NewLookingAt(rec.Position, rec.Up, rec.LookAt)
	if err != nil {
		return nil, &sceneio.ConfigError{Err: fmt.Errorf("line %d: %w", rec.Line, err)}
	}
	cam.MovementSpeed = opts.MovementSpeed
	cam.MouseSensitivity = opts.MouseSensitivity
	cam.Zoom = opts.Projection.FovY

	lights := lighting.NewRegistry()
	for _, l := range desc.Lights {
		if err := lights.Add(l.Position, l.Ambient, l.Constant, l.Linear, l.Quadratic); err != nil {
			return nil, fmt.Errorf("light on line %d: %w", l.Line, err)
		}
	}

	placements, err := Layout(boxes)
	if err != nil {
		return nil, err
	}

	logger.Info("scene built",
		zap.Int("models", len(placements)),
		zap.Int("lights", lights.Len()),
		zap.Float32("yaw", cam.Yaw),
		zap.Float32("pitch", cam.Pitch),
	)

	return &Context{
		camera:         cam,
		lights:         lights,
		boxes:          boxes,
		placements:     placements,
		projection:     opts.Projection,
		shading:        opts.Shading,
		constrainPitch: opts.ConstrainPitch,
	}, nil
}

// Camera returns the session camera.
func (c *Context) Camera() *camera.Camera { return c.camera }

// Lights returns the light registry.
func (c *Context) Lights() *lighting.Registry { return c.lights }

// Placements returns the per-model placement data.
func (c *Context) Placements() []Placement { return c.placements }

// Boxes returns the model bounding boxes the layout was computed from.
func (c *Context) Boxes() []BoundingBox { return c.boxes }

// Shading returns the active shading model.
func (c *Context) Shading() Shading { return c.shading }

// Projection returns the current projection parameters.
func (c *Context) Projection() Projection { return c.projection }

// ErrModelIndex is returned when addressing a model that does not exist.
var ErrModelIndex = errors.New("model index out of range")

// SetRotation sets the Euler rotation (degrees) of model i.
func (c *Context) SetRotation(i int, rotation math.Vec3) error {
	if i < 0 || i >= len(c.placements) {
		return fmt.Errorf("%w: %d", ErrModelIndex, i)
	}
	c.placements[i].Rotation = rotation
	return nil
}

// SetViewport updates the projection aspect ratio after a resize.
func (c *Context) SetViewport(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	c.projection.Aspect = float32(width) / float32(height)
}

// Apply feeds one frame of input to the camera. Call it before Frame so the
// view matrix reflects every event of the frame.
func (c *Context) Apply(in Input) {
	for _, d := range in.Moves {
		c.camera.ProcessKeyboard(d, in.DeltaTime)
	}
	if in.MouseDX != 0 || in.MouseDY != 0 {
		c.camera.ProcessMouseMovement(in.MouseDX, in.MouseDY, c.constrainPitch)
	}
	if in.Scroll != 0 {
		c.camera.ProcessMouseScroll(in.Scroll)
		c.projection.FovY = c.camera.Zoom
	}

	if in.ToggleShading {
		c.shading = 1 - c.shading
		logger.Debug("shading toggled", zap.Stringer("shading", c.shading))
	}
	if in.ToggleProjection {
		c.projection.Mode = 1 - c.projection.Mode
		logger.Debug("projection toggled", zap.Stringer("mode", c.projection.Mode))
	}
}

// Frame snapshots the state for rendering. Every matrix is transposed into
// OpenGL order exactly once, here.
func (c *Context) Frame() FrameData {
	models := make([]math.GLMat4, len(c.placements))
	for i, p := range c.placements {
		models[i] = ModelMatrix(p).GL()
	}

	return FrameData{
		View:       c.camera.GLViewMatrix(),
		Models:     models,
		ViewPos:    c.camera.Position,
		Projection: c.projection,
		Shading:    c.shading,
		Lights:     c.lights.Lights(),
		Markers:    append([]lighting.MarkerVertex(nil), c.lights.Markers()...),

		MarkerBuffer: append([]float32(nil), c.lights.MarkerBuffer()...),
	}
}
