// Package renderer draws the scene with OpenGL: lit meshes, light markers
// and an optional bounding-box overlay.
package renderer

import (
	"fmt"
	"unsafe"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"

	"github.com/Faultbox/sceneview/internal/engine/debug"
	"github.com/Faultbox/sceneview/internal/engine/lighting"
	"github.com/Faultbox/sceneview/internal/engine/model"
	"github.com/Faultbox/sceneview/internal/engine/shader"
	"github.com/Faultbox/sceneview/internal/engine/texture"
	"github.com/Faultbox/sceneview/internal/logger"
	"github.com/Faultbox/sceneview/internal/scene"
	"github.com/Faultbox/sceneview/pkg/math"
)

// Config holds renderer configuration.
type Config struct {
	Width      int
	Height     int
	Background [3]float32
	PointSize  float32
	Shininess  float32
}

var boundsColor = math.V3(1, 1, 0)

type gpuMesh struct {
	vao, vbo, ebo uint32
	groups        []gpuGroup
}

// gpuGroup is a range of the element buffer drawn with one material.
type gpuGroup struct {
	offset   uintptr // bytes into the element buffer
	count    int32
	material shader.Material
}

type lineSet struct {
	vao, vbo uint32
}

// Renderer handles all OpenGL rendering.
type Renderer struct {
	config Config
	log    *zap.Logger

	phong   *shader.Program
	gouraud *shader.Program
	marker  *shader.Program
	line    *shader.Program

	meshes   []gpuMesh
	boxes    []lineSet
	textures *texture.Cache

	markerVAO   uint32
	markerVBO   uint32
	markerCount int32

	ShowBounds bool
}

// New creates a renderer and uploads the meshes and their bounding boxes,
// both in draw order.
// IMPORTANT: Must be called AFTER OpenGL context is created!
func New(cfg Config, meshes []*model.Mesh, boxes []scene.BoundingBox) (*Renderer, error) {
	if len(meshes) != len(boxes) {
		return nil, fmt.Errorf("renderer: %d meshes but %d bounding boxes", len(meshes), len(boxes))
	}

	r := &Renderer{
		config:   cfg,
		log:      logger.Named("renderer"),
		textures: texture.NewCache(),
	}

	if err := gl.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize OpenGL: %w", err)
	}

	r.log.Info("OpenGL initialized",
		zap.String("version", gl.GoStr(gl.GetString(gl.VERSION))),
		zap.String("renderer", gl.GoStr(gl.GetString(gl.RENDERER))),
	)

	gl.Enable(gl.DEPTH_TEST)
	gl.DepthFunc(gl.LESS)
	gl.Enable(gl.PROGRAM_POINT_SIZE)
	bg := cfg.Background
	gl.ClearColor(bg[0], bg[1], bg[2], 1.0)

	if err := r.loadPrograms(); err != nil {
		r.Close()
		return nil, err
	}

	for i, m := range meshes {
		g := uploadMesh(m)
		for _, grp := range meshGroups(m) {
			g.groups = append(g.groups, gpuGroup{
				offset:   uintptr(grp.Start * 4),
				count:    int32(grp.Count),
				material: surface(m.GroupMaterial(grp), paletteColor(i), cfg.Shininess, r.textures.Get),
			})
		}
		r.meshes = append(r.meshes, g)
		r.boxes = append(r.boxes, uploadLines(debug.BoxLines(boxes[i], 0.01)))
	}

	gl.GenVertexArrays(1, &r.markerVAO)
	gl.GenBuffers(1, &r.markerVBO)
	gl.BindVertexArray(r.markerVAO)
	gl.BindBuffer(gl.ARRAY_BUFFER, r.markerVBO)
	stride := int32(lighting.MarkerStride * 4)
	gl.VertexAttribPointerWithOffset(0, 3, gl.FLOAT, false, stride, 0)
	gl.EnableVertexAttribArray(0)
	gl.VertexAttribPointerWithOffset(1, 3, gl.FLOAT, false, stride, 3*4)
	gl.EnableVertexAttribArray(1)
	gl.BindVertexArray(0)

	r.Resize(cfg.Width, cfg.Height)
	r.log.Debug("scene uploaded",
		zap.Int("meshes", len(r.meshes)),
		zap.Int("textures", r.textures.Len()),
	)
	return r, nil
}

func (r *Renderer) loadPrograms() error {
	var err error
	for _, p := range []struct {
		dst  **shader.Program
		name string
	}{
		{&r.phong, shader.Phong},
		{&r.gouraud, shader.Gouraud},
		{&r.marker, shader.Marker},
		{&r.line, shader.Line},
	} {
		if *p.dst, err = shader.Load(p.name); err != nil {
			return fmt.Errorf("failed to create shader program: %w", err)
		}
	}
	return nil
}

// meshGroups returns the material groups of m, or one group spanning every
// index for meshes built without any.
func meshGroups(m *model.Mesh) []model.Group {
	if len(m.Groups) > 0 {
		return m.Groups
	}
	return []model.Group{{Start: 0, Count: len(m.Indices)}}
}

func uploadMesh(m *model.Mesh) gpuMesh {
	var g gpuMesh
	vertices := m.Interleaved()

	gl.GenVertexArrays(1, &g.vao)
	gl.BindVertexArray(g.vao)

	gl.GenBuffers(1, &g.vbo)
	gl.BindBuffer(gl.ARRAY_BUFFER, g.vbo)
	gl.BufferData(gl.ARRAY_BUFFER, len(vertices)*4, unsafe.Pointer(&vertices[0]), gl.STATIC_DRAW)

	gl.GenBuffers(1, &g.ebo)
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, g.ebo)
	gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, len(m.Indices)*4, unsafe.Pointer(&m.Indices[0]), gl.STATIC_DRAW)

	stride := int32(model.VertexStride * 4)
	// Position (location = 0)
	gl.VertexAttribPointerWithOffset(0, 3, gl.FLOAT, false, stride, 0)
	gl.EnableVertexAttribArray(0)
	// Normal (location = 1)
	gl.VertexAttribPointerWithOffset(1, 3, gl.FLOAT, false, stride, 3*4)
	gl.EnableVertexAttribArray(1)
	// TexCoord (location = 2)
	gl.VertexAttribPointerWithOffset(2, 2, gl.FLOAT, false, stride, 6*4)
	gl.EnableVertexAttribArray(2)

	gl.BindVertexArray(0)
	return g
}

func uploadLines(vertices []float32) lineSet {
	var l lineSet
	gl.GenVertexArrays(1, &l.vao)
	gl.BindVertexArray(l.vao)
	gl.GenBuffers(1, &l.vbo)
	gl.BindBuffer(gl.ARRAY_BUFFER, l.vbo)
	gl.BufferData(gl.ARRAY_BUFFER, len(vertices)*4, unsafe.Pointer(&vertices[0]), gl.STATIC_DRAW)
	gl.VertexAttribPointerWithOffset(0, 3, gl.FLOAT, false, 3*4, 0)
	gl.EnableVertexAttribArray(0)
	gl.BindVertexArray(0)
	return l
}

// Close cleans up renderer resources.
func (r *Renderer) Close() {
	r.log.Info("closing renderer")
	for _, m := range r.meshes {
		gl.DeleteVertexArrays(1, &m.vao)
		gl.DeleteBuffers(1, &m.vbo)
		gl.DeleteBuffers(1, &m.ebo)
	}
	for _, l := range r.boxes {
		gl.DeleteVertexArrays(1, &l.vao)
		gl.DeleteBuffers(1, &l.vbo)
	}
	r.meshes, r.boxes = nil, nil
	r.textures.Close()

	if r.markerVAO != 0 {
		gl.DeleteVertexArrays(1, &r.markerVAO)
		gl.DeleteBuffers(1, &r.markerVBO)
		r.markerVAO, r.markerVBO = 0, 0
	}
	for _, p := range []*shader.Program{r.phong, r.gouraud, r.marker, r.line} {
		if p != nil {
			p.Delete()
		}
	}
}

// Resize handles framebuffer resize.
func (r *Renderer) Resize(width, height int) {
	r.config.Width = width
	r.config.Height = height
	gl.Viewport(0, 0, int32(width), int32(height))
	r.log.Debug("renderer resized",
		zap.Int("width", width),
		zap.Int("height", height),
	)
}

// Draw renders one frame. Matrices in frame are already in GL order.
func (r *Renderer) Draw(frame scene.FrameData) {
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)

	projection := ProjectionMatrix(frame.Projection)

	lit := r.phong
	if frame.Shading == scene.Gouraud {
		lit = r.gouraud
	}
	lit.Use()
	lit.SetMat4("view", frame.View)
	lit.SetMat4Slice("projection", (*[16]float32)(&projection))
	lit.SetVec3("viewPos", frame.ViewPos)
	lit.SetPointLights(frame.Lights)

	for i, m := range r.meshes {
		if i >= len(frame.Models) {
			break
		}
		lit.SetMat4("model", frame.Models[i])
		gl.BindVertexArray(m.vao)
		for _, g := range m.groups {
			lit.SetMaterial(g.material)
			gl.DrawElementsWithOffset(gl.TRIANGLES, g.count, gl.UNSIGNED_INT, g.offset)
		}
	}

	if r.ShowBounds {
		r.line.Use()
		r.line.SetMat4("view", frame.View)
		r.line.SetMat4Slice("projection", (*[16]float32)(&projection))
		r.line.SetVec3("color", boundsColor)
		for i, l := range r.boxes {
			if i >= len(frame.Models) {
				break
			}
			r.line.SetMat4("model", frame.Models[i])
			gl.BindVertexArray(l.vao)
			gl.DrawArrays(gl.LINES, 0, debug.BoxLineVertexCount)
		}
	}

	r.drawMarkers(frame, &projection)
	gl.BindVertexArray(0)
}

func (r *Renderer) drawMarkers(frame scene.FrameData, projection *mgl32.Mat4) {
	buf := frame.MarkerBuffer
	if len(buf) == 0 {
		return
	}

	gl.BindBuffer(gl.ARRAY_BUFFER, r.markerVBO)
	gl.BufferData(gl.ARRAY_BUFFER, len(buf)*4, unsafe.Pointer(&buf[0]), gl.DYNAMIC_DRAW)
	r.markerCount = int32(len(buf) / lighting.MarkerStride)

	r.marker.Use()
	r.marker.SetMat4("view", frame.View)
	r.marker.SetMat4Slice("projection", (*[16]float32)(projection))
	r.marker.SetFloat("pointSize", r.config.PointSize)
	gl.BindVertexArray(r.markerVAO)
	gl.DrawArrays(gl.POINTS, 0, r.markerCount)
}

// ReadPixels returns the current framebuffer as bottom-up RGBA rows.
func (r *Renderer) ReadPixels() ([]byte, int, int) {
	w, h := r.config.Width, r.config.Height
	pixels := make([]byte, w*h*4)
	if len(pixels) == 0 {
		return pixels, w, h
	}
	gl.PixelStorei(gl.PACK_ALIGNMENT, 1)
	gl.ReadPixels(0, 0, int32(w), int32(h), gl.RGBA, gl.UNSIGNED_BYTE, unsafe.Pointer(&pixels[0]))
	return pixels, w, h
}
