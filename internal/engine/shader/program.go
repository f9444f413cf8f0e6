// Package shader compiles the embedded GLSL programs and uploads uniforms.
package shader

import (
	"fmt"

	"github.com/go-gl/gl/v4.1-core/gl"
	"go.uber.org/zap"

	"github.com/Faultbox/sceneview/internal/engine/lighting"
	"github.com/Faultbox/sceneview/internal/logger"
	"github.com/Faultbox/sceneview/pkg/math"
)

// Program is a linked shader program with cached uniform locations.
type Program struct {
	Name     string
	id       uint32
	uniforms map[string]int32
}

// Load compiles and links one of the embedded programs by name. A failing
// stage is reported as a *CompileError naming its embedded file.
func Load(name string) (*Program, error) {
	stages, err := Stages(name)
	if err != nil {
		return nil, err
	}
	id, err := link(name, stages)
	if err != nil {
		return nil, err
	}

	logger.Debug("shader program created", zap.String("name", name), zap.Uint32("program", id))
	return &Program{Name: name, id: id, uniforms: make(map[string]int32)}, nil
}

// ID returns the GL program object.
func (p *Program) ID() uint32 { return p.id }

// Use binds the program.
func (p *Program) Use() {
	gl.UseProgram(p.id)
}

// Delete releases the GL program.
func (p *Program) Delete() {
	if p.id != 0 {
		gl.DeleteProgram(p.id)
		p.id = 0
	}
}

func (p *Program) location(name string) int32 {
	if loc, ok := p.uniforms[name]; ok {
		return loc
	}
	loc := gl.GetUniformLocation(p.id, gl.Str(name+"\x00"))
	if loc < 0 {
		logger.Debug("inactive uniform", zap.String("program", p.Name), zap.String("uniform", name))
	}
	p.uniforms[name] = loc
	return loc
}

// SetMat4 uploads a matrix already in OpenGL storage order. No transpose is
// requested from GL.
func (p *Program) SetMat4(name string, m math.GLMat4) {
	gl.UniformMatrix4fv(p.location(name), 1, false, m.Ptr())
}

// SetMat4Slice uploads a column-major matrix produced by another library.
func (p *Program) SetMat4Slice(name string, m *[16]float32) {
	gl.UniformMatrix4fv(p.location(name), 1, false, &m[0])
}

// SetVec3 uploads a vector.
func (p *Program) SetVec3(name string, v math.Vec3) {
	gl.Uniform3f(p.location(name), v.X, v.Y, v.Z)
}

// SetFloat uploads a scalar.
func (p *Program) SetFloat(name string, f float32) {
	gl.Uniform1f(p.location(name), f)
}

// SetInt uploads an integer.
func (p *Program) SetInt(name string, i int32) {
	gl.Uniform1i(p.location(name), i)
}

// SetBool uploads a flag as 0 or 1.
func (p *Program) SetBool(name string, b bool) {
	var i int32
	if b {
		i = 1
	}
	gl.Uniform1i(p.location(name), i)
}

// SetPointLights uploads the light array and its length. The program must be
// in use.
func (p *Program) SetPointLights(lights []lighting.PointLight) {
	n := min(len(lights), lighting.MaxLights)
	for i := 0; i < n; i++ {
		l := lights[i]
		u := lightUniforms(i)
		p.SetVec3(u.position, l.Position)
		p.SetVec3(u.ambient, l.Ambient)
		p.SetVec3(u.diffuse, l.Diffuse)
		p.SetVec3(u.specular, l.Specular)
		p.SetFloat(u.constant, l.Constant)
		p.SetFloat(u.linear, l.Linear)
		p.SetFloat(u.quadratic, l.Quadratic)
	}
	p.SetInt("numLights", int32(n))
}

// Texture units the material samplers read from.
const (
	DiffuseUnit  = 0
	SpecularUnit = 1
)

const (
	uniformDiffuseMap     = "material.diffuse"
	uniformSpecularMap    = "material.specular"
	uniformHasDiffuseMap  = "material.hasDiffuseMap"
	uniformHasSpecularMap = "material.hasSpecularMap"
	uniformDiffuseColor   = "material.diffuseColor"
	uniformSpecularColor  = "material.specularColor"
)

// Material is the surface description the lit programs shade with. A zero
// texture name means the matching color is used instead.
type Material struct {
	DiffuseColor  math.Vec3
	SpecularColor math.Vec3
	DiffuseMap    uint32
	SpecularMap   uint32
	Shininess     float32
}

// SetMaterial uploads m and binds its textures to DiffuseUnit and
// SpecularUnit. The program must be in use.
func (p *Program) SetMaterial(m Material) {
	p.SetInt(uniformDiffuseMap, DiffuseUnit)
	p.SetInt(uniformSpecularMap, SpecularUnit)
	p.SetBool(uniformHasDiffuseMap, m.DiffuseMap != 0)
	p.SetBool(uniformHasSpecularMap, m.SpecularMap != 0)
	p.SetVec3(uniformDiffuseColor, m.DiffuseColor)
	p.SetVec3(uniformSpecularColor, m.SpecularColor)
	p.SetFloat("shininess", m.Shininess)

	gl.ActiveTexture(gl.TEXTURE0 + DiffuseUnit)
	gl.BindTexture(gl.TEXTURE_2D, m.DiffuseMap)
	gl.ActiveTexture(gl.TEXTURE0 + SpecularUnit)
	gl.BindTexture(gl.TEXTURE_2D, m.SpecularMap)
}

type lightUniformNames struct {
	position, ambient, diffuse, specular string
	constant, linear, quadratic          string
}

var lightNames [lighting.MaxLights]lightUniformNames

func init() {
	for i := range lightNames {
		prefix := fmt.Sprintf("pointLights[%d].", i)
		lightNames[i] = lightUniformNames{
			position:  prefix + "position",
			ambient:   prefix + "ambient",
			diffuse:   prefix + "diffuse",
			specular:  prefix + "specular",
			constant:  prefix + "constant",
			linear:    prefix + "linear",
			quadratic: prefix + "quadratic",
		}
	}
}

func lightUniforms(i int) lightUniformNames {
	return lightNames[i]
}
