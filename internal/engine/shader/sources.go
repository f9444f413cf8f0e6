package shader

import (
	"embed"
	"fmt"
	"strings"

	"github.com/go-gl/gl/v4.1-core/gl"

	"github.com/Faultbox/sceneview/internal/engine/lighting"
)

//go:embed glsl/*
var glslFS embed.FS

// Embedded program names.
const (
	Phong   = "phong"
	Gouraud = "gouraud"
	Marker  = "marker"
	Line    = "line"
)

// Libraries spliced in ahead of a stage body, in order.
var includes = map[string][]string{
	"phong.frag":   {"lights.glsl", "material.glsl"},
	"gouraud.vert": {"lights.glsl"},
	"gouraud.frag": {"material.glsl"},
}

// Stage is the complete source of one shader stage.
type Stage struct {
	File   string // embedded file name, e.g. phong.frag
	Type   uint32 // gl.VERTEX_SHADER or gl.FRAGMENT_SHADER
	Source string
}

// Stages returns the vertex and fragment stages of an embedded program,
// with the version header and libraries prepended.
func Stages(name string) ([]Stage, error) {
	stages := []Stage{
		{File: name + ".vert", Type: gl.VERTEX_SHADER},
		{File: name + ".frag", Type: gl.FRAGMENT_SHADER},
	}
	for i := range stages {
		src, err := stageSource(stages[i].File)
		if err != nil {
			return nil, err
		}
		stages[i].Source = src
	}
	return stages, nil
}

func stageSource(file string) (string, error) {
	body, err := glslFS.ReadFile("glsl/" + file)
	if err != nil {
		return "", fmt.Errorf("shader source %s: %w", file, err)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "#version 410 core\n#define MAX_LIGHTS %d\n", lighting.MaxLights)
	for _, inc := range includes[file] {
		lib, err := glslFS.ReadFile("glsl/" + inc)
		if err != nil {
			return "", fmt.Errorf("shader library %s: %w", inc, err)
		}
		b.Write(lib)
		b.WriteByte('\n')
	}
	b.Write(body)
	return b.String(), nil
}
