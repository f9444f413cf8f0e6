// Package config handles viewer configuration loading and management.
package config

import (
	"errors"
	"fmt"
)

// Config holds all viewer settings.
type Config struct {
	Window  WindowConfig  `yaml:"window" toml:"window"`
	Camera  CameraConfig  `yaml:"camera" toml:"camera"`
	Scene   SceneConfig   `yaml:"scene" toml:"scene"`
	Render  RenderConfig  `yaml:"render" toml:"render"`
	Logging LoggingConfig `yaml:"logging" toml:"logging"`
}

// WindowConfig holds display settings.
type WindowConfig struct {
	Title      string `yaml:"title" toml:"title"`
	Width      int    `yaml:"width" toml:"width"`
	Height     int    `yaml:"height" toml:"height"`
	Fullscreen bool   `yaml:"fullscreen" toml:"fullscreen"`
	VSync      bool   `yaml:"vsync" toml:"vsync"`
}

// CameraConfig holds free-look camera settings.
type CameraConfig struct {
	Speed          float32 `yaml:"speed" toml:"speed"`                     // world units per second
	Sensitivity    float32 `yaml:"sensitivity" toml:"sensitivity"`         // degrees per pixel
	ConstrainPitch bool    `yaml:"constrain_pitch" toml:"constrain_pitch"` // clamp pitch to ±89°
}

// SceneConfig holds input file paths.
type SceneConfig struct {
	ModelList string `yaml:"model_list" toml:"model_list"` // one model path per line
	SceneFile string `yaml:"scene_file" toml:"scene_file"` // light and camera records
}

// RenderConfig holds projection and shading settings.
type RenderConfig struct {
	FovY       float32    `yaml:"fov_y" toml:"fov_y"` // degrees
	Near       float32    `yaml:"near" toml:"near"`
	Far        float32    `yaml:"far" toml:"far"`
	OrthoSize  float32    `yaml:"ortho_size" toml:"ortho_size"` // half height of the orthographic volume
	Shading    string     `yaml:"shading" toml:"shading"`       // phong or gouraud
	Projection string     `yaml:"projection" toml:"projection"` // perspective or orthographic
	PointSize  float32    `yaml:"point_size" toml:"point_size"` // light marker size in pixels
	Background [3]float32 `yaml:"background" toml:"background"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level" toml:"level"`
	LogFile string `yaml:"log_file" toml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Window: WindowConfig{
			Title:  "Scene Viewer",
			Width:  1280,
			Height: 720,
			VSync:  true,
		},
		Camera: CameraConfig{
			Speed:          2.5,
			Sensitivity:    0.1,
			ConstrainPitch: true,
		},
		Scene: SceneConfig{
			ModelList: "models.txt",
			SceneFile: "scene.txt",
		},
		Render: RenderConfig{
			FovY:       45,
			Near:       0.1,
			Far:        100,
			OrthoSize:  3,
			Shading:    "phong",
			Projection: "perspective",
			PointSize:  8,
			Background: [3]float32{0.1, 0.1, 0.12},
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// ErrInvalid is wrapped by every Validate failure.
var ErrInvalid = errors.New("invalid config")

// Validate reports settings the viewer cannot start with.
func (c *Config) Validate() error {
	switch {
	case c.Window.Width <= 0 || c.Window.Height <= 0:
		return fmt.Errorf("%w: window size %dx%d", ErrInvalid, c.Window.Width, c.Window.Height)
	case c.Camera.Speed <= 0:
		return fmt.Errorf("%w: camera speed %v", ErrInvalid, c.Camera.Speed)
	case c.Camera.Sensitivity <= 0:
		return fmt.Errorf("%w: mouse sensitivity %v", ErrInvalid, c.Camera.Sensitivity)
	case c.Render.FovY <= 0 || c.Render.FovY >= 180:
		return fmt.Errorf("%w: fov %v outside (0, 180)", ErrInvalid, c.Render.FovY)
	case c.Render.Near <= 0 || c.Render.Near >= c.Render.Far:
		return fmt.Errorf("%w: clip planes near=%v far=%v", ErrInvalid, c.Render.Near, c.Render.Far)
	case c.Render.OrthoSize <= 0:
		return fmt.Errorf("%w: ortho size %v", ErrInvalid, c.Render.OrthoSize)
	case c.Scene.ModelList == "":
		return fmt.Errorf("%w: no model list", ErrInvalid)
	case c.Scene.SceneFile == "":
		return fmt.Errorf("%w: no scene file", ErrInvalid)
	}

	switch c.Render.Shading {
	case "phong", "gouraud":
	default:
		return fmt.Errorf("%w: shading %q", ErrInvalid, c.Render.Shading)
	}
	switch c.Render.Projection {
	case "perspective", "orthographic":
	default:
		return fmt.Errorf("%w: projection %q", ErrInvalid, c.Render.Projection)
	}
	return nil
}
