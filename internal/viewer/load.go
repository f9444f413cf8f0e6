package viewer

import (
	"fmt"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/Faultbox/sceneview/internal/config"
	"github.com/Faultbox/sceneview/internal/engine/model"
	"github.com/Faultbox/sceneview/internal/logger"
	"github.com/Faultbox/sceneview/internal/scene"
	"github.com/Faultbox/sceneview/internal/sceneio"
)

// Scene is everything loaded from disk before a window exists.
type Scene struct {
	Meshes  []*model.Mesh
	Context *scene.Context
}

// LoadScene reads the model list, every mesh and the scene description, then
// builds the scene context. All mesh failures are reported together.
func LoadScene(cfg *config.Config) (*Scene, error) {
	opts, err := Options(cfg)
	if err != nil {
		return nil, err
	}

	paths, err := sceneio.LoadModelList(cfg.Scene.ModelList)
	if err != nil {
		return nil, err
	}

	var (
		meshes []*model.Mesh
		errs   error
	)
	for _, p := range paths {
		m, err := model.Load(p)
		if err != nil {
			errs = multierr.Append(errs, err)
			continue
		}
		meshes = append(meshes, m)
	}
	if errs != nil {
		return nil, fmt.Errorf("loading models: %w", errs)
	}

	desc, err := sceneio.LoadScene(cfg.Scene.SceneFile)
	if err != nil {
		return nil, err
	}

	boxes := make([]scene.BoundingBox, len(meshes))
	for i, m := range meshes {
		boxes[i] = m.Bounds.Box()
		logger.Debug("model bounds",
			zap.String("model", m.Name),
			zap.Float32("biggest", boxes[i].BiggestDimension()),
		)
	}

	ctx, err := scene.Build(desc, boxes, opts)
	if err != nil {
		return nil, err
	}
	return &Scene{Meshes: meshes, Context: ctx}, nil
}

// Options converts the config into scene build options.
func Options(cfg *config.Config) (scene.Options, error) {
	opts := scene.DefaultOptions()
	opts.MovementSpeed = cfg.Camera.Speed
	opts.MouseSensitivity = cfg.Camera.Sensitivity
	opts.ConstrainPitch = cfg.Camera.ConstrainPitch

	opts.Projection.FovY = cfg.Render.FovY
	opts.Projection.Near = cfg.Render.Near
	opts.Projection.Far = cfg.Render.Far
	opts.Projection.HalfHeight = cfg.Render.OrthoSize
	if cfg.Window.Height > 0 {
		opts.Projection.Aspect = float32(cfg.Window.Width) / float32(cfg.Window.Height)
	}

	switch cfg.Render.Shading {
	case "phong", "":
		opts.Shading = scene.Phong
	case "gouraud":
		opts.Shading = scene.Gouraud
	default:
		return opts, fmt.Errorf("unknown shading %q", cfg.Render.Shading)
	}

	switch cfg.Render.Projection {
	case "perspective", "":
		opts.Projection.Mode = scene.Perspective
	case "orthographic":
		opts.Projection.Mode = scene.Orthographic
	default:
		return opts, fmt.Errorf("unknown projection %q", cfg.Render.Projection)
	}
	return opts, nil
}
