// Package viewer runs the interactive scene viewer: it loads the scene,
// opens the window and drives the frame loop.
package viewer

import (
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/Faultbox/sceneview/internal/config"
	"github.com/Faultbox/sceneview/internal/engine/debug"
	"github.com/Faultbox/sceneview/internal/engine/input"
	"github.com/Faultbox/sceneview/internal/engine/renderer"
	"github.com/Faultbox/sceneview/internal/engine/window"
	"github.com/Faultbox/sceneview/internal/logger"
	"github.com/Faultbox/sceneview/internal/scene"
)

// Viewer is the main viewer instance. It must be created, run and closed on
// the thread that owns the GL context.
type Viewer struct {
	config   *config.Config
	running  bool
	scene    *scene.Context
	window   *window.Window
	renderer *renderer.Renderer
	input    *input.Input
	shots    *debug.ScreenshotCapture
	log      *zap.Logger
}

// New loads the scene and opens the window.
func New(cfg *config.Config) (*Viewer, error) {
	log := logger.Named("viewer")
	log.Info("initializing viewer",
		zap.String("models", cfg.Scene.ModelList),
		zap.String("scene", cfg.Scene.SceneFile),
	)

	loaded, err := LoadScene(cfg)
	if err != nil {
		return nil, err
	}

	v := &Viewer{
		config: cfg,
		scene:  loaded.Context,
		shots:  debug.NewScreenshotCapture("screenshots", "sceneview"),
		log:    log,
	}

	// Window first: the renderer needs its GL context.
	v.window, err = window.New(window.Config{
		Title:        cfg.Window.Title,
		Width:        cfg.Window.Width,
		Height:       cfg.Window.Height,
		Fullscreen:   cfg.Window.Fullscreen,
		VSync:        cfg.Window.VSync,
		CaptureMouse: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create window: %w", err)
	}

	width, height := v.window.DrawableSize()
	v.renderer, err = renderer.New(renderer.Config{
		Width:      width,
		Height:     height,
		Background: cfg.Render.Background,
		PointSize:  cfg.Render.PointSize,
		Shininess:  32,
	}, loaded.Meshes, v.scene.Boxes())
	if err != nil {
		v.window.Close()
		return nil, fmt.Errorf("failed to create renderer: %w", err)
	}
	v.scene.SetViewport(width, height)

	v.input = input.New()

	log.Info("viewer initialized",
		zap.Int("models", len(loaded.Meshes)),
		zap.Int("lights", v.scene.Lights().Len()),
	)
	return v, nil
}

// Run starts the frame loop and returns when the window is closed or ESC
// is pressed.
func (v *Viewer) Run() error {
	v.running = true

	lastTime := time.Now()
	frameCount := 0
	fpsTimer := time.Now()

	v.log.Info("starting frame loop")

	for v.running {
		now := time.Now()
		dt := float32(now.Sub(lastTime).Seconds())
		lastTime = now

		// 1. Input
		if v.input.Update() {
			v.running = false
			break
		}
		if _, _, ok := v.input.Resized(); ok {
			w, h := v.window.DrawableSize()
			v.renderer.Resize(w, h)
			v.scene.SetViewport(w, h)
		}
		if v.input.IsKeyPressed(input.KeyBounds) {
			v.renderer.ShowBounds = !v.renderer.ShowBounds
		}

		// 2. Every event of the frame reaches the camera before the view is read
		v.scene.Apply(v.input.Frame(dt))

		// 3. Render
		v.renderer.Draw(v.scene.Frame())
		if v.input.IsKeyPressed(input.KeyScreenshot) {
			v.screenshot()
		}

		// 4. Present
		v.window.SwapBuffers()

		frameCount++
		if time.Since(fpsTimer) >= time.Second {
			v.log.Debug("fps", zap.Int("count", frameCount), zap.Float32("dt_ms", dt*1000))
			v.window.SetTitle(fmt.Sprintf("%s - %d fps - %s", v.config.Window.Title, frameCount, v.scene.Shading()))
			frameCount = 0
			fpsTimer = time.Now()
		}
	}

	return nil
}

func (v *Viewer) screenshot() {
	pixels, w, h := v.renderer.ReadPixels()
	name, err := v.shots.CaptureFromPixels(pixels, w, h)
	if err != nil {
		v.log.Warn("screenshot failed", zap.Error(err))
		return
	}
	v.log.Info("screenshot saved", zap.String("file", name))
}

// Close cleans up viewer resources.
func (v *Viewer) Close() {
	v.log.Info("closing viewer")

	if v.renderer != nil {
		v.renderer.Close()
	}
	if v.window != nil {
		v.window.Close()
	}
}
