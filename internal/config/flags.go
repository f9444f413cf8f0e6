package config

import "flag"

var (
	flagConfig      = flag.String("config", "", "Path to config file (.yaml, .yml or .toml)")
	flagDebug       = flag.Bool("debug", false, "Enable debug logging")
	flagModels      = flag.String("models", "", "Path to the model list file")
	flagScene       = flag.String("scene", "", "Path to the scene description file")
	flagWindowed    = flag.Bool("windowed", false, "Run in windowed mode")
	flagFullscreen  = flag.Bool("fullscreen", false, "Run in fullscreen mode")
	flagWidth       = flag.Int("width", 0, "Window width")
	flagHeight      = flag.Int("height", 0, "Window height")
	flagSpeed       = flag.Float64("speed", 0, "Camera movement speed")
	flagSensitivity = flag.Float64("sensitivity", 0, "Mouse sensitivity")
)

// ParseFlags parses command-line flags. Call this early in main().
// Two positional arguments, if given, are the model list and scene file.
func ParseFlags() {
	flag.Parse()
	if args := flag.Args(); len(args) >= 2 {
		if *flagModels == "" {
			*flagModels = args[0]
		}
		if *flagScene == "" {
			*flagScene = args[1]
		}
	}
}

// ConfigPath returns the explicit config path if provided via --config flag.
func ConfigPath() string {
	return *flagConfig
}

// applyFlags applies CLI flag overrides to the config.
func applyFlags(cfg *Config) {
	if *flagDebug {
		cfg.Logging.Level = "debug"
	}
	if *flagModels != "" {
		cfg.Scene.ModelList = *flagModels
	}
	if *flagScene != "" {
		cfg.Scene.SceneFile = *flagScene
	}
	if *flagWindowed {
		cfg.Window.Fullscreen = false
	}
	if *flagFullscreen {
		cfg.Window.Fullscreen = true
	}
	if *flagWidth > 0 {
		cfg.Window.Width = *flagWidth
	}
	if *flagHeight > 0 {
		cfg.Window.Height = *flagHeight
	}
	if *flagSpeed > 0 {
		cfg.Camera.Speed = float32(*flagSpeed)
	}
	if *flagSensitivity > 0 {
		cfg.Camera.Sensitivity = float32(*flagSensitivity)
	}
}
