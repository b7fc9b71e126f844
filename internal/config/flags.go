package config

import "flag"

var (
	flagConfig     = flag.String("config", "", "Path to config file")
	flagDebug      = flag.Bool("debug", false, "Enable debug logging")
	flagScene      = flag.String("scene", "", "Scene description file (default: built-in scene)")
	flagTextures   = flag.String("textures", "", "Base directory for texture paths")
	flagOutput     = flag.String("out", "", "Output directory for rendered frames")
	flagWidth      = flag.Int("width", 0, "Frame width")
	flagHeight     = flag.Int("height", 0, "Frame height")
	flagWorkers    = flag.Int("workers", 0, "Rasterizer workers (0 = config value)")
	flagCull       = flag.Bool("cull", false, "Cull back faces")
	flagWindowed   = flag.Bool("windowed", false, "Run viewer in windowed mode")
	flagFullscreen = flag.Bool("fullscreen", false, "Run viewer in fullscreen mode")
)

// ParseFlags parses command-line flags. Call this early in main().
func ParseFlags() {
	flag.Parse()
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
	if *flagScene != "" {
		cfg.Scene.Path = *flagScene
	}
	if *flagTextures != "" {
		cfg.Texture.Dir = *flagTextures
	}
	if *flagOutput != "" {
		cfg.Output.Dir = *flagOutput
	}
	if *flagWidth > 0 {
		cfg.Render.Width = *flagWidth
	}
	if *flagHeight > 0 {
		cfg.Render.Height = *flagHeight
	}
	if *flagWorkers > 0 {
		cfg.Render.Workers = *flagWorkers
	}
	if *flagCull {
		cfg.Render.CullBackFaces = true
	}
	if *flagWindowed {
		cfg.Viewer.Fullscreen = false
	}
	if *flagFullscreen {
		cfg.Viewer.Fullscreen = true
	}
}
