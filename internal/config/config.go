// Package config handles renderer and viewer configuration loading and management.
package config

import (
	"errors"
	"fmt"
	gomath "math"

	"github.com/Faultbox/scenekit/internal/engine/camera"
	"github.com/Faultbox/scenekit/internal/engine/lighting"
	"github.com/Faultbox/scenekit/internal/engine/renderer"
)

// ErrInvalidConfig is returned by Validate.
var ErrInvalidConfig = errors.New("invalid config")

// Config holds all settings.
type Config struct {
	Render  RenderConfig  `yaml:"render"`
	Scene   SceneConfig   `yaml:"scene"`
	Texture TextureConfig `yaml:"texture"`
	Output  OutputConfig  `yaml:"output"`
	Viewer  ViewerConfig  `yaml:"viewer"`
	Logging LoggingConfig `yaml:"logging"`
}

// RenderConfig holds frame and projection settings shared by the software
// and GPU renderers.
type RenderConfig struct {
	Width         int        `yaml:"width"`
	Height        int        `yaml:"height"`
	FovYDegrees   float32    `yaml:"fov_y_degrees"`
	Near          float32    `yaml:"near"`
	Far           float32    `yaml:"far"`
	ClearColor    [3]float32 `yaml:"clear_color"`
	Workers       int        `yaml:"workers"` // 0 = GOMAXPROCS
	CullBackFaces bool       `yaml:"cull_back_faces"`
}

// SceneConfig selects the scene description. An empty path renders the
// built-in scene.
type SceneConfig struct {
	Path string `yaml:"path"`
}

// TextureConfig controls texture lookup.
type TextureConfig struct {
	Dir     string `yaml:"dir"`      // Base directory for relative texture paths
	MaxSize int    `yaml:"max_size"` // Larger textures are downscaled; 0 disables
}

// OutputConfig controls where rendered frames are written.
type OutputConfig struct {
	Dir    string `yaml:"dir"`
	Prefix string `yaml:"prefix"`
}

// ViewerConfig holds interactive window settings.
type ViewerConfig struct {
	Title      string `yaml:"title"`
	Fullscreen bool   `yaml:"fullscreen"`
	VSync      bool   `yaml:"vsync"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Render: RenderConfig{
			Width:       800,
			Height:      600,
			FovYDegrees: 45,
			Near:        0.1,
			Far:         100,
			ClearColor:  [3]float32{0.9, 0.9, 0.9},
		},
		Texture: TextureConfig{
			Dir: ".",
		},
		Output: OutputConfig{
			Dir:    ".",
			Prefix: "frame",
		},
		Viewer: ViewerConfig{
			Title: "scenekit",
			VSync: true,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Validate reports every invalid setting at once.
func (c *Config) Validate() error {
	var errs []error
	r := c.Render
	if r.Width <= 0 || r.Height <= 0 {
		errs = append(errs, fmt.Errorf("%w: render size %dx%d", ErrInvalidConfig, r.Width, r.Height))
	}
	if r.FovYDegrees <= 0 || r.FovYDegrees >= 180 {
		errs = append(errs, fmt.Errorf("%w: fov_y_degrees %g", ErrInvalidConfig, r.FovYDegrees))
	}
	if r.Near <= 0 || r.Far <= r.Near {
		errs = append(errs, fmt.Errorf("%w: near %g far %g", ErrInvalidConfig, r.Near, r.Far))
	}
	if r.Workers < 0 {
		errs = append(errs, fmt.Errorf("%w: workers %d", ErrInvalidConfig, r.Workers))
	}
	if c.Texture.MaxSize < 0 {
		errs = append(errs, fmt.Errorf("%w: texture max_size %d", ErrInvalidConfig, c.Texture.MaxSize))
	}
	return errors.Join(errs...)
}

// Projection converts the render settings to a camera projection.
func (r RenderConfig) Projection() camera.Projection {
	return camera.Projection{
		FovY: r.FovYDegrees * gomath.Pi / 180,
		Near: r.Near,
		Far:  r.Far,
	}
}

// RendererConfig converts the render settings to a software renderer config.
func (r RenderConfig) RendererConfig() renderer.Config {
	return renderer.Config{
		Width:         r.Width,
		Height:        r.Height,
		Projection:    r.Projection(),
		ClearColor:    lighting.RGB(r.ClearColor),
		Workers:       r.Workers,
		CullBackFaces: r.CullBackFaces,
	}
}
