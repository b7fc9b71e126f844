// Package viewer implements the interactive window loop: it draws a scene
// with the GL renderer and lets the user orbit, zoom and pan the camera.
package viewer

import (
	"context"
	"fmt"
	"time"

	"github.com/veandco/go-sdl2/sdl"
	"go.uber.org/zap"

	"github.com/Faultbox/scenekit/internal/engine/camera"
	"github.com/Faultbox/scenekit/internal/engine/debug"
	"github.com/Faultbox/scenekit/internal/engine/glrender"
	"github.com/Faultbox/scenekit/internal/engine/input"
	"github.com/Faultbox/scenekit/internal/engine/scene"
	"github.com/Faultbox/scenekit/internal/engine/texture"
	"github.com/Faultbox/scenekit/internal/engine/window"
	"github.com/Faultbox/scenekit/internal/logger"
)

// Config holds viewer configuration.
type Config struct {
	Title      string
	Width      int
	Height     int
	Fullscreen bool
	VSync      bool

	Render glrender.Config

	// Screenshots
	OutputDir string
	Prefix    string
}

// Viewer is the interactive scene viewer.
type Viewer struct {
	config   Config
	running  bool
	window   *window.Window
	renderer *glrender.Renderer
	input    *input.Input
	capture  *debug.FrameCapture

	scene *scene.Scene
	orbit *camera.OrbitCamera
	home  camera.OrbitCamera

	// Left button press position, for telling clicks from drags.
	pressX, pressY int
}

// New creates the window and GL renderer for s.
func New(cfg Config, s *scene.Scene, textures *texture.Cache) (*Viewer, error) {
	logger.Info("initializing viewer",
		zap.String("title", cfg.Title),
		zap.Int("width", cfg.Width),
		zap.Int("height", cfg.Height),
	)

	cam, ok := s.Camera()
	if !ok {
		return nil, scene.ErrNoCamera
	}

	v := &Viewer{
		config:  cfg,
		input:   input.New(),
		capture: debug.NewFrameCapture(cfg.OutputDir, cfg.Prefix),
		scene:   s,
		orbit:   camera.NewOrbitFromCamera(cam),
	}
	v.home = *v.orbit

	// Create window (this also creates the OpenGL context)
	var err error
	v.window, err = window.New(window.Config{
		Title:      cfg.Title,
		Width:      cfg.Width,
		Height:     cfg.Height,
		Fullscreen: cfg.Fullscreen,
		VSync:      cfg.VSync,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create window: %w", err)
	}

	// The renderer needs the context, and its viewport uses pixels.
	rcfg := cfg.Render
	rcfg.Width, rcfg.Height = v.window.DrawableSize()
	v.renderer, err = glrender.New(rcfg, textures)
	if err != nil {
		v.window.Close()
		return nil, fmt.Errorf("failed to create renderer: %w", err)
	}
	if err := v.renderer.Upload(s); err != nil {
		v.Close()
		return nil, fmt.Errorf("failed to upload scene: %w", err)
	}

	logger.Info("viewer initialized")
	return v, nil
}

// Run runs the frame loop until the window closes, Escape is pressed or
// ctx is cancelled.
func (v *Viewer) Run(ctx context.Context) error {
	v.running = true

	lastTime := time.Now()
	frameCount := 0
	fpsTimer := time.Now()

	logger.Debug("starting viewer loop")

	for v.running {
		if err := ctx.Err(); err != nil {
			return nil
		}

		now := time.Now()
		dt := float32(now.Sub(lastTime).Seconds())
		lastTime = now

		// 1. Process input
		if v.input.Update() {
			v.running = false
			break
		}
		v.handleEvents()

		// 2. Update camera
		applyControls(v.input, v.orbit, dt)

		// 3. Render
		if err := v.renderer.Render(v.scene, v.orbit.Camera()); err != nil {
			return fmt.Errorf("render error: %w", err)
		}
		if v.input.IsKeyPressed(sdl.SCANCODE_P) {
			v.screenshot()
		}

		// 4. Present
		v.window.SwapBuffers()

		frameCount++
		if time.Since(fpsTimer) >= time.Second {
			logger.Debug("fps",
				zap.Int("count", frameCount),
				zap.Int("draw_calls", v.renderer.Stats().DrawCalls),
			)
			v.window.SetTitle(fmt.Sprintf("%s - %d fps", v.config.Title, frameCount))
			frameCount = 0
			fpsTimer = time.Now()
		}
	}

	return nil
}

func (v *Viewer) handleEvents() {
	for _, event := range v.input.Events() {
		switch event.Type {
		case input.EventWindowResize:
			v.renderer.Resize(v.window.DrawableSize())
		case input.EventMouseDown:
			if event.Button == sdl.BUTTON_LEFT {
				v.pressX, v.pressY = event.MouseX, event.MouseY
			}
		case input.EventMouseUp:
			if event.Button == sdl.BUTTON_LEFT && isClick(v.pressX, v.pressY, event.MouseX, event.MouseY) {
				v.pick(event.MouseX, event.MouseY)
			}
		case input.EventKeyDown:
			switch event.Key {
			case sdl.SCANCODE_ESCAPE:
				v.running = false
			case sdl.SCANCODE_B:
				v.renderer.ShowBounds = !v.renderer.ShowBounds
			case sdl.SCANCODE_R:
				*v.orbit = v.home
			case sdl.SCANCODE_F:
				v.fit()
			}
		}
	}
}

// fit frames every object.
func (v *Viewer) fit() {
	b, ok, err := v.scene.Bounds()
	if err != nil {
		logger.Warn("cannot fit scene", zap.Error(err))
		return
	}
	if ok {
		v.orbit.FitToBounds(b.Min, b.Max)
	}
}

// pick logs the object under the cursor and shows it in the title.
func (v *Viewer) pick(x, y int) {
	w, h := v.window.Size()
	hit, ok, err := pickAt(v.scene, v.orbit.Camera(), v.renderer.Config().Projection, x, y, w, h)
	if err != nil {
		logger.Warn("pick failed", zap.Error(err))
		return
	}
	if !ok {
		v.window.SetTitle(v.config.Title)
		return
	}
	logger.Info("object picked",
		zap.String("object", hit.ObjectID),
		zap.Float32("distance", hit.Distance),
	)
	v.window.SetTitle(fmt.Sprintf("%s - %s", v.config.Title, hit.ObjectID))
}

func (v *Viewer) screenshot() {
	w, h := v.renderer.Config().Width, v.renderer.Config().Height
	path, err := v.capture.SaveGLPixels(v.renderer.ReadPixels(), w, h)
	if err != nil {
		logger.Error("screenshot failed", zap.Error(err))
		return
	}
	logger.Info("screenshot saved", zap.String("path", path))
}

// Close releases the renderer and window.
func (v *Viewer) Close() {
	logger.Debug("closing viewer")

	if v.renderer != nil {
		v.renderer.Close()
	}
	if v.window != nil {
		v.window.Close()
	}
}
