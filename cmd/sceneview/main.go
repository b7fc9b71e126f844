// Command sceneview opens a scene in an OpenGL window. Drag with the left
// mouse button to orbit, use the wheel to zoom and WASD/QE to pan. F frames
// the scene, R restores the scene camera, B toggles bounding boxes and P
// saves a screenshot.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"go.uber.org/zap"

	"github.com/Faultbox/scenekit/internal/app"
	"github.com/Faultbox/scenekit/internal/config"
	"github.com/Faultbox/scenekit/internal/engine/glrender"
	"github.com/Faultbox/scenekit/internal/engine/lighting"
	"github.com/Faultbox/scenekit/internal/logger"
	"github.com/Faultbox/scenekit/internal/viewer"
)

func main() {
	// Parse CLI flags first
	config.ParseFlags()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}

	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		fmt.Fprintf(os.Stderr, "Logger error: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("=== scenekit viewer ===")
	logger.Sugar.Debugf("Config: %+v", cfg)

	if err := run(cfg); err != nil {
		logger.Error("viewer error", zap.Error(err))
		os.Exit(1)
	}
	logger.Info("viewer closed normally")
}

func run(cfg *config.Config) error {
	s, err := app.LoadScene(cfg)
	if err != nil {
		return err
	}

	am, err := app.NewAssets(cfg)
	if err != nil {
		return err
	}
	defer am.Close()

	textures := app.NewTextureCache(cfg, am)
	app.PrepareTextures(s, textures)

	v, err := viewer.New(viewer.Config{
		Title:      cfg.Viewer.Title,
		Width:      cfg.Render.Width,
		Height:     cfg.Render.Height,
		Fullscreen: cfg.Viewer.Fullscreen,
		VSync:      cfg.Viewer.VSync,
		Render: glrender.Config{
			Projection:    cfg.Render.Projection(),
			ClearColor:    lighting.RGB(cfg.Render.ClearColor),
			CullBackFaces: cfg.Render.CullBackFaces,
		},
		OutputDir: cfg.Output.Dir,
		Prefix:    cfg.Output.Prefix,
	}, s, textures)
	if err != nil {
		return err
	}
	defer v.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	return v.Run(ctx)
}
