// Command scenerender renders a scene description to a PNG file with the
// software rasterizer.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"

	"github.com/schollz/progressbar/v3"
	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/Faultbox/scenekit/internal/app"
	"github.com/Faultbox/scenekit/internal/config"
	"github.com/Faultbox/scenekit/internal/engine/debug"
	"github.com/Faultbox/scenekit/internal/engine/renderer"
	"github.com/Faultbox/scenekit/internal/logger"
)

var (
	flagOut      = flag.String("o", "", "Write the frame to this path instead of <out>/<prefix>_<timestamp>.png")
	flagProgress = flag.Bool("progress", true, "Show per-object progress on a terminal")
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

	logger.Sugar.Debugf("Config: %+v", cfg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	path, err := run(ctx, cfg)
	if err != nil {
		logger.Error("render failed", zap.Error(err))
		os.Exit(1)
	}
	logger.Info("frame written", zap.String("path", path))
}

func run(ctx context.Context, cfg *config.Config) (string, error) {
	s, err := app.LoadScene(cfg)
	if err != nil {
		return "", err
	}

	am, err := app.NewAssets(cfg)
	if err != nil {
		return "", err
	}
	defer am.Close()

	textures := app.NewTextureCache(cfg, am)
	app.PrepareTextures(s, textures)

	r, err := renderer.New(cfg.Render.RendererConfig(), textures)
	if err != nil {
		return "", err
	}

	if *flagProgress && term.IsTerminal(int(os.Stderr.Fd())) {
		bar := progressbar.Default(int64(len(s.Objects())), "rendering")
		defer bar.Close()
		r.OnObject = func(done, total int, id string) {
			bar.Describe("rendering " + id)
			_ = bar.Set(done)
		}
	}

	img, err := r.Render(ctx, s)
	if err != nil {
		return "", err
	}

	st := r.Stats()
	logger.Info("frame rendered",
		zap.Int("width", cfg.Render.Width),
		zap.Int("height", cfg.Render.Height),
		zap.Int("objects", st.Objects),
		zap.Int("triangles", st.Triangles),
		zap.Int("culled", st.Culled),
		zap.Int("fragments", st.Fragments),
		zap.Duration("duration", st.Duration),
	)

	if *flagOut != "" {
		if err := debug.WritePNG(*flagOut, img); err != nil {
			return "", err
		}
		return *flagOut, nil
	}
	return debug.NewFrameCapture(cfg.Output.Dir, cfg.Output.Prefix).Save(img)
}
