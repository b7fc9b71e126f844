// Package app wires configuration, assets and the scene together for the
// command-line tools.
package app

import (
	"fmt"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/Faultbox/scenekit/internal/assets"
	"github.com/Faultbox/scenekit/internal/config"
	"github.com/Faultbox/scenekit/internal/engine/scene"
	"github.com/Faultbox/scenekit/internal/engine/texture"
	"github.com/Faultbox/scenekit/internal/logger"
	"github.com/Faultbox/scenekit/pkg/formats"
)

// NewAssets returns a manager searching, from highest priority, the texture
// directory, the scene file's directory and the working directory.
func NewAssets(cfg *config.Config) (*assets.Manager, error) {
	m := assets.NewManager()
	roots := []string{"."}
	if cfg.Scene.Path != "" {
		roots = append(roots, filepath.Dir(cfg.Scene.Path))
	}
	if cfg.Texture.Dir != "" {
		roots = append(roots, cfg.Texture.Dir)
	}

	seen := make(map[string]bool)
	for _, root := range roots {
		clean := filepath.Clean(root)
		if seen[clean] {
			continue
		}
		seen[clean] = true
		if err := m.AddRoot(clean); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// LoadScene parses the configured scene file, or the built-in scene when
// no path is set, and builds a validated scene.
func LoadScene(cfg *config.Config) (*scene.Scene, error) {
	var (
		desc *formats.SceneDescription
		err  error
	)
	if cfg.Scene.Path == "" {
		logger.Info("using built-in scene")
		desc, err = formats.ParseScene([]byte(formats.DefaultScene))
	} else {
		logger.Info("loading scene", zap.String("path", cfg.Scene.Path))
		desc, err = formats.ParseSceneFile(cfg.Scene.Path)
	}
	if err != nil {
		return nil, err
	}

	s, err := scene.FromDescription(desc)
	if err != nil {
		return nil, fmt.Errorf("building scene: %w", err)
	}
	logger.Info("scene loaded",
		zap.Int("records", desc.RecordCount()),
		zap.Int("objects", len(s.Objects())),
	)
	return s, nil
}

// NewTextureCache returns a texture cache reading through am.
func NewTextureCache(cfg *config.Config, am *assets.Manager) *texture.Cache {
	c := texture.NewCache("", cfg.Texture.MaxSize)
	c.Loader = am.Load
	return c
}

// PrepareTextures loads every texture s uses. A texture that cannot be
// loaded is dropped from its materials with a warning, so the frame still
// renders with plain diffuse colors. Returns the dropped paths.
func PrepareTextures(s *scene.Scene, cache *texture.Cache) []string {
	var dropped []string
	for _, path := range s.TexturePaths() {
		if _, err := cache.Get(path); err != nil {
			n := s.DropTexture(path)
			logger.Warn("texture unavailable, rendering untextured",
				zap.String("path", path),
				zap.Int("materials", n),
				zap.Error(err),
			)
			dropped = append(dropped, path)
		}
	}
	return dropped
}
