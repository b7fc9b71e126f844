package texture

import (
	"fmt"
	"path/filepath"
	"sync"

	"go.uber.org/zap"

	"github.com/Faultbox/scenekit/internal/logger"
)

// Cache loads each texture path once. Relative paths resolve against Root
// unless Loader is set.
type Cache struct {
	Root    string
	MaxSize int // downscale textures larger than this; 0 keeps full size

	// Loader, when set, supplies the encoded bytes for a path.
	Loader func(path string) ([]byte, error)

	mu       sync.Mutex
	textures map[string]*Texture
}

// NewCache creates a cache resolving relative paths against root.
func NewCache(root string, maxSize int) *Cache {
	return &Cache{
		Root:     root,
		MaxSize:  maxSize,
		textures: make(map[string]*Texture),
	}
}

// Get returns the texture for path, loading it on first use.
func (c *Cache) Get(path string) (*Texture, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if t, ok := c.textures[path]; ok {
		return t, nil
	}

	t, source, err := c.load(path)
	if err != nil {
		return nil, fmt.Errorf("texture %q: %w", path, err)
	}
	if c.MaxSize > 0 {
		w, h := t.Size()
		if fitted := Fit(t.img, c.MaxSize); fitted != t.img {
			t = New(fitted)
			logger.Debug("texture downscaled",
				zap.String("path", path),
				zap.Int("width", w),
				zap.Int("height", h),
				zap.Int("max_size", c.MaxSize),
			)
		}
	}

	logger.Debug("texture loaded", zap.String("path", source))
	c.textures[path] = t
	return t, nil
}

func (c *Cache) load(path string) (*Texture, string, error) {
	if c.Loader != nil {
		data, err := c.Loader(path)
		if err != nil {
			return nil, path, err
		}
		t, err := Decode(data, path)
		return t, path, err
	}

	full := path
	if !filepath.IsAbs(full) && c.Root != "" {
		full = filepath.Join(c.Root, path)
	}
	t, err := Load(full)
	return t, full, err
}

// Len returns the number of cached textures.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.textures)
}
