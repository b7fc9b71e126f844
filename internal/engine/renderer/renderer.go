// Package renderer turns a scene into an image on the CPU: it builds the
// view and projection, composes per-object model and normal matrices,
// transforms vertices and shades every fragment with Blinn-Phong in view
// space.
package renderer

import (
	"context"
	"fmt"
	"image"
	"time"

	"go.uber.org/zap"

	"github.com/Faultbox/scenekit/internal/engine/camera"
	"github.com/Faultbox/scenekit/internal/engine/lighting"
	"github.com/Faultbox/scenekit/internal/engine/raster"
	"github.com/Faultbox/scenekit/internal/engine/scene"
	"github.com/Faultbox/scenekit/internal/engine/texture"
	"github.com/Faultbox/scenekit/internal/logger"
	"github.com/Faultbox/scenekit/pkg/math"
)

// Config holds renderer configuration.
type Config struct {
	Width         int
	Height        int
	Projection    camera.Projection
	ClearColor    lighting.Color
	Workers       int  // rasterizer row-band workers; 0 means GOMAXPROCS
	CullBackFaces bool // off by default, like the GL viewer
}

// DefaultConfig returns an 800x600 renderer with a 45 degree projection
// and a light gray background.
func DefaultConfig() Config {
	return Config{
		Width:      800,
		Height:     600,
		Projection: camera.DefaultProjection(),
		ClearColor: lighting.Gray(0.9),
	}
}

// Stats describes the last rendered frame.
type Stats struct {
	Objects int
	raster.Stats
	Duration time.Duration
}

// ObjectFunc is called after each object is drawn.
type ObjectFunc func(done, total int, objectID string)

// Renderer draws scenes into a reusable framebuffer.
type Renderer struct {
	config   Config
	textures *texture.Cache
	fb       *raster.Framebuffer
	raster   raster.Rasterizer
	stats    Stats

	// OnObject, when set, reports progress per object.
	OnObject ObjectFunc

	vertices []raster.Vertex
}

// New creates a renderer. textures may be nil, in which case materials are
// drawn without their texture.
func New(cfg Config, textures *texture.Cache) (*Renderer, error) {
	fb, err := raster.NewFramebuffer(cfg.Width, cfg.Height)
	if err != nil {
		return nil, err
	}
	if _, err := cfg.Projection.Matrix(aspect(cfg.Width, cfg.Height)); err != nil {
		return nil, fmt.Errorf("renderer projection: %w", err)
	}

	r := &Renderer{
		config:   cfg,
		textures: textures,
		fb:       fb,
		raster:   raster.Rasterizer{Workers: cfg.Workers},
	}
	if cfg.CullBackFaces {
		r.raster.Cull = raster.CullBack
	}
	return r, nil
}

// Config returns the renderer configuration.
func (r *Renderer) Config() Config {
	return r.config
}

// Stats returns statistics of the last Render call.
func (r *Renderer) Stats() Stats {
	return r.stats
}

// Resize changes the output size.
func (r *Renderer) Resize(width, height int) error {
	if err := r.fb.Resize(width, height); err != nil {
		return err
	}
	r.config.Width = width
	r.config.Height = height
	logger.Debug("renderer resized",
		zap.Int("width", width),
		zap.Int("height", height),
	)
	return nil
}

// Render draws the scene and returns the frame. The image is owned by the
// renderer and overwritten by the next Render or Resize.
func (r *Renderer) Render(ctx context.Context, s *scene.Scene) (*image.RGBA, error) {
	start := time.Now()
	r.stats = Stats{}

	cam, ok := s.Camera()
	if !ok {
		return nil, scene.ErrNoCamera
	}
	view, err := cam.ViewMatrix()
	if err != nil {
		return nil, err
	}
	proj, err := r.config.Projection.Matrix(aspect(r.config.Width, r.config.Height))
	if err != nil {
		return nil, err
	}

	light, ok := s.Light()
	if !ok {
		logger.Debug("scene has no light, drawing ambient only")
	}
	light = light.InSpace(view)

	items, err := s.DrawList()
	if err != nil {
		return nil, err
	}

	r.fb.Clear(r.config.ClearColor.RGBA8())

	for i := range items {
		if err := r.drawItem(ctx, &items[i], view, proj, light); err != nil {
			return nil, err
		}
		if r.OnObject != nil {
			r.OnObject(i+1, len(items), items[i].ObjectID)
		}
	}

	r.stats.Objects = len(items)
	r.stats.Duration = time.Since(start)
	logger.Debug("frame rendered",
		zap.Int("objects", r.stats.Objects),
		zap.Int("triangles", r.stats.Triangles),
		zap.Int("fragments", r.stats.Fragments),
		zap.Duration("duration", r.stats.Duration),
	)
	return r.fb.Color, nil
}

func (r *Renderer) drawItem(ctx context.Context, item *scene.DrawItem, view, proj math.Mat4, light lighting.PointLight) error {
	var modelView math.Mat4
	math.MulInto(&modelView, &view, &item.Model)

	var normalMat math.Mat3
	if err := math.InverseTranspose3x3Into(&normalMat, &modelView); err != nil {
		return fmt.Errorf("object %q: normal matrix: %w", item.ObjectID, err)
	}

	tex, err := r.texture(item.Material)
	if err != nil {
		return fmt.Errorf("object %q: %w", item.ObjectID, err)
	}

	m := item.Mesh
	n := m.VertexCount()
	if cap(r.vertices) < n {
		r.vertices = make([]raster.Vertex, n)
	}
	verts := r.vertices[:n]
	for i := range verts {
		idx := uint32(i)
		p := modelView.TransformPoint(m.Position(idx))
		verts[i] = raster.Vertex{
			Clip: proj.MulVec4(p.Vec4(1)),
			Varyings: raster.Varyings{
				Position: p,
				Normal:   normalMat.MulVec3(m.Normal(idx)),
				UV:       m.UV(idx),
			},
		}
	}

	shade := fragmentShader(item.Material, light, tex)
	st, err := r.raster.DrawTriangles(ctx, r.fb, verts, m.Indices, shade)
	r.stats.Add(st)
	if err != nil {
		return fmt.Errorf("object %q: %w", item.ObjectID, err)
	}
	return nil
}

func (r *Renderer) texture(mat lighting.Material) (*texture.Texture, error) {
	if !mat.HasTexture() || r.textures == nil {
		return nil, nil
	}
	return r.textures.Get(mat.Texture)
}

// fragmentShader evaluates Blinn-Phong in view space, where the camera
// sits at the origin.
func fragmentShader(mat lighting.Material, light lighting.PointLight, tex *texture.Texture) raster.FragmentFunc {
	return func(f *raster.Fragment) lighting.Color {
		l := light.DirectionFrom(f.Position)
		v := f.Position.Negate()

		var texel *lighting.Color
		if tex != nil {
			c := tex.Sample(f.UV.X, f.UV.Y)
			texel = &c
		}
		return lighting.Shade(f.Normal, l, v, mat, light.Intensity, texel)
	}
}

func aspect(w, h int) float32 {
	if h == 0 {
		return 0
	}
	return float32(w) / float32(h)
}
