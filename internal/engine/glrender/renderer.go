// Package glrender draws scenes with OpenGL 4.1 for the interactive viewer.
// It shades with the same Blinn-Phong terms as the software renderer.
package glrender

import (
	"fmt"

	"github.com/go-gl/gl/v4.1-core/gl"
	"go.uber.org/zap"

	"github.com/Faultbox/scenekit/internal/engine/camera"
	"github.com/Faultbox/scenekit/internal/engine/glrender/shaders"
	"github.com/Faultbox/scenekit/internal/engine/lighting"
	"github.com/Faultbox/scenekit/internal/engine/scene"
	"github.com/Faultbox/scenekit/internal/engine/shader"
	"github.com/Faultbox/scenekit/internal/engine/texture"
	"github.com/Faultbox/scenekit/internal/logger"
	"github.com/Faultbox/scenekit/pkg/math"
)

// Uniform names used by the embedded shaders.
const (
	uniformProjection     = "uProjection"
	uniformView           = "uView"
	uniformModel          = "uModel"
	uniformNormalMatrix   = "uNormalMatrix"
	uniformLightPosition  = "uLightPosition"
	uniformLightIntensity = "uLightIntensity"
	uniformKa             = "uKa"
	uniformKd             = "uKd"
	uniformKs             = "uKs"
	uniformShininess      = "uShininess"
	uniformTexture        = "uTexture"
	uniformHasTexture     = "uHasTexture"
	uniformMVP            = "uMVP"
	uniformColor          = "uColor"
)

// boundsColor is the wireframe color for bounding boxes.
var boundsColor = math.Vec3{X: 1, Y: 0.6, Z: 0}

// Config holds renderer configuration.
type Config struct {
	Width         int
	Height        int
	Projection    camera.Projection
	ClearColor    lighting.Color
	CullBackFaces bool
}

// Stats describes the last frame.
type Stats struct {
	Objects   int
	DrawCalls int
}

// Renderer owns the GPU resources for one scene.
// IMPORTANT: all methods must be called on the thread owning the GL context.
type Renderer struct {
	config   Config
	textures *texture.Cache

	program *shader.Program
	lines   *shader.Program

	meshes   map[string]*gpuMesh
	texIDs   map[string]uint32
	stats    Stats
	uploaded *scene.Scene

	// ShowBounds draws each object's bounding box.
	ShowBounds bool
}

// New initializes OpenGL and compiles the shaders. It must be called after
// the GL context is created. textures may be nil.
func New(cfg Config, textures *texture.Cache) (*Renderer, error) {
	if err := gl.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize OpenGL: %w", err)
	}
	logger.Info("OpenGL initialized",
		zap.String("version", gl.GoStr(gl.GetString(gl.VERSION))),
		zap.String("renderer", gl.GoStr(gl.GetString(gl.RENDERER))),
	)

	program, err := shader.Compile(shaders.BlinnPhongVertexShader, shaders.BlinnPhongFragmentShader)
	if err != nil {
		return nil, fmt.Errorf("blinn-phong shader: %w", err)
	}
	lines, err := shader.Compile(shaders.LineVertexShader, shaders.LineFragmentShader)
	if err != nil {
		program.Delete()
		return nil, fmt.Errorf("line shader: %w", err)
	}

	r := &Renderer{
		config:   cfg,
		textures: textures,
		program:  program,
		lines:    lines,
		meshes:   make(map[string]*gpuMesh),
		texIDs:   make(map[string]uint32),
	}

	gl.Enable(gl.DEPTH_TEST)
	gl.DepthFunc(gl.LESS)
	if cfg.CullBackFaces {
		gl.Enable(gl.CULL_FACE)
		gl.CullFace(gl.BACK)
		gl.FrontFace(gl.CCW)
	}
	c := cfg.ClearColor.Clamp()
	gl.ClearColor(c.R, c.G, c.B, 1)
	r.Resize(cfg.Width, cfg.Height)

	return r, nil
}

// Config returns the renderer configuration.
func (r *Renderer) Config() Config {
	return r.config
}

// Stats returns statistics for the last frame.
func (r *Renderer) Stats() Stats {
	return r.stats
}

// Resize sets the viewport to the drawable size.
func (r *Renderer) Resize(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	r.config.Width = width
	r.config.Height = height
	gl.Viewport(0, 0, int32(width), int32(height))
	logger.Debug("renderer resized", zap.Int("width", width), zap.Int("height", height))
}

// Upload replaces the GPU meshes and textures with those of s.
func (r *Renderer) Upload(s *scene.Scene) error {
	r.release()

	for _, id := range s.MeshIDs() {
		m, _ := s.Mesh(id)
		r.meshes[id] = uploadMesh(m)
	}

	if r.textures != nil {
		for _, path := range s.TexturePaths() {
			tex, err := r.textures.Get(path)
			if err != nil {
				r.release()
				return err
			}
			r.texIDs[path] = uploadTexture(tex.Image())
		}
	}

	r.uploaded = s
	logger.Debug("scene uploaded", zap.Int("meshes", len(r.meshes)), zap.Int("textures", len(r.texIDs)))
	return nil
}

// Render draws s as seen from cam. The scene is uploaded on first use.
func (r *Renderer) Render(s *scene.Scene, cam camera.Camera) error {
	if r.uploaded != s {
		if err := r.Upload(s); err != nil {
			return err
		}
	}

	view, err := cam.ViewMatrix()
	if err != nil {
		return err
	}
	proj, err := r.config.Projection.Matrix(float32(r.config.Width) / float32(r.config.Height))
	if err != nil {
		return err
	}
	items, err := s.DrawList()
	if err != nil {
		return err
	}
	light, _ := s.Light()
	light = light.InSpace(view)

	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)
	r.stats = Stats{Objects: len(items)}

	r.program.Use()
	r.program.SetMat4(uniformProjection, &proj)
	r.program.SetMat4(uniformView, &view)
	r.program.SetVec3(uniformLightPosition, light.Position)
	r.program.SetVec3(uniformLightIntensity, light.Intensity.Vec3())
	r.program.SetInt(uniformTexture, 0)
	gl.ActiveTexture(gl.TEXTURE0)

	var modelView math.Mat4
	var normalMat math.Mat3
	for i := range items {
		item := &items[i]
		g := r.meshes[item.MeshID]
		if g == nil {
			continue
		}

		math.MulInto(&modelView, &view, &item.Model)
		if err := math.InverseTranspose3x3Into(&normalMat, &modelView); err != nil {
			return fmt.Errorf("object %q: normal matrix: %w", item.ObjectID, err)
		}

		mat := item.Material
		r.program.SetMat4(uniformModel, &item.Model)
		r.program.SetMat3(uniformNormalMatrix, &normalMat)
		r.program.SetVec3(uniformKa, mat.Ambient.Vec3())
		r.program.SetVec3(uniformKd, mat.Diffuse.Vec3())
		r.program.SetVec3(uniformKs, mat.Specular.Vec3())
		r.program.SetFloat(uniformShininess, mat.Shininess)

		texID, hasTexture := r.texIDs[mat.Texture]
		hasTexture = hasTexture && mat.HasTexture()
		r.program.SetBool(uniformHasTexture, hasTexture)
		if hasTexture {
			gl.BindTexture(gl.TEXTURE_2D, texID)
		}

		g.draw()
		r.stats.DrawCalls++
	}

	if r.ShowBounds {
		r.drawBounds(items, view, proj)
	}

	gl.BindVertexArray(0)
	gl.BindTexture(gl.TEXTURE_2D, 0)
	return nil
}

func (r *Renderer) drawBounds(items []scene.DrawItem, view, proj math.Mat4) {
	var viewProj, mvp math.Mat4
	math.MulInto(&viewProj, &proj, &view)

	r.lines.Use()
	r.lines.SetVec3(uniformColor, boundsColor)
	for i := range items {
		g := r.meshes[items[i].MeshID]
		if g == nil {
			continue
		}
		math.MulInto(&mvp, &viewProj, &items[i].Model)
		r.lines.SetMat4(uniformMVP, &mvp)
		g.drawBounds()
		r.stats.DrawCalls++
	}
}

// ReadPixels returns the back buffer as bottom-up RGBA rows.
func (r *Renderer) ReadPixels() []byte {
	w, h := r.config.Width, r.config.Height
	pixels := make([]byte, w*h*4)
	gl.PixelStorei(gl.PACK_ALIGNMENT, 1)
	gl.ReadPixels(0, 0, int32(w), int32(h), gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(pixels))
	return pixels
}

func (r *Renderer) release() {
	for id, g := range r.meshes {
		g.delete()
		delete(r.meshes, id)
	}
	for path, tex := range r.texIDs {
		gl.DeleteTextures(1, &tex)
		delete(r.texIDs, path)
	}
	r.uploaded = nil
}

// Close releases all GPU resources.
func (r *Renderer) Close() {
	logger.Debug("closing GL renderer")
	r.release()
	if r.program != nil {
		r.program.Delete()
	}
	if r.lines != nil {
		r.lines.Delete()
	}
}
