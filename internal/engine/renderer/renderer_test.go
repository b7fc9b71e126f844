package renderer

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"testing"

	"github.com/Faultbox/scenekit/internal/engine/camera"
	"github.com/Faultbox/scenekit/internal/engine/lighting"
	"github.com/Faultbox/scenekit/internal/engine/picking"
	"github.com/Faultbox/scenekit/internal/engine/scene"
	"github.com/Faultbox/scenekit/internal/engine/texture"
	"github.com/Faultbox/scenekit/internal/engine/transform"
	"github.com/Faultbox/scenekit/pkg/formats"
	"github.com/Faultbox/scenekit/pkg/math"
)

var black = color.RGBA{0, 0, 0, 255}

func testConfig() Config {
	cfg := DefaultConfig()
	cfg.Width, cfg.Height = 64, 48
	cfg.ClearColor = lighting.Color{}
	return cfg
}

// sphereScene is a unit sphere at the origin seen from +Z, lit from the
// camera position.
func sphereScene(t *testing.T, mat lighting.Material, lightPos math.Vec3) *scene.Scene {
	t.Helper()
	s := scene.New()
	if err := s.AddSphere("ball", 16, 32); err != nil {
		t.Fatal(err)
	}
	if err := s.AddMaterial("mat", mat); err != nil {
		t.Fatal(err)
	}
	if err := s.AddObject("ball", "ball", "mat"); err != nil {
		t.Fatal(err)
	}
	s.AddLight("light", lighting.PointLight{Position: lightPos, Intensity: lighting.Gray(1)})
	s.SetCamera(camera.Camera{Position: math.Vec3{Z: 5}, Up: math.Vec3{Y: 1}})
	return s
}

// imageCache serves images from memory through the cache's Loader.
func imageCache(t *testing.T, images map[string]image.Image) *texture.Cache {
	t.Helper()
	encoded := make(map[string][]byte, len(images))
	for name, img := range images {
		var buf bytes.Buffer
		if err := png.Encode(&buf, img); err != nil {
			t.Fatal(err)
		}
		encoded[name] = buf.Bytes()
	}
	c := texture.NewCache("", 0)
	c.Loader = func(path string) ([]byte, error) {
		data, ok := encoded[path]
		if !ok {
			return nil, os.ErrNotExist
		}
		return data, nil
	}
	return c
}

func render(t *testing.T, r *Renderer, s *scene.Scene) *image.RGBA {
	t.Helper()
	img, err := r.Render(context.Background(), s)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	return img
}

func TestRenderSphereCoversCenterOnly(t *testing.T) {
	r, err := New(testConfig(), nil)
	if err != nil {
		t.Fatal(err)
	}
	mat := lighting.Material{Ambient: lighting.Gray(0.1), Diffuse: lighting.Gray(0.8)}
	img := render(t, r, sphereScene(t, mat, math.Vec3{Z: 5}))

	center := img.RGBAAt(32, 24)
	if center.R < 200 || center.R > 235 {
		t.Errorf("center = %v, want lit sphere around 0.9", center)
	}
	for _, p := range []image.Point{{0, 0}, {63, 0}, {0, 47}, {63, 47}} {
		if got := img.RGBAAt(p.X, p.Y); got != black {
			t.Errorf("corner %v = %v, want background", p, got)
		}
	}

	st := r.Stats()
	if st.Objects != 1 || st.Triangles != 2*16*32-2*32 || st.Fragments == 0 {
		t.Errorf("stats = %+v", st)
	}
}

func TestRenderLightBehindLeavesAmbient(t *testing.T) {
	r, err := New(testConfig(), nil)
	if err != nil {
		t.Fatal(err)
	}
	mat := lighting.Material{Ambient: lighting.Gray(0.2), Diffuse: lighting.Gray(0.8)}
	img := render(t, r, sphereScene(t, mat, math.Vec3{Z: -50}))

	want := lighting.Gray(0.2).RGBA8()
	if got := img.RGBAAt(32, 24); got != want {
		t.Errorf("center = %v, want ambient %v", got, want)
	}
}

func TestRenderTexture(t *testing.T) {
	red := image.NewRGBA(image.Rect(0, 0, 4, 4))
	for i := 0; i < len(red.Pix); i += 4 {
		red.Pix[i], red.Pix[i+3] = 255, 255
	}
	cache := imageCache(t, map[string]image.Image{"red.png": red})

	r, err := New(testConfig(), cache)
	if err != nil {
		t.Fatal(err)
	}
	mat := lighting.Material{Diffuse: lighting.Gray(1), Texture: "red.png"}
	img := render(t, r, sphereScene(t, mat, math.Vec3{Z: 5}))

	c := img.RGBAAt(32, 24)
	if c.R < 200 || c.G != 0 || c.B != 0 {
		t.Errorf("center = %v, want texture-modulated red", c)
	}
}

// TestRenderTextureOnRecedingFace checks UV interpolation end to end: the
// cube's +Z face is turned 60 degrees away from the camera, so its depth
// varies across the screen, and every shaded pixel must show the texel at
// the U found by casting a ray from that pixel onto the face.
func TestRenderTextureOnRecedingFace(t *testing.T) {
	const texW = 256
	ramp := image.NewRGBA(image.Rect(0, 0, texW, 1))
	for x := 0; x < texW; x++ {
		ramp.SetRGBA(x, 0, color.RGBA{uint8(x), 255, 0, 255})
	}

	rotation := transform.RotateYOp(60)
	model, err := transform.Compose(transform.Sequence{rotation})
	if err != nil {
		t.Fatal(err)
	}
	cam := camera.Camera{Position: math.Vec3{Z: 4}, Up: math.Vec3{Y: 1}}

	s := scene.New()
	if err := s.AddCube("box"); err != nil {
		t.Fatal(err)
	}
	if err := s.AddMaterial("ramp", lighting.Material{Diffuse: lighting.Gray(1), Texture: "ramp.png"}); err != nil {
		t.Fatal(err)
	}
	if err := s.AddObject("face", "box", "ramp"); err != nil {
		t.Fatal(err)
	}
	s.PushTransform("face", rotation)
	// Far along the face normal, so N·L is 1 to within rounding.
	s.AddLight("sun", lighting.PointLight{
		Position:  model.TransformDirection(math.Vec3{Z: 1}).Scale(1000),
		Intensity: lighting.Gray(1),
	})
	s.SetCamera(cam)

	cfg := testConfig()
	cfg.Width, cfg.Height = 128, 96
	r, err := New(cfg, imageCache(t, map[string]image.Image{"ramp.png": ramp}))
	if err != nil {
		t.Fatal(err)
	}
	img := render(t, r, s)

	view, err := cam.ViewMatrix()
	if err != nil {
		t.Fatal(err)
	}
	proj, err := cfg.Projection.Matrix(float32(cfg.Width) / float32(cfg.Height))
	if err != nil {
		t.Fatal(err)
	}
	invViewProj, err := proj.Mul(view).Inverse()
	if err != nil {
		t.Fatal(err)
	}
	invModel, err := model.Inverse()
	if err != nil {
		t.Fatal(err)
	}

	checked := 0
	for y := 0; y < cfg.Height; y++ {
		for x := 0; x < cfg.Width; x++ {
			ray, ok := picking.ScreenToRay(float32(x)+0.5, float32(y)+0.5,
				float32(cfg.Width), float32(cfg.Height), invViewProj)
			if !ok {
				continue
			}
			o := invModel.TransformPoint(ray.Origin)
			d := invModel.TransformDirection(ray.Direction)
			if d.Z > -1e-6 {
				continue
			}
			p := o.Add(d.Scale((1 - o.Z) / d.Z))
			// Keep clear of the face edges.
			if p.X < -0.9 || p.X > 0.9 || p.Y < -0.9 || p.Y > 0.9 {
				continue
			}

			// The +Z face maps x in [-1, 1] onto the atlas column u in
			// [0, 0.5]; the ramp's red channel equals the texel column.
			u := (p.X + 1) / 4
			want := u*texW - 0.5
			got := img.RGBAAt(x, y)
			if got.G < 250 {
				t.Fatalf("pixel (%d, %d) = %v, not on the lit face", x, y, got)
			}
			if diff := float32(got.R) - want; diff > 1.5 || diff < -1.5 {
				t.Errorf("pixel (%d, %d) red = %d, want %.1f", x, y, got.R, want)
			}
			checked++
		}
	}
	if checked < 200 {
		t.Fatalf("only %d pixels landed on the face", checked)
	}
}

func TestRenderMissingTexture(t *testing.T) {
	r, err := New(testConfig(), texture.NewCache(t.TempDir(), 0))
	if err != nil {
		t.Fatal(err)
	}
	mat := lighting.Material{Diffuse: lighting.Gray(1), Texture: "missing.png"}
	if _, err := r.Render(context.Background(), sphereScene(t, mat, math.Vec3{Z: 5})); err == nil {
		t.Error("expected error for missing texture")
	}
}

// boxScene places a large red box behind a small green one, declaring the
// objects in the given order.
func boxScene(t *testing.T, order ...string) *scene.Scene {
	t.Helper()
	s := scene.New()
	if err := s.AddCube("box"); err != nil {
		t.Fatal(err)
	}
	_ = s.AddMaterial("red", lighting.Material{Ambient: lighting.Color{R: 1}})
	_ = s.AddMaterial("green", lighting.Material{Ambient: lighting.Color{G: 1}})
	for _, id := range order {
		switch id {
		case "far":
			_ = s.AddObject("far", "box", "red")
			s.PushTransform("far", transform.TranslateOp(0, 0, -3))
			s.PushTransform("far", transform.ScaleOp(2, 2, 2))
		case "near":
			_ = s.AddObject("near", "box", "green")
			s.PushTransform("near", transform.ScaleOp(0.5, 0.5, 0.5))
		}
	}
	s.SetCamera(camera.Camera{Position: math.Vec3{Z: 6}, Up: math.Vec3{Y: 1}})
	return s
}

func TestRenderDepthOrder(t *testing.T) {
	tests := []struct {
		name  string
		order []string
	}{
		{"far first", []string{"far", "near"}},
		{"near first", []string{"near", "far"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := New(testConfig(), nil)
			if err != nil {
				t.Fatal(err)
			}
			img := render(t, r, boxScene(t, tt.order...))
			if got := img.RGBAAt(32, 24); got != (color.RGBA{0, 255, 0, 255}) {
				t.Errorf("center = %v, want near green box", got)
			}
			// The far box is larger on screen than the near one.
			if got := img.RGBAAt(32, 24-10); got != (color.RGBA{255, 0, 0, 255}) {
				t.Errorf("above center = %v, want far red box", got)
			}
		})
	}
}

func TestRenderErrors(t *testing.T) {
	r, err := New(testConfig(), nil)
	if err != nil {
		t.Fatal(err)
	}

	noCam := scene.New()
	if _, err := r.Render(context.Background(), noCam); !errors.Is(err, scene.ErrNoCamera) {
		t.Errorf("no camera: err = %v, want ErrNoCamera", err)
	}

	flat := sphereScene(t, lighting.Material{}, math.Vec3{Z: 5})
	flat.PushTransform("ball", transform.ScaleOp(1, 0, 1))
	if _, err := r.Render(context.Background(), flat); !errors.Is(err, math.ErrSingularMatrix) {
		t.Errorf("flattened object: err = %v, want ErrSingularMatrix", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := r.Render(ctx, sphereScene(t, lighting.Material{}, math.Vec3{Z: 5})); !errors.Is(err, context.Canceled) {
		t.Errorf("cancelled: err = %v, want context.Canceled", err)
	}
}

func TestNewInvalidConfig(t *testing.T) {
	cfg := testConfig()
	cfg.Width = 0
	if _, err := New(cfg, nil); err == nil {
		t.Error("expected error for zero width")
	}

	cfg = testConfig()
	cfg.Projection.Near = 0
	if _, err := New(cfg, nil); !errors.Is(err, math.ErrInvalidProjection) {
		t.Errorf("err = %v, want ErrInvalidProjection", err)
	}
}

func TestRenderDefaultScene(t *testing.T) {
	desc, err := formats.ParseScene([]byte(formats.DefaultScene))
	if err != nil {
		t.Fatal(err)
	}
	s, err := scene.FromDescription(desc)
	if err != nil {
		t.Fatal(err)
	}

	cfg := testConfig()
	cfg.ClearColor = lighting.Gray(0.9)
	blue := image.NewRGBA(image.Rect(0, 0, 2, 2))
	for i := 0; i < len(blue.Pix); i += 4 {
		blue.Pix[i+2], blue.Pix[i+3] = 255, 255
	}
	cache := imageCache(t, map[string]image.Image{"globe.jpg": blue})
	r, err := New(cfg, cache)
	if err != nil {
		t.Fatal(err)
	}

	var progress []string
	r.OnObject = func(done, total int, id string) {
		progress = append(progress, id)
	}
	img := render(t, r, s)

	if len(progress) != 1 || progress[0] != "gl" {
		t.Errorf("progress = %v, want [gl]", progress)
	}
	bg := lighting.Gray(0.9).RGBA8()
	if img.RGBAAt(0, 0) != bg {
		t.Errorf("corner = %v, want background", img.RGBAAt(0, 0))
	}
	covered := 0
	for y := 0; y < 48; y++ {
		for x := 0; x < 64; x++ {
			if img.RGBAAt(x, y) != bg {
				covered++
			}
		}
	}
	if covered == 0 {
		t.Error("globe not drawn")
	}
}

func TestResize(t *testing.T) {
	r, err := New(testConfig(), nil)
	if err != nil {
		t.Fatal(err)
	}
	if err := r.Resize(32, 32); err != nil {
		t.Fatal(err)
	}
	img := render(t, r, sphereScene(t, lighting.Material{Ambient: lighting.Gray(1)}, math.Vec3{}))
	if img.Rect.Dx() != 32 || img.Rect.Dy() != 32 {
		t.Errorf("image = %v, want 32x32", img.Rect)
	}
	if r.Config().Width != 32 {
		t.Errorf("config width = %d", r.Config().Width)
	}
}
