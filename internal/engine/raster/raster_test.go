package raster

import (
	"bytes"
	"context"
	"errors"
	"image/color"
	"testing"

	"github.com/Faultbox/scenekit/internal/engine/lighting"
	"github.com/Faultbox/scenekit/pkg/math"
)

var (
	red   = lighting.Color{R: 1}
	green = lighting.Color{G: 1}
	white = color.RGBA{255, 255, 255, 255}
)

func solid(c lighting.Color) FragmentFunc {
	return func(*Fragment) lighting.Color { return c }
}

func clipVertex(x, y, z, w float32) Vertex {
	return Vertex{Clip: math.Vec4{x, y, z, w}}
}

// fullScreen returns two CCW triangles covering NDC at depth z.
func fullScreen(z float32) ([]Vertex, []uint32) {
	return []Vertex{
		clipVertex(-1, -1, z, 1),
		clipVertex(1, -1, z, 1),
		clipVertex(1, 1, z, 1),
		clipVertex(-1, 1, z, 1),
	}, []uint32{0, 1, 2, 0, 2, 3}
}

func newFB(t *testing.T, w, h int) *Framebuffer {
	t.Helper()
	fb, err := NewFramebuffer(w, h)
	if err != nil {
		t.Fatal(err)
	}
	fb.Clear(white)
	return fb
}

func TestNewFramebufferInvalid(t *testing.T) {
	for _, size := range [][2]int{{0, 10}, {10, 0}, {-1, -1}} {
		if _, err := NewFramebuffer(size[0], size[1]); !errors.Is(err, ErrInvalidSize) {
			t.Errorf("NewFramebuffer(%v) err = %v, want ErrInvalidSize", size, err)
		}
	}
}

func TestClear(t *testing.T) {
	fb := newFB(t, 4, 3)
	if got := fb.Color.RGBAAt(3, 2); got != white {
		t.Errorf("color = %v, want white", got)
	}
	if fb.DepthAt(2, 1) != ClearDepth {
		t.Errorf("depth = %f, want %f", fb.DepthAt(2, 1), ClearDepth)
	}
}

func TestResize(t *testing.T) {
	fb := newFB(t, 8, 8)
	if err := fb.Resize(4, 2); err != nil {
		t.Fatal(err)
	}
	if w, h := fb.Size(); w != 4 || h != 2 || len(fb.Depth) != 8 {
		t.Errorf("size = %dx%d depth %d", w, h, len(fb.Depth))
	}
	if err := fb.Resize(0, 2); !errors.Is(err, ErrInvalidSize) {
		t.Errorf("err = %v, want ErrInvalidSize", err)
	}
}

func TestDrawFullScreen(t *testing.T) {
	fb := newFB(t, 16, 9)
	verts, idx := fullScreen(0)

	var r Rasterizer
	stats, err := r.DrawTriangles(context.Background(), fb, verts, idx, solid(red))
	if err != nil {
		t.Fatal(err)
	}
	if stats.Triangles != 2 || stats.Fragments != 16*9 {
		t.Errorf("stats = %+v, want 2 triangles and %d fragments", stats, 16*9)
	}
	for y := 0; y < 9; y++ {
		for x := 0; x < 16; x++ {
			if got := fb.Color.RGBAAt(x, y); got != red.RGBA8() {
				t.Fatalf("pixel (%d, %d) = %v, want red", x, y, got)
			}
			if fb.DepthAt(x, y) != 0.5 {
				t.Fatalf("depth (%d, %d) = %f, want 0.5", x, y, fb.DepthAt(x, y))
			}
		}
	}
}

func TestDepthTestKeepsNearer(t *testing.T) {
	near, idx := fullScreen(-0.5)
	far, _ := fullScreen(0.5)

	orders := []struct {
		name  string
		first []Vertex
		c1    lighting.Color
		then  []Vertex
		c2    lighting.Color
	}{
		{"far first", far, red, near, green},
		{"near first", near, green, far, red},
	}

	for _, o := range orders {
		t.Run(o.name, func(t *testing.T) {
			fb := newFB(t, 8, 8)
			var r Rasterizer
			if _, err := r.DrawTriangles(context.Background(), fb, o.first, idx, solid(o.c1)); err != nil {
				t.Fatal(err)
			}
			if _, err := r.DrawTriangles(context.Background(), fb, o.then, idx, solid(o.c2)); err != nil {
				t.Fatal(err)
			}
			if got := fb.Color.RGBAAt(4, 4); got != green.RGBA8() {
				t.Errorf("center = %v, want the nearer green", got)
			}
		})
	}
}

func TestNearPlaneRejection(t *testing.T) {
	fb := newFB(t, 8, 8)
	verts := []Vertex{
		clipVertex(-1, -1, 0, 1),
		clipVertex(1, -1, 0, -1),
		clipVertex(0, 1, 0, 1),
	}
	var r Rasterizer
	stats, err := r.DrawTriangles(context.Background(), fb, verts, nil, solid(red))
	if err != nil {
		t.Fatal(err)
	}
	if stats.Clipped != 1 || stats.Fragments != 0 {
		t.Errorf("stats = %+v, want 1 clipped, 0 fragments", stats)
	}
}

func TestBackFaceCulling(t *testing.T) {
	ccw := []Vertex{clipVertex(-1, -1, 0, 1), clipVertex(1, -1, 0, 1), clipVertex(0, 1, 0, 1)}
	cw := []Vertex{ccw[0], ccw[2], ccw[1]}

	tests := []struct {
		name      string
		cull      CullMode
		verts     []Vertex
		wantDrawn bool
		wantFront bool
	}{
		{"ccw no cull", CullNone, ccw, true, true},
		{"cw no cull", CullNone, cw, true, false},
		{"ccw cull back", CullBack, ccw, true, true},
		{"cw cull back", CullBack, cw, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fb := newFB(t, 8, 8)
			// One worker: the callback below records state.
			r := Rasterizer{Workers: 1, Cull: tt.cull}
			front := false
			stats, err := r.DrawTriangles(context.Background(), fb, tt.verts, nil, func(f *Fragment) lighting.Color {
				front = f.FrontFacing
				return red
			})
			if err != nil {
				t.Fatal(err)
			}
			if drawn := stats.Fragments > 0; drawn != tt.wantDrawn {
				t.Fatalf("drawn = %v, want %v (stats %+v)", drawn, tt.wantDrawn, stats)
			}
			if tt.wantDrawn && front != tt.wantFront {
				t.Errorf("FrontFacing = %v, want %v", front, tt.wantFront)
			}
		})
	}
}

func TestPerspectiveCorrectVaryings(t *testing.T) {
	const w, h = 64, 48
	proj, err := math.Perspective(math.Radians(60), float32(w)/h, 0.1, 100)
	if err != nil {
		t.Fatal(err)
	}

	// A triangle receding in depth, so affine interpolation would drift.
	view := []math.Vec3{{X: -2, Y: -1, Z: -2}, {X: 2, Y: -1, Z: -12}, {X: 0, Y: 2, Z: -3}}
	verts := make([]Vertex, 3)
	for i, p := range view {
		verts[i] = Vertex{Clip: proj.MulVec4(p.Vec4(1)), Varyings: Varyings{Position: p}}
	}

	fb := newFB(t, w, h)
	r := Rasterizer{Workers: 1}
	worst := float32(0)
	stats, err := r.DrawTriangles(context.Background(), fb, verts, nil, func(f *Fragment) lighting.Color {
		// Reproject the interpolated view-space position; it must land on
		// the pixel center.
		ndc, ok := proj.MulVec4(f.Position.Vec4(1)).PerspectiveDivide()
		if !ok {
			t.Errorf("fragment (%d, %d): bad position %v", f.X, f.Y, f.Position)
			return red
		}
		sx := (ndc.X*0.5 + 0.5) * w
		sy := (1 - (ndc.Y*0.5 + 0.5)) * h
		dx, dy := sx-(float32(f.X)+0.5), sy-(float32(f.Y)+0.5)
		if d := dx*dx + dy*dy; d > worst {
			worst = d
		}
		return red
	})
	if err != nil {
		t.Fatal(err)
	}
	if stats.Fragments == 0 {
		t.Fatal("triangle produced no fragments")
	}
	if worst > 1e-3 {
		t.Errorf("worst squared reprojection error %f px", worst)
	}
}

func TestWorkersProduceSameImage(t *testing.T) {
	verts := []Vertex{
		clipVertex(-0.9, -0.8, 0.2, 1),
		clipVertex(0.7, -0.6, -0.3, 1),
		clipVertex(0.1, 0.9, 0.6, 1),
		clipVertex(-0.5, 0.5, -0.8, 1),
		clipVertex(0.9, 0.2, 0.9, 1),
		clipVertex(-0.2, -0.9, -0.1, 1),
	}
	gradient := func(f *Fragment) lighting.Color {
		return lighting.Color{R: float32(f.X) / 64, G: float32(f.Y) / 64, B: f.Depth}
	}

	var images [][]byte
	for _, workers := range []int{1, 3, 16} {
		fb := newFB(t, 64, 64)
		r := Rasterizer{Workers: workers}
		if _, err := r.DrawTriangles(context.Background(), fb, verts, nil, gradient); err != nil {
			t.Fatal(err)
		}
		images = append(images, fb.Color.Pix)
	}
	for i := 1; i < len(images); i++ {
		if !bytes.Equal(images[0], images[i]) {
			t.Errorf("image %d differs from single-worker render", i)
		}
	}
}

func TestCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	fb := newFB(t, 8, 8)
	verts, idx := fullScreen(0)
	var r Rasterizer
	if _, err := r.DrawTriangles(ctx, fb, verts, idx, solid(red)); !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
}

func TestEmptyIndicesDrawNothing(t *testing.T) {
	fb := newFB(t, 8, 8)
	verts, _ := fullScreen(0)
	var r Rasterizer

	// Four pole vertices with no triangles, as a one-stack sphere has.
	stats, err := r.DrawTriangles(context.Background(), fb, verts, []uint32{}, solid(red))
	if err != nil {
		t.Fatal(err)
	}
	if stats.Triangles != 0 || stats.Fragments != 0 {
		t.Errorf("stats = %+v, want nothing drawn", stats)
	}
	if got := fb.Color.RGBAAt(4, 4); got != white {
		t.Errorf("pixel = %v, want untouched background", got)
	}
}

func TestOutOfRangeIndex(t *testing.T) {
	fb := newFB(t, 8, 8)
	verts, _ := fullScreen(0)
	var r Rasterizer
	stats, err := r.DrawTriangles(context.Background(), fb, verts, []uint32{0, 1, 7}, solid(red))
	if err != nil {
		t.Fatal(err)
	}
	if stats.Culled != 1 || stats.Fragments != 0 {
		t.Errorf("stats = %+v", stats)
	}
}
