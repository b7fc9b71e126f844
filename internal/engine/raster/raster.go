package raster

import (
	"context"
	gomath "math"
	"runtime"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"github.com/Faultbox/scenekit/internal/engine/lighting"
	"github.com/Faultbox/scenekit/pkg/math"
)

// CullMode selects which triangles are discarded by winding.
type CullMode uint8

const (
	CullNone CullMode = iota // draw both faces
	CullBack                 // drop triangles that are clockwise in NDC
)

// nearW is the smallest clip-space w accepted. Triangles with any vertex
// at or behind it are dropped instead of clipped.
const nearW = 1e-6

// bandsPerWorker splits the frame finer than the worker count so uneven
// bands balance out.
const bandsPerWorker = 4

// Varyings are the per-vertex attributes interpolated across a triangle.
type Varyings struct {
	Position math.Vec3 // view-space position
	Normal   math.Vec3 // view-space normal
	UV       math.Vec2
}

// Vertex is a transformed vertex ready for rasterization.
type Vertex struct {
	Clip math.Vec4 // clip-space position
	Varyings
}

// Fragment is one covered pixel passed to the shading callback.
type Fragment struct {
	X, Y        int
	Depth       float32
	FrontFacing bool
	Varyings
}

// FragmentFunc shades a fragment. It runs concurrently for fragments of
// different row bands and must not mutate shared state.
type FragmentFunc func(f *Fragment) lighting.Color

// Stats counts the work done by one DrawTriangles call.
type Stats struct {
	Triangles int // submitted
	Clipped   int // rejected at the near plane
	Culled    int // rejected by winding or zero area
	Fragments int // passed the depth test and were shaded
}

// Add accumulates o into s.
func (s *Stats) Add(o Stats) {
	s.Triangles += o.Triangles
	s.Clipped += o.Clipped
	s.Culled += o.Culled
	s.Fragments += o.Fragments
}

// Rasterizer fills triangles into a Framebuffer.
type Rasterizer struct {
	Workers int // parallel row bands; 0 means GOMAXPROCS
	Cull    CullMode
}

// setup is a triangle after projection and viewport mapping.
type setup struct {
	x, y     [3]float32 // window coordinates
	z        [3]float32 // depth in [0, 1]
	invW     [3]float32
	attr     [3][8]float32 // varyings premultiplied by 1/w
	invArea  float32
	front    bool
	minX     int
	maxX     int
	minY     int
	maxY     int
}

func (r *Rasterizer) workers() int {
	if r.Workers > 0 {
		return r.Workers
	}
	return runtime.GOMAXPROCS(0)
}

// DrawTriangles rasterizes the indexed triangle list into fb, calling
// shade for every fragment that passes the LESS depth test. A nil index
// slice draws vertices as a sequential list; an empty one draws nothing. Within a pixel,
// triangles resolve in submission order. The frame is aborted when ctx
// is cancelled.
func (r *Rasterizer) DrawTriangles(ctx context.Context, fb *Framebuffer, vertices []Vertex, indices []uint32, shade FragmentFunc) (Stats, error) {
	w, h := fb.Size()

	sequential := indices == nil
	count := len(indices) / 3
	if sequential {
		count = len(vertices) / 3
	}

	stats := Stats{Triangles: count}
	tris := make([]setup, 0, count)
	for i := 0; i < count; i++ {
		var a, b, c int
		if sequential {
			a, b, c = i*3, i*3+1, i*3+2
		} else {
			a, b, c = int(indices[i*3]), int(indices[i*3+1]), int(indices[i*3+2])
		}
		if a >= len(vertices) || b >= len(vertices) || c >= len(vertices) {
			stats.Culled++
			continue
		}

		t, ok := r.setupTriangle(&vertices[a], &vertices[b], &vertices[c], w, h)
		switch {
		case !ok:
			stats.Clipped++
		case t.invArea == 0 || (r.Cull == CullBack && !t.front):
			stats.Culled++
		case t.minX > t.maxX || t.minY > t.maxY:
			// Off screen.
		default:
			tris = append(tris, t)
		}
	}

	if len(tris) == 0 {
		return stats, ctx.Err()
	}

	workers := r.workers()
	bands := min(h, workers*bandsPerWorker)
	bandHeight := (h + bands - 1) / bands

	var fragments atomic.Int64
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for y0 := 0; y0 < h; y0 += bandHeight {
		y1 := min(h, y0+bandHeight)
		g.Go(func() error {
			n, err := fillBand(ctx, fb, tris, y0, y1, shade)
			fragments.Add(int64(n))
			return err
		})
	}

	err := g.Wait()
	stats.Fragments = int(fragments.Load())
	return stats, err
}

func (r *Rasterizer) setupTriangle(v0, v1, v2 *Vertex, w, h int) (setup, bool) {
	var t setup
	for k, v := range [3]*Vertex{v0, v1, v2} {
		cw := v.Clip.W()
		if cw <= nearW {
			return setup{}, false
		}
		inv := 1 / cw
		ndcX, ndcY, ndcZ := v.Clip[0]*inv, v.Clip[1]*inv, v.Clip[2]*inv

		// OpenGL viewport mapping: y grows downward in the image.
		t.x[k] = (ndcX*0.5 + 0.5) * float32(w)
		t.y[k] = (1 - (ndcY*0.5 + 0.5)) * float32(h)
		t.z[k] = ndcZ*0.5 + 0.5
		t.invW[k] = inv
		t.attr[k] = [8]float32{
			v.Position.X * inv, v.Position.Y * inv, v.Position.Z * inv,
			v.Normal.X * inv, v.Normal.Y * inv, v.Normal.Z * inv,
			v.UV.X * inv, v.UV.Y * inv,
		}
	}

	area := edge(t.x[0], t.y[0], t.x[1], t.y[1], t.x[2], t.y[2])
	if area == 0 {
		return t, true
	}
	t.invArea = 1 / area
	// edge is negative for counter-clockwise input in NDC; the y flip of
	// the viewport turns that positive.
	t.front = area > 0

	t.minX = max(0, int(gomath.Floor(float64(min(t.x[0], t.x[1], t.x[2])))))
	t.maxX = min(w-1, int(gomath.Ceil(float64(max(t.x[0], t.x[1], t.x[2])))))
	t.minY = max(0, int(gomath.Floor(float64(min(t.y[0], t.y[1], t.y[2])))))
	t.maxY = min(h-1, int(gomath.Ceil(float64(max(t.y[0], t.y[1], t.y[2])))))
	return t, true
}

// fillBand rasterizes rows [y0, y1) of every triangle. Bands own disjoint
// rows of the color and depth buffers.
func fillBand(ctx context.Context, fb *Framebuffer, tris []setup, y0, y1 int, shade FragmentFunc) (int, error) {
	w, _ := fb.Size()
	pix := fb.Color.Pix
	stride := fb.Color.Stride
	shaded := 0

	var frag Fragment
	for i := range tris {
		if err := ctx.Err(); err != nil {
			return shaded, err
		}
		t := &tris[i]
		ys, ye := max(y0, t.minY), min(y1-1, t.maxY)
		if ys > ye {
			continue
		}

		for y := ys; y <= ye; y++ {
			py := float32(y) + 0.5
			for x := t.minX; x <= t.maxX; x++ {
				px := float32(x) + 0.5

				b0 := edge(t.x[1], t.y[1], t.x[2], t.y[2], px, py) * t.invArea
				b1 := edge(t.x[2], t.y[2], t.x[0], t.y[0], px, py) * t.invArea
				b2 := edge(t.x[0], t.y[0], t.x[1], t.y[1], px, py) * t.invArea
				if b0 < 0 || b1 < 0 || b2 < 0 {
					continue
				}

				z := b0*t.z[0] + b1*t.z[1] + b2*t.z[2]
				idx := y*w + x
				if z < 0 || z > 1 || z >= fb.Depth[idx] {
					continue
				}

				// attr already carries 1/w; dividing by the interpolated
				// 1/w makes the result perspective-correct.
				norm := 1 / (b0*t.invW[0] + b1*t.invW[1] + b2*t.invW[2])
				var a [8]float32
				for k := range a {
					a[k] = (b0*t.attr[0][k] + b1*t.attr[1][k] + b2*t.attr[2][k]) * norm
				}

				frag = Fragment{
					X:           x,
					Y:           y,
					Depth:       z,
					FrontFacing: t.front,
					Varyings: Varyings{
						Position: math.Vec3{X: a[0], Y: a[1], Z: a[2]},
						Normal:   math.Vec3{X: a[3], Y: a[4], Z: a[5]},
						UV:       math.Vec2{X: a[6], Y: a[7]},
					},
				}
				c := shade(&frag).RGBA8()

				fb.Depth[idx] = z
				o := y*stride + x*4
				pix[o] = c.R
				pix[o+1] = c.G
				pix[o+2] = c.B
				pix[o+3] = c.A
				shaded++
			}
		}
	}
	return shaded, nil
}

// edge is the signed doubled area of (a, b, p).
func edge(ax, ay, bx, by, px, py float32) float32 {
	return (px-ax)*(by-ay) - (py-ay)*(bx-ax)
}
