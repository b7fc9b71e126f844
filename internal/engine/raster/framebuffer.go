// Package raster is a software triangle rasterizer: perspective divide,
// viewport mapping, depth-tested bounding-box fill with perspective-correct
// varyings, and a per-fragment shading callback.
//
// Create a Framebuffer once and reuse it across frames to avoid
// allocations.
package raster

import (
	"errors"
	"fmt"
	"image"
	"image/color"
)

// ErrInvalidSize is returned for non-positive framebuffer dimensions.
var ErrInvalidSize = errors.New("invalid framebuffer size")

// ClearDepth is the depth buffer value after Clear (the far plane).
const ClearDepth = 1.0

// Framebuffer holds the color target and a depth buffer of the same size.
// Depth values are window-space, in [0, 1].
type Framebuffer struct {
	Color *image.RGBA
	Depth []float32
}

// NewFramebuffer allocates a w x h framebuffer.
func NewFramebuffer(w, h int) (*Framebuffer, error) {
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidSize, w, h)
	}
	return &Framebuffer{
		Color: image.NewRGBA(image.Rect(0, 0, w, h)),
		Depth: make([]float32, w*h),
	}, nil
}

// Size returns the framebuffer dimensions.
func (fb *Framebuffer) Size() (w, h int) {
	return fb.Color.Rect.Dx(), fb.Color.Rect.Dy()
}

// Resize reallocates the buffers only when the size changes.
func (fb *Framebuffer) Resize(w, h int) error {
	if w <= 0 || h <= 0 {
		return fmt.Errorf("%w: %dx%d", ErrInvalidSize, w, h)
	}
	if cw, ch := fb.Size(); cw == w && ch == h {
		return nil
	}
	fb.Color = image.NewRGBA(image.Rect(0, 0, w, h))
	if cap(fb.Depth) < w*h {
		fb.Depth = make([]float32, w*h)
	} else {
		fb.Depth = fb.Depth[:w*h]
	}
	return nil
}

// Clear fills the color buffer with c and resets depth to ClearDepth.
func (fb *Framebuffer) Clear(c color.RGBA) {
	pix := fb.Color.Pix
	for i := 0; i+3 < len(pix); i += 4 {
		pix[i] = c.R
		pix[i+1] = c.G
		pix[i+2] = c.B
		pix[i+3] = c.A
	}
	for i := range fb.Depth {
		fb.Depth[i] = ClearDepth
	}
}

// DepthAt returns the depth value at pixel (x, y).
func (fb *Framebuffer) DepthAt(x, y int) float32 {
	w, _ := fb.Size()
	return fb.Depth[y*w+x]
}
