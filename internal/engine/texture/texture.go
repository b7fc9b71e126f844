// Package texture decodes material textures and samples them the way the
// GPU path does: bilinear filtering, clamp-to-edge, V flipped so that v=1
// is the top row of the image.
package texture

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	gomath "math"
	"os"
	"path/filepath"
	"strings"

	// Registered decoders.
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	xdraw "golang.org/x/image/draw"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/Faultbox/scenekit/internal/engine/lighting"
	"github.com/Faultbox/scenekit/pkg/math"
)

// Texture errors.
var (
	ErrUnsupportedFormat = errors.New("unsupported texture format")
	ErrTruncated         = errors.New("truncated texture data")
)

// Texture is a decoded RGBA image. It is read-only after creation and safe
// for concurrent sampling.
type Texture struct {
	img    *image.RGBA
	width  int
	height int
}

// New wraps an image, converting it to RGBA when needed.
func New(img image.Image) *Texture {
	rgba := ImageToRGBA(img)
	b := rgba.Bounds()
	return &Texture{img: rgba, width: b.Dx(), height: b.Dy()}
}

// Load reads and decodes a texture file.
func Load(path string) (*Texture, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading texture: %w", err)
	}
	return Decode(data, filepath.Base(path))
}

// Decode decodes an encoded image. name is only used to pick the TGA
// decoder, which has no magic number.
func Decode(data []byte, name string) (*Texture, error) {
	if strings.EqualFold(filepath.Ext(name), ".tga") {
		img, err := DecodeTGA(data)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		return New(img), nil
	}

	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		if errors.Is(err, image.ErrFormat) {
			return nil, fmt.Errorf("%s: %w", name, ErrUnsupportedFormat)
		}
		return nil, fmt.Errorf("decoding %s as image: %w", name, err)
	}
	if img.Bounds().Empty() {
		return nil, fmt.Errorf("%s: %w: empty %s image", name, ErrUnsupportedFormat, format)
	}
	return New(img), nil
}

// Size returns the texture dimensions in pixels.
func (t *Texture) Size() (width, height int) {
	return t.width, t.height
}

// Image returns the underlying pixels (row 0 is the top of the image).
func (t *Texture) Image() *image.RGBA {
	return t.img
}

// Sample returns the bilinearly filtered color at (u, v). Coordinates are
// clamped to [0, 1].
func (t *Texture) Sample(u, v float32) lighting.Color {
	uv := math.Vec2{X: u, Y: v}.Clamp01()
	fx := uv.X*float32(t.width) - 0.5
	fy := (1-uv.Y)*float32(t.height) - 0.5

	x0f := float32(gomath.Floor(float64(fx)))
	y0f := float32(gomath.Floor(float64(fy)))
	tx, ty := fx-x0f, fy-y0f

	x0, y0 := int(x0f), int(y0f)
	x1, y1 := clampIndex(x0+1, t.width), clampIndex(y0+1, t.height)
	x0, y0 = clampIndex(x0, t.width), clampIndex(y0, t.height)

	c00, c10 := t.texel(x0, y0), t.texel(x1, y0)
	c01, c11 := t.texel(x0, y1), t.texel(x1, y1)

	top := c00.Scale(1 - tx).Add(c10.Scale(tx))
	bottom := c01.Scale(1 - tx).Add(c11.Scale(tx))
	return top.Scale(1 - ty).Add(bottom.Scale(ty))
}

func (t *Texture) texel(x, y int) lighting.Color {
	return lighting.FromRGBA(t.img.RGBAAt(t.img.Rect.Min.X+x, t.img.Rect.Min.Y+y))
}

// ImageToRGBA converts any image to *image.RGBA anchored at the origin.
func ImageToRGBA(img image.Image) *image.RGBA {
	if rgba, ok := img.(*image.RGBA); ok && rgba.Rect.Min == (image.Point{}) {
		return rgba
	}
	b := img.Bounds()
	rgba := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	xdraw.Draw(rgba, rgba.Rect, img, b.Min, xdraw.Src)
	return rgba
}

// Fit downscales img so neither side exceeds maxSize, keeping the aspect
// ratio. maxSize <= 0 or a small enough image returns img unchanged.
func Fit(img *image.RGBA, maxSize int) *image.RGBA {
	w, h := img.Rect.Dx(), img.Rect.Dy()
	if maxSize <= 0 || (w <= maxSize && h <= maxSize) {
		return img
	}
	scale := float64(maxSize) / float64(max(w, h))
	nw := max(1, int(gomath.Round(float64(w)*scale)))
	nh := max(1, int(gomath.Round(float64(h)*scale)))

	dst := image.NewRGBA(image.Rect(0, 0, nw, nh))
	xdraw.CatmullRom.Scale(dst, dst.Rect, img, img.Rect, xdraw.Src, nil)
	return dst
}

func clampIndex(i, n int) int {
	if i < 0 {
		return 0
	}
	if i >= n {
		return n - 1
	}
	return i
}
