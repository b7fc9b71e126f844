// Package debug provides frame capture and debug geometry helpers.
package debug

import (
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// timestampLayout names frames by capture time.
const timestampLayout = "2006-01-02_15-04-05"

// FrameCapture writes rendered frames as PNG files named
// <prefix>_<timestamp>.png under an output directory.
type FrameCapture struct {
	outputDir string
	prefix    string

	// now is replaced in tests.
	now func() time.Time

	mu   sync.Mutex
	last string
	seq  int
}

// NewFrameCapture creates a frame capture handler.
func NewFrameCapture(outputDir, prefix string) *FrameCapture {
	if prefix == "" {
		prefix = "frame"
	}
	return &FrameCapture{
		outputDir: outputDir,
		prefix:    prefix,
		now:       time.Now,
	}
}

// NextFilename returns the path the next capture will be written to. Frames
// captured within the same second get a numeric suffix.
func (fc *FrameCapture) NextFilename() string {
	fc.mu.Lock()
	defer fc.mu.Unlock()

	stamp := fc.now().Format(timestampLayout)
	name := fmt.Sprintf("%s_%s", fc.prefix, stamp)
	if stamp == fc.last {
		fc.seq++
		name = fmt.Sprintf("%s_%d", name, fc.seq)
	} else {
		fc.last = stamp
		fc.seq = 0
	}
	name += ".png"
	if fc.outputDir != "" {
		name = filepath.Join(fc.outputDir, name)
	}
	return name
}

// Save writes img as a PNG and returns the file path.
func (fc *FrameCapture) Save(img image.Image) (string, error) {
	if fc.outputDir != "" {
		if err := os.MkdirAll(fc.outputDir, 0o755); err != nil {
			return "", fmt.Errorf("creating output dir: %w", err)
		}
	}

	filename := fc.NextFilename()
	if err := WritePNG(filename, img); err != nil {
		return "", err
	}
	return filename, nil
}

// SaveGLPixels writes RGBA pixels read back from OpenGL. Rows are flipped
// since OpenGL has its origin at the bottom-left.
func (fc *FrameCapture) SaveGLPixels(pixels []byte, width, height int) (string, error) {
	img, err := FlipPixels(pixels, width, height)
	if err != nil {
		return "", err
	}
	return fc.Save(img)
}

// FlipPixels copies bottom-up RGBA rows into a top-down image.
func FlipPixels(pixels []byte, width, height int) (*image.RGBA, error) {
	if len(pixels) != width*height*4 {
		return nil, fmt.Errorf("pixel data size mismatch: expected %d, got %d", width*height*4, len(pixels))
	}

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	rowSize := width * 4
	for y := 0; y < height; y++ {
		src := (height - 1 - y) * rowSize
		dst := y * img.Stride
		copy(img.Pix[dst:dst+rowSize], pixels[src:src+rowSize])
	}
	return img, nil
}

// WritePNG encodes img to path.
func WritePNG(path string, img image.Image) (err error) {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating file: %w", err)
	}
	defer func() {
		if cerr := file.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()

	if err := png.Encode(file, img); err != nil {
		return fmt.Errorf("encoding PNG: %w", err)
	}
	return nil
}
