package debug

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/Faultbox/scenekit/internal/engine/mesh"
	"github.com/Faultbox/scenekit/pkg/math"
)

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func TestNextFilename(t *testing.T) {
	fc := NewFrameCapture("out", "")
	fc.now = fixedClock(time.Date(2024, 3, 9, 14, 5, 6, 0, time.UTC))

	first := fc.NextFilename()
	if want := filepath.Join("out", "frame_2024-03-09_14-05-06.png"); first != want {
		t.Errorf("first = %q, want %q", first, want)
	}
	second := fc.NextFilename()
	if want := filepath.Join("out", "frame_2024-03-09_14-05-06_1.png"); second != want {
		t.Errorf("second = %q, want %q", second, want)
	}

	fc.now = fixedClock(time.Date(2024, 3, 9, 14, 5, 7, 0, time.UTC))
	if third := fc.NextFilename(); strings.HasSuffix(third, "_1.png") {
		t.Errorf("sequence should reset on a new second, got %q", third)
	}
}

func TestSave(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "frames")
	fc := NewFrameCapture(dir, "shot")

	img := image.NewRGBA(image.Rect(0, 0, 3, 2))
	img.SetRGBA(1, 1, color.RGBA{R: 10, G: 20, B: 30, A: 255})

	path, err := fc.Save(img)
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if !strings.HasPrefix(filepath.Base(path), "shot_") {
		t.Errorf("unexpected file name %q", path)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer f.Close()
	decoded, err := png.Decode(f)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if decoded.Bounds() != img.Bounds() {
		t.Errorf("bounds = %v, want %v", decoded.Bounds(), img.Bounds())
	}
	r, g, b, _ := decoded.At(1, 1).RGBA()
	if r>>8 != 10 || g>>8 != 20 || b>>8 != 30 {
		t.Errorf("pixel = %d,%d,%d", r>>8, g>>8, b>>8)
	}
}

func TestFlipPixels(t *testing.T) {
	// Two rows, bottom row first as glReadPixels returns them.
	pixels := []byte{
		1, 1, 1, 255, // bottom
		2, 2, 2, 255, // top
	}
	img, err := FlipPixels(pixels, 1, 2)
	if err != nil {
		t.Fatalf("FlipPixels: %v", err)
	}
	if got := img.RGBAAt(0, 0).R; got != 2 {
		t.Errorf("top row = %d, want 2", got)
	}
	if got := img.RGBAAt(0, 1).R; got != 1 {
		t.Errorf("bottom row = %d, want 1", got)
	}

	if _, err := FlipPixels(pixels, 2, 2); err == nil {
		t.Error("expected size mismatch error")
	}
}

func TestBoundsLines(t *testing.T) {
	lines := BoundsLines(mesh.NewCube().Bounds(), 0.5)
	if len(lines) != BoxLineVertexCount*3 {
		t.Fatalf("got %d floats, want %d", len(lines), BoxLineVertexCount*3)
	}
	for i, v := range lines {
		if v != -1.5 && v != 1.5 {
			t.Fatalf("coordinate %d = %g, want +-1.5", i, v)
		}
	}
}

func TestBoxLinesEdges(t *testing.T) {
	lines := BoxLines(math.Vec3{}, math.Vec3{X: 1, Y: 2, Z: 3})
	// Every edge is axis aligned: endpoints differ in exactly one coordinate.
	for e := 0; e < BoxLineVertexCount/2; e++ {
		a := lines[e*6 : e*6+3]
		b := lines[e*6+3 : e*6+6]
		diff := 0
		for k := 0; k < 3; k++ {
			if a[k] != b[k] {
				diff++
			}
		}
		if diff != 1 {
			t.Errorf("edge %d %v-%v differs in %d axes", e, a, b, diff)
		}
	}
}
