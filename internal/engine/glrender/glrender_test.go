package glrender

import (
	"image"
	"image/color"
	"strings"
	"testing"

	"github.com/Faultbox/scenekit/internal/engine/glrender/shaders"
)

func TestFlipRows(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 2, 3))
	for y := 0; y < 3; y++ {
		for x := 0; x < 2; x++ {
			img.SetRGBA(x, y, color.RGBA{R: uint8(y), G: uint8(x), A: 255})
		}
	}

	out := flipRows(img)
	for y := 0; y < 3; y++ {
		for x := 0; x < 2; x++ {
			got := out.RGBAAt(x, y)
			if got.R != uint8(2-y) || got.G != uint8(x) {
				t.Errorf("pixel (%d,%d) = %v, want row %d", x, y, got, 2-y)
			}
		}
	}
}

func TestFlipRowsSubImage(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	img.SetRGBA(1, 1, color.RGBA{R: 9, A: 255})
	sub := img.SubImage(image.Rect(1, 1, 3, 3)).(*image.RGBA)

	out := flipRows(sub)
	if out.Bounds() != image.Rect(0, 0, 2, 2) {
		t.Fatalf("bounds = %v", out.Bounds())
	}
	if got := out.RGBAAt(0, 1).R; got != 9 {
		t.Errorf("flipped corner = %d, want 9", got)
	}
}

func TestShadersDeclareUniforms(t *testing.T) {
	tests := []struct {
		name     string
		source   string
		uniforms []string
	}{
		{
			name:   "blinn-phong vertex",
			source: shaders.BlinnPhongVertexShader,
			uniforms: []string{
				uniformProjection, uniformView, uniformModel, uniformNormalMatrix,
			},
		},
		{
			name:   "blinn-phong fragment",
			source: shaders.BlinnPhongFragmentShader,
			uniforms: []string{
				uniformLightPosition, uniformLightIntensity,
				uniformKa, uniformKd, uniformKs, uniformShininess,
				uniformTexture, uniformHasTexture,
			},
		},
		{
			name:     "line vertex",
			source:   shaders.LineVertexShader,
			uniforms: []string{uniformMVP},
		},
		{
			name:     "line fragment",
			source:   shaders.LineFragmentShader,
			uniforms: []string{uniformColor},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if !strings.HasPrefix(tt.source, "#version 410 core") {
				t.Error("shader should target GLSL 410 core")
			}
			for _, u := range tt.uniforms {
				if !strings.Contains(tt.source, " "+u+";") {
					t.Errorf("uniform %s not declared", u)
				}
			}
		})
	}
}
