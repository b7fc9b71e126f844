package viewer

import (
	"github.com/veandco/go-sdl2/sdl"

	"github.com/Faultbox/scenekit/internal/engine/camera"
	"github.com/Faultbox/scenekit/internal/engine/input"
	"github.com/Faultbox/scenekit/internal/engine/picking"
	"github.com/Faultbox/scenekit/internal/engine/scene"
)

// panRate scales keyboard panning to roughly frame-rate independent speed.
const panRate = 60

// moveAxes reads WASD / QE into forward, right and up axes in [-1, 1].
func moveAxes(in *input.Input) (forward, right, up float32) {
	axis := func(pos, neg sdl.Scancode) float32 {
		var a float32
		if in.IsKeyHeld(pos) {
			a++
		}
		if in.IsKeyHeld(neg) {
			a--
		}
		return a
	}
	return axis(sdl.SCANCODE_W, sdl.SCANCODE_S),
		axis(sdl.SCANCODE_D, sdl.SCANCODE_A),
		axis(sdl.SCANCODE_E, sdl.SCANCODE_Q)
}

// applyControls maps left-drag to orbit, the wheel to zoom and held keys to
// panning.
func applyControls(in *input.Input, orbit *camera.OrbitCamera, dt float32) {
	if dx, dy := in.Drag(sdl.BUTTON_LEFT); dx != 0 || dy != 0 {
		orbit.HandleDrag(float32(dx), float32(dy))
	}
	if steps := in.Wheel(); steps != 0 {
		orbit.HandleZoom(float32(steps))
	}
	if f, r, u := moveAxes(in); f != 0 || r != 0 || u != 0 {
		k := dt * panRate
		orbit.HandleMovement(f*k, r*k, u*k)
	}
}

// clickSlop is the largest press-to-release travel, in pixels, still
// treated as a click.
const clickSlop = 3

func isClick(x0, y0, x1, y1 int) bool {
	dx, dy := x1-x0, y1-y0
	return dx*dx+dy*dy <= clickSlop*clickSlop
}

// pickAt finds the object under window pixel (x, y).
func pickAt(s *scene.Scene, cam camera.Camera, proj camera.Projection, x, y, w, h int) (picking.Hit, bool, error) {
	if w <= 0 || h <= 0 {
		return picking.Hit{}, false, nil
	}
	view, err := cam.ViewMatrix()
	if err != nil {
		return picking.Hit{}, false, err
	}
	p, err := proj.Matrix(float32(w) / float32(h))
	if err != nil {
		return picking.Hit{}, false, err
	}
	inv, err := p.Mul(view).Inverse()
	if err != nil {
		return picking.Hit{}, false, err
	}

	// Sample the pixel center.
	ray, ok := picking.ScreenToRay(float32(x)+0.5, float32(y)+0.5, float32(w), float32(h), inv)
	if !ok {
		return picking.Hit{}, false, nil
	}
	items, err := s.DrawList()
	if err != nil {
		return picking.Hit{}, false, err
	}
	hit, ok := picking.Pick(ray, items)
	return hit, ok, nil
}
