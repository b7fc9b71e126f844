package scene

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/Faultbox/scenekit/internal/engine/camera"
	"github.com/Faultbox/scenekit/internal/engine/lighting"
	"github.com/Faultbox/scenekit/internal/engine/transform"
	"github.com/Faultbox/scenekit/internal/logger"
	"github.com/Faultbox/scenekit/pkg/formats"
	"github.com/Faultbox/scenekit/pkg/math"
)

// FromDescription builds a scene from parsed records. Meshes are generated
// here, once per primitive. The result is validated.
func FromDescription(desc *formats.SceneDescription) (*Scene, error) {
	s := New()

	for _, p := range desc.Primitives {
		var err error
		switch p.Type {
		case formats.PrimitiveCube:
			err = s.AddCube(p.ID)
		case formats.PrimitiveSphere:
			err = s.AddSphere(p.ID, p.Stacks, p.Sectors)
		default:
			err = fmt.Errorf("%w: %q", formats.ErrUnknownPrimitive, p.Type)
		}
		if err != nil {
			return nil, fmt.Errorf("record %d: %w", p.Record, err)
		}
	}

	for _, m := range desc.Materials {
		mat := lighting.Material{
			Ambient:   lighting.RGB(m.Ambient),
			Diffuse:   lighting.RGB(m.Diffuse),
			Specular:  lighting.RGB(m.Specular),
			Shininess: m.Shininess,
			Texture:   m.Texture,
		}
		if err := s.AddMaterial(m.ID, mat); err != nil {
			return nil, fmt.Errorf("record %d: %w", m.Record, err)
		}
	}

	for _, o := range desc.Objects {
		if err := s.AddObject(o.ID, o.Mesh, o.Material); err != nil {
			return nil, fmt.Errorf("record %d: %w", o.Record, err)
		}
	}

	for _, x := range desc.Transforms {
		kind, err := transform.ParseKind(x.Op)
		if err != nil {
			return nil, fmt.Errorf("record %d: %w", x.Record, err)
		}
		s.PushTransform(x.Object, transform.Op{Kind: kind, X: x.Values[0], Y: x.Values[1], Z: x.Values[2]})
	}

	for _, l := range desc.Lights {
		s.AddLight(l.ID, lighting.PointLight{
			Position:  math.V3(l.Position),
			Intensity: lighting.RGB(l.Intensity),
		})
	}

	for _, c := range desc.Cameras {
		s.SetCamera(camera.Camera{
			Position: math.V3(c.Eye),
			Target:   math.V3(c.Target),
			Up:       math.V3(c.Up),
		})
	}

	if orphans := s.OrphanTransforms(); len(orphans) > 0 {
		logger.Debug("transforms without object", zap.Strings("ids", orphans))
	}

	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}
