// Package scene holds the renderable state of a scene description: meshes,
// materials and objects keyed by id, per-object transform sequences, one
// light and one camera.
package scene

import (
	"errors"
	"fmt"
	"sort"

	"go.uber.org/zap"

	"github.com/Faultbox/scenekit/internal/engine/camera"
	"github.com/Faultbox/scenekit/internal/engine/lighting"
	"github.com/Faultbox/scenekit/internal/engine/mesh"
	"github.com/Faultbox/scenekit/internal/engine/transform"
	"github.com/Faultbox/scenekit/internal/logger"
	"github.com/Faultbox/scenekit/pkg/math"
)

// Scene configuration errors.
var (
	ErrMissingReference = errors.New("missing reference")
	ErrNoCamera         = errors.New("scene has no camera")
	ErrDuplicateID      = errors.New("duplicate id")
)

// Object references a mesh and a material by id.
type Object struct {
	ID       string
	Mesh     string
	Material string
}

// DrawItem is an object resolved for rendering.
type DrawItem struct {
	ObjectID string
	MeshID   string
	Mesh     *mesh.Mesh
	Material lighting.Material
	Model    math.Mat4
}

// Scene is built once and read by the renderers. It is not safe for
// concurrent mutation.
type Scene struct {
	meshes     map[string]*mesh.Mesh
	materials  map[string]lighting.Material
	objects    []Object
	objectIDs  map[string]struct{}
	transforms map[string]transform.Sequence

	light   *lighting.PointLight
	lightID string
	camera  *camera.Camera
}

// New creates an empty scene.
func New() *Scene {
	return &Scene{
		meshes:     make(map[string]*mesh.Mesh),
		materials:  make(map[string]lighting.Material),
		objectIDs:  make(map[string]struct{}),
		transforms: make(map[string]transform.Sequence),
	}
}

// AddMesh registers a mesh under id.
func (s *Scene) AddMesh(id string, m *mesh.Mesh) error {
	if _, ok := s.meshes[id]; ok {
		return fmt.Errorf("%w: mesh %q", ErrDuplicateID, id)
	}
	if err := m.Validate(); err != nil {
		return fmt.Errorf("mesh %q: %w", id, err)
	}
	s.meshes[id] = m
	return nil
}

// AddCube registers a unit cube under id.
func (s *Scene) AddCube(id string) error {
	return s.AddMesh(id, mesh.NewCube())
}

// AddSphere registers a UV sphere under id.
func (s *Scene) AddSphere(id string, numStacks, numSectors int) error {
	m, err := mesh.NewSphere(numStacks, numSectors)
	if err != nil {
		return fmt.Errorf("mesh %q: %w", id, err)
	}
	return s.AddMesh(id, m)
}

// AddMaterial registers a material under id.
func (s *Scene) AddMaterial(id string, m lighting.Material) error {
	if _, ok := s.materials[id]; ok {
		return fmt.Errorf("%w: material %q", ErrDuplicateID, id)
	}
	s.materials[id] = m
	return nil
}

// AddObject appends an object. References are checked by Validate so
// objects may be declared before their mesh or material.
func (s *Scene) AddObject(id, meshID, materialID string) error {
	if _, ok := s.objectIDs[id]; ok {
		return fmt.Errorf("%w: object %q", ErrDuplicateID, id)
	}
	s.objectIDs[id] = struct{}{}
	s.objects = append(s.objects, Object{ID: id, Mesh: meshID, Material: materialID})
	return nil
}

// PushTransform appends op to the transform sequence of objectID. The
// object does not have to exist; sequences without an object are ignored
// when drawing.
func (s *Scene) PushTransform(objectID string, op transform.Op) {
	s.transforms[objectID] = append(s.transforms[objectID], op)
}

// AddLight sets the scene light. Only the first light is honoured; later
// ones are dropped with a warning. It reports whether l became the light.
func (s *Scene) AddLight(id string, l lighting.PointLight) bool {
	if s.light != nil {
		logger.Warn("only one light is supported, ignoring",
			zap.String("light", id),
			zap.String("active", s.lightID),
		)
		return false
	}
	s.light = &l
	s.lightID = id
	return true
}

// SetCamera sets the scene camera, replacing any previous one.
func (s *Scene) SetCamera(c camera.Camera) {
	if s.camera != nil {
		logger.Debug("replacing scene camera", zap.Any("position", c.Position))
	}
	s.camera = &c
}

// Camera returns the scene camera.
func (s *Scene) Camera() (camera.Camera, bool) {
	if s.camera == nil {
		return camera.Camera{}, false
	}
	return *s.camera, true
}

// Light returns the active light.
func (s *Scene) Light() (lighting.PointLight, bool) {
	if s.light == nil {
		return lighting.PointLight{}, false
	}
	return *s.light, true
}

// Mesh returns the mesh registered under id.
func (s *Scene) Mesh(id string) (*mesh.Mesh, bool) {
	m, ok := s.meshes[id]
	return m, ok
}

// Material returns the material registered under id.
func (s *Scene) Material(id string) (lighting.Material, bool) {
	m, ok := s.materials[id]
	return m, ok
}

// Objects returns the objects in declaration order.
func (s *Scene) Objects() []Object {
	return append([]Object(nil), s.objects...)
}

// Transforms returns the transform sequence of an object.
func (s *Scene) Transforms(objectID string) transform.Sequence {
	return s.transforms[objectID]
}

// MeshIDs returns the registered mesh ids, sorted.
func (s *Scene) MeshIDs() []string {
	ids := make([]string, 0, len(s.meshes))
	for id := range s.meshes {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// TexturePaths returns the distinct texture paths of materials used by
// objects, sorted.
func (s *Scene) TexturePaths() []string {
	seen := make(map[string]struct{})
	var paths []string
	for _, obj := range s.objects {
		mat, ok := s.materials[obj.Material]
		if !ok || !mat.HasTexture() {
			continue
		}
		if _, dup := seen[mat.Texture]; dup {
			continue
		}
		seen[mat.Texture] = struct{}{}
		paths = append(paths, mat.Texture)
	}
	sort.Strings(paths)
	return paths
}

// DropTexture removes path from every material that uses it, so those
// materials shade with their plain diffuse color. Returns the number of
// materials changed.
func (s *Scene) DropTexture(path string) int {
	n := 0
	for id, mat := range s.materials {
		if mat.Texture == path {
			mat.Texture = ""
			s.materials[id] = mat
			n++
		}
	}
	return n
}

// Validate reports every dangling reference and a missing camera.
func (s *Scene) Validate() error {
	var errs []error
	if s.camera == nil {
		errs = append(errs, ErrNoCamera)
	}
	for _, obj := range s.objects {
		if _, ok := s.meshes[obj.Mesh]; !ok {
			errs = append(errs, fmt.Errorf("object %q: %w: mesh %q", obj.ID, ErrMissingReference, obj.Mesh))
		}
		if _, ok := s.materials[obj.Material]; !ok {
			errs = append(errs, fmt.Errorf("object %q: %w: material %q", obj.ID, ErrMissingReference, obj.Material))
		}
	}
	return errors.Join(errs...)
}

// OrphanTransforms returns the ids of transform sequences that name no
// object, sorted.
func (s *Scene) OrphanTransforms() []string {
	var ids []string
	for id := range s.transforms {
		if _, ok := s.objectIDs[id]; !ok {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	return ids
}

// DrawList resolves every object, in declaration order, into its mesh,
// material and composed model matrix.
func (s *Scene) DrawList() ([]DrawItem, error) {
	items := make([]DrawItem, 0, len(s.objects))
	for _, obj := range s.objects {
		m, ok := s.meshes[obj.Mesh]
		if !ok {
			return nil, fmt.Errorf("object %q: %w: mesh %q", obj.ID, ErrMissingReference, obj.Mesh)
		}
		mat, ok := s.materials[obj.Material]
		if !ok {
			return nil, fmt.Errorf("object %q: %w: material %q", obj.ID, ErrMissingReference, obj.Material)
		}

		item := DrawItem{ObjectID: obj.ID, MeshID: obj.Mesh, Mesh: m, Material: mat}
		if err := transform.ComposeInto(&item.Model, s.transforms[obj.ID]); err != nil {
			return nil, fmt.Errorf("object %q: %w", obj.ID, err)
		}
		items = append(items, item)
	}
	return items, nil
}

// Bounds returns the world-space box enclosing every object's transformed
// mesh bounds. ok is false for an empty scene.
func (s *Scene) Bounds() (b mesh.Bounds, ok bool, err error) {
	items, err := s.DrawList()
	if err != nil {
		return mesh.Bounds{}, false, err
	}
	for _, item := range items {
		mb := item.Mesh.Bounds()
		for i := 0; i < 8; i++ {
			corner := math.Vec3{X: mb.Min.X, Y: mb.Min.Y, Z: mb.Min.Z}
			if i&1 != 0 {
				corner.X = mb.Max.X
			}
			if i&2 != 0 {
				corner.Y = mb.Max.Y
			}
			if i&4 != 0 {
				corner.Z = mb.Max.Z
			}
			p := item.Model.TransformPoint(corner)
			if !ok {
				b = mesh.Bounds{Min: p, Max: p}
				ok = true
				continue
			}
			b.Min = math.Vec3{X: min(b.Min.X, p.X), Y: min(b.Min.Y, p.Y), Z: min(b.Min.Z, p.Z)}
			b.Max = math.Vec3{X: max(b.Max.X, p.X), Y: max(b.Max.Y, p.Y), Z: max(b.Max.Z, p.Z)}
		}
	}
	return b, ok, nil
}
