// Package mesh builds procedural triangle meshes (cube, UV sphere) as flat
// position/normal/UV arrays ready for rasterization or GPU upload.
package mesh

import (
	"errors"
	"fmt"

	"github.com/Faultbox/scenekit/pkg/math"
)

// Mesh errors.
var (
	ErrInvalidTessellation = errors.New("invalid tessellation parameters")
	ErrInvalidMesh         = errors.New("invalid mesh")
)

// FloatsPerVertex is the stride of Interleaved: position, normal, UV.
const FloatsPerVertex = 8

// Mesh is an immutable triangle mesh. All arrays are flat:
// Positions and Normals hold 3 floats per vertex, UVs 2 floats per vertex,
// Indices 3 per triangle (CCW seen from outside). Nil Indices means the
// vertices form a sequential triangle list; a non-nil empty slice is an
// indexed mesh without triangles.
type Mesh struct {
	Positions []float32
	Normals   []float32
	UVs       []float32
	Indices   []uint32
}

// Bounds holds the axis-aligned bounding box of a mesh.
type Bounds struct {
	Min math.Vec3
	Max math.Vec3
}

// VertexCount returns the number of vertices.
func (m *Mesh) VertexCount() int {
	return len(m.Positions) / 3
}

// IsIndexed reports whether the mesh is drawn through its index buffer.
func (m *Mesh) IsIndexed() bool {
	return m.Indices != nil
}

// TriangleCount returns the number of triangles.
func (m *Mesh) TriangleCount() int {
	if m.IsIndexed() {
		return len(m.Indices) / 3
	}
	return m.VertexCount() / 3
}

// Triangle returns the vertex indices of triangle i.
func (m *Mesh) Triangle(i int) (a, b, c uint32) {
	if m.IsIndexed() {
		return m.Indices[i*3], m.Indices[i*3+1], m.Indices[i*3+2]
	}
	base := uint32(i * 3)
	return base, base + 1, base + 2
}

// Position returns the position of vertex i.
func (m *Mesh) Position(i uint32) math.Vec3 {
	return math.Vec3{X: m.Positions[i*3], Y: m.Positions[i*3+1], Z: m.Positions[i*3+2]}
}

// Normal returns the normal of vertex i.
func (m *Mesh) Normal(i uint32) math.Vec3 {
	return math.Vec3{X: m.Normals[i*3], Y: m.Normals[i*3+1], Z: m.Normals[i*3+2]}
}

// UV returns the texture coordinate of vertex i.
func (m *Mesh) UV(i uint32) math.Vec2 {
	return math.Vec2{X: m.UVs[i*2], Y: m.UVs[i*2+1]}
}

// Validate checks the parallel-array and index invariants.
func (m *Mesh) Validate() error {
	if len(m.Positions)%3 != 0 {
		return fmt.Errorf("%w: %d position floats is not a multiple of 3", ErrInvalidMesh, len(m.Positions))
	}
	n := m.VertexCount()
	if len(m.Normals) != n*3 {
		return fmt.Errorf("%w: %d normals for %d vertices", ErrInvalidMesh, len(m.Normals)/3, n)
	}
	if len(m.UVs) != n*2 {
		return fmt.Errorf("%w: %d uvs for %d vertices", ErrInvalidMesh, len(m.UVs)/2, n)
	}
	if len(m.Indices)%3 != 0 {
		return fmt.Errorf("%w: %d indices is not a multiple of 3", ErrInvalidMesh, len(m.Indices))
	}
	if !m.IsIndexed() && n%3 != 0 {
		return fmt.Errorf("%w: %d vertices do not form a triangle list", ErrInvalidMesh, n)
	}
	for i, idx := range m.Indices {
		if int(idx) >= n {
			return fmt.Errorf("%w: index %d at %d out of range (%d vertices)", ErrInvalidMesh, idx, i, n)
		}
	}
	return nil
}

// Bounds computes the axis-aligned bounding box of the vertex positions.
func (m *Mesh) Bounds() Bounds {
	b := Bounds{
		Min: math.Vec3{X: 1e10, Y: 1e10, Z: 1e10},
		Max: math.Vec3{X: -1e10, Y: -1e10, Z: -1e10},
	}
	for i := 0; i < m.VertexCount(); i++ {
		updateBounds(&b, m.Position(uint32(i)))
	}
	return b
}

// Interleaved returns position, normal and UV packed per vertex
// (FloatsPerVertex floats each) for a single vertex buffer upload.
func (m *Mesh) Interleaved() []float32 {
	n := m.VertexCount()
	out := make([]float32, 0, n*FloatsPerVertex)
	for i := 0; i < n; i++ {
		out = append(out, m.Positions[i*3:i*3+3]...)
		out = append(out, m.Normals[i*3:i*3+3]...)
		out = append(out, m.UVs[i*2:i*2+2]...)
	}
	return out
}

func updateBounds(b *Bounds, p math.Vec3) {
	if p.X < b.Min.X {
		b.Min.X = p.X
	}
	if p.Y < b.Min.Y {
		b.Min.Y = p.Y
	}
	if p.Z < b.Min.Z {
		b.Min.Z = p.Z
	}
	if p.X > b.Max.X {
		b.Max.X = p.X
	}
	if p.Y > b.Max.Y {
		b.Max.Y = p.Y
	}
	if p.Z > b.Max.Z {
		b.Max.Z = p.Z
	}
}
