package mesh

import "github.com/Faultbox/scenekit/pkg/math"

// CubeVertexCount is the vertex count of NewCube: 6 faces, 2 triangles each.
const CubeVertexCount = 36

// Atlas cell size: the UV square is split into 2 columns and 3 rows.
const (
	atlasCellU = 1.0 / 2
	atlasCellV = 1.0 / 3
)

// cubeFace describes one face by its outward normal and the in-plane axes
// the face's u and v run along. s x t == normal, so walking the corners in
// (u, v) order is counter-clockwise seen from outside.
type cubeFace struct {
	normal math.Vec3
	s, t   math.Vec3
	cellU  int // atlas column
	cellV  int // atlas row
}

var cubeFaces = [6]cubeFace{
	{normal: math.Vec3{Z: -1}, s: math.Vec3{X: -1}, t: math.Vec3{Y: 1}, cellU: 1, cellV: 2},
	{normal: math.Vec3{Z: 1}, s: math.Vec3{X: 1}, t: math.Vec3{Y: 1}, cellU: 0, cellV: 2},
	{normal: math.Vec3{Y: -1}, s: math.Vec3{X: 1}, t: math.Vec3{Z: 1}, cellU: 1, cellV: 0},
	{normal: math.Vec3{Y: 1}, s: math.Vec3{X: 1}, t: math.Vec3{Z: -1}, cellU: 0, cellV: 0},
	{normal: math.Vec3{X: -1}, s: math.Vec3{Z: 1}, t: math.Vec3{Y: 1}, cellU: 1, cellV: 1},
	{normal: math.Vec3{X: 1}, s: math.Vec3{Z: -1}, t: math.Vec3{Y: 1}, cellU: 0, cellV: 1},
}

// quadCorners lists the (a, b) corner parameters of the two triangles of a
// face, in CCW order.
var quadCorners = [6][2]float32{
	{0, 0}, {1, 0}, {1, 1},
	{0, 0}, {1, 1}, {0, 1},
}

// NewCube returns the axis-aligned cube spanning [-1, 1] on every axis as a
// non-indexed 36-vertex triangle list. Each face has its constant outward
// normal and maps to its own cell of the UV atlas.
func NewCube() *Mesh {
	m := &Mesh{
		Positions: make([]float32, 0, CubeVertexCount*3),
		Normals:   make([]float32, 0, CubeVertexCount*3),
		UVs:       make([]float32, 0, CubeVertexCount*2),
	}

	for _, f := range cubeFaces {
		u0 := float32(f.cellU) * atlasCellU
		v0 := float32(f.cellV) * atlasCellV
		for _, c := range quadCorners {
			p := f.normal.Add(f.s.Scale(2*c[0] - 1)).Add(f.t.Scale(2*c[1] - 1))
			m.Positions = append(m.Positions, p.X, p.Y, p.Z)
			m.Normals = append(m.Normals, f.normal.X, f.normal.Y, f.normal.Z)
			m.UVs = append(m.UVs, u0+c[0]*atlasCellU, v0+c[1]*atlasCellV)
		}
	}

	return m
}
