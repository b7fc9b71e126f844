package mesh

import (
	"errors"
	"testing"

	"github.com/Faultbox/scenekit/pkg/math"
)

func abs(x float32) float32 {
	if x < 0 {
		return -x
	}
	return x
}

func faceNormal(m *Mesh, tri int) math.Vec3 {
	a, b, c := m.Triangle(tri)
	pa, pb, pc := m.Position(a), m.Position(b), m.Position(c)
	return pb.Sub(pa).Cross(pc.Sub(pa))
}

func TestNewCubeCounts(t *testing.T) {
	m := NewCube()

	if m.VertexCount() != CubeVertexCount {
		t.Errorf("VertexCount = %d, want %d", m.VertexCount(), CubeVertexCount)
	}
	if m.TriangleCount() != 12 {
		t.Errorf("TriangleCount = %d, want 12", m.TriangleCount())
	}
	if m.IsIndexed() {
		t.Error("cube should not be indexed")
	}
	if err := m.Validate(); err != nil {
		t.Errorf("Validate: %v", err)
	}
}

func TestNewCubeBounds(t *testing.T) {
	b := NewCube().Bounds()
	want := Bounds{Min: math.Vec3{X: -1, Y: -1, Z: -1}, Max: math.Vec3{X: 1, Y: 1, Z: 1}}
	if b != want {
		t.Errorf("Bounds = %+v, want %+v", b, want)
	}
}

func TestNewCubeWindingMatchesNormals(t *testing.T) {
	m := NewCube()
	for tri := 0; tri < m.TriangleCount(); tri++ {
		geo := faceNormal(m, tri)
		a, b, c := m.Triangle(tri)
		for _, v := range []uint32{a, b, c} {
			n := m.Normal(v)
			if abs(n.Length()-1) > 1e-6 {
				t.Fatalf("triangle %d vertex %d: normal %v is not unit", tri, v, n)
			}
			if geo.Dot(n) <= 0 {
				t.Fatalf("triangle %d: winding normal %v disagrees with vertex normal %v", tri, geo, n)
			}
			// Every vertex of a face lies on the plane its normal points at.
			if p := m.Position(v); abs(p.Dot(n)-1) > 1e-6 {
				t.Fatalf("triangle %d vertex %d: position %v not on face %v", tri, v, p, n)
			}
		}
	}
}

func TestNewCubeAtlasCells(t *testing.T) {
	m := NewCube()
	seen := make(map[[2]int]bool)

	for face := 0; face < 6; face++ {
		var cell [2]int
		for k := 0; k < 6; k++ {
			uv := m.UV(uint32(face*6 + k))
			if uv.X < 0 || uv.X > 1 || uv.Y < 0 || uv.Y > 1 {
				t.Fatalf("face %d: uv %v outside unit square", face, uv)
			}
			if k == 0 {
				cell = [2]int{int(uv.X/atlasCellU + 1e-4), int(uv.Y/atlasCellV + 1e-4)}
			}
			u0 := float32(cell[0]) * atlasCellU
			v0 := float32(cell[1]) * atlasCellV
			if uv.X < u0-1e-6 || uv.X > u0+atlasCellU+1e-6 || uv.Y < v0-1e-6 || uv.Y > v0+atlasCellV+1e-6 {
				t.Fatalf("face %d: uv %v leaves cell %v", face, uv, cell)
			}
		}
		if seen[cell] {
			t.Fatalf("face %d: atlas cell %v reused", face, cell)
		}
		seen[cell] = true
	}
}

func TestNewSphereCounts(t *testing.T) {
	tests := []struct {
		stacks, sectors int
		wantVerts       int
		wantTris        int
	}{
		{3, 4, 20, 16},
		{3, 3, 16, 12},
		{1, 5, 12, 0},
		{1, 1, 4, 0},
		{1, 3, 8, 0},
		{1, 4, 10, 0},
		{2, 8, 27, 16},
		{16, 32, 561, 960},
	}

	for _, tt := range tests {
		m, err := NewSphere(tt.stacks, tt.sectors)
		if err != nil {
			t.Fatalf("NewSphere(%d, %d): %v", tt.stacks, tt.sectors, err)
		}
		if m.VertexCount() != tt.wantVerts {
			t.Errorf("NewSphere(%d, %d) vertices = %d, want %d", tt.stacks, tt.sectors, m.VertexCount(), tt.wantVerts)
		}
		if m.TriangleCount() != tt.wantTris {
			t.Errorf("NewSphere(%d, %d) triangles = %d, want %d", tt.stacks, tt.sectors, m.TriangleCount(), tt.wantTris)
		}
		if SphereTriangleCount(tt.stacks, tt.sectors) != tt.wantTris {
			t.Errorf("SphereTriangleCount(%d, %d) = %d, want %d", tt.stacks, tt.sectors, SphereTriangleCount(tt.stacks, tt.sectors), tt.wantTris)
		}
		if err := m.Validate(); err != nil {
			t.Errorf("NewSphere(%d, %d) Validate: %v", tt.stacks, tt.sectors, err)
		}
		if !m.IsIndexed() {
			t.Errorf("NewSphere(%d, %d) is not indexed", tt.stacks, tt.sectors)
		}
	}
}

func TestNewSphereVertices(t *testing.T) {
	m, err := NewSphere(6, 8)
	if err != nil {
		t.Fatal(err)
	}

	for i := 0; i < m.VertexCount(); i++ {
		p := m.Position(uint32(i))
		if abs(p.Length()-1) > 1e-5 {
			t.Fatalf("vertex %d: |p| = %f, want 1", i, p.Length())
		}
		if m.Normal(uint32(i)) != p {
			t.Fatalf("vertex %d: normal %v != position %v", i, m.Normal(uint32(i)), p)
		}
		uv := m.UV(uint32(i))
		if uv.X < 0 || uv.X > 1 || uv.Y < 0 || uv.Y > 1 {
			t.Fatalf("vertex %d: uv %v outside unit square", i, uv)
		}
	}

	// Row 0 is the north pole, the last row the south pole.
	if p := m.Position(0); abs(p.Z-1) > 1e-6 {
		t.Errorf("first vertex = %v, want north pole", p)
	}
	if p := m.Position(uint32(m.VertexCount() - 1)); abs(p.Z+1) > 1e-6 {
		t.Errorf("last vertex = %v, want south pole", p)
	}
}

func TestNewSphereSeam(t *testing.T) {
	const stacks, sectors = 4, 6
	m, err := NewSphere(stacks, sectors)
	if err != nil {
		t.Fatal(err)
	}

	for i := 0; i <= stacks; i++ {
		first := uint32(i * (sectors + 1))
		last := first + sectors
		if d := m.Position(first).Distance(m.Position(last)); d > 1e-5 {
			t.Errorf("row %d: seam vertices %v and %v differ", i, m.Position(first), m.Position(last))
		}
		if m.UV(first).X != 0 || m.UV(last).X != 1 {
			t.Errorf("row %d: seam u = %f, %f, want 0, 1", i, m.UV(first).X, m.UV(last).X)
		}
	}
}

func TestNewSphereWindingOutward(t *testing.T) {
	m, err := NewSphere(8, 12)
	if err != nil {
		t.Fatal(err)
	}

	for tri := 0; tri < m.TriangleCount(); tri++ {
		geo := faceNormal(m, tri)
		if geo.Length() < 1e-7 {
			t.Fatalf("triangle %d is degenerate", tri)
		}
		a, b, c := m.Triangle(tri)
		centroid := m.Position(a).Add(m.Position(b)).Add(m.Position(c))
		if geo.Dot(centroid) <= 0 {
			t.Fatalf("triangle %d winds inward", tri)
		}
	}
}

func TestNewSphereInvalid(t *testing.T) {
	tests := []struct {
		name            string
		stacks, sectors int
	}{
		{"zero stacks", 0, 4},
		{"zero sectors", 4, 0},
		{"negative", -1, -1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewSphere(tt.stacks, tt.sectors)
			if !errors.Is(err, ErrInvalidTessellation) {
				t.Errorf("err = %v, want ErrInvalidTessellation", err)
			}
		})
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name string
		mesh Mesh
	}{
		{"ragged positions", Mesh{Positions: make([]float32, 4)}},
		{"missing normals", Mesh{Positions: make([]float32, 9), UVs: make([]float32, 6)}},
		{"missing uvs", Mesh{Positions: make([]float32, 9), Normals: make([]float32, 9)}},
		{"index out of range", Mesh{
			Positions: make([]float32, 9),
			Normals:   make([]float32, 9),
			UVs:       make([]float32, 6),
			Indices:   []uint32{0, 1, 3},
		}},
		{"partial triangle list", Mesh{
			Positions: make([]float32, 6),
			Normals:   make([]float32, 6),
			UVs:       make([]float32, 4),
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.mesh.Validate(); !errors.Is(err, ErrInvalidMesh) {
				t.Errorf("Validate() = %v, want ErrInvalidMesh", err)
			}
		})
	}
}

func TestInterleaved(t *testing.T) {
	m, err := NewSphere(2, 3)
	if err != nil {
		t.Fatal(err)
	}
	data := m.Interleaved()
	if len(data) != m.VertexCount()*FloatsPerVertex {
		t.Fatalf("len = %d, want %d", len(data), m.VertexCount()*FloatsPerVertex)
	}

	i := 5
	row := data[i*FloatsPerVertex : (i+1)*FloatsPerVertex]
	p, n, uv := m.Position(uint32(i)), m.Normal(uint32(i)), m.UV(uint32(i))
	want := []float32{p.X, p.Y, p.Z, n.X, n.Y, n.Z, uv.X, uv.Y}
	for k := range want {
		if row[k] != want[k] {
			t.Fatalf("vertex %d float %d = %f, want %f", i, k, row[k], want[k])
		}
	}
}

func TestSphereTriangleIndexPattern(t *testing.T) {
	m, err := NewSphere(3, 4)
	if err != nil {
		t.Fatal(err)
	}
	// Row 0 emits only the lower triangle per sector.
	a, b, c := m.Triangle(0)
	if a != 1 || b != 5 || c != 6 {
		t.Errorf("first triangle = (%d, %d, %d), want (1, 5, 6)", a, b, c)
	}
	// First triangle of row 1 is the upper one.
	a, b, c = m.Triangle(4)
	if a != 5 || b != 10 || c != 6 {
		t.Errorf("row 1 first triangle = (%d, %d, %d), want (5, 10, 6)", a, b, c)
	}
}
