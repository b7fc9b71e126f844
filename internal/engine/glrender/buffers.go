package glrender

import (
	"unsafe"

	"github.com/go-gl/gl/v4.1-core/gl"

	"github.com/Faultbox/scenekit/internal/engine/debug"
	"github.com/Faultbox/scenekit/internal/engine/mesh"
)

// Vertex attribute locations shared with blinnphong.vert and line.vert.
const (
	attribPosition = 0
	attribNormal   = 1
	attribUV       = 2
)

// gpuMesh is a mesh uploaded to a VAO. Indexed meshes use an EBO and
// DrawElements; the cube's flat vertex list uses DrawArrays. An indexed
// mesh without triangles has no EBO and draws nothing.
type gpuMesh struct {
	vao     uint32
	vbo     uint32
	ebo     uint32
	count   int32
	indexed bool

	// Bounding box wireframe in model space.
	boundsVAO uint32
	boundsVBO uint32
}

func uploadMesh(m *mesh.Mesh) *gpuMesh {
	g := &gpuMesh{}
	data := m.Interleaved()
	stride := int32(mesh.FloatsPerVertex * 4)

	gl.GenVertexArrays(1, &g.vao)
	gl.BindVertexArray(g.vao)

	gl.GenBuffers(1, &g.vbo)
	gl.BindBuffer(gl.ARRAY_BUFFER, g.vbo)
	gl.BufferData(gl.ARRAY_BUFFER, len(data)*4, unsafe.Pointer(&data[0]), gl.STATIC_DRAW)

	gl.EnableVertexAttribArray(attribPosition)
	gl.VertexAttribPointerWithOffset(attribPosition, 3, gl.FLOAT, false, stride, 0)
	gl.EnableVertexAttribArray(attribNormal)
	gl.VertexAttribPointerWithOffset(attribNormal, 3, gl.FLOAT, false, stride, 3*4)
	gl.EnableVertexAttribArray(attribUV)
	gl.VertexAttribPointerWithOffset(attribUV, 2, gl.FLOAT, false, stride, 6*4)

	if m.IsIndexed() {
		g.indexed = true
		g.count = int32(len(m.Indices))
		if g.count > 0 {
			gl.GenBuffers(1, &g.ebo)
			gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, g.ebo)
			gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, len(m.Indices)*4, unsafe.Pointer(&m.Indices[0]), gl.STATIC_DRAW)
		}
	} else {
		g.count = int32(m.VertexCount())
	}
	gl.BindVertexArray(0)

	lines := debug.BoundsLines(m.Bounds(), 0.02)
	gl.GenVertexArrays(1, &g.boundsVAO)
	gl.BindVertexArray(g.boundsVAO)
	gl.GenBuffers(1, &g.boundsVBO)
	gl.BindBuffer(gl.ARRAY_BUFFER, g.boundsVBO)
	gl.BufferData(gl.ARRAY_BUFFER, len(lines)*4, unsafe.Pointer(&lines[0]), gl.STATIC_DRAW)
	gl.EnableVertexAttribArray(attribPosition)
	gl.VertexAttribPointerWithOffset(attribPosition, 3, gl.FLOAT, false, 3*4, 0)
	gl.BindVertexArray(0)

	return g
}

func (g *gpuMesh) draw() {
	if g.count == 0 {
		return
	}
	gl.BindVertexArray(g.vao)
	if g.indexed {
		gl.DrawElements(gl.TRIANGLES, g.count, gl.UNSIGNED_INT, nil)
	} else {
		gl.DrawArrays(gl.TRIANGLES, 0, g.count)
	}
}

func (g *gpuMesh) drawBounds() {
	gl.BindVertexArray(g.boundsVAO)
	gl.DrawArrays(gl.LINES, 0, debug.BoxLineVertexCount)
}

func (g *gpuMesh) delete() {
	for _, vao := range []*uint32{&g.vao, &g.boundsVAO} {
		if *vao != 0 {
			gl.DeleteVertexArrays(1, vao)
			*vao = 0
		}
	}
	for _, buf := range []*uint32{&g.vbo, &g.ebo, &g.boundsVBO} {
		if *buf != 0 {
			gl.DeleteBuffers(1, buf)
			*buf = 0
		}
	}
}
