package mesh

import (
	"fmt"
	gomath "math"
)

// SphereVertexCount returns the vertex count of NewSphere(stacks, sectors).
func SphereVertexCount(stacks, sectors int) int {
	return (stacks + 1) * (sectors + 1)
}

// SphereTriangleCount returns the triangle count of NewSphere(stacks, sectors):
// two per quad minus the skipped triangle of each sector in both pole rows.
func SphereTriangleCount(stacks, sectors int) int {
	return 2*stacks*sectors - 2*sectors
}

// NewSphere builds a unit UV sphere sampled over numStacks latitude bands
// and numSectors longitude bands. The stack angle runs from +pi/2 (row 0)
// to -pi/2, the sector angle from 0 to 2pi; the first and last column share
// positions but not U. Normals equal positions.
func NewSphere(numStacks, numSectors int) (*Mesh, error) {
	if numStacks < 1 || numSectors < 1 {
		return nil, fmt.Errorf("%w: sphere needs stacks >= 1 and sectors >= 1, got %d, %d",
			ErrInvalidTessellation, numStacks, numSectors)
	}

	vertexCount := SphereVertexCount(numStacks, numSectors)
	m := &Mesh{
		Positions: make([]float32, 0, vertexCount*3),
		Normals:   make([]float32, 0, vertexCount*3),
		UVs:       make([]float32, 0, vertexCount*2),
		Indices:   make([]uint32, 0, SphereTriangleCount(numStacks, numSectors)*3),
	}

	stackStep := gomath.Pi / float64(numStacks)
	sectorStep := 2 * gomath.Pi / float64(numSectors)

	for i := 0; i <= numStacks; i++ {
		stackAngle := gomath.Pi/2 - float64(i)*stackStep
		xy := gomath.Cos(stackAngle)
		z := float32(gomath.Sin(stackAngle))

		for j := 0; j <= numSectors; j++ {
			sectorAngle := float64(j) * sectorStep
			x := float32(xy * gomath.Cos(sectorAngle))
			y := float32(xy * gomath.Sin(sectorAngle))

			m.Positions = append(m.Positions, x, y, z)
			m.Normals = append(m.Normals, x, y, z)
			m.UVs = append(m.UVs, float32(j)/float32(numSectors), float32(i)/float32(numStacks))
		}
	}

	for i := 0; i < numStacks; i++ {
		k1 := uint32(i * (numSectors + 1))
		k2 := k1 + uint32(numSectors) + 1

		for j := 0; j < numSectors; j, k1, k2 = j+1, k1+1, k2+1 {
			// Row 0 touches the north pole: its upper triangle is degenerate.
			if i != 0 {
				m.Indices = append(m.Indices, k1, k2, k1+1)
			}
			// The last row touches the south pole.
			if i != numStacks-1 {
				m.Indices = append(m.Indices, k1+1, k2, k2+1)
			}
		}
	}

	return m, nil
}
