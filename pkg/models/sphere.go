package models

import (
	"math"

	"github.com/taigrr/orrery/pkg/math3d"
	"github.com/taigrr/orrery/pkg/render"
)

// NewUVSphere generates a unit sphere mesh from latitude rings and
// longitude segments. Normals point outward; UVs wrap longitude in U
// and latitude in V. Faces are wound clockwise seen from outside,
// matching the renderer's front-face convention (the screen-space
// Y flip turns clockwise windings into positive signed area).
func NewUVSphere(rings, segments int) *Mesh {
	if rings < 2 {
		rings = 2
	}
	if segments < 3 {
		segments = 3
	}

	mesh := NewMesh("uvsphere")

	// One duplicated column at the seam so UVs do not wrap mid-quad.
	for r := 0; r <= rings; r++ {
		theta := math.Pi * float64(r) / float64(rings)
		sinT, cosT := math.Sincos(theta)
		for s := 0; s <= segments; s++ {
			phi := 2 * math.Pi * float64(s) / float64(segments)
			sinP, cosP := math.Sincos(phi)

			pos := math3d.V3(sinT*cosP, cosT, sinT*sinP)
			mesh.Vertices = append(mesh.Vertices, render.Vertex{
				Position: pos,
				Normal:   pos,
				UV:       math3d.V2(float64(s)/float64(segments), float64(r)/float64(rings)),
			})
		}
	}

	idx := func(r, s int) int {
		return r*(segments+1) + s
	}

	for r := 0; r < rings; r++ {
		for s := 0; s < segments; s++ {
			p00 := idx(r, s)
			p10 := idx(r+1, s)
			p01 := idx(r, s+1)
			p11 := idx(r+1, s+1)

			// Pole rows collapse one triangle of each quad:
			// row 0 merges p00/p01, the last row merges p10/p11.
			if r != rings-1 {
				mesh.Faces = append(mesh.Faces, [3]int{p00, p10, p11})
			}
			if r != 0 {
				mesh.Faces = append(mesh.Faces, [3]int{p00, p11, p01})
			}
		}
	}

	mesh.CalculateBounds()
	return mesh
}
