// Package models provides mesh representation, procedural generation,
// and model loading for the orrery scene.
package models

import (
	"math"

	"github.com/taigrr/orrery/pkg/math3d"
	"github.com/taigrr/orrery/pkg/render"
)

// Mesh is indexed triangle geometry. It implements the renderer's
// BoundedMeshSource interface.
type Mesh struct {
	Name     string
	Vertices []render.Vertex
	Faces    [][3]int

	BoundsMin math3d.Vec3
	BoundsMax math3d.Vec3

	sphereCenter math3d.Vec3
	sphereRadius float64
}

// NewMesh creates an empty mesh.
func NewMesh(name string) *Mesh {
	return &Mesh{Name: name}
}

// VertexCount returns the number of vertices.
func (m *Mesh) VertexCount() int {
	return len(m.Vertices)
}

// TriangleCount returns the number of triangles.
func (m *Mesh) TriangleCount() int {
	return len(m.Faces)
}

// Vertex returns vertex i.
func (m *Mesh) Vertex(i int) render.Vertex {
	return m.Vertices[i]
}

// Face returns the vertex indices of triangle i.
func (m *Mesh) Face(i int) [3]int {
	return m.Faces[i]
}

// BoundingSphere returns the model-space bounding sphere computed by
// the last CalculateBounds call.
func (m *Mesh) BoundingSphere() (center math3d.Vec3, radius float64) {
	return m.sphereCenter, m.sphereRadius
}

// CalculateBounds computes the axis-aligned bounding box and the
// bounding sphere around its center.
func (m *Mesh) CalculateBounds() {
	if len(m.Vertices) == 0 {
		m.BoundsMin, m.BoundsMax = math3d.Zero3(), math3d.Zero3()
		m.sphereCenter, m.sphereRadius = math3d.Zero3(), 0
		return
	}

	m.BoundsMin = m.Vertices[0].Position
	m.BoundsMax = m.Vertices[0].Position
	for _, v := range m.Vertices[1:] {
		m.BoundsMin = m.BoundsMin.Min(v.Position)
		m.BoundsMax = m.BoundsMax.Max(v.Position)
	}

	m.sphereCenter = m.BoundsMin.Add(m.BoundsMax).Scale(0.5)
	m.sphereRadius = 0
	for _, v := range m.Vertices {
		if d := v.Position.Sub(m.sphereCenter).LenSq(); d > m.sphereRadius {
			m.sphereRadius = d
		}
	}
	m.sphereRadius = math.Sqrt(m.sphereRadius)
}

// Center returns the center of the bounding box.
func (m *Mesh) Center() math3d.Vec3 {
	return m.BoundsMin.Add(m.BoundsMax).Scale(0.5)
}

// Size returns the dimensions of the bounding box.
func (m *Mesh) Size() math3d.Vec3 {
	return m.BoundsMax.Sub(m.BoundsMin)
}

// CalculateSmoothNormals computes averaged per-vertex normals.
// Face normals are accumulated unnormalized so larger triangles weigh
// more, then the sums are normalized.
func (m *Mesh) CalculateSmoothNormals() {
	for i := range m.Vertices {
		m.Vertices[i].Normal = math3d.Zero3()
	}

	for _, f := range m.Faces {
		v0 := m.Vertices[f[0]].Position
		v1 := m.Vertices[f[1]].Position
		v2 := m.Vertices[f[2]].Position
		// Faces are wound clockwise seen from outside, so the
		// outward normal follows edge2 x edge1.
		n := v2.Sub(v0).Cross(v1.Sub(v0))

		m.Vertices[f[0]].Normal = m.Vertices[f[0]].Normal.Add(n)
		m.Vertices[f[1]].Normal = m.Vertices[f[1]].Normal.Add(n)
		m.Vertices[f[2]].Normal = m.Vertices[f[2]].Normal.Add(n)
	}

	for i := range m.Vertices {
		m.Vertices[i].Normal = m.Vertices[i].Normal.Normalize()
	}
}

// Transform applies a matrix to all vertices in place and refreshes
// the bounds.
func (m *Mesh) Transform(mat math3d.Mat4) {
	for i := range m.Vertices {
		m.Vertices[i].Position = mat.MulVec3(m.Vertices[i].Position)
		m.Vertices[i].Normal = mat.MulVec3Dir(m.Vertices[i].Normal).Normalize()
	}
	m.CalculateBounds()
}

// Clone creates a deep copy of the mesh.
func (m *Mesh) Clone() *Mesh {
	clone := &Mesh{
		Name:         m.Name,
		Vertices:     make([]render.Vertex, len(m.Vertices)),
		Faces:        make([][3]int, len(m.Faces)),
		BoundsMin:    m.BoundsMin,
		BoundsMax:    m.BoundsMax,
		sphereCenter: m.sphereCenter,
		sphereRadius: m.sphereRadius,
	}
	copy(clone.Vertices, m.Vertices)
	copy(clone.Faces, m.Faces)
	return clone
}
