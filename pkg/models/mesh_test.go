package models

import (
	"math"
	"testing"

	"github.com/taigrr/orrery/pkg/math3d"
	"github.com/taigrr/orrery/pkg/render"
)

func boxMesh() *Mesh {
	m := NewMesh("box")
	m.Vertices = []render.Vertex{
		{Position: math3d.V3(-1, -2, -3)},
		{Position: math3d.V3(1, 2, 3)},
		{Position: math3d.V3(0, 0, 0)},
	}
	m.Faces = [][3]int{{0, 2, 1}}
	m.CalculateBounds()
	return m
}

func TestCalculateBounds(t *testing.T) {
	m := boxMesh()

	if m.BoundsMin != math3d.V3(-1, -2, -3) || m.BoundsMax != math3d.V3(1, 2, 3) {
		t.Errorf("bounds [%v, %v]", m.BoundsMin, m.BoundsMax)
	}

	center, radius := m.BoundingSphere()
	if center.Len() > 1e-12 {
		t.Errorf("sphere center %v, want origin", center)
	}
	want := math.Sqrt(1 + 4 + 9)
	if math.Abs(radius-want) > 1e-12 {
		t.Errorf("sphere radius %v, want %v", radius, want)
	}
}

func TestCalculateBoundsEmpty(t *testing.T) {
	m := NewMesh("empty")
	m.CalculateBounds()
	if _, radius := m.BoundingSphere(); radius != 0 {
		t.Errorf("empty mesh sphere radius %v", radius)
	}
}

func TestCenterAndSize(t *testing.T) {
	m := boxMesh()
	if c := m.Center(); c.Len() > 1e-12 {
		t.Errorf("center %v, want origin", c)
	}
	if s := m.Size(); s != math3d.V3(2, 4, 6) {
		t.Errorf("size %v, want (2, 4, 6)", s)
	}
}

func TestTransformRefreshesBounds(t *testing.T) {
	m := boxMesh()
	m.Transform(math3d.Translate(math3d.V3(10, 0, 0)))

	if m.BoundsMin.X != 9 || m.BoundsMax.X != 11 {
		t.Errorf("X bounds [%v, %v] after translate", m.BoundsMin.X, m.BoundsMax.X)
	}
}

func TestTransformNormalizesNormals(t *testing.T) {
	m := NewUVSphere(6, 8)
	m.Transform(math3d.ScaleUniform(5))

	for i, v := range m.Vertices {
		if d := math.Abs(v.Normal.Len() - 1); d > 1e-9 {
			t.Fatalf("vertex %d normal length %v after scale", i, v.Normal.Len())
		}
	}
}

func TestCloneIsDeep(t *testing.T) {
	m := boxMesh()
	c := m.Clone()

	c.Vertices[0].Position = math3d.V3(100, 0, 0)
	c.Faces[0] = [3]int{2, 1, 0}

	if m.Vertices[0].Position.X == 100 {
		t.Error("clone shares vertex storage")
	}
	if m.Faces[0] == c.Faces[0] {
		t.Error("clone shares face storage")
	}
}

func TestSmoothNormals(t *testing.T) {
	// Two coplanar faces in the XY plane, both wound for a +Z normal
	// under the clockwise-from-outside convention.
	m := NewMesh("wedge")
	m.Vertices = []render.Vertex{
		{Position: math3d.V3(0, 0, 0)},
		{Position: math3d.V3(0, 1, 0)},
		{Position: math3d.V3(1, 0, 0)},
		{Position: math3d.V3(-5, 0, 0)},
	}
	m.Faces = [][3]int{{0, 1, 2}, {0, 3, 1}}
	m.CalculateSmoothNormals()

	for i, v := range m.Vertices {
		if v.Normal.Sub(math3d.V3(0, 0, 1)).Len() > 1e-12 {
			t.Fatalf("vertex %d normal %v, want +Z", i, v.Normal)
		}
	}
}
