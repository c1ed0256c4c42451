package models

import (
	"math"
	"os"
	"path/filepath"
	"testing"
)

func writeOBJ(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "mesh.obj")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadOBJTriangle(t *testing.T) {
	path := writeOBJ(t, `# comment
v 0 0 0
v 1 0 0
v 0 1 0
vt 0 0
vt 1 0
vt 0 1
vn 0 0 1
f 1/1/1 2/2/1 3/3/1
`)
	m, err := LoadOBJ(path)
	if err != nil {
		t.Fatal(err)
	}

	if m.VertexCount() != 3 {
		t.Errorf("got %d vertices, want 3", m.VertexCount())
	}
	if m.TriangleCount() != 1 {
		t.Fatalf("got %d faces, want 1", m.TriangleCount())
	}

	// OBJ winding is reversed on load, so corner order is 1, 3, 2.
	f := m.Face(0)
	if m.Vertex(f[1]).Position.X != 0 || m.Vertex(f[1]).Position.Y != 1 {
		t.Errorf("second corner %v, want the third OBJ vertex", m.Vertex(f[1]).Position)
	}
	if m.Vertex(f[0]).UV.X != 0 || m.Vertex(f[2]).UV.X != 1 {
		t.Error("texcoords not carried through corner resolution")
	}
	if m.Vertex(f[0]).Normal.Z != 1 {
		t.Errorf("normal %v, want +Z", m.Vertex(f[0]).Normal)
	}
}

func TestLoadOBJQuadFanTriangulation(t *testing.T) {
	path := writeOBJ(t, `v 0 0 0
v 1 0 0
v 1 1 0
v 0 1 0
f 1 2 3 4
`)
	m, err := LoadOBJ(path)
	if err != nil {
		t.Fatal(err)
	}
	if m.TriangleCount() != 2 {
		t.Fatalf("quad split into %d triangles, want 2", m.TriangleCount())
	}
	if m.VertexCount() != 4 {
		t.Errorf("got %d vertices, want 4 shared corners", m.VertexCount())
	}
}

func TestLoadOBJNegativeIndices(t *testing.T) {
	path := writeOBJ(t, `v 0 0 0
v 1 0 0
v 0 1 0
f -3 -2 -1
`)
	m, err := LoadOBJ(path)
	if err != nil {
		t.Fatal(err)
	}
	if m.TriangleCount() != 1 {
		t.Fatalf("got %d faces, want 1", m.TriangleCount())
	}
}

func TestLoadOBJSmoothNormalsWhenAbsent(t *testing.T) {
	path := writeOBJ(t, `v 0 0 0
v 0 1 0
v 1 0 0
f 1 2 3
`)
	m, err := LoadOBJ(path)
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < m.VertexCount(); i++ {
		if d := math.Abs(m.Vertex(i).Normal.Len() - 1); d > 1e-12 {
			t.Fatalf("vertex %d normal not unit length: %v", i, m.Vertex(i).Normal)
		}
	}
}

func TestLoadOBJErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"index out of range", "v 0 0 0\nf 1 2 3\n"},
		{"negative index out of range", "v 0 0 0\nf -1 -2 -3\n"},
		{"malformed vertex", "v 0 0\n"},
		{"malformed face index", "v 0 0 0\nv 1 0 0\nv 0 1 0\nf 1 2 x\n"},
		{"no triangles", "v 0 0 0\nv 1 0 0\nv 0 1 0\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeOBJ(t, tt.content)
			if _, err := LoadOBJ(path); err == nil {
				t.Error("want parse error")
			}
		})
	}
}

func TestLoadOBJMissingFile(t *testing.T) {
	if _, err := LoadOBJ(filepath.Join(t.TempDir(), "absent.obj")); err == nil {
		t.Error("want open error")
	}
}

func TestLoadGLBMissingFile(t *testing.T) {
	if _, err := LoadGLB(filepath.Join(t.TempDir(), "absent.glb")); err == nil {
		t.Error("want open error")
	}
}
