package scene

import (
	"errors"
	"math"
	"testing"

	"go.uber.org/zap"

	"github.com/taigrr/orrery/pkg/math3d"
	"github.com/taigrr/orrery/pkg/models"
	"github.com/taigrr/orrery/pkg/render"
	"github.com/taigrr/orrery/pkg/shade"
)

func testMesh() *models.Mesh {
	return models.NewUVSphere(6, 8)
}

func TestSystemAddValidatesParent(t *testing.T) {
	sys := NewSystem()

	if _, err := sys.Add(Body{Name: "orphan", Parent: 3, Mesh: testMesh(), Scale: 1}); err == nil {
		t.Error("forward parent reference should fail")
	}
	if _, err := sys.Add(Body{Name: "meshless", Parent: NoParent, Scale: 1}); err == nil {
		t.Error("nil mesh should fail")
	}

	i, err := sys.Add(Body{Name: "root", Parent: NoParent, Mesh: testMesh(), Scale: 1})
	if err != nil {
		t.Fatalf("add root: %v", err)
	}
	if _, err := sys.Add(Body{Name: "child", Parent: i, Mesh: testMesh(), Scale: 0.5}); err != nil {
		t.Fatalf("add child: %v", err)
	}
}

func buildTestSystem(t *testing.T) *System {
	t.Helper()
	sys := NewSystem()
	specs := []Body{
		{Name: "star", Parent: NoParent, Mesh: testMesh(), Scale: 2, SpinSpeed: 0.1},
		{Name: "planet", Parent: NoParent, Mesh: testMesh(), Scale: 0.6, OrbitRadius: 8, OrbitSpeed: 0.3, OrbitPhase: 1.0, SpinSpeed: 0.8},
		{Name: "moon", Parent: 1, Mesh: testMesh(), Scale: 0.2, OrbitRadius: 2, OrbitSpeed: 1.5, SpinSpeed: 0.3},
	}
	for _, b := range specs {
		if _, err := sys.Add(b); err != nil {
			t.Fatalf("add %q: %v", b.Name, err)
		}
	}
	return sys
}

func TestAdvanceDeterministic(t *testing.T) {
	sys := buildTestSystem(t)

	sys.Advance(7.25)
	first := make([]math3d.Vec3, len(sys.Bodies))
	for i := range sys.Bodies {
		first[i] = sys.Bodies[i].WorldPosition()
	}

	sys.Advance(100)
	sys.Advance(7.25)
	for i := range sys.Bodies {
		if got := sys.Bodies[i].WorldPosition(); !near3(got, first[i], 1e-9) {
			t.Errorf("body %d position differs on replay: %v vs %v", i, got, first[i])
		}
	}
}

func TestAdvanceOrbitGeometry(t *testing.T) {
	sys := NewSystem()
	root, err := sys.Add(Body{
		Name: "planet", Parent: NoParent, Mesh: testMesh(),
		Scale: 1, OrbitRadius: 12, OrbitSpeed: 0.5,
	})
	if err != nil {
		t.Fatal(err)
	}
	moon, err := sys.Add(Body{
		Name: "moon", Parent: root, Mesh: testMesh(),
		Scale: 0.2, OrbitRadius: 2, OrbitSpeed: 3,
	})
	if err != nil {
		t.Fatal(err)
	}

	for _, tm := range []float64{0, 1.3, 5.5, 9.75} {
		sys.Advance(tm)

		p := sys.Bodies[root].WorldPosition()
		if d := p.Len(); math.Abs(d-12) > 1e-9 {
			t.Errorf("t=%v: planet at distance %v from origin, want 12", tm, d)
		}
		if p.Y != 0 {
			t.Errorf("t=%v: orbit left the XZ plane: %v", tm, p)
		}

		m := sys.Bodies[moon].WorldPosition()
		if d := m.Sub(p).Len(); math.Abs(d-2) > 1e-9 {
			t.Errorf("t=%v: moon at distance %v from planet, want 2", tm, d)
		}
	}
}

func TestAdvanceOrbitPeriodicity(t *testing.T) {
	sys := NewSystem()
	i, err := sys.Add(Body{
		Name: "p", Parent: NoParent, Mesh: testMesh(),
		Scale: 1, OrbitRadius: 5, OrbitSpeed: 0.4, OrbitPhase: 1.1,
	})
	if err != nil {
		t.Fatal(err)
	}

	period := 2 * math.Pi / 0.4
	sys.Advance(3)
	a := sys.Bodies[i].WorldPosition()
	sys.Advance(3 + period)
	b := sys.Bodies[i].WorldPosition()
	if !near3(a, b, 1e-6) {
		t.Errorf("position after one period: %v vs %v", a, b)
	}
}

func TestWorldTransformIncludesScale(t *testing.T) {
	sys := NewSystem()
	i, err := sys.Add(Body{Name: "p", Parent: NoParent, Mesh: testMesh(), Scale: 2.5})
	if err != nil {
		t.Fatal(err)
	}
	sys.Advance(0)

	m := sys.Bodies[i].WorldTransform()
	// A unit offset on the surface scales to 2.5 (minus translation).
	v := m.MulVec3(math3d.V3(1, 0, 0)).Sub(m.Translation())
	if math.Abs(v.Len()-2.5) > 1e-9 {
		t.Errorf("surface offset length %v, want 2.5", v.Len())
	}
}

func TestDefaultSystem(t *testing.T) {
	sys := DefaultSystem(SphereLoader(8, 12), zap.NewNop())

	if len(sys.Bodies) != len(defaultBodies) {
		t.Fatalf("got %d bodies, want %d", len(sys.Bodies), len(defaultBodies))
	}

	var suns, translucent int
	for i := range sys.Bodies {
		b := &sys.Bodies[i]
		if b.Material == shade.Sun {
			suns++
			if b.OrbitRadius != 0 {
				t.Error("sun should sit at the origin")
			}
		}
		if b.Material.Translucent() {
			translucent++
			if b.Parent == NoParent {
				t.Errorf("cloud shell %q has no parent planet", b.Name)
			}
		}
		if b.Parent != NoParent && b.Parent >= i {
			t.Errorf("body %d references parent %d out of order", i, b.Parent)
		}
	}
	if suns != 1 {
		t.Errorf("found %d suns", suns)
	}
	if translucent == 0 {
		t.Error("no translucent cloud shells in default system")
	}

	if r := sys.Radius(); r < 36 {
		t.Errorf("system radius %v, want at least the outermost orbit", r)
	}
}

func TestDefaultSystemSkipsFailedMeshes(t *testing.T) {
	calls := 0
	failEarth := func(name string) (*models.Mesh, error) {
		calls++
		if name == "earth" {
			return nil, errors.New("mesh unavailable")
		}
		return testMesh(), nil
	}

	sys := DefaultSystem(failEarth, zap.NewNop())
	if calls == 0 {
		t.Fatal("loader never called")
	}

	for i := range sys.Bodies {
		if sys.Bodies[i].Name == "earth" {
			t.Error("failed body still present")
		}
		// Children of the failed body must be skipped too, never
		// left pointing at a wrong index.
		if sys.Bodies[i].Name == "moon" || sys.Bodies[i].Name == "earth-clouds" {
			t.Errorf("child %q of failed body present", sys.Bodies[i].Name)
		}
	}
}

func TestSystemDrawSmoke(t *testing.T) {
	sys := DefaultSystem(SphereLoader(8, 12), zap.NewNop())
	sys.Advance(1.5)

	fb := render.NewFramebuffer(80, 48)
	fb.Clear(render.ColorSpace)
	camera := render.NewCamera()
	camera.SetPosition(math3d.V3(0, 3, 20))
	camera.LookAt(math3d.Zero3())
	camera.SetAspectRatio(80.0 / 48.0)
	r := render.NewRasterizer(camera, fb)

	sys.Draw(r, camera.Position)

	shaded := 0
	for y := 0; y < fb.Height; y++ {
		for x := 0; x < fb.Width; x++ {
			if fb.At(x, y) != render.ColorSpace {
				shaded++
			}
		}
	}
	if shaded == 0 {
		t.Fatal("drawing the default system touched no pixels")
	}
}

func near3(a, b math3d.Vec3, tol float64) bool {
	return math.Abs(a.X-b.X) < tol && math.Abs(a.Y-b.Y) < tol && math.Abs(a.Z-b.Z) < tol
}
