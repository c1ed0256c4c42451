package render

import (
	"math"
	"testing"

	"github.com/taigrr/orrery/pkg/math3d"
)

func testFrustum() Frustum {
	camera := NewCamera()
	camera.SetPosition(math3d.V3(0, 0, 10))
	camera.LookAt(math3d.Zero3())
	camera.SetAspectRatio(1)
	camera.SetClipPlanes(0.1, 100)
	return ExtractFrustum(camera.ViewProjectionMatrix())
}

func TestPlaneDistance(t *testing.T) {
	p := Plane{Normal: math3d.V3(0, 1, 0), D: -5}
	if d := p.DistanceTo(math3d.V3(0, 7, 0)); math.Abs(d-2) > 1e-12 {
		t.Errorf("distance = %v, want 2", d)
	}
	if d := p.DistanceTo(math3d.V3(3, 5, -2)); math.Abs(d) > 1e-12 {
		t.Errorf("on-plane distance = %v, want 0", d)
	}
}

func TestPlaneNormalize(t *testing.T) {
	p := Plane{Normal: math3d.V3(0, 3, 0), D: 6}.Normalize()
	if math.Abs(p.Normal.Len()-1) > 1e-12 {
		t.Errorf("normal length = %v", p.Normal.Len())
	}
	if math.Abs(p.D-2) > 1e-12 {
		t.Errorf("scaled D = %v, want 2", p.D)
	}
}

func TestFrustumContainsPoint(t *testing.T) {
	f := testFrustum()

	tests := []struct {
		name string
		p    math3d.Vec3
		want bool
	}{
		{"origin ahead of camera", math3d.V3(0, 0, 0), true},
		{"slightly in front", math3d.V3(0, 0, 8), true},
		{"behind camera", math3d.V3(0, 0, 20), false},
		{"beyond far plane", math3d.V3(0, 0, -120), false},
		{"far off to the side", math3d.V3(100, 0, 0), false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := f.ContainsPoint(tc.p); got != tc.want {
				t.Errorf("ContainsPoint(%v) = %v, want %v", tc.p, got, tc.want)
			}
		})
	}
}

func TestFrustumIntersectsSphere(t *testing.T) {
	f := testFrustum()

	tests := []struct {
		name   string
		center math3d.Vec3
		radius float64
		want   bool
	}{
		{"centered sphere", math3d.V3(0, 0, 0), 1, true},
		{"big sphere straddling a side plane", math3d.V3(30, 0, 0), 40, true},
		{"small sphere far outside", math3d.V3(200, 0, 0), 1, false},
		{"sphere behind camera", math3d.V3(0, 0, 50), 2, false},
		{"sphere enclosing the camera", math3d.V3(0, 0, 10), 50, true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := f.IntersectsSphere(tc.center, tc.radius); got != tc.want {
				t.Errorf("IntersectsSphere(%v, %v) = %v, want %v", tc.center, tc.radius, got, tc.want)
			}
		})
	}
}

func TestFrustumIntersectsAABB(t *testing.T) {
	f := testFrustum()

	if !f.IntersectsAABB(math3d.V3(-1, -1, -1), math3d.V3(1, 1, 1)) {
		t.Error("centered box should intersect")
	}
	if f.IntersectsAABB(math3d.V3(100, 100, 100), math3d.V3(110, 110, 110)) {
		t.Error("distant box should not intersect")
	}
	// Box partially crossing the left plane.
	if !f.IntersectsAABB(math3d.V3(-50, -1, -1), math3d.V3(0, 1, 1)) {
		t.Error("straddling box should intersect")
	}
}

func TestFrustumRotatedCamera(t *testing.T) {
	camera := NewCamera()
	camera.SetPosition(math3d.V3(0, 0, 10))
	camera.SetAspectRatio(1)
	// Look along +X instead.
	camera.Yaw = -math.Pi / 2
	f := ExtractFrustum(camera.ViewProjectionMatrix())

	if !f.ContainsPoint(math3d.V3(20, 0, 10)) {
		t.Error("point along the new view axis should be inside")
	}
	if f.ContainsPoint(math3d.V3(0, 0, 0)) {
		t.Error("old view direction should now be outside")
	}
}
