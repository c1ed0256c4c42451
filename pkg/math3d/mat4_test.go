package math3d

import (
	"math"
	"testing"
)

const eps = 1e-9

func vecNear(a, b Vec3, tol float64) bool {
	return math.Abs(a.X-b.X) < tol && math.Abs(a.Y-b.Y) < tol && math.Abs(a.Z-b.Z) < tol
}

func TestIdentityMulVec3(t *testing.T) {
	v := V3(1, 2, 3)
	if got := Identity().MulVec3(v); !vecNear(got, v, eps) {
		t.Errorf("Identity().MulVec3(%v) = %v", v, got)
	}
}

func TestTranslate(t *testing.T) {
	m := Translate(V3(1, -2, 3))
	got := m.MulVec3(V3(10, 10, 10))
	want := V3(11, 8, 13)
	if !vecNear(got, want, eps) {
		t.Errorf("translate: got %v, want %v", got, want)
	}
	if tr := m.Translation(); !vecNear(tr, V3(1, -2, 3), eps) {
		t.Errorf("Translation() = %v", tr)
	}
}

func TestRotateY(t *testing.T) {
	// +Z rotates to +X after a quarter turn.
	m := RotateY(math.Pi / 2)
	got := m.MulVec3(V3(0, 0, 1))
	want := V3(1, 0, 0)
	if !vecNear(got, want, 1e-12) {
		t.Errorf("RotateY(pi/2) * (0,0,1) = %v, want %v", got, want)
	}
}

func TestRotatePreservesAxis(t *testing.T) {
	axis := V3(1, 2, 3).Normalize()
	m := Rotate(axis, 1.3)
	if got := m.MulVec3Dir(axis); !vecNear(got, axis, 1e-12) {
		t.Errorf("rotation moved its own axis: %v", got)
	}
}

func TestMulAssociatesWithVec(t *testing.T) {
	a := Translate(V3(1, 2, 3))
	b := RotateZ(0.7)
	v := V3(4, 5, 6)

	left := a.Mul(b).MulVec3(v)
	right := a.MulVec3(b.MulVec3(v))
	if !vecNear(left, right, 1e-12) {
		t.Errorf("(a*b)*v = %v, a*(b*v) = %v", left, right)
	}
}

func TestScaleUniform(t *testing.T) {
	got := ScaleUniform(2).MulVec3(V3(1, -1, 3))
	if !vecNear(got, V3(2, -2, 6), eps) {
		t.Errorf("ScaleUniform(2) = %v", got)
	}
}

func TestPerspectiveDepthRange(t *testing.T) {
	const near, far = 0.1, 100.0
	m := Perspective(math.Pi/4, 1, near, far)

	tests := []struct {
		name string
		z    float64
		want float64
	}{
		{"near plane", -near, -1},
		{"far plane", -far, 1},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			clip := m.MulVec4(V4(0, 0, tc.z, 1))
			ndc := clip.PerspectiveDivide()
			if math.Abs(ndc.Z-tc.want) > 1e-9 {
				t.Errorf("z=%v maps to ndc %v, want %v", tc.z, ndc.Z, tc.want)
			}
		})
	}
}

func TestPerspectiveWEqualsViewDistance(t *testing.T) {
	m := Perspective(math.Pi/3, 16.0/9, 0.5, 200)
	clip := m.MulVec4(V4(1, 2, -7, 1))
	if math.Abs(clip.W-7) > eps {
		t.Errorf("clip w = %v, want 7", clip.W)
	}
}

func TestViewportMapping(t *testing.T) {
	vp := Viewport(80, 48)

	tests := []struct {
		name string
		ndc  Vec3
		want Vec3
	}{
		{"top-left", V3(-1, 1, 0.5), V3(0, 0, 0.5)},
		{"bottom-right", V3(1, -1, 0.5), V3(80, 48, 0.5)},
		{"center", V3(0, 0, -0.25), V3(40, 24, -0.25)},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := vp.MulVec3(tc.ndc)
			if !vecNear(got, tc.want, eps) {
				t.Errorf("viewport(%v) = %v, want %v", tc.ndc, got, tc.want)
			}
		})
	}
}

func TestLookAtEyeMapsToOrigin(t *testing.T) {
	eye := V3(3, 4, 5)
	m := LookAt(eye, V3(0, 0, 0), Up())
	if got := m.MulVec3(eye); !vecNear(got, V3(0, 0, 0), 1e-9) {
		t.Errorf("view matrix maps eye to %v, want origin", got)
	}
}

func TestLookAtTargetOnNegativeZ(t *testing.T) {
	eye := V3(0, 0, 10)
	m := LookAt(eye, V3(0, 0, 0), Up())
	got := m.MulVec3(V3(0, 0, 0))
	if math.Abs(got.X) > 1e-9 || math.Abs(got.Y) > 1e-9 || got.Z >= 0 {
		t.Errorf("target in view space = %v, want on -Z axis", got)
	}
}
