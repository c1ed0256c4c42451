package math3d

import (
	"math"
	"testing"
)

func BenchmarkMat4Mul(b *testing.B) {
	m1 := RotateY(0.5)
	m2 := Translate(V3(1, 2, 3))
	for i := 0; i < b.N; i++ {
		_ = m1.Mul(m2)
	}
}

func BenchmarkMat4MulVec4(b *testing.B) {
	m := Perspective(math.Pi/4, 16.0/9, 0.1, 1000).Mul(RotateX(0.3))
	v := V4(1, 2, 3, 1)
	for i := 0; i < b.N; i++ {
		_ = m.MulVec4(v)
	}
}

func BenchmarkMat4MulVec3(b *testing.B) {
	m := Translate(V3(1, 2, 3)).Mul(RotateZ(0.7))
	v := V3(4, 5, 6)
	for i := 0; i < b.N; i++ {
		_ = m.MulVec3(v)
	}
}

func BenchmarkVec3Normalize(b *testing.B) {
	v := V3(1, 2, 3)
	for i := 0; i < b.N; i++ {
		_ = v.Normalize()
	}
}

func BenchmarkVec3Cross(b *testing.B) {
	v1 := V3(1, 2, 3)
	v2 := V3(4, 5, 6)
	for i := 0; i < b.N; i++ {
		_ = v1.Cross(v2)
	}
}

func BenchmarkViewProjection(b *testing.B) {
	proj := Perspective(math.Pi/4, 16.0/9, 0.1, 1000)
	view := LookAt(V3(0, 2, 18), Zero3(), Up())
	for i := 0; i < b.N; i++ {
		_ = proj.Mul(view)
	}
}
