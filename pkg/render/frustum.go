package render

import (
	"math"

	"github.com/taigrr/orrery/pkg/math3d"
)

// Plane is a half-space in Hessian normal form: points p with
// Normal·p + D >= 0 are on the inside.
type Plane struct {
	Normal math3d.Vec3
	D      float64
}

// Normalize scales the plane so Normal has unit length, making
// DistanceTo return true euclidean distance.
func (p Plane) Normalize() Plane {
	length := p.Normal.Len()
	if length == 0 {
		return p
	}
	inv := 1.0 / length
	return Plane{Normal: p.Normal.Scale(inv), D: p.D * inv}
}

// DistanceTo returns the signed distance from a point to the plane.
// Positive means inside.
func (p Plane) DistanceTo(point math3d.Vec3) float64 {
	return p.Normal.Dot(point) + p.D
}

// Frustum is the six planes of a view volume, normals pointing inward.
type Frustum struct {
	Planes [6]Plane // left, right, bottom, top, near, far
}

// ExtractFrustum derives the six frustum planes from a combined
// view-projection matrix by adding or subtracting rows of the matrix
// (Gribb/Hartmann). The matrix is column-major, so row i element j is
// m[j*4+i].
func ExtractFrustum(m math3d.Mat4) Frustum {
	row := func(i int) math3d.Vec4 {
		return math3d.V4(m[i], m[4+i], m[8+i], m[12+i])
	}
	r0, r1, r2, r3 := row(0), row(1), row(2), row(3)

	plane := func(v math3d.Vec4) Plane {
		return Plane{Normal: math3d.V3(v.X, v.Y, v.Z), D: v.W}.Normalize()
	}

	var f Frustum
	f.Planes[0] = plane(r3.Add(r0)) // left:   w + x >= 0
	f.Planes[1] = plane(r3.Sub(r0)) // right:  w - x >= 0
	f.Planes[2] = plane(r3.Add(r1)) // bottom: w + y >= 0
	f.Planes[3] = plane(r3.Sub(r1)) // top:    w - y >= 0
	f.Planes[4] = plane(r3.Add(r2)) // near:   w + z >= 0
	f.Planes[5] = plane(r3.Sub(r2)) // far:    w - z >= 0
	return f
}

// IntersectsSphere reports whether a sphere is at least partially
// inside the frustum. Conservative: may return true for spheres just
// outside an edge, never false for a visible one.
func (f Frustum) IntersectsSphere(center math3d.Vec3, radius float64) bool {
	for i := range f.Planes {
		if f.Planes[i].DistanceTo(center) < -radius {
			return false
		}
	}
	return true
}

// ContainsPoint reports whether a point lies inside all six planes.
func (f Frustum) ContainsPoint(p math3d.Vec3) bool {
	return f.IntersectsSphere(p, 0)
}

// IntersectsAABB reports whether an axis-aligned box intersects the
// frustum, testing the box corner farthest along each plane normal.
func (f Frustum) IntersectsAABB(min, max math3d.Vec3) bool {
	for i := range f.Planes {
		n := f.Planes[i].Normal
		farthest := math3d.V3(
			pick(n.X, min.X, max.X),
			pick(n.Y, min.Y, max.Y),
			pick(n.Z, min.Z, max.Z),
		)
		if f.Planes[i].DistanceTo(farthest) < 0 {
			return false
		}
	}
	return true
}

func pick(n, lo, hi float64) float64 {
	if math.Signbit(n) {
		return lo
	}
	return hi
}
