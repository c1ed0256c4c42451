package render

import (
	"math"

	"github.com/taigrr/orrery/pkg/math3d"
)

// Vertex is a model-space vertex with the attributes carried through
// the pipeline.
type Vertex struct {
	Position math3d.Vec3
	Normal   math3d.Vec3
	UV       math3d.Vec2
}

// clipVertex is a vertex transformed to clip space, retaining the
// attributes that will be interpolated across fragments.
type clipVertex struct {
	Pos    math3d.Vec4 // clip-space position
	Local  math3d.Vec3 // model-space position (shader sampling domain)
	World  math3d.Vec3
	Normal math3d.Vec3
	UV     math3d.Vec2
}

// ScreenVertex is a vertex after perspective divide and viewport
// mapping. W is the clip-space w, kept for perspective-correct
// attribute interpolation.
type ScreenVertex struct {
	X, Y   float64 // pixel coordinates
	Z      float64 // NDC depth
	W      float64
	Local  math3d.Vec3
	World  math3d.Vec3
	Normal math3d.Vec3
	UV     math3d.Vec2
}

// ScreenTriangle is a screen-space triangle ready for rasterization.
// Vertices are normalized to positive signed area.
type ScreenTriangle struct {
	V [3]ScreenVertex
}

// nearEpsilon keeps clipped vertices strictly in front of the camera so
// the perspective divide never sees w near zero.
const nearEpsilon = 1e-5

// degenerateArea is the minimum screen-space double-area a triangle
// must cover to be rasterized.
const degenerateArea = 1e-9

// lerpClipVertex interpolates every clip-vertex attribute linearly.
// Linear interpolation in clip space is exact for plane clipping.
func lerpClipVertex(a, b clipVertex, t float64) clipVertex {
	return clipVertex{
		Pos:    a.Pos.Lerp(b.Pos, t),
		Local:  a.Local.Lerp(b.Local, t),
		World:  a.World.Lerp(b.World, t),
		Normal: a.Normal.Lerp(b.Normal, t),
		UV:     a.UV.Lerp(b.UV, t),
	}
}

// outsideFrustum reports whether all three vertices lie outside the
// same frustum plane, in which case the triangle cannot be visible.
func outsideFrustum(v0, v1, v2 clipVertex) bool {
	type test func(v clipVertex) bool
	tests := []test{
		func(v clipVertex) bool { return v.Pos.X > v.Pos.W },
		func(v clipVertex) bool { return v.Pos.X < -v.Pos.W },
		func(v clipVertex) bool { return v.Pos.Y > v.Pos.W },
		func(v clipVertex) bool { return v.Pos.Y < -v.Pos.W },
		func(v clipVertex) bool { return v.Pos.Z > v.Pos.W },
		func(v clipVertex) bool { return v.Pos.Z+v.Pos.W < nearEpsilon },
	}
	for _, outside := range tests {
		if outside(v0) && outside(v1) && outside(v2) {
			return true
		}
	}
	return false
}

// clipNear clips a triangle against the near plane (z + w >= epsilon)
// using Sutherland-Hodgman, returning 0 to 4 polygon vertices. Any
// vertex at or behind the camera is replaced by intersection vertices
// with correctly interpolated attributes, so no NaN or mirrored screen
// coordinates can reach the perspective divide.
func clipNear(v0, v1, v2 clipVertex) []clipVertex {
	in := [3]clipVertex{v0, v1, v2}
	dist := func(v clipVertex) float64 { return v.Pos.Z + v.Pos.W - nearEpsilon }

	out := make([]clipVertex, 0, 4)
	for i := range 3 {
		cur := in[i]
		next := in[(i+1)%3]
		dc, dn := dist(cur), dist(next)

		if dc >= 0 {
			out = append(out, cur)
		}
		// edge crosses the plane
		if (dc >= 0) != (dn >= 0) {
			t := dc / (dc - dn)
			out = append(out, lerpClipVertex(cur, next, t))
		}
	}
	return out
}

// toScreen performs the perspective divide and viewport mapping.
func toScreen(v clipVertex, viewport math3d.Mat4) ScreenVertex {
	ndc := v.Pos.PerspectiveDivide()
	sp := viewport.MulVec3(ndc)
	return ScreenVertex{
		X:      sp.X,
		Y:      sp.Y,
		Z:      sp.Z,
		W:      v.Pos.W,
		Local:  v.Local,
		World:  v.World,
		Normal: v.Normal,
		UV:     v.UV,
	}
}

// signedArea2 returns twice the signed screen-space area of a triangle.
// Positive area is front-facing under this engine's top-left-origin
// screen coordinates.
func signedArea2(a, b, c ScreenVertex) float64 {
	return (b.X-a.X)*(c.Y-a.Y) - (b.Y-a.Y)*(c.X-a.X)
}

// assembleTriangle culls, clips, and maps one clip-space triangle to
// screen space, appending zero, one, or two screen triangles to out.
// Degenerate (zero-area) triangles are dropped; back-facing triangles
// are dropped when cull is true, otherwise rewound to positive area.
func assembleTriangle(v0, v1, v2 clipVertex, viewport math3d.Mat4, cull bool, out []ScreenTriangle) []ScreenTriangle {
	if outsideFrustum(v0, v1, v2) {
		return out
	}

	poly := clipNear(v0, v1, v2)
	if len(poly) < 3 {
		return out
	}

	// Fan-triangulate the clipped polygon (3 or 4 vertices).
	sv := make([]ScreenVertex, len(poly))
	for i, v := range poly {
		sv[i] = toScreen(v, viewport)
	}

	for i := 1; i+1 < len(sv); i++ {
		a, b, c := sv[0], sv[i], sv[i+1]
		area2 := signedArea2(a, b, c)
		if math.Abs(area2) < degenerateArea {
			continue
		}
		if area2 < 0 {
			if cull {
				continue
			}
			b, c = c, b
		}
		out = append(out, ScreenTriangle{V: [3]ScreenVertex{a, b, c}})
	}
	return out
}
