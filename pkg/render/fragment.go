package render

import "github.com/taigrr/orrery/pkg/math3d"

// Fragment is a candidate pixel contribution produced by rasterizing
// one triangle. Attributes are perspective-correct interpolations of
// the triangle's vertex attributes. Fragments are transient; they live
// only long enough to be shaded and depth-tested.
type Fragment struct {
	X, Y   int     // pixel coordinate
	Depth  float64 // NDC depth, smaller is nearer
	Local  math3d.Vec3
	World  math3d.Vec3
	Normal math3d.Vec3
	UV     math3d.Vec2
}

// ShadeFunc maps a fragment to its final color. Implementations must be
// pure: identical fragments produce identical colors.
type ShadeFunc func(Fragment) Color
