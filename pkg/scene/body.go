// Package scene models the solar system: a registry of orbiting
// bodies, their transforms over time, and the two-pass draw order.
package scene

import (
	"fmt"
	"math"
	"sort"

	"github.com/taigrr/orrery/pkg/math3d"
	"github.com/taigrr/orrery/pkg/models"
	"github.com/taigrr/orrery/pkg/render"
	"github.com/taigrr/orrery/pkg/shade"
)

// NoParent marks a body orbiting the system origin.
const NoParent = -1

// Body is one celestial body. Orbits are circular in the XZ plane
// around the parent's position; spin is about the body's Y axis.
type Body struct {
	Name     string
	Parent   int // index into System.Bodies, or NoParent
	Material shade.Material
	Mesh     *models.Mesh

	Scale       float64
	OrbitRadius float64
	OrbitSpeed  float64 // radians per second
	OrbitPhase  float64 // radians at t=0
	SpinSpeed   float64 // radians per second

	worldPos math3d.Vec3
	world    math3d.Mat4
}

// WorldPosition returns the body's position as of the last Advance.
func (b *Body) WorldPosition() math3d.Vec3 {
	return b.worldPos
}

// WorldTransform returns the body's model matrix as of the last
// Advance.
func (b *Body) WorldTransform() math3d.Mat4 {
	return b.world
}

// System is an ordered registry of bodies. Parents always precede
// their children, so one forward pass composes every transform.
type System struct {
	Bodies []Body
	time   float64
}

// NewSystem creates an empty system.
func NewSystem() *System {
	return &System{}
}

// Add appends a body and returns its index. The parent must already
// be in the system; a forward reference is an error, which keeps the
// registry a well-ordered shallow tree.
func (s *System) Add(b Body) (int, error) {
	if b.Parent != NoParent && (b.Parent < 0 || b.Parent >= len(s.Bodies)) {
		return 0, fmt.Errorf("body %q: parent index %d not yet registered", b.Name, b.Parent)
	}
	if b.Mesh == nil {
		return 0, fmt.Errorf("body %q: nil mesh", b.Name)
	}
	b.world = math3d.Identity()
	s.Bodies = append(s.Bodies, b)
	return len(s.Bodies) - 1, nil
}

// Time returns the simulation time of the last Advance.
func (s *System) Time() float64 {
	return s.time
}

// Advance recomputes every body's transform for simulation time t,
// in seconds. t is absolute, not a delta: calling Advance twice with
// the same t yields identical transforms.
func (s *System) Advance(t float64) {
	s.time = t
	for i := range s.Bodies {
		b := &s.Bodies[i]

		var origin math3d.Vec3
		if b.Parent != NoParent {
			origin = s.Bodies[b.Parent].worldPos
		}

		angle := b.OrbitPhase + b.OrbitSpeed*t
		b.worldPos = origin.Add(math3d.V3(
			b.OrbitRadius*math.Cos(angle),
			0,
			b.OrbitRadius*math.Sin(angle),
		))

		b.world = math3d.Translate(b.worldPos).
			Mul(math3d.RotateY(b.SpinSpeed * t)).
			Mul(math3d.ScaleUniform(b.Scale))
	}
}

// Draw renders the system: opaque bodies through the queued pass,
// then translucent ones blended back-to-front from the eye so nearer
// cloud shells composite over farther ones.
func (s *System) Draw(r *render.Rasterizer, eye math3d.Vec3) {
	t := s.time

	r.Begin()
	var translucent []int
	for i := range s.Bodies {
		b := &s.Bodies[i]
		if b.Material.Translucent() {
			translucent = append(translucent, i)
			continue
		}
		r.DrawMesh(b.Mesh, b.world, s.shader(b.Material, t))
	}
	r.Flush()

	sort.Slice(translucent, func(a, b int) bool {
		da := s.Bodies[translucent[a]].worldPos.Sub(eye).LenSq()
		db := s.Bodies[translucent[b]].worldPos.Sub(eye).LenSq()
		return da > db
	})
	for _, i := range translucent {
		b := &s.Bodies[i]
		r.DrawMeshBlend(b.Mesh, b.world, s.shader(b.Material, t))
	}
}

func (s *System) shader(m shade.Material, t float64) render.ShadeFunc {
	return func(frag render.Fragment) render.Color {
		return shade.Shade(frag, m, t)
	}
}
