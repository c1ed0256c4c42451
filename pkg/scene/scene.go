package scene

import (
	"math"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/taigrr/orrery/pkg/models"
	"github.com/taigrr/orrery/pkg/shade"
)

// bodySpec describes one default body before meshes are bound.
type bodySpec struct {
	name        string
	parent      string // empty for the system origin
	material    shade.Material
	scale       float64
	orbitRadius float64
	orbitSpeed  float64
	orbitPhase  float64
	spinSpeed   float64
}

// defaultBodies is the stock solar system: the sun, seven planets on
// widening orbits, a moon around the third planet, and a translucent
// cloud shell over the cloud planet.
var defaultBodies = []bodySpec{
	{name: "sun", material: shade.Sun, scale: 2.0, spinSpeed: 0.1},
	{name: "asteroid", material: shade.Asteroid, scale: 0.3, orbitRadius: 4, orbitSpeed: 0.50, orbitPhase: 1.1, spinSpeed: 1.2},
	{name: "rocky", material: shade.RockyPlanet, scale: 0.4, orbitRadius: 6, orbitSpeed: 0.40, orbitPhase: 2.4, spinSpeed: 0.6},
	{name: "earth", material: shade.Earth, scale: 0.6, orbitRadius: 12, orbitSpeed: 0.28, orbitPhase: 0.0, spinSpeed: 0.8},
	{name: "crystal", material: shade.CrystalPlanet, scale: 0.5, orbitRadius: 18, orbitSpeed: 0.22, orbitPhase: 4.0, spinSpeed: 0.5},
	{name: "fire", material: shade.FirePlanet, scale: 0.7, orbitRadius: 24, orbitSpeed: 0.18, orbitPhase: 2.9, spinSpeed: 0.7},
	{name: "water", material: shade.WaterPlanet, scale: 1.0, orbitRadius: 30, orbitSpeed: 0.15, orbitPhase: 5.2, spinSpeed: 0.4},
	{name: "cloudy", material: shade.CloudPlanet, scale: 0.8, orbitRadius: 36, orbitSpeed: 0.12, orbitPhase: 0.7, spinSpeed: 0.9},
	{name: "moon", parent: "earth", material: shade.Moon, scale: 0.2, orbitRadius: 2, orbitSpeed: 1.5, spinSpeed: 0.3},
	// Shell slightly larger than its planet, drifting against the spin.
	{name: "cloudy-shell", parent: "cloudy", material: shade.CloudLayer, scale: 0.86, spinSpeed: 0.55},
	{name: "earth-clouds", parent: "earth", material: shade.CloudLayer, scale: 0.65, spinSpeed: 0.6},
}

// MeshLoader resolves a mesh for a body, typically from a model file.
type MeshLoader func(name string) (*models.Mesh, error)

// SphereLoader returns a loader serving a shared procedural sphere to
// every body.
func SphereLoader(rings, segments int) MeshLoader {
	sphere := models.NewUVSphere(rings, segments)
	return func(string) (*models.Mesh, error) {
		return sphere, nil
	}
}

// FileLoader returns a loader that reads a model file once and serves
// it to every body, falling back to fallback on error.
func FileLoader(path string, fallback MeshLoader, log *zap.Logger) MeshLoader {
	var (
		mesh   *models.Mesh
		tried  bool
		broken bool
	)
	return func(name string) (*models.Mesh, error) {
		if !tried {
			tried = true
			var err error
			if mesh, err = loadModel(path); err != nil {
				log.Warn("model load failed, using procedural sphere",
					zap.String("path", path),
					zap.Error(err))
				broken = true
			}
		}
		if broken {
			return fallback(name)
		}
		return mesh, nil
	}
}

func loadModel(path string) (*models.Mesh, error) {
	switch filepath.Ext(path) {
	case ".glb", ".gltf":
		return models.LoadGLB(path)
	default:
		return models.LoadOBJ(path)
	}
}

// DefaultSystem builds the stock solar system. A body whose mesh
// cannot be loaded is logged and left out rather than aborting the
// whole scene.
func DefaultSystem(load MeshLoader, log *zap.Logger) *System {
	sys := NewSystem()

	indices := make(map[string]int, len(defaultBodies))
	for _, spec := range defaultBodies {
		parent := NoParent
		if spec.parent != "" {
			pi, ok := indices[spec.parent]
			if !ok {
				log.Warn("body skipped, parent missing",
					zap.String("body", spec.name),
					zap.String("parent", spec.parent))
				continue
			}
			parent = pi
		}

		mesh, err := load(spec.name)
		if err != nil {
			log.Warn("body skipped, mesh unavailable",
				zap.String("body", spec.name),
				zap.Error(err))
			continue
		}

		i, err := sys.Add(Body{
			Name:        spec.name,
			Parent:      parent,
			Material:    spec.material,
			Mesh:        mesh,
			Scale:       spec.scale,
			OrbitRadius: spec.orbitRadius,
			OrbitSpeed:  spec.orbitSpeed,
			OrbitPhase:  spec.orbitPhase,
			SpinSpeed:   spec.spinSpeed,
		})
		if err != nil {
			log.Warn("body rejected", zap.String("body", spec.name), zap.Error(err))
			continue
		}
		indices[spec.name] = i
	}

	sys.Advance(0)
	log.Info("scene assembled", zap.Int("bodies", len(sys.Bodies)))
	return sys
}

// Radius returns the distance from the origin to the outermost orbit,
// useful for camera far-plane and bird view framing.
func (s *System) Radius() float64 {
	r := 0.0
	for i := range s.Bodies {
		d := s.Bodies[i].OrbitRadius + s.Bodies[i].Scale
		if s.Bodies[i].Parent != NoParent {
			d += s.Bodies[s.Bodies[i].Parent].OrbitRadius
		}
		r = math.Max(r, d)
	}
	return r
}
