// Package shade contains procedural surface shaders for celestial
// bodies. Shaders are pure functions of the fragment, the material,
// and the scene clock, so they can run on any worker without
// synchronization.
package shade

import (
	opensimplex "github.com/ojrac/opensimplex-go"

	"github.com/taigrr/orrery/pkg/math3d"
)

// FBM layers several octaves of smooth noise into fractal Brownian
// motion. Frequency doubles (by Lacunarity) and amplitude halves (by
// Gain) each octave.
type FBM struct {
	src        opensimplex.Noise
	Frequency  float64
	Octaves    int
	Lacunarity float64
	Gain       float64
}

// NewFBM creates a fractal noise field from a fixed seed. Same seed,
// same field: the sampled values are fully deterministic.
func NewFBM(seed int64, frequency float64, octaves int) *FBM {
	return &FBM{
		src:        opensimplex.New(seed),
		Frequency:  frequency,
		Octaves:    octaves,
		Lacunarity: 2.0,
		Gain:       0.5,
	}
}

// At samples the field at a 3D point, returning a value in [0, 1].
func (f *FBM) At(p math3d.Vec3) float64 {
	var (
		amplitude = 1.0
		frequency = f.Frequency
		sum       = 0.0
		norm      = 0.0
	)
	for range f.Octaves {
		n := f.src.Eval3(p.X*frequency, p.Y*frequency, p.Z*frequency)
		sum += (n + 1) / 2 * amplitude
		norm += amplitude
		amplitude *= f.Gain
		frequency *= f.Lacunarity
	}
	if norm == 0 {
		return 0
	}
	return sum / norm
}

// Ridged samples the field with ridged octaves, producing crack and
// vein patterns. Result is in [0, 1].
func (f *FBM) Ridged(p math3d.Vec3) float64 {
	var (
		amplitude = 1.0
		frequency = f.Frequency
		sum       = 0.0
		norm      = 0.0
	)
	for range f.Octaves {
		n := f.src.Eval3(p.X*frequency, p.Y*frequency, p.Z*frequency)
		if n < 0 {
			n = -n
		}
		sum += (1 - n) * amplitude
		norm += amplitude
		amplitude *= f.Gain
		frequency *= f.Lacunarity
	}
	if norm == 0 {
		return 0
	}
	return sum / norm
}

// Fixed seeds so every run renders the same surfaces.
const (
	cloudSeed   = 1337
	terrainSeed = 1337
	lavaSeed    = 42
	crystalSeed = 7
)

// Shared noise fields, one per surface family. opensimplex.Noise is
// safe for concurrent reads.
var (
	// cloudField drives cloud cover and gas bands. Single octave
	// keeps the shapes soft.
	cloudField = NewFBM(cloudSeed, 1.8, 1)

	// terrainField drives continents, craters and rocky surfaces.
	terrainField = NewFBM(terrainSeed, 2.4, 5)

	// lavaField drives turbulent fire and sun surfaces.
	lavaField = NewFBM(lavaSeed, 3.0, 6)

	// crystalField drives sharp facet veins.
	crystalField = NewFBM(crystalSeed, 4.0, 4)
)
