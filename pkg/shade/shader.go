package shade

import (
	"math"

	"github.com/taigrr/orrery/pkg/math3d"
	"github.com/taigrr/orrery/pkg/render"
)

// Material selects a procedural surface.
type Material int

const (
	Sun Material = iota
	Asteroid
	RockyPlanet
	Earth
	CrystalPlanet
	FirePlanet
	WaterPlanet
	CloudPlanet
	Moon
	CloudLayer
)

// String returns the material name for logs and HUD text.
func (m Material) String() string {
	switch m {
	case Sun:
		return "sun"
	case Asteroid:
		return "asteroid"
	case RockyPlanet:
		return "rocky"
	case Earth:
		return "earth"
	case CrystalPlanet:
		return "crystal"
	case FirePlanet:
		return "fire"
	case WaterPlanet:
		return "water"
	case CloudPlanet:
		return "cloud-planet"
	case Moon:
		return "moon"
	case CloudLayer:
		return "cloud-layer"
	default:
		return "unknown"
	}
}

// Translucent reports whether the material writes partial alpha and
// must be drawn in the blended pass.
func (m Material) Translucent() bool {
	return m == CloudLayer
}

// Shade evaluates the material at one fragment. It is a pure function:
// same fragment, material and time always produce the same color, so
// it may be called concurrently from rasterizer workers.
func Shade(frag render.Fragment, m Material, time float64) render.Color {
	switch m {
	case Sun:
		return shadeSun(frag, time)
	case Asteroid:
		return lit(frag, shadeAsteroid(frag))
	case RockyPlanet:
		return lit(frag, shadeRocky(frag))
	case Earth:
		return lit(frag, shadeEarth(frag, time))
	case CrystalPlanet:
		return lit(frag, shadeCrystal(frag, time))
	case FirePlanet:
		return shadeFire(frag, time) // emissive, no sun lighting
	case WaterPlanet:
		return lit(frag, shadeWater(frag, time))
	case CloudPlanet:
		return lit(frag, shadeCloudPlanet(frag, time))
	case Moon:
		return lit(frag, shadeMoon(frag))
	case CloudLayer:
		return shadeCloudLayer(frag, time)
	default:
		return render.ColorWhite
	}
}

const ambient = 0.15

// lit applies point lighting from the sun at the world origin.
func lit(frag render.Fragment, base render.Color) render.Color {
	lightDir := frag.World.Negate().Normalize()
	diffuse := math.Max(0, frag.Normal.Dot(lightDir))
	return render.ScaleColor(base, ambient+(1-ambient)*diffuse)
}

func shadeSun(frag render.Fragment, time float64) render.Color {
	p := frag.Local.Add(math3d.V3(0, 0, time*0.15))
	n := lavaField.At(p)

	core := render.RGB(255, 220, 60)
	flare := render.RGB(255, 120, 10)
	c := render.LerpColor(core, flare, n)

	// Rim glow: edges facing away from the viewer run hotter.
	view := frag.World.Normalize()
	rim := 1 - math.Abs(frag.Normal.Dot(view))
	return render.AddColor(c, render.ScaleColor(render.RGB(255, 90, 0), rim*0.6))
}

func shadeAsteroid(frag render.Fragment) render.Color {
	n := terrainField.At(frag.Local.Scale(3))
	dark := render.RGB(70, 62, 58)
	light := render.RGB(130, 120, 110)
	c := render.LerpColor(dark, light, n)

	// Crater pockets where the ridged field pinches.
	crater := terrainField.Ridged(frag.Local.Scale(5))
	if crater > 0.78 {
		c = render.ScaleColor(c, 0.55)
	}

	// Molten pools glow through where a second field runs hot.
	pool := lavaField.At(frag.Local.Scale(2))
	if pool > 0.68 {
		glow := math3d.Smoothstep(0.68, 0.82, pool)
		c = render.LerpColor(c, render.RGB(255, 110, 20), glow)
	}
	return c
}

func shadeRocky(frag render.Fragment) render.Color {
	n := terrainField.At(frag.Local)
	cracks := terrainField.Ridged(frag.Local.Scale(2.5))

	lowland := render.RGB(120, 85, 60)
	highland := render.RGB(190, 150, 110)
	c := render.LerpColor(lowland, highland, n)
	if cracks > 0.8 {
		c = render.LerpColor(c, render.RGB(60, 40, 30), (cracks-0.8)/0.2)
	}
	return c
}

func shadeEarth(frag render.Fragment, time float64) render.Color {
	elev := terrainField.At(frag.Local)

	var c render.Color
	switch {
	case elev < 0.48: // deep ocean
		c = render.LerpColor(render.RGB(8, 30, 90), render.RGB(20, 70, 150), elev/0.48)
	case elev < 0.52: // coastline
		c = render.LerpColor(render.RGB(20, 70, 150), render.RGB(190, 180, 120), (elev-0.48)/0.04)
	case elev < 0.68: // lowland
		c = render.LerpColor(render.RGB(40, 120, 40), render.RGB(20, 80, 25), (elev-0.52)/0.16)
	default: // mountains into snow
		c = render.LerpColor(render.RGB(110, 100, 90), render.ColorWhite, (elev-0.68)/0.32)
	}

	// Polar ice caps.
	lat := math.Abs(frag.Local.Normalize().Y)
	if lat > 0.85 {
		c = render.LerpColor(c, render.ColorWhite, math3d.Smoothstep(0.85, 0.95, lat))
	}

	// Drifting cloud cover baked into the surface pass.
	cloud := cloudField.At(frag.Local.Scale(1.5).Add(math3d.V3(time*0.05, 0, 0)))
	if cloud > 0.58 {
		c = render.LerpColor(c, render.ColorWhite, math3d.Smoothstep(0.58, 0.8, cloud)*0.85)
	}
	return c
}

func shadeCrystal(frag render.Fragment, time float64) render.Color {
	vein := crystalField.Ridged(frag.Local)
	base := render.LerpColor(render.RGB(40, 10, 90), render.RGB(150, 60, 220), vein)

	// Facets shimmer as the body spins under the viewer.
	view := frag.World.Normalize()
	spec := math.Pow(math.Abs(frag.Normal.Dot(view)), 8)
	pulse := 0.5 + 0.5*math.Sin(time*2+vein*12)
	return render.AddColor(base, render.ScaleColor(render.RGB(200, 180, 255), spec*pulse*0.5))
}

func shadeFire(frag render.Fragment, time float64) render.Color {
	p := frag.Local.Add(math3d.V3(0, time*0.3, 0))
	n := lavaField.At(p)

	crust := render.RGB(40, 8, 4)
	lava := render.RGB(255, 60, 0)
	hot := render.RGB(255, 200, 40)

	if n < 0.5 {
		return render.LerpColor(crust, lava, n/0.5)
	}
	return render.LerpColor(lava, hot, (n-0.5)/0.5)
}

func shadeWater(frag render.Fragment, time float64) render.Color {
	wave := cloudField.At(frag.Local.Scale(3).Add(math3d.V3(time*0.2, time*0.1, 0)))
	deep := render.RGB(5, 25, 80)
	crest := render.RGB(60, 140, 200)
	c := render.LerpColor(deep, crest, wave)

	foam := math3d.Smoothstep(0.72, 0.8, wave)
	return render.LerpColor(c, render.ColorWhite, foam*0.6)
}

func shadeCloudPlanet(frag render.Fragment, time float64) render.Color {
	// Gas giant bands: latitude stripes warped by drifting noise.
	p := frag.Local.Normalize()
	warp := cloudField.At(frag.Local.Scale(2).Add(math3d.V3(time*0.08, 0, 0)))
	band := 0.5 + 0.5*math.Sin(p.Y*9+warp*4)

	cream := render.RGB(225, 205, 170)
	rust := render.RGB(170, 120, 80)
	return render.LerpColor(rust, cream, band)
}

func shadeMoon(frag render.Fragment) render.Color {
	n := terrainField.At(frag.Local.Scale(4))
	c := render.LerpColor(render.RGB(90, 90, 95), render.RGB(180, 180, 185), n)

	crater := terrainField.Ridged(frag.Local.Scale(6))
	if crater > 0.75 {
		c = render.ScaleColor(c, 0.6)
	}
	return c
}

// shadeCloudLayer renders the translucent cloud shell drawn over a
// planet in the blended pass. Alpha comes from the noise field, zero
// in the gaps so the surface shows through untouched.
func shadeCloudLayer(frag render.Fragment, time float64) render.Color {
	n := cloudField.At(frag.Local.Scale(1.2).Add(math3d.V3(time*0.1, 0, time*0.04)))
	cover := math3d.Smoothstep(0.52, 0.78, n)
	if cover <= 0 {
		return render.RGBA(0, 0, 0, 0)
	}

	lightDir := frag.World.Negate().Normalize()
	diffuse := ambient + (1-ambient)*math.Max(0, frag.Normal.Dot(lightDir))
	white := render.ScaleColor(render.ColorWhite, diffuse)
	return render.RGBA(white.R, white.G, white.B, uint8(cover*230))
}
