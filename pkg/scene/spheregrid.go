package scene

import (
	"math"

	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/geometry"
	"github.com/df07/go-pathtracer/pkg/integrator"
	"github.com/df07/go-pathtracer/pkg/material"
)

// oklchToRGB converts OKLCH color values to RGB
// L: lightness (0-1), C: chroma (0-0.4+), H: hue (0-360 degrees)
func oklchToRGB(l, c, h float64) core.Vec3 {
	// Convert hue from degrees to radians
	hRad := h * math.Pi / 180.0

	// Convert from OKLCH to OKLAB
	a := c * math.Cos(hRad)
	b := c * math.Sin(hRad)

	// Convert from OKLAB to linear RGB
	// Using simplified approximation for OKLAB to RGB conversion
	// This is not perfectly accurate but good enough for our purposes

	// First convert to LMS
	l_ := l + 0.3963377774*a + 0.2158037573*b
	m_ := l - 0.1055613458*a - 0.0638541728*b
	s_ := l - 0.0894841775*a - 1.2914855480*b

	// Cube the values
	l_ = l_ * l_ * l_
	m_ = m_ * m_ * m_
	s_ = s_ * s_ * s_

	// Convert LMS to linear RGB
	r := +4.0767416621*l_ - 3.3077115913*m_ + 0.2309699292*s_
	g := -1.2684380046*l_ + 2.6097574011*m_ - 0.3413193965*s_
	blue := -0.0041960863*l_ - 0.7034186147*m_ + 1.7076147010*s_

	// Clamp to [0, 1] range
	r = math.Max(0, math.Min(1, r))
	g = math.Max(0, math.Min(1, g))
	blue = math.Max(0, math.Min(1, blue))

	return core.NewVec3(r, g, blue)
}

// SphereGrid returns a gridSize x gridSize grid of metal spheres on a ground
// quad, lit by a large spherical lamp. The grid is built behind a SAH BVH.
func SphereGrid(gridSize, width, height int) Config {
	cfg := DefaultConfig()

	view, err := core.LookAt(core.NewVec3(4.5, 6, 18), core.NewVec3(4.5, 0.8, 4.5), core.NewVec3(0, 1, 0))
	if err != nil {
		panic(err)
	}
	cfg.Camera = CameraConfig{Transform: view, VFov: 40, Width: width, Height: height}
	cfg.Integrator = integrator.Config{Type: integrator.TypePathTracerNEE, MaxBounces: 40}
	cfg.Sampler.Samples = 32
	cfg.Background = core.NewVec3(0.5, 0.7, 1.0).Multiply(0.2)
	cfg.Accelerator = &AcceleratorConfig{Split: geometry.SplitSAH}

	lamp := material.NewDiffuseLight(material.NewConstant(core.NewVec3(12.0, 11.5, 10.0)))
	ground := material.NewLambertian(material.NewConstantScalar(0.5))
	cfg.Surfaces = []geometry.Surface{
		geometry.NewSphere(8, core.Translate(core.NewVec3(20, 25, 20)), lamp),
		placedQuad(1000, core.NewVec3(1, 0, 0), -90, core.NewVec3(4.5, 0, 4.5), ground),
	}
	if gridSize < 1 {
		return cfg
	}

	// Fit the grid into roughly 9x9 units
	targetArea := 9.0
	spacing := targetArea
	if gridSize > 1 {
		spacing = targetArea / float64(gridSize-1)
	}
	radius := math.Max(0.02, math.Min(0.35, spacing*0.35))

	baseLightness := 0.65
	minChroma, maxChroma := 0.05, 0.25
	last := math.Max(1, float64(gridSize-1))

	for i := 0; i < gridSize; i++ {
		for j := 0; j < gridSize; j++ {
			x := float64(i)*spacing - targetArea/2.0 + 4.5
			z := float64(j)*spacing - targetArea/2.0 + 4.5

			// Hue varies across X, chroma across Z
			hue := float64(i) / last * 360.0
			chroma := minChroma + float64(j)/last*(maxChroma-minChroma)
			lightness := baseLightness + 0.1*math.Sin(float64(i+j)*0.5)
			color := oklchToRGB(lightness, chroma, hue)

			roughness := 0.05 + 0.1*float64((i+j)%3)/2.0
			metal := material.NewMetal(material.NewConstant(color), material.NewConstantScalar(roughness))
			cfg.Surfaces = append(cfg.Surfaces,
				geometry.NewSphere(radius, core.Translate(core.NewVec3(x, radius, z)), metal))
		}
	}
	return cfg
}
