package material

import (
	"math"

	"github.com/df07/go-pathtracer/pkg/core"
)

// Texture provides spatially-varying parameters for materials
type Texture interface {
	// Value returns the texture value at the hit, or false if the texture is
	// undefined there
	Value(hit *HitInfo) (core.Vec3, bool)
}

// Constant is a uniform texture
type Constant struct {
	Color core.Vec3
}

// NewConstant creates a uniform texture
func NewConstant(color core.Vec3) *Constant {
	return &Constant{Color: color}
}

// NewConstantScalar creates a uniform texture with all channels set to v
func NewConstantScalar(v float64) *Constant {
	return &Constant{Color: core.Splat(v)}
}

// Value returns the constant color
func (c *Constant) Value(*HitInfo) (core.Vec3, bool) {
	return c.Color, true
}

// Checker alternates between two textures on a 3D world-space grid
type Checker struct {
	Even  Texture
	Odd   Texture
	Scale float64 // Checks per world unit
}

// NewChecker creates a checker texture
func NewChecker(even, odd Texture, scale float64) *Checker {
	if scale == 0 {
		scale = 1
	}
	return &Checker{Even: even, Odd: odd, Scale: scale}
}

// Value picks the even or odd texture based on the hit position
func (c *Checker) Value(hit *HitInfo) (core.Vec3, bool) {
	p := hit.P.Multiply(c.Scale)
	sum := int(math.Floor(p.X)) + int(math.Floor(p.Y)) + int(math.Floor(p.Z))
	if sum%2 == 0 {
		return c.Even.Value(hit)
	}
	return c.Odd.Value(hit)
}

// colorAt evaluates a color texture, falling back to black
func colorAt(t Texture, hit *HitInfo) core.Vec3 {
	if v, ok := t.Value(hit); ok {
		return v
	}
	return core.Vec3{}
}

// scalarAt reduces a texture to a scalar by luminance
func scalarAt(t Texture, hit *HitInfo, fallback float64) float64 {
	if v, ok := t.Value(hit); ok {
		return v.Luminance()
	}
	return fallback
}
