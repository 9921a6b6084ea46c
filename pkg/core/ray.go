package core

import "math"

// RayEpsilon is the default lower bound of a ray's parametric interval.
// Rays spawned from a surface start here to avoid re-hitting that surface.
const RayEpsilon = 1e-4

// Ray represents a ray with an origin, an unnormalized direction and the
// parametric interval [MinT, MaxT] in which hits are accepted.
//
// Intersection routines shrink MaxT on their own copy of the ray; a Ray is
// passed by value and never shared between goroutines.
type Ray struct {
	Origin    Vec3
	Direction Vec3
	MinT      float64
	MaxT      float64
}

// NewRay creates a new ray over [RayEpsilon, +Inf)
func NewRay(origin, direction Vec3) Ray {
	return Ray{Origin: origin, Direction: direction, MinT: RayEpsilon, MaxT: math.Inf(1)}
}

// NewRaySegment creates a ray with an explicit parametric interval
func NewRaySegment(origin, direction Vec3, minT, maxT float64) Ray {
	return Ray{Origin: origin, Direction: direction, MinT: minT, MaxT: maxT}
}

// At returns the point at parameter t along the ray
func (r Ray) At(t float64) Vec3 {
	return r.Origin.Add(r.Direction.Multiply(t))
}

// InRange reports whether t lies within the ray's interval
func (r Ray) InRange(t float64) bool {
	return t >= r.MinT && t <= r.MaxT
}
