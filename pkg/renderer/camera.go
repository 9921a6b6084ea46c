package renderer

import (
	"fmt"
	"math"

	"github.com/df07/go-pathtracer/pkg/core"
)

// Camera is a pinhole camera. In its local frame it sits at the origin,
// looks down -Z with +Y up; Transform places it in the world.
type Camera struct {
	Transform core.Transform
	VFov      float64 // Vertical field of view in degrees
	Width     int     // Image width in pixels
	Height    int     // Image height in pixels

	origin     core.Vec3
	halfWidth  float64
	halfHeight float64
}

// NewCamera creates a camera for a width x height image
func NewCamera(transform core.Transform, vfov float64, width, height int) (*Camera, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("camera resolution must be positive, got %dx%d", width, height)
	}
	if vfov <= 0 || vfov >= 180 {
		return nil, fmt.Errorf("camera vfov must be in (0, 180) degrees, got %g", vfov)
	}
	halfHeight := math.Tan(vfov * math.Pi / 360)
	return &Camera{
		Transform:  transform,
		VFov:       vfov,
		Width:      width,
		Height:     height,
		origin:     transform.Point(core.Vec3{}),
		halfHeight: halfHeight,
		halfWidth:  halfHeight * float64(width) / float64(height),
	}, nil
}

// GenerateRay returns the ray through continuous pixel coordinates (x, y).
// Pixel (i, j) covers [i, i+1) x [j, j+1); y grows downward.
func (c *Camera) GenerateRay(x, y float64) core.Ray {
	u := (2*x/float64(c.Width) - 1) * c.halfWidth
	v := (1 - 2*y/float64(c.Height)) * c.halfHeight
	direction := c.Transform.Vector(core.NewVec3(u, v, -1)).Normalize()
	return core.NewRay(c.origin, direction)
}
