// Package scene assembles surfaces, emitters, a camera and an integrator into
// a renderable world and drives the per-pixel sampling loop.
package scene

import (
	"fmt"
	"time"

	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/geometry"
	"github.com/df07/go-pathtracer/pkg/integrator"
	"github.com/df07/go-pathtracer/pkg/material"
	"github.com/df07/go-pathtracer/pkg/renderer"
	"github.com/df07/go-pathtracer/pkg/sampler"
)

// CameraConfig describes the pinhole camera
type CameraConfig struct {
	Transform core.Transform
	VFov      float64 // Vertical field of view in degrees
	Width     int
	Height    int
}

// DefaultCameraConfig returns a 512x512 camera at the origin looking down -Z
func DefaultCameraConfig() CameraConfig {
	return CameraConfig{Transform: core.IdentityTransform(), VFov: 90, Width: 512, Height: 512}
}

// AcceleratorConfig selects a BVH over the scene's surfaces
type AcceleratorConfig struct {
	Split geometry.SplitMethod
}

// Config is everything needed to build a Scene
type Config struct {
	Camera      CameraConfig
	Integrator  integrator.Config
	Sampler     sampler.Config
	Background  core.Vec3
	Accelerator *AcceleratorConfig // nil traces against a linear list
	Surfaces    []geometry.Surface
}

// DefaultConfig returns an empty scene with default camera, sampler and integrator
func DefaultConfig() Config {
	return Config{
		Camera:     DefaultCameraConfig(),
		Integrator: integrator.DefaultConfig(),
		Sampler:    sampler.DefaultConfig(),
	}
}

// Scene is an immutable renderable world. It is safe for concurrent use.
type Scene struct {
	Camera     *renderer.Camera
	Integrator integrator.Integrator
	Sampler    sampler.Config

	root       geometry.Surface
	emitters   *geometry.LinearGroup
	background core.Vec3
	surfaces   int
}

// New builds a scene from cfg. The logger receives build statistics and may be nil.
func New(cfg Config, logger core.Logger) (*Scene, error) {
	if logger == nil {
		logger = core.NopLogger{}
	}
	if err := cfg.Sampler.Validate(); err != nil {
		return nil, fmt.Errorf("sampler: %w", err)
	}
	integ, err := integrator.New(cfg.Integrator)
	if err != nil {
		return nil, fmt.Errorf("integrator: %w", err)
	}
	camera, err := renderer.NewCamera(cfg.Camera.Transform, cfg.Camera.VFov, cfg.Camera.Width, cfg.Camera.Height)
	if err != nil {
		return nil, fmt.Errorf("camera: %w", err)
	}

	var emissive []geometry.Surface
	for _, s := range cfg.Surfaces {
		if s.IsEmissive() {
			emissive = append(emissive, s)
		}
	}

	var root geometry.Surface
	if cfg.Accelerator != nil {
		start := time.Now()
		bvh := geometry.NewBVH(cfg.Surfaces, cfg.Accelerator.Split)
		stats := bvh.Stats()
		logger.Printf("BVH (%s split) built in %v: %d nodes, %d leaves, max depth %d, avg depth %.1f",
			cfg.Accelerator.Split, time.Since(start), stats.TotalNodes, stats.LeafNodes, stats.MaxDepth, stats.AvgDepth)
		root = bvh
	} else {
		root = geometry.NewLinearGroup(cfg.Surfaces)
	}
	logger.Printf("Scene: %d surfaces, %d emitters", len(cfg.Surfaces), len(emissive))

	return &Scene{
		Camera:     camera,
		Integrator: integ,
		Sampler:    cfg.Sampler,
		root:       root,
		emitters:   geometry.NewLinearGroup(emissive),
		background: cfg.Background,
		surfaces:   len(cfg.Surfaces),
	}, nil
}

// Intersect returns the closest hit along ray
func (s *Scene) Intersect(ray core.Ray) (material.HitInfo, bool) {
	return s.root.Intersect(ray)
}

// Emitters returns the group of emissive surfaces
func (s *Scene) Emitters() geometry.Surface {
	return s.emitters
}

// Background returns the constant background radiance
func (s *Scene) Background(core.Ray) core.Vec3 {
	return s.background
}

// EmitterCount returns the number of emissive surfaces
func (s *Scene) EmitterCount() int {
	return s.emitters.Len()
}

// SurfaceCount returns the number of top-level surfaces
func (s *Scene) SurfaceCount() int {
	return s.surfaces
}

// rayCounter counts the intersection queries one row makes
type rayCounter struct {
	*Scene
	rays int64
}

func (c *rayCounter) Intersect(ray core.Ray) (material.HitInfo, bool) {
	c.rays++
	return c.Scene.Intersect(ray)
}

// Raytrace renders the full image. Every pixel draws from its own sampler
// stream, so the result does not depend on opts.Workers.
func (s *Scene) Raytrace(opts renderer.Options) (*renderer.Image, renderer.RenderStats) {
	start := time.Now()
	width, height := s.Camera.Width, s.Camera.Height
	img := renderer.NewImage(width, height)

	stats := renderer.RenderRows(height, opts, func(y int) renderer.RenderStats {
		counter := &rayCounter{Scene: s}
		var row renderer.RenderStats
		for x := 0; x < width; x++ {
			pixel := s.renderPixel(counter, x, y)
			img.Set(x, y, pixel.Color())
			row.TotalPixels++
			row.TotalSamples += pixel.SampleCount
		}
		row.Rays = counter.rays
		return row
	})
	stats.Duration = time.Since(start)

	if opts.Logger != nil {
		opts.Logger.Printf("Rendered %dx%d in %v: %d samples (%.1f per pixel), %d rays",
			width, height, stats.Duration, stats.TotalSamples, stats.AverageSamples(), stats.Rays)
	}
	return img, stats
}

func (s *Scene) renderPixel(scene integrator.Scene, x, y int) renderer.PixelStats {
	var pixel renderer.PixelStats
	smp := s.Sampler.ForPixel(x, y, s.Camera.Width)
	for i := 0; i < smp.SampleCount(); i++ {
		jitter := smp.Next2D()
		ray := s.Camera.GenerateRay(float64(x)+jitter.X, float64(y)+jitter.Y)
		pixel.AddSample(s.Integrator.Li(scene, smp, ray))
		smp.Advance()
	}
	return pixel
}
