package loaders

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"

	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/geometry"
	"github.com/df07/go-pathtracer/pkg/integrator"
	"github.com/df07/go-pathtracer/pkg/sampler"
	"github.com/df07/go-pathtracer/pkg/scene"
)

// Options controls how a scene file is loaded
type Options struct {
	BaseDir   string      // Directory relative mesh filenames resolve against
	Logger    core.Logger // Mesh loading and build statistics; nil is silent
	Overrides []Override  // Applied to the document before decoding
}

// Override replaces the value at a dotted JSON path, such as "sampler.samples"
type Override struct {
	Path  string
	Value interface{}
}

type sceneFile struct {
	Camera      json.RawMessage   `json:"camera"`
	Integrator  json.RawMessage   `json:"integrator"`
	Sampler     json.RawMessage   `json:"sampler"`
	Background  json.RawMessage   `json:"background"`
	Accelerator json.RawMessage   `json:"accelerator"`
	Materials   []json.RawMessage `json:"materials"`
	Surfaces    []json.RawMessage `json:"surfaces"`
}

type cameraJSON struct {
	Transform  json.RawMessage `json:"transform"`
	VFov       *float64        `json:"vfov"`
	Resolution []int           `json:"resolution"`
}

type integratorJSON struct {
	Type       string `json:"type"`
	MaxBounces *int   `json:"max_bounces"`
}

type samplerJSON struct {
	Type    string  `json:"type"`
	Samples *int    `json:"samples"`
	Seed    *uint64 `json:"seed"`
}

type acceleratorJSON struct {
	Type        string `json:"type"`
	SplitMethod string `json:"split_method"`
}

// LoadFile reads, parses and builds the scene at path. Relative mesh paths
// resolve against the file's directory unless opts.BaseDir is set.
func LoadFile(path string, opts Options) (*scene.Scene, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scene file: %w", err)
	}
	if opts.BaseDir == "" {
		opts.BaseDir = filepath.Dir(path)
	}
	cfg, err := Parse(data, opts)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return scene.New(cfg, opts.Logger)
}

// Parse decodes a scene document into a scene configuration. Nothing is
// returned unless the whole document is valid.
func Parse(data []byte, opts Options) (scene.Config, error) {
	logger := opts.Logger
	if logger == nil {
		logger = core.NopLogger{}
	}
	if !gjson.ValidBytes(data) {
		return scene.Config{}, fmt.Errorf("%w: scene is not valid JSON", ErrInvalidValue)
	}
	for _, o := range opts.Overrides {
		var err error
		if data, err = sjson.SetBytes(data, o.Path, o.Value); err != nil {
			return scene.Config{}, fmt.Errorf("override %s: %w", o.Path, err)
		}
	}

	var file sceneFile
	if err := decodeStrict(data, &file); err != nil {
		return scene.Config{}, err
	}

	cfg := scene.DefaultConfig()
	var err error
	if cfg.Camera, err = parseCamera(file.Camera); err != nil {
		return scene.Config{}, fmt.Errorf("camera: %w", err)
	}
	if cfg.Integrator, err = parseIntegrator(file.Integrator); err != nil {
		return scene.Config{}, fmt.Errorf("integrator: %w", err)
	}
	if cfg.Sampler, err = parseSampler(file.Sampler); err != nil {
		return scene.Config{}, fmt.Errorf("sampler: %w", err)
	}
	if len(file.Background) > 0 {
		if cfg.Background, err = parseColor(file.Background, "background"); err != nil {
			return scene.Config{}, err
		}
	}
	if cfg.Accelerator, err = parseAccelerator(file.Accelerator); err != nil {
		return scene.Config{}, fmt.Errorf("accelerator: %w", err)
	}

	materials := newMaterialRegistry()
	for i, raw := range file.Materials {
		if err := materials.declare(raw); err != nil {
			return scene.Config{}, fmt.Errorf("materials[%d]: %w", i, err)
		}
	}

	builder := &surfaceBuilder{materials: materials, baseDir: opts.BaseDir, logger: logger}
	for i, raw := range file.Surfaces {
		surfaces, err := builder.build(raw)
		if err != nil {
			return scene.Config{}, fmt.Errorf("surfaces[%d]: %w", i, err)
		}
		cfg.Surfaces = append(cfg.Surfaces, surfaces...)
	}

	// Blends may name materials declared after them or inline on surfaces
	if err := materials.resolve(); err != nil {
		return scene.Config{}, err
	}
	return cfg, nil
}

func parseCamera(raw json.RawMessage) (scene.CameraConfig, error) {
	cam := scene.DefaultCameraConfig()
	if len(raw) == 0 {
		return cam, nil
	}
	var cj cameraJSON
	if err := decodeStrict(raw, &cj); err != nil {
		return cam, err
	}
	var err error
	if cam.Transform, err = parseTransform(cj.Transform); err != nil {
		return cam, err
	}
	if cj.VFov != nil {
		cam.VFov = *cj.VFov
	}
	if cj.Resolution != nil {
		if len(cj.Resolution) != 2 {
			return cam, fmt.Errorf("%w: resolution needs [width, height]", ErrInvalidValue)
		}
		cam.Width, cam.Height = cj.Resolution[0], cj.Resolution[1]
	}
	if cam.Width <= 0 || cam.Height <= 0 {
		return cam, fmt.Errorf("%w: resolution must be positive, got %dx%d", ErrInvalidValue, cam.Width, cam.Height)
	}
	if cam.VFov <= 0 || cam.VFov >= 180 {
		return cam, fmt.Errorf("%w: vfov must be in (0, 180), got %g", ErrInvalidValue, cam.VFov)
	}
	return cam, nil
}

func parseIntegrator(raw json.RawMessage) (integrator.Config, error) {
	cfg := integrator.DefaultConfig()
	if len(raw) == 0 {
		return cfg, nil
	}
	var ij integratorJSON
	if err := decodeStrict(raw, &ij); err != nil {
		return cfg, err
	}
	if ij.Type != "" {
		cfg.Type = ij.Type
	}
	if ij.MaxBounces != nil {
		cfg.MaxBounces = *ij.MaxBounces
	}
	if _, err := integrator.New(cfg); err != nil {
		if errors.Is(err, integrator.ErrUnknownIntegrator) {
			return cfg, fmt.Errorf("%w: %w", ErrUnknownType, err)
		}
		return cfg, fmt.Errorf("%w: %v", ErrInvalidValue, err)
	}
	return cfg, nil
}

func parseSampler(raw json.RawMessage) (sampler.Config, error) {
	cfg := sampler.DefaultConfig()
	if len(raw) == 0 {
		return cfg, nil
	}
	var sj samplerJSON
	if err := decodeStrict(raw, &sj); err != nil {
		return cfg, err
	}
	if sj.Type != "" {
		if sj.Type != "independent" {
			return cfg, fmt.Errorf("%w: sampler %q", ErrUnknownType, sj.Type)
		}
		cfg.Type = sj.Type
	}
	if sj.Samples != nil {
		cfg.Samples = *sj.Samples
	}
	if sj.Seed != nil {
		cfg.Seed = *sj.Seed
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("%w: %v", ErrInvalidValue, err)
	}
	return cfg, nil
}

func parseAccelerator(raw json.RawMessage) (*scene.AcceleratorConfig, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	var aj acceleratorJSON
	if err := decodeStrict(raw, &aj); err != nil {
		return nil, err
	}
	switch aj.Type {
	case "bvh", "bbh", "":
	default:
		return nil, fmt.Errorf("%w: accelerator %q", ErrUnknownType, aj.Type)
	}
	split, err := geometry.ParseSplitMethod(aj.SplitMethod)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnknownType, err)
	}
	return &scene.AcceleratorConfig{Split: split}, nil
}
