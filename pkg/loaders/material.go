package loaders

import (
	"encoding/json"
	"fmt"

	"github.com/tidwall/gjson"

	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/material"
)

type materialJSON struct {
	Type      string          `json:"type"`
	Name      string          `json:"name"`
	Albedo    json.RawMessage `json:"albedo"`
	Roughness json.RawMessage `json:"roughness"`
	IOR       json.RawMessage `json:"ior"`
	Emit      json.RawMessage `json:"emit"`
	Exponent  *float64        `json:"exponent"`
	Reflected string          `json:"reflected"`
	Refracted string          `json:"refracted"`
}

// Keys accepted by each material type besides type and name
var materialKeys = map[string][]string{
	"lambertian":    {"albedo"},
	"metal":         {"albedo", "roughness"},
	"dielectric":    {"ior"},
	"diffuse_light": {"emit"},
	"phong":         {"albedo", "exponent"},
	"blinn_phong":   {"albedo", "exponent"},
	"fresnel_blend": {"ior", "reflected", "refracted"},
}

const defaultExponent = 20

// materialRegistry maps names to materials and remembers every fresnel blend
// so named references can be bound once all materials are known
type materialRegistry struct {
	named  map[string]material.Material
	blends []*material.FresnelBlend
}

func newMaterialRegistry() *materialRegistry {
	return &materialRegistry{named: make(map[string]material.Material)}
}

// declare parses a top-level material and registers it under its name
func (r *materialRegistry) declare(raw []byte) error {
	m, name, err := r.parse(raw)
	if err != nil {
		return err
	}
	if name == "" {
		return fmt.Errorf("%w: name", ErrMissingField)
	}
	if _, exists := r.named[name]; exists {
		return fmt.Errorf("%w: %q", ErrDuplicateMaterial, name)
	}
	r.named[name] = m
	return nil
}

// reference resolves a surface's material: a declared name or an inline object
func (r *materialRegistry) reference(raw json.RawMessage) (material.Material, error) {
	if len(raw) == 0 {
		return nil, fmt.Errorf("%w: material", ErrMissingField)
	}
	v := gjson.ParseBytes(raw)
	switch {
	case v.Type == gjson.String:
		m, ok := r.named[v.String()]
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownMaterial, v.String())
		}
		return m, nil
	case v.IsObject():
		m, _, err := r.parse(raw)
		return m, err
	}
	return nil, fmt.Errorf("%w: material must be a name or an object", ErrInvalidValue)
}

func (r *materialRegistry) parse(raw []byte) (material.Material, string, error) {
	typ, err := peekType(raw)
	if err != nil {
		return nil, "", err
	}
	keys, ok := materialKeys[typ]
	if !ok {
		return nil, "", fmt.Errorf("%w: material %q", ErrUnknownType, typ)
	}
	if err := checkKeys(raw, typ, append([]string{"type", "name"}, keys...)...); err != nil {
		return nil, "", err
	}
	var mj materialJSON
	if err := decodeStrict(raw, &mj); err != nil {
		return nil, "", err
	}

	m, err := r.build(mj)
	if err != nil {
		if mj.Name != "" {
			return nil, "", fmt.Errorf("material %q: %w", mj.Name, err)
		}
		return nil, "", fmt.Errorf("%s: %w", typ, err)
	}
	return m, mj.Name, nil
}

func (r *materialRegistry) build(mj materialJSON) (material.Material, error) {
	exponent := float64(defaultExponent)
	if mj.Exponent != nil {
		exponent = *mj.Exponent
		if exponent < 0 {
			return nil, fmt.Errorf("%w: exponent must not be negative, got %g", ErrInvalidValue, exponent)
		}
	}

	switch mj.Type {
	case "lambertian":
		albedo, err := parseTexture(mj.Albedo, "albedo", core.Splat(0.5))
		if err != nil {
			return nil, err
		}
		return material.NewLambertian(albedo), nil

	case "metal":
		albedo, err := parseTexture(mj.Albedo, "albedo", core.Splat(0.9))
		if err != nil {
			return nil, err
		}
		roughness, err := parseTexture(mj.Roughness, "roughness", core.Vec3{})
		if err != nil {
			return nil, err
		}
		return material.NewMetal(albedo, roughness), nil

	case "dielectric":
		ior, err := parseTexture(mj.IOR, "ior", core.Splat(1.5))
		if err != nil {
			return nil, err
		}
		return material.NewDielectric(ior), nil

	case "diffuse_light":
		if len(mj.Emit) == 0 {
			return nil, fmt.Errorf("%w: emit", ErrMissingField)
		}
		emit, err := parseTexture(mj.Emit, "emit", core.Vec3{})
		if err != nil {
			return nil, err
		}
		return material.NewDiffuseLight(emit), nil

	case "phong", "blinn_phong":
		albedo, err := parseTexture(mj.Albedo, "albedo", core.Splat(0.5))
		if err != nil {
			return nil, err
		}
		if mj.Type == "phong" {
			return material.NewPhong(albedo, exponent), nil
		}
		return material.NewBlinnPhong(albedo, exponent), nil

	case "fresnel_blend":
		if mj.Reflected == "" || mj.Refracted == "" {
			return nil, fmt.Errorf("%w: fresnel_blend needs reflected and refracted", ErrMissingField)
		}
		ior, err := parseTexture(mj.IOR, "ior", core.Splat(1.5))
		if err != nil {
			return nil, err
		}
		blend := material.NewNamedFresnelBlend(ior, mj.Reflected, mj.Refracted)
		r.blends = append(r.blends, blend)
		return blend, nil
	}
	return nil, fmt.Errorf("%w: material %q", ErrUnknownType, mj.Type)
}

// resolve binds every fresnel blend's named sub-materials and rejects loops
func (r *materialRegistry) resolve() error {
	lookup := func(name string) (material.Material, bool) {
		m, ok := r.named[name]
		return m, ok
	}
	for _, blend := range r.blends {
		for _, name := range []string{blend.ReflectedName, blend.RefractedName} {
			if _, ok := r.named[name]; !ok {
				return fmt.Errorf("fresnel_blend: %w: %q", ErrUnknownMaterial, name)
			}
		}
		if err := blend.Resolve(lookup); err != nil {
			return fmt.Errorf("%w: %v", ErrMaterialCycle, err)
		}
	}

	// Depth-first walk through blend references
	const (
		unvisited = iota
		visiting
		done
	)
	state := make(map[*material.FresnelBlend]int)
	var visit func(b *material.FresnelBlend) error
	visit = func(b *material.FresnelBlend) error {
		switch state[b] {
		case visiting:
			return fmt.Errorf("%w: through %q and %q", ErrMaterialCycle, b.ReflectedName, b.RefractedName)
		case done:
			return nil
		}
		state[b] = visiting
		for _, sub := range []material.Material{b.Reflected, b.Refracted} {
			if next, ok := sub.(*material.FresnelBlend); ok {
				if err := visit(next); err != nil {
					return err
				}
			}
		}
		state[b] = done
		return nil
	}
	for _, blend := range r.blends {
		if err := visit(blend); err != nil {
			return err
		}
	}
	return nil
}
