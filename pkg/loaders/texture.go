package loaders

import (
	"encoding/json"
	"fmt"

	"github.com/tidwall/gjson"

	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/material"
)

type constantTextureJSON struct {
	Type  string          `json:"type"`
	Color json.RawMessage `json:"color"`
}

type checkerTextureJSON struct {
	Type  string          `json:"type"`
	Even  json.RawMessage `json:"even"`
	Odd   json.RawMessage `json:"odd"`
	Scale *float64        `json:"scale"`
}

// parseTexture reads a texture given as a number, an [r, g, b] triple or a
// typed texture object. An absent value yields def.
func parseTexture(raw json.RawMessage, field string, def core.Vec3) (material.Texture, error) {
	if len(raw) == 0 {
		return material.NewConstant(def), nil
	}
	v := gjson.ParseBytes(raw)
	if !v.IsObject() {
		color, err := parseColor(raw, field)
		if err != nil {
			return nil, err
		}
		return material.NewConstant(color), nil
	}

	typ, err := peekType(raw)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", field, err)
	}
	switch typ {
	case "constant":
		var tj constantTextureJSON
		if err := decodeStrict(raw, &tj); err != nil {
			return nil, fmt.Errorf("%s: %w", field, err)
		}
		if len(tj.Color) == 0 {
			return nil, fmt.Errorf("%s: %w: color", field, ErrMissingField)
		}
		color, err := parseColor(tj.Color, field+".color")
		if err != nil {
			return nil, err
		}
		return material.NewConstant(color), nil

	case "checker":
		var tj checkerTextureJSON
		if err := decodeStrict(raw, &tj); err != nil {
			return nil, fmt.Errorf("%s: %w", field, err)
		}
		if len(tj.Even) == 0 || len(tj.Odd) == 0 {
			return nil, fmt.Errorf("%s: %w: checker needs even and odd", field, ErrMissingField)
		}
		even, err := parseTexture(tj.Even, field+".even", core.Vec3{})
		if err != nil {
			return nil, err
		}
		odd, err := parseTexture(tj.Odd, field+".odd", core.Vec3{})
		if err != nil {
			return nil, err
		}
		scale := 1.0
		if tj.Scale != nil {
			scale = *tj.Scale
		}
		if scale <= 0 {
			return nil, fmt.Errorf("%w: %s.scale must be positive, got %g", ErrInvalidValue, field, scale)
		}
		return material.NewChecker(even, odd, scale), nil
	}
	return nil, fmt.Errorf("%s: %w: texture %q", field, ErrUnknownType, typ)
}
