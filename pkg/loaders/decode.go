// Package loaders builds scenes from JSON configuration files and reads the
// mesh formats those files reference.
package loaders

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/df07/go-pathtracer/pkg/core"
)

var (
	// ErrUnknownType is returned for an unsupported "type" discriminator
	ErrUnknownType = errors.New("unknown type")
	// ErrMissingField is returned when a required key is absent
	ErrMissingField = errors.New("missing required field")
	// ErrUnknownField is returned for keys a record does not accept
	ErrUnknownField = errors.New("unknown field")
	// ErrUnknownMaterial is returned for a material name that was never declared
	ErrUnknownMaterial = errors.New("unknown material")
	// ErrDuplicateMaterial is returned when two materials share a name
	ErrDuplicateMaterial = errors.New("duplicate material name")
	// ErrMaterialCycle is returned when fresnel blends reference each other in a loop
	ErrMaterialCycle = errors.New("material reference cycle")
	// ErrInvalidValue is returned for values of the wrong shape or range
	ErrInvalidValue = errors.New("invalid value")
)

// decodeStrict unmarshals raw into v, rejecting unknown keys
func decodeStrict(raw []byte, v interface{}) error {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		if strings.HasPrefix(err.Error(), "json: unknown field") {
			return fmt.Errorf("%w: %s", ErrUnknownField, strings.TrimPrefix(err.Error(), "json: unknown field "))
		}
		return fmt.Errorf("%w: %v", ErrInvalidValue, err)
	}
	return nil
}

// peekType returns the "type" discriminator of a record
func peekType(raw []byte) (string, error) {
	t := gjson.GetBytes(raw, "type")
	if !t.Exists() {
		return "", fmt.Errorf("%w: type", ErrMissingField)
	}
	if t.Type != gjson.String {
		return "", fmt.Errorf("%w: type must be a string, got %s", ErrInvalidValue, t.Raw)
	}
	return t.String(), nil
}

// checkKeys rejects keys of an object that are not in allowed
func checkKeys(raw []byte, kind string, allowed ...string) error {
	var err error
	gjson.ParseBytes(raw).ForEach(func(key, _ gjson.Result) bool {
		for _, a := range allowed {
			if key.String() == a {
				return true
			}
		}
		err = fmt.Errorf("%w: %q is not accepted by %s", ErrUnknownField, key.String(), kind)
		return false
	})
	return err
}

// parseColor accepts a number (gray) or an [r, g, b] triple
func parseColor(raw []byte, field string) (core.Vec3, error) {
	v := gjson.ParseBytes(raw)
	switch {
	case v.Type == gjson.Number:
		return core.Splat(v.Float()), nil
	case v.IsArray():
		return toVec3(field, v.Array())
	}
	return core.Vec3{}, fmt.Errorf("%w: %s must be a number or [r, g, b], got %s", ErrInvalidValue, field, v.Raw)
}

// toVec3 converts a JSON array of exactly three numbers
func toVec3(field string, items []gjson.Result) (core.Vec3, error) {
	if len(items) != 3 {
		return core.Vec3{}, fmt.Errorf("%w: %s needs 3 numbers, got %d", ErrInvalidValue, field, len(items))
	}
	var v [3]float64
	for i, item := range items {
		if item.Type != gjson.Number {
			return core.Vec3{}, fmt.Errorf("%w: %s[%d] is not a number", ErrInvalidValue, field, i)
		}
		v[i] = item.Float()
	}
	return core.NewVec3(v[0], v[1], v[2]), nil
}

// floatsToVec3 converts a decoded number list of exactly three values
func floatsToVec3(field string, vals []float64) (core.Vec3, error) {
	if len(vals) != 3 {
		return core.Vec3{}, fmt.Errorf("%w: %s needs 3 numbers, got %d", ErrInvalidValue, field, len(vals))
	}
	return core.NewVec3(vals[0], vals[1], vals[2]), nil
}
