package loaders

import (
	"encoding/json"
	"fmt"

	"github.com/tidwall/gjson"

	"github.com/df07/go-pathtracer/pkg/core"
)

// transformOpJSON is one step of a transform list. Exactly one kind of op is set.
type transformOpJSON struct {
	Translate []float64       `json:"translate"`
	Scale     json.RawMessage `json:"scale"`
	Axis      []float64       `json:"axis"`
	Angle     *float64        `json:"angle"` // Degrees
	From      []float64       `json:"from"`
	At        []float64       `json:"at"`
	Up        []float64       `json:"up"`
	Matrix    []float64       `json:"matrix"` // Row-major 4x4
}

// parseTransform accepts a 16-number row-major matrix, one op object or a
// list of op objects applied in order. An absent value is the identity.
func parseTransform(raw json.RawMessage) (core.Transform, error) {
	if len(raw) == 0 {
		return core.IdentityTransform(), nil
	}
	v := gjson.ParseBytes(raw)
	switch {
	case v.IsObject():
		return parseTransformOp(raw)

	case v.IsArray():
		items := v.Array()
		if len(items) > 0 && items[0].Type == gjson.Number {
			var rows []float64
			if err := decodeStrict(raw, &rows); err != nil {
				return core.Transform{}, fmt.Errorf("transform: %w", err)
			}
			return matrixTransform(rows)
		}
		t := core.IdentityTransform()
		for i, item := range items {
			op, err := parseTransformOp([]byte(item.Raw))
			if err != nil {
				return core.Transform{}, fmt.Errorf("transform[%d]: %w", i, err)
			}
			t = t.Then(op)
		}
		return t, nil
	}
	return core.Transform{}, fmt.Errorf("%w: transform must be a matrix, an op or a list of ops", ErrInvalidValue)
}

func parseTransformOp(raw []byte) (core.Transform, error) {
	if !gjson.ParseBytes(raw).IsObject() {
		return core.Transform{}, fmt.Errorf("%w: transform op must be an object", ErrInvalidValue)
	}
	var op transformOpJSON
	if err := decodeStrict(raw, &op); err != nil {
		return core.Transform{}, err
	}

	kinds := 0
	for _, set := range []bool{op.Translate != nil, op.Scale != nil, op.Axis != nil || op.Angle != nil, op.From != nil || op.At != nil || op.Up != nil, op.Matrix != nil} {
		if set {
			kinds++
		}
	}
	if kinds != 1 {
		return core.Transform{}, fmt.Errorf("%w: transform op must set exactly one of translate, scale, axis/angle, from/at/up or matrix", ErrInvalidValue)
	}

	switch {
	case op.Translate != nil:
		offset, err := floatsToVec3("translate", op.Translate)
		if err != nil {
			return core.Transform{}, err
		}
		return core.Translate(offset), nil

	case op.Scale != nil:
		factors, err := parseColor(op.Scale, "scale")
		if err != nil {
			return core.Transform{}, err
		}
		return core.Scale(factors)

	case op.Axis != nil || op.Angle != nil:
		if op.Axis == nil || op.Angle == nil {
			return core.Transform{}, fmt.Errorf("%w: rotation needs both axis and angle", ErrMissingField)
		}
		axis, err := floatsToVec3("axis", op.Axis)
		if err != nil {
			return core.Transform{}, err
		}
		return core.Rotate(axis, *op.Angle)

	case op.Matrix != nil:
		return matrixTransform(op.Matrix)
	}

	if op.From == nil || op.At == nil {
		return core.Transform{}, fmt.Errorf("%w: look-at needs from and at", ErrMissingField)
	}
	from, err := floatsToVec3("from", op.From)
	if err != nil {
		return core.Transform{}, err
	}
	at, err := floatsToVec3("at", op.At)
	if err != nil {
		return core.Transform{}, err
	}
	up := core.NewVec3(0, 1, 0)
	if op.Up != nil {
		if up, err = floatsToVec3("up", op.Up); err != nil {
			return core.Transform{}, err
		}
	}
	return core.LookAt(from, at, up)
}

func matrixTransform(vals []float64) (core.Transform, error) {
	if len(vals) != 16 {
		return core.Transform{}, fmt.Errorf("%w: matrix needs 16 numbers, got %d", ErrInvalidValue, len(vals))
	}
	var rows [16]float64
	copy(rows[:], vals)
	return core.FromRows(rows)
}
