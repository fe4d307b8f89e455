package model

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cast"
)

var errNotFinite = errors.New("value is not finite")

// ToFloat converts v to a finite float64.
//
// Any Go numeric type, json.Number, bool and numeric strings are accepted.
// Leading and trailing whitespace in strings is ignored. nil, NaN and
// infinities are rejected.
func ToFloat(v any) (float64, error) {
	if v == nil {
		return 0, &CoercionError{Value: v}
	}
	switch t := v.(type) {
	case bool:
		if t {
			return 1, nil
		}
		return 0, nil
	case json.Number:
		v = t.String()
	}
	if s, ok := v.(string); ok {
		v = strings.TrimSpace(s)
		if v == "" {
			return 0, &CoercionError{Value: s}
		}
	}
	f, err := cast.ToFloat64E(v)
	if err != nil {
		return 0, &CoercionError{Value: v, Err: err}
	}
	if !isFinite(f) {
		return 0, &CoercionError{Value: v, Err: errNotFinite}
	}
	return f, nil
}

// ToCoordinates coerces three loosely typed values into Coordinates.
func ToCoordinates(x, y, z any) (Coordinates, error) {
	var out [3]float64
	for i, v := range [3]any{x, y, z} {
		f, err := ToFloat(v)
		if err != nil {
			var ce *CoercionError
			if errors.As(err, &ce) {
				ce.Axis = axisName(i)
			}
			return Coordinates{}, err
		}
		out[i] = f
	}
	return Coordinates{X: out[0], Y: out[1], Z: out[2]}, nil
}

// CoordinatesOf extracts a coordinate triple from a Point, *Point,
// Coordinates, a fixed or variable length slice, or a map carrying a
// "coordinates" entry. Anything without exactly three components fails with
// ErrShape.
func CoordinatesOf(v any) (Coordinates, error) {
	switch t := v.(type) {
	case Point:
		return t.Coordinates, nil
	case *Point:
		if t == nil {
			return Coordinates{}, fmt.Errorf("%w: nil point", ErrShape)
		}
		return t.Coordinates, nil
	case Coordinates:
		return t, nil
	case *Coordinates:
		if t == nil {
			return Coordinates{}, fmt.Errorf("%w: nil coordinates", ErrShape)
		}
		return *t, nil
	case [3]float64:
		return Coordinates{X: t[0], Y: t[1], Z: t[2]}, nil
	case []float64:
		if len(t) != 3 {
			return Coordinates{}, fmt.Errorf("%w: got %d", ErrShape, len(t))
		}
		return Coordinates{X: t[0], Y: t[1], Z: t[2]}, nil
	case [3]any:
		return shapedCoordinates(t[0], t[1], t[2])
	case []any:
		if len(t) != 3 {
			return Coordinates{}, fmt.Errorf("%w: got %d", ErrShape, len(t))
		}
		return shapedCoordinates(t[0], t[1], t[2])
	case map[string]any:
		c, ok := t["coordinates"]
		if !ok {
			return Coordinates{}, fmt.Errorf("%w: missing coordinates entry", ErrShape)
		}
		return CoordinatesOf(c)
	default:
		return Coordinates{}, fmt.Errorf("%w: unsupported type %T", ErrShape, v)
	}
}

func shapedCoordinates(x, y, z any) (Coordinates, error) {
	c, err := ToCoordinates(x, y, z)
	if err != nil {
		return Coordinates{}, fmt.Errorf("%w: %w", ErrShape, err)
	}
	return c, nil
}

func axisName(i int) string {
	switch i {
	case 0:
		return "x"
	case 1:
		return "y"
	default:
		return "z"
	}
}
