package metadata

import (
	"encoding/json"
	"fmt"
	"math"
)

// FromAny converts a plain Go value (a CSV cell, a decoded JSON field, a
// slice element) into a Value.
func FromAny(v any) (Value, error) {
	switch x := v.(type) {
	case nil:
		return Null(), nil
	case Value:
		return x, nil
	case bool:
		return Bool(x), nil
	case string:
		return String(x), nil
	case int:
		return Int(int64(x)), nil
	case int8:
		return Int(int64(x)), nil
	case int16:
		return Int(int64(x)), nil
	case int32:
		return Int(int64(x)), nil
	case int64:
		return Int(x), nil
	case uint:
		return fromUint(uint64(x))
	case uint8:
		return Int(int64(x)), nil
	case uint16:
		return Int(int64(x)), nil
	case uint32:
		return Int(int64(x)), nil
	case uint64:
		return fromUint(x)
	case float32:
		return Float(float64(x)), nil
	case float64:
		return Float(x), nil
	case json.Number:
		if i, err := x.Int64(); err == nil {
			return Int(i), nil
		}
		f, err := x.Float64()
		if err != nil {
			return Value{}, fmt.Errorf("metadata: invalid number %q", x.String())
		}
		return Float(f), nil
	case []Value:
		return Array(x), nil
	case []any:
		return arrayOf(x, FromAny)
	case []string:
		return arrayOf(x, func(s string) (Value, error) { return String(s), nil })
	case []int:
		return arrayOf(x, func(i int) (Value, error) { return Int(int64(i)), nil })
	case []int64:
		return arrayOf(x, func(i int64) (Value, error) { return Int(i), nil })
	case []float64:
		return arrayOf(x, func(f float64) (Value, error) { return Float(f), nil })
	case []bool:
		return arrayOf(x, func(b bool) (Value, error) { return Bool(b), nil })
	default:
		return Value{}, fmt.Errorf("metadata: unsupported value type %T", v)
	}
}

func fromUint(x uint64) (Value, error) {
	if x > math.MaxInt64 {
		return Value{}, fmt.Errorf("metadata: uint64 %d out of range", x)
	}
	return Int(int64(x)), nil
}

func arrayOf[T any](xs []T, conv func(T) (Value, error)) (Value, error) {
	items := make([]Value, len(xs))
	for i, x := range xs {
		v, err := conv(x)
		if err != nil {
			return Value{}, fmt.Errorf("element %d: %w", i, err)
		}
		items[i] = v
	}
	return Array(items), nil
}

// DocumentFromAny converts a decoded row into a Document.
func DocumentFromAny(m map[string]any) (Document, error) {
	d := make(Document, len(m))
	for k, v := range m {
		vv, err := FromAny(v)
		if err != nil {
			return nil, fmt.Errorf("field %q: %w", k, err)
		}
		d[k] = vv
	}
	return d, nil
}

// Values converts a plain slice into one Value per element.
//
//	groups, _ := metadata.Values([]string{"A", "A", "B"})
func Values[T any](xs []T) ([]Value, error) {
	out := make([]Value, len(xs))
	for i, x := range xs {
		v, err := FromAny(x)
		if err != nil {
			return nil, fmt.Errorf("element %d: %w", i, err)
		}
		out[i] = v
	}
	return out, nil
}

// MustValues is like Values but panics on error.
func MustValues[T any](xs []T) []Value {
	out, err := Values(xs)
	if err != nil {
		panic(err)
	}
	return out
}
