package metadata

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"unique"
)

// Kind identifies the concrete type stored in a Value. Kinds are declared in
// the order Compare sorts them.
type Kind uint8

const (
	KindInvalid Kind = iota
	KindNull
	KindBool
	KindInt
	KindFloat
	KindString
	KindArray
)

var kindNames = [...]string{
	KindInvalid: "invalid",
	KindNull:    "null",
	KindBool:    "bool",
	KindInt:     "int",
	KindFloat:   "float",
	KindString:  "string",
	KindArray:   "array",
}

// String returns the lower-case name of the kind.
func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return kindNames[KindInvalid]
}

// Value is a small typed value used for group labels, targets and table cells.
//
// Two values are the same label iff their Key is equal. Strings are interned,
// so label columns with few distinct sites stay cheap to copy.
type Value struct {
	Kind Kind
	I64  int64
	F64  float64
	B    bool
	A    []Value
	s    unique.Handle[string]
}

// Null returns a null Value.
func Null() Value { return Value{Kind: KindNull} }

// Bool returns a boolean Value.
func Bool(v bool) Value { return Value{Kind: KindBool, B: v} }

// Int returns an int64 Value.
func Int(v int64) Value { return Value{Kind: KindInt, I64: v} }

// Float returns a float64 Value.
func Float(v float64) Value { return Value{Kind: KindFloat, F64: v} }

// String returns a string Value.
func String(v string) Value { return Value{Kind: KindString, s: unique.Make(v)} }

// Array returns an array Value. Combination keys of several held-out groups
// are arrays.
func Array(v []Value) Value { return Value{Kind: KindArray, A: v} }

// StringValue returns the string if Kind is KindString, otherwise "".
func (v Value) StringValue() string {
	if v.Kind != KindString {
		return ""
	}
	return v.s.Value()
}

// AsArray returns the elements if Kind is KindArray.
func (v Value) AsArray() ([]Value, bool) {
	return v.A, v.Kind == KindArray
}

// Key returns the identity of v. Int(1) and Float(1) have different keys;
// floats are keyed by their bit pattern.
func (v Value) Key() string {
	var sb strings.Builder
	v.appendKey(&sb)
	return sb.String()
}

func (v Value) appendKey(sb *strings.Builder) {
	switch v.Kind {
	case KindNull:
		sb.WriteString("null")
	case KindBool:
		if v.B {
			sb.WriteString("b:1")
		} else {
			sb.WriteString("b:0")
		}
	case KindInt:
		sb.WriteString("i:")
		sb.WriteString(strconv.FormatInt(v.I64, 10))
	case KindFloat:
		sb.WriteString("f:")
		sb.WriteString(strconv.FormatUint(math.Float64bits(v.F64), 16))
	case KindString:
		sb.WriteString("s:")
		sb.WriteString(v.s.Value())
	case KindArray:
		sb.WriteString("a:")
		for i, e := range v.A {
			if i > 0 {
				sb.WriteByte('\x1f')
			}
			e.appendKey(sb)
		}
	default:
		sb.WriteString("invalid")
	}
}

// Equal reports whether v and other are the same label.
func (v Value) Equal(other Value) bool {
	return v.Key() == other.Key()
}

// String renders v for logs and CLI output. Arrays render as [a b].
func (v Value) String() string {
	switch v.Kind {
	case KindNull:
		return "null"
	case KindBool:
		return strconv.FormatBool(v.B)
	case KindInt:
		return strconv.FormatInt(v.I64, 10)
	case KindFloat:
		return strconv.FormatFloat(v.F64, 'g', -1, 64)
	case KindString:
		return v.s.Value()
	case KindArray:
		parts := make([]string, len(v.A))
		for i, e := range v.A {
			parts[i] = e.String()
		}
		return "[" + strings.Join(parts, " ") + "]"
	default:
		return "invalid"
	}
}

// MarshalJSON encodes v as null or as a single-key object naming its kind:
// {"str":"site-a"}, {"int":3}, {"float":0.5}, {"bool":true}, {"arr":[...]}.
// Non-finite floats are written as strings.
func (v Value) MarshalJSON() ([]byte, error) {
	switch v.Kind {
	case KindBool:
		return json.Marshal(struct {
			V bool `json:"bool"`
		}{v.B})
	case KindInt:
		return json.Marshal(struct {
			V int64 `json:"int"`
		}{v.I64})
	case KindFloat:
		if math.IsNaN(v.F64) || math.IsInf(v.F64, 0) {
			return json.Marshal(struct {
				V string `json:"float"`
			}{strconv.FormatFloat(v.F64, 'g', -1, 64)})
		}
		return json.Marshal(struct {
			V float64 `json:"float"`
		}{v.F64})
	case KindString:
		return json.Marshal(struct {
			V string `json:"str"`
		}{v.s.Value()})
	case KindArray:
		items := v.A
		if items == nil {
			items = []Value{}
		}
		return json.Marshal(struct {
			V []Value `json:"arr"`
		}{items})
	default:
		return []byte("null"), nil
	}
}

// UnmarshalJSON decodes the format written by MarshalJSON.
func (v *Value) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		*v = Null()
		return nil
	}

	var wire map[string]json.RawMessage
	if err := json.Unmarshal(data, &wire); err != nil {
		return fmt.Errorf("metadata: decode value: %w", err)
	}
	if len(wire) != 1 {
		return fmt.Errorf("metadata: value object must have exactly one field, got %d", len(wire))
	}

	for tag, raw := range wire {
		switch tag {
		case "bool":
			var b bool
			if err := json.Unmarshal(raw, &b); err != nil {
				return fmt.Errorf("metadata: decode bool: %w", err)
			}
			*v = Bool(b)
		case "int":
			var i int64
			if err := json.Unmarshal(raw, &i); err != nil {
				return fmt.Errorf("metadata: decode int: %w", err)
			}
			*v = Int(i)
		case "float":
			f, err := decodeFloat(raw)
			if err != nil {
				return fmt.Errorf("metadata: decode float: %w", err)
			}
			*v = Float(f)
		case "str":
			var s string
			if err := json.Unmarshal(raw, &s); err != nil {
				return fmt.Errorf("metadata: decode string: %w", err)
			}
			*v = String(s)
		case "arr":
			var items []Value
			if err := json.Unmarshal(raw, &items); err != nil {
				return fmt.Errorf("metadata: decode array: %w", err)
			}
			*v = Array(items)
		default:
			return fmt.Errorf("metadata: unknown value kind %q", tag)
		}
	}
	return nil
}

func decodeFloat(raw json.RawMessage) (float64, error) {
	if len(raw) > 0 && raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return 0, err
		}
		return strconv.ParseFloat(s, 64)
	}
	var f float64
	err := json.Unmarshal(raw, &f)
	return f, err
}

// Document is a single row of named values.
type Document map[string]Value
