package metadata

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCompare(t *testing.T) {
	tests := []struct {
		name string
		a, b Value
		want int
	}{
		{"null before bool", Null(), Bool(false), -1},
		{"bool order", Bool(false), Bool(true), -1},
		{"int before float", Int(100), Float(-1), -1},
		{"int order", Int(-3), Int(2), -1},
		{"float order", Float(0.5), Float(0.25), 1},
		{"float before string", Float(1e9), String(""), -1},
		{"string order", String("site-b"), String("site-a"), 1},
		{"string before array", String("z"), Array(nil), -1},
		{"array prefix", Array([]Value{Int(1)}), Array([]Value{Int(1), Int(0)}), -1},
		{"array element", Array([]Value{Int(2)}), Array([]Value{Int(1), Int(9)}), 1},
		{"equal strings", String("a"), String("a"), 0},
		{"equal ints", Int(7), Int(7), 0},
		{"nan vs nan", Float(math.NaN()), Float(math.NaN()), 0},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Compare(tc.a, tc.b))
			assert.Equal(t, -tc.want, Compare(tc.b, tc.a))
		})
	}
}

func TestCompare_ConsistentWithKey(t *testing.T) {
	values := []Value{
		Null(), Bool(true), Bool(false), Int(0), Int(1), Float(0), Float(math.Copysign(0, -1)),
		Float(math.NaN()), Float(math.Inf(1)), String("0"), String("a"), Array([]Value{String("a")}),
	}

	for _, a := range values {
		for _, b := range values {
			assert.Equal(t, a.Key() == b.Key(), Compare(a, b) == 0, "a=%s b=%s", a.Key(), b.Key())
		}
	}
}

func TestDistinct(t *testing.T) {
	in := []Value{String("C"), String("A"), String("C"), String("B"), String("A")}

	got := Distinct(in)

	assert.Equal(t, []Value{String("A"), String("B"), String("C")}, got)
	// Input untouched.
	assert.Equal(t, String("C"), in[0])
}

func TestDistinct_MixedKinds(t *testing.T) {
	got := Distinct([]Value{String("x"), Int(2), Null(), Int(1), Float(1)})

	assert.Equal(t, []Value{Null(), Int(1), Int(2), Float(1), String("x")}, got)
}
