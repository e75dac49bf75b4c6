package model

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTerm_Equality(t *testing.T) {
	assert.Equal(t, IRI("a"), IRI("a"))
	assert.NotEqual(t, IRI("a"), String("a"))
	assert.NotEqual(t, String("1"), Int(1))
	assert.NotEqual(t, Bool(true), String("true"))
	assert.Equal(t, Int(3), Float(3.0))
	assert.NotEqual(t, Float(3.5), Int(3))

	set := map[Term]struct{}{}
	set[String("x")] = struct{}{}
	set[String("x")] = struct{}{}
	set[IRI("x")] = struct{}{}
	assert.Len(t, set, 2)
}

func TestFromValue(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want Term
	}{
		{"nil", nil, Null()},
		{"bool", true, Bool(true)},
		{"string", "Car", String("Car")},
		{"int", 7, Int(7)},
		{"int32", int32(7), Int(7)},
		{"uint8", uint8(7), Int(7)},
		{"integral float", 7.0, Int(7)},
		{"float", 7.25, Float(7.25)},
		{"json number int", json.Number("42"), Int(42)},
		{"json number float", json.Number("4.5"), Float(4.5)},
		{"term passthrough", IRI("x"), IRI("x")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := FromValue(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFromValue_Errors(t *testing.T) {
	_, err := FromValue(math.NaN())
	assert.ErrorIs(t, err, ErrUnsupportedValue)

	_, err = FromValue(math.Inf(1))
	assert.ErrorIs(t, err, ErrUnsupportedValue)

	_, err = FromValue(struct{ A chan int }{})
	assert.ErrorIs(t, err, ErrUnsupportedValue)

	_, err = FromValue(Term{})
	assert.ErrorIs(t, err, ErrUnsupportedValue)
}

func TestOpaque_Canonical(t *testing.T) {
	a, err := Opaque(map[string]any{"b": 1, "a": []any{"x", 2.0}})
	require.NoError(t, err)
	b, err := Opaque(map[string]any{"a": []any{"x", 2}, "b": 1.0})
	require.NoError(t, err)

	assert.Equal(t, a, b)
	assert.Equal(t, LiteralOpaque, a.LiteralType())
	assert.Equal(t, `{"a":["x",2],"b":1}`, a.String())

	v, ok := a.Value().(map[string]any)
	require.True(t, ok)
	assert.Equal(t, float64(1), v["b"])
}

func TestTerm_Value(t *testing.T) {
	assert.Equal(t, "urn:1", IRI("urn:1").Value())
	assert.Nil(t, Null().Value())
	assert.Equal(t, true, Bool(true).Value())
	assert.Equal(t, int64(5), Int(5).Value())
	assert.Equal(t, 0.5, Float(0.5).Value())
	assert.Equal(t, "s", String("s").Value())
}

func TestTerm_Key(t *testing.T) {
	keys := map[string]Term{}
	for _, term := range []Term{
		IRI("1"), String("1"), Int(1), Float(1.5), Bool(true), Bool(false), Null(),
	} {
		k := term.Key()
		_, dup := keys[k]
		assert.False(t, dup, "duplicate key %q", k)
		keys[k] = term
	}
	assert.Equal(t, "invalid", Term{}.Key())
}

func TestInverse(t *testing.T) {
	assert.Equal(t, "~owns", Inverse("owns"))
	assert.Equal(t, "owns", Inverse("~owns"))
	assert.True(t, IsInverse("~owns"))
	assert.False(t, IsInverse("owns"))
	assert.True(t, IsIdentifierKey("@id"))
	assert.True(t, IsIdentifierKey("~@id"))
	assert.False(t, IsIdentifierKey("@type"))
}
