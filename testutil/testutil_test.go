package testutil

import (
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFamilialOwnership_FreshCopies(t *testing.T) {
	a := FamilialOwnership()
	b := FamilialOwnership()
	require.Len(t, a, 5)

	a[0].(map[string]any)["@type"] = "Robot"
	assert.Equal(t, "Person", b[0].(map[string]any)["@type"])
}

func TestDocuments_Deterministic(t *testing.T) {
	rng := NewRNG(4711)
	d1 := rng.Documents(20)

	rng.Reset()
	d2 := rng.Documents(20)

	assert.Equal(t, d1, d2)
	assert.Len(t, d1, 20)
	assert.Equal(t, "n0", d1[0].(map[string]any)["@id"])
}

func TestRefine_AddsConstraint(t *testing.T) {
	rng := NewRNG(42)
	for range 50 {
		f := rng.Frame(2)
		g := rng.Refine(f)
		assert.GreaterOrEqual(t, count(g), count(f))
		for k := range f {
			assert.Contains(t, g, k)
		}
	}
}

func count(m map[string]any) int {
	n := len(m)
	for _, v := range m {
		if nested, ok := v.(map[string]any); ok {
			n += count(nested)
		}
	}
	return n
}

func TestZipf(t *testing.T) {
	rng := NewRNG(1)
	for range 100 {
		v := rng.Zipf(5, 1.0)
		assert.GreaterOrEqual(t, v, 0)
		assert.Less(t, v, 5)
	}
	assert.Equal(t, 0, rng.Zipf(1, 1.0))
}

func TestTermHelpers(t *testing.T) {
	assert.Equal(t, IRIs("a", "b"), Sorted(slices.Values(IRIs("b", "a"))))

	terms := append(Strings("x", "x"), IRIs("x")...)
	assert.Len(t, Set(slices.Values(terms)), 2)
}
