package frame

import (
	"slices"
	"testing"

	"github.com/hupe1980/jsonlddb/canonical"
	"github.com/hupe1980/jsonlddb/index"
	"github.com/hupe1980/jsonlddb/internal/termdict"
	"github.com/hupe1980/jsonlddb/model"
	"github.com/hupe1980/jsonlddb/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func load(t *testing.T, idx *index.Index, docs any) {
	t.Helper()
	var triples []model.Triple
	for tr, err := range canonical.Triples(docs) {
		require.NoError(t, err)
		triples = append(triples, tr)
	}
	require.NoError(t, idx.Insert(slices.Values(triples)))
}

func resolve(t *testing.T, r index.Reader, f map[string]any) []model.Term {
	t.Helper()
	parsed, err := Parse(f)
	require.NoError(t, err)
	seq, err := Resolve(r, parsed)
	require.NoError(t, err)
	return testutil.Sorted(seq)
}

func familialOwnership(t *testing.T) *index.Index {
	idx := index.New()
	load(t, idx, testutil.FamilialOwnership())
	return idx
}

func TestResolve_FamilialOwnership(t *testing.T) {
	idx := familialOwnership(t)

	tests := []struct {
		name  string
		frame map[string]any
		want  []model.Term
	}{
		{
			name:  "empty frame is every subject",
			frame: map[string]any{},
			want:  testutil.IRIs("0", "1", "2", "3", "4", "5", "6"),
		},
		{
			name:  "inverse wildcard yields literals",
			frame: map[string]any{"~@type": map[string]any{}},
			want:  testutil.Strings("Car", "Person"),
		},
		{
			name:  "cars owned by a person",
			frame: map[string]any{"@type": "Car", "~owns": map[string]any{"@type": "Person"}},
			want:  testutil.IRIs("4", "5"),
		},
		{
			name: "cars owned by a child of a car owner",
			frame: map[string]any{
				"@type": "Car",
				"~owns": map[string]any{
					"@type":   "Person",
					"childOf": map[string]any{"@type": "Person", "owns": map[string]any{"@type": "Car"}},
				},
			},
			want: testutil.IRIs("5"),
		},
		{
			name: "spouse of an owner and parent of an owner",
			frame: map[string]any{
				"~spouseOf": map[string]any{"owns": map[string]any{}},
				"~childOf":  map[string]any{"owns": map[string]any{}},
			},
			want: testutil.IRIs("1"),
		},
		{
			name:  "models of owned cars",
			frame: map[string]any{"~model": map[string]any{"@type": "Car", "~owns": map[string]any{}}},
			want:  testutil.Strings("3", "S"),
		},
		{
			name:  "alternatives",
			frame: map[string]any{"@type": "Car", "model": []any{"S", "X"}},
			want:  testutil.IRIs("4", "6"),
		},
		{
			name:  "pinned identifier",
			frame: map[string]any{"@id": "4", "@type": "Car"},
			want:  testutil.IRIs("4"),
		},
		{
			name:  "unknown identifier",
			frame: map[string]any{"@id": "404"},
			want:  nil,
		},
		{
			name:  "known identifiers exclude literals",
			frame: map[string]any{"~@id": map[string]any{}, "~model": map[string]any{}},
			want:  nil,
		},
		{
			name:  "unknown literal",
			frame: map[string]any{"@type": "Boat"},
			want:  nil,
		},
		{
			name:  "unknown predicate",
			frame: map[string]any{"color": map[string]any{}},
			want:  nil,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := resolve(t, idx, tt.frame)
			if tt.want == nil {
				assert.Empty(t, got)
				return
			}
			assert.Equal(t, testutil.Sorted(slices.Values(tt.want)), got)
		})
	}
}

func TestResolve_OwnershipMove(t *testing.T) {
	idx := familialOwnership(t)

	require.NoError(t, idx.Delete(model.NewTriple(model.IRI("3"), "owns", model.IRI("5"))))
	require.NoError(t, idx.Add(model.NewTriple(model.IRI("2"), "owns", model.IRI("5"))))

	got := resolve(t, idx, map[string]any{"@type": "Person", "owns": map[string]any{"@id": "5"}})
	assert.Equal(t, testutil.IRIs("2"), got)
}

func TestResolve_RepeatedPredicateIsAnd(t *testing.T) {
	idx := familialOwnership(t)

	// Children of 0 that are also children of 1, through two separate
	// existential constraints on the same predicate.
	f := New().
		Nested("childOf", New().ID("0")).
		Nested("childOf", New().ID("1"))
	seq, err := Resolve(idx, f)
	require.NoError(t, err)
	assert.Equal(t, testutil.IRIs("2", "3"), testutil.Sorted(seq))

	f = New().Where("@type", "Person").Where("@type", "Car")
	seq, err = Resolve(idx, f)
	require.NoError(t, err)
	assert.Empty(t, testutil.Sorted(seq))
}

func TestResolve_Overlay(t *testing.T) {
	dict := termdict.New()
	base := index.New(index.WithDictionary(dict))
	load(t, base, testutil.FamilialOwnership())

	scratch := index.New(index.WithDictionary(dict))
	require.NoError(t, scratch.Add(model.NewTriple(model.IRI("2"), "owns", model.IRI("6"))))

	o, err := index.NewOverlay(base, scratch)
	require.NoError(t, err)

	frame := map[string]any{"@type": "Car", "~owns": map[string]any{"@type": "Person"}}
	assert.Equal(t, testutil.IRIs("4", "5", "6"), resolve(t, o, frame))
	assert.Equal(t, testutil.IRIs("4", "5"), resolve(t, base, frame))
	assert.Equal(t, 1, scratch.Len())
}

func TestResolve_InvalidFrame(t *testing.T) {
	_, err := Resolve(index.New(), New().Where("", 1))
	assert.ErrorIs(t, err, ErrInvalidFrame)
}

func TestResolve_Monotonic(t *testing.T) {
	rng := testutil.NewRNG(4711)
	idx := index.New()
	load(t, idx, rng.Documents(150))

	for i := range 200 {
		f1 := rng.Frame(2)
		f2 := rng.Refine(f1)

		broad := testutil.Set(slices.Values(resolve(t, idx, f1)))
		narrow := resolve(t, idx, f2)
		for _, term := range narrow {
			_, ok := broad[term]
			if !assert.True(t, ok, "iteration %d: %s matches %v but not %v", i, term, f2, f1) {
				return
			}
		}
	}
}

func TestResolve_EmptyFrameIsUniverse(t *testing.T) {
	rng := testutil.NewRNG(7)
	idx := index.New()
	load(t, idx, rng.Documents(50))

	got := resolve(t, idx, map[string]any{})
	assert.Equal(t, testutil.Sorted(idx.Subjects()), got)
}

func TestResolve_IDPinsSubjectsOnly(t *testing.T) {
	idx := index.New()
	require.NoError(t, idx.Add(model.NewTriple(model.IRI("a"), "knows", model.IRI("b"))))

	seq, err := Resolve(idx, New().ID("b"))
	require.NoError(t, err)
	assert.Empty(t, testutil.Sorted(seq))

	seq, err = Resolve(idx, New().ID("a"))
	require.NoError(t, err)
	assert.Equal(t, testutil.IRIs("a"), testutil.Sorted(seq))

	assert.Equal(t, testutil.IRIs("a"), resolve(t, idx, map[string]any{"@id": map[string]any{}}))
	assert.Equal(t, testutil.IRIs("a", "b"), resolve(t, idx, map[string]any{"~@id": map[string]any{}}))
	assert.Equal(t, testutil.IRIs("b"), resolve(t, idx, map[string]any{"~@id": "b"}))
}
