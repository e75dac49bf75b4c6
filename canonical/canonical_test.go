package canonical

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"

	"github.com/hupe1980/jsonlddb/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func collect(t *testing.T, docs any, opts ...Option) []model.Triple {
	t.Helper()
	var out []model.Triple
	for tr, err := range Triples(docs, opts...) {
		require.NoError(t, err)
		out = append(out, tr)
	}
	return out
}

func collectErr(docs any) ([]model.Triple, error) {
	var out []model.Triple
	for tr, err := range Triples(docs) {
		if err != nil {
			return out, err
		}
		out = append(out, tr)
	}
	return out, nil
}

func TestTriples_ExplicitID(t *testing.T) {
	triples := collect(t, map[string]any{
		"@id":   "0",
		"@type": "Person",
		"owns":  map[string]any{"@id": "4", "@type": "Car", "model": "S"},
	})

	assert.ElementsMatch(t, []model.Triple{
		model.NewTriple(model.IRI("0"), "@type", model.String("Person")),
		model.NewTriple(model.IRI("0"), "owns", model.IRI("4")),
		model.NewTriple(model.IRI("4"), "@type", model.String("Car")),
		model.NewTriple(model.IRI("4"), "model", model.String("S")),
	}, triples)
}

func TestTriples_ContentIdentity(t *testing.T) {
	a := collect(t, map[string]any{"name": "x", "age": 3, "knows": map[string]any{"name": "y"}})
	b := collect(t, map[string]any{"age": 3.0, "name": "x"})

	require.NotEmpty(t, a)
	require.NotEmpty(t, b)

	subjectOf := func(triples []model.Triple, pred string) model.Term {
		for _, tr := range triples {
			if tr.Predicate == pred {
				return tr.Subject
			}
		}
		return model.Term{}
	}
	assert.Equal(t, subjectOf(a, "age"), subjectOf(b, "age"))
	assert.True(t, subjectOf(a, "age").IsIRI())

	// Relationships never participate in identity.
	assert.Equal(t,
		Identity([]Pair{{"name", model.String("x")}, {"age", model.Int(3)}}),
		subjectOf(a, "age"),
	)
}

func TestIdentity_OrderAndDuplicates(t *testing.T) {
	p1 := []Pair{{"a", model.Int(1)}, {"b", model.String("x")}}
	p2 := []Pair{{"b", model.String("x")}, {"a", model.Int(1)}, {"a", model.Int(1)}}
	assert.Equal(t, Identity(p1), Identity(p2))

	assert.NotEqual(t,
		Identity([]Pair{{"a", model.Int(1)}}),
		Identity([]Pair{{"a", model.String("1")}}),
	)
	assert.Equal(t, Identity(nil), Identity([]Pair{}))
}

func TestTriples_ValueWrapper(t *testing.T) {
	triples := collect(t, map[string]any{
		"@id":    "n",
		"data":   map[string]any{"@value": map[string]any{"k": []any{1, 2}}},
		"count":  map[string]any{"@value": 4},
		"label":  map[string]any{"@value": "hi", "@language": "en"},
		"single": []any{map[string]any{"@value": nil}},
	})

	opaque, err := model.Opaque(map[string]any{"k": []any{1, 2}})
	require.NoError(t, err)
	valueObject, err := model.Opaque(map[string]any{"@value": "hi", "@language": "en"})
	require.NoError(t, err)

	assert.ElementsMatch(t, []model.Triple{
		model.NewTriple(model.IRI("n"), "data", opaque),
		model.NewTriple(model.IRI("n"), "count", model.Int(4)),
		model.NewTriple(model.IRI("n"), "label", valueObject),
		model.NewTriple(model.IRI("n"), "single", model.Null()),
	}, triples)
}

func TestTriples_List(t *testing.T) {
	triples := collect(t, []any{
		map[string]any{"@id": "a", "tag": []any{"x", "y"}},
		map[string]any{"@id": "b", "tag": "x"},
	})
	assert.ElementsMatch(t, []model.Triple{
		model.NewTriple(model.IRI("a"), "tag", model.String("x")),
		model.NewTriple(model.IRI("a"), "tag", model.String("y")),
		model.NewTriple(model.IRI("b"), "tag", model.String("x")),
	}, triples)
}

func TestTriples_FlattenWarnsOnce(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	triples := collect(t, []any{
		[]any{map[string]any{"@id": "a", "tag": []any{[]any{"x"}, "y"}}},
		map[string]any{"@id": "b", "tag": []any{[]any{"z"}}},
	}, WithLogger(logger))

	assert.ElementsMatch(t, []model.Triple{
		model.NewTriple(model.IRI("a"), "tag", model.String("x")),
		model.NewTriple(model.IRI("a"), "tag", model.String("y")),
		model.NewTriple(model.IRI("b"), "tag", model.String("z")),
	}, triples)
	assert.Equal(t, 1, strings.Count(buf.String(), "level=WARN"))
}

func TestTriples_InverseRelationship(t *testing.T) {
	triples := collect(t, map[string]any{
		"@id":   "4",
		"~owns": map[string]any{"@id": "0"},
	})
	assert.Equal(t, []model.Triple{
		model.NewTriple(model.IRI("0"), "owns", model.IRI("4")),
	}, triples)
}

func TestTriples_TermValues(t *testing.T) {
	triples := collect(t, map[string]any{
		"@id":  "0",
		"owns": model.IRI("4"),
		"age":  model.Int(40),
	})
	assert.ElementsMatch(t, []model.Triple{
		model.NewTriple(model.IRI("0"), "owns", model.IRI("4")),
		model.NewTriple(model.IRI("0"), "age", model.Int(40)),
	}, triples)
}

func TestTriples_IDKey(t *testing.T) {
	triples := collect(t, map[string]any{"id": "x", "name": "n"}, WithIDKey("id"))
	assert.Equal(t, []model.Triple{
		model.NewTriple(model.IRI("x"), "name", model.String("n")),
	}, triples)
}

func TestTriples_FormatErrors(t *testing.T) {
	tests := []struct {
		name string
		doc  any
	}{
		{"scalar document", 42},
		{"multiple ids", map[string]any{"@id": []any{"a", "b"}}},
		{"non-string id", map[string]any{"@id": 7}},
		{"unsupported type", map[string]any{"p": struct{}{}}},
		{"triple nested list", map[string]any{"p": []any{[]any{[]any{"x"}}}}},
		{"inverse literal", map[string]any{"~p": "x"}},
		{"empty predicate", map[string]any{"": "x"}},
		{"nan", map[string]any{"p": map[string]any{"@value": []any{}}, "q": nan()}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := collectErr(tt.doc)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrFormat)

			var fe *FormatError
			assert.ErrorAs(t, err, &fe)
		})
	}
}

func nan() any {
	var zero float64
	return zero / zero
}

func TestTriples_ErrorStopsIteration(t *testing.T) {
	triples, err := collectErr([]any{
		map[string]any{"@id": "a", "p": 1},
		"broken",
		map[string]any{"@id": "c", "p": 3},
	})
	require.Error(t, err)
	assert.Equal(t, []model.Triple{model.NewTriple(model.IRI("a"), "p", model.Int(1))}, triples)
}

func TestTriples_EarlyBreak(t *testing.T) {
	n := 0
	for range Triples(map[string]any{"@id": "a", "p": []any{1, 2, 3}}) {
		n++
		break
	}
	assert.Equal(t, 1, n)
}

func TestTriples_Deep(t *testing.T) {
	doc := map[string]any{"@id": "leaf"}
	for range 10000 {
		doc = map[string]any{"next": doc}
	}
	triples := collect(t, doc)
	assert.Len(t, triples, 10000)
}
