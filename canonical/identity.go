package canonical

import (
	"cmp"
	"slices"

	gojson "github.com/goccy/go-json"
	"github.com/google/uuid"

	"github.com/hupe1980/jsonlddb/model"
)

// Pair is a (predicate, literal) attribute of a node.
type Pair struct {
	Predicate string
	Value     model.Term
}

// Identity returns the content-derived identifier of a node with the given
// literal attributes: a UUIDv5 in the nil namespace over the JSON encoding of
// the pairs sorted by predicate and value. The order of pairs is irrelevant.
func Identity(pairs []Pair) model.Term {
	sorted := slices.Clone(pairs)
	slices.SortFunc(sorted, func(a, b Pair) int {
		if c := cmp.Compare(a.Predicate, b.Predicate); c != 0 {
			return c
		}
		return cmp.Compare(a.Value.Key(), b.Value.Key())
	})
	sorted = slices.Compact(sorted)

	encoded := make([][2]any, len(sorted))
	for i, p := range sorted {
		encoded[i] = [2]any{p.Predicate, p.Value.Value()}
	}
	data, err := gojson.Marshal(encoded)
	if err != nil {
		// Literal values always come from JSON-compatible terms.
		panic(err)
	}
	return model.IRI(uuid.NewSHA1(uuid.Nil, data).String())
}
