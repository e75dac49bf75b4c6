package codec

import (
	"fmt"
	"io"
	"iter"

	gojson "github.com/goccy/go-json"

	"github.com/hupe1980/jsonlddb/model"
)

// JSON is the structured-text codec backed by github.com/goccy/go-json.
//
// Numbers are decoded with UseNumber so integers survive beyond 2^53.
type JSON struct{}

// Name returns the unique name of the codec ("json").
func (JSON) Name() string { return "json" }

// Encode writes triples as a single JSON object.
func (JSON) Encode(w io.Writer, triples iter.Seq[model.Triple]) error {
	groups, err := group(triples)
	if err != nil {
		return err
	}
	return gojson.NewEncoder(w).Encode(document(groups))
}

// Decode reads a JSON object written by Encode.
func (JSON) Decode(r io.Reader) iter.Seq2[model.Triple, error] {
	return func(yield func(model.Triple, error) bool) {
		dec := gojson.NewDecoder(r)
		dec.UseNumber()

		var doc map[string]map[string][]any
		if err := dec.Decode(&doc); err != nil {
			yield(model.Triple{}, fmt.Errorf("%w: %w", ErrMalformed, err))
			return
		}
		triplesOf(doc, yield)
	}
}
