package codec

import (
	"errors"
	"fmt"
	"io"
	"iter"

	"gopkg.in/yaml.v3"

	"github.com/hupe1980/jsonlddb/model"
)

// YAML is a structured-text codec backed by gopkg.in/yaml.v3.
type YAML struct{}

// Name returns the unique name of the codec ("yaml").
func (YAML) Name() string { return "yaml" }

// Encode writes triples as a single YAML mapping.
func (YAML) Encode(w io.Writer, triples iter.Seq[model.Triple]) error {
	groups, err := group(triples)
	if err != nil {
		return err
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(document(groups)); err != nil {
		return err
	}
	return enc.Close()
}

// Decode reads a YAML mapping written by Encode.
func (YAML) Decode(r io.Reader) iter.Seq2[model.Triple, error] {
	return func(yield func(model.Triple, error) bool) {
		var doc map[string]map[string][]any
		if err := yaml.NewDecoder(r).Decode(&doc); err != nil && !errors.Is(err, io.EOF) {
			yield(model.Triple{}, fmt.Errorf("%w: %w", ErrMalformed, err))
			return
		}
		triplesOf(doc, yield)
	}
}
