// Package codec encodes and decodes triple sets in the interchange format.
//
// The format maps each subject identifier to its predicates and each
// predicate to a list of encoded objects:
//
//	{"0": {"@type": [["Person"]], "owns": ["4"]}}
//
// A bare string is an IRI reference and a one-element list is a literal, so
// "4" names the node 4 while ["4"] is the string literal "4".
//
// Codec selection is a compatibility boundary: persisted snapshots record the
// codec name in their header and are decoded with the codec of that name.
package codec

import (
	"errors"
	"fmt"
	"io"
	"iter"
	"slices"

	"github.com/hupe1980/jsonlddb/model"
)

// ErrMalformed is returned when an encoded triple set does not follow the
// interchange format.
var ErrMalformed = errors.New("malformed triple encoding")

// Codec encodes and decodes triple sets.
// Implementations must be safe for concurrent use.
type Codec interface {
	// Name returns the stable name recorded in snapshot headers.
	Name() string
	// Encode writes triples to w.
	Encode(w io.Writer, triples iter.Seq[model.Triple]) error
	// Decode lazily reads triples from r. It yields a non-nil error at most
	// once and stops.
	Decode(r io.Reader) iter.Seq2[model.Triple, error]
}

// ByName returns a built-in codec by its stable name.
func ByName(name string) (Codec, bool) {
	switch name {
	case "json":
		return JSON{}, true
	case "yaml":
		return YAML{}, true
	case "msgpack":
		return MsgPack{}, true
	default:
		return nil, false
	}
}

// Names returns the names of the built-in codecs.
func Names() []string {
	return []string{"json", "yaml", "msgpack"}
}

// Default is the codec used when none is configured.
var Default Codec = JSON{}

// subjectGroup holds the encoded predicates of one subject.
type subjectGroup struct {
	subject    string
	predicates map[string][]any
}

// group collects triples by subject, keeping subjects in first-seen order.
func group(triples iter.Seq[model.Triple]) ([]subjectGroup, error) {
	var groups []subjectGroup
	pos := make(map[string]int)
	for t := range triples {
		if !t.Subject.IsIRI() {
			return nil, fmt.Errorf("%w: subject %s is not an IRI", ErrMalformed, t.Subject)
		}
		s := t.Subject.ID()
		i, ok := pos[s]
		if !ok {
			i = len(groups)
			pos[s] = i
			groups = append(groups, subjectGroup{subject: s, predicates: make(map[string][]any)})
		}
		groups[i].predicates[t.Predicate] = append(groups[i].predicates[t.Predicate], encodeObject(t.Object))
	}
	return groups, nil
}

// document renders groups as the nested map form of the format.
func document(groups []subjectGroup) map[string]map[string][]any {
	doc := make(map[string]map[string][]any, len(groups))
	for _, g := range groups {
		doc[g.subject] = g.predicates
	}
	return doc
}

func encodeObject(t model.Term) any {
	if t.IsIRI() {
		return t.ID()
	}
	return []any{t.Value()}
}

func decodeObject(v any) (model.Term, error) {
	switch x := v.(type) {
	case string:
		return model.IRI(x), nil
	case []any:
		if len(x) != 1 {
			return model.Term{}, fmt.Errorf("%w: literal list with %d elements", ErrMalformed, len(x))
		}
		t, err := model.FromValue(x[0])
		if err != nil {
			return model.Term{}, fmt.Errorf("%w: %w", ErrMalformed, err)
		}
		return t, nil
	default:
		return model.Term{}, fmt.Errorf("%w: unexpected object %T", ErrMalformed, v)
	}
}

// triplesOf yields the triples of a decoded document in sorted order.
func triplesOf(doc map[string]map[string][]any, yield func(model.Triple, error) bool) {
	subjects := make([]string, 0, len(doc))
	for s := range doc {
		subjects = append(subjects, s)
	}
	slices.Sort(subjects)

	for _, s := range subjects {
		preds := make([]string, 0, len(doc[s]))
		for p := range doc[s] {
			preds = append(preds, p)
		}
		slices.Sort(preds)

		for _, p := range preds {
			for _, v := range doc[s][p] {
				obj, err := decodeObject(v)
				if err != nil {
					yield(model.Triple{}, fmt.Errorf("subject %q predicate %q: %w", s, p, err))
					return
				}
				if !yield(model.NewTriple(model.IRI(s), p, obj), nil) {
					return
				}
			}
		}
	}
}
