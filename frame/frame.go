package frame

import (
	"errors"
	"fmt"
	"slices"
	"sort"

	"github.com/hupe1980/jsonlddb/model"
)

// ErrInvalidFrame is returned for patterns that cannot be evaluated.
var ErrInvalidFrame = errors.New("invalid frame")

// Kind identifies the shape of a constraint.
type Kind uint8

const (
	// KindLiteral matches one value.
	KindLiteral Kind = iota
	// KindAlternatives matches any of several values.
	KindAlternatives
	// KindWildcard matches any value.
	KindWildcard
	// KindNested matches nodes satisfying a nested frame.
	KindNested
)

// String returns the name of the kind.
func (k Kind) String() string {
	switch k {
	case KindLiteral:
		return "literal"
	case KindAlternatives:
		return "alternatives"
	case KindWildcard:
		return "wildcard"
	case KindNested:
		return "nested"
	default:
		return fmt.Sprintf("Kind(%d)", k)
	}
}

// Entry is a single predicate constraint.
type Entry struct {
	Predicate string
	Kind      Kind
	// Values holds the literal (one value) or the alternatives.
	Values []model.Term
	nested *Frame
}

// Nested returns the nested frame of a KindNested entry.
func (e Entry) Nested() (Frame, bool) {
	if e.Kind != KindNested || e.nested == nil {
		return Frame{}, false
	}
	return *e.nested, true
}

// Frame is an immutable frame query. The zero Frame is empty and matches
// every subject.
type Frame struct {
	entries []Entry
	err     error
}

// New returns an empty frame.
func New() Frame {
	return Frame{}
}

func (f Frame) with(e Entry) Frame {
	f.entries = append(slices.Clip(f.entries), e)
	return f
}

func (f Frame) fail(err error) Frame {
	if f.err == nil {
		f.err = err
	}
	return f
}

// Where adds a constraint on predicate.
//
// value may be a scalar or model.Term (literal match), a []any (alternatives),
// a Frame (nested), or a map[string]any, which is parsed like Parse does; an
// empty map is a wildcard. Under "@id" and "~@id" strings name identifiers.
func (f Frame) Where(predicate string, value any) Frame {
	if predicate == "" {
		return f.fail(fmt.Errorf("%w: empty predicate", ErrInvalidFrame))
	}
	switch v := value.(type) {
	case Frame:
		return f.Nested(predicate, v)
	case *Frame:
		if v == nil {
			return f.Any(predicate)
		}
		return f.Nested(predicate, *v)
	case map[string]any:
		if literal, ok, err := valueWrapper(predicate, v); ok || err != nil {
			if err != nil {
				return f.fail(err)
			}
			return f.with(Entry{Predicate: predicate, Kind: KindLiteral, Values: []model.Term{literal}})
		}
		nested, err := Parse(v)
		if err != nil {
			return f.fail(err)
		}
		return f.Nested(predicate, nested)
	case []any:
		return f.OneOf(predicate, v...)
	case []string:
		values := make([]any, len(v))
		for i, s := range v {
			values[i] = s
		}
		return f.OneOf(predicate, values...)
	}
	t, err := toTerm(predicate, value)
	if err != nil {
		return f.fail(err)
	}
	return f.with(Entry{Predicate: predicate, Kind: KindLiteral, Values: []model.Term{t}})
}

// ID pins the frame to the node with the given identifier.
func (f Frame) ID(id string) Frame {
	return f.Where(model.IDKey, model.IRI(id))
}

// Any requires the node to have some value for predicate.
func (f Frame) Any(predicate string) Frame {
	if predicate == "" {
		return f.fail(fmt.Errorf("%w: empty predicate", ErrInvalidFrame))
	}
	return f.with(Entry{Predicate: predicate, Kind: KindWildcard})
}

// OneOf requires the node to have at least one of values for predicate.
// Values must be literals, or identifiers under "@id" and "~@id".
func (f Frame) OneOf(predicate string, values ...any) Frame {
	if predicate == "" {
		return f.fail(fmt.Errorf("%w: empty predicate", ErrInvalidFrame))
	}
	terms := make([]model.Term, 0, len(values))
	for _, v := range values {
		t, err := toTerm(predicate, v)
		if err != nil {
			return f.fail(err)
		}
		terms = append(terms, t)
	}
	return f.with(Entry{Predicate: predicate, Kind: KindAlternatives, Values: terms})
}

// Nested requires the node to reach, through predicate, a node matching n.
// An empty n is a wildcard.
func (f Frame) Nested(predicate string, n Frame) Frame {
	if predicate == "" {
		return f.fail(fmt.Errorf("%w: empty predicate", ErrInvalidFrame))
	}
	if n.err != nil {
		return f.fail(n.err)
	}
	if n.IsEmpty() {
		return f.Any(predicate)
	}
	if model.IsIdentifierKey(predicate) {
		return f.fail(fmt.Errorf("%w: %q cannot hold a nested frame", ErrInvalidFrame, predicate))
	}
	return f.with(Entry{Predicate: predicate, Kind: KindNested, nested: &n})
}

// Select returns the frame of nodes reached from f's matches through
// predicate: {"~predicate": f}.
func (f Frame) Select(predicate string) Frame {
	return New().Nested(model.Inverse(predicate), f)
}

// Merge returns a frame with the constraints of both f and other.
func (f Frame) Merge(other Frame) Frame {
	if other.err != nil {
		return f.fail(other.err)
	}
	for _, e := range other.entries {
		f = f.with(e)
	}
	return f
}

// Len returns the number of top-level constraints.
func (f Frame) Len() int {
	return len(f.entries)
}

// IsEmpty reports whether the frame has no constraints.
func (f Frame) IsEmpty() bool {
	return len(f.entries) == 0
}

// Entries returns the top-level constraints in insertion order.
func (f Frame) Entries() []Entry {
	return slices.Clone(f.entries)
}

// Err returns the first error recorded while building the frame.
func (f Frame) Err() error {
	return f.err
}

// Map renders the frame back into its map form.
// Constraints repeated on one predicate are rendered as the last one.
func (f Frame) Map() map[string]any {
	out := make(map[string]any, len(f.entries))
	for _, e := range f.entries {
		switch e.Kind {
		case KindLiteral:
			out[e.Predicate] = e.Values[0].Value()
		case KindAlternatives:
			alts := make([]any, len(e.Values))
			for i, v := range e.Values {
				alts[i] = v.Value()
			}
			out[e.Predicate] = alts
		case KindWildcard:
			out[e.Predicate] = map[string]any{}
		case KindNested:
			out[e.Predicate] = e.nested.Map()
		}
	}
	return out
}

// Parse builds a frame from its map form, as decoded from JSON or YAML.
//
// A []any value lists alternatives, an empty map is a wildcard, a non-empty
// map is a nested frame (or a literal when it is an "@value" wrapper) and any
// other value is a literal. Nested maps are walked iteratively.
func Parse(m map[string]any) (Frame, error) {
	type pending struct {
		src map[string]any
		dst *Frame
	}

	root := &Frame{}
	stack := []pending{{src: m, dst: root}}
	for len(stack) > 0 {
		p := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		keys := make([]string, 0, len(p.src))
		for k := range p.src {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		for _, key := range keys {
			value := p.src[key]
			nested, ok := value.(map[string]any)
			if !ok || len(nested) == 0 {
				*p.dst = p.dst.Where(key, value)
				continue
			}
			if literal, ok, err := valueWrapper(key, nested); ok || err != nil {
				if err != nil {
					return Frame{}, err
				}
				*p.dst = p.dst.with(Entry{Predicate: key, Kind: KindLiteral, Values: []model.Term{literal}})
				continue
			}
			if model.IsIdentifierKey(key) {
				return Frame{}, fmt.Errorf("%w: %q cannot hold a nested frame", ErrInvalidFrame, key)
			}
			child := &Frame{}
			*p.dst = p.dst.with(Entry{Predicate: key, Kind: KindNested, nested: child})
			stack = append(stack, pending{src: nested, dst: child})
		}
		if p.dst.err != nil {
			return Frame{}, p.dst.err
		}
	}
	return *root, nil
}

// valueWrapper recognizes {"@value": v} and value objects as literals.
func valueWrapper(predicate string, m map[string]any) (model.Term, bool, error) {
	wrapped, ok := m[model.ValueKey]
	if !ok {
		return model.Term{}, false, nil
	}
	if model.IsIdentifierKey(predicate) {
		return model.Term{}, true, fmt.Errorf("%w: %q takes identifiers, not literals", ErrInvalidFrame, predicate)
	}
	var (
		t   model.Term
		err error
	)
	if len(m) == 1 {
		t, err = model.FromValue(wrapped)
	} else {
		t, err = model.Opaque(m)
	}
	if err != nil {
		return model.Term{}, true, fmt.Errorf("%w: %w", ErrInvalidFrame, err)
	}
	return t, true, nil
}

func toTerm(predicate string, v any) (model.Term, error) {
	if model.IsIdentifierKey(predicate) {
		switch x := v.(type) {
		case string:
			return model.IRI(x), nil
		case model.Term:
			if x.IsIRI() {
				return x, nil
			}
			if x.LiteralType() == model.LiteralString && x.IsLiteral() {
				return model.IRI(x.Value().(string)), nil
			}
		}
		return model.Term{}, fmt.Errorf("%w: %q takes identifiers, got %T", ErrInvalidFrame, predicate, v)
	}
	if !model.IsScalar(v) {
		return model.Term{}, fmt.Errorf("%w: %q: alternatives must be literals, got %T", ErrInvalidFrame, predicate, v)
	}
	t, err := model.FromValue(v)
	if err != nil {
		return model.Term{}, fmt.Errorf("%w: %q: %w", ErrInvalidFrame, predicate, err)
	}
	return t, nil
}
