package canonical

import (
	"iter"
	"log/slog"
	"slices"

	"github.com/hupe1980/jsonlddb/model"
)

type options struct {
	logger *slog.Logger
	idKey  string
}

// Option configures the conversion.
type Option func(*options)

// WithLogger sets the logger used for recoverable format warnings.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithIDKey sets the key naming a node's explicit identifier (default "@id").
func WithIDKey(key string) Option {
	return func(o *options) {
		if key != "" {
			o.idKey = key
		}
	}
}

// item is one pending value on the work list.
type item struct {
	parent    model.Term // invalid for top-level documents
	predicate string
	inverse   bool
	value     any
}

// Triples converts a document, or a list of documents, into triples.
//
// The sequence is lazy and single pass. On a malformed document it yields a
// zero triple together with a *FormatError and stops; triples yielded before
// the error have already been produced.
func Triples(docs any, optFns ...Option) iter.Seq2[model.Triple, error] {
	opts := options{
		logger: slog.New(slog.DiscardHandler),
		idKey:  model.IDKey,
	}
	for _, fn := range optFns {
		fn(&opts)
	}

	return func(yield func(model.Triple, error) bool) {
		c := &converter{opts: opts}
		c.run(docs, yield)
	}
}

type converter struct {
	opts   options
	warned bool
	stack  []item
}

func (c *converter) warnFlatten(predicate string) {
	if c.warned {
		return
	}
	c.warned = true
	c.opts.logger.Warn("nested list in document, recovering by flattening one level",
		"predicate", predicate,
	)
}

func (c *converter) run(docs any, yield func(model.Triple, error) bool) {
	top, isList := asList(docs)
	if !isList {
		top = []any{docs}
	}
	for _, v := range slices.Backward(top) {
		c.stack = append(c.stack, item{value: v})
	}

	for len(c.stack) > 0 {
		it := c.stack[len(c.stack)-1]
		c.stack = c.stack[:len(c.stack)-1]

		if nested, ok := asList(it.value); ok {
			// A list can only reach the work list nested inside another list.
			c.warnFlatten(it.predicate)
			for _, v := range slices.Backward(nested) {
				if _, deeper := asList(v); deeper {
					yield(model.Triple{}, &FormatError{Predicate: it.predicate, Value: v, Reason: "list nested more than two levels"})
					return
				}
				c.stack = append(c.stack, item{parent: it.parent, predicate: it.predicate, inverse: it.inverse, value: v})
			}
			continue
		}

		doc, ok := it.value.(map[string]any)
		if !ok {
			yield(model.Triple{}, &FormatError{Predicate: it.predicate, Value: it.value, Reason: "expected a document"})
			return
		}

		if !c.node(it, doc, yield) {
			return
		}
	}
}

// relationship is a nested value waiting to be pushed with its parent.
type relationship struct {
	predicate string
	inverse   bool
	value     any
}

// node converts one document, yielding its triples and pushing its
// relationships. It reports whether iteration should continue.
func (c *converter) node(it item, doc map[string]any, yield func(model.Triple, error) bool) bool {
	var (
		id       string
		hasID    bool
		literals []Pair
		rels     []relationship
		refs     []relationship
	)

	keys := make([]string, 0, len(doc))
	for k := range doc {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	for _, key := range keys {
		values, err := c.values(key, doc[key])
		if err != nil {
			yield(model.Triple{}, err)
			return false
		}

		if key == c.opts.idKey {
			for _, v := range values {
				s, ok := v.(string)
				if !ok {
					yield(model.Triple{}, &FormatError{Predicate: key, Value: v, Reason: "identifier must be a string"})
					return false
				}
				if hasID {
					yield(model.Triple{}, &FormatError{Predicate: key, Value: doc[key], Reason: "more than one identifier"})
					return false
				}
				id, hasID = s, true
			}
			continue
		}

		if key == "" || key == model.InversePrefix {
			yield(model.Triple{}, &FormatError{Predicate: key, Value: doc[key], Reason: "empty predicate"})
			return false
		}
		predicate := key
		inverse := model.IsInverse(key)
		if inverse {
			predicate = model.Inverse(key)
		}

		for _, v := range values {
			lit, ref, isLiteral, err := classify(key, v)
			if err != nil {
				yield(model.Triple{}, err)
				return false
			}
			switch {
			case isLiteral && inverse:
				yield(model.Triple{}, &FormatError{Predicate: key, Value: v, Reason: "inverse predicate with a literal value"})
				return false
			case isLiteral:
				literals = append(literals, Pair{Predicate: predicate, Value: lit})
			case ref.IsValid():
				refs = append(refs, relationship{predicate: predicate, inverse: inverse, value: ref})
			default:
				rels = append(rels, relationship{predicate: predicate, inverse: inverse, value: v})
			}
		}
	}

	var self model.Term
	if hasID {
		self = model.IRI(id)
	} else {
		self = Identity(literals)
	}

	if it.parent.IsValid() {
		if !yield(link(it.parent, it.predicate, it.inverse, self), nil) {
			return false
		}
	}
	for _, p := range literals {
		if !yield(model.NewTriple(self, p.Predicate, p.Value), nil) {
			return false
		}
	}
	for _, r := range refs {
		if !yield(link(self, r.predicate, r.inverse, r.value.(model.Term)), nil) {
			return false
		}
	}
	for _, r := range slices.Backward(rels) {
		c.stack = append(c.stack, item{parent: self, predicate: r.predicate, inverse: r.inverse, value: r.value})
	}
	return true
}

// link returns (from, p, to), or (to, p, from) when the predicate was inverse.
func link(from model.Term, predicate string, inverse bool, to model.Term) model.Triple {
	if inverse {
		return model.NewTriple(to, predicate, from)
	}
	return model.NewTriple(from, predicate, to)
}

// values normalizes a document entry into its list of values, flattening one
// extra level of list nesting.
func (c *converter) values(key string, v any) ([]any, error) {
	list, ok := asList(v)
	if !ok {
		return []any{v}, nil
	}
	out := make([]any, 0, len(list))
	for _, elem := range list {
		inner, nested := asList(elem)
		if !nested {
			out = append(out, elem)
			continue
		}
		c.warnFlatten(key)
		for _, x := range inner {
			if _, deeper := asList(x); deeper {
				return nil, &FormatError{Predicate: key, Value: x, Reason: "list nested more than two levels"}
			}
			out = append(out, x)
		}
	}
	return out, nil
}

// classify decides how a single value is stored. It returns a literal, an
// IRI reference, or neither for a nested document.
func classify(key string, v any) (lit model.Term, ref model.Term, isLiteral bool, err error) {
	switch x := v.(type) {
	case model.Term:
		if !x.IsValid() {
			return model.Term{}, model.Term{}, false, &FormatError{Predicate: key, Value: v, Reason: "invalid term"}
		}
		if x.IsIRI() {
			return model.Term{}, x, false, nil
		}
		return x, model.Term{}, true, nil
	case map[string]any:
		wrapped, ok := x[model.ValueKey]
		if !ok {
			return model.Term{}, model.Term{}, false, nil
		}
		var t model.Term
		if len(x) == 1 {
			t, err = model.FromValue(wrapped)
		} else {
			t, err = model.Opaque(x)
		}
		if err != nil {
			return model.Term{}, model.Term{}, false, &FormatError{Predicate: key, Value: v, Reason: err.Error()}
		}
		return t, model.Term{}, true, nil
	default:
		if !model.IsScalar(v) {
			return model.Term{}, model.Term{}, false, &FormatError{Predicate: key, Value: v, Reason: "unsupported value type"}
		}
		t, err := model.FromValue(v)
		if err != nil {
			return model.Term{}, model.Term{}, false, &FormatError{Predicate: key, Value: v, Reason: err.Error()}
		}
		return t, model.Term{}, true, nil
	}
}

// asList reports whether v is one of the list shapes a decoded document uses.
func asList(v any) ([]any, bool) {
	switch x := v.(type) {
	case []any:
		return x, true
	case []map[string]any:
		out := make([]any, len(x))
		for i, m := range x {
			out[i] = m
		}
		return out, true
	case []string:
		out := make([]any, len(x))
		for i, s := range x {
			out[i] = s
		}
		return out, true
	default:
		return nil, false
	}
}
