package index

import (
	"fmt"
	"iter"
	"slices"

	"github.com/RoaringBitmap/roaring/v2"
	"github.com/hupe1980/jsonlddb/internal/chainset"
	"github.com/hupe1980/jsonlddb/internal/termdict"
	"github.com/hupe1980/jsonlddb/model"
)

type options struct {
	dict *termdict.Dictionary
}

// Option configures an Index.
type Option func(*options)

// WithDictionary makes the index intern terms into dict.
// Indices that are composed into an Overlay must share a dictionary.
func WithDictionary(dict *termdict.Dictionary) Option {
	return func(o *options) {
		o.dict = dict
	}
}

// Index is an in-memory triple store.
type Index struct {
	dict *termdict.Dictionary

	// forward[s][p] holds the objects of (s, p, ·).
	forward map[uint32]map[string]*roaring.Bitmap
	// predicates[p][o] holds the subjects of (·, p, o);
	// predicates[~p][s] holds the objects of (s, p, ·).
	predicates map[string]map[uint32]*roaring.Bitmap
	// refs counts the triples mentioning a term as subject or object.
	refs map[uint32]int

	size int
}

// New creates an empty index.
func New(optFns ...Option) *Index {
	opts := options{}
	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.dict == nil {
		opts.dict = termdict.New()
	}
	return &Index{
		dict:       opts.dict,
		forward:    make(map[uint32]map[string]*roaring.Bitmap),
		predicates: make(map[string]map[uint32]*roaring.Bitmap),
		refs:       make(map[uint32]int),
	}
}

// Dictionary returns the term dictionary of the index.
func (idx *Index) Dictionary() *termdict.Dictionary {
	return idx.dict
}

// Insert adds triples with set semantics: inserting a stored triple is a no-op.
//
// Insertion stops at the first invalid triple; triples before it stay inserted.
func (idx *Index) Insert(triples iter.Seq[model.Triple]) error {
	for t := range triples {
		if err := Validate(t); err != nil {
			return err
		}
		idx.add(t)
	}
	return nil
}

// Add inserts a single triple.
func (idx *Index) Add(t model.Triple) error {
	if err := Validate(t); err != nil {
		return err
	}
	idx.add(t)
	return nil
}

// Remove deletes triples.
//
// Removing a triple that is not stored returns a *TripleError wrapping
// ErrNotFound. Triples before it stay removed.
func (idx *Index) Remove(triples iter.Seq[model.Triple]) error {
	for t := range triples {
		if !idx.remove(t) {
			return &TripleError{Triple: t, cause: ErrNotFound}
		}
	}
	return nil
}

// Delete removes a single triple.
func (idx *Index) Delete(t model.Triple) error {
	if !idx.remove(t) {
		return &TripleError{Triple: t, cause: ErrNotFound}
	}
	return nil
}

// Validate reports whether t can be stored, returning a *TripleError wrapping
// ErrInvalidTriple if not.
func Validate(t model.Triple) error {
	var reason string
	switch {
	case !t.Subject.IsIRI():
		reason = "subject must be an IRI"
	case t.Predicate == "":
		reason = "empty predicate"
	case model.IsInverse(t.Predicate):
		reason = "inverse predicates are derived, not stored"
	case t.Predicate == model.IDKey:
		reason = "identifier key is not a predicate"
	case !t.Object.IsValid():
		reason = "invalid object"
	default:
		return nil
	}
	return &TripleError{Triple: t, cause: fmt.Errorf("%w: %s", ErrInvalidTriple, reason)}
}

func (idx *Index) add(t model.Triple) {
	s := idx.dict.Intern(t.Subject)
	o := idx.dict.Intern(t.Object)

	if !getOrCreate(idx.forward, s, t.Predicate).CheckedAdd(o) {
		return
	}
	getOrCreate(idx.predicates, t.Predicate, o).Add(s)
	getOrCreate(idx.predicates, model.Inverse(t.Predicate), s).Add(o)

	idx.refs[s]++
	idx.refs[o]++
	idx.size++
}

func (idx *Index) remove(t model.Triple) bool {
	s, ok := idx.dict.Lookup(t.Subject)
	if !ok {
		return false
	}
	o, ok := idx.dict.Lookup(t.Object)
	if !ok {
		return false
	}
	if !removeCascade(idx.forward, s, t.Predicate, o) {
		return false
	}
	removeCascade(idx.predicates, t.Predicate, o, s)
	removeCascade(idx.predicates, model.Inverse(t.Predicate), s, o)

	idx.release(s)
	idx.release(o)
	idx.size--
	return true
}

func (idx *Index) release(id uint32) {
	if idx.refs[id] <= 1 {
		delete(idx.refs, id)
		return
	}
	idx.refs[id]--
}

// getOrCreate returns m[k1][k2], creating the inner map and bitmap as needed.
func getOrCreate[K1, K2 comparable](m map[K1]map[K2]*roaring.Bitmap, k1 K1, k2 K2) *roaring.Bitmap {
	inner, ok := m[k1]
	if !ok {
		inner = make(map[K2]*roaring.Bitmap)
		m[k1] = inner
	}
	b, ok := inner[k2]
	if !ok {
		b = roaring.New()
		inner[k2] = b
	}
	return b
}

// removeCascade removes v from m[k1][k2] and deletes containers left empty.
// It reports whether v was present.
func removeCascade[K1, K2 comparable](m map[K1]map[K2]*roaring.Bitmap, k1 K1, k2 K2, v uint32) bool {
	inner, ok := m[k1]
	if !ok {
		return false
	}
	b, ok := inner[k2]
	if !ok || !b.CheckedRemove(v) {
		return false
	}
	if b.IsEmpty() {
		delete(inner, k2)
		if len(inner) == 0 {
			delete(m, k1)
		}
	}
	return true
}

// Len returns the number of stored triples.
func (idx *Index) Len() int {
	return idx.size
}

// Contains reports whether t is stored.
func (idx *Index) Contains(t model.Triple) bool {
	s, ok := idx.dict.Lookup(t.Subject)
	if !ok {
		return false
	}
	o, ok := idx.dict.Lookup(t.Object)
	if !ok {
		return false
	}
	b, ok := idx.forward[s][t.Predicate]
	return ok && b.Contains(o)
}

// Subjects yields every term that is the subject of at least one triple,
// in interning order.
func (idx *Index) Subjects() iter.Seq[model.Term] {
	return func(yield func(model.Term) bool) {
		for _, s := range idx.sortedSubjects() {
			if !yield(idx.dict.Term(s)) {
				return
			}
		}
	}
}

// Predicates returns the sorted predicates of subject.
func (idx *Index) Predicates(subject model.Term) []string {
	s, ok := idx.dict.Lookup(subject)
	if !ok {
		return nil
	}
	return idx.SubjectPredicates(s)
}

// Objects yields the objects reachable from subject through predicate.
// An inverse predicate "~p" yields the subjects x of (x, p, subject).
func (idx *Index) Objects(subject model.Term, predicate string) iter.Seq[model.Term] {
	return func(yield func(model.Term) bool) {
		s, ok := idx.dict.Lookup(subject)
		if !ok {
			return
		}
		b, ok := idx.predicates[model.Inverse(predicate)][s]
		if !ok {
			return
		}
		it := b.Iterator()
		for it.HasNext() {
			if !yield(idx.dict.Term(it.Next())) {
				return
			}
		}
	}
}

// Triples yields every stored triple grouped by subject, in interning order.
func (idx *Index) Triples() iter.Seq[model.Triple] {
	return func(yield func(model.Triple) bool) {
		for _, s := range idx.sortedSubjects() {
			subject := idx.dict.Term(s)
			for _, p := range idx.SubjectPredicates(s) {
				it := idx.forward[s][p].Iterator()
				for it.HasNext() {
					if !yield(model.NewTriple(subject, p, idx.dict.Term(it.Next()))) {
						return
					}
				}
			}
		}
	}
}

func (idx *Index) sortedSubjects() []uint32 {
	ids := make([]uint32, 0, len(idx.forward))
	for s := range idx.forward {
		ids = append(ids, s)
	}
	slices.Sort(ids)
	return ids
}

// Lookup returns the subjects x with (x, predicate, object).
// For an inverse predicate "~p" it returns the objects y with (object, p, y).
func (idx *Index) Lookup(predicate string, object uint32) chainset.Source {
	return chainset.Eager(idx.predicates[predicate][object])
}

// Wildcard returns every node that has at least one value for predicate.
func (idx *Index) Wildcard(predicate string) chainset.Source {
	byObject, ok := idx.predicates[predicate]
	if !ok {
		return chainset.Empty()
	}
	sets := make([]*roaring.Bitmap, 0, len(byObject))
	for _, b := range byObject {
		sets = append(sets, b)
	}
	if len(sets) == 1 {
		return chainset.Eager(sets[0])
	}
	return chainset.Eager(roaring.FastOr(sets...))
}

// SubjectIDs lazily yields the ID of every subject.
func (idx *Index) SubjectIDs() chainset.Source {
	return chainset.Lazy(func(yield func(uint32) bool) {
		for s := range idx.forward {
			if !yield(s) {
				return
			}
		}
	})
}

// Identifiers lazily yields the ID of every IRI mentioned by a stored triple.
func (idx *Index) Identifiers() chainset.Source {
	return chainset.Lazy(func(yield func(uint32) bool) {
		for id := range idx.refs {
			if !idx.dict.Term(id).IsIRI() {
				continue
			}
			if !yield(id) {
				return
			}
		}
	})
}

// Known reports whether id is mentioned by a stored triple.
func (idx *Index) Known(id uint32) bool {
	return idx.refs[id] > 0
}

// IsSubject reports whether id is the subject of a stored triple.
func (idx *Index) IsSubject(id uint32) bool {
	_, ok := idx.forward[id]
	return ok
}

// SubjectPredicates returns the sorted predicates of the subject with the given ID.
func (idx *Index) SubjectPredicates(subject uint32) []string {
	byPredicate, ok := idx.forward[subject]
	if !ok {
		return nil
	}
	preds := make([]string, 0, len(byPredicate))
	for p := range byPredicate {
		preds = append(preds, p)
	}
	slices.Sort(preds)
	return preds
}
