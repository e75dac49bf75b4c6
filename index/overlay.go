package index

import (
	"slices"

	"github.com/hupe1980/jsonlddb/internal/chainset"
	"github.com/hupe1980/jsonlddb/internal/termdict"
)

// Overlay is a read-only view over several indices that share a dictionary.
//
// Every lookup is the union of the members' answers. Nothing is copied and
// no member is mutated.
type Overlay struct {
	dict    *termdict.Dictionary
	members []*Index
}

// NewOverlay composes indices into one logical store.
func NewOverlay(indices ...*Index) (*Overlay, error) {
	if len(indices) == 0 {
		return nil, ErrNoIndices
	}
	dict := indices[0].dict
	for _, idx := range indices[1:] {
		if idx.dict != dict {
			return nil, ErrDictionaryMismatch
		}
	}
	return &Overlay{dict: dict, members: slices.Clone(indices)}, nil
}

// Dictionary returns the shared dictionary.
func (o *Overlay) Dictionary() *termdict.Dictionary {
	return o.dict
}

// Members returns the composed indices.
func (o *Overlay) Members() []*Index {
	return slices.Clone(o.members)
}

func (o *Overlay) union(fn func(*Index) chainset.Source) chainset.Source {
	if len(o.members) == 1 {
		return fn(o.members[0])
	}
	sources := make([]chainset.Source, len(o.members))
	for i, idx := range o.members {
		sources[i] = fn(idx)
	}
	return chainset.Union(sources...)
}

// Lookup returns the union of the members' nodes x with (x, predicate, object).
func (o *Overlay) Lookup(predicate string, object uint32) chainset.Source {
	return o.union(func(idx *Index) chainset.Source { return idx.Lookup(predicate, object) })
}

// Wildcard returns the union of the members' nodes with a value for predicate.
func (o *Overlay) Wildcard(predicate string) chainset.Source {
	return o.union(func(idx *Index) chainset.Source { return idx.Wildcard(predicate) })
}

// SubjectIDs returns the subjects of every member.
func (o *Overlay) SubjectIDs() chainset.Source {
	return o.union(func(idx *Index) chainset.Source { return idx.SubjectIDs() })
}

// Identifiers returns the IRIs mentioned in any member.
func (o *Overlay) Identifiers() chainset.Source {
	return o.union(func(idx *Index) chainset.Source { return idx.Identifiers() })
}

// Known reports whether any member mentions id.
func (o *Overlay) Known(id uint32) bool {
	for _, idx := range o.members {
		if idx.Known(id) {
			return true
		}
	}
	return false
}

// IsSubject reports whether id is a subject in any member.
func (o *Overlay) IsSubject(id uint32) bool {
	for _, idx := range o.members {
		if idx.IsSubject(id) {
			return true
		}
	}
	return false
}

// SubjectPredicates returns the sorted, deduplicated predicates of subject
// across members.
func (o *Overlay) SubjectPredicates(subject uint32) []string {
	var preds []string
	for _, idx := range o.members {
		preds = append(preds, idx.SubjectPredicates(subject)...)
	}
	slices.Sort(preds)
	return slices.Compact(preds)
}

// Len returns the total number of triples across members. A triple stored
// in more than one member is counted once per member.
func (o *Overlay) Len() int {
	n := 0
	for _, idx := range o.members {
		n += idx.Len()
	}
	return n
}
