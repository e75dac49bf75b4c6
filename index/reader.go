package index

import (
	"github.com/hupe1980/jsonlddb/internal/chainset"
	"github.com/hupe1980/jsonlddb/internal/termdict"
)

// Reader is the read contract the frame resolver evaluates against.
//
// Both *Index and *Overlay implement it. Returned eager sources may share
// storage with the index and must not be mutated.
type Reader interface {
	// Dictionary returns the dictionary all IDs refer to.
	Dictionary() *termdict.Dictionary
	// Lookup returns the nodes x with (x, predicate, object).
	Lookup(predicate string, object uint32) chainset.Source
	// Wildcard returns the nodes with any value for predicate.
	Wildcard(predicate string) chainset.Source
	// SubjectIDs returns every subject.
	SubjectIDs() chainset.Source
	// Identifiers returns every IRI mentioned by a triple.
	Identifiers() chainset.Source
	// Known reports whether id is mentioned by a triple.
	Known(id uint32) bool
	// IsSubject reports whether id is the subject of a triple.
	IsSubject(id uint32) bool
	// SubjectPredicates returns the sorted predicates of a subject.
	SubjectPredicates(subject uint32) []string
}

var (
	_ Reader = (*Index)(nil)
	_ Reader = (*Overlay)(nil)
)
