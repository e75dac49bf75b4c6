// Package termdict interns terms into dense uint32 identifiers.
//
// Set algebra in this module operates on roaring bitmaps of term IDs; the
// dictionary is the bridge between model.Term values and those IDs. IDs are
// never reused, so a bitmap computed against a dictionary stays valid for
// the lifetime of that dictionary.
package termdict

import (
	"github.com/hupe1980/jsonlddb/model"
)

// Dictionary maps terms to IDs and back.
// It is not safe for concurrent use.
type Dictionary struct {
	ids   map[model.Term]uint32
	terms []model.Term
}

// New creates an empty dictionary.
func New() *Dictionary {
	return &Dictionary{
		ids: make(map[model.Term]uint32),
	}
}

// Intern returns the ID of t, assigning the next free ID if t is new.
func (d *Dictionary) Intern(t model.Term) uint32 {
	if id, ok := d.ids[t]; ok {
		return id
	}
	id := uint32(len(d.terms))
	d.ids[t] = id
	d.terms = append(d.terms, t)
	return id
}

// Lookup returns the ID of t without assigning one.
func (d *Dictionary) Lookup(t model.Term) (uint32, bool) {
	id, ok := d.ids[t]
	return id, ok
}

// Term returns the term with the given ID.
// It panics if id was not produced by this dictionary.
func (d *Dictionary) Term(id uint32) model.Term {
	return d.terms[id]
}

// Len returns the number of interned terms.
func (d *Dictionary) Len() int {
	return len(d.terms)
}
