package model

import (
	"fmt"
	"strings"
)

const (
	// InversePrefix marks the inverse view of a predicate.
	InversePrefix = "~"
	// IDKey is the reserved key naming a node's identifier.
	IDKey = "@id"
	// ValueKey is the reserved key wrapping a value that must be treated as a literal.
	ValueKey = "@value"
)

// Triple is a (subject, predicate, object) fact.
type Triple struct {
	Subject   Term
	Predicate string
	Object    Term
}

// NewTriple returns a triple.
func NewTriple(subject Term, predicate string, object Term) Triple {
	return Triple{Subject: subject, Predicate: predicate, Object: object}
}

// String returns a string representation of the triple.
func (t Triple) String() string {
	return fmt.Sprintf("(%s, %s, %s)", t.Subject, t.Predicate, t.Object)
}

// Inverse returns the inverse view of a predicate: "p" <-> "~p".
func Inverse(predicate string) string {
	if rest, ok := strings.CutPrefix(predicate, InversePrefix); ok {
		return rest
	}
	return InversePrefix + predicate
}

// IsInverse reports whether predicate is an inverse view.
func IsInverse(predicate string) bool {
	return strings.HasPrefix(predicate, InversePrefix)
}

// IsIdentifierKey reports whether predicate is "@id" or its inverse "~@id".
func IsIdentifierKey(predicate string) bool {
	return predicate == IDKey || predicate == InversePrefix+IDKey
}
