package index

import (
	"errors"
	"fmt"

	"github.com/hupe1980/jsonlddb/model"
)

var (
	// ErrNotFound is returned when removing a triple that is not stored.
	ErrNotFound = errors.New("triple not found")

	// ErrInvalidTriple is returned for triples that cannot be stored: a
	// non-IRI subject, an empty or inverse-prefixed predicate, an invalid object.
	ErrInvalidTriple = errors.New("invalid triple")

	// ErrDictionaryMismatch is returned when composing indices that do not
	// share a term dictionary.
	ErrDictionaryMismatch = errors.New("indices do not share a dictionary")

	// ErrNoIndices is returned when composing zero indices.
	ErrNoIndices = errors.New("overlay requires at least one index")
)

// TripleError reports the triple an operation failed on.
//
// The cause can be inspected via errors.Is (ErrNotFound, ErrInvalidTriple).
type TripleError struct {
	Triple model.Triple
	cause  error
}

func (e *TripleError) Error() string {
	return fmt.Sprintf("%v: %s", e.cause, e.Triple)
}

func (e *TripleError) Unwrap() error { return e.cause }
