package canonical

import (
	"errors"
	"fmt"
)

// ErrFormat is the sentinel wrapped by every FormatError.
var ErrFormat = errors.New("format error")

// FormatError reports a document that cannot be converted to triples.
type FormatError struct {
	// Predicate is the key under which the offending value was found.
	// It is empty for top-level values.
	Predicate string
	// Value is the offending value.
	Value  any
	Reason string
}

func (e *FormatError) Error() string {
	if e.Predicate == "" {
		return fmt.Sprintf("%v: %s (%T)", ErrFormat, e.Reason, e.Value)
	}
	return fmt.Sprintf("%v: %s (predicate %q, %T)", ErrFormat, e.Reason, e.Predicate, e.Value)
}

func (e *FormatError) Unwrap() error { return ErrFormat }
