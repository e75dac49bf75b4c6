package jsonlddb

import (
	"errors"
	"fmt"

	"github.com/hupe1980/jsonlddb/canonical"
	"github.com/hupe1980/jsonlddb/codec"
	"github.com/hupe1980/jsonlddb/frame"
	"github.com/hupe1980/jsonlddb/index"
	"github.com/hupe1980/jsonlddb/snapshot"
)

var (
	// ErrNotFound is returned when removing a triple that is not stored.
	ErrNotFound = errors.New("not found")
	// ErrFormat is returned when a document cannot be canonicalized.
	ErrFormat = errors.New("invalid document format")
	// ErrInvalidTriple is returned for triples the index cannot store.
	ErrInvalidTriple = errors.New("invalid triple")
	// ErrInvalidFrame is returned when a frame cannot be resolved.
	ErrInvalidFrame = errors.New("invalid frame")
	// ErrIncompatibleIndex is returned when composing indices that do not
	// share the database dictionary.
	ErrIncompatibleIndex = errors.New("incompatible index")
	// ErrCorruptSnapshot is returned when a snapshot or dump cannot be decoded.
	ErrCorruptSnapshot = errors.New("corrupt snapshot")
)

func translateError(err error) error {
	if err == nil {
		return nil
	}

	switch {
	case errors.Is(err, index.ErrNotFound):
		return fmt.Errorf("%w: %w", ErrNotFound, err)
	case errors.Is(err, canonical.ErrFormat):
		return fmt.Errorf("%w: %w", ErrFormat, err)
	case errors.Is(err, index.ErrInvalidTriple):
		return fmt.Errorf("%w: %w", ErrInvalidTriple, err)
	case errors.Is(err, frame.ErrInvalidFrame):
		return fmt.Errorf("%w: %w", ErrInvalidFrame, err)
	case errors.Is(err, index.ErrDictionaryMismatch), errors.Is(err, index.ErrNoIndices):
		return fmt.Errorf("%w: %w", ErrIncompatibleIndex, err)
	case errors.Is(err, snapshot.ErrCorrupt), errors.Is(err, snapshot.ErrUnknownCodec), errors.Is(err, codec.ErrMalformed):
		return fmt.Errorf("%w: %w", ErrCorruptSnapshot, err)
	}

	return err
}
