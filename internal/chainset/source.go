package chainset

import (
	"iter"

	"github.com/RoaringBitmap/roaring/v2"
)

// Source is a set of term IDs, either materialized or lazy.
// The zero Source is the empty eager set.
type Source struct {
	eager *roaring.Bitmap
	lazy  iter.Seq[uint32]
}

// Eager wraps a bitmap. A nil bitmap is treated as empty.
func Eager(b *roaring.Bitmap) Source {
	return Source{eager: b}
}

// Lazy wraps a sequence. The sequence may yield duplicates.
func Lazy(seq iter.Seq[uint32]) Source {
	if seq == nil {
		return Source{}
	}
	return Source{lazy: seq}
}

// Empty returns the empty set.
func Empty() Source {
	return Source{}
}

// Singleton returns the eager set {id}.
func Singleton(id uint32) Source {
	return Source{eager: roaring.BitmapOf(id)}
}

// IsEager reports whether the source is materialized.
func (s Source) IsEager() bool {
	return s.lazy == nil
}

// IsEmpty reports whether the source is known to be empty.
// Lazy sources are never known to be empty.
func (s Source) IsEmpty() bool {
	return s.lazy == nil && (s.eager == nil || s.eager.IsEmpty())
}

// Bitmap returns the materialized bitmap of an eager source, or nil.
func (s Source) Bitmap() *roaring.Bitmap {
	if s.lazy != nil {
		return nil
	}
	if s.eager == nil {
		return roaring.New()
	}
	return s.eager
}

// Seq returns the members of the source as a sequence.
// Eager sources yield in ascending order.
func (s Source) Seq() iter.Seq[uint32] {
	if s.lazy != nil {
		return s.lazy
	}
	b := s.eager
	return func(yield func(uint32) bool) {
		if b == nil {
			return
		}
		it := b.Iterator()
		for it.HasNext() {
			if !yield(it.Next()) {
				return
			}
		}
	}
}

// Materialize drains the source into a bitmap.
// For eager sources the underlying bitmap is returned as is.
func (s Source) Materialize() *roaring.Bitmap {
	if s.lazy == nil {
		return s.Bitmap()
	}
	out := roaring.New()
	for id := range s.lazy {
		out.Add(id)
	}
	return out
}
