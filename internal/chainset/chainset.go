package chainset

import (
	"iter"
	"slices"

	"github.com/RoaringBitmap/roaring/v2"
)

// Union returns the union of sources.
//
// Eager inputs are merged up front. If every input is eager the result is
// eager; otherwise the merged bitmap is yielded first, followed by the lazy
// inputs polled round-robin. Each ID is yielded at most once.
func Union(sources ...Source) Source {
	eagers, lazies := partition(sources)

	var base *roaring.Bitmap
	switch len(eagers) {
	case 0:
		base = roaring.New()
	case 1:
		base = eagers[0]
	default:
		base = roaring.FastOr(eagers...)
	}

	if len(lazies) == 0 {
		return Eager(base)
	}

	return Lazy(func(yield func(uint32) bool) {
		it := base.Iterator()
		for it.HasNext() {
			if !yield(it.Next()) {
				return
			}
		}
		seen := base.Clone()
		roundRobin(lazies, func(_ int, id uint32, ok bool) bool {
			if !ok || !seen.CheckedAdd(id) {
				return true
			}
			return yield(id)
		})
	})
}

// Intersection returns the intersection of sources.
//
// Eager inputs are intersected smallest first; an empty eager input makes
// the whole result empty without touching any lazy input. If every input is
// eager the result is eager. Otherwise an ID is yielded once every lazy input
// has produced it and it belongs to all eager inputs. The intersection of
// zero sources is empty.
func Intersection(sources ...Source) Source {
	if len(sources) == 0 {
		return Empty()
	}

	eagers, lazies := partition(sources)
	for _, b := range eagers {
		if b.IsEmpty() {
			return Empty()
		}
	}

	var required *roaring.Bitmap
	if len(eagers) > 0 {
		required = and(eagers)
		if required.IsEmpty() {
			return Empty()
		}
	}

	if len(lazies) == 0 {
		return Eager(required)
	}

	return Lazy(func(yield func(uint32) bool) {
		need := len(lazies)
		confirmed := make([]*roaring.Bitmap, need)
		for i := range confirmed {
			confirmed[i] = roaring.New()
		}
		exhausted := make([]bool, need)
		counts := make(map[uint32]int)

		roundRobin(lazies, func(i int, id uint32, ok bool) bool {
			if !ok {
				exhausted[i] = true
				// Nothing from this input survived, so nothing can.
				return !confirmed[i].IsEmpty()
			}
			if required != nil && !required.Contains(id) {
				return true
			}
			if !confirmed[i].CheckedAdd(id) {
				return true
			}
			for j, done := range exhausted {
				if done && !confirmed[j].Contains(id) {
					return true
				}
			}
			counts[id]++
			if counts[id] < need {
				return true
			}
			delete(counts, id)
			return yield(id)
		})
	})
}

// Flatten returns the lazy union of a sequence of sources.
// Each ID is yielded at most once.
func Flatten(sources iter.Seq[Source]) Source {
	return Lazy(func(yield func(uint32) bool) {
		seen := roaring.New()
		for src := range sources {
			for id := range src.Seq() {
				if !seen.CheckedAdd(id) {
					continue
				}
				if !yield(id) {
					return
				}
			}
		}
	})
}

func partition(sources []Source) ([]*roaring.Bitmap, []iter.Seq[uint32]) {
	var (
		eagers []*roaring.Bitmap
		lazies []iter.Seq[uint32]
	)
	for _, s := range sources {
		if s.IsEager() {
			eagers = append(eagers, s.Bitmap())
			continue
		}
		lazies = append(lazies, s.lazy)
	}
	return eagers, lazies
}

// and intersects bitmaps smallest first, stopping as soon as the result is empty.
func and(bitmaps []*roaring.Bitmap) *roaring.Bitmap {
	if len(bitmaps) == 1 {
		return bitmaps[0]
	}
	sorted := slices.Clone(bitmaps)
	slices.SortFunc(sorted, func(a, b *roaring.Bitmap) int {
		ca, cb := a.GetCardinality(), b.GetCardinality()
		switch {
		case ca < cb:
			return -1
		case ca > cb:
			return 1
		default:
			return 0
		}
	})
	result := roaring.And(sorted[0], sorted[1])
	for _, b := range sorted[2:] {
		if result.IsEmpty() {
			break
		}
		result.And(b)
	}
	return result
}

// roundRobin pulls one value from each sequence in turn until all are
// exhausted. visit is called with ok=false exactly once when sequence i runs
// dry. Returning false from visit stops the whole poll.
func roundRobin(seqs []iter.Seq[uint32], visit func(i int, id uint32, ok bool) bool) {
	type cursor struct {
		i    int
		next func() (uint32, bool)
		stop func()
	}

	active := make([]cursor, 0, len(seqs))
	defer func() {
		for _, c := range active {
			c.stop()
		}
	}()
	for i, seq := range seqs {
		next, stop := iter.Pull(seq)
		active = append(active, cursor{i: i, next: next, stop: stop})
	}

	for len(active) > 0 {
		for k := 0; k < len(active); {
			c := active[k]
			id, ok := c.next()
			if !visit(c.i, id, ok) {
				return
			}
			if !ok {
				c.stop()
				active = slices.Delete(active, k, k+1)
				continue
			}
			k++
		}
	}
}
