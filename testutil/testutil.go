package testutil

import (
	"cmp"
	"fmt"
	"iter"
	"math"
	"math/rand"
	"slices"
	"sync"

	"github.com/hupe1980/jsonlddb/model"
)

// FamilialOwnership returns a small family graph: four people linked by
// spouseOf and childOf, two of them owning a car each, plus an unowned car.
//
//	0 Person  owns 4 (Car, model S), spouseOf 1
//	1 Person  spouseOf 0
//	2 Person  childOf 0, 1
//	3 Person  owns 5 (Car, model 3), childOf 0, 1
//	6 Car     model X
//
// Each call returns a fresh copy.
func FamilialOwnership() []any {
	return []any{
		map[string]any{
			"@id":      "0",
			"@type":    "Person",
			"owns":     map[string]any{"@id": "4", "@type": "Car", "model": "S"},
			"spouseOf": []any{map[string]any{"@id": "1"}},
		},
		map[string]any{
			"@id":      "1",
			"@type":    "Person",
			"spouseOf": []any{map[string]any{"@id": "0"}},
		},
		map[string]any{
			"@id":     "2",
			"@type":   "Person",
			"childOf": []any{map[string]any{"@id": "0"}, map[string]any{"@id": "1"}},
		},
		map[string]any{
			"@id":     "3",
			"@type":   "Person",
			"owns":    map[string]any{"@id": "5", "@type": "Car", "model": "3"},
			"childOf": []any{map[string]any{"@id": "0"}, map[string]any{"@id": "1"}},
		},
		map[string]any{
			"@id":   "6",
			"@type": "Car",
			"model": "X",
		},
	}
}

// IRIs returns IRI terms for ids.
func IRIs(ids ...string) []model.Term {
	out := make([]model.Term, len(ids))
	for i, id := range ids {
		out[i] = model.IRI(id)
	}
	return out
}

// Strings returns string literal terms for values.
func Strings(values ...string) []model.Term {
	out := make([]model.Term, len(values))
	for i, v := range values {
		out[i] = model.String(v)
	}
	return out
}

// Sorted collects seq into a slice ordered by term key.
func Sorted(seq iter.Seq[model.Term]) []model.Term {
	out := slices.Collect(seq)
	slices.SortFunc(out, func(a, b model.Term) int { return cmp.Compare(a.Key(), b.Key()) })
	return out
}

// Set collects seq into a set.
func Set(seq iter.Seq[model.Term]) map[model.Term]struct{} {
	out := make(map[model.Term]struct{})
	for t := range seq {
		out[t] = struct{}{}
	}
	return out
}

var (
	types      = []string{"Person", "Car", "House", "Pet"}
	colors     = []string{"red", "green", "blue", "black"}
	relations  = []string{"owns", "knows", "likes"}
	literalKey = []string{"@type", "color", "size"}
)

// RNG struct encapsulates the random number generator and seed.
// It is thread-safe.
type RNG struct {
	rand *rand.Rand
	seed int64
	mu   sync.Mutex
}

// NewRNG creates a new RNG instance with the specified seed.
func NewRNG(seed int64) *RNG {
	return &RNG{
		rand: rand.New(rand.NewSource(seed)),
		seed: seed,
	}
}

// Reset resets the RNG to its initial seed.
func (r *RNG) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rand.Seed(r.seed)
}

// Seed returns the initial seed.
func (r *RNG) Seed() int64 {
	return r.seed
}

// Intn returns a non-negative pseudo-random number in [0,n).
func (r *RNG) Intn(n int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Intn(n)
}

// Zipf returns a Zipfian-distributed value in [0, n).
// P(k) ∝ 1/k^s; s=1.0 gives standard Zipf, larger s skews harder.
func (r *RNG) Zipf(n int, s float64) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.zipfLocked(n, s)
}

// zipfLocked is the internal implementation (caller must hold lock).
func (r *RNG) zipfLocked(n int, s float64) int {
	if n <= 1 {
		return 0
	}

	var hns float64
	for i := 1; i <= n; i++ {
		hns += 1.0 / math.Pow(float64(i), s)
	}

	u := r.rand.Float64() * hns
	var cumulative float64
	for k := 1; k <= n; k++ {
		cumulative += 1.0 / math.Pow(float64(k), s)
		if u <= cumulative {
			return k - 1
		}
	}
	return n - 1
}

func pick[T any](r *RNG, values []T) T {
	return values[r.zipfLocked(len(values), 1.0)]
}

// Documents generates n documents with identifiers "n0".."n{n-1}".
//
// Each document has a type, a few literal attributes and relationships to
// other generated documents, either by reference or as anonymous nested
// nodes identified by their literals.
func (r *RNG) Documents(n int) []any {
	r.mu.Lock()
	defer r.mu.Unlock()

	docs := make([]any, n)
	for i := range n {
		doc := map[string]any{
			"@id":   fmt.Sprintf("n%d", i),
			"@type": pick(r, types),
		}
		if r.rand.Intn(2) == 0 {
			doc["color"] = pick(r, colors)
		}
		if r.rand.Intn(3) == 0 {
			doc["size"] = r.rand.Intn(4)
		}
		for _, rel := range relations {
			var targets []any
			for range r.rand.Intn(3) {
				if r.rand.Intn(4) == 0 {
					targets = append(targets, map[string]any{
						"@type": pick(r, types),
						"color": pick(r, colors),
					})
					continue
				}
				targets = append(targets, map[string]any{"@id": fmt.Sprintf("n%d", r.rand.Intn(n))})
			}
			if len(targets) > 0 {
				doc[rel] = targets
			}
		}
		docs[i] = doc
	}
	return docs
}

// Frame generates a random frame in map form nested up to depth levels.
func (r *RNG) Frame(depth int) map[string]any {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.frameLocked(depth)
}

func (r *RNG) frameLocked(depth int) map[string]any {
	f := map[string]any{}
	for range 1 + r.rand.Intn(2) {
		r.addConstraintLocked(f, depth)
	}
	return f
}

// addConstraintLocked adds one constraint on a predicate f does not use yet.
func (r *RNG) addConstraintLocked(f map[string]any, depth int) {
	for range 16 {
		switch r.rand.Intn(4) {
		case 0:
			key := pick(r, literalKey)
			if _, ok := f[key]; ok {
				continue
			}
			switch key {
			case "@type":
				f[key] = pick(r, types)
			case "color":
				f[key] = []any{pick(r, colors), pick(r, colors)}
			default:
				f[key] = map[string]any{}
			}
			return
		case 1, 2:
			if depth <= 0 {
				continue
			}
			key := pick(r, relations)
			if r.rand.Intn(2) == 0 {
				key = model.Inverse(key)
			}
			if _, ok := f[key]; ok {
				continue
			}
			f[key] = r.frameLocked(depth - 1)
			return
		default:
			key := model.Inverse(pick(r, relations))
			if _, ok := f[key]; ok {
				continue
			}
			f[key] = map[string]any{}
			return
		}
	}
}

// Refine returns a deep copy of f with one more constraint, either at the
// top level or inside a randomly chosen nested frame. The result selects a
// subset of what f selects.
func (r *RNG) Refine(f map[string]any) map[string]any {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := deepCopy(f)
	target := out
	for {
		var nested []map[string]any
		keys := make([]string, 0, len(target))
		for k := range target {
			keys = append(keys, k)
		}
		slices.Sort(keys)
		for _, k := range keys {
			if m, ok := target[k].(map[string]any); ok {
				nested = append(nested, m)
			}
		}
		if len(nested) == 0 || r.rand.Intn(2) == 0 {
			break
		}
		target = nested[r.rand.Intn(len(nested))]
	}
	before := len(target)
	r.addConstraintLocked(target, 1)
	if len(target) == before {
		for _, key := range []string{"@type", "size", "~owns"} {
			if _, ok := target[key]; !ok {
				target[key] = map[string]any{}
				break
			}
		}
	}
	return out
}

func deepCopy(m map[string]any) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		switch x := v.(type) {
		case map[string]any:
			out[k] = deepCopy(x)
		case []any:
			out[k] = slices.Clone(x)
		default:
			out[k] = v
		}
	}
	return out
}
