package frame

import (
	"iter"

	"github.com/hupe1980/jsonlddb/index"
	"github.com/hupe1980/jsonlddb/internal/chainset"
	"github.com/hupe1980/jsonlddb/model"
)

// node is one frame level in the flattened tree.
type node struct {
	parent    int    // -1 for the root
	predicate string // connects the parent to this node
	depth     int
	leaves    []Entry
	// constraints collects resolved leaves and lifted child results.
	constraints []chainset.Source
}

// Resolve evaluates f against r and returns the matching terms.
//
// Constraints are resolved deepest first: the leaves of each frame level are
// intersected, the survivors are lifted one level through the connecting
// predicate and intersected into the parent. A level that is provably empty
// ends resolution with an empty result. An empty frame matches every subject.
// Results are unordered.
func Resolve(r index.Reader, f Frame) (iter.Seq[model.Term], error) {
	ids, err := ResolveIDs(r, f)
	if err != nil {
		return nil, err
	}
	dict := r.Dictionary()
	return func(yield func(model.Term) bool) {
		for id := range ids.Seq() {
			if !yield(dict.Term(id)) {
				return
			}
		}
	}, nil
}

// ResolveIDs is like Resolve but returns the dictionary IDs of the matches.
func ResolveIDs(r index.Reader, f Frame) (chainset.Source, error) {
	if f.err != nil {
		return chainset.Empty(), f.err
	}
	if f.IsEmpty() {
		return r.SubjectIDs(), nil
	}

	nodes, byDepth := flatten(f)

	for depth := len(byDepth) - 1; depth >= 0; depth-- {
		for _, i := range byDepth[depth] {
			n := &nodes[i]
			for _, e := range n.leaves {
				n.constraints = append(n.constraints, leaf(r, e))
			}
			result := chainset.Intersection(n.constraints...)
			if result.IsEmpty() {
				// Every level is required by the root.
				return chainset.Empty(), nil
			}
			if n.parent < 0 {
				return result, nil
			}
			parent := &nodes[n.parent]
			parent.constraints = append(parent.constraints, lift(r, result, n.predicate))
		}
	}
	return chainset.Empty(), nil
}

// flatten walks f breadth first into a node list and buckets node indices by depth.
func flatten(f Frame) ([]node, [][]int) {
	nodes := []node{{parent: -1}}
	frames := []Frame{f}
	byDepth := [][]int{{0}}

	for i := 0; i < len(nodes); i++ {
		for _, e := range frames[i].entries {
			if e.Kind != KindNested {
				nodes[i].leaves = append(nodes[i].leaves, e)
				continue
			}
			depth := nodes[i].depth + 1
			nodes = append(nodes, node{parent: i, predicate: e.Predicate, depth: depth})
			frames = append(frames, *e.nested)
			if depth == len(byDepth) {
				byDepth = append(byDepth, nil)
			}
			byDepth[depth] = append(byDepth[depth], len(nodes)-1)
		}
	}
	return nodes, byDepth
}

// leaf resolves a non-nested constraint to the set of nodes satisfying it.
func leaf(r index.Reader, e Entry) chainset.Source {
	dict := r.Dictionary()

	if model.IsIdentifierKey(e.Predicate) {
		// "@id" ranges over subjects; "~@id" over every mentioned identifier.
		pinned := e.Predicate == model.IDKey
		if e.Kind == KindWildcard {
			if pinned {
				return r.SubjectIDs()
			}
			return r.Identifiers()
		}
		known := make([]chainset.Source, 0, len(e.Values))
		for _, v := range e.Values {
			id, ok := dict.Lookup(v)
			if !ok || !r.Known(id) || (pinned && !r.IsSubject(id)) {
				continue
			}
			known = append(known, chainset.Singleton(id))
		}
		return chainset.Union(known...)
	}

	if e.Kind == KindWildcard {
		return r.Wildcard(e.Predicate)
	}
	matches := make([]chainset.Source, 0, len(e.Values))
	for _, v := range e.Values {
		if id, ok := dict.Lookup(v); ok {
			matches = append(matches, r.Lookup(e.Predicate, id))
		}
	}
	return chainset.Union(matches...)
}

// lift maps the matches of a nested level to the parent nodes that reach
// them through predicate.
func lift(r index.Reader, matches chainset.Source, predicate string) chainset.Source {
	if matches.IsEager() {
		b := matches.Bitmap()
		parents := make([]chainset.Source, 0, b.GetCardinality())
		it := b.Iterator()
		for it.HasNext() {
			parents = append(parents, r.Lookup(predicate, it.Next()))
		}
		return chainset.Union(parents...)
	}
	return chainset.Flatten(func(yield func(chainset.Source) bool) {
		for id := range matches.Seq() {
			if !yield(r.Lookup(predicate, id)) {
				return
			}
		}
	})
}
