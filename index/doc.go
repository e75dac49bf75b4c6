// Package index stores triples in a dual index with direction-agnostic lookup.
//
// Every inserted triple (s, p, o) is recorded three times:
//
//	forward[s][p]    ∋ o
//	predicates[p][o] ∋ s
//	predicates[~p][s] ∋ o
//
// so "which subjects have p = o" and "which objects does s reach through p"
// are both a single map lookup. Terms are interned into uint32 IDs through a
// termdict.Dictionary and every set is a roaring bitmap. Emptied containers
// are removed transitively, so no stale subject or predicate keys remain.
//
// Several indices that share one dictionary can be composed into an Overlay,
// which answers the Reader contract as the union of its members without
// copying any storage.
//
// An Index is not safe for concurrent use. Mutating an index while a lazy
// result derived from it is being consumed is undefined.
package index
