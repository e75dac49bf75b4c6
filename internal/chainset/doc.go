// Package chainset computes unions and intersections over a mixture of
// materialized sets and lazy sequences of term IDs.
//
// A Source is either eager (a roaring bitmap whose membership can be tested
// directly) or lazy (an iter.Seq that yields IDs on demand). Operations
// process eager inputs with bitmap algebra first and only then poll lazy
// inputs, round-robin, so a result can start yielding before any single
// lazy input is exhausted.
//
// Lazy results are single pass in spirit: each range over a lazy Source
// re-runs its inputs. Callers that need to iterate more than once should
// Materialize.
//
// Input bitmaps are never mutated. When an operation has exactly one eager
// input the result may share that bitmap, so results must be treated as
// read-only.
package chainset
