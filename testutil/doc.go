// Package testutil provides fixtures and generators for jsonlddb tests.
//
// This package is intended for use in tests and benchmarks only.
//
// # Fixtures
//
//	docs := testutil.FamilialOwnership()
//
// # Random Graphs
//
//	rng := testutil.NewRNG(seed)
//	docs := rng.Documents(200)
//	f := rng.Frame(2)         // random frame in map form
//	g := rng.Refine(f)        // f plus one more constraint
//
// Generated frames only use predicates and values that occur in generated
// documents, so they select non-trivial subsets.
package testutil
