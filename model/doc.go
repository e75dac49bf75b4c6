// Package model defines the core value types used throughout jsonlddb.
//
// # Terms
//
// A Term is either an identifier (IRI) or a literal value:
//
//	model.IRI("urn:person:1")
//	model.String("Car")
//	model.Int(2024)
//	model.Float(3.14)
//	model.Bool(true)
//	model.Null()
//
// Terms are comparable values. Two terms with equal content are
// interchangeable everywhere, so a Term can be used directly as a map key.
//
// Structured values (maps and lists) can be stored as opaque literals:
//
//	t, err := model.Opaque(map[string]any{"unit": "EUR", "amount": 12})
//
// # Triples
//
// A Triple is a (subject, predicate, object) fact. Every predicate has an
// inverse view formed by the "~" prefix:
//
//	model.Inverse("owns")  // "~owns"
//	model.Inverse("~owns") // "owns"
//
// Inverse predicates are derived by the index; callers never author them.
package model
