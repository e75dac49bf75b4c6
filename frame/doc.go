// Package frame builds and resolves frame queries.
//
// A frame is a nested pattern: a set of predicate constraints that every
// result must satisfy. Each constraint is one of
//
//   - a literal: the node has exactly this value for the predicate
//   - alternatives: the node has at least one of the values
//   - a wildcard: the node has some value for the predicate
//   - a nested frame: the node reaches, through the predicate, some node
//     that itself satisfies the nested frame
//
// Predicates may be inverse-prefixed ("~owns" reads "is owned by"). The
// reserved key "@id" pins a node to a known identifier and "~@id" restricts
// results to known identifiers, excluding literals.
//
// Frames are immutable values; builder methods return modified copies:
//
//	cars := frame.New().
//		Where("@type", "Car").
//		Nested("~owns", frame.New().Where("@type", "Person"))
//
// The same frame can be parsed from a decoded JSON or YAML value:
//
//	cars, err := frame.Parse(map[string]any{
//		"@type": "Car",
//		"~owns": map[string]any{"@type": "Person"},
//	})
package frame
