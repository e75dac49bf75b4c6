// Package canonical converts nested JSON-LD-shaped documents into triples.
//
// Each document is a mapping from predicate to a value or a list of values.
// Scalars become literal triples; nested mappings become nodes of their own,
// linked to their parent through the predicate that reached them. A node
// without an explicit identifier gets a deterministic identity derived from
// its direct literal attributes only, so structurally identical nodes unify
// regardless of attribute order or of the relationships they carry.
//
// Special shapes:
//
//	{"@id": "x"}                    explicit identifier, used verbatim
//	{"@value": v}                   v is a literal, even if it is a mapping or list
//	{"@value": v, "@language": "en"} a value object, stored whole as one literal
//	{"~p": {...}}                   the nested node points at this node through p
//
// Traversal uses an explicit work list, so document depth is bounded only by
// memory.
package canonical
