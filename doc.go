// Package jsonlddb provides an embedded, in-memory graph database for
// JSON-LD-shaped documents.
//
// Documents are canonicalized into deduplicated triples: nodes with an
// explicit "@id" keep it, every other node is identified by a UUIDv5 over
// its literal attributes, so structurally identical nodes collapse into one.
// Every relationship is stored in both directions, which lets frame queries
// walk edges either way.
//
// # Quick Start
//
//	db := jsonlddb.New()
//	err := db.Insert(map[string]any{
//	    "@id":   "urn:alice",
//	    "@type": "Person",
//	    "owns":  map[string]any{"@type": "Car", "model": "S"},
//	})
//
// # Frame Queries
//
// A frame is a nested pattern. Repeated keys are ANDed, lists are
// alternatives, an empty object is a wildcard and a nested object
// constrains the neighbor reached through that predicate. A "~" prefix
// follows the edge backwards.
//
//	ids, _ := db.Query(map[string]any{
//	    "@type": "Person",
//	    "owns":  map[string]any{"@type": "Car"},
//	}).IDs()
//
// The same query with the builder:
//
//	f := frame.New().Where("@type", "Person").
//	    Nested("owns", frame.New().Where("@type", "Car"))
//	ids, _ := db.Query(f).IDs()
//
// # Overlays
//
// Scratch indices share the database dictionary and can be layered over it
// for read-time composition without touching the base data:
//
//	scratch := db.NewScratch()
//	_ = scratch.Insert(triples)
//	view, _ := db.With(scratch)
//	n, _ := view.Query(f).Count()
//
// # Persistence
//
// Dump and Load move the whole store through a codec; Publish and Open move
// it through a blobstore.BlobStore as checksummed snapshots.
//
// DB is not safe for concurrent use.
package jsonlddb
