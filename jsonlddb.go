package jsonlddb

import (
	"context"
	"errors"
	"io"
	"iter"
	"slices"
	"time"

	"github.com/hupe1980/jsonlddb/blobstore"
	"github.com/hupe1980/jsonlddb/canonical"
	"github.com/hupe1980/jsonlddb/index"
	"github.com/hupe1980/jsonlddb/model"
	"github.com/hupe1980/jsonlddb/snapshot"
)

// DB is an in-memory JSON-LD graph database.
//
// DB is not safe for concurrent use. Lazy query results must be consumed
// before the next mutation.
type DB struct {
	idx  *index.Index
	opts options
}

// New creates an empty database.
func New(optFns ...Option) *DB {
	opts := defaultOptions()
	for _, fn := range optFns {
		fn(&opts)
	}
	return &DB{
		idx:  index.New(),
		opts: opts,
	}
}

// Index returns the underlying index.
func (db *DB) Index() *index.Index {
	return db.idx
}

// Canonicalize converts documents into validated canonical triples without
// storing them. docs is a document (map[string]any) or a list of documents.
// A triple produced more than once is returned once.
func (db *DB) Canonicalize(docs any) ([]model.Triple, error) {
	var triples []model.Triple
	seen := make(map[model.Triple]struct{})
	for t, err := range canonical.Triples(docs,
		canonical.WithLogger(db.opts.logger.Logger),
		canonical.WithIDKey(db.opts.idKey),
	) {
		if err != nil {
			return nil, translateError(err)
		}
		if err := index.Validate(t); err != nil {
			return nil, translateError(err)
		}
		if _, dup := seen[t]; dup {
			continue
		}
		seen[t] = struct{}{}
		triples = append(triples, t)
	}
	return triples, nil
}

// Insert canonicalizes documents and stores their triples.
//
// Documents are fully canonicalized before the index is touched, so a
// malformed document leaves the database unchanged. Inserting the same
// document twice is a no-op.
func (db *DB) Insert(docs any) error {
	start := time.Now()
	triples, err := db.Canonicalize(docs)
	if err == nil {
		err = translateError(db.idx.Insert(slices.Values(triples)))
	}
	db.opts.metricsCollector.RecordInsert(len(triples), time.Since(start), err)
	db.opts.logger.LogInsert(len(triples), err)
	return err
}

// InsertTriples stores triples. Every triple is validated first, so an
// invalid triple leaves the database unchanged.
func (db *DB) InsertTriples(triples iter.Seq[model.Triple]) error {
	start := time.Now()
	batch, err := validated(triples)
	if err == nil {
		err = translateError(db.idx.Insert(slices.Values(batch)))
	}
	db.opts.metricsCollector.RecordInsert(len(batch), time.Since(start), err)
	db.opts.logger.LogInsert(len(batch), err)
	return err
}

func validated(triples iter.Seq[model.Triple]) ([]model.Triple, error) {
	var batch []model.Triple
	for t := range triples {
		if err := index.Validate(t); err != nil {
			return nil, translateError(err)
		}
		batch = append(batch, t)
	}
	return batch, nil
}

// Remove canonicalizes documents and removes their triples.
//
// Removal is per triple: a triple that is not stored stops the call with an
// error wrapping ErrNotFound, and triples removed before it stay removed.
func (db *DB) Remove(docs any) error {
	start := time.Now()
	triples, err := db.Canonicalize(docs)
	if err == nil {
		err = translateError(db.idx.Remove(slices.Values(triples)))
	}
	db.opts.metricsCollector.RecordRemove(len(triples), time.Since(start), err)
	db.opts.logger.LogRemove(len(triples), err)
	return err
}

// RemoveTriples removes triples with the same semantics as Remove.
// Repeated triples in the input are removed once.
func (db *DB) RemoveTriples(triples iter.Seq[model.Triple]) error {
	start := time.Now()
	var batch []model.Triple
	seen := make(map[model.Triple]struct{})
	for t := range triples {
		if _, dup := seen[t]; dup {
			continue
		}
		seen[t] = struct{}{}
		batch = append(batch, t)
	}
	err := translateError(db.idx.Remove(slices.Values(batch)))
	db.opts.metricsCollector.RecordRemove(len(batch), time.Since(start), err)
	db.opts.logger.LogRemove(len(batch), err)
	return err
}

// Len returns the number of stored triples.
func (db *DB) Len() int {
	return db.idx.Len()
}

// Contains reports whether t is stored.
func (db *DB) Contains(t model.Triple) bool {
	return db.idx.Contains(t)
}

// Subjects yields every subject.
func (db *DB) Subjects() iter.Seq[model.Term] {
	return db.idx.Subjects()
}

// Triples yields every stored triple grouped by subject.
func (db *DB) Triples() iter.Seq[model.Triple] {
	return db.idx.Triples()
}

// Stats summarizes the database contents.
type Stats struct {
	Triples  int
	Subjects int
	Terms    int
}

// Stats returns the current statistics.
func (db *DB) Stats() Stats {
	subjects := 0
	for range db.idx.Subjects() {
		subjects++
	}
	return Stats{
		Triples:  db.idx.Len(),
		Subjects: subjects,
		Terms:    db.idx.Dictionary().Len(),
	}
}

// NewScratch returns an empty index sharing the database dictionary,
// suitable for layering with With.
func (db *DB) NewScratch() *index.Index {
	return index.New(index.WithDictionary(db.idx.Dictionary()))
}

// View returns a read view over the database.
func (db *DB) View() *View {
	return &View{reader: db.idx, members: []*index.Index{db.idx}, opts: &db.opts}
}

// With returns a read view over the database and the given scratch indices.
// Nothing is copied or mutated; results reflect later changes to any member.
func (db *DB) With(scratch ...*index.Index) (*View, error) {
	members := append([]*index.Index{db.idx}, scratch...)
	o, err := index.NewOverlay(members...)
	if err != nil {
		return nil, translateError(err)
	}
	return &View{reader: o, members: members, opts: &db.opts}, nil
}

// Query starts a frame query over the database.
// f is a frame.Frame, a map[string]any parsed with frame.Parse, or nil.
func (db *DB) Query(f any) *Query {
	return db.View().Query(f)
}

// Dump writes every triple with the configured codec.
func (db *DB) Dump(w io.Writer) error {
	return db.opts.codec.Encode(w, db.idx.Triples())
}

// Load decodes triples written by Dump with the configured codec and
// inserts them. Decoding completes before any triple is stored.
func (db *DB) Load(r io.Reader) error {
	var batch []model.Triple
	for t, err := range db.opts.codec.Decode(r) {
		if err != nil {
			return translateError(err)
		}
		batch = append(batch, t)
	}
	return db.InsertTriples(slices.Values(batch))
}

// Load creates a database from a dump.
func Load(r io.Reader, optFns ...Option) (*DB, error) {
	db := New(optFns...)
	if err := db.Load(r); err != nil {
		return nil, err
	}
	return db, nil
}

// Publish saves the database as a snapshot named name and points CURRENT
// at it. The configured codec is used unless overridden by snapOpts.
func (db *DB) Publish(ctx context.Context, store blobstore.BlobStore, name string, snapOpts ...snapshot.Option) error {
	opts := append([]snapshot.Option{snapshot.WithCodec(db.opts.codec)}, snapOpts...)
	err := snapshot.Publish(ctx, store, name, db.idx.Triples(), opts...)
	db.opts.logger.LogSnapshot("publish", name, db.idx.Len(), err)
	return err
}

// Restore inserts the named snapshots, or the one CURRENT points at when
// no names are given. Snapshots are fetched concurrently and inserted in
// order.
func (db *DB) Restore(ctx context.Context, store blobstore.BlobStore, names ...string) error {
	if len(names) == 0 {
		current, err := snapshot.Current(ctx, store)
		if err != nil {
			return err
		}
		names = []string{current}
	}

	snaps, err := snapshot.LoadAll(ctx, store, names...)
	if err != nil {
		return translateError(err)
	}
	for _, s := range snaps {
		err := db.restore(s)
		db.opts.logger.LogSnapshot("restore", s.Name(), db.idx.Len(), err)
		if err != nil {
			return err
		}
	}
	return nil
}

func (db *DB) restore(s *snapshot.Snapshot) error {
	var batch []model.Triple
	for t, err := range s.Triples() {
		if err != nil {
			return translateError(err)
		}
		batch = append(batch, t)
	}
	return db.InsertTriples(slices.Values(batch))
}

// Open creates a database from the snapshot CURRENT points at. A store
// without CURRENT yields an empty database.
func Open(ctx context.Context, store blobstore.BlobStore, optFns ...Option) (*DB, error) {
	db := New(optFns...)
	name, err := snapshot.Current(ctx, store)
	if errors.Is(err, blobstore.ErrNotFound) {
		return db, nil
	}
	if err != nil {
		return nil, translateError(err)
	}
	if err := db.Restore(ctx, store, name); err != nil {
		return nil, err
	}
	return db, nil
}
