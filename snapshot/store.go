package snapshot

import (
	"bytes"
	"context"
	"fmt"
	"iter"
	"strings"

	"github.com/hupe1980/jsonlddb/blobstore"
	"github.com/hupe1980/jsonlddb/model"
	"golang.org/x/sync/errgroup"
)

// DefaultLoadConcurrency bounds the number of blobs LoadAll fetches at once.
const DefaultLoadConcurrency = 8

// Save writes triples as a snapshot blob named name.
func Save(ctx context.Context, store blobstore.BlobStore, name string, triples iter.Seq[model.Triple], optFns ...Option) error {
	var buf bytes.Buffer
	if err := Write(&buf, triples, optFns...); err != nil {
		return err
	}
	return store.Put(ctx, name, buf.Bytes())
}

// Load reads and verifies the snapshot blob named name.
func Load(ctx context.Context, store blobstore.BlobStore, name string) (*Snapshot, error) {
	data, err := blobstore.ReadAll(ctx, store, name)
	if err != nil {
		return nil, err
	}
	s, err := Read(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("snapshot %q: %w", name, err)
	}
	s.name = name
	return s, nil
}

// Publish saves a snapshot and points CURRENT at it.
func Publish(ctx context.Context, store blobstore.BlobStore, name string, triples iter.Seq[model.Triple], optFns ...Option) error {
	if name == blobstore.Current {
		return fmt.Errorf("snapshot: %q is reserved", name)
	}
	if err := Save(ctx, store, name, triples, optFns...); err != nil {
		return err
	}
	return store.Put(ctx, blobstore.Current, []byte(name))
}

// Current returns the snapshot name CURRENT points at.
func Current(ctx context.Context, store blobstore.BlobStore) (string, error) {
	data, err := blobstore.ReadAll(ctx, store, blobstore.Current)
	if err != nil {
		return "", err
	}
	name := strings.TrimSpace(string(data))
	if name == "" {
		return "", fmt.Errorf("%w: empty %s", ErrCorrupt, blobstore.Current)
	}
	return name, nil
}

// LoadCurrent loads the snapshot CURRENT points at.
func LoadCurrent(ctx context.Context, store blobstore.BlobStore) (*Snapshot, error) {
	name, err := Current(ctx, store)
	if err != nil {
		return nil, err
	}
	return Load(ctx, store, name)
}

// LoadAll fetches and verifies the named snapshots concurrently. The result
// is in the order of names; the first error cancels the remaining fetches.
func LoadAll(ctx context.Context, store blobstore.BlobStore, names ...string) ([]*Snapshot, error) {
	out := make([]*Snapshot, len(names))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(DefaultLoadConcurrency)
	for i, name := range names {
		g.Go(func() error {
			s, err := Load(ctx, store, name)
			if err != nil {
				return err
			}
			out[i] = s
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}
