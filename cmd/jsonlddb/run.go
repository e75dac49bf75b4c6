package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"iter"
	"os"
	"path/filepath"
	"slices"
	"sort"
	"strings"

	gojson "github.com/goccy/go-json"
	"gopkg.in/yaml.v3"

	"github.com/hupe1980/jsonlddb"
	"github.com/hupe1980/jsonlddb/blobstore"
	"github.com/hupe1980/jsonlddb/codec"
	"github.com/hupe1980/jsonlddb/model"
	"github.com/hupe1980/jsonlddb/snapshot"
)

// openDB opens the store the config names and restores the database
// CURRENT points at.
func openDB(ctx context.Context, cfg Config) (*jsonlddb.DB, blobstore.BlobStore, error) {
	store, err := cfg.OpenStore(ctx)
	if err != nil {
		return nil, nil, err
	}
	opts, err := cfg.DBOptions()
	if err != nil {
		return nil, nil, err
	}
	db, err := jsonlddb.Open(ctx, store, opts...)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open database at %s: %w", cfg.Store, err)
	}
	return db, store, nil
}

// Ingest inserts the documents of every path and publishes the result as
// snapshot name.
func Ingest(ctx context.Context, cfg Config, name string, paths []string, stdin io.Reader, w io.Writer) error {
	db, store, err := openDB(ctx, cfg)
	if err != nil {
		return err
	}

	before := db.Len()
	for _, p := range paths {
		docs, err := readDocuments(p, stdin)
		if err != nil {
			return err
		}
		if err := db.Insert(docs); err != nil {
			return fmt.Errorf("%s: %w", p, err)
		}
	}

	snapOpts, err := cfg.SnapshotOptions()
	if err != nil {
		return err
	}
	if err := db.Publish(ctx, store, name, snapOpts...); err != nil {
		return fmt.Errorf("failed to publish %s: %w", name, err)
	}
	_, err = fmt.Fprintf(w, "published %s: %d triples (+%d)\n", name, db.Len(), db.Len()-before)
	return err
}

// QueryOptions configures Query.
type QueryOptions struct {
	// FramePath is a JSON or YAML frame file, "-" for stdin, or empty for
	// the empty frame.
	FramePath string
	// Output is ids, values or docs.
	Output string
	Select []string
	Skip   int
	Limit  int
	Depth  int
}

// Query resolves a frame against the current snapshot and writes the
// matches.
func Query(ctx context.Context, cfg Config, opts QueryOptions, stdin io.Reader, w io.Writer) error {
	var frame any
	if opts.FramePath != "" {
		f, err := readDocuments(opts.FramePath, stdin)
		if err != nil {
			return err
		}
		m, ok := f.(map[string]any)
		if !ok {
			return fmt.Errorf("%s: frame must be an object, got %T", opts.FramePath, f)
		}
		frame = m
	}

	db, _, err := openDB(ctx, cfg)
	if err != nil {
		return err
	}

	q := db.Query(frame)
	for _, p := range opts.Select {
		q = q.Select(p)
	}
	q = q.Skip(opts.Skip).Limit(opts.Limit).Depth(opts.Depth)

	switch opts.Output {
	case "", "ids":
		ids, err := q.IDs()
		if err != nil {
			return err
		}
		sort.Strings(ids)
		for _, id := range ids {
			if _, err := fmt.Fprintln(w, id); err != nil {
				return err
			}
		}
		return nil
	case "values":
		values, err := q.Values()
		if err != nil {
			return err
		}
		return writeJSON(w, values)
	case "docs":
		docs, err := q.Documents()
		if err != nil {
			return err
		}
		slices.SortFunc(docs, func(a, b map[string]any) int {
			return strings.Compare(fmt.Sprint(a[model.IDKey]), fmt.Sprint(b[model.IDKey]))
		})
		return writeJSON(w, docs)
	default:
		return fmt.Errorf("unknown output %q (expected ids, values or docs)", opts.Output)
	}
}

// ConvertOptions configures Convert.
type ConvertOptions struct {
	// From is the codec of a plain dump input. Default: the config codec.
	From string
	// Dump writes a plain codec dump instead of a snapshot.
	Dump bool
}

// Convert rewrites a snapshot or plain dump with the config codec and
// compression.
func Convert(cfg Config, in, out string, opts ConvertOptions, w io.Writer) error {
	data, err := os.ReadFile(in)
	if err != nil {
		return err
	}

	triples, err := decodeTriples(data, opts.From, cfg.Codec)
	if err != nil {
		return fmt.Errorf("%s: %w", in, err)
	}

	target, ok := codec.ByName(cfg.Codec)
	if !ok {
		return fmt.Errorf("unknown codec %q", cfg.Codec)
	}

	var buf bytes.Buffer
	if opts.Dump {
		err = target.Encode(&buf, slices.Values(triples))
	} else {
		var snapOpts []snapshot.Option
		snapOpts, err = cfg.SnapshotOptions()
		if err == nil {
			err = snapshot.Write(&buf, slices.Values(triples), append(snapOpts, snapshot.WithCodec(target))...)
		}
	}
	if err != nil {
		return err
	}
	if err := os.WriteFile(out, buf.Bytes(), 0o644); err != nil {
		return err
	}

	format := "snapshot"
	if opts.Dump {
		format = "dump"
	}
	_, err = fmt.Fprintf(w, "converted %d triples to %s %s\n", len(triples), cfg.Codec, format)
	return err
}

func decodeTriples(data []byte, from, fallback string) ([]model.Triple, error) {
	var seq iter.Seq2[model.Triple, error]
	if snapshot.IsSnapshot(data) {
		s, err := snapshot.Read(bytes.NewReader(data))
		if err != nil {
			return nil, err
		}
		seq = s.Triples()
	} else {
		if from == "" {
			from = fallback
		}
		c, ok := codec.ByName(from)
		if !ok {
			return nil, fmt.Errorf("unknown codec %q", from)
		}
		seq = c.Decode(bytes.NewReader(data))
	}

	var triples []model.Triple
	for t, err := range seq {
		if err != nil {
			return nil, err
		}
		triples = append(triples, t)
	}
	return triples, nil
}

// Stats writes statistics of the current snapshot.
func Stats(ctx context.Context, cfg Config, w io.Writer) error {
	db, store, err := openDB(ctx, cfg)
	if err != nil {
		return err
	}
	current, err := snapshot.Current(ctx, store)
	if errors.Is(err, blobstore.ErrNotFound) {
		current = "(none)"
	} else if err != nil {
		return err
	}

	stats := db.Stats()
	_, err = fmt.Fprintf(w, "snapshot: %s\ntriples:  %d\nsubjects: %d\nterms:    %d\n",
		current, stats.Triples, stats.Subjects, stats.Terms)
	return err
}

// readDocuments decodes a JSON or YAML file. YAML is selected by the
// .yaml/.yml extension; standard input ("-") is sniffed.
func readDocuments(path string, stdin io.Reader) (any, error) {
	var (
		data []byte
		err  error
	)
	if path == "-" {
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, err
	}

	var docs any
	if isYAML(path, data) {
		err = yaml.Unmarshal(data, &docs)
	} else {
		dec := gojson.NewDecoder(bytes.NewReader(data))
		dec.UseNumber()
		err = dec.Decode(&docs)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return docs, nil
}

func isYAML(path string, data []byte) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return true
	case ".json", ".jsonld":
		return false
	}
	trimmed := bytes.TrimSpace(data)
	return len(trimmed) == 0 || (trimmed[0] != '{' && trimmed[0] != '[')
}

func writeJSON(w io.Writer, v any) error {
	enc := gojson.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
