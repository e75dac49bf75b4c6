package jsonlddb

import (
	"fmt"
	"iter"
	"time"

	"github.com/hupe1980/jsonlddb/frame"
	"github.com/hupe1980/jsonlddb/index"
	"github.com/hupe1980/jsonlddb/model"
)

// DefaultDepth is the rendering depth used by Query.Documents.
const DefaultDepth = 2

// View is a read-only view over the database, optionally layered with
// scratch indices.
type View struct {
	reader  index.Reader
	members []*index.Index
	opts    *options
}

// Query starts a frame query over the view.
// f is a frame.Frame, a map[string]any parsed with frame.Parse, or nil.
func (v *View) Query(f any) *Query {
	q := &Query{view: v, limit: -1, depth: DefaultDepth}
	switch x := f.(type) {
	case nil:
		q.frame = frame.New()
	case frame.Frame:
		q.frame = x
	case map[string]any:
		q.frame, q.err = frame.Parse(x)
	default:
		q.err = fmt.Errorf("%w: unsupported frame type %T", frame.ErrInvalidFrame, f)
	}
	return q
}

// Query is an immutable, chainable frame query. Every builder method
// returns a new Query.
type Query struct {
	view  *View
	frame frame.Frame
	err   error
	skip  int
	limit int
	depth int
}

func (q *Query) clone() *Query {
	c := *q
	return &c
}

// Frame returns the frame the query resolves.
func (q *Query) Frame() frame.Frame {
	return q.frame
}

// Where adds a constraint; see frame.Frame.Where.
func (q *Query) Where(predicate string, value any) *Query {
	c := q.clone()
	c.frame = c.frame.Where(predicate, value)
	return c
}

// Select moves the query to the neighbors reached through predicate from
// the current matches.
func (q *Query) Select(predicate string) *Query {
	c := q.clone()
	c.frame = c.frame.Select(predicate)
	return c
}

// Skip drops the first n matches.
func (q *Query) Skip(n int) *Query {
	c := q.clone()
	c.skip = max(n, 0)
	return c
}

// Limit caps the number of matches. A negative n removes the cap.
func (q *Query) Limit(n int) *Query {
	c := q.clone()
	c.limit = n
	return c
}

// Depth sets how many relationship levels Documents renders.
func (q *Query) Depth(d int) *Query {
	c := q.clone()
	c.depth = max(d, 0)
	return c
}

// Terms resolves the query. Matches are unordered.
func (q *Query) Terms() (iter.Seq[model.Term], error) {
	start := time.Now()
	seq, err := q.resolve()
	q.view.opts.metricsCollector.RecordFrame(time.Since(start), err)
	q.view.opts.logger.LogFrame(q.frame.Len(), err)
	if err != nil {
		return nil, err
	}
	return window(seq, q.skip, q.limit), nil
}

func (q *Query) resolve() (iter.Seq[model.Term], error) {
	if q.err != nil {
		return nil, translateError(q.err)
	}
	seq, err := frame.Resolve(q.view.reader, q.frame)
	if err != nil {
		return nil, translateError(err)
	}
	return seq, nil
}

func window(seq iter.Seq[model.Term], skip, limit int) iter.Seq[model.Term] {
	return func(yield func(model.Term) bool) {
		if limit == 0 {
			return
		}
		skipped, n := 0, 0
		for t := range seq {
			if skipped < skip {
				skipped++
				continue
			}
			if !yield(t) {
				return
			}
			n++
			if limit > 0 && n == limit {
				return
			}
		}
	}
}

// IDs returns the identifiers of the matching nodes. Literal matches are
// skipped.
func (q *Query) IDs() ([]string, error) {
	seq, err := q.Terms()
	if err != nil {
		return nil, err
	}
	var ids []string
	for t := range seq {
		if t.IsIRI() {
			ids = append(ids, t.ID())
		}
	}
	return ids, nil
}

// Values returns the native values of the matches (identifier strings for
// nodes).
func (q *Query) Values() ([]any, error) {
	seq, err := q.Terms()
	if err != nil {
		return nil, err
	}
	var values []any
	for t := range seq {
		values = append(values, t.Value())
	}
	return values, nil
}

// First returns one match, if any.
func (q *Query) First() (model.Term, bool, error) {
	seq, err := q.Limit(1).Terms()
	if err != nil {
		return model.Term{}, false, err
	}
	for t := range seq {
		return t, true, nil
	}
	return model.Term{}, false, nil
}

// Count returns the number of matches.
func (q *Query) Count() (int, error) {
	seq, err := q.Terms()
	if err != nil {
		return 0, err
	}
	n := 0
	for range seq {
		n++
	}
	return n, nil
}

// Documents renders the matching nodes as documents, following
// relationships up to the query depth. Nodes beyond the depth are rendered
// as identifier-only references. Single values are unwrapped; literal
// matches are skipped.
func (q *Query) Documents() ([]map[string]any, error) {
	seq, err := q.Terms()
	if err != nil {
		return nil, err
	}
	var docs []map[string]any
	for t := range seq {
		if t.IsIRI() {
			docs = append(docs, q.view.document(t, q.depth))
		}
	}
	return docs, nil
}

func (v *View) document(node model.Term, depth int) map[string]any {
	doc := map[string]any{v.opts.idKey: node.ID()}
	if depth <= 0 {
		return doc
	}
	id, ok := v.reader.Dictionary().Lookup(node)
	if !ok {
		return doc
	}
	for _, p := range v.reader.SubjectPredicates(id) {
		objects := v.objects(node, p)
		values := make([]any, 0, len(objects))
		for _, o := range objects {
			values = append(values, v.render(o, depth-1))
		}
		if len(values) == 1 {
			doc[p] = values[0]
		} else {
			doc[p] = values
		}
	}
	return doc
}

func (v *View) render(t model.Term, depth int) any {
	switch {
	case t.IsIRI():
		return v.document(t, depth)
	case t.LiteralType() == model.LiteralOpaque:
		return map[string]any{model.ValueKey: t.Value()}
	default:
		return t.Value()
	}
}

func (v *View) objects(subject model.Term, predicate string) []model.Term {
	var out []model.Term
	seen := make(map[model.Term]struct{})
	for _, m := range v.members {
		for o := range m.Objects(subject, predicate) {
			if _, dup := seen[o]; dup {
				continue
			}
			seen[o] = struct{}{}
			out = append(out, o)
		}
	}
	return out
}
