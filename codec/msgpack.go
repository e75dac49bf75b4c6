package codec

import (
	"errors"
	"fmt"
	"io"
	"iter"
	"slices"

	"github.com/tinylib/msgp/msgp"

	"github.com/hupe1980/jsonlddb/model"
)

// MsgPack is the compact binary codec backed by github.com/tinylib/msgp.
//
// The stream is an array of [subject, {predicate: [objects]}] records, one
// per subject. Records are decoded one at a time.
type MsgPack struct{}

// Name returns the unique name of the codec ("msgpack").
func (MsgPack) Name() string { return "msgpack" }

// Encode writes triples as MessagePack records.
func (MsgPack) Encode(w io.Writer, triples iter.Seq[model.Triple]) error {
	groups, err := group(triples)
	if err != nil {
		return err
	}

	mw := msgp.NewWriter(w)
	if err := mw.WriteArrayHeader(uint32(len(groups))); err != nil {
		return err
	}
	for _, g := range groups {
		if err := writeRecord(mw, g); err != nil {
			return err
		}
	}
	return mw.Flush()
}

func writeRecord(mw *msgp.Writer, g subjectGroup) error {
	if err := mw.WriteArrayHeader(2); err != nil {
		return err
	}
	if err := mw.WriteString(g.subject); err != nil {
		return err
	}
	preds := make([]string, 0, len(g.predicates))
	for p := range g.predicates {
		preds = append(preds, p)
	}
	slices.Sort(preds)

	if err := mw.WriteMapHeader(uint32(len(preds))); err != nil {
		return err
	}
	for _, p := range preds {
		if err := mw.WriteString(p); err != nil {
			return err
		}
		objects := g.predicates[p]
		if err := mw.WriteArrayHeader(uint32(len(objects))); err != nil {
			return err
		}
		for _, o := range objects {
			if err := mw.WriteIntf(o); err != nil {
				return err
			}
		}
	}
	return nil
}

// Decode reads MessagePack records written by Encode.
func (MsgPack) Decode(r io.Reader) iter.Seq2[model.Triple, error] {
	return func(yield func(model.Triple, error) bool) {
		fail := func(err error) {
			if !errors.Is(err, ErrMalformed) {
				err = fmt.Errorf("%w: %w", ErrMalformed, err)
			}
			yield(model.Triple{}, err)
		}

		mr := msgp.NewReader(r)
		records, err := mr.ReadArrayHeader()
		if err != nil {
			fail(err)
			return
		}
		for range records {
			n, err := mr.ReadArrayHeader()
			if err != nil {
				fail(err)
				return
			}
			if n != 2 {
				fail(fmt.Errorf("record with %d fields", n))
				return
			}
			subject, err := mr.ReadString()
			if err != nil {
				fail(err)
				return
			}
			preds, err := mr.ReadMapHeader()
			if err != nil {
				fail(err)
				return
			}
			for range preds {
				p, err := mr.ReadString()
				if err != nil {
					fail(err)
					return
				}
				objects, err := mr.ReadArrayHeader()
				if err != nil {
					fail(err)
					return
				}
				for range objects {
					obj, err := readObject(mr)
					if err != nil {
						fail(err)
						return
					}
					if !yield(model.NewTriple(model.IRI(subject), p, obj), nil) {
						return
					}
				}
			}
		}
	}
}

func readObject(mr *msgp.Reader) (model.Term, error) {
	typ, err := mr.NextType()
	if err != nil {
		return model.Term{}, err
	}
	switch typ {
	case msgp.StrType:
		s, err := mr.ReadString()
		if err != nil {
			return model.Term{}, err
		}
		return model.IRI(s), nil
	case msgp.ArrayType:
		v, err := mr.ReadIntf()
		if err != nil {
			return model.Term{}, err
		}
		return decodeObject(v)
	default:
		return model.Term{}, fmt.Errorf("unexpected object type %s", typ)
	}
}
