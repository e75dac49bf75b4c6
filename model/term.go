package model

import (
	"errors"
	"fmt"
	"math"
	"strconv"

	gojson "github.com/goccy/go-json"
)

// ErrUnsupportedValue is returned when a Go value cannot be represented as a literal.
var ErrUnsupportedValue = errors.New("unsupported literal value")

// Kind identifies whether a Term is an identifier or a literal.
type Kind uint8

const (
	// KindInvalid is the zero Kind.
	KindInvalid Kind = iota
	// KindIRI marks an identifier.
	KindIRI
	// KindLiteral marks a literal value.
	KindLiteral
)

// String returns the name of the kind.
func (k Kind) String() string {
	switch k {
	case KindIRI:
		return "IRI"
	case KindLiteral:
		return "LITERAL"
	default:
		return "INVALID"
	}
}

// LiteralType identifies the concrete type of a literal Term.
type LiteralType uint8

const (
	// LiteralNull is the JSON null literal.
	LiteralNull LiteralType = iota
	// LiteralBool is a boolean literal.
	LiteralBool
	// LiteralInt is an integer literal.
	LiteralInt
	// LiteralFloat is a non-integral floating point literal.
	LiteralFloat
	// LiteralString is a string literal.
	LiteralString
	// LiteralOpaque is a structured value stored as canonical JSON.
	LiteralOpaque
)

// Term is a tagged value: an IRI or a literal.
//
// Term is comparable; equality is by (kind, literal type, content).
// The zero Term is invalid.
type Term struct {
	kind Kind
	typ  LiteralType
	s    string // IRI, string literal, or canonical JSON of an opaque literal
	i    int64  // int literal, bool literal (0/1)
	f    float64
}

// IRI returns an identifier Term.
func IRI(id string) Term { return Term{kind: KindIRI, s: id} }

// Null returns the null literal.
func Null() Term { return Term{kind: KindLiteral, typ: LiteralNull} }

// Bool returns a boolean literal.
func Bool(v bool) Term {
	t := Term{kind: KindLiteral, typ: LiteralBool}
	if v {
		t.i = 1
	}
	return t
}

// Int returns an integer literal.
func Int(v int64) Term { return Term{kind: KindLiteral, typ: LiteralInt, i: v} }

// Float returns a floating point literal.
//
// Integral values that fit in an int64 are normalized to Int so that
// textual round trips ("3" vs "3.0") never change a term's identity.
func Float(v float64) Term {
	if v == math.Trunc(v) && v >= math.MinInt64 && v < math.MaxInt64 {
		return Int(int64(v))
	}
	return Term{kind: KindLiteral, typ: LiteralFloat, f: v}
}

// String returns a string literal.
func String(v string) Term { return Term{kind: KindLiteral, typ: LiteralString, s: v} }

// Opaque returns a literal holding a structured value (map or list).
//
// The value is stored as canonical JSON: map keys are sorted and numbers
// are normalized, so structurally equal values produce equal terms.
func Opaque(v any) (Term, error) {
	canonical, err := canonicalJSON(v)
	if err != nil {
		return Term{}, err
	}
	return Term{kind: KindLiteral, typ: LiteralOpaque, s: canonical}, nil
}

func canonicalJSON(v any) (string, error) {
	raw, err := gojson.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrUnsupportedValue, err)
	}
	var generic any
	if err := gojson.Unmarshal(raw, &generic); err != nil {
		return "", fmt.Errorf("%w: %w", ErrUnsupportedValue, err)
	}
	out, err := gojson.Marshal(generic)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrUnsupportedValue, err)
	}
	return string(out), nil
}

// numberLike matches json.Number from encoding/json and compatible decoders.
type numberLike interface {
	Int64() (int64, error)
	Float64() (float64, error)
	String() string
}

// FromValue converts a Go value into a literal Term.
//
// Scalars (nil, bool, string, every integer and float width, json.Number)
// become plain literals; maps and slices become opaque literals. A Term is
// returned unchanged. NaN and infinities are rejected.
func FromValue(v any) (Term, error) {
	switch x := v.(type) {
	case nil:
		return Null(), nil
	case Term:
		if x.kind == KindInvalid {
			return Term{}, fmt.Errorf("%w: invalid term", ErrUnsupportedValue)
		}
		return x, nil
	case bool:
		return Bool(x), nil
	case string:
		return String(x), nil
	case int:
		return Int(int64(x)), nil
	case int8:
		return Int(int64(x)), nil
	case int16:
		return Int(int64(x)), nil
	case int32:
		return Int(int64(x)), nil
	case int64:
		return Int(x), nil
	case uint:
		return fromUint(uint64(x))
	case uint8:
		return Int(int64(x)), nil
	case uint16:
		return Int(int64(x)), nil
	case uint32:
		return Int(int64(x)), nil
	case uint64:
		return fromUint(x)
	case float32:
		return fromFloat(float64(x))
	case float64:
		return fromFloat(x)
	case numberLike:
		if i, err := x.Int64(); err == nil {
			return Int(i), nil
		}
		f, err := x.Float64()
		if err != nil {
			return Term{}, fmt.Errorf("%w: number %q", ErrUnsupportedValue, x.String())
		}
		return fromFloat(f)
	case map[string]any, []any:
		return Opaque(x)
	default:
		return Term{}, fmt.Errorf("%w: %T", ErrUnsupportedValue, v)
	}
}

func fromUint(v uint64) (Term, error) {
	if v > math.MaxInt64 {
		return fromFloat(float64(v))
	}
	return Int(int64(v)), nil
}

func fromFloat(v float64) (Term, error) {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return Term{}, fmt.Errorf("%w: %v", ErrUnsupportedValue, v)
	}
	return Float(v), nil
}

// IsScalar reports whether v is a value FromValue turns into a plain
// (non-opaque) literal.
func IsScalar(v any) bool {
	switch x := v.(type) {
	case nil, bool, string,
		int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64,
		float32, float64, numberLike:
		return true
	case Term:
		return x.kind != KindInvalid
	default:
		return false
	}
}

// Kind returns the term kind.
func (t Term) Kind() Kind { return t.kind }

// IsIRI reports whether t is an identifier.
func (t Term) IsIRI() bool { return t.kind == KindIRI }

// IsLiteral reports whether t is a literal.
func (t Term) IsLiteral() bool { return t.kind == KindLiteral }

// IsValid reports whether t is not the zero Term.
func (t Term) IsValid() bool { return t.kind != KindInvalid }

// LiteralType returns the literal type. It is meaningless for IRIs.
func (t Term) LiteralType() LiteralType { return t.typ }

// ID returns the identifier of an IRI term, or "" for literals.
func (t Term) ID() string {
	if t.kind != KindIRI {
		return ""
	}
	return t.s
}

// Value returns the native Go value of the term.
//
// IRIs return their identifier string. Opaque literals are decoded back
// into map[string]any or []any.
func (t Term) Value() any {
	if t.kind == KindIRI {
		return t.s
	}
	switch t.typ {
	case LiteralBool:
		return t.i == 1
	case LiteralInt:
		return t.i
	case LiteralFloat:
		return t.f
	case LiteralString:
		return t.s
	case LiteralOpaque:
		var v any
		if err := gojson.Unmarshal([]byte(t.s), &v); err != nil {
			return nil
		}
		return v
	default:
		return nil
	}
}

// Key returns a stable string representation of the term.
//
// Distinct terms always produce distinct keys.
func (t Term) Key() string {
	switch t.kind {
	case KindIRI:
		return "@:" + t.s
	case KindLiteral:
	default:
		return "invalid"
	}
	switch t.typ {
	case LiteralNull:
		return "null"
	case LiteralBool:
		if t.i == 1 {
			return "b:1"
		}
		return "b:0"
	case LiteralInt:
		return "i:" + strconv.FormatInt(t.i, 10)
	case LiteralFloat:
		return "f:" + strconv.FormatUint(math.Float64bits(t.f), 16)
	case LiteralString:
		return "s:" + t.s
	case LiteralOpaque:
		return "o:" + t.s
	default:
		return "invalid"
	}
}

// String returns a human readable form: the bare identifier for IRIs and
// the JSON encoding for literals.
func (t Term) String() string {
	switch t.kind {
	case KindIRI:
		return t.s
	case KindLiteral:
		switch t.typ {
		case LiteralOpaque:
			return t.s
		case LiteralString:
			return strconv.Quote(t.s)
		case LiteralInt:
			return strconv.FormatInt(t.i, 10)
		case LiteralFloat:
			return strconv.FormatFloat(t.f, 'g', -1, 64)
		case LiteralBool:
			return strconv.FormatBool(t.i == 1)
		default:
			return "null"
		}
	default:
		return "<invalid>"
	}
}
