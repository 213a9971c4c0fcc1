// Package expr implements the expression language: a composable,
// lazily-evaluated tree of operators over {bool, int, float, bytes}
// values that can reference per-read labeled intervals and attributes.
package expr

import (
	"github.com/pkg/errors"
	"github.com/shenwei356/antiseq/ikey"
	"github.com/shenwei356/antiseq/record"
)

// Kind tags the dynamic type of an EvalData value.
type Kind uint8

const (
	KindBool Kind = iota
	KindInt
	KindFloat
	KindBytes
)

func (k Kind) String() string {
	switch k {
	case KindBool:
		return "bool"
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindBytes:
		return "bytes"
	default:
		return "unknown"
	}
}

// EvalData is the tagged-union runtime value produced by evaluating a
// Node. Bytes values may be Borrowed (aliasing a read's storage) or
// owned; owned buffers may be reused across in-place operators.
type EvalData struct {
	Kind     Kind
	Bool     bool
	Int      int64
	Float    float64
	Bytes    []byte
	Borrowed bool
}

// Data is an EvalData guaranteed to own its bytes; used for literals
// and constant-folded values.
type Data = EvalData

func BoolData(b bool) Data      { return Data{Kind: KindBool, Bool: b} }
func IntData(i int64) Data      { return Data{Kind: KindInt, Int: i} }
func FloatData(f float64) Data  { return Data{Kind: KindFloat, Float: f} }
func BytesData(b []byte) Data   { return Data{Kind: KindBytes, Bytes: b} }

// BorrowedBytes wraps a slice the caller promises outlives the
// EvalData, without copying.
func BorrowedBytes(b []byte) EvalData {
	return EvalData{Kind: KindBytes, Bytes: b, Borrowed: true}
}

// Sentinel errors, per spec §7's NameError/TypeError taxonomy as seen
// from the expression evaluator.
var (
	ErrName   = errors.New("antiseq/expr: name error")
	ErrType   = errors.New("antiseq/expr: type error")
	ErrBounds = errors.New("antiseq/expr: bounds error")
)

func boundsErr(lo, hi, n int) error {
	return errors.Wrapf(ErrBounds, "[%d,%d) against length %d", lo, hi, n)
}

func nameErr(t record.StrType, name ikey.Name) error {
	return errors.Wrapf(ErrName, "%s.%s not found", t, name.String())
}

func typeErr(op string, got ...Kind) error {
	s := op
	for _, k := range got {
		s += " " + k.String()
	}
	return errors.Wrap(ErrType, s)
}
