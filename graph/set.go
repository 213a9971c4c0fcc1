package graph

import (
	"github.com/pkg/errors"

	"github.com/shenwei356/antiseq/expr"
	"github.com/shenwei356/antiseq/ikey"
	"github.com/shenwei356/antiseq/record"
)

// SetOp overwrites a label's span, or an attribute's value, with the
// result of evaluating an expression. For a label whose owning
// StrMappings carries quality, the expression is evaluated twice: once
// in value mode for the new bytes, once in quality mode for the new
// quality string, so both stay the same length atomically.
type SetOp struct {
	StrType record.StrType
	Label   ikey.Name
	Attr    ikey.Name // zero Name when targeting a label, not an attribute
	Expr    *expr.Node
}

func (op *SetOp) Name() string { return "set" }

func (op *SetOp) RequiredNames() []expr.NameRef {
	// Only the target label must exist; a target attribute is created
	// when absent.
	target := expr.NameRef{StrType: op.StrType, Label: op.Label}
	return append([]expr.NameRef{target}, op.Expr.RequiredNames()...)
}

func (op *SetOp) Run(r *record.Read) (*record.Read, bool, error) {
	if !hasAllNames(r, op.RequiredNames()) {
		return r, false, nil
	}
	if !op.Attr.IsEmpty() {
		v, err := op.Expr.Eval(r, false)
		if err != nil {
			return nil, false, err
		}
		m, err := r.MappingMut(op.StrType, op.Label)
		if err != nil {
			return nil, false, err
		}
		attr, err := evalDataToAttr(v)
		if err != nil {
			return nil, false, err
		}
		if m.Attrs == nil {
			m.Attrs = make(map[ikey.Name]record.AttrValue, 1)
		}
		m.Attrs[op.Attr] = attr
		return r, false, nil
	}

	v, err := op.Expr.Eval(r, false)
	if err != nil {
		return nil, false, err
	}
	if v.Kind != expr.KindBytes {
		return nil, false, errors.Errorf("antiseq/graph: set expression produced %s, want bytes", v.Kind)
	}

	hasQual, err := labelHasQual(r, op.StrType)
	if err != nil {
		return nil, false, err
	}
	var newQual []byte
	if hasQual {
		qv, err := op.Expr.Eval(r, true)
		if err != nil {
			return nil, false, err
		}
		if qv.Kind != expr.KindBytes {
			return nil, false, errors.Errorf("antiseq/graph: set quality-mode expression produced %s, want bytes", qv.Kind)
		}
		newQual = qv.Bytes
	}

	if err := r.Set(op.StrType, op.Label, v.Bytes, newQual); err != nil {
		return nil, false, err
	}
	return r, false, nil
}

func evalDataToAttr(v expr.EvalData) (record.AttrValue, error) {
	switch v.Kind {
	case expr.KindBool:
		return record.BoolAttr(v.Bool), nil
	case expr.KindInt:
		return record.IntAttr(v.Int), nil
	case expr.KindFloat:
		return record.FloatAttr(v.Float), nil
	case expr.KindBytes:
		b := make([]byte, len(v.Bytes))
		copy(b, v.Bytes)
		return record.BytesAttr(b), nil
	default:
		return record.AttrValue{}, errors.Errorf("antiseq/graph: set expression produced unknown kind %d", v.Kind)
	}
}

func labelHasQual(r *record.Read, t record.StrType) (bool, error) {
	_, ok, err := r.SubstringQual(t, record.WildcardLabel)
	if err != nil {
		return false, err
	}
	return ok, nil
}
