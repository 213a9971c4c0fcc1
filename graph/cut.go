package graph

import (
	"github.com/pkg/errors"

	"github.com/shenwei356/antiseq/expr"
	"github.com/shenwei356/antiseq/ikey"
	"github.com/shenwei356/antiseq/record"
)

// CutOp splits one label into two at an index computed by an
// expression, per spec.md §4.5.
type CutOp struct {
	StrType          record.StrType
	Src, Left, Right ikey.Name
	IndexExpr        *expr.Node
}

func (op *CutOp) Name() string { return "cut" }

func (op *CutOp) RequiredNames() []expr.NameRef {
	refs := []expr.NameRef{{StrType: op.StrType, Label: op.Src}}
	return append(refs, op.IndexExpr.RequiredNames()...)
}

func (op *CutOp) Run(r *record.Read) (*record.Read, bool, error) {
	if !hasAllNames(r, op.RequiredNames()) {
		return r, false, nil
	}
	v, err := op.IndexExpr.Eval(r, false)
	if err != nil {
		return nil, false, err
	}
	if v.Kind != expr.KindInt {
		return nil, false, errors.Errorf("antiseq/graph: cut index expression produced %s, want int", v.Kind)
	}
	if err := r.Cut(op.StrType, op.Src, op.Left, op.Right, int(v.Int)); err != nil {
		return nil, false, err
	}
	return r, false, nil
}

// TrimOp removes the byte regions covered by a set of labels and
// rebalances intervals, a thin wrapper over record.Read.Trim.
type TrimOp struct {
	StrType record.StrType
	Labels  []ikey.Name
}

func (op *TrimOp) Name() string { return "trim" }

func (op *TrimOp) RequiredNames() []expr.NameRef {
	refs := make([]expr.NameRef, len(op.Labels))
	for i, l := range op.Labels {
		refs[i] = expr.NameRef{StrType: op.StrType, Label: l}
	}
	return refs
}

func (op *TrimOp) Run(r *record.Read) (*record.Read, bool, error) {
	if !hasAllNames(r, op.RequiredNames()) {
		return r, false, nil
	}
	if err := r.Trim(op.StrType, op.Labels); err != nil {
		return nil, false, err
	}
	return r, false, nil
}
