package graph

import (
	"github.com/pkg/errors"

	"github.com/shenwei356/antiseq/expr"
	"github.com/shenwei356/antiseq/ikey"
	"github.com/shenwei356/antiseq/record"
)

// PadOp overwrites a label's span with its padded value, a thin
// wrapper over expr.Pad applied to a label reference.
type PadOp struct {
	StrType record.StrType
	Label   ikey.Name
	Char    byte
	Length  int
	Side    expr.Side
}

func (op *PadOp) Name() string { return "pad" }

func (op *PadOp) RequiredNames() []expr.NameRef {
	return []expr.NameRef{{StrType: op.StrType, Label: op.Label}}
}

func (op *PadOp) Run(r *record.Read) (*record.Read, bool, error) {
	node := expr.Pad(expr.LabelRef(op.StrType, op.Label), op.Char, op.Length, op.Side)
	return (&SetOp{StrType: op.StrType, Label: op.Label, Expr: node}).Run(r)
}

// NormOp overwrites a label's span with its normalized value, a thin
// wrapper over expr.Normalize applied to a label reference.
type NormOp struct {
	StrType record.StrType
	Label   ikey.Name
	Range   expr.NormalizeRange
}

func (op *NormOp) Name() string { return "norm" }

func (op *NormOp) RequiredNames() []expr.NameRef {
	return []expr.NameRef{{StrType: op.StrType, Label: op.Label}}
}

func (op *NormOp) Run(r *record.Read) (*record.Read, bool, error) {
	if op.Range.Max < 0 {
		return nil, false, errors.New("antiseq/graph: norm requires a finite max")
	}
	node := expr.Normalize(expr.LabelRef(op.StrType, op.Label), op.Range)
	return (&SetOp{StrType: op.StrType, Label: op.Label, Expr: node}).Run(r)
}
