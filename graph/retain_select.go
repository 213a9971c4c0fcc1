package graph

import (
	"github.com/pkg/errors"

	"github.com/shenwei356/antiseq/expr"
	"github.com/shenwei356/antiseq/record"
)

func evalBool(n *expr.Node, r *record.Read) (bool, error) {
	v, err := n.Eval(r, false)
	if err != nil {
		return false, err
	}
	if v.Kind != expr.KindBool {
		return false, errors.Errorf("antiseq/graph: selector expression produced %s, want bool", v.Kind)
	}
	return v.Bool, nil
}

// RetainOp drops the read when its boolean expression evaluates false.
type RetainOp struct {
	Expr *expr.Node
}

func (op *RetainOp) Name() string                     { return "retain" }
func (op *RetainOp) RequiredNames() []expr.NameRef     { return op.Expr.RequiredNames() }
func (op *RetainOp) Run(r *record.Read) (*record.Read, bool, error) {
	if !hasAllNames(r, op.RequiredNames()) {
		return r, false, nil
	}
	ok, err := evalBool(op.Expr, r)
	if err != nil {
		return nil, false, err
	}
	if !ok {
		return nil, false, nil
	}
	return r, false, nil
}

// SelectOp runs a sub-graph on reads for which its boolean expression
// is true; reads for which it is false pass through unchanged.
type SelectOp struct {
	Expr    *expr.Node
	SubGraph []Op
}

func (op *SelectOp) Name() string                 { return "select" }
func (op *SelectOp) RequiredNames() []expr.NameRef { return op.Expr.RequiredNames() }

func (op *SelectOp) Run(r *record.Read) (*record.Read, bool, error) {
	if !hasAllNames(r, op.RequiredNames()) {
		return r, false, nil
	}
	ok, err := evalBool(op.Expr, r)
	if err != nil {
		return nil, false, err
	}
	if !ok {
		return r, false, nil
	}
	if _, err := runOps(op.SubGraph, r); err != nil {
		return nil, false, err
	}
	return r, false, nil
}

// ForkOp clones the read and runs the clone through a sub-graph
// synchronously on the same worker; the original passes through
// unchanged. Errors in the sub-graph propagate as errors on the
// parent read, per spec.md §5's fork semantics.
type ForkOp struct {
	SubGraph []Op
}

func (op *ForkOp) Name() string                     { return "fork" }
func (op *ForkOp) RequiredNames() []expr.NameRef     { return nil }

func (op *ForkOp) Run(r *record.Read) (*record.Read, bool, error) {
	clone := r.Clone()
	if _, err := runOps(op.SubGraph, clone); err != nil {
		return nil, false, err
	}
	return r, false, nil
}

// runOps drives a read through a fixed sequence of ops, stopping early
// on a dropped read, an end-of-stream signal, or a fatal error.
func runOps(ops []Op, r *record.Read) (*record.Read, error) {
	cur := r
	for _, op := range ops {
		if cur == nil {
			return nil, nil
		}
		next, done, err := op.Run(cur)
		if err != nil {
			return nil, errors.Wrapf(err, "op %q", op.Name())
		}
		cur = next
		if done {
			return cur, nil
		}
	}
	return cur, nil
}

// ForEachOp applies a user-supplied function to the read, for
// debug-printing or custom mutation registered at graph-build time.
type ForEachOp struct {
	Fn func(*record.Read) error
}

func (op *ForEachOp) Name() string                 { return "for_each" }
func (op *ForEachOp) RequiredNames() []expr.NameRef { return nil }

func (op *ForEachOp) Run(r *record.Read) (*record.Read, bool, error) {
	if err := op.Fn(r); err != nil {
		return nil, false, err
	}
	return r, false, nil
}
