// Package graph implements the per-read transform operations and the
// worker-pool driver that compose them into a running pipeline.
package graph

import (
	"github.com/shenwei356/antiseq/expr"
	"github.com/shenwei356/antiseq/record"
)

// Op is the contract every graph node implements: Run advances a
// single read through the op, RequiredNames declares the label/attr
// references it needs (an absent name makes the op a no-op for that
// read), and Name identifies the op for diagnostics.
//
// Run returns (nil, false, nil) to drop the read, (read, false, nil)
// to forward it, and (_, true, nil) to signal end-of-stream; a
// non-nil error is always fatal to the pipeline.
type Op interface {
	Run(r *record.Read) (*record.Read, bool, error)
	RequiredNames() []expr.NameRef
	Name() string
}

// hasAllNames reports whether r carries every name ref, so an op can
// short-circuit to a pass-through no-op per spec.
func hasAllNames(r *record.Read, refs []expr.NameRef) bool {
	for _, ref := range refs {
		m, err := r.Mapping(ref.StrType, ref.Label)
		if err != nil {
			return false
		}
		if !ref.Attr.IsEmpty() {
			if _, ok := m.Attrs[ref.Attr]; !ok {
				return false
			}
		}
	}
	return true
}
