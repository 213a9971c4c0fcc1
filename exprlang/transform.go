package exprlang

import (
	"strings"

	"github.com/pkg/errors"

	"github.com/shenwei356/antiseq/expr"
	"github.com/shenwei356/antiseq/graph"
)

// ParseTransform lowers "before1, before2, ... -> after1, after2, ..."
// (spec's transform-expression surface) into one graph.SetOp per
// before/after pair that copies the before reference's value onto the
// after reference. An "_" after-reference discards that pair (no op
// emitted for it).
func ParseTransform(s string) ([]graph.Op, error) {
	arrow := strings.Index(s, "->")
	if arrow < 0 {
		return nil, errors.Wrapf(ErrParse, "transform %q: missing ->", s)
	}
	befores := splitRefs(s[:arrow])
	afters := splitRefs(s[arrow+2:])
	if len(befores) == 0 || len(afters) == 0 {
		return nil, errors.Wrapf(ErrParse, "transform %q: empty before or after list", s)
	}
	if len(befores) != len(afters) {
		return nil, errors.Wrapf(ErrParse, "transform %q: %d before refs but %d after refs", s, len(befores), len(afters))
	}

	ops := make([]graph.Op, 0, len(afters))
	for i, after := range afters {
		if after == "_" {
			continue
		}
		bt, bl, battr, err := ResolveRef(befores[i])
		if err != nil {
			return nil, err
		}
		at, al, aattr, err := ResolveRef(after)
		if err != nil {
			return nil, err
		}
		var src *expr.Node
		if battr.IsEmpty() {
			src = expr.LabelRef(bt, bl)
		} else {
			src = expr.AttrRef(bt, bl, battr)
		}
		ops = append(ops, &graph.SetOp{StrType: at, Label: al, Attr: aattr, Expr: src})
	}
	return ops, nil
}

func splitRefs(s string) []string {
	fields := strings.Split(s, ",")
	out := make([]string, 0, len(fields))
	for _, f := range fields {
		f = strings.TrimSpace(f)
		if f != "" {
			out = append(out, f)
		}
	}
	return out
}
