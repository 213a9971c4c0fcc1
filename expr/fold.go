package expr

import "github.com/shenwei356/antiseq/record"

// Fold implements constant folding (spec §4.2): any subtree whose
// RequiredNames is empty is evaluated once against an empty read and
// replaced by its literal value, reducing match-time cost to zero for
// patterns that were written as expressions but contain no reference.
func Fold(n *Node) (*Node, error) {
	if n.Kind == NLiteral {
		return n, nil
	}
	folded := make([]*Node, len(n.Children))
	anyChildChanged := false
	for i, c := range n.Children {
		fc, err := Fold(c)
		if err != nil {
			return nil, err
		}
		folded[i] = fc
		if fc != c {
			anyChildChanged = true
		}
	}
	if anyChildChanged {
		cp := *n
		cp.Children = folded
		n = &cp
	}
	if len(n.RequiredNames()) > 0 {
		return n, nil
	}
	empty := record.NewRead()
	v, err := n.Eval(empty, false)
	if err != nil {
		return n, nil // leave unfoldable nodes (e.g. pure syntax markers) as-is
	}
	return Literal(v), nil
}
