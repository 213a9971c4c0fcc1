// Package pattern implements the pattern container and match-type
// catalogue that fronts the approximate-pattern-match engine: a set
// of literal or expression patterns, each tagged with the verifier
// that decides whether, and how, it matches a text window.
package pattern

import (
	"github.com/shenwei356/antiseq/expr"
	"github.com/shenwei356/antiseq/ikey"
)

// Kind distinguishes a literal byte pattern from an expression that
// must be evaluated per-read to produce one.
type Kind uint8

const (
	KindLiteral Kind = iota
	KindExpr
)

// Pattern is either Literal(bytes) or Expr(expression), each carrying
// an ordered list of pattern-specific attribute values shared across
// every pattern in a Patterns container.
type Pattern struct {
	Kind    Kind
	Literal []byte
	Expr    *expr.Node
	Attrs   []expr.Data
}

// Patterns is the container described in spec §4.3: a shared set of
// attribute-slot names, the patterns themselves, and the optional
// names of the two meta-attributes (matched-pattern name and
// multimatch indicator).
type Patterns struct {
	AttrNames       []ikey.Name
	Items           []Pattern
	PatternNameAttr ikey.Name // zero Name: not recorded
	MultimatchAttr  ikey.Name // zero Name: not recorded
}

// IterLiterals yields the index and bytes of every literal pattern.
func (p *Patterns) IterLiterals(fn func(idx int, lit []byte)) {
	for i, it := range p.Items {
		if it.Kind == KindLiteral {
			fn(i, it.Literal)
		}
	}
}

// IterExprs yields the index and node of every expression pattern.
func (p *Patterns) IterExprs(fn func(idx int, n *expr.Node)) {
	for i, it := range p.Items {
		if it.Kind == KindExpr {
			fn(i, it.Expr)
		}
	}
}

// FromExpr builds a Pattern from an expression, constant-folding it
// first; a fully-constant expression collapses to a literal pattern
// so match-time cost is zero, per spec §4.2.
func FromExpr(n *expr.Node, attrs []expr.Data) (Pattern, error) {
	folded, err := expr.Fold(n)
	if err != nil {
		return Pattern{}, err
	}
	if folded.Kind == expr.NLiteral && folded.Lit.Kind == expr.KindBytes {
		return Pattern{Kind: KindLiteral, Literal: folded.Lit.Bytes, Attrs: attrs}, nil
	}
	return Pattern{Kind: KindExpr, Expr: folded, Attrs: attrs}, nil
}
