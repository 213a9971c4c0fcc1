package expr

import (
	"github.com/shenwei356/antiseq/ikey"
	"github.com/shenwei356/antiseq/record"
)

// Kind of expression node. One constructor per operator, per the
// tagged-sum design chosen over a bytecode VM (see DESIGN.md).
type NodeKind uint8

const (
	NLiteral NodeKind = iota
	NSliceLiteral
	NLabel
	NAttr
	NLabelExists
	NAttrExists

	NNot
	NLen
	NRev
	NRevComp
	NToInt
	NToFloat
	NToBytes
	NSlice
	NPad
	NRepeat
	NNormalize

	NAnd
	NOr
	NXor
	NAdd
	NSub
	NMul
	NDiv
	NGt
	NLt
	NGe
	NLe
	NEq
	NConcat
	NInBounds

	NConcatAll
)

// Side names the padding side for NPad.
type Side uint8

const (
	Left Side = iota
	Right
)

// SliceRange describes a slice(range) operand. End is ignored when
// Unbounded; both Start and End may be negative, counting from the
// right, resolved against the operand's length at eval time.
type SliceRange struct {
	Start     int
	End       int
	Unbounded bool
}

// BoundsRange describes an in_bounds(range) operand: a pure integer
// range, independent of any string length.
type BoundsRange struct {
	Lo          int
	Hi          int
	HiInclusive bool
	HiUnbounded bool
}

// NormalizeRange is normalize(range=[min,max]); Max must be finite.
type NormalizeRange struct {
	Min, Max int
}

// Node is a single expression-tree node: a tagged struct with typed
// operand slots rather than a boxed interface, per DESIGN.md.
type Node struct {
	Kind NodeKind

	Lit      Data
	SliceLit []Data

	StrType record.StrType
	Label   ikey.Name
	Attr    ikey.Name

	Children []*Node

	Slice     SliceRange
	Bounds    BoundsRange
	Normalize NormalizeRange

	PadChar byte
	PadLen  int
	PadSide Side
	RepeatN int
}

func Literal(d Data) *Node { return &Node{Kind: NLiteral, Lit: d} }

func SliceLiteral(ds []Data) *Node { return &Node{Kind: NSliceLiteral, SliceLit: ds} }

func LabelRef(t record.StrType, label ikey.Name) *Node {
	return &Node{Kind: NLabel, StrType: t, Label: label}
}

func AttrRef(t record.StrType, label, attr ikey.Name) *Node {
	return &Node{Kind: NAttr, StrType: t, Label: label, Attr: attr}
}

func LabelExists(t record.StrType, label ikey.Name) *Node {
	return &Node{Kind: NLabelExists, StrType: t, Label: label}
}

func AttrExists(t record.StrType, label, attr ikey.Name) *Node {
	return &Node{Kind: NAttrExists, StrType: t, Label: label, Attr: attr}
}

func unary(k NodeKind, a *Node) *Node   { return &Node{Kind: k, Children: []*Node{a}} }
func binary(k NodeKind, a, b *Node) *Node {
	return &Node{Kind: k, Children: []*Node{a, b}}
}

func Not(a *Node) *Node     { return unary(NNot, a) }
func Len(a *Node) *Node     { return unary(NLen, a) }
func Rev(a *Node) *Node     { return unary(NRev, a) }
func RevComp(a *Node) *Node { return unary(NRevComp, a) }
func ToInt(a *Node) *Node   { return unary(NToInt, a) }
func ToFloat(a *Node) *Node { return unary(NToFloat, a) }
func ToBytes(a *Node) *Node { return unary(NToBytes, a) }

func Slice(a *Node, r SliceRange) *Node { return &Node{Kind: NSlice, Children: []*Node{a}, Slice: r} }
func Pad(a *Node, ch byte, length int, side Side) *Node {
	return &Node{Kind: NPad, Children: []*Node{a}, PadChar: ch, PadLen: length, PadSide: side}
}
func Repeat(a *Node, n int) *Node {
	return &Node{Kind: NRepeat, Children: []*Node{a}, RepeatN: n}
}
func Normalize(a *Node, r NormalizeRange) *Node {
	return &Node{Kind: NNormalize, Children: []*Node{a}, Normalize: r}
}

func And(a, b *Node) *Node    { return binary(NAnd, a, b) }
func Or(a, b *Node) *Node     { return binary(NOr, a, b) }
func Xor(a, b *Node) *Node    { return binary(NXor, a, b) }
func Add(a, b *Node) *Node    { return binary(NAdd, a, b) }
func Sub(a, b *Node) *Node    { return binary(NSub, a, b) }
func Mul(a, b *Node) *Node    { return binary(NMul, a, b) }
func Div(a, b *Node) *Node    { return binary(NDiv, a, b) }
func Gt(a, b *Node) *Node     { return binary(NGt, a, b) }
func Lt(a, b *Node) *Node     { return binary(NLt, a, b) }
func Ge(a, b *Node) *Node     { return binary(NGe, a, b) }
func Le(a, b *Node) *Node     { return binary(NLe, a, b) }
func Eq(a, b *Node) *Node     { return binary(NEq, a, b) }
func Concat(a, b *Node) *Node { return binary(NConcat, a, b) }

func InBounds(a *Node, r BoundsRange) *Node {
	return &Node{Kind: NInBounds, Children: []*Node{a}, Bounds: r}
}

func ConcatAll(parts ...*Node) *Node { return &Node{Kind: NConcatAll, Children: parts} }

// RequiredNames walks the tree collecting every (StrType,label[,attr])
// reference, so an op can short-circuit to a no-op when any is absent.
type NameRef struct {
	StrType record.StrType
	Label   ikey.Name
	Attr    ikey.Name // zero Name when this ref is a bare label
}

func (n *Node) RequiredNames() []NameRef {
	var out []NameRef
	n.walkNames(&out)
	return out
}

func (n *Node) walkNames(out *[]NameRef) {
	switch n.Kind {
	case NLabel, NLabelExists:
		*out = append(*out, NameRef{StrType: n.StrType, Label: n.Label})
	case NAttr, NAttrExists:
		*out = append(*out, NameRef{StrType: n.StrType, Label: n.Label, Attr: n.Attr})
	}
	for _, c := range n.Children {
		c.walkNames(out)
	}
}
