package expr

import (
	"github.com/shenwei356/bio/seq"

	"github.com/shenwei356/antiseq/record"
)

// Eval evaluates the node against read. useQual selects "quality
// mode": Label yields quality bytes instead of sequence bytes, and
// Attr's bytes are replaced with a same-length run of the
// unknown-quality sentinel. Eval is re-entrant and never mutates read.
func (n *Node) Eval(read *record.Read, useQual bool) (EvalData, error) {
	switch n.Kind {
	case NLiteral:
		return n.Lit, nil

	case NLabel:
		if useQual {
			q, ok, err := read.SubstringQual(n.StrType, n.Label)
			if err != nil {
				return EvalData{}, err
			}
			if !ok {
				b, err := read.Substring(n.StrType, n.Label)
				if err != nil {
					return EvalData{}, err
				}
				return BytesData(repeatByte('I', len(b))), nil
			}
			return BorrowedBytes(q), nil
		}
		b, err := read.Substring(n.StrType, n.Label)
		if err != nil {
			return EvalData{}, err
		}
		return BorrowedBytes(b), nil

	case NAttr:
		m, err := read.Mapping(n.StrType, n.Label)
		if err != nil {
			return EvalData{}, err
		}
		v, ok := m.Attrs[n.Attr]
		if !ok {
			return EvalData{}, nameErr(n.StrType, n.Attr)
		}
		ev := attrToEval(v)
		if useQual && ev.Kind == KindBytes {
			return BytesData(repeatByte('I', len(ev.Bytes))), nil
		}
		return ev, nil

	case NLabelExists:
		_, err := read.Mapping(n.StrType, n.Label)
		return BoolData(err == nil), nil

	case NAttrExists:
		m, err := read.Mapping(n.StrType, n.Label)
		if err != nil {
			return BoolData(false), nil
		}
		_, ok := m.Attrs[n.Attr]
		return BoolData(ok), nil

	case NSliceLiteral:
		return EvalData{}, typeErr("slice-literal is not directly evaluable")

	case NNot:
		a, err := n.Children[0].Eval(read, useQual)
		if err != nil {
			return EvalData{}, err
		}
		if a.Kind != KindBool {
			return EvalData{}, typeErr("not", a.Kind)
		}
		return BoolData(!a.Bool), nil

	case NLen:
		a, err := n.Children[0].Eval(read, useQual)
		if err != nil {
			return EvalData{}, err
		}
		if a.Kind != KindBytes {
			return EvalData{}, typeErr("len", a.Kind)
		}
		return IntData(int64(len(a.Bytes))), nil

	case NRev:
		a, err := n.Children[0].Eval(read, useQual)
		if err != nil {
			return EvalData{}, err
		}
		if a.Kind != KindBytes {
			return EvalData{}, typeErr("rev", a.Kind)
		}
		return BytesData(reversed(a)), nil

	case NRevComp:
		a, err := n.Children[0].Eval(read, useQual)
		if err != nil {
			return EvalData{}, err
		}
		if a.Kind != KindBytes {
			return EvalData{}, typeErr("revcomp", a.Kind)
		}
		if useQual {
			return BytesData(reversed(a)), nil
		}
		s, err := seq.NewSeq(seq.DNAredundant, append([]byte(nil), a.Bytes...))
		if err != nil {
			return EvalData{}, typeErr("revcomp", a.Kind)
		}
		s.RevComInplace()
		return BytesData(s.Seq), nil

	case NToInt, NToFloat, NToBytes:
		return n.evalConvert(read, useQual)

	case NSlice:
		return n.evalSlice(read, useQual)

	case NPad:
		return n.evalPad(read, useQual)

	case NRepeat:
		a, err := n.Children[0].Eval(read, useQual)
		if err != nil {
			return EvalData{}, err
		}
		if a.Kind != KindBytes {
			return EvalData{}, typeErr("repeat", a.Kind)
		}
		out := make([]byte, 0, len(a.Bytes)*n.RepeatN)
		for i := 0; i < n.RepeatN; i++ {
			out = append(out, a.Bytes...)
		}
		return BytesData(out), nil

	case NNormalize:
		return n.evalNormalize(read, useQual)

	case NAnd, NOr, NXor:
		return n.evalBoolBinary(read, useQual)

	case NAdd, NSub, NMul, NDiv:
		return n.evalArith(read, useQual)

	case NGt, NLt, NGe, NLe, NEq:
		return n.evalCompare(read, useQual)

	case NConcat:
		a, err := n.Children[0].Eval(read, useQual)
		if err != nil {
			return EvalData{}, err
		}
		b, err := n.Children[1].Eval(read, useQual)
		if err != nil {
			return EvalData{}, err
		}
		if a.Kind != KindBytes || b.Kind != KindBytes {
			return EvalData{}, typeErr("concat", a.Kind, b.Kind)
		}
		out := make([]byte, 0, len(a.Bytes)+len(b.Bytes))
		out = append(out, a.Bytes...)
		out = append(out, b.Bytes...)
		return BytesData(out), nil

	case NInBounds:
		a, err := n.Children[0].Eval(read, useQual)
		if err != nil {
			return EvalData{}, err
		}
		if a.Kind != KindInt {
			return EvalData{}, typeErr("in_bounds", a.Kind)
		}
		r := n.Bounds
		if a.Int < int64(r.Lo) {
			return BoolData(false), nil
		}
		if r.HiUnbounded {
			return BoolData(true), nil
		}
		if r.HiInclusive {
			return BoolData(a.Int <= int64(r.Hi)), nil
		}
		return BoolData(a.Int < int64(r.Hi)), nil

	case NConcatAll:
		var out []byte
		for _, c := range n.Children {
			v, err := c.Eval(read, useQual)
			if err != nil {
				return EvalData{}, err
			}
			if v.Kind != KindBytes {
				return EvalData{}, typeErr("concat_all", v.Kind)
			}
			out = append(out, v.Bytes...)
		}
		return BytesData(out), nil
	}
	return EvalData{}, typeErr("unknown node kind")
}

func attrToEval(v record.AttrValue) EvalData {
	return EvalData{
		Kind:  Kind(v.Kind),
		Bool:  v.B,
		Int:   v.I,
		Float: v.F,
		Bytes: v.Bytes,
	}
}

func repeatByte(c byte, n int) []byte {
	out := make([]byte, n)
	for i := range out {
		out[i] = c
	}
	return out
}

func reversed(a EvalData) []byte {
	out := make([]byte, len(a.Bytes))
	for i, b := range a.Bytes {
		out[len(out)-1-i] = b
	}
	return out
}

func (n *Node) evalConvert(read *record.Read, useQual bool) (EvalData, error) {
	a, err := n.Children[0].Eval(read, useQual)
	if err != nil {
		return EvalData{}, err
	}
	switch n.Kind {
	case NToInt:
		switch a.Kind {
		case KindInt:
			return a, nil
		case KindFloat:
			return IntData(int64(a.Float)), nil
		default:
			return EvalData{}, typeErr("int", a.Kind)
		}
	case NToFloat:
		switch a.Kind {
		case KindFloat:
			return a, nil
		case KindInt:
			return FloatData(float64(a.Int)), nil
		default:
			return EvalData{}, typeErr("float", a.Kind)
		}
	default: // NToBytes
		switch a.Kind {
		case KindBytes:
			return a, nil
		default:
			return EvalData{}, typeErr("bytes", a.Kind)
		}
	}
}

func resolveEnd(end int, unbounded bool, length int) int {
	if unbounded {
		return length
	}
	if end < 0 {
		end = length + end
	}
	return end
}

func resolveStart(start, length int) int {
	if start < 0 {
		start = length + start
	}
	return start
}

func (n *Node) evalSlice(read *record.Read, useQual bool) (EvalData, error) {
	a, err := n.Children[0].Eval(read, useQual)
	if err != nil {
		return EvalData{}, err
	}
	if a.Kind != KindBytes {
		return EvalData{}, typeErr("slice", a.Kind)
	}
	length := len(a.Bytes)
	s := resolveStart(n.Slice.Start, length)
	e := resolveEnd(n.Slice.End, n.Slice.Unbounded, length)
	if s < 0 || e > length || s > e {
		return EvalData{}, boundsErr(s, e, length)
	}
	if a.Borrowed {
		return BorrowedBytes(a.Bytes[s:e]), nil
	}
	return BytesData(append([]byte(nil), a.Bytes[s:e]...)), nil
}

func (n *Node) evalPad(read *record.Read, useQual bool) (EvalData, error) {
	a, err := n.Children[0].Eval(read, useQual)
	if err != nil {
		return EvalData{}, err
	}
	if a.Kind != KindBytes {
		return EvalData{}, typeErr("pad", a.Kind)
	}
	if len(a.Bytes) >= n.PadLen {
		return BytesData(append([]byte(nil), a.Bytes...)), nil
	}
	pad := repeatByte(n.PadChar, n.PadLen-len(a.Bytes))
	var out []byte
	if n.PadSide == Left {
		out = append(append([]byte(nil), pad...), a.Bytes...)
	} else {
		out = append(append([]byte(nil), a.Bytes...), pad...)
	}
	return BytesData(out), nil
}

// evalNormalize implements spec §4.2's normalize(range=[min,max]):
// right-pad to Max with 'A', then append ceil(log2(max-min+1)/2)
// base-4 digits encoding max-len(s).
func (n *Node) evalNormalize(read *record.Read, useQual bool) (EvalData, error) {
	a, err := n.Children[0].Eval(read, useQual)
	if err != nil {
		return EvalData{}, err
	}
	if a.Kind != KindBytes {
		return EvalData{}, typeErr("normalize", a.Kind)
	}
	padChar := byte('A')
	if useQual {
		padChar = 'I'
	}
	min, max := n.Normalize.Min, n.Normalize.Max
	if len(a.Bytes) > max || len(a.Bytes) < min {
		return EvalData{}, boundsErr(min, max, len(a.Bytes))
	}
	digits := normalizeDigits(max, min)
	out := make([]byte, 0, max+digits)
	out = append(out, a.Bytes...)
	for len(out) < max {
		out = append(out, padChar)
	}
	padCount := max - len(a.Bytes)
	base4 := encodeBase4(padCount, digits, useQual)
	out = append(out, base4...)
	return BytesData(out), nil
}

func normalizeDigits(max, min int) int {
	span := max - min + 1
	bits := bitLen(span)
	return (bits + 1) / 2
}

// bitLen returns ceil(log2(n)) for n >= 1.
func bitLen(n int) int {
	b := 0
	for (1 << uint(b)) < n {
		b++
	}
	return b
}

// base4Alphabet maps base-4 digits 0..3 to distinct nucleotide
// symbols so the suffix stays distinguishable from padding by
// position only, not by character identity.
var base4Alphabet = [4]byte{'A', 'C', 'G', 'T'}

func encodeBase4(v, digits int, useQual bool) []byte {
	if useQual {
		return repeatByte('I', digits)
	}
	out := make([]byte, digits)
	for i := digits - 1; i >= 0; i-- {
		out[i] = base4Alphabet[v%4]
		v /= 4
	}
	return out
}

func (n *Node) evalBoolBinary(read *record.Read, useQual bool) (EvalData, error) {
	a, err := n.Children[0].Eval(read, useQual)
	if err != nil {
		return EvalData{}, err
	}
	b, err := n.Children[1].Eval(read, useQual)
	if err != nil {
		return EvalData{}, err
	}
	if a.Kind != KindBool || b.Kind != KindBool {
		return EvalData{}, typeErr("bool-op", a.Kind, b.Kind)
	}
	switch n.Kind {
	case NAnd:
		return BoolData(a.Bool && b.Bool), nil
	case NOr:
		return BoolData(a.Bool || b.Bool), nil
	default: // NXor
		return BoolData(a.Bool != b.Bool), nil
	}
}

func (n *Node) evalArith(read *record.Read, useQual bool) (EvalData, error) {
	a, err := n.Children[0].Eval(read, useQual)
	if err != nil {
		return EvalData{}, err
	}
	b, err := n.Children[1].Eval(read, useQual)
	if err != nil {
		return EvalData{}, err
	}
	if a.Kind != b.Kind || (a.Kind != KindInt && a.Kind != KindFloat) {
		return EvalData{}, typeErr("arith", a.Kind, b.Kind)
	}
	if a.Kind == KindInt {
		switch n.Kind {
		case NAdd:
			return IntData(a.Int + b.Int), nil
		case NSub:
			return IntData(a.Int - b.Int), nil
		case NMul:
			return IntData(a.Int * b.Int), nil
		default:
			return IntData(a.Int / b.Int), nil
		}
	}
	switch n.Kind {
	case NAdd:
		return FloatData(a.Float + b.Float), nil
	case NSub:
		return FloatData(a.Float - b.Float), nil
	case NMul:
		return FloatData(a.Float * b.Float), nil
	default:
		return FloatData(a.Float / b.Float), nil
	}
}

func (n *Node) evalCompare(read *record.Read, useQual bool) (EvalData, error) {
	a, err := n.Children[0].Eval(read, useQual)
	if err != nil {
		return EvalData{}, err
	}
	b, err := n.Children[1].Eval(read, useQual)
	if err != nil {
		return EvalData{}, err
	}
	if n.Kind == NEq {
		return BoolData(equalData(a, b)), nil
	}
	if a.Kind != b.Kind || (a.Kind != KindInt && a.Kind != KindFloat) {
		return EvalData{}, typeErr("compare", a.Kind, b.Kind)
	}
	var cmp int
	if a.Kind == KindInt {
		switch {
		case a.Int < b.Int:
			cmp = -1
		case a.Int > b.Int:
			cmp = 1
		}
	} else {
		switch {
		case a.Float < b.Float:
			cmp = -1
		case a.Float > b.Float:
			cmp = 1
		}
	}
	switch n.Kind {
	case NGt:
		return BoolData(cmp > 0), nil
	case NLt:
		return BoolData(cmp < 0), nil
	case NGe:
		return BoolData(cmp >= 0), nil
	default: // NLe
		return BoolData(cmp <= 0), nil
	}
}

func equalData(a, b EvalData) bool {
	if a.Kind != b.Kind {
		return false
	}
	switch a.Kind {
	case KindBool:
		return a.Bool == b.Bool
	case KindInt:
		return a.Int == b.Int
	case KindFloat:
		return a.Float == b.Float
	default:
		if len(a.Bytes) != len(b.Bytes) {
			return false
		}
		for i := range a.Bytes {
			if a.Bytes[i] != b.Bytes[i] {
				return false
			}
		}
		return true
	}
}
