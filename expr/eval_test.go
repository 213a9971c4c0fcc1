package expr

import (
	"testing"

	"github.com/shenwei356/antiseq/ikey"
	"github.com/shenwei356/antiseq/record"
	"github.com/stretchr/testify/require"
)

func newRead(seq string) *record.Read {
	r := record.NewRead()
	r.SetStr(record.Seq(0), record.NewStrMappings([]byte(seq), nil, "mem", 0))
	return r
}

func TestRevIsInvolution(t *testing.T) {
	n := Rev(LabelRef(record.Seq(0), record.WildcardLabel))
	v, err := n.Eval(newRead("ACGGT"), false)
	require.NoError(t, err)
	require.Equal(t, "TGGCA", string(v.Bytes))

	again := Rev(Literal(v))
	v2, err := again.Eval(newRead(""), false)
	require.NoError(t, err)
	require.Equal(t, "ACGGT", string(v2.Bytes))
}

func TestRevCompIsInvolutionOnACGT(t *testing.T) {
	n := RevComp(LabelRef(record.Seq(0), record.WildcardLabel))
	v, err := n.Eval(newRead("ACGT"), false)
	require.NoError(t, err)
	v2, err := RevComp(Literal(v)).Eval(newRead(""), false)
	require.NoError(t, err)
	require.Equal(t, "ACGT", string(v2.Bytes))
}

func TestSliceContiguousSubrange(t *testing.T) {
	n := Slice(LabelRef(record.Seq(0), record.WildcardLabel), SliceRange{Start: 1, End: 4})
	v, err := n.Eval(newRead("ABCDE"), false)
	require.NoError(t, err)
	require.Equal(t, "BCD", string(v.Bytes))
}

func TestSliceNegativeEnd(t *testing.T) {
	n := Slice(LabelRef(record.Seq(0), record.WildcardLabel), SliceRange{Start: 1, End: -1})
	v, err := n.Eval(newRead("ABCDE"), false)
	require.NoError(t, err)
	require.Equal(t, "BCD", string(v.Bytes))
}

func TestSliceOutOfBoundsErrors(t *testing.T) {
	n := Slice(LabelRef(record.Seq(0), record.WildcardLabel), SliceRange{Start: 0, End: 10})
	_, err := n.Eval(newRead("ABC"), false)
	require.ErrorIs(t, err, ErrBounds)
}

func TestNormalizeLengthAndDeterminism(t *testing.T) {
	n := Normalize(LabelRef(record.Seq(0), record.WildcardLabel), NormalizeRange{Min: 6, Max: 8})
	v1, err := n.Eval(newRead("TTTTTT"), false)
	require.NoError(t, err)
	require.Len(t, v1.Bytes, 9)
	require.Equal(t, "TTTTTTAAG", string(v1.Bytes))

	v2, err := n.Eval(newRead("TTTTTT"), false)
	require.NoError(t, err)
	require.Equal(t, v1.Bytes, v2.Bytes)
}

func TestNormalizeInjectiveOnDistinctLengths(t *testing.T) {
	n := Normalize(LabelRef(record.Seq(0), record.WildcardLabel), NormalizeRange{Min: 6, Max: 8})
	v6, _ := n.Eval(newRead("TTTTTT"), false)
	v7, _ := n.Eval(newRead("TTTTTTT"), false)
	v8, _ := n.Eval(newRead("TTTTTTTT"), false)
	require.NotEqual(t, string(v6.Bytes), string(v7.Bytes))
	require.NotEqual(t, string(v7.Bytes), string(v8.Bytes))
	require.NotEqual(t, string(v6.Bytes), string(v8.Bytes))
}

func TestConstantFoldingPreservesValue(t *testing.T) {
	n := Add(Literal(IntData(2)), Literal(IntData(3)))
	before, err := n.Eval(newRead(""), false)
	require.NoError(t, err)

	folded, err := Fold(n)
	require.NoError(t, err)
	require.Equal(t, NLiteral, folded.Kind)

	after, err := folded.Eval(newRead(""), false)
	require.NoError(t, err)
	require.Equal(t, before, after)
}

func TestConstantFoldingLeavesReferencesAlone(t *testing.T) {
	n := Len(LabelRef(record.Seq(0), record.WildcardLabel))
	folded, err := Fold(n)
	require.NoError(t, err)
	require.Equal(t, NLen, folded.Kind)
}

func TestFormatStringBasic(t *testing.T) {
	resolve := func(ref string) (record.StrType, ikey.Name, ikey.Name, error) {
		switch ref {
		case "name1.*":
			return record.Name(0), record.WildcardLabel, ikey.Name{}, nil
		case "seq1.a":
			return record.Seq(0), ikey.MustNew("a"), ikey.Name{}, nil
		}
		return record.StrType{}, ikey.Name{}, ikey.Name{}, ErrParse
	}
	n, err := FormatString("{name1.*}_{seq1.a}", resolve)
	require.NoError(t, err)

	r := record.NewRead()
	r.SetStr(record.Name(0), record.NewStrMappings([]byte("r1"), nil, "mem", 0))
	sm := record.NewStrMappings([]byte("AAA"), nil, "mem", 0)
	r.SetStr(record.Seq(0), sm)
	require.NoError(t, r.Cut(record.Seq(0), record.WildcardLabel, ikey.MustNew("a"), ikey.Name{}, 3))

	v, err := n.Eval(r, false)
	require.NoError(t, err)
	require.Equal(t, "r1_AAA", string(v.Bytes))
}

func TestFormatStringEscapedBraces(t *testing.T) {
	n, err := FormatString(`\{lit\}`, nil)
	require.NoError(t, err)
	v, err := n.Eval(newRead(""), false)
	require.NoError(t, err)
	require.Equal(t, "{lit}", string(v.Bytes))
}

func TestFormatStringNestedBracesRejected(t *testing.T) {
	_, err := FormatString("{a{b}}", func(string) (record.StrType, ikey.Name, ikey.Name, error) {
		return record.StrType{}, ikey.Name{}, ikey.Name{}, nil
	})
	require.ErrorIs(t, err, ErrParse)
}

func TestInBoundsUnbounded(t *testing.T) {
	n := InBounds(Literal(IntData(100)), BoundsRange{Lo: 5, HiUnbounded: true})
	v, err := n.Eval(newRead(""), false)
	require.NoError(t, err)
	require.True(t, v.Bool)
}

func TestEndToEndCutReverseSlice(t *testing.T) {
	r := record.NewRead()
	r.SetStr(record.Seq(0), record.NewStrMappings([]byte("AAAAACCATTTTT"), []byte("0123456789012"), "mem", 0))

	a, b := ikey.MustNew("a"), ikey.MustNew("b")
	mid, bb := ikey.MustNew("mid"), ikey.MustNew("bb")
	require.NoError(t, r.Cut(record.Seq(0), record.WildcardLabel, a, b, 5))
	require.NoError(t, r.Cut(record.Seq(0), b, mid, bb, 3))

	revVal, err := Rev(LabelRef(record.Seq(0), mid)).Eval(r, false)
	require.NoError(t, err)
	require.NoError(t, r.Set(record.Seq(0), mid, revVal.Bytes, nil))

	sliceVal, err := Slice(LabelRef(record.Seq(0), mid), SliceRange{Start: 1, Unbounded: true}).Eval(r, false)
	require.NoError(t, err)
	require.NoError(t, r.Set(record.Seq(0), mid, sliceVal.Bytes, nil))

	rcVal, err := RevComp(LabelRef(record.Seq(0), mid)).Eval(r, false)
	require.NoError(t, err)
	require.NoError(t, r.Set(record.Seq(0), mid, rcVal.Bytes, nil))

	// a="AAAAA", mid starts as "CCA" -> rev "ACC" -> slice(1..) "CC" -> revcomp "GG", bb="TTTTT".
	whole, err := r.Substring(record.Seq(0), record.WildcardLabel)
	require.NoError(t, err)
	require.Equal(t, "AAAAAGGTTTTT", string(whole))
}
