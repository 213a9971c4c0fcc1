package record

import (
	"testing"

	"github.com/shenwei356/antiseq/ikey"
	"github.com/stretchr/testify/require"
)

func newTestRead(seq, qual string) *Read {
	r := NewRead()
	q := []byte(qual)
	if qual == "" {
		q = nil
	}
	r.SetStr(Seq(0), NewStrMappings([]byte(seq), q, "mem", 0))
	r.SetStr(Name(0), NewStrMappings([]byte("r1"), nil, "mem", 0))
	return r
}

func TestWildcardSpansWhole(t *testing.T) {
	r := newTestRead("ACGTACGT", "")
	b, err := r.Substring(Seq(0), WildcardLabel)
	require.NoError(t, err)
	require.Equal(t, "ACGTACGT", string(b))
}

func TestCutAndConcatIsOriginal(t *testing.T) {
	r := newTestRead("AAAAACCATTTTT", "")
	a, b := ikey.MustNew("a"), ikey.MustNew("b")
	require.NoError(t, r.Cut(Seq(0), WildcardLabel, a, b, 5))
	left, err := r.Substring(Seq(0), a)
	require.NoError(t, err)
	right, err := r.Substring(Seq(0), b)
	require.NoError(t, err)
	require.Equal(t, "AAAAACCATTTTT", string(left)+string(right))
}

func TestCutOutOfBounds(t *testing.T) {
	r := newTestRead("ACGT", "")
	err := r.Cut(Seq(0), WildcardLabel, ikey.MustNew("a"), ikey.MustNew("b"), 10)
	require.ErrorIs(t, err, ErrOutOfBounds)
}

func TestCutNegativeIndex(t *testing.T) {
	r := newTestRead("ACGTACGT", "")
	a, b := ikey.MustNew("a"), ikey.MustNew("b")
	require.NoError(t, r.Cut(Seq(0), WildcardLabel, a, b, -3))
	left, _ := r.Substring(Seq(0), a)
	right, _ := r.Substring(Seq(0), b)
	require.Equal(t, "ACGTA", string(left))
	require.Equal(t, "CGT", string(right))
}

func TestIntersectAndUnion(t *testing.T) {
	r := newTestRead("ACGTACGT", "")
	a, b := ikey.MustNew("a"), ikey.MustNew("b")
	require.NoError(t, r.Cut(Seq(0), WildcardLabel, a, ikey.Name{}, 5))
	require.NoError(t, r.Cut(Seq(0), WildcardLabel, ikey.Name{}, b, 3))
	inter := ikey.MustNew("inter")
	require.NoError(t, r.Intersect(Seq(0), a, b, inter))
	im, err := r.Mapping(Seq(0), inter)
	require.NoError(t, err)
	require.Equal(t, 3, im.Start)
	require.Equal(t, 2, im.Len)

	uni := ikey.MustNew("uni")
	require.NoError(t, r.Union(Seq(0), a, b, uni))
	um, err := r.Mapping(Seq(0), uni)
	require.NoError(t, err)
	require.Equal(t, 0, um.Start)
	require.Equal(t, 8, um.Len)
}

func TestSetRebalancesMappings(t *testing.T) {
	r := newTestRead("AAAAACCATTTTT", "0123456789012")
	a, mid, bIdx := ikey.MustNew("a"), ikey.MustNew("mid"), ikey.MustNew("b")
	require.NoError(t, r.Cut(Seq(0), WildcardLabel, a, bIdx, 5))
	require.NoError(t, r.Cut(Seq(0), bIdx, mid, bIdx, 3))

	require.NoError(t, r.Set(Seq(0), mid, []byte("TT"), nil))

	wc, err := r.Mapping(Seq(0), WildcardLabel)
	require.NoError(t, err)
	require.Equal(t, 12, wc.Len)

	bm, err := r.Mapping(Seq(0), bIdx)
	require.NoError(t, err)
	require.Equal(t, 7, bm.Start)
	require.Equal(t, 5, bm.Len)
}

func TestSetErrorsOnMappingWhollyInsideModifiedRegion(t *testing.T) {
	r := newTestRead("AAAAACCATTTTT", "")
	outerA, outerB := ikey.MustNew("outerA"), ikey.MustNew("outerB")
	require.NoError(t, r.Cut(Seq(0), WildcardLabel, outerA, outerB, 3))
	mid, tail := ikey.MustNew("mid"), ikey.MustNew("tail")
	require.NoError(t, r.Cut(Seq(0), outerB, mid, tail, 4))

	err := r.Set(Seq(0), outerB, []byte("XXXXXXXXXX"), nil)
	require.ErrorIs(t, err, ErrOutOfBounds)
}

func TestTrimRebalances(t *testing.T) {
	r := newTestRead("AAAAACCATTTTT", "")
	a, b := ikey.MustNew("a"), ikey.MustNew("b")
	require.NoError(t, r.Cut(Seq(0), WildcardLabel, a, b, 3))
	require.NoError(t, r.Trim(Seq(0), []ikey.Name{a}))
	rest, err := r.Substring(Seq(0), b)
	require.NoError(t, err)
	require.Equal(t, "AACCATTTTT", string(rest))
	_, err = r.Substring(Seq(0), a)
	require.ErrorIs(t, err, ErrNotInRead)
}

func TestRemoveInternal(t *testing.T) {
	r := newTestRead("ACGTACGT", "")
	internal := ikey.MustNew("_tmp")
	require.NoError(t, r.Cut(Seq(0), WildcardLabel, internal, ikey.Name{}, 4))
	r.RemoveInternal()
	_, err := r.Mapping(Seq(0), internal)
	require.ErrorIs(t, err, ErrNotInRead)
}

func TestFilterExactMatch(t *testing.T) {
	r := newTestRead("ACGTAC", "")
	require.NoError(t, r.Set(Seq(0), WildcardLabel, []byte("ACGTAC"), nil))
	allow := []string{"ACGTAC", "TGCAAA"}
	attr := ikey.MustNew("_f")

	require.NoError(t, r.Filter(Seq(0), WildcardLabel, attr, allow, 1))
	m, err := r.Mapping(Seq(0), WildcardLabel)
	require.NoError(t, err)
	v, ok := m.attr(attr)
	require.True(t, ok)
	require.Equal(t, AttrBytes, v.Kind)
	require.Equal(t, "ACGTAC", string(v.Bytes))
}

func TestFilterMismatchWithinTolerance(t *testing.T) {
	r := newTestRead("ACGTAG", "")
	allow := []string{"ACGTAC", "TGCAAA"}
	attr := ikey.MustNew("_f")
	require.NoError(t, r.Filter(Seq(0), WildcardLabel, attr, allow, 1))
	m, _ := r.Mapping(Seq(0), WildcardLabel)
	v, _ := m.attr(attr)
	require.Equal(t, "ACGTAC", string(v.Bytes))
}

func TestFilterNoMatch(t *testing.T) {
	r := newTestRead("GGGGGG", "")
	allow := []string{"ACGTAC", "TGCAAA"}
	attr := ikey.MustNew("_f")
	require.NoError(t, r.Filter(Seq(0), WildcardLabel, attr, allow, 1))
	m, _ := r.Mapping(Seq(0), WildcardLabel)
	v, _ := m.attr(attr)
	require.Equal(t, AttrBool, v.Kind)
	require.False(t, v.B)
}

func TestToFastqSynthesizesQuality(t *testing.T) {
	r := newTestRead("ACGT", "")
	name, seq, qual, err := r.ToFastq(0)
	require.NoError(t, err)
	require.Equal(t, "r1", string(name))
	require.Equal(t, "ACGT", string(seq))
	require.Equal(t, "IIII", string(qual))
}

func TestCloneIsIndependent(t *testing.T) {
	r := newTestRead("ACGT", "0123")
	c := r.Clone()
	require.NoError(t, c.Set(Seq(0), WildcardLabel, []byte("TTTT"), nil))
	orig, _ := r.Substring(Seq(0), WildcardLabel)
	require.Equal(t, "ACGT", string(orig))
}

func TestInvariantWildcardSpansWholeAfterOps(t *testing.T) {
	r := newTestRead("AAAAACCATTTTT", "0123456789012")
	a, b := ikey.MustNew("a"), ikey.MustNew("b")
	require.NoError(t, r.Cut(Seq(0), WildcardLabel, a, b, 5))
	require.NoError(t, r.Set(Seq(0), a, []byte("X"), nil))
	wc, err := r.Mapping(Seq(0), WildcardLabel)
	require.NoError(t, err)
	sm := r.Strs[Seq(0)]
	require.Equal(t, len(sm.Bytes), wc.Len)
	require.Equal(t, 0, wc.Start)
}
