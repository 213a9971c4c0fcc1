package graph

import (
	"bytes"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"

	"github.com/shenwei356/antiseq/expr"
	"github.com/shenwei356/antiseq/ikey"
	"github.com/shenwei356/antiseq/pattern"
	"github.com/shenwei356/antiseq/record"
)

var errNoSuchRef = errors.New("no such ref")

func newTestRead(seq, qual string) *record.Read {
	r := record.NewRead()
	var q []byte
	if qual != "" {
		q = []byte(qual)
	}
	r.SetStr(record.Seq(0), record.NewStrMappings([]byte(seq), q, "mem", 0))
	r.SetStr(record.Name(0), record.NewStrMappings([]byte("r1"), nil, "mem", 0))
	return r
}

func mustName(s string) ikey.Name { return ikey.MustNew(s) }

// TestCutReverseSliceScenario reproduces the end-to-end pipeline from
// the cut/reverse/slice scenario: cut * @5 -> a,b; cut b @3 -> mid,bb;
// set mid = rev(mid); set mid = slice(mid,1..); set mid = revcomp(mid).
func TestCutReverseSliceScenario(t *testing.T) {
	r := newTestRead("AAAAACCATTTTT", "0123456789012")
	seq := record.Seq(0)

	a, b := mustName("a"), mustName("b")
	require.NoError(t, r.Cut(seq, record.WildcardLabel, a, b, 5))

	mid, bb := mustName("mid"), mustName("bb")
	require.NoError(t, r.Cut(seq, b, mid, bb, 3))

	ops := []Op{
		&SetOp{StrType: seq, Label: mid, Expr: expr.Rev(expr.LabelRef(seq, mid))},
		&SetOp{StrType: seq, Label: mid, Expr: expr.Slice(expr.LabelRef(seq, mid), expr.SliceRange{Start: 1, Unbounded: true})},
		&SetOp{StrType: seq, Label: mid, Expr: expr.RevComp(expr.LabelRef(seq, mid))},
	}
	for _, op := range ops {
		_, _, err := op.Run(r)
		require.NoError(t, err)
	}

	aBytes, err := r.Substring(seq, a)
	require.NoError(t, err)
	midBytes, err := r.Substring(seq, mid)
	require.NoError(t, err)
	bbBytes, err := r.Substring(seq, bb)
	require.NoError(t, err)

	require.Equal(t, "AAAAA", string(aBytes))
	require.Equal(t, "TTTTT", string(bbBytes))
	// mid traces as rev("CCA")="ACC", slice(1..)="CC", revcomp("CC")="GG".
	require.Equal(t, "GG", string(midBytes))

	full, err := r.Substring(seq, record.WildcardLabel)
	require.NoError(t, err)
	require.Equal(t, "AAAAAGGTTTTT", string(full))
}

func TestSetOpKeepsQualLengthInSync(t *testing.T) {
	r := newTestRead("ACGTACGT", "IIIIIIII")
	seq := record.Seq(0)
	op := &SetOp{StrType: seq, Label: record.WildcardLabel, Expr: expr.Literal(expr.BytesData([]byte("AC")))}
	_, _, err := op.Run(r)
	require.NoError(t, err)
	b, err := r.Substring(seq, record.WildcardLabel)
	require.NoError(t, err)
	q, ok, err := r.SubstringQual(seq, record.WildcardLabel)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, len(b), len(q))
}

func TestRetainOpDropsOnFalse(t *testing.T) {
	r := newTestRead("ACGT", "")
	op := &RetainOp{Expr: expr.Literal(expr.BoolData(false))}
	out, _, err := op.Run(r)
	require.NoError(t, err)
	require.Nil(t, out)
}

func TestRetainOpKeepsOnTrue(t *testing.T) {
	r := newTestRead("ACGT", "")
	op := &RetainOp{Expr: expr.Literal(expr.BoolData(true))}
	out, _, err := op.Run(r)
	require.NoError(t, err)
	require.NotNil(t, out)
}

// TestForkScenario matches the fork end-to-end scenario: after
// cut * @3 -> a,b, a fork writes an annotated name.1.* on its own
// clone while the parent's name and sequence are untouched by the
// fork, and a subsequent trim(a) on the parent removes "a" only there.
func TestForkScenario(t *testing.T) {
	r := newTestRead("AAABBB", "")
	seq, name := record.Seq(0), record.Name(0)
	a, b := mustName("a"), mustName("b")
	require.NoError(t, r.Cut(seq, record.WildcardLabel, a, b, 3))

	forkNameExpr := expr.ConcatAll(
		expr.LabelRef(name, record.WildcardLabel),
		expr.Literal(expr.BytesData([]byte("_"))),
		expr.LabelRef(seq, a),
	)
	fork := &ForkOp{SubGraph: []Op{
		&SetOp{StrType: name, Label: record.WildcardLabel, Expr: forkNameExpr},
	}}
	_, _, err := fork.Run(r)
	require.NoError(t, err)

	parentName, err := r.Substring(name, record.WildcardLabel)
	require.NoError(t, err)
	require.Equal(t, "r1", string(parentName))

	trim := &TrimOp{StrType: seq, Labels: []ikey.Name{a}}
	_, _, err = trim.Run(r)
	require.NoError(t, err)
	remaining, err := r.Substring(seq, record.WildcardLabel)
	require.NoError(t, err)
	require.Equal(t, "BBB", string(remaining))
}

// TestFilterAllowlistScenario matches the filter-by-allowlist scenario.
func TestFilterAllowlistScenario(t *testing.T) {
	allow := []string{"ACGTAC", "TGCAAA"}
	seq := record.Seq(0)
	brc := mustName("brc")
	f := mustName("_f")

	for _, tc := range []struct {
		in   string
		want record.AttrValue
	}{
		{"ACGTAC", record.BytesAttr([]byte("ACGTAC"))},
		{"ACGTAG", record.BytesAttr([]byte("ACGTAC"))},
		{"GGGGGG", record.BoolAttr(false)},
	} {
		r := newTestRead(tc.in, "")
		require.NoError(t, r.Cut(seq, record.WildcardLabel, brc, ikey.Name{}, len(tc.in)))
		require.NoError(t, r.Filter(seq, brc, f, allow, 1))
		m, err := r.Mapping(seq, brc)
		require.NoError(t, err)
		v, ok := m.Attrs[f]
		require.True(t, ok)
		require.Equal(t, tc.want.Kind, v.Kind)
		if tc.want.Kind == record.AttrBytes {
			require.True(t, bytes.Equal(tc.want.Bytes, v.Bytes))
		} else {
			require.Equal(t, tc.want.B, v.B)
		}
	}
}

func TestFormatExpressionScenario(t *testing.T) {
	r := newTestRead("AAA", "")
	seq, name := record.Seq(0), record.Name(0)

	resolve := func(ref string) (record.StrType, ikey.Name, ikey.Name, error) {
		switch ref {
		case "name1.*":
			return name, record.WildcardLabel, ikey.Name{}, nil
		case "seq1.a":
			return seq, mustName("a"), ikey.Name{}, nil
		}
		return record.StrType{}, ikey.Name{}, ikey.Name{}, errNoSuchRef
	}
	require.NoError(t, r.Cut(seq, record.WildcardLabel, mustName("a"), ikey.Name{}, 3))

	n, err := expr.FormatString("{name1.*}_{seq1.a}", resolve)
	require.NoError(t, err)
	v, err := n.Eval(r, false)
	require.NoError(t, err)
	require.Equal(t, "r1_AAA", string(v.Bytes))

	esc, err := expr.FormatString(`\{lit\}`, resolve)
	require.NoError(t, err)
	v2, err := esc.Eval(r, false)
	require.NoError(t, err)
	require.Equal(t, "{lit}", string(v2.Bytes))
}

func TestMatchAnyHammingSearchSplitsThreeWays(t *testing.T) {
	r := newTestRead("AAAAAAAAAACAGAGCTTTTTTTTCCCCCCCCCC", "")
	seq := record.Seq(0)
	before, anchor, after := mustName("bc1"), mustName("anchor"), mustName("after")

	pats := &pattern.Patterns{Items: []pattern.Pattern{{Kind: pattern.KindLiteral, Literal: []byte("CAGAGC")}}}
	op := &MatchAnyOp{
		StrType:      seq,
		InputLabel:   record.WildcardLabel,
		Patterns:     pats,
		MatchType:    pattern.MatchType{Tag: pattern.HammingSearch, Tau: pattern.FracTau(0.8)},
		OutputLabels: []ikey.Name{before, anchor, after},
	}
	_, _, err := op.Run(r)
	require.NoError(t, err)

	bcBytes, err := r.Substring(seq, before)
	require.NoError(t, err)
	afterBytes, err := r.Substring(seq, after)
	require.NoError(t, err)
	require.Equal(t, "AAAAAAAAAA", string(bcBytes))
	require.Equal(t, "TTTTTTTTCCCCCCCCCC", string(afterBytes))
}
