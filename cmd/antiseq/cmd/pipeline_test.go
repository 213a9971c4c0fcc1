package cmd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/shenwei356/antiseq/graph"
	"github.com/shenwei356/antiseq/record"
)

const onereadFastq = "@r1\nACGTACGTAC\n+\nIIIIIIIIII\n"

func writeTempFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadPipelineFileRejectsMissingFile(t *testing.T) {
	_, err := LoadPipelineFile(filepath.Join(t.TempDir(), "does-not-exist.yaml"))
	require.Error(t, err)
}

func TestBuildPipelineRunsCutTransformAndFastqFileOutput(t *testing.T) {
	dir := t.TempDir()
	in := writeTempFile(t, dir, "in.fastq", onereadFastq)

	yamlDoc := `
input:
  shape: single
  files:
    - ` + in + `
ops:
  - op: cut
    str: seq1
    src: "*"
    left: head
    right: tail
    index: 4
  - op: transform
    transform: "seq1.tail -> seq1.kept"
outputs:
  - type: fastq_file
    mate: 0
    filename: "` + dir + `/{name1.*}.fastq"
`
	pipelinePath := writeTempFile(t, dir, "pipeline.yaml", yamlDoc)

	lp, err := LoadPipelineFile(pipelinePath)
	require.NoError(t, err)
	require.NotNil(t, lp.pipeline)

	runErr := lp.pipeline.Run()
	for _, c := range lp.closers {
		require.NoError(t, c.Close())
	}
	require.NoError(t, runErr)
	require.EqualValues(t, 1, lp.pipeline.Processed())

	data, err := os.ReadFile(filepath.Join(dir, "r1.fastq"))
	require.NoError(t, err)
	require.Contains(t, string(data), "ACGT")
}

func TestBuildOpCutLowersToCutOp(t *testing.T) {
	ops, err := buildOp(opSpec{Op: "cut", Str: "seq1", Src: "*", Left: "a", Right: "b", Index: 3}, nil)
	require.NoError(t, err)
	require.Len(t, ops, 1)
	_, ok := ops[0].(*graph.CutOp)
	require.True(t, ok)
}

func TestBuildOpTransformLowersPositionally(t *testing.T) {
	ops, err := buildOp(opSpec{Op: "transform", Transform: "seq1.a, seq1.b -> seq2.a, _"}, nil)
	require.NoError(t, err)
	require.Len(t, ops, 1)
}

func TestBuildOpUnknownOpErrors(t *testing.T) {
	_, err := buildOp(opSpec{Op: "no-such-op"}, nil)
	require.Error(t, err)
}

func TestBuildMatchAnyResolvesMatchType(t *testing.T) {
	ops, err := buildMatchAny(opSpec{
		Str:         "seq1",
		Input:       "*",
		MatchType:   "hamming_search",
		TauAbs:      2,
		Patterns:    []string{"ACGT"},
		OutputsList: []string{"hit_left", "hit_match", "hit_right"},
	})
	require.NoError(t, err)
	require.Len(t, ops, 1)
	op, ok := ops[0].(*graph.MatchAnyOp)
	require.True(t, ok)
	require.Len(t, op.OutputLabels, 3)
}

func TestParseMatchTypeRejectsUnknownTag(t *testing.T) {
	_, err := parseMatchType(opSpec{MatchType: "not-a-real-type"})
	require.Error(t, err)
}

func TestParseMatchTypePrefersFracTauWhenSet(t *testing.T) {
	mt, err := parseMatchType(opSpec{MatchType: "hamming", TauAbs: 5, TauFrac: 0.1})
	require.NoError(t, err)
	require.True(t, mt.Tau.IsFrac)
}

func TestNameOrWildcardDefaultsToWildcard(t *testing.T) {
	n, err := nameOrWildcard("")
	require.NoError(t, err)
	require.Equal(t, record.WildcardLabel, n)

	n, err = nameOrWildcard("*")
	require.NoError(t, err)
	require.Equal(t, record.WildcardLabel, n)
}

func TestNameOrEmptyLeavesBlankAsZeroValue(t *testing.T) {
	n, err := nameOrEmpty("")
	require.NoError(t, err)
	require.True(t, n.IsEmpty())
}

func TestNameListResolvesEveryEntry(t *testing.T) {
	names, err := nameList([]string{"a", "*", "b"})
	require.NoError(t, err)
	require.Len(t, names, 3)
	require.Equal(t, record.WildcardLabel, names[1])
}
