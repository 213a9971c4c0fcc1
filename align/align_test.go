package align

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGlobalAlignExactMatch(t *testing.T) {
	a := NewGlobalLocalAligner(false, 100)
	res, ok := a.Align([]byte("ACGTACGT"), []byte("ACGTACGT"), 0.9, 0.9)
	require.True(t, ok)
	require.Equal(t, 8, res.Matches)
}

func TestLocalAlignFindsEmbeddedMatch(t *testing.T) {
	a := NewGlobalLocalAligner(true, 100)
	res, ok := a.Align([]byte("CAGAGC"), []byte("AAAAAAAAAACAGAGCTTTTTTTT"), 0.8, 0.8)
	require.True(t, ok)
	require.GreaterOrEqual(t, res.Matches, 5)
}

func TestGlobalAlignRejectsBelowThreshold(t *testing.T) {
	a := NewGlobalLocalAligner(false, 100)
	_, ok := a.Align([]byte("AAAAAAAA"), []byte("TTTTTTTT"), 0.5, 0.5)
	require.False(t, ok)
}

func TestBuffersReusedAcrossCalls(t *testing.T) {
	a := NewGlobalLocalAligner(true, 100)
	_, _ = a.Align([]byte("ACGT"), []byte("ACGTACGT"), 0, 0)
	cap1 := cap(a.buffers.rows)
	_, _ = a.Align([]byte("AC"), []byte("ACGT"), 0, 0)
	require.Equal(t, cap1, cap(a.buffers.rows))
}

func TestPrefixSuffixAlignerSuffix(t *testing.T) {
	a := NewPrefixSuffixAligner(false, 100)
	res, ok := a.Align([]byte("CCCCCCCCCC"), []byte("AAAAAAAAAACAGAGCTTTTTTTTCCCCCCCCCC"), 0.8, 0.8)
	require.True(t, ok)
	require.Greater(t, res.Matches, 0)
}
