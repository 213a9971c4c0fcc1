package seed

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFilterNoFalseNegatives(t *testing.T) {
	hashes := []uint64{1, 2, 3, 1000, 123456789, 0}
	f := NewFilter(hashes)
	for _, h := range hashes {
		require.True(t, f.Test(h))
	}
}

func TestFilterLikelyRejectsUnseen(t *testing.T) {
	f := NewFilter([]uint64{1, 2, 3})
	require.False(t, f.Test(999999999))
}

func TestRollHashMatchesFreshWindow(t *testing.T) {
	text := []byte("ACGTACGTAC")
	k := 4
	h := windowHash(text[:k])
	for i := 0; i+k+1 <= len(text); i++ {
		h = rollHash(h, text[i], text[i+k], k)
		require.Equal(t, windowHash(text[i+1:i+1+k]), h)
	}
}

func TestSmallSearcherNoFalseNegatives(t *testing.T) {
	if !AVX2Available {
		t.Skip("no AVX2 on this host; SmallSearcher unavailable per spec")
	}
	lits := [][]byte{[]byte("ACGT"), []byte("TTTT")}
	s, err := NewSmallSearcher(4, lits, []int{0, 1}, []int{0, 0})
	require.NoError(t, err)

	text := []byte("GGACGTGGTTTTGG")
	var hits []SeedMatch
	s.Search(text, func(m SeedMatch) { hits = append(hits, m) })

	foundACGT := false
	foundTTTT := false
	for _, h := range hits {
		if h.PatternIdx == 0 && h.TextI == 2 {
			foundACGT = true
		}
		if h.PatternIdx == 1 && h.TextI == 8 {
			foundTTTT = true
		}
	}
	require.True(t, foundACGT)
	require.True(t, foundTTTT)
}

func TestSmallSearcherRejectsTooManyLiterals(t *testing.T) {
	if !AVX2Available {
		t.Skip("no AVX2 on this host; SmallSearcher unavailable per spec")
	}
	lits := make([][]byte, 9)
	idx := make([]int, 9)
	pidx := make([]int, 9)
	for i := range lits {
		lits[i] = []byte("AC")
		idx[i] = i
	}
	_, err := NewSmallSearcher(2, lits, idx, pidx)
	require.Error(t, err)
}

func TestSmallSearcherRejectsBadK(t *testing.T) {
	if !AVX2Available {
		t.Skip("no AVX2 on this host; SmallSearcher unavailable per spec")
	}
	_, err := NewSmallSearcher(1, [][]byte{[]byte("A")}, []int{0}, []int{0})
	require.Error(t, err)
}

func TestGeneralSearcherFindsExactOccurrences(t *testing.T) {
	lits := [][]byte{[]byte("ACGTACGT")}
	g := NewGeneralSearcher(4, lits, []int{0})

	text := []byte("GGGGACGTACGTGGGG")
	var hits []SeedMatch
	g.Search(text, func(m SeedMatch) { hits = append(hits, m) })

	seenStarts := map[int]bool{}
	for _, h := range hits {
		seenStarts[h.PatternI-h.TextI] = true
	}
	// Every window of the literal must have nominated the same alignment
	// offset (literal start - text start) at some position.
	require.NotEmpty(t, hits)
	foundAligned := false
	for _, h := range hits {
		if h.TextI-h.PatternI == 4 {
			foundAligned = true
		}
	}
	require.True(t, foundAligned)
}

func TestGeneralSearcherSkipsShortLiterals(t *testing.T) {
	g := NewGeneralSearcher(8, [][]byte{[]byte("ACG")}, []int{0})
	var hits []SeedMatch
	g.Search([]byte("ACGACGACGACG"), func(m SeedMatch) { hits = append(hits, m) })
	require.Empty(t, hits)
}
