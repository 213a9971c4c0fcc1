package pattern

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTauResolveAbsoluteIgnoresLength(t *testing.T) {
	require.Equal(t, 2, AbsTau(2).Resolve(10))
}

func TestTauResolveFractionalScalesWithLength(t *testing.T) {
	require.Equal(t, 2, FracTau(0.2).Resolve(10))
}

func TestNumMappingsMatchesVerifierTable(t *testing.T) {
	require.Equal(t, 1, MatchType{Tag: Exact}.NumMappings())
	require.Equal(t, 3, MatchType{Tag: ExactSearch}.NumMappings())
	require.Equal(t, 2, MatchType{Tag: GlobalAln}.NumMappings())
}

func TestVerifyExactRequiresFullEquality(t *testing.T) {
	start, end, matches, ok := Verify(MatchType{Tag: Exact}, []byte("ACGT"), []byte("ACGT"), nil, nil, nil, nil)
	require.True(t, ok)
	require.Equal(t, 0, start)
	require.Equal(t, 4, end)
	require.Equal(t, 4, matches)

	_, _, _, ok = Verify(MatchType{Tag: Exact}, []byte("ACGT"), []byte("ACGG"), nil, nil, nil, nil)
	require.False(t, ok)
}

func TestVerifyExactSearchFindsSubstring(t *testing.T) {
	start, end, matches, ok := Verify(MatchType{Tag: ExactSearch}, []byte("CGT"), []byte("AACGTAA"), nil, nil, nil, nil)
	require.True(t, ok)
	require.Equal(t, 2, start)
	require.Equal(t, 5, end)
	require.Equal(t, 3, matches)
}

func TestVerifyHammingWithinTauMatches(t *testing.T) {
	mt := MatchType{Tag: Hamming, Tau: AbsTau(1)}
	_, _, matches, ok := Verify(mt, []byte("ACGT"), []byte("ACGA"), nil, nil, nil, nil)
	require.True(t, ok)
	require.Equal(t, 3, matches)

	mt = MatchType{Tag: Hamming, Tau: AbsTau(0)}
	_, _, _, ok = Verify(mt, []byte("ACGT"), []byte("ACGA"), nil, nil, nil, nil)
	require.False(t, ok)
}

func TestVerifyHammingSearchPicksBestOffset(t *testing.T) {
	mt := MatchType{Tag: HammingSearch, Tau: AbsTau(1)}
	start, end, matches, ok := Verify(mt, []byte("ACG"), []byte("TTTACGTTT"), nil, nil, nil, nil)
	require.True(t, ok)
	require.Equal(t, 3, start)
	require.Equal(t, 6, end)
	require.Equal(t, 3, matches)
}

func TestHammingDistanceExportedCountsMismatches(t *testing.T) {
	require.Equal(t, 2, HammingDistanceExported([]byte("ACGT"), []byte("AGGA")))
}
