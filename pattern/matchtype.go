package pattern

// Tau expresses a Hamming tolerance either as an absolute mismatch
// count or as a fraction of the pattern's length, resolved against a
// concrete pattern length at match time.
type Tau struct {
	Abs      int
	Frac     float64
	IsFrac   bool
}

// Resolve returns the tolerance in absolute mismatches for a pattern
// of the given length.
func (t Tau) Resolve(patLen int) int {
	if !t.IsFrac {
		return t.Abs
	}
	return int(t.Frac * float64(patLen))
}

func AbsTau(n int) Tau        { return Tau{Abs: n} }
func FracTau(f float64) Tau   { return Tau{Frac: f, IsFrac: true} }

// MatchTypeTag enumerates the verifier catalogue in spec §4.3.
type MatchTypeTag uint8

const (
	Exact MatchTypeTag = iota
	ExactPrefix
	ExactSuffix
	ExactSearch
	Hamming
	HammingPrefix
	HammingSuffix
	HammingSearch
	GlobalAln
	LocalAln
	PrefixAln
	SuffixAln
)

// MatchType carries a verifier tag plus its thresholds. Identity and
// Overlap are only meaningful for the *Aln tags.
type MatchType struct {
	Tag     MatchTypeTag
	Tau     Tau
	Identity float64
	Overlap  float64
}

// NumMappings is the number of output sub-mappings the MatchType
// produces on a winning match, per spec §4.3's verifier table.
func (mt MatchType) NumMappings() int {
	switch mt.Tag {
	case Exact, ExactPrefix, ExactSuffix, Hamming, HammingPrefix, HammingSuffix:
		return 1
	case ExactSearch, HammingSearch, LocalAln:
		return 3
	case GlobalAln, PrefixAln, SuffixAln:
		return 2
	default:
		return 0
	}
}

// EffectiveK is the literal seed length for a pattern of length
// patLen: the whole literal for every MatchType, or 0 for an empty
// pattern.
func (mt MatchType) EffectiveK(patLen int) int {
	if patLen <= 0 {
		return 0
	}
	return patLen
}
