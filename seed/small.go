package seed

import "github.com/pkg/errors"

// SmallSearcher nominates candidate positions for up to 8 short
// literal k-mers (K in 2..6) packed into per-position lookup tables,
// modeling spec §4.3's pshufb/AND-fold bit-lane scan in portable Go:
// each table position maps a text byte's low nibble to the bitmask of
// k-mers whose byte at that position shares it, and a hit position's
// surviving bitmask is the AND of all K positions' masks.
type SmallSearcher struct {
	k          int
	lits       [][]byte
	patternIdx []int
	patternI   []int
	lookup     [][16]uint8
	scan       func(text []byte, cb func(SeedMatch))
}

// NewSmallSearcher builds a searcher over up to 8 literal k-mers, all
// of length k (2..6). It fails when the platform has no usable 256-bit
// SIMD or more than 8 k-mers are supplied, per spec.
func NewSmallSearcher(k int, lits [][]byte, patternIdx, patternI []int) (*SmallSearcher, error) {
	if !AVX2Available {
		return nil, ErrNoSIMD
	}
	if k < 2 || k > 6 {
		return nil, errors.Errorf("antiseq/seed: k=%d out of [2,6]", k)
	}
	if len(lits) > 8 {
		return nil, ErrNoSIMD
	}
	for _, l := range lits {
		if len(l) != k {
			return nil, errors.Errorf("antiseq/seed: literal length %d != k %d", len(l), k)
		}
	}
	lookup := make([][16]uint8, k)
	for j := 0; j < k; j++ {
		for idx, l := range lits {
			nib := l[j] & 0x0F
			lookup[j][nib] |= 1 << uint(idx)
		}
	}
	s := &SmallSearcher{k: k, lits: lits, patternIdx: patternIdx, patternI: patternI, lookup: lookup}
	// The function-pointer slot is where a real vpshufb/vpand
	// backend would be selected; only the portable path exists here.
	s.scan = s.scanPortable
	return s, nil
}

// Search calls cb for every (pattern, offset) pair whose k-mer could
// plausibly start at each text position; over-approximates, never
// misses an exact occurrence (spec testable property 9).
func (s *SmallSearcher) Search(text []byte, cb func(SeedMatch)) {
	s.scan(text, cb)
}

func (s *SmallSearcher) scanPortable(text []byte, cb func(SeedMatch)) {
	if len(text) < s.k {
		return
	}
	for p := 0; p <= len(text)-s.k; p++ {
		mask := uint8(0xFF)
		for j := 0; j < s.k; j++ {
			nib := text[p+j] & 0x0F
			mask &= s.lookup[j][nib]
			if mask == 0 {
				break
			}
		}
		if mask == 0 {
			continue
		}
		for idx := 0; idx < len(s.lits); idx++ {
			if mask&(1<<uint(idx)) != 0 {
				cb(SeedMatch{PatternIdx: s.patternIdx[idx], PatternI: s.patternI[idx], TextI: p})
			}
		}
	}
}
