package seed

// patEntry locates one candidate seed k-mer window within a pattern.
type patEntry struct {
	patternIdx int
	patternI   int
}

// GeneralSearcher nominates candidates for arbitrary-length literal
// patterns via a rolling hash over the text, filtered through a
// compact Filter before the (comparatively expensive) index lookup.
type GeneralSearcher struct {
	k      int
	filter *Filter
	index  map[uint64][]patEntry
}

// NewGeneralSearcher indexes every k-length window of every literal
// pattern in lits (parallel patternIdx slice gives each literal's
// owning pattern).
func NewGeneralSearcher(k int, lits [][]byte, patternIdx []int) *GeneralSearcher {
	index := make(map[uint64][]patEntry)
	var hashes []uint64
	for li, lit := range lits {
		if len(lit) < k {
			continue
		}
		h := windowHash(lit[:k])
		for start := 0; ; start++ {
			index[h] = append(index[h], patEntry{patternIdx[li], start})
			hashes = append(hashes, h)
			if start+k >= len(lit) {
				break
			}
			h = rollHash(h, lit[start], lit[start+k], k)
		}
	}
	return &GeneralSearcher{k: k, filter: NewFilter(hashes), index: index}
}

// Search calls cb for every text offset whose rolling hash survives
// the filter and resolves to at least one indexed pattern window.
// Hashes are computed in the text's natural order; a real SIMD
// backend would batch eight rolling-hash lanes at a time, per spec,
// but this port keeps the single-lane recurrence for portability.
func (g *GeneralSearcher) Search(text []byte, cb func(SeedMatch)) {
	if len(text) < g.k {
		return
	}
	h := windowHash(text[:g.k])
	for i := g.k - 1; ; i++ {
		if g.filter.Test(h) {
			for _, e := range g.index[h] {
				cb(SeedMatch{PatternIdx: e.patternIdx, PatternI: e.patternI, TextI: i - g.k + 1})
			}
		}
		if i+1 >= len(text) {
			break
		}
		h = rollHash(h, text[i-g.k+1], text[i+1], g.k)
	}
}
