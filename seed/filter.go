package seed

// Filter is an open-addressed, 16-bit-fingerprint hash-presence table
// sized to twice the number of distinct hashes inserted, per spec
// §4.3. It over-approximates: Test may return a false positive (a
// fingerprint collision) but never a false negative for an inserted
// hash, which is why a seed hit must always be re-verified.
type Filter struct {
	table []uint16
	mask  uint64
}

// NewFilter builds a Filter over the given (possibly duplicate) hash
// values.
func NewFilter(hashes []uint64) *Filter {
	size := 8
	for size < len(hashes)*2 {
		size *= 2
	}
	f := &Filter{table: make([]uint16, size), mask: uint64(size - 1)}
	for _, h := range hashes {
		f.insert(h)
	}
	return f
}

func fingerprint(h uint64) uint16 {
	fp := uint16(h)
	if fp == 0 {
		fp = 1 // zero is the empty-slot sentinel
	}
	return fp
}

func (f *Filter) insert(h uint64) {
	fp := fingerprint(h)
	idx := h & f.mask
	for f.table[idx] != 0 {
		if f.table[idx] == fp {
			return
		}
		idx = (idx + 1) & f.mask
	}
	f.table[idx] = fp
}

// Test reports whether h's fingerprint is present, terminating the
// open-addressed probe at the first zero (empty) sentinel slot.
func (f *Filter) Test(h uint64) bool {
	fp := fingerprint(h)
	idx := h & f.mask
	for f.table[idx] != 0 {
		if f.table[idx] == fp {
			return true
		}
		idx = (idx + 1) & f.mask
	}
	return false
}
