package align

// PrefixSuffixAligner implements PrefixAln/SuffixAln: a first local
// alignment pass with X-drop locates the anchor, then a second pass
// aligns the full pattern, with no free gaps, against the text from the
// anchor's start to the text's end to score identity. For Prefix both
// sequences are reversed so the same suffix-oriented code handles both
// ends.
type PrefixSuffixAligner struct {
	Prefix bool
	XDrop  int32
	inner  GlobalLocalAligner
}

// NewPrefixSuffixAligner constructs the aligner; prefix selects
// anchoring at the start of text (via sequence reversal) vs the end.
func NewPrefixSuffixAligner(prefix bool, xDrop int32) *PrefixSuffixAligner {
	return &PrefixSuffixAligner{Prefix: prefix, XDrop: xDrop, inner: GlobalLocalAligner{Local: true, XDrop: xDrop}}
}

// Align returns (matches, window) like GlobalLocalAligner.Align.
func (a *PrefixSuffixAligner) Align(pattern, text []byte, idThreshold, overlapThreshold float64) (Result, bool) {
	p, t := pattern, text
	if a.Prefix {
		p = reverseBytes(pattern)
		t = reverseBytes(text)
	}

	anchor, ok := a.inner.Align(p, t, 0, 0)
	if !ok {
		return Result{}, false
	}

	window := t[anchor.Start:]
	global := NewGlobalLocalAligner(false, a.XDrop)
	res, ok := global.Align(p, window, idThreshold, overlapThreshold)
	if !ok {
		return Result{}, false
	}

	start, end := anchor.Start+res.Start, anchor.Start+res.End
	if a.Prefix {
		n := len(text)
		start, end = n-end, n-start
	}
	return Result{Matches: res.Matches, Start: start, End: end}, true
}

func reverseBytes(b []byte) []byte {
	out := make([]byte, len(b))
	for i, c := range b {
		out[len(out)-1-i] = c
	}
	return out
}
