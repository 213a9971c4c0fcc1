package pattern

import (
	"bytes"

	"github.com/shenwei356/antiseq/align"
)

// hammingDistance counts differing positions between equal-length
// byte strings; callers are responsible for the length check.
func hammingDistance(a, b []byte) int {
	d := 0
	for i := range a {
		if a[i] != b[i] {
			d++
		}
	}
	return d
}

// HammingDistanceExported exposes hammingDistance to callers (e.g.
// graph.MatchAnyOp's seed-candidate verification) that need to score
// a small set of nominated offsets without re-running a full scan.
func HammingDistanceExported(a, b []byte) int { return hammingDistance(a, b) }

// Verify runs mt's verifier for pat against text, returning the
// matched window [start,end) and the number of matching columns
// within it. ok is false when no window meets the MatchType's
// thresholds.
func Verify(mt MatchType, pat, text []byte, global, local *align.GlobalLocalAligner, prefixA, suffixA *align.PrefixSuffixAligner) (start, end, matches int, ok bool) {
	switch mt.Tag {
	case Exact:
		if len(pat) != len(text) || !bytes.Equal(pat, text) {
			return 0, 0, 0, false
		}
		return 0, len(text), len(pat), true

	case ExactPrefix:
		if len(pat) > len(text) || !bytes.Equal(text[:len(pat)], pat) {
			return 0, 0, 0, false
		}
		return 0, len(pat), len(pat), true

	case ExactSuffix:
		if len(pat) > len(text) || !bytes.Equal(text[len(text)-len(pat):], pat) {
			return 0, 0, 0, false
		}
		return len(text) - len(pat), len(text), len(pat), true

	case ExactSearch:
		idx := bytes.Index(text, pat)
		if idx < 0 {
			return 0, 0, 0, false
		}
		return idx, idx + len(pat), len(pat), true

	case Hamming:
		tau := mt.Tau.Resolve(len(pat))
		if len(pat) != len(text) {
			return 0, 0, 0, false
		}
		d := hammingDistance(pat, text)
		if d > tau {
			return 0, 0, 0, false
		}
		return 0, len(text), len(pat) - d, true

	case HammingPrefix:
		tau := mt.Tau.Resolve(len(pat))
		if len(pat) > len(text) {
			return 0, 0, 0, false
		}
		d := hammingDistance(pat, text[:len(pat)])
		if d > tau {
			return 0, 0, 0, false
		}
		return 0, len(pat), len(pat) - d, true

	case HammingSuffix:
		tau := mt.Tau.Resolve(len(pat))
		if len(pat) > len(text) {
			return 0, 0, 0, false
		}
		off := len(text) - len(pat)
		d := hammingDistance(pat, text[off:])
		if d > tau {
			return 0, 0, 0, false
		}
		return off, len(text), len(pat) - d, true

	case HammingSearch:
		tau := mt.Tau.Resolve(len(pat))
		if len(pat) > len(text) {
			return 0, 0, 0, false
		}
		bestD := tau + 1
		bestOff := -1
		for off := 0; off+len(pat) <= len(text); off++ {
			d := hammingDistance(pat, text[off:off+len(pat)])
			if d < bestD {
				bestD = d
				bestOff = off
				if d == 0 {
					break
				}
			}
		}
		if bestOff < 0 {
			return 0, 0, 0, false
		}
		return bestOff, bestOff + len(pat), len(pat) - bestD, true

	case GlobalAln:
		res, ok := global.Align(pat, text, mt.Identity, mt.Overlap)
		if !ok {
			return 0, 0, 0, false
		}
		return res.Start, res.End, res.Matches, true

	case LocalAln:
		res, ok := local.Align(pat, text, mt.Identity, mt.Overlap)
		if !ok {
			return 0, 0, 0, false
		}
		return res.Start, res.End, res.Matches, true

	case PrefixAln:
		res, ok := prefixA.Align(pat, text, mt.Identity, mt.Overlap)
		if !ok {
			return 0, 0, 0, false
		}
		return res.Start, res.End, res.Matches, true

	case SuffixAln:
		res, ok := suffixA.Align(pat, text, mt.Identity, mt.Overlap)
		if !ok {
			return 0, 0, 0, false
		}
		return res.Start, res.End, res.Matches, true
	}
	return 0, 0, 0, false
}
