// Package seed implements the nomination half of the approximate
// pattern matcher: a SIMD small-k lookup searcher and a rolling-hash
// general searcher, both of which over-approximate and so must always
// be followed by the align/Hamming verifier.
package seed

import (
	"github.com/klauspost/cpuid"
	"github.com/pkg/errors"
)

// AVX2Available mirrors unikmer's idiom of detecting once at process
// start and branching the searcher's construction on it, rather than
// testing per call.
var AVX2Available = cpuid.CPU.AVX2()

// SeedMatch is the callback payload both searchers produce.
type SeedMatch struct {
	PatternIdx int
	PatternI   int
	TextI      int
}

// ErrNoSIMD is returned by NewSmallSearcher when the platform offers
// no 256-bit SIMD, or more than 8 k-mers are requested.
var ErrNoSIMD = errors.New("antiseq/seed: no usable 256-bit SIMD or too many k-mers")
