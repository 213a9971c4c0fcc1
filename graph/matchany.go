package graph

import (
	"github.com/shenwei356/antiseq/align"
	"github.com/shenwei356/antiseq/expr"
	"github.com/shenwei356/antiseq/ikey"
	"github.com/shenwei356/antiseq/pattern"
	"github.com/shenwei356/antiseq/record"
	"github.com/shenwei356/antiseq/seed"
)

// MatchAnyOp is the orchestrator of spec §4.3-4.4: it nominates
// candidate offsets for literal patterns via a seed searcher, verifies
// every pattern against the input label's text, keeps the best match
// by matches-count across patterns, and splits the input mapping into
// the MatchType's output labels.
type MatchAnyOp struct {
	StrType      record.StrType
	InputLabel   ikey.Name
	Patterns     *pattern.Patterns
	MatchType    pattern.MatchType
	OutputLabels []ikey.Name // length == MatchType.NumMappings()

	global  *align.GlobalLocalAligner
	local   *align.GlobalLocalAligner
	prefixA *align.PrefixSuffixAligner
	suffixA *align.PrefixSuffixAligner
}

func (op *MatchAnyOp) Name() string { return "match_any" }

func (op *MatchAnyOp) RequiredNames() []expr.NameRef {
	return []expr.NameRef{{StrType: op.StrType, Label: op.InputLabel}}
}

func (op *MatchAnyOp) ensureAligners() {
	if op.global == nil {
		op.global = align.NewGlobalLocalAligner(false, 32)
		op.local = align.NewGlobalLocalAligner(true, 32)
		op.prefixA = align.NewPrefixSuffixAligner(true, 32)
		op.suffixA = align.NewPrefixSuffixAligner(false, 32)
	}
}

type candidateMatch struct {
	patternIdx         int
	start, end, matches int
}

// seedCandidateOffsets nominates offsets to check for ExactSearch
// via the general rolling-hash searcher, over-approximating
// per spec §4.3; every nominated offset is still run through the exact
// Hamming check below, so a filter false positive only costs a wasted
// comparison, never a wrong accept.
func seedCandidateOffsets(lits [][]byte, litIdx []int, text []byte) map[int][]int {
	out := make(map[int][]int)
	if len(lits) == 0 {
		return out
	}
	k := 8
	for _, l := range lits {
		if len(l) < k {
			k = len(l)
		}
	}
	if k < 1 {
		return out
	}
	g := seed.NewGeneralSearcher(k, lits, litIdx)
	g.Search(text, func(m seed.SeedMatch) {
		off := m.TextI - m.PatternI
		if off < 0 {
			return
		}
		out[m.PatternIdx] = append(out[m.PatternIdx], off)
	})
	return out
}

func (op *MatchAnyOp) Run(r *record.Read) (*record.Read, bool, error) {
	if !hasAllNames(r, op.RequiredNames()) {
		return r, false, nil
	}
	op.ensureAligners()

	text, err := r.Substring(op.StrType, op.InputLabel)
	if err != nil {
		return nil, false, err
	}

	// Seeds are exact k-mers, so they can only nominate exact
	// occurrences; HammingSearch goes through pattern.Verify instead.
	seeded := op.MatchType.Tag == pattern.ExactSearch
	var lits [][]byte
	var litIdx []int
	if seeded {
		op.Patterns.IterLiterals(func(idx int, lit []byte) {
			lits = append(lits, lit)
			litIdx = append(litIdx, idx)
		})
	}
	candidates := seedCandidateOffsets(lits, litIdx, text)

	var best *candidateMatch
	tied := false
	for i, p := range op.Patterns.Items {
		var patBytes []byte
		if p.Kind == pattern.KindLiteral {
			patBytes = p.Literal
		} else {
			v, err := p.Expr.Eval(r, false)
			if err != nil {
				return nil, false, err
			}
			if v.Kind != expr.KindBytes {
				continue
			}
			patBytes = v.Bytes
		}

		var s, e, matches int
		var ok bool
		if seeded && p.Kind == pattern.KindLiteral {
			ok = verifyAtCandidates(op.MatchType, patBytes, text, candidates[i], &s, &e, &matches)
		} else {
			s, e, matches, ok = pattern.Verify(op.MatchType, patBytes, text, op.global, op.local, op.prefixA, op.suffixA)
		}
		if !ok {
			continue
		}
		if best == nil || matches > best.matches {
			best = &candidateMatch{patternIdx: i, start: s, end: e, matches: matches}
			tied = false
		} else if matches == best.matches && i != best.patternIdx {
			tied = true
		}
	}

	if best == nil {
		return r, false, nil
	}

	win := op.Patterns.Items[best.patternIdx]
	if err := op.writeAttrs(r, win, best.patternIdx, tied); err != nil {
		return nil, false, err
	}
	if err := op.splitMatch(r, best.start, best.end); err != nil {
		return nil, false, err
	}
	return r, false, nil
}

// verifyAtCandidates runs the exact Hamming/equality check only at
// nominated offsets, picking the best by matches count.
func verifyAtCandidates(mt pattern.MatchType, pat, text []byte, offsets []int, s, e, matches *int) bool {
	tau := mt.Tau.Resolve(len(pat))
	bestMatches := -1
	for _, off := range offsets {
		if off < 0 || off+len(pat) > len(text) {
			continue
		}
		d := pattern.HammingDistanceExported(pat, text[off:off+len(pat)])
		if mt.Tag == pattern.ExactSearch && d != 0 {
			continue
		}
		if d > tau {
			continue
		}
		m := len(pat) - d
		if m > bestMatches {
			bestMatches = m
			*s, *e, *matches = off, off+len(pat), m
		}
	}
	return bestMatches >= 0
}

func (op *MatchAnyOp) writeAttrs(r *record.Read, p pattern.Pattern, idx int, multimatch bool) error {
	m, err := r.MappingMut(op.StrType, op.InputLabel)
	if err != nil {
		return err
	}
	if m.Attrs == nil {
		m.Attrs = make(map[ikey.Name]record.AttrValue, len(p.Attrs)+2)
	}
	for i, name := range op.Patterns.AttrNames {
		if i < len(p.Attrs) {
			m.Attrs[name] = dataToAttr(p.Attrs[i])
		}
	}
	if !op.Patterns.PatternNameAttr.IsEmpty() {
		m.Attrs[op.Patterns.PatternNameAttr] = record.IntAttr(int64(idx))
	}
	if !op.Patterns.MultimatchAttr.IsEmpty() {
		m.Attrs[op.Patterns.MultimatchAttr] = record.BoolAttr(multimatch)
	}
	return nil
}

func dataToAttr(d expr.Data) record.AttrValue {
	switch d.Kind {
	case expr.KindBool:
		return record.BoolAttr(d.Bool)
	case expr.KindInt:
		return record.IntAttr(d.Int)
	case expr.KindFloat:
		return record.FloatAttr(d.Float)
	default:
		return record.BytesAttr(d.Bytes)
	}
}

// splitMatch carves the input label's [s,e) matched window out into
// OutputLabels, per MatchType.NumMappings(): one label for the window
// itself; two for an anchored (match, rest) pair (PrefixAln starts the
// window at 0, GlobalAln and SuffixAln end it at the text's end, so
// "rest" is always the single contiguous leftover); three for
// (before, match, after) when the window can fall anywhere
// (ExactSearch/HammingSearch/LocalAln).
func (op *MatchAnyOp) splitMatch(r *record.Read, s, e int) error {
	switch op.MatchType.NumMappings() {
	case 0:
		return nil

	case 1:
		if s == 0 {
			return r.Cut(op.StrType, op.InputLabel, op.OutputLabels[0], ikey.Name{}, e-s)
		}
		tmp := ikey.MustNew("_mm_tmp")
		if err := r.Cut(op.StrType, op.InputLabel, ikey.Name{}, tmp, s); err != nil {
			return err
		}
		return r.Cut(op.StrType, tmp, op.OutputLabels[0], ikey.Name{}, e-s)

	case 2:
		if s == 0 {
			return r.Cut(op.StrType, op.InputLabel, op.OutputLabels[0], op.OutputLabels[1], e-s)
		}
		return r.Cut(op.StrType, op.InputLabel, op.OutputLabels[1], op.OutputLabels[0], s)

	case 3:
		tmp := ikey.MustNew("_mm_tmp")
		if err := r.Cut(op.StrType, op.InputLabel, op.OutputLabels[0], tmp, s); err != nil {
			return err
		}
		return r.Cut(op.StrType, tmp, op.OutputLabels[1], op.OutputLabels[2], e-s)
	}
	return nil
}
