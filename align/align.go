// Package align implements the alignment verifiers that back the
// global/local and prefix/suffix approximate-match modes: an affine-gap
// dynamic-programming aligner, scoring match +1, mismatch -1, gap-open
// -2, gap-extend -1 (spec §4.4). The DP fills the full matrix (no
// banding); in local mode an X-drop test can stop it early.
package align

const (
	scoreMatch    = 1
	scoreMismatch = -1
	gapOpen       = -2
	gapExtend     = -1

	minBlock = 32
	maxBlock = 512
)

// Result is the verified outcome of an alignment: the number of
// matching columns and the half-open [Start,End) window on the text
// that the pattern aligned against.
type Result struct {
	Matches int
	Start   int
	End     int
}

// cell holds the three affine-gap DP lanes for one (i,j) position.
type cell struct {
	m, ix, iy int32 // match/mismatch, gap-in-text, gap-in-pattern
}

const negInf = int32(-1 << 30)

// buffers holds score rows reused across Align calls within one
// worker, grown geometrically the way UnikIndex's preallocated search
// buffers grow once and are reused thereafter.
type buffers struct {
	rows [][]cell
}

func (b *buffers) ensure(rows, cols int) {
	if cap(b.rows) < rows {
		grown := make([][]cell, rows)
		copy(grown, b.rows)
		b.rows = grown
	}
	b.rows = b.rows[:rows]
	block := minBlock
	for block < cols && block < maxBlock {
		block *= 2
	}
	if block < cols {
		block = cols
	}
	for i := 0; i < rows; i++ {
		if cap(b.rows[i]) < cols {
			b.rows[i] = make([]cell, block)
		}
		b.rows[i] = b.rows[i][:cols]
	}
}

// GlobalLocalAligner implements both GlobalAln and LocalAln: full-matrix
// affine-gap DP (not banded) with free start/end on the reference when
// Local is set, gated on identity and overlap thresholds.
type GlobalLocalAligner struct {
	Local   bool
	XDrop   int32
	buffers buffers
}

// NewGlobalLocalAligner constructs an aligner. In local mode, when a
// pattern row's best score falls more than xDrop below the best score
// seen so far, the remaining rows are skipped; global mode ignores
// xDrop.
func NewGlobalLocalAligner(local bool, xDrop int32) *GlobalLocalAligner {
	return &GlobalLocalAligner{Local: local, XDrop: xDrop}
}

// Align verifies pattern against text, accepting only results meeting
// idThreshold (matches/columns) and overlapThreshold (matches/|pattern|).
func (a *GlobalLocalAligner) Align(pattern, text []byte, idThreshold, overlapThreshold float64) (Result, bool) {
	rows, cols := len(pattern)+1, len(text)+1
	a.buffers.ensure(rows, cols)
	rowsBuf := a.buffers.rows

	for j := 0; j < cols; j++ {
		if a.Local {
			rowsBuf[0][j] = cell{m: 0, ix: negInf, iy: negInf}
		} else {
			rowsBuf[0][j] = cell{m: boundaryGapScore(j), ix: negInf, iy: negInf}
		}
	}
	for i := 1; i < rows; i++ {
		if a.Local {
			rowsBuf[i][0] = cell{m: 0, ix: negInf, iy: negInf}
		} else {
			rowsBuf[i][0] = cell{m: boundaryGapScore(i), ix: negInf, iy: negInf}
		}
	}

	best := cell{m: negInf}
	bestI, bestJ := 0, 0
	globalBest := negInf

	for i := 1; i < rows; i++ {
		rowBest := negInf
		for j := 1; j < cols; j++ {
			sub := int32(scoreMismatch)
			if pattern[i-1] == text[j-1] {
				sub = scoreMatch
			}
			diag := rowsBuf[i-1][j-1]
			m := maxOf3(diag.m, diag.ix, diag.iy) + sub

			up := rowsBuf[i-1][j]
			ix := maxOf(up.m+gapOpen+gapExtend, up.ix+gapExtend)

			left := rowsBuf[i][j-1]
			iy := maxOf(left.m+gapOpen+gapExtend, left.iy+gapExtend)

			if a.Local {
				m = maxOf(m, 0)
			}
			c := cell{m: m, ix: ix, iy: iy}
			rowsBuf[i][j] = c

			cur := maxOf3(c.m, c.ix, c.iy)
			if cur > rowBest {
				rowBest = cur
			}
			if a.Local && cur > globalBest {
				globalBest = cur
				bestI, bestJ = i, j
			}
		}
		if a.XDrop > 0 && globalBest-rowBest > a.XDrop && a.Local {
			break
		}
		if !a.Local {
			best = rowsBuf[i][cols-1]
		}
	}

	var matches, start, end int
	if a.Local {
		matches, start, end = a.traceLocal(pattern, text, rowsBuf, bestI, bestJ)
	} else {
		matches, start, end = a.traceGlobal(pattern, text, rowsBuf, rows-1, cols-1)
		_ = best
	}

	cols2 := end - start
	if cols2 <= 0 {
		return Result{}, false
	}
	identity := float64(matches) / float64(cols2)
	overlap := float64(matches) / float64(len(pattern))
	if identity < idThreshold || overlap < overlapThreshold {
		return Result{}, false
	}
	return Result{Matches: matches, Start: start, End: end}, true
}

// boundaryGapScore is the affine cost of a pure gap of length n against
// the DP boundary row/column: free at n==0, otherwise one gap-open plus
// n gap-extends, matching the interior recurrence at a fixed gap length.
func boundaryGapScore(n int) int32 {
	if n == 0 {
		return 0
	}
	return int32(gapOpen + n*gapExtend)
}

// lane identifies which of a cell's three affine-gap scores is active
// along a traceback path.
type lane uint8

const (
	laneM lane = iota
	laneIX
	laneIY
)

func dominantLane(c cell) lane {
	switch {
	case c.m >= c.ix && c.m >= c.iy:
		return laneM
	case c.ix >= c.iy:
		return laneIX
	default:
		return laneIY
	}
}

func laneScore(c cell, l lane) int32 {
	switch l {
	case laneIX:
		return c.ix
	case laneIY:
		return c.iy
	default:
		return c.m
	}
}

// traceGlobal walks the DP matrix from (i,j) back to a boundary,
// following whichever lane (match/mismatch, gap-in-text, gap-in-pattern)
// actually produced each cell's score, per the recurrence at
// rowsBuf[i][j] above.
func (a *GlobalLocalAligner) traceGlobal(pattern, text []byte, rows [][]cell, i, j int) (matches, start, end int) {
	end = j
	l := dominantLane(rows[i][j])
	for i > 0 && j > 0 {
		switch l {
		case laneM:
			if pattern[i-1] == text[j-1] {
				matches++
			}
			diag := rows[i-1][j-1]
			l = dominantLane(diag)
			i--
			j--
		case laneIX:
			up := rows[i-1][j]
			if up.m+gapOpen+gapExtend >= up.ix+gapExtend {
				l = laneM
			} else {
				l = laneIX
			}
			i--
		case laneIY:
			left := rows[i][j-1]
			if left.m+gapOpen+gapExtend >= left.iy+gapExtend {
				l = laneM
			} else {
				l = laneIY
			}
			j--
		}
	}
	start = j
	return
}

// traceLocal is traceGlobal's local-mode counterpart: it stops as soon
// as the active lane's score drops to zero or below, per the
// Smith-Waterman restart rule applied to m (pattern/text cut short of
// the DP boundary, spec §4.4).
func (a *GlobalLocalAligner) traceLocal(pattern, text []byte, rows [][]cell, i, j int) (matches, start, end int) {
	end = j
	l := dominantLane(rows[i][j])
	for i > 0 && j > 0 && laneScore(rows[i][j], l) > 0 {
		switch l {
		case laneM:
			if pattern[i-1] == text[j-1] {
				matches++
			}
			diag := rows[i-1][j-1]
			l = dominantLane(diag)
			i--
			j--
		case laneIX:
			up := rows[i-1][j]
			if up.m+gapOpen+gapExtend >= up.ix+gapExtend {
				l = laneM
			} else {
				l = laneIX
			}
			i--
		case laneIY:
			left := rows[i][j-1]
			if left.m+gapOpen+gapExtend >= left.iy+gapExtend {
				l = laneM
			} else {
				l = laneIY
			}
			j--
		}
	}
	start = j
	return
}

func maxOf(a, b int32) int32 {
	if a > b {
		return a
	}
	return b
}

func maxOf3(a, b, c int32) int32 {
	return maxOf(a, maxOf(b, c))
}
