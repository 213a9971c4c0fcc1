package graph

import (
	"io"
	"sync"

	"github.com/grailbio/bio/encoding/fastq"
	"github.com/pkg/errors"

	"github.com/shenwei356/antiseq/expr"
	"github.com/shenwei356/antiseq/record"
)

// inputShape distinguishes InputFastqOp's three tuple-assembly modes.
type inputShape uint8

const (
	shapeSingle      inputShape = iota // one file, one mate
	shapeSiblings                      // N sibling files, one mate each, lockstep
	shapeInterleaved                   // one file, every k records = one Read
)

// InputFastqOp produces one read per Run call from one or more framed
// FASTQ sources (Pipeline groups them into chunks), delegating record
// framing to github.com/grailbio/bio/encoding/fastq per spec §1's
// out-of-scope note. Its parser state is behind a mutex so concurrent
// callers of Run do not race, per spec §5.
type InputFastqOp struct {
	shape     inputShape
	nMates    int
	scanners  []*fastq.Scanner
	origin    string
	mu        sync.Mutex
	nextIndex int
	exhausted bool
}

// NewSingleMateInput reads one mate from one stream.
func NewSingleMateInput(r io.Reader, origin string) *InputFastqOp {
	return &InputFastqOp{
		shape:    shapeSingle,
		nMates:   1,
		scanners: []*fastq.Scanner{fastq.NewScanner(r, fastq.All)},
		origin:   origin,
	}
}

// NewSiblingMateInput reads len(readers) mates in lockstep, one record
// from each stream per Read.
func NewSiblingMateInput(readers []io.Reader, origin string) *InputFastqOp {
	op := &InputFastqOp{shape: shapeSiblings, nMates: len(readers), origin: origin}
	for _, r := range readers {
		op.scanners = append(op.scanners, fastq.NewScanner(r, fastq.All))
	}
	return op
}

// NewInterleavedInput reads k consecutive records from one stream as
// one Read's mates, per spec §6/§9.
func NewInterleavedInput(r io.Reader, k int, origin string) *InputFastqOp {
	return &InputFastqOp{
		shape:    shapeInterleaved,
		nMates:   k,
		scanners: []*fastq.Scanner{fastq.NewScanner(r, fastq.All)},
		origin:   origin,
	}
}

func (op *InputFastqOp) Name() string                 { return "input_fastq" }
func (op *InputFastqOp) RequiredNames() []expr.NameRef { return nil }

// Run ignores its argument (InputFastqOp is a source) and returns the
// next assembled Read, or (nil, true, nil) at end of stream.
func (op *InputFastqOp) Run(_ *record.Read) (*record.Read, bool, error) {
	op.mu.Lock()
	defer op.mu.Unlock()
	if op.exhausted {
		return nil, true, nil
	}

	var frames []fastq.Read
	switch op.shape {
	case shapeSingle, shapeInterleaved:
		for i := 0; i < op.nMates; i++ {
			var fr fastq.Read
			if !op.scanners[0].Scan(&fr) {
				if err := op.scanners[0].Err(); err != nil {
					return nil, false, wrapParse(err, op.origin)
				}
				if i == 0 {
					op.exhausted = true
					return nil, true, nil
				}
				return nil, false, errors.Wrapf(ErrUnpaired, "%s: short final tuple", op.origin)
			}
			frames = append(frames, fr)
		}
	case shapeSiblings:
		for _, sc := range op.scanners {
			var fr fastq.Read
			if !sc.Scan(&fr) {
				if err := sc.Err(); err != nil {
					return nil, false, wrapParse(err, op.origin)
				}
				frames = append(frames, fastq.Read{})
				continue
			}
			frames = append(frames, fr)
		}
		complete := frames[0].ID != ""
		allEmpty := true
		for _, fr := range frames {
			if fr.ID != "" {
				allEmpty = false
			}
		}
		if allEmpty {
			op.exhausted = true
			return nil, true, nil
		}
		for _, fr := range frames {
			if fr.ID == "" {
				complete = false
			}
		}
		if !complete {
			return nil, false, errors.Wrapf(ErrUnpaired, "%s: sibling streams ended at different lengths", op.origin)
		}
	}

	idx := op.nextIndex
	op.nextIndex++
	return assembleRead(frames, op.origin, idx), false, nil
}

// assembleRead builds a record.Read from the fastq.Read frames of one
// tuple, one mate index per frame.
func assembleRead(frames []fastq.Read, origin string, index int) *record.Read {
	r := record.NewRead()
	for mate, fr := range frames {
		seqBytes := []byte(fr.Seq)
		var qualBytes []byte
		if fr.Qual != "" {
			qualBytes = []byte(fr.Qual)
		}
		r.SetStr(record.Seq(mate), record.NewStrMappings(seqBytes, qualBytes, origin, index))
		r.SetStr(record.Name(mate), record.NewStrMappings([]byte(fr.ID), nil, origin, index))
	}
	return r
}
