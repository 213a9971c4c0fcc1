package graph

import (
	"runtime"
	"sync"
	"sync/atomic"

	"github.com/pkg/errors"

	"github.com/shenwei356/antiseq/record"
)

// DefaultChunkSize is the number of records pulled from the source op
// per worker iteration, per spec §2.
const DefaultChunkSize = 256

var chunkPool = sync.Pool{New: func() interface{} { return make([]*record.Read, 0, DefaultChunkSize) }}

// Pipeline drives a source op and a linear sequence of transform/output
// ops across a fixed worker pool, per spec §5: a single producer
// goroutine pulls reads from the source into chunks and hands them over
// a channel, and each worker runs every op in sequence on each read of
// the chunks it receives.
type Pipeline struct {
	Source     Op
	Ops        []Op
	NumWorkers int
	ChunkSize  int

	processed int64 // atomically updated; read via Processed() after Run
}

// Processed returns the number of reads that completed the op
// sequence (successfully or not); the count accumulates across Run
// calls on the same Pipeline.
func (p *Pipeline) Processed() int64 { return atomic.LoadInt64(&p.processed) }

// NewPipeline builds a Pipeline with defaults mirroring
// unikmer/cmd/root.go's -j/--threads flag (NumCPU workers) and spec
// §2's 256-record chunk size.
func NewPipeline(source Op, ops []Op) *Pipeline {
	return &Pipeline{Source: source, Ops: ops, NumWorkers: runtime.NumCPU(), ChunkSize: DefaultChunkSize}
}

// Run drives the pipeline to completion, returning the first fatal
// error encountered (per spec §5's cooperative-cancellation policy:
// stop pulling, drain in-flight chunks, surface the first error).
func (p *Pipeline) Run() error {
	numWorkers := p.NumWorkers
	if numWorkers < 1 {
		numWorkers = 1
	}
	chunkSize := p.ChunkSize
	if chunkSize < 1 {
		chunkSize = DefaultChunkSize
	}

	chunks := make(chan []*record.Read, numWorkers)
	cancel := make(chan struct{})
	var cancelOnce sync.Once
	var fatalMu sync.Mutex
	var fatal error

	reportFatal := func(err error) {
		fatalMu.Lock()
		if fatal == nil {
			fatal = err
		}
		fatalMu.Unlock()
		cancelOnce.Do(func() { close(cancel) })
	}

	var producerWG sync.WaitGroup
	producerWG.Add(1)
	go func() {
		defer producerWG.Done()
		defer close(chunks)
		for {
			select {
			case <-cancel:
				return
			default:
			}
			chunk := chunkPool.Get().([]*record.Read)[:0]
			done := false
			for len(chunk) < chunkSize {
				r, sourceDone, err := p.Source.Run(nil)
				if err != nil {
					reportFatal(errors.Wrap(err, "input"))
					done = true
					break
				}
				if sourceDone {
					done = true
					break
				}
				if r != nil {
					chunk = append(chunk, r)
				}
			}
			if len(chunk) > 0 {
				select {
				case chunks <- chunk:
				case <-cancel:
					return
				}
			} else {
				chunkPool.Put(chunk[:0])
			}
			if done {
				return
			}
		}
	}()

	var workersWG sync.WaitGroup
	for i := 0; i < numWorkers; i++ {
		workersWG.Add(1)
		go func() {
			defer workersWG.Done()
			for chunk := range chunks {
				for _, r := range chunk {
					if _, err := runOps(p.Ops, r); err != nil {
						reportFatal(err)
					}
					atomic.AddInt64(&p.processed, 1)
				}
				chunkPool.Put(chunk[:0])
			}
		}()
	}

	producerWG.Wait()
	workersWG.Wait()

	fatalMu.Lock()
	defer fatalMu.Unlock()
	return fatal
}
