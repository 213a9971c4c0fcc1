package cmd

import (
	"bufio"
	"io"
	"os"

	gzip "github.com/klauspost/pgzip"
	"github.com/pkg/errors"
)

// outStream opens a fixed output path (known at pipeline-load time),
// optionally gzip-wrapped, and returns a buffered writer over it plus
// the raw handles a caller must close. Adapted from the teacher's
// identically-shaped helper for runtime-resolved per-record sinks
// (graph.OutputFastqFileOp.sinkFor); this variant serves the simpler
// case of one writer opened once per `outputs:` entry.
func outStream(file string, gzipped bool) (*bufio.Writer, io.WriteCloser, *os.File, error) {
	var w *os.File
	var err error
	if file == "-" || file == "" {
		w = os.Stdout
	} else {
		w, err = os.Create(file)
		if err != nil {
			return nil, nil, nil, errors.Wrapf(err, "create output file %s", file)
		}
	}
	if gzipped {
		gw := gzip.NewWriter(w)
		return bufio.NewWriterSize(gw, os.Getpagesize()), gw, w, nil
	}
	return bufio.NewWriterSize(w, os.Getpagesize()), nil, w, nil
}
