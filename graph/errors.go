package graph

import "github.com/pkg/errors"

var (
	// ErrParse is returned for malformed FASTQ records. Fatal.
	ErrParse = errors.New("antiseq/graph: parse error")
	// ErrFileIO is returned when a file cannot be opened, read,
	// written, or created. Fatal.
	ErrFileIO = errors.New("antiseq/graph: file I/O error")
	// ErrUnpaired is returned when an interleaved or multi-file input
	// runs out mid-tuple. Fatal.
	ErrUnpaired = errors.New("antiseq/graph: unpaired input tuple")
)

func wrapParse(err error, context string) error {
	return errors.Wrapf(ErrParse, "%s: %s", context, err)
}

func wrapFileIO(err error, path string) error {
	return errors.Wrapf(ErrFileIO, "%s: %s", path, err)
}
