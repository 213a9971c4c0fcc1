package record

import (
	"github.com/pkg/errors"
)

// Sentinel errors for the record package's failure taxonomy (spec §7).
// Use errors.Is against these; wrapped instances carry the offending
// name or index, and WrapOp can add op/read context.
var (
	ErrNotInRead    = errors.New("antiseq/record: name not in read")
	ErrTypeMismatch = errors.New("antiseq/record: type mismatch")
	ErrOutOfBounds  = errors.New("antiseq/record: out of bounds")
)

func notInRead(t StrType, label string) error {
	return errors.Wrapf(ErrNotInRead, "%s[%s]", t, label)
}

func typeMismatch(expected, actual StrType) error {
	return errors.Wrapf(ErrTypeMismatch, "expected %s, got %s", expected, actual)
}

func outOfBounds(idx int, n int) error {
	return errors.Wrapf(ErrOutOfBounds, "index %d out of [0,%d]", idx, n)
}

// WrapOp attaches op-name and read-name context to err, per spec §7's
// diagnostic requirement, using github.com/pkg/errors for the frame.
func WrapOp(err error, opName, readName string) error {
	if err == nil {
		return nil
	}
	return errors.Wrapf(err, "op %s: read %s", opName, readName)
}
