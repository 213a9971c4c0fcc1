// Package exprlang parses the two bespoke text surfaces a pipeline
// description uses to drive the expr/graph packages without writing
// Go: the transform-expression surface ("before -> after") and the
// selector surface (boolean expressions plus the sel!() sugar). It is
// consumed only by cmd/antiseq's pipeline loader; expr and graph stay
// free of any text-format dependency.
package exprlang

import "github.com/pkg/errors"

// ErrParse covers malformed transform/selector text: unbalanced
// parens, an unknown reference, a before/after arity mismatch.
var ErrParse = errors.New("antiseq/exprlang: parse error")
