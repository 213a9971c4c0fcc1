package exprlang

import (
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/shenwei356/antiseq/ikey"
	"github.com/shenwei356/antiseq/record"
)

// ResolveRef implements expr.Resolver for this module's naming
// convention: a dot-separated "strtype.label[.attr]" reference where
// strtype is "seq"/"name" followed by a 1-based mate number (mate 1 is
// the primary read), e.g. "seq1.a", "name2.*", "seq1.a.mismatches".
func ResolveRef(ref string) (record.StrType, ikey.Name, ikey.Name, error) {
	parts := strings.Split(ref, ".")
	if len(parts) < 2 || len(parts) > 3 {
		return record.StrType{}, ikey.Name{}, ikey.Name{}, errors.Wrapf(ErrParse, "reference %q: want strtype.label[.attr]", ref)
	}
	st, err := parseStrType(parts[0])
	if err != nil {
		return record.StrType{}, ikey.Name{}, ikey.Name{}, errors.Wrapf(err, "reference %q", ref)
	}
	label, err := ikey.New(parts[1])
	if err != nil {
		return record.StrType{}, ikey.Name{}, ikey.Name{}, errors.Wrapf(ErrParse, "reference %q: bad label: %s", ref, err)
	}
	var attr ikey.Name
	if len(parts) == 3 {
		attr, err = ikey.New(parts[2])
		if err != nil {
			return record.StrType{}, ikey.Name{}, ikey.Name{}, errors.Wrapf(ErrParse, "reference %q: bad attr: %s", ref, err)
		}
	}
	return st, label, attr, nil
}

// ParseStrTypeName resolves a bare "seq<N>"/"name<N>" token (no label
// suffix) to a record.StrType, for YAML fields that name a channel
// without a specific label (e.g. a `cut` op's target channel).
func ParseStrTypeName(s string) (record.StrType, error) {
	return parseStrType(s)
}

func parseStrType(s string) (record.StrType, error) {
	var rest string
	var isName bool
	switch {
	case strings.HasPrefix(s, "seq"):
		rest = s[len("seq"):]
	case strings.HasPrefix(s, "name"):
		rest = s[len("name"):]
		isName = true
	default:
		return record.StrType{}, errors.Wrapf(ErrParse, "strtype %q: want seq<N> or name<N>", s)
	}
	n, err := strconv.Atoi(rest)
	if err != nil || n < 1 {
		return record.StrType{}, errors.Wrapf(ErrParse, "strtype %q: mate number must be >= 1", s)
	}
	mate := n - 1
	if isName {
		return record.Name(mate), nil
	}
	return record.Seq(mate), nil
}
