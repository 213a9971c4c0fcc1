package expr

import (
	"strings"

	"github.com/pkg/errors"
	"github.com/shenwei356/antiseq/ikey"
	"github.com/shenwei356/antiseq/record"
)

// ErrParse covers malformed format strings and selector/transform
// text (unbalanced braces, invalid name characters).
var ErrParse = errors.New("antiseq/expr: parse error")

// Resolver turns a dot-separated "strtype.label[.attr]" reference
// text into the strongly-typed pieces a Node needs. Supplied by the
// caller (cmd/antiseq's pipeline loader / exprlang) so this package
// stays free of any particular StrType naming convention.
type Resolver func(ref string) (record.StrType, ikey.Name, ikey.Name, error)

// FormatString lifts "prefix{label}middle{attr}suffix" into a
// ConcatAll of literals and references. `\{` and `\}` are escaped
// literals; nested braces are rejected per spec §4.2.
func FormatString(s string, resolve Resolver) (*Node, error) {
	var parts []*Node
	var lit strings.Builder
	flushLit := func() {
		if lit.Len() > 0 {
			parts = append(parts, Literal(BytesData([]byte(lit.String()))))
			lit.Reset()
		}
	}
	i := 0
	for i < len(s) {
		c := s[i]
		switch {
		case c == '\\' && i+1 < len(s) && (s[i+1] == '{' || s[i+1] == '}'):
			lit.WriteByte(s[i+1])
			i += 2
		case c == '{':
			flushLit()
			j := i + 1
			depth := 1
			for j < len(s) && depth > 0 {
				switch s[j] {
				case '{':
					return nil, errors.Wrapf(ErrParse, "nested braces at byte %d", j)
				case '}':
					depth--
				}
				if depth > 0 {
					j++
				}
			}
			if depth != 0 {
				return nil, errors.Wrapf(ErrParse, "unbalanced brace at byte %d", i)
			}
			ref := s[i+1 : j]
			t, label, attr, err := resolve(ref)
			if err != nil {
				return nil, errors.Wrapf(ErrParse, "format reference %q: %v", ref, err)
			}
			if attr.IsEmpty() {
				parts = append(parts, LabelRef(t, label))
			} else {
				parts = append(parts, AttrRef(t, label, attr))
			}
			i = j + 1
		default:
			lit.WriteByte(c)
			i++
		}
	}
	flushLit()
	if len(parts) == 1 && parts[0].Kind == NLiteral {
		return parts[0], nil
	}
	return ConcatAll(parts...), nil
}
