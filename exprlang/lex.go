package exprlang

import (
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

type tokKind uint8

const (
	tEOF tokKind = iota
	tLParen
	tRParen
	tComma
	tBang
	tAndAnd
	tOrOr
	tCaret
	tEqEq
	tNeq
	tLe
	tLt
	tGe
	tGt
	tIdent
	tNumber
	tString
)

type token struct {
	kind tokKind
	text string
}

// lex tokenizes a selector/boolean-expression string. Identifiers may
// contain dots and '*' (dotted references such as seq1.*); everything
// else is single- or two-character punctuation.
func lex(s string) ([]token, error) {
	var toks []token
	i := 0
	for i < len(s) {
		c := s[i]
		switch {
		case c == ' ' || c == '\t' || c == '\n' || c == '\r':
			i++

		case c == '(':
			toks = append(toks, token{tLParen, "("})
			i++
		case c == ')':
			toks = append(toks, token{tRParen, ")"})
			i++
		case c == ',':
			toks = append(toks, token{tComma, ","})
			i++

		case c == '&' && i+1 < len(s) && s[i+1] == '&':
			toks = append(toks, token{tAndAnd, "&&"})
			i += 2
		case c == '|' && i+1 < len(s) && s[i+1] == '|':
			toks = append(toks, token{tOrOr, "||"})
			i += 2
		case c == '^':
			toks = append(toks, token{tCaret, "^"})
			i++
		case c == '!' && i+1 < len(s) && s[i+1] == '=':
			toks = append(toks, token{tNeq, "!="})
			i += 2
		case c == '!':
			toks = append(toks, token{tBang, "!"})
			i++
		case c == '=' && i+1 < len(s) && s[i+1] == '=':
			toks = append(toks, token{tEqEq, "=="})
			i += 2
		case c == '<' && i+1 < len(s) && s[i+1] == '=':
			toks = append(toks, token{tLe, "<="})
			i += 2
		case c == '<':
			toks = append(toks, token{tLt, "<"})
			i++
		case c == '>' && i+1 < len(s) && s[i+1] == '=':
			toks = append(toks, token{tGe, ">="})
			i += 2
		case c == '>':
			toks = append(toks, token{tGt, ">"})
			i++

		case c == '"':
			j := i + 1
			var sb strings.Builder
			closed := false
			for j < len(s) {
				if s[j] == '\\' && j+1 < len(s) && s[j+1] == '"' {
					sb.WriteByte('"')
					j += 2
					continue
				}
				if s[j] == '"' {
					closed = true
					j++
					break
				}
				sb.WriteByte(s[j])
				j++
			}
			if !closed {
				return nil, errors.Wrapf(ErrParse, "unterminated string literal in %q", s)
			}
			toks = append(toks, token{tString, sb.String()})
			i = j

		case c >= '0' && c <= '9':
			j := i
			for j < len(s) && (s[j] >= '0' && s[j] <= '9' || s[j] == '.') {
				j++
			}
			toks = append(toks, token{tNumber, s[i:j]})
			i = j

		case isIdentStart(c):
			j := i
			for j < len(s) && isIdentPart(s[j]) {
				j++
			}
			toks = append(toks, token{tIdent, s[i:j]})
			i = j

		default:
			return nil, errors.Wrapf(ErrParse, "unexpected character %q in %q", c, s)
		}
	}
	toks = append(toks, token{tEOF, ""})
	return toks, nil
}

func isIdentStart(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isIdentPart(c byte) bool {
	return isIdentStart(c) || (c >= '0' && c <= '9') || c == '.' || c == '*'
}

func parseNumber(s string) (isFloat bool, i int64, f float64, err error) {
	if strings.Contains(s, ".") {
		f, err = strconv.ParseFloat(s, 64)
		return true, 0, f, err
	}
	i, err = strconv.ParseInt(s, 10, 64)
	return false, i, 0, err
}
