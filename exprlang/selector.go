package exprlang

import (
	"strings"

	"github.com/pkg/errors"

	"github.com/shenwei356/antiseq/expr"
)

// ParseSelector lowers the selector surface — a boolean expression,
// with sel!() (always true) and sel!(name1,name2,...) (all names
// present) as sugar — into an expr.Node. Precedence, loosest to
// tightest: ||, ^, &&, comparisons, unary !, primary.
func ParseSelector(s string) (*expr.Node, error) {
	toks, err := lex(s)
	if err != nil {
		return nil, err
	}
	p := &selParser{toks: toks}
	n, err := p.parseOr()
	if err != nil {
		return nil, err
	}
	if p.peek().kind != tEOF {
		return nil, errors.Wrapf(ErrParse, "trailing input after %q", s)
	}
	return n, nil
}

type selParser struct {
	toks []token
	pos  int
}

func (p *selParser) peek() token { return p.toks[p.pos] }

func (p *selParser) next() token {
	t := p.toks[p.pos]
	if p.pos < len(p.toks)-1 {
		p.pos++
	}
	return t
}

func (p *selParser) expect(k tokKind, what string) (token, error) {
	t := p.next()
	if t.kind != k {
		return t, errors.Wrapf(ErrParse, "expected %s, got %q", what, t.text)
	}
	return t, nil
}

func (p *selParser) parseOr() (*expr.Node, error) {
	left, err := p.parseXor()
	if err != nil {
		return nil, err
	}
	for p.peek().kind == tOrOr {
		p.next()
		right, err := p.parseXor()
		if err != nil {
			return nil, err
		}
		left = expr.Or(left, right)
	}
	return left, nil
}

func (p *selParser) parseXor() (*expr.Node, error) {
	left, err := p.parseAnd()
	if err != nil {
		return nil, err
	}
	for p.peek().kind == tCaret {
		p.next()
		right, err := p.parseAnd()
		if err != nil {
			return nil, err
		}
		left = expr.Xor(left, right)
	}
	return left, nil
}

func (p *selParser) parseAnd() (*expr.Node, error) {
	left, err := p.parseCmp()
	if err != nil {
		return nil, err
	}
	for p.peek().kind == tAndAnd {
		p.next()
		right, err := p.parseCmp()
		if err != nil {
			return nil, err
		}
		left = expr.And(left, right)
	}
	return left, nil
}

// parseCmp parses a single (non-chaining) comparison, per spec's
// same-type binary-comparison operators.
func (p *selParser) parseCmp() (*expr.Node, error) {
	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	switch p.peek().kind {
	case tEqEq:
		p.next()
		right, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return expr.Eq(left, right), nil
	case tNeq:
		p.next()
		right, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return expr.Not(expr.Eq(left, right)), nil
	case tLt:
		p.next()
		right, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return expr.Lt(left, right), nil
	case tLe:
		p.next()
		right, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return expr.Le(left, right), nil
	case tGt:
		p.next()
		right, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return expr.Gt(left, right), nil
	case tGe:
		p.next()
		right, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return expr.Ge(left, right), nil
	}
	return left, nil
}

func (p *selParser) parseUnary() (*expr.Node, error) {
	if p.peek().kind == tBang {
		p.next()
		inner, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return expr.Not(inner), nil
	}
	return p.parsePrimary()
}

func (p *selParser) parsePrimary() (*expr.Node, error) {
	t := p.peek()
	switch t.kind {
	case tLParen:
		p.next()
		n, err := p.parseOr()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(tRParen, ")"); err != nil {
			return nil, err
		}
		return n, nil

	case tNumber:
		p.next()
		isFloat, i, f, err := parseNumber(t.text)
		if err != nil {
			return nil, errors.Wrapf(ErrParse, "bad number %q", t.text)
		}
		if isFloat {
			return expr.Literal(expr.FloatData(f)), nil
		}
		return expr.Literal(expr.IntData(i)), nil

	case tString:
		p.next()
		return expr.Literal(expr.BytesData([]byte(t.text))), nil

	case tIdent:
		return p.parseIdentPrimary()
	}
	return nil, errors.Wrapf(ErrParse, "unexpected token %q", t.text)
}

func (p *selParser) parseIdentPrimary() (*expr.Node, error) {
	t := p.next()
	switch t.text {
	case "true":
		return expr.Literal(expr.BoolData(true)), nil
	case "false":
		return expr.Literal(expr.BoolData(false)), nil
	case "sel":
		if p.peek().kind == tBang {
			p.next()
			return p.parseSelSugar()
		}
		return nil, errors.Wrapf(ErrParse, "expected ! after sel")
	case "exists":
		if p.peek().kind == tLParen {
			p.next()
			refTok, err := p.expect(tIdent, "reference")
			if err != nil {
				return nil, err
			}
			if _, err := p.expect(tRParen, ")"); err != nil {
				return nil, err
			}
			return existsNode(refTok.text)
		}
		return nil, errors.Wrapf(ErrParse, "expected ( after exists")
	}
	if !strings.Contains(t.text, ".") {
		return nil, errors.Wrapf(ErrParse, "bare identifier %q is not a reference (want strtype.label[.attr])", t.text)
	}
	st, label, attr, err := ResolveRef(t.text)
	if err != nil {
		return nil, err
	}
	if attr.IsEmpty() {
		return expr.LabelRef(st, label), nil
	}
	return expr.AttrRef(st, label, attr), nil
}

// parseSelSugar parses the "()" or "(name1,name2,...)" argument list
// following "sel!".
func (p *selParser) parseSelSugar() (*expr.Node, error) {
	if _, err := p.expect(tLParen, "("); err != nil {
		return nil, err
	}
	if p.peek().kind == tRParen {
		p.next()
		return expr.Literal(expr.BoolData(true)), nil
	}
	var node *expr.Node
	for {
		refTok, err := p.expect(tIdent, "reference")
		if err != nil {
			return nil, err
		}
		n, err := existsNode(refTok.text)
		if err != nil {
			return nil, err
		}
		if node == nil {
			node = n
		} else {
			node = expr.And(node, n)
		}
		if p.peek().kind == tComma {
			p.next()
			continue
		}
		break
	}
	if _, err := p.expect(tRParen, ")"); err != nil {
		return nil, err
	}
	return node, nil
}

func existsNode(ref string) (*expr.Node, error) {
	st, label, attr, err := ResolveRef(ref)
	if err != nil {
		return nil, err
	}
	if attr.IsEmpty() {
		return expr.LabelExists(st, label), nil
	}
	return expr.AttrExists(st, label, attr), nil
}
