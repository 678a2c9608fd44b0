// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package filter

import "fmt"

// Compile tokenizes and parses a query into a Filter ready for evaluation.
// Errors are always of type *ParseError and carry the offending offset.
func Compile(query string) (*Filter, error) {
	tokens, err := lex(query)
	if err != nil {
		return nil, err
	}

	p := &parser{tokens: tokens}
	root, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if tok := p.current(); tok.Kind != TokenEOF {
		return nil, p.errorf(tok, "unexpected %s after expression", tok.Kind)
	}

	return &Filter{query: query, root: root}, nil
}

type parser struct {
	tokens []Token
	pos    int
}

func (p *parser) current() Token {
	return p.tokens[p.pos]
}

func (p *parser) advance() Token {
	tok := p.tokens[p.pos]
	if p.pos < len(p.tokens)-1 {
		p.pos++
	}
	return tok
}

func (p *parser) expect(kind TokenKind, context string) (Token, error) {
	tok := p.current()
	if tok.Kind != kind {
		return tok, p.errorf(tok, "expected %s %s, found %s", kind, context, tok.Kind)
	}
	return p.advance(), nil
}

func (p *parser) errorf(tok Token, format string, args ...any) error {
	return &ParseError{Pos: tok.Pos, Msg: fmt.Sprintf(format, args...)}
}

// parseExpr parses a full boolean expression. Precedence from loosest to
// tightest binding is OR, AND, NOT.
func (p *parser) parseExpr() (Expr, error) {
	return p.parseOr()
}

func (p *parser) parseOr() (Expr, error) {
	left, err := p.parseAnd()
	if err != nil {
		return nil, err
	}
	for p.current().Kind == TokenOr {
		p.advance()
		right, err := p.parseAnd()
		if err != nil {
			return nil, err
		}
		left = &Or{L: left, R: right}
	}
	return left, nil
}

func (p *parser) parseAnd() (Expr, error) {
	left, err := p.parseNot()
	if err != nil {
		return nil, err
	}
	for p.current().Kind == TokenAnd {
		p.advance()
		right, err := p.parseNot()
		if err != nil {
			return nil, err
		}
		left = &And{L: left, R: right}
	}
	return left, nil
}

func (p *parser) parseNot() (Expr, error) {
	if p.current().Kind == TokenNot {
		p.advance()
		x, err := p.parseNot()
		if err != nil {
			return nil, err
		}
		return &Not{X: x}, nil
	}
	return p.parsePrimary()
}

func (p *parser) parsePrimary() (Expr, error) {
	if p.current().Kind == TokenLParen {
		p.advance()
		inner, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(TokenRParen, "to close group"); err != nil {
			return nil, err
		}
		return inner, nil
	}
	return p.parsePredicate()
}

// parsePredicate parses a term optionally followed by a comparison,
// LIKE/ILIKE/RLIKE, IN, BETWEEN or IS NULL clause. A lone term is legal and
// evaluates by truthiness.
func (p *parser) parsePredicate() (Expr, error) {
	left, err := p.parseTerm()
	if err != nil {
		return nil, err
	}

	tok := p.current()
	switch tok.Kind {
	case TokenEq, TokenNe, TokenLt, TokenLe, TokenGt, TokenGe:
		p.advance()
		right, err := p.parseTerm()
		if err != nil {
			return nil, err
		}
		return &Cmp{Op: cmpOpFor(tok.Kind), L: left, R: right}, nil

	case TokenLike, TokenILike, TokenRLike:
		return p.parseLike(left, false)

	case TokenIn:
		return p.parseIn(left, false)

	case TokenBetween:
		return p.parseBetween(left, false)

	case TokenNot:
		p.advance()
		switch p.current().Kind {
		case TokenLike, TokenILike, TokenRLike:
			return p.parseLike(left, true)
		case TokenIn:
			return p.parseIn(left, true)
		case TokenBetween:
			return p.parseBetween(left, true)
		default:
			return nil, p.errorf(p.current(), "expected LIKE, IN or BETWEEN after NOT, found %s", p.current().Kind)
		}

	case TokenIs:
		p.advance()
		negated := false
		if p.current().Kind == TokenNot {
			p.advance()
			negated = true
		}
		if _, err := p.expect(TokenNull, "after IS"); err != nil {
			return nil, err
		}
		return &IsNull{L: left, Negated: negated}, nil

	default:
		// Bare term, evaluated for truthiness.
		return left, nil
	}
}

func (p *parser) parseLike(left Expr, negated bool) (Expr, error) {
	op := p.advance()
	pattern, err := p.expect(TokenString, fmt.Sprintf("pattern after %s", op.Kind))
	if err != nil {
		return nil, err
	}
	return &Like{
		Op:      patternOpFor(op.Kind),
		L:       left,
		Pattern: pattern.Text,
		Negated: negated,
	}, nil
}

func (p *parser) parseIn(left Expr, negated bool) (Expr, error) {
	p.advance() // IN
	if _, err := p.expect(TokenLParen, "to open IN set"); err != nil {
		return nil, err
	}

	var set []Expr
	for {
		term, err := p.parseTerm()
		if err != nil {
			return nil, err
		}
		set = append(set, term)
		if p.current().Kind != TokenComma {
			break
		}
		p.advance()
	}

	if _, err := p.expect(TokenRParen, "to close IN set"); err != nil {
		return nil, err
	}
	return &In{L: left, Set: set, Negated: negated}, nil
}

func (p *parser) parseBetween(left Expr, negated bool) (Expr, error) {
	p.advance() // BETWEEN
	lo, err := p.parseTerm()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(TokenAnd, "between range bounds"); err != nil {
		return nil, err
	}
	hi, err := p.parseTerm()
	if err != nil {
		return nil, err
	}
	return &Between{L: left, Lo: lo, Hi: hi, Negated: negated}, nil
}

// parseTerm parses a single value-producing term: a literal or an identifier.
func (p *parser) parseTerm() (Expr, error) {
	tok := p.current()
	switch tok.Kind {
	case TokenIdent:
		p.advance()
		return &Ident{Name: tok.Text}, nil
	case TokenString:
		p.advance()
		return &Literal{Val: Text(tok.Text)}, nil
	case TokenInt:
		p.advance()
		return &Literal{Val: Int(tok.Int)}, nil
	case TokenSize:
		p.advance()
		return &Literal{Val: Size(tok.Int)}, nil
	case TokenFloat:
		p.advance()
		return &Literal{Val: Float(tok.Float)}, nil
	case TokenTrue:
		p.advance()
		return &Literal{Val: Bool(true)}, nil
	case TokenFalse:
		p.advance()
		return &Literal{Val: Bool(false)}, nil
	case TokenNull:
		p.advance()
		return &Literal{Val: Null}, nil
	default:
		return nil, p.errorf(tok, "expected a value or identifier, found %s", tok.Kind)
	}
}

func cmpOpFor(kind TokenKind) CmpOp {
	switch kind {
	case TokenEq:
		return OpEq
	case TokenNe:
		return OpNe
	case TokenLt:
		return OpLt
	case TokenLe:
		return OpLe
	case TokenGt:
		return OpGt
	default:
		return OpGe
	}
}

func patternOpFor(kind TokenKind) PatternOp {
	switch kind {
	case TokenILike:
		return OpILike
	case TokenRLike:
		return OpRLike
	default:
		return OpLike
	}
}
