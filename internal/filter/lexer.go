// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package filter

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"
)

// TokenKind identifies the lexical class of a token.
type TokenKind int8

const (
	TokenEOF TokenKind = iota
	TokenIdent
	TokenString
	TokenInt
	TokenFloat
	TokenSize
	TokenEq
	TokenNe
	TokenLt
	TokenLe
	TokenGt
	TokenGe
	TokenLParen
	TokenRParen
	TokenComma
	TokenAnd
	TokenOr
	TokenNot
	TokenLike
	TokenILike
	TokenRLike
	TokenBetween
	TokenIn
	TokenIs
	TokenNull
	TokenTrue
	TokenFalse
)

// String returns a printable name for the token kind, used in parse errors.
func (k TokenKind) String() string {
	switch k {
	case TokenEOF:
		return "end of query"
	case TokenIdent:
		return "identifier"
	case TokenString:
		return "string"
	case TokenInt:
		return "integer"
	case TokenFloat:
		return "float"
	case TokenSize:
		return "size"
	case TokenEq:
		return "="
	case TokenNe:
		return "<>"
	case TokenLt:
		return "<"
	case TokenLe:
		return "<="
	case TokenGt:
		return ">"
	case TokenGe:
		return ">="
	case TokenLParen:
		return "("
	case TokenRParen:
		return ")"
	case TokenComma:
		return ","
	case TokenAnd:
		return "AND"
	case TokenOr:
		return "OR"
	case TokenNot:
		return "NOT"
	case TokenLike:
		return "LIKE"
	case TokenILike:
		return "ILIKE"
	case TokenRLike:
		return "RLIKE"
	case TokenBetween:
		return "BETWEEN"
	case TokenIn:
		return "IN"
	case TokenIs:
		return "IS"
	case TokenNull:
		return "NULL"
	case TokenTrue:
		return "TRUE"
	case TokenFalse:
		return "FALSE"
	default:
		return "unknown"
	}
}

// Token is a single lexical unit of a query. Pos is the rune offset of the
// token's first character within the query text.
type Token struct {
	Kind  TokenKind
	Text  string
	Int   int64
	Float float64
	Pos   int
}

// ParseError reports a lex or parse failure and where in the query it
// occurred. Pos is a zero-based rune offset.
type ParseError struct {
	Pos int
	Msg string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse error at offset %d: %s", e.Pos, e.Msg)
}

// keywords maps upper-cased identifier text to reserved token kinds.
var keywords = map[string]TokenKind{
	"AND":     TokenAnd,
	"OR":      TokenOr,
	"NOT":     TokenNot,
	"LIKE":    TokenLike,
	"ILIKE":   TokenILike,
	"RLIKE":   TokenRLike,
	"BETWEEN": TokenBetween,
	"IN":      TokenIn,
	"IS":      TokenIs,
	"NULL":    TokenNull,
	"TRUE":    TokenTrue,
	"FALSE":   TokenFalse,
}

type lexer struct {
	input []rune
	pos   int
}

// lex tokenizes a query. The returned slice always ends with a TokenEOF.
func lex(query string) ([]Token, error) {
	lx := &lexer{input: []rune(query)}
	var tokens []Token
	for {
		tok, err := lx.next()
		if err != nil {
			return nil, err
		}
		tokens = append(tokens, tok)
		if tok.Kind == TokenEOF {
			return tokens, nil
		}
	}
}

func (lx *lexer) next() (Token, error) {
	for lx.pos < len(lx.input) && unicode.IsSpace(lx.input[lx.pos]) {
		lx.pos++
	}
	if lx.pos >= len(lx.input) {
		return Token{Kind: TokenEOF, Pos: lx.pos}, nil
	}

	start := lx.pos
	c := lx.input[lx.pos]

	switch {
	case c == '(':
		lx.pos++
		return Token{Kind: TokenLParen, Text: "(", Pos: start}, nil
	case c == ')':
		lx.pos++
		return Token{Kind: TokenRParen, Text: ")", Pos: start}, nil
	case c == ',':
		lx.pos++
		return Token{Kind: TokenComma, Text: ",", Pos: start}, nil
	case c == '=':
		lx.pos++
		return Token{Kind: TokenEq, Text: "=", Pos: start}, nil
	case c == '!':
		if lx.peek(1) == '=' {
			lx.pos += 2
			return Token{Kind: TokenNe, Text: "!=", Pos: start}, nil
		}
		return Token{}, &ParseError{Pos: start, Msg: "unexpected '!' (did you mean '!=')"}
	case c == '<':
		switch lx.peek(1) {
		case '=':
			lx.pos += 2
			return Token{Kind: TokenLe, Text: "<=", Pos: start}, nil
		case '>':
			lx.pos += 2
			return Token{Kind: TokenNe, Text: "<>", Pos: start}, nil
		default:
			lx.pos++
			return Token{Kind: TokenLt, Text: "<", Pos: start}, nil
		}
	case c == '>':
		if lx.peek(1) == '=' {
			lx.pos += 2
			return Token{Kind: TokenGe, Text: ">=", Pos: start}, nil
		}
		lx.pos++
		return Token{Kind: TokenGt, Text: ">", Pos: start}, nil
	case c == '\'' || c == '"':
		return lx.scanString(c)
	case unicode.IsDigit(c),
		(c == '-' || c == '+') && unicode.IsDigit(lx.peek(1)):
		return lx.scanNumber()
	case unicode.IsLetter(c) || c == '_':
		return lx.scanIdent()
	default:
		return Token{}, &ParseError{Pos: start, Msg: fmt.Sprintf("unexpected character %q", c)}
	}
}

func (lx *lexer) peek(ahead int) rune {
	if lx.pos+ahead >= len(lx.input) {
		return 0
	}
	return lx.input[lx.pos+ahead]
}

// scanString consumes a quoted string. Backslash escapes \\ \' \" \n and \t
// are translated; a backslash before any other character is kept verbatim so
// Windows-style paths don't need doubling.
func (lx *lexer) scanString(quote rune) (Token, error) {
	start := lx.pos
	lx.pos++ // opening quote
	var sb strings.Builder
	for lx.pos < len(lx.input) {
		c := lx.input[lx.pos]
		switch c {
		case quote:
			lx.pos++
			return Token{Kind: TokenString, Text: sb.String(), Pos: start}, nil
		case '\\':
			switch lx.peek(1) {
			case '\\', '\'', '"':
				sb.WriteRune(lx.peek(1))
				lx.pos += 2
			case 'n':
				sb.WriteByte('\n')
				lx.pos += 2
			case 't':
				sb.WriteByte('\t')
				lx.pos += 2
			default:
				sb.WriteRune(c)
				lx.pos++
			}
		default:
			sb.WriteRune(c)
			lx.pos++
		}
	}
	return Token{}, &ParseError{Pos: start, Msg: "unterminated string"}
}

// scanNumber consumes a signed number with an optional fraction and an
// optional size-unit suffix (B/K/M/G/T, any case). A suffix is only taken
// when it is not the start of a longer identifier, so "10k" is a size while
// "10kb" lexes as the number 10 followed by the identifier "kb", which the
// parser then rejects.
func (lx *lexer) scanNumber() (Token, error) {
	start := lx.pos
	if c := lx.input[lx.pos]; c == '-' || c == '+' {
		lx.pos++
	}
	for lx.pos < len(lx.input) && unicode.IsDigit(lx.input[lx.pos]) {
		lx.pos++
	}
	isFloat := false
	if lx.pos < len(lx.input) && lx.input[lx.pos] == '.' {
		isFloat = true
		lx.pos++
		for lx.pos < len(lx.input) && unicode.IsDigit(lx.input[lx.pos]) {
			lx.pos++
		}
	}
	text := string(lx.input[start:lx.pos])

	if lx.pos < len(lx.input) {
		if _, ok := UnitFactor(byte(lx.input[lx.pos])); ok && !isIdentRune(lx.peek(1)) {
			lit := text + string(lx.input[lx.pos])
			lx.pos++
			n, err := ParseSize(lit)
			if err != nil {
				return Token{}, &ParseError{Pos: start, Msg: err.Error()}
			}
			return Token{Kind: TokenSize, Text: lit, Int: n, Pos: start}, nil
		}
	}

	if isFloat {
		f, err := strconv.ParseFloat(text, 64)
		if err != nil {
			return Token{}, &ParseError{Pos: start, Msg: fmt.Sprintf("invalid number %q", text)}
		}
		return Token{Kind: TokenFloat, Text: text, Float: f, Pos: start}, nil
	}
	n, err := strconv.ParseInt(text, 10, 64)
	if err != nil {
		return Token{}, &ParseError{Pos: start, Msg: fmt.Sprintf("invalid number %q", text)}
	}
	return Token{Kind: TokenInt, Text: text, Int: n, Pos: start}, nil
}

// scanIdent consumes an identifier or keyword. Identifiers are folded to
// lowercase; keyword recognition is case-insensitive.
func (lx *lexer) scanIdent() (Token, error) {
	start := lx.pos
	for lx.pos < len(lx.input) && isIdentRune(lx.input[lx.pos]) {
		lx.pos++
	}
	raw := string(lx.input[start:lx.pos])
	if kind, ok := keywords[strings.ToUpper(raw)]; ok {
		return Token{Kind: kind, Text: raw, Pos: start}, nil
	}
	return Token{Kind: TokenIdent, Text: strings.ToLower(raw), Pos: start}, nil
}

func isIdentRune(c rune) bool {
	return c == '_' || unicode.IsLetter(c) || unicode.IsDigit(c)
}
