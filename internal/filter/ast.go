// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package filter

import "regexp"

// Expr is a node in a compiled query tree. Trees are immutable after
// Compile except for per-node caches that are written once on first use.
type Expr interface {
	isExpr()
}

// shape tracks the cached result of validating a literal against the
// date or time literal forms.
type shape int8

const (
	shapeUnchecked shape = iota
	shapeOK
	shapeBad
)

// Literal is a constant scalar term.
type Literal struct {
	Val Value

	// Validation of date/time-shaped text is performed on the first
	// comparison against a temporal attribute and cached here.
	dateShape shape
	timeShape shape
}

// Ident references a row attribute by its lowercase name. Names the row does
// not carry evaluate to Null.
type Ident struct {
	Name string
}

// Not negates an expression with three-valued semantics: NOT Null is Null.
type Not struct {
	X Expr
}

// And is the logical conjunction of two expressions.
type And struct {
	L, R Expr
}

// Or is the logical disjunction of two expressions.
type Or struct {
	L, R Expr
}

// CmpOp enumerates the comparison operators.
type CmpOp int8

const (
	OpEq CmpOp = iota
	OpNe
	OpLt
	OpLe
	OpGt
	OpGe
)

// String returns the operator as it appears in queries.
func (op CmpOp) String() string {
	switch op {
	case OpEq:
		return "="
	case OpNe:
		return "<>"
	case OpLt:
		return "<"
	case OpLe:
		return "<="
	case OpGt:
		return ">"
	default:
		return ">="
	}
}

// Cmp compares two terms.
type Cmp struct {
	Op   CmpOp
	L, R Expr
}

// PatternOp selects the pattern-match flavor of a Like node.
type PatternOp int8

const (
	OpLike PatternOp = iota
	OpILike
	OpRLike
)

// String returns the operator keyword.
func (op PatternOp) String() string {
	switch op {
	case OpILike:
		return "ILIKE"
	case OpRLike:
		return "RLIKE"
	default:
		return "LIKE"
	}
}

// Like matches a term against a pattern. LIKE and ILIKE translate SQL
// wildcards; RLIKE takes the pattern as a raw regular expression. The
// compiled regex is built on first evaluation and cached for the lifetime
// of the node.
type Like struct {
	Op      PatternOp
	L       Expr
	Pattern string
	Negated bool

	re *regexp.Regexp
}

// In tests a term for membership in a literal set.
type In struct {
	L       Expr
	Set     []Expr
	Negated bool
}

// Between tests a term against an inclusive range. A range whose low bound
// exceeds its high bound matches nothing.
type Between struct {
	L, Lo, Hi Expr
	Negated   bool
}

// IsNull tests whether a term evaluates to Null.
type IsNull struct {
	L       Expr
	Negated bool
}

func (*Literal) isExpr() {}
func (*Ident) isExpr()   {}
func (*Not) isExpr()     {}
func (*And) isExpr()     {}
func (*Or) isExpr()      {}
func (*Cmp) isExpr()     {}
func (*Like) isExpr()    {}
func (*In) isExpr()      {}
func (*Between) isExpr() {}
func (*IsNull) isExpr()  {}
