// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package filter

import (
	"fmt"
	"regexp"
	"strings"
)

// Row supplies attribute values by lowercase identifier name. Lookup returns
// Null for names the row does not carry.
type Row interface {
	Lookup(name string) Value
}

// Filter is a compiled query. A Filter is safe to reuse across rows within a
// single walk; per-node caches are written on first use.
type Filter struct {
	query string
	root  Expr
}

// String returns the original query text.
func (f *Filter) String() string { return f.query }

// Root exposes the compiled expression tree.
func (f *Filter) Root() Expr { return f.root }

// Test evaluates the filter against a row. Following SQL three-valued logic,
// an overall Null result is a non-match. Errors are of type *EvalError and
// are fatal to the query.
func (f *Filter) Test(row Row) (bool, error) {
	t, err := evalTruth(f.root, row)
	if err != nil {
		return false, err
	}
	return t == truthTrue, nil
}

// EvalErrorKind classifies evaluation failures.
type EvalErrorKind int8

const (
	// TypeMismatch marks a comparison between incompatible kinds, such as
	// text against a number.
	TypeMismatch EvalErrorKind = iota
	// BadPattern marks an RLIKE pattern that does not compile.
	BadPattern
	// BadLiteral marks a malformed date or time literal compared against a
	// temporal attribute.
	BadLiteral
)

// EvalError is a query-fatal evaluation failure. Unlike a non-matching row,
// an EvalError aborts the whole query.
type EvalError struct {
	Kind EvalErrorKind
	Msg  string
}

func (e *EvalError) Error() string { return e.Msg }

func evalErrf(kind EvalErrorKind, format string, args ...any) error {
	return &EvalError{Kind: kind, Msg: fmt.Sprintf(format, args...)}
}

// truth is the three-valued logic domain.
type truth int8

const (
	truthFalse truth = iota
	truthTrue
	truthNull
)

func truthOf(b bool) truth {
	if b {
		return truthTrue
	}
	return truthFalse
}

// truthiness coerces a scalar into the truth domain: nonzero numbers,
// nonempty text and true are true; Null stays Null.
func truthiness(v Value) truth {
	switch v.kind {
	case KindInt:
		return truthOf(v.i != 0)
	case KindFloat:
		return truthOf(v.f != 0)
	case KindText:
		return truthOf(v.s != "")
	case KindBool:
		return truthOf(v.b)
	default:
		return truthNull
	}
}

// evalTruth evaluates an expression in boolean context.
func evalTruth(e Expr, row Row) (truth, error) {
	switch n := e.(type) {
	case *Not:
		t, err := evalTruth(n.X, row)
		if err != nil {
			return truthNull, err
		}
		switch t {
		case truthTrue:
			return truthFalse, nil
		case truthFalse:
			return truthTrue, nil
		default:
			return truthNull, nil
		}

	case *And:
		lt, err := evalTruth(n.L, row)
		if err != nil {
			return truthNull, err
		}
		if lt == truthFalse {
			return truthFalse, nil
		}
		rt, err := evalTruth(n.R, row)
		if err != nil {
			return truthNull, err
		}
		switch {
		case rt == truthFalse:
			return truthFalse, nil
		case lt == truthNull || rt == truthNull:
			return truthNull, nil
		default:
			return truthTrue, nil
		}

	case *Or:
		lt, err := evalTruth(n.L, row)
		if err != nil {
			return truthNull, err
		}
		if lt == truthTrue {
			return truthTrue, nil
		}
		rt, err := evalTruth(n.R, row)
		if err != nil {
			return truthNull, err
		}
		switch {
		case rt == truthTrue:
			return truthTrue, nil
		case lt == truthNull || rt == truthNull:
			return truthNull, nil
		default:
			return truthFalse, nil
		}

	default:
		v, err := evalValue(e, row)
		if err != nil {
			return truthNull, err
		}
		return truthiness(v), nil
	}
}

// evalValue evaluates an expression in value context. Predicates yield Bool
// or Null.
func evalValue(e Expr, row Row) (Value, error) {
	switch n := e.(type) {
	case *Literal:
		return n.Val, nil

	case *Ident:
		return row.Lookup(n.Name), nil

	case *Cmp:
		return evalCmp(n, row)

	case *Like:
		return evalLike(n, row)

	case *In:
		return evalIn(n, row)

	case *Between:
		return evalBetween(n, row)

	case *IsNull:
		v, err := evalValue(n.L, row)
		if err != nil {
			return Null, err
		}
		return Bool(v.IsNull() != n.Negated), nil

	default:
		// Logical nodes evaluated in value context.
		t, err := evalTruth(e, row)
		if err != nil {
			return Null, err
		}
		if t == truthNull {
			return Null, nil
		}
		return Bool(t == truthTrue), nil
	}
}

func evalCmp(n *Cmp, row Row) (Value, error) {
	lv, err := evalValue(n.L, row)
	if err != nil {
		return Null, err
	}
	rv, err := evalValue(n.R, row)
	if err != nil {
		return Null, err
	}
	if lv.IsNull() || rv.IsNull() {
		return Null, nil
	}

	if n.Op == OpEq || n.Op == OpNe {
		eq, err := equalValues(n.L, n.R, lv, rv)
		if err != nil {
			return Null, err
		}
		return Bool(eq == (n.Op == OpEq)), nil
	}

	c, err := compareValues(n.L, n.R, lv, rv)
	if err != nil {
		return Null, err
	}
	switch n.Op {
	case OpLt:
		return Bool(c < 0), nil
	case OpLe:
		return Bool(c <= 0), nil
	case OpGt:
		return Bool(c > 0), nil
	default:
		return Bool(c >= 0), nil
	}
}

func evalLike(n *Like, row Row) (Value, error) {
	lv, err := evalValue(n.L, row)
	if err != nil {
		return Null, err
	}
	if lv.IsNull() {
		return Null, nil
	}
	if lv.kind != KindText {
		return Null, evalErrf(TypeMismatch, "%s requires a text operand, got %s", n.Op, lv.kind)
	}

	re, err := n.compiled()
	if err != nil {
		return Null, err
	}
	return Bool(re.MatchString(lv.s) != n.Negated), nil
}

// compiled returns the node's regex, building and caching it on first use.
func (n *Like) compiled() (*regexp.Regexp, error) {
	if n.re != nil {
		return n.re, nil
	}

	expr := n.Pattern
	if n.Op != OpRLike {
		expr = likeToRegexp(n.Pattern)
	}
	if n.Op == OpILike || (n.Op == OpLike && foldIdent(n.L)) {
		expr = "(?i)" + expr
	}

	re, err := regexp.Compile(expr)
	if err != nil {
		return nil, evalErrf(BadPattern, "invalid %s pattern %q: %v", n.Op, n.Pattern, err)
	}
	n.re = re
	return re, nil
}

// likeToRegexp translates an SQL wildcard pattern into an anchored regular
// expression: % becomes .*, _ becomes ., everything else matches literally.
func likeToRegexp(pattern string) string {
	var sb strings.Builder
	sb.WriteString("^")
	for _, r := range pattern {
		switch r {
		case '%':
			sb.WriteString(".*")
		case '_':
			sb.WriteString(".")
		default:
			sb.WriteString(regexp.QuoteMeta(string(r)))
		}
	}
	sb.WriteString("$")
	return sb.String()
}

func evalIn(n *In, row Row) (Value, error) {
	lv, err := evalValue(n.L, row)
	if err != nil {
		return Null, err
	}
	if lv.IsNull() {
		return Null, nil
	}

	sawNull := false
	for _, el := range n.Set {
		ev, err := evalValue(el, row)
		if err != nil {
			return Null, err
		}
		if ev.IsNull() {
			sawNull = true
			continue
		}
		eq, err := equalValues(n.L, el, lv, ev)
		if err != nil {
			return Null, err
		}
		if eq {
			return Bool(!n.Negated), nil
		}
	}
	if sawNull {
		return Null, nil
	}
	return Bool(n.Negated), nil
}

func evalBetween(n *Between, row Row) (Value, error) {
	lv, err := evalValue(n.L, row)
	if err != nil {
		return Null, err
	}
	loV, err := evalValue(n.Lo, row)
	if err != nil {
		return Null, err
	}
	hiV, err := evalValue(n.Hi, row)
	if err != nil {
		return Null, err
	}
	if lv.IsNull() || loV.IsNull() || hiV.IsNull() {
		return Null, nil
	}

	cLo, err := compareValues(n.L, n.Lo, lv, loV)
	if err != nil {
		return Null, err
	}
	cHi, err := compareValues(n.L, n.Hi, lv, hiV)
	if err != nil {
		return Null, err
	}
	within := cLo >= 0 && cHi <= 0
	return Bool(within != n.Negated), nil
}

// foldIdents are the attributes whose text comparisons are case-insensitive.
// The remaining text attributes (date, time, type, archive, container) are
// produced in normalized form and compare literally.
var foldIdents = map[string]bool{
	"name": true,
	"path": true,
	"ext":  true,
	"ext2": true,
}

// dateIdents are the attributes carrying YYYY-MM-DD values. Literals compared
// against them may be truncated to YYYY or YYYY-MM prefixes.
var dateIdents = map[string]bool{
	"date":  true,
	"today": true,
	"mo":    true,
	"tu":    true,
	"we":    true,
	"th":    true,
	"fr":    true,
	"sa":    true,
	"su":    true,
}

func foldIdent(e Expr) bool {
	id, ok := e.(*Ident)
	return ok && foldIdents[id.Name]
}

// temporalKind reports whether either term references a date or time
// attribute, selecting prefix-compare semantics for the pair.
func temporalKind(le, re Expr) (date, tm bool) {
	for _, e := range []Expr{le, re} {
		if id, ok := e.(*Ident); ok {
			if dateIdents[id.Name] {
				date = true
			} else if id.Name == "time" {
				tm = true
			}
		}
	}
	return date, tm
}

var (
	dateLiteralRE = regexp.MustCompile(`^\d{4}(-(0[1-9]|1[0-2])(-(0[1-9]|[12]\d|3[01]))?)?$`)
	timeLiteralRE = regexp.MustCompile(`^([01]\d|2[0-3]):[0-5]\d(:[0-5]\d)?$`)
)

// checkTemporal validates a literal against the date or time forms. The
// verdict is cached on the node so each literal is validated at most once
// per compiled query.
func checkTemporal(e Expr, date bool) error {
	lit, ok := e.(*Literal)
	if !ok || lit.Val.kind != KindText {
		return nil
	}

	cache, re, what := &lit.timeShape, timeLiteralRE, "time"
	if date {
		cache, re, what = &lit.dateShape, dateLiteralRE, "date"
	}

	if *cache == shapeUnchecked {
		if re.MatchString(lit.Val.s) {
			*cache = shapeOK
		} else {
			*cache = shapeBad
		}
	}
	if *cache == shapeBad {
		return evalErrf(BadLiteral, "malformed %s literal %q", what, lit.Val.s)
	}
	return nil
}

// compareText orders two text values in the context of the terms that
// produced them: temporal pairs compare by shared prefix, case-insensitive
// attributes fold case, everything else compares by codepoint.
func compareText(le, re Expr, lv, rv Value) (int, error) {
	ls, rs := lv.s, rv.s

	date, tm := temporalKind(le, re)
	if date || tm {
		if err := checkTemporal(le, date); err != nil {
			return 0, err
		}
		if err := checkTemporal(re, date); err != nil {
			return 0, err
		}
		// Partial literals compare as prefixes: date < "2020" is true for
		// any 2019-or-earlier mtime.
		if len(ls) > len(rs) {
			ls = ls[:len(rs)]
		} else if len(rs) > len(ls) {
			rs = rs[:len(ls)]
		}
		return strings.Compare(ls, rs), nil
	}

	if foldIdent(le) || foldIdent(re) {
		ls, rs = strings.ToLower(ls), strings.ToLower(rs)
	}
	return strings.Compare(ls, rs), nil
}

// equalValues applies = semantics to two non-null values.
func equalValues(le, re Expr, lv, rv Value) (bool, error) {
	switch {
	case lv.isNumeric() && rv.isNumeric():
		if lv.kind == KindInt && rv.kind == KindInt {
			return lv.i == rv.i, nil
		}
		return lv.Float() == rv.Float(), nil
	case lv.kind == KindText && rv.kind == KindText:
		c, err := compareText(le, re, lv, rv)
		return c == 0, err
	case lv.kind == KindBool && rv.kind == KindBool:
		return lv.b == rv.b, nil
	default:
		return false, evalErrf(TypeMismatch, "cannot compare %s with %s", lv.kind, rv.kind)
	}
}

// compareValues applies ordered comparison semantics to two non-null values,
// returning -1, 0 or 1. Booleans have no ordering.
func compareValues(le, re Expr, lv, rv Value) (int, error) {
	switch {
	case lv.isNumeric() && rv.isNumeric():
		if lv.kind == KindInt && rv.kind == KindInt {
			switch {
			case lv.i < rv.i:
				return -1, nil
			case lv.i > rv.i:
				return 1, nil
			default:
				return 0, nil
			}
		}
		lf, rf := lv.Float(), rv.Float()
		switch {
		case lf < rf:
			return -1, nil
		case lf > rf:
			return 1, nil
		default:
			return 0, nil
		}
	case lv.kind == KindText && rv.kind == KindText:
		return compareText(le, re, lv, rv)
	default:
		return 0, evalErrf(TypeMismatch, "cannot order %s against %s", lv.kind, rv.kind)
	}
}
