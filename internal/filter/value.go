// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package filter

import (
	"fmt"
	"strconv"
)

// Kind enumerates the scalar kinds a Value can hold.
type Kind int8

const (
	KindNull Kind = iota
	KindInt
	KindFloat
	KindText
	KindBool
)

// String returns the lowercase kind name used in error messages.
func (k Kind) String() string {
	switch k {
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindText:
		return "text"
	case KindBool:
		return "bool"
	default:
		return "null"
	}
}

// Value is the tagged scalar the evaluator operates on. The zero Value is
// Null, which is distinct from 0, "" and false.
type Value struct {
	kind Kind
	i    int64
	f    float64
	s    string
	b    bool
	size bool
}

// Null is the absent value.
var Null = Value{}

// Int wraps an integer.
func Int(i int64) Value { return Value{kind: KindInt, i: i} }

// Size wraps a byte count produced by a size-suffixed literal. It compares
// like any other Int but remembers its origin.
func Size(i int64) Value { return Value{kind: KindInt, i: i, size: true} }

// Float wraps a float.
func Float(f float64) Value { return Value{kind: KindFloat, f: f} }

// Text wraps a string.
func Text(s string) Value { return Value{kind: KindText, s: s} }

// Bool wraps a boolean.
func Bool(b bool) Value { return Value{kind: KindBool, b: b} }

// Kind returns the value's kind tag.
func (v Value) Kind() Kind { return v.kind }

// IsNull reports whether the value is absent.
func (v Value) IsNull() bool { return v.kind == KindNull }

// SizeTagged reports whether an Int originated from a size-suffixed literal.
func (v Value) SizeTagged() bool { return v.size }

// Int returns the integer payload. Only meaningful for KindInt.
func (v Value) Int() int64 { return v.i }

// Float returns the numeric payload, promoting Int to Float.
func (v Value) Float() float64 {
	if v.kind == KindInt {
		return float64(v.i)
	}
	return v.f
}

// Text returns the string payload. Only meaningful for KindText.
func (v Value) Text() string { return v.s }

// Bool returns the boolean payload. Only meaningful for KindBool.
func (v Value) Bool() bool { return v.b }

// String renders the value for error messages and logging.
func (v Value) String() string {
	switch v.kind {
	case KindInt:
		return strconv.FormatInt(v.i, 10)
	case KindFloat:
		return strconv.FormatFloat(v.f, 'g', -1, 64)
	case KindText:
		return fmt.Sprintf("%q", v.s)
	case KindBool:
		return strconv.FormatBool(v.b)
	default:
		return "null"
	}
}

// isNumeric reports whether the value participates in numeric comparison.
func (v Value) isNumeric() bool {
	return v.kind == KindInt || v.kind == KindFloat
}
