// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package refine

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/findq/findq/internal/filter"
)

// Condition is one field-op-value test of a refine expression. Refine is a
// deliberately lighter sieve than the main query language: flat AND-joined
// conditions over already-materialized rows.
type Condition struct {
	Field string
	Op    string
	Value string
	Num   float64
	IsNum bool
}

var (
	andSplitRE  = regexp.MustCompile(`(?i)\s+AND\s+`)
	conditionRE = regexp.MustCompile(`(?i)^(\w+)\s*(>=|<=|!=|<>|>|<|=|LIKE|RLIKE)\s*(.+)$`)
)

// sizeFields take size literals (10k, 1.5m) as their comparison value.
var sizeFields = map[string]bool{
	"size":       true,
	"total_size": true,
	"avg_size":   true,
}

// ParseRefine compiles an AND-joined refine expression. When fields is
// non-empty, every condition's field must be in it.
func ParseRefine(expr string, fields []string) ([]Condition, error) {
	expr = strings.TrimSpace(expr)
	if expr == "" {
		return nil, nil
	}

	var conds []Condition
	for _, part := range andSplitRE.Split(expr, -1) {
		part = strings.TrimSpace(part)
		m := conditionRE.FindStringSubmatch(part)
		if m == nil {
			return nil, fmt.Errorf("cannot parse refine condition %q", part)
		}

		cond := Condition{
			Field: strings.ToLower(m[1]),
			Op:    strings.ToUpper(m[2]),
			Value: strings.Trim(strings.TrimSpace(m[3]), `"'`),
		}

		if len(fields) > 0 && !contains(fields, cond.Field) {
			return nil, fmt.Errorf("unknown refine field %q (known: %s)",
				cond.Field, strings.Join(fields, ", "))
		}

		switch {
		case sizeFields[cond.Field]:
			n, err := parseSizeValue(cond.Value)
			if err != nil {
				return nil, fmt.Errorf("bad size in refine condition %q: %v", part, err)
			}
			cond.Num = n
			cond.IsNum = true
		case cond.Field == "count":
			n, err := strconv.ParseInt(cond.Value, 10, 64)
			if err != nil {
				return nil, fmt.Errorf("bad count in refine condition %q", part)
			}
			cond.Num = float64(n)
			cond.IsNum = true
		}

		conds = append(conds, cond)
	}
	return conds, nil
}

// parseSizeValue reads a size comparison value: a bare number is bytes, a
// unit suffix goes through the query language's size grammar.
func parseSizeValue(s string) (float64, error) {
	if n, err := strconv.ParseFloat(s, 64); err == nil {
		return n, nil
	}
	n, err := filter.ParseSize(s)
	if err != nil {
		return 0, err
	}
	return float64(n), nil
}

// Apply keeps the rows satisfying every condition. Rows missing a condition
// field never match it.
func Apply(rows []map[string]interface{}, conds []Condition) []map[string]interface{} {
	if len(conds) == 0 {
		return rows
	}
	out := make([]map[string]interface{}, 0, len(rows))
	for _, row := range rows {
		keep := true
		for _, c := range conds {
			if !c.match(row) {
				keep = false
				break
			}
		}
		if keep {
			out = append(out, row)
		}
	}
	return out
}

func (c Condition) match(row map[string]interface{}) bool {
	v, present := row[c.Field]
	if !present || v == nil {
		return false
	}

	switch c.Op {
	case "=":
		return strings.EqualFold(stringify(v), c.Value)
	case "!=", "<>":
		return !strings.EqualFold(stringify(v), c.Value)
	case "LIKE":
		// % and _ wildcards, matched from the start, case-insensitive.
		re, err := regexp.Compile("(?i)^" + likePattern(c.Value))
		if err != nil {
			return false
		}
		return re.MatchString(stringify(v))
	case "RLIKE":
		re, err := regexp.Compile("(?i)" + c.Value)
		if err != nil {
			return false
		}
		return re.MatchString(stringify(v))
	}

	// Ordered comparison: numeric when the value parsed as a number,
	// lexicographic otherwise.
	if c.IsNum {
		n, ok := toFloat(v)
		if !ok {
			return false
		}
		return orderedMatch(c.Op, compareFloat(n, c.Num))
	}
	return orderedMatch(c.Op, strings.Compare(stringify(v), c.Value))
}

func orderedMatch(op string, cmp int) bool {
	switch op {
	case ">":
		return cmp > 0
	case "<":
		return cmp < 0
	case ">=":
		return cmp >= 0
	case "<=":
		return cmp <= 0
	}
	return false
}

func compareFloat(a, b float64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

// likePattern translates a LIKE value into a regexp body: % spans anything,
// _ is one character, everything else is literal.
func likePattern(value string) string {
	var b strings.Builder
	for _, r := range value {
		switch r {
		case '%':
			b.WriteString(".*")
		case '_':
			b.WriteString(".")
		default:
			b.WriteString(regexp.QuoteMeta(string(r)))
		}
	}
	return b.String()
}

// SortGroups orders rows by name, count, total_size or avg_size. Any other
// field leaves the order untouched.
func SortGroups(groups []map[string]interface{}, sortBy string, descending bool) {
	switch sortBy {
	case "name", "count", "total_size", "avg_size":
	default:
		return
	}

	sort.SliceStable(groups, func(i, j int) bool {
		a, b := groups[i][sortBy], groups[j][sortBy]
		var less bool
		if na, ok := toFloat(a); ok {
			nb, _ := toFloat(b)
			less = na < nb
		} else {
			less = stringify(a) < stringify(b)
		}
		if descending {
			return !less && !equalValues(a, b)
		}
		return less
	})
}

func equalValues(a, b interface{}) bool {
	if na, ok := toFloat(a); ok {
		nb, ok := toFloat(b)
		return ok && na == nb
	}
	return stringify(a) == stringify(b)
}

func stringify(v interface{}) string {
	if v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprint(v)
}

// toFloat coerces the numeric types a row can carry: int64 from live
// matches, float64 from JSON round-trips.
func toFloat(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case int64:
		return float64(n), true
	case int:
		return float64(n), true
	case float64:
		return n, true
	default:
		return 0, false
	}
}

func contains(list []string, s string) bool {
	for _, item := range list {
		if item == s {
			return true
		}
	}
	return false
}
