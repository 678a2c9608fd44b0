// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package filter

import (
	"fmt"
	"strconv"
	"strings"
)

// Size suffixes are decimal: 1K is exactly 1000 bytes, not 1024.
var unitFactors = map[byte]int64{
	'b': 1,
	'k': 1_000,
	'm': 1_000_000,
	'g': 1_000_000_000,
	't': 1_000_000_000_000,
}

// UnitFactor returns the byte multiplier for a size-suffix letter. The
// lookup is case-insensitive.
func UnitFactor(suffix byte) (int64, bool) {
	if suffix >= 'A' && suffix <= 'Z' {
		suffix += 'a' - 'A'
	}
	f, ok := unitFactors[suffix]
	return f, ok
}

// ParseSize converts a size literal such as "64K" or "1.5m" into bytes.
// A fractional mantissa is allowed only when the product is a whole number
// of bytes: "1.5K" is 1500, "1.5B" is an error.
func ParseSize(lit string) (int64, error) {
	if len(lit) < 2 {
		return 0, fmt.Errorf("invalid size literal %q", lit)
	}

	factor, ok := UnitFactor(lit[len(lit)-1])
	if !ok {
		return 0, fmt.Errorf("invalid size unit in %q", lit)
	}

	mantissa := lit[:len(lit)-1]
	intPart, fracPart, hasFrac := strings.Cut(mantissa, ".")
	if intPart == "" {
		return 0, fmt.Errorf("invalid size literal %q", lit)
	}

	whole, err := strconv.ParseInt(intPart, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid size literal %q", lit)
	}
	total := whole * factor

	if hasFrac && fracPart != "" {
		frac, err := strconv.ParseInt(fracPart, 10, 64)
		if err != nil {
			return 0, fmt.Errorf("invalid size literal %q", lit)
		}
		scale := int64(1)
		for range fracPart {
			scale *= 10
		}
		scaled := frac * factor
		if scaled%scale != 0 {
			return 0, fmt.Errorf("size %q is not a whole number of bytes", lit)
		}
		if whole < 0 {
			total -= scaled / scale
		} else {
			total += scaled / scale
		}
	}

	return total, nil
}

// FormatSize renders a byte count with the largest decimal unit, rounded to
// at most one decimal place: 1500 -> "1.5K", 2000000 -> "2M", 999 -> "999B".
func FormatSize(bytes int64) string {
	neg := ""
	if bytes < 0 {
		neg = "-"
		bytes = -bytes
	}

	for _, u := range []struct {
		suffix string
		factor int64
	}{
		{"T", 1_000_000_000_000},
		{"G", 1_000_000_000},
		{"M", 1_000_000},
		{"K", 1_000},
	} {
		if bytes < u.factor {
			continue
		}
		frac := strconv.FormatFloat(float64(bytes)/float64(u.factor), 'f', 1, 64)
		frac = strings.TrimSuffix(frac, ".0")
		return neg + frac + u.suffix
	}
	return fmt.Sprintf("%s%dB", neg, bytes)
}
