// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package refine

import (
	"fmt"
	"strings"

	"github.com/findq/findq/internal/filter"
)

// GroupFields are the supported --group-by fields.
var GroupFields = []string{"archive", "ext", "dir"}

// StatColumns is the canonical column order of a group row.
var StatColumns = []string{"key", "name", "count", "total_size", "avg_size"}

const (
	noExtension = "(no extension)"
	rootDir     = "(root)"
)

// GroupBy folds file rows into per-key statistics rows. Each group row
// carries key, name (the key's last path segment), count, total_size and
// avg_size, plus humanized total_size_formatted and avg_size_formatted.
// Groups come back in first-seen order; SortGroups imposes an order.
//
// Grouping by "archive" drops rows that are not inside a container.
func GroupBy(files []map[string]interface{}, field string) ([]map[string]interface{}, error) {
	switch field {
	case "archive", "ext", "dir":
	default:
		return nil, fmt.Errorf("unsupported group-by field %q (want archive, ext or dir)", field)
	}

	type agg struct {
		count int64
		total int64
	}
	groups := make(map[string]*agg)
	var order []string

	for _, f := range files {
		key, ok := groupKey(f, field)
		if !ok {
			continue
		}
		g := groups[key]
		if g == nil {
			g = &agg{}
			groups[key] = g
			order = append(order, key)
		}
		g.count++
		if size, ok := toFloat(f["size"]); ok {
			g.total += int64(size)
		}
	}

	out := make([]map[string]interface{}, 0, len(order))
	for _, key := range order {
		g := groups[key]
		avg := float64(0)
		if g.count > 0 {
			avg = float64(g.total) / float64(g.count)
		}
		name := key
		if idx := strings.LastIndexByte(key, '/'); idx >= 0 {
			name = key[idx+1:]
		}
		out = append(out, map[string]interface{}{
			"key":                  key,
			"name":                 name,
			"count":                g.count,
			"total_size":           g.total,
			"avg_size":             avg,
			"total_size_formatted": filter.FormatSize(g.total),
			"avg_size_formatted":   filter.FormatSize(int64(avg)),
		})
	}
	return out, nil
}

// groupKey resolves a file row to its group key. The second result is false
// when the row does not belong to any group.
func groupKey(f map[string]interface{}, field string) (string, bool) {
	switch field {
	case "archive":
		key := stringify(f["container"])
		if key == "" {
			return "", false
		}
		return key, true
	case "ext":
		if key := stringify(f["ext"]); key != "" {
			return key, true
		}
		return noExtension, true
	default: // dir
		full := stringify(f["path"])
		idx := strings.LastIndexAny(full, `/\`)
		if idx < 0 {
			return rootDir, true
		}
		return full[:idx], true
	}
}

// Totals sums up count and total_size across group rows for the summary
// line.
func Totals(groups []map[string]interface{}) (files int64, size int64) {
	for _, g := range groups {
		if c, ok := toFloat(g["count"]); ok {
			files += int64(c)
		}
		if s, ok := toFloat(g["total_size"]); ok {
			size += int64(s)
		}
	}
	return files, size
}
