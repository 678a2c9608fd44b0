// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

// Package filter compiles and evaluates SQL-WHERE-style predicates over
// candidate file rows.
//
// A query is a boolean expression built from comparisons between file
// attributes and literal values. Queries are compiled once into an expression
// tree and then evaluated against every row a walk produces.
//
// Operators include:
//
//   - = <> != < <= > >= : comparisons (<> and != are synonyms)
//   - LIKE / ILIKE      : SQL wildcard match, % and _ (ILIKE folds case)
//   - RLIKE             : raw regular-expression match
//   - [NOT] IN (...)    : set membership
//   - [NOT] BETWEEN x AND y : inclusive range
//   - IS [NOT] NULL     : attribute availability test
//   - AND OR NOT        : boolean connectives, NOT binds tightest, OR loosest
//
// Literals:
//
//   - numbers with optional sign and fraction: 10, -3, 2.5
//   - sizes with a decimal unit suffix: 64K, 1.5m, 2G (K/M/G/T are powers
//     of 1000, B is bytes)
//   - single- or double-quoted strings: 'README.md', "2024-01"
//   - TRUE and FALSE
//
// Examples:
//
//   - `ext = "go" and size > 10k`
//   - `name ilike "readme%" or path rlike "src/.*/testdata"`
//   - `date between "2024-01" and "2024-06" and type = "file"`
//   - `archive is not null and size = 0`
//
// Evaluation follows SQL three-valued logic: comparisons against a Null
// attribute yield Null, Null propagates through AND/OR/NOT, and a query whose
// overall result is Null does not match. Keywords and identifiers are
// case-insensitive; quoted strings keep their case, though comparisons against
// name, path, ext and ext2 fold case.
package filter
