// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

// Package find walks filesystem roots, builds a candidate row for every
// entry it encounters — descending into archives to enumerate their members
// — and yields the rows that satisfy a compiled filter.
//
// The walk is depth-first and deterministic: siblings in byte order, regular
// files before subdirectories, archive members in container order. A Walker
// is a pull-based iterator; each Next call does a bounded amount of work and
// the caller may stop at any time. Non-fatal problems (unreadable
// directories, corrupt archives) are reported through the policy's error
// sink and skipped unless StopOnError is set.
package find
