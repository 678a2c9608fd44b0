// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

// Package refine narrows and summarizes result rows after a search has run.
//
// GroupBy rolls file rows up by archive, extension or directory with counts
// and size statistics. ParseRefine/Apply give a small flat condition language
// (field op value, AND-joined) for trimming either file rows or group rows,
// which is what the console's refine step and the --refine flag run.
package refine
