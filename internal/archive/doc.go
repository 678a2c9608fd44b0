// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

// Package archive detects archive files by name and streams their member
// listings without extracting anything.
//
// Supported kinds and the suffixes that select them:
//
//   - tar: .tar, .tar.gz, .tgz, .tar.bz2, .tbz2, .tar.xz, .txz
//   - zip: .zip
//   - 7z:  .7z
//   - rar: .rar
//
// A Probe holds the capability table mapping kinds to backends. Backends are
// fixed at construction; asking for a kind without a backend warns once per
// run and returns ErrNoBackend so callers can skip quietly. Member
// enumeration is lazy: an Enumerator holds at most one open handle and
// yields one member per Next call.
package archive
