// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package find

import (
	"fmt"
	"os"
	"time"

	"github.com/findq/findq/internal/archive"
)

// DefaultArchiveSeparator joins a container path and a member path in member
// rows.
const DefaultArchiveSeparator = "//"

// MemberIndex serves cached archive member listings keyed by the container's
// path, size and modification time. A Get miss must return false; Put
// replaces any previous listing for the path.
type MemberIndex interface {
	Get(path string, size int64, mtime time.Time) ([]archive.Member, bool)
	Put(path string, size int64, mtime time.Time, members []archive.Member)
}

// Policy bundles the walk-behavior knobs. The zero value is usable:
// symlinks stay unfollowed, archives are descended into, and traversal
// problems are reported to stderr and skipped.
type Policy struct {
	// FollowSymlinks resolves symbolic links during traversal. Directories
	// already visited through another link are skipped to break cycles.
	FollowSymlinks bool

	// NoArchive disables descending into archive files entirely.
	NoArchive bool

	// ArchivesOnly restricts candidate rows to archive containers and their
	// members.
	ArchivesOnly bool

	// StopOnError aborts the walk at the first traversal problem instead of
	// reporting and skipping.
	StopOnError bool

	// ArchiveSeparator overrides DefaultArchiveSeparator in member paths.
	ArchiveSeparator string

	// ErrorSink receives non-fatal traversal problems.
	ErrorSink func(msg string)

	// Now fixes the date anchors; zero means time.Now.
	Now time.Time

	// Index, when set, caches archive member listings across runs.
	Index MemberIndex
}

func (p Policy) withDefaults() Policy {
	if p.ArchiveSeparator == "" {
		p.ArchiveSeparator = DefaultArchiveSeparator
	}
	if p.ErrorSink == nil {
		p.ErrorSink = func(msg string) {
			fmt.Fprintln(os.Stderr, "findq: "+msg)
		}
	}
	if p.Now.IsZero() {
		p.Now = time.Now()
	}
	return p
}
