// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package archive

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"time"
)

// Kind identifies an archive family. Its string form is what the `archive`
// attribute of a member row carries.
type Kind string

const (
	KindTar Kind = "tar"
	KindZip Kind = "zip"
	Kind7z  Kind = "7z"
	KindRar Kind = "rar"
)

// ErrNoBackend is returned by Probe.Open when the capability table has no
// backend for the requested kind.
var ErrNoBackend = errors.New("no backend for archive kind")

// Member is a single entry inside an archive. Directory entries are never
// reported. Name is the member's path inside the archive with forward
// slashes; ModTime is zero when the format does not carry one.
type Member struct {
	Name    string
	Size    int64
	ModTime time.Time
}

// Enumerator streams an archive's members one at a time. Next returns io.EOF
// when the listing is exhausted. Close releases the underlying handle and is
// safe after io.EOF.
type Enumerator interface {
	Next() (Member, error)
	Close() error
}

// kindBySuffix is ordered so two-part extensions win over their tails
// (.tar.gz before .gz would, .tar).
var kindBySuffix = []struct {
	suffix string
	kind   Kind
}{
	{".tar.gz", KindTar},
	{".tar.bz2", KindTar},
	{".tar.xz", KindTar},
	{".tgz", KindTar},
	{".tbz2", KindTar},
	{".txz", KindTar},
	{".tar", KindTar},
	{".zip", KindZip},
	{".7z", Kind7z},
	{".rar", KindRar},
}

// DetectKind reports the archive kind a file name maps to, if any. Matching
// is done on the lowercased name, so "Backup.ZIP" is a zip.
func DetectKind(name string) (Kind, bool) {
	lower := strings.ToLower(name)
	for _, e := range kindBySuffix {
		if strings.HasSuffix(lower, e.suffix) {
			return e.kind, true
		}
	}
	return "", false
}

type openFunc func(path string) (Enumerator, error)

// Probe resolves archive kinds to listing backends. The capability table is
// fixed when the probe is built; a kind that lost its backend is reported
// once per probe lifetime through warn and then skipped via ErrNoBackend.
type Probe struct {
	backends map[Kind]openFunc
	warn     func(msg string)
	warned   map[Kind]bool
}

// Option tailors a Probe at construction.
type Option func(*Probe)

// WithoutKind drops a backend from the capability table. Used to simulate a
// missing capability.
func WithoutKind(kind Kind) Option {
	return func(p *Probe) {
		delete(p.backends, kind)
	}
}

// NewProbe builds a probe with every built-in backend registered. warn
// receives one message per missing capability; nil discards them.
func NewProbe(warn func(msg string), opts ...Option) *Probe {
	p := &Probe{
		backends: map[Kind]openFunc{
			KindTar: openTar,
			KindZip: openZip,
			Kind7z:  openSevenZip,
			KindRar: openRar,
		},
		warn:   warn,
		warned: map[Kind]bool{},
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Supports reports whether the probe has a backend for the kind.
func (p *Probe) Supports(kind Kind) bool {
	_, ok := p.backends[kind]
	return ok
}

// Open starts a member enumeration for the archive at path. It returns
// ErrNoBackend when the kind has no backend, warning on the first such miss
// per kind.
func (p *Probe) Open(path string, kind Kind) (Enumerator, error) {
	open, ok := p.backends[kind]
	if !ok {
		if !p.warned[kind] {
			p.warned[kind] = true
			if p.warn != nil {
				p.warn(fmt.Sprintf("%s support is not available, skipping %s archives", kind, kind))
			}
		}
		return nil, fmt.Errorf("%s: %w", kind, ErrNoBackend)
	}
	return open(path)
}

// sliceEnumerator replays a pre-listed member slice, used when a member
// listing is served from the index cache instead of the archive itself.
type sliceEnumerator struct {
	members []Member
	idx     int
}

// Slice wraps pre-listed members in an Enumerator.
func Slice(members []Member) Enumerator {
	return &sliceEnumerator{members: members}
}

func (e *sliceEnumerator) Next() (Member, error) {
	if e.idx >= len(e.members) {
		return Member{}, io.EOF
	}
	m := e.members[e.idx]
	e.idx++
	return m, nil
}

func (e *sliceEnumerator) Close() error { return nil }
