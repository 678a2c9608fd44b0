// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package find

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"

	"github.com/findq/findq/internal/archive"
	"github.com/findq/findq/internal/filter"
	"github.com/findq/findq/internal/log"
)

// ErrStopped is the terminal error when StopOnError ended the walk at the
// first reported problem.
var ErrStopped = errors.New("walk stopped on first error")

// frame is one directory being walked: its non-directory rows first, then
// its subdirectory names, both in byte order.
type frame struct {
	dir     string
	files   []*FileInfo
	subdirs []string
	fi, si  int
}

// Walker yields match records for rows satisfying the filter. It is a
// pull-based iterator: each Next call does a bounded amount of traversal and
// either returns the next match or reports the end of the walk.
type Walker struct {
	roots   []string
	rootIdx int
	flt     *filter.Filter
	policy  Policy
	anchors *Anchors
	probe   *archive.Probe
	frames  []*frame

	enum          archive.Enumerator
	enumFI        *FileInfo
	enumKind      archive.Kind
	enumFromIndex bool
	enumMembers   []archive.Member

	visited map[fileID]struct{}
	err     error
	done    bool
}

// NewWalker prepares a walk over roots, in the order given, yielding rows
// that satisfy flt.
func NewWalker(roots []string, flt *filter.Filter, policy Policy) *Walker {
	p := policy.withDefaults()
	w := &Walker{
		roots:   roots,
		flt:     flt,
		policy:  p,
		anchors: NewAnchors(p.Now),
		probe: archive.NewProbe(func(msg string) {
			log.Warnf("%s", msg)
		}),
	}
	if p.FollowSymlinks {
		w.visited = make(map[fileID]struct{})
	}
	return w
}

// Next returns the next matching row. The second result is false once the
// walk has ended; Err then reports whether it ended cleanly.
func (w *Walker) Next() (Match, bool) {
	for !w.done {
		var (
			m  Match
			ok bool
		)
		switch {
		case w.enum != nil:
			m, ok = w.nextMember()
		case len(w.frames) > 0:
			m, ok = w.advanceFrame()
		default:
			m, ok = w.nextRoot()
		}
		if ok {
			return m, true
		}
	}
	return Match{}, false
}

// Err reports the terminal error after Next has returned false: a query
// evaluation error, or ErrStopped under StopOnError. It is nil after a
// clean walk.
func (w *Walker) Err() error {
	return w.err
}

// Close abandons the walk and releases any open archive handle. The walker
// yields nothing afterwards.
func (w *Walker) Close() {
	w.closeEnum()
	w.done = true
}

func (w *Walker) nextRoot() (Match, bool) {
	if w.rootIdx >= len(w.roots) {
		w.done = true
		return Match{}, false
	}
	root := filepath.Clean(w.roots[w.rootIdx])
	w.rootIdx++

	// Roots are named explicitly, so a symlink root is always resolved.
	info, err := os.Stat(root)
	if err != nil {
		w.report(err.Error())
		return Match{}, false
	}
	if info.IsDir() {
		// The root directory itself is not a candidate row.
		w.markVisited(root, info)
		w.pushDir(root)
		return Match{}, false
	}
	fi := &FileInfo{
		Name:    filepath.Base(root),
		Path:    root,
		Size:    info.Size(),
		ModTime: info.ModTime(),
		Type:    TypeFile,
	}
	return w.processFile(fi)
}

func (w *Walker) advanceFrame() (Match, bool) {
	fr := w.frames[len(w.frames)-1]

	if fr.fi < len(fr.files) {
		fi := fr.files[fr.fi]
		fr.fi++
		return w.processFile(fi)
	}
	if fr.si < len(fr.subdirs) {
		name := fr.subdirs[fr.si]
		fr.si++
		return w.processDir(fr.dir, name)
	}

	w.frames = w.frames[:len(w.frames)-1]
	return Match{}, false
}

// processFile evaluates one non-directory row and, when the row names a
// readable archive, arranges for its members to stream out next. The
// container row itself is yielded before any of its members.
func (w *Walker) processFile(fi *FileInfo) (Match, bool) {
	kind, isArchive := archive.DetectKind(fi.Name)
	canDescend := isArchive && !w.policy.NoArchive && fi.Type == TypeFile

	matched := false
	if !w.policy.ArchivesOnly || isArchive {
		ok, err := w.test(fi)
		if err != nil {
			w.fail(err)
			return Match{}, false
		}
		matched = ok
	}
	if canDescend {
		w.openEnum(fi, kind)
	}
	if matched {
		return newMatch(fi), true
	}
	return Match{}, false
}

// processDir evaluates the directory row and descends into it. The row is
// yielded before any of the directory's children.
func (w *Walker) processDir(parent, name string) (Match, bool) {
	full := filepath.Join(parent, name)
	info, err := os.Stat(full)
	if err != nil {
		w.report(err.Error())
		return Match{}, false
	}
	if !w.markVisited(full, info) {
		// Already walked through another link.
		return Match{}, false
	}

	var matched *FileInfo
	if !w.policy.ArchivesOnly {
		fi := &FileInfo{
			Name:    name,
			Path:    full,
			ModTime: info.ModTime(),
			Type:    TypeDir,
		}
		ok, err := w.test(fi)
		if err != nil {
			w.fail(err)
			return Match{}, false
		}
		if ok {
			matched = fi
		}
	}

	w.pushDir(full)
	if matched != nil {
		return newMatch(matched), true
	}
	return Match{}, false
}

// pushDir reads one directory and stacks a frame for it. Entries that
// cannot be read are reported and skipped.
func (w *Walker) pushDir(dir string) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		w.report(err.Error())
		return
	}
	fr := &frame{dir: dir}
	for _, de := range entries {
		if w.done {
			return
		}
		isDir := de.IsDir()
		if !isDir && w.policy.FollowSymlinks && de.Type()&fs.ModeSymlink != 0 {
			if st, err := os.Stat(filepath.Join(dir, de.Name())); err == nil && st.IsDir() {
				isDir = true
			}
		}
		if isDir {
			fr.subdirs = append(fr.subdirs, de.Name())
			continue
		}
		if fi := w.entryRow(dir, de); fi != nil {
			fr.files = append(fr.files, fi)
		}
	}
	w.frames = append(w.frames, fr)
}

// entryRow builds the row for a non-directory entry. Symbolic links keep
// their own identity unless the walk follows them; other special files are
// skipped.
func (w *Walker) entryRow(dir string, de fs.DirEntry) *FileInfo {
	full := filepath.Join(dir, de.Name())
	isLink := de.Type()&fs.ModeSymlink != 0

	var (
		info fs.FileInfo
		err  error
	)
	typ := TypeFile
	switch {
	case isLink && !w.policy.FollowSymlinks:
		info, err = de.Info()
		typ = TypeLink
	case isLink:
		info, err = os.Stat(full)
		if err != nil {
			// Broken link: fall back to the link's own identity.
			info, err = de.Info()
			typ = TypeLink
		}
	case de.Type().IsRegular():
		info, err = de.Info()
	default:
		// Sockets, fifos, devices.
		return nil
	}
	if err != nil {
		w.report(err.Error())
		return nil
	}
	return &FileInfo{
		Name:    de.Name(),
		Path:    full,
		Size:    info.Size(),
		ModTime: info.ModTime(),
		Type:    typ,
	}
}

// openEnum starts streaming the members of a container, preferring the
// member index over reopening the archive.
func (w *Walker) openEnum(fi *FileInfo, kind archive.Kind) {
	if idx := w.policy.Index; idx != nil {
		if members, ok := idx.Get(fi.Path, fi.Size, fi.ModTime); ok {
			w.enum = archive.Slice(members)
			w.enumFI = fi
			w.enumKind = kind
			w.enumFromIndex = true
			return
		}
	}
	e, err := w.probe.Open(fi.Path, kind)
	if err != nil {
		// A missing backend already warned once; anything else is a
		// traversal problem.
		if !errors.Is(err, archive.ErrNoBackend) {
			w.report(fmt.Sprintf("cannot read %s: %v", fi.Path, err))
		}
		return
	}
	w.enum = e
	w.enumFI = fi
	w.enumKind = kind
	w.enumFromIndex = false
	w.enumMembers = nil
}

// nextMember evaluates one archive member row. Members that are themselves
// archives are reported as rows but never opened.
func (w *Walker) nextMember() (Match, bool) {
	m, err := w.enum.Next()
	if err != nil {
		if errors.Is(err, io.EOF) {
			w.finishEnum(true)
		} else {
			w.report(fmt.Sprintf("error reading %s: %v", w.enumFI.Path, err))
			w.finishEnum(false)
		}
		return Match{}, false
	}
	if w.policy.Index != nil && !w.enumFromIndex {
		w.enumMembers = append(w.enumMembers, m)
	}

	fi := &FileInfo{
		Name:      path.Base(m.Name),
		Path:      w.enumFI.Path + w.policy.ArchiveSeparator + m.Name,
		Size:      m.Size,
		ModTime:   m.ModTime,
		Type:      TypeFile,
		Archive:   string(w.enumKind),
		Container: w.enumFI.Path,
	}
	ok, err := w.test(fi)
	if err != nil {
		w.fail(err)
		return Match{}, false
	}
	if ok {
		return newMatch(fi), true
	}
	return Match{}, false
}

// finishEnum closes the active enumerator and, after a clean read, records
// the member listing in the index.
func (w *Walker) finishEnum(clean bool) {
	_ = w.enum.Close()
	if clean && w.policy.Index != nil && !w.enumFromIndex {
		w.policy.Index.Put(w.enumFI.Path, w.enumFI.Size, w.enumFI.ModTime, w.enumMembers)
	}
	w.enum = nil
	w.enumFI = nil
	w.enumMembers = nil
	w.enumFromIndex = false
}

func (w *Walker) closeEnum() {
	if w.enum != nil {
		_ = w.enum.Close()
		w.enum = nil
		w.enumFI = nil
		w.enumMembers = nil
		w.enumFromIndex = false
	}
}

func (w *Walker) test(fi *FileInfo) (bool, error) {
	return w.flt.Test(Row{Info: fi, Anchors: w.anchors})
}

// fail ends the walk with a query-evaluation error.
func (w *Walker) fail(err error) {
	w.closeEnum()
	w.err = err
	w.done = true
}

// report sends a traversal problem to the sink and, under StopOnError, ends
// the walk.
func (w *Walker) report(msg string) {
	w.policy.ErrorSink(msg)
	if w.policy.StopOnError {
		w.closeEnum()
		w.err = ErrStopped
		w.done = true
	}
}
