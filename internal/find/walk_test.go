// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

package find

import (
	"archive/zip"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/findq/findq/internal/archive"
	"github.com/findq/findq/internal/filter"
)

// matchAll accepts every row: name is never Null.
const matchAll = `name is not null`

func collectWalk(t *testing.T, roots []string, query string, policy Policy) ([]Match, error) {
	t.Helper()
	flt, err := filter.Compile(query)
	require.NoError(t, err)
	w := NewWalker(roots, flt, policy)
	defer w.Close()
	var out []Match
	for {
		m, ok := w.Next()
		if !ok {
			break
		}
		out = append(out, m)
	}
	return out, w.Err()
}

func paths(matches []Match) []string {
	out := make([]string, len(matches))
	for i, m := range matches {
		out[i] = m.Path
	}
	return out
}

func writeZipFixture(t *testing.T, path string, names map[string]string) {
	t.Helper()
	f, err := os.Create(path)
	require.NoError(t, err)
	zw := zip.NewWriter(f)
	// Fixed write order keeps member enumeration deterministic.
	order := []string{"docs/readme.md", "empty.bin", "inner.tar.gz"}
	for _, name := range order {
		body, ok := names[name]
		if !ok {
			continue
		}
		hdr := &zip.FileHeader{Name: name, Modified: time.Date(2026, 8, 20, 9, 15, 30, 0, time.UTC)}
		hw, err := zw.CreateHeader(hdr)
		require.NoError(t, err)
		_, err = hw.Write([]byte(body))
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())
	require.NoError(t, f.Close())
}

// buildTree lays out the standard fixture:
//
//	a.txt  b.txt  z.zip{docs/readme.md, empty.bin}  sub/{c.log, inner/{d.txt}}
func buildTree(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.txt"), []byte("aa"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "b.txt"), []byte("bbbb"), 0o644))
	writeZipFixture(t, filepath.Join(dir, "z.zip"), map[string]string{
		"docs/readme.md": "hello world",
		"empty.bin":      "",
	})
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "sub", "inner"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "sub", "c.log"), []byte("log"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "sub", "inner", "d.txt"), []byte("dd"), 0o644))
	return dir
}

func TestWalkOrderDeterministic(t *testing.T) {
	dir := buildTree(t)
	zipPath := filepath.Join(dir, "z.zip")

	want := []string{
		filepath.Join(dir, "a.txt"),
		filepath.Join(dir, "b.txt"),
		zipPath,
		zipPath + "//docs/readme.md",
		zipPath + "//empty.bin",
		filepath.Join(dir, "sub"),
		filepath.Join(dir, "sub", "c.log"),
		filepath.Join(dir, "sub", "inner"),
		filepath.Join(dir, "sub", "inner", "d.txt"),
	}

	first, err := collectWalk(t, []string{dir}, matchAll, Policy{})
	require.NoError(t, err)
	assert.Equal(t, want, paths(first))

	second, err := collectWalk(t, []string{dir}, matchAll, Policy{})
	require.NoError(t, err)
	assert.Equal(t, paths(first), paths(second), "two walks of the same tree must agree")
}

func TestWalkRowShapes(t *testing.T) {
	dir := buildTree(t)
	zipPath := filepath.Join(dir, "z.zip")

	all, err := collectWalk(t, []string{dir}, matchAll, Policy{})
	require.NoError(t, err)

	byPath := make(map[string]Match, len(all))
	for _, m := range all {
		byPath[m.Path] = m
	}

	member := byPath[zipPath+"//docs/readme.md"]
	assert.Equal(t, "readme.md", member.Name)
	assert.Equal(t, "zip", member.Archive)
	assert.Equal(t, zipPath, member.Container)
	assert.Equal(t, int64(len("hello world")), member.Size)
	assert.Equal(t, "2026-08-20", member.MtimeDate)

	subdir := byPath[filepath.Join(dir, "sub")]
	assert.Equal(t, "dir", subdir.Type)
	assert.Zero(t, subdir.Size)
	assert.Empty(t, subdir.Archive)

	container := byPath[zipPath]
	assert.Equal(t, "file", container.Type)
	assert.Empty(t, container.Archive, "the container itself is a plain file row")
}

func TestWalkFilterSelection(t *testing.T) {
	dir := buildTree(t)
	zipPath := filepath.Join(dir, "z.zip")

	tests := []struct {
		query string
		want  []string
	}{
		{
			query: `ext = "txt"`,
			want: []string{
				filepath.Join(dir, "a.txt"),
				filepath.Join(dir, "b.txt"),
				filepath.Join(dir, "sub", "inner", "d.txt"),
			},
		},
		{
			query: `type = "dir"`,
			want: []string{
				filepath.Join(dir, "sub"),
				filepath.Join(dir, "sub", "inner"),
			},
		},
		{
			query: `archive is not null and size = 0`,
			want:  []string{zipPath + "//empty.bin"},
		},
		{
			query: `container = "` + zipPath + `"`,
			want: []string{
				zipPath + "//docs/readme.md",
				zipPath + "//empty.bin",
			},
		},
		{
			query: `name like "%.zip" and container is null`,
			want:  []string{zipPath},
		},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			got, err := collectWalk(t, []string{dir}, tt.query, Policy{})
			require.NoError(t, err)
			assert.Equal(t, tt.want, paths(got))
		})
	}
}

func TestWalkFileRoot(t *testing.T) {
	dir := buildTree(t)
	zipPath := filepath.Join(dir, "z.zip")

	got, err := collectWalk(t, []string{zipPath}, matchAll, Policy{})
	require.NoError(t, err)
	assert.Equal(t, []string{
		zipPath,
		zipPath + "//docs/readme.md",
		zipPath + "//empty.bin",
	}, paths(got))
}

func TestWalkMultipleRoots(t *testing.T) {
	first := t.TempDir()
	second := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(first, "one.txt"), []byte("1"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(second, "two.txt"), []byte("2"), 0o644))

	got, err := collectWalk(t, []string{first, second}, matchAll, Policy{})
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(first, "one.txt"),
		filepath.Join(second, "two.txt"),
	}, paths(got))
}

func TestWalkNoArchive(t *testing.T) {
	dir := buildTree(t)

	got, err := collectWalk(t, []string{dir}, matchAll, Policy{NoArchive: true})
	require.NoError(t, err)
	for _, m := range got {
		assert.Empty(t, m.Archive, "no member rows expected: %s", m.Path)
	}
	assert.Contains(t, paths(got), filepath.Join(dir, "z.zip"), "the container row itself stays")
}

func TestWalkArchivesOnly(t *testing.T) {
	dir := buildTree(t)
	zipPath := filepath.Join(dir, "z.zip")

	got, err := collectWalk(t, []string{dir}, matchAll, Policy{ArchivesOnly: true})
	require.NoError(t, err)
	assert.Equal(t, []string{
		zipPath,
		zipPath + "//docs/readme.md",
		zipPath + "//empty.bin",
	}, paths(got))
}

func TestWalkArchiveSeparator(t *testing.T) {
	dir := buildTree(t)
	zipPath := filepath.Join(dir, "z.zip")

	got, err := collectWalk(t, []string{zipPath}, `archive is not null`, Policy{ArchiveSeparator: "::"})
	require.NoError(t, err)
	assert.Equal(t, []string{
		zipPath + "::docs/readme.md",
		zipPath + "::empty.bin",
	}, paths(got))
}

func TestWalkNestedArchiveNotOpened(t *testing.T) {
	dir := t.TempDir()
	zipPath := filepath.Join(dir, "outer.zip")
	writeZipFixture(t, zipPath, map[string]string{
		"inner.tar.gz": "not really a tarball",
	})

	got, err := collectWalk(t, []string{dir}, matchAll, Policy{})
	require.NoError(t, err)
	assert.Equal(t, []string{
		zipPath,
		zipPath + "//inner.tar.gz",
	}, paths(got), "nested archives are rows, never descended into")
}

func TestWalkEvalErrorAborts(t *testing.T) {
	dir := buildTree(t)

	got, err := collectWalk(t, []string{dir}, `name > 5`, Policy{})
	assert.Empty(t, got)
	var evalErr *filter.EvalError
	require.ErrorAs(t, err, &evalErr)
	assert.Equal(t, filter.TypeMismatch, evalErr.Kind)
}

func TestWalkErrorSinkSkips(t *testing.T) {
	dir := buildTree(t)
	var reported []string
	sink := func(msg string) { reported = append(reported, msg) }

	missing := filepath.Join(dir, "does-not-exist")
	got, err := collectWalk(t, []string{missing, dir}, `ext = "log"`, Policy{ErrorSink: sink})
	require.NoError(t, err, "a missing root is reported, not fatal")
	assert.Equal(t, []string{filepath.Join(dir, "sub", "c.log")}, paths(got))
	require.Len(t, reported, 1)
	assert.Contains(t, reported[0], "does-not-exist")
}

func TestWalkStopOnError(t *testing.T) {
	dir := buildTree(t)
	var reported []string
	sink := func(msg string) { reported = append(reported, msg) }

	missing := filepath.Join(dir, "does-not-exist")
	got, err := collectWalk(t, []string{missing, dir}, matchAll, Policy{
		ErrorSink:   sink,
		StopOnError: true,
	})
	assert.Empty(t, got)
	assert.ErrorIs(t, err, ErrStopped)
	assert.Len(t, reported, 1)
}

func TestWalkCorruptArchiveReported(t *testing.T) {
	dir := t.TempDir()
	fake := filepath.Join(dir, "fake.zip")
	require.NoError(t, os.WriteFile(fake, []byte("this is not a zip file"), 0o644))

	var reported []string
	got, err := collectWalk(t, []string{dir}, matchAll, Policy{
		ErrorSink: func(msg string) { reported = append(reported, msg) },
	})
	require.NoError(t, err)
	assert.Equal(t, []string{fake}, paths(got), "the unreadable container is still a row")
	require.Len(t, reported, 1)
	assert.Contains(t, reported[0], "fake.zip")
}

type fakeIndex struct {
	puts int
	data map[string][]archive.Member
}

func indexKey(path string, size int64, mtime time.Time) string {
	return fmt.Sprintf("%s|%d|%d", path, size, mtime.UnixNano())
}

func (f *fakeIndex) Get(path string, size int64, mtime time.Time) ([]archive.Member, bool) {
	m, ok := f.data[indexKey(path, size, mtime)]
	return m, ok
}

func (f *fakeIndex) Put(path string, size int64, mtime time.Time, members []archive.Member) {
	f.puts++
	if f.data == nil {
		f.data = make(map[string][]archive.Member)
	}
	f.data[indexKey(path, size, mtime)] = members
}

func TestWalkMemberIndex(t *testing.T) {
	dir := buildTree(t)
	zipPath := filepath.Join(dir, "z.zip")

	idx := &fakeIndex{}
	first, err := collectWalk(t, []string{zipPath}, matchAll, Policy{Index: idx})
	require.NoError(t, err)
	assert.Equal(t, 1, idx.puts, "a clean enumeration lands in the index")
	require.Len(t, first, 3)

	second, err := collectWalk(t, []string{zipPath}, matchAll, Policy{Index: idx})
	require.NoError(t, err)
	assert.Equal(t, 1, idx.puts, "the second walk is served from the index")
	assert.Equal(t, paths(first), paths(second))
}

func TestWalkMemberIndexServesListing(t *testing.T) {
	dir := buildTree(t)
	zipPath := filepath.Join(dir, "z.zip")
	info, err := os.Stat(zipPath)
	require.NoError(t, err)

	// Seed a listing that disagrees with the zip on disk; seeing it come back
	// proves the walker trusted the index over the file.
	idx := &fakeIndex{data: map[string][]archive.Member{
		indexKey(zipPath, info.Size(), info.ModTime()): {
			{Name: "ghost.txt", Size: 5},
		},
	}}

	got, err := collectWalk(t, []string{zipPath}, `archive is not null`, Policy{Index: idx})
	require.NoError(t, err)
	assert.Equal(t, []string{zipPath + "//ghost.txt"}, paths(got))
	assert.Zero(t, idx.puts)
}

func TestWalkSymlinksUnfollowed(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("symlink creation needs privileges on windows")
	}
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "f.txt"), []byte("ff"), 0o644))
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "d"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "d", "inner.txt"), []byte("ii"), 0o644))
	require.NoError(t, os.Symlink(filepath.Join(dir, "f.txt"), filepath.Join(dir, "lf")))
	require.NoError(t, os.Symlink(filepath.Join(dir, "d"), filepath.Join(dir, "ld")))

	got, err := collectWalk(t, []string{dir}, matchAll, Policy{})
	require.NoError(t, err)

	types := make(map[string]string, len(got))
	for _, m := range got {
		types[m.Path] = m.Type
	}
	assert.Equal(t, "link", types[filepath.Join(dir, "lf")])
	assert.Equal(t, "link", types[filepath.Join(dir, "ld")])
	assert.NotContains(t, types, filepath.Join(dir, "ld", "inner.txt"),
		"unfollowed links are not descended")
}

func TestWalkSymlinksFollowed(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("symlink creation needs privileges on windows")
	}
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "f.txt"), []byte("ff"), 0o644))
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "d"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "d", "inner.txt"), []byte("ii"), 0o644))
	require.NoError(t, os.Symlink(filepath.Join(dir, "f.txt"), filepath.Join(dir, "lf")))
	// Cycle back up to the root.
	require.NoError(t, os.Symlink(dir, filepath.Join(dir, "d", "back")))

	got, err := collectWalk(t, []string{dir}, matchAll, Policy{FollowSymlinks: true})
	require.NoError(t, err, "the visited set must break the cycle")

	types := make(map[string]string, len(got))
	for _, m := range got {
		types[m.Path] = m.Type
	}
	assert.Equal(t, "file", types[filepath.Join(dir, "lf")], "followed links take the target's type")
	assert.Contains(t, types, filepath.Join(dir, "d", "inner.txt"))
	assert.NotContains(t, types, filepath.Join(dir, "d", "back"),
		"a directory already walked is not re-entered")
}

func TestWalkBrokenSymlinkFollowed(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("symlink creation needs privileges on windows")
	}
	dir := t.TempDir()
	require.NoError(t, os.Symlink(filepath.Join(dir, "gone"), filepath.Join(dir, "broken")))

	got, err := collectWalk(t, []string{dir}, matchAll, Policy{FollowSymlinks: true})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "link", got[0].Type, "a broken link keeps its own identity")
}
