// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

package resultcache

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/findq/findq/internal/find"
)

func TestSaveAndLoad(t *testing.T) {
	t.Setenv("FINDQ_CACHE_DIR", t.TempDir())
	t.Setenv("FINDQ_CACHE", "1")

	matches := []find.Match{
		{Name: "a.txt", Path: "/tmp/a.txt", Size: 100, Type: "file", Ext: "txt", Ext2: "txt",
			MtimeDate: "2026-08-20", MtimeTime: "09:15:30"},
		{Name: "readme.md", Path: "/tmp/z.zip//readme.md", Size: 0, Type: "file",
			Ext: "md", Ext2: "md", Archive: "zip", Container: "/tmp/z.zip"},
	}
	meta := Metadata{Where: `ext = "txt"`, Paths: []string{"/tmp"}, ArchivesOnly: false}

	require.NoError(t, Save(matches, meta))

	snap, ok := Load()
	require.True(t, ok)
	assert.NotEmpty(t, snap.Timestamp)
	assert.Equal(t, 2, snap.Count)
	assert.Equal(t, meta, snap.Metadata)
	require.Len(t, snap.Files, 2)

	// JSON round-trips numbers as float64.
	assert.Equal(t, "a.txt", snap.Files[0]["name"])
	assert.Equal(t, float64(100), snap.Files[0]["size"])
	assert.Equal(t, "zip", snap.Files[1]["archive"])
	assert.Equal(t, "/tmp/z.zip", snap.Files[1]["container"])
}

func TestLoadMissing(t *testing.T) {
	t.Setenv("FINDQ_CACHE_DIR", t.TempDir())
	t.Setenv("FINDQ_CACHE", "1")

	snap, ok := Load()
	assert.False(t, ok)
	assert.Nil(t, snap)
}

func TestLoadCorrupt(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("FINDQ_CACHE_DIR", dir)
	t.Setenv("FINDQ_CACHE", "1")

	require.NoError(t, os.WriteFile(filepath.Join(dir, "last_result.json"),
		[]byte("this is not json"), 0o600))

	snap, ok := Load()
	assert.False(t, ok)
	assert.Nil(t, snap)
}

func TestSaveDisabled(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("FINDQ_CACHE_DIR", dir)
	t.Setenv("FINDQ_CACHE", "0")

	require.NoError(t, Save([]find.Match{{Name: "x"}}, Metadata{}))
	assert.NoFileExists(t, filepath.Join(dir, "last_result.json"))
}

func TestSaveEmptyResult(t *testing.T) {
	t.Setenv("FINDQ_CACHE_DIR", t.TempDir())
	t.Setenv("FINDQ_CACHE", "1")

	require.NoError(t, Save(nil, Metadata{Where: "size > 1g"}))

	snap, ok := Load()
	require.True(t, ok)
	assert.Zero(t, snap.Count)
	assert.Empty(t, snap.Files)
	assert.Equal(t, "size > 1g", snap.Metadata.Where)
}
