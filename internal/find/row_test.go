// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

package find

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/findq/findq/internal/filter"
)

func TestExt(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{"README.md", "md"},
		{"archive.tar.gz", "gz"},
		{"UPPER.TXT", "txt"},
		{"a.b.c", "c"},
		{".bashrc", ""},
		{"Makefile", ""},
		{"trailing.", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fi := &FileInfo{Name: tt.name}
			assert.Equal(t, tt.want, fi.Ext())
		})
	}
}

func TestExt2(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{"backup.tar.gz", "tar.gz"},
		{"backup.TAR.GZ", "tar.gz"},
		{"logs.tar.bz2", "tar.bz2"},
		{"logs.tar.xz", "tar.xz"},
		{"quick.tgz", "tgz"},
		{"notes.txt", "txt"},
		{".tar.gz", "gz"}, // dotfile, not a compound extension
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fi := &FileInfo{Name: tt.name}
			assert.Equal(t, tt.want, fi.Ext2())
		})
	}
}

func TestAnchors(t *testing.T) {
	// 2026-08-25 is a Tuesday.
	now := time.Date(2026, 8, 25, 12, 0, 0, 0, time.UTC)
	a := NewAnchors(now)

	tests := []struct {
		ident string
		want  string
	}{
		{"today", "2026-08-25"},
		{"tu", "2026-08-25"},
		{"mo", "2026-08-24"},
		{"su", "2026-08-23"},
		{"sa", "2026-08-22"},
		{"fr", "2026-08-21"},
		{"th", "2026-08-20"},
		{"we", "2026-08-19"},
	}
	for _, tt := range tests {
		t.Run(tt.ident, func(t *testing.T) {
			v, ok := a.Lookup(tt.ident)
			assert.True(t, ok)
			assert.Equal(t, tt.want, v.Text())
		})
	}

	_, ok := a.Lookup("name")
	assert.False(t, ok, "non-anchor idents are not the anchors' business")
}

func TestRowLookup(t *testing.T) {
	mtime := time.Date(2026, 8, 20, 9, 15, 30, 0, time.UTC)
	anchors := NewAnchors(time.Date(2026, 8, 25, 12, 0, 0, 0, time.UTC))

	member := Row{
		Info: &FileInfo{
			Name:      "readme.md",
			Path:      "/data/backup.zip//docs/readme.md",
			Size:      2048,
			ModTime:   mtime,
			Type:      TypeFile,
			Archive:   "zip",
			Container: "/data/backup.zip",
		},
		Anchors: anchors,
	}

	assert.Equal(t, "readme.md", member.Lookup("name").Text())
	assert.Equal(t, "/data/backup.zip//docs/readme.md", member.Lookup("path").Text())
	assert.Equal(t, int64(2048), member.Lookup("size").Int())
	assert.Equal(t, "2026-08-20", member.Lookup("date").Text())
	assert.Equal(t, "09:15:30", member.Lookup("time").Text())
	assert.Equal(t, "md", member.Lookup("ext").Text())
	assert.Equal(t, "md", member.Lookup("ext2").Text())
	assert.Equal(t, "file", member.Lookup("type").Text())
	assert.Equal(t, "zip", member.Lookup("archive").Text())
	assert.Equal(t, "/data/backup.zip", member.Lookup("container").Text())
	assert.Equal(t, "2026-08-25", member.Lookup("today").Text())
	assert.True(t, member.Lookup("bogus").IsNull())

	plain := Row{
		Info:    &FileInfo{Name: "notes.txt", Path: "/tmp/notes.txt", Type: TypeFile},
		Anchors: anchors,
	}
	assert.True(t, plain.Lookup("archive").IsNull(), "filesystem rows have no archive")
	assert.True(t, plain.Lookup("container").IsNull())
	assert.True(t, plain.Lookup("date").IsNull(), "zero mtime leaves date unknown")
	assert.True(t, plain.Lookup("time").IsNull())
}

func TestRowAgainstFilter(t *testing.T) {
	anchors := NewAnchors(time.Date(2026, 8, 25, 12, 0, 0, 0, time.UTC))
	row := Row{
		Info: &FileInfo{
			Name:    "Report.PDF",
			Path:    "/home/user/Report.PDF",
			Size:    1500,
			ModTime: time.Date(2026, 8, 24, 18, 0, 0, 0, time.UTC),
			Type:    TypeFile,
		},
		Anchors: anchors,
	}

	tests := []struct {
		query string
		want  bool
	}{
		{`name = "report.pdf"`, true}, // name folds case
		{`ext = "pdf" and size = 1.5k`, true},
		{`date = mo`, true},
		{`date < today`, true},
		{`archive is null`, true},
		{`type = "dir"`, false},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			flt, err := filter.Compile(tt.query)
			assert.NoError(t, err)
			got, err := flt.Test(row)
			assert.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
