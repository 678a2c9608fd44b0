// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

package find

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNewMatch(t *testing.T) {
	fi := &FileInfo{
		Name:      "readme.md",
		Path:      "/data/backup.zip//docs/readme.md",
		Size:      2048,
		ModTime:   time.Date(2026, 8, 20, 9, 15, 30, 0, time.UTC),
		Type:      TypeFile,
		Archive:   "zip",
		Container: "/data/backup.zip",
	}
	m := newMatch(fi)

	assert.Equal(t, "readme.md", m.Name)
	assert.Equal(t, "2026-08-20", m.MtimeDate)
	assert.Equal(t, "09:15:30", m.MtimeTime)
	assert.Equal(t, "md", m.Ext)
	assert.Equal(t, "zip", m.Archive)
	assert.Equal(t, "/data/backup.zip", m.Container)

	unknown := newMatch(&FileInfo{Name: "x", Path: "/x", Type: TypeFile})
	assert.Empty(t, unknown.MtimeDate)
	assert.Empty(t, unknown.MtimeTime)
}

func TestMatchFieldAndMap(t *testing.T) {
	m := Match{Name: "a.txt", Path: "/t/a.txt", Size: 7, Type: "file", Ext: "txt", Ext2: "txt"}

	assert.Equal(t, "a.txt", m.Field("name"))
	assert.Equal(t, int64(7), m.Field("size"))
	assert.Nil(t, m.Field("nope"))

	row := m.Map()
	assert.Len(t, row, len(Columns))
	for _, c := range Columns {
		assert.Contains(t, row, c)
	}
	assert.Equal(t, "/t/a.txt", row["path"])
}
