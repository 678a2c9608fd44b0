// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package find

import (
	"strings"
	"time"

	"github.com/findq/findq/internal/filter"
)

const (
	dateLayout = "2006-01-02"
	timeLayout = "15:04:05"
)

// EntryType classifies a candidate row.
type EntryType string

const (
	TypeFile EntryType = "file"
	TypeDir  EntryType = "dir"
	TypeLink EntryType = "link"
)

// FileInfo is the raw material of one candidate row. Directory rows carry
// Size 0. Archive member rows carry the container's kind in Archive and the
// container's filesystem path in Container; filesystem rows leave both empty.
type FileInfo struct {
	Name      string
	Path      string
	Size      int64
	ModTime   time.Time
	Type      EntryType
	Archive   string
	Container string
}

// Ext returns the extension after the last dot, lowercased, without the dot.
// Dotfiles like ".bashrc" have no extension.
func (fi *FileInfo) Ext() string {
	name := strings.ToLower(fi.Name)
	idx := strings.LastIndexByte(name, '.')
	if idx <= 0 {
		return ""
	}
	return name[idx+1:]
}

// compoundExts are the recognized two-part extensions ext2 reports.
var compoundExts = [...]string{"tar.gz", "tar.bz2", "tar.xz"}

// Ext2 returns the recognized compound extension when the name carries one,
// otherwise it equals Ext. "backup.tar.gz" has ext "gz" and ext2 "tar.gz";
// "notes.txt" has "txt" for both.
func (fi *FileInfo) Ext2() string {
	name := strings.ToLower(fi.Name)
	for _, c := range compoundExts {
		if strings.HasSuffix(name, "."+c) && len(name) > len(c)+1 {
			return c
		}
	}
	return fi.Ext()
}

// Row adapts a FileInfo plus the walk's date anchors to the filter's
// evaluation interface. Attributes a row does not carry — archive and
// container on filesystem rows, date and time when the mtime is unknown —
// evaluate to Null so IS NULL can see them.
type Row struct {
	Info    *FileInfo
	Anchors *Anchors
}

var _ filter.Row = Row{}

// Lookup resolves an identifier to the row's value.
func (r Row) Lookup(name string) filter.Value {
	switch name {
	case "name":
		return filter.Text(r.Info.Name)
	case "path":
		return filter.Text(r.Info.Path)
	case "size":
		return filter.Int(r.Info.Size)
	case "date":
		if r.Info.ModTime.IsZero() {
			return filter.Null
		}
		return filter.Text(r.Info.ModTime.Format(dateLayout))
	case "time":
		if r.Info.ModTime.IsZero() {
			return filter.Null
		}
		return filter.Text(r.Info.ModTime.Format(timeLayout))
	case "ext":
		return filter.Text(r.Info.Ext())
	case "ext2":
		return filter.Text(r.Info.Ext2())
	case "type":
		return filter.Text(string(r.Info.Type))
	case "archive":
		if r.Info.Archive == "" {
			return filter.Null
		}
		return filter.Text(r.Info.Archive)
	case "container":
		if r.Info.Container == "" {
			return filter.Null
		}
		return filter.Text(r.Info.Container)
	default:
		if r.Anchors != nil {
			if v, ok := r.Anchors.Lookup(name); ok {
				return v
			}
		}
		return filter.Null
	}
}
