// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package find

// Columns is the canonical attribute order of a match record. CSV headers
// and the long listing use exactly these names in exactly this order.
var Columns = []string{
	"name", "path", "container", "size", "mtime_date", "mtime_time",
	"ext", "ext2", "type", "archive",
}

// Match is an immutable snapshot of one matching row. MtimeDate and
// MtimeTime are empty when the modification time is unknown; Container and
// Archive are empty for filesystem rows.
type Match struct {
	Name      string
	Path      string
	Container string
	Size      int64
	MtimeDate string
	MtimeTime string
	Ext       string
	Ext2      string
	Type      string
	Archive   string
}

func newMatch(fi *FileInfo) Match {
	m := Match{
		Name:      fi.Name,
		Path:      fi.Path,
		Container: fi.Container,
		Size:      fi.Size,
		Ext:       fi.Ext(),
		Ext2:      fi.Ext2(),
		Type:      string(fi.Type),
		Archive:   fi.Archive,
	}
	if !fi.ModTime.IsZero() {
		m.MtimeDate = fi.ModTime.Format(dateLayout)
		m.MtimeTime = fi.ModTime.Format(timeLayout)
	}
	return m
}

// Field returns the column value by its canonical name, nil for names
// outside Columns.
func (m Match) Field(name string) any {
	switch name {
	case "name":
		return m.Name
	case "path":
		return m.Path
	case "container":
		return m.Container
	case "size":
		return m.Size
	case "mtime_date":
		return m.MtimeDate
	case "mtime_time":
		return m.MtimeTime
	case "ext":
		return m.Ext
	case "ext2":
		return m.Ext2
	case "type":
		return m.Type
	case "archive":
		return m.Archive
	}
	return nil
}

// Map renders the match as a loosely-typed row for the output pipeline,
// keyed by the Columns names.
func (m Match) Map() map[string]any {
	row := make(map[string]any, len(Columns))
	for _, c := range Columns {
		row[c] = m.Field(c)
	}
	return row
}
