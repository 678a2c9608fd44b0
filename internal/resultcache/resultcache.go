// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package resultcache

import (
	"encoding/json"
	"time"

	"github.com/tidwall/gjson"

	"github.com/findq/findq/internal/cacheutil"
	"github.com/findq/findq/internal/find"
)

// artifactName is the snapshot's filename under the cache directory.
const artifactName = "last_result.json"

// Metadata records what produced a snapshot, so a later refine run can say
// which query it is refining.
type Metadata struct {
	Where        string   `json:"where"`
	Paths        []string `json:"paths"`
	ArchivesOnly bool     `json:"archives_only"`
}

// Snapshot is a loaded last-result document. Files rows are loosely typed
// maps keyed by the canonical column names; numbers come back as float64.
type Snapshot struct {
	Timestamp string
	Metadata  Metadata
	Count     int
	Files     []map[string]interface{}
}

// Save snapshots the matches with their metadata. A disabled or
// unresolvable cache is a silent no-op, like every other cache write.
func Save(matches []find.Match, meta Metadata) error {
	rows := make([]map[string]interface{}, 0, len(matches))
	for _, m := range matches {
		rows = append(rows, m.Map())
	}

	doc := map[string]interface{}{
		"timestamp": time.Now().Format(time.RFC3339),
		"metadata":  meta,
		"count":     len(rows),
		"files":     rows,
	}
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return err
	}
	return cacheutil.Write(artifactName, data)
}

// Load reads the snapshot back, if one exists. gjson pulls the pieces out
// without a rigid schema so the files rows stay loosely typed for the
// output pipeline.
func Load() (*Snapshot, bool) {
	entry, ok := cacheutil.Read(artifactName)
	if !ok {
		return nil, false
	}

	doc := gjson.ParseBytes(entry.Data)
	if !doc.IsObject() {
		return nil, false
	}

	snap := &Snapshot{
		Timestamp: doc.Get("timestamp").String(),
		Count:     int(doc.Get("count").Int()),
	}
	snap.Metadata.Where = doc.Get("metadata.where").String()
	snap.Metadata.ArchivesOnly = doc.Get("metadata.archives_only").Bool()
	for _, p := range doc.Get("metadata.paths").Array() {
		snap.Metadata.Paths = append(snap.Metadata.Paths, p.String())
	}

	for _, row := range doc.Get("files").Array() {
		if m, ok := row.Value().(map[string]interface{}); ok {
			snap.Files = append(snap.Files, m)
		}
	}
	return snap, true
}
