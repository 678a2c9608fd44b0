// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package indexcache

import (
	"crypto/md5"
	"database/sql"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite" // registers the "sqlite" driver

	"github.com/findq/findq/internal/archive"
	"github.com/findq/findq/internal/cacheutil"
	"github.com/findq/findq/internal/find"
	"github.com/findq/findq/internal/log"
)

// artifactName is the index database's filename under the cache directory.
const artifactName = "index.db"

const ddl = `
CREATE TABLE IF NOT EXISTS archive_index (
	path     TEXT PRIMARY KEY,
	checksum TEXT NOT NULL,
	scanned  TEXT NOT NULL,
	members  TEXT NOT NULL
);`

// memberRecord is the stored member shape. An unknown mtime is stored as 0.
type memberRecord struct {
	Name  string `json:"name"`
	Size  int64  `json:"size"`
	Mtime int64  `json:"mtime"`
}

// Index persists archive member listings in a SQLite file under the cache
// directory, so re-walking an unchanged container skips reopening it. A
// broken index disables itself after one warning instead of failing the
// walk.
type Index struct {
	db       *sql.DB
	disabled bool
}

var _ find.MemberIndex = (*Index)(nil)

// Open resolves the index under the cache directory. The second result is
// false when caching is disabled or no usable location exists; callers then
// walk without an index.
func Open() (*Index, bool) {
	if !cacheutil.Enabled() {
		return nil, false
	}
	if _, ok, err := cacheutil.EnsureBaseDir(); err != nil || !ok {
		return nil, false
	}
	p, _ := cacheutil.ArtifactPath(artifactName)
	ix, err := OpenAt(p)
	if err != nil {
		log.Warnf("archive index unavailable: %v", err)
		return nil, false
	}
	return ix, true
}

// OpenAt opens or creates the index database at an explicit path.
func OpenAt(path string) (*Index, error) {
	db, err := sql.Open("sqlite", path+"?_busy_timeout=5000")
	if err != nil {
		return nil, err
	}
	if _, err := db.Exec(ddl); err != nil {
		_ = db.Close()
		return nil, err
	}
	_, _ = db.Exec("PRAGMA journal_mode=WAL;")
	return &Index{db: db}, nil
}

// Close releases the database handle.
func (ix *Index) Close() error {
	return ix.db.Close()
}

// Get returns the stored member listing when the container's fingerprint
// still matches its current size and mtime. A stale or missing row is a
// miss, never an error.
func (ix *Index) Get(path string, size int64, mtime time.Time) ([]archive.Member, bool) {
	if ix.disabled {
		return nil, false
	}

	var checksum, members string
	err := ix.db.QueryRow(
		"SELECT checksum, members FROM archive_index WHERE path = ?", path,
	).Scan(&checksum, &members)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false
	}
	if err != nil {
		ix.fail(err)
		return nil, false
	}
	if checksum != fingerprint(path, size, mtime) {
		return nil, false
	}

	var records []memberRecord
	if err := json.Unmarshal([]byte(members), &records); err != nil {
		ix.fail(err)
		return nil, false
	}
	out := make([]archive.Member, len(records))
	for i, r := range records {
		m := archive.Member{Name: r.Name, Size: r.Size}
		if r.Mtime != 0 {
			m.ModTime = time.Unix(0, r.Mtime)
		}
		out[i] = m
	}
	return out, true
}

// Put replaces the stored listing for a container.
func (ix *Index) Put(path string, size int64, mtime time.Time, members []archive.Member) {
	if ix.disabled {
		return
	}

	records := make([]memberRecord, len(members))
	for i, m := range members {
		r := memberRecord{Name: m.Name, Size: m.Size}
		if !m.ModTime.IsZero() {
			r.Mtime = m.ModTime.UnixNano()
		}
		records[i] = r
	}
	blob, err := json.Marshal(records)
	if err != nil {
		ix.fail(err)
		return
	}

	_, err = ix.db.Exec(
		`INSERT INTO archive_index (path, checksum, scanned, members)
		 VALUES (?, ?, ?, ?)
		 ON CONFLICT(path) DO UPDATE SET
			checksum = excluded.checksum,
			scanned  = excluded.scanned,
			members  = excluded.members`,
		path, fingerprint(path, size, mtime), time.Now().Format(time.RFC3339), string(blob),
	)
	if err != nil {
		ix.fail(err)
	}
}

// fail logs the first problem and disables the index for the rest of the
// run. The walk itself must never depend on the index being healthy.
func (ix *Index) fail(err error) {
	if !ix.disabled {
		log.Warnf("archive index disabled: %v", err)
		ix.disabled = true
	}
}

// fingerprint identifies a container state by path, size and mtime.
func fingerprint(path string, size int64, mtime time.Time) string {
	sum := md5.Sum([]byte(fmt.Sprintf("%s:%d:%d", path, size, mtime.UnixNano())))
	return hex.EncodeToString(sum[:])
}
