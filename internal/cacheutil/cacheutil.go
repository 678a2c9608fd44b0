// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package cacheutil

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/findq/findq/internal/log"
)

// Entry represents a cached artifact on disk. findq keeps a handful of
// well-known artifacts (the last-result snapshot, the console history, the
// archive member index), so the artifact name is the filename; there is no
// key hashing.
type Entry struct {
	Name string
	Path string
	Data []byte
}

// Dir resolves the base cache directory.
// Precedence:
//  1. FINDQ_CACHE_DIR, if set and non-empty
//  2. os.UserCacheDir()/findq
//
// Returns ("", false) if a base cannot be resolved (treat as disabled).
func Dir() (string, bool) {
	if c, ok := os.LookupEnv("FINDQ_CACHE_DIR"); ok && c != "" {
		return c, true
	}
	if dir, err := os.UserCacheDir(); err == nil && dir != "" {
		return filepath.Join(dir, "findq"), true
	}
	return "", false
}

// Enabled returns true unless FINDQ_CACHE explicitly disables it
// ("0"/"false"/"off").
func Enabled() bool {
	enabled, _ := os.LookupEnv("FINDQ_CACHE")
	return enabled != "0" && enabled != "false" && enabled != "off"
}

// EnsureBaseDir creates the base cache directory if caching is enabled and
// a base path can be resolved. Returns the path, whether it is usable, and an
// error if creation failed.
func EnsureBaseDir() (string, bool, error) {
	if !Enabled() {
		return "", false, nil
	}

	base, ok := Dir()
	if !ok {
		return "", false, nil
	}

	if err := os.MkdirAll(base, 0o755); err != nil { //nolint:mnd
		return base, false, fmt.Errorf("failed to create cache base directory: %w", err)
	}
	log.Debugf("created cache dir: path=%s", base)
	return base, true, nil
}

// ArtifactPath returns the absolute path where a named artifact would live.
// It also returns true if a file currently exists at that path.
func ArtifactPath(name string) (string, bool) {
	base, ok := Dir()
	if !ok {
		return "", false
	}
	p := filepath.Join(base, name)
	if _, err := os.Stat(p); err == nil {
		return p, true
	}
	return p, false
}

// Purge removes files older than the provided number of hours.
// If hours <= 0 or the cache dir cannot be resolved, it is a no-op.
func Purge(hours int) error {
	if hours <= 0 {
		log.Debug("cache cleaning disabled")
		return nil
	}

	base, ok := Dir()
	if !ok {
		return nil
	}

	maxAge := time.Duration(hours) * time.Hour
	if err := filepath.Walk(base, func(path string, info os.FileInfo, walkErr error) error {
		// Guard against nil info (can occur if the file disappeared while
		// concurrent runs raced on the same cache entries).
		if walkErr != nil {
			if os.IsNotExist(walkErr) {
				return nil
			}
			return walkErr
		}

		if info == nil {
			return nil
		}

		if !info.IsDir() && time.Since(info.ModTime()) > maxAge {
			if err := os.Remove(path); err == nil {
				log.Debugf("removed cache file %s", path)
			} else {
				log.WithError(err).Warnf("failed to remove cache file %s", path)
			}
		}
		return nil
	}); err != nil {
		return fmt.Errorf("failed to purge cache: %w", err)
	}
	return nil
}

// Read attempts to read a cached artifact.
func Read(name string) (*Entry, bool) {
	if !Enabled() {
		return nil, false
	}
	p, ok := ArtifactPath(name)
	if !ok {
		return nil, false
	}
	b, err := os.ReadFile(p)
	if err != nil {
		return nil, false
	}
	b = bytes.TrimSpace(b)
	log.Debugf("cache hit: name=%s", name)
	return &Entry{
		Name: name,
		Path: p,
		Data: b,
	}, true
}

// Write stores data for the named artifact. Creates the base directory as
// needed.
func Write(name string, data []byte) error {
	if !Enabled() {
		return nil // treat as disabled.
	}
	base, ok := Dir()
	if !ok {
		return nil // treat as disabled.
	}
	if err := os.MkdirAll(base, 0o755); err != nil { //nolint:mnd
		return fmt.Errorf("failed to create cache directory: %w", err)
	}
	p := filepath.Join(base, name)
	if err := os.WriteFile(p, data, os.FileMode(0o600)); err != nil { //nolint:mnd
		return fmt.Errorf("failed to write to cache: %w", err)
	}
	log.Debugf("cache write: name=%s", name)
	return nil
}
