// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

package cacheutil

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestDir_WithFINDQ_CACHE_DIR verifies Dir() respects FINDQ_CACHE_DIR
// environment variable with highest priority.
func TestDir_WithFINDQ_CACHE_DIR(t *testing.T) {
	customDir := t.TempDir()
	t.Setenv("FINDQ_CACHE_DIR", customDir)

	result, ok := Dir()

	assert.True(t, ok)
	assert.Equal(t, customDir, result)
}

// TestDir_WithoutFINDQ_CACHE_DIR verifies Dir() falls back to
// os.UserCacheDir/findq when the env var is not set.
func TestDir_WithoutFINDQ_CACHE_DIR(t *testing.T) {
	t.Setenv("FINDQ_CACHE_DIR", "")

	result, ok := Dir()

	// Result depends on the system, but should be usable when resolved.
	if ok {
		assert.NotEmpty(t, result)
		assert.True(t, filepath.IsAbs(result))
	}
}

// TestEnabled verifies caching is on by default and FINDQ_CACHE turns it
// off with "0", "false" or "off" only.
func TestEnabled(t *testing.T) {
	tests := []struct {
		name     string
		value    string
		expected bool
	}{
		{"default", "", true},
		{"one", "1", true},
		{"true", "true", true},
		{"yes", "yes", true},
		{"zero", "0", false},
		{"false", "false", false},
		{"off", "off", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("FINDQ_CACHE", tt.value)
			assert.Equal(t, tt.expected, Enabled())
		})
	}
}

// TestEnsureBaseDir_CachingDisabled verifies EnsureBaseDir returns empty
// when caching is disabled.
func TestEnsureBaseDir_CachingDisabled(t *testing.T) {
	t.Setenv("FINDQ_CACHE", "0")

	base, ok, err := EnsureBaseDir()

	assert.False(t, ok)
	assert.Empty(t, base)
	assert.NoError(t, err)
}

// TestEnsureBaseDir_CreatesDirectory verifies EnsureBaseDir creates the
// cache directory when it doesn't exist.
func TestEnsureBaseDir_CreatesDirectory(t *testing.T) {
	tmpDir := t.TempDir()
	cacheDir := filepath.Join(tmpDir, "cache", "nested")
	t.Setenv("FINDQ_CACHE_DIR", cacheDir)
	t.Setenv("FINDQ_CACHE", "1")

	assert.NoFileExists(t, cacheDir)

	base, ok, err := EnsureBaseDir()

	assert.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, cacheDir, base)
	assert.DirExists(t, cacheDir)
}

// TestArtifactPath_NonexistentArtifact verifies ArtifactPath returns the
// computed path and false when no file exists there yet.
func TestArtifactPath_NonexistentArtifact(t *testing.T) {
	tmpDir := t.TempDir()
	t.Setenv("FINDQ_CACHE_DIR", tmpDir)

	path, exists := ArtifactPath("last_result.json")

	assert.False(t, exists)
	assert.Equal(t, filepath.Join(tmpDir, "last_result.json"), path)
}

// TestArtifactPath_ExistingArtifact verifies ArtifactPath reports an
// existing file.
func TestArtifactPath_ExistingArtifact(t *testing.T) {
	tmpDir := t.TempDir()
	t.Setenv("FINDQ_CACHE_DIR", tmpDir)

	filePath := filepath.Join(tmpDir, "history")
	require.NoError(t, os.WriteFile(filePath, []byte("data"), 0o600))

	path, exists := ArtifactPath("history")

	assert.True(t, exists)
	assert.Equal(t, filePath, path)
}

// TestRead_CachingDisabled verifies Read returns false when caching is
// disabled.
func TestRead_CachingDisabled(t *testing.T) {
	t.Setenv("FINDQ_CACHE", "0")

	entry, found := Read("history")

	assert.False(t, found)
	assert.Nil(t, entry)
}

// TestRead_FileNotFound verifies Read returns false when the artifact
// doesn't exist.
func TestRead_FileNotFound(t *testing.T) {
	tmpDir := t.TempDir()
	t.Setenv("FINDQ_CACHE_DIR", tmpDir)
	t.Setenv("FINDQ_CACHE", "1")

	entry, found := Read("nonexistent")

	assert.False(t, found)
	assert.Nil(t, entry)
}

// TestRead_SuccessfulRead verifies Read returns a populated Entry and trims
// surrounding whitespace.
func TestRead_SuccessfulRead(t *testing.T) {
	tmpDir := t.TempDir()
	t.Setenv("FINDQ_CACHE_DIR", tmpDir)
	t.Setenv("FINDQ_CACHE", "1")

	filePath := filepath.Join(tmpDir, "last_result.json")
	require.NoError(t, os.WriteFile(filePath, []byte("  {\"count\": 1}\n"), 0o600))

	entry, found := Read("last_result.json")

	assert.True(t, found)
	require.NotNil(t, entry)
	assert.Equal(t, "last_result.json", entry.Name)
	assert.Equal(t, filePath, entry.Path)
	assert.Equal(t, []byte(`{"count": 1}`), entry.Data)
}

// TestWrite_RoundTrip verifies Write stores data that Read returns, with
// user-only permissions.
func TestWrite_RoundTrip(t *testing.T) {
	tmpDir := t.TempDir()
	cacheDir := filepath.Join(tmpDir, "not-yet-created")
	t.Setenv("FINDQ_CACHE_DIR", cacheDir)
	t.Setenv("FINDQ_CACHE", "1")

	data := []byte("line one\nline two")
	require.NoError(t, Write("history", data))

	filePath := filepath.Join(cacheDir, "history")
	assert.FileExists(t, filePath)

	info, err := os.Stat(filePath)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	entry, found := Read("history")
	assert.True(t, found)
	assert.Equal(t, data, entry.Data)
}

// TestWrite_CachingDisabled verifies Write is a no-op when caching is
// disabled.
func TestWrite_CachingDisabled(t *testing.T) {
	tmpDir := t.TempDir()
	t.Setenv("FINDQ_CACHE_DIR", tmpDir)
	t.Setenv("FINDQ_CACHE", "0")

	assert.NoError(t, Write("history", []byte("data")))
	assert.NoFileExists(t, filepath.Join(tmpDir, "history"))
}

// TestWrite_OverwritesExisting verifies Write replaces an existing
// artifact.
func TestWrite_OverwritesExisting(t *testing.T) {
	tmpDir := t.TempDir()
	t.Setenv("FINDQ_CACHE_DIR", tmpDir)
	t.Setenv("FINDQ_CACHE", "1")

	require.NoError(t, Write("last_result.json", []byte("old")))
	require.NoError(t, Write("last_result.json", []byte("new")))

	content, err := os.ReadFile(filepath.Join(tmpDir, "last_result.json"))
	require.NoError(t, err)
	assert.Equal(t, []byte("new"), content)
}

// TestPurge_DisabledWithZeroHours verifies Purge is a no-op when hours <= 0.
func TestPurge_DisabledWithZeroHours(t *testing.T) {
	tmpDir := t.TempDir()
	t.Setenv("FINDQ_CACHE_DIR", tmpDir)

	oldPath := filepath.Join(tmpDir, "old_file")
	require.NoError(t, os.WriteFile(oldPath, []byte("data"), 0o600))

	assert.NoError(t, Purge(0))
	assert.FileExists(t, oldPath)
}

// TestPurge_MixedAges verifies Purge removes only files older than the
// cutoff, including in nested directories.
func TestPurge_MixedAges(t *testing.T) {
	tmpDir := t.TempDir()
	t.Setenv("FINDQ_CACHE_DIR", tmpDir)

	nestedDir := filepath.Join(tmpDir, "nested")
	require.NoError(t, os.MkdirAll(nestedDir, 0o755))

	oldPath := filepath.Join(nestedDir, "old")
	require.NoError(t, os.WriteFile(oldPath, []byte("old"), 0o600))
	pastTime := time.Now().Add(-3 * time.Hour)
	require.NoError(t, os.Chtimes(oldPath, pastTime, pastTime))

	recentPath := filepath.Join(tmpDir, "recent")
	require.NoError(t, os.WriteFile(recentPath, []byte("recent"), 0o600))

	assert.NoError(t, Purge(1))
	assert.NoFileExists(t, oldPath)
	assert.FileExists(t, recentPath)
}
