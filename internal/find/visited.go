// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package find

import (
	"io/fs"
	"path/filepath"
)

// fileID identifies a directory for cycle detection while following
// symlinks: device and inode where the platform exposes them, otherwise the
// fully resolved path.
type fileID string

// markVisited records a directory as walked. It returns false when the
// directory was already walked through another link. Without symlink
// following there is no visited set and every directory is fresh.
func (w *Walker) markVisited(path string, info fs.FileInfo) bool {
	if w.visited == nil {
		return true
	}
	id, ok := fileIDOf(path, info)
	if !ok {
		return true
	}
	if _, seen := w.visited[id]; seen {
		return false
	}
	w.visited[id] = struct{}{}
	return true
}

func canonicalID(path string) (fileID, bool) {
	resolved, err := filepath.EvalSymlinks(path)
	if err != nil {
		return "", false
	}
	return fileID(resolved), true
}
