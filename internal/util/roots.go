// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package util

import (
	"os"
	"path/filepath"
	"strings"
)

// ExpandRoot resolves one search root to an absolute path. A leading ~ or
// ~/ expands to the user's home directory, relative paths resolve against
// the CWD, and the entry must exist. Files are legal roots (the file itself
// becomes a candidate row), so only existence is checked, not directoriness.
func ExpandRoot(root string) (string, error) {

	if root == "" {
		return "", os.ErrInvalid
	}

	// First, expand a leading tilde. We deliberately do not expand ~user
	// forms; the shell does that before we ever see the arg.
	if root == "~" || strings.HasPrefix(root, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		root = filepath.Join(home, root[1:])
	}

	// Now make a relative root absolute against the CWD.
	if !filepath.IsAbs(root) {
		cwd, err := os.Getwd()
		if err != nil {
			return "", err
		}
		root = filepath.Join(cwd, root)
	}
	root = filepath.Clean(root)

	// The root must exist; whether it is a file or a directory is the
	// walker's business.
	if _, err := os.Stat(root); err != nil {
		return "", err
	}

	return root, nil
}

// ExpandRoots resolves each root in order, preserving order and duplicates.
// The first bad root fails the whole set.
func ExpandRoots(roots []string) ([]string, error) {
	out := make([]string, 0, len(roots))
	for _, r := range roots {
		expanded, err := ExpandRoot(r)
		if err != nil {
			return nil, err
		}
		out = append(out, expanded)
	}
	return out, nil
}
