// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

//go:build !unix

package find

import "io/fs"

func fileIDOf(path string, _ fs.FileInfo) (fileID, bool) {
	return canonicalID(path)
}
