// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

//go:build unix

package find

import (
	"io/fs"
	"strconv"
	"syscall"
)

func fileIDOf(path string, info fs.FileInfo) (fileID, bool) {
	if st, ok := info.Sys().(*syscall.Stat_t); ok {
		id := strconv.FormatUint(uint64(st.Dev), 16) + ":" +
			strconv.FormatUint(uint64(st.Ino), 16)
		return fileID(id), true
	}
	return canonicalID(path)
}
